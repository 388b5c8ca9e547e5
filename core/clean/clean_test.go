package clean

import (
	"errors"
	"testing"
	"time"

	"github.com/abarry/gapcast/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var countCfg = schema.CleanCountsConfig{
	Columns:       schema.CountColumns{Household: "hh_number", Individual: "ind_number"},
	HouseholdSize: 5,
}

func countsRow(hh, ind schema.Int) schema.Record {
	return schema.Record{
		"hh_number":  schema.IntValue(hh),
		"ind_number": schema.IntValue(ind),
	}
}

// TestReconcileCounts tests the imputation and correction rules.
func TestReconcileCounts(t *testing.T) {
	tbl := schema.NewTable("hh_number", "ind_number")
	tbl.Append(countsRow(schema.Int{}, schema.SomeInt(30)))       // impute hh = 6
	tbl.Append(countsRow(schema.SomeInt(4), schema.Int{}))        // impute ind = 20
	tbl.Append(countsRow(schema.SomeInt(50), schema.SomeInt(40))) // hh > ind, correct hh = 8
	tbl.Append(countsRow(schema.Int{}, schema.Int{}))             // both stay missing
	tbl.Append(countsRow(schema.SomeInt(3), schema.SomeInt(18)))  // untouched

	out, err := ReconcileCounts(tbl, countCfg)
	require.NoError(t, err)

	assert.Equal(t, schema.SomeInt(6), out.Rows[0].Get("hh_number").Int())
	assert.Equal(t, schema.SomeInt(20), out.Rows[1].Get("ind_number").Int())
	assert.Equal(t, schema.SomeInt(8), out.Rows[2].Get("hh_number").Int())
	assert.False(t, out.Rows[3].Get("hh_number").Int().OK)
	assert.False(t, out.Rows[3].Get("ind_number").Int().OK)
	assert.Equal(t, schema.SomeInt(3), out.Rows[4].Get("hh_number").Int())

	// Invariant: household never exceeds individual once both are present.
	for _, row := range out.Rows {
		hh := row.Get("hh_number").Int()
		ind := row.Get("ind_number").Int()
		if hh.OK && ind.OK {
			assert.LessOrEqual(t, hh.V, ind.V)
		}
	}

	// Input table is untouched.
	assert.False(t, tbl.Rows[0].Get("hh_number").Int().OK)
}

// TestReconcileCountsBadConfig tests fail-fast validation.
func TestReconcileCountsBadConfig(t *testing.T) {
	tbl := schema.NewTable("hh_number", "ind_number")

	_, err := ReconcileCounts(tbl, schema.CleanCountsConfig{
		Columns:       countCfg.Columns,
		HouseholdSize: 0,
	})
	assert.True(t, errors.Is(err, schema.ErrInvalidConfiguration))

	_, err = ReconcileCounts(tbl, schema.CleanCountsConfig{
		Columns:       schema.CountColumns{Household: "households", Individual: "ind_number"},
		HouseholdSize: 5,
	})
	assert.True(t, errors.Is(err, schema.ErrMissingColumn))
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func datesRow(start, end schema.Date) schema.Record {
	return schema.Record{
		"start_date": schema.DateValueOpt(start),
		"end_date":   schema.DateValueOpt(end),
	}
}

// TestCleanDateGaps tests outlier gap replacement against the batch median.
func TestCleanDateGaps(t *testing.T) {
	cfg := schema.CleanDatesConfig{StartDate: "start_date", EndDate: "end_date"}

	base := day(2024, 1, 1)
	tbl := schema.NewTable("start_date", "end_date")
	tbl.Append(datesRow(schema.SomeDate(base), schema.SomeDate(base.AddDate(0, 0, 9))))
	tbl.Append(datesRow(schema.SomeDate(base), schema.SomeDate(base.AddDate(0, 0, 14))))
	tbl.Append(datesRow(schema.SomeDate(base), schema.SomeDate(base.AddDate(0, 0, 19))))
	tbl.Append(datesRow(schema.SomeDate(base), schema.Date{}))
	tbl.Append(datesRow(schema.SomeDate(base), schema.SomeDate(base.AddDate(0, 0, 2030)))) // data-entry outlier
	tbl.Append(datesRow(schema.Date{}, schema.Date{}))

	out, err := CleanDateGaps(tbl, cfg)
	require.NoError(t, err)

	// Corrected gaps: [9, 14, 19, NA, median, NA] with the 2030-day outlier
	// replaced. The batch median of [9, 14, 19, 2030] is 16.5, rounded to 17.
	wantGaps := []schema.Int{
		schema.SomeInt(9), schema.SomeInt(14), schema.SomeInt(19), {}, schema.SomeInt(17), {},
	}
	for i, row := range out.Rows {
		gap := row.Get("start_date").Date().DaysUntil(row.Get("end_date").Date())
		assert.Equal(t, wantGaps[i], gap, "row %d", i)
		if gap.OK {
			assert.LessOrEqual(t, gap.V, 5*365)
		}
	}
}

// TestCleanDateGapsNegative verifies that a negative gap is repaired from the
// median rather than producing an end before its start.
func TestCleanDateGapsNegative(t *testing.T) {
	cfg := schema.CleanDatesConfig{StartDate: "start_date", EndDate: "end_date"}

	base := day(2024, 3, 10)
	tbl := schema.NewTable("start_date", "end_date")
	tbl.Append(datesRow(schema.SomeDate(base), schema.SomeDate(base.AddDate(0, 0, 10))))
	tbl.Append(datesRow(schema.SomeDate(base), schema.SomeDate(base.AddDate(0, 0, 12))))
	tbl.Append(datesRow(schema.SomeDate(base), schema.SomeDate(base.AddDate(0, 0, -5))))

	out, err := CleanDateGaps(tbl, cfg)
	require.NoError(t, err)

	gap := out.Rows[2].Get("start_date").Date().DaysUntil(out.Rows[2].Get("end_date").Date())
	assert.Equal(t, schema.SomeInt(10), gap) // median of [10, 12, -5]
}

// TestCleanDateGapsImputesStart verifies start imputation from an end date.
func TestCleanDateGapsImputesStart(t *testing.T) {
	cfg := schema.CleanDatesConfig{StartDate: "start_date", EndDate: "end_date"}

	base := day(2024, 2, 1)
	tbl := schema.NewTable("start_date", "end_date")
	tbl.Append(datesRow(schema.SomeDate(base), schema.SomeDate(base.AddDate(0, 0, 8))))
	tbl.Append(datesRow(schema.Date{}, schema.SomeDate(base.AddDate(0, 0, 20))))

	out, err := CleanDateGaps(tbl, cfg)
	require.NoError(t, err)

	start := out.Rows[1].Get("start_date").Date()
	require.True(t, start.OK)
	assert.Equal(t, day(2024, 2, 13), start.V) // end - median(8)
}

// TestParseDates tests both parsing conventions and silent failure.
func TestParseDates(t *testing.T) {
	tbl := schema.NewTable("reported_on")
	tbl.Append(schema.Record{"reported_on": schema.StringValue("2024-01-05")})
	tbl.Append(schema.Record{"reported_on": schema.StringValue("not a date")})
	tbl.Append(schema.Record{"reported_on": schema.Value{}})

	out, err := ParseDates(tbl, schema.ParseDatesConfig{
		Columns: []string{"reported_on"},
		Layout:  time.DateOnly,
	})
	require.NoError(t, err)
	assert.Equal(t, day(2024, 1, 5), out.Rows[0].Get("reported_on").Date().V)
	assert.True(t, out.Rows[1].Get("reported_on").IsMissing())
	assert.True(t, out.Rows[2].Get("reported_on").IsMissing())

	// Numeric origin-offset convention.
	numeric := schema.NewTable("reported_on")
	numeric.Append(schema.Record{"reported_on": schema.NumberValue(19728)})

	out, err = ParseDates(numeric, schema.ParseDatesConfig{
		Columns: []string{"reported_on"},
		Origin:  day(1970, 1, 1),
	})
	require.NoError(t, err)
	assert.Equal(t, day(2024, 1, 6), out.Rows[0].Get("reported_on").Date().V)

	_, err = ParseDates(numeric, schema.ParseDatesConfig{Columns: []string{"reported_on"}})
	assert.True(t, errors.Is(err, schema.ErrInvalidConfiguration))
}
