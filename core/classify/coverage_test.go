package classify

import (
	"errors"
	"testing"

	"github.com/abarry/gapcast/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var coverageCfg = schema.CoverageConfig{
	Window: schema.Window{
		PrevPeriod:    day(2024, 3, 1),
		CurrentPeriod: day(2024, 4, 1),
	},
	Status:            "status",
	ValidStatus:       "valid",
	IncidentDate:      "incident_date",
	ResponseStartDate: "rrm_response_start_date",
	AlertCounts:       schema.CountColumns{Household: "hh_number", Individual: "ind_number"},
	ResponseCounts:    schema.CountColumns{Household: "rrm_hh", Individual: "rrm_ind"},
	SectorNeeds:       map[schema.Sector]string{schema.SectorFood: "need_food", schema.SectorWash: "need_wash"},
	SectorResponses:   map[schema.Sector]string{schema.SectorFood: "resp_food", schema.SectorWash: "resp_wash"},
	Admin1:            "admin1",
	Admin2:            "admin2",
	Disaggregation:    schema.DisaggNone,
}

func coverageTable(rows ...schema.Record) *schema.Table {
	t := schema.NewTable(
		"status", "incident_date", "rrm_response_start_date",
		"hh_number", "ind_number", "rrm_hh", "rrm_ind",
		"need_food", "need_wash", "resp_food", "resp_wash",
		"admin1", "admin2",
	)
	for _, r := range rows {
		t.Append(r)
	}
	return t
}

func coverageRow(status string, incident, respStart schema.Date, ind, respInd schema.Int, needFood, respFood bool, admin1 string) schema.Record {
	return schema.Record{
		"status":                  schema.StringValue(status),
		"incident_date":           schema.DateValueOpt(incident),
		"rrm_response_start_date": schema.DateValueOpt(respStart),
		"ind_number":              schema.IntValue(ind),
		"rrm_ind":                 schema.IntValue(respInd),
		"need_food":               schema.BoolValue(needFood),
		"need_wash":               schema.BoolValue(false),
		"resp_food":               schema.BoolValue(respFood),
		"resp_wash":               schema.BoolValue(false),
		"admin1":                  schema.StringValue(admin1),
		"admin2":                  schema.StringValue(admin1 + "-sub"),
	}
}

// TestTimelineBoundaries tests the half-open period predicates.
func TestTimelineBoundaries(t *testing.T) {
	tbl := coverageTable(
		coverageRow("valid", schema.SomeDate(day(2024, 3, 1)), schema.SomeDate(day(2024, 4, 1)),
			schema.SomeInt(10), schema.Int{}, true, false, "Mopti"),
		coverageRow("valid", schema.SomeDate(day(2024, 4, 1)), schema.SomeDate(day(2024, 3, 1)),
			schema.SomeInt(10), schema.Int{}, true, false, "Mopti"),
		coverageRow("pending", schema.SomeDate(day(2024, 3, 15)), schema.Date{},
			schema.SomeInt(10), schema.Int{}, true, false, "Mopti"),
	)

	out, err := Timeline(tbl, coverageCfg)
	require.NoError(t, err)

	// Incident exactly on the previous period date is inside; exactly on the
	// current period date is outside. Same for response starts.
	assert.True(t, out.Rows[0].Get(schema.ColAlertTimeline).Truthy())
	assert.False(t, out.Rows[0].Get(schema.ColResponseTimeline).Truthy())
	assert.False(t, out.Rows[1].Get(schema.ColAlertTimeline).Truthy())
	assert.True(t, out.Rows[1].Get(schema.ColResponseTimeline).Truthy())

	// Non-validated alerts never count as in-period incidents.
	assert.False(t, out.Rows[2].Get(schema.ColAlertTimeline).Truthy())
}

// TestSectorGaps tests grouped per-sector coverage sums.
func TestSectorGaps(t *testing.T) {
	tbl := coverageTable(
		coverageRow("valid", schema.SomeDate(day(2024, 3, 5)), schema.SomeDate(day(2024, 3, 10)),
			schema.SomeInt(10), schema.SomeInt(8), true, true, "Mopti"),
		coverageRow("valid", schema.SomeDate(day(2024, 3, 6)), schema.Date{},
			schema.SomeInt(20), schema.Int{}, true, false, "Mopti"),
		coverageRow("valid", schema.SomeDate(day(2024, 1, 1)), schema.Date{},
			schema.SomeInt(30), schema.Int{}, true, false, "Gao"), // outside period
	)

	annotated, err := Timeline(tbl, coverageCfg)
	require.NoError(t, err)

	out, err := SectorGaps(annotated, coverageCfg)
	require.NoError(t, err)
	require.Equal(t, 1, out.Len()) // food only; no in-period wash needs

	row := out.Rows[0]
	sector, _ := row.Get(ColSector).Str()
	assert.Equal(t, "food", sector)
	assert.Equal(t, schema.SomeInt(2), row.Get(ColAlertsInPeriod).Int())
	assert.Equal(t, schema.SomeInt(1), row.Get(ColAlertsAssisted).Int())
	assert.InDelta(t, 50, row.Get(ColCoveragePercent).Float().V, 1e-9)
}

// TestSpatialGaps tests individual-reach sums with admin1 disaggregation and
// the missing-percent rule for empty groups.
func TestSpatialGaps(t *testing.T) {
	cfg := coverageCfg
	cfg.Disaggregation = schema.DisaggAdmin1

	tbl := coverageTable(
		coverageRow("valid", schema.SomeDate(day(2024, 3, 5)), schema.SomeDate(day(2024, 3, 10)),
			schema.SomeInt(100), schema.SomeInt(60), true, true, "Mopti"),
		coverageRow("valid", schema.SomeDate(day(2024, 3, 6)), schema.Date{},
			schema.SomeInt(40), schema.Int{}, false, false, "Mopti"),
		coverageRow("valid", schema.SomeDate(day(2024, 3, 7)), schema.Date{},
			schema.Int{}, schema.Int{}, false, false, "Gao"), // no counts recorded
	)

	annotated, err := Timeline(tbl, cfg)
	require.NoError(t, err)

	out, err := SpatialGaps(annotated, cfg)
	require.NoError(t, err)
	require.Equal(t, 2, out.Len())

	gao := out.Rows[0]
	group, _ := gao.Get(ColGroup).Str()
	assert.Equal(t, "Gao", group)
	assert.Equal(t, schema.SomeInt(0), gao.Get(ColIndAffected).Int())
	// Zero assisted and zero not-assisted is "no data", not a 0% gap.
	assert.True(t, gao.Get(ColIndNotAssistedShare).IsMissing())

	mopti := out.Rows[1]
	assert.Equal(t, schema.SomeInt(140), mopti.Get(ColIndAffected).Int())
	assert.Equal(t, schema.SomeInt(60), mopti.Get(ColIndAssisted).Int())
	assert.Equal(t, schema.SomeInt(80), mopti.Get(ColIndNotAssisted).Int())
	assert.InDelta(t, 100.0*80/140, mopti.Get(ColIndNotAssistedShare).Float().V, 1e-9)
}

// TestUnassistedAlerts tests the follow-up list filter.
func TestUnassistedAlerts(t *testing.T) {
	tbl := coverageTable(
		coverageRow("valid", schema.SomeDate(day(2024, 3, 5)), schema.SomeDate(day(2024, 3, 10)),
			schema.SomeInt(10), schema.SomeInt(10), true, true, "Mopti"),
		coverageRow("valid", schema.SomeDate(day(2024, 3, 6)), schema.Date{},
			schema.SomeInt(20), schema.Int{}, true, false, "Gao"),
	)

	annotated, err := Timeline(tbl, coverageCfg)
	require.NoError(t, err)

	out, err := UnassistedAlerts(annotated, coverageCfg)
	require.NoError(t, err)
	require.Equal(t, 1, out.Len())

	admin1, _ := out.Rows[0].Get("admin1").Str()
	assert.Equal(t, "Gao", admin1)
}

// TestCoverageBadDisaggregation tests the unsupported-token fail-fast path.
func TestCoverageBadDisaggregation(t *testing.T) {
	annotated, err := Timeline(coverageTable(), coverageCfg)
	require.NoError(t, err)

	cfg := coverageCfg
	cfg.Disaggregation = schema.Disaggregation("region")
	_, err = SpatialGaps(annotated, cfg)
	assert.True(t, errors.Is(err, schema.ErrInvalidConfiguration))

	cfg.Disaggregation = schema.DisaggSector
	_, err = SpatialGaps(annotated, cfg)
	assert.True(t, errors.Is(err, schema.ErrInvalidConfiguration))
}
