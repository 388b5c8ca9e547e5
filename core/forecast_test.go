package core

import (
	"errors"
	"testing"
	"time"

	"github.com/abarry/gapcast/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var forecastCfg = schema.ForecastConfig{
	Status:         "status",
	ValidStatus:    "valid",
	IncidentDate:   "incident_date",
	HasRRM:         schema.ColHasRRMResponse,
	RRMStartDate:   "rrm_response_start_date",
	TimeAlertToRRM: schema.ColTimeAlertToRRM,
	OffsetDays:     90,
}

func fday(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func forecastTable() *schema.Table {
	return schema.NewTable("status", "incident_date", schema.ColHasRRMResponse,
		"rrm_response_start_date", schema.ColTimeAlertToRRM)
}

func forecastRow(status string, incident schema.Date, hasRRM bool, rrmStart schema.Date, alertToRRM schema.Int) schema.Record {
	return schema.Record{
		"status":                  schema.StringValue(status),
		"incident_date":           schema.DateValueOpt(incident),
		schema.ColHasRRMResponse:  schema.BoolValue(hasRRM),
		"rrm_response_start_date": schema.DateValueOpt(rrmStart),
		schema.ColTimeAlertToRRM:  schema.IntValue(alertToRRM),
	}
}

// TestForecastDates tests the three estimator branches.
func TestForecastDates(t *testing.T) {
	tbl := forecastTable()
	tbl.Append(forecastRow("valid", schema.SomeDate(fday(2024, 1, 1)), true, schema.SomeDate(fday(2024, 1, 10)), schema.SomeInt(9)))
	tbl.Append(forecastRow("valid", schema.SomeDate(fday(2024, 2, 1)), false, schema.Date{}, schema.Int{}))
	tbl.Append(forecastRow("pending", schema.SomeDate(fday(2024, 2, 1)), false, schema.Date{}, schema.Int{}))
	tbl.Append(forecastRow("valid", schema.SomeDate(fday(2024, 3, 1)), true, schema.SomeDate(fday(2024, 3, 16)), schema.SomeInt(15)))

	out, err := ForecastDates(tbl, forecastCfg)
	require.NoError(t, err)

	// With an RRM response: start + 90.
	assert.Equal(t, fday(2024, 4, 9), out.Rows[0].Get(schema.ColForecastDate).Date().V)

	// Validated, no response: incident + median(9, 15) + 90 = incident + 102.
	assert.Equal(t, fday(2024, 2, 1).AddDate(0, 0, 102), out.Rows[1].Get(schema.ColForecastDate).Date().V)

	// Neither validated nor responded: missing.
	assert.True(t, out.Rows[2].Get(schema.ColForecastDate).IsMissing())
}

// TestForecastDatesResponseWithoutDates verifies a counted response whose
// start date is not yet recorded keeps the estimate missing instead of
// falling back to the incident-based guess.
func TestForecastDatesResponseWithoutDates(t *testing.T) {
	tbl := forecastTable()
	tbl.Append(forecastRow("valid", schema.SomeDate(fday(2024, 1, 1)), true, schema.SomeDate(fday(2024, 1, 10)), schema.SomeInt(9)))
	tbl.Append(forecastRow("valid", schema.SomeDate(fday(2024, 2, 1)), true, schema.Date{}, schema.Int{}))

	out, err := ForecastDates(tbl, forecastCfg)
	require.NoError(t, err)
	assert.True(t, out.Rows[1].Get(schema.ColForecastDate).IsMissing())
}

// TestForecastDatesNoHistory verifies that with no observed alert-to-RRM
// times the validated fallback stays missing instead of guessing.
func TestForecastDatesNoHistory(t *testing.T) {
	tbl := forecastTable()
	tbl.Append(forecastRow("valid", schema.SomeDate(fday(2024, 2, 1)), false, schema.Date{}, schema.Int{}))

	out, err := ForecastDates(tbl, forecastCfg)
	require.NoError(t, err)
	assert.True(t, out.Rows[0].Get(schema.ColForecastDate).IsMissing())
}

// TestForecastDatesBadConfig tests fail-fast validation.
func TestForecastDatesBadConfig(t *testing.T) {
	tbl := forecastTable()

	bad := forecastCfg
	bad.OffsetDays = 0
	_, err := ForecastDates(tbl, bad)
	assert.True(t, errors.Is(err, schema.ErrInvalidConfiguration))

	bad = forecastCfg
	bad.RRMStartDate = "nope"
	_, err = ForecastDates(tbl, bad)
	assert.True(t, errors.Is(err, schema.ErrMissingColumn))
}
