package schema

import (
	"fmt"
	"time"
)

// Derived column names shared across pipeline stages. Output tables are
// machine-keyed; human labels are a downstream rendering concern.
const (
	ColResponseNumber = "response_number"

	ColTimeAlertToValidation = "time_alert_to_validation"
	ColTimeValidationToRRM   = "time_validation_to_rrm"
	ColTimeRRMDuration       = "time_rrm_duration"
	ColTimeRRMToPostRRM      = "time_rrm_to_postrrm"
	ColTimePostRRMDuration   = "time_postrrm_duration"
	ColTimeAlertToRRM        = "time_alert_to_rrm"
	ColTimeAlertToPostRRM    = "time_alert_to_postrrm"

	ColHasRRMResponse     = "has_rrm_response"
	ColHasPostRRMResponse = "has_postrrm_response"

	ColForecastDate = "prev_postrrm_date"

	ColValidation = "validation"
	ColForecast   = "forecast"
	ColArrears    = "arrears"

	ColAlertTimeline    = "alert_timeline"
	ColResponseTimeline = "response_timeline"
)

// Prefixes applied to joined table columns.
const (
	RRMPrefix     = "rrm_"
	PostRRMPrefix = "postrrm_"
)

// CategoryColumn returns the output column for one temporal category bucket,
// e.g. ("a", 4) -> "cat_a4".
func CategoryColumn(letter string, bucket int) string {
	return fmt.Sprintf("cat_%s%d", letter, bucket)
}

// Window is the reporting window. Period membership is half-open: inclusive
// of PrevPeriod, exclusive of CurrentPeriod.
type Window struct {
	PrevPeriod    time.Time
	CurrentPeriod time.Time
}

// Validate fails when the window is not a forward interval.
func (w Window) Validate() error {
	if w.PrevPeriod.IsZero() || w.CurrentPeriod.IsZero() {
		return ConfigError("reporting window requires both period dates")
	}
	if !Midnight(w.PrevPeriod).Before(Midnight(w.CurrentPeriod)) {
		return ConfigError("previous period date %s must precede current period date %s",
			w.PrevPeriod.Format(time.DateOnly), w.CurrentPeriod.Format(time.DateOnly))
	}
	return nil
}

// Contains reports whether a date falls in [PrevPeriod, CurrentPeriod).
// Missing dates are never inside the window.
func (w Window) Contains(d Date) bool {
	return d.OK && !d.V.Before(Midnight(w.PrevPeriod)) && d.V.Before(Midnight(w.CurrentPeriod))
}

// ContainsExclIncl reports whether a date falls in (PrevPeriod, CurrentPeriod],
// the convention used by the temporal categories for registration windows.
func (w Window) ContainsExclIncl(d Date) bool {
	return d.OK && d.V.After(Midnight(w.PrevPeriod)) && !d.V.After(Midnight(w.CurrentPeriod))
}

// CountColumns names the household and individual count columns of a table.
type CountColumns struct {
	Household  string
	Individual string
}

// CleanCountsConfig configures household/individual reconciliation.
type CleanCountsConfig struct {
	Columns       CountColumns
	HouseholdSize int // average household size, must be positive
}

// CleanDatesConfig configures start/end date gap repair.
type CleanDatesConfig struct {
	StartDate string
	EndDate   string
}

// ParseDatesConfig configures textual or numeric date column conversion.
// When Layout is set, string cells are parsed with it. Otherwise numeric
// cells are read as whole days since Origin. Unparseable cells become
// missing, never an error.
type ParseDatesConfig struct {
	Columns []string
	Layout  string
	Origin  time.Time
}

// AggregateConfig names the raw response columns consumed by the aggregator.
type AggregateConfig struct {
	UUID        string
	SectorFlags []string
	Counts      CountColumns
	StartDate   string
	EndDate     string
	Actor       string
	Donor       string
	Admin1      string
	Admin2      string
}

// JoinTable names the identifier-keyed columns of one joined-in table.
type JoinTable struct {
	UUID      string
	StartDate string
	EndDate   string
	Count     string // response_number column; drives the has_* flag
}

// JoinConfig configures the left-join chain rooted at the alert table.
type JoinConfig struct {
	UUID           string // alert identifier column
	IncidentDate   string // alert incident date column
	EvaluationUUID string
	ValidationDate string // evaluation validation date column
	RRM            JoinTable
	PostRRM        JoinTable
}

// ClassifyConfig configures the temporal classifier over a joined table.
type ClassifyConfig struct {
	Window           Window
	Status           string // alert status column
	ValidStatus      string // literal marking a validated alert
	ValidationDate   string
	PostRRMStartDate string    // post-join post-RRM start date column
	HasPostRRM       string    // post-join post-RRM presence flag column
	ForecastDate     string    // opaque upstream forecast column
	Threshold        time.Time // forecast eligibility threshold
}

// ForecastConfig configures the post-RRM forecast date estimator. The
// estimate is rrm start + OffsetDays when an RRM response exists, otherwise
// incident date + median alert-to-RRM time + OffsetDays for validated
// alerts, otherwise missing.
type ForecastConfig struct {
	Status         string
	ValidStatus    string
	IncidentDate   string
	HasRRM         string // post-join RRM presence flag column
	RRMStartDate   string // post-join RRM start date column
	TimeAlertToRRM string // elapsed column supplying the batch median
	OffsetDays     int    // fixed positioning offset, conventionally 90
}

// CoverageConfig configures the period-bounded coverage indicators.
type CoverageConfig struct {
	Window            Window
	Status            string
	ValidStatus       string
	IncidentDate      string
	ResponseStartDate string // aggregated RRM start date column (post-join)
	AlertCounts       CountColumns
	ResponseCounts    CountColumns
	SectorNeeds       map[Sector]string // alert-side need flags
	SectorResponses   map[Sector]string // response-side delivery flags
	Admin1            string
	Admin2            string
	Disaggregation    Disaggregation
}
