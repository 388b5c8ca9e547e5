package schema

import "time"

// RunSummary holds the headline indicators of one reporting run. It is what
// the run store persists for longitudinal tracking and what the console
// header reports.
type RunSummary struct {
	PrevPeriod    time.Time // Start of the reporting window (inclusive)
	CurrentPeriod time.Time // End of the reporting window (exclusive)

	TotalAlerts      int // Alert rows in the snapshot
	ValidatedAlerts  int // Alerts whose status matched the valid literal
	AlertsInPeriod   int // Validated alerts with an in-period incident
	UnassistedAlerts int // In-period alerts with no in-period response
	ForecastAlerts   int // Alerts flagged for future positioning
	ArrearsAlerts    int // Alerts with overdue positioning

	RRMResponses     int // Aggregated RRM response rows joined
	PostRRMResponses int // Aggregated post-RRM response rows joined
}

// RunStatus describes the state of the run store for status output.
type RunStatus struct {
	Backend   DatabaseBackend
	Enabled   bool
	TotalRuns int
	LastRun   time.Time // zero when no runs are recorded
}
