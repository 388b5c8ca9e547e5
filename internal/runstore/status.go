package runstore

import (
	"fmt"
	"time"

	"github.com/abarry/gapcast/internal/contract"
	"github.com/abarry/gapcast/schema"
)

// PrintRunStatus prints run store status information.
func PrintRunStatus(status schema.RunStatus) {
	fmt.Printf("Run Backend: %s\n", status.Backend)
	fmt.Printf("Enabled: %t\n", status.Enabled)
	if !status.Enabled {
		return
	}
	fmt.Printf("Total Runs: %d\n", status.TotalRuns)
	if status.TotalRuns > 0 {
		fmt.Printf("Last Run: %s\n", status.LastRun.Format("2006-01-02 15:04:05"))
	}
}

// PrintRunRecords prints a run history listing, newest first.
func PrintRunRecords(records []contract.RunRecord) {
	if len(records) == 0 {
		fmt.Println("No runs recorded.")
		return
	}
	for _, r := range records {
		fmt.Printf("Run %d started %s", r.RunID, r.StartTime.Format("2006-01-02 15:04:05"))
		if r.EndTime == nil {
			fmt.Println(" (incomplete)")
			continue
		}
		fmt.Printf(" finished %s\n", r.EndTime.Format("2006-01-02 15:04:05"))
		s := r.Summary
		fmt.Printf("  Window: %s to %s\n", s.PrevPeriod.Format(time.DateOnly), s.CurrentPeriod.Format(time.DateOnly))
		fmt.Printf("  Alerts: %d total, %d validated, %d in period, %d unassisted\n",
			s.TotalAlerts, s.ValidatedAlerts, s.AlertsInPeriod, s.UnassistedAlerts)
		fmt.Printf("  Positioning: %d forecast, %d arrears\n", s.ForecastAlerts, s.ArrearsAlerts)
		fmt.Printf("  Responses: %d RRM, %d post-RRM\n", s.RRMResponses, s.PostRRMResponses)
		if r.ConfigParams != "" {
			fmt.Printf("  Params: %s\n", r.ConfigParams)
		}
	}
}
