package cmd

import (
	"time"

	"github.com/abarry/gapcast/core"
	"github.com/abarry/gapcast/internal/contract"
	"github.com/abarry/gapcast/internal/ingest"
	"github.com/abarry/gapcast/internal/outwriter"
	"github.com/spf13/cobra"
)

// reportCmd runs the monthly gap report.
var reportCmd = &cobra.Command{
	Use:   "report [alerts-snapshot]",
	Short: "Reconcile alerts with responses and report assistance gaps.",
	Long: `Run the monthly gap report over one set of snapshot exports.

Joins the alert snapshot with evaluation and response snapshots to compute:
- Which validated alerts in the window received no assistance at all
- Per-sector coverage: how many alerts needing a sector were actually served
- Spatial reach: how many affected individuals were left unassisted per area
- Forecast and arrears positioning for follow-up planning

Alerts missing from the responses make the gap; responses without a matching
alert are counted but never invent coverage.

Examples:
  # Report over the March window
  gapcast report alerts.csv --rrm rrm.csv --postrrm postrrm.csv \
    --prev-period 2024-03-01 --current-period 2024-04-01 --threshold 2024-01-01

  # Break gaps down by admin1 area
  gapcast report alerts.csv --rrm rrm.csv --disagg admin1 \
    --prev-period 2024-03-01 --current-period 2024-04-01 --threshold 2024-01-01

  # Export findings to CSV for the follow-up tracker
  gapcast report alerts.csv --rrm rrm.csv --output csv --output-file gaps \
    --prev-period 2024-03-01 --current-period 2024-04-01 --threshold 2024-01-01`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		start := time.Now()

		pipelineInput, err := ingest.LoadInputs(cfg)
		if err != nil {
			contract.LogFatal("Cannot load snapshots", err)
		}

		result, err := core.RunReport(cfg, pipelineInput, storeManager)
		if err != nil {
			contract.LogFatal("Cannot run gap report", err)
		}

		writer := outwriter.NewOutWriter()
		if err := writer.WriteReport(result, cfg, time.Since(start)); err != nil {
			contract.LogFatal("Cannot write report", err)
		}
	},
}
