// Package cmd defines the command-line interface for gapcast.
package cmd

import (
	"github.com/abarry/gapcast/internal/contract"
	"github.com/abarry/gapcast/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(runsCmd)
	rootCmd.AddCommand(versionCmd)

	// Add the runs subcommands to the parent runs command
	runsCmd.AddCommand(runsStatusCmd)
	runsCmd.AddCommand(runsListCmd)
	runsCmd.AddCommand(runsExportCmd)
	runsCmd.AddCommand(runsClearCmd)
	runsCmd.AddCommand(runsMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("evaluations", "", "Path to the evaluations snapshot CSV")
	rootCmd.PersistentFlags().String("rrm", "", "Path to the RRM responses snapshot CSV")
	rootCmd.PersistentFlags().String("postrrm", "", "Path to the post-RRM responses snapshot CSV")
	rootCmd.PersistentFlags().String("prev-period", "", "Start of the reporting window (YYYY-MM-DD, inclusive)")
	rootCmd.PersistentFlags().String("current-period", "", "End of the reporting window (YYYY-MM-DD, exclusive)")
	rootCmd.PersistentFlags().String("threshold", "", "Earliest incident date considered plausible (YYYY-MM-DD)")
	rootCmd.PersistentFlags().Int("hhsize", contract.DefaultHouseholdSize, "Average household size used to reconcile missing counts")
	rootCmd.PersistentFlags().Int("offset", contract.DefaultOffsetDays, "Days after an RRM response before follow-up is due")
	rootCmd.PersistentFlags().String("valid-status", contract.DefaultValidStatus, "Status literal marking a validated alert")
	rootCmd.PersistentFlags().String("date-layout", contract.DefaultDateLayout, "Go layout for parsing snapshot dates")
	rootCmd.PersistentFlags().String("disagg", string(schema.DisaggNone), "Disaggregation level: none or admin1 or admin2 or sector")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json or parquet")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no)")
	rootCmd.PersistentFlags().String("run-backend", string(schema.NoneBackend), "Run tracking backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("run-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of runsListCmd to Viper
	runsListCmd.Flags().IntP("limit", "l", contract.DefaultRunLimit, "Number of runs to display")
	if err := viper.BindPFlags(runsListCmd.Flags()); err != nil {
		contract.LogFatal("Error binding runs list flags", err)
	}

	// Bind all flags of runsMigrateCmd to Viper
	runsMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(runsMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding runs migrate flags", err)
	}
}
