package cmd

import (
	"github.com/abarry/gapcast/internal/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the Gapcast MCP server",
	Long:  `Launch an MCP server that allows AI agents to run gap reports and query run history via standard tools.`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		// The shared setup validates snapshots and the reporting window so
		// per-request overrides start from a consistent base config.
		return sharedSetup(rootCtx, cmd, args)
	},
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg, storeManager)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
