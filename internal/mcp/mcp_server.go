// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/abarry/gapcast/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer initializes and configures the Gapcast MCP server without
// starting it. This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, mgr contract.StoreManager) *server.MCPServer {
	s := server.NewMCPServer(
		"Gapcast Reporting Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		mgr:     mgr,
	}

	// --- 1. Tool: run_gap_report ---
	s.AddTool(mcp.NewTool("run_gap_report",
		mcp.WithDescription("Run the monthly gap report over the configured snapshots and return coverage indicators."),
		mcp.WithString("alerts_path", mcp.Description("Path to the alerts snapshot CSV (defaults to the configured path).")),
		mcp.WithString("evaluations_path", mcp.Description("Path to the evaluations snapshot CSV.")),
		mcp.WithString("rrm_path", mcp.Description("Path to the RRM responses snapshot CSV.")),
		mcp.WithString("postrrm_path", mcp.Description("Path to the post-RRM responses snapshot CSV.")),
		mcp.WithString("prev_period", mcp.Description("Start of the reporting window (YYYY-MM-DD).")),
		mcp.WithString("current_period", mcp.Description("End of the reporting window (YYYY-MM-DD).")),
		mcp.WithString("disagg", mcp.Description("Disaggregation level for gap summaries. Defaults to 'none'."), mcp.Enum("none", "admin1", "admin2", "sector")),
	), h.handleRunGapReport)

	// --- 2. Tool: get_unassisted_alerts ---
	s.AddTool(mcp.NewTool("get_unassisted_alerts",
		mcp.WithDescription("Run the gap pipeline and return only the alerts in the reporting window that received no assistance."),
		mcp.WithString("alerts_path", mcp.Description("Path to the alerts snapshot CSV.")),
		mcp.WithString("evaluations_path", mcp.Description("Path to the evaluations snapshot CSV.")),
		mcp.WithString("rrm_path", mcp.Description("Path to the RRM responses snapshot CSV.")),
		mcp.WithString("postrrm_path", mcp.Description("Path to the post-RRM responses snapshot CSV.")),
		mcp.WithString("prev_period", mcp.Description("Start of the reporting window (YYYY-MM-DD).")),
		mcp.WithString("current_period", mcp.Description("End of the reporting window (YYYY-MM-DD).")),
	), h.handleGetUnassistedAlerts)

	// --- 3. Tool: list_runs ---
	s.AddTool(mcp.NewTool("list_runs",
		mcp.WithDescription("List recent reporting runs and their headline indicators from the run store."),
		mcp.WithNumber("limit", mcp.Description("Limit the number of runs returned.")),
	), h.handleListRuns)

	return s
}

// StartMCPServer starts the Gapcast MCP server.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.StoreManager) error {
	s := NewMCPServer(baseCfg, mgr)
	return server.ServeStdio(s)
}
