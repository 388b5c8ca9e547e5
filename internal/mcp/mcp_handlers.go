package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/abarry/gapcast/core"
	"github.com/abarry/gapcast/internal/contract"
	"github.com/abarry/gapcast/internal/ingest"
	"github.com/abarry/gapcast/internal/outwriter"
	"github.com/abarry/gapcast/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	mgr     contract.StoreManager
}

// requestConfig applies per-request overrides over the base configuration.
func (h *toolHandler) requestConfig(request mcp.CallToolRequest) (*contract.Config, error) {
	cfg := h.baseCfg.Clone()
	if p := request.GetString("alerts_path", ""); p != "" {
		cfg.AlertsPath = p
	}
	if p := request.GetString("evaluations_path", ""); p != "" {
		cfg.EvaluationsPath = p
	}
	if p := request.GetString("rrm_path", ""); p != "" {
		cfg.RRMPath = p
	}
	if p := request.GetString("postrrm_path", ""); p != "" {
		cfg.PostRRMPath = p
	}
	if d := request.GetString("disagg", ""); d != "" {
		disagg := schema.Disaggregation(d)
		if _, ok := schema.ValidDisaggregations[disagg]; !ok {
			return nil, schema.ConfigError("unsupported disaggregation %q", d)
		}
		cfg.Disaggregation = disagg
	}

	prev := request.GetString("prev_period", "")
	current := request.GetString("current_period", "")
	if err := contract.RevalidateWindow(cfg, prev, current); err != nil {
		return nil, err
	}
	return cfg, nil
}

// runReport loads the snapshots and executes the pipeline for one request.
func (h *toolHandler) runReport(cfg *contract.Config) (*core.ReportResult, error) {
	input, err := ingest.LoadInputs(cfg)
	if err != nil {
		return nil, err
	}
	return core.RunReport(cfg, input, h.mgr)
}

func (h *toolHandler) handleRunGapReport(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.requestConfig(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid report parameters: %v", err)), nil
	}

	result, err := h.runReport(cfg)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("report failed: %v", err)), nil
	}

	model := outwriter.BuildReportRenderModel(result, cfg)
	jsonData, _ := json.MarshalIndent(model, "", "  ")

	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleGetUnassistedAlerts(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.requestConfig(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid report parameters: %v", err)), nil
	}

	result, err := h.runReport(cfg)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("report failed: %v", err)), nil
	}

	model := outwriter.BuildReportRenderModel(result, cfg)
	jsonData, _ := json.MarshalIndent(model.UnassistedAlerts, "", "  ")

	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleListRuns(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var store contract.RunStore
	if h.mgr != nil {
		store = h.mgr.GetRunStore()
	}
	if store == nil {
		return mcp.NewToolResultError("run tracking is not initialized"), nil
	}

	limit := request.GetInt("limit", contract.DefaultRunLimit)
	records, err := store.ListRuns(limit)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to list runs: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(records, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}
