// Package core orchestrates the reporting pipeline: cleaning, aggregation,
// joining, forecasting and classification over one snapshot per reporting
// period.
package core

import (
	"time"

	"github.com/abarry/gapcast/core/classify"
	"github.com/abarry/gapcast/core/clean"
	"github.com/abarry/gapcast/core/join"
	"github.com/abarry/gapcast/core/respagg"
	"github.com/abarry/gapcast/internal/contract"
	"github.com/abarry/gapcast/schema"
)

// PipelineInput bundles the four typed snapshot tables.
type PipelineInput struct {
	Alerts      *schema.Table
	Evaluations *schema.Table
	RRM         *schema.Table
	PostRRM     *schema.Table
}

// ReportResult is the output of one reporting run.
type ReportResult struct {
	Classified  *schema.Table // joined table with category and timeline columns
	SectorGaps  *schema.Table
	SpatialGaps *schema.Table
	Unassisted  *schema.Table
	Summary     schema.RunSummary
}

// RunReport executes the full pipeline for one reporting window and
// optionally records the run in the configured store. Configuration errors
// abort before any computation; data irregularities flow through as missing
// values.
func RunReport(cfg *contract.Config, input PipelineInput, mgr contract.StoreManager) (*ReportResult, error) {
	var runID int64
	var store contract.RunStore
	if mgr != nil {
		store = mgr.GetRunStore()
	}
	if store != nil {
		var err error
		runID, err = store.BeginRun(time.Now(), cfg.RunParams())
		if err != nil {
			contract.LogWarn("Run tracking initialization failed", err)
			runID = 0
		}
	}

	result, err := runPipeline(cfg, input)
	if err != nil {
		return nil, err
	}

	if store != nil && runID > 0 {
		if err := store.EndRun(runID, time.Now(), result.Summary); err != nil {
			contract.LogWarn("Failed to finalize run tracking", err)
		}
	}
	return result, nil
}

// runPipeline performs the staged transformation.
func runPipeline(cfg *contract.Config, input PipelineInput) (*ReportResult, error) {
	// --- 1. Field cleaning ---
	alerts, err := clean.ParseDates(input.Alerts, cfg.AlertParseConfig())
	if err != nil {
		return nil, err
	}
	alerts, err = clean.ReconcileCounts(alerts, cfg.AlertCountsConfig())
	if err != nil {
		return nil, err
	}
	evaluations, err := clean.ParseDates(input.Evaluations, cfg.EvaluationParseConfig())
	if err != nil {
		return nil, err
	}
	rrm, err := cleanResponses(input.RRM, cfg)
	if err != nil {
		return nil, err
	}
	postrrm, err := cleanResponses(input.PostRRM, cfg)
	if err != nil {
		return nil, err
	}

	// --- 2. Response aggregation ---
	aggRRM, err := respagg.Aggregate(rrm, cfg.AggregateConfig())
	if err != nil {
		return nil, err
	}
	aggPost, err := respagg.Aggregate(postrrm, cfg.AggregateConfig())
	if err != nil {
		return nil, err
	}

	// --- 3. Join and derived metrics ---
	joined, err := join.Join(alerts, evaluations, aggRRM, aggPost, cfg.JoinConfig())
	if err != nil {
		return nil, err
	}
	joined, err = ForecastDates(joined, cfg.ForecastConfig())
	if err != nil {
		return nil, err
	}

	// --- 4. Classification and coverage ---
	classified, err := classify.Classify(joined, cfg.ClassifyConfig())
	if err != nil {
		return nil, err
	}
	coverageCfg := cfg.CoverageConfig()
	classified, err = classify.Timeline(classified, coverageCfg)
	if err != nil {
		return nil, err
	}
	sectorGaps, err := classify.SectorGaps(classified, coverageCfg)
	if err != nil {
		return nil, err
	}
	// Sector disaggregation only shapes the sector summary; the spatial and
	// unassisted summaries have no sector axis and fall back to the whole
	// dataset.
	spatialCfg := coverageCfg
	if spatialCfg.Disaggregation == schema.DisaggSector {
		spatialCfg.Disaggregation = schema.DisaggNone
	}
	spatialGaps, err := classify.SpatialGaps(classified, spatialCfg)
	if err != nil {
		return nil, err
	}
	unassisted, err := classify.UnassistedAlerts(classified, spatialCfg)
	if err != nil {
		return nil, err
	}

	return &ReportResult{
		Classified:  classified,
		SectorGaps:  sectorGaps,
		SpatialGaps: spatialGaps,
		Unassisted:  unassisted,
		Summary:     summarize(cfg, classified, aggRRM, aggPost, unassisted),
	}, nil
}

// cleanResponses applies date parsing, count reconciliation and date-gap
// repair to one raw response table.
func cleanResponses(t *schema.Table, cfg *contract.Config) (*schema.Table, error) {
	out, err := clean.ParseDates(t, cfg.ResponseParseConfig())
	if err != nil {
		return nil, err
	}
	out, err = clean.ReconcileCounts(out, cfg.ResponseCountsConfig())
	if err != nil {
		return nil, err
	}
	return clean.CleanDateGaps(out, cfg.ResponseDatesConfig())
}

// summarize derives the headline indicators of a run.
func summarize(cfg *contract.Config, classified, aggRRM, aggPost, unassisted *schema.Table) schema.RunSummary {
	s := schema.RunSummary{
		PrevPeriod:       schema.Midnight(cfg.PrevPeriod),
		CurrentPeriod:    schema.Midnight(cfg.CurrentPeriod),
		TotalAlerts:      classified.Len(),
		UnassistedAlerts: unassisted.Len(),
		RRMResponses:     aggRRM.Len(),
		PostRRMResponses: aggPost.Len(),
	}
	for _, row := range classified.Rows {
		if row.Get(schema.ColValidation).Truthy() {
			s.ValidatedAlerts++
		}
		if row.Get(schema.ColAlertTimeline).Truthy() {
			s.AlertsInPeriod++
		}
		if row.Get(schema.ColForecast).Truthy() {
			s.ForecastAlerts++
		}
		if row.Get(schema.ColArrears).Truthy() {
			s.ArrearsAlerts++
		}
	}
	return s
}
