package outwriter

import (
	"encoding/csv"
	"time"

	"github.com/abarry/gapcast/core"
	"github.com/abarry/gapcast/core/classify"
	"github.com/abarry/gapcast/internal/contract"
	"github.com/abarry/gapcast/schema"
)

// SectorGapRow is the render model for one sector coverage row.
type SectorGapRow struct {
	Group           string   `json:"group"`
	Sector          string   `json:"sector"`
	AlertsInPeriod  int      `json:"alerts_in_period"`
	AlertsAssisted  int      `json:"alerts_assisted"`
	CoveragePercent *float64 `json:"coverage_percent"`
	Label           string   `json:"label"`
}

// SpatialGapRow is the render model for one spatial reach row.
type SpatialGapRow struct {
	Group            string   `json:"group"`
	IndAffected      int      `json:"ind_affected"`
	IndAssisted      int      `json:"ind_assisted"`
	IndNotAssisted   int      `json:"ind_notassisted"`
	NotAssistedShare *float64 `json:"ind_notassisted_percent"`
	Label            string   `json:"label"`
}

// ReportSummary is the render model for the headline indicators.
type ReportSummary struct {
	PrevPeriod       string `json:"prev_period"`
	CurrentPeriod    string `json:"current_period"`
	TotalAlerts      int    `json:"total_alerts"`
	ValidatedAlerts  int    `json:"validated_alerts"`
	AlertsInPeriod   int    `json:"alerts_in_period"`
	UnassistedAlerts int    `json:"unassisted_alerts"`
	ForecastAlerts   int    `json:"forecast_alerts"`
	ArrearsAlerts    int    `json:"arrears_alerts"`
	RRMResponses     int    `json:"rrm_responses"`
	PostRRMResponses int    `json:"postrrm_responses"`
}

// ReportRenderModel is the complete render model for one gap report.
type ReportRenderModel struct {
	Summary          ReportSummary    `json:"summary"`
	SectorGaps       []SectorGapRow   `json:"sector_gaps"`
	SpatialGaps      []SpatialGapRow  `json:"spatial_gaps"`
	UnassistedAlerts []map[string]any `json:"unassisted_alerts"`
}

// BuildReportRenderModel constructs the render model from the pipeline result.
func BuildReportRenderModel(result *core.ReportResult, cfg *contract.Config) *ReportRenderModel {
	s := result.Summary
	model := &ReportRenderModel{
		Summary: ReportSummary{
			PrevPeriod:       s.PrevPeriod.Format(time.DateOnly),
			CurrentPeriod:    s.CurrentPeriod.Format(time.DateOnly),
			TotalAlerts:      s.TotalAlerts,
			ValidatedAlerts:  s.ValidatedAlerts,
			AlertsInPeriod:   s.AlertsInPeriod,
			UnassistedAlerts: s.UnassistedAlerts,
			ForecastAlerts:   s.ForecastAlerts,
			ArrearsAlerts:    s.ArrearsAlerts,
			RRMResponses:     s.RRMResponses,
			PostRRMResponses: s.PostRRMResponses,
		},
	}

	for _, row := range result.SectorGaps.Rows {
		group, _ := row.Get(classify.ColGroup).Str()
		sector, _ := row.Get(classify.ColSector).Str()
		coverage := row.Get(classify.ColCoveragePercent).Float()
		gap := gapPercent(coverage)
		out := SectorGapRow{
			Group:          group,
			Sector:         sector,
			AlertsInPeriod: row.Get(classify.ColAlertsInPeriod).Int().V,
			AlertsAssisted: row.Get(classify.ColAlertsAssisted).Int().V,
			Label:          plainLabel(gap),
		}
		if coverage.OK {
			v := coverage.V
			out.CoveragePercent = &v
		}
		model.SectorGaps = append(model.SectorGaps, out)
	}

	for _, row := range result.SpatialGaps.Rows {
		group, _ := row.Get(classify.ColGroup).Str()
		share := row.Get(classify.ColIndNotAssistedShare).Float()
		out := SpatialGapRow{
			Group:          group,
			IndAffected:    row.Get(classify.ColIndAffected).Int().V,
			IndAssisted:    row.Get(classify.ColIndAssisted).Int().V,
			IndNotAssisted: row.Get(classify.ColIndNotAssisted).Int().V,
			Label:          plainLabel(share),
		}
		if share.OK {
			v := share.V
			out.NotAssistedShare = &v
		}
		model.SpatialGaps = append(model.SpatialGaps, out)
	}

	for _, row := range result.Unassisted.Rows {
		jsonRow := make(map[string]any, len(result.Unassisted.Columns))
		for _, col := range result.Unassisted.Columns {
			jsonRow[col] = jsonCell(row.Get(col))
		}
		model.UnassistedAlerts = append(model.UnassistedAlerts, jsonRow)
	}

	return model
}

// plainLabel returns the severity label for a gap share, "N/A" when missing.
func plainLabel(gap schema.Float) string {
	if !gap.OK {
		return "N/A"
	}
	return contract.GetPlainLabel(gap.V)
}

// writeCSVSectorGaps writes the sector gap rows to a CSV writer.
func writeCSVSectorGaps(w *csv.Writer, rows []SectorGapRow, fmtFloat func(float64) string) error {
	for _, r := range rows {
		coverage := ""
		if r.CoveragePercent != nil {
			coverage = fmtFloat(*r.CoveragePercent)
		}
		record := []string{
			r.Group,
			r.Sector,
			intString(r.AlertsInPeriod),
			intString(r.AlertsAssisted),
			coverage,
			r.Label,
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	return nil
}

// writeCSVSpatialGaps writes the spatial reach rows to a CSV writer.
func writeCSVSpatialGaps(w *csv.Writer, rows []SpatialGapRow, fmtFloat func(float64) string) error {
	for _, r := range rows {
		share := ""
		if r.NotAssistedShare != nil {
			share = fmtFloat(*r.NotAssistedShare)
		}
		record := []string{
			r.Group,
			intString(r.IndAffected),
			intString(r.IndAssisted),
			intString(r.IndNotAssisted),
			share,
			r.Label,
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	return nil
}

// writeCSVTable writes a raw table to a CSV writer, cell by cell.
func writeCSVTable(w *csv.Writer, t *schema.Table, fmtFloat func(float64) string) error {
	for _, row := range t.Rows {
		record := make([]string, len(t.Columns))
		for i, col := range t.Columns {
			record[i] = formatCell(row.Get(col), fmtFloat)
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	return nil
}
