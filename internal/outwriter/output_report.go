package outwriter

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/abarry/gapcast/core"
	"github.com/abarry/gapcast/internal/contract"
	"github.com/abarry/gapcast/internal/parquet"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

var (
	sectorGapHeader  = []string{"group", "sector", "alerts_in_period", "alerts_assisted", "coverage_percent", "label"}
	spatialGapHeader = []string{"group", "ind_affected", "ind_assisted", "ind_notassisted", "ind_notassisted_percent", "label"}
)

// printJSONReport handles opening the file and writing the full report as a
// single JSON document.
func printJSONReport(result *core.ReportResult, cfg *contract.Config) error {
	model := BuildReportRenderModel(result, cfg)
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeJSON(w, model)
	}, "Wrote JSON")
}

// printCSVReport writes the report as CSV. With an output file configured the
// three tables land in suffixed sibling files; on stdout they are printed as
// sequential sections.
func printCSVReport(result *core.ReportResult, cfg *contract.Config) error {
	fmtFloat, _ := createFormatters(cfg.Precision)
	model := BuildReportRenderModel(result, cfg)

	if cfg.OutputFile == "" {
		return writeCSVSections(os.Stdout, model, result, fmtFloat)
	}

	targets := []struct {
		suffix string
		write  func(io.Writer) error
	}{
		{".sector_gaps.csv", func(w io.Writer) error {
			return writeCSVWithHeader(w, sectorGapHeader, func(cw *csv.Writer) error {
				return writeCSVSectorGaps(cw, model.SectorGaps, fmtFloat)
			})
		}},
		{".spatial_gaps.csv", func(w io.Writer) error {
			return writeCSVWithHeader(w, spatialGapHeader, func(cw *csv.Writer) error {
				return writeCSVSpatialGaps(cw, model.SpatialGaps, fmtFloat)
			})
		}},
		{".unassisted.csv", func(w io.Writer) error {
			return writeCSVWithHeader(w, result.Unassisted.Columns, func(cw *csv.Writer) error {
				return writeCSVTable(cw, result.Unassisted, fmtFloat)
			})
		}},
	}
	for _, target := range targets {
		if err := writeWithFile(cfg.OutputFile+target.suffix, target.write, "Wrote CSV"); err != nil {
			return err
		}
	}
	return nil
}

// writeCSVSections writes the three report tables back to back, separated by
// blank lines.
func writeCSVSections(w io.Writer, model *ReportRenderModel, result *core.ReportResult, fmtFloat func(float64) string) error {
	if err := writeCSVWithHeader(w, sectorGapHeader, func(cw *csv.Writer) error {
		return writeCSVSectorGaps(cw, model.SectorGaps, fmtFloat)
	}); err != nil {
		return err
	}
	fmt.Fprintln(w)
	if err := writeCSVWithHeader(w, spatialGapHeader, func(cw *csv.Writer) error {
		return writeCSVSpatialGaps(cw, model.SpatialGaps, fmtFloat)
	}); err != nil {
		return err
	}
	fmt.Fprintln(w)
	return writeCSVWithHeader(w, result.Unassisted.Columns, func(cw *csv.Writer) error {
		return writeCSVTable(cw, result.Unassisted, fmtFloat)
	})
}

// printParquetReport writes the gap tables as Parquet files next to the
// configured output file. The unassisted table has a disaggregation-dependent
// column set, so it is exported as CSV alongside.
func printParquetReport(result *core.ReportResult, cfg *contract.Config) error {
	if cfg.OutputFile == "" {
		return errors.New("--output-file is required for parquet output")
	}

	sectorFile := cfg.OutputFile + ".sector_gaps.parquet"
	if err := parquet.WriteSectorGapsParquet(parquet.ConvertSectorGaps(result.SectorGaps), sectorFile); err != nil {
		return fmt.Errorf("failed to write sector gaps: %w", err)
	}
	fmt.Fprintf(os.Stderr, "💾 Wrote Parquet to %s\n", sectorFile)

	spatialFile := cfg.OutputFile + ".spatial_gaps.parquet"
	if err := parquet.WriteSpatialGapsParquet(parquet.ConvertSpatialGaps(result.SpatialGaps), spatialFile); err != nil {
		return fmt.Errorf("failed to write spatial gaps: %w", err)
	}
	fmt.Fprintf(os.Stderr, "💾 Wrote Parquet to %s\n", spatialFile)

	fmtFloat, _ := createFormatters(cfg.Precision)
	return writeWithFile(cfg.OutputFile+".unassisted.csv", func(w io.Writer) error {
		return writeCSVWithHeader(w, result.Unassisted.Columns, func(cw *csv.Writer) error {
			return writeCSVTable(cw, result.Unassisted, fmtFloat)
		})
	}, "Wrote CSV")
}

// printReportText prints the human-readable report: headline indicators
// followed by the gap tables.
func printReportText(result *core.ReportResult, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, intFmt := createFormatters(cfg.Precision)
	model := BuildReportRenderModel(result, cfg)
	maxGroupWidth := getMaxTableGroupWidth(cfg)

	s := model.Summary
	fmt.Printf("Reporting window: %s to %s\n", s.PrevPeriod, s.CurrentPeriod)
	fmt.Printf("Alerts: %d total, %d validated, %d in window\n", s.TotalAlerts, s.ValidatedAlerts, s.AlertsInPeriod)
	fmt.Printf("Positioning: %d forecast, %d arrears\n", s.ForecastAlerts, s.ArrearsAlerts)
	fmt.Printf("Responses: %d RRM, %d post-RRM\n", s.RRMResponses, s.PostRRMResponses)
	fmt.Println()

	fmt.Println("Sector coverage:")
	var sectorData [][]string
	for _, r := range model.SectorGaps {
		coverage := ""
		label := "N/A"
		if r.CoveragePercent != nil {
			coverage = fmtFloat(*r.CoveragePercent)
			label = contract.GetColorLabel(100 - *r.CoveragePercent)
		}
		sectorData = append(sectorData, []string{
			truncateCell(r.Group, maxGroupWidth),
			r.Sector,
			fmt.Sprintf(intFmt, r.AlertsInPeriod),
			fmt.Sprintf(intFmt, r.AlertsAssisted),
			coverage,
			label,
		})
	}
	if err := renderTable([]string{"Group", "Sector", "Alerts", "Assisted", "Coverage %", "Label"}, sectorData); err != nil {
		return err
	}
	fmt.Println()

	fmt.Println("Spatial reach:")
	var spatialData [][]string
	for _, r := range model.SpatialGaps {
		share := ""
		label := "N/A"
		if r.NotAssistedShare != nil {
			share = fmtFloat(*r.NotAssistedShare)
			label = contract.GetColorLabel(*r.NotAssistedShare)
		}
		spatialData = append(spatialData, []string{
			truncateCell(r.Group, maxGroupWidth),
			fmt.Sprintf(intFmt, r.IndAffected),
			fmt.Sprintf(intFmt, r.IndAssisted),
			fmt.Sprintf(intFmt, r.IndNotAssisted),
			share,
			label,
		})
	}
	if err := renderTable([]string{"Group", "Affected", "Assisted", "Not assisted", "Gap %", "Label"}, spatialData); err != nil {
		return err
	}
	fmt.Println()

	fmt.Printf("Unassisted alerts: %d\n", result.Unassisted.Len())
	if result.Unassisted.Len() > 0 {
		var unassistedData [][]string
		for _, row := range result.Unassisted.Rows {
			cells := make([]string, len(result.Unassisted.Columns))
			for i, col := range result.Unassisted.Columns {
				cells[i] = truncateCell(formatCell(row.Get(col), fmtFloat), maxGroupWidth)
			}
			unassistedData = append(unassistedData, cells)
		}
		if err := renderTable(result.Unassisted.Columns, unassistedData); err != nil {
			return err
		}
	}
	fmt.Printf("Report completed in %v. Run backend: %s\n", duration, cfg.RunBackend)
	return nil
}

// renderTable prints one right-aligned table to stdout.
func renderTable(headers []string, data [][]string) error {
	table := tablewriter.NewWriter(os.Stdout)
	table.Header(headers)
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}
