// Package parquet exports run history and gap indicator tables to Parquet
// files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/abarry/gapcast/core/classify"
	"github.com/abarry/gapcast/internal/contract"
	"github.com/abarry/gapcast/schema"
	"github.com/parquet-go/parquet-go"
)

// Run represents a single reporting run with metadata and its headline
// indicators. This struct maps to the gapcast_runs database table.
type Run struct {
	// RunID is the unique identifier for this reporting run
	RunID int64 `parquet:"run_id,snappy"`

	// StartTime is when the run began
	StartTime time.Time `parquet:"start_time,snappy"`

	// EndTime is when the run completed (nullable)
	EndTime *time.Time `parquet:"end_time,optional,snappy"`

	// ConfigParams contains the JSON-encoded run parameters (nullable)
	ConfigParams *string `parquet:"config_params,optional,snappy"`

	// PrevPeriod is the inclusive start of the reporting window (nullable)
	PrevPeriod *string `parquet:"prev_period,optional,snappy"`

	// CurrentPeriod is the exclusive end of the reporting window (nullable)
	CurrentPeriod *string `parquet:"current_period,optional,snappy"`

	TotalAlerts      int32 `parquet:"total_alerts,snappy"`
	ValidatedAlerts  int32 `parquet:"validated_alerts,snappy"`
	AlertsInPeriod   int32 `parquet:"alerts_in_period,snappy"`
	UnassistedAlerts int32 `parquet:"unassisted_alerts,snappy"`
	ForecastAlerts   int32 `parquet:"forecast_alerts,snappy"`
	ArrearsAlerts    int32 `parquet:"arrears_alerts,snappy"`
	RRMResponses     int32 `parquet:"rrm_responses,snappy"`
	PostRRMResponses int32 `parquet:"postrrm_responses,snappy"`
}

// SectorGap represents one group/sector coverage row of a sector gap summary.
type SectorGap struct {
	Group          string `parquet:"group,snappy"`
	Sector         string `parquet:"sector,snappy"`
	AlertsInPeriod int32  `parquet:"alerts_in_period,snappy"`
	AlertsAssisted int32  `parquet:"alerts_assisted,snappy"`

	// CoveragePercent is nil when no alert in the period needed the sector
	CoveragePercent *float64 `parquet:"coverage_percent,optional,snappy"`
}

// SpatialGap represents one group row of a spatial gap summary.
type SpatialGap struct {
	Group          string `parquet:"group,snappy"`
	IndAffected    int32  `parquet:"ind_affected,snappy"`
	IndAssisted    int32  `parquet:"ind_assisted,snappy"`
	IndNotAssisted int32  `parquet:"ind_notassisted,snappy"`

	// NotAssistedShare is nil when the group has no affected individuals
	NotAssistedShare *float64 `parquet:"ind_notassisted_percent,optional,snappy"`
}

// ConvertRunRecords converts persisted run records to their Parquet form.
func ConvertRunRecords(records []contract.RunRecord) []Run {
	out := make([]Run, len(records))
	for i, r := range records {
		run := Run{
			RunID:            r.RunID,
			StartTime:        r.StartTime,
			EndTime:          r.EndTime,
			TotalAlerts:      int32(r.Summary.TotalAlerts),
			ValidatedAlerts:  int32(r.Summary.ValidatedAlerts),
			AlertsInPeriod:   int32(r.Summary.AlertsInPeriod),
			UnassistedAlerts: int32(r.Summary.UnassistedAlerts),
			ForecastAlerts:   int32(r.Summary.ForecastAlerts),
			ArrearsAlerts:    int32(r.Summary.ArrearsAlerts),
			RRMResponses:     int32(r.Summary.RRMResponses),
			PostRRMResponses: int32(r.Summary.PostRRMResponses),
		}
		if r.ConfigParams != "" {
			params := r.ConfigParams
			run.ConfigParams = &params
		}
		if !r.Summary.PrevPeriod.IsZero() {
			prev := r.Summary.PrevPeriod.Format(time.DateOnly)
			run.PrevPeriod = &prev
		}
		if !r.Summary.CurrentPeriod.IsZero() {
			current := r.Summary.CurrentPeriod.Format(time.DateOnly)
			run.CurrentPeriod = &current
		}
		out[i] = run
	}
	return out
}

// ConvertSectorGaps converts a sector gap summary table to its Parquet form.
func ConvertSectorGaps(t *schema.Table) []SectorGap {
	out := make([]SectorGap, 0, t.Len())
	for _, row := range t.Rows {
		group, _ := row.Get(classify.ColGroup).Str()
		sector, _ := row.Get(classify.ColSector).Str()
		gap := SectorGap{
			Group:          group,
			Sector:         sector,
			AlertsInPeriod: int32(row.Get(classify.ColAlertsInPeriod).Int().V),
			AlertsAssisted: int32(row.Get(classify.ColAlertsAssisted).Int().V),
		}
		if coverage := row.Get(classify.ColCoveragePercent).Float(); coverage.OK {
			v := coverage.V
			gap.CoveragePercent = &v
		}
		out = append(out, gap)
	}
	return out
}

// ConvertSpatialGaps converts a spatial gap summary table to its Parquet form.
func ConvertSpatialGaps(t *schema.Table) []SpatialGap {
	out := make([]SpatialGap, 0, t.Len())
	for _, row := range t.Rows {
		group, _ := row.Get(classify.ColGroup).Str()
		gap := SpatialGap{
			Group:          group,
			IndAffected:    int32(row.Get(classify.ColIndAffected).Int().V),
			IndAssisted:    int32(row.Get(classify.ColIndAssisted).Int().V),
			IndNotAssisted: int32(row.Get(classify.ColIndNotAssisted).Int().V),
		}
		if share := row.Get(classify.ColIndNotAssistedShare).Float(); share.OK {
			v := share.V
			gap.NotAssistedShare = &v
		}
		out = append(out, gap)
	}
	return out
}

// WriteRunsParquet writes a slice of Run structs to a Parquet file.
func WriteRunsParquet(data []Run, outputPath string) error {
	return writeParquet(data, outputPath)
}

// WriteSectorGapsParquet writes a slice of SectorGap structs to a Parquet file.
func WriteSectorGapsParquet(data []SectorGap, outputPath string) error {
	return writeParquet(data, outputPath)
}

// WriteSpatialGapsParquet writes a slice of SpatialGap structs to a Parquet file.
func WriteSpatialGapsParquet(data []SpatialGap, outputPath string) error {
	return writeParquet(data, outputPath)
}

// writeParquet writes records to a Parquet file using struct schema inference.
func writeParquet[T any](data []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// The schema is automatically derived from the struct tags
	writer := parquet.NewGenericWriter[T](file)
	defer func() { _ = writer.Close() }()

	if _, err := writer.Write(data); err != nil {
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}

	return nil
}
