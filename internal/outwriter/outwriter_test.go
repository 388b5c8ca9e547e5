package outwriter

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/abarry/gapcast/core"
	"github.com/abarry/gapcast/core/classify"
	"github.com/abarry/gapcast/internal/contract"
	"github.com/abarry/gapcast/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sampleResult builds a small report result with one covered sector, one
// uncovered sector and a single unassisted alert.
func sampleResult() *core.ReportResult {
	sector := schema.NewTable(classify.ColGroup, classify.ColSector,
		classify.ColAlertsInPeriod, classify.ColAlertsAssisted, classify.ColCoveragePercent)
	sector.Append(schema.Record{
		classify.ColGroup:           schema.StringValue("all"),
		classify.ColSector:          schema.StringValue("food"),
		classify.ColAlertsInPeriod:  schema.NumberValue(4),
		classify.ColAlertsAssisted:  schema.NumberValue(1),
		classify.ColCoveragePercent: schema.NumberValue(25),
	})
	sector.Append(schema.Record{
		classify.ColGroup:          schema.StringValue("all"),
		classify.ColSector:         schema.StringValue("wash"),
		classify.ColAlertsInPeriod: schema.NumberValue(0),
		classify.ColAlertsAssisted: schema.NumberValue(0),
	})

	spatial := schema.NewTable(classify.ColGroup, classify.ColIndAffected,
		classify.ColIndAssisted, classify.ColIndNotAssisted, classify.ColIndNotAssistedShare)
	spatial.Append(schema.Record{
		classify.ColGroup:               schema.StringValue("north"),
		classify.ColIndAffected:         schema.NumberValue(70),
		classify.ColIndAssisted:         schema.NumberValue(40),
		classify.ColIndNotAssisted:      schema.NumberValue(30),
		classify.ColIndNotAssistedShare: schema.NumberValue(42.857),
	})

	unassisted := schema.NewTable("uuid", "incident_date", "ind_affected")
	unassisted.Append(schema.Record{
		"uuid":          schema.StringValue("a-2"),
		"incident_date": schema.DateValue(time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)),
		"ind_affected":  schema.NumberValue(20),
	})

	return &core.ReportResult{
		SectorGaps:  sector,
		SpatialGaps: spatial,
		Unassisted:  unassisted,
		Summary: schema.RunSummary{
			PrevPeriod:       time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
			CurrentPeriod:    time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC),
			TotalAlerts:      3,
			ValidatedAlerts:  2,
			AlertsInPeriod:   2,
			UnassistedAlerts: 1,
			ForecastAlerts:   2,
			RRMResponses:     1,
			PostRRMResponses: 1,
		},
	}
}

func sampleConfig() *contract.Config {
	return &contract.Config{Precision: 2, Width: 100}
}

func TestBuildReportRenderModel(t *testing.T) {
	model := BuildReportRenderModel(sampleResult(), sampleConfig())

	assert.Equal(t, "2024-03-01", model.Summary.PrevPeriod)
	assert.Equal(t, "2024-04-01", model.Summary.CurrentPeriod)
	assert.Equal(t, 3, model.Summary.TotalAlerts)

	require.Len(t, model.SectorGaps, 2)
	require.NotNil(t, model.SectorGaps[0].CoveragePercent)
	assert.Equal(t, 25.0, *model.SectorGaps[0].CoveragePercent)
	assert.Equal(t, contract.CriticalValue, model.SectorGaps[0].Label)
	assert.Nil(t, model.SectorGaps[1].CoveragePercent)
	assert.Equal(t, "N/A", model.SectorGaps[1].Label)

	require.Len(t, model.SpatialGaps, 1)
	assert.Equal(t, "north", model.SpatialGaps[0].Group)
	assert.Equal(t, contract.ModerateValue, model.SpatialGaps[0].Label)

	require.Len(t, model.UnassistedAlerts, 1)
	assert.Equal(t, "a-2", model.UnassistedAlerts[0]["uuid"])
	assert.Equal(t, "2024-03-10", model.UnassistedAlerts[0]["incident_date"])
	assert.Equal(t, 20.0, model.UnassistedAlerts[0]["ind_affected"])
}

func TestWriteCSVSections(t *testing.T) {
	fmtFloat, _ := createFormatters(2)
	result := sampleResult()
	model := BuildReportRenderModel(result, sampleConfig())

	var buf bytes.Buffer
	require.NoError(t, writeCSVSections(&buf, model, result, fmtFloat))

	out := buf.String()
	assert.Contains(t, out, "group,sector,alerts_in_period,alerts_assisted,coverage_percent,label")
	assert.Contains(t, out, "all,food,4,1,25.00,Critical")
	assert.Contains(t, out, "all,wash,0,0,,N/A")
	assert.Contains(t, out, "north,70,40,30,42.86,Moderate")
	assert.Contains(t, out, "a-2,2024-03-10,20")

	// Three sections separated by blank lines
	assert.Equal(t, 2, strings.Count(out, "\n\n"))
}

func TestPrintJSONReport(t *testing.T) {
	outputFile := filepath.Join(t.TempDir(), "report.json")
	cfg := sampleConfig()
	cfg.OutputFile = outputFile

	require.NoError(t, printJSONReport(sampleResult(), cfg))

	raw, err := os.ReadFile(outputFile)
	require.NoError(t, err)

	var model ReportRenderModel
	require.NoError(t, json.Unmarshal(raw, &model))
	assert.Equal(t, 3, model.Summary.TotalAlerts)
	require.Len(t, model.SectorGaps, 2)
	assert.Equal(t, "food", model.SectorGaps[0].Sector)
	assert.Nil(t, model.SectorGaps[1].CoveragePercent)
}

func TestPrintCSVReportFiles(t *testing.T) {
	base := filepath.Join(t.TempDir(), "report")
	cfg := sampleConfig()
	cfg.OutputFile = base

	require.NoError(t, printCSVReport(sampleResult(), cfg))

	for _, suffix := range []string{".sector_gaps.csv", ".spatial_gaps.csv", ".unassisted.csv"} {
		raw, err := os.ReadFile(base + suffix)
		require.NoError(t, err, "expected %s to exist", suffix)
		assert.NotEmpty(t, raw)
	}

	raw, err := os.ReadFile(base + ".unassisted.csv")
	require.NoError(t, err)
	assert.Contains(t, string(raw), "uuid,incident_date,ind_affected")
	assert.Contains(t, string(raw), "a-2,2024-03-10,20")
}

func TestPrintParquetReport(t *testing.T) {
	base := filepath.Join(t.TempDir(), "report")
	cfg := sampleConfig()
	cfg.OutputFile = base

	require.NoError(t, printParquetReport(sampleResult(), cfg))

	for _, suffix := range []string{".sector_gaps.parquet", ".spatial_gaps.parquet", ".unassisted.csv"} {
		info, err := os.Stat(base + suffix)
		require.NoError(t, err, "expected %s to exist", suffix)
		assert.Greater(t, info.Size(), int64(0))
	}
}

func TestPrintParquetReportRequiresFile(t *testing.T) {
	err := printParquetReport(sampleResult(), sampleConfig())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--output-file")
}

func TestGapPercent(t *testing.T) {
	assert.Equal(t, 75.0, gapPercent(schema.SomeFloat(25)).V)
	assert.False(t, gapPercent(schema.Float{}).OK)
}

func TestTruncateCell(t *testing.T) {
	assert.Equal(t, "short", truncateCell("short", 12))
	assert.Equal(t, "longer st...", truncateCell("longer string than width", 12))
	assert.Equal(t, "abc", truncateCell("abc", 3))
}

func TestGetMaxTableGroupWidth(t *testing.T) {
	assert.Equal(t, 40, getMaxTableGroupWidth(&contract.Config{Width: 200}))
	assert.Equal(t, 25, getMaxTableGroupWidth(&contract.Config{Width: 80}))
	assert.Equal(t, 12, getMaxTableGroupWidth(&contract.Config{Width: 40}))
}
