package ingest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/abarry/gapcast/internal/contract"
	"github.com/abarry/gapcast/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadTable(t *testing.T) {
	csvData := strings.Join([]string{
		"uuid,incident_date,hh_number,ind_number",
		"a-1,2024-03-05,10,50",
		"a-2,2024-03-10,NA,20",
		"a-3,,not-a-number,",
	}, "\n")

	tbl, err := ReadTable(strings.NewReader(csvData), []string{"hh_number", "ind_number"})
	require.NoError(t, err)
	assert.Equal(t, []string{"uuid", "incident_date", "hh_number", "ind_number"}, tbl.Columns)
	require.Equal(t, 3, tbl.Len())

	uuid, _ := tbl.Rows[0].Get("uuid").Str()
	assert.Equal(t, "a-1", uuid)
	assert.Equal(t, 10, tbl.Rows[0].Get("hh_number").Int().V)

	// Dates stay strings until the pipeline parses them.
	incident, ok := tbl.Rows[0].Get("incident_date").Str()
	assert.True(t, ok)
	assert.Equal(t, "2024-03-05", incident)

	// NA and unparseable numerics become missing.
	assert.True(t, tbl.Rows[1].Get("hh_number").IsMissing())
	assert.True(t, tbl.Rows[2].Get("hh_number").IsMissing())
	assert.True(t, tbl.Rows[2].Get("incident_date").IsMissing())
}

func TestReadTableRaggedRow(t *testing.T) {
	csvData := "uuid,hh_number\na-1,10,extra\n"
	_, err := ReadTable(strings.NewReader(csvData), nil)
	assert.Error(t, err)
}

func TestReadTableEmpty(t *testing.T) {
	_, err := ReadTable(strings.NewReader(""), nil)
	assert.Error(t, err)
}

func TestLoadInputs(t *testing.T) {
	dir := t.TempDir()
	alertsPath := filepath.Join(dir, "alerts.csv")
	require.NoError(t, os.WriteFile(alertsPath, []byte(
		"uuid,incident_date,status,hh_number,ind_number\n"+
			"a-1,2024-03-05,valid,10,50\n"), 0o644))

	cfg := &contract.Config{}
	require.NoError(t, contract.ProcessAndValidate(cfg, &contract.ConfigRawInput{
		Alerts:        alertsPath,
		PrevPeriod:    "2024-03-01",
		CurrentPeriod: "2024-04-01",
		Threshold:     "2024-01-01",
		HouseholdSize: 5,
		OffsetDays:    90,
		Precision:     1,
	}))

	input, err := LoadInputs(cfg)
	require.NoError(t, err)
	assert.Equal(t, 1, input.Alerts.Len())
	assert.Equal(t, 10, input.Alerts.Rows[0].Get("hh_number").Int().V)

	// Absent snapshots load as empty tables with the expected shape.
	assert.Equal(t, 0, input.Evaluations.Len())
	assert.True(t, input.Evaluations.HasColumn("validation_date"))
	assert.Equal(t, 0, input.RRM.Len())
	assert.True(t, input.RRM.HasColumn(string(schema.SectorFood)))
	assert.True(t, input.PostRRM.HasColumn("response_start_date"))
}

func TestLoadInputsMissingFile(t *testing.T) {
	cfg := &contract.Config{}
	require.NoError(t, contract.ProcessAndValidate(cfg, &contract.ConfigRawInput{
		Alerts:        filepath.Join(t.TempDir(), "nope.csv"),
		PrevPeriod:    "2024-03-01",
		CurrentPeriod: "2024-04-01",
		Threshold:     "2024-01-01",
		HouseholdSize: 5,
		OffsetDays:    90,
		Precision:     1,
	}))

	_, err := LoadInputs(cfg)
	assert.Error(t, err)
}
