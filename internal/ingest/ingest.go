// Package ingest loads snapshot CSV exports into typed tables. Header names
// become column names; cells are typed per column role. Malformed cells
// become missing values, only unreadable files are errors.
package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/abarry/gapcast/core"
	"github.com/abarry/gapcast/internal/contract"
	"github.com/abarry/gapcast/schema"
)

// missingTokens are cell spellings treated as missing on read.
var missingTokens = map[string]struct{}{
	"":    {},
	"NA":  {},
	"N/A": {},
	"NaN": {},
}

// LoadTable reads one CSV file into a table. Columns named in numericColumns
// parse as numbers, everything else stays a string. Date columns load as
// strings here and are parsed inside the pipeline against the configured
// layout.
func LoadTable(path string, numericColumns []string) (*schema.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	return ReadTable(f, numericColumns)
}

// ReadTable reads CSV content into a table.
func ReadTable(r io.Reader, numericColumns []string) (*schema.Table, error) {
	numeric := make(map[string]struct{}, len(numericColumns))
	for _, c := range numericColumns {
		numeric[c] = struct{}{}
	}

	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("snapshot has no header row")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	for i, c := range header {
		header[i] = strings.TrimSpace(c)
	}

	out := schema.NewTable(header...)
	for {
		cells, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row %d: %w", out.Len()+2, err)
		}
		row := make(schema.Record, len(header))
		for i, col := range header {
			_, isNumeric := numeric[col]
			row[col] = parseCell(cells[i], isNumeric)
		}
		out.Append(row)
	}
	return out, nil
}

// parseCell types one raw cell. Numeric columns that fail to parse become
// missing, which downstream stages treat as absent data.
func parseCell(raw string, isNumeric bool) schema.Value {
	raw = strings.TrimSpace(raw)
	if _, missing := missingTokens[raw]; missing {
		return schema.Value{}
	}
	if !isNumeric {
		return schema.StringValue(raw)
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return schema.Value{}
	}
	return schema.NumberValue(f)
}

// LoadInputs loads the four snapshot tables per the validated configuration.
// The alerts path is required; a missing evaluation or response path yields
// an empty table so the pipeline reports zero responses instead of failing.
func LoadInputs(cfg *contract.Config) (core.PipelineInput, error) {
	var input core.PipelineInput

	alerts, err := LoadTable(cfg.AlertsPath, alertNumericColumns(cfg))
	if err != nil {
		return input, err
	}
	input.Alerts = alerts

	input.Evaluations = schema.NewTable(cfg.Columns.UUID, cfg.Columns.ValidationDate)
	if cfg.EvaluationsPath != "" {
		if input.Evaluations, err = LoadTable(cfg.EvaluationsPath, nil); err != nil {
			return input, err
		}
	}

	input.RRM = emptyResponses(cfg)
	if cfg.RRMPath != "" {
		if input.RRM, err = LoadTable(cfg.RRMPath, responseNumericColumns(cfg)); err != nil {
			return input, err
		}
	}

	input.PostRRM = emptyResponses(cfg)
	if cfg.PostRRMPath != "" {
		if input.PostRRM, err = LoadTable(cfg.PostRRMPath, responseNumericColumns(cfg)); err != nil {
			return input, err
		}
	}

	return input, nil
}

// alertNumericColumns lists the alert columns typed as numbers: the two
// population counts and the per-sector need flags.
func alertNumericColumns(cfg *contract.Config) []string {
	out := []string{cfg.Columns.Household, cfg.Columns.Individual}
	for _, s := range schema.AllSectors {
		out = append(out, contract.NeedColumnPrefix+string(s))
	}
	return out
}

// responseNumericColumns lists the response columns typed as numbers: the two
// assistance counts and the per-sector delivery flags.
func responseNumericColumns(cfg *contract.Config) []string {
	out := []string{cfg.Columns.RespHousehold, cfg.Columns.RespIndividual}
	out = append(out, contract.SectorFlagColumns()...)
	return out
}

// emptyResponses returns a response table with the full column set and no
// rows, the shape the aggregator expects when a snapshot is absent.
func emptyResponses(cfg *contract.Config) *schema.Table {
	columns := []string{
		cfg.Columns.UUID,
		cfg.Columns.RespHousehold, cfg.Columns.RespIndividual,
		cfg.Columns.StartDate, cfg.Columns.EndDate,
		cfg.Columns.Actor, cfg.Columns.Donor,
		cfg.Columns.Admin1, cfg.Columns.Admin2,
	}
	columns = append(columns, contract.SectorFlagColumns()...)
	return schema.NewTable(columns...)
}
