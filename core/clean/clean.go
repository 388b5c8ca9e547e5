// Package clean has the field-cleaning transforms applied to alert and
// response snapshots before aggregation: household/individual count
// reconciliation, start/end date gap repair, and date column parsing.
package clean

import (
	"time"

	"github.com/abarry/gapcast/core/stats"
	"github.com/abarry/gapcast/schema"
)

// ReconcileCounts imputes and corrects household/individual counts using the
// configured average household size. Rules, in order per record:
//
//  1. household missing, individual present -> household = round(ind / hhsize)
//  2. individual missing, household present -> individual = round(hh * hhsize)
//  3. both present and household > individual -> household = round(ind / hhsize)
//
// Both missing stays missing. After the pass, household never exceeds
// individual when both are present.
func ReconcileCounts(t *schema.Table, cfg schema.CleanCountsConfig) (*schema.Table, error) {
	if cfg.HouseholdSize <= 0 {
		return nil, schema.ConfigError("household size must be positive, got %d", cfg.HouseholdSize)
	}
	if err := t.RequireColumns(cfg.Columns.Household, cfg.Columns.Individual); err != nil {
		return nil, err
	}

	hhsize := float64(cfg.HouseholdSize)
	out := t.Clone()
	for _, row := range out.Rows {
		hh := row.Get(cfg.Columns.Household).Float()
		ind := row.Get(cfg.Columns.Individual).Float()

		switch {
		case !hh.OK && ind.OK:
			row[cfg.Columns.Household] = schema.IntValue(schema.SomeFloat(ind.V / hhsize).Round())
		case hh.OK && !ind.OK:
			row[cfg.Columns.Individual] = schema.IntValue(schema.SomeFloat(hh.V * hhsize).Round())
		case hh.OK && ind.OK && hh.V > ind.V:
			row[cfg.Columns.Household] = schema.IntValue(schema.SomeFloat(ind.V / hhsize).Round())
		}
	}
	return out, nil
}

// CleanDateGaps repairs implausible start/end date pairs. The elapsed gap in
// days is computed per row, outliers are detected with the Tukey fence rule
// over the whole batch, and negative or out-of-fence gaps are replaced by the
// batch median before end dates are rebuilt from start dates. Rows with an
// end date but no start date get a start imputed from the median gap. The
// batch statistics are recomputed on every invocation.
func CleanDateGaps(t *schema.Table, cfg schema.CleanDatesConfig) (*schema.Table, error) {
	if err := t.RequireColumns(cfg.StartDate, cfg.EndDate); err != nil {
		return nil, err
	}

	gaps := make([]schema.Int, t.Len())
	for i, row := range t.Rows {
		gaps[i] = row.Get(cfg.StartDate).Date().DaysUntil(row.Get(cfg.EndDate).Date())
	}

	observed := stats.Collect(gaps)
	lower, upper := stats.Fences(observed)
	median := stats.Median(observed).Round()

	out := t.Clone()
	for i, row := range out.Rows {
		start := row.Get(cfg.StartDate).Date()
		end := row.Get(cfg.EndDate).Date()
		gap := gaps[i]

		switch {
		case start.OK && end.OK:
			corrected := gap
			if gapIsOutlier(gap, lower, upper) {
				corrected = median
			}
			row[cfg.EndDate] = schema.DateValueOpt(start.AddDays(corrected))
		case end.OK && !start.OK && median.OK:
			row[cfg.StartDate] = schema.DateValueOpt(end.AddDays(schema.SomeInt(-median.V)))
		}
	}
	return out, nil
}

// gapIsOutlier reports whether a present gap is negative or outside the
// batch fences.
func gapIsOutlier(gap schema.Int, lower, upper schema.Float) bool {
	if !gap.OK {
		return false
	}
	if gap.V < 0 {
		return true
	}
	if lower.OK && float64(gap.V) < lower.V {
		return true
	}
	if upper.OK && float64(gap.V) > upper.V {
		return true
	}
	return false
}

// ParseDates converts textual or numeric date columns to date cells. With a
// layout configured, string cells are parsed against it; otherwise numeric
// cells are read as whole days since the configured origin. Cells that fail
// to parse become missing, never an error. Date cells pass through untouched.
func ParseDates(t *schema.Table, cfg schema.ParseDatesConfig) (*schema.Table, error) {
	if cfg.Layout == "" && cfg.Origin.IsZero() {
		return nil, schema.ConfigError("date parsing requires a layout or an origin date")
	}
	if err := t.RequireColumns(cfg.Columns...); err != nil {
		return nil, err
	}

	out := t.Clone()
	for _, row := range out.Rows {
		for _, col := range cfg.Columns {
			row[col] = parseDateCell(row.Get(col), cfg)
		}
	}
	return out, nil
}

// parseDateCell converts one cell per the configured convention.
func parseDateCell(v schema.Value, cfg schema.ParseDatesConfig) schema.Value {
	switch v.Kind() {
	case schema.DateKind:
		return v
	case schema.StringKind:
		if cfg.Layout == "" {
			return schema.Value{}
		}
		s, _ := v.Str()
		parsed, err := time.Parse(cfg.Layout, s)
		if err != nil {
			return schema.Value{}
		}
		return schema.DateValue(parsed)
	case schema.NumberKind:
		if cfg.Origin.IsZero() {
			return schema.Value{}
		}
		return schema.DateValueOpt(schema.SomeDate(cfg.Origin).AddDays(v.Int()))
	default:
		return schema.Value{}
	}
}
