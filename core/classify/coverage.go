package classify

import (
	"sort"

	"github.com/abarry/gapcast/schema"
)

// Coverage summary column names.
const (
	ColGroup           = "group"
	ColSector          = "sector"
	ColAlertsInPeriod  = "alerts_in_period"
	ColAlertsAssisted  = "alerts_assisted"
	ColCoveragePercent = "coverage_percent"

	ColIndAffected         = "ind_affected"
	ColIndAssisted         = "response_ind_assisted"
	ColIndNotAssisted      = "response_ind_notassisted"
	ColIndNotAssistedShare = "response_ind_notassisted_percent"
)

// Timeline annotates the joined table with the two period predicates shared
// by every coverage summary: alert_timeline (valid incident inside the
// window) and response_timeline (RRM response start inside the window). Both
// use the half-open [previous, current) convention.
func Timeline(t *schema.Table, cfg schema.CoverageConfig) (*schema.Table, error) {
	if err := cfg.Window.Validate(); err != nil {
		return nil, err
	}
	if cfg.ValidStatus == "" {
		return nil, schema.ConfigError("valid status literal is required")
	}
	if err := t.RequireColumns(cfg.Status, cfg.IncidentDate, cfg.ResponseStartDate); err != nil {
		return nil, err
	}

	out := t.Clone()
	out.AddColumn(schema.ColAlertTimeline)
	out.AddColumn(schema.ColResponseTimeline)
	for _, row := range out.Rows {
		status, _ := row.Get(cfg.Status).Str()
		valid := status == cfg.ValidStatus
		row[schema.ColAlertTimeline] = schema.BoolValue(valid && cfg.Window.Contains(row.Get(cfg.IncidentDate).Date()))
		row[schema.ColResponseTimeline] = schema.BoolValue(cfg.Window.Contains(row.Get(cfg.ResponseStartDate).Date()))
	}
	return out, nil
}

// SectorGaps reduces a timeline-annotated table to per-sector coverage per
// group: alerts that reported a need for the sector inside the period,
// alerts whose in-period response delivered it, and the coverage share.
// Coverage stays missing when no alert needed the sector.
func SectorGaps(t *schema.Table, cfg schema.CoverageConfig) (*schema.Table, error) {
	if err := validateSummaryInput(t, cfg, true); err != nil {
		return nil, err
	}

	type bucket struct{ need, covered int }
	counts := make(map[string]map[schema.Sector]*bucket)

	for _, row := range t.Rows {
		if !row.Get(schema.ColAlertTimeline).Truthy() {
			continue
		}
		group := groupKey(row, cfg)
		if counts[group] == nil {
			counts[group] = make(map[schema.Sector]*bucket)
		}
		responded := row.Get(schema.ColResponseTimeline).Truthy()
		for _, sector := range schema.AllSectors {
			needCol, ok := cfg.SectorNeeds[sector]
			if !ok {
				continue
			}
			if !row.Get(needCol).Truthy() {
				continue
			}
			b := counts[group][sector]
			if b == nil {
				b = &bucket{}
				counts[group][sector] = b
			}
			b.need++
			if responded && row.Get(cfg.SectorResponses[sector]).Truthy() {
				b.covered++
			}
		}
	}

	out := schema.NewTable(ColGroup, ColSector, ColAlertsInPeriod, ColAlertsAssisted, ColCoveragePercent)
	for _, group := range sortedKeys(counts) {
		for _, sector := range schema.AllSectors {
			b := counts[group][sector]
			if b == nil {
				continue
			}
			out.Append(schema.Record{
				ColGroup:           schema.StringValue(group),
				ColSector:          schema.StringValue(string(sector)),
				ColAlertsInPeriod:  schema.NumberValue(float64(b.need)),
				ColAlertsAssisted:  schema.NumberValue(float64(b.covered)),
				ColCoveragePercent: percent(b.covered, b.need),
			})
		}
	}
	return out, nil
}

// SpatialGaps reduces a timeline-annotated table to individual-level reach
// per group: individuals affected by in-period alerts, individuals assisted
// by in-period responses, and the unassisted remainder. The unassisted share
// divides by assisted+notassisted and stays missing when both are zero,
// which is "no data", not "no gap".
func SpatialGaps(t *schema.Table, cfg schema.CoverageConfig) (*schema.Table, error) {
	if err := validateSummaryInput(t, cfg, false); err != nil {
		return nil, err
	}

	type reach struct{ affected, assisted int }
	totals := make(map[string]*reach)

	for _, row := range t.Rows {
		if !row.Get(schema.ColAlertTimeline).Truthy() {
			continue
		}
		group := groupKey(row, cfg)
		r := totals[group]
		if r == nil {
			r = &reach{}
			totals[group] = r
		}
		if ind := row.Get(cfg.AlertCounts.Individual).Int(); ind.OK {
			r.affected += ind.V
		}
		if row.Get(schema.ColResponseTimeline).Truthy() {
			if ind := row.Get(cfg.ResponseCounts.Individual).Int(); ind.OK {
				r.assisted += ind.V
			}
		}
	}

	out := schema.NewTable(ColGroup, ColIndAffected, ColIndAssisted, ColIndNotAssisted, ColIndNotAssistedShare)
	for _, group := range sortedKeys(totals) {
		r := totals[group]
		notAssisted := r.affected - r.assisted
		if notAssisted < 0 {
			notAssisted = 0
		}
		out.Append(schema.Record{
			ColGroup:               schema.StringValue(group),
			ColIndAffected:         schema.NumberValue(float64(r.affected)),
			ColIndAssisted:         schema.NumberValue(float64(r.assisted)),
			ColIndNotAssisted:      schema.NumberValue(float64(notAssisted)),
			ColIndNotAssistedShare: percent(notAssisted, r.assisted+notAssisted),
		})
	}
	return out, nil
}

// UnassistedAlerts lists the alerts whose incident fell inside the period
// without any in-period response start, the raw material for the follow-up
// list shared with field teams.
func UnassistedAlerts(t *schema.Table, cfg schema.CoverageConfig) (*schema.Table, error) {
	if err := validateSummaryInput(t, cfg, false); err != nil {
		return nil, err
	}

	out := schema.NewTable(t.Columns...)
	for _, row := range t.Rows {
		if row.Get(schema.ColAlertTimeline).Truthy() && !row.Get(schema.ColResponseTimeline).Truthy() {
			out.Append(row.Clone())
		}
	}
	return out, nil
}

// validateSummaryInput checks the timeline columns, the disaggregation token
// and the sector mappings before any summary computation.
func validateSummaryInput(t *schema.Table, cfg schema.CoverageConfig, sectors bool) error {
	if _, ok := schema.ValidDisaggregations[cfg.Disaggregation]; !ok && cfg.Disaggregation != "" {
		return schema.ConfigError("unsupported disaggregation %q", cfg.Disaggregation)
	}
	if !sectors && cfg.Disaggregation == schema.DisaggSector {
		return schema.ConfigError("sector disaggregation only applies to sector summaries")
	}
	required := []string{schema.ColAlertTimeline, schema.ColResponseTimeline}
	switch cfg.Disaggregation {
	case schema.DisaggAdmin1:
		required = append(required, cfg.Admin1)
	case schema.DisaggAdmin2:
		required = append(required, cfg.Admin2)
	}
	if sectors {
		for sector, needCol := range cfg.SectorNeeds {
			respCol, ok := cfg.SectorResponses[sector]
			if !ok {
				return schema.ConfigError("sector %q has a need column but no response column", sector)
			}
			required = append(required, needCol, respCol)
		}
	} else {
		required = append(required, cfg.AlertCounts.Individual, cfg.ResponseCounts.Individual)
	}
	return t.RequireColumns(required...)
}

// groupKey resolves the summary group of a row per the disaggregation level.
func groupKey(row schema.Record, cfg schema.CoverageConfig) string {
	var col string
	switch cfg.Disaggregation {
	case schema.DisaggAdmin1:
		col = cfg.Admin1
	case schema.DisaggAdmin2:
		col = cfg.Admin2
	default:
		return "all"
	}
	if v, ok := row.Get(col).Str(); ok && v != "" {
		return v
	}
	return "unknown"
}

// percent returns 100*num/den, missing when the denominator is zero.
func percent(num, den int) schema.Value {
	if den == 0 {
		return schema.Value{}
	}
	return schema.NumberValue(100 * float64(num) / float64(den))
}

// sortedKeys returns map keys in deterministic order.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
