// Package join merges the alert, evaluation and aggregated response tables
// into one analysis row per alert and derives the elapsed-time metrics
// between pipeline milestones.
package join

import (
	"github.com/abarry/gapcast/schema"
)

// Join left-joins evaluation, aggregated RRM response and aggregated post-RRM
// response rows onto the alert table. Every alert survives; evaluation and
// response rows without a matching alert are dropped. Joined response columns
// are prefixed ("rrm_", "postrrm_") so the two response tables can share a
// column vocabulary.
//
// Derived columns:
//
//   - has_rrm_response / has_postrrm_response, strictly from the response
//     count columns (a response is counted before its dates are recorded)
//   - elapsed days between milestones, with any missing endpoint propagating
//     as a missing elapsed time
func Join(alerts, evaluations, rrm, postrrm *schema.Table, cfg schema.JoinConfig) (*schema.Table, error) {
	if err := alerts.RequireColumns(cfg.UUID, cfg.IncidentDate); err != nil {
		return nil, err
	}
	if err := evaluations.RequireColumns(cfg.EvaluationUUID, cfg.ValidationDate); err != nil {
		return nil, err
	}
	if err := rrm.RequireColumns(cfg.RRM.UUID, cfg.RRM.StartDate, cfg.RRM.EndDate, cfg.RRM.Count); err != nil {
		return nil, err
	}
	if err := postrrm.RequireColumns(cfg.PostRRM.UUID, cfg.PostRRM.StartDate, cfg.PostRRM.EndDate, cfg.PostRRM.Count); err != nil {
		return nil, err
	}

	evalIdx := indexByUUID(evaluations, cfg.EvaluationUUID)
	rrmIdx := indexByUUID(rrm, cfg.RRM.UUID)
	postIdx := indexByUUID(postrrm, cfg.PostRRM.UUID)

	out := schema.NewTable(alerts.Columns...)
	appendColumns(out, evaluations, cfg.EvaluationUUID, "")
	appendColumns(out, rrm, cfg.RRM.UUID, schema.RRMPrefix)
	appendColumns(out, postrrm, cfg.PostRRM.UUID, schema.PostRRMPrefix)
	out.AddColumn(schema.ColHasRRMResponse)
	out.AddColumn(schema.ColHasPostRRMResponse)
	for _, c := range elapsedColumns() {
		out.AddColumn(c)
	}

	for _, alert := range alerts.Rows {
		row := alert.Clone()
		key, _ := alert.Get(cfg.UUID).Str()

		mergeRow(row, evalIdx[key], evaluations, cfg.EvaluationUUID, "")
		mergeRow(row, rrmIdx[key], rrm, cfg.RRM.UUID, schema.RRMPrefix)
		mergeRow(row, postIdx[key], postrrm, cfg.PostRRM.UUID, schema.PostRRMPrefix)

		row[schema.ColHasRRMResponse] = schema.BoolValue(row.Get(schema.RRMPrefix + cfg.RRM.Count).Int().Positive())
		row[schema.ColHasPostRRMResponse] = schema.BoolValue(row.Get(schema.PostRRMPrefix + cfg.PostRRM.Count).Int().Positive())

		deriveElapsed(row, cfg)
		out.Append(row)
	}
	return out, nil
}

// indexByUUID maps identifier to first matching row.
func indexByUUID(t *schema.Table, uuidCol string) map[string]schema.Record {
	idx := make(map[string]schema.Record, t.Len())
	for _, row := range t.Rows {
		key, ok := row.Get(uuidCol).Str()
		if !ok {
			continue
		}
		if _, dup := idx[key]; !dup {
			idx[key] = row
		}
	}
	return idx
}

// appendColumns declares the prefixed non-key columns of a joined-in table.
func appendColumns(out, src *schema.Table, uuidCol, prefix string) {
	for _, c := range src.Columns {
		if c == uuidCol {
			continue
		}
		out.AddColumn(prefix + c)
	}
}

// mergeRow copies the prefixed non-key cells of a match into the output row.
// A nil match leaves the joined columns missing.
func mergeRow(row schema.Record, match schema.Record, src *schema.Table, uuidCol, prefix string) {
	if match == nil {
		return
	}
	for _, c := range src.Columns {
		if c == uuidCol {
			continue
		}
		row[prefix+c] = match.Get(c)
	}
}

// elapsedColumns lists the derived elapsed-time columns in output order.
func elapsedColumns() []string {
	return []string{
		schema.ColTimeAlertToValidation,
		schema.ColTimeValidationToRRM,
		schema.ColTimeRRMDuration,
		schema.ColTimeRRMToPostRRM,
		schema.ColTimePostRRMDuration,
		schema.ColTimeAlertToRRM,
		schema.ColTimeAlertToPostRRM,
	}
}

// deriveElapsed computes the elapsed-day metrics on a joined row. Plain date
// subtractions; any missing operand yields a missing result.
func deriveElapsed(row schema.Record, cfg schema.JoinConfig) {
	incident := row.Get(cfg.IncidentDate).Date()
	validation := row.Get(cfg.ValidationDate).Date()
	rrmStart := row.Get(schema.RRMPrefix + cfg.RRM.StartDate).Date()
	rrmEnd := row.Get(schema.RRMPrefix + cfg.RRM.EndDate).Date()
	postStart := row.Get(schema.PostRRMPrefix + cfg.PostRRM.StartDate).Date()
	postEnd := row.Get(schema.PostRRMPrefix + cfg.PostRRM.EndDate).Date()

	alertToValidation := incident.DaysUntil(validation)
	validationToRRM := validation.DaysUntil(rrmStart)
	rrmToPost := rrmStart.DaysUntil(postStart)
	alertToRRM := alertToValidation.Add(validationToRRM)

	row[schema.ColTimeAlertToValidation] = schema.IntValue(alertToValidation)
	row[schema.ColTimeValidationToRRM] = schema.IntValue(validationToRRM)
	row[schema.ColTimeRRMDuration] = schema.IntValue(rrmStart.DaysUntil(rrmEnd))
	row[schema.ColTimeRRMToPostRRM] = schema.IntValue(rrmToPost)
	row[schema.ColTimePostRRMDuration] = schema.IntValue(postStart.DaysUntil(postEnd))
	row[schema.ColTimeAlertToRRM] = schema.IntValue(alertToRRM)
	row[schema.ColTimeAlertToPostRRM] = schema.IntValue(alertToRRM.Add(rrmToPost))
}
