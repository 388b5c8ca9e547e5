package core

import (
	"github.com/abarry/gapcast/core/stats"
	"github.com/abarry/gapcast/schema"
)

// ForecastDates writes the prev_postrrm_date column: the estimated date by
// which the post-RRM mechanism should position for each alert. With an RRM
// response the estimate anchors on its start date, staying missing while the
// start date is still unrecorded; without a response, a validated alert
// anchors on its incident date plus the batch median alert-to-RRM time.
// Unvalidated alerts with no response stay missing. The median is recomputed
// over the supplied table on every call.
func ForecastDates(t *schema.Table, cfg schema.ForecastConfig) (*schema.Table, error) {
	if cfg.OffsetDays <= 0 {
		return nil, schema.ConfigError("forecast offset must be positive, got %d", cfg.OffsetDays)
	}
	if cfg.ValidStatus == "" {
		return nil, schema.ConfigError("valid status literal is required")
	}
	if err := t.RequireColumns(cfg.Status, cfg.IncidentDate, cfg.HasRRM, cfg.RRMStartDate, cfg.TimeAlertToRRM); err != nil {
		return nil, err
	}

	elapsed := make([]schema.Int, t.Len())
	for i, row := range t.Rows {
		elapsed[i] = row.Get(cfg.TimeAlertToRRM).Int()
	}
	median := stats.Median(stats.Collect(elapsed)).Round()

	offset := schema.SomeInt(cfg.OffsetDays)
	out := t.Clone()
	out.AddColumn(schema.ColForecastDate)
	for _, row := range out.Rows {
		status, _ := row.Get(cfg.Status).Str()

		var estimate schema.Date
		switch {
		case row.Get(cfg.HasRRM).Truthy():
			estimate = row.Get(cfg.RRMStartDate).Date().AddDays(offset)
		case status == cfg.ValidStatus:
			estimate = row.Get(cfg.IncidentDate).Date().AddDays(median).AddDays(offset)
		}
		row[schema.ColForecastDate] = schema.DateValueOpt(estimate)
	}
	return out, nil
}
