// Package classify computes the temporal positioning indicators and the
// period-bounded coverage indicators over the joined analysis table.
package classify

import (
	"github.com/abarry/gapcast/schema"
)

// Category letters in output order.
var letters = []string{"a", "b", "c", "d"}

// Classify evaluates each joined row independently against the reporting
// window and writes the temporal category columns plus the forecast and
// arrears indicators. Categories, all requiring a validated alert:
//
//	A: validated on/before the previous period date, post-RRM positioning
//	   not yet registered by then, forecast past the eligibility threshold
//	B: validated within the window (exclusive/inclusive bounds)
//	C: post-RRM positioning registered within the window
//	D: positioning still outstanding as of the current period date
//
// Each letter is split into forecast-time sub-buckets relative to the window
// (1: on/before previous, 2: inside, 3: after current) plus the derived
// unions 4 = 1|2, 5 = 2|3 and 6 = 1|3. The final indicators are
// forecast = d3 and not c3, arrears = a4 and not c4.
func Classify(t *schema.Table, cfg schema.ClassifyConfig) (*schema.Table, error) {
	if err := cfg.Window.Validate(); err != nil {
		return nil, err
	}
	if cfg.ValidStatus == "" {
		return nil, schema.ConfigError("valid status literal is required")
	}
	if cfg.Threshold.IsZero() {
		return nil, schema.ConfigError("forecast eligibility threshold date is required")
	}
	if err := t.RequireColumns(cfg.Status, cfg.ValidationDate, cfg.PostRRMStartDate, cfg.HasPostRRM, cfg.ForecastDate); err != nil {
		return nil, err
	}

	out := t.Clone()
	out.AddColumn(schema.ColValidation)
	for _, letter := range letters {
		for bucket := 1; bucket <= 6; bucket++ {
			out.AddColumn(schema.CategoryColumn(letter, bucket))
		}
	}
	out.AddColumn(schema.ColForecast)
	out.AddColumn(schema.ColArrears)

	p1 := schema.Midnight(cfg.Window.PrevPeriod)
	p2 := schema.Midnight(cfg.Window.CurrentPeriod)

	for _, row := range out.Rows {
		status, _ := row.Get(cfg.Status).Str()
		valid := status == cfg.ValidStatus
		row[schema.ColValidation] = schema.BoolValue(valid)

		valDate := row.Get(cfg.ValidationDate).Date()
		postStart := row.Get(cfg.PostRRMStartDate).Date()
		registered := row.Get(cfg.HasPostRRM).Truthy()
		forecast := row.Get(cfg.ForecastDate).Date()
		eligible := forecast.After(cfg.Threshold)

		catA := valid && valDate.OnOrBefore(p1) && (!registered || postStart.After(p1)) && eligible
		catB := valid && cfg.Window.ContainsExclIncl(valDate)
		catC := valid && eligible && valDate.OnOrBefore(p2) && cfg.Window.ContainsExclIncl(postStart)
		catD := valid && valDate.Before(p2) && (!registered || postStart.After(p2)) && eligible

		sub := subBuckets(forecast, cfg.Window)
		writeCategory(row, "a", catA, sub)
		writeCategory(row, "b", catB, sub)
		writeCategory(row, "c", catC, sub)
		writeCategory(row, "d", catD, sub)

		d3 := row.Get(schema.CategoryColumn("d", 3)).Truthy()
		c3 := row.Get(schema.CategoryColumn("c", 3)).Truthy()
		a4 := row.Get(schema.CategoryColumn("a", 4)).Truthy()
		c4 := row.Get(schema.CategoryColumn("c", 4)).Truthy()

		row[schema.ColForecast] = schema.BoolValue(d3 && !c3)
		row[schema.ColArrears] = schema.BoolValue(a4 && !c4)
	}
	return out, nil
}

// subBuckets places the forecast date relative to the window. A missing
// forecast date falls in no bucket.
func subBuckets(forecast schema.Date, w schema.Window) [3]bool {
	p1 := schema.Midnight(w.PrevPeriod)
	return [3]bool{
		forecast.OnOrBefore(p1),
		w.ContainsExclIncl(forecast),
		forecast.After(schema.Midnight(w.CurrentPeriod)),
	}
}

// writeCategory writes the six bucket columns for one category letter. The
// sub-bucket logic is shared across letters; only the category predicate
// differs.
func writeCategory(row schema.Record, letter string, active bool, sub [3]bool) {
	b1 := active && sub[0]
	b2 := active && sub[1]
	b3 := active && sub[2]
	row[schema.CategoryColumn(letter, 1)] = schema.BoolValue(b1)
	row[schema.CategoryColumn(letter, 2)] = schema.BoolValue(b2)
	row[schema.CategoryColumn(letter, 3)] = schema.BoolValue(b3)
	row[schema.CategoryColumn(letter, 4)] = schema.BoolValue(b1 || b2)
	row[schema.CategoryColumn(letter, 5)] = schema.BoolValue(b2 || b3)
	row[schema.CategoryColumn(letter, 6)] = schema.BoolValue(b1 || b3)
}
