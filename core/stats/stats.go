// Package stats has the small order-statistics helpers used by the cleaning
// and forecasting logic. Everything is recomputed per batch; nothing is
// cached across invocations.
package stats

import (
	"math"
	"sort"

	"github.com/abarry/gapcast/schema"
)

// Collect extracts the present values from a slice of nullable ints.
func Collect(values []schema.Int) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if v.OK {
			out = append(out, float64(v.V))
		}
	}
	return out
}

// Quantile returns the p-quantile (0 <= p <= 1) of the values using linear
// interpolation between order statistics. Missing when the slice is empty.
func Quantile(values []float64, p float64) schema.Float {
	if len(values) == 0 {
		return schema.Float{}
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	pos := p * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return schema.SomeFloat(sorted[lo])
	}
	frac := pos - float64(lo)
	return schema.SomeFloat(sorted[lo]*(1-frac) + sorted[hi]*frac)
}

// Median returns the median of the values, missing when empty.
func Median(values []float64) schema.Float {
	return Quantile(values, 0.5)
}

// Fences returns the Tukey outlier fences Q1-1.5*IQR and Q3+1.5*IQR.
// Both are missing when the slice is empty.
func Fences(values []float64) (lower, upper schema.Float) {
	q1 := Quantile(values, 0.25)
	q3 := Quantile(values, 0.75)
	if !q1.OK || !q3.OK {
		return schema.Float{}, schema.Float{}
	}
	iqr := q3.V - q1.V
	return schema.SomeFloat(q1.V - 1.5*iqr), schema.SomeFloat(q3.V + 1.5*iqr)
}
