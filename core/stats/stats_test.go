package stats

import (
	"testing"

	"github.com/abarry/gapcast/schema"
	"github.com/stretchr/testify/assert"
)

// TestQuantile tests interpolated quantiles.
func TestQuantile(t *testing.T) {
	values := []float64{1, 2, 3, 4}

	assert.Equal(t, schema.SomeFloat(2.5), Median(values))
	assert.Equal(t, schema.SomeFloat(1.75), Quantile(values, 0.25))
	assert.Equal(t, schema.SomeFloat(3.25), Quantile(values, 0.75))
	assert.Equal(t, schema.SomeFloat(1), Quantile(values, 0))
	assert.Equal(t, schema.SomeFloat(4), Quantile(values, 1))
}

// TestQuantileEmpty verifies that empty batches stay missing.
func TestQuantileEmpty(t *testing.T) {
	assert.False(t, Median(nil).OK)

	lower, upper := Fences(nil)
	assert.False(t, lower.OK)
	assert.False(t, upper.OK)
}

// TestFences tests Tukey fence computation.
func TestFences(t *testing.T) {
	values := []float64{1, 2, 3, 4}

	lower, upper := Fences(values)
	assert.InDelta(t, 1.75-1.5*1.5, lower.V, 1e-9)
	assert.InDelta(t, 3.25+1.5*1.5, upper.V, 1e-9)
}

// TestCollect verifies missing values are dropped before batch statistics.
func TestCollect(t *testing.T) {
	got := Collect([]schema.Int{schema.SomeInt(9), {}, schema.SomeInt(14), {}})
	assert.Equal(t, []float64{9, 14}, got)
}
