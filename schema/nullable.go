// Package schema has the table model, nullable scalars, configs and constants
// shared by all parts of gapcast.
package schema

import (
	"math"
	"time"
)

// DayLength is the duration of one calendar day for elapsed-day arithmetic.
// Dates are normalized to UTC midnight on entry, so dividing by DayLength is
// exact.
const DayLength = 24 * time.Hour

// Float is a nullable float64. The zero Float is missing.
type Float struct {
	V  float64
	OK bool
}

// Int is a nullable integer. The zero Int is missing.
type Int struct {
	V  int
	OK bool
}

// Date is a nullable calendar date. The zero Date is missing.
type Date struct {
	V  time.Time
	OK bool
}

// SomeFloat returns a present Float.
func SomeFloat(v float64) Float { return Float{V: v, OK: true} }

// SomeInt returns a present Int.
func SomeInt(v int) Int { return Int{V: v, OK: true} }

// SomeDate returns a present Date normalized to UTC midnight.
func SomeDate(t time.Time) Date { return Date{V: Midnight(t), OK: true} }

// Midnight truncates a timestamp to its UTC calendar date.
func Midnight(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Round converts a Float to the nearest Int, propagating missing.
func (f Float) Round() Int {
	if !f.OK {
		return Int{}
	}
	return SomeInt(int(math.Round(f.V)))
}

// Int converts a present Int to a Float, propagating missing.
func (i Int) Float() Float {
	if !i.OK {
		return Float{}
	}
	return SomeFloat(float64(i.V))
}

// Add returns i+j, missing if either operand is missing.
func (i Int) Add(j Int) Int {
	if !i.OK || !j.OK {
		return Int{}
	}
	return SomeInt(i.V + j.V)
}

// Positive reports whether the value is present and greater than zero.
func (i Int) Positive() bool { return i.OK && i.V > 0 }

// DaysUntil returns the whole days from d to other (other minus d).
// Missing on either side propagates.
func (d Date) DaysUntil(other Date) Int {
	if !d.OK || !other.OK {
		return Int{}
	}
	return SomeInt(int(other.V.Sub(d.V) / DayLength))
}

// AddDays returns the date shifted by n days, propagating missing on either
// operand.
func (d Date) AddDays(n Int) Date {
	if !d.OK || !n.OK {
		return Date{}
	}
	return SomeDate(d.V.Add(time.Duration(n.V) * DayLength))
}

// OnOrBefore reports whether the date is present and not after t.
// A missing date never satisfies a comparison.
func (d Date) OnOrBefore(t time.Time) bool {
	return d.OK && !d.V.After(Midnight(t))
}

// Before reports whether the date is present and strictly before t.
func (d Date) Before(t time.Time) bool {
	return d.OK && d.V.Before(Midnight(t))
}

// After reports whether the date is present and strictly after t.
func (d Date) After(t time.Time) bool {
	return d.OK && d.V.After(Midnight(t))
}

// MaxInt returns the maximum over the present values, or missing when every
// value is missing. It never manufactures a sentinel for the empty case.
func MaxInt(values ...Int) Int {
	out := Int{}
	for _, v := range values {
		if !v.OK {
			continue
		}
		if !out.OK || v.V > out.V {
			out = v
		}
	}
	return out
}

// MinDate returns the earliest present date, or missing when every value is
// missing.
func MinDate(values ...Date) Date {
	out := Date{}
	for _, v := range values {
		if !v.OK {
			continue
		}
		if !out.OK || v.V.Before(out.V) {
			out = v
		}
	}
	return out
}
