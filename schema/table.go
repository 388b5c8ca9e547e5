package schema

import (
	"fmt"
	"time"
)

// ValueKind discriminates the scalar stored in a Value.
type ValueKind int

// All value kinds supported. MissingKind is the zero kind.
const (
	MissingKind ValueKind = iota
	StringKind
	NumberKind
	DateKind
)

// Value is one table cell. The zero Value is missing. Values are immutable;
// transformations build new cells instead of mutating in place.
type Value struct {
	kind ValueKind
	str  string
	num  float64
	date time.Time
}

// StringValue returns a string cell.
func StringValue(s string) Value { return Value{kind: StringKind, str: s} }

// NumberValue returns a numeric cell.
func NumberValue(f float64) Value { return Value{kind: NumberKind, num: f} }

// IntValue returns a numeric cell from a nullable Int.
func IntValue(i Int) Value {
	if !i.OK {
		return Value{}
	}
	return NumberValue(float64(i.V))
}

// DateValue returns a date cell normalized to UTC midnight.
func DateValue(t time.Time) Value { return Value{kind: DateKind, date: Midnight(t)} }

// DateValueOpt returns a date cell from a nullable Date.
func DateValueOpt(d Date) Value {
	if !d.OK {
		return Value{}
	}
	return DateValue(d.V)
}

// BoolValue returns a 0/1 numeric cell, the convention for binary indicators.
func BoolValue(b bool) Value {
	if b {
		return NumberValue(1)
	}
	return NumberValue(0)
}

// Kind returns the kind of the cell.
func (v Value) Kind() ValueKind { return v.kind }

// IsMissing reports whether the cell holds no value.
func (v Value) IsMissing() bool { return v.kind == MissingKind }

// Str returns the string content, or "" and false for non-string cells.
func (v Value) Str() (string, bool) {
	if v.kind != StringKind {
		return "", false
	}
	return v.str, true
}

// Float returns the numeric content as a nullable Float.
func (v Value) Float() Float {
	if v.kind != NumberKind {
		return Float{}
	}
	return SomeFloat(v.num)
}

// Int returns the numeric content rounded to a nullable Int.
func (v Value) Int() Int {
	return v.Float().Round()
}

// Date returns the date content as a nullable Date.
func (v Value) Date() Date {
	if v.kind != DateKind {
		return Date{}
	}
	return Date{V: v.date, OK: true}
}

// Truthy reports whether the cell is a non-zero number. Missing counts as
// false, which is the treat-missing-as-zero convention for binary flags.
func (v Value) Truthy() bool {
	return v.kind == NumberKind && v.num != 0
}

// Display renders the cell for CSV and table output. Missing cells render
// empty.
func (v Value) Display() string {
	switch v.kind {
	case StringKind:
		return v.str
	case NumberKind:
		if v.num == float64(int64(v.num)) {
			return fmt.Sprintf("%d", int64(v.num))
		}
		return fmt.Sprintf("%g", v.num)
	case DateKind:
		return v.date.Format(time.DateOnly)
	default:
		return ""
	}
}

// Record maps column names to cells. Absent keys read as missing.
type Record map[string]Value

// Get returns the cell for a column, missing when the column is absent.
func (r Record) Get(column string) Value { return r[column] }

// Clone returns a shallow copy of the record. Cells are immutable, so a
// shallow copy is a safe fresh row.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Table is an ordered collection of records with a declared column order.
// Stages never mutate their input table; each returns a fresh one.
type Table struct {
	Columns []string
	Rows    []Record
}

// NewTable returns an empty table with the given column order.
func NewTable(columns ...string) *Table {
	return &Table{Columns: append([]string(nil), columns...)}
}

// Append adds a row to the table.
func (t *Table) Append(r Record) { t.Rows = append(t.Rows, r) }

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.Rows) }

// HasColumn reports whether the table declares the column.
func (t *Table) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// AddColumn declares a column if it is not already declared.
func (t *Table) AddColumn(name string) {
	if !t.HasColumn(name) {
		t.Columns = append(t.Columns, name)
	}
}

// RequireColumns fails fast with ErrMissingColumn when any referenced column
// is not declared. Stages call this once at entry, before any computation.
func (t *Table) RequireColumns(names ...string) error {
	for _, n := range names {
		if n == "" {
			return ConfigError("empty column name")
		}
		if !t.HasColumn(n) {
			return ColumnError(n)
		}
	}
	return nil
}

// Clone returns a fresh table with copied rows and column order.
func (t *Table) Clone() *Table {
	out := NewTable(t.Columns...)
	out.Rows = make([]Record, 0, len(t.Rows))
	for _, r := range t.Rows {
		out.Rows = append(out.Rows, r.Clone())
	}
	return out
}
