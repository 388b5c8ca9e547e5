package schema

import (
	"errors"
	"fmt"
)

// Error taxonomy for the pipeline. Data-value irregularities are never errors;
// they propagate as missing values. Only caller-supplied configuration can
// abort a stage, and it does so before any partial computation.
var (
	// ErrInvalidConfiguration marks a structurally invalid caller parameter,
	// such as a non-positive household size or an unsupported disaggregation.
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// ErrMissingColumn marks a referenced column that does not exist in the
	// supplied table.
	ErrMissingColumn = errors.New("missing column")
)

// ConfigError wraps ErrInvalidConfiguration with detail about the parameter.
func ConfigError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfiguration, fmt.Sprintf(format, args...))
}

// ColumnError wraps ErrMissingColumn with the offending column name.
func ColumnError(column string) error {
	return fmt.Errorf("%w: %q", ErrMissingColumn, column)
}
