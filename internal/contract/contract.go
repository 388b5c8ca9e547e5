// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"time"

	"github.com/abarry/gapcast/schema"
)

// RunStore defines the interface for tracking reporting runs and their
// headline indicators. This allows the store layer to be mocked for testing.
type RunStore interface {
	// BeginRun creates a new reporting run and returns its unique ID.
	BeginRun(startTime time.Time, configParams map[string]any) (int64, error)

	// EndRun updates the run with completion data and its indicator summary.
	EndRun(runID int64, endTime time.Time, summary schema.RunSummary) error

	// ListRuns returns the most recent completed runs, newest first.
	ListRuns(limit int) ([]RunRecord, error)

	// GetStatus returns status information about the run store.
	GetStatus() (schema.RunStatus, error)

	// Close releases the underlying database connection.
	Close() error
}

// StoreManager defines the interface for accessing the run store.
type StoreManager interface {
	GetRunStore() RunStore
}

// RunRecord is one persisted reporting run.
type RunRecord struct {
	RunID        int64
	StartTime    time.Time
	EndTime      *time.Time // nil while a run is in flight
	ConfigParams string     // JSON-encoded run parameters
	Summary      schema.RunSummary
}
