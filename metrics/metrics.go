package metrics

import (
	"context"
	"time"
)

// Metrics represents the current state of the relay.
type Metrics struct {
	// StatusCounts maps lifecycle state (pending, processed, failed) to
	// the number of stored events in that state
	StatusCounts map[string]int64 `json:"status_counts"`

	// Timestamp when metrics were collected
	Timestamp time.Time `json:"timestamp"`
}

// Collector defines the interface for collecting metrics from the relay.
type Collector interface {
	// Collect gathers current metrics from the system
	Collect(ctx context.Context) (Metrics, error)

	// GetStatusCounts returns the count of stored events by lifecycle state
	GetStatusCounts(ctx context.Context) (map[string]int64, error)
}
