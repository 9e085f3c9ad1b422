package metrics

import (
	"context"
	"fmt"
	"time"

	"github.com/JSONbored/directory-relay/event"
)

// StoreCollector implements the Collector interface over the event store
type StoreCollector struct {
	store event.Reader
}

// NewStoreCollector creates a collector backed by any event store driver
func NewStoreCollector(store event.Reader) *StoreCollector {
	return &StoreCollector{
		store: store,
	}
}

// Collect gathers all metrics from the event store
func (c *StoreCollector) Collect(ctx context.Context) (Metrics, error) {
	statusCounts, err := c.GetStatusCounts(ctx)
	if err != nil {
		return Metrics{}, fmt.Errorf("getting status counts: %w", err)
	}

	return Metrics{
		StatusCounts: statusCounts,
		Timestamp:    time.Now(),
	}, nil
}

// GetStatusCounts returns counts of stored events grouped by lifecycle state
func (c *StoreCollector) GetStatusCounts(ctx context.Context) (map[string]int64, error) {
	counts, err := c.store.StatusCounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("counting events by status: %w", err)
	}
	if counts == nil {
		counts = make(map[string]int64)
	}

	// Always expose every state, even at zero, so dashboards keep their series
	for _, state := range []string{"pending", "processed", "failed"} {
		if _, ok := counts[state]; !ok {
			counts[state] = 0
		}
	}

	return counts, nil
}
