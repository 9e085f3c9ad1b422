package event

import (
	"context"
	"errors"
	"time"
)

/* Small, focused interfaces following "The Go Way"
 * Interfaces abstract behavior, not things
 * Written for users of the API, not just for testing
 */

// ErrDuplicate signals that an event with the same (source, idempotency key)
// pair was already stored. This is not a failure: a sender retrying a
// delivery must still receive a success response.
var ErrDuplicate = errors.New("duplicate event")

// ErrNotFound signals that no event exists for the given id.
var ErrNotFound = errors.New("event not found")

// Reader provides read operations for stored events
type Reader interface {
	/* Context is always the first parameter in functions that do I/O
	 * This allows for cancellation, timeouts, and shared values
	 */
	Get(ctx context.Context, id string) (InboundEvent, error)
	GetBySource(ctx context.Context, source Source, limit int) ([]InboundEvent, error)
	/* StatusCounts returns stored events grouped by lifecycle state
	 * (pending, processed, failed), keyed by state name
	 */
	StatusCounts(ctx context.Context) (map[string]int64, error)
}

// Writer provides write operations for stored events
type Writer interface {
	/* Store persists an event. The (source, idempotency_key) pair is
	 * unique; a second insert with the same pair returns ErrDuplicate.
	 * The store's uniqueness enforcement is the only cross-invocation
	 * coordination primitive in the system.
	 */
	Store(ctx context.Context, ev InboundEvent) (string, error)
	MarkProcessed(ctx context.Context, id string) error
	/* MarkFailed records a delivery failure on the event, increments the
	 * retry count and schedules the next attempt
	 */
	MarkFailed(ctx context.Context, id string, cause string, nextRetryAt time.Time) error
}

/* Interface composition - combining small interfaces into larger ones
 * This is preferred over large monolithic interfaces
 */
type Repository interface {
	Reader
	Writer
	Close(ctx context.Context) error
}
