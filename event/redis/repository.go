package redis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/JSONbored/directory-relay/event"
	"github.com/redis/go-redis/v9"
)

/* Redis implementation of event.Repository
 * Redis has no declarative unique constraints, so deduplication uses a
 * WATCH/MULTI/EXEC transaction on the (source, idempotency_key) key as
 * the equivalent atomic compare-and-swap: the claim and the event body
 * commit together, so a claim never exists without its event. Dedup
 * keys left dangling by older writers are reclaimed when the event
 * they reference is missing.
 * Event bodies live in hashes, with a per-source list for recency lookups.
 */

const (
	hashPrefix   = "events"        // Hash naming: events:{event_id}
	dedupPrefix  = "events:dedup"  // Dedup key: events:dedup:{source}:{idempotency_key}
	sourcePrefix = "events:source" // List naming: events:source:{source}
	statusKey    = "events:status" // Hash of lifecycle state counters
)

type Repository struct {
	client *redis.Client
	logger *slog.Logger
}

// NewRepository creates a new Redis repository
func NewRepository(addr, password string, db int) (*Repository, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connecting to Redis: %w", err)
	}

	return &Repository{client: client, logger: slog.Default()}, nil
}

// Store persists an event. The dedup claim and the event body commit in
// a single transaction, so a sender redelivery after a mid-write failure
// is never acknowledged as a duplicate of an event that was not stored.
func (r *Repository) Store(ctx context.Context, ev event.InboundEvent) (string, error) {
	hashKey := fmt.Sprintf("%s:%s", hashPrefix, ev.ID)
	sourceKey := fmt.Sprintf("%s:%s", sourcePrefix, ev.Source.String())
	fields := map[string]interface{}{
		"id":          ev.ID,
		"source":      ev.Source.String(),
		"direction":   ev.Direction.String(),
		"type":        ev.Type,
		"payload":     []byte(ev.Payload),
		"received_at": ev.ReceivedAt.Unix(),
		"processed":   strconv.FormatBool(ev.Processed),
		"retry_count": ev.RetryCount,
	}
	if ev.IdempotencyKey != nil {
		fields["idempotency_key"] = *ev.IdempotencyKey
	}

	write := func(pipe redis.Pipeliner, dedupKey string) error {
		if dedupKey != "" {
			pipe.Set(ctx, dedupKey, ev.ID, 0)
		}
		pipe.HSet(ctx, hashKey, fields)
		pipe.LPush(ctx, sourceKey, ev.ID)
		pipe.HIncrBy(ctx, statusKey, "pending", 1)
		return nil
	}

	if ev.IdempotencyKey == nil {
		_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			return write(pipe, "")
		})
		if err != nil {
			return "", fmt.Errorf("storing event: %w", err)
		}
		return ev.ID, nil
	}

	dedupKey := fmt.Sprintf("%s:%s:%s", dedupPrefix, ev.Source.String(), *ev.IdempotencyKey)

	err := r.client.Watch(ctx, func(tx *redis.Tx) error {
		winner, err := tx.Get(ctx, dedupKey).Result()
		if err != nil && !errors.Is(err, redis.Nil) {
			return fmt.Errorf("checking dedup key: %w", err)
		}
		if err == nil {
			// The claim only counts if the event it references exists;
			// otherwise it is debris from an interrupted write and the
			// key is reclaimed.
			stored, err := tx.Exists(ctx, fmt.Sprintf("%s:%s", hashPrefix, winner)).Result()
			if err != nil {
				return fmt.Errorf("checking claimed event: %w", err)
			}
			if stored == 1 {
				return event.ErrDuplicate
			}
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			return write(pipe, dedupKey)
		})
		return err
	}, dedupKey)

	switch {
	case errors.Is(err, redis.TxFailedErr):
		// A concurrent writer committed the same key between our check
		// and the EXEC.
		return "", event.ErrDuplicate
	case errors.Is(err, event.ErrDuplicate):
		return "", event.ErrDuplicate
	case err != nil:
		return "", fmt.Errorf("storing event: %w", err)
	}

	return ev.ID, nil
}

// Get retrieves an event by ID from its hash
func (r *Repository) Get(ctx context.Context, id string) (event.InboundEvent, error) {
	hashKey := fmt.Sprintf("%s:%s", hashPrefix, id)

	data, err := r.client.HGetAll(ctx, hashKey).Result()
	if err != nil {
		return event.InboundEvent{}, fmt.Errorf("getting event: %w", err)
	}
	if len(data) == 0 {
		return event.InboundEvent{}, event.ErrNotFound
	}

	return eventFromHash(data), nil
}

// GetBySource retrieves the most recent events for a sender
func (r *Repository) GetBySource(ctx context.Context, source event.Source, limit int) ([]event.InboundEvent, error) {
	sourceKey := fmt.Sprintf("%s:%s", sourcePrefix, source.String())

	ids, err := r.client.LRange(ctx, sourceKey, 0, int64(limit)-1).Result()
	if err != nil {
		return nil, fmt.Errorf("listing events by source: %w", err)
	}

	events := make([]event.InboundEvent, 0, len(ids))
	for _, id := range ids {
		ev, err := r.Get(ctx, id)
		if err != nil {
			r.logger.Warn("skipping unreadable event in source listing",
				slog.String("event_id", id),
				slog.String("error", err.Error()))
			continue
		}
		events = append(events, ev)
	}

	return events, nil
}

// StatusCounts returns the lifecycle state counters
func (r *Repository) StatusCounts(ctx context.Context) (map[string]int64, error) {
	data, err := r.client.HGetAll(ctx, statusKey).Result()
	if err != nil {
		return nil, fmt.Errorf("reading status counters: %w", err)
	}

	counts := make(map[string]int64, len(data))
	for status, raw := range data {
		counts[status] = parseInt64(raw)
	}

	return counts, nil
}

// MarkProcessed flips the processed flag and clears any prior error
func (r *Repository) MarkProcessed(ctx context.Context, id string) error {
	ev, err := r.Get(ctx, id)
	if err != nil {
		return err
	}

	hashKey := fmt.Sprintf("%s:%s", hashPrefix, id)
	if err := r.client.HSet(ctx, hashKey, "processed", "true").Err(); err != nil {
		return fmt.Errorf("updating event: %w", err)
	}
	if err := r.client.HDel(ctx, hashKey, "error", "next_retry_at").Err(); err != nil {
		r.logger.Warn("clearing retry fields",
			slog.String("event_id", id),
			slog.String("error", err.Error()))
	}

	r.adjustStatusCounters(ctx, id, currentStatus(ev), "processed")

	return nil
}

// MarkFailed records a delivery failure and schedules the next attempt
func (r *Repository) MarkFailed(ctx context.Context, id string, cause string, nextRetryAt time.Time) error {
	ev, err := r.Get(ctx, id)
	if err != nil {
		return err
	}

	hashKey := fmt.Sprintf("%s:%s", hashPrefix, id)
	err = r.client.HSet(ctx, hashKey, map[string]interface{}{
		"error":         cause,
		"next_retry_at": nextRetryAt.Unix(),
	}).Err()
	if err != nil {
		return fmt.Errorf("updating event: %w", err)
	}

	if err := r.client.HIncrBy(ctx, hashKey, "retry_count", 1).Err(); err != nil {
		return fmt.Errorf("incrementing retry count: %w", err)
	}

	if prev := currentStatus(ev); prev != "failed" {
		r.adjustStatusCounters(ctx, id, prev, "failed")
	}

	return nil
}

// adjustStatusCounters moves one event between lifecycle state counters.
// Counter drift is observability damage, not data loss, so failures are
// logged rather than surfaced to the caller.
func (r *Repository) adjustStatusCounters(ctx context.Context, id, from, to string) {
	if err := r.client.HIncrBy(ctx, statusKey, from, -1).Err(); err != nil {
		r.logger.Warn("decrementing status counter",
			slog.String("event_id", id),
			slog.String("status", from),
			slog.String("error", err.Error()))
	}
	if err := r.client.HIncrBy(ctx, statusKey, to, 1).Err(); err != nil {
		r.logger.Warn("incrementing status counter",
			slog.String("event_id", id),
			slog.String("status", to),
			slog.String("error", err.Error()))
	}
}

// Close closes the Redis connection
func (r *Repository) Close(ctx context.Context) error {
	return r.client.Close()
}

// GetClient returns the underlying Redis client for advanced operations
func (r *Repository) GetClient() *redis.Client {
	return r.client
}

// Helper functions

func eventFromHash(data map[string]string) event.InboundEvent {
	ev := event.InboundEvent{
		ID:         data["id"],
		Source:     event.NewSource(data["source"]),
		Direction:  event.NewDirection(data["direction"]),
		Type:       data["type"],
		Payload:    []byte(data["payload"]),
		ReceivedAt: time.Unix(parseInt64(data["received_at"]), 0),
		Processed:  data["processed"] == "true",
		RetryCount: int(parseInt64(data["retry_count"])),
	}

	if key, ok := data["idempotency_key"]; ok && key != "" {
		ev.IdempotencyKey = &key
	}
	if cause, ok := data["error"]; ok && cause != "" {
		ev.Error = &cause
	}
	if raw, ok := data["next_retry_at"]; ok && raw != "" {
		next := time.Unix(parseInt64(raw), 0)
		ev.NextRetryAt = &next
	}

	return ev
}

func currentStatus(ev event.InboundEvent) string {
	switch {
	case ev.Processed:
		return "processed"
	case ev.Error != nil:
		return "failed"
	default:
		return "pending"
	}
}

func parseInt64(s string) int64 {
	result, _ := strconv.ParseInt(s, 10, 64)
	return result
}
