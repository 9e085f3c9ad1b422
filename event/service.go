package event

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

/* Service represents the business logic layer
 * Uses pointer semantics as it's an API, not data
 */

// IngestResult reports the outcome of storing one delivery attempt
type IngestResult struct {
	EventID   string
	Source    Source
	Duplicate bool
}

// UseCase defines the business operations for event ingestion
type UseCase interface {
	Ingest(ctx context.Context, env Envelope) (IngestResult, error)
	MarkProcessed(ctx context.Context, id string) error
	MarkFailed(ctx context.Context, id string, cause string, nextRetryAt time.Time) error
}

type Service struct {
	Repo Repository
}

// NewService creates a new event service with dependency injection
func NewService(repo Repository) *Service {
	return &Service{
		Repo: repo,
	}
}

/* Ingest persists a verified envelope exactly once.
 * A duplicate delivery (same source and idempotency key) is detected via
 * the repository's uniqueness guarantee and reported as Duplicate=true,
 * never as an error: webhook senders interpret non-2xx as "retry me".
 */
func (s *Service) Ingest(ctx context.Context, env Envelope) (IngestResult, error) {
	if err := env.Source.Validate(); err != nil {
		return IngestResult{}, fmt.Errorf("validating source: %w", err)
	}
	if env.Type == "" {
		return IngestResult{}, fmt.Errorf("event type cannot be empty")
	}

	receivedAt := env.CreatedAt
	if receivedAt.IsZero() {
		receivedAt = time.Now().UTC()
	}

	ev := InboundEvent{
		ID:             uuid.New().String(),
		Source:         env.Source,
		Direction:      Inbound,
		Type:           env.Type,
		Payload:        env.Payload,
		IdempotencyKey: env.IdempotencyKey,
		ReceivedAt:     receivedAt,
		Processed:      false,
		RetryCount:     0,
	}

	id, err := s.Repo.Store(ctx, ev)
	if errors.Is(err, ErrDuplicate) {
		return IngestResult{Source: env.Source, Duplicate: true}, nil
	}
	if err != nil {
		return IngestResult{}, fmt.Errorf("storing event: %w", err)
	}

	return IngestResult{EventID: id, Source: env.Source}, nil
}

// MarkProcessed flips the processed flag after a successful dispatch
func (s *Service) MarkProcessed(ctx context.Context, id string) error {
	if err := s.Repo.MarkProcessed(ctx, id); err != nil {
		return fmt.Errorf("marking event processed: %w", err)
	}
	return nil
}

// MarkFailed records a dispatch failure and schedules the next attempt
func (s *Service) MarkFailed(ctx context.Context, id string, cause string, nextRetryAt time.Time) error {
	if cause == "" {
		return fmt.Errorf("failure cause cannot be empty")
	}
	if err := s.Repo.MarkFailed(ctx, id, cause, nextRetryAt); err != nil {
		return fmt.Errorf("marking event failed: %w", err)
	}
	return nil
}
