package dispatch

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"
)

// EventRecorder is the slice of the event use case the dispatcher needs
// to record delivery outcomes.
type EventRecorder interface {
	MarkProcessed(ctx context.Context, id string) error
	MarkFailed(ctx context.Context, id string, cause string, nextRetryAt time.Time) error
}

const DefaultRetryDelay = 5 * time.Minute

// Delivery reports what the dispatcher did for one event.
type Delivery struct {
	Outcome   Outcome
	Delivered bool
	Cause     string
}

/* Service drives outbound notification for processed events. Delivery
 * failures are absorbed: the triggering domain operation must commit
 * whether or not the sink was reachable, so Dispatch never returns an
 * error. The failure is recorded on the event for the retry sweep and
 * logged.
 */
type Service struct {
	Notifier   *Notifier
	Events     EventRecorder
	Logger     *slog.Logger
	RetryDelay time.Duration

	// Now is overridable in tests
	Now func() time.Time
}

func NewService(notifier *Notifier, events EventRecorder, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		Notifier:   notifier,
		Events:     events,
		Logger:     logger,
		RetryDelay: DefaultRetryDelay,
		Now:        time.Now,
	}
}

// Dispatch reconciles the entity's notification and records the outcome
// on the event. It never returns an error.
func (s *Service) Dispatch(ctx context.Context, eventID, entityID string, payload json.RawMessage) Delivery {
	outcome, err := s.Notifier.Notify(ctx, entityID, payload)
	if err != nil {
		nextRetryAt := s.Now().UTC().Add(s.RetryDelay)
		s.Logger.Error("dispatch failed",
			slog.String("event_id", eventID),
			slog.String("entity_id", entityID),
			slog.Time("next_retry_at", nextRetryAt),
			slog.String("error", err.Error()),
		)
		if recErr := s.Events.MarkFailed(ctx, eventID, err.Error(), nextRetryAt); recErr != nil {
			s.Logger.Error("recording dispatch failure",
				slog.String("event_id", eventID),
				slog.String("error", recErr.Error()),
			)
		}
		return Delivery{Cause: err.Error()}
	}

	if recErr := s.Events.MarkProcessed(ctx, eventID); recErr != nil {
		// The notification went out; losing the processed flag only
		// means the sweep may redeliver, which the reconciler makes
		// idempotent (it updates the existing message).
		s.Logger.Error("recording dispatch success",
			slog.String("event_id", eventID),
			slog.String("error", recErr.Error()),
		)
	}

	s.Logger.Info("dispatched",
		slog.String("event_id", eventID),
		slog.String("entity_id", entityID),
		slog.String("action", outcome.Action.String()),
		slog.String("message_id", outcome.MessageID),
	)
	return Delivery{Outcome: outcome, Delivered: true}
}
