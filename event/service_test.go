package event_test

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/JSONbored/directory-relay/event"
	"github.com/JSONbored/directory-relay/event/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIngest(t *testing.T) {
	ctx := context.Background()

	t.Run("success - stores verified envelope", func(t *testing.T) {
		repo := mocks.NewRepository(t)
		service := event.NewService(repo)

		key := "wh_abc123"
		payload := json.RawMessage(`{"type":"email.delivered","data":{"email_id":"42"}}`)

		repo.On("Store", ctx, event.MatchEvent(func(ev event.InboundEvent) bool {
			return ev.Source == event.Resend &&
				ev.Direction == event.Inbound &&
				ev.Type == "email.delivered" &&
				ev.IdempotencyKey != nil && *ev.IdempotencyKey == key &&
				!ev.Processed &&
				ev.RetryCount == 0
		})).Return("event-123", nil)

		res, err := service.Ingest(ctx, event.Envelope{
			Source:         event.Resend,
			Type:           "email.delivered",
			Payload:        payload,
			IdempotencyKey: &key,
			CreatedAt:      time.Now().UTC(),
		})

		require.NoError(t, err)
		assert.Equal(t, "event-123", res.EventID)
		assert.False(t, res.Duplicate)
		repo.AssertExpectations(t)
	})

	t.Run("success - duplicate delivery is acknowledged, not rejected", func(t *testing.T) {
		repo := mocks.NewRepository(t)
		service := event.NewService(repo)

		key := "wh_abc123"
		repo.On("Store", ctx, event.MatchEvent(func(ev event.InboundEvent) bool {
			return ev.IdempotencyKey != nil && *ev.IdempotencyKey == key
		})).Return("", event.ErrDuplicate)

		res, err := service.Ingest(ctx, event.Envelope{
			Source:         event.Resend,
			Type:           "email.delivered",
			Payload:        json.RawMessage(`{}`),
			IdempotencyKey: &key,
		})

		require.NoError(t, err)
		assert.True(t, res.Duplicate)
		assert.Equal(t, event.Resend, res.Source)
		repo.AssertExpectations(t)
	})

	t.Run("success - zero created_at falls back to receipt time", func(t *testing.T) {
		repo := mocks.NewRepository(t)
		service := event.NewService(repo)

		repo.On("Store", ctx, event.MatchEvent(func(ev event.InboundEvent) bool {
			return !ev.ReceivedAt.IsZero()
		})).Return("event-456", nil)

		_, err := service.Ingest(ctx, event.Envelope{
			Source:  event.Polar,
			Type:    "order.created",
			Payload: json.RawMessage(`{}`),
		})

		require.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("error - invalid source", func(t *testing.T) {
		repo := mocks.NewRepository(t)
		service := event.NewService(repo)

		_, err := service.Ingest(ctx, event.Envelope{
			Source: event.Source(999),
			Type:   "email.delivered",
		})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "validating source")
	})

	t.Run("error - missing type", func(t *testing.T) {
		repo := mocks.NewRepository(t)
		service := event.NewService(repo)

		_, err := service.Ingest(ctx, event.Envelope{
			Source: event.Vercel,
		})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "type cannot be empty")
	})

	t.Run("error - storage failure propagates as internal", func(t *testing.T) {
		repo := mocks.NewRepository(t)
		service := event.NewService(repo)

		repo.On("Store", ctx, event.MatchEvent(func(event.InboundEvent) bool {
			return true
		})).Return("", fmt.Errorf("connection refused"))

		_, err := service.Ingest(ctx, event.Envelope{
			Source:  event.Vercel,
			Type:    "deployment.succeeded",
			Payload: json.RawMessage(`{}`),
		})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "storing event")
	})
}

func TestMarkProcessed(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		repo := mocks.NewRepository(t)
		service := event.NewService(repo)

		repo.On("MarkProcessed", ctx, "event-123").Return(nil)

		err := service.MarkProcessed(ctx, "event-123")

		require.NoError(t, err)
		repo.AssertExpectations(t)
	})
}

func TestMarkFailed(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		repo := mocks.NewRepository(t)
		service := event.NewService(repo)

		next := time.Now().Add(time.Minute)
		repo.On("MarkFailed", ctx, "event-123", "sink returned 503", next).Return(nil)

		err := service.MarkFailed(ctx, "event-123", "sink returned 503", next)

		require.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("error - empty cause", func(t *testing.T) {
		repo := mocks.NewRepository(t)
		service := event.NewService(repo)

		err := service.MarkFailed(ctx, "event-123", "", time.Now())

		require.Error(t, err)
		assert.Contains(t, err.Error(), "cause cannot be empty")
	})
}
