package dispatch_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/JSONbored/directory-relay/dispatch"
	"github.com/JSONbored/directory-relay/dispatch/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newTestService(t *testing.T) (*dispatch.Service, *mocks.Sink, *mocks.LinkStore, *mocks.EventRecorder) {
	sink := mocks.NewSink(t)
	links := mocks.NewLinkStore(t)
	events := mocks.NewEventRecorder(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s := dispatch.NewService(dispatch.NewNotifier(sink, links), events, logger)
	return s, sink, links, events
}

func TestDispatch(t *testing.T) {
	ctx := context.Background()
	payload := json.RawMessage(`{"content":"listing updated"}`)

	t.Run("success - marks event processed on delivery", func(t *testing.T) {
		s, sink, links, events := newTestService(t)
		links.On("Get", ctx, "entity-1").Return("", nil)
		sink.On("Create", ctx, payload).Return("msg-1", nil)
		links.On("Set", ctx, "entity-1", "msg-1").Return(nil)
		events.On("MarkProcessed", ctx, "ev-1").Return(nil)

		d := s.Dispatch(ctx, "ev-1", "entity-1", payload)
		assert.True(t, d.Delivered)
		assert.Equal(t, dispatch.ActionCreated, d.Outcome.Action)
	})

	t.Run("success - sink failure is absorbed and scheduled for retry", func(t *testing.T) {
		s, sink, links, events := newTestService(t)
		now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
		s.Now = func() time.Time { return now }

		links.On("Get", ctx, "entity-1").Return("", nil)
		sink.On("Create", ctx, payload).Return("", errors.New("sink unavailable"))
		events.On("MarkFailed", ctx, "ev-1", "creating message: sink unavailable", now.Add(dispatch.DefaultRetryDelay)).
			Return(nil)

		d := s.Dispatch(ctx, "ev-1", "entity-1", payload)
		assert.False(t, d.Delivered)
		assert.Contains(t, d.Cause, "sink unavailable")
	})

	t.Run("success - failure recording failure is absorbed too", func(t *testing.T) {
		s, _, links, events := newTestService(t)
		links.On("Get", ctx, "entity-1").Return("", errors.New("db down"))
		events.On("MarkFailed", ctx, "ev-1", "loading message link: db down", mock.AnythingOfType("time.Time")).
			Return(errors.New("db still down"))

		d := s.Dispatch(ctx, "ev-1", "entity-1", payload)
		assert.False(t, d.Delivered)
	})

	t.Run("success - processed flag failure does not undo delivery", func(t *testing.T) {
		s, sink, links, events := newTestService(t)
		links.On("Get", ctx, "entity-1").Return("msg-1", nil)
		sink.On("Update", ctx, "msg-1", payload).Return(nil)
		events.On("MarkProcessed", ctx, "ev-1").Return(errors.New("db down"))

		d := s.Dispatch(ctx, "ev-1", "entity-1", payload)
		assert.True(t, d.Delivered)
		assert.Equal(t, dispatch.ActionUpdated, d.Outcome.Action)
	})
}
