package dispatch_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/JSONbored/directory-relay/dispatch"
	"github.com/JSONbored/directory-relay/dispatch/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestNotify(t *testing.T) {
	ctx := context.Background()
	payload := json.RawMessage(`{"content":"new listing: acme"}`)

	t.Run("success - creates message when no link exists", func(t *testing.T) {
		sink := mocks.NewSink(t)
		links := mocks.NewLinkStore(t)
		links.On("Get", ctx, "entity-1").Return("", nil)
		sink.On("Create", ctx, payload).Return("msg-100", nil)
		links.On("Set", ctx, "entity-1", "msg-100").Return(nil)

		n := dispatch.NewNotifier(sink, links)
		out, err := n.Notify(ctx, "entity-1", payload)
		assert.Nil(t, err)
		assert.Equal(t, dispatch.ActionCreated, out.Action)
		assert.Equal(t, "msg-100", out.MessageID)
	})

	t.Run("success - updates message when link exists", func(t *testing.T) {
		sink := mocks.NewSink(t)
		links := mocks.NewLinkStore(t)
		links.On("Get", ctx, "entity-1").Return("msg-100", nil)
		sink.On("Update", ctx, "msg-100", payload).Return(nil)

		n := dispatch.NewNotifier(sink, links)
		out, err := n.Notify(ctx, "entity-1", payload)
		assert.Nil(t, err)
		assert.Equal(t, dispatch.ActionUpdated, out.Action)
		assert.Equal(t, "msg-100", out.MessageID)
	})

	t.Run("success - recreates when linked message was deleted upstream", func(t *testing.T) {
		sink := mocks.NewSink(t)
		links := mocks.NewLinkStore(t)
		links.On("Get", ctx, "entity-1").Return("msg-100", nil)
		sink.On("Update", ctx, "msg-100", payload).Return(dispatch.ErrMessageNotFound)
		links.On("Clear", ctx, "entity-1").Return(nil)
		sink.On("Create", ctx, payload).Return("msg-200", nil)
		links.On("Set", ctx, "entity-1", "msg-200").Return(nil)

		n := dispatch.NewNotifier(sink, links)
		out, err := n.Notify(ctx, "entity-1", payload)
		assert.Nil(t, err)
		assert.Equal(t, dispatch.ActionRecreated, out.Action)
		assert.Equal(t, "msg-200", out.MessageID)
	})

	t.Run("error - update failure other than not-found keeps the link", func(t *testing.T) {
		sink := mocks.NewSink(t)
		links := mocks.NewLinkStore(t)
		links.On("Get", ctx, "entity-1").Return("msg-100", nil)
		sink.On("Update", ctx, "msg-100", payload).Return(errors.New("sink unavailable"))

		n := dispatch.NewNotifier(sink, links)
		_, err := n.Notify(ctx, "entity-1", payload)
		assert.NotNil(t, err)
		assert.Contains(t, err.Error(), "sink unavailable")
		links.AssertNotCalled(t, "Clear", mock.Anything, mock.Anything)
	})

	t.Run("error - create failure", func(t *testing.T) {
		sink := mocks.NewSink(t)
		links := mocks.NewLinkStore(t)
		links.On("Get", ctx, "entity-1").Return("", nil)
		sink.On("Create", ctx, payload).Return("", errors.New("sink unavailable"))

		n := dispatch.NewNotifier(sink, links)
		_, err := n.Notify(ctx, "entity-1", payload)
		assert.NotNil(t, err)
		links.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("error - link read failure", func(t *testing.T) {
		sink := mocks.NewSink(t)
		links := mocks.NewLinkStore(t)
		links.On("Get", ctx, "entity-1").Return("", errors.New("db down"))

		n := dispatch.NewNotifier(sink, links)
		_, err := n.Notify(ctx, "entity-1", payload)
		assert.NotNil(t, err)
		sink.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		sink.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("error - link write failure after create surfaces", func(t *testing.T) {
		sink := mocks.NewSink(t)
		links := mocks.NewLinkStore(t)
		links.On("Get", ctx, "entity-1").Return("", nil)
		sink.On("Create", ctx, payload).Return("msg-100", nil)
		links.On("Set", ctx, "entity-1", "msg-100").Return(errors.New("db down"))

		n := dispatch.NewNotifier(sink, links)
		_, err := n.Notify(ctx, "entity-1", payload)
		assert.NotNil(t, err)
		assert.Contains(t, err.Error(), "storing message link")
	})
}

func TestActionString(t *testing.T) {
	assert.Equal(t, "created", dispatch.ActionCreated.String())
	assert.Equal(t, "updated", dispatch.ActionUpdated.String())
	assert.Equal(t, "recreated", dispatch.ActionRecreated.String())
	assert.Equal(t, "unknown", dispatch.Action(0).String())
}
