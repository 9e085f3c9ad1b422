package discord_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/JSONbored/directory-relay/dispatch"
	"github.com/JSONbored/directory-relay/dispatch/discord"
	"github.com/JSONbored/directory-relay/retry"
	"github.com/stretchr/testify/assert"
)

func fastExecutor() *retry.Executor {
	e := retry.New(nil)
	e.BaseDelay = time.Millisecond
	return e
}

func TestCreate(t *testing.T) {
	ctx := context.Background()
	payload := json.RawMessage(`{"content":"hello"}`)

	t.Run("success - posts with wait and returns the message id", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "true", r.URL.Query().Get("wait"))
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			body, _ := io.ReadAll(r.Body)
			assert.JSONEq(t, string(payload), string(body))
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"id":"1234567890","channel_id":"42"}`))
		}))
		defer srv.Close()

		c, err := discord.NewClient(srv.URL, fastExecutor())
		assert.Nil(t, err)
		id, err := c.Create(ctx, payload)
		assert.Nil(t, err)
		assert.Equal(t, "1234567890", id)
	})

	t.Run("success - retries a transient 503 before succeeding", func(t *testing.T) {
		var calls atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if calls.Add(1) == 1 {
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
			w.Write([]byte(`{"id":"99"}`))
		}))
		defer srv.Close()

		c, _ := discord.NewClient(srv.URL, fastExecutor())
		id, err := c.Create(ctx, payload)
		assert.Nil(t, err)
		assert.Equal(t, "99", id)
		assert.Equal(t, int32(2), calls.Load())
	})

	t.Run("error - missing message id in response", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{}`))
		}))
		defer srv.Close()

		c, _ := discord.NewClient(srv.URL, fastExecutor())
		_, err := c.Create(ctx, payload)
		assert.NotNil(t, err)
		assert.Contains(t, err.Error(), "missing message id")
	})

	t.Run("error - terminal client error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
		}))
		defer srv.Close()

		c, _ := discord.NewClient(srv.URL, fastExecutor())
		_, err := c.Create(ctx, payload)
		assert.NotNil(t, err)
	})
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()
	payload := json.RawMessage(`{"content":"edited"}`)

	t.Run("success - patches the message in place", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPatch, r.Method)
			assert.Equal(t, "/messages/1234567890", r.URL.Path)
			w.Write([]byte(`{"id":"1234567890"}`))
		}))
		defer srv.Close()

		c, _ := discord.NewClient(srv.URL, fastExecutor())
		err := c.Update(ctx, "1234567890", payload)
		assert.Nil(t, err)
	})

	t.Run("error - 404 maps to ErrMessageNotFound", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer srv.Close()

		c, _ := discord.NewClient(srv.URL, fastExecutor())
		err := c.Update(ctx, "gone", payload)
		assert.ErrorIs(t, err, dispatch.ErrMessageNotFound)
	})

	t.Run("error - server error after exhausting retries", func(t *testing.T) {
		var calls atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		c, _ := discord.NewClient(srv.URL, fastExecutor())
		err := c.Update(ctx, "1234567890", payload)
		assert.NotNil(t, err)
		assert.NotErrorIs(t, err, dispatch.ErrMessageNotFound)
		assert.Equal(t, int32(4), calls.Load())
	})
}

func TestNewClient(t *testing.T) {
	t.Run("error - invalid scheme", func(t *testing.T) {
		_, err := discord.NewClient("ftp://example.com/hook", nil)
		assert.NotNil(t, err)
	})
}
