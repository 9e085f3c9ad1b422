package chi

import (
	"context"
	"net/http"
	"time"

	"github.com/JSONbored/directory-relay/event"
	"github.com/JSONbored/directory-relay/provider"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog"
)

// Recorder counts request outcomes for the metrics exporter. A nil
// recorder disables counting.
type Recorder interface {
	RecordReceived(ctx context.Context, source string, duplicate bool)
	RecordRejected(ctx context.Context, reason string)
	RecordDispatch(ctx context.Context, action string, delivered bool)
}

// Options carries the wiring the router needs beyond the core services
type Options struct {
	Recorder     Recorder
	MetricsPage  http.Handler
	MaxBodyBytes int64
}

// Handlers sets up the relay API routes
func Handlers(ctx context.Context, events event.UseCase, store event.Reader, registry *provider.Registry, dispatcher Dispatcher, opts Options) *chi.Mux {
	logger := httplog.NewLogger("directory-relay", httplog.Options{
		JSON: true,
	})

	r := chi.NewRouter()
	r.Use(httplog.RequestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowOriginFunc: registry.AllowOrigin,
		AllowedMethods:  []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:  []string{"*"},
	}))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	})

	if opts.MetricsPage != nil {
		r.Method(http.MethodGet, "/metrics", opts.MetricsPage)
	}

	r.Route("/v1", func(r chi.Router) {
		// Verified webhook intake, shared by all configured providers
		r.Post("/webhooks", postWebhook(events, registry, opts).ServeHTTP)

		// Stored event inspection
		r.Get("/events", getEvents(store).ServeHTTP)
		r.Get("/events/{id}", getEvent(store).ServeHTTP)

		// Outbound notification trigger
		r.Post("/dispatch", postDispatch(dispatcher, opts).ServeHTTP)
	})

	return r
}
