package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/JSONbored/directory-relay/config"
	"github.com/JSONbored/directory-relay/dispatch"
	"github.com/JSONbored/directory-relay/dispatch/discord"
	dispatchpg "github.com/JSONbored/directory-relay/dispatch/postgres"
	"github.com/JSONbored/directory-relay/event"
	eventpg "github.com/JSONbored/directory-relay/event/postgres"
	eventredis "github.com/JSONbored/directory-relay/event/redis"
	"github.com/JSONbored/directory-relay/internal/http/chi"
	"github.com/JSONbored/directory-relay/metrics"
	"github.com/JSONbored/directory-relay/provider"
	"github.com/JSONbored/directory-relay/retry"
)

const TIMEOUT = 30 * time.Second

/*
 * All wiring lives here: configuration, store driver selection, the
 * provider registry, the outbound sink and the HTTP surface. Imports
 * flow one direction only: the binary imports the business layers,
 * which import the storage layer.
 */

func main() {
	cfg, err := config.GetConfig()
	if err != nil {
		fmt.Println(err)
		return
	}
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT,
	)
	defer stop()

	repo, linkDB, err := newRepository(ctx, cfg)
	if err != nil {
		fmt.Println(err)
		return
	}
	defer repo.Close(ctx)

	registry, err := provider.Load(cfg.ProvidersFile)
	if err != nil {
		fmt.Println(err)
		return
	}

	events := event.NewService(repo)

	dispatcher, err := newDispatcher(cfg, events, linkDB)
	if err != nil {
		fmt.Println(err)
		return
	}

	exporter, err := metrics.NewOTelExporter(metrics.NewStoreCollector(repo))
	if err != nil {
		fmt.Println(err)
		return
	}
	defer exporter.Shutdown(ctx)

	r := chi.Handlers(ctx, events, repo, registry, dispatcher, chi.Options{
		Recorder:     exporter,
		MetricsPage:  exporter.ServeHTTP(),
		MaxBodyBytes: int64(cfg.MaxBodyBytes),
	})
	http.Handle("/", r)
	srv := &http.Server{
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		Addr:         ":" + cfg.Port,
		Handler:      http.DefaultServeMux,
	}

	errShutdown := make(chan error, 1)
	go shutdown(srv, ctx, errShutdown)
	fmt.Printf("Listening on port %s\n", cfg.Port)
	err = srv.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		fmt.Println(err)
		return
	}
	err = <-errShutdown
	if err != nil {
		fmt.Println(err)
		return
	}
}

// newRepository selects the event store driver. The postgres pool is
// also returned so the link store can share it.
func newRepository(ctx context.Context, cfg *config.Config) (event.Repository, dispatchpg.Querier, error) {
	switch cfg.StoreDriver {
	case "postgres":
		repo, err := eventpg.NewRepository(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		return repo, repo.Pool(), nil
	case "redis":
		repo, err := eventredis.NewRepository(cfg.RedisAddr, "", 0)
		if err != nil {
			return nil, nil, err
		}
		return repo, nil, nil
	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}

// newDispatcher wires the outbound sink behind the retry executor. When
// no sink is configured the dispatch endpoint is disabled.
func newDispatcher(cfg *config.Config, events event.UseCase, linkDB dispatchpg.Querier) (chi.Dispatcher, error) {
	exec := retry.New(nil)
	exec.Attempts = cfg.RetryAttempts
	exec.BaseDelay = cfg.RetryBaseDelay()
	// Client mistakes on our side are terminal, not retryable
	exec.NoRetryOn = map[int]bool{
		http.StatusBadRequest:   true,
		http.StatusUnauthorized: true,
		http.StatusForbidden:    true,
	}

	if cfg.SinkWebhookURL == "" {
		return disabledDispatcher{}, nil
	}
	if linkDB == nil {
		return nil, fmt.Errorf("the dispatch sink requires the postgres store")
	}

	sink, err := discord.NewClient(cfg.SinkWebhookURL, exec)
	if err != nil {
		return nil, err
	}
	links, err := dispatchpg.NewLinkStore(linkDB, cfg.LinkTable)
	if err != nil {
		return nil, err
	}

	svc := dispatch.NewService(dispatch.NewNotifier(sink, links), events, nil)
	svc.RetryDelay = cfg.DispatchRetryDelay()
	return svc, nil
}

// disabledDispatcher reports every trigger as an absorbed failure
type disabledDispatcher struct{}

func (disabledDispatcher) Dispatch(ctx context.Context, eventID, entityID string, payload json.RawMessage) dispatch.Delivery {
	return dispatch.Delivery{Cause: "no sink configured"}
}

func shutdown(server *http.Server, ctxShutdown context.Context, errShutdown chan error) {
	<-ctxShutdown.Done()

	ctxTimeout, stop := context.WithTimeout(context.Background(), TIMEOUT)
	defer stop()

	err := server.Shutdown(ctxTimeout)
	switch err {
	case nil:
		fmt.Printf("\nShutting down server...\n")
		errShutdown <- nil
	case context.DeadlineExceeded:
		errShutdown <- fmt.Errorf("Forcing closing the server")
	default:
		errShutdown <- fmt.Errorf("Forcing closing the server")
	}
}
