package chi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/JSONbored/directory-relay/event"
	"github.com/go-chi/chi/v5"
)

// eventResponse represents a stored event in the API
type eventResponse struct {
	ID         string     `json:"id"`
	Source     string     `json:"source"`
	Type       string     `json:"type"`
	ReceivedAt time.Time  `json:"received_at"`
	Processed  bool       `json:"processed"`
	RetryCount int        `json:"retry_count"`
	NextRetry  *time.Time `json:"next_retry_at,omitempty"`
	Error      *string    `json:"error,omitempty"`
}

func toEventResponse(ev event.InboundEvent) eventResponse {
	return eventResponse{
		ID:         ev.ID,
		Source:     ev.Source.String(),
		Type:       ev.Type,
		ReceivedAt: ev.ReceivedAt,
		Processed:  ev.Processed,
		RetryCount: ev.RetryCount,
		NextRetry:  ev.NextRetryAt,
		Error:      ev.Error,
	}
}

const defaultListLimit = 50

// getEvents handles GET /v1/events?source=resend&limit=20
func getEvents(store event.Reader) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		source := event.NewSource(r.URL.Query().Get("source"))
		if err := source.Validate(); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		limit := defaultListLimit
		if raw := r.URL.Query().Get("limit"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed <= 0 {
				http.Error(w, "limit must be a positive integer", http.StatusBadRequest)
				return
			}
			limit = parsed
		}

		all, err := store.GetBySource(r.Context(), source, limit)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		result := make([]eventResponse, 0, len(all))
		for _, ev := range all {
			result = append(result, toEventResponse(ev))
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(result); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	})
}

// getEvent handles GET /v1/events/{id}
func getEvent(store event.Reader) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		ev, err := store.Get(r.Context(), id)
		if errors.Is(err, event.ErrNotFound) {
			http.Error(w, "event not found", http.StatusNotFound)
			return
		}
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(toEventResponse(ev)); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	})
}
