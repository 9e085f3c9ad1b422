package chi

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/JSONbored/directory-relay/event"
	"github.com/JSONbored/directory-relay/provider"
)

/* HTTP layer DTOs for the relay API
 * Separate from domain entities to avoid leaking internal structure
 */

// webhookResponse represents the API response when accepting a delivery
type webhookResponse struct {
	EventID   string `json:"event_id,omitempty"`
	Source    string `json:"source"`
	Duplicate bool   `json:"duplicate"`
}

const defaultMaxBodyBytes = 1 << 20

// postWebhook handles POST /v1/webhooks
func postWebhook(events event.UseCase, registry *provider.Registry, opts Options) http.Handler {
	maxBody := opts.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = defaultMaxBodyBytes
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxBody)
		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "failed to read request body", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		res, err := registry.Resolve(body, r.Header)
		if err != nil {
			if resolveErr, ok := provider.AsResolveError(err); ok {
				recordRejected(r, opts, resolveErr.Kind.String())
				// Signature failures get no detail beyond the status:
				// the response must not help an attacker probe secrets
				http.Error(w, resolveErr.Kind.String(), resolveErr.Kind.StatusCode())
				return
			}
			recordRejected(r, opts, "internal")
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		// The cors middleware admits the union of all provider policies,
		// so the matched provider's own policy is enforced here.
		if origin := r.Header.Get("Origin"); origin != "" && !res.CORS.AllowsOrigin(origin) {
			recordRejected(r, opts, "forbidden_origin")
			http.Error(w, "origin not allowed", http.StatusForbidden)
			return
		}

		result, err := events.Ingest(r.Context(), res.Envelope)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		if opts.Recorder != nil {
			opts.Recorder.RecordReceived(r.Context(), result.Source.String(), result.Duplicate)
		}

		// Duplicates are acknowledged with the same success status as
		// first deliveries so senders stop retrying
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		response := webhookResponse{
			EventID:   result.EventID,
			Source:    result.Source.String(),
			Duplicate: result.Duplicate,
		}
		if err := json.NewEncoder(w).Encode(response); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	})
}

func recordRejected(r *http.Request, opts Options, reason string) {
	if opts.Recorder != nil {
		opts.Recorder.RecordRejected(r.Context(), reason)
	}
}
