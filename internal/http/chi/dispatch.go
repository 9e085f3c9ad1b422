package chi

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/JSONbored/directory-relay/dispatch"
)

// Dispatcher triggers one outbound notification reconciliation
type Dispatcher interface {
	Dispatch(ctx context.Context, eventID, entityID string, payload json.RawMessage) dispatch.Delivery
}

// dispatchRequest represents the internal trigger payload
type dispatchRequest struct {
	EventID  string          `json:"event_id"`
	EntityID string          `json:"entity_id"`
	Payload  json.RawMessage `json:"payload"`
}

// dispatchResponse reports the reconciliation outcome
type dispatchResponse struct {
	Delivered bool   `json:"delivered"`
	Action    string `json:"action,omitempty"`
	MessageID string `json:"message_id,omitempty"`
	Cause     string `json:"cause,omitempty"`
}

// postDispatch handles POST /v1/dispatch
func postDispatch(dispatcher Dispatcher, opts Options) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req dispatchRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid dispatch request", http.StatusBadRequest)
			return
		}
		if req.EventID == "" || req.EntityID == "" {
			http.Error(w, "event_id and entity_id are required", http.StatusBadRequest)
			return
		}
		if len(req.Payload) == 0 {
			http.Error(w, "payload is required", http.StatusBadRequest)
			return
		}

		d := dispatcher.Dispatch(r.Context(), req.EventID, req.EntityID, req.Payload)

		if opts.Recorder != nil {
			opts.Recorder.RecordDispatch(r.Context(), d.Outcome.Action.String(), d.Delivered)
		}

		// The trigger always succeeds from the caller's point of view;
		// a failed delivery is reported in the body and retried later
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		response := dispatchResponse{
			Delivered: d.Delivered,
			Cause:     d.Cause,
		}
		if d.Delivered {
			response.Action = d.Outcome.Action.String()
			response.MessageID = d.Outcome.MessageID
		}
		if err := json.NewEncoder(w).Encode(response); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	})
}
