package dispatch

import (
	"context"
	"encoding/json"
	"errors"
)

// ErrMessageNotFound signals that the remote message addressed by an
// update no longer exists on the sink (deleted out-of-band). This is not
// a delivery failure: it triggers create-recovery in the reconciler.
var ErrMessageNotFound = errors.New("remote message not found")

/* Sink is the outbound notification target (a chat-webhook style API).
 * Create returns the sink-assigned message identifier; Update addresses
 * a previously created message by that identifier and returns
 * ErrMessageNotFound when it has been deleted upstream.
 * The payload shape is opaque to this package.
 */
type Sink interface {
	Create(ctx context.Context, payload json.RawMessage) (string, error)
	Update(ctx context.Context, messageID string, payload json.RawMessage) error
}

/* LinkStore persists the weak reference from a domain entity to the
 * remote message it owns. The remote side is authoritative: a stored
 * link can be stale, and clearing it is how staleness is repaired.
 */
type LinkStore interface {
	// Get returns the stored remote message id, or "" when none is linked
	Get(ctx context.Context, entityID string) (string, error)
	Set(ctx context.Context, entityID, messageID string) error
	Clear(ctx context.Context, entityID string) error
}
