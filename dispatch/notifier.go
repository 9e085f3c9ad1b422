package dispatch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

/* Action describes which reconciliation transition was taken for a
 * delivery. Recreated means the stored link pointed at a message the
 * sink had already deleted, so the link was cleared and a fresh message
 * created in its place.
 */
type Action int

const (
	ActionCreated Action = iota + 1
	ActionUpdated
	ActionRecreated
)

func (a Action) String() string {
	switch a {
	case ActionCreated:
		return "created"
	case ActionUpdated:
		return "updated"
	case ActionRecreated:
		return "recreated"
	}
	return "unknown"
}

// Outcome reports the transition taken and the remote message touched.
type Outcome struct {
	Action    Action
	MessageID string
}

/* Notifier reconciles a domain entity's desired notification state with
 * the sink. It keeps exactly one remote message per entity: no link
 * means create, a live link means update, and a dangling link (remote
 * message deleted out-of-band) means clear-then-create.
 */
type Notifier struct {
	Sink  Sink
	Links LinkStore
}

func NewNotifier(sink Sink, links LinkStore) *Notifier {
	return &Notifier{
		Sink:  sink,
		Links: links,
	}
}

// Notify drives one reconciliation pass for the entity. On failure the
// stored link is left untouched so the next pass retries the same
// transition.
func (n *Notifier) Notify(ctx context.Context, entityID string, payload json.RawMessage) (Outcome, error) {
	messageID, err := n.Links.Get(ctx, entityID)
	if err != nil {
		return Outcome{}, fmt.Errorf("loading message link: %w", err)
	}

	if messageID == "" {
		return n.create(ctx, entityID, payload, ActionCreated)
	}

	err = n.Sink.Update(ctx, messageID, payload)
	if err == nil {
		return Outcome{Action: ActionUpdated, MessageID: messageID}, nil
	}
	if !errors.Is(err, ErrMessageNotFound) {
		return Outcome{}, fmt.Errorf("updating message %s: %w", messageID, err)
	}

	// The linked message was deleted upstream. Drop the stale link and
	// fall back to creating a replacement.
	if err := n.Links.Clear(ctx, entityID); err != nil {
		return Outcome{}, fmt.Errorf("clearing stale message link: %w", err)
	}

	return n.create(ctx, entityID, payload, ActionRecreated)
}

func (n *Notifier) create(ctx context.Context, entityID string, payload json.RawMessage, action Action) (Outcome, error) {
	messageID, err := n.Sink.Create(ctx, payload)
	if err != nil {
		return Outcome{}, fmt.Errorf("creating message: %w", err)
	}
	if err := n.Links.Set(ctx, entityID, messageID); err != nil {
		// The remote message exists but the link write failed; the next
		// pass will recreate and orphan this message. Surface the error
		// so the delivery is recorded as failed.
		return Outcome{}, fmt.Errorf("storing message link: %w", err)
	}
	return Outcome{Action: action, MessageID: messageID}, nil
}
