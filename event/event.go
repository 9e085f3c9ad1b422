package event

import (
	"encoding/json"
	"time"
)

/* InboundEvent represents one received webhook delivery in the system
 * Uses value semantics as it represents data, not behavior
 */
type InboundEvent struct {
	ID             string
	Source         Source
	Direction      Direction
	Type           string
	Payload        json.RawMessage
	IdempotencyKey *string
	ReceivedAt     time.Time
	Processed      bool
	Error          *string
	RetryCount     int
	NextRetryAt    *time.Time
}

/* Envelope is the provider-agnostic normalized form of a raw webhook
 * request, produced by the provider registry after verification
 */
type Envelope struct {
	Source         Source
	Type           string
	Payload        json.RawMessage
	IdempotencyKey *string
	CreatedAt      time.Time
}
