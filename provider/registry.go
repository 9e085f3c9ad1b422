package provider

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/JSONbored/directory-relay/event"
	"github.com/JSONbored/directory-relay/provider/signature"
	standardwebhooks "github.com/standard-webhooks/standard-webhooks/libraries/go"
)

/* Registry maps an inbound request to exactly one known sender, verifies
 * the request with that sender's signature scheme and normalizes it into
 * a canonical envelope. Providers are matched in declaration order by the
 * presence of their signature header; a request matching none is rejected
 * rather than guessed at.
 */
type Registry struct {
	descriptors []*Descriptor
}

// NewRegistry creates a registry over a validated, ordered provider set
func NewRegistry(descriptors ...*Descriptor) (*Registry, error) {
	seen := make(map[string]bool, len(descriptors))
	for _, d := range descriptors {
		if err := d.Validate(); err != nil {
			return nil, fmt.Errorf("validating provider: %w", err)
		}
		if seen[d.Name] {
			return nil, fmt.Errorf("duplicate provider: %s", d.Name)
		}
		seen[d.Name] = true
	}

	return &Registry{descriptors: descriptors}, nil
}

// List returns the registered providers in declaration order
func (r *Registry) List() []*Descriptor {
	return r.descriptors
}

// Get retrieves a provider by name
func (r *Registry) Get(name string) (*Descriptor, bool) {
	for _, d := range r.descriptors {
		if d.Name == name {
			return d, true
		}
	}
	return nil, false
}

/* AllowOrigin reports whether any registered provider's CORS policy
 * admits the origin. Used as the chi cors AllowOriginFunc, where a
 * preflight carries no body to identify the provider, so this is the
 * union of all policies; the webhook handler enforces the matched
 * provider's own policy after resolution.
 */
func (r *Registry) AllowOrigin(req *http.Request, origin string) bool {
	for _, d := range r.descriptors {
		if d.CORS.AllowsOrigin(origin) {
			return true
		}
	}
	return false
}

// Resolve identifies the sender, verifies the signature and extracts the
// canonical envelope from the raw request.
func (r *Registry) Resolve(body []byte, header http.Header) (Resolution, error) {
	desc := r.match(header)
	if desc == nil {
		return Resolution{}, &ResolveError{
			Kind:    KindBadRequest,
			Message: "no known provider matched request",
		}
	}

	if err := r.verify(desc, body, header); err != nil {
		return Resolution{}, err
	}

	env, err := r.extract(desc, body, header)
	if err != nil {
		return Resolution{}, err
	}

	return Resolution{Provider: desc, Envelope: env, CORS: desc.CORS}, nil
}

// match picks the first provider whose signature header is present
func (r *Registry) match(header http.Header) *Descriptor {
	for _, d := range r.descriptors {
		if header.Get(d.SignatureHeader) != "" {
			return d
		}
	}
	return nil
}

func (r *Registry) verify(d *Descriptor, body []byte, header http.Header) error {
	if d.Secret == "" {
		return &ResolveError{
			Kind:    KindInternal,
			Message: fmt.Sprintf("signing secret not configured for provider %s", d.Name),
			Err:     signature.ErrEmptySecret,
		}
	}

	var valid bool
	var err error

	switch d.Scheme {
	case SchemeSvix:
		valid, err = signature.VerifySvix(
			d.Secret,
			header.Get(d.IDHeader),
			header.Get(d.TimestampHeader),
			body,
			header.Get(d.SignatureHeader),
		)
	case SchemeSHA1Hex:
		valid, err = signature.VerifySHA1Hex(d.Secret, body, header.Get(d.SignatureHeader))
	case SchemeStandardWebhooks:
		valid, err = verifyStandardWebhooks(d.Secret, body, header)
	default:
		err = fmt.Errorf("unsupported scheme: %s", d.Scheme)
	}

	if err != nil {
		return &ResolveError{
			Kind:    KindInternal,
			Message: fmt.Sprintf("verifying signature for provider %s", d.Name),
			Err:     err,
		}
	}
	if !valid {
		return &ResolveError{
			Kind:    KindUnauthorized,
			Message: fmt.Sprintf("invalid signature for provider %s", d.Name),
		}
	}

	return nil
}

/* verifyStandardWebhooks delegates to the reference library. The library
 * reports tampering, timestamp skew and malformed headers uniformly as
 * verification errors, which map to unauthorized, not internal.
 */
func verifyStandardWebhooks(secret string, body []byte, header http.Header) (bool, error) {
	wh, err := standardwebhooks.NewWebhook(strings.TrimPrefix(secret, signature.SecretPrefix))
	if err != nil {
		return false, fmt.Errorf("initializing standard webhooks verifier: %w", err)
	}

	if err := wh.Verify(body, header); err != nil {
		return false, nil
	}
	return true, nil
}

func (r *Registry) extract(d *Descriptor, body []byte, header http.Header) (event.Envelope, error) {
	var payload map[string]json.RawMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		return event.Envelope{}, &ResolveError{
			Kind:    KindBadRequest,
			Message: fmt.Sprintf("malformed JSON payload from provider %s", d.Name),
			Err:     err,
		}
	}

	typeField := d.TypeField
	if typeField == "" {
		typeField = "type"
	}

	var eventType string
	if raw, ok := payload[typeField]; ok {
		if err := json.Unmarshal(raw, &eventType); err != nil {
			return event.Envelope{}, &ResolveError{
				Kind:    KindBadRequest,
				Message: fmt.Sprintf("event type field %q is not a string", typeField),
				Err:     err,
			}
		}
	}
	if eventType == "" {
		return event.Envelope{}, &ResolveError{
			Kind:    KindBadRequest,
			Message: fmt.Sprintf("missing event type field %q", typeField),
		}
	}

	env := event.Envelope{
		Source:    d.Source,
		Type:      eventType,
		Payload:   json.RawMessage(body),
		CreatedAt: extractCreatedAt(d, header),
	}

	if key := extractIdempotencyKey(d, payload, header); key != "" {
		env.IdempotencyKey = &key
	}

	return env, nil
}

// extractCreatedAt reads the sender's timestamp header (unix seconds);
// a missing or unparsable value falls back to the receipt time downstream
func extractCreatedAt(d *Descriptor, header http.Header) time.Time {
	if d.TimestampHeader == "" {
		return time.Time{}
	}
	raw := strings.TrimSpace(header.Get(d.TimestampHeader))
	if raw == "" {
		return time.Time{}
	}
	unix, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return time.Time{}
	}
	return time.Unix(unix, 0).UTC()
}

// extractIdempotencyKey prefers the delivery-id header, falling back to
// the configured payload field for senders without one
func extractIdempotencyKey(d *Descriptor, payload map[string]json.RawMessage, header http.Header) string {
	if d.IDHeader != "" {
		if id := strings.TrimSpace(header.Get(d.IDHeader)); id != "" {
			return id
		}
	}
	if d.KeyField != "" {
		if raw, ok := payload[d.KeyField]; ok {
			var key string
			if err := json.Unmarshal(raw, &key); err == nil {
				return key
			}
		}
	}
	return ""
}

// AsResolveError extracts a *ResolveError from an error chain
func AsResolveError(err error) (*ResolveError, bool) {
	var re *ResolveError
	if errors.As(err, &re) {
		return re, true
	}
	return nil, false
}
