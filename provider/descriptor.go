package provider

import (
	"fmt"

	"github.com/JSONbored/directory-relay/event"
)

/* Descriptor is the static configuration for one known external sender
 * One descriptor per provider; the set is closed and declared up front,
 * never inferred from request shapes at call sites
 */
type Descriptor struct {
	Name         string
	Source       event.Source
	Scheme       Scheme
	Secret       string // resolved from SecretEnvKey at load time
	SecretEnvKey string

	// Header names used to extract the signature, timestamp and delivery id
	SignatureHeader string
	TimestampHeader string
	IDHeader        string

	// TypeField is the payload field holding the logical event type
	TypeField string
	// KeyField is the payload field used as the idempotency key when the
	// sender carries no delivery-id header
	KeyField string

	CORS CORSPolicy
}

// Validate checks if the descriptor configuration is valid
func (d *Descriptor) Validate() error {
	if d.Name == "" {
		return fmt.Errorf("provider name cannot be empty")
	}
	if err := d.Source.Validate(); err != nil {
		return fmt.Errorf("invalid source for provider %s: %w", d.Name, err)
	}
	if err := d.Scheme.Validate(); err != nil {
		return fmt.Errorf("invalid scheme for provider %s: %w", d.Name, err)
	}
	if d.SignatureHeader == "" {
		return fmt.Errorf("signature_header cannot be empty for provider %s", d.Name)
	}
	if d.Scheme == SchemeSvix || d.Scheme == SchemeStandardWebhooks {
		if d.IDHeader == "" {
			return fmt.Errorf("id_header is required for provider %s (scheme %s)", d.Name, d.Scheme)
		}
		if d.TimestampHeader == "" {
			return fmt.Errorf("timestamp_header is required for provider %s (scheme %s)", d.Name, d.Scheme)
		}
	}
	return nil
}

/* CORSPolicy restricts which browser origins may call a provider's
 * inbound route. An empty origin list means the route is public.
 */
type CORSPolicy struct {
	AllowedOrigins []string
}

// AllowsOrigin reports whether the given origin may call the route
func (p CORSPolicy) AllowsOrigin(origin string) bool {
	if len(p.AllowedOrigins) == 0 {
		return true
	}
	for _, allowed := range p.AllowedOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}
	return false
}
