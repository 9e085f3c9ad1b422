package provider

import "fmt"

/* Scheme identifies how a sender signs its webhook deliveries
 * Svix-style and SHA1-hex are computed locally; the Standard Webhooks
 * scheme delegates to the reference verification library
 */
type Scheme int

const (
	SchemeSvix Scheme = iota + 1
	SchemeSHA1Hex
	SchemeStandardWebhooks
)

// String returns the string representation of the scheme
func (s Scheme) String() string {
	switch s {
	case SchemeSvix:
		return "svix"
	case SchemeSHA1Hex:
		return "sha1-hex"
	case SchemeStandardWebhooks:
		return "standard-webhooks"
	default:
		return "unknown"
	}
}

// NewScheme creates a Scheme from a string
func NewScheme(str string) Scheme {
	switch str {
	case "svix":
		return SchemeSvix
	case "sha1-hex":
		return SchemeSHA1Hex
	case "standard-webhooks":
		return SchemeStandardWebhooks
	default:
		return Scheme(0)
	}
}

// Validate checks if the scheme is valid
func (s Scheme) Validate() error {
	if s < SchemeSvix || s > SchemeStandardWebhooks {
		return fmt.Errorf("invalid signature scheme: %d", s)
	}
	return nil
}
