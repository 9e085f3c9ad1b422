package provider

import (
	"fmt"
	"net/http"

	"github.com/JSONbored/directory-relay/event"
)

/* Failure taxonomy exposed to HTTP callers. The three kinds require
 * distinct responses: an unrecognized request shape must not be confused
 * with a failed signature, because senders and operators react to the two
 * differently.
 */

type ErrorKind int

const (
	KindBadRequest ErrorKind = iota + 1
	KindUnauthorized
	KindInternal
)

// String returns the string representation of the error kind
func (k ErrorKind) String() string {
	switch k {
	case KindBadRequest:
		return "bad_request"
	case KindUnauthorized:
		return "unauthorized"
	case KindInternal:
		return "internal"
	default:
		return "unknown"
	}
}

// StatusCode maps the kind to its HTTP response status
func (k ErrorKind) StatusCode() int {
	switch k {
	case KindBadRequest:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// ResolveError is a failed resolution outcome
type ResolveError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *ResolveError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *ResolveError) Unwrap() error {
	return e.Err
}

// Resolution is a successful outcome: the matched sender, the normalized
// envelope and the CORS policy of the sender's inbound route
type Resolution struct {
	Provider *Descriptor
	Envelope event.Envelope
	CORS     CORSPolicy
}
