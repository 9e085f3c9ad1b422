package event

import "fmt"

/* Source identifies a known external webhook sender
 * The set is closed: an unrecognized sender is rejected at resolution time
 */
type Source int

const (
	Resend Source = iota + 1
	Vercel
	Polar
)

// String returns the string representation of the source
func (s Source) String() string {
	switch s {
	case Resend:
		return "resend"
	case Vercel:
		return "vercel"
	case Polar:
		return "polar"
	default:
		return "unknown"
	}
}

// NewSource creates a Source from a string
func NewSource(str string) Source {
	switch str {
	case "resend":
		return Resend
	case "vercel":
		return Vercel
	case "polar":
		return Polar
	default:
		return Source(0)
	}
}

// Validate checks if the source is valid
func (s Source) Validate() error {
	if s < Resend || s > Polar {
		return fmt.Errorf("invalid source: %d", s)
	}
	return nil
}
