package event

import "fmt"

/* Direction records whether an event entered the system from an external
 * sender or was relayed outward to the notification sink
 */
type Direction int

const (
	Inbound Direction = iota + 1
	Outbound
)

// String returns the string representation of the direction
func (d Direction) String() string {
	switch d {
	case Inbound:
		return "inbound"
	case Outbound:
		return "outbound"
	default:
		return "unknown"
	}
}

// NewDirection creates a Direction from a string
func NewDirection(s string) Direction {
	switch s {
	case "inbound":
		return Inbound
	case "outbound":
		return Outbound
	default:
		return Inbound
	}
}

// Validate checks if the direction is valid
func (d Direction) Validate() error {
	if d != Inbound && d != Outbound {
		return fmt.Errorf("invalid direction: %d", d)
	}
	return nil
}
