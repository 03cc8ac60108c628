package booking

import "strings"

// State is a query-time classification of bookings derived from status and
// the current time. It is never stored.
type State string

const (
	StateAll      State = "ALL"
	StateCurrent  State = "CURRENT"
	StateFuture   State = "FUTURE"
	StatePast     State = "PAST"
	StateWaiting  State = "WAITING"
	StateRejected State = "REJECTED"
)

var knownStates = map[State]struct{}{
	StateAll:      {},
	StateCurrent:  {},
	StateFuture:   {},
	StatePast:     {},
	StateWaiting:  {},
	StateRejected: {},
}

// ParseState resolves a client-supplied state name case-insensitively.
// An empty value means ALL.
func ParseState(raw string) (State, bool) {
	if strings.TrimSpace(raw) == "" {
		return StateAll, true
	}
	s := State(strings.ToUpper(strings.TrimSpace(raw)))
	if _, ok := knownStates[s]; !ok {
		return "", false
	}
	return s, true
}

func (s State) String() string {
	return string(s)
}

// Role selects which side of a booking the viewer is on.
type Role int

const (
	RoleBooker Role = iota + 1
	RoleItemOwner
)

func (r Role) String() string {
	switch r {
	case RoleBooker:
		return "booker"
	case RoleItemOwner:
		return "item_owner"
	default:
		return "unknown"
	}
}
