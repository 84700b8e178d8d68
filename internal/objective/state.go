package objective

// validTransitions defines the map of allowed status changes
// Key: From -> Value: Set of allowed To states
var validTransitions = map[Status]map[Status]bool{
	StatusInactive: {
		StatusActive:    true,
		StatusAbandoned: true, // Player discards a never-started objective
	},
	StatusActive: {
		StatusInProgress: true,
		StatusCompleted:  true,
		StatusFailed:     true,
		StatusExpired:    true,
		StatusAbandoned:  true,
		StatusSuspended:  true,
	},
	StatusInProgress: {
		StatusCompleted: true,
		StatusFailed:    true,
		StatusExpired:   true,
		StatusAbandoned: true,
		StatusSuspended: true,
	},
	StatusSuspended: {
		StatusActive:    true,
		StatusFailed:    true,
		StatusAbandoned: true,
	},
	// Terminal states
	StatusCompleted: {},
	StatusFailed:    {},
	StatusExpired:   {},
	StatusAbandoned: {},
}

// CanTransition reports whether from -> to is a legal status change.
func CanTransition(from, to Status) bool {
	allowed, ok := validTransitions[from]
	if !ok {
		return false
	}
	return allowed[to]
}

// IsTerminal reports whether a status permits no further transitions.
func IsTerminal(s Status) bool {
	switch s {
	case StatusCompleted, StatusFailed, StatusExpired, StatusAbandoned:
		return true
	}
	return false
}
