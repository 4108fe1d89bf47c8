package form

// State is the component lifecycle position.
type State int

const (
	// StateInitial is the state right after construction.
	StateInitial State = iota
	// StateReady is entered after a successful render.
	StateReady
	// StateNavigating is terminal; the action has been activated.
	StateNavigating
	// StateFailed marks a mount that could not produce a component.
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateInitial:
		return "initial"
	case StateReady:
		return "ready"
	case StateNavigating:
		return "navigating"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}
