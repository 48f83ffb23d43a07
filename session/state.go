package session

// State is the explicit application-progress stage of one session. The
// orchestrator owns all transitions; the store only records them.
type State string

const (
	// StateGreeting is a freshly created session with no reasoning turn yet.
	StateGreeting State = "greeting"
	// StateCollecting means the model is gathering required fields.
	StateCollecting State = "collecting"
	// StateSubmitted means a finalize action was accepted and scored.
	StateSubmitted State = "submitted"
	// StateClosed means the submission summary was delivered. A closed
	// session refuses further reasoning until cleared.
	StateClosed State = "closed"
)
