// Package session manages per-user conversation history. Each user has one
// session: a fixed leading system message plus a bounded FIFO window of
// user and assistant turns.
package session

import (
	"github.com/sahayak-labs/sahayak/core/protocol"
)

// Store keys conversation sessions by normalized user identifier. The store
// owns its own mutation discipline; callers never hold references into live
// session state. Implementations must be safe for concurrent use.
type Store interface {
	// Ensure lazily creates the user's session with the configured system
	// message. Idempotent.
	Ensure(user string)
	// Append ensures the session, appends a timestamped turn, and applies
	// the truncation invariant: the system message is never evicted and at
	// most MaxHistoryLength newer turns are retained.
	Append(user string, role protocol.Role, content any)
	// History ensures the session and returns a snapshot copy of its
	// ordered message log.
	History(user string) []protocol.Message
	// Clear removes all state for the user. Subsequent access recreates a
	// fresh session lazily.
	Clear(user string)
	// ActiveUsers returns a snapshot of user identifiers with live sessions.
	ActiveUsers() []string
	// State ensures the session and returns its application-progress stage.
	State(user string) State
	// SetState ensures the session and records a stage transition.
	SetState(user string, state State)
}
