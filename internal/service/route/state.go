// Package route commits a Decision's effect to the persisted collections
// and retires the placeholder.
package route

import (
	"errors"
	"fmt"
	"sync"
)

// State represents the lifecycle state of a placeholder within the engine.
type State int

const (
	// StatePending - placeholder still holds sentinel content, no routing
	// has started.
	StatePending State = iota
	// StateRouting - a routing branch is executing its side effects.
	StateRouting
	// StateFinalized - placeholder was finalized in place (note path).
	StateFinalized
	// StateDeleted - placeholder was deleted (todo path).
	StateDeleted
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StatePending:
		return "PENDING"
	case StateRouting:
		return "ROUTING"
	case StateFinalized:
		return "FINALIZED"
	case StateDeleted:
		return "DELETED"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", s)
	}
}

// IsTerminal returns true once the placeholder has left the engine's hands.
func (s State) IsTerminal() bool {
	return s == StateFinalized || s == StateDeleted
}

// Errors for invalid lifecycle transitions.
var (
	ErrAlreadyRouted  = errors.New("placeholder already routed")
	ErrRoutingStarted = errors.New("routing already in progress for placeholder")
)

// Lifecycle enforces the exactly-once terminal mutation per placeholder.
// Thread-safe for concurrent access.
//
// State transitions:
//
//	PENDING → ROUTING → FINALIZED | DELETED
//	              │
//	              └── Fail() ──→ PENDING
//
// One Begin() claims the placeholder at a time, and exactly one of
// Finalized()/Deleted() follows it on success. A failed attempt releases
// the claim so a caller retry can take it again.
type Lifecycle struct {
	mu            sync.RWMutex
	placeholderID string
	state         State
}

// NewLifecycle creates a lifecycle in PENDING state.
func NewLifecycle(placeholderID string) *Lifecycle {
	return &Lifecycle{placeholderID: placeholderID, state: StatePending}
}

// PlaceholderID returns the placeholder this lifecycle guards.
func (l *Lifecycle) PlaceholderID() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.placeholderID
}

// State returns the current state.
func (l *Lifecycle) State() State {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.state
}

// Begin claims the placeholder for routing. Only the first call succeeds;
// no branch is re-entrant for the same placeholder.
func (l *Lifecycle) Begin() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	switch l.state {
	case StatePending:
		l.state = StateRouting
		return nil
	case StateRouting:
		return ErrRoutingStarted
	default:
		return ErrAlreadyRouted
	}
}

// Finalized records the note-path terminal mutation.
func (l *Lifecycle) Finalized() error {
	return l.terminal(StateFinalized)
}

// Deleted records the todo-path terminal mutation.
func (l *Lifecycle) Deleted() error {
	return l.terminal(StateDeleted)
}

// Fail releases a failed routing attempt. The stored record keeps whatever
// state the last successful sub-step left it in; the lifecycle returns to
// PENDING so a caller retry can claim it again. No-op once terminal.
func (l *Lifecycle) Fail() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.state == StateRouting {
		l.state = StatePending
	}
}

func (l *Lifecycle) terminal(to State) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.state != StateRouting {
		return fmt.Errorf("cannot transition %s placeholder to %s", l.state, to)
	}
	l.state = to
	return nil
}
