// Package brewing implements the guided brewing session: a step-by-step
// state machine driven by a one-second tick.
package brewing

import (
	"errors"
	"fmt"
)

// State is the run state of a session.
type State int

const (
	StateIdle State = iota
	StateRunning
	StatePaused
	StateCompleted
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StatePaused:
		return "paused"
	case StateCompleted:
		return "completed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Active reports whether the session is running or paused.
func (s State) Active() bool {
	return s == StateRunning || s == StatePaused
}

var (
	// ErrInvalidTransition is returned when an operation is not valid in the
	// session's current state. The session is left unchanged.
	ErrInvalidTransition = errors.New("invalid transition")
	// ErrIndexOutOfRange guards the current step index.
	ErrIndexOutOfRange = errors.New("step index out of range")
	// ErrNoSteps is returned when a session is built without steps.
	ErrNoSteps = errors.New("session needs at least one step")
)
