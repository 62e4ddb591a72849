// SPDX-License-Identifier: MPL-2.0

package app

import (
	"errors"
	"fmt"
)

const (
	// StateCreated indicates New has not finished initialising the systems.
	StateCreated State = iota
	// StateInitialized indicates every system passed Init.
	StateInitialized
	// StateRunning indicates Run is executing the run steps.
	StateRunning
	// StateDone is terminal: every run step succeeded.
	StateDone
	// StateFailed is terminal: a run step failed.
	StateFailed
)

// ErrInvalidState is returned when Run is called outside StateInitialized.
var ErrInvalidState = errors.New("invalid application state")

type (
	// State is the lifecycle state of an Application. An Application runs once.
	State int32

	// InvalidStateError reports a Run call in the wrong state.
	InvalidStateError struct {
		Value State
	}
)

// String returns a human-readable representation of the state.
func (s State) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateInitialized:
		return "initialized"
	case StateRunning:
		return "running"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// IsTerminal returns true for StateDone and StateFailed.
func (s State) IsTerminal() bool {
	return s == StateDone || s == StateFailed
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("cannot run application in state %s", e.Value)
}

// Unwrap returns ErrInvalidState for errors.Is() compatibility.
func (e *InvalidStateError) Unwrap() error { return ErrInvalidState }
