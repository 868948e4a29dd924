package core

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyPanel is returned when a debate is started with zero
	// reviewers. It is fatal; there is nothing to retry.
	ErrEmptyPanel = errors.New("debate panel has no reviewers")

	// ErrSessionNotFound is returned by stores when no session exists for
	// the given id.
	ErrSessionNotFound = errors.New("session not found")
)

// SequenceError is a fatal precondition violation: a round was invoked
// before the prior round produced the results it requires, or a completed
// debate was driven again. Callers can distinguish it from per-reviewer
// capability failures with errors.As.
type SequenceError struct {
	Stage  string // round or operation that was refused
	Reason string
}

func (e *SequenceError) Error() string {
	return fmt.Sprintf("debate sequence violation at %s: %s", e.Stage, e.Reason)
}

// CapabilityError records a single reviewer call that failed, timed out, or
// returned a structurally invalid artifact. It is recovered locally: the
// task is excluded from the round's result set and the round completes with
// a reduced panel.
type CapabilityError struct {
	Agent string // reviewer name
	Op    string // "review", "respond" or "vote"
	Err   error
}

func (e *CapabilityError) Error() string {
	return fmt.Sprintf("reviewer %s: %s failed: %v", e.Agent, e.Op, e.Err)
}

func (e *CapabilityError) Unwrap() error { return e.Err }

// PersistenceError records a SessionStore call that failed. The default
// policy is to continue the debate with degraded durability; the error is
// surfaced as a warning, never as a fatal failure.
type PersistenceError struct {
	Op        string
	SessionID string
	Err       error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence failure (%s) for session %s: %v", e.Op, e.SessionID, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
