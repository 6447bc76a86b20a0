package engine

import "fmt"

// TriggerValidationError is an unrecognized trigger type. Recovered into a
// failed run, never raised to the caller.
type TriggerValidationError struct {
	Type string
}

func (e *TriggerValidationError) Error() string {
	return "Unknown trigger type: " + e.Type
}

// ActionDispatchError is a failure the handler declared (or an unknown action
// type). Index is zero-based; messages use the one-based step number.
type ActionDispatchError struct {
	Index   int
	Message string
}

func (e *ActionDispatchError) Error() string {
	return fmt.Sprintf("Action %d failed: %s", e.Index+1, e.Message)
}

// ActionFaultError is a handler that broke its contract and panicked through
// the dispatch boundary.
type ActionFaultError struct {
	Index   int
	Message string
}

func (e *ActionFaultError) Error() string {
	return fmt.Sprintf("Action %d error: %s", e.Index+1, e.Message)
}

// PersistenceError means the execution or notification store is unreachable.
// Unlike the others it propagates out of Execute: silently losing the audit
// trail is worse than a visible failure.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence failure during %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
