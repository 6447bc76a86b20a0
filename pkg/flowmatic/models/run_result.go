package models

// RunResult is what executing a workflow returns to the caller. ExecutionID
// refers to the persisted Execution row for the run, success or not.
type RunResult struct {
	Success     bool           `json:"success"`
	ExecutionID string         `json:"executionId"`
	Error       string         `json:"error,omitempty"`
	Data        map[string]any `json:"data,omitempty"`
}
