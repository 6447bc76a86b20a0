package domain

import "time"

// Workflow is a stored automation definition: who owns it, whether it is
// enabled, and the ordered trigger/action configuration that the engine runs.
type Workflow struct {
	ID            int64
	ExternalID    string
	UserID        int64
	Name          string
	Description   string
	Enabled       bool
	Created       time.Time
	Updated       time.Time
	Configuration Configuration
}

// Configuration holds the ordered trigger and action lists. Action order is
// the execution order; the engine never reorders or parallelizes.
type Configuration struct {
	Triggers []Trigger `json:"triggers"`
	Actions  []Action  `json:"actions"`
}

// Trigger describes what starts a run. The engine dispatches on Type only;
// Config is opaque to it.
type Trigger struct {
	Type   string         `json:"type"`
	Config map[string]any `json:"config,omitempty"`
}

// Action is one step of work. Config may contain {{path}} placeholders that
// are resolved against the execution context before dispatch.
type Action struct {
	Type   string         `json:"type"`
	Config map[string]any `json:"config,omitempty"`
}

const (
	TriggerTypeWebhook  = "webhook"
	TriggerTypeManual   = "manual"
	TriggerTypeEmail    = "email"
	TriggerTypeSchedule = "schedule"
)
