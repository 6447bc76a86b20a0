package models

import "github.com/flowmatic/flowmatic/pkg/flowmatic/domain"

type CreateWorkflowRequest struct {
	Name          string               `json:"name"`
	Description   string               `json:"description"`
	UserID        int64                `json:"userId"`
	Enabled       *bool                `json:"enabled,omitempty"`
	Configuration domain.Configuration `json:"configuration"`
}

type UpdateWorkflowRequest struct {
	Name          string                `json:"name"`
	Description   string                `json:"description"`
	Enabled       *bool                 `json:"enabled,omitempty"`
	Configuration *domain.Configuration `json:"configuration,omitempty"`
}

// RunWorkflowRequest carries the trigger data for a manual run.
type RunWorkflowRequest struct {
	TriggerData any `json:"triggerData"`
}
