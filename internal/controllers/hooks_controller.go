package controllers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/flowmatic/flowmatic/internal/engine"
	"github.com/flowmatic/flowmatic/internal/util"
	"github.com/flowmatic/flowmatic/pkg/flowmatic/domain"
)

// HooksController receives inbound webhook calls and queues runs for the
// worker pool. Hook URLs carry the workflow external ID so they are not
// guessable from the numeric ID sequence.
type HooksController struct {
	WorkflowRepo engine.WorkflowRepo
	RunQueue     chan<- engine.RunRequest
}

func NewHooksController(workflowRepo engine.WorkflowRepo, runQueue chan<- engine.RunRequest) *HooksController {
	return &HooksController{WorkflowRepo: workflowRepo, RunQueue: runQueue}
}

type hookAcceptedResponse struct {
	Queued     bool   `json:"queued"`
	WorkflowID string `json:"workflowId"`
}

func (c *HooksController) handleHook(w http.ResponseWriter, r *http.Request) {
	externalID := r.PathValue("externalId")
	if externalID == "" {
		http.Error(w, "externalId is required", http.StatusBadRequest)
		return
	}
	wf, err := c.WorkflowRepo.FindByExternalID(externalID)
	if err != nil || wf == nil {
		http.Error(w, "workflow not found", http.StatusNotFound)
		return
	}
	if !wf.Enabled {
		http.Error(w, "workflow is disabled", http.StatusConflict)
		return
	}
	if !hasWebhookTrigger(wf) {
		http.Error(w, "workflow has no webhook trigger", http.StatusConflict)
		return
	}

	var triggerData any
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&triggerData); err != nil {
			http.Error(w, "invalid JSON payload", http.StatusBadRequest)
			return
		}
	}

	select {
	case c.RunQueue <- engine.RunRequest{Workflow: wf, TriggerData: triggerData}:
		slog.InfoContext(r.Context(), "Queued webhook run", "workflowId", wf.ID, "externalId", externalID)
		util.WriteJSONResponse(w, http.StatusAccepted, hookAcceptedResponse{Queued: true, WorkflowID: externalID})
	default:
		slog.Warn("Run queue full, rejecting webhook", "workflowId", wf.ID)
		http.Error(w, "run queue is full", http.StatusServiceUnavailable)
	}
}

func hasWebhookTrigger(wf *domain.Workflow) bool {
	for _, t := range wf.Configuration.Triggers {
		if t.Type == domain.TriggerTypeWebhook {
			return true
		}
	}
	return false
}
