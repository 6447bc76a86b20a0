package controllers

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/flowmatic/flowmatic/internal/engine"
	"github.com/flowmatic/flowmatic/internal/schema"
	"github.com/flowmatic/flowmatic/internal/util"
	"github.com/flowmatic/flowmatic/pkg/flowmatic/domain"
	"github.com/flowmatic/flowmatic/pkg/flowmatic/models"
)

// WorkflowRunner runs one workflow synchronously, matching engine.Runner.
type WorkflowRunner interface {
	Execute(ctx context.Context, wf *domain.Workflow, triggerData any) (*models.RunResult, error)
}

// WorkflowsController holds dependencies for workflow HTTP endpoints.
type WorkflowsController struct {
	AuthController
	WorkflowRepo engine.WorkflowRepo
	Validator    *schema.Validator
	Runner       WorkflowRunner
}

func NewWorkflowsController(workflowRepo engine.WorkflowRepo, validator *schema.Validator, runner WorkflowRunner, auth *AuthController) *WorkflowsController {
	return &WorkflowsController{
		AuthController: *auth,
		WorkflowRepo:   workflowRepo,
		Validator:      validator,
		Runner:         runner,
	}
}

func (c *WorkflowsController) handleCreateWorkflow(w http.ResponseWriter, r *http.Request) {
	req, err := util.DecodeJSONBody[models.CreateWorkflowRequest](r)
	if err != nil {
		http.Error(w, "invalid JSON payload", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Name) == "" || req.UserID == 0 {
		http.Error(w, "name and userId are required", http.StatusBadRequest)
		return
	}
	if err := c.Validator.ValidateConfiguration(&req.Configuration); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	enabled := true
	if req.Enabled != nil {
		enabled = *req.Enabled
	}
	wf := &domain.Workflow{
		ExternalID:    uuid.NewString(),
		UserID:        req.UserID,
		Name:          req.Name,
		Description:   req.Description,
		Enabled:       enabled,
		Configuration: req.Configuration,
	}

	slog.InfoContext(r.Context(), "Creating workflow", "name", req.Name, "userId", req.UserID)
	if _, err := c.WorkflowRepo.Save(wf); err != nil {
		slog.Error("Failed to save workflow", "error", err)
		http.Error(w, "failed to create workflow", http.StatusInternalServerError)
		return
	}
	util.WriteJSONResponse(w, http.StatusCreated, wf)
}

func (c *WorkflowsController) handleGetWorkflow(w http.ResponseWriter, r *http.Request) {
	wf := c.findWorkflow(r.PathValue("id"))
	if wf == nil {
		http.Error(w, "workflow not found", http.StatusNotFound)
		return
	}
	util.WriteJSONResponse(w, http.StatusOK, wf)
}

func (c *WorkflowsController) handleListWorkflows(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(r.URL.Query().Get("userId"), 10, 64)
	if err != nil {
		http.Error(w, "userId is required", http.StatusBadRequest)
		return
	}
	workflows, err := c.WorkflowRepo.FindAllByUserID(userID)
	if err != nil {
		slog.Error("Failed to list workflows", "userId", userID, "error", err)
		http.Error(w, "failed to list workflows", http.StatusInternalServerError)
		return
	}
	if workflows == nil {
		workflows = &[]domain.Workflow{}
	}
	util.WriteJSONResponse(w, http.StatusOK, workflows)
}

func (c *WorkflowsController) handleUpdateWorkflow(w http.ResponseWriter, r *http.Request) {
	wf := c.findWorkflow(r.PathValue("id"))
	if wf == nil {
		http.Error(w, "workflow not found", http.StatusNotFound)
		return
	}
	req, err := util.DecodeJSONBody[models.UpdateWorkflowRequest](r)
	if err != nil {
		http.Error(w, "invalid JSON payload", http.StatusBadRequest)
		return
	}
	if req.Name != "" {
		wf.Name = req.Name
	}
	if req.Description != "" {
		wf.Description = req.Description
	}
	if req.Enabled != nil {
		wf.Enabled = *req.Enabled
	}
	if req.Configuration != nil {
		if err := c.Validator.ValidateConfiguration(req.Configuration); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		wf.Configuration = *req.Configuration
	}
	if err := c.WorkflowRepo.Update(wf); err != nil {
		slog.Error("Failed to update workflow", "id", wf.ID, "error", err)
		http.Error(w, "failed to update workflow", http.StatusInternalServerError)
		return
	}
	util.WriteJSONResponse(w, http.StatusOK, wf)
}

func (c *WorkflowsController) handleDeleteWorkflow(w http.ResponseWriter, r *http.Request) {
	wf := c.findWorkflow(r.PathValue("id"))
	if wf == nil {
		http.Error(w, "workflow not found", http.StatusNotFound)
		return
	}
	if err := c.WorkflowRepo.Delete(wf.ID); err != nil {
		slog.Error("Failed to delete workflow", "id", wf.ID, "error", err)
		http.Error(w, "failed to delete workflow", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleRunWorkflow runs a workflow synchronously and returns the run result.
// A run that fails inside an action still answers 200; the outcome is in the
// body. Only a persistence failure is a server error.
func (c *WorkflowsController) handleRunWorkflow(w http.ResponseWriter, r *http.Request) {
	wf := c.findWorkflow(r.PathValue("id"))
	if wf == nil {
		http.Error(w, "workflow not found", http.StatusNotFound)
		return
	}
	if !wf.Enabled {
		http.Error(w, "workflow is disabled", http.StatusConflict)
		return
	}

	var triggerData any
	if r.Body != nil && r.ContentLength != 0 {
		req, err := util.DecodeJSONBody[models.RunWorkflowRequest](r)
		if err != nil {
			http.Error(w, "invalid JSON payload", http.StatusBadRequest)
			return
		}
		triggerData = req.TriggerData
	}

	slog.InfoContext(r.Context(), "Running workflow", "id", wf.ID, "name", wf.Name)
	result, err := c.Runner.Execute(r.Context(), wf, triggerData)
	if err != nil {
		slog.Error("Workflow run could not be recorded", "id", wf.ID, "error", err)
		http.Error(w, "failed to record workflow run", http.StatusInternalServerError)
		return
	}
	util.WriteJSONResponse(w, http.StatusOK, result)
}

// findWorkflow resolves a path value as a numeric ID first, then as an
// external ID.
func (c *WorkflowsController) findWorkflow(idStr string) *domain.Workflow {
	if idStr == "" {
		return nil
	}
	if id, err := strconv.ParseInt(idStr, 10, 64); err == nil {
		if wf, err := c.WorkflowRepo.FindByID(id); err == nil && wf != nil {
			return wf
		}
	}
	wf, _ := c.WorkflowRepo.FindByExternalID(idStr)
	return wf
}
