package controllers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/flowmatic/flowmatic/internal/engine"
	"github.com/flowmatic/flowmatic/internal/util"
	"github.com/flowmatic/flowmatic/pkg/flowmatic/domain"
)

// ExecutionsController exposes run history.
type ExecutionsController struct {
	AuthController
	ExecutionRepo engine.ExecutionRepo
}

func NewExecutionsController(executionRepo engine.ExecutionRepo, auth *AuthController) *ExecutionsController {
	return &ExecutionsController{AuthController: *auth, ExecutionRepo: executionRepo}
}

func (c *ExecutionsController) handleGetExecution(w http.ResponseWriter, r *http.Request) {
	idStr := r.PathValue("id")
	if idStr == "" {
		http.Error(w, "id is required", http.StatusBadRequest)
		return
	}
	var exec *domain.Execution
	if id, err := strconv.ParseInt(idStr, 10, 64); err == nil {
		exec, _ = c.ExecutionRepo.FindByID(id)
	}
	if exec == nil {
		exec, _ = c.ExecutionRepo.FindByExternalID(idStr)
	}
	if exec == nil {
		http.Error(w, "execution not found", http.StatusNotFound)
		return
	}
	util.WriteJSONResponse(w, http.StatusOK, exec)
}

func (c *ExecutionsController) handleListExecutions(w http.ResponseWriter, r *http.Request) {
	workflowID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "workflow id is an integer", http.StatusBadRequest)
		return
	}
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		limit, err = strconv.Atoi(v)
		if err != nil || limit < 1 || limit > 1000 {
			http.Error(w, "limit must be between 1 and 1000", http.StatusBadRequest)
			return
		}
	}
	executions, err := c.ExecutionRepo.FindByWorkflowID(workflowID, limit)
	if err != nil {
		slog.Error("Failed to list executions", "workflowId", workflowID, "error", err)
		http.Error(w, "failed to list executions", http.StatusInternalServerError)
		return
	}
	if executions == nil {
		executions = &[]domain.Execution{}
	}
	util.WriteJSONResponse(w, http.StatusOK, executions)
}
