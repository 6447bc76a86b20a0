package engine

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/flowmatic/flowmatic/internal/expressions"
	"github.com/flowmatic/flowmatic/pkg/flowmatic/core"
	"github.com/flowmatic/flowmatic/pkg/flowmatic/domain"
	"github.com/flowmatic/flowmatic/pkg/flowmatic/models"
)

// Runner executes workflows. One call to Execute is one run: a fresh
// execution row, a fresh context, a linear pass over triggers then actions,
// and exactly one terminal write. Runs are independent; the Runner holds no
// cross-run state and is safe for concurrent use.
type Runner struct {
	executions    ExecutionRepo
	notifications NotificationRepo
	dispatcher    Dispatcher
	clock         core.Clock
}

func NewRunner(executions ExecutionRepo, notifications NotificationRepo, dispatcher Dispatcher, clock core.Clock) *Runner {
	return &Runner{
		executions:    executions,
		notifications: notifications,
		dispatcher:    dispatcher,
		clock:         clock,
	}
}

// Execute runs the workflow against the given trigger data. Validation and
// handler failures come back inside the RunResult with the run marked failed;
// the returned error is non-nil only when the execution or notification store
// is unreachable.
func (r *Runner) Execute(ctx context.Context, wf *domain.Workflow, triggerData any) (*models.RunResult, error) {
	inputJSON, err := json.Marshal(triggerData)
	if err != nil {
		inputJSON = []byte("null")
	}
	execution := &domain.Execution{
		ExternalID: uuid.NewString(),
		WorkflowID: wf.ID,
		Status:     domain.ExecutionStatusRunning,
		StartTime:  r.clock.Now(),
		Input:      sql.NullString{String: string(inputJSON), Valid: true},
	}
	if _, err := r.executions.Create(execution); err != nil {
		return nil, &PersistenceError{Op: "create execution", Err: err}
	}
	slog.InfoContext(ctx, "Running workflow", "workflow_id", wf.ID, "execution_id", execution.ExternalID)

	execCtx := domain.NewExecutionContext(wf.ID, wf.UserID, triggerData)

	for _, trigger := range wf.Configuration.Triggers {
		result := validateTrigger(trigger, triggerData, r.clock)
		if !result.Success {
			slog.ErrorContext(ctx, "Trigger validation failed", "workflow_id", wf.ID, "trigger_type", trigger.Type, "error", result.Error)
			return r.finishFailed(ctx, wf, execution, result.Error)
		}
		execCtx.RecordTriggerResult(trigger.Type, result.Data)
	}

	for i, action := range wf.Configuration.Actions {
		resolved := domain.Action{
			Type:   action.Type,
			Config: expressions.ResolveConfig(action.Config, execCtx.Variables),
		}

		result, fault := r.dispatch(ctx, resolved, execCtx)
		if fault != nil {
			slog.ErrorContext(ctx, "Action handler fault", "workflow_id", wf.ID, "action_index", i, "action_type", action.Type, "fault", fault)
			return r.finishFailed(ctx, wf, execution, (&ActionFaultError{Index: i, Message: fault.Error()}).Error())
		}
		if !result.Success {
			slog.ErrorContext(ctx, "Action failed", "workflow_id", wf.ID, "action_index", i, "action_type", action.Type, "error", result.Error)
			return r.finishFailed(ctx, wf, execution, (&ActionDispatchError{Index: i, Message: result.Error}).Error())
		}

		execCtx.RecordActionResult(i, result.Data)
		slog.InfoContext(ctx, "Action completed", "workflow_id", wf.ID, "action_index", i, "action_type", action.Type)
	}

	return r.finishCompleted(ctx, wf, execution, execCtx)
}

// dispatch guards the dispatcher call. The registry already converts handler
// panics into failed results; this protects the run against a dispatcher that
// breaks that contract too.
func (r *Runner) dispatch(ctx context.Context, action domain.Action, execCtx *domain.ExecutionContext) (result domain.ActionResult, fault error) {
	defer func() {
		if rec := recover(); rec != nil {
			fault = fmt.Errorf("%v", rec)
		}
	}()
	result = r.dispatcher.Dispatch(ctx, action, execCtx)
	return result, nil
}

func (r *Runner) finishCompleted(ctx context.Context, wf *domain.Workflow, execution *domain.Execution, execCtx *domain.ExecutionContext) (*models.RunResult, error) {
	output, err := json.Marshal(execCtx.StepResults)
	if err != nil {
		output = []byte("{}")
	}
	if err := r.executions.MarkCompleted(execution.ID, r.clock.Now(), string(output)); err != nil {
		return nil, &PersistenceError{Op: "complete execution", Err: err}
	}
	slog.InfoContext(ctx, "Workflow completed", "workflow_id", wf.ID, "execution_id", execution.ExternalID)
	return &models.RunResult{
		Success:     true,
		ExecutionID: execution.ExternalID,
		Data:        execCtx.StepResults,
	}, nil
}

func (r *Runner) finishFailed(ctx context.Context, wf *domain.Workflow, execution *domain.Execution, errorMessage string) (*models.RunResult, error) {
	if err := r.executions.MarkFailed(execution.ID, r.clock.Now(), errorMessage); err != nil {
		return nil, &PersistenceError{Op: "fail execution", Err: err}
	}

	metadata, _ := json.Marshal(map[string]any{
		"workflowId":  wf.ID,
		"executionId": execution.ID,
	})
	notification := &domain.Notification{
		UserID:   wf.UserID,
		Type:     domain.NotificationTypeWorkflowError,
		Message:  fmt.Sprintf("Workflow %q failed: %s", wf.Name, errorMessage),
		Metadata: sql.NullString{String: string(metadata), Valid: true},
		Created:  r.clock.Now(),
	}
	if _, err := r.notifications.Save(notification); err != nil {
		return nil, &PersistenceError{Op: "save failure notification", Err: err}
	}

	slog.InfoContext(ctx, "Workflow failed", "workflow_id", wf.ID, "execution_id", execution.ExternalID, "error", errorMessage)
	return &models.RunResult{
		Success:     false,
		ExecutionID: execution.ExternalID,
		Error:       errorMessage,
	}, nil
}
