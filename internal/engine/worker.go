package engine

import (
	"context"
	"log/slog"

	"github.com/flowmatic/flowmatic/pkg/flowmatic/domain"
)

// RunRequest is one queued workflow run.
type RunRequest struct {
	Workflow    *domain.Workflow
	TriggerData any
}

// Worker drains the run queue. Runs are detached from the request that
// queued them, so the background context is the right lifetime here.
func Worker(id int, runner *Runner, queue <-chan RunRequest) {
	for req := range queue {
		slog.Info("Worker starting run", "worker_id", id, "workflow_id", req.Workflow.ID)
		if _, err := runner.Execute(context.Background(), req.Workflow, req.TriggerData); err != nil {
			slog.Error("Worker run hit a persistence failure", "worker_id", id, "workflow_id", req.Workflow.ID, "error", err)
		}
		slog.Info("Worker finished run", "worker_id", id, "workflow_id", req.Workflow.ID)
	}
}
