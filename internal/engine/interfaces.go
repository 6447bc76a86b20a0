package engine

import (
	"context"
	"time"

	"github.com/flowmatic/flowmatic/pkg/flowmatic/domain"
)

// ExecutionRepo defines the interface for execution persistence, matching
// repository.ExecutionRepository.
type ExecutionRepo interface {
	Create(e *domain.Execution) (int64, error)
	MarkCompleted(id int64, endTime time.Time, output string) error
	MarkFailed(id int64, endTime time.Time, errorMessage string) error
	FindByID(id int64) (*domain.Execution, error)
	FindByExternalID(externalID string) (*domain.Execution, error)
	FindByWorkflowID(workflowID int64, limit int) (*[]domain.Execution, error)
}

// NotificationRepo defines the interface for notification persistence.
type NotificationRepo interface {
	Save(n *domain.Notification) (int64, error)
	FindByUserID(userID int64, limit int) (*[]domain.Notification, error)
	MarkRead(id int64) error
}

// WorkflowRepo defines the interface for workflow persistence, matching
// repository.WorkflowRepository.
type WorkflowRepo interface {
	FindByID(id int64) (*domain.Workflow, error)
	FindByExternalID(externalID string) (*domain.Workflow, error)
	FindAllByUserID(userID int64) (*[]domain.Workflow, error)
	Save(wf *domain.Workflow) (int64, error)
	Update(wf *domain.Workflow) error
	Delete(id int64) error
}

// Dispatcher routes one resolved action to its handler, matching
// actions.Registry.
type Dispatcher interface {
	Dispatch(ctx context.Context, action domain.Action, execCtx *domain.ExecutionContext) domain.ActionResult
}
