package controllers

import (
	"context"
	"time"

	"github.com/flowmatic/flowmatic/pkg/flowmatic/domain"
	"github.com/flowmatic/flowmatic/pkg/flowmatic/models"
)

type MockWorkflowRepo struct {
	FindByIDFunc         func(id int64) (*domain.Workflow, error)
	FindByExternalIDFunc func(externalID string) (*domain.Workflow, error)
	FindAllByUserIDFunc  func(userID int64) (*[]domain.Workflow, error)
	SaveFunc             func(wf *domain.Workflow) (int64, error)
	UpdateFunc           func(wf *domain.Workflow) error
	DeleteFunc           func(id int64) error
}

func (m *MockWorkflowRepo) FindByID(id int64) (*domain.Workflow, error) {
	return m.FindByIDFunc(id)
}
func (m *MockWorkflowRepo) FindByExternalID(externalID string) (*domain.Workflow, error) {
	return m.FindByExternalIDFunc(externalID)
}
func (m *MockWorkflowRepo) FindAllByUserID(userID int64) (*[]domain.Workflow, error) {
	return m.FindAllByUserIDFunc(userID)
}
func (m *MockWorkflowRepo) Save(wf *domain.Workflow) (int64, error) {
	return m.SaveFunc(wf)
}
func (m *MockWorkflowRepo) Update(wf *domain.Workflow) error {
	return m.UpdateFunc(wf)
}
func (m *MockWorkflowRepo) Delete(id int64) error {
	return m.DeleteFunc(id)
}

type MockExecutionRepo struct {
	CreateFunc           func(e *domain.Execution) (int64, error)
	MarkCompletedFunc    func(id int64, endTime time.Time, output string) error
	MarkFailedFunc       func(id int64, endTime time.Time, errorMessage string) error
	FindByIDFunc         func(id int64) (*domain.Execution, error)
	FindByExternalIDFunc func(externalID string) (*domain.Execution, error)
	FindByWorkflowIDFunc func(workflowID int64, limit int) (*[]domain.Execution, error)
}

func (m *MockExecutionRepo) Create(e *domain.Execution) (int64, error) {
	return m.CreateFunc(e)
}
func (m *MockExecutionRepo) MarkCompleted(id int64, endTime time.Time, output string) error {
	return m.MarkCompletedFunc(id, endTime, output)
}
func (m *MockExecutionRepo) MarkFailed(id int64, endTime time.Time, errorMessage string) error {
	return m.MarkFailedFunc(id, endTime, errorMessage)
}
func (m *MockExecutionRepo) FindByID(id int64) (*domain.Execution, error) {
	return m.FindByIDFunc(id)
}
func (m *MockExecutionRepo) FindByExternalID(externalID string) (*domain.Execution, error) {
	return m.FindByExternalIDFunc(externalID)
}
func (m *MockExecutionRepo) FindByWorkflowID(workflowID int64, limit int) (*[]domain.Execution, error) {
	return m.FindByWorkflowIDFunc(workflowID, limit)
}

type MockNotificationRepo struct {
	SaveFunc         func(n *domain.Notification) (int64, error)
	FindByUserIDFunc func(userID int64, limit int) (*[]domain.Notification, error)
	MarkReadFunc     func(id int64) error
}

func (m *MockNotificationRepo) Save(n *domain.Notification) (int64, error) {
	return m.SaveFunc(n)
}
func (m *MockNotificationRepo) FindByUserID(userID int64, limit int) (*[]domain.Notification, error) {
	return m.FindByUserIDFunc(userID, limit)
}
func (m *MockNotificationRepo) MarkRead(id int64) error {
	return m.MarkReadFunc(id)
}

type MockRunner struct {
	ExecuteFunc func(ctx context.Context, wf *domain.Workflow, triggerData any) (*models.RunResult, error)
}

func (m *MockRunner) Execute(ctx context.Context, wf *domain.Workflow, triggerData any) (*models.RunResult, error) {
	return m.ExecuteFunc(ctx, wf, triggerData)
}

func notFoundWorkflowRepo() *MockWorkflowRepo {
	return &MockWorkflowRepo{
		FindByIDFunc:         func(int64) (*domain.Workflow, error) { return nil, nil },
		FindByExternalIDFunc: func(string) (*domain.Workflow, error) { return nil, nil },
	}
}
