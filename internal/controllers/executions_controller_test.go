package controllers

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowmatic/flowmatic/pkg/flowmatic/domain"
)

func TestGetExecutionByExternalID(t *testing.T) {
	repo := &MockExecutionRepo{
		FindByIDFunc: func(int64) (*domain.Execution, error) { return nil, nil },
		FindByExternalIDFunc: func(externalID string) (*domain.Execution, error) {
			return &domain.Execution{
				ID:         3,
				ExternalID: externalID,
				Status:     domain.ExecutionStatusFailed,
				Error:      sql.NullString{String: "Action 1 failed: boom", Valid: true},
			}, nil
		},
	}
	c := NewExecutionsController(repo, &AuthController{})

	req := httptest.NewRequest("GET", "/api/executions/run-3", nil)
	req.SetPathValue("id", "run-3")
	w := httptest.NewRecorder()

	c.handleGetExecution(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var exec domain.Execution
	require.NoError(t, json.NewDecoder(w.Body).Decode(&exec))
	assert.Equal(t, domain.ExecutionStatusFailed, exec.Status)
	assert.Equal(t, "Action 1 failed: boom", exec.Error.String)
}

func TestListExecutionsForWorkflow(t *testing.T) {
	var gotLimit int
	repo := &MockExecutionRepo{
		FindByWorkflowIDFunc: func(workflowID int64, limit int) (*[]domain.Execution, error) {
			gotLimit = limit
			return &[]domain.Execution{
				{ID: 1, WorkflowID: workflowID, Status: domain.ExecutionStatusCompleted},
				{ID: 2, WorkflowID: workflowID, Status: domain.ExecutionStatusRunning},
			}, nil
		},
	}
	c := NewExecutionsController(repo, &AuthController{})

	req := httptest.NewRequest("GET", "/api/workflows/8/executions?limit=10", nil)
	req.SetPathValue("id", "8")
	w := httptest.NewRecorder()

	c.handleListExecutions(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 10, gotLimit)
	var executions []domain.Execution
	require.NoError(t, json.NewDecoder(w.Body).Decode(&executions))
	assert.Len(t, executions, 2)
}

func TestListExecutionsRejectsBadLimit(t *testing.T) {
	c := NewExecutionsController(&MockExecutionRepo{}, &AuthController{})

	req := httptest.NewRequest("GET", "/api/workflows/8/executions?limit=5000", nil)
	req.SetPathValue("id", "8")
	w := httptest.NewRecorder()

	c.handleListExecutions(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListNotifications(t *testing.T) {
	repo := &MockNotificationRepo{
		FindByUserIDFunc: func(userID int64, limit int) (*[]domain.Notification, error) {
			return &[]domain.Notification{
				{ID: 1, UserID: userID, Type: domain.NotificationTypeWorkflowError, Message: `Workflow "Order alerts" failed: Action 1 failed: boom`},
			}, nil
		},
	}
	c := NewNotificationsController(repo, &AuthController{})

	req := httptest.NewRequest("GET", "/api/notifications?userId=3", nil)
	w := httptest.NewRecorder()

	c.handleListNotifications(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var notifications []domain.Notification
	require.NoError(t, json.NewDecoder(w.Body).Decode(&notifications))
	require.Len(t, notifications, 1)
	assert.Contains(t, notifications[0].Message, `Workflow "Order alerts" failed`)
}

func TestMarkNotificationRead(t *testing.T) {
	var marked int64
	repo := &MockNotificationRepo{
		MarkReadFunc: func(id int64) error {
			marked = id
			return nil
		},
	}
	c := NewNotificationsController(repo, &AuthController{})

	req := httptest.NewRequest("POST", "/api/notifications/12/read", nil)
	req.SetPathValue("id", "12")
	w := httptest.NewRecorder()

	c.handleMarkRead(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(12), marked)
}
