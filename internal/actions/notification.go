package actions

import (
	"context"
	"encoding/json"
	"database/sql"

	"github.com/flowmatic/flowmatic/pkg/flowmatic/core"
	"github.com/flowmatic/flowmatic/pkg/flowmatic/domain"
)

// NotificationStore is the slice of the notification repository this handler
// needs.
type NotificationStore interface {
	Save(n *domain.Notification) (int64, error)
}

// NotificationHandler writes an in-app notification row for the workflow's
// owner (or an explicit user_id from the config).
type NotificationHandler struct {
	notifications NotificationStore
	clock         core.Clock
}

func NewNotificationHandler(notifications NotificationStore, clock core.Clock) *NotificationHandler {
	return &NotificationHandler{notifications: notifications, clock: clock}
}

func (h *NotificationHandler) Kind() string { return "notification" }

func (h *NotificationHandler) Execute(ctx context.Context, config map[string]any, execCtx *domain.ExecutionContext) domain.ActionResult {
	message := stringValue(config, "message")
	if message == "" {
		return domain.ResultError("notification action requires a message")
	}

	notificationType := stringValue(config, "type")
	if notificationType == "" {
		notificationType = "info"
	}

	userID := execCtx.UserID
	if id, ok := numberValue(config, "user_id"); ok {
		userID = int64(id)
	}

	metadata, _ := json.Marshal(map[string]any{"workflowId": execCtx.WorkflowID})
	n := &domain.Notification{
		UserID:   userID,
		Type:     notificationType,
		Message:  message,
		Metadata: sql.NullString{String: string(metadata), Valid: true},
		Created:  h.clock.Now(),
	}
	id, err := h.notifications.Save(n)
	if err != nil {
		return domain.ResultError("failed to save notification: " + err.Error())
	}
	return domain.ResultOK(map[string]any{"notificationId": id, "message": message})
}
