package controllers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/flowmatic/flowmatic/internal/engine"
	"github.com/flowmatic/flowmatic/internal/util"
	"github.com/flowmatic/flowmatic/pkg/flowmatic/domain"
)

// NotificationsController exposes the failure notifications written by runs.
type NotificationsController struct {
	AuthController
	NotificationRepo engine.NotificationRepo
}

func NewNotificationsController(notificationRepo engine.NotificationRepo, auth *AuthController) *NotificationsController {
	return &NotificationsController{AuthController: *auth, NotificationRepo: notificationRepo}
}

func (c *NotificationsController) handleListNotifications(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(r.URL.Query().Get("userId"), 10, 64)
	if err != nil {
		http.Error(w, "userId is required", http.StatusBadRequest)
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
	notifications, err := c.NotificationRepo.FindByUserID(userID, limit)
	if err != nil {
		slog.Error("Failed to list notifications", "userId", userID, "error", err)
		http.Error(w, "failed to list notifications", http.StatusInternalServerError)
		return
	}
	if notifications == nil {
		notifications = &[]domain.Notification{}
	}
	util.WriteJSONResponse(w, http.StatusOK, notifications)
}

func (c *NotificationsController) handleMarkRead(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "id is an integer", http.StatusBadRequest)
		return
	}
	if err := c.NotificationRepo.MarkRead(id); err != nil {
		slog.Error("Failed to mark notification read", "id", id, "error", err)
		http.Error(w, "failed to mark notification read", http.StatusInternalServerError)
		return
	}
	util.WriteJSONResponse(w, http.StatusOK, map[string]bool{"ok": true})
}
