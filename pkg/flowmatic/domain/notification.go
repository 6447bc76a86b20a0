package domain

import "time"
import "database/sql"

const NotificationTypeWorkflowError = "workflow_error"

// Notification is a user-facing alert row. The engine creates one per failed
// run; the notification action handler can create them explicitly.
type Notification struct {
	ID       int64
	UserID   int64
	Type     string
	Message  string
	Metadata sql.NullString
	Read     bool
	Created  time.Time
}
