package domain

import "time"
import "database/sql"

const (
	ExecutionStatusRunning   = "running"
	ExecutionStatusCompleted = "completed"
	ExecutionStatusFailed    = "failed"
)

// Execution is the persisted record of one run of a workflow. It is created
// as running and receives exactly one terminal update: completed sets Output,
// failed sets Error, both set EndTime.
type Execution struct {
	ID         int64
	ExternalID string
	WorkflowID int64
	Status     string
	StartTime  time.Time
	EndTime    sql.NullTime
	Input      sql.NullString
	Output     sql.NullString
	Error      sql.NullString
}
