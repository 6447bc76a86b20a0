package repository

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/flowmatic/flowmatic/pkg/flowmatic/core"
	"github.com/flowmatic/flowmatic/pkg/flowmatic/domain"
)

type ExecutionRepository struct {
	db    *sql.DB
	clock core.Clock
}

const executionColumns = ` id, external_id, workflow_id, status, start_time, end_time, input, output, error `

func NewExecutionRepository(db *sql.DB, clock core.Clock) *ExecutionRepository {
	return &ExecutionRepository{db: db, clock: clock}
}

func (r *ExecutionRepository) Create(e *domain.Execution) (int64, error) {
	vals := []interface{}{e.ExternalID, e.WorkflowID, e.Status,
		formatTimeInDatabase(e.StartTime), e.Input}
	pps := make([]string, 0, len(vals))
	for i := range vals {
		pps = append(pps, Placeholder(i+1))
	}
	base := `INSERT INTO execution (
		external_id, workflow_id, status, start_time, input
	) VALUES (` + strings.Join(pps, ", ") + `)`

	if SupportsReturning() {
		err := r.db.QueryRow(base+" RETURNING id", vals...).Scan(&e.ID)
		return e.ID, err
	}
	res, err := r.db.Exec(base, vals...)
	if err != nil {
		return 0, err
	}
	e.ID, err = res.LastInsertId()
	return e.ID, err
}

// MarkCompleted writes the completed terminal state. The status guard makes
// the terminal transition atomic: only one terminal write per run can win.
func (r *ExecutionRepository) MarkCompleted(id int64, endTime time.Time, output string) error {
	query := `
		UPDATE execution SET status = ` + Placeholder(1) + `, end_time = ` + Placeholder(2) + `, output = ` + Placeholder(3) + `
		WHERE id = ` + Placeholder(4) + ` AND status = ` + Placeholder(5) + `
	`
	return r.markTerminal(query, domain.ExecutionStatusCompleted, endTime, output, id)
}

// MarkFailed writes the failed terminal state under the same guard.
func (r *ExecutionRepository) MarkFailed(id int64, endTime time.Time, errorMessage string) error {
	query := `
		UPDATE execution SET status = ` + Placeholder(1) + `, end_time = ` + Placeholder(2) + `, error = ` + Placeholder(3) + `
		WHERE id = ` + Placeholder(4) + ` AND status = ` + Placeholder(5) + `
	`
	return r.markTerminal(query, domain.ExecutionStatusFailed, endTime, errorMessage, id)
}

func (r *ExecutionRepository) markTerminal(query string, status string, endTime time.Time, payload string, id int64) error {
	res, err := r.db.Exec(query, status, formatTimeInDatabase(endTime), payload, id, domain.ExecutionStatusRunning)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected != 1 {
		return fmt.Errorf("execution %d is not running, refusing second terminal write", id)
	}
	return nil
}

func (r *ExecutionRepository) FindByID(id int64) (*domain.Execution, error) {
	query := `
		SELECT ` + executionColumns + `
		FROM execution WHERE id = ` + Placeholder(1) + `
	`
	return scanExecution(r.db.QueryRow(query, id))
}

func (r *ExecutionRepository) FindByExternalID(externalID string) (*domain.Execution, error) {
	query := `
		SELECT ` + executionColumns + `
		FROM execution WHERE external_id = ` + Placeholder(1) + `
	`
	return scanExecution(r.db.QueryRow(query, externalID))
}

func (r *ExecutionRepository) FindByWorkflowID(workflowID int64, limit int) (*[]domain.Execution, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `
		SELECT ` + executionColumns + `
		FROM execution WHERE workflow_id = ` + Placeholder(1) + `
		ORDER BY id DESC LIMIT ` + fmt.Sprintf("%d", limit)
	rows, err := r.db.Query(query, workflowID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var executions []domain.Execution
	for rows.Next() {
		e, err := scanExecution(rows)
		if err != nil {
			return nil, err
		}
		executions = append(executions, *e)
	}
	return &executions, rows.Err()
}

func scanExecution(row rowScanner) (*domain.Execution, error) {
	var e domain.Execution
	err := row.Scan(
		&e.ID,
		&e.ExternalID,
		&e.WorkflowID,
		&e.Status,
		&e.StartTime,
		&e.EndTime,
		&e.Input,
		&e.Output,
		&e.Error,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}
