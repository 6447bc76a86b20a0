package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/flowmatic/flowmatic/pkg/flowmatic/core"
	"github.com/flowmatic/flowmatic/pkg/flowmatic/domain"
)

type WorkflowRepository struct {
	db    *sql.DB
	clock core.Clock
}

const workflowColumns = ` id, external_id, user_id, name, description, enabled, created, updated, configuration `

func NewWorkflowRepository(db *sql.DB, clock core.Clock) *WorkflowRepository {
	return &WorkflowRepository{db: db, clock: clock}
}

func (r *WorkflowRepository) FindByID(id int64) (*domain.Workflow, error) {
	query := `
		SELECT ` + workflowColumns + `
		FROM workflow WHERE id = ` + Placeholder(1) + `
	`
	return r.scanOne(r.db.QueryRow(query, id))
}

func (r *WorkflowRepository) FindByExternalID(externalID string) (*domain.Workflow, error) {
	query := `
		SELECT ` + workflowColumns + `
		FROM workflow WHERE external_id = ` + Placeholder(1) + `
	`
	return r.scanOne(r.db.QueryRow(query, externalID))
}

func (r *WorkflowRepository) FindAllByUserID(userID int64) (*[]domain.Workflow, error) {
	query := `
		SELECT ` + workflowColumns + `
		FROM workflow WHERE user_id = ` + Placeholder(1) + `
		ORDER BY id
	`
	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var workflows []domain.Workflow
	for rows.Next() {
		wf, err := r.scanRow(rows)
		if err != nil {
			return nil, err
		}
		workflows = append(workflows, *wf)
	}
	return &workflows, rows.Err()
}

func (r *WorkflowRepository) Save(wf *domain.Workflow) (int64, error) {
	configJSON, err := json.Marshal(wf.Configuration)
	if err != nil {
		return 0, fmt.Errorf("marshal workflow configuration: %w", err)
	}
	now := r.clock.Now()
	wf.Created = now
	wf.Updated = now

	vals := []interface{}{wf.ExternalID, wf.UserID, wf.Name, wf.Description, wf.Enabled,
		formatTimeInDatabase(wf.Created), formatTimeInDatabase(wf.Updated), string(configJSON)}
	pps := make([]string, 0, len(vals))
	for i := range vals {
		pps = append(pps, Placeholder(i+1))
	}
	base := `INSERT INTO workflow (
		external_id, user_id, name, description, enabled, created, updated, configuration
	) VALUES (` + strings.Join(pps, ", ") + `)`

	if SupportsReturning() {
		err = r.db.QueryRow(base+" RETURNING id", vals...).Scan(&wf.ID)
		return wf.ID, err
	}
	res, err := r.db.Exec(base, vals...)
	if err != nil {
		return 0, err
	}
	wf.ID, err = res.LastInsertId()
	return wf.ID, err
}

func (r *WorkflowRepository) Update(wf *domain.Workflow) error {
	configJSON, err := json.Marshal(wf.Configuration)
	if err != nil {
		return fmt.Errorf("marshal workflow configuration: %w", err)
	}
	wf.Updated = r.clock.Now()

	query := `
		UPDATE workflow SET name = ` + Placeholder(1) + `, description = ` + Placeholder(2) + `,
			enabled = ` + Placeholder(3) + `, updated = ` + Placeholder(4) + `, configuration = ` + Placeholder(5) + `
		WHERE id = ` + Placeholder(6) + `
	`
	_, err = r.db.Exec(query, wf.Name, wf.Description, wf.Enabled,
		formatTimeInDatabase(wf.Updated), string(configJSON), wf.ID)
	return err
}

func (r *WorkflowRepository) Delete(id int64) error {
	_, err := r.db.Exec(`DELETE FROM workflow WHERE id = `+Placeholder(1), id)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *WorkflowRepository) scanOne(row *sql.Row) (*domain.Workflow, error) {
	return r.scanRow(row)
}

func (r *WorkflowRepository) scanRow(row rowScanner) (*domain.Workflow, error) {
	var wf domain.Workflow
	var configJSON string
	err := row.Scan(
		&wf.ID,
		&wf.ExternalID,
		&wf.UserID,
		&wf.Name,
		&wf.Description,
		&wf.Enabled,
		&wf.Created,
		&wf.Updated,
		&configJSON,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(configJSON), &wf.Configuration); err != nil {
		return nil, fmt.Errorf("unmarshal workflow %d configuration: %w", wf.ID, err)
	}
	return &wf, nil
}
