package repository

import (
	"database/sql"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowmatic/flowmatic/internal/config"
	"github.com/flowmatic/flowmatic/pkg/flowmatic/domain"
)

type fixedClock struct {
	now time.Time
}

func (c *fixedClock) Now() time.Time                         { return c.now }
func (c *fixedClock) After(d time.Duration) <-chan time.Time { return time.After(d) }

func setupRepoDB(t *testing.T) (*sql.DB, *fixedClock) {
	t.Helper()
	t.Setenv(config.DATABASE_TYPE, config.DATABASE_TYPE_SQLLITE)
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	stmts := []string{
		`CREATE TABLE workflow (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			external_id   TEXT    NOT NULL UNIQUE,
			user_id       INTEGER NOT NULL,
			name          TEXT    NOT NULL,
			description   TEXT    NOT NULL DEFAULT '',
			enabled       BOOLEAN NOT NULL DEFAULT 1,
			created       DATETIME NOT NULL,
			updated       DATETIME NOT NULL,
			configuration TEXT    NOT NULL
		)`,
		`CREATE TABLE execution (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			external_id TEXT    NOT NULL UNIQUE,
			workflow_id INTEGER NOT NULL REFERENCES workflow (id) ON DELETE CASCADE,
			status      TEXT    NOT NULL,
			start_time  DATETIME NOT NULL,
			end_time    DATETIME,
			input       TEXT,
			output      TEXT,
			error       TEXT
		)`,
		`CREATE TABLE notification (
			id       INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id  INTEGER NOT NULL,
			type     TEXT    NOT NULL,
			message  TEXT    NOT NULL,
			metadata TEXT,
			is_read  BOOLEAN NOT NULL DEFAULT 0,
			created  DATETIME NOT NULL
		)`,
	}
	for _, stmt := range stmts {
		_, err = db.Exec(stmt)
		require.NoError(t, err)
	}
	return db, &fixedClock{now: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func sampleWorkflow(userID int64) *domain.Workflow {
	return &domain.Workflow{
		ExternalID: "wf-ext-1",
		UserID:     userID,
		Name:       "Order alerts",
		Enabled:    true,
		Configuration: domain.Configuration{
			Triggers: []domain.Trigger{{Type: domain.TriggerTypeWebhook}},
			Actions: []domain.Action{
				{Type: "webhook", Config: map[string]any{"url": "https://example.com/{{trigger.id}}"}},
			},
		},
	}
}

func TestWorkflowRepositoryRoundTrip(t *testing.T) {
	db, clock := setupRepoDB(t)
	repo := NewWorkflowRepository(db, clock)

	id, err := repo.Save(sampleWorkflow(3))
	require.NoError(t, err)
	require.NotZero(t, id)

	found, err := repo.FindByID(id)
	require.NoError(t, err)
	assert.Equal(t, "Order alerts", found.Name)
	assert.True(t, found.Enabled)
	require.Len(t, found.Configuration.Actions, 1)
	assert.Equal(t, "https://example.com/{{trigger.id}}", found.Configuration.Actions[0].Config["url"])

	byExt, err := repo.FindByExternalID("wf-ext-1")
	require.NoError(t, err)
	assert.Equal(t, id, byExt.ID)

	found.Name = "Order alerts v2"
	found.Enabled = false
	require.NoError(t, repo.Update(found))

	updated, err := repo.FindByID(id)
	require.NoError(t, err)
	assert.Equal(t, "Order alerts v2", updated.Name)
	assert.False(t, updated.Enabled)

	all, err := repo.FindAllByUserID(3)
	require.NoError(t, err)
	assert.Len(t, *all, 1)

	require.NoError(t, repo.Delete(id))
	_, err = repo.FindByID(id)
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestExecutionRepositoryTerminalWriteGuard(t *testing.T) {
	db, clock := setupRepoDB(t)
	repo := NewExecutionRepository(db, clock)

	exec := &domain.Execution{
		ExternalID: "run-1",
		WorkflowID: 1,
		Status:     domain.ExecutionStatusRunning,
		StartTime:  clock.Now(),
		Input:      sql.NullString{String: `{"orderId":"o-1"}`, Valid: true},
	}
	id, err := repo.Create(exec)
	require.NoError(t, err)

	end := clock.Now().Add(time.Second)
	require.NoError(t, repo.MarkCompleted(id, end, `{"done":true}`))

	// The run already has its terminal state; a second write must not land.
	err = repo.MarkFailed(id, end, "late failure")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "refusing second terminal write")

	found, err := repo.FindByExternalID("run-1")
	require.NoError(t, err)
	assert.Equal(t, domain.ExecutionStatusCompleted, found.Status)
	assert.True(t, found.EndTime.Valid)
	assert.Equal(t, `{"done":true}`, found.Output.String)
	assert.False(t, found.Error.Valid)
}

func TestExecutionRepositoryFindByWorkflowID(t *testing.T) {
	db, clock := setupRepoDB(t)
	repo := NewExecutionRepository(db, clock)

	for i := 0; i < 3; i++ {
		_, err := repo.Create(&domain.Execution{
			ExternalID: "run-" + string(rune('a'+i)),
			WorkflowID: 9,
			Status:     domain.ExecutionStatusRunning,
			StartTime:  clock.Now(),
		})
		require.NoError(t, err)
	}

	executions, err := repo.FindByWorkflowID(9, 2)
	require.NoError(t, err)
	require.Len(t, *executions, 2)
	// Newest first.
	assert.Greater(t, (*executions)[0].ID, (*executions)[1].ID)
}

func TestNotificationRepository(t *testing.T) {
	db, clock := setupRepoDB(t)
	repo := NewNotificationRepository(db, clock)

	id, err := repo.Save(&domain.Notification{
		UserID:   3,
		Type:     domain.NotificationTypeWorkflowError,
		Message:  `Workflow "Order alerts" failed: Action 1 failed: boom`,
		Metadata: sql.NullString{String: `{"workflowId":1}`, Valid: true},
	})
	require.NoError(t, err)

	notifications, err := repo.FindByUserID(3, 10)
	require.NoError(t, err)
	require.Len(t, *notifications, 1)
	n := (*notifications)[0]
	assert.False(t, n.Read)
	assert.Equal(t, domain.NotificationTypeWorkflowError, n.Type)

	require.NoError(t, repo.MarkRead(id))
	notifications, err = repo.FindByUserID(3, 10)
	require.NoError(t, err)
	assert.True(t, (*notifications)[0].Read)
}
