package actions

import (
	"context"
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowmatic/flowmatic/internal/config"
)

func setupHandlerDB(t *testing.T) *sql.DB {
	t.Helper()
	t.Setenv(config.DATABASE_TYPE, config.DATABASE_TYPE_SQLLITE)
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`CREATE TABLE orders (id INTEGER PRIMARY KEY, customer TEXT, total REAL)`)
	require.NoError(t, err)
	return db
}

func TestDatabaseHandler_CRUD(t *testing.T) {
	db := setupHandlerDB(t)
	h := NewDatabaseHandler(db)
	ctx := context.Background()

	result := h.Execute(ctx, map[string]any{
		"operation": "insert",
		"table":     "orders",
		"data":      map[string]any{"customer": "ada", "total": 19.5},
	}, testExecCtx())
	require.True(t, result.Success, result.Error)
	assert.Equal(t, int64(1), result.Data.(map[string]any)["rowsAffected"])

	result = h.Execute(ctx, map[string]any{
		"operation": "update",
		"table":     "orders",
		"data":      map[string]any{"total": 25.0},
		"where":     map[string]any{"customer": "ada"},
	}, testExecCtx())
	require.True(t, result.Success, result.Error)
	assert.Equal(t, int64(1), result.Data.(map[string]any)["rowsAffected"])

	result = h.Execute(ctx, map[string]any{
		"operation": "query",
		"table":     "orders",
		"where":     map[string]any{"customer": "ada"},
	}, testExecCtx())
	require.True(t, result.Success, result.Error)
	data := result.Data.(map[string]any)
	require.Equal(t, 1, data["count"])
	rows := data["rows"].([]map[string]any)
	assert.Equal(t, "ada", rows[0]["customer"])
	assert.Equal(t, 25.0, rows[0]["total"])

	result = h.Execute(ctx, map[string]any{
		"operation": "delete",
		"table":     "orders",
		"where":     map[string]any{"customer": "ada"},
	}, testExecCtx())
	require.True(t, result.Success, result.Error)

	result = h.Execute(ctx, map[string]any{"operation": "query", "table": "orders"}, testExecCtx())
	require.True(t, result.Success)
	assert.Equal(t, 0, result.Data.(map[string]any)["count"])
}

func TestDatabaseHandler_RejectsBadIdentifiers(t *testing.T) {
	db := setupHandlerDB(t)
	h := NewDatabaseHandler(db)
	ctx := context.Background()

	result := h.Execute(ctx, map[string]any{
		"operation": "insert",
		"table":     "orders; DROP TABLE orders",
		"data":      map[string]any{"customer": "x"},
	}, testExecCtx())
	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "valid table name")

	result = h.Execute(ctx, map[string]any{
		"operation": "insert",
		"table":     "orders",
		"data":      map[string]any{"customer\"": "x"},
	}, testExecCtx())
	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "invalid column name")
}

func TestDatabaseHandler_UnsupportedOperation(t *testing.T) {
	db := setupHandlerDB(t)
	h := NewDatabaseHandler(db)

	result := h.Execute(context.Background(), map[string]any{
		"operation": "truncate",
		"table":     "orders",
	}, testExecCtx())
	assert.False(t, result.Success)
	assert.Equal(t, `unsupported database operation: "truncate"`, result.Error)
}
