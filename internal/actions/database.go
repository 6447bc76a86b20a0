package actions

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/flowmatic/flowmatic/internal/repository"
	"github.com/flowmatic/flowmatic/pkg/flowmatic/domain"
)

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

const databaseQueryRowLimit = 100

// DatabaseHandler runs CRUD against the configured data sink. Table and
// column names are restricted to plain identifiers; values always travel as
// bind parameters.
type DatabaseHandler struct {
	db *sql.DB
}

func NewDatabaseHandler(db *sql.DB) *DatabaseHandler {
	return &DatabaseHandler{db: db}
}

func (h *DatabaseHandler) Kind() string { return "database" }

func (h *DatabaseHandler) Execute(ctx context.Context, config map[string]any, execCtx *domain.ExecutionContext) domain.ActionResult {
	operation := strings.ToLower(stringValue(config, "operation"))
	table := stringValue(config, "table")
	if !identifierPattern.MatchString(table) {
		return domain.ResultError(fmt.Sprintf("database action requires a valid table name, got %q", table))
	}

	switch operation {
	case "insert":
		return h.insert(ctx, table, config)
	case "update":
		return h.update(ctx, table, config)
	case "delete":
		return h.delete(ctx, table, config)
	case "query":
		return h.query(ctx, table, config)
	default:
		return domain.ResultError(fmt.Sprintf("unsupported database operation: %q", operation))
	}
}

// sortedColumns extracts a map config value as (columns, values) with the
// columns validated and in a deterministic order.
func sortedColumns(config map[string]any, key string) ([]string, []any, error) {
	raw, ok := config[key].(map[string]any)
	if !ok || len(raw) == 0 {
		return nil, nil, fmt.Errorf("database action requires a non-empty %s mapping", key)
	}
	cols := make([]string, 0, len(raw))
	for col := range raw {
		if !identifierPattern.MatchString(col) {
			return nil, nil, fmt.Errorf("invalid column name %q", col)
		}
		cols = append(cols, col)
	}
	sort.Strings(cols)
	vals := make([]any, len(cols))
	for i, col := range cols {
		vals[i] = raw[col]
	}
	return cols, vals, nil
}

func (h *DatabaseHandler) insert(ctx context.Context, table string, config map[string]any) domain.ActionResult {
	cols, vals, err := sortedColumns(config, "data")
	if err != nil {
		return domain.ResultError(err.Error())
	}
	pps := make([]string, len(cols))
	for i := range cols {
		pps[i] = repository.Placeholder(i + 1)
	}
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		table, strings.Join(cols, ", "), strings.Join(pps, ", "))

	res, err := h.db.ExecContext(ctx, query, vals...)
	if err != nil {
		return domain.ResultError("database insert failed: " + err.Error())
	}
	affected, _ := res.RowsAffected()
	return domain.ResultOK(map[string]any{"operation": "insert", "rowsAffected": affected})
}

func (h *DatabaseHandler) update(ctx context.Context, table string, config map[string]any) domain.ActionResult {
	setCols, setVals, err := sortedColumns(config, "data")
	if err != nil {
		return domain.ResultError(err.Error())
	}
	whereCols, whereVals, err := sortedColumns(config, "where")
	if err != nil {
		return domain.ResultError(err.Error())
	}

	assignments := make([]string, len(setCols))
	for i, col := range setCols {
		assignments[i] = col + " = " + repository.Placeholder(i+1)
	}
	conditions := make([]string, len(whereCols))
	for i, col := range whereCols {
		conditions[i] = col + " = " + repository.Placeholder(len(setCols)+i+1)
	}
	query := fmt.Sprintf("UPDATE %s SET %s WHERE %s",
		table, strings.Join(assignments, ", "), strings.Join(conditions, " AND "))

	res, err := h.db.ExecContext(ctx, query, append(setVals, whereVals...)...)
	if err != nil {
		return domain.ResultError("database update failed: " + err.Error())
	}
	affected, _ := res.RowsAffected()
	return domain.ResultOK(map[string]any{"operation": "update", "rowsAffected": affected})
}

func (h *DatabaseHandler) delete(ctx context.Context, table string, config map[string]any) domain.ActionResult {
	whereCols, whereVals, err := sortedColumns(config, "where")
	if err != nil {
		return domain.ResultError(err.Error())
	}
	conditions := make([]string, len(whereCols))
	for i, col := range whereCols {
		conditions[i] = col + " = " + repository.Placeholder(i+1)
	}
	query := fmt.Sprintf("DELETE FROM %s WHERE %s", table, strings.Join(conditions, " AND "))

	res, err := h.db.ExecContext(ctx, query, whereVals...)
	if err != nil {
		return domain.ResultError("database delete failed: " + err.Error())
	}
	affected, _ := res.RowsAffected()
	return domain.ResultOK(map[string]any{"operation": "delete", "rowsAffected": affected})
}

func (h *DatabaseHandler) query(ctx context.Context, table string, config map[string]any) domain.ActionResult {
	query := fmt.Sprintf("SELECT * FROM %s", table)
	var args []any
	if _, ok := config["where"]; ok {
		whereCols, whereVals, err := sortedColumns(config, "where")
		if err != nil {
			return domain.ResultError(err.Error())
		}
		conditions := make([]string, len(whereCols))
		for i, col := range whereCols {
			conditions[i] = col + " = " + repository.Placeholder(i+1)
		}
		query += " WHERE " + strings.Join(conditions, " AND ")
		args = whereVals
	}
	query += fmt.Sprintf(" LIMIT %d", databaseQueryRowLimit)

	rows, err := h.db.QueryContext(ctx, query, args...)
	if err != nil {
		return domain.ResultError("database query failed: " + err.Error())
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return domain.ResultError("database query failed: " + err.Error())
	}

	results := []map[string]any{}
	for rows.Next() {
		values := make([]any, len(columns))
		scanTargets := make([]any, len(columns))
		for i := range values {
			scanTargets[i] = &values[i]
		}
		if err := rows.Scan(scanTargets...); err != nil {
			return domain.ResultError("database row scan failed: " + err.Error())
		}
		row := make(map[string]any, len(columns))
		for i, col := range columns {
			if b, ok := values[i].([]byte); ok {
				row[col] = string(b)
			} else {
				row[col] = values[i]
			}
		}
		results = append(results, row)
	}
	if err := rows.Err(); err != nil {
		return domain.ResultError("database query failed: " + err.Error())
	}
	return domain.ResultOK(map[string]any{"operation": "query", "rows": results, "count": len(results)})
}
