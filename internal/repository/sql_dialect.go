package repository

import (
	"fmt"
	"time"

	"github.com/flowmatic/flowmatic/internal/config"
)

// Placeholder returns the correct bind variable for the given index based on
// DB type. Postgres uses $1, $2... while MySQL and SQLite use ?
func Placeholder(i int) string {
	db := config.GetSystemSettingString(config.DATABASE_TYPE)
	if db == config.DATABASE_TYPE_POSTGRES {
		return fmt.Sprintf("$%d", i)
	}
	return "?"
}

// SupportsReturning reports whether INSERT ... RETURNING id works on the
// configured database.
func SupportsReturning() bool {
	return config.GetSystemSettingString(config.DATABASE_TYPE) == config.DATABASE_TYPE_POSTGRES
}

// formatTimeInDatabase renders a timestamp the way the configured database
// stores it. SQLite keeps millisecond precision, the others microsecond.
func formatTimeInDatabase(t time.Time) string {
	if config.GetSystemSettingString(config.DATABASE_TYPE) == config.DATABASE_TYPE_SQLLITE {
		return t.UTC().Format("2006-01-02 15:04:05.000")
	}
	return t.UTC().Format("2006-01-02 15:04:05.000000")
}
