package db

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// Connect opens the journal database. The DSN scheme selects the driver:
// postgres://... (or a key=value conninfo string) opens postgres, anything
// else is treated as a sqlite file path or :memory:.
func Connect(ctx context.Context, dsn string) (*gorm.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("database dsn required")
	}

	if isPostgresDSN(dsn) {
		return connectPostgres(ctx, dsn)
	}
	return connectSqlite(ctx, dsn)
}

func isPostgresDSN(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") ||
		strings.HasPrefix(dsn, "postgresql://") ||
		strings.Contains(dsn, "host=")
}
