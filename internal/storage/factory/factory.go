// Package factory opens the storage backend selected by the configured DSN.
package factory

import (
	"context"
	"strings"

	"github.com/aanand-mishra/student-management/internal/config"
	"github.com/aanand-mishra/student-management/internal/storage"
	"github.com/aanand-mishra/student-management/internal/storage/postgres"
	"github.com/aanand-mishra/student-management/internal/storage/sqlite"
)

// Backend names reported by Kind.
const (
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"
)

// Kind returns the backend a DSN selects: PostgreSQL URLs go to
// postgres, everything else is treated as a SQLite path.
func Kind(dsn string) string {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		return BackendPostgres
	}
	return BackendSQLite
}

// New opens the backend for cfg.DSN.
func New(ctx context.Context, cfg config.Storage) (storage.Storage, error) {
	switch Kind(cfg.DSN) {
	case BackendPostgres:
		return postgres.New(ctx, cfg)
	default:
		return sqlite.New(ctx, cfg)
	}
}
