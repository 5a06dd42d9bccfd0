// Package sqlite provides the SQLite-backed implementation of
// storage.Storage.
//
// SQLite stores everything in a single file on disk: no network, no
// separate server process, nothing to install beyond the driver. It is the
// default backend.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/mattn/go-sqlite3"

	"github.com/aanand-mishra/student-management/internal/config"
	"github.com/aanand-mishra/student-management/internal/storage/sqlstore"
)

// driverName is go-sqlite3 with lower() replaced by a Unicode-aware
// version. The built-in one only folds ASCII, so "ÉMILE" would never
// match "émile".
const driverName = "sqlite3_students"

func init() {
	sql.Register(driverName, &sqlite3.SQLiteDriver{
		ConnectHook: func(conn *sqlite3.SQLiteConn) error {
			return conn.RegisterFunc("lower", strings.ToLower, true)
		},
	})
	sqlx.BindDriver(driverName, sqlx.QUESTION)
}

// schema is idempotent and safe to run on every startup.
//
// The UNIQUE constraint on email is what guarantees uniqueness; SQLite
// allows any number of NULL emails. The expression index serves
// case-insensitive name lookups.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS students (
		id     INTEGER PRIMARY KEY AUTOINCREMENT,
		name   VARCHAR(100) NOT NULL,
		age    INTEGER      NOT NULL,
		email  VARCHAR(100) UNIQUE,
		course VARCHAR(100)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_students_name_lower ON students (lower(name))`,
}

// SQLite is the concrete SQLite implementation of storage.Storage.
type SQLite struct {
	sqlstore.Store
}

// New opens the SQLite database at cfg.DSN, creates the students table if
// needed, and returns a ready-to-use *SQLite.
func New(ctx context.Context, cfg config.Storage) (*SQLite, error) {
	db, err := sqlx.Open(driverName, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("sqlite.New: open db: %w", err)
	}

	// SQLite allows a single writer at a time. One connection serializes
	// writes without SQLITE_BUSY errors and keeps ":memory:" databases
	// alive, since each new connection would otherwise get a fresh one.
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(0)

	s := &SQLite{Store: sqlstore.Store{
		DB:                db,
		IsUniqueViolation: isUniqueViolation,
	}}

	if err := s.Migrate(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite.New: %w", err)
	}

	return s, nil
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	return errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
}
