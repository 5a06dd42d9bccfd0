// Package postgres provides the PostgreSQL-backed implementation of
// storage.Storage, using pgx through its database/sql driver.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" driver
	"github.com/jmoiron/sqlx"

	"github.com/aanand-mishra/student-management/internal/config"
	"github.com/aanand-mishra/student-management/internal/storage/sqlstore"
)

// emailConstraint is the name PostgreSQL gives the column-level UNIQUE
// constraint on students.email.
const emailConstraint = "students_email_key"

const uniqueViolation = "23505"

var schema = []string{
	`CREATE TABLE IF NOT EXISTS students (
		id     BIGSERIAL    PRIMARY KEY,
		name   VARCHAR(100) NOT NULL,
		age    INTEGER      NOT NULL,
		email  VARCHAR(100) UNIQUE,
		course VARCHAR(100)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_students_name_lower ON students (lower(name))`,
}

// Postgres is the concrete PostgreSQL implementation of storage.Storage.
type Postgres struct {
	sqlstore.Store
}

// New connects to the database at cfg.DSN, sizes the connection pool and
// creates the students table if needed.
func New(ctx context.Context, cfg config.Storage) (*Postgres, error) {
	db, err := sqlx.Open("pgx", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("postgres.New: open db: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("postgres.New: failed to establish database connection: %w", err)
	}

	s := &Postgres{Store: sqlstore.Store{
		DB:                db,
		IsUniqueViolation: isUniqueViolation,
	}}

	if err := s.Migrate(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("postgres.New: %w", err)
	}

	return s, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation && pgErr.ConstraintName == emailConstraint
}
