// Package sqlstore implements storage.Storage on top of sqlx.
//
// Queries are written with ? placeholders and rebound to the dialect of
// the underlying driver, so the SQLite and PostgreSQL backends share this
// code and only differ in schema and constraint-error detection.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/aanand-mishra/student-management/internal/storage"
	"github.com/aanand-mishra/student-management/internal/types"
)

// Store is the dialect-independent part of a SQL backend.
type Store struct {
	DB *sqlx.DB

	// IsUniqueViolation reports whether err is the database rejecting a
	// write because of the UNIQUE constraint on students.email.
	IsUniqueViolation func(err error) bool
}

const studentColumns = "id, name, age, email, course"

// Migrate runs schema statements in order. Statements must be idempotent.
func (s *Store) Migrate(ctx context.Context, statements []string) error {
	for _, stmt := range statements {
		if _, err := s.DB.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("Migrate: %w", err)
		}
	}
	return nil
}

// CreateStudent inserts a row and returns it with the generated id.
func (s *Store) CreateStudent(ctx context.Context, student types.Student) (types.Student, error) {
	query := s.DB.Rebind(
		"INSERT INTO students (name, age, email, course) VALUES (?, ?, ?, ?) RETURNING id",
	)

	var id int64
	err := s.DB.QueryRowxContext(ctx, query,
		student.Name, student.Age, student.Email, student.Course,
	).Scan(&id)
	if err != nil {
		return types.Student{}, fmt.Errorf("CreateStudent: %w", s.translate(err))
	}

	student.ID = id
	return student, nil
}

// GetStudentByID fetches exactly one row matched by primary key.
func (s *Store) GetStudentByID(ctx context.Context, id int64) (types.Student, error) {
	query := s.DB.Rebind("SELECT " + studentColumns + " FROM students WHERE id = ?")

	var student types.Student
	if err := s.DB.GetContext(ctx, &student, query, id); err != nil {
		return types.Student{}, fmt.Errorf("GetStudentByID: %w", s.translate(err))
	}
	return student, nil
}

// GetStudentByName returns the lowest-id row whose name matches
// case-insensitively.
func (s *Store) GetStudentByName(ctx context.Context, name string) (types.Student, error) {
	query := s.DB.Rebind(
		"SELECT " + studentColumns + " FROM students WHERE lower(name) = lower(?) ORDER BY id LIMIT 1",
	)

	var student types.Student
	if err := s.DB.GetContext(ctx, &student, query, name); err != nil {
		return types.Student{}, fmt.Errorf("GetStudentByName: %w", s.translate(err))
	}
	return student, nil
}

// GetStudents returns all rows ordered by id.
func (s *Store) GetStudents(ctx context.Context) ([]types.Student, error) {
	students := make([]types.Student, 0)
	if err := s.DB.SelectContext(ctx, &students, "SELECT "+studentColumns+" FROM students ORDER BY id"); err != nil {
		return nil, fmt.Errorf("GetStudents: %w", err)
	}
	if students == nil {
		students = []types.Student{}
	}
	return students, nil
}

// UpdateStudentByID overwrites the four mutable columns and re-reads the
// row so the caller sees exactly what is stored.
func (s *Store) UpdateStudentByID(ctx context.Context, id int64, student types.Student) (types.Student, error) {
	query := s.DB.Rebind(
		"UPDATE students SET name = ?, age = ?, email = ?, course = ? WHERE id = ?",
	)

	res, err := s.DB.ExecContext(ctx, query,
		student.Name, student.Age, student.Email, student.Course, id,
	)
	if err != nil {
		return types.Student{}, fmt.Errorf("UpdateStudentByID: %w", s.translate(err))
	}
	if err := requireAffected(res); err != nil {
		return types.Student{}, fmt.Errorf("UpdateStudentByID: %w", err)
	}

	return s.GetStudentByID(ctx, id)
}

// DeleteStudentByID removes a row by primary key.
func (s *Store) DeleteStudentByID(ctx context.Context, id int64) error {
	res, err := s.DB.ExecContext(ctx, s.DB.Rebind("DELETE FROM students WHERE id = ?"), id)
	if err != nil {
		return fmt.Errorf("DeleteStudentByID: %w", err)
	}
	if err := requireAffected(res); err != nil {
		return fmt.Errorf("DeleteStudentByID: %w", err)
	}
	return nil
}

// ExistsByEmail reports whether a row has exactly this email.
func (s *Store) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	query := s.DB.Rebind("SELECT EXISTS (SELECT 1 FROM students WHERE email = ?)")

	var exists bool
	if err := s.DB.QueryRowxContext(ctx, query, email).Scan(&exists); err != nil {
		return false, fmt.Errorf("ExistsByEmail: %w", err)
	}
	return exists, nil
}

// Ping checks that a connection can be established.
func (s *Store) Ping(ctx context.Context) error {
	return s.DB.PingContext(ctx)
}

// Close releases every pooled connection.
func (s *Store) Close() error {
	if s.DB != nil {
		return s.DB.Close()
	}
	return nil
}

// translate maps driver errors onto the storage sentinels.
func (s *Store) translate(err error) error {
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return storage.ErrNotFound
	case s.IsUniqueViolation != nil && s.IsUniqueViolation(err):
		return fmt.Errorf("%w: %v", storage.ErrDuplicateEmail, err)
	default:
		return err
	}
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return storage.ErrNotFound
	}
	return nil
}
