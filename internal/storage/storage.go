// Package storage defines the Storage interface: the contract any
// database backend must satisfy to hold student records.
//
// The service layer depends only on this interface, so backends
// (internal/storage/sqlite, internal/storage/postgres) can be swapped by
// configuration alone.
package storage

import (
	"context"
	"errors"

	"github.com/aanand-mishra/student-management/internal/types"
)

var (
	// ErrNotFound is returned when no record matches the lookup.
	ErrNotFound = errors.New("storage: student not found")

	// ErrDuplicateEmail is returned when a write would give two records
	// the same email. It is raised by the database's UNIQUE constraint, so
	// it also covers writers that race past an ExistsByEmail check.
	ErrDuplicateEmail = errors.New("storage: email already in use")
)

// Storage is the database contract. Every method takes the request
// context and checks a connection out of the pool for the duration of
// the call only.
type Storage interface {
	// CreateStudent inserts s (its ID is ignored) and returns the stored
	// record with the generated ID.
	CreateStudent(ctx context.Context, s types.Student) (types.Student, error)

	// GetStudentByID returns ErrNotFound if no record has the id.
	GetStudentByID(ctx context.Context, id int64) (types.Student, error)

	// GetStudentByName matches names case-insensitively. When several
	// records share the name, the one with the lowest id wins.
	GetStudentByName(ctx context.Context, name string) (types.Student, error)

	// GetStudents returns every record ordered by id. It returns an empty
	// slice (not nil) when there are none.
	GetStudents(ctx context.Context) ([]types.Student, error)

	// UpdateStudentByID replaces name, age, email and course of the
	// record with the given id and returns the stored result.
	UpdateStudentByID(ctx context.Context, id int64, s types.Student) (types.Student, error)

	// DeleteStudentByID removes a record permanently.
	DeleteStudentByID(ctx context.Context, id int64) error

	// ExistsByEmail reports whether any record has exactly this email.
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	Ping(ctx context.Context) error
	Close() error
}
