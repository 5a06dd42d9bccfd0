// Package service holds the student business rules: email uniqueness and
// existence checks before update and delete. It sits between the HTTP
// handlers and storage, translating requests into stored records.
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/aanand-mishra/student-management/internal/metrics"
	"github.com/aanand-mishra/student-management/internal/storage"
	"github.com/aanand-mishra/student-management/internal/types"
)

var (
	// ErrNotFound means no student matched the id or name.
	ErrNotFound = errors.New("student not found")
	// ErrDuplicateEmail means another student already uses the email.
	ErrDuplicateEmail = errors.New("email already exists")
)

// Error is a domain failure. Kind is ErrNotFound or ErrDuplicateEmail, so
// callers branch with errors.Is; Message is safe to show to clients.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Kind }

func notFoundByID(id int64) error {
	return &Error{Kind: ErrNotFound, Message: fmt.Sprintf("Student with ID %d not found", id)}
}

func notFoundByName(name string) error {
	return &Error{Kind: ErrNotFound, Message: fmt.Sprintf("Student with name '%s' not found", name)}
}

func duplicateEmail(email string) error {
	return &Error{Kind: ErrDuplicateEmail, Message: fmt.Sprintf("Student with email %s already exists", email)}
}

// Service implements the student operations over an injected storage.
type Service struct {
	storage storage.Storage
}

// New returns a Service backed by s.
func New(s storage.Storage) *Service {
	return &Service{storage: s}
}

// Create stores a new student. req must already be validated.
func (s *Service) Create(ctx context.Context, req types.StudentRequest) (st types.Student, err error) {
	defer func() { observe("create", err) }()

	if req.Email != nil {
		exists, err := s.storage.ExistsByEmail(ctx, *req.Email)
		if err != nil {
			return types.Student{}, err
		}
		if exists {
			return types.Student{}, duplicateEmail(*req.Email)
		}
	}

	created, err := s.storage.CreateStudent(ctx, req.Student(0))
	if errors.Is(err, storage.ErrDuplicateEmail) {
		// Lost a race with a concurrent writer after the check above.
		return types.Student{}, duplicateEmail(*req.Email)
	}
	if err != nil {
		return types.Student{}, err
	}
	return created, nil
}

// GetByName looks a student up by case-insensitive name.
func (s *Service) GetByName(ctx context.Context, name string) (st types.Student, err error) {
	defer func() { observe("get_by_name", err) }()

	st, err = s.storage.GetStudentByName(ctx, name)
	if errors.Is(err, storage.ErrNotFound) {
		return types.Student{}, notFoundByName(name)
	}
	return st, err
}

func (s *Service) GetByID(ctx context.Context, id int64) (st types.Student, err error) {
	defer func() { observe("get_by_id", err) }()

	st, err = s.storage.GetStudentByID(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return types.Student{}, notFoundByID(id)
	}
	return st, err
}

// List returns every student in storage order.
func (s *Service) List(ctx context.Context) (students []types.Student, err error) {
	defer func() { observe("list", err) }()

	return s.storage.GetStudents(ctx)
}

// Update replaces all four mutable fields of student id with req. Fields
// omitted from req become null.
func (s *Service) Update(ctx context.Context, id int64, req types.StudentRequest) (st types.Student, err error) {
	defer func() { observe("update", err) }()

	current, err := s.storage.GetStudentByID(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return types.Student{}, notFoundByID(id)
	}
	if err != nil {
		return types.Student{}, err
	}

	if req.Email != nil && !sameEmail(req.Email, current.Email) {
		exists, err := s.storage.ExistsByEmail(ctx, *req.Email)
		if err != nil {
			return types.Student{}, err
		}
		if exists {
			return types.Student{}, duplicateEmail(*req.Email)
		}
	}

	updated, err := s.storage.UpdateStudentByID(ctx, id, req.Student(id))
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return types.Student{}, notFoundByID(id)
	case errors.Is(err, storage.ErrDuplicateEmail):
		return types.Student{}, duplicateEmail(*req.Email)
	case err != nil:
		return types.Student{}, err
	}
	return updated, nil
}

// Delete removes student id permanently.
func (s *Service) Delete(ctx context.Context, id int64) (err error) {
	defer func() { observe("delete", err) }()

	err = s.storage.DeleteStudentByID(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return notFoundByID(id)
	}
	return err
}

func sameEmail(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func observe(operation string, err error) {
	result := "ok"
	switch {
	case err == nil:
	case errors.Is(err, ErrNotFound):
		result = "not_found"
	case errors.Is(err, ErrDuplicateEmail):
		result = "duplicate_email"
	default:
		result = "error"
	}
	metrics.StudentOperationsTotal.WithLabelValues(operation, result).Inc()
}
