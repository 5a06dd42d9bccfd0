// Package types holds the shared data structures used across the
// application. Keeping them in one place prevents import cycles:
// handlers, the service, and storage backends can all import types
// without depending on each other.
package types

import "strings"

// Student is a persisted student record.
//
// Email and Course are optional, so they are pointers: a nil pointer is
// stored as SQL NULL and encoded as JSON null.
//
//	json:"..."  the field name on the wire
//	db:"..."    the column name sqlx scans into
type Student struct {
	ID     int64   `json:"id"     db:"id"`
	Name   string  `json:"name"   db:"name"`
	Age    int     `json:"age"    db:"age"`
	Email  *string `json:"email"  db:"email"`
	Course *string `json:"course" db:"course"`
}

// StudentRequest is the candidate record accepted by create and update.
//
// validate:"..." rules are checked by the go-playground/validator package
// (see internal/validation). Age is a pointer so that a missing age can be
// told apart from an explicit zero.
type StudentRequest struct {
	Name   string  `json:"name"   validate:"notblank,min=2,max=100"`
	Age    *int    `json:"age"    validate:"required,min=1,max=150"`
	Email  *string `json:"email"  validate:"omitempty,email,max=100"`
	Course *string `json:"course" validate:"omitempty,max=100"`
}

// Normalize turns blank optional fields into nil so that an empty email
// or course is stored as NULL instead of an empty string.
func (r *StudentRequest) Normalize() {
	r.Email = nilIfBlank(r.Email)
	r.Course = nilIfBlank(r.Course)
}

// Student converts the request into a record with the given id.
func (r StudentRequest) Student(id int64) Student {
	s := Student{
		ID:     id,
		Name:   r.Name,
		Email:  r.Email,
		Course: r.Course,
	}
	if r.Age != nil {
		s.Age = *r.Age
	}
	return s
}

func nilIfBlank(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	return s
}
