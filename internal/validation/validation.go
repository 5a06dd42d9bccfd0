// Package validation checks candidate student records before they reach
// the service layer.
//
// Rules live as validate:"..." tags on types.StudentRequest and are run by
// go-playground/validator. Each failing field is reported once, as a
// FieldViolation carrying a human-readable message.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/aanand-mishra/student-management/internal/types"
)

// FieldViolation describes one field that failed validation.
type FieldViolation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// validate is shared: validator.Validate caches struct metadata and is
// safe for concurrent use.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	// Report fields by their JSON name ("email") rather than the Go
	// field name ("Email").
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// notblank rejects strings that are empty or contain only whitespace.
	if err := v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	}); err != nil {
		panic(fmt.Sprintf("validation: register notblank: %v", err))
	}

	return v
}

// messages maps "field.tag" to the message returned to the client.
var messages = map[string]string{
	"name.notblank": "Name is required",
	"name.min":      "Name must be between 2 and 100 characters",
	"name.max":      "Name must be between 2 and 100 characters",
	"age.required":  "Age is required",
	"age.min":       "Age must be at least 1",
	"age.max":       "Age must be less than 150",
	"email.email":   "Email should be valid",
	"email.max":     "Email must be less than 100 characters",
	"course.max":    "Course name must be less than 100 characters",
}

// ValidateStudent returns every violation found in req, or nil if req is
// valid.
func ValidateStudent(req types.StudentRequest) []FieldViolation {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return []FieldViolation{{Message: err.Error()}}
	}

	violations := make([]FieldViolation, 0, len(errs))
	for _, e := range errs {
		violations = append(violations, FieldViolation{
			Field:   e.Field(),
			Message: message(e),
		})
	}
	return violations
}

func message(e validator.FieldError) string {
	if msg, ok := messages[e.Field()+"."+e.Tag()]; ok {
		return msg
	}
	switch e.Tag() {
	case "required", "notblank":
		return fmt.Sprintf("field %s is required", e.Field())
	default:
		return fmt.Sprintf("field %s is invalid", e.Field())
	}
}

// Message joins violations into the single line used in error responses.
func Message(violations []FieldViolation) string {
	msgs := make([]string, 0, len(violations))
	for _, v := range violations {
		msgs = append(msgs, v.Message)
	}
	return strings.Join(msgs, ", ")
}
