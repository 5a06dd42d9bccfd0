package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aanand-mishra/student-management/internal/types"
)

func ptr[T any](v T) *T { return &v }

func validRequest() types.StudentRequest {
	return types.StudentRequest{
		Name:   "Alice Smith",
		Age:    ptr(20),
		Email:  ptr("alice@example.com"),
		Course: ptr("CS"),
	}
}

func TestValidateStudentAcceptsValid(t *testing.T) {
	assert.Nil(t, ValidateStudent(validRequest()))

	req := validRequest()
	req.Email = nil
	req.Course = nil
	assert.Nil(t, ValidateStudent(req), "email and course are optional")

	req = validRequest()
	req.Age = ptr(150)
	assert.Nil(t, ValidateStudent(req), "150 is inclusive")
}

func TestValidateStudentViolations(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(r *types.StudentRequest)
		field   string
		message string
	}{
		{"missing name", func(r *types.StudentRequest) { r.Name = "" }, "name", "Name is required"},
		{"blank name", func(r *types.StudentRequest) { r.Name = "   " }, "name", "Name is required"},
		{"short name", func(r *types.StudentRequest) { r.Name = "A" }, "name", "Name must be between 2 and 100 characters"},
		{"long name", func(r *types.StudentRequest) { r.Name = strings.Repeat("a", 101) }, "name", "Name must be between 2 and 100 characters"},
		{"missing age", func(r *types.StudentRequest) { r.Age = nil }, "age", "Age is required"},
		{"age zero", func(r *types.StudentRequest) { r.Age = ptr(0) }, "age", "Age must be at least 1"},
		{"age too high", func(r *types.StudentRequest) { r.Age = ptr(151) }, "age", "Age must be less than 150"},
		{"bad email", func(r *types.StudentRequest) { r.Email = ptr("not-an-email") }, "email", "Email should be valid"},
		{"long course", func(r *types.StudentRequest) { r.Course = ptr(strings.Repeat("c", 101)) }, "course", "Course name must be less than 100 characters"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(&req)

			got := ValidateStudent(req)
			require.Len(t, got, 1)
			assert.Equal(t, tt.field, got[0].Field)
			assert.Equal(t, tt.message, got[0].Message)
		})
	}
}

func TestValidateStudentReportsEveryField(t *testing.T) {
	got := ValidateStudent(types.StudentRequest{Email: ptr("nope")})
	require.Len(t, got, 3)
	assert.Equal(t, "Name is required, Age is required, Email should be valid", Message(got))
}
