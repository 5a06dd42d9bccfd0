package response

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aanand-mishra/student-management/internal/validation"
)

func TestWriteJSON(t *testing.T) {
	rec := httptest.NewRecorder()

	require.NoError(t, WriteJSON(rec, http.StatusNotFound, GeneralError(errors.New("Student with ID 3 not found"))))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"error":"Student with ID 3 not found"}`, rec.Body.String())
}

func TestValidationError(t *testing.T) {
	body := ValidationError([]validation.FieldViolation{
		{Field: "name", Message: "Name is required"},
		{Field: "age", Message: "Age must be at least 1"},
	})
	assert.Equal(t, "Name is required, Age must be at least 1", body.Error)
}
