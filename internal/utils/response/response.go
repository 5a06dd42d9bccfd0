// Package response provides helpers for writing consistent JSON HTTP responses.
//
// Success responses may be any JSON shape (a student, a list, a message).
// Error responses always look like:
//
//	{ "error": "Student with ID 7 not found" }
package response

import (
	"encoding/json"
	"net/http"

	"github.com/aanand-mishra/student-management/internal/validation"
)

// ErrorResponse is the body of every error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// MessageResponse is the body of responses that only confirm an action.
type MessageResponse struct {
	Message string `json:"message"`
}

// WriteJSON writes data as JSON with the given HTTP status code.
//
// Order matters: Header() → WriteHeader() → body writes.
// Once WriteHeader is called (or the first Write), headers are locked.
func WriteJSON(w http.ResponseWriter, status int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(data)
}

// Error wraps a message into the standard error body.
func Error(msg string) ErrorResponse {
	return ErrorResponse{Error: msg}
}

// GeneralError wraps any Go error into the standard error body.
func GeneralError(err error) ErrorResponse {
	return ErrorResponse{Error: err.Error()}
}

// ValidationError joins field violations into a single error body.
//
//	{ "error": "Name is required, Age must be at least 1" }
func ValidationError(violations []validation.FieldViolation) ErrorResponse {
	return ErrorResponse{Error: validation.Message(violations)}
}
