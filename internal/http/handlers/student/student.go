// Package student contains the HTTP handlers for the Student resource.
//
// HANDLER PATTERN USED HERE: THE CLOSURE / FACTORY PATTERN
// ─────────────────────────────────────────────────────────
// The router expects handlers with the signature
//
//	func(http.ResponseWriter, *http.Request)
//
// which has no room for dependencies. Each exported function here is a
// factory: it receives the Service once, at route registration, and
// returns the handler that runs on every request.
//
//	router.HandleFunc("POST /student/post", student.New(svc))
package student

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/aanand-mishra/student-management/internal/service"
	"github.com/aanand-mishra/student-management/internal/types"
	"github.com/aanand-mishra/student-management/internal/utils/response"
	"github.com/aanand-mishra/student-management/internal/validation"
)

// Service is what the handlers need from the domain layer.
// *service.Service satisfies it.
type Service interface {
	Create(ctx context.Context, req types.StudentRequest) (types.Student, error)
	GetByName(ctx context.Context, name string) (types.Student, error)
	GetByID(ctx context.Context, id int64) (types.Student, error)
	List(ctx context.Context) ([]types.Student, error)
	Update(ctx context.Context, id int64, req types.StudentRequest) (types.Student, error)
	Delete(ctx context.Context, id int64) error
}

// DeletedMessage is returned by a successful delete.
const DeletedMessage = "Student deleted successfully"

// HealthStatus is the static body returned by the health check.
type HealthStatus struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}

// ─────────────────────────────────────────────────────────────────────────────
// New handles POST /student/post
// Creates a new student from the JSON request body.
//
// Request body (JSON):
//
//	{ "name": "Alice Smith", "age": 20, "email": "alice@example.com", "course": "CS" }
//
// Success response (200 OK): the created student, including its id.
//
// Error responses:
//
//	400 Bad Request  empty body, malformed JSON, failed validation,
//	                or email already in use
//	500 Internal     storage failure
//
// ─────────────────────────────────────────────────────────────────────────────
func New(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("creating a student")

		req, ok := decodeStudent(w, r)
		if !ok {
			return
		}

		created, err := svc.Create(r.Context(), req)
		if err != nil {
			writeServiceError(w, err, "error creating student")
			return
		}

		slog.Info("student created", slog.Int64("id", created.ID))
		response.WriteJSON(w, http.StatusOK, created)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// GetByName handles GET /student/get/{name}
// Name matching ignores case; if several students share the name, the
// one created first is returned.
//
// Error responses:
//
//	404 Not Found    no student has that name
//
// ─────────────────────────────────────────────────────────────────────────────
func GetByName(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := r.PathValue("name")
		slog.Info("getting a student by name", slog.String("name", name))

		student, err := svc.GetByName(r.Context(), name)
		if err != nil {
			writeServiceError(w, err, "error getting student by name")
			return
		}

		response.WriteJSON(w, http.StatusOK, student)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// GetByID handles GET /student/{id}
//
// Error responses:
//
//	400 Bad Request  id is not a valid integer
//	404 Not Found    no student has that id
//
// ─────────────────────────────────────────────────────────────────────────────
func GetByID(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		slog.Info("getting a student", slog.Int64("id", id))

		student, err := svc.GetByID(r.Context(), id)
		if err != nil {
			writeServiceError(w, err, "error getting student")
			return
		}

		response.WriteJSON(w, http.StatusOK, student)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// GetList handles GET /student/all
// Returns a JSON array of all students; [] (not null) when there are none.
// ─────────────────────────────────────────────────────────────────────────────
func GetList(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("getting all students")

		students, err := svc.List(r.Context())
		if err != nil {
			writeServiceError(w, err, "error getting students")
			return
		}

		response.WriteJSON(w, http.StatusOK, students)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Update handles PUT /student/update/{id}
// Replaces ALL fields of an existing student: optional fields left out of
// the body are cleared.
//
// Error responses:
//
//	400 Bad Request  invalid id, empty body, failed validation,
//	                or email used by another student
//	404 Not Found    no student has that id
//
// ─────────────────────────────────────────────────────────────────────────────
func Update(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		slog.Info("updating a student", slog.Int64("id", id))

		req, ok := decodeStudent(w, r)
		if !ok {
			return
		}

		updated, err := svc.Update(r.Context(), id, req)
		if err != nil {
			writeServiceError(w, err, "error updating student")
			return
		}

		slog.Info("student updated", slog.Int64("id", id))
		response.WriteJSON(w, http.StatusOK, updated)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Delete handles DELETE /student/delete/{id}
//
// Success response (200 OK):
//
//	{ "message": "Student deleted successfully" }
//
// ─────────────────────────────────────────────────────────────────────────────
func Delete(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		slog.Info("deleting a student", slog.Int64("id", id))

		if err := svc.Delete(r.Context(), id); err != nil {
			writeServiceError(w, err, "error deleting student")
			return
		}

		slog.Info("student deleted", slog.Int64("id", id))
		response.WriteJSON(w, http.StatusOK, response.MessageResponse{Message: DeletedMessage})
	}
}

// Health handles GET /student/health. It never touches storage, so it
// reports UP for as long as the process can serve HTTP.
func Health() http.HandlerFunc {
	body := HealthStatus{Status: "UP", Service: "Student Management Backend"}
	return func(w http.ResponseWriter, r *http.Request) {
		response.WriteJSON(w, http.StatusOK, body)
	}
}

// decodeStudent reads and validates the request body. On failure it has
// already written a 400 response and returns false.
func decodeStudent(w http.ResponseWriter, r *http.Request) (types.StudentRequest, bool) {
	var req types.StudentRequest

	dec := json.NewDecoder(r.Body)
	err := dec.Decode(&req)
	if errors.Is(err, io.EOF) {
		response.WriteJSON(w, http.StatusBadRequest,
			response.Error("request body is empty"))
		return req, false
	}
	if err != nil {
		response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
		return req, false
	}

	// Only whitespace may follow the object.
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		response.WriteJSON(w, http.StatusBadRequest,
			response.Error("request body must contain a single JSON object"))
		return req, false
	}

	req.Normalize()

	if violations := validation.ValidateStudent(req); len(violations) > 0 {
		response.WriteJSON(w, http.StatusBadRequest, response.ValidationError(violations))
		return req, false
	}

	return req, true
}

// pathID parses the {id} path segment. On failure it has already written
// a 400 response and returns false.
func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		response.WriteJSON(w, http.StatusBadRequest,
			response.Error("invalid id: must be an integer"))
		return 0, false
	}
	return id, true
}

// writeServiceError maps a service error onto an HTTP status. Domain
// errors carry a client-safe message; anything else is logged and
// reported as a generic 500.
func writeServiceError(w http.ResponseWriter, err error, logMsg string) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		response.WriteJSON(w, http.StatusNotFound, response.GeneralError(err))
	case errors.Is(err, service.ErrDuplicateEmail):
		response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
	default:
		slog.Error(logMsg, slog.String("error", err.Error()))
		response.WriteJSON(w, http.StatusInternalServerError,
			response.Error("internal server error"))
	}
}
