// Package router wires the student handlers, middleware and metrics
// endpoint into a single http.Handler.
package router

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aanand-mishra/student-management/internal/config"
	"github.com/aanand-mishra/student-management/internal/http/handlers/student"
	"github.com/aanand-mishra/student-management/internal/http/middleware"
	"github.com/aanand-mishra/student-management/internal/utils/response"
)

// New builds the application handler.
//
// Route table:
//
//	POST   /student/post          → create a student
//	GET    /student/get/{name}    → get a student by name (case-insensitive)
//	GET    /student/all           → list all students
//	PUT    /student/update/{id}   → replace a student
//	DELETE /student/delete/{id}   → delete a student
//	GET    /student/health        → static health check
//	GET    /student/{id}          → get a student by id
//
// /student/all and /student/health are more specific than /student/{id},
// so ServeMux routes them first.
func New(cfg *config.Config, svc student.Service, log *slog.Logger) http.Handler {
	mux := http.NewServeMux()

	handle := func(pattern string, h http.HandlerFunc) {
		mux.Handle(pattern, middleware.Instrument(pattern, h))
	}

	handle("POST /student/post", student.New(svc))
	handle("GET /student/get/{name}", student.GetByName(svc))
	handle("GET /student/all", student.GetList(svc))
	handle("PUT /student/update/{id}", student.Update(svc))
	handle("DELETE /student/delete/{id}", student.Delete(svc))
	handle("GET /student/health", student.Health())
	handle("GET /student/{id}", student.GetByID(svc))

	if cfg.Metrics.Enabled {
		mux.Handle("GET "+cfg.Metrics.Path, promhttp.Handler())
	}

	return middleware.Chain(jsonFallback(mux),
		middleware.RequestID,
		middleware.Logger(log),
		middleware.Recoverer(log),
		middleware.CORS(cfg.CORS.AllowedOrigins),
	)
}

// jsonFallback answers requests no route matches (404, or 405 when only the
// method is wrong) with the usual {"error": ...} body instead of
// ServeMux's plain text.
func jsonFallback(mux *http.ServeMux) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h, pattern := mux.Handler(r); pattern == "" {
			h.ServeHTTP(&jsonErrorWriter{ResponseWriter: w}, r)
			return
		}
		mux.ServeHTTP(w, r)
	})
}

// jsonErrorWriter replaces the plain-text body written by http.Error,
// keeping the status code and headers such as Allow.
type jsonErrorWriter struct {
	http.ResponseWriter
	wroteHeader bool
}

func (w *jsonErrorWriter) WriteHeader(code int) {
	if w.wroteHeader {
		return
	}
	w.wroteHeader = true
	w.Header().Del("X-Content-Type-Options")
	response.WriteJSON(w.ResponseWriter, code, response.Error(strings.ToLower(http.StatusText(code))))
}

func (w *jsonErrorWriter) Write(b []byte) (int, error) {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	return len(b), nil
}

// NewServer returns an *http.Server for handler using the configured
// address and timeouts.
func NewServer(cfg config.HTTPServer, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:    cfg.Addr,
		Handler: handler,

		// Timeouts stop slow clients from holding connections open.
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}
}
