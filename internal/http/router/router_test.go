package router

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aanand-mishra/student-management/internal/config"
	"github.com/aanand-mishra/student-management/internal/service"
	"github.com/aanand-mishra/student-management/internal/storage/sqlite"
	"github.com/aanand-mishra/student-management/internal/types"
)

func testConfig() *config.Config {
	return &config.Config{
		Env:     "dev",
		Storage: config.Storage{DSN: ":memory:"},
		CORS:    config.CORS{AllowedOrigins: []string{"*"}},
		Metrics: config.Metrics{Enabled: true, Path: "/metrics"},
	}
}

// startTestServer runs the full router over an in-memory SQLite store.
func startTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	cfg := testConfig()
	store, err := sqlite.New(context.Background(), cfg.Storage)
	require.NoError(t, err)

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	srv := httptest.NewServer(New(cfg, service.New(store), log))

	t.Cleanup(func() {
		srv.Close()
		store.Close()
	})
	return srv
}

func do(t *testing.T, srv *httptest.Server, method, path, body string) (int, string) {
	t.Helper()

	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, srv.URL+path, r)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(b)
}

const aliceJSON = `{"name":"Alice Smith","age":20,"email":"alice@example.com","course":"CS"}`

func TestStudentLifecycle(t *testing.T) {
	srv := startTestServer(t)

	status, body := do(t, srv, http.MethodPost, "/student/post", aliceJSON)
	require.Equal(t, http.StatusOK, status, body)
	assert.JSONEq(t, `{"id":1,"name":"Alice Smith","age":20,"email":"alice@example.com","course":"CS"}`, body)

	status, body = do(t, srv, http.MethodGet, "/student/1", "")
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"id":1,"name":"Alice Smith","age":20,"email":"alice@example.com","course":"CS"}`, body)

	for _, name := range []string{"Alice%20Smith", "alice%20smith", "ALICE%20SMITH"} {
		status, _ = do(t, srv, http.MethodGet, "/student/get/"+name, "")
		assert.Equal(t, http.StatusOK, status, name)
	}

	status, body = do(t, srv, http.MethodPut, "/student/update/1",
		`{"name":"Alice S.","age":21,"email":"alice@example.com","course":"CS"}`)
	require.Equal(t, http.StatusOK, status, body)
	assert.JSONEq(t, `{"id":1,"name":"Alice S.","age":21,"email":"alice@example.com","course":"CS"}`, body)

	status, body = do(t, srv, http.MethodDelete, "/student/delete/1", "")
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"message":"Student deleted successfully"}`, body)

	status, body = do(t, srv, http.MethodGet, "/student/1", "")
	assert.Equal(t, http.StatusNotFound, status)
	assert.JSONEq(t, `{"error":"Student with ID 1 not found"}`, body)

	status, body = do(t, srv, http.MethodGet, "/student/get/Alice%20S.", "")
	assert.Equal(t, http.StatusNotFound, status)
	assert.JSONEq(t, `{"error":"Student with name 'Alice S.' not found"}`, body)
}

func TestDuplicateEmailRejected(t *testing.T) {
	srv := startTestServer(t)

	status, _ := do(t, srv, http.MethodPost, "/student/post", aliceJSON)
	require.Equal(t, http.StatusOK, status)

	status, body := do(t, srv, http.MethodPost, "/student/post",
		`{"name":"Other Alice","age":30,"email":"alice@example.com"}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.JSONEq(t, `{"error":"Student with email alice@example.com already exists"}`, body)

	status, _ = do(t, srv, http.MethodPost, "/student/post", `{"name":"Bob","age":30,"email":"bob@example.com"}`)
	require.Equal(t, http.StatusOK, status)

	status, body = do(t, srv, http.MethodPut, "/student/update/2",
		`{"name":"Bob","age":31,"email":"alice@example.com"}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.JSONEq(t, `{"error":"Student with email alice@example.com already exists"}`, body)

	_, body = do(t, srv, http.MethodGet, "/student/2", "")
	assert.JSONEq(t, `{"id":2,"name":"Bob","age":30,"email":"bob@example.com","course":null}`, body)
}

func TestListAll(t *testing.T) {
	srv := startTestServer(t)

	status, body := do(t, srv, http.MethodGet, "/student/all", "")
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `[]`, body)

	const n = 3
	for i := 0; i < n; i++ {
		status, _ := do(t, srv, http.MethodPost, "/student/post",
			fmt.Sprintf(`{"name":"Student %d","age":%d,"email":"s%d@example.com"}`, i, 18+i, i))
		require.Equal(t, http.StatusOK, status)
	}

	status, body = do(t, srv, http.MethodGet, "/student/all", "")
	require.Equal(t, http.StatusOK, status)

	var students []types.Student
	require.NoError(t, json.Unmarshal([]byte(body), &students))
	require.Len(t, students, n)
	for i, st := range students {
		assert.Equal(t, fmt.Sprintf("Student %d", i), st.Name)
		assert.Equal(t, 18+i, st.Age)
	}
}

func TestUpdateAndDeleteMissing(t *testing.T) {
	srv := startTestServer(t)

	status, body := do(t, srv, http.MethodPut, "/student/update/9", `{"name":"Nobody","age":40}`)
	assert.Equal(t, http.StatusNotFound, status)
	assert.JSONEq(t, `{"error":"Student with ID 9 not found"}`, body)

	status, _ = do(t, srv, http.MethodDelete, "/student/delete/9", "")
	assert.Equal(t, http.StatusNotFound, status)
}

func TestValidationShortCircuits(t *testing.T) {
	srv := startTestServer(t)

	status, body := do(t, srv, http.MethodPost, "/student/post", `{"age":0,"email":"broken"}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.JSONEq(t, `{"error":"Name is required, Age must be at least 1, Email should be valid"}`, body)

	_, body = do(t, srv, http.MethodGet, "/student/all", "")
	assert.JSONEq(t, `[]`, body)
}

func TestHealthAndMetrics(t *testing.T) {
	srv := startTestServer(t)

	status, body := do(t, srv, http.MethodGet, "/student/health", "")
	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"status":"UP","service":"Student Management Backend"}`, body)

	status, body = do(t, srv, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "api_request_duration_seconds")
}

func TestHealthWithoutStorage(t *testing.T) {
	cfg := testConfig()
	store, err := sqlite.New(context.Background(), cfg.Storage)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	srv := httptest.NewServer(New(cfg, service.New(store), log))
	defer srv.Close()

	status, _ := do(t, srv, http.MethodGet, "/student/health", "")
	assert.Equal(t, http.StatusOK, status)

	status, body := do(t, srv, http.MethodGet, "/student/all", "")
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.JSONEq(t, `{"error":"internal server error"}`, body)
}

func TestCORSHeaders(t *testing.T) {
	srv := startTestServer(t)

	req, err := http.NewRequest(http.MethodOptions, srv.URL+"/student/post", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://localhost:8501")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestUnknownRoutesAnswerJSON(t *testing.T) {
	srv := startTestServer(t)

	status, body := do(t, srv, http.MethodGet, "/student/get/", "")
	assert.Equal(t, http.StatusNotFound, status)
	assert.JSONEq(t, `{"error":"not found"}`, body)

	status, body = do(t, srv, http.MethodGet, "/nowhere", "")
	assert.Equal(t, http.StatusNotFound, status)
	assert.JSONEq(t, `{"error":"not found"}`, body)

	req, err := http.NewRequest(http.MethodPatch, srv.URL+"/student/1", strings.NewReader(`{}`))
	require.NoError(t, err)
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Allow"), http.MethodGet)
	assert.JSONEq(t, `{"error":"method not allowed"}`, string(b))
}
