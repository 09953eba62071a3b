package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripjournal/tripjournal/internal/cli/guard"
)

// setupEnv points the shell at backend with file storage in a temp dir
func setupEnv(t *testing.T, backend http.Handler) string {
	t.Helper()

	srv := httptest.NewServer(backend)
	t.Cleanup(srv.Close)

	dir := t.TempDir()
	t.Setenv("TRIPJOURNAL_API_URL", srv.URL)
	t.Setenv("TRIPJOURNAL_STORAGE", "file")
	t.Setenv("TRIPJOURNAL_STATE_DIR", dir)
	t.Setenv("TRIPJOURNAL_GUARD_NOTICE_DELAY", "0s")
	t.Setenv("TRIPJOURNAL_GUARD_REDIRECT_DELAY", "0s")
	t.Setenv("TRIPJOURNAL_USERNAME", "")
	t.Setenv("TRIPJOURNAL_PASSWORD", "")
	return dir
}

func run(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func backend(t *testing.T) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var req map[string]string
		_ = json.NewDecoder(r.Body).Decode(&req)
		w.Header().Set("Content-Type", "application/json")
		if req["password"] != "secret1" {
			w.WriteHeader(http.StatusUnauthorized)
			io.WriteString(w, `{"timestamp":"2024-01-01T00:00:00","status":401,"error":"Unauthorized","detail":"Invalid username or password","path":"/api/auth/login"}`)
			return
		}
		io.WriteString(w, `{"success":true,"message":"Login successful","timestamp":"2024-01-01T00:00:00",
			"data":{"token":"jwt-alice","tokenType":"Bearer","user":{"id":1,"username":"alice","email":"alice@example.com"}}}`)
	})
	mux.HandleFunc("GET /api/trips", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.Header.Get("Authorization") != "Bearer jwt-alice" {
			w.WriteHeader(http.StatusUnauthorized)
			io.WriteString(w, `{"status":401,"detail":"Authentication required"}`)
			return
		}
		io.WriteString(w, `{"success":true,"message":"","data":{"content":[{"id":1,"title":"Jeju","startDate":"2024-05-01","status":"PLANNING"}],"totalPages":1,"totalElements":1,"number":0,"size":10,"first":true,"last":true}}`)
	})
	return mux
}

func TestLoginStatusLogout(t *testing.T) {
	setupEnv(t, backend(t))

	out, err := run(t, NewStatusCmd())
	require.NoError(t, err)
	assert.Contains(t, out, "Not signed in")

	out, err = run(t, NewLoginCmd(), "--username", "alice", "--password", "secret1")
	require.NoError(t, err)
	assert.Contains(t, out, "✓ Login successful")
	assert.Contains(t, out, "Welcome back, alice", "login follows the redirect to the home page")

	out, err = run(t, NewStatusCmd())
	require.NoError(t, err)
	assert.Contains(t, out, "Signed in as alice")
	assert.Contains(t, out, "alice@example.com")

	out, err = run(t, NewOpenCmd(), "/trips")
	require.NoError(t, err)
	assert.Contains(t, out, "Jeju")

	out, err = run(t, NewLogoutCmd())
	require.NoError(t, err)
	assert.Contains(t, out, "✓ Logged out")
	assert.Contains(t, out, "Welcome to Trip Journal")

	out, err = run(t, NewStatusCmd())
	require.NoError(t, err)
	assert.Contains(t, out, "Not signed in")
}

func TestLogin_WrongPassword(t *testing.T) {
	setupEnv(t, backend(t))

	out, err := run(t, NewLoginCmd(), "--username", "alice", "--password", "nope")

	require.Error(t, err)
	assert.Contains(t, out, "✗ Invalid username or password")
}

func TestLogin_EnvCredentials(t *testing.T) {
	setupEnv(t, backend(t))
	t.Setenv("TRIPJOURNAL_USERNAME", "alice")
	t.Setenv("TRIPJOURNAL_PASSWORD", "secret1")

	_, err := run(t, NewLoginCmd())
	require.NoError(t, err)

	out, err := run(t, NewStatusCmd())
	require.NoError(t, err)
	assert.Contains(t, out, "Signed in as alice")
}

func TestOpen_ProtectedPageRedirectsToLogin(t *testing.T) {
	setupEnv(t, backend(t))

	out, err := run(t, NewOpenCmd(), "/dashboard")

	// The login page cannot prompt without a terminal; the failure is logged, not returned
	require.NoError(t, err)
	assert.Contains(t, out, guard.NoticeMessage)
	assert.NotContains(t, out, "Dashboard for")
}

func TestOpen_NoFollow(t *testing.T) {
	setupEnv(t, backend(t))

	out, err := run(t, NewOpenCmd(), "dashboard", "--no-follow")

	require.NoError(t, err)
	assert.Contains(t, out, "→ /login")
}

func TestOpen_InvalidAssignment(t *testing.T) {
	setupEnv(t, backend(t))

	_, err := run(t, NewOpenCmd(), "/trips/new", "--set", "title")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected key=value")
}

func TestOpen_UnknownPage(t *testing.T) {
	setupEnv(t, backend(t))

	out, err := run(t, NewOpenCmd(), "/nowhere")

	require.NoError(t, err)
	assert.Contains(t, out, "Page not found: /nowhere")
}

func TestRoutes(t *testing.T) {
	out, err := run(t, NewRoutesCmd())

	require.NoError(t, err)
	assert.Contains(t, out, "/travel-logs/detail")
	assert.Contains(t, out, "travel-log-detail")
	assert.Contains(t, out, "LOGIN REQUIRED")
}
