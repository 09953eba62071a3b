package testhelpers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/tripjournal/tripjournal/internal/cli"
	"github.com/tripjournal/tripjournal/internal/config"
	"github.com/tripjournal/tripjournal/internal/server"
)

// Backend is a reference API server on a random port with the CLI pointed at it
type Backend struct {
	Server   *server.Server
	APIURL   string
	StateDir string
	JWTToken string // Set by tests that call the API directly
}

// StartBackend starts a fresh backend with its own database and upload directory
// and configures the CLI environment for it
func StartBackend(t *testing.T) *Backend {
	t.Helper()

	dir := t.TempDir()
	srv, err := server.New(&config.ServerConfig{
		DatabaseURL: filepath.Join(dir, "journal.db"),
		JWTSecret:   "e2e-secret",
		UploadDir:   filepath.Join(dir, "uploads"),
		CORSOrigins: []string{"*"},
	}, zerolog.Nop(), "e2e")
	require.NoError(t, err, "Failed to create server")

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(func() {
		ts.Close()
		if sqlDB, err := srv.GetDB().DB(); err == nil {
			sqlDB.Close()
		}
	})

	b := &Backend{
		Server:   srv,
		APIURL:   ts.URL,
		StateDir: filepath.Join(dir, "state"),
	}

	t.Setenv("TRIPJOURNAL_API_URL", b.APIURL)
	t.Setenv("TRIPJOURNAL_STORAGE", config.StorageFile)
	t.Setenv("TRIPJOURNAL_STATE_DIR", b.StateDir)
	t.Setenv("TRIPJOURNAL_GUARD_NOTICE_DELAY", "0s")
	t.Setenv("TRIPJOURNAL_GUARD_REDIRECT_DELAY", "0s")
	t.Setenv("TRIPJOURNAL_USERNAME", "")
	t.Setenv("TRIPJOURNAL_PASSWORD", "")
	t.Setenv("LOG_LEVEL", "disabled")

	return b
}

// Run executes the CLI with args and returns what it printed
func (b *Backend) Run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	cmd := cli.NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	err := cmd.ExecuteContext(ctx)
	t.Logf("tripjournal %v\n%s", args, out.String())
	return out.String(), err
}

// APICall makes an HTTP request to the API and returns the decoded envelope
func (b *Backend) APICall(t *testing.T, method, path string, body interface{}) map[string]interface{} {
	t.Helper()

	var reqBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		require.NoError(t, err, "Failed to marshal request body")
		reqBody = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequest(method, b.APIURL+path, reqBody)
	require.NoError(t, err, "Failed to create request")

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	// Add JWT token if available
	if b.JWTToken != "" {
		req.Header.Set("Authorization", "Bearer "+b.JWTToken)
	}

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Do(req)
	require.NoError(t, err, "Request failed: %s %s", method, path)
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "Failed to read response body")

	require.True(t, resp.StatusCode >= 200 && resp.StatusCode < 300,
		"API call failed: %s %s\nStatus: %d\nBody: %s",
		method, path, resp.StatusCode, string(respBody))

	var result map[string]interface{}
	err = json.Unmarshal(respBody, &result)
	require.NoError(t, err, "Failed to unmarshal response: %s", string(respBody))

	return result
}
