package tests

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oneconfig/oneconfig/internal/httpapi"
	"github.com/oneconfig/oneconfig/internal/logging"
	"github.com/oneconfig/oneconfig/pkg/adapters/filestore"
	"github.com/oneconfig/oneconfig/pkg/persistence/middleware"
	"github.com/oneconfig/oneconfig/pkg/ports"
	"github.com/oneconfig/oneconfig/pkg/registry"
)

// startService wires the full serving stack over an encrypted file
// store: the same composition the serve command builds, minus the
// process plumbing. It returns the test server and the directory the
// store writes to, so tests can inspect what actually lands on disk.
func startService(t *testing.T) (*httptest.Server, string) {
	t.Helper()

	dir := t.TempDir()
	key := bytes.Repeat([]byte{0x55}, 32)

	var store ports.SchemaStore = filestore.New(dir)
	store = middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: key})(store)
	store = middleware.NewLoggingMiddleware(logging.NewNop())(store)

	reg := registry.New(store)
	ts := httptest.NewServer(httpapi.NewServer(reg, logging.NewNop()).Handler())
	t.Cleanup(ts.Close)
	return ts, dir
}

// do sends one request and returns the status code and body.
func do(t *testing.T, method, url string, body []byte) (int, []byte) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, out
}

// postValidate sends a validation request and decodes the response.
func postValidate(t *testing.T, baseURL string, req map[string]any) (int, map[string]any) {
	t.Helper()

	body, err := json.Marshal(req)
	require.NoError(t, err)

	status, out := do(t, http.MethodPost, baseURL+"/v1/validate", body)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(out, &decoded))
	return status, decoded
}
