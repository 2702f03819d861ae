package tests

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fleetSchema = `name: !string
replicas: !integer
  min: 1
image: !string
  default: nginx:stable
`

// TestServiceLifecycle drives one schema through the whole HTTP
// surface: store, list, fetch, validate against it, export, delete.
// The backing store sits behind the encryption middleware, so the test
// also checks what actually reaches the disk.
func TestServiceLifecycle(t *testing.T) {
	ts, dir := startService(t)

	// 1. Store a schema
	status, _ := do(t, http.MethodPut, ts.URL+"/v1/schemas/fleet", []byte(fleetSchema))
	require.Equal(t, http.StatusNoContent, status)

	// 2. On disk it is a sealed envelope, not schema source
	raw, err := os.ReadFile(filepath.Join(dir, "fleet.yaml"))
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "replicas")
	assert.Contains(t, string(raw), "#oneconfig:aes256gcm")

	// 3. The API still round-trips plaintext
	status, body := do(t, http.MethodGet, ts.URL+"/v1/schemas/fleet", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, fleetSchema, string(body))

	status, body = do(t, http.MethodGet, ts.URL+"/v1/schemas", nil)
	require.Equal(t, http.StatusOK, status)
	var listing map[string][]string
	require.NoError(t, json.Unmarshal(body, &listing))
	assert.Equal(t, []string{"fleet"}, listing["schemas"])

	// 4. Validate a good document: normalized output carries the default
	status, res := postValidate(t, ts.URL, map[string]any{
		"schema":   "fleet",
		"document": "name: web\nreplicas: 3\n",
	})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, res["valid"])
	normalized, ok := res["normalized"].(map[string]any)
	require.True(t, ok, "normalized missing: %v", res)
	assert.Equal(t, "nginx:stable", normalized["image"])

	// 5. Validate a bad document: violations come back, not an error status
	status, res = postValidate(t, ts.URL, map[string]any{
		"schema":   "fleet",
		"document": "name: web\nreplicas: 0\n",
	})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, false, res["valid"])
	violations, ok := res["violations"].([]any)
	require.True(t, ok, "violations missing: %v", res)
	require.Len(t, violations, 1)
	first := violations[0].(map[string]any)
	assert.Equal(t, "replicas", first["path"])
	assert.Equal(t, "constraint_failed", first["kind"])

	// 6. Export is a compilable JSON Schema
	status, body = do(t, http.MethodGet, ts.URL+"/v1/schemas/fleet/export", nil)
	require.Equal(t, http.StatusOK, status)
	_, err = jsonschema.CompileString("fleet.json", string(body))
	assert.NoError(t, err)

	// 7. Delete, then the schema is gone for every endpoint
	status, _ = do(t, http.MethodDelete, ts.URL+"/v1/schemas/fleet", nil)
	require.Equal(t, http.StatusNoContent, status)

	status, _ = do(t, http.MethodGet, ts.URL+"/v1/schemas/fleet", nil)
	assert.Equal(t, http.StatusNotFound, status)

	status, res = postValidate(t, ts.URL, map[string]any{
		"schema":   "fleet",
		"document": "name: web\nreplicas: 3\n",
	})
	assert.Equal(t, http.StatusNotFound, status)
	assert.Contains(t, res["error"], "not found")
}

// TestService_InlineSchema validates against a schema carried in the
// request itself, with reference expansion turned on.
func TestService_InlineSchema(t *testing.T) {
	ts, _ := startService(t)

	status, res := postValidate(t, ts.URL, map[string]any{
		"schema_source": "region: !string\nbucket: !string\n  minLength: 10\n",
		"document":      "region: eu-west-1\nbucket: !ref \"logs-{region}\"\n",
		"interpolate":   true,
	})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, res["valid"])

	normalized, ok := res["normalized"].(map[string]any)
	require.True(t, ok, "normalized missing: %v", res)
	assert.Equal(t, "logs-eu-west-1", normalized["bucket"])
}

// TestService_RejectsBrokenSchema covers the registry guard: source
// that does not compile never reaches the store.
func TestService_RejectsBrokenSchema(t *testing.T) {
	ts, dir := startService(t)

	status, body := do(t, http.MethodPut, ts.URL+"/v1/schemas/broken", []byte("port: !quantum\n"))
	require.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, string(body), "error")

	_, err := os.Stat(filepath.Join(dir, "broken.yaml"))
	assert.True(t, os.IsNotExist(err), "rejected schema must not be persisted")
}

// TestService_Metrics checks the counters move when requests flow.
func TestService_Metrics(t *testing.T) {
	ts, _ := startService(t)

	status, _ := postValidate(t, ts.URL, map[string]any{
		"schema_source": "name: !string\n",
		"document":      "name: web\n",
	})
	require.Equal(t, http.StatusOK, status)

	status, body := do(t, http.MethodGet, ts.URL+"/metrics", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(body), `oneconfig_validations_total{outcome="valid"} 1`)
}
