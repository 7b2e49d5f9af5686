package swaggerkit

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serve(t *testing.T) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	rec := httptest.NewRecorder()
	serveDocJSON()(rec, httptest.NewRequest(http.MethodGet, "/api/docs/doc.json", nil))
	if rec.Code != http.StatusOK {
		return rec, nil
	}
	var spec map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &spec))
	return rec, spec
}

func TestServeDocJSON_EnrichesEmbeddedDoc(t *testing.T) {
	t.Setenv("CORE_API_DOCS_TITLE_SUFFIX", "(dev)")
	rec, spec := serve(t)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))

	assert.Equal(t, "3.0.3", spec["openapi"])
	assert.Equal(t, "Sylwalk API (dev)", spec["info"].(map[string]any)["title"])
	servers := spec["servers"].([]any)
	assert.Equal(t, "/api/v1", servers[0].(map[string]any)["url"])

	op := spec["paths"].(map[string]any)["/walks"].(map[string]any)["post"].(map[string]any)
	resps := op["responses"].(map[string]any)
	for _, code := range []string{"200", "400", "404", "422", "500"} {
		assert.Contains(t, resps, code)
	}
	schemas := spec["components"].(map[string]any)["schemas"].(map[string]any)
	assert.Contains(t, schemas, "ErrorResponse")
	assert.Contains(t, schemas, "WalkResult")
}

func TestServeDocJSON_RunsMutators(t *testing.T) {
	mu.Lock()
	saved := mutators
	mu.Unlock()
	t.Cleanup(func() { mutators = saved })

	Register(nil)
	Register(func(spec map[string]any) { spec["x-mutated"] = true })
	_, spec := serve(t)
	assert.Equal(t, true, spec["x-mutated"])
}

func TestServeDocJSON_BadDoc(t *testing.T) {
	saved := docReader
	t.Cleanup(func() { docReader = saved })

	docReader = func() string { return "{" }
	rec, _ := serve(t)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestEnsureServers_Downconverts(t *testing.T) {
	spec := map[string]any{"swagger": "2.0"}
	ensureServers(spec, "/api/v1")
	assert.Equal(t, "3.0.3", spec["openapi"])
	assert.NotContains(t, spec, "swagger")

	spec = map[string]any{"openapi": "3.1.0", "servers": []any{}}
	ensureServers(spec, "/x")
	assert.Equal(t, "3.0.3", spec["openapi"])
	assert.Empty(t, spec["servers"])

	spec = map[string]any{"openapi": "3.0.1"}
	ensureServers(spec, "/x")
	assert.Equal(t, "3.0.1", spec["openapi"])
}

func TestDefaultResponsesKeepDeclaredOnes(t *testing.T) {
	spec := map[string]any{"paths": map[string]any{
		"/walks": map[string]any{
			"post":       map[string]any{"responses": map[string]any{"400": "mine"}},
			"parameters": []any{},
		},
	}}
	addDefaultResponses(spec)
	resps := spec["paths"].(map[string]any)["/walks"].(map[string]any)["post"].(map[string]any)["responses"].(map[string]any)
	assert.Equal(t, "mine", resps["400"])
	assert.Contains(t, resps, "500")
}
