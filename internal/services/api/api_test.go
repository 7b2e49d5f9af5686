package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"sylwalk/internal/modkit"
	"sylwalk/internal/platform/config"
	phttp "sylwalk/internal/platform/net/http"
	walkermod "sylwalk/internal/services/walker/module"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const corpusJSON = `[
	{"syllable": "ka", "frequency": 187, "features": [false,false,false,true,false,false,false,true,false,true,false,false]},
	{"syllable": "ki", "frequency": 92, "features": [false,false,false,true,false,false,false,false,false,true,false,false]},
	{"syllable": "pai", "frequency": 14, "features": [false,false,false,true,false,false,false,false,true,true,false,false]}
]`

func mountAPI(t *testing.T, swagger bool) http.Handler {
	t.Helper()
	path := filepath.Join(t.TempDir(), "syllables.json")
	require.NoError(t, os.WriteFile(path, []byte(corpusJSON), 0o600))

	o := walkermod.FromConfig(config.New())
	o.Path = path
	o.MaxDistance = 2
	svc, err := walkermod.Open(context.Background(), modkit.Deps{}, o)
	require.NoError(t, err)

	mux := chi.NewRouter()
	Mount(phttp.AdaptChi(mux), Options{Config: config.New(), Walker: svc, EnableSwagger: swagger})
	return mux
}

func get(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	h.ServeHTTP(rec, req)
	return rec
}

func TestMountServesModulesUnderV1(t *testing.T) {
	h := mountAPI(t, false)

	assert.Equal(t, http.StatusOK, get(h, http.MethodGet, "/health", "").Code)

	rec := get(h, http.MethodGet, "/api/v1/meta/engine", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var engine struct {
		Data struct {
			Loaded    bool     `json:"loaded"`
			Syllables int      `json:"syllables"`
			Profiles  []string `json:"profiles"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &engine))
	assert.True(t, engine.Data.Loaded)
	assert.Equal(t, 3, engine.Data.Syllables)
	assert.Contains(t, engine.Data.Profiles, "dialect")

	rec = get(h, http.MethodPost, "/api/v1/walks", `{"start":"ka","seed":42,"profile":"clerical"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var walk struct {
		RequestID string `json:"request_id"`
		Data      struct {
			Start     string `json:"start"`
			Completed bool   `json:"completed"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &walk))
	assert.NotEmpty(t, walk.RequestID)
	assert.Equal(t, "ka", walk.Data.Start)

	assert.Equal(t, http.StatusNotFound, get(h, http.MethodGet, "/api/docs/doc.json", "").Code)
}

func TestMountServesSwaggerWithProfileEnum(t *testing.T) {
	h := mountAPI(t, true)

	rec := get(h, http.MethodGet, "/api/docs/doc.json", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"goblin"`)
}

func TestStackOptions(t *testing.T) {
	t.Setenv("CORE_API_CORS_ORIGINS", "https://a.example, ,https://b.example")
	t.Setenv("CORE_API_SLOW_MS", "0")
	o := stackOptions(config.New())
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, o.CORSOrigins)
	assert.Zero(t, o.SlowRequest)
}
