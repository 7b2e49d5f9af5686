package swaggerkit

import (
	_ "embed"
	"encoding/json"
	"net/http"
	"strings"
	"sync"

	"sylwalk/internal/platform/config"
	perr "sylwalk/internal/platform/errors"
)

//go:embed openapi.json
var openapiDoc string

// docReader is a seam so tests can inject invalid JSON
var docReader = func() string { return openapiDoc }

// SpecMutator adjusts the parsed document before it is served
type SpecMutator func(map[string]any)

var (
	mu       sync.RWMutex
	mutators []SpecMutator
)

// Register adds a mutator, run on every request in registration order
func Register(m SpecMutator) {
	if m == nil {
		return
	}
	mu.Lock()
	mutators = append(mutators, m)
	mu.Unlock()
}

// serveDocJSON serves the embedded document with servers, the error envelope
// and default 400/500 responses filled in
func serveDocJSON() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		var spec map[string]any
		if err := json.Unmarshal([]byte(docReader()), &spec); err != nil {
			http.Error(w, "spec parse error", http.StatusInternalServerError)
			return
		}

		ensureServers(spec, "/api/v1")
		if suffix := config.New().Prefix("CORE_API_").MayString("DOCS_TITLE_SUFFIX", ""); suffix != "" {
			info := object(spec, "info")
			if title, ok := info["title"].(string); ok {
				info["title"] = title + " " + suffix
			}
		}
		schemas := object(object(spec, "components"), "schemas")
		if _, ok := schemas["ErrorResponse"]; !ok {
			schemas["ErrorResponse"] = errorSchema
		}
		addDefaultResponses(spec)

		mu.RLock()
		for _, m := range mutators {
			m(spec)
		}
		mu.RUnlock()

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		_ = json.NewEncoder(w).Encode(spec)
	}
}

// object returns m[key] as an object, creating it when absent
func object(m map[string]any, key string) map[string]any {
	if o, ok := m[key].(map[string]any); ok {
		return o
	}
	o := map[string]any{}
	m[key] = o
	return o
}

// ensureServers pins the document to OAS 3.0.3, which the UI renders, and
// adds url as the only server when none is declared
func ensureServers(spec map[string]any, url string) {
	delete(spec, "swagger")
	if v, _ := spec["openapi"].(string); !strings.HasPrefix(v, "3.0") {
		spec["openapi"] = "3.0.3"
	}
	if _, ok := spec["servers"]; !ok {
		spec["servers"] = []any{map[string]any{"url": url}}
	}
}

// errorSchema mirrors the runtime envelope without data
var errorSchema = map[string]any{
	"type":        "object",
	"description": "Error envelope",
	"properties": map[string]any{
		"status_code": map[string]any{"type": "integer", "format": "int32"},
		"status":      map[string]any{"type": "string"},
		"code":        map[string]any{"type": "integer", "format": "int32"},
		"error":       map[string]any{"type": "string"},
		"request_id":  map[string]any{"type": "string"},
	},
	"required": []any{"status_code", "status"},
}

func errorResponse(description string, status int, code perr.ErrorCode, msg string) map[string]any {
	return map[string]any{
		"description": description,
		"content": map[string]any{
			"application/json": map[string]any{
				"schema": map[string]any{"$ref": "#/components/schemas/ErrorResponse"},
				"example": map[string]any{
					"status_code": status,
					"status":      http.StatusText(status),
					"code":        code,
					"error":       msg,
					"request_id":  "579f33bf50b1/abc-000001",
				},
			},
		},
	}
}

// addDefaultResponses gives every operation a 400 and a 500 unless it declares its own
func addDefaultResponses(spec map[string]any) {
	defaults := map[string]map[string]any{
		"400": errorResponse("Bad Request", http.StatusBadRequest, perr.ErrorCodeValidation, "count must be at least 1"),
		"500": errorResponse("Internal Server Error", http.StatusInternalServerError, perr.ErrorCodePanic, "panic recovered"),
	}
	paths, _ := spec["paths"].(map[string]any)
	for _, p := range paths {
		item, _ := p.(map[string]any)
		for _, o := range item {
			op, ok := o.(map[string]any)
			if !ok {
				continue
			}
			resps := object(op, "responses")
			for code, r := range defaults {
				if _, ok := resps[code]; !ok {
					resps[code] = r
				}
			}
		}
	}
}
