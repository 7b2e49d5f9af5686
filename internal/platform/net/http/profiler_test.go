package http_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"sylwalk/internal/platform/config"
	phttp "sylwalk/internal/platform/net/http"
)

func serve(r phttp.Router, method, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	r.Mux().ServeHTTP(rec, httptest.NewRequest(method, path, nil))
	return rec
}

func TestMountProfilerEnabled(t *testing.T) {
	r := phttp.NewServer(config.New()).Router()
	phttp.MountProfiler(r, "/debug", true)

	for _, p := range []string{"/debug/pprof/", "/debug/pprof/cmdline"} {
		if rec := serve(r, http.MethodGet, p); rec.Code != http.StatusOK {
			t.Fatalf("%s: got %d", p, rec.Code)
		}
	}
}

func TestMountProfilerDisabled(t *testing.T) {
	r := phttp.NewServer(config.New()).Router()
	phttp.MountProfiler(r, "/debug", false)

	if rec := serve(r, http.MethodGet, "/debug/pprof/"); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 with profiler off, got %d", rec.Code)
	}
}
