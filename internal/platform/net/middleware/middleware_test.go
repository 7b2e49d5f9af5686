package middleware_test

import (
	"bytes"
	"compress/flate"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	perr "sylwalk/internal/platform/errors"
	pnet "sylwalk/internal/platform/net"
	"sylwalk/internal/platform/net/middleware"
)

func run(mw func(http.Handler) http.Handler, h http.HandlerFunc, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	mw(h).ServeHTTP(rec, req)
	return rec
}

func TestAccessLogRecordsStatusAndBytes(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf)

	var seen string
	h := func(w http.ResponseWriter, r *http.Request) {
		seen = pnet.RequestID(r.Context())
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, "walk")
		_, _ = io.WriteString(w, "ed")
	}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/walks", nil)
	req = req.WithContext(pnet.WithRequest(req.Context(), "rid-9"))

	rec := run(middleware.AccessLog(middleware.AccessLogOptions{Log: &log}), h, req)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "walked", rec.Body.String())
	assert.Equal(t, "rid-9", seen)

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "info", line["level"])
	assert.Equal(t, "/api/v1/walks", line["path"])
	assert.Equal(t, float64(201), line["status"])
	assert.Equal(t, float64(6), line["bytes"])
}

func TestAccessLogWarnsWhenSlow(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf)
	h := func(w http.ResponseWriter, _ *http.Request) { time.Sleep(2 * time.Millisecond) }

	run(middleware.AccessLog(middleware.AccessLogOptions{Log: &log, Slow: time.Millisecond}), h,
		httptest.NewRequest(http.MethodGet, "/slow", nil))

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "warn", line["level"])
	assert.Equal(t, float64(200), line["status"])
}

func TestRecoverJSONWritesPanicEnvelope(t *testing.T) {
	h := func(http.ResponseWriter, *http.Request) { panic("sampler exploded") }
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(pnet.WithRequest(req.Context(), "rid-p"))

	rec := run(middleware.RecoverJSON, h, req)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var env pnet.Wire
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.Equal(t, perr.ErrorCodePanic, env.Code)
	assert.Equal(t, "rid-p", env.RequestID)
	assert.Equal(t, "panic recovered", env.Error)
}

func TestRecoverJSONReraisesAbort(t *testing.T) {
	h := func(http.ResponseWriter, *http.Request) { panic(http.ErrAbortHandler) }
	assert.PanicsWithValue(t, http.ErrAbortHandler, func() {
		run(middleware.RecoverJSON, h, httptest.NewRequest(http.MethodGet, "/", nil))
	})
}

func TestCompressGzipsLargeBodies(t *testing.T) {
	h := func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, strings.Repeat(`{"syllable":"ka"}`, 512))
	}
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Encoding", "gzip")

	rec := run(middleware.Compress(flate.BestSpeed), h, req)
	assert.Equal(t, "gzip", rec.Header().Get("Content-Encoding"))
}

func TestCORSPreflightDefaults(t *testing.T) {
	h := func(w http.ResponseWriter, _ *http.Request) {}
	req := httptest.NewRequest(http.MethodOptions, "/api/v1/walks", nil)
	req.Header.Set("Origin", "https://walks.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "Content-Type")

	rec := run(middleware.CORS(middleware.CORSOptions{AllowedOrigins: []string{"https://walks.example"}}), h, req)
	assert.Equal(t, "https://walks.example", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), http.MethodPost)
}

func TestThrottleBacklogRejectsOverflow(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	h := func(w http.ResponseWriter, _ *http.Request) {
		started <- struct{}{}
		<-release
	}
	mw := middleware.ThrottleBacklog(1, 0, 10*time.Millisecond)

	done := make(chan struct{})
	go func() {
		run(mw, h, httptest.NewRequest(http.MethodPost, "/batch", nil))
		close(done)
	}()
	<-started

	rec := run(mw, h, httptest.NewRequest(http.MethodPost, "/batch", nil))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)

	close(release)
	<-done
}

func TestHeartbeatAndStripSlashes(t *testing.T) {
	next := func(w http.ResponseWriter, r *http.Request) { _, _ = io.WriteString(w, r.URL.Path) }

	rec := run(middleware.Heartbeat("/health"), next, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, ".", rec.Body.String())

	rec = run(middleware.StripSlashes(), next, httptest.NewRequest(http.MethodGet, "/walks/", nil))
	assert.Equal(t, "/walks", rec.Body.String())
}
