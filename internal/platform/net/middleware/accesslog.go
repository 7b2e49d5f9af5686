package middleware

import (
	"net/http"
	"time"

	"sylwalk/internal/platform/logger"
	pnet "sylwalk/internal/platform/net"
)

// AccessLogOptions tunes AccessLog
type AccessLogOptions struct {
	// Slow logs requests at or above it at warn, zero disables
	Slow time.Duration
	// Log replaces the request scoped logger
	Log *logger.Logger
}

type recorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (rw *recorder) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *recorder) Write(b []byte) (int, error) {
	n, err := rw.ResponseWriter.Write(b)
	rw.bytes += n
	return n, err
}

// AccessLog puts the request id on the logging context for handlers
// and logs one line per request once it is served
func AccessLog(opt AccessLogOptions) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := logger.WithRequest(r.Context(), pnet.RequestID(r.Context()))
			rw := &recorder{ResponseWriter: w, status: http.StatusOK}
			start := time.Now()

			next.ServeHTTP(rw, r.WithContext(ctx))

			elapsed := time.Since(start)
			log := opt.Log
			if log == nil {
				log = logger.C(ctx)
			}
			evt := log.Info()
			if opt.Slow > 0 && elapsed >= opt.Slow {
				evt = log.Warn()
			}
			evt.Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", rw.status).
				Int("bytes", rw.bytes).
				Dur("elapsed", elapsed).
				Msg("request")
		})
	}
}
