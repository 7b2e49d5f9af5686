package middleware

import (
	"net/http"
	"runtime/debug"

	perr "sylwalk/internal/platform/errors"
	"sylwalk/internal/platform/logger"
	pnet "sylwalk/internal/platform/net"
	phttp "sylwalk/internal/platform/net/http"
)

// RecoverJSON turns a panic into the 500 envelope and logs the stack
// http.ErrAbortHandler is re-raised so the server can drop the connection
func RecoverJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			v := recover()
			if v == nil {
				return
			}
			if v == http.ErrAbortHandler {
				panic(v)
			}
			reqID := pnet.RequestID(r.Context())
			logger.C(r.Context()).Error().
				Interface("panic", v).
				Bytes("stack", debug.Stack()).
				Msg("panic recovered")

			status, env := pnet.Fail(perr.PanicErrf("panic recovered"), reqID)
			phttp.JSON(w, status, env)
		}()
		next.ServeHTTP(w, r)
	})
}
