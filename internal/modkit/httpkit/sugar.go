package httpkit

import (
	"net/http"

	phttp "sylwalk/internal/platform/net/http"
)

// Get mounts a body-less handler whose result is enveloped
func Get(r Router, path string, h func(*http.Request) (any, error)) {
	r.Get(path, phttp.JSONHandlerNoBody(h))
}

// PostJSON mounts a handler for a JSON body, validated before h runs
func PostJSON[T any](r Router, path string, h func(*http.Request, T) (any, error)) {
	r.Post(path, phttp.JSONHandler(h))
}
