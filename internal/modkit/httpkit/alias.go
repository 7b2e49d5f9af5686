// Package httpkit is the routing surface modules use instead of the platform http package
package httpkit

import (
	"net/http"

	phttp "sylwalk/internal/platform/net/http"
)

type (
	// Router is the platform router seam
	Router = phttp.Router

	// Handler is the platform handler type
	Handler = phttp.Handler
)

// Param returns the named route parameter of r
func Param(r *http.Request, name string) string { return phttp.URLParam(r, name) }
