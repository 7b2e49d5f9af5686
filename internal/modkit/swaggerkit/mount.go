// Package swaggerkit serves the OpenAPI document and Swagger UI
package swaggerkit

import (
	"net/http"

	phttp "sylwalk/internal/platform/net/http"

	httpSwagger "github.com/swaggo/http-swagger"
)

const docsPath = "/api/docs"

// Mount serves the UI under /api/docs/ and the document at /api/docs/doc.json
func Mount(r phttp.Router, enabled bool) {
	if !enabled {
		return
	}
	r.Get(docsPath, func(w http.ResponseWriter, req *http.Request) {
		http.Redirect(w, req, docsPath+"/", http.StatusPermanentRedirect)
	})
	r.Get(docsPath+"/doc.json", serveDocJSON())
	r.Handle(docsPath+"/*", httpSwagger.Handler(
		httpSwagger.URL(docsPath+"/doc.json"),
		httpSwagger.DeepLinking(true),
		httpSwagger.DocExpansion("list"),
	))
}
