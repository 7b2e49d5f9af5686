package modkit

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"sylwalk/internal/modkit/httpkit"
	phttp "sylwalk/internal/platform/net/http"

	"github.com/go-chi/chi/v5"
)

func TestBuildDefaults(t *testing.T) {
	b := Build()
	if b.Name != "" || b.Prefix != "" || b.Ports != nil || b.SwaggerOn || b.Register != nil || len(b.Mw) != 0 {
		t.Fatalf("zero options should build a zero value, got %+v", b)
	}
}

func TestBuildLaterOptionsWin(t *testing.T) {
	type ports struct{ n int }
	b := Build(WithName("walker"), WithPrefix("/walks"), WithName("walks"), WithPorts(ports{n: 2}), WithSwagger(true))
	if b.Name != "walks" || b.Prefix != "/walks" || !b.SwaggerOn {
		t.Fatalf("unexpected build %+v", b)
	}
	if p, ok := b.Ports.(ports); !ok || p.n != 2 {
		t.Fatalf("ports lost their concrete type: %#v", b.Ports)
	}
}

func header(name string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Add("X-Order", name)
			next.ServeHTTP(w, r)
		})
	}
}

func TestMountAppliesMiddlewareAndRegister(t *testing.T) {
	b := Build(
		WithPrefix("/walks"),
		WithMiddlewares(header("a")),
		WithMiddlewares(header("b")),
		WithRegister(func(r httpkit.Router) {
			r.Get("/extra", func(w http.ResponseWriter, _ *http.Request) { _, _ = io.WriteString(w, "extra") })
		}),
	)
	mux := chi.NewRouter()
	b.Mount(phttp.AdaptChi(mux), func(r httpkit.Router) {
		r.Get("/stats", func(w http.ResponseWriter, _ *http.Request) { _, _ = io.WriteString(w, "stats") })
	})

	for path, body := range map[string]string{"/walks/stats": "stats", "/walks/extra": "extra"} {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Body.String() != body {
			t.Fatalf("%s: body %q", path, rec.Body.String())
		}
		if got := rec.Header().Values("X-Order"); len(got) != 2 || got[0] != "a" || got[1] != "b" {
			t.Fatalf("%s: middleware order %v", path, got)
		}
	}
}
