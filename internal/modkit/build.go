package modkit

import (
	"net/http"

	"sylwalk/internal/modkit/httpkit"
)

// Option configures a module at construction
type Option func(*Built)

// Built is the resolved option set a module constructor reads
type Built struct {
	Name      string
	Prefix    string
	Mw        []func(http.Handler) http.Handler
	Ports     any
	SwaggerOn bool

	// Register attaches extra endpoints after the module's own
	Register func(httpkit.Router)
}

// WithName names the module in logs and panics
func WithName(name string) Option { return func(b *Built) { b.Name = name } }

// WithPrefix mounts the module under prefix
func WithPrefix(prefix string) Option { return func(b *Built) { b.Prefix = prefix } }

// WithMiddlewares appends per module middleware, applied in order
func WithMiddlewares(mw ...func(http.Handler) http.Handler) Option {
	return func(b *Built) { b.Mw = append(b.Mw, mw...) }
}

// WithPorts hands the module ports owned by another module or by main
func WithPorts[T any](p T) Option { return func(b *Built) { b.Ports = p } }

// WithSwagger lets the module contribute to the served OpenAPI document
func WithSwagger(enabled bool) Option { return func(b *Built) { b.SwaggerOn = enabled } }

// WithRegister adds endpoints to the module router
func WithRegister(fn func(httpkit.Router)) Option { return func(b *Built) { b.Register = fn } }

// Build applies opts in order, later options win
func Build(opts ...Option) Built {
	var b Built
	for _, o := range opts {
		o(&b)
	}
	b.Mw = append([]func(http.Handler) http.Handler(nil), b.Mw...)
	return b
}

// Mount routes the module under b.Prefix with b.Mw, then runs own and b.Register
func (b Built) Mount(r httpkit.Router, own func(httpkit.Router)) {
	httpkit.MountUnder(r, b.Prefix, b.Mw, func(sub httpkit.Router) {
		own(sub)
		if b.Register != nil {
			b.Register(sub)
		}
	})
}
