// Package module mounts the meta endpoints
package module

import (
	"time"

	"sylwalk/internal/modkit"
	"sylwalk/internal/modkit/httpkit"
	str "sylwalk/internal/platform/strings"

	metahttp "sylwalk/internal/services/api/meta/http"
	walkerdom "sylwalk/internal/services/walker/domain"
)

// Ports are the cross module ports meta reports on
type Ports struct {
	Walker walkerdom.ServicePort
}

// Module implements the modkit.Module interface
type Module struct {
	built     modkit.Built
	deps      modkit.Deps
	walker    walkerdom.ServicePort
	startedAt time.Time
}

// New constructs the meta module, pass Ports with modkit.WithPorts to report on the engine
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{modkit.WithName("meta"), modkit.WithPrefix("/meta")}, opts...)...)
	b.Prefix = str.MustPrefix(b.Prefix)
	ports, _ := b.Ports.(Ports)
	return &Module{built: b, deps: deps, walker: ports.Walker, startedAt: time.Now()}
}

// MountRoutes implements the modkit.Module interface
func (m *Module) MountRoutes(r httpkit.Router) {
	m.built.Mount(r, func(rr httpkit.Router) {
		metahttp.Register(rr, metahttp.Deps{
			ServiceName: "sylwalk-api",
			StartedAt:   m.startedAt,
			PG:          m.deps.PG,
			Lite:        m.deps.Lite,
			Walker:      m.walker,
		})
	})
}

// Name implements the modkit.Module interface
func (m *Module) Name() string { return str.MustString(m.built.Name, "meta") }

// Ports implements the modkit.Module interface, meta exports none
func (m *Module) Ports() any { return nil }
