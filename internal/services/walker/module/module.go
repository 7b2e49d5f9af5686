// Package module wires the walker into the API using modkit
package module

import (
	"context"

	"sylwalk/internal/modkit"
	"sylwalk/internal/modkit/httpkit"
	"sylwalk/internal/modkit/swaggerkit"
	"sylwalk/internal/platform/net/middleware"
	str "sylwalk/internal/platform/strings"
	walkerhttp "sylwalk/internal/services/walker/http"
	walkersvc "sylwalk/internal/services/walker/service"
)

// Module implements the modkit.Module interface
type Module struct {
	built modkit.Built
	svc   walkersvc.Service
	port  adaptWalkerPort
}

// New constructs a walker module
// pass a loaded service with modkit.WithPorts, otherwise one is opened from
// deps.Cfg and a failed load panics. Walk routes run behind a throttle sized
// by CORE_WALK_MAX_INFLIGHT and CORE_WALK_BACKLOG.
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	o := FromConfig(deps.Cfg)
	defaults := []modkit.Option{modkit.WithName("walker"), modkit.WithPrefix("/walks")}
	if o.MaxInflight > 0 {
		defaults = append(defaults, modkit.WithMiddlewares(
			middleware.ThrottleBacklog(o.MaxInflight, o.Backlog, o.BacklogWait),
		))
	}
	b := modkit.Build(append(defaults, opts...)...)
	b.Prefix = str.MustPrefix(b.Prefix)

	svc, ok := b.Ports.(walkersvc.Service)
	if !ok {
		opened, err := Open(context.Background(), deps, o)
		if err != nil {
			panic(err)
		}
		svc = opened
	}
	if b.SwaggerOn {
		swaggerkit.Register(profileNames(svc))
	}
	return &Module{built: b, svc: svc, port: adaptWalkerPort{svc: svc}}
}

// MountRoutes implements the modkit.Module interface
func (m *Module) MountRoutes(r httpkit.Router) {
	m.built.Mount(r, func(rr httpkit.Router) { walkerhttp.Register(rr, m.svc) })
}

// Ports exposes the service as a domain.ServicePort
func (m *Module) Ports() any { return m.port }

// Name returns the module name
func (m *Module) Name() string { return str.MustString(m.built.Name, "module name") }

// Prefix returns the module route prefix
func (m *Module) Prefix() string { return m.built.Prefix }

// profileNames lists the registered profiles as the enum of the ProfileRef name form
func profileNames(svc walkersvc.Service) swaggerkit.SpecMutator {
	return func(spec map[string]any) {
		ps, err := svc.Profiles(context.Background())
		if err != nil {
			return
		}
		names := make([]any, 0, len(ps))
		for _, p := range ps {
			names = append(names, p.Name)
		}
		comps, _ := spec["components"].(map[string]any)
		schemas, _ := comps["schemas"].(map[string]any)
		ref, _ := schemas["ProfileRef"].(map[string]any)
		forms, _ := ref["oneOf"].([]any)
		for _, f := range forms {
			if named, ok := f.(map[string]any); ok && named["type"] == "string" {
				named["enum"] = names
			}
		}
	}
}
