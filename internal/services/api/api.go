// Package api provides the HTTP API for the application
package api

import (
	"strings"
	"time"

	"sylwalk/internal/platform/config"
	"sylwalk/internal/platform/logger"
	phttp "sylwalk/internal/platform/net/http"
	"sylwalk/internal/platform/net/middleware"
	"sylwalk/internal/platform/store"

	"sylwalk/internal/modkit"
	"sylwalk/internal/modkit/httpkit"
	"sylwalk/internal/modkit/module"
	"sylwalk/internal/modkit/swaggerkit"

	metamod "sylwalk/internal/services/api/meta/module"
	walkerdom "sylwalk/internal/services/walker/domain"
	walkermod "sylwalk/internal/services/walker/module"
)

// Options are the API options
type Options struct {
	Config         config.Conf
	Store          *store.Store
	Logger         *logger.Logger
	EnableSwagger  bool
	EnableProfiler bool

	// Walker is an already loaded walker service, nil opens one from Config
	Walker walkerdom.ServicePort
}

// Mount mounts the API service onto the given router
func Mount(r phttp.Router, opt Options) {
	deps := modkit.Deps{Cfg: opt.Config}
	if opt.Logger != nil {
		deps.Log = *opt.Logger
	}
	if opt.Store != nil {
		deps.PG = opt.Store.PG
		deps.Lite = opt.Store.Lite
	}

	// load balancer heartbeat ahead of routing, must precede every route
	r.Use(middleware.Heartbeat("/health"))

	// the walker owns the engine, meta reports on it through its port
	walkerOpts := []modkit.Option{modkit.WithSwagger(opt.EnableSwagger)}
	if opt.Walker != nil {
		walkerOpts = append(walkerOpts, modkit.WithPorts(opt.Walker))
	}
	walker := walkermod.New(deps, walkerOpts...)
	port := module.MustPortsOf[walkerdom.ServicePort](walker)

	mods := []module.Module{
		metamod.New(deps, modkit.WithPorts(metamod.Ports{Walker: port})),
		walker,
	}

	swaggerkit.Mount(r, opt.EnableSwagger)
	phttp.MountProfiler(r, "/debug", opt.EnableProfiler)

	httpkit.MountAPIV1(r, httpkit.CommonStack(stackOptions(opt.Config)), func(api httpkit.Router) {
		for _, m := range mods {
			m.MountRoutes(api)
		}
	})
}

// stackOptions reads CORE_API_TIMEOUT_MS, CORE_API_SLOW_MS and CORE_API_CORS_ORIGINS
func stackOptions(cfg config.Conf) httpkit.StackOptions {
	c := cfg.Prefix("CORE_API_")
	var origins []string
	for _, o := range strings.Split(c.MayString("CORS_ORIGINS", "*"), ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return httpkit.StackOptions{
		Timeout:     time.Duration(c.MayInt("TIMEOUT_MS", 30000)) * time.Millisecond,
		SlowRequest: time.Duration(c.MayInt("SLOW_MS", 500)) * time.Millisecond,
		CORSOrigins: origins,
	}
}
