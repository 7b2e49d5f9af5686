// Package http serves the meta endpoints: liveness, readiness, build and engine shape
package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"sylwalk/internal/core/corpus"
	"sylwalk/internal/core/version"
	"sylwalk/internal/modkit/httpkit"
	walkerdom "sylwalk/internal/services/walker/domain"
)

// readyTimeout bounds all readiness checks of one request
const readyTimeout = 2 * time.Second

var errNoWalker = errors.New("walker not configured")

// Pinger is implemented by store adapters that can be pinged
type Pinger interface {
	Ping(context.Context) error
}

// Deps are what the meta handlers report on
// a nil store is skipped, a nil Walker is an unloaded engine
type Deps struct {
	ServiceName string
	StartedAt   time.Time
	PG          any
	Lite        any
	Walker      walkerdom.ServicePort
}

type meta struct {
	Deps
	now func() time.Time
}

// Register mounts the meta routes on r
func Register(r httpkit.Router, d Deps) {
	m := &meta{Deps: d, now: time.Now}
	httpkit.Get(r, "/health", m.health)
	httpkit.Get(r, "/ready", m.ready)
	httpkit.Get(r, "/version", m.version)
	httpkit.Get(r, "/service", m.service)
	httpkit.Get(r, "/engine", m.engine)
}

func stamp(t time.Time) string { return t.UTC().Format(time.RFC3339) }

// @Summary Liveness
// @Tags Meta
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /meta/health [get]
func (m *meta) health(*http.Request) (any, error) {
	return HealthResponse{OK: true, Service: m.ServiceName, Started: stamp(m.StartedAt), Now: stamp(m.now())}, nil
}

// @Summary Readiness with store and engine checks
// @Tags Meta
// @Produce json
// @Success 200 {object} ReadyResponse
// @Router /meta/ready [get]
func (m *meta) ready(r *http.Request) (any, error) {
	ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
	defer cancel()

	runs := []struct {
		name string
		run  func(context.Context) ReadyCheck
	}{
		{"pg", storeCheck("pg", m.PG)},
		{"lite", storeCheck("lite", m.Lite)},
		{"engine", m.engineCheck},
	}

	checks := make([]ReadyCheck, len(runs))
	g, gctx := errgroup.WithContext(ctx)
	for i, p := range runs {
		g.Go(func() error {
			checks[i] = p.run(gctx)
			return nil
		})
	}
	_ = g.Wait()

	return ReadyResponse{Status: overall(checks), Checks: checks, Now: stamp(m.now())}, nil
}

func storeCheck(name string, store any) func(context.Context) ReadyCheck {
	return func(ctx context.Context) ReadyCheck {
		switch s := store.(type) {
		case nil:
			return ReadyCheck{Name: name, Status: checkSkipped}
		case Pinger:
			return result(name, s.Ping(ctx))
		default:
			return ReadyCheck{Name: name, Status: checkUnknown}
		}
	}
}

func (m *meta) engineCheck(ctx context.Context) ReadyCheck {
	if m.Walker == nil {
		return result("engine", errNoWalker)
	}
	_, err := m.Walker.Stats(ctx)
	return result("engine", err)
}

func result(name string, err error) ReadyCheck {
	if err != nil {
		return ReadyCheck{Name: name, Status: checkFail, Error: err.Error()}
	}
	return ReadyCheck{Name: name, Status: checkOK}
}

// @Summary Build info
// @Tags Meta
// @Produce json
// @Success 200 {object} version.BuildInfo
// @Router /meta/version [get]
func (m *meta) version(*http.Request) (any, error) { return version.Info(), nil }

// @Summary Service name and uptime
// @Tags Meta
// @Produce json
// @Success 200 {object} ServiceResponse
// @Router /meta/service [get]
func (m *meta) service(*http.Request) (any, error) {
	return ServiceResponse{
		Name:    m.ServiceName,
		Started: stamp(m.StartedAt),
		Uptime:  int64(m.now().Sub(m.StartedAt) / time.Second),
	}, nil
}

// @Summary Corpus shape, profiles and build
// @Tags Meta
// @Produce json
// @Success 200 {object} EngineResponse
// @Router /meta/engine [get]
func (m *meta) engine(r *http.Request) (any, error) {
	out := EngineResponse{FeatureNames: corpus.FeatureNames[:], Profiles: []string{}, Build: version.Info()}
	if m.Walker == nil {
		return out, nil
	}
	ps, err := m.Walker.Profiles(r.Context())
	if err != nil {
		return nil, err
	}
	for _, p := range ps {
		out.Profiles = append(out.Profiles, p.Name)
	}
	st, err := m.Walker.Stats(r.Context())
	if err == nil {
		out.Loaded = true
		out.Syllables, out.MaxNeighborDistance = st.TotalSyllables, st.MaxNeighborDistance
	}
	return out, nil
}
