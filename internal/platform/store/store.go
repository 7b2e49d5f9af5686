// Package store opens the sql backends a corpus can be read from or imported into
package store

import (
	"context"
	"errors"
	"fmt"

	"sylwalk/internal/platform/logger"
)

// Store is the set of opened backends
// PG and Lite stay nil unless enabled, so a zero Store is valid and empty
type Store struct {
	Log  logger.Logger
	PG   TxRunner
	Lite TxRunner

	tracer QueryTracer
}

type backend struct {
	name    string
	enabled bool
	logSQL  bool
	slowMs  int
	open    func(context.Context) (TxRunner, error)
	slot    *TxRunner
}

// Open opens every backend cfg enables, postgres first
// on failure anything already opened is closed again
func Open(ctx context.Context, cfg Config, opts ...Option) (*Store, error) {
	s := &Store{}
	for _, o := range opts {
		if err := o(s); err != nil {
			return nil, err
		}
	}
	if s.tracer == nil {
		s.tracer = LogTracer(s.Log)
	}

	backends := []backend{
		{"pg", cfg.PG.Enabled, cfg.PG.LogSQL, cfg.PG.SlowQueryMs,
			func(ctx context.Context) (TxRunner, error) { return openPG(ctx, cfg) }, &s.PG},
		{"lite", cfg.Lite.Enabled, cfg.Lite.LogSQL, cfg.Lite.SlowQueryMs,
			func(ctx context.Context) (TxRunner, error) { return openLite(ctx, cfg, s) }, &s.Lite},
	}
	for _, b := range backends {
		if !b.enabled {
			continue
		}
		r, err := b.open(ctx)
		if err != nil {
			_ = s.Close(ctx)
			return nil, err
		}
		if b.logSQL {
			r = traceRunner(r, b.name, s.tracer, b.slowMs)
		}
		*b.slot = r
	}
	return s, nil
}

func (s *Store) each(fn func(name string, r TxRunner)) {
	if s.PG != nil {
		fn("pg", s.PG)
	}
	if s.Lite != nil {
		fn("lite", s.Lite)
	}
}

// Guard pings every opened backend and joins the failures
func (s *Store) Guard(ctx context.Context) error {
	if s == nil {
		return errors.New("store: nil")
	}
	var errs []error
	s.each(func(name string, r TxRunner) {
		if p, ok := r.(Pinger); ok {
			if err := p.Ping(ctx); err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", name, err))
			}
		}
	})
	return errors.Join(errs...)
}

// Close releases every opened backend
func (s *Store) Close(context.Context) error {
	var errs []error
	s.each(func(_ string, r TxRunner) {
		if c, ok := r.(interface{ Close() error }); ok {
			errs = append(errs, c.Close())
		}
	})
	return errors.Join(errs...)
}
