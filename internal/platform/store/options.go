package store

import (
	"sylwalk/internal/platform/logger"
)

// Option mutates Store during Open
type Option func(*Store) error

// WithLogger sets the logger used by subclients and the default SQL tracer
func WithLogger(log logger.Logger) Option {
	return func(s *Store) error {
		s.Log = log
		return nil
	}
}

// WithTracer replaces the logging SQL tracer for backends with LogSQL set
func WithTracer(tr QueryTracer) Option {
	return func(s *Store) error {
		s.tracer = tr
		return nil
	}
}
