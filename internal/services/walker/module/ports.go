package module

import (
	"context"

	"sylwalk/internal/core/profile"
	"sylwalk/internal/services/walker/domain"
	walkersvc "sylwalk/internal/services/walker/service"
)

// adaptWalkerPort adapts the walker service to the domain port interface
type adaptWalkerPort struct{ svc walkersvc.Service }

// Walk implements the domain ServicePort interface
func (a adaptWalkerPort) Walk(ctx context.Context, in domain.WalkInput) (domain.WalkResult, error) {
	return a.svc.Walk(ctx, in)
}

// Batch implements the domain ServicePort interface
func (a adaptWalkerPort) Batch(ctx context.Context, in domain.BatchInput) (domain.BatchResult, error) {
	return a.svc.Batch(ctx, in)
}

// Stats implements the domain ServicePort interface
func (a adaptWalkerPort) Stats(ctx context.Context) (domain.Stats, error) { return a.svc.Stats(ctx) }

// Profiles implements the domain ServicePort interface
func (a adaptWalkerPort) Profiles(ctx context.Context) ([]profile.Profile, error) {
	return a.svc.Profiles(ctx)
}

// Lookup implements the domain ServicePort interface
func (a adaptWalkerPort) Lookup(ctx context.Context, text string) ([]domain.SyllableDetail, error) {
	return a.svc.Lookup(ctx, text)
}
