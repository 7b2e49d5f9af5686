package domain

import (
	"context"

	"sylwalk/internal/core/corpus"
	"sylwalk/internal/core/profile"
)

// ServicePort defines the service contract for walks
type ServicePort interface {
	Walk(ctx context.Context, in WalkInput) (WalkResult, error)
	Batch(ctx context.Context, in BatchInput) (BatchResult, error)
	Stats(ctx context.Context) (Stats, error)
	Profiles(ctx context.Context) ([]profile.Profile, error)
	Lookup(ctx context.Context, text string) ([]SyllableDetail, error)
}

// CorpusSource produces the raw records a corpus is loaded from
type CorpusSource interface {
	Info(ctx context.Context) (SourceInfo, error)
	Records(ctx context.Context) ([]corpus.RawRecord, error)
}
