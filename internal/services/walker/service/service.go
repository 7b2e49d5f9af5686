// Package service contains walk workflows over a loaded corpus
package service

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"errors"
	"sync"
	"time"

	"sylwalk/internal/core/corpus"
	"sylwalk/internal/core/cost"
	"sylwalk/internal/core/neighbor"
	"sylwalk/internal/core/profile"
	"sylwalk/internal/core/walk"
	perr "sylwalk/internal/platform/errors"
	"sylwalk/internal/platform/logger"
	"sylwalk/internal/services/walker/domain"
)

// Config for the walker service
type Config struct {
	MaxDistance int  // graph bound, 1..3
	Workers     int  // graph build and batch workers, 0 = GOMAXPROCS
	AllowStay   bool // default for requests that do not say
	MaxBatch    int  // largest accepted batch count
}

// Service defines the service contract for walks
type Service interface{ domain.ServicePort }

// Svc implements the Service interface
type Svc struct {
	src domain.CorpusSource
	reg *profile.Registry
	cfg Config
	log *logger.Logger

	mu     sync.RWMutex
	info   domain.SourceInfo
	corpus *corpus.Corpus
	cache  *neighbor.Cache
	model  *cost.Model

	// Seeds supplies seeds for requests that omit one
	Seeds func() (int64, error)
}

// New creates a walker service, call Load before serving
func New(src domain.CorpusSource, reg *profile.Registry, cfg Config) *Svc {
	if src == nil {
		panic("walker.Service requires a non nil CorpusSource")
	}
	if reg == nil {
		panic("walker.Service requires a non nil profile Registry")
	}
	if cfg.MaxDistance == 0 {
		cfg.MaxDistance = neighbor.MaxDistance
	}
	if cfg.MaxBatch <= 0 {
		cfg.MaxBatch = 10000
	}
	return &Svc{src: src, reg: reg, cfg: cfg, log: logger.Named("walker"), Seeds: cryptoSeed}
}

// Load reads the corpus and builds the graph for the configured bound
// a failed load leaves any previously loaded corpus in place
func (s *Svc) Load(ctx context.Context) error {
	if err := neighbor.CheckDistance(s.cfg.MaxDistance); err != nil {
		return err
	}
	t0 := time.Now()
	raw, err := s.src.Records(ctx)
	if err != nil {
		return err
	}
	c, err := corpus.Load(raw)
	if err != nil {
		return err
	}
	info, err := s.src.Info(ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("corpus source info unavailable")
	}
	s.log.Info().Int("syllables", c.Len()).Str("source", info.Kind).Dur("took", time.Since(t0)).Msg("corpus loaded")

	t1 := time.Now()
	cache := neighbor.NewCache(c, neighbor.WithWorkers(s.cfg.Workers))
	g, err := cache.Get(ctx, s.cfg.MaxDistance)
	if err != nil {
		return err
	}
	gs := g.Stats()
	s.log.Info().
		Int("max_distance", gs.MaxDistance).
		Int("buckets", gs.Buckets).
		Int("edges", gs.Edges).
		Int("isolated", gs.Isolated).
		Dur("took", time.Since(t1)).
		Msg("neighbor graph built")

	s.mu.Lock()
	s.info, s.corpus, s.cache, s.model = info, c, cache, cost.New(c)
	s.mu.Unlock()
	return nil
}

type engine struct {
	corpus *corpus.Corpus
	graph  *neighbor.Graph
	model  *cost.Model
}

func (s *Svc) engine(ctx context.Context) (engine, error) {
	s.mu.RLock()
	c, cache, m := s.corpus, s.cache, s.model
	s.mu.RUnlock()
	if cache == nil {
		return engine{}, perr.Unavailablef("corpus not loaded")
	}
	g, err := cache.Get(ctx, s.cfg.MaxDistance)
	if err != nil {
		return engine{}, err
	}
	return engine{corpus: c, graph: g, model: m}, nil
}

// Walk runs one walk, a dead end is reported in the result rather than as an error
func (s *Svc) Walk(ctx context.Context, in domain.WalkInput) (domain.WalkResult, error) {
	e, err := s.engine(ctx)
	if err != nil {
		return domain.WalkResult{}, err
	}
	p, err := s.profileOf(in.Profile, in.Steps)
	if err != nil {
		return domain.WalkResult{}, err
	}
	seed, err := s.seedOf(in.Seed)
	if err != nil {
		return domain.WalkResult{}, err
	}
	start, err := startOf(e.corpus, in.Start)
	if err != nil {
		return domain.WalkResult{}, err
	}
	cfg := walk.Config{AllowStay: s.allowStay(in.AllowStay)}

	w, err := walk.Run(e.graph, e.model, walk.Request{Profile: p, Start: start, Seed: seed, Config: cfg})
	var de *walk.DeadEndError
	switch {
	case err == nil:
	case errors.As(err, &de):
		ctx = logger.WithWalk(ctx, walkID(w.Profile, w.Start, seed, cfg))
		logger.C(ctx).Debug().Int64("seed", seed).Int("step", de.Step).Str("syllable", de.Text).Msg("walk hit a dead end")
	default:
		return domain.WalkResult{}, err
	}
	return resultOf(e.corpus, w, cfg, de), nil
}

// Batch runs in.Count walks seeded from in.BaseSeed
func (s *Svc) Batch(ctx context.Context, in domain.BatchInput) (domain.BatchResult, error) {
	if in.BaseSeed == nil {
		return domain.BatchResult{}, perr.WithField(perr.New(perr.ErrorCodeValidation, "base_seed is required"), "base_seed")
	}
	if in.Count > s.cfg.MaxBatch {
		return domain.BatchResult{}, perr.WithField(
			perr.Newf(perr.ErrorCodeValidation, "count must be at most %d", s.cfg.MaxBatch), "count")
	}
	e, err := s.engine(ctx)
	if err != nil {
		return domain.BatchResult{}, err
	}
	p, err := s.profileOf(in.Profile, in.Steps)
	if err != nil {
		return domain.BatchResult{}, err
	}
	if err := p.Validate(e.graph.MaxDistance()); err != nil {
		return domain.BatchResult{}, err
	}
	cfg := walk.Config{AllowStay: s.allowStay(in.AllowStay)}
	out := domain.BatchResult{
		ID:       batchID(p, in.Start, *in.BaseSeed, in.Count, cfg),
		Count:    in.Count,
		BaseSeed: *in.BaseSeed,
		Profile:  p,
		Walks:    []domain.BatchWalk{},
		Failures: []domain.Failure{},
	}

	start, err := startOf(e.corpus, in.Start)
	if err != nil {
		// an unknown start fails every walk, not the batch
		for i := range in.Count {
			out.Failures = append(out.Failures, domain.Failure{Index: i, Kind: string(walk.KindOf(err)), Message: err.Error()})
		}
		return out, nil
	}

	ctx = logger.WithWalk(ctx, out.ID)
	t0 := time.Now()
	res, err := walk.Batch(ctx, e.graph, e.model, walk.BatchRequest{
		Count:    in.Count,
		BaseSeed: *in.BaseSeed,
		Profile:  p,
		Start:    start,
		Config:   cfg,
		Workers:  s.cfg.Workers,
	})
	if err != nil {
		return domain.BatchResult{}, err
	}
	for _, r := range res.Walks {
		out.Walks = append(out.Walks, domain.BatchWalk{Index: r.Index, WalkResult: resultOf(e.corpus, r.Walk, cfg, nil)})
	}
	for _, f := range res.Failures {
		out.Failures = append(out.Failures, failureOf(e.corpus, f, cfg))
	}
	logger.C(ctx).Info().
		Int("count", in.Count).
		Int("failed", len(out.Failures)).
		Str("profile", p.Name).
		Dur("took", time.Since(t0)).
		Msg("batch finished")
	return out, nil
}

// Stats describes the loaded corpus and graph
func (s *Svc) Stats(ctx context.Context) (domain.Stats, error) {
	e, err := s.engine(ctx)
	if err != nil {
		return domain.Stats{}, err
	}
	s.mu.RLock()
	info, built := s.info, s.cache.Built()
	s.mu.RUnlock()
	return domain.Stats{
		TotalSyllables:      e.corpus.Len(),
		MaxNeighborDistance: e.graph.MaxDistance(),
		Source:              info,
		Corpus:              e.corpus.Stats(),
		Graph:               e.graph.Stats(),
		GraphsBuilt:         built,
	}, nil
}

// Profiles lists the registered profiles
func (s *Svc) Profiles(context.Context) ([]profile.Profile, error) { return s.reg.List(), nil }

// Lookup returns every corpus entry spelled text with its neighbors
func (s *Svc) Lookup(ctx context.Context, text string) ([]domain.SyllableDetail, error) {
	e, err := s.engine(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := e.corpus.LookupByText(text); err != nil {
		return nil, err
	}
	var out []domain.SyllableDetail
	for _, i := range e.corpus.IndicesByText(text) {
		edges := e.graph.Neighbors(i)
		d := domain.SyllableDetail{
			Syllable:  syllableOf(e.corpus, i, 0),
			Degree:    len(edges),
			Neighbors: make([]domain.Syllable, 0, len(edges)),
		}
		for _, ed := range edges {
			d.Neighbors = append(d.Neighbors, syllableOf(e.corpus, int(ed.Neighbor), int(ed.Distance)))
		}
		out = append(out, d)
	}
	return out, nil
}

func (s *Svc) profileOf(ref profile.Ref, steps *int) (profile.Profile, error) {
	p, err := s.reg.Resolve(ref)
	if err != nil {
		return profile.Profile{}, err
	}
	if steps != nil {
		p.Steps = *steps
	}
	return p, nil
}

func (s *Svc) seedOf(seed *int64) (int64, error) {
	if seed != nil {
		return *seed, nil
	}
	v, err := s.Seeds()
	if err != nil {
		return 0, perr.Wrap(err, perr.ErrorCodeUnknown, "draw seed")
	}
	return v, nil
}

func (s *Svc) allowStay(v *bool) bool {
	if v != nil {
		return *v
	}
	return s.cfg.AllowStay
}

// startOf maps a requested start text to a corpus index, blank means random
// duplicate spellings resolve to the first loaded entry
func startOf(c *corpus.Corpus, start *string) (int, error) {
	if start == nil || *start == "" {
		return walk.RandomStart, nil
	}
	rec, err := c.LookupByText(*start)
	if err != nil {
		return 0, err
	}
	return rec.Index, nil
}

func cryptoSeed() (int64, error) {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return 0, err
	}
	return int64(binary.LittleEndian.Uint64(b[:])), nil
}
