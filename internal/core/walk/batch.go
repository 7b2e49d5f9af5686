package walk

import (
	"context"
	"runtime"
	"sync"

	"sylwalk/internal/core/cost"
	"sylwalk/internal/core/errs"
	"sylwalk/internal/core/neighbor"
	"sylwalk/internal/core/profile"
)

// RandomStart asks Run to pick the start from the seed
const RandomStart = -1

// Request describes one walk
type Request struct {
	Profile profile.Profile
	Start   int // corpus index or RandomStart
	Seed    int64
	Config  Config
}

// ResolveStart returns the start index for req over a corpus of n syllables
func ResolveStart(start int, seed int64, n int) int {
	if start != RandomStart {
		return start
	}
	i := int(StartUniform(seed) * float64(n))
	return min(i, n-1)
}

// Run performs a single walk, see Sampler.Run for the error contract
func Run(g *neighbor.Graph, m *cost.Model, req Request) (Walk, error) {
	start := ResolveStart(req.Start, req.Seed, g.Len())
	s, err := NewSampler(g, m, req.Profile, start, req.Seed, req.Config)
	if err != nil {
		return Walk{Profile: req.Profile, Start: start, Seed: req.Seed}, err
	}
	return s.Run()
}

// BatchRequest fans Count walks out from one base seed
// walk i runs with DeriveSeed(BaseSeed, i), so results do not depend on Workers
type BatchRequest struct {
	Count    int
	BaseSeed int64
	Profile  profile.Profile
	Start    int // corpus index or RandomStart
	Config   Config
	Workers  int             // defaults to GOMAXPROCS
	OnWalk   func(index int) // called once per finished walk, from worker goroutines
}

// Result is one completed walk
type Result struct {
	Index int  `json:"index"`
	Walk  Walk `json:"walk"`
}

// Failure is one walk that did not complete
// Step and Syllable are -1 when the failure happened before sampling
type Failure struct {
	Index    int         `json:"index"`
	Kind     FailureKind `json:"kind"`
	Step     int         `json:"step"`
	Syllable int         `json:"syllable"`
	Message  string      `json:"message"`
	Partial  *Walk       `json:"partial,omitempty"`
}

// BatchResult lists completed walks and failures, each ascending by index
type BatchResult struct {
	Walks    []Result  `json:"walks"`
	Failures []Failure `json:"failures"`
}

type outcome struct {
	walk Walk
	err  error
}

// Batch runs every walk of req over a bounded worker pool
//
// Parameter errors that would fail every walk are returned before any work.
// Per walk failures are recorded against their index without stopping
// siblings. Once ctx is done the remaining walks are recorded as canceled.
func Batch(ctx context.Context, g *neighbor.Graph, m *cost.Model, req BatchRequest) (BatchResult, error) {
	if req.Count < 1 {
		return BatchResult{}, errs.Configf("count", "must be positive, got %d", req.Count)
	}
	if err := req.Profile.Validate(g.MaxDistance()); err != nil {
		return BatchResult{}, err
	}
	workers := req.Workers
	if workers < 1 {
		workers = runtime.GOMAXPROCS(0)
	}
	workers = min(workers, req.Count)

	out := make([]outcome, req.Count)
	sem := make(chan struct{}, workers)
	wg := sync.WaitGroup{}

	for i := range out {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int) {
			defer func() { <-sem; wg.Done() }()
			if err := ctx.Err(); err != nil {
				out[i] = outcome{err: err}
			} else {
				seed := DeriveSeed(req.BaseSeed, i)
				w, err := Run(g, m, Request{Profile: req.Profile, Start: req.Start, Seed: seed, Config: req.Config})
				out[i] = outcome{walk: w, err: err}
			}
			if req.OnWalk != nil {
				req.OnWalk(i)
			}
		}(i)
	}
	wg.Wait()

	res := BatchResult{Walks: make([]Result, 0, req.Count)}
	for i, o := range out {
		if o.err == nil {
			res.Walks = append(res.Walks, Result{Index: i, Walk: o.walk})
			continue
		}
		res.Failures = append(res.Failures, failureOf(i, o))
	}
	return res, nil
}

func failureOf(i int, o outcome) Failure {
	f := Failure{Index: i, Kind: KindOf(o.err), Step: -1, Syllable: -1, Message: o.err.Error()}
	if de, ok := o.err.(*DeadEndError); ok {
		f.Step = de.Step
		f.Syllable = de.Syllable
		partial := de.Partial
		f.Partial = &partial
	}
	return f
}
