// Package walk drives seeded, cost-weighted walks over a neighbor graph
package walk

import (
	"math"

	"sylwalk/internal/core/cost"
	"sylwalk/internal/core/errs"
	"sylwalk/internal/core/neighbor"
	"sylwalk/internal/core/profile"
)

// State is the sampler lifecycle
type State uint8

const (
	Ready State = iota
	Stepping
	Completed
	Failed
)

func (s State) String() string {
	switch s {
	case Ready:
		return "ready"
	case Stepping:
		return "stepping"
	case Completed:
		return "completed"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// Config holds sampler switches that are not part of a profile
type Config struct {
	AllowStay bool // offer the current syllable as a candidate at every step
}

// Step is one move of a walk
// Number is the zero based step number the draw was keyed with
type Step struct {
	Index    int `json:"index"`
	Number   int `json:"step"`
	Distance int `json:"distance"`
}

// Walk is the immutable result of a sampler run
// Steps excludes the start syllable, its length is the number of moves made
type Walk struct {
	Profile profile.Profile `json:"profile"`
	Start   int             `json:"start"`
	Seed    int64           `json:"seed"`
	Steps   []Step          `json:"steps"`
}

// Indices returns the start followed by every visited index
func (w Walk) Indices() []int {
	out := make([]int, 0, len(w.Steps)+1)
	out = append(out, w.Start)
	for _, s := range w.Steps {
		out = append(out, s.Index)
	}
	return out
}

// WalkState is the mutable cursor owned by one sampler
type WalkState struct {
	Current int
	Step    int
	Taken   []Step
}

// Candidate is a possible next syllable
type Candidate struct {
	Index    int
	Distance int
}

// Sampler runs exactly one walk, it is not safe for concurrent use
type Sampler struct {
	graph *neighbor.Graph
	model *cost.Model
	prof  profile.Profile
	cfg   Config
	seed  int64
	start int

	state State
	ws    WalkState

	cands []Candidate
	costs []float64
	probs []float64
}

// NewSampler validates the request before any sampling work
// the profile must fit the graph bound and start must be a corpus index
func NewSampler(g *neighbor.Graph, m *cost.Model, p profile.Profile, start int, seed int64, cfg Config) (*Sampler, error) {
	if err := p.Validate(g.MaxDistance()); err != nil {
		return nil, err
	}
	if start < 0 || start >= g.Len() {
		return nil, &errs.NotFoundError{Index: start}
	}
	if m.Corpus() != g.Corpus() {
		return nil, errs.Configf("cost_model", "cost model and graph were built over different corpora")
	}
	return &Sampler{
		graph: g,
		model: m,
		prof:  p,
		cfg:   cfg,
		seed:  seed,
		start: start,
		ws:    WalkState{Current: start, Taken: make([]Step, 0, p.Steps)},
	}, nil
}

// State returns the lifecycle state
func (s *Sampler) State() State { return s.state }

// Cursor returns a copy of the walk state
func (s *Sampler) Cursor() WalkState {
	ws := s.ws
	ws.Taken = append([]Step(nil), s.ws.Taken...)
	return ws
}

// Walk returns the steps taken so far
func (s *Sampler) Walk() Walk {
	return Walk{Profile: s.prof, Start: s.start, Seed: s.seed, Steps: append([]Step(nil), s.ws.Taken...)}
}

// Candidates lists the candidates for the current syllable in draw order:
// neighbors within max_flips ascending by index, then the current syllable when staying is allowed
func (s *Sampler) Candidates() []Candidate {
	s.cands = s.cands[:0]
	for _, e := range s.graph.Neighbors(s.ws.Current) {
		if int(e.Distance) <= s.prof.MaxFlips {
			s.cands = append(s.cands, Candidate{Index: int(e.Neighbor), Distance: int(e.Distance)})
		}
	}
	if s.cfg.AllowStay {
		s.cands = append(s.cands, Candidate{Index: s.ws.Current})
	}
	return s.cands
}

// Step advances the walk by one move
func (s *Sampler) Step() (Step, error) {
	switch s.state {
	case Completed, Failed:
		return Step{}, ErrTerminal
	case Ready:
		s.state = Stepping
	}

	cands := s.Candidates()
	if len(cands) == 0 {
		s.state = Failed
		return Step{}, &DeadEndError{
			Partial:  s.Walk(),
			Step:     s.ws.Step,
			Syllable: s.ws.Current,
			Text:     s.graph.Corpus().Text(s.ws.Current),
		}
	}

	s.costs = s.costs[:0]
	for _, c := range cands {
		s.costs = append(s.costs, s.model.Cost(s.ws.Current, c.Index, &s.prof))
	}
	s.probs = Probabilities(s.costs, s.prof.Temperature, s.probs)
	pick := cands[Draw(s.probs, StepUniform(s.seed, s.ws.Step))]

	st := Step{Index: pick.Index, Number: s.ws.Step, Distance: pick.Distance}
	s.ws.Taken = append(s.ws.Taken, st)
	s.ws.Current = pick.Index
	s.ws.Step++
	if s.ws.Step >= s.prof.Steps {
		s.state = Completed
	}
	return st, nil
}

// Run steps until the walk completes or hits a dead end
// on a dead end the partial walk is returned with the error
func (s *Sampler) Run() (Walk, error) {
	for s.state == Ready || s.state == Stepping {
		if _, err := s.Step(); err != nil {
			return s.Walk(), err
		}
	}
	return s.Walk(), nil
}

// Probabilities is the min-shifted softmax of -cost/temperature, written into out
//
// Costs may overflow for extreme but valid profiles. NaN ranks as +Inf, and
// when the minimum itself is infinite the mass is split evenly over the
// candidates tied at it, so out always sums to 1.
func Probabilities(costs []float64, temperature float64, out []float64) []float64 {
	out = out[:0]
	if len(costs) == 0 {
		return out
	}
	m := math.Inf(1)
	for _, c := range costs {
		m = min(m, rank(c))
	}
	var sum float64
	for _, c := range costs {
		var w float64
		switch c = rank(c); {
		case math.IsInf(m, 0):
			if c == m {
				w = 1
			}
		default:
			w = math.Exp(-(c - m) / temperature)
		}
		out = append(out, w)
		sum += w
	}
	for i := range out {
		out[i] /= sum
	}
	return out
}

func rank(c float64) float64 {
	if math.IsNaN(c) {
		return math.Inf(1)
	}
	return c
}

// Draw is the inverse CDF pick: the first i with u < p[0]+...+p[i], else the last index
func Draw(probs []float64, u float64) int {
	var acc float64
	for i, p := range probs {
		acc += p
		if u < acc {
			return i
		}
	}
	return len(probs) - 1
}
