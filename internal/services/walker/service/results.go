package service

import (
	"encoding/json"
	"fmt"

	"sylwalk/internal/core/corpus"
	"sylwalk/internal/core/profile"
	"sylwalk/internal/core/walk"
	"sylwalk/internal/services/walker/domain"

	"github.com/google/uuid"
)

var (
	walkNS  = uuid.NewSHA1(uuid.NameSpaceURL, []byte("sylwalk:walk"))
	batchNS = uuid.NewSHA1(uuid.NameSpaceURL, []byte("sylwalk:batch"))
)

// walkID is stable for equal profile, start, seed and stay switch
func walkID(p profile.Profile, start int, seed int64, cfg walk.Config) string {
	pj, _ := json.Marshal(p)
	key := fmt.Sprintf("%s|%d|%d|%t", pj, start, seed, cfg.AllowStay)
	return uuid.NewSHA1(walkNS, []byte(key)).String()
}

func batchID(p profile.Profile, start *string, base int64, count int, cfg walk.Config) string {
	pj, _ := json.Marshal(p)
	s := ""
	if start != nil {
		s = *start
	}
	key := fmt.Sprintf("%s|%q|%d|%d|%t", pj, s, base, count, cfg.AllowStay)
	return uuid.NewSHA1(batchNS, []byte(key)).String()
}

func syllableOf(c *corpus.Corpus, i, distance int) domain.Syllable {
	return domain.Syllable{
		Index:     i,
		Syllable:  c.Text(i),
		Frequency: c.Frequency(i),
		Features:  c.Vector(i).Bools(),
		Distance:  distance,
	}
}

func resultOf(c *corpus.Corpus, w walk.Walk, cfg walk.Config, de *walk.DeadEndError) domain.WalkResult {
	out := domain.WalkResult{
		ID:         walkID(w.Profile, w.Start, w.Seed, cfg),
		Walk:       make([]domain.Syllable, 0, len(w.Steps)+1),
		Profile:    w.Profile,
		Start:      c.Text(w.Start),
		Seed:       w.Seed,
		AllowStay:  cfg.AllowStay,
		StepsTaken: len(w.Steps),
		Completed:  de == nil && len(w.Steps) == w.Profile.Steps,
	}
	out.Walk = append(out.Walk, syllableOf(c, w.Start, 0))
	for _, st := range w.Steps {
		out.Walk = append(out.Walk, syllableOf(c, st.Index, st.Distance))
	}
	if de != nil {
		out.DeadEnd = &domain.DeadEnd{Step: de.Step, Index: de.Syllable, Syllable: de.Text, Message: de.Error()}
	}
	return out
}

func failureOf(c *corpus.Corpus, f walk.Failure, cfg walk.Config) domain.Failure {
	out := domain.Failure{Index: f.Index, Kind: string(f.Kind), Message: f.Message}
	if f.Step >= 0 {
		step := f.Step
		out.Step = &step
	}
	if f.Syllable >= 0 && f.Syllable < c.Len() {
		out.Syllable = c.Text(f.Syllable)
	}
	if f.Partial != nil {
		var de *walk.DeadEndError
		if f.Kind == walk.KindDeadEnd {
			de = &walk.DeadEndError{Partial: *f.Partial, Step: f.Step, Syllable: f.Syllable, Text: out.Syllable}
		}
		partial := resultOf(c, *f.Partial, cfg, de)
		out.Partial = &partial
	}
	return out
}
