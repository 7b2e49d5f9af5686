package module

import (
	"context"
	"fmt"
	"strings"
	"time"

	"sylwalk/internal/core/neighbor"
	"sylwalk/internal/core/profile"
	"sylwalk/internal/modkit"
	"sylwalk/internal/platform/config"
	"sylwalk/internal/services/walker/domain"
	walkerrepo "sylwalk/internal/services/walker/repo"
	walkersvc "sylwalk/internal/services/walker/service"
)

// Options holds configuration settings for the walker module
type Options struct {
	Source       string // json, sqlite or pg
	Path         string // corpus file for json, location label otherwise
	MaxDistance  int
	Workers      int
	ProfilesFile string
	AllowStay    bool
	MaxBatch     int

	// walk routes admit MaxInflight requests, queue Backlog more for BacklogWait
	// and answer 429 past that, MaxInflight 0 disables the throttle
	MaxInflight int
	Backlog     int
	BacklogWait time.Duration
}

// FromConfig extracts Options from the given config.Conf
func FromConfig(cfg config.Conf) Options {
	wf := cfg.Prefix("CORE_WALK_")
	return Options{
		Source:       strings.ToLower(wf.MayEnum("SOURCE", walkerrepo.KindJSON, walkerrepo.KindJSON, walkerrepo.KindSQLite, walkerrepo.KindPG)),
		Path:         wf.MayString("PATH", "data/syllables_annotated.json"),
		MaxDistance:  wf.MayInt("MAX_DISTANCE", neighbor.MaxDistance),
		Workers:      wf.MayInt("WORKERS", 0),
		ProfilesFile: wf.MayString("PROFILES_FILE", ""),
		AllowStay:    wf.MayBool("ALLOW_STAY", false),
		MaxBatch:     wf.MayInt("MAX_BATCH", 10000),
		MaxInflight:  wf.MayInt("MAX_INFLIGHT", 64),
		Backlog:      wf.MayInt("BACKLOG", 256),
		BacklogWait:  time.Duration(wf.MayInt("BACKLOG_WAIT_MS", 5000)) * time.Millisecond,
	}
}

// Source builds the corpus source o names over the stores in deps
func Source(deps modkit.Deps, o Options) (domain.CorpusSource, error) {
	switch o.Source {
	case walkerrepo.KindJSON, "":
		return walkerrepo.NewFile(o.Path), nil
	case walkerrepo.KindSQLite:
		if deps.Lite == nil {
			return nil, fmt.Errorf("walker: sqlite corpus source needs the lite store enabled")
		}
		return walkerrepo.NewSQL(walkerrepo.KindSQLite, o.Path, deps.Lite, walkerrepo.NewSQLite()), nil
	case walkerrepo.KindPG:
		if deps.PG == nil {
			return nil, fmt.Errorf("walker: pg corpus source needs the pg store enabled")
		}
		return walkerrepo.NewSQL(walkerrepo.KindPG, o.Path, deps.PG, walkerrepo.NewPG()), nil
	}
	return nil, fmt.Errorf("walker: unknown corpus source %q", o.Source)
}

// Open builds the profile registry and the service, then loads the corpus
func Open(ctx context.Context, deps modkit.Deps, o Options) (*walkersvc.Svc, error) {
	src, err := Source(deps, o)
	if err != nil {
		return nil, err
	}
	reg := profile.NewRegistry()
	if o.ProfilesFile != "" {
		if err := reg.LoadFile(o.ProfilesFile); err != nil {
			return nil, err
		}
	}
	svc := walkersvc.New(src, reg, walkersvc.Config{
		MaxDistance: o.MaxDistance,
		Workers:     o.Workers,
		AllowStay:   o.AllowStay,
		MaxBatch:    o.MaxBatch,
	})
	if err := svc.Load(ctx); err != nil {
		return nil, err
	}
	return svc, nil
}
