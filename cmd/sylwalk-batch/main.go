// Command sylwalk-batch runs a seeded batch of walks and writes one JSON line per walk
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"io"
	"os"
	"os/signal"
	"time"

	"sylwalk/internal/core/cost"
	"sylwalk/internal/core/corpus"
	"sylwalk/internal/core/neighbor"
	"sylwalk/internal/core/profile"
	"sylwalk/internal/core/walk"
	"sylwalk/internal/modkit"
	"sylwalk/internal/platform/config"
	"sylwalk/internal/platform/logger"
	"sylwalk/internal/platform/store"

	walkermod "sylwalk/internal/services/walker/module"
	walkerrepo "sylwalk/internal/services/walker/repo"

	"github.com/joho/godotenv"
	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
)

// line is one output record, walks and failures share the shape
type line struct {
	Index     int      `json:"index"`
	Seed      int64    `json:"seed"`
	Walk      []string `json:"walk"`
	Completed bool     `json:"completed"`
	Kind      string   `json:"kind,omitempty"`
	Message   string   `json:"message,omitempty"`
}

func main() {
	_ = godotenv.Load()
	root := config.New()
	wopts := walkermod.FromConfig(root)

	var (
		fSource   = flag.String("source", wopts.Source, "corpus source: json | sqlite")
		fCorpus   = flag.String("corpus", wopts.Path, "corpus file (json or sqlite)")
		fCount    = flag.Int("count", 10, "number of walks")
		fSeed     = flag.Int64("seed", 0, "base seed, walk i uses a seed derived from it")
		fProfile  = flag.String("profile", profile.Default, "profile name")
		fProfiles = flag.String("profiles", wopts.ProfilesFile, "optional YAML file of extra profiles")
		fStart    = flag.String("start", "", "start syllable, empty picks one per walk")
		fSteps    = flag.Int("steps", 0, "override the profile step count")
		fStay     = flag.Bool("allow-stay", wopts.AllowStay, "offer the current syllable as a candidate")
		fWorkers  = flag.Int("workers", wopts.Workers, "walk workers, 0 uses GOMAXPROCS")
		fMaxDist  = flag.Int("max-distance", wopts.MaxDistance, "neighbor graph bound")
		fOut      = flag.String("out", "-", "output file, - for stdout")
		fProgress = flag.Bool("progress", true, "show a progress bar on stderr")
	)
	flag.Parse()

	l := logger.Get()
	if *fCount < 1 {
		l.Panic().Int("count", *fCount).Msg("-count must be positive")
	}
	if *fSource == walkerrepo.KindPG {
		l.Panic().Msg("pg sources are served by sylwalk-api, export to sqlite or json for batch runs")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	deps := modkit.Deps{Cfg: root, Log: *l}
	if *fSource == walkerrepo.KindSQLite {
		st, err := store.Open(ctx, store.Config{
			AppName: "sylwalk-batch",
			Lite:    store.LiteConfig{Enabled: true, Path: *fCorpus, ReadOnly: true, BusyMs: 5000},
		}, store.WithLogger(*l))
		if err != nil {
			l.Panic().Err(err).Msg("store.Open failed")
		}
		defer func() {
			if err := st.Close(context.Background()); err != nil {
				l.Error().Err(err).Msg("failed to close store")
			}
		}()
		deps.Lite = st.Lite
	}

	src, err := walkermod.Source(deps, walkermod.Options{Source: *fSource, Path: *fCorpus})
	if err != nil {
		l.Panic().Err(err).Msg("corpus source")
	}
	raw, err := src.Records(ctx)
	if err != nil {
		l.Panic().Err(err).Str("corpus", *fCorpus).Msg("read corpus")
	}
	c, err := corpus.Load(raw)
	if err != nil {
		l.Panic().Err(err).Msg("load corpus")
	}

	t0 := time.Now()
	g, err := neighbor.Build(ctx, c, *fMaxDist, neighbor.WithWorkers(*fWorkers))
	if err != nil {
		l.Panic().Err(err).Msg("build neighbor graph")
	}
	gs := g.Stats()
	l.Info().Int("syllables", c.Len()).Int("edges", gs.Edges).Int("max_distance", *fMaxDist).
		Dur("took", time.Since(t0)).Msg("neighbor graph ready")

	reg := profile.NewRegistry()
	if *fProfiles != "" {
		if err := reg.LoadFile(*fProfiles); err != nil {
			l.Panic().Err(err).Str("file", *fProfiles).Msg("load profiles")
		}
	}
	prof, err := reg.Resolve(profile.Named(*fProfile))
	if err != nil {
		l.Panic().Err(err).Msg("resolve profile")
	}
	if *fSteps > 0 {
		if prof, err = (profile.Override{Steps: fSteps}).Apply(prof); err != nil {
			l.Panic().Err(err).Msg("apply steps")
		}
	}

	start := walk.RandomStart
	if *fStart != "" {
		idx := c.IndicesByText(*fStart)
		if len(idx) == 0 {
			l.Panic().Str("start", *fStart).Msg("start syllable not in corpus")
		}
		start = idx[0]
	}

	req := walk.BatchRequest{
		Count:    *fCount,
		BaseSeed: *fSeed,
		Profile:  prof,
		Start:    start,
		Config:   walk.Config{AllowStay: *fStay},
		Workers:  *fWorkers,
	}

	var progress io.Writer
	if *fProgress {
		progress = os.Stderr
	}

	t0 = time.Now()
	res, err := runBatch(ctx, g, cost.New(c), req, progress)
	if err != nil {
		l.Panic().Err(err).Msg("batch rejected")
	}
	l.Info().Int("walks", len(res.Walks)).Int("failures", len(res.Failures)).
		Str("profile", prof.Name).Dur("took", time.Since(t0)).Msg("batch done")

	if err := write(*fOut, c, req, res); err != nil {
		l.Panic().Err(err).Str("out", *fOut).Msg("write results")
	}
}

// runBatch runs req, drawing a progress bar on progress when it is not nil
// the request is checked before the bar exists, so a rejected batch never waits on it
func runBatch(ctx context.Context, g *neighbor.Graph, m *cost.Model, req walk.BatchRequest, progress io.Writer) (walk.BatchResult, error) {
	if err := req.Profile.Validate(g.MaxDistance()); err != nil {
		return walk.BatchResult{}, err
	}
	if progress == nil {
		return walk.Batch(ctx, g, m, req)
	}

	p := mpb.NewWithContext(ctx, mpb.WithWidth(80), mpb.WithOutput(progress))
	bar := p.AddBar(int64(req.Count),
		mpb.PrependDecorators(
			decor.Name("walks: "),
			decor.Percentage(decor.WCSyncSpace),
		),
		mpb.AppendDecorators(
			decor.OnComplete(decor.AverageETA(decor.ET_STYLE_GO), "done!"),
		),
	)
	req.OnWalk = func(int) { bar.Increment() }

	res, err := walk.Batch(ctx, g, m, req)
	if err != nil || !bar.Completed() {
		bar.Abort(false)
	}
	p.Wait()
	return res, err
}

func write(path string, c *corpus.Corpus, req walk.BatchRequest, res walk.BatchResult) error {
	var w io.Writer = os.Stdout
	if path != "-" {
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer func() { _ = f.Close() }()
		w = f
	}
	bw := bufio.NewWriter(w)
	enc := json.NewEncoder(bw)
	for _, ln := range lines(c, req.BaseSeed, res) {
		if err := enc.Encode(ln); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// lines merges walks and failures back into index order
func lines(c *corpus.Corpus, base int64, res walk.BatchResult) []line {
	out := make([]line, 0, len(res.Walks)+len(res.Failures))
	wi, fi := 0, 0
	for wi < len(res.Walks) || fi < len(res.Failures) {
		if fi >= len(res.Failures) || (wi < len(res.Walks) && res.Walks[wi].Index < res.Failures[fi].Index) {
			r := res.Walks[wi]
			out = append(out, line{Index: r.Index, Seed: r.Walk.Seed, Walk: texts(c, r.Walk), Completed: true})
			wi++
			continue
		}
		f := res.Failures[fi]
		ln := line{Index: f.Index, Seed: walk.DeriveSeed(base, f.Index), Kind: string(f.Kind), Message: f.Message}
		if f.Partial != nil {
			ln.Walk = texts(c, *f.Partial)
		}
		out = append(out, ln)
		fi++
	}
	return out
}

func texts(c *corpus.Corpus, w walk.Walk) []string {
	idx := w.Indices()
	out := make([]string, len(idx))
	for i, j := range idx {
		out[i] = c.Text(j)
	}
	return out
}
