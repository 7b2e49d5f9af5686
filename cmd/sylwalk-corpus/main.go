// Command sylwalk-corpus imports an annotated JSON corpus into sqlite or postgres
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"sylwalk/internal/core/corpus"
	"sylwalk/internal/modkit/repokit"
	"sylwalk/internal/platform/config"
	"sylwalk/internal/platform/logger"
	"sylwalk/internal/platform/store"

	walkerrepo "sylwalk/internal/services/walker/repo"

	"github.com/joho/godotenv"
)

func must(err error) {
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func main() {
	_ = godotenv.Load()
	root := config.New()
	pgCfg := root.Prefix("SERVICE_PGSQL_")

	var (
		fIn = flag.String("in", "data/syllables_annotated.json", "annotated corpus JSON")
		fTo = flag.String("to", walkerrepo.KindSQLite, "target: sqlite | pg")
		fDB = flag.String("db", "data/syllables.db", "sqlite file (ignored for pg)")
	)
	flag.Parse()

	l := logger.Get()
	ctx := context.Background()

	src := walkerrepo.NewFile(*fIn)
	raw, err := src.Records(ctx)
	must(err)
	c, err := corpus.Load(raw)
	must(err)

	cfg := store.Config{AppName: "sylwalk-corpus"}
	var binder repokit.Binder[walkerrepo.Repo]
	switch *fTo {
	case walkerrepo.KindSQLite:
		cfg.Lite = store.LiteConfig{Enabled: true, Path: *fDB, BusyMs: 5000}
		binder = walkerrepo.NewSQLite()
	case walkerrepo.KindPG:
		cfg.PG = store.PGConfig{
			Enabled:     true,
			URL:         pgCfg.MustString("DBURL"),
			MaxConns:    int32(pgCfg.MayInt("MAX_CONNS", 4)),
			SlowQueryMs: pgCfg.MayInt("SLOW_MS", 500),
			LogSQL:      pgCfg.MayBool("LOG_SQL", false),
		}
		binder = walkerrepo.NewPG()
	default:
		must(fmt.Errorf("unknown target %q, want sqlite or pg", *fTo))
	}

	st, err := store.Open(ctx, cfg, store.WithLogger(*l))
	must(err)
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()

	db := st.Lite
	if *fTo == walkerrepo.KindPG {
		db = st.PG
	}

	t0 := time.Now()
	n, err := walkerrepo.Import(ctx, db, binder, c, *fIn)
	must(err)
	l.Info().Int("rows", n).Str("target", *fTo).Str("in", *fIn).Dur("took", time.Since(t0)).Msg("corpus imported")
}
