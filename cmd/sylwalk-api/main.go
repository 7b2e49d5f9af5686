// @title         Sylwalk API
// @version       0.1.0
// @description   Seeded phonetic walks over a syllable corpus

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"sylwalk/internal/modkit"
	"sylwalk/internal/platform/config"
	"sylwalk/internal/platform/logger"
	phttp "sylwalk/internal/platform/net/http"
	"sylwalk/internal/platform/store"

	"sylwalk/internal/services/api"
	walkermod "sylwalk/internal/services/walker/module"
	walkerrepo "sylwalk/internal/services/walker/repo"

	"github.com/joho/godotenv"
)

func main() {
	// a missing .env is fine, the process env still applies
	envErr := godotenv.Load()

	// service-scoped config for HTTP etc (CORE_API_*), engine under CORE_WALK_*
	root := config.New()
	apiCfg := root.Prefix("CORE_API_")
	pgCfg := root.Prefix("SERVICE_PGSQL_") // pgCfg lives under SERVICE_PGSQL_*

	// bring up logging early
	l := logger.Get()
	if envErr != nil {
		l.Debug().Err(envErr).Msg("no .env loaded")
	}

	wopts := walkermod.FromConfig(root)

	// open only the store the corpus source needs
	cfg := store.Config{AppName: "sylwalk-api"}
	switch wopts.Source {
	case walkerrepo.KindPG:
		cfg.PG = store.PGConfig{
			Enabled:     true,
			URL:         pgCfg.MustString("DBURL"),
			MaxConns:    int32(pgCfg.MayInt("MAX_CONNS", 4)),
			SlowQueryMs: pgCfg.MayInt("SLOW_MS", 500),
			LogSQL:      pgCfg.MayBool("LOG_SQL", false),
		}
	case walkerrepo.KindSQLite:
		cfg.Lite = store.LiteConfig{Enabled: true, Path: wopts.Path, ReadOnly: true, BusyMs: 5000}
	}
	st, err := store.Open(context.Background(), cfg, store.WithLogger(*l))
	if err != nil {
		l.Panic().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()

	// load the corpus and build the graph before listening
	walker, err := walkermod.Open(context.Background(), modkit.Deps{Cfg: root, PG: st.PG, Lite: st.Lite, Log: *l}, wopts)
	if err != nil {
		l.Panic().Err(err).Str("source", wopts.Source).Str("path", wopts.Path).Msg("walker load failed")
	}

	// http server (reads CORE_API_PORT / CORE_API_SHUTDOWN_GRACE_MS)
	srv := phttp.NewServer(apiCfg)

	// mount our API
	api.Mount(
		srv.Router(),
		api.Options{
			Config:         root,
			Store:          st,
			Logger:         l,
			Walker:         walker,
			EnableSwagger:  apiCfg.MayBool("SWAGGER", true),
			EnableProfiler: apiCfg.MayBool("PROFILER", false),
		},
	)

	// run until SIGINT or SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := srv.Run(ctx); err != nil {
		l.Error().Err(err).Msg("http server stopped")
	}
}
