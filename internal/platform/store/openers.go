package store

import (
	"context"
	"fmt"
	"time"

	"sylwalk/internal/platform/store/lite"
	"sylwalk/internal/platform/store/pg"
)

const (
	defaultConnectRetries = 6
	defaultPingTimeout    = 5 * time.Second
	backoffStart          = 250 * time.Millisecond
	backoffCeiling        = 16 * time.Second
)

// openPG opens the pool and waits for the server with exponential backoff
// the adapter is only returned once a ping succeeded
func openPG(ctx context.Context, cfg Config) (TxRunner, error) {
	pool, err := pg.Open(ctx, pg.Config{URL: cfg.PG.URL, MaxConns: cfg.PG.MaxConns, AppName: cfg.AppName})
	if err != nil {
		return nil, fmt.Errorf("postgres open: %w", err)
	}

	attempts := cfg.PG.ConnectRetries
	if attempts <= 0 {
		attempts = defaultConnectRetries
	}
	timeout := cfg.PG.PingTimeout
	if timeout <= 0 {
		timeout = defaultPingTimeout
	}

	var lastErr error
	backoff := backoffStart
	for i := range attempts {
		pctx, cancel := context.WithTimeout(ctx, timeout)
		lastErr = pool.Ping(pctx)
		cancel()
		if lastErr == nil {
			return &pgAdapter{pool: pool}, nil
		}
		if i == attempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			pool.Close()
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
		backoff = min(backoff*2, backoffCeiling)
	}

	pool.Close()
	return nil, fmt.Errorf("postgres ping failed after %d attempts: %w", attempts, lastErr)
}

// openLite opens the sqlite file and wraps it with the database/sql adapter
func openLite(ctx context.Context, cfg Config, s *Store) (TxRunner, error) {
	l, err := lite.Open(ctx, lite.Config{Path: cfg.Lite.Path, ReadOnly: cfg.Lite.ReadOnly, BusyMs: cfg.Lite.BusyMs})
	if err != nil {
		return nil, fmt.Errorf("sqlite open %s: %w", cfg.Lite.Path, err)
	}
	s.Log.Debug().Str("path", cfg.Lite.Path).Bool("read_only", cfg.Lite.ReadOnly).Msg("store: sqlite opened")
	return newLiteAdapter(l), nil
}
