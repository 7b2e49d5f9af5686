// Package pg opens pgx pools for corpus databases
package pg

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Config configures the pool
type Config struct {
	URL      string
	MaxConns int32
	AppName  string // reported as application_name, empty keeps the URL's
}

// newPool is swapped by tests
var newPool = pgxpool.NewWithConfig

// Open parses cfg.URL and creates a pool, it does not wait for the server
func Open(ctx context.Context, cfg Config) (*pgxpool.Pool, error) {
	pcfg, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, err
	}
	if cfg.MaxConns > 0 {
		pcfg.MaxConns = cfg.MaxConns
	}
	if cfg.AppName != "" {
		pcfg.ConnConfig.RuntimeParams["application_name"] = cfg.AppName
	}
	return newPool(ctx, pcfg)
}
