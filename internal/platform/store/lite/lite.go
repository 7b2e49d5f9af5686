// Package lite provides a sqlite client over database/sql using the pure Go driver
package lite

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"

	_ "modernc.org/sqlite"
)

// Config configures the sqlite client
type Config struct {
	Path     string
	ReadOnly bool
	// BusyMs is the busy_timeout pragma, 0 leaves the driver default
	BusyMs int
}

// Lite is a sqlite client
type Lite struct {
	DB   *sql.DB
	Path string
}

// DSN renders the driver data source name for cfg
func DSN(cfg Config) string {
	q := url.Values{}
	if cfg.ReadOnly {
		q.Set("mode", "ro")
	}
	if cfg.BusyMs > 0 {
		q.Add("_pragma", fmt.Sprintf("busy_timeout(%d)", cfg.BusyMs))
	}
	if len(q) == 0 {
		return "file:" + cfg.Path
	}
	return "file:" + cfg.Path + "?" + q.Encode()
}

// Open opens the database at cfg.Path and pings it
func Open(ctx context.Context, cfg Config) (*Lite, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("lite: empty path")
	}
	db, err := sql.Open("sqlite", DSN(cfg))
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Lite{DB: db, Path: cfg.Path}, nil
}

// Close closes the database
func (l *Lite) Close() error {
	if l == nil || l.DB == nil {
		return nil
	}
	return l.DB.Close()
}
