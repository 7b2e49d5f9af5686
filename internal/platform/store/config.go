package store

import "time"

// Config aggregates per backend configuration, AppName labels connections
type Config struct {
	AppName string

	PG   PGConfig
	Lite LiteConfig
}

// PGConfig configures a postgres corpus store
type PGConfig struct {
	Enabled     bool
	URL         string
	MaxConns    int32
	LogSQL      bool
	SlowQueryMs int

	ConnectRetries int           // ping attempts before Open gives up, default 6
	PingTimeout    time.Duration // per attempt, default 5s
}

// LiteConfig configures a sqlite corpus file
type LiteConfig struct {
	Enabled     bool
	Path        string
	ReadOnly    bool
	BusyMs      int
	LogSQL      bool
	SlowQueryMs int
}
