// Package logger is the process wide zerolog root plus context scoped children
//
// The root configures itself from LOG_* on first use unless Init ran earlier.
// Handlers log through C(ctx) so request and walk ids ride along.
package logger

import (
	"context"
	"io"
	"os"
	"runtime/debug"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"sylwalk/internal/platform/config/raw"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/pkgerrors"
)

// Logger is the logging type used across the module
type Logger = zerolog.Logger

// Options configures the root logger
type Options struct {
	Level        string // trace..panic, unknown values mean debug
	Format       string // console or json
	Service      string
	Component    string
	Writer       io.Writer // defaults to stdout
	WithCaller   bool
	SampleEvery  int // keep one event in N, below 2 keeps all
	StaticFields map[string]string
}

// FromEnv reads LOG_LEVEL, LOG_FORMAT, LOG_SERVICE, LOG_COMPONENT,
// LOG_CALLER and LOG_SAMPLE_EVERY
func FromEnv() Options {
	env := raw.New().Prefix("LOG_")
	return Options{
		Level:       strings.ToLower(env.Get("LEVEL", "debug")),
		Format:      strings.ToLower(env.Get("FORMAT", "console")),
		Service:     env.Get("SERVICE", ""),
		Component:   env.Get("COMPONENT", ""),
		WithCaller:  env.GetBool("CALLER", false),
		SampleEvery: env.GetInt("SAMPLE_EVERY", 0),
	}
}

var (
	once sync.Once
	root atomic.Pointer[Logger]
)

// Get returns the root logger, initializing it from the environment if needed
func Get() *Logger {
	if l := root.Load(); l != nil {
		return l
	}
	Init(FromEnv())
	return root.Load()
}

// Init builds the root logger, only the first call has an effect
func Init(opt Options) {
	once.Do(func() { root.Store(build(opt)) })
}

func build(opt Options) *Logger {
	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack
	zerolog.TimeFieldFormat = time.RFC3339Nano

	w := opt.Writer
	if w == nil {
		w = os.Stdout
	}
	if opt.Format == "console" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}

	fields := map[string]string{}
	if bi, ok := debug.ReadBuildInfo(); ok {
		fields["go_version"] = bi.GoVersion
	}
	for k, v := range map[string]string{"service": opt.Service, "component": opt.Component} {
		if v != "" {
			fields[k] = v
		}
	}
	for k, v := range opt.StaticFields {
		fields[k] = v
	}

	zc := zerolog.New(w).Level(parseLevel(opt.Level)).With().Timestamp()
	for k, v := range fields {
		zc = zc.Str(k, v)
	}
	if opt.WithCaller {
		zc = zc.Caller()
	}
	l := zc.Logger()
	if opt.SampleEvery > 1 {
		l = l.Sample(&zerolog.BasicSampler{N: uint32(opt.SampleEvery)})
	}
	return &l
}

// parseLevel accepts zerolog level names plus "warning"
func parseLevel(s string) zerolog.Level {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "warning" {
		s = "warn"
	}
	lvl, err := zerolog.ParseLevel(s)
	if err != nil || s == "" || lvl == zerolog.NoLevel || lvl == zerolog.Disabled {
		return zerolog.DebugLevel
	}
	return lvl
}

type ctxKey string

// scoped lists the context values C copies onto log events, in field order
var scoped = []struct {
	key   ctxKey
	field string
}{
	{"req_id", "request_id"},
	{"walk_id", "walk_id"},
}

func with(ctx context.Context, key ctxKey, v string) context.Context {
	if v == "" {
		return ctx
	}
	return context.WithValue(ctx, key, v)
}

// WithRequest tags ctx with the request id
func WithRequest(ctx context.Context, reqID string) context.Context {
	return with(ctx, "req_id", reqID)
}

// WithWalk tags ctx with the id of the walk or batch being served
func WithWalk(ctx context.Context, walkID string) context.Context {
	return with(ctx, "walk_id", walkID)
}

// C returns a child of the root carrying the ids found on ctx
func C(ctx context.Context) *Logger {
	zc := Get().With()
	for _, s := range scoped {
		if v, _ := ctx.Value(s.key).(string); v != "" {
			zc = zc.Str(s.field, v)
		}
	}
	l := zc.Logger()
	return &l
}

// Named returns a child of the root with a component field
func Named(component string) *Logger {
	if component == "" {
		return Get()
	}
	l := Get().With().Str("component", component).Logger()
	return &l
}
