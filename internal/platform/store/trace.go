package store

import (
	"context"
	"strings"
	"time"

	"sylwalk/internal/platform/logger"

	"github.com/rs/zerolog"
)

// QueryEvent describes one statement run through a traced backend
type QueryEvent struct {
	Backend string
	SQL     string
	Args    []any
	Elapsed time.Duration
	Err     error
	Slow    bool
}

// QueryTracer receives an event per statement
type QueryTracer interface {
	OnQuery(ctx context.Context, ev QueryEvent)
}

// TracerFunc adapts a function to QueryTracer
type TracerFunc func(ctx context.Context, ev QueryEvent)

// OnQuery calls f
func (f TracerFunc) OnQuery(ctx context.Context, ev QueryEvent) { f(ctx, ev) }

// LogTracer logs every statement at info and slow ones at warn
// the sink's own level is lowered to debug so a stricter root level does not hide them
func LogTracer(root logger.Logger) QueryTracer {
	l := root.Level(zerolog.DebugLevel).With().Str("component", "sql").Logger()
	return TracerFunc(func(_ context.Context, ev QueryEvent) {
		evt := l.Info()
		if ev.Slow {
			evt = l.Warn()
		}
		evt.Str("backend", ev.Backend).
			Float64("elapsed_ms", float64(ev.Elapsed.Microseconds())/1000).
			Bool("slow", ev.Slow).
			Str("sql", strings.Join(strings.Fields(ev.SQL), " ")).
			Int("args", len(ev.Args)).
			Err(ev.Err).
			Msg("sql query")
	})
}

// tracer wraps a RowQuerier and reports each statement
type tracer struct {
	q       RowQuerier
	backend string
	tr      QueryTracer
	slow    time.Duration // 0 disables the slow flag
}

func (t tracer) emit(ctx context.Context, sql string, args []any, start time.Time, err error) {
	d := time.Since(start)
	t.tr.OnQuery(ctx, QueryEvent{
		Backend: t.backend,
		SQL:     sql,
		Args:    args,
		Elapsed: d,
		Err:     err,
		Slow:    t.slow > 0 && d >= t.slow,
	})
}

func (t tracer) Exec(ctx context.Context, sql string, args ...any) (CommandTag, error) {
	start := time.Now()
	ct, err := t.q.Exec(ctx, sql, args...)
	t.emit(ctx, sql, args, start, err)
	return ct, err
}

func (t tracer) Query(ctx context.Context, sql string, args ...any) (Rows, error) {
	start := time.Now()
	rs, err := t.q.Query(ctx, sql, args...)
	t.emit(ctx, sql, args, start, err)
	return rs, err
}

// QueryRow reports once Scan ran, so the event carries the scan error
func (t tracer) QueryRow(ctx context.Context, sql string, args ...any) Row {
	start := time.Now()
	return tracedRow{
		r: t.q.QueryRow(ctx, sql, args...),
		after: func(err error) {
			t.emit(ctx, sql, args, start, err)
		},
	}
}

type tracedRow struct {
	r     Row
	after func(error)
}

func (x tracedRow) Scan(dst ...any) error {
	err := x.r.Scan(dst...)
	x.after(err)
	return err
}

// tracedRunner traces a backend and every transaction it opens
type tracedRunner struct {
	tracer
	inner TxRunner
}

func traceRunner(inner TxRunner, backend string, tr QueryTracer, slowMs int) *tracedRunner {
	return &tracedRunner{
		tracer: tracer{q: inner, backend: backend, tr: tr, slow: time.Duration(slowMs) * time.Millisecond},
		inner:  inner,
	}
}

func (t *tracedRunner) Tx(ctx context.Context, fn func(q RowQuerier) error) error {
	return t.inner.Tx(ctx, func(q RowQuerier) error {
		tq := t.tracer
		tq.q = q
		return fn(tq)
	})
}

// Ping forwards to the backend, untraced
func (t *tracedRunner) Ping(ctx context.Context) error {
	if p, ok := t.inner.(Pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}

// Close forwards to the backend
func (t *tracedRunner) Close() error {
	if c, ok := t.inner.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}
