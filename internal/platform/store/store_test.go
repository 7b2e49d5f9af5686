package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openLiteStore(t *testing.T, opts ...Option) *Store {
	t.Helper()
	ctx := context.Background()
	s, err := Open(ctx, Config{Lite: LiteConfig{Enabled: true, Path: filepath.Join(t.TempDir(), "corpus.db"), BusyMs: 1000}}, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close(ctx) })
	return s
}

func TestOpen_NothingEnabled(t *testing.T) {
	s, err := Open(context.Background(), Config{})
	require.NoError(t, err)
	assert.Nil(t, s.PG)
	assert.Nil(t, s.Lite)
	assert.NoError(t, s.Guard(context.Background()))
	assert.NoError(t, s.Close(context.Background()))
}

func TestOpen_OptionError(t *testing.T) {
	boom := errors.New("bad option")
	_, err := Open(context.Background(), Config{}, func(*Store) error { return boom })
	assert.ErrorIs(t, err, boom)
}

func TestOpen_LiteMissingReadOnlyFile(t *testing.T) {
	_, err := Open(context.Background(), Config{Lite: LiteConfig{
		Enabled: true, Path: filepath.Join(t.TempDir(), "missing.db"), ReadOnly: true,
	}})
	require.Error(t, err)
}

func TestGuard(t *testing.T) {
	var nilStore *Store
	require.Error(t, nilStore.Guard(context.Background()))

	s := openLiteStore(t)
	assert.NoError(t, s.Guard(context.Background()))
}

func TestHelpers_ScalarAndMany(t *testing.T) {
	ctx := context.Background()
	s := openLiteStore(t)

	_, err := s.Lite.Exec(ctx, `create table syllables (syllable text primary key, frequency integer not null)`)
	require.NoError(t, err)
	for _, r := range []struct {
		text string
		freq int
	}{{"ka", 187}, {"ki", 92}, {"pai", 14}} {
		_, err := s.Lite.Exec(ctx, `insert into syllables values (?, ?)`, r.text, r.freq)
		require.NoError(t, err)
	}

	n, err := Scalar[int64](ctx, s.Lite, `select count(*) from syllables`)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	_, err = Scalar[string](ctx, s.Lite, `select syllable from syllables where frequency > 1000`)
	assert.Error(t, err)

	texts, err := Many(ctx, s.Lite, func(r Row) (string, error) {
		var s string
		return s, r.Scan(&s)
	}, `select syllable from syllables order by frequency desc`)
	require.NoError(t, err)
	assert.Equal(t, []string{"ka", "ki", "pai"}, texts)

	_, err = Many(ctx, s.Lite, func(r Row) (int, error) {
		var v int
		return v, r.Scan(&v, &v, &v)
	}, `select frequency from syllables`)
	assert.Error(t, err, "column count mismatch surfaces")

	_, err = Many(ctx, s.Lite, func(r Row) (int, error) { return 0, nil }, `select nope from nowhere`)
	assert.Error(t, err)
}

func TestTx_RollsBackOnError(t *testing.T) {
	ctx := context.Background()
	s := openLiteStore(t)
	_, err := s.Lite.Exec(ctx, `create table metadata (key text primary key, value text not null)`)
	require.NoError(t, err)

	boom := errors.New("abort import")
	err = s.Lite.Tx(ctx, func(q RowQuerier) error {
		if _, err := q.Exec(ctx, `insert into metadata values ('schema_version', '1')`); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	n, err := Scalar[int](ctx, s.Lite, `select count(*) from metadata`)
	require.NoError(t, err)
	assert.Zero(t, n)

	require.NoError(t, s.Lite.Tx(ctx, func(q RowQuerier) error {
		_, err := q.Exec(ctx, `insert into metadata values ('schema_version', '1')`)
		return err
	}))
	v, err := Scalar[string](ctx, s.Lite, `select value from metadata where key = 'schema_version'`)
	require.NoError(t, err)
	assert.Equal(t, "1", v)
}

func TestLiteRows_Columns(t *testing.T) {
	ctx := context.Background()
	s := openLiteStore(t)
	rows, err := s.Lite.Query(ctx, `select 1 as index_, 'ka' as syllable`)
	require.NoError(t, err)
	defer rows.Close()
	assert.Equal(t, []string{"index_", "syllable"}, rows.Columns())
}

type recorder struct {
	mu  sync.Mutex
	evs []QueryEvent
}

func (r *recorder) OnQuery(_ context.Context, ev QueryEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.evs = append(r.evs, ev)
}

func TestTracing_LiteWithLogSQL(t *testing.T) {
	ctx := context.Background()
	rec := &recorder{}
	s, err := Open(ctx, Config{Lite: LiteConfig{
		Enabled: true, Path: filepath.Join(t.TempDir(), "traced.db"), LogSQL: true,
	}}, WithTracer(rec))
	require.NoError(t, err)
	defer func() { _ = s.Close(ctx) }()

	_, err = s.Lite.Exec(ctx, "create table t (\n\tx integer\n)")
	require.NoError(t, err)
	require.NoError(t, s.Lite.Tx(ctx, func(q RowQuerier) error {
		_, err := q.Exec(ctx, `insert into t values (?)`, 7)
		return err
	}))
	var x int
	require.NoError(t, s.Lite.QueryRow(ctx, `select x from t`).Scan(&x))
	_, err = s.Lite.Query(ctx, `select missing from t`)
	require.Error(t, err)
	require.NoError(t, s.Guard(ctx))

	require.Len(t, rec.evs, 4, "ping is not traced")
	for _, ev := range rec.evs {
		assert.Equal(t, "lite", ev.Backend)
		assert.False(t, ev.Slow, "slow flag off without a threshold")
	}
	assert.Equal(t, []any{7}, rec.evs[1].Args)
	assert.NoError(t, rec.evs[2].Err)
	assert.Error(t, rec.evs[3].Err)
}

func TestTracing_OffByDefault(t *testing.T) {
	rec := &recorder{}
	s := openLiteStore(t, WithTracer(rec))
	_, err := s.Lite.Exec(context.Background(), `select 1`)
	require.NoError(t, err)
	assert.Empty(t, rec.evs)
}

func TestTracer_SlowFlag(t *testing.T) {
	rec := &recorder{}
	tr := tracer{backend: "pg", tr: rec, slow: 1}
	tr.emit(context.Background(), "select 1", nil, time.Now().Add(-time.Millisecond), nil)
	require.Len(t, rec.evs, 1)
	assert.True(t, rec.evs[0].Slow)
}

func TestLogTracer_Levels(t *testing.T) {
	var buf bytes.Buffer
	root := zerolog.New(&buf).Level(zerolog.WarnLevel)
	tr := LogTracer(root)

	tr.OnQuery(context.Background(), QueryEvent{Backend: "lite", SQL: "select\n  1", Elapsed: time.Millisecond})
	tr.OnQuery(context.Background(), QueryEvent{Backend: "lite", SQL: "select 2", Elapsed: time.Second, Slow: true})

	dec := json.NewDecoder(&buf)
	var fast, slow map[string]any
	require.NoError(t, dec.Decode(&fast))
	require.NoError(t, dec.Decode(&slow))

	assert.Equal(t, "info", fast["level"], "info survives a warn root")
	assert.Equal(t, "select 1", fast["sql"])
	assert.Equal(t, "sql", fast["component"])
	assert.Equal(t, "warn", slow["level"])
	assert.Equal(t, true, slow["slow"])
}
