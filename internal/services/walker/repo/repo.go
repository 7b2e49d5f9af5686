// Package repo provides sql access to corpus databases
//
// The table shape is the one written by the corpus sqlite builder: one row per
// syllable with its frequency and one 0/1 INTEGER column per feature, plus a
// key/value metadata table. Rows are read back in insertion order, which is
// the corpus index order.
package repo

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"sylwalk/internal/core/corpus"
	"sylwalk/internal/core/errs"
	"sylwalk/internal/modkit/repokit"
	perr "sylwalk/internal/platform/errors"
	"sylwalk/internal/platform/store"
)

// Repo defines the repository contract for corpus tables
type Repo interface {
	Records(ctx context.Context) ([]corpus.RawRecord, error)
	Metadata(ctx context.Context) (map[string]string, error)
	Count(ctx context.Context) (int, error)
	Migrate(ctx context.Context) error
	Insert(ctx context.Context, c *corpus.Corpus) (int, error)
	PutMetadata(ctx context.Context, kv map[string]string) error
}

type dialect struct {
	name  string
	order string
	ddl   []string
	ph    func(n int) string
}

type (
	// SQLite implements the Repo binder for sqlite corpus files
	SQLite struct{}

	// PG implements the Repo binder for Postgres
	PG struct{}

	// queries holds the database query methods
	queries struct {
		q repokit.Queryer
		d dialect
	}
)

var (
	sqliteDialect = dialect{
		name:  "sqlite",
		order: "rowid",
		ph:    func(int) string { return "?" },
		ddl: []string{
			`create table if not exists metadata (key text primary key, value text not null)`,
			`create table if not exists syllables (syllable text primary key, frequency integer not null, ` + featureDDL() + `)`,
			`create index if not exists idx_frequency on syllables(frequency desc)`,
		},
	}
	pgDialect = dialect{
		name:  "pg",
		order: "ord",
		ph:    func(n int) string { return "$" + strconv.Itoa(n) },
		ddl: []string{
			`create table if not exists metadata (key text primary key, value text not null)`,
			`create table if not exists syllables (ord bigserial unique, syllable text primary key, frequency integer not null, ` + featureDDL() + `)`,
			`create index if not exists idx_frequency on syllables(frequency desc)`,
		},
	}
)

// NewSQLite creates a sqlite repository binder
func NewSQLite() repokit.Binder[Repo] { return SQLite{} }

// Bind binds a sqlite queryer to the Repo implementation
func (SQLite) Bind(q repokit.Queryer) Repo { return &queries{q: q, d: sqliteDialect} }

// NewPG creates a new Postgres repository binder
func NewPG() repokit.Binder[Repo] { return PG{} }

// Bind binds a Postgres queryer to the Repo implementation
func (PG) Bind(q repokit.Queryer) Repo { return &queries{q: q, d: pgDialect} }

func featureDDL() string {
	cols := make([]string, 0, corpus.FeatureCount)
	for _, n := range corpus.FeatureNames {
		cols = append(cols, n+" integer not null")
	}
	return strings.Join(cols, ", ")
}

func columns() string {
	return "syllable, frequency, " + strings.Join(corpus.FeatureNames[:], ", ")
}

func (r *queries) Records(ctx context.Context) ([]corpus.RawRecord, error) {
	sql := "select " + columns() + " from syllables order by " + r.d.order
	rows, err := r.q.Query(ctx, sql)
	if err != nil {
		return nil, perr.FromStore(err, r.d.name+" read syllables")
	}
	defer rows.Close()

	var (
		out   []corpus.RawRecord
		flags [corpus.FeatureCount]int64
	)
	dest := make([]any, 2+corpus.FeatureCount)
	for i := range flags {
		dest[2+i] = &flags[i]
	}
	for rows.Next() {
		var rec corpus.RawRecord
		dest[0], dest[1] = &rec.Syllable, &rec.Frequency
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		rec.Features = make(corpus.FeatureList, corpus.FeatureCount)
		for i, v := range flags {
			if v != 0 && v != 1 {
				return nil, &errs.ValidationError{
					Index:  len(out),
					Record: rec.Syllable,
					Reason: fmt.Sprintf("feature %s must be 0 or 1, got %d", corpus.FeatureNames[i], v),
				}
			}
			rec.Features[i] = v == 1
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *queries) Metadata(ctx context.Context) (map[string]string, error) {
	pairs, err := store.Many(ctx, r.q, func(row store.Row) ([2]string, error) {
		var kv [2]string
		err := row.Scan(&kv[0], &kv[1])
		return kv, err
	}, `select key, value from metadata order by key`)
	if err != nil {
		return nil, perr.FromStore(err, r.d.name+" read metadata")
	}
	out := make(map[string]string, len(pairs))
	for _, kv := range pairs {
		out[kv[0]] = kv[1]
	}
	return out, nil
}

func (r *queries) Count(ctx context.Context) (int, error) {
	n, err := store.Scalar[int64](ctx, r.q, `select count(*) from syllables`)
	if err != nil {
		return 0, perr.FromStore(err, r.d.name+" count syllables")
	}
	return int(n), nil
}

func (r *queries) Migrate(ctx context.Context) error {
	for _, stmt := range r.d.ddl {
		if _, err := r.q.Exec(ctx, stmt); err != nil {
			return perr.FromStore(err, r.d.name+" migrate")
		}
	}
	return nil
}

func (r *queries) Insert(ctx context.Context, c *corpus.Corpus) (int, error) {
	phs := make([]string, 2+corpus.FeatureCount)
	for i := range phs {
		phs[i] = r.d.ph(i + 1)
	}
	sql := "insert into syllables (" + columns() + ") values (" + strings.Join(phs, ", ") + ")"

	args := make([]any, 2+corpus.FeatureCount)
	for i := range c.Len() {
		args[0], args[1] = c.Text(i), c.Frequency(i)
		v := c.Vector(i)
		for f := range corpus.FeatureCount {
			args[2+f] = 0
			if v.Has(f) {
				args[2+f] = 1
			}
		}
		if _, err := r.q.Exec(ctx, sql, args...); err != nil {
			return i, perr.FromStore(err, fmt.Sprintf("insert %q (index %d)", c.Text(i), i))
		}
	}
	return c.Len(), nil
}

func (r *queries) PutMetadata(ctx context.Context, kv map[string]string) error {
	sql := "insert into metadata (key, value) values (" + r.d.ph(1) + ", " + r.d.ph(2) + ")" +
		" on conflict (key) do update set value = excluded.value"
	for k, v := range kv {
		if _, err := r.q.Exec(ctx, sql, k, v); err != nil {
			return err
		}
	}
	return nil
}
