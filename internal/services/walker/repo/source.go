package repo

import (
	"context"
	"os"
	"strconv"

	"sylwalk/internal/core/corpus"
	"sylwalk/internal/core/version"
	"sylwalk/internal/modkit/repokit"
	perr "sylwalk/internal/platform/errors"
	"sylwalk/internal/services/walker/domain"
)

// Source kinds
const (
	KindJSON   = "json"
	KindSQLite = "sqlite"
	KindPG     = "pg"
)

// File reads an annotated JSON corpus file
type File struct{ Path string }

// NewFile returns a JSON file source
func NewFile(path string) File { return File{Path: path} }

// Info implements domain.CorpusSource
func (f File) Info(context.Context) (domain.SourceInfo, error) {
	return domain.SourceInfo{Kind: KindJSON, Location: f.Path}, nil
}

// Records implements domain.CorpusSource
func (f File) Records(context.Context) ([]corpus.RawRecord, error) {
	fh, err := os.Open(f.Path)
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeConfig, "open corpus file %s", f.Path)
	}
	defer fh.Close()
	return corpus.DecodeJSON(fh)
}

// SQL reads a corpus table through a bound repo
type SQL struct {
	kind     string
	location string
	repo     Repo
}

// NewSQL binds b to db and returns a corpus source of the given kind
func NewSQL(kind, location string, db repokit.TxRunner, b repokit.Binder[Repo]) *SQL {
	if db == nil {
		panic("walker.repo.SQL requires a non nil TxRunner")
	}
	if b == nil {
		panic("walker.repo.SQL requires a non nil Repo binder")
	}
	return &SQL{kind: kind, location: location, repo: b.Bind(db)}
}

// Info implements domain.CorpusSource
func (s *SQL) Info(ctx context.Context) (domain.SourceInfo, error) {
	md, err := s.repo.Metadata(ctx)
	if err != nil {
		return domain.SourceInfo{}, err
	}
	n, err := s.repo.Count(ctx)
	if err != nil {
		return domain.SourceInfo{}, err
	}
	return domain.SourceInfo{Kind: s.kind, Location: s.location, Rows: n, Metadata: md}, nil
}

// Records implements domain.CorpusSource
func (s *SQL) Records(ctx context.Context) ([]corpus.RawRecord, error) {
	return s.repo.Records(ctx)
}

// Import writes c and its metadata into db inside one transaction
// the tables are created when missing
func Import(ctx context.Context, db repokit.TxRunner, b repokit.Binder[Repo], c *corpus.Corpus, source string) (int, error) {
	var n int
	err := repokit.WithTx(ctx, db, func(q repokit.Queryer) error {
		r := b.Bind(q)
		if err := r.Migrate(ctx); err != nil {
			return err
		}
		var err error
		if n, err = r.Insert(ctx, c); err != nil {
			return err
		}
		return r.PutMetadata(ctx, map[string]string{
			"schema_version":   "1",
			"source_tool":      "sylwalk-corpus",
			"source_version":   version.For("sylwalk-corpus").Version,
			"total_syllables":  strconv.Itoa(c.Len()),
			"source_json_path": source,
		})
	})
	return n, err
}
