package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"sylwalk/internal/platform/store/lite"
)

// liteAdapter wraps lite.Lite and implements RowQuerier + TxRunner
type liteAdapter struct {
	l *lite.Lite
}

var _ TxRunner = (*liteAdapter)(nil)

func newLiteAdapter(l *lite.Lite) *liteAdapter { return &liteAdapter{l: l} }

// Ping verifies the database answers a trivial query
func (a *liteAdapter) Ping(ctx context.Context) error {
	if a == nil || a.l == nil {
		return errors.New("lite: nil adapter")
	}
	var one int
	return a.QueryRow(ctx, "SELECT 1").Scan(&one)
}

func (a *liteAdapter) Close() error { return a.l.Close() }

func (a *liteAdapter) Exec(ctx context.Context, q string, args ...any) (CommandTag, error) {
	return execOn(ctx, a.l.DB, q, args...)
}

func (a *liteAdapter) Query(ctx context.Context, q string, args ...any) (Rows, error) {
	return queryOn(ctx, a.l.DB, q, args...)
}

func (a *liteAdapter) QueryRow(ctx context.Context, q string, args ...any) Row {
	return a.l.DB.QueryRowContext(ctx, q, args...)
}

func (a *liteAdapter) Tx(ctx context.Context, fn func(q RowQuerier) error) error {
	tx, err := a.l.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(sqlTx{tx: tx}); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// execer and querier are the database/sql surfaces shared by *sql.DB and *sql.Tx
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func execOn(ctx context.Context, e execer, q string, args ...any) (CommandTag, error) {
	res, err := e.ExecContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	n, _ := res.RowsAffected()
	return sqlTag{n: n}, nil
}

func queryOn(ctx context.Context, qr querier, q string, args ...any) (Rows, error) {
	rs, err := qr.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	return sqlRows{r: rs}, nil
}

type sqlTx struct{ tx *sql.Tx }

func (t sqlTx) Exec(ctx context.Context, q string, args ...any) (CommandTag, error) {
	return execOn(ctx, t.tx, q, args...)
}

func (t sqlTx) Query(ctx context.Context, q string, args ...any) (Rows, error) {
	return queryOn(ctx, t.tx, q, args...)
}

func (t sqlTx) QueryRow(ctx context.Context, q string, args ...any) Row {
	return t.tx.QueryRowContext(ctx, q, args...)
}

// sqlRows adapts *sql.Rows to Rows
type sqlRows struct{ r *sql.Rows }

func (x sqlRows) Next() bool            { return x.r.Next() }
func (x sqlRows) Scan(dst ...any) error { return x.r.Scan(dst...) }
func (x sqlRows) Err() error            { return x.r.Err() }
func (x sqlRows) Close()                { _ = x.r.Close() }
func (x sqlRows) Columns() []string {
	cols, err := x.r.Columns()
	if err != nil {
		return nil
	}
	return cols
}

// sqlTag satisfies CommandTag from a sql.Result row count
type sqlTag struct{ n int64 }

func (t sqlTag) String() string      { return fmt.Sprintf("ROWS %d", t.n) }
func (t sqlTag) RowsAffected() int64 { return t.n }
