package repokit

import (
	"context"
	"errors"
	"testing"

	"sylwalk/internal/platform/store"

	"github.com/jackc/pgx/v5/pgconn"
)

type countingTx struct {
	store.RowQuerier
	calls int
	errs  []error
}

func (c *countingTx) Tx(_ context.Context, fn func(q store.RowQuerier) error) error {
	c.calls++
	if err := fn(nil); err != nil {
		return err
	}
	if len(c.errs) >= c.calls {
		return c.errs[c.calls-1]
	}
	return nil
}

func TestWithTx_RetriesTransientFailures(t *testing.T) {
	tx := &countingTx{errs: []error{&pgconn.PgError{Code: "40001"}, nil}}
	if err := WithTx(context.Background(), tx, func(Queryer) error { return nil }); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tx.calls != 2 {
		t.Fatalf("calls = %d, want 2", tx.calls)
	}
}

func TestWithTx_GivesUpAfterAttempts(t *testing.T) {
	deadlock := &pgconn.PgError{Code: "40P01"}
	tx := &countingTx{errs: []error{deadlock, deadlock, deadlock, deadlock}}
	err := WithTx(context.Background(), tx, func(Queryer) error { return nil })
	if !errors.Is(err, deadlock) {
		t.Fatalf("err = %v", err)
	}
	if tx.calls != TxAttempts {
		t.Fatalf("calls = %d, want %d", tx.calls, TxAttempts)
	}
}

func TestWithTx_DoesNotRetryOtherErrors(t *testing.T) {
	boom := errors.New("syllable rejected")
	tx := &countingTx{}
	err := WithTx(context.Background(), tx, func(Queryer) error { return boom })
	if !errors.Is(err, boom) || tx.calls != 1 {
		t.Fatalf("err = %v, calls = %d", err, tx.calls)
	}
}

func TestBindFunc(t *testing.T) {
	var b Binder[string] = BindFunc[string](func(q Queryer) string {
		if q == nil {
			return "unbound"
		}
		return "bound"
	})
	if got := b.Bind(nil); got != "unbound" {
		t.Fatalf("Bind = %q", got)
	}
}
