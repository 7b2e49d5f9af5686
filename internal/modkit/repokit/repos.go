// Package repokit provides the seams sql repos are written against
package repokit

import (
	"context"

	perr "sylwalk/internal/platform/errors"
	"sylwalk/internal/platform/store"
)

// Queryer is the read and write surface a bound repo sees
type Queryer = store.RowQuerier

// TxRunner runs a function inside a transaction
type TxRunner = store.TxRunner

// TxAttempts bounds how often WithTx runs fn when the store reports a transient failure
const TxAttempts = 3

// WithTx runs fn in a transaction on tx
// fn is rerun in a fresh transaction while the failure is retryable, so it must not
// keep side effects outside the transaction
func WithTx(ctx context.Context, tx TxRunner, fn func(q Queryer) error) error {
	var err error
	for range TxAttempts {
		if err = tx.Tx(ctx, fn); err == nil || !perr.IsRetryable(err) || ctx.Err() != nil {
			return err
		}
	}
	return err
}
