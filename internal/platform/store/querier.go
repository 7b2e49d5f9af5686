package store

import "context"

// Row is the result of QueryRow, errors surface on Scan
type Row interface {
	Scan(dest ...any) error
}

// Rows is a forward only cursor, callers must Close it
type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Columns() []string
	Err() error
	Close()
}

// CommandTag summarises an Exec
type CommandTag interface {
	RowsAffected() int64
	String() string
}

// RowQuerier is the sql surface shared by pools, connections and transactions
type RowQuerier interface {
	Query(ctx context.Context, sql string, args ...any) (Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) Row
	Exec(ctx context.Context, sql string, args ...any) (CommandTag, error)
}

// TxRunner is a RowQuerier that can also scope fn to one transaction
// fn returning an error rolls the transaction back
type TxRunner interface {
	RowQuerier
	Tx(ctx context.Context, fn func(q RowQuerier) error) error
}

// Pinger is implemented by backends that can report liveness
type Pinger interface{ Ping(context.Context) error }
