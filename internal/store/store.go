package store

import (
	"context"
	"database/sql"
)

// Querier is satisfied by both *sqlx.DB and *sqlx.Tx.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
}

// Tx is the unit of work every stock mutation runs in.
type Tx interface {
	Querier
	Commit() error
	Rollback() error
}

type TxManager interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (Tx, error)
}

// TxFunc is the body of a unit of work. It must perform all of its reads and
// writes through tx.
type TxFunc func(ctx context.Context, tx Tx) error

type TxRunner interface {
	Run(ctx context.Context, op string, fn TxFunc) error
}
