package store

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	apperrors "stockkeeper/internal/errors"
)

type fakeTx struct {
	Querier
	commits   int
	rollbacks int
	commitErr error
}

func (f *fakeTx) Commit() error {
	f.commits++
	return f.commitErr
}

func (f *fakeTx) Rollback() error {
	f.rollbacks++
	return nil
}

type mockTxManager struct {
	BeginTxFunc func(ctx context.Context, opts *sql.TxOptions) (Tx, error)
}

func (m *mockTxManager) BeginTx(ctx context.Context, opts *sql.TxOptions) (Tx, error) {
	return m.BeginTxFunc(ctx, opts)
}

func newTestRunner(mgr TxManager, maxAttempts int) *Runner {
	r := NewRunner(mgr, zap.NewNop(), time.Second, maxAttempts)
	r.sleep = func(time.Duration) {}
	return r
}

func deadlockError() error {
	return &mysql.MySQLError{Number: 1213}
}

func TestRunner_CommitsOnSuccess(t *testing.T) {
	tx := &fakeTx{}
	var isolation sql.IsolationLevel
	mgr := &mockTxManager{BeginTxFunc: func(ctx context.Context, opts *sql.TxOptions) (Tx, error) {
		isolation = opts.Isolation
		return tx, nil
	}}

	err := newTestRunner(mgr, 3).Run(context.Background(), "test", func(ctx context.Context, got Tx) error {
		assert.Same(t, tx, got)
		_, hasDeadline := ctx.Deadline()
		assert.True(t, hasDeadline)
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 1, tx.commits)
	assert.Equal(t, sql.LevelRepeatableRead, isolation)
}

func TestRunner_RollsBackOnError(t *testing.T) {
	tx := &fakeTx{}
	mgr := &mockTxManager{BeginTxFunc: func(ctx context.Context, opts *sql.TxOptions) (Tx, error) {
		return tx, nil
	}}
	boom := apperrors.NewInsufficientStockError(5, 1)

	err := newTestRunner(mgr, 3).Run(context.Background(), "test", func(ctx context.Context, tx Tx) error {
		return boom
	})

	assert.Same(t, boom, err)
	assert.Equal(t, 0, tx.commits)
	assert.Equal(t, 1, tx.rollbacks)
}

func TestRunner_BeginFailure(t *testing.T) {
	mgr := &mockTxManager{BeginTxFunc: func(ctx context.Context, opts *sql.TxOptions) (Tx, error) {
		return nil, errors.New("connection refused")
	}}

	called := false
	err := newTestRunner(mgr, 3).Run(context.Background(), "test", func(ctx context.Context, tx Tx) error {
		called = true
		return nil
	})

	require.Error(t, err)
	assert.False(t, called)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestRunner_CommitFailure(t *testing.T) {
	tx := &fakeTx{commitErr: errors.New("lost connection")}
	mgr := &mockTxManager{BeginTxFunc: func(ctx context.Context, opts *sql.TxOptions) (Tx, error) {
		return tx, nil
	}}

	err := newTestRunner(mgr, 3).Run(context.Background(), "test", func(ctx context.Context, tx Tx) error {
		return nil
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "committing transaction")
}

func TestRunner_DeadlockRetry(t *testing.T) {
	attempts := 0
	mgr := &mockTxManager{BeginTxFunc: func(ctx context.Context, opts *sql.TxOptions) (Tx, error) {
		return &fakeTx{}, nil
	}}

	err := newTestRunner(mgr, 3).Run(context.Background(), "test", func(ctx context.Context, tx Tx) error {
		attempts++
		if attempts < 2 {
			return deadlockError()
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 2, attempts)
}

func TestRunner_DeadlockMaxRetries(t *testing.T) {
	attempts := 0
	mgr := &mockTxManager{BeginTxFunc: func(ctx context.Context, opts *sql.TxOptions) (Tx, error) {
		return &fakeTx{}, nil
	}}

	err := newTestRunner(mgr, 3).Run(context.Background(), "test", func(ctx context.Context, tx Tx) error {
		attempts++
		return &mysql.MySQLError{Number: 1205}
	})

	assert.Equal(t, 3, attempts)
	_, ok := apperrors.IsDeadlockError(err)
	assert.True(t, ok)
}

func TestIsDuplicateKey(t *testing.T) {
	assert.True(t, IsDuplicateKey(&mysql.MySQLError{Number: 1062}))
	assert.False(t, IsDuplicateKey(deadlockError()))
	assert.False(t, IsDuplicateKey(errors.New("other")))
}
