package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/go-sql-driver/mysql"
	"go.uber.org/zap"

	apperrors "stockkeeper/internal/errors"
)

// Runner opens a transaction per unit of work, commits it when fn succeeds
// and rolls it back on every other exit path. Deadlocks restart the whole
// unit of work.
type Runner struct {
	db          TxManager
	logger      *zap.Logger
	timeout     time.Duration
	maxAttempts int
	sleep       func(time.Duration)
}

func NewRunner(db TxManager, logger *zap.Logger, timeout time.Duration, maxAttempts int) *Runner {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	if maxAttempts <= 0 {
		maxAttempts = 1
	}
	return &Runner{
		db:          db,
		logger:      logger,
		timeout:     timeout,
		maxAttempts: maxAttempts,
		sleep:       time.Sleep,
	}
}

func (r *Runner) Run(ctx context.Context, op string, fn TxFunc) error {
	// Backoff intervals: attempt 1 (0ms), attempt 2 (100ms), attempt 3 (200ms), etc.
	backoffs := []time.Duration{0, 100 * time.Millisecond, 200 * time.Millisecond}

	for attempt := 1; attempt <= r.maxAttempts; attempt++ {
		err := r.runOnce(ctx, fn)
		if err == nil {
			return nil
		}

		if !IsDeadlock(err) {
			return err
		}

		if attempt == r.maxAttempts {
			break
		}

		base := backoffs[len(backoffs)-1]
		if attempt < len(backoffs) {
			base = backoffs[attempt]
		}
		// ±20% jitter
		jitter := time.Duration(float64(base) * (rand.Float64()*0.4 - 0.2))
		r.logger.Warn("deadlock detected, retrying",
			zap.String("op", op),
			zap.Int("attempt", attempt),
			zap.Int("maxAttempts", r.maxAttempts),
		)
		r.sleep(base + jitter)
	}

	r.logger.Error("deadlock retries exhausted", zap.String("op", op), zap.Int("maxAttempts", r.maxAttempts))
	return apperrors.NewDeadlockError("max retries exceeded")
}

func (r *Runner) runOnce(ctx context.Context, fn TxFunc) error {
	txCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	tx, err := r.db.BeginTx(txCtx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead})
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	// Rollback after Commit is a no-op.
	defer tx.Rollback()

	if err := fn(txCtx, tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

func IsDeadlock(err error) bool {
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == 1213 || mysqlErr.Number == 1205
	}
	return false
}

func IsDuplicateKey(err error) bool {
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == 1062
	}
	return false
}
