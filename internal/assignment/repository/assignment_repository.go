package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"stockkeeper/internal/domain"
	"stockkeeper/internal/store"
)

type MySQLAssignmentRepository struct {
	db *sqlx.DB
}

func NewMySQLAssignmentRepository(db *sqlx.DB) *MySQLAssignmentRepository {
	return &MySQLAssignmentRepository{db: db}
}

func (r *MySQLAssignmentRepository) FindForUpdate(ctx context.Context, tx store.Tx, sellerID, productID int64) (*domain.Assignment, error) {
	query := `
		SELECT id, seller_id, product_id, is_active, assigned_at, unassigned_at
		FROM seller_products
		WHERE seller_id = ? AND product_id = ?
		FOR UPDATE
	`

	var a domain.Assignment
	err := tx.GetContext(ctx, &a, query, sellerID, productID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying assignment: %w", err)
	}
	return &a, nil
}

// Activate is a single upsert on the (seller_id, product_id) unique key.
// MySQL evaluates the assignments left to right, so is_active is updated
// last and the IFs still see the old flag.
func (r *MySQLAssignmentRepository) Activate(ctx context.Context, tx store.Tx, sellerID, productID int64, at time.Time) error {
	query := `
		INSERT INTO seller_products (seller_id, product_id, is_active, assigned_at, unassigned_at)
		VALUES (?, ?, 1, ?, NULL)
		ON DUPLICATE KEY UPDATE
			assigned_at = IF(is_active = 1, assigned_at, VALUES(assigned_at)),
			unassigned_at = IF(is_active = 1, unassigned_at, NULL),
			is_active = 1
	`

	if _, err := tx.ExecContext(ctx, query, sellerID, productID, at); err != nil {
		return fmt.Errorf("activating assignment: %w", err)
	}
	return nil
}

func (r *MySQLAssignmentRepository) Deactivate(ctx context.Context, tx store.Tx, sellerID, productID int64, at time.Time) (bool, error) {
	query := `
		UPDATE seller_products
		SET is_active = 0, unassigned_at = ?
		WHERE seller_id = ? AND product_id = ? AND is_active = 1
	`

	result, err := tx.ExecContext(ctx, query, at, sellerID, productID)
	if err != nil {
		return false, fmt.Errorf("deactivating assignment: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("getting rows affected: %w", err)
	}
	return rowsAffected > 0, nil
}

func (r *MySQLAssignmentRepository) ListBySeller(ctx context.Context, sellerID int64, activeOnly bool) ([]domain.Assignment, error) {
	query := `
		SELECT id, seller_id, product_id, is_active, assigned_at, unassigned_at
		FROM seller_products
		WHERE seller_id = ?`
	if activeOnly {
		query += ` AND is_active = 1`
	}
	query += ` ORDER BY product_id`

	assignments := []domain.Assignment{}
	if err := r.db.SelectContext(ctx, &assignments, query, sellerID); err != nil {
		return nil, fmt.Errorf("listing assignments: %w", err)
	}
	return assignments, nil
}
