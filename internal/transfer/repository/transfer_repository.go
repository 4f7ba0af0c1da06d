package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"stockkeeper/internal/domain"
	"stockkeeper/internal/store"
)

type MySQLTransferRepository struct {
	db *sqlx.DB
}

func NewMySQLTransferRepository(db *sqlx.DB) *MySQLTransferRepository {
	return &MySQLTransferRepository{db: db}
}

// Insert appends a transfer. Rows are never updated afterwards.
func (r *MySQLTransferRepository) Insert(ctx context.Context, tx store.Tx, t *domain.Transfer) (int64, error) {
	query := `INSERT INTO transfers (seller_id, product_id, quantity, type, status, initiated_by, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`

	result, err := tx.ExecContext(ctx, query,
		t.SellerID, t.ProductID, t.Quantity, t.Type, t.Status, t.InitiatedBy, t.CreatedAt,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting transfer: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting transfer id: %w", err)
	}
	return id, nil
}

func (r *MySQLTransferRepository) List(ctx context.Context, filter domain.TransferFilter) ([]domain.TransferDetail, error) {
	var (
		conds []string
		args  []interface{}
	)
	if filter.SellerID != 0 {
		conds = append(conds, "t.seller_id = ?")
		args = append(args, filter.SellerID)
	}
	if filter.ProductID != 0 {
		conds = append(conds, "t.product_id = ?")
		args = append(args, filter.ProductID)
	}
	if filter.Type != "" {
		conds = append(conds, "t.type = ?")
		args = append(args, filter.Type)
	}

	query := `
		SELECT t.id, t.seller_id, t.product_id, t.quantity, t.type, t.status, t.initiated_by, t.created_at,
		       u.full_name AS seller_name, p.name AS product_name
		FROM transfers t
		JOIN users u ON u.id = t.seller_id
		JOIN products p ON p.id = t.product_id`
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, " AND ")
	}
	query += ` ORDER BY t.created_at DESC, t.id DESC LIMIT ?`
	args = append(args, filter.Limit)

	transfers := []domain.TransferDetail{}
	if err := r.db.SelectContext(ctx, &transfers, query, args...); err != nil {
		return nil, fmt.Errorf("listing transfers: %w", err)
	}
	return transfers, nil
}
