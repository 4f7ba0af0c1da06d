package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"stockkeeper/internal/domain"
	apperrors "stockkeeper/internal/errors"
	"stockkeeper/internal/store"
)

const saleDetailQuery = `
	SELECT s.id, s.seller_id, s.product_id, s.quantity, s.price, s.total_amount,
	       s.customer_name, s.customer_phone, s.notes, s.created_at,
	       u.full_name AS seller_name, p.name AS product_name
	FROM sales s
	JOIN users u ON u.id = s.seller_id
	JOIN products p ON p.id = s.product_id`

type MySQLSaleRepository struct {
	db *sqlx.DB
}

func NewMySQLSaleRepository(db *sqlx.DB) *MySQLSaleRepository {
	return &MySQLSaleRepository{db: db}
}

func (r *MySQLSaleRepository) Insert(ctx context.Context, tx store.Tx, s *domain.Sale) (int64, error) {
	query := `INSERT INTO sales (seller_id, product_id, quantity, price, total_amount,
		customer_name, customer_phone, notes, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	result, err := tx.ExecContext(ctx, query,
		s.SellerID, s.ProductID, s.Quantity, s.Price, s.TotalAmount,
		s.CustomerName, s.CustomerPhone, s.Notes, s.CreatedAt,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting sale: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting sale id: %w", err)
	}
	return id, nil
}

func (r *MySQLSaleRepository) FindByID(ctx context.Context, id int64) (*domain.SaleDetail, error) {
	var s domain.SaleDetail
	err := r.db.GetContext(ctx, &s, saleDetailQuery+` WHERE s.id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewSaleNotFoundError(id)
	}
	if err != nil {
		return nil, fmt.Errorf("querying sale: %w", err)
	}
	return &s, nil
}

func (r *MySQLSaleRepository) List(ctx context.Context, filter domain.SaleFilter) ([]domain.SaleDetail, error) {
	var (
		conds []string
		args  []interface{}
	)
	if filter.SellerID != 0 {
		conds = append(conds, "s.seller_id = ?")
		args = append(args, filter.SellerID)
	}
	if filter.ProductID != 0 {
		conds = append(conds, "s.product_id = ?")
		args = append(args, filter.ProductID)
	}
	if filter.From != nil {
		conds = append(conds, "s.created_at >= ?")
		args = append(args, *filter.From)
	}
	if filter.To != nil {
		conds = append(conds, "s.created_at < ?")
		args = append(args, *filter.To)
	}

	query := saleDetailQuery
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, " AND ")
	}
	query += ` ORDER BY s.created_at DESC, s.id DESC LIMIT ?`
	args = append(args, filter.Limit)

	sales := []domain.SaleDetail{}
	if err := r.db.SelectContext(ctx, &sales, query, args...); err != nil {
		return nil, fmt.Errorf("listing sales: %w", err)
	}
	return sales, nil
}
