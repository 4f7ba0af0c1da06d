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

const stockColumns = `id, seller_id, product_id, quantity, last_transfer_date, created_at, updated_at`

type MySQLSellerStockRepository struct {
	db *sqlx.DB
}

func NewMySQLSellerStockRepository(db *sqlx.DB) *MySQLSellerStockRepository {
	return &MySQLSellerStockRepository{db: db}
}

// where builds the row filter for one call; nothing is shared between calls.
func where(sel domain.StockSelector) (string, []interface{}) {
	if sel.ByID() {
		return "id = ?", []interface{}{sel.StockID}
	}
	return "seller_id = ? AND product_id = ?", []interface{}{sel.SellerID, sel.ProductID}
}

func (r *MySQLSellerStockRepository) Find(ctx context.Context, sel domain.StockSelector) (*domain.SellerStock, error) {
	clause, args := where(sel)
	return r.get(ctx, r.db, `SELECT `+stockColumns+` FROM seller_stocks WHERE `+clause, args)
}

func (r *MySQLSellerStockRepository) FindForUpdate(ctx context.Context, tx store.Tx, sel domain.StockSelector) (*domain.SellerStock, error) {
	clause, args := where(sel)
	return r.get(ctx, tx, `SELECT `+stockColumns+` FROM seller_stocks WHERE `+clause+` FOR UPDATE`, args)
}

func (r *MySQLSellerStockRepository) get(ctx context.Context, q store.Querier, query string, args []interface{}) (*domain.SellerStock, error) {
	var stock domain.SellerStock
	err := q.GetContext(ctx, &stock, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying seller stock: %w", err)
	}
	return &stock, nil
}

func (r *MySQLSellerStockRepository) Increment(ctx context.Context, tx store.Tx, sel domain.StockSelector, amount int, at time.Time) (bool, error) {
	clause, args := where(sel)
	query := `UPDATE seller_stocks SET quantity = quantity + ?, last_transfer_date = ? WHERE ` + clause

	result, err := tx.ExecContext(ctx, query, append([]interface{}{amount, at}, args...)...)
	if err != nil {
		return false, fmt.Errorf("incrementing seller stock: %w", err)
	}
	return affected(result)
}

func (r *MySQLSellerStockRepository) DecrementIfAvailable(ctx context.Context, tx store.Tx, sel domain.StockSelector, amount int, stamp *time.Time) (bool, error) {
	clause, args := where(sel)
	query := `UPDATE seller_stocks
		SET quantity = quantity - ?, last_transfer_date = COALESCE(?, last_transfer_date)
		WHERE ` + clause + ` AND quantity >= ?`

	params := append([]interface{}{amount, stamp}, args...)
	params = append(params, amount)

	result, err := tx.ExecContext(ctx, query, params...)
	if err != nil {
		return false, fmt.Errorf("decrementing seller stock: %w", err)
	}
	return affected(result)
}

func (r *MySQLSellerStockRepository) InsertEmpty(ctx context.Context, tx store.Tx, sellerID, productID int64) error {
	query := `INSERT INTO seller_stocks (seller_id, product_id, quantity)
		VALUES (?, ?, 0)
		ON DUPLICATE KEY UPDATE id = id`

	if _, err := tx.ExecContext(ctx, query, sellerID, productID); err != nil {
		return fmt.Errorf("opening seller stock: %w", err)
	}
	return nil
}

func (r *MySQLSellerStockRepository) DeleteEmpty(ctx context.Context, tx store.Tx, stockID int64) (bool, error) {
	result, err := tx.ExecContext(ctx, `DELETE FROM seller_stocks WHERE id = ? AND quantity = 0`, stockID)
	if err != nil {
		return false, fmt.Errorf("deleting seller stock: %w", err)
	}
	return affected(result)
}

func (r *MySQLSellerStockRepository) ListDetails(ctx context.Context, sellerID int64) ([]domain.SellerStockDetail, error) {
	query := `
		SELECT ss.id, ss.seller_id, ss.product_id, ss.quantity, ss.last_transfer_date,
		       ss.created_at, ss.updated_at,
		       p.name AS product_name, p.sku AS product_sku, p.price AS product_price
		FROM seller_stocks ss
		JOIN products p ON p.id = ss.product_id`
	var args []interface{}
	if sellerID != 0 {
		query += ` WHERE ss.seller_id = ?`
		args = append(args, sellerID)
	}
	query += ` ORDER BY ss.seller_id, p.name`

	stocks := []domain.SellerStockDetail{}
	if err := r.db.SelectContext(ctx, &stocks, query, args...); err != nil {
		return nil, fmt.Errorf("listing seller stocks: %w", err)
	}
	return stocks, nil
}

func (r *MySQLSellerStockRepository) SumBySeller(ctx context.Context, sellerID int64) (int, error) {
	var total int
	err := r.db.GetContext(ctx, &total, `SELECT COALESCE(SUM(quantity), 0) FROM seller_stocks WHERE seller_id = ?`, sellerID)
	if err != nil {
		return 0, fmt.Errorf("summing seller stock: %w", err)
	}
	return total, nil
}

func affected(result sql.Result) (bool, error) {
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("getting rows affected: %w", err)
	}
	return n > 0, nil
}
