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

const productColumns = `id, name, sku, price, cost_price, category_id, warehouse_quantity,
	is_active, created_at, updated_at`

type MySQLRepository struct {
	db *sqlx.DB
}

func NewMySQLRepository(db *sqlx.DB) *MySQLRepository {
	return &MySQLRepository{db: db}
}

func (r *MySQLRepository) FindByID(ctx context.Context, id int64) (*domain.Product, error) {
	return r.find(ctx, r.db, `SELECT `+productColumns+` FROM products WHERE id = ?`, id)
}

// FindByIDForUpdate locks the product row until tx ends.
func (r *MySQLRepository) FindByIDForUpdate(ctx context.Context, tx store.Tx, id int64) (*domain.Product, error) {
	return r.find(ctx, tx, `SELECT `+productColumns+` FROM products WHERE id = ? FOR UPDATE`, id)
}

func (r *MySQLRepository) find(ctx context.Context, q store.Querier, query string, id int64) (*domain.Product, error) {
	var p domain.Product
	err := q.GetContext(ctx, &p, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewProductNotFoundError(id)
	}
	if err != nil {
		return nil, fmt.Errorf("querying product: %w", err)
	}
	return &p, nil
}

func (r *MySQLRepository) List(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	var (
		conds []string
		args  []interface{}
	)
	if len(filter.IDs) > 0 {
		conds = append(conds, "id IN (?)")
		args = append(args, filter.IDs)
	}
	if filter.CategoryID != 0 {
		conds = append(conds, "category_id = ?")
		args = append(args, filter.CategoryID)
	}
	if filter.ActiveOnly {
		conds = append(conds, "is_active = 1")
	}

	query := `SELECT ` + productColumns + ` FROM products`
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, " AND ")
	}
	query += ` ORDER BY id`

	if len(filter.IDs) > 0 {
		var err error
		query, args, err = sqlx.In(query, args...)
		if err != nil {
			return nil, fmt.Errorf("expanding product ids: %w", err)
		}
	}

	products := []domain.Product{}
	if err := r.db.SelectContext(ctx, &products, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("listing products: %w", err)
	}
	return products, nil
}

func (r *MySQLRepository) Insert(ctx context.Context, tx store.Tx, p *domain.Product) (int64, error) {
	query := `INSERT INTO products (name, sku, price, cost_price, category_id, warehouse_quantity, is_active)
		VALUES (?, ?, ?, ?, ?, ?, ?)`

	result, err := tx.ExecContext(ctx, query,
		p.Name, p.SKU, p.Price, p.CostPrice, p.CategoryID, p.WarehouseQuantity, p.IsActive,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting product: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting product id: %w", err)
	}
	return id, nil
}

// UpdateDetails writes descriptive fields only; warehouse_quantity is left alone.
func (r *MySQLRepository) UpdateDetails(ctx context.Context, tx store.Tx, p domain.Product) error {
	query := `UPDATE products
		SET name = ?, sku = ?, price = ?, cost_price = ?, category_id = ?, is_active = ?
		WHERE id = ?`

	_, err := tx.ExecContext(ctx, query, p.Name, p.SKU, p.Price, p.CostPrice, p.CategoryID, p.IsActive, p.ID)
	if err != nil {
		return fmt.Errorf("updating product: %w", err)
	}
	return nil
}

// DecrementWarehouse takes amount units out of the warehouse only when they
// are there. It reports false when no row matched.
func (r *MySQLRepository) DecrementWarehouse(ctx context.Context, tx store.Tx, id int64, amount int) (bool, error) {
	query := `UPDATE products
		SET warehouse_quantity = warehouse_quantity - ?
		WHERE id = ? AND warehouse_quantity >= ?`

	result, err := tx.ExecContext(ctx, query, amount, id, amount)
	if err != nil {
		return false, fmt.Errorf("decrementing warehouse stock: %w", err)
	}
	return affected(result)
}

func (r *MySQLRepository) IncrementWarehouse(ctx context.Context, tx store.Tx, id int64, amount int) (bool, error) {
	query := `UPDATE products SET warehouse_quantity = warehouse_quantity + ? WHERE id = ?`

	result, err := tx.ExecContext(ctx, query, amount, id)
	if err != nil {
		return false, fmt.Errorf("incrementing warehouse stock: %w", err)
	}
	return affected(result)
}

func affected(result sql.Result) (bool, error) {
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("getting rows affected: %w", err)
	}
	return n > 0, nil
}
