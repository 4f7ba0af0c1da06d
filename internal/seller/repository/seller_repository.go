package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"stockkeeper/internal/domain"
	apperrors "stockkeeper/internal/errors"
	"stockkeeper/internal/store"
)

const sellerColumns = `id, telegram_id, full_name, username, phone, role, is_active, is_deleted,
	created_at, updated_at`

type MySQLSellerRepository struct {
	db *sqlx.DB
}

func NewMySQLSellerRepository(db *sqlx.DB) *MySQLSellerRepository {
	return &MySQLSellerRepository{db: db}
}

func (r *MySQLSellerRepository) FindByID(ctx context.Context, id int64) (*domain.Seller, error) {
	return r.find(ctx, r.db, `SELECT `+sellerColumns+` FROM users
		WHERE id = ? AND role = 'seller' AND is_deleted = 0`, id)
}

func (r *MySQLSellerRepository) FindByIDForUpdate(ctx context.Context, tx store.Tx, id int64) (*domain.Seller, error) {
	return r.find(ctx, tx, `SELECT `+sellerColumns+` FROM users
		WHERE id = ? AND role = 'seller' AND is_deleted = 0
		FOR UPDATE`, id)
}

func (r *MySQLSellerRepository) find(ctx context.Context, q store.Querier, query string, id int64) (*domain.Seller, error) {
	var s domain.Seller
	err := q.GetContext(ctx, &s, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewSellerNotFoundError(id)
	}
	if err != nil {
		return nil, fmt.Errorf("querying seller: %w", err)
	}
	return &s, nil
}

func (r *MySQLSellerRepository) List(ctx context.Context) ([]domain.Seller, error) {
	sellers := []domain.Seller{}
	query := `SELECT ` + sellerColumns + ` FROM users
		WHERE role = 'seller' AND is_deleted = 0
		ORDER BY full_name`
	if err := r.db.SelectContext(ctx, &sellers, query); err != nil {
		return nil, fmt.Errorf("listing sellers: %w", err)
	}
	return sellers, nil
}

func (r *MySQLSellerRepository) Insert(ctx context.Context, s *domain.Seller) (int64, error) {
	query := `INSERT INTO users (telegram_id, full_name, username, phone, role, is_active)
		VALUES (?, ?, ?, ?, ?, ?)`

	result, err := r.db.ExecContext(ctx, query, s.TelegramID, s.FullName, s.Username, s.Phone, s.Role, s.IsActive)
	if err != nil {
		return 0, fmt.Errorf("inserting seller: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting seller id: %w", err)
	}
	return id, nil
}

func (r *MySQLSellerRepository) SoftDelete(ctx context.Context, tx store.Tx, id int64) (bool, error) {
	result, err := tx.ExecContext(ctx, `UPDATE users SET is_active = 0, is_deleted = 1
		WHERE id = ? AND role = 'seller' AND is_deleted = 0`, id)
	if err != nil {
		return false, fmt.Errorf("deleting seller: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("getting rows affected: %w", err)
	}
	return n > 0, nil
}
