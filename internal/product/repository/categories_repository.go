package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"stockkeeper/internal/domain"
	apperrors "stockkeeper/internal/errors"
)

type MySQLCategoryRepository struct {
	db *sqlx.DB
}

func NewMySQLCategoryRepository(db *sqlx.DB) *MySQLCategoryRepository {
	return &MySQLCategoryRepository{db: db}
}

func (r *MySQLCategoryRepository) FindByID(ctx context.Context, id int64) (*domain.Category, error) {
	var c domain.Category
	err := r.db.GetContext(ctx, &c, `SELECT id, name, description, created_at FROM categories WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewCategoryNotFoundError(id)
	}
	if err != nil {
		return nil, fmt.Errorf("querying category: %w", err)
	}
	return &c, nil
}

func (r *MySQLCategoryRepository) List(ctx context.Context) ([]domain.Category, error) {
	categories := []domain.Category{}
	err := r.db.SelectContext(ctx, &categories, `SELECT id, name, description, created_at FROM categories ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}
	return categories, nil
}

func (r *MySQLCategoryRepository) Insert(ctx context.Context, c *domain.Category) (int64, error) {
	result, err := r.db.ExecContext(ctx, `INSERT INTO categories (name, description) VALUES (?, ?)`, c.Name, c.Description)
	if err != nil {
		return 0, fmt.Errorf("inserting category: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting category id: %w", err)
	}
	return id, nil
}
