package product

import (
	"context"

	"stockkeeper/internal/domain"
	"stockkeeper/internal/store"
)

type Repository interface {
	FindByID(ctx context.Context, id int64) (*domain.Product, error)
	FindByIDForUpdate(ctx context.Context, tx store.Tx, id int64) (*domain.Product, error)
	List(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error)
	Insert(ctx context.Context, tx store.Tx, p *domain.Product) (int64, error)
	UpdateDetails(ctx context.Context, tx store.Tx, p domain.Product) error
	DecrementWarehouse(ctx context.Context, tx store.Tx, id int64, amount int) (bool, error)
	IncrementWarehouse(ctx context.Context, tx store.Tx, id int64, amount int) (bool, error)
}

type CategoryRepository interface {
	FindByID(ctx context.Context, id int64) (*domain.Category, error)
	List(ctx context.Context) ([]domain.Category, error)
	Insert(ctx context.Context, c *domain.Category) (int64, error)
}
