package transfer

import (
	"context"

	"stockkeeper/internal/domain"
	"stockkeeper/internal/store"
)

type ProductRepository interface {
	FindByIDForUpdate(ctx context.Context, tx store.Tx, id int64) (*domain.Product, error)
	DecrementWarehouse(ctx context.Context, tx store.Tx, id int64, amount int) (bool, error)
	IncrementWarehouse(ctx context.Context, tx store.Tx, id int64, amount int) (bool, error)
}

type SellerRepository interface {
	FindByIDForUpdate(ctx context.Context, tx store.Tx, id int64) (*domain.Seller, error)
}

type Repository interface {
	Insert(ctx context.Context, tx store.Tx, t *domain.Transfer) (int64, error)
	List(ctx context.Context, filter domain.TransferFilter) ([]domain.TransferDetail, error)
}
