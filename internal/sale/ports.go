package sale

import (
	"context"

	"stockkeeper/internal/domain"
	"stockkeeper/internal/store"
)

type ProductRepository interface {
	FindByID(ctx context.Context, id int64) (*domain.Product, error)
}

type SellerRepository interface {
	FindByID(ctx context.Context, id int64) (*domain.Seller, error)
}

type Repository interface {
	Insert(ctx context.Context, tx store.Tx, s *domain.Sale) (int64, error)
	FindByID(ctx context.Context, id int64) (*domain.SaleDetail, error)
	List(ctx context.Context, filter domain.SaleFilter) ([]domain.SaleDetail, error)
}
