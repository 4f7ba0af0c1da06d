package seller

import (
	"context"

	"stockkeeper/internal/domain"
	"stockkeeper/internal/store"
)

// Repository reads and writes users with role=seller. Finders return a
// SellerNotFound error for missing or soft deleted sellers.
type Repository interface {
	FindByID(ctx context.Context, id int64) (*domain.Seller, error)
	FindByIDForUpdate(ctx context.Context, tx store.Tx, id int64) (*domain.Seller, error)
	List(ctx context.Context) ([]domain.Seller, error)
	Insert(ctx context.Context, s *domain.Seller) (int64, error)
	SoftDelete(ctx context.Context, tx store.Tx, id int64) (bool, error)
}

// StockHolder reports how many units a seller still holds.
type StockHolder interface {
	HeldBySeller(ctx context.Context, sellerID int64) (int, error)
}
