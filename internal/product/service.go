package product

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"stockkeeper/internal/domain"
	apperrors "stockkeeper/internal/errors"
	"stockkeeper/internal/store"
)

// Service is the catalog: categories, products and new warehouse stock.
// Warehouse quantities only move through conditional increments here and in
// the transfer engine.
type Service struct {
	runner     store.TxRunner
	repo       Repository
	categories CategoryRepository
	logger     *zap.Logger
}

func NewService(runner store.TxRunner, repo Repository, categories CategoryRepository, logger *zap.Logger) *Service {
	return &Service{
		runner:     runner,
		repo:       repo,
		categories: categories,
		logger:     logger,
	}
}

func (s *Service) CreateCategory(ctx context.Context, caller domain.Caller, in CreateCategoryInput) (*domain.Category, error) {
	if !caller.IsAdmin() {
		return nil, apperrors.NewForbiddenError("only admins can create categories")
	}

	c := &domain.Category{Name: strings.TrimSpace(in.Name), Description: in.Description}
	id, err := s.categories.Insert(ctx, c)
	if err != nil {
		if store.IsDuplicateKey(err) {
			return nil, apperrors.NewDuplicateError("category " + c.Name + " already exists")
		}
		return nil, err
	}
	c.ID = id

	s.logger.Info("category created", zap.Int64("categoryId", id), zap.String("name", c.Name))
	return c, nil
}

func (s *Service) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return s.categories.List(ctx)
}

func (s *Service) CreateProduct(ctx context.Context, caller domain.Caller, in CreateProductInput) (*domain.Product, error) {
	if !caller.IsAdmin() {
		return nil, apperrors.NewForbiddenError("only admins can create products")
	}
	if in.WarehouseQuantity < 0 {
		return nil, apperrors.NewInvalidAmountError(in.WarehouseQuantity)
	}
	if in.CategoryID != nil {
		if _, err := s.categories.FindByID(ctx, *in.CategoryID); err != nil {
			return nil, err
		}
	}

	p := &domain.Product{
		Name:              strings.TrimSpace(in.Name),
		SKU:               strings.TrimSpace(in.SKU),
		Price:             in.Price,
		CostPrice:         in.CostPrice,
		CategoryID:        in.CategoryID,
		WarehouseQuantity: in.WarehouseQuantity,
		IsActive:          true,
	}

	err := s.runner.Run(ctx, "product.create", func(ctx context.Context, tx store.Tx) error {
		id, err := s.repo.Insert(ctx, tx, p)
		if err != nil {
			if store.IsDuplicateKey(err) {
				return apperrors.NewDuplicateError("sku " + p.SKU + " already exists")
			}
			return err
		}
		p.ID = id
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("product created",
		zap.Int64("productId", p.ID),
		zap.String("sku", p.SKU),
		zap.Int("warehouseQuantity", p.WarehouseQuantity),
	)
	return s.repo.FindByID(ctx, p.ID)
}

func (s *Service) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	return s.repo.FindByID(ctx, id)
}

// SearchProducts lists products matching filter. When filter.IDs is set the
// ids that matched nothing are returned as notFound.
func (s *Service) SearchProducts(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, []int64, error) {
	found, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, err
	}

	notFound := []int64{}
	if len(filter.IDs) > 0 {
		foundSet := make(map[int64]struct{}, len(found))
		for _, p := range found {
			foundSet[p.ID] = struct{}{}
		}
		for _, id := range filter.IDs {
			if _, ok := foundSet[id]; !ok {
				notFound = append(notFound, id)
			}
		}
	}

	return found, notFound, nil
}

// UpdateProduct changes descriptive fields. The warehouse quantity is not
// writable here.
func (s *Service) UpdateProduct(ctx context.Context, caller domain.Caller, id int64, in UpdateProductInput) (*domain.Product, error) {
	if !caller.IsAdmin() {
		return nil, apperrors.NewForbiddenError("only admins can update products")
	}
	if in.CategoryID != nil {
		if _, err := s.categories.FindByID(ctx, *in.CategoryID); err != nil {
			return nil, err
		}
	}

	err := s.runner.Run(ctx, "product.update", func(ctx context.Context, tx store.Tx) error {
		p, err := s.repo.FindByIDForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}
		in.apply(p)
		if err := s.repo.UpdateDetails(ctx, tx, *p); err != nil {
			if store.IsDuplicateKey(err) {
				return apperrors.NewDuplicateError("sku " + p.SKU + " already exists")
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("product updated", zap.Int64("productId", id))
	return s.repo.FindByID(ctx, id)
}

// Restock introduces new units into the warehouse.
func (s *Service) Restock(ctx context.Context, caller domain.Caller, id int64, amount int) (*domain.Product, error) {
	if !caller.IsAdmin() {
		return nil, apperrors.NewForbiddenError("only admins can restock products")
	}
	if amount <= 0 {
		return nil, apperrors.NewInvalidAmountError(amount)
	}

	var restocked *domain.Product
	err := s.runner.Run(ctx, "product.restock", func(ctx context.Context, tx store.Tx) error {
		ok, err := s.repo.IncrementWarehouse(ctx, tx, id, amount)
		if err != nil {
			return err
		}
		if !ok {
			return apperrors.NewProductNotFoundError(id)
		}
		restocked, err = s.repo.FindByIDForUpdate(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("product restocked",
		zap.Int64("productId", id),
		zap.Int("quantity", amount),
		zap.Int("warehouseQuantity", restocked.WarehouseQuantity),
	)
	return restocked, nil
}
