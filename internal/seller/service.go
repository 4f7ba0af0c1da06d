package seller

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"stockkeeper/internal/domain"
	apperrors "stockkeeper/internal/errors"
	"stockkeeper/internal/store"
)

type Service struct {
	runner store.TxRunner
	repo   Repository
	stock  StockHolder
	logger *zap.Logger
}

func NewService(runner store.TxRunner, repo Repository, stock StockHolder, logger *zap.Logger) *Service {
	return &Service{
		runner: runner,
		repo:   repo,
		stock:  stock,
		logger: logger,
	}
}

type CreateSellerInput struct {
	TelegramID *int64 `json:"telegramId"`
	FullName   string `json:"fullName"`
	Username   string `json:"username"`
	Phone      string `json:"phone"`
}

func (s *Service) Create(ctx context.Context, caller domain.Caller, in CreateSellerInput) (*domain.Seller, error) {
	if !caller.IsAdmin() {
		return nil, apperrors.NewForbiddenError("only admins can create sellers")
	}

	seller := &domain.Seller{
		TelegramID: in.TelegramID,
		FullName:   strings.TrimSpace(in.FullName),
		Username:   strings.TrimSpace(in.Username),
		Phone:      strings.TrimSpace(in.Phone),
		Role:       domain.RoleSeller,
		IsActive:   true,
	}

	id, err := s.repo.Insert(ctx, seller)
	if err != nil {
		if store.IsDuplicateKey(err) {
			return nil, apperrors.NewDuplicateError("a user with this telegram id already exists")
		}
		return nil, err
	}

	s.logger.Info("seller created", zap.Int64("sellerId", id))
	return s.repo.FindByID(ctx, id)
}

// Get lets admins read any seller and sellers read themselves.
func (s *Service) Get(ctx context.Context, caller domain.Caller, id int64) (*domain.Seller, error) {
	if !caller.CanActFor(id) {
		return nil, apperrors.NewForbiddenError("cannot read another seller")
	}
	return s.repo.FindByID(ctx, id)
}

func (s *Service) List(ctx context.Context, caller domain.Caller) ([]domain.Seller, error) {
	if !caller.IsAdmin() {
		return nil, apperrors.NewForbiddenError("only admins can list sellers")
	}
	return s.repo.List(ctx)
}

// Delete soft deletes a seller. It is refused while the seller still holds
// stock; the stock has to be returned to the warehouse first.
func (s *Service) Delete(ctx context.Context, caller domain.Caller, id int64) error {
	if !caller.IsAdmin() {
		return apperrors.NewForbiddenError("only admins can delete sellers")
	}

	err := s.runner.Run(ctx, "seller.delete", func(ctx context.Context, tx store.Tx) error {
		// Transfers lock the seller row too, so nothing new arrives after this.
		if _, err := s.repo.FindByIDForUpdate(ctx, tx, id); err != nil {
			return err
		}

		held, err := s.stock.HeldBySeller(ctx, id)
		if err != nil {
			return err
		}
		if held > 0 {
			return apperrors.NewStockStillHeldError(held)
		}

		ok, err := s.repo.SoftDelete(ctx, tx, id)
		if err != nil {
			return err
		}
		if !ok {
			return apperrors.NewSellerNotFoundError(id)
		}
		return nil
	})
	if err != nil {
		s.logger.Warn("seller delete failed", zap.Int64("sellerId", id), zap.Error(err))
		return err
	}

	s.logger.Info("seller deleted", zap.Int64("sellerId", id))
	return nil
}
