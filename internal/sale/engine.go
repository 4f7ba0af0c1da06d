package sale

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"stockkeeper/internal/assignment"
	"stockkeeper/internal/domain"
	apperrors "stockkeeper/internal/errors"
	"stockkeeper/internal/ledger"
	"stockkeeper/internal/store"
)

const (
	defaultListLimit = 100
	maxListLimit     = 500
)

type RecordSaleInput struct {
	SellerID  int64                `json:"sellerId"`
	ProductID int64                `json:"productId"`
	Quantity  int                  `json:"quantity"`
	Price     *decimal.Decimal     `json:"price"`
	Customer  *domain.CustomerInfo `json:"customer"`
	Notes     string               `json:"notes"`
}

type Engine struct {
	runner      store.TxRunner
	ledger      *ledger.Ledger
	assignments *assignment.Manager
	products    ProductRepository
	sellers     SellerRepository
	sales       Repository
	logger      *zap.Logger
	now         func() time.Time
}

func NewEngine(
	runner store.TxRunner,
	ledger *ledger.Ledger,
	assignments *assignment.Manager,
	products ProductRepository,
	sellers SellerRepository,
	sales Repository,
	logger *zap.Logger,
) *Engine {
	return &Engine{
		runner:      runner,
		ledger:      ledger,
		assignments: assignments,
		products:    products,
		sellers:     sellers,
		sales:       sales,
		logger:      logger,
		now:         time.Now,
	}
}

// RecordSale inserts the sale and debits the seller's stock in one unit of
// work. The assignment is checked before the held quantity. The stock check
// only fails fast; the conditional decrement is what keeps concurrent sales
// from overselling.
func (e *Engine) RecordSale(ctx context.Context, caller domain.Caller, in RecordSaleInput) (*domain.Sale, error) {
	if in.Quantity <= 0 {
		return nil, apperrors.NewInvalidAmountError(in.Quantity)
	}
	if in.Price != nil && in.Price.IsNegative() {
		return nil, apperrors.NewValidationError("price must be non-negative", apperrors.ValidationDetail{
			Field:   "price",
			Message: "price must be non-negative",
		})
	}
	if !caller.CanActFor(in.SellerID) {
		return nil, apperrors.NewForbiddenError("cannot record a sale for another seller")
	}

	product, err := e.products.FindByID(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}
	if !product.IsActive {
		return nil, apperrors.NewProductInactiveError(in.ProductID)
	}

	seller, err := e.sellers.FindByID(ctx, in.SellerID)
	if err != nil {
		return nil, err
	}
	if !seller.Available() {
		return nil, apperrors.NewSellerNotFoundError(in.SellerID)
	}

	sel := domain.BySellerProduct(in.SellerID, in.ProductID)

	price := product.Price
	if in.Price != nil {
		price = *in.Price
	}

	sale := &domain.Sale{
		SellerID:    in.SellerID,
		ProductID:   in.ProductID,
		Quantity:    in.Quantity,
		Price:       price,
		TotalAmount: domain.SaleTotal(in.Quantity, price),
		Notes:       strings.TrimSpace(in.Notes),
	}
	if in.Customer != nil {
		sale.CustomerName = strings.TrimSpace(in.Customer.Name)
		sale.CustomerPhone = strings.TrimSpace(in.Customer.Phone)
	}

	err = e.runner.Run(ctx, "sale.record", func(ctx context.Context, tx store.Tx) error {
		active, err := e.assignments.IsActive(ctx, tx, in.SellerID, in.ProductID)
		if err != nil {
			return err
		}
		if !active {
			return apperrors.NewNotAssignedError(in.SellerID, in.ProductID)
		}

		held, err := e.ledger.Quantity(ctx, tx, sel)
		if err != nil {
			return err
		}
		if held < in.Quantity {
			return apperrors.NewInsufficientStockError(in.Quantity, held)
		}

		sale.CreatedAt = e.now().UTC()
		id, err := e.sales.Insert(ctx, tx, sale)
		if err != nil {
			return err
		}
		sale.ID = id

		_, err = e.ledger.Decrease(ctx, tx, sel, in.Quantity)
		return err
	})
	if err != nil {
		fields := []zap.Field{
			zap.Int64("sellerId", in.SellerID),
			zap.Int64("productId", in.ProductID),
			zap.Int("quantity", in.Quantity),
			zap.Error(err),
		}
		if apperrors.CodeOf(err) == apperrors.CodeInternal {
			e.logger.Error("sale failed", fields...)
		} else {
			e.logger.Warn("sale rejected", fields...)
		}
		return nil, err
	}

	e.logger.Info("sale recorded",
		zap.Int64("saleId", sale.ID),
		zap.Int64("sellerId", sale.SellerID),
		zap.Int64("productId", sale.ProductID),
		zap.Int("quantity", sale.Quantity),
		zap.String("totalAmount", sale.TotalAmount.StringFixed(2)),
	)
	return sale, nil
}

// ListSales returns the newest sales first. Sellers only see their own.
func (e *Engine) ListSales(ctx context.Context, caller domain.Caller, filter domain.SaleFilter) ([]domain.SaleDetail, error) {
	if !caller.IsAdmin() {
		if caller.Role != domain.RoleSeller || caller.SellerID == 0 {
			return nil, apperrors.NewForbiddenError("caller has no seller access")
		}
		if filter.SellerID != 0 && filter.SellerID != caller.SellerID {
			return nil, apperrors.NewForbiddenError("cannot read another seller's sales")
		}
		filter.SellerID = caller.SellerID
	}
	if filter.From != nil && filter.To != nil && filter.To.Before(*filter.From) {
		return nil, apperrors.NewValidationError("to must not be before from", apperrors.ValidationDetail{
			Field:   "to",
			Message: "to must not be before from",
		})
	}

	if filter.Limit <= 0 {
		filter.Limit = defaultListLimit
	}
	if filter.Limit > maxListLimit {
		filter.Limit = maxListLimit
	}
	return e.sales.List(ctx, filter)
}

func (e *Engine) GetSale(ctx context.Context, caller domain.Caller, id int64) (*domain.SaleDetail, error) {
	sale, err := e.sales.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !caller.CanActFor(sale.SellerID) {
		return nil, apperrors.NewForbiddenError("cannot read another seller's sale")
	}
	return sale, nil
}
