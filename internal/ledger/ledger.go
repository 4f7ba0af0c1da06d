package ledger

import (
	"context"
	"time"

	"stockkeeper/internal/domain"
	apperrors "stockkeeper/internal/errors"
	"stockkeeper/internal/store"
)

type Repository interface {
	Find(ctx context.Context, sel domain.StockSelector) (*domain.SellerStock, error)
	FindForUpdate(ctx context.Context, tx store.Tx, sel domain.StockSelector) (*domain.SellerStock, error)
	Increment(ctx context.Context, tx store.Tx, sel domain.StockSelector, amount int, at time.Time) (bool, error)
	DecrementIfAvailable(ctx context.Context, tx store.Tx, sel domain.StockSelector, amount int, stamp *time.Time) (bool, error)
	InsertEmpty(ctx context.Context, tx store.Tx, sellerID, productID int64) error
	DeleteEmpty(ctx context.Context, tx store.Tx, stockID int64) (bool, error)
	ListDetails(ctx context.Context, sellerID int64) ([]domain.SellerStockDetail, error)
	SumBySeller(ctx context.Context, sellerID int64) (int, error)
}

// Ledger mutates seller stock quantities. Every mutation goes through a
// conditional update so concurrent requests can never drive a quantity
// below zero.
type Ledger struct {
	repo Repository
	now  func() time.Time
}

func New(repo Repository) *Ledger {
	return &Ledger{repo: repo, now: time.Now}
}

// Increase adds amount to an existing row and stamps lastTransferDate.
func (l *Ledger) Increase(ctx context.Context, tx store.Tx, sel domain.StockSelector, amount int) (*domain.SellerStock, error) {
	if amount <= 0 {
		return nil, apperrors.NewInvalidAmountError(amount)
	}

	ok, err := l.repo.Increment(ctx, tx, sel, amount, l.now().UTC())
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperrors.NewStockRecordNotFoundError("seller stock " + sel.String() + " not found")
	}

	return l.repo.FindForUpdate(ctx, tx, sel)
}

// Decrease removes amount only when at least amount is held. Used for sales.
func (l *Ledger) Decrease(ctx context.Context, tx store.Tx, sel domain.StockSelector, amount int) (*domain.SellerStock, error) {
	return l.decrease(ctx, tx, sel, amount, nil)
}

// Withdraw is Decrease for stock moving back to the warehouse; it also
// stamps lastTransferDate.
func (l *Ledger) Withdraw(ctx context.Context, tx store.Tx, sel domain.StockSelector, amount int) (*domain.SellerStock, error) {
	now := l.now().UTC()
	return l.decrease(ctx, tx, sel, amount, &now)
}

func (l *Ledger) decrease(ctx context.Context, tx store.Tx, sel domain.StockSelector, amount int, stamp *time.Time) (*domain.SellerStock, error) {
	if amount <= 0 {
		return nil, apperrors.NewInvalidAmountError(amount)
	}

	ok, err := l.repo.DecrementIfAvailable(ctx, tx, sel, amount, stamp)
	if err != nil {
		return nil, err
	}
	if !ok {
		// Either the row is missing or another request got there first.
		available := 0
		current, err := l.repo.FindForUpdate(ctx, tx, sel)
		if err != nil {
			return nil, err
		}
		if current != nil {
			available = current.Quantity
		}
		return nil, apperrors.NewInsufficientStockError(amount, available)
	}

	return l.repo.FindForUpdate(ctx, tx, sel)
}

// Open returns the (seller, product) row locked, creating it with quantity 0
// when it does not exist yet.
func (l *Ledger) Open(ctx context.Context, tx store.Tx, sellerID, productID int64) (*domain.SellerStock, error) {
	if err := l.repo.InsertEmpty(ctx, tx, sellerID, productID); err != nil {
		return nil, err
	}
	return l.Get(ctx, tx, domain.BySellerProduct(sellerID, productID))
}

// Get returns the row locked for the rest of the unit of work.
func (l *Ledger) Get(ctx context.Context, tx store.Tx, sel domain.StockSelector) (*domain.SellerStock, error) {
	stock, err := l.repo.FindForUpdate(ctx, tx, sel)
	if err != nil {
		return nil, err
	}
	if stock == nil {
		return nil, apperrors.NewStockRecordNotFoundError("seller stock " + sel.String() + " not found")
	}
	return stock, nil
}

// Quantity is the held quantity, 0 when no row exists.
func (l *Ledger) Quantity(ctx context.Context, tx store.Tx, sel domain.StockSelector) (int, error) {
	stock, err := l.repo.FindForUpdate(ctx, tx, sel)
	if err != nil {
		return 0, err
	}
	if stock == nil {
		return 0, nil
	}
	return stock.Quantity, nil
}

// Peek reads the row without locking it. Callers use it for advisory checks only.
func (l *Ledger) Peek(ctx context.Context, sel domain.StockSelector) (*domain.SellerStock, error) {
	return l.repo.Find(ctx, sel)
}

// Remove deletes a row that holds nothing. It is not audited.
func (l *Ledger) Remove(ctx context.Context, tx store.Tx, stockID int64) error {
	ok, err := l.repo.DeleteEmpty(ctx, tx, stockID)
	if err != nil {
		return err
	}
	if ok {
		return nil
	}

	current, err := l.repo.FindForUpdate(ctx, tx, domain.ByStockID(stockID))
	if err != nil {
		return err
	}
	if current == nil {
		return apperrors.NewStockRecordNotFoundError("seller stock " + domain.ByStockID(stockID).String() + " not found")
	}
	return apperrors.NewStockStillHeldError(current.Quantity)
}

// List returns stock rows with product details; sellerID 0 lists every seller.
func (l *Ledger) List(ctx context.Context, sellerID int64) ([]domain.SellerStockDetail, error) {
	return l.repo.ListDetails(ctx, sellerID)
}

// HeldBySeller is the total quantity a seller holds across products.
func (l *Ledger) HeldBySeller(ctx context.Context, sellerID int64) (int, error) {
	return l.repo.SumBySeller(ctx, sellerID)
}
