package transfer

import (
	"context"
	"sort"
	"time"

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

// Engine moves quantity between the warehouse and sellers. Every workflow is
// one unit of work: it either applies all of its movements and their
// transfer records or none of them.
//
// Rows are locked in the order seller, product, seller stock.
type Engine struct {
	runner      store.TxRunner
	ledger      *ledger.Ledger
	assignments *assignment.Manager
	products    ProductRepository
	sellers     SellerRepository
	transfers   Repository
	logger      *zap.Logger
	now         func() time.Time
}

func NewEngine(
	runner store.TxRunner,
	ledger *ledger.Ledger,
	assignments *assignment.Manager,
	products ProductRepository,
	sellers SellerRepository,
	transfers Repository,
	logger *zap.Logger,
) *Engine {
	return &Engine{
		runner:      runner,
		ledger:      ledger,
		assignments: assignments,
		products:    products,
		sellers:     sellers,
		transfers:   transfers,
		logger:      logger,
		now:         time.Now,
	}
}

// TransferStock moves |signedAmount| units of a product. A positive amount
// goes from the warehouse to the seller, creating the seller stock row when
// needed; a negative amount returns stock to the warehouse. The movement is
// recorded as a completed Transfer.
func (e *Engine) TransferStock(ctx context.Context, tx store.Tx, caller domain.Caller, sellerID, productID int64, signedAmount int) (*domain.Transfer, error) {
	if signedAmount == 0 {
		return nil, apperrors.NewInvalidAmountError(signedAmount)
	}

	amount := signedAmount
	if amount < 0 {
		amount = -amount
	}

	if signedAmount > 0 {
		if err := e.takeFromWarehouse(ctx, tx, productID, amount); err != nil {
			return nil, err
		}
		if _, err := e.ledger.Open(ctx, tx, sellerID, productID); err != nil {
			return nil, err
		}
		if _, err := e.ledger.Increase(ctx, tx, domain.BySellerProduct(sellerID, productID), amount); err != nil {
			return nil, err
		}
	} else {
		ok, err := e.products.IncrementWarehouse(ctx, tx, productID, amount)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, apperrors.NewProductNotFoundError(productID)
		}
		if _, err := e.ledger.Withdraw(ctx, tx, domain.BySellerProduct(sellerID, productID), amount); err != nil {
			if ce, ok := apperrors.IsConflictError(err); ok && ce.Code == apperrors.CodeInsufficientStock {
				return nil, apperrors.NewInsufficientSellerStockError(amount, ce.Available)
			}
			return nil, err
		}
	}

	t := &domain.Transfer{
		SellerID:    sellerID,
		ProductID:   productID,
		Quantity:    amount,
		Type:        domain.TransferTypeFor(signedAmount),
		Status:      domain.TransferStatusCompleted,
		InitiatedBy: caller.UserRef(),
		CreatedAt:   e.now().UTC(),
	}
	id, err := e.transfers.Insert(ctx, tx, t)
	if err != nil {
		return nil, err
	}
	t.ID = id

	return t, nil
}

func (e *Engine) takeFromWarehouse(ctx context.Context, tx store.Tx, productID int64, amount int) error {
	ok, err := e.products.DecrementWarehouse(ctx, tx, productID, amount)
	if err != nil {
		return err
	}
	if ok {
		return nil
	}

	p, err := e.products.FindByIDForUpdate(ctx, tx, productID)
	if err != nil {
		return err
	}
	return apperrors.NewInsufficientWarehouseStockError(amount, p.WarehouseQuantity)
}

func (e *Engine) lockSeller(ctx context.Context, tx store.Tx, sellerID int64) error {
	s, err := e.sellers.FindByIDForUpdate(ctx, tx, sellerID)
	if err != nil {
		return err
	}
	if !s.Available() {
		return apperrors.NewSellerNotFoundError(sellerID)
	}
	return nil
}

func (e *Engine) lockActiveProduct(ctx context.Context, tx store.Tx, productID int64) (*domain.Product, error) {
	p, err := e.products.FindByIDForUpdate(ctx, tx, productID)
	if err != nil {
		return nil, err
	}
	if !p.IsActive {
		return nil, apperrors.NewProductInactiveError(productID)
	}
	return p, nil
}

// TransferToSeller moves every item to the seller in one unit of work.
// Items are applied in ascending product id so concurrent bulk transfers
// lock products in the same order.
func (e *Engine) TransferToSeller(ctx context.Context, caller domain.Caller, sellerID int64, items []Item) ([]domain.Transfer, error) {
	if !caller.IsAdmin() {
		return nil, apperrors.NewForbiddenError("only admins can transfer stock")
	}
	ordered, err := normalizeItems(items)
	if err != nil {
		return nil, err
	}

	e.logger.Info("transfer to seller started", zap.Int64("sellerId", sellerID), zap.Int("items", len(ordered)))

	var transfers []domain.Transfer
	err = e.runner.Run(ctx, "transfer.toSeller", func(ctx context.Context, tx store.Tx) error {
		transfers = make([]domain.Transfer, 0, len(ordered))

		if err := e.lockSeller(ctx, tx, sellerID); err != nil {
			return err
		}

		for _, item := range ordered {
			p, err := e.lockActiveProduct(ctx, tx, item.ProductID)
			if err != nil {
				return err
			}
			if !p.CanSupply(item.Quantity) {
				return apperrors.NewInsufficientWarehouseStockError(item.Quantity, p.WarehouseQuantity)
			}
			if _, err := e.assignments.Assign(ctx, tx, sellerID, item.ProductID); err != nil {
				return err
			}

			t, err := e.TransferStock(ctx, tx, caller, sellerID, item.ProductID, item.Quantity)
			if err != nil {
				return err
			}
			transfers = append(transfers, *t)
		}
		return nil
	})
	if err != nil {
		e.logFailure("transfer to seller failed", err, zap.Int64("sellerId", sellerID))
		return nil, err
	}

	e.logger.Info("transfer to seller completed", zap.Int64("sellerId", sellerID), zap.Int("transfers", len(transfers)))
	return transfers, nil
}

func normalizeItems(items []Item) ([]Item, error) {
	if len(items) == 0 {
		return nil, apperrors.NewValidationError("items must not be empty", apperrors.ValidationDetail{
			Field:   "items",
			Message: "items must not be empty",
		})
	}

	var details []apperrors.ValidationDetail
	seen := make(map[int64]bool, len(items))
	for _, item := range items {
		if item.ProductID <= 0 {
			details = append(details, apperrors.ValidationDetail{Field: "productId", Message: "productId must be a positive integer"})
			continue
		}
		if seen[item.ProductID] {
			details = append(details, apperrors.ValidationDetail{Field: "productId", Message: "product listed more than once"})
		}
		seen[item.ProductID] = true
	}
	if len(details) > 0 {
		return nil, apperrors.NewValidationError("invalid transfer items", details...)
	}

	for _, item := range items {
		if item.Quantity <= 0 {
			return nil, apperrors.NewInvalidAmountError(item.Quantity)
		}
	}

	ordered := make([]Item, len(items))
	copy(ordered, items)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].ProductID < ordered[j].ProductID })
	return ordered, nil
}

// ReturnFromSeller moves quantity units back to the warehouse. The
// assignment is left as it is.
func (e *Engine) ReturnFromSeller(ctx context.Context, caller domain.Caller, sellerID, productID int64, quantity int) (*domain.Transfer, error) {
	if !caller.IsAdmin() {
		return nil, apperrors.NewForbiddenError("only admins can return stock")
	}
	if quantity <= 0 {
		return nil, apperrors.NewInvalidAmountError(quantity)
	}

	var t *domain.Transfer
	err := e.runner.Run(ctx, "transfer.return", func(ctx context.Context, tx store.Tx) error {
		// Inactive sellers may still hand stock back.
		if _, err := e.sellers.FindByIDForUpdate(ctx, tx, sellerID); err != nil {
			return err
		}
		var err error
		t, err = e.TransferStock(ctx, tx, caller, sellerID, productID, -quantity)
		return err
	})
	if err != nil {
		e.logFailure("return from seller failed", err,
			zap.Int64("sellerId", sellerID), zap.Int64("productId", productID), zap.Int("quantity", quantity))
		return nil, err
	}

	e.logger.Info("stock returned",
		zap.Int64("sellerId", sellerID), zap.Int64("productId", productID), zap.Int("quantity", quantity))
	return t, nil
}

// SetSellerStockQuantity moves the difference between target and the held
// quantity. The target may not exceed what the seller holds plus what is
// left in the warehouse.
func (e *Engine) SetSellerStockQuantity(ctx context.Context, caller domain.Caller, stockID int64, target int) (*SetQuantityResult, error) {
	if !caller.IsAdmin() {
		return nil, apperrors.NewForbiddenError("only admins can change seller stock")
	}
	if target < 0 {
		return nil, apperrors.NewValidationError("quantity must be non-negative", apperrors.ValidationDetail{
			Field:   "quantity",
			Message: "quantity must be non-negative",
		})
	}

	var result *SetQuantityResult
	err := e.runner.Run(ctx, "transfer.setQuantity", func(ctx context.Context, tx store.Tx) error {
		peeked, err := e.ledger.Peek(ctx, domain.ByStockID(stockID))
		if err != nil {
			return err
		}
		if peeked == nil {
			return apperrors.NewStockRecordNotFoundError("seller stock " + domain.ByStockID(stockID).String() + " not found")
		}

		if err := e.lockSeller(ctx, tx, peeked.SellerID); err != nil {
			return err
		}
		p, err := e.products.FindByIDForUpdate(ctx, tx, peeked.ProductID)
		if err != nil {
			return err
		}
		stock, err := e.ledger.Get(ctx, tx, domain.ByStockID(stockID))
		if err != nil {
			return err
		}

		diff := target - stock.Quantity
		if diff == 0 {
			result = &SetQuantityResult{Stock: stock}
			return nil
		}
		if target > stock.Quantity+p.WarehouseQuantity {
			return apperrors.NewInsufficientWarehouseStockError(diff, p.WarehouseQuantity)
		}
		if diff > 0 {
			if _, err := e.assignments.Assign(ctx, tx, stock.SellerID, stock.ProductID); err != nil {
				return err
			}
		}

		t, err := e.TransferStock(ctx, tx, caller, stock.SellerID, stock.ProductID, diff)
		if err != nil {
			return err
		}
		updated, err := e.ledger.Get(ctx, tx, domain.ByStockID(stockID))
		if err != nil {
			return err
		}
		result = &SetQuantityResult{Stock: updated, TransferCreated: true, Transfer: t}
		return nil
	})
	if err != nil {
		e.logFailure("set seller stock failed", err, zap.Int64("stockId", stockID), zap.Int("quantity", target))
		return nil, err
	}

	e.logger.Info("seller stock set",
		zap.Int64("stockId", stockID),
		zap.Int("quantity", target),
		zap.Bool("transferCreated", result.TransferCreated),
	)
	return result, nil
}

// DeleteSellerStock returns everything the row holds to the warehouse,
// optionally unassigns the product, and removes the emptied row.
func (e *Engine) DeleteSellerStock(ctx context.Context, caller domain.Caller, stockID int64, unassign bool) (*DeleteStockResult, error) {
	if !caller.IsAdmin() {
		return nil, apperrors.NewForbiddenError("only admins can delete seller stock")
	}

	var result *DeleteStockResult
	err := e.runner.Run(ctx, "transfer.deleteStock", func(ctx context.Context, tx store.Tx) error {
		result = &DeleteStockResult{}

		peeked, err := e.ledger.Peek(ctx, domain.ByStockID(stockID))
		if err != nil {
			return err
		}
		if peeked == nil {
			return apperrors.NewStockRecordNotFoundError("seller stock " + domain.ByStockID(stockID).String() + " not found")
		}
		if _, err := e.products.FindByIDForUpdate(ctx, tx, peeked.ProductID); err != nil {
			return err
		}
		stock, err := e.ledger.Get(ctx, tx, domain.ByStockID(stockID))
		if err != nil {
			return err
		}

		if stock.Quantity > 0 {
			t, err := e.TransferStock(ctx, tx, caller, stock.SellerID, stock.ProductID, -stock.Quantity)
			if err != nil {
				return err
			}
			result.ReturnedQuantity = stock.Quantity
			result.Transfer = t
		}

		if unassign {
			active, err := e.assignments.IsActive(ctx, tx, stock.SellerID, stock.ProductID)
			if err != nil {
				return err
			}
			if active {
				if _, err := e.assignments.Unassign(ctx, tx, stock.SellerID, stock.ProductID); err != nil {
					return err
				}
				result.Unassigned = true
			}
		}

		return e.ledger.Remove(ctx, tx, stock.ID)
	})
	if err != nil {
		e.logFailure("delete seller stock failed", err, zap.Int64("stockId", stockID))
		return nil, err
	}

	e.logger.Info("seller stock deleted",
		zap.Int64("stockId", stockID),
		zap.Int("returnedQuantity", result.ReturnedQuantity),
		zap.Bool("unassigned", result.Unassigned),
	)
	return result, nil
}

func (e *Engine) AssignProduct(ctx context.Context, caller domain.Caller, sellerID, productID int64) (*domain.Assignment, error) {
	if !caller.IsAdmin() {
		return nil, apperrors.NewForbiddenError("only admins can assign products")
	}

	var a *domain.Assignment
	err := e.runner.Run(ctx, "transfer.assign", func(ctx context.Context, tx store.Tx) error {
		if err := e.lockSeller(ctx, tx, sellerID); err != nil {
			return err
		}
		if _, err := e.lockActiveProduct(ctx, tx, productID); err != nil {
			return err
		}
		var err error
		a, err = e.assignments.Assign(ctx, tx, sellerID, productID)
		return err
	})
	if err != nil {
		e.logFailure("assign product failed", err, zap.Int64("sellerId", sellerID), zap.Int64("productId", productID))
		return nil, err
	}

	e.logger.Info("product assigned", zap.Int64("sellerId", sellerID), zap.Int64("productId", productID))
	return a, nil
}

// UnassignProduct requires an active assignment. Stock still held is only
// returned when returnStock is set; otherwise the call fails with
// StockStillHeld.
func (e *Engine) UnassignProduct(ctx context.Context, caller domain.Caller, sellerID, productID int64, returnStock bool) (*UnassignResult, error) {
	if !caller.IsAdmin() {
		return nil, apperrors.NewForbiddenError("only admins can unassign products")
	}

	var result *UnassignResult
	err := e.runner.Run(ctx, "transfer.unassign", func(ctx context.Context, tx store.Tx) error {
		result = &UnassignResult{}

		a, err := e.assignments.Find(ctx, tx, sellerID, productID)
		if err != nil {
			return err
		}
		if a == nil || !a.IsActive {
			return apperrors.NewAssignmentNotActiveError(sellerID, productID)
		}

		held, err := e.ledger.Quantity(ctx, tx, domain.BySellerProduct(sellerID, productID))
		if err != nil {
			return err
		}
		if held > 0 {
			if !returnStock {
				return apperrors.NewStockStillHeldError(held)
			}
			t, err := e.TransferStock(ctx, tx, caller, sellerID, productID, -held)
			if err != nil {
				return err
			}
			result.Transfer = t
		}

		result.Assignment, err = e.assignments.Unassign(ctx, tx, sellerID, productID)
		return err
	})
	if err != nil {
		e.logFailure("unassign product failed", err,
			zap.Int64("sellerId", sellerID), zap.Int64("productId", productID), zap.Bool("returnStock", returnStock))
		return nil, err
	}

	e.logger.Info("product unassigned",
		zap.Int64("sellerId", sellerID),
		zap.Int64("productId", productID),
		zap.Bool("stockReturned", result.Transfer != nil),
	)
	return result, nil
}

// ListTransfers returns the newest transfers first. Sellers only see their own.
func (e *Engine) ListTransfers(ctx context.Context, caller domain.Caller, filter domain.TransferFilter) ([]domain.TransferDetail, error) {
	sellerID, err := scopeToCaller(caller, filter.SellerID)
	if err != nil {
		return nil, err
	}
	filter.SellerID = sellerID

	if filter.Limit <= 0 {
		filter.Limit = defaultListLimit
	}
	if filter.Limit > maxListLimit {
		filter.Limit = maxListLimit
	}
	return e.transfers.List(ctx, filter)
}

func (e *Engine) ListSellerStocks(ctx context.Context, caller domain.Caller, sellerID int64) ([]domain.SellerStockDetail, error) {
	scoped, err := scopeToCaller(caller, sellerID)
	if err != nil {
		return nil, err
	}
	return e.ledger.List(ctx, scoped)
}

func (e *Engine) ListAssignments(ctx context.Context, caller domain.Caller, sellerID int64, activeOnly bool) ([]domain.Assignment, error) {
	if sellerID <= 0 {
		return nil, apperrors.NewValidationError("sellerId is required", apperrors.ValidationDetail{
			Field:   "sellerId",
			Message: "sellerId is required",
		})
	}
	if !caller.CanActFor(sellerID) {
		return nil, apperrors.NewForbiddenError("cannot read another seller's assignments")
	}
	return e.assignments.ListBySeller(ctx, sellerID, activeOnly)
}

// scopeToCaller pins reads to the caller's own seller id unless the caller
// is an admin.
func scopeToCaller(caller domain.Caller, sellerID int64) (int64, error) {
	if caller.IsAdmin() {
		return sellerID, nil
	}
	if caller.Role != domain.RoleSeller || caller.SellerID == 0 {
		return 0, apperrors.NewForbiddenError("caller has no seller access")
	}
	if sellerID != 0 && sellerID != caller.SellerID {
		return 0, apperrors.NewForbiddenError("cannot read another seller's records")
	}
	return caller.SellerID, nil
}

func (e *Engine) logFailure(msg string, err error, fields ...zap.Field) {
	fields = append(fields, zap.Error(err), zap.String("code", string(apperrors.CodeOf(err))))
	if apperrors.CodeOf(err) == apperrors.CodeInternal {
		e.logger.Error(msg, fields...)
		return
	}
	e.logger.Warn(msg, fields...)
}
