package sale

import (
	"context"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"stockkeeper/internal/assignment"
	"stockkeeper/internal/domain"
	apperrors "stockkeeper/internal/errors"
	"stockkeeper/internal/ledger"
	"stockkeeper/internal/testutil"
	"stockkeeper/internal/transfer"
)

var admin = domain.AdminCaller(1)

type harness struct {
	store     *testutil.MemStore
	sales     *Engine
	transfers *transfer.Engine
}

func newHarness() *harness {
	ms := testutil.NewMemStore()
	l := ledger.New(ms.StockRepo())
	m := assignment.NewManager(ms.AssignmentRepo())
	return &harness{
		store:     ms,
		sales:     NewEngine(ms, l, m, ms.ProductRepo(), ms.SellerRepo(), ms.SaleRepo(), zap.NewNop()),
		transfers: transfer.NewEngine(ms, l, m, ms.ProductRepo(), ms.SellerRepo(), ms.TransferRepo(), zap.NewNop()),
	}
}

// stocked seeds a product with warehouse units and moves held of them to a
// new seller.
func (h *harness) stocked(t *testing.T, warehouse, held int) (sellerID, productID int64) {
	t.Helper()
	productID = h.store.AddProduct("P", warehouse, decimal.NewFromInt(1000))
	sellerID = h.store.AddSeller("Seller S")
	_, err := h.transfers.TransferToSeller(context.Background(), admin, sellerID, []transfer.Item{{ProductID: productID, Quantity: held}})
	require.NoError(t, err)
	return sellerID, productID
}

func ptr(d decimal.Decimal) *decimal.Decimal {
	return &d
}

func TestRecordSale_DebitsSellerStock(t *testing.T) {
	h := newHarness()
	sellerID, productID := h.stocked(t, 100, 30)
	transfersBefore := len(h.store.Transfers())

	sale, err := h.sales.RecordSale(context.Background(), domain.SellerCaller(sellerID), RecordSaleInput{
		SellerID:  sellerID,
		ProductID: productID,
		Quantity:  5,
		Price:     ptr(decimal.NewFromInt(1000)),
		Customer:  &domain.CustomerInfo{Name: " Ana ", Phone: "555"},
	})

	require.NoError(t, err)
	assert.NotZero(t, sale.ID)
	assert.True(t, decimal.NewFromInt(5000).Equal(sale.TotalAmount))
	assert.Equal(t, "Ana", sale.CustomerName)
	stock, _ := h.store.Stock(sellerID, productID)
	assert.Equal(t, 25, stock.Quantity)
	assert.Len(t, h.store.Sales(), 1)
	assert.Len(t, h.store.Transfers(), transfersBefore)
}

func TestRecordSale_DefaultsToProductPrice(t *testing.T) {
	h := newHarness()
	sellerID, productID := h.stocked(t, 100, 30)

	sale, err := h.sales.RecordSale(context.Background(), admin, RecordSaleInput{
		SellerID:  sellerID,
		ProductID: productID,
		Quantity:  3,
	})

	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(1000).Equal(sale.Price))
	assert.True(t, decimal.NewFromInt(3000).Equal(sale.TotalAmount))
}

func TestRecordSale_DecimalTotal(t *testing.T) {
	h := newHarness()
	sellerID, productID := h.stocked(t, 100, 30)

	sale, err := h.sales.RecordSale(context.Background(), admin, RecordSaleInput{
		SellerID:  sellerID,
		ProductID: productID,
		Quantity:  3,
		Price:     ptr(decimal.RequireFromString("0.10")),
	})

	require.NoError(t, err)
	assert.Equal(t, "0.30", sale.TotalAmount.StringFixed(2))
}

func TestRecordSale_InsufficientStock(t *testing.T) {
	h := newHarness()
	sellerID, productID := h.stocked(t, 100, 25)

	_, err := h.sales.RecordSale(context.Background(), domain.SellerCaller(sellerID), RecordSaleInput{
		SellerID:  sellerID,
		ProductID: productID,
		Quantity:  26,
	})

	ce, ok := apperrors.IsConflictError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeInsufficientStock, ce.Code)
	assert.Equal(t, 26, ce.Requested)
	assert.Equal(t, 25, ce.Available)
	assert.Empty(t, h.store.Sales())
	stock, _ := h.store.Stock(sellerID, productID)
	assert.Equal(t, 25, stock.Quantity)
}

func TestRecordSale_ExactQuantity(t *testing.T) {
	h := newHarness()
	sellerID, productID := h.stocked(t, 100, 25)

	_, err := h.sales.RecordSale(context.Background(), admin, RecordSaleInput{
		SellerID:  sellerID,
		ProductID: productID,
		Quantity:  25,
	})

	require.NoError(t, err)
	stock, _ := h.store.Stock(sellerID, productID)
	assert.Equal(t, 0, stock.Quantity)
}

func TestRecordSale_StockDropsAfterCheck(t *testing.T) {
	h := newHarness()
	sellerID, productID := h.stocked(t, 100, 30)
	stock, _ := h.store.Stock(sellerID, productID)
	h.store.SetBeforeDecrement(func() {
		h.store.SetStockQuantity(stock.ID, 2)
	})

	_, err := h.sales.RecordSale(context.Background(), admin, RecordSaleInput{
		SellerID:  sellerID,
		ProductID: productID,
		Quantity:  5,
	})

	ce, ok := apperrors.IsConflictError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeInsufficientStock, ce.Code)
	assert.Equal(t, 2, ce.Available)
	assert.Empty(t, h.store.Sales())
}

func TestRecordSale_ConcurrentSalesNeverOversell(t *testing.T) {
	h := newHarness()
	sellerID, productID := h.stocked(t, 100, 30)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = h.sales.RecordSale(context.Background(), domain.SellerCaller(sellerID), RecordSaleInput{
				SellerID:  sellerID,
				ProductID: productID,
				Quantity:  20,
			})
		}(i)
	}
	wg.Wait()

	failures := 0
	for _, err := range errs {
		if err != nil {
			failures++
			assert.Equal(t, apperrors.CodeInsufficientStock, apperrors.CodeOf(err))
		}
	}
	assert.Equal(t, 1, failures)
	assert.Len(t, h.store.Sales(), 1)
	stock, _ := h.store.Stock(sellerID, productID)
	assert.Equal(t, 10, stock.Quantity)
}

func TestRecordSale_NotAssigned(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T, h *harness) (sellerID, productID int64)
	}{
		{
			name: "never assigned",
			setup: func(t *testing.T, h *harness) (int64, int64) {
				productID := h.store.AddProduct("P", 100, decimal.NewFromInt(1000))
				return h.store.AddSeller("Seller S"), productID
			},
		},
		{
			name: "unassigned after full return",
			setup: func(t *testing.T, h *harness) (int64, int64) {
				sellerID, productID := h.stocked(t, 100, 10)
				_, err := h.transfers.UnassignProduct(context.Background(), admin, sellerID, productID, true)
				require.NoError(t, err)
				return sellerID, productID
			},
		},
		{
			name: "unassigned after explicit return",
			setup: func(t *testing.T, h *harness) (int64, int64) {
				sellerID, productID := h.stocked(t, 100, 10)
				_, err := h.transfers.ReturnFromSeller(context.Background(), admin, sellerID, productID, 10)
				require.NoError(t, err)
				_, err = h.transfers.UnassignProduct(context.Background(), admin, sellerID, productID, false)
				require.NoError(t, err)
				return sellerID, productID
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness()
			sellerID, productID := tt.setup(t, h)

			_, err := h.sales.RecordSale(context.Background(), domain.SellerCaller(sellerID), RecordSaleInput{
				SellerID:  sellerID,
				ProductID: productID,
				Quantity:  1,
			})

			assert.Equal(t, apperrors.CodeNotAssigned, apperrors.CodeOf(err))
			assert.Empty(t, h.store.Sales())
		})
	}
}

func TestRecordSale_AssignedWithoutStock(t *testing.T) {
	h := newHarness()
	sellerID, productID := h.stocked(t, 100, 10)
	_, err := h.transfers.ReturnFromSeller(context.Background(), admin, sellerID, productID, 10)
	require.NoError(t, err)

	_, err = h.sales.RecordSale(context.Background(), admin, RecordSaleInput{
		SellerID:  sellerID,
		ProductID: productID,
		Quantity:  1,
	})

	ce, ok := apperrors.IsConflictError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeInsufficientStock, ce.Code)
	assert.Equal(t, 0, ce.Available)
	assert.Empty(t, h.store.Sales())
}

func TestRecordSale_Rejections(t *testing.T) {
	h := newHarness()
	sellerID, productID := h.stocked(t, 100, 10)
	inactive := h.store.AddProduct("Q", 10, decimal.NewFromInt(5))
	h.store.SetProductActive(inactive, false)

	tests := []struct {
		name   string
		caller domain.Caller
		in     RecordSaleInput
		code   apperrors.Code
	}{
		{"zero quantity", admin, RecordSaleInput{SellerID: sellerID, ProductID: productID}, apperrors.CodeInvalidAmount},
		{"negative price", admin, RecordSaleInput{SellerID: sellerID, ProductID: productID, Quantity: 1, Price: ptr(decimal.NewFromInt(-1))}, apperrors.CodeValidation},
		{"other seller", domain.SellerCaller(sellerID + 100), RecordSaleInput{SellerID: sellerID, ProductID: productID, Quantity: 1}, apperrors.CodeForbidden},
		{"anonymous", domain.Caller{}, RecordSaleInput{SellerID: sellerID, ProductID: productID, Quantity: 1}, apperrors.CodeForbidden},
		{"missing product", admin, RecordSaleInput{SellerID: sellerID, ProductID: 9999, Quantity: 1}, apperrors.CodeProductNotFound},
		{"inactive product", admin, RecordSaleInput{SellerID: sellerID, ProductID: inactive, Quantity: 1}, apperrors.CodeProductInactive},
		{"missing seller", admin, RecordSaleInput{SellerID: 9999, ProductID: productID, Quantity: 1}, apperrors.CodeSellerNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := h.sales.RecordSale(context.Background(), tt.caller, tt.in)
			require.Error(t, err)
			assert.Equal(t, tt.code, apperrors.CodeOf(err))
		})
	}

	assert.Empty(t, h.store.Sales())
	stock, _ := h.store.Stock(sellerID, productID)
	assert.Equal(t, 10, stock.Quantity)
}

func TestListSales_SellerScope(t *testing.T) {
	h := newHarness()
	sellerID, productID := h.stocked(t, 100, 10)
	other := h.store.AddSeller("Seller T")
	_, err := h.transfers.TransferToSeller(context.Background(), admin, other, []transfer.Item{{ProductID: productID, Quantity: 10}})
	require.NoError(t, err)

	for _, s := range []int64{sellerID, other, other} {
		_, err := h.sales.RecordSale(context.Background(), admin, RecordSaleInput{SellerID: s, ProductID: productID, Quantity: 1})
		require.NoError(t, err)
	}

	own, err := h.sales.ListSales(context.Background(), domain.SellerCaller(other), domain.SaleFilter{})
	require.NoError(t, err)
	assert.Len(t, own, 2)
	assert.Equal(t, "Seller T", own[0].SellerName)

	all, err := h.sales.ListSales(context.Background(), admin, domain.SaleFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	_, err = h.sales.ListSales(context.Background(), domain.SellerCaller(other), domain.SaleFilter{SellerID: sellerID})
	assert.Equal(t, apperrors.CodeForbidden, apperrors.CodeOf(err))

	from := time.Now().Add(time.Hour)
	to := time.Now()
	_, err = h.sales.ListSales(context.Background(), admin, domain.SaleFilter{From: &from, To: &to})
	assert.Equal(t, apperrors.CodeValidation, apperrors.CodeOf(err))
}

func TestGetSale(t *testing.T) {
	h := newHarness()
	sellerID, productID := h.stocked(t, 100, 10)
	sale, err := h.sales.RecordSale(context.Background(), admin, RecordSaleInput{SellerID: sellerID, ProductID: productID, Quantity: 2})
	require.NoError(t, err)

	got, err := h.sales.GetSale(context.Background(), domain.SellerCaller(sellerID), sale.ID)
	require.NoError(t, err)
	assert.Equal(t, sale.ID, got.ID)
	assert.Equal(t, "Product P", got.ProductName)

	_, err = h.sales.GetSale(context.Background(), domain.SellerCaller(sellerID+100), sale.ID)
	assert.Equal(t, apperrors.CodeForbidden, apperrors.CodeOf(err))

	_, err = h.sales.GetSale(context.Background(), admin, 424242)
	assert.Equal(t, apperrors.CodeSaleNotFound, apperrors.CodeOf(err))
}

func TestStockIsConservedAcrossTransfersAndSales(t *testing.T) {
	h := newHarness()
	const introduced = 300
	productID := h.store.AddProduct("P", introduced, decimal.NewFromInt(10))
	sellers := []int64{h.store.AddSeller("A"), h.store.AddSeller("B")}
	rng := rand.New(rand.NewSource(7))
	ctx := context.Background()

	for i := 0; i < 400; i++ {
		sellerID := sellers[rng.Intn(len(sellers))]
		amount := rng.Intn(40) + 1

		switch rng.Intn(4) {
		case 0:
			_, _ = h.transfers.TransferToSeller(ctx, admin, sellerID, []transfer.Item{{ProductID: productID, Quantity: amount}})
		case 1:
			_, _ = h.transfers.ReturnFromSeller(ctx, admin, sellerID, productID, amount)
		case 2:
			_, _ = h.sales.RecordSale(ctx, domain.SellerCaller(sellerID), RecordSaleInput{
				SellerID: sellerID, ProductID: productID, Quantity: amount,
			})
		case 3:
			_, _ = h.transfers.UnassignProduct(ctx, admin, sellerID, productID, rng.Intn(2) == 0)
		}

		warehouse := h.store.Product(productID).WarehouseQuantity
		held := h.store.HeldQuantity(productID)
		sold := h.store.SoldQuantity(productID)
		require.GreaterOrEqual(t, warehouse, 0)
		for _, s := range sellers {
			if stock, ok := h.store.Stock(s, productID); ok {
				require.GreaterOrEqual(t, stock.Quantity, 0)
			}
		}
		require.Equal(t, introduced, warehouse+held+sold, "step %d", i)
	}
	assert.NotEmpty(t, h.store.Sales())
}
