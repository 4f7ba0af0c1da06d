package product

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"stockkeeper/internal/domain"
	apperrors "stockkeeper/internal/errors"
	"stockkeeper/internal/testutil"
)

var admin = domain.AdminCaller(1)

func newTestService() (*Service, *testutil.MemStore) {
	ms := testutil.NewMemStore()
	return NewService(ms, ms.ProductRepo(), ms.CategoryRepo(), zap.NewNop()), ms
}

func TestCreateProduct_Success(t *testing.T) {
	svc, ms := newTestService()
	categoryID := ms.AddCategory("Drinks")

	p, err := svc.CreateProduct(context.Background(), admin, CreateProductInput{
		Name:              " Cola ",
		SKU:               "COLA-1",
		Price:             decimal.NewFromInt(1000),
		CostPrice:         decimal.NewFromInt(600),
		CategoryID:        &categoryID,
		WarehouseQuantity: 100,
	})

	require.NoError(t, err)
	assert.NotZero(t, p.ID)
	assert.Equal(t, "Cola", p.Name)
	assert.True(t, p.IsActive)
	assert.Equal(t, 100, p.WarehouseQuantity)
}

func TestCreateProduct_Rejections(t *testing.T) {
	svc, ms := newTestService()
	ms.AddProduct("TAKEN", 1, decimal.NewFromInt(1))
	missingCategory := int64(9999)

	tests := []struct {
		name   string
		caller domain.Caller
		in     CreateProductInput
		code   apperrors.Code
	}{
		{"seller caller", domain.SellerCaller(2), CreateProductInput{Name: "X", SKU: "X"}, apperrors.CodeForbidden},
		{"negative warehouse", admin, CreateProductInput{Name: "X", SKU: "X", WarehouseQuantity: -1}, apperrors.CodeInvalidAmount},
		{"missing category", admin, CreateProductInput{Name: "X", SKU: "X", CategoryID: &missingCategory}, apperrors.CodeCategoryNotFound},
		{"duplicate sku", admin, CreateProductInput{Name: "X", SKU: "TAKEN"}, apperrors.CodeDuplicate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateProduct(context.Background(), tt.caller, tt.in)
			require.Error(t, err)
			assert.Equal(t, tt.code, apperrors.CodeOf(err))
		})
	}
}

func TestUpdateProduct_LeavesWarehouseAlone(t *testing.T) {
	svc, ms := newTestService()
	id := ms.AddProduct("P", 40, decimal.NewFromInt(10))
	name := "Renamed"
	active := false
	newPrice := decimal.NewFromInt(12)

	p, err := svc.UpdateProduct(context.Background(), admin, id, UpdateProductInput{
		Name:     &name,
		Price:    &newPrice,
		IsActive: &active,
	})

	require.NoError(t, err)
	assert.Equal(t, "Renamed", p.Name)
	assert.True(t, newPrice.Equal(p.Price))
	assert.False(t, p.IsActive)
	assert.Equal(t, 40, p.WarehouseQuantity)
	assert.Equal(t, "P", p.SKU)
}

func TestUpdateProduct_NotFound(t *testing.T) {
	svc, _ := newTestService()
	name := "x"

	_, err := svc.UpdateProduct(context.Background(), admin, 77, UpdateProductInput{Name: &name})

	assert.Equal(t, apperrors.CodeProductNotFound, apperrors.CodeOf(err))
}

func TestRestock(t *testing.T) {
	svc, ms := newTestService()
	id := ms.AddProduct("P", 40, decimal.NewFromInt(10))

	p, err := svc.Restock(context.Background(), admin, id, 15)
	require.NoError(t, err)
	assert.Equal(t, 55, p.WarehouseQuantity)

	_, err = svc.Restock(context.Background(), admin, id, 0)
	assert.Equal(t, apperrors.CodeInvalidAmount, apperrors.CodeOf(err))

	_, err = svc.Restock(context.Background(), admin, 9999, 5)
	assert.Equal(t, apperrors.CodeProductNotFound, apperrors.CodeOf(err))

	_, err = svc.Restock(context.Background(), domain.SellerCaller(3), id, 5)
	assert.Equal(t, apperrors.CodeForbidden, apperrors.CodeOf(err))

	assert.Equal(t, 55, ms.Product(id).WarehouseQuantity)
}

func TestSearchProducts_ReportsMissingIDs(t *testing.T) {
	svc, ms := newTestService()
	first := ms.AddProduct("A", 1, decimal.NewFromInt(1))
	second := ms.AddProduct("B", 1, decimal.NewFromInt(1))

	found, notFound, err := svc.SearchProducts(context.Background(), domain.ProductFilter{IDs: []int64{first, 999, second}})

	require.NoError(t, err)
	assert.Len(t, found, 2)
	assert.Equal(t, []int64{999}, notFound)
}

func TestSearchProducts_ActiveOnly(t *testing.T) {
	svc, ms := newTestService()
	ms.AddProduct("A", 1, decimal.NewFromInt(1))
	hidden := ms.AddProduct("B", 1, decimal.NewFromInt(1))
	ms.SetProductActive(hidden, false)

	found, notFound, err := svc.SearchProducts(context.Background(), domain.ProductFilter{ActiveOnly: true})

	require.NoError(t, err)
	assert.Len(t, found, 1)
	assert.Empty(t, notFound)
}

func TestCategories(t *testing.T) {
	svc, _ := newTestService()

	c, err := svc.CreateCategory(context.Background(), admin, CreateCategoryInput{Name: "Snacks"})
	require.NoError(t, err)
	assert.NotZero(t, c.ID)

	_, err = svc.CreateCategory(context.Background(), admin, CreateCategoryInput{Name: "Snacks"})
	assert.Equal(t, apperrors.CodeDuplicate, apperrors.CodeOf(err))

	_, err = svc.CreateCategory(context.Background(), domain.SellerCaller(2), CreateCategoryInput{Name: "Other"})
	assert.Equal(t, apperrors.CodeForbidden, apperrors.CodeOf(err))

	categories, err := svc.ListCategories(context.Background())
	require.NoError(t, err)
	assert.Len(t, categories, 1)
}
