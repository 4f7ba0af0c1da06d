package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockkeeper/internal/domain"
	"stockkeeper/internal/testutil"
)

func TestSellerStockRepository_ConditionalDecrement(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLSellerStockRepository(db)
	sellerID := testutil.InsertSeller(t, db, "Ana")
	productID := testutil.InsertProduct(t, db, "SKU-1", 0)
	sel := domain.BySellerProduct(sellerID, productID)
	ctx := context.Background()

	tx, err := db.BeginTxx(ctx, nil)
	require.NoError(t, err)
	defer tx.Rollback()

	require.NoError(t, repo.InsertEmpty(ctx, tx, sellerID, productID))
	// A second open is a no-op on the unique key.
	require.NoError(t, repo.InsertEmpty(ctx, tx, sellerID, productID))

	ok, err := repo.Increment(ctx, tx, sel, 10, time.Now().UTC())
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.DecrementIfAvailable(ctx, tx, sel, 11, nil)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = repo.DecrementIfAvailable(ctx, tx, sel, 10, nil)
	require.NoError(t, err)
	assert.True(t, ok)

	stock, err := repo.FindForUpdate(ctx, tx, sel)
	require.NoError(t, err)
	require.NotNil(t, stock)
	assert.Equal(t, 0, stock.Quantity)

	ok, err = repo.DeleteEmpty(ctx, tx, stock.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	gone, err := repo.FindForUpdate(ctx, tx, domain.ByStockID(stock.ID))
	require.NoError(t, err)
	assert.Nil(t, gone)
}

func TestSellerStockRepository_DeleteEmptyRefusesHeldRows(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLSellerStockRepository(db)
	sellerID := testutil.InsertSeller(t, db, "Ana")
	productID := testutil.InsertProduct(t, db, "SKU-1", 0)
	sel := domain.BySellerProduct(sellerID, productID)
	ctx := context.Background()

	tx, err := db.BeginTxx(ctx, nil)
	require.NoError(t, err)
	require.NoError(t, repo.InsertEmpty(ctx, tx, sellerID, productID))
	_, err = repo.Increment(ctx, tx, sel, 3, time.Now().UTC())
	require.NoError(t, err)
	require.NoError(t, tx.Commit())

	stock, err := repo.Find(ctx, sel)
	require.NoError(t, err)
	require.NotNil(t, stock)

	tx, err = db.BeginTxx(ctx, nil)
	require.NoError(t, err)
	defer tx.Rollback()

	ok, err := repo.DeleteEmpty(ctx, tx, stock.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	held, err := repo.SumBySeller(ctx, sellerID)
	require.NoError(t, err)
	assert.Equal(t, 3, held)

	details, err := repo.ListDetails(ctx, sellerID)
	require.NoError(t, err)
	require.Len(t, details, 1)
	assert.Equal(t, "SKU-1", details[0].ProductSKU)
}
