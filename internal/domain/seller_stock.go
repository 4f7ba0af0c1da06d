package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type SellerStock struct {
	ID               int64      `db:"id" json:"id"`
	SellerID         int64      `db:"seller_id" json:"sellerId"`
	ProductID        int64      `db:"product_id" json:"productId"`
	Quantity         int        `db:"quantity" json:"quantity"`
	LastTransferDate *time.Time `db:"last_transfer_date" json:"lastTransferDate"`
	CreatedAt        time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt        time.Time  `db:"updated_at" json:"updatedAt"`
}

// SellerStockDetail is a SellerStock joined with its product.
type SellerStockDetail struct {
	SellerStock
	ProductName  string          `db:"product_name" json:"productName"`
	ProductSKU   string          `db:"product_sku" json:"productSku"`
	ProductPrice decimal.Decimal `db:"product_price" json:"productPrice"`
}

// StockSelector addresses one seller stock row, either by its own id or by
// the (seller, product) pair. Build a new one per call.
type StockSelector struct {
	StockID   int64
	SellerID  int64
	ProductID int64
}

func BySellerProduct(sellerID, productID int64) StockSelector {
	return StockSelector{SellerID: sellerID, ProductID: productID}
}

func ByStockID(stockID int64) StockSelector {
	return StockSelector{StockID: stockID}
}

func (s StockSelector) ByID() bool {
	return s.StockID != 0
}

func (s StockSelector) Matches(stock SellerStock) bool {
	if s.ByID() {
		return stock.ID == s.StockID
	}
	return stock.SellerID == s.SellerID && stock.ProductID == s.ProductID
}

func (s StockSelector) String() string {
	if s.ByID() {
		return fmt.Sprintf("#%d", s.StockID)
	}
	return fmt.Sprintf("(seller %d, product %d)", s.SellerID, s.ProductID)
}
