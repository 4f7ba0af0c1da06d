package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Sale struct {
	ID            int64           `db:"id" json:"id"`
	SellerID      int64           `db:"seller_id" json:"sellerId"`
	ProductID     int64           `db:"product_id" json:"productId"`
	Quantity      int             `db:"quantity" json:"quantity"`
	Price         decimal.Decimal `db:"price" json:"price"`
	TotalAmount   decimal.Decimal `db:"total_amount" json:"totalAmount"`
	CustomerName  string          `db:"customer_name" json:"customerName"`
	CustomerPhone string          `db:"customer_phone" json:"customerPhone"`
	Notes         string          `db:"notes" json:"notes"`
	CreatedAt     time.Time       `db:"created_at" json:"createdAt"`
}

type SaleDetail struct {
	Sale
	SellerName  string `db:"seller_name" json:"sellerName"`
	ProductName string `db:"product_name" json:"productName"`
}

type CustomerInfo struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

func SaleTotal(quantity int, price decimal.Decimal) decimal.Decimal {
	return price.Mul(decimal.NewFromInt(int64(quantity)))
}

type SaleFilter struct {
	SellerID  int64
	ProductID int64
	From      *time.Time
	To        *time.Time
	Limit     int
}
