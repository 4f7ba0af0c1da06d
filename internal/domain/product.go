package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID                int64           `db:"id" json:"id"`
	Name              string          `db:"name" json:"name"`
	SKU               string          `db:"sku" json:"sku"`
	Price             decimal.Decimal `db:"price" json:"price"`
	CostPrice         decimal.Decimal `db:"cost_price" json:"costPrice"`
	CategoryID        *int64          `db:"category_id" json:"categoryId"`
	WarehouseQuantity int             `db:"warehouse_quantity" json:"warehouseQuantity"`
	IsActive          bool            `db:"is_active" json:"isActive"`
	CreatedAt         time.Time       `db:"created_at" json:"createdAt"`
	UpdatedAt         time.Time       `db:"updated_at" json:"updatedAt"`
}

// CanSupply reports whether the warehouse holds at least quantity units.
func (p Product) CanSupply(quantity int) bool {
	return quantity > 0 && p.WarehouseQuantity >= quantity
}

type Category struct {
	ID          int64     `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
}

type ProductFilter struct {
	IDs        []int64
	CategoryID int64
	ActiveOnly bool
}
