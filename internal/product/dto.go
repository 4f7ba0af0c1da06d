package product

import (
	"github.com/shopspring/decimal"

	"stockkeeper/internal/domain"
)

type CreateCategoryInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type CreateProductInput struct {
	Name              string          `json:"name"`
	SKU               string          `json:"sku"`
	Price             decimal.Decimal `json:"price"`
	CostPrice         decimal.Decimal `json:"costPrice"`
	CategoryID        *int64          `json:"categoryId"`
	WarehouseQuantity int             `json:"warehouseQuantity"`
}

type UpdateProductInput struct {
	Name       *string          `json:"name"`
	SKU        *string          `json:"sku"`
	Price      *decimal.Decimal `json:"price"`
	CostPrice  *decimal.Decimal `json:"costPrice"`
	CategoryID *int64           `json:"categoryId"`
	IsActive   *bool            `json:"isActive"`
}

func (in UpdateProductInput) apply(p *domain.Product) {
	if in.Name != nil {
		p.Name = *in.Name
	}
	if in.SKU != nil {
		p.SKU = *in.SKU
	}
	if in.Price != nil {
		p.Price = *in.Price
	}
	if in.CostPrice != nil {
		p.CostPrice = *in.CostPrice
	}
	if in.CategoryID != nil {
		p.CategoryID = in.CategoryID
	}
	if in.IsActive != nil {
		p.IsActive = *in.IsActive
	}
}

type RestockRequest struct {
	Quantity int `json:"quantity"`
}

type SearchProductsResponse struct {
	Products []domain.Product `json:"products"`
	NotFound []int64          `json:"notFound"`
}
