package transfer

import "stockkeeper/internal/domain"

type Item struct {
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}

type TransferToSellerRequest struct {
	SellerID int64  `json:"sellerId"`
	Items    []Item `json:"items"`
}

type ReturnRequest struct {
	SellerID  int64 `json:"sellerId"`
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}

type SetQuantityRequest struct {
	Quantity *int `json:"quantity"`
}

type AssignRequest struct {
	SellerID  int64 `json:"sellerId"`
	ProductID int64 `json:"productId"`
}

type UnassignRequest struct {
	SellerID    int64 `json:"sellerId"`
	ProductID   int64 `json:"productId"`
	ReturnStock bool  `json:"returnStock"`
}

type SetQuantityResult struct {
	Stock           *domain.SellerStock `json:"stock"`
	TransferCreated bool                `json:"transferCreated"`
	Transfer        *domain.Transfer    `json:"transfer,omitempty"`
}

type DeleteStockResult struct {
	ReturnedQuantity int              `json:"returnedQuantity"`
	Transfer         *domain.Transfer `json:"transfer,omitempty"`
	Unassigned       bool             `json:"unassigned"`
}

type UnassignResult struct {
	Assignment *domain.Assignment `json:"assignment"`
	Transfer   *domain.Transfer   `json:"transfer,omitempty"`
}
