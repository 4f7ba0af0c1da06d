package domain

import "time"

type TransferType string

const (
	TransferTypeTransfer TransferType = "transfer"
	TransferTypeReturn   TransferType = "return"
)

type TransferStatus string

const (
	TransferStatusCompleted TransferStatus = "completed"
	TransferStatusCancelled TransferStatus = "cancelled"
)

// Transfer is an append-only record of a warehouse/seller movement.
// Quantity is always the positive magnitude of the movement.
type Transfer struct {
	ID          int64          `db:"id" json:"id"`
	SellerID    int64          `db:"seller_id" json:"sellerId"`
	ProductID   int64          `db:"product_id" json:"productId"`
	Quantity    int            `db:"quantity" json:"quantity"`
	Type        TransferType   `db:"type" json:"type"`
	Status      TransferStatus `db:"status" json:"status"`
	InitiatedBy *int64         `db:"initiated_by" json:"initiatedBy"`
	CreatedAt   time.Time      `db:"created_at" json:"createdAt"`
}

// TransferDetail is a Transfer joined with seller and product names.
type TransferDetail struct {
	Transfer
	SellerName  string `db:"seller_name" json:"sellerName"`
	ProductName string `db:"product_name" json:"productName"`
}

// TransferTypeFor derives the movement type from a signed amount:
// positive moves warehouse stock to the seller, negative returns it.
func TransferTypeFor(signedAmount int) TransferType {
	if signedAmount > 0 {
		return TransferTypeTransfer
	}
	return TransferTypeReturn
}

type TransferFilter struct {
	SellerID  int64
	ProductID int64
	Type      TransferType
	Limit     int
}
