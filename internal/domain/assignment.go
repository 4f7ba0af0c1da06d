package domain

import "time"

// Assignment is the (seller, product) permission row. There is at most one
// row per pair; re-assigning toggles the existing row.
type Assignment struct {
	ID           int64      `db:"id" json:"id"`
	SellerID     int64      `db:"seller_id" json:"sellerId"`
	ProductID    int64      `db:"product_id" json:"productId"`
	IsActive     bool       `db:"is_active" json:"isActive"`
	AssignedAt   time.Time  `db:"assigned_at" json:"assignedAt"`
	UnassignedAt *time.Time `db:"unassigned_at" json:"unassignedAt"`
}
