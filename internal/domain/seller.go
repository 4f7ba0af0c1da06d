package domain

import "time"

type Role string

const (
	RoleAdmin  Role = "admin"
	RoleSeller Role = "seller"
)

// Seller is a user with role=seller. Sellers are soft deleted only.
type Seller struct {
	ID         int64     `db:"id" json:"id"`
	TelegramID *int64    `db:"telegram_id" json:"telegramId"`
	FullName   string    `db:"full_name" json:"fullName"`
	Username   string    `db:"username" json:"username"`
	Phone      string    `db:"phone" json:"phone"`
	Role       Role      `db:"role" json:"role"`
	IsActive   bool      `db:"is_active" json:"isActive"`
	IsDeleted  bool      `db:"is_deleted" json:"isDeleted"`
	CreatedAt  time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt  time.Time `db:"updated_at" json:"updatedAt"`
}

func (s Seller) Available() bool {
	return s.Role == RoleSeller && s.IsActive && !s.IsDeleted
}
