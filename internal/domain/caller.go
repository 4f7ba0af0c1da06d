package domain

// Caller is the already authenticated identity a request acts as.
type Caller struct {
	UserID   int64
	Role     Role
	SellerID int64
}

func AdminCaller(userID int64) Caller {
	return Caller{UserID: userID, Role: RoleAdmin}
}

func SellerCaller(sellerID int64) Caller {
	return Caller{UserID: sellerID, Role: RoleSeller, SellerID: sellerID}
}

func (c Caller) IsAdmin() bool {
	return c.Role == RoleAdmin
}

// CanActFor reports whether the caller may operate on sellerID's stock.
func (c Caller) CanActFor(sellerID int64) bool {
	if c.IsAdmin() {
		return true
	}
	return c.Role == RoleSeller && c.SellerID != 0 && c.SellerID == sellerID
}

func (c Caller) UserRef() *int64 {
	if c.UserID == 0 {
		return nil
	}
	id := c.UserID
	return &id
}
