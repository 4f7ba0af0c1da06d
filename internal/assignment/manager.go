package assignment

import (
	"context"
	"time"

	"stockkeeper/internal/domain"
	apperrors "stockkeeper/internal/errors"
	"stockkeeper/internal/store"
)

type Repository interface {
	FindForUpdate(ctx context.Context, tx store.Tx, sellerID, productID int64) (*domain.Assignment, error)
	Activate(ctx context.Context, tx store.Tx, sellerID, productID int64, at time.Time) error
	Deactivate(ctx context.Context, tx store.Tx, sellerID, productID int64, at time.Time) (bool, error)
	ListBySeller(ctx context.Context, sellerID int64, activeOnly bool) ([]domain.Assignment, error)
}

// Manager owns the assignment flag lifecycle. It never touches quantities.
type Manager struct {
	repo Repository
	now  func() time.Time
}

func NewManager(repo Repository) *Manager {
	return &Manager{repo: repo, now: time.Now}
}

// Find returns the (seller, product) assignment locked, or nil.
func (m *Manager) Find(ctx context.Context, tx store.Tx, sellerID, productID int64) (*domain.Assignment, error) {
	return m.repo.FindForUpdate(ctx, tx, sellerID, productID)
}

func (m *Manager) IsActive(ctx context.Context, tx store.Tx, sellerID, productID int64) (bool, error) {
	a, err := m.Find(ctx, tx, sellerID, productID)
	if err != nil {
		return false, err
	}
	return a != nil && a.IsActive, nil
}

// Assign creates the row or reactivates it. An already active row is left
// as it is.
func (m *Manager) Assign(ctx context.Context, tx store.Tx, sellerID, productID int64) (*domain.Assignment, error) {
	if err := m.repo.Activate(ctx, tx, sellerID, productID, m.now().UTC()); err != nil {
		return nil, err
	}
	a, err := m.Find(ctx, tx, sellerID, productID)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, apperrors.NewInternalError("assignment missing after activation", nil)
	}
	return a, nil
}

// Unassign requires an active row.
func (m *Manager) Unassign(ctx context.Context, tx store.Tx, sellerID, productID int64) (*domain.Assignment, error) {
	ok, err := m.repo.Deactivate(ctx, tx, sellerID, productID, m.now().UTC())
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperrors.NewAssignmentNotActiveError(sellerID, productID)
	}
	return m.Find(ctx, tx, sellerID, productID)
}

func (m *Manager) ListBySeller(ctx context.Context, sellerID int64, activeOnly bool) ([]domain.Assignment, error) {
	return m.repo.ListBySeller(ctx, sellerID, activeOnly)
}
