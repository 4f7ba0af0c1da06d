package testutil

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/shopspring/decimal"

	"stockkeeper/internal/domain"
	apperrors "stockkeeper/internal/errors"
	"stockkeeper/internal/store"
)

var errRawQuery = errors.New("memstore: raw queries are not supported")

// MemStore is an in-memory stand-in for the MySQL repositories. Units of
// work run one at a time and are rolled back by restoring a snapshot, which
// is enough to check the engines' atomicity and quantity rules without a
// database. Reads made outside Run do not take the transaction lock.
type MemStore struct {
	txMu sync.Mutex
	mu   sync.Mutex

	state     memState
	rollbacks int

	beforeDecrement func()
	now             func() time.Time
}

type memState struct {
	seq         int64
	products    map[int64]domain.Product
	categories  map[int64]domain.Category
	sellers     map[int64]domain.Seller
	assignments map[int64]domain.Assignment
	stocks      map[int64]domain.SellerStock
	transfers   []domain.Transfer
	sales       []domain.Sale
}

func (s memState) clone() memState {
	c := memState{
		seq:         s.seq,
		products:    make(map[int64]domain.Product, len(s.products)),
		categories:  make(map[int64]domain.Category, len(s.categories)),
		sellers:     make(map[int64]domain.Seller, len(s.sellers)),
		assignments: make(map[int64]domain.Assignment, len(s.assignments)),
		stocks:      make(map[int64]domain.SellerStock, len(s.stocks)),
		transfers:   append([]domain.Transfer(nil), s.transfers...),
		sales:       append([]domain.Sale(nil), s.sales...),
	}
	for k, v := range s.products {
		c.products[k] = v
	}
	for k, v := range s.categories {
		c.categories[k] = v
	}
	for k, v := range s.sellers {
		c.sellers[k] = v
	}
	for k, v := range s.assignments {
		c.assignments[k] = v
	}
	for k, v := range s.stocks {
		c.stocks[k] = v
	}
	return c
}

func NewMemStore() *MemStore {
	return &MemStore{
		state: memState{
			products:    map[int64]domain.Product{},
			categories:  map[int64]domain.Category{},
			sellers:     map[int64]domain.Seller{},
			assignments: map[int64]domain.Assignment{},
			stocks:      map[int64]domain.SellerStock{},
		},
		now: func() time.Time { return time.Now().UTC() },
	}
}

func (m *MemStore) nextID() int64 {
	m.state.seq++
	return m.state.seq
}

type memTx struct{}

func (memTx) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	return nil, errRawQuery
}

func (memTx) GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	return errRawQuery
}

func (memTx) SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	return errRawQuery
}

func (memTx) Commit() error   { return nil }
func (memTx) Rollback() error { return nil }

// Run implements store.TxRunner.
func (m *MemStore) Run(ctx context.Context, op string, fn store.TxFunc) error {
	m.txMu.Lock()
	defer m.txMu.Unlock()

	m.mu.Lock()
	snapshot := m.state.clone()
	m.mu.Unlock()

	if err := fn(ctx, memTx{}); err != nil {
		m.mu.Lock()
		m.state = snapshot
		m.rollbacks++
		m.mu.Unlock()
		return err
	}
	return nil
}

// Seeding and inspection helpers.

func (m *MemStore) AddCategory(name string) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.nextID()
	m.state.categories[id] = domain.Category{ID: id, Name: name, CreatedAt: m.now()}
	return id
}

// AddProduct seeds an active product holding warehouse units.
func (m *MemStore) AddProduct(sku string, warehouse int, price decimal.Decimal) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.nextID()
	m.state.products[id] = domain.Product{
		ID:                id,
		Name:              "Product " + sku,
		SKU:               sku,
		Price:             price,
		WarehouseQuantity: warehouse,
		IsActive:          true,
		CreatedAt:         m.now(),
		UpdatedAt:         m.now(),
	}
	return id
}

func (m *MemStore) SetProductActive(id int64, active bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p := m.state.products[id]
	p.IsActive = active
	m.state.products[id] = p
}

func (m *MemStore) AddSeller(name string) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.nextID()
	m.state.sellers[id] = domain.Seller{
		ID:        id,
		FullName:  name,
		Role:      domain.RoleSeller,
		IsActive:  true,
		CreatedAt: m.now(),
		UpdatedAt: m.now(),
	}
	return id
}

func (m *MemStore) Product(id int64) domain.Product {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.products[id]
}

func (m *MemStore) Seller(id int64) domain.Seller {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.sellers[id]
}

func (m *MemStore) Stock(sellerID, productID int64) (domain.SellerStock, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	st, ok := m.findStock(domain.BySellerProduct(sellerID, productID))
	return st, ok
}

// SetStockQuantity overwrites a quantity, bypassing the ledger. Tests use it
// to simulate a concurrent writer.
func (m *MemStore) SetStockQuantity(stockID int64, quantity int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	st := m.state.stocks[stockID]
	st.Quantity = quantity
	m.state.stocks[stockID] = st
}

// SetBeforeDecrement installs fn to run at the start of every conditional
// seller stock decrement.
func (m *MemStore) SetBeforeDecrement(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.beforeDecrement = fn
}

func (m *MemStore) Assignment(sellerID, productID int64) (domain.Assignment, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.findAssignment(sellerID, productID)
	return a, ok
}

// AssignmentRows counts rows for the pair, active or not.
func (m *MemStore) AssignmentRows(sellerID, productID int64) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, a := range m.state.assignments {
		if a.SellerID == sellerID && a.ProductID == productID {
			n++
		}
	}
	return n
}

func (m *MemStore) Transfers() []domain.Transfer {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.Transfer(nil), m.state.transfers...)
}

func (m *MemStore) Sales() []domain.Sale {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.Sale(nil), m.state.sales...)
}

// SoldQuantity is the number of units of productID that left through sales.
func (m *MemStore) SoldQuantity(productID int64) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, s := range m.state.sales {
		if s.ProductID == productID {
			n += s.Quantity
		}
	}
	return n
}

// HeldQuantity sums every seller's stock of productID.
func (m *MemStore) HeldQuantity(productID int64) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, st := range m.state.stocks {
		if st.ProductID == productID {
			n += st.Quantity
		}
	}
	return n
}

func (m *MemStore) Rollbacks() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rollbacks
}

func (m *MemStore) findStock(sel domain.StockSelector) (domain.SellerStock, bool) {
	if sel.ByID() {
		st, ok := m.state.stocks[sel.StockID]
		return st, ok
	}
	for _, st := range m.state.stocks {
		if sel.Matches(st) {
			return st, true
		}
	}
	return domain.SellerStock{}, false
}

func (m *MemStore) findAssignment(sellerID, productID int64) (domain.Assignment, bool) {
	for _, a := range m.state.assignments {
		if a.SellerID == sellerID && a.ProductID == productID {
			return a, true
		}
	}
	return domain.Assignment{}, false
}

// Repository views. Each one satisfies the port of the package named in its
// comment.

// StockRepo satisfies ledger.Repository.
type StockRepo struct{ m *MemStore }

func (m *MemStore) StockRepo() *StockRepo { return &StockRepo{m: m} }

func (r *StockRepo) Find(ctx context.Context, sel domain.StockSelector) (*domain.SellerStock, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	st, ok := r.m.findStock(sel)
	if !ok {
		return nil, nil
	}
	return &st, nil
}

func (r *StockRepo) FindForUpdate(ctx context.Context, tx store.Tx, sel domain.StockSelector) (*domain.SellerStock, error) {
	return r.Find(ctx, sel)
}

func (r *StockRepo) Increment(ctx context.Context, tx store.Tx, sel domain.StockSelector, amount int, at time.Time) (bool, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	st, ok := r.m.findStock(sel)
	if !ok {
		return false, nil
	}
	st.Quantity += amount
	st.LastTransferDate = &at
	st.UpdatedAt = at
	r.m.state.stocks[st.ID] = st
	return true, nil
}

func (r *StockRepo) DecrementIfAvailable(ctx context.Context, tx store.Tx, sel domain.StockSelector, amount int, stamp *time.Time) (bool, error) {
	r.m.mu.Lock()
	hook := r.m.beforeDecrement
	r.m.mu.Unlock()
	if hook != nil {
		hook()
	}

	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	st, ok := r.m.findStock(sel)
	if !ok || st.Quantity < amount {
		return false, nil
	}
	st.Quantity -= amount
	if stamp != nil {
		at := *stamp
		st.LastTransferDate = &at
	}
	r.m.state.stocks[st.ID] = st
	return true, nil
}

func (r *StockRepo) InsertEmpty(ctx context.Context, tx store.Tx, sellerID, productID int64) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.findStock(domain.BySellerProduct(sellerID, productID)); ok {
		return nil
	}
	id := r.m.nextID()
	r.m.state.stocks[id] = domain.SellerStock{
		ID:        id,
		SellerID:  sellerID,
		ProductID: productID,
		CreatedAt: r.m.now(),
		UpdatedAt: r.m.now(),
	}
	return nil
}

func (r *StockRepo) DeleteEmpty(ctx context.Context, tx store.Tx, stockID int64) (bool, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	st, ok := r.m.state.stocks[stockID]
	if !ok || st.Quantity != 0 {
		return false, nil
	}
	delete(r.m.state.stocks, stockID)
	return true, nil
}

func (r *StockRepo) ListDetails(ctx context.Context, sellerID int64) ([]domain.SellerStockDetail, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	out := []domain.SellerStockDetail{}
	for _, st := range r.m.state.stocks {
		if sellerID != 0 && st.SellerID != sellerID {
			continue
		}
		p := r.m.state.products[st.ProductID]
		out = append(out, domain.SellerStockDetail{
			SellerStock:  st,
			ProductName:  p.Name,
			ProductSKU:   p.SKU,
			ProductPrice: p.Price,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SellerID != out[j].SellerID {
			return out[i].SellerID < out[j].SellerID
		}
		return out[i].ProductName < out[j].ProductName
	})
	return out, nil
}

func (r *StockRepo) SumBySeller(ctx context.Context, sellerID int64) (int, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	total := 0
	for _, st := range r.m.state.stocks {
		if st.SellerID == sellerID {
			total += st.Quantity
		}
	}
	return total, nil
}

// AssignmentRepo satisfies assignment.Repository.
type AssignmentRepo struct{ m *MemStore }

func (m *MemStore) AssignmentRepo() *AssignmentRepo { return &AssignmentRepo{m: m} }

func (r *AssignmentRepo) FindForUpdate(ctx context.Context, tx store.Tx, sellerID, productID int64) (*domain.Assignment, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	a, ok := r.m.findAssignment(sellerID, productID)
	if !ok {
		return nil, nil
	}
	return &a, nil
}

func (r *AssignmentRepo) Activate(ctx context.Context, tx store.Tx, sellerID, productID int64, at time.Time) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	a, ok := r.m.findAssignment(sellerID, productID)
	if !ok {
		a = domain.Assignment{ID: r.m.nextID(), SellerID: sellerID, ProductID: productID}
	}
	if a.IsActive {
		return nil
	}
	a.IsActive = true
	a.AssignedAt = at
	a.UnassignedAt = nil
	r.m.state.assignments[a.ID] = a
	return nil
}

func (r *AssignmentRepo) Deactivate(ctx context.Context, tx store.Tx, sellerID, productID int64, at time.Time) (bool, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	a, ok := r.m.findAssignment(sellerID, productID)
	if !ok || !a.IsActive {
		return false, nil
	}
	a.IsActive = false
	a.UnassignedAt = &at
	r.m.state.assignments[a.ID] = a
	return true, nil
}

func (r *AssignmentRepo) ListBySeller(ctx context.Context, sellerID int64, activeOnly bool) ([]domain.Assignment, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	out := []domain.Assignment{}
	for _, a := range r.m.state.assignments {
		if a.SellerID != sellerID || (activeOnly && !a.IsActive) {
			continue
		}
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProductID < out[j].ProductID })
	return out, nil
}

// ProductRepo satisfies product.Repository and the product ports of the
// transfer and sale engines.
type ProductRepo struct{ m *MemStore }

func (m *MemStore) ProductRepo() *ProductRepo { return &ProductRepo{m: m} }

func (r *ProductRepo) FindByID(ctx context.Context, id int64) (*domain.Product, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	p, ok := r.m.state.products[id]
	if !ok {
		return nil, apperrors.NewProductNotFoundError(id)
	}
	return &p, nil
}

func (r *ProductRepo) FindByIDForUpdate(ctx context.Context, tx store.Tx, id int64) (*domain.Product, error) {
	return r.FindByID(ctx, id)
}

func (r *ProductRepo) List(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	wanted := map[int64]bool{}
	for _, id := range filter.IDs {
		wanted[id] = true
	}
	out := []domain.Product{}
	for _, p := range r.m.state.products {
		if len(wanted) > 0 && !wanted[p.ID] {
			continue
		}
		if filter.CategoryID != 0 && (p.CategoryID == nil || *p.CategoryID != filter.CategoryID) {
			continue
		}
		if filter.ActiveOnly && !p.IsActive {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *ProductRepo) Insert(ctx context.Context, tx store.Tx, p *domain.Product) (int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, existing := range r.m.state.products {
		if existing.SKU == p.SKU {
			return 0, &mysql.MySQLError{Number: 1062, Message: "Duplicate entry"}
		}
	}
	stored := *p
	stored.ID = r.m.nextID()
	stored.CreatedAt = r.m.now()
	stored.UpdatedAt = stored.CreatedAt
	r.m.state.products[stored.ID] = stored
	return stored.ID, nil
}

func (r *ProductRepo) UpdateDetails(ctx context.Context, tx store.Tx, p domain.Product) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	current, ok := r.m.state.products[p.ID]
	if !ok {
		return nil
	}
	for _, existing := range r.m.state.products {
		if existing.ID != p.ID && existing.SKU == p.SKU {
			return &mysql.MySQLError{Number: 1062, Message: "Duplicate entry"}
		}
	}
	current.Name = p.Name
	current.SKU = p.SKU
	current.Price = p.Price
	current.CostPrice = p.CostPrice
	current.CategoryID = p.CategoryID
	current.IsActive = p.IsActive
	current.UpdatedAt = r.m.now()
	r.m.state.products[p.ID] = current
	return nil
}

func (r *ProductRepo) DecrementWarehouse(ctx context.Context, tx store.Tx, id int64, amount int) (bool, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	p, ok := r.m.state.products[id]
	if !ok || p.WarehouseQuantity < amount {
		return false, nil
	}
	p.WarehouseQuantity -= amount
	r.m.state.products[id] = p
	return true, nil
}

func (r *ProductRepo) IncrementWarehouse(ctx context.Context, tx store.Tx, id int64, amount int) (bool, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	p, ok := r.m.state.products[id]
	if !ok {
		return false, nil
	}
	p.WarehouseQuantity += amount
	r.m.state.products[id] = p
	return true, nil
}

// CategoryRepo satisfies product.CategoryRepository.
type CategoryRepo struct{ m *MemStore }

func (m *MemStore) CategoryRepo() *CategoryRepo { return &CategoryRepo{m: m} }

func (r *CategoryRepo) FindByID(ctx context.Context, id int64) (*domain.Category, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	c, ok := r.m.state.categories[id]
	if !ok {
		return nil, apperrors.NewCategoryNotFoundError(id)
	}
	return &c, nil
}

func (r *CategoryRepo) List(ctx context.Context) ([]domain.Category, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	out := []domain.Category{}
	for _, c := range r.m.state.categories {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *CategoryRepo) Insert(ctx context.Context, c *domain.Category) (int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, existing := range r.m.state.categories {
		if existing.Name == c.Name {
			return 0, &mysql.MySQLError{Number: 1062, Message: "Duplicate entry"}
		}
	}
	stored := *c
	stored.ID = r.m.nextID()
	stored.CreatedAt = r.m.now()
	r.m.state.categories[stored.ID] = stored
	return stored.ID, nil
}

// SellerRepo satisfies seller.Repository and the seller ports of the
// transfer and sale engines.
type SellerRepo struct{ m *MemStore }

func (m *MemStore) SellerRepo() *SellerRepo { return &SellerRepo{m: m} }

func (r *SellerRepo) FindByID(ctx context.Context, id int64) (*domain.Seller, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	s, ok := r.m.state.sellers[id]
	if !ok || s.IsDeleted || s.Role != domain.RoleSeller {
		return nil, apperrors.NewSellerNotFoundError(id)
	}
	return &s, nil
}

func (r *SellerRepo) FindByIDForUpdate(ctx context.Context, tx store.Tx, id int64) (*domain.Seller, error) {
	return r.FindByID(ctx, id)
}

func (r *SellerRepo) List(ctx context.Context) ([]domain.Seller, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	out := []domain.Seller{}
	for _, s := range r.m.state.sellers {
		if s.IsDeleted || s.Role != domain.RoleSeller {
			continue
		}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FullName < out[j].FullName })
	return out, nil
}

func (r *SellerRepo) Insert(ctx context.Context, s *domain.Seller) (int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if s.TelegramID != nil {
		for _, existing := range r.m.state.sellers {
			if existing.TelegramID != nil && *existing.TelegramID == *s.TelegramID {
				return 0, &mysql.MySQLError{Number: 1062, Message: "Duplicate entry"}
			}
		}
	}
	stored := *s
	stored.ID = r.m.nextID()
	stored.CreatedAt = r.m.now()
	stored.UpdatedAt = stored.CreatedAt
	r.m.state.sellers[stored.ID] = stored
	return stored.ID, nil
}

func (r *SellerRepo) SoftDelete(ctx context.Context, tx store.Tx, id int64) (bool, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	s, ok := r.m.state.sellers[id]
	if !ok || s.IsDeleted {
		return false, nil
	}
	s.IsActive = false
	s.IsDeleted = true
	r.m.state.sellers[id] = s
	return true, nil
}

// TransferRepo satisfies transfer.Repository.
type TransferRepo struct{ m *MemStore }

func (m *MemStore) TransferRepo() *TransferRepo { return &TransferRepo{m: m} }

func (r *TransferRepo) Insert(ctx context.Context, tx store.Tx, t *domain.Transfer) (int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	stored := *t
	stored.ID = r.m.nextID()
	r.m.state.transfers = append(r.m.state.transfers, stored)
	return stored.ID, nil
}

func (r *TransferRepo) List(ctx context.Context, filter domain.TransferFilter) ([]domain.TransferDetail, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	out := []domain.TransferDetail{}
	for i := len(r.m.state.transfers) - 1; i >= 0; i-- {
		t := r.m.state.transfers[i]
		if filter.SellerID != 0 && t.SellerID != filter.SellerID {
			continue
		}
		if filter.ProductID != 0 && t.ProductID != filter.ProductID {
			continue
		}
		if filter.Type != "" && t.Type != filter.Type {
			continue
		}
		out = append(out, domain.TransferDetail{
			Transfer:    t,
			SellerName:  r.m.state.sellers[t.SellerID].FullName,
			ProductName: r.m.state.products[t.ProductID].Name,
		})
		if filter.Limit > 0 && len(out) == filter.Limit {
			break
		}
	}
	return out, nil
}

// SaleRepo satisfies sale.Repository.
type SaleRepo struct{ m *MemStore }

func (m *MemStore) SaleRepo() *SaleRepo { return &SaleRepo{m: m} }

func (r *SaleRepo) Insert(ctx context.Context, tx store.Tx, s *domain.Sale) (int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	stored := *s
	stored.ID = r.m.nextID()
	r.m.state.sales = append(r.m.state.sales, stored)
	return stored.ID, nil
}

func (r *SaleRepo) FindByID(ctx context.Context, id int64) (*domain.SaleDetail, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, s := range r.m.state.sales {
		if s.ID == id {
			d := r.detail(s)
			return &d, nil
		}
	}
	return nil, apperrors.NewSaleNotFoundError(id)
}

func (r *SaleRepo) List(ctx context.Context, filter domain.SaleFilter) ([]domain.SaleDetail, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	out := []domain.SaleDetail{}
	for i := len(r.m.state.sales) - 1; i >= 0; i-- {
		s := r.m.state.sales[i]
		if filter.SellerID != 0 && s.SellerID != filter.SellerID {
			continue
		}
		if filter.ProductID != 0 && s.ProductID != filter.ProductID {
			continue
		}
		if filter.From != nil && s.CreatedAt.Before(*filter.From) {
			continue
		}
		if filter.To != nil && !s.CreatedAt.Before(*filter.To) {
			continue
		}
		out = append(out, r.detail(s))
		if filter.Limit > 0 && len(out) == filter.Limit {
			break
		}
	}
	return out, nil
}

func (r *SaleRepo) detail(s domain.Sale) domain.SaleDetail {
	return domain.SaleDetail{
		Sale:        s,
		SellerName:  r.m.state.sellers[s.SellerID].FullName,
		ProductName: r.m.state.products[s.ProductID].Name,
	}
}
