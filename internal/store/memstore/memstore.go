// Package memstore is the in-memory Store: one table per kind behind a
// single RWMutex, ids assigned from per-kind counters starting at 1.
package memstore

import (
	"context"
	"sync"
	"time"

	"github.com/Skotchmaster/shop_erp/internal/models"
	"github.com/Skotchmaster/shop_erp/internal/store"
)

type Store struct {
	mu sync.RWMutex

	users         *table[models.User]
	products      *table[models.Product]
	categories    *table[models.Category]
	customers     *table[models.Customer]
	orders        *table[models.Order]
	orderItems    *table[models.OrderItem]
	invoices      *table[models.Invoice]
	listings      *table[models.MarketplaceListing]
	refreshTokens *table[models.RefreshToken]

	now func() time.Time
}

var _ store.Store = (*Store)(nil)

func New() *Store {
	return &Store{
		users:         newTable[models.User](),
		products:      newTable[models.Product](),
		categories:    newTable[models.Category](),
		customers:     newTable[models.Customer](),
		orders:        newTable[models.Order](),
		orderItems:    newTable[models.OrderItem](),
		invoices:      newTable[models.Invoice](),
		listings:      newTable[models.MarketplaceListing](),
		refreshTokens: newTable[models.RefreshToken](),
		now:           func() time.Time { return time.Now().UTC() },
	}
}

func (s *Store) Ping(context.Context) error { return nil }

// Users

func (s *Store) GetUser(_ context.Context, id uint) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users.get(id)
	if !ok {
		return nil, store.ErrNotFound
	}
	return &u, nil
}

func (s *Store) GetUserByUsername(_ context.Context, username string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	found := s.users.where(func(u models.User) bool { return u.Username == username })
	if len(found) == 0 {
		return nil, store.ErrNotFound
	}
	return &found[0], nil
}

func (s *Store) CreateUser(_ context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.users.exists(func(x models.User) bool { return x.Username == u.Username }) {
		return store.ErrConflict
	}
	u.ApplyDefaults()
	u.ID = s.users.nextID()
	s.users.put(u.ID, *u)
	return nil
}

// Products

func (s *Store) GetProduct(_ context.Context, id uint) (*models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.products.get(id)
	if !ok {
		return nil, store.ErrNotFound
	}
	return &p, nil
}

func (s *Store) ListProducts(_ context.Context, userID uint) ([]models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.products.where(func(p models.Product) bool { return p.UserID == userID }), nil
}

func (s *Store) CreateProduct(_ context.Context, p *models.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.Quantity < 0 {
		return store.ErrConstraint
	}
	if s.skuTaken(p.SKU, 0) {
		return store.ErrConflict
	}
	p.ApplyDefaults(s.now())
	p.ID = s.products.nextID()
	s.products.put(p.ID, *p)
	return nil
}

func (s *Store) UpdateProduct(_ context.Context, id uint, patch models.ProductPatch) (*models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products.get(id)
	if !ok {
		return nil, store.ErrNotFound
	}
	patch.Apply(&p)
	if p.Quantity < 0 {
		return nil, store.ErrConstraint
	}
	if s.skuTaken(p.SKU, id) {
		return nil, store.ErrConflict
	}
	s.products.put(id, p)
	return &p, nil
}

func (s *Store) DeleteProduct(_ context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.products.remove(id) {
		return store.ErrNotFound
	}
	for _, l := range s.listings.where(func(l models.MarketplaceListing) bool { return l.ProductID == id }) {
		s.listings.remove(l.ID)
	}
	return nil
}

func (s *Store) skuTaken(sku string, except uint) bool {
	return s.products.exists(func(p models.Product) bool { return p.SKU == sku && p.ID != except })
}

// Categories

func (s *Store) GetCategory(_ context.Context, id uint) (*models.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.categories.get(id)
	if !ok {
		return nil, store.ErrNotFound
	}
	return &c, nil
}

func (s *Store) ListCategories(context.Context) ([]models.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.categories.where(nil), nil
}

func (s *Store) CreateCategory(_ context.Context, c *models.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.ID = s.categories.nextID()
	s.categories.put(c.ID, *c)
	return nil
}

// Customers

func (s *Store) GetCustomer(_ context.Context, id uint) (*models.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.customers.get(id)
	if !ok {
		return nil, store.ErrNotFound
	}
	return &c, nil
}

func (s *Store) ListCustomers(_ context.Context, userID uint) ([]models.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.customers.where(func(c models.Customer) bool { return c.UserID == userID }), nil
}

func (s *Store) CreateCustomer(_ context.Context, c *models.Customer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.ApplyDefaults(s.now())
	c.ID = s.customers.nextID()
	s.customers.put(c.ID, *c)
	return nil
}

func (s *Store) UpdateCustomer(_ context.Context, id uint, patch models.CustomerPatch) (*models.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.customers.get(id)
	if !ok {
		return nil, store.ErrNotFound
	}
	patch.Apply(&c)
	s.customers.put(id, c)
	return &c, nil
}

func (s *Store) DeleteCustomer(_ context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.customers.remove(id) {
		return store.ErrNotFound
	}
	return nil
}

// Orders

func (s *Store) GetOrder(_ context.Context, id uint) (*models.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.orders.get(id)
	if !ok {
		return nil, store.ErrNotFound
	}
	return &o, nil
}

func (s *Store) ListOrders(_ context.Context, userID uint) ([]models.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.orders.where(func(o models.Order) bool { return o.UserID == userID }), nil
}

func (s *Store) CreateOrder(_ context.Context, o *models.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.insertOrder(o)
}

func (s *Store) CreateOrderWithItems(_ context.Context, o *models.Order, items []models.OrderItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, it := range items {
		if it.Quantity <= 0 {
			return store.ErrConstraint
		}
	}
	if err := s.insertOrder(o); err != nil {
		return err
	}
	for i := range items {
		items[i].OrderID = o.ID
		items[i].ID = s.orderItems.nextID()
		s.orderItems.put(items[i].ID, items[i])
	}
	return nil
}

func (s *Store) insertOrder(o *models.Order) error {
	if s.orders.exists(func(x models.Order) bool { return x.OrderNumber == o.OrderNumber }) {
		return store.ErrConflict
	}
	o.ApplyDefaults(s.now())
	o.ID = s.orders.nextID()
	s.orders.put(o.ID, *o)
	return nil
}

func (s *Store) UpdateOrder(_ context.Context, id uint, patch models.OrderPatch) (*models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders.get(id)
	if !ok {
		return nil, store.ErrNotFound
	}
	patch.Apply(&o)
	s.orders.put(id, o)
	return &o, nil
}

func (s *Store) ListOrderItems(_ context.Context, orderID uint) ([]models.OrderItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.orderItems.where(func(it models.OrderItem) bool { return it.OrderID == orderID }), nil
}

func (s *Store) AddOrderItem(_ context.Context, it *models.OrderItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if it.Quantity <= 0 {
		return store.ErrConstraint
	}
	it.ID = s.orderItems.nextID()
	s.orderItems.put(it.ID, *it)
	return nil
}

// Invoices

func (s *Store) GetInvoice(_ context.Context, id uint) (*models.Invoice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	inv, ok := s.invoices.get(id)
	if !ok {
		return nil, store.ErrNotFound
	}
	return &inv, nil
}

func (s *Store) GetInvoiceByOrderID(_ context.Context, orderID uint) (*models.Invoice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	found := s.invoices.where(func(inv models.Invoice) bool { return inv.OrderID == orderID })
	if len(found) == 0 {
		return nil, store.ErrNotFound
	}
	return &found[0], nil
}

func (s *Store) ListInvoices(_ context.Context, userID uint) ([]models.Invoice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.invoices.where(func(inv models.Invoice) bool { return inv.UserID == userID }), nil
}

func (s *Store) CreateInvoice(_ context.Context, inv *models.Invoice) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.invoices.exists(func(x models.Invoice) bool { return x.InvoiceNumber == inv.InvoiceNumber }) {
		return store.ErrConflict
	}
	inv.ApplyDefaults(s.now())
	inv.ID = s.invoices.nextID()
	s.invoices.put(inv.ID, *inv)
	return nil
}

func (s *Store) UpdateInvoice(_ context.Context, id uint, patch models.InvoicePatch) (*models.Invoice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	inv, ok := s.invoices.get(id)
	if !ok {
		return nil, store.ErrNotFound
	}
	patch.Apply(&inv)
	s.invoices.put(id, inv)
	return &inv, nil
}

// Marketplace listings

func (s *Store) GetListing(_ context.Context, id uint) (*models.MarketplaceListing, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	l, ok := s.listings.get(id)
	if !ok {
		return nil, store.ErrNotFound
	}
	return &l, nil
}

func (s *Store) ListActiveListings(context.Context) ([]models.MarketplaceListing, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.listings.where(func(l models.MarketplaceListing) bool { return l.IsActive }), nil
}

func (s *Store) ListVendorListings(_ context.Context, vendorID uint) ([]models.MarketplaceListing, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.listings.where(func(l models.MarketplaceListing) bool { return l.VendorID == vendorID }), nil
}

func (s *Store) CreateListing(_ context.Context, l *models.MarketplaceListing) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	l.ApplyDefaults(s.now())
	if l.MinOrderQuantity < 1 {
		return store.ErrConstraint
	}
	l.ID = s.listings.nextID()
	s.listings.put(l.ID, *l)
	return nil
}

func (s *Store) UpdateListing(_ context.Context, id uint, patch models.ListingPatch) (*models.MarketplaceListing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.listings.get(id)
	if !ok {
		return nil, store.ErrNotFound
	}
	patch.Apply(&l)
	if l.MinOrderQuantity < 1 {
		return nil, store.ErrConstraint
	}
	s.listings.put(id, l)
	return &l, nil
}

func (s *Store) DeleteListing(_ context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.listings.remove(id) {
		return store.ErrNotFound
	}
	return nil
}

// Refresh tokens

func (s *Store) CreateRefreshToken(_ context.Context, t *models.RefreshToken) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.insertRefreshToken(t)
}

func (s *Store) insertRefreshToken(t *models.RefreshToken) error {
	if s.refreshTokens.exists(func(x models.RefreshToken) bool { return x.JTI == t.JTI || x.Token == t.Token }) {
		return store.ErrConflict
	}
	t.ID = s.refreshTokens.nextID()
	s.refreshTokens.put(t.ID, *t)
	return nil
}

func (s *Store) GetRefreshToken(_ context.Context, jti string) (*models.RefreshToken, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.refreshByJTI(jti)
	if !ok {
		return nil, store.ErrNotFound
	}
	return &t, nil
}

func (s *Store) RevokeRefreshToken(_ context.Context, jti string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.refreshByJTI(jti)
	if !ok {
		return store.ErrNotFound
	}
	t.Revoked = true
	s.refreshTokens.put(t.ID, t)
	return nil
}

func (s *Store) RotateRefreshToken(_ context.Context, oldJTI string, next *models.RefreshToken) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	old, ok := s.refreshByJTI(oldJTI)
	if !ok || old.Revoked || old.ExpiresAt < s.now().Unix() {
		return store.ErrNotFound
	}
	if err := s.insertRefreshToken(next); err != nil {
		return err
	}
	old.Revoked = true
	s.refreshTokens.put(old.ID, old)
	return nil
}

func (s *Store) refreshByJTI(jti string) (models.RefreshToken, bool) {
	found := s.refreshTokens.where(func(t models.RefreshToken) bool { return t.JTI == jti })
	if len(found) == 0 {
		return models.RefreshToken{}, false
	}
	return found[0], true
}
