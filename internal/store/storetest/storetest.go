// Package storetest holds the behaviour every store.Store backend must share.
package storetest

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/shop_erp/internal/models"
	"github.com/Skotchmaster/shop_erp/internal/store"
)

// Run executes the contract against fresh stores produced by open.
func Run(t *testing.T, open func(t *testing.T) store.Store) {
	t.Helper()

	tests := []struct {
		name string
		fn   func(t *testing.T, s store.Store)
	}{
		{"users", testUsers},
		{"products", testProducts},
		{"categories", testCategories},
		{"customers", testCustomers},
		{"orders", testOrders},
		{"order_items_atomic", testOrderItemsAtomic},
		{"order_items_two_phase", testOrderItemsTwoPhase},
		{"invoices", testInvoices},
		{"listings", testListings},
		{"product_delete_removes_listings", testProductDeleteRemovesListings},
		{"concurrent_patches", testConcurrentPatches},
		{"refresh_tokens", testRefreshTokens},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.fn(t, open(t))
		})
	}
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func strPtr(s string) *string { return &s }

func testUsers(t *testing.T, s store.Store) {
	ctx := context.Background()

	u := &models.User{Username: "vendor1", PasswordHash: "x", FullName: "Alice Johnson", Email: "alice@example.com"}
	require.NoError(t, s.CreateUser(ctx, u))
	assert.Equal(t, uint(1), u.ID)
	assert.Equal(t, models.RoleShopOwner, u.Role)

	got, err := s.GetUserByUsername(ctx, "vendor1")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = s.GetUserByUsername(ctx, "nobody")
	assert.ErrorIs(t, err, store.ErrNotFound)

	_, err = s.GetUser(ctx, 99)
	assert.ErrorIs(t, err, store.ErrNotFound)

	err = s.CreateUser(ctx, &models.User{Username: "vendor1", PasswordHash: "y", FullName: "Dup", Email: "d@example.com"})
	assert.ErrorIs(t, err, store.ErrConflict)
}

func testProducts(t *testing.T, s store.Store) {
	ctx := context.Background()

	a := &models.Product{Name: "Premium Hammer", SKU: "HAM-PRO-001", Price: dec("24.99"), Quantity: 50, CategoryID: 1, UserID: 1}
	b := &models.Product{Name: "Power Drill", SKU: "DRILL-18V-002", Price: dec("89.99"), Quantity: 30, CategoryID: 2, UserID: 2}
	c := &models.Product{Name: "Nails", SKU: "NAIL-001", Price: dec("1.50"), CategoryID: 1, UserID: 1}
	for _, p := range []*models.Product{a, b, c} {
		require.NoError(t, s.CreateProduct(ctx, p))
	}
	assert.Equal(t, []uint{1, 2, 3}, []uint{a.ID, b.ID, c.ID})
	assert.False(t, a.CreatedAt.IsZero())
	assert.Equal(t, 0, c.Quantity)
	assert.False(t, c.IsListed)
	assert.Nil(t, c.Description)

	mine, err := s.ListProducts(ctx, 1)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, a.ID, mine[0].ID)
	assert.Equal(t, c.ID, mine[1].ID)

	err = s.CreateProduct(ctx, &models.Product{Name: "Dup", SKU: "HAM-PRO-001", Price: dec("1"), CategoryID: 1, UserID: 1})
	assert.ErrorIs(t, err, store.ErrConflict)

	qty := 7
	updated, err := s.UpdateProduct(ctx, a.ID, models.ProductPatch{Quantity: &qty})
	require.NoError(t, err)
	assert.Equal(t, 7, updated.Quantity)
	assert.Equal(t, "Premium Hammer", updated.Name)
	assert.True(t, dec("24.99").Equal(updated.Price))
	assert.Equal(t, uint(1), updated.UserID)

	got, err := s.GetProduct(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, 7, got.Quantity)

	_, err = s.UpdateProduct(ctx, 99, models.ProductPatch{Quantity: &qty})
	assert.ErrorIs(t, err, store.ErrNotFound)

	require.NoError(t, s.DeleteProduct(ctx, b.ID))
	_, err = s.GetProduct(ctx, b.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.ErrorIs(t, s.DeleteProduct(ctx, b.ID), store.ErrNotFound)

	d := &models.Product{Name: "After delete", SKU: "NEW-001", Price: dec("2"), CategoryID: 1, UserID: 1}
	require.NoError(t, s.CreateProduct(ctx, d))
	assert.Equal(t, uint(4), d.ID)
}

func testCategories(t *testing.T, s store.Store) {
	ctx := context.Background()

	require.NoError(t, s.CreateCategory(ctx, &models.Category{Name: "Office Supplies"}))
	require.NoError(t, s.CreateCategory(ctx, &models.Category{Name: "Electronics", Description: strPtr("Computers")}))

	all, err := s.ListCategories(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Office Supplies", all[0].Name)
	assert.Equal(t, "Computers", *all[1].Description)

	_, err = s.GetCategory(ctx, 5)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func testCustomers(t *testing.T, s store.Store) {
	ctx := context.Background()

	c := &models.Customer{Name: "Sarah Davis", Email: "sarah@example.com", UserID: 1, IsActive: true}
	require.NoError(t, s.CreateCustomer(ctx, c))
	require.NoError(t, s.CreateCustomer(ctx, &models.Customer{Name: "Other", Email: "o@example.com", UserID: 2, IsActive: true}))

	mine, err := s.ListCustomers(ctx, 1)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.True(t, mine[0].IsActive)

	inactive := false
	updated, err := s.UpdateCustomer(ctx, c.ID, models.CustomerPatch{IsActive: &inactive, Phone: strPtr("555-123-4567")})
	require.NoError(t, err)
	assert.False(t, updated.IsActive)
	assert.Equal(t, "555-123-4567", *updated.Phone)
	assert.Equal(t, "Sarah Davis", updated.Name)

	require.NoError(t, s.DeleteCustomer(ctx, c.ID))
	assert.ErrorIs(t, s.DeleteCustomer(ctx, c.ID), store.ErrNotFound)
}

func testOrders(t *testing.T, s store.Store) {
	ctx := context.Background()

	o := &models.Order{OrderNumber: "ORD-2023-001", CustomerID: 1, UserID: 1, TotalAmount: dec("245.96")}
	require.NoError(t, s.CreateOrder(ctx, o))
	assert.Equal(t, models.OrderStatusPending, o.Status)
	assert.False(t, o.OrderDate.IsZero())

	err := s.CreateOrder(ctx, &models.Order{OrderNumber: "ORD-2023-001", CustomerID: 1, UserID: 1, TotalAmount: dec("1")})
	assert.ErrorIs(t, err, store.ErrConflict)

	require.NoError(t, s.AddOrderItem(ctx, &models.OrderItem{OrderID: o.ID, ProductID: 1, Quantity: 5, UnitPrice: dec("22.99")}))
	require.NoError(t, s.AddOrderItem(ctx, &models.OrderItem{OrderID: o.ID, ProductID: 2, Quantity: 2, UnitPrice: dec("79.99")}))
	require.Error(t, s.AddOrderItem(ctx, &models.OrderItem{OrderID: o.ID, ProductID: 3, Quantity: 0, UnitPrice: dec("1")}))

	items, err := s.ListOrderItems(ctx, o.ID)
	require.NoError(t, err)
	require.Len(t, items, 2)
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Subtotal())
	}
	assert.True(t, dec("274.93").Equal(total))

	status := models.OrderStatusCompleted
	updated, err := s.UpdateOrder(ctx, o.ID, models.OrderPatch{Status: &status})
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusCompleted, updated.Status)
	assert.Equal(t, "ORD-2023-001", updated.OrderNumber)

	list, err := s.ListOrders(ctx, 1)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, models.OrderStatusCompleted, list[0].Status)

	_, err = s.UpdateOrder(ctx, 42, models.OrderPatch{Status: &status})
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func testOrderItemsAtomic(t *testing.T, s store.Store) {
	ctx := context.Background()

	o := &models.Order{OrderNumber: "ORD-100001", CustomerID: 1, UserID: 1, TotalAmount: dec("10")}
	items := []models.OrderItem{
		{ProductID: 1, Quantity: 1, UnitPrice: dec("5")},
		{ProductID: 2, Quantity: 1, UnitPrice: dec("5")},
	}
	require.NoError(t, s.CreateOrderWithItems(ctx, o, items))
	for _, it := range items {
		assert.Equal(t, o.ID, it.OrderID)
		assert.NotZero(t, it.ID)
	}

	bad := &models.Order{OrderNumber: "ORD-100002", CustomerID: 1, UserID: 1, TotalAmount: dec("10")}
	err := s.CreateOrderWithItems(ctx, bad, []models.OrderItem{
		{ProductID: 1, Quantity: 1, UnitPrice: dec("5")},
		{ProductID: 2, Quantity: 0, UnitPrice: dec("5")},
	})
	require.Error(t, err)

	list, err := s.ListOrders(ctx, 1)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "ORD-100001", list[0].OrderNumber)

	err = s.CreateOrderWithItems(ctx, &models.Order{OrderNumber: "ORD-100001", CustomerID: 1, UserID: 1, TotalAmount: dec("1")}, nil)
	assert.ErrorIs(t, err, store.ErrConflict)
}

// Order then items, one call each: a failing item leaves the order and the
// items before it in place.
func testOrderItemsTwoPhase(t *testing.T, s store.Store) {
	ctx := context.Background()

	o := &models.Order{OrderNumber: "ORD-200001", CustomerID: 1, UserID: 1, TotalAmount: dec("15")}
	require.NoError(t, s.CreateOrder(ctx, o))

	items := []models.OrderItem{
		{OrderID: o.ID, ProductID: 1, Quantity: 1, UnitPrice: dec("5")},
		{OrderID: o.ID, ProductID: 2, Quantity: 0, UnitPrice: dec("5")},
		{OrderID: o.ID, ProductID: 3, Quantity: 2, UnitPrice: dec("5")},
	}
	var failed bool
	for i := range items {
		if err := s.AddOrderItem(ctx, &items[i]); err != nil {
			failed = true
			break
		}
	}
	require.True(t, failed)

	got, err := s.GetOrder(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, "ORD-200001", got.OrderNumber)

	stored, err := s.ListOrderItems(ctx, o.ID)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, uint(1), stored[0].ProductID)
}

func testInvoices(t *testing.T, s store.Store) {
	ctx := context.Background()

	due := time.Now().UTC().Add(30 * 24 * time.Hour).Truncate(time.Second)
	inv := &models.Invoice{InvoiceNumber: "INV-2023-001", OrderID: 1, UserID: 1, Amount: dec("245.96"), DueDate: due}
	require.NoError(t, s.CreateInvoice(ctx, inv))
	assert.Equal(t, models.InvoiceStatusUnpaid, inv.Status)
	assert.False(t, inv.CreatedAt.IsZero())

	err := s.CreateInvoice(ctx, &models.Invoice{InvoiceNumber: "INV-2023-001", OrderID: 2, UserID: 1, Amount: dec("1"), DueDate: due})
	assert.ErrorIs(t, err, store.ErrConflict)

	byOrder, err := s.GetInvoiceByOrderID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, inv.ID, byOrder.ID)
	_, err = s.GetInvoiceByOrderID(ctx, 2)
	assert.ErrorIs(t, err, store.ErrNotFound)

	paid := models.InvoiceStatusPaid
	updated, err := s.UpdateInvoice(ctx, inv.ID, models.InvoicePatch{Status: &paid})
	require.NoError(t, err)
	assert.Equal(t, models.InvoiceStatusPaid, updated.Status)
	assert.True(t, dec("245.96").Equal(updated.Amount))

	list, err := s.ListInvoices(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, list, 1)
	list, err = s.ListInvoices(ctx, 2)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func testListings(t *testing.T, s store.Store) {
	ctx := context.Background()

	a := &models.MarketplaceListing{ProductID: 1, VendorID: 2, Price: dec("22.99"), MinOrderQuantity: 5, IsActive: true}
	b := &models.MarketplaceListing{ProductID: 2, VendorID: 2, Price: dec("79.99"), IsActive: false}
	c := &models.MarketplaceListing{ProductID: 3, VendorID: 3, Price: dec("10.99"), IsActive: true}
	for _, l := range []*models.MarketplaceListing{a, b, c} {
		require.NoError(t, s.CreateListing(ctx, l))
	}
	assert.Equal(t, 1, b.MinOrderQuantity)

	active, err := s.ListActiveListings(ctx)
	require.NoError(t, err)
	require.Len(t, active, 2)
	assert.Equal(t, a.ID, active[0].ID)
	assert.Equal(t, c.ID, active[1].ID)

	vendor, err := s.ListVendorListings(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, vendor, 2)

	on := true
	updated, err := s.UpdateListing(ctx, b.ID, models.ListingPatch{IsActive: &on})
	require.NoError(t, err)
	assert.True(t, updated.IsActive)

	require.NoError(t, s.DeleteListing(ctx, c.ID))
	assert.ErrorIs(t, s.DeleteListing(ctx, c.ID), store.ErrNotFound)
}

func testProductDeleteRemovesListings(t *testing.T, s store.Store) {
	ctx := context.Background()

	p := &models.Product{Name: "Premium Hammer", SKU: "HAM-PRO-001", Price: dec("24.99"), CategoryID: 1, UserID: 2}
	q := &models.Product{Name: "Office Desk", SKU: "DESK-001", Price: dec("199.99"), CategoryID: 3, UserID: 2}
	require.NoError(t, s.CreateProduct(ctx, p))
	require.NoError(t, s.CreateProduct(ctx, q))

	gone := &models.MarketplaceListing{ProductID: p.ID, VendorID: 2, Price: dec("22.99"), IsActive: true}
	kept := &models.MarketplaceListing{ProductID: q.ID, VendorID: 2, Price: dec("179.99"), IsActive: true}
	require.NoError(t, s.CreateListing(ctx, gone))
	require.NoError(t, s.CreateListing(ctx, kept))

	require.NoError(t, s.DeleteProduct(ctx, p.ID))

	_, err := s.GetListing(ctx, gone.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
	active, err := s.ListActiveListings(ctx)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, kept.ID, active[0].ID)
}

// Two writers patching different fields of one row must not undo each other.
func testConcurrentPatches(t *testing.T, s store.Store) {
	ctx := context.Background()

	c := &models.Customer{Name: "Sarah Davis", Email: "sarah@example.com", UserID: 1, IsActive: true}
	require.NoError(t, s.CreateCustomer(ctx, c))

	const rounds = 20
	var wg sync.WaitGroup
	errs := make(chan error, 2*rounds)
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := range rounds {
			name := fmt.Sprintf("name-%d", i)
			_, err := s.UpdateCustomer(ctx, c.ID, models.CustomerPatch{Name: &name})
			errs <- err
		}
	}()
	go func() {
		defer wg.Done()
		for i := range rounds {
			phone := fmt.Sprintf("phone-%d", i)
			_, err := s.UpdateCustomer(ctx, c.ID, models.CustomerPatch{Phone: &phone})
			errs <- err
		}
	}()
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	got, err := s.GetCustomer(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("name-%d", rounds-1), got.Name)
	require.NotNil(t, got.Phone)
	assert.Equal(t, fmt.Sprintf("phone-%d", rounds-1), *got.Phone)
}

func testRefreshTokens(t *testing.T, s store.Store) {
	ctx := context.Background()
	exp := time.Now().Add(time.Hour).Unix()

	first := &models.RefreshToken{Token: "hash-1", UserID: 1, JTI: "jti-1", ExpiresAt: exp}
	require.NoError(t, s.CreateRefreshToken(ctx, first))

	next := &models.RefreshToken{Token: "hash-2", UserID: 1, JTI: "jti-2", ExpiresAt: exp}
	require.NoError(t, s.RotateRefreshToken(ctx, "jti-1", next))

	old, err := s.GetRefreshToken(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, old.Revoked)

	again := &models.RefreshToken{Token: "hash-3", UserID: 1, JTI: "jti-3", ExpiresAt: exp}
	assert.ErrorIs(t, s.RotateRefreshToken(ctx, "jti-1", again), store.ErrNotFound)

	expired := &models.RefreshToken{Token: "hash-4", UserID: 1, JTI: "jti-4", ExpiresAt: time.Now().Add(-time.Hour).Unix()}
	require.NoError(t, s.CreateRefreshToken(ctx, expired))
	assert.ErrorIs(t, s.RotateRefreshToken(ctx, "jti-4", again), store.ErrNotFound)

	require.NoError(t, s.RevokeRefreshToken(ctx, "jti-2"))
	cur, err := s.GetRefreshToken(ctx, "jti-2")
	require.NoError(t, err)
	assert.True(t, cur.Revoked)

	assert.ErrorIs(t, s.RevokeRefreshToken(ctx, "missing"), store.ErrNotFound)
}
