// Package seed loads the fixed category list and the demo data set.
package seed

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/shop_erp/internal/models"
	"github.com/Skotchmaster/shop_erp/internal/store"
	pkghash "github.com/Skotchmaster/shop_erp/pkg/hash"
	"github.com/Skotchmaster/shop_erp/pkg/logging"
)

const (
	DemoUsername = "shopowner"
	DemoPassword = "password123"
)

var Categories = []models.Category{
	{Name: "Office Supplies", Description: ptr("Stationery, paper, and other office supplies")},
	{Name: "Electronics", Description: ptr("Computers, phones, and other electronic devices")},
	{Name: "Furniture", Description: ptr("Office furniture and fixtures")},
	{Name: "Packaging", Description: ptr("Boxes, tape, and other packaging materials")},
}

// EnsureCategories creates the fixed categories when the store has none.
func EnsureCategories(ctx context.Context, repo store.Categories) error {
	existing, err := repo.ListCategories(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}
	for _, c := range Categories {
		if err := repo.CreateCategory(ctx, &c); err != nil {
			return fmt.Errorf("create category %q: %w", c.Name, err)
		}
	}
	return nil
}

// Demo loads a shop owner, two vendors and their catalog, customers, orders
// and invoices. It reports false when the data was already there.
func Demo(ctx context.Context, st store.Store, now time.Time) (bool, error) {
	l := logging.FromContext(ctx).With("component", "seed")

	if _, err := st.GetUserByUsername(ctx, DemoUsername); err == nil {
		l.Info("seed_skipped", "reason", "demo data already present")
		return false, nil
	} else if !errors.Is(err, store.ErrNotFound) {
		return false, err
	}

	if err := EnsureCategories(ctx, st); err != nil {
		return false, err
	}
	categories, err := st.ListCategories(ctx)
	if err != nil {
		return false, err
	}
	if len(categories) < len(Categories) {
		return false, fmt.Errorf("seed needs %d categories, found %d", len(Categories), len(categories))
	}

	pwHash, err := pkghash.HashPassword(DemoPassword)
	if err != nil {
		return false, err
	}

	owner := &models.User{Username: DemoUsername, FullName: "John Smith", Email: "john@example.com", Role: models.RoleShopOwner, CompanyName: ptr("Smith's Hardware")}
	vendor1 := &models.User{Username: "vendor1", FullName: "Alice Johnson", Email: "alice@example.com", Role: models.RoleVendor, CompanyName: ptr("Johnson Supplies")}
	vendor2 := &models.User{Username: "vendor2", FullName: "Bob Williams", Email: "bob@example.com", Role: models.RoleVendor, CompanyName: ptr("Williams Manufacturing")}
	for _, u := range []*models.User{owner, vendor1, vendor2} {
		u.PasswordHash = string(pwHash)
		if err := st.CreateUser(ctx, u); err != nil {
			return false, fmt.Errorf("create user %s: %w", u.Username, err)
		}
	}

	hammer := &models.Product{Name: "Premium Hammer", Description: ptr("Heavy duty hammer for professional use"), SKU: "HAM-PRO-001", Price: money("24.99"), Quantity: 50, CategoryID: categories[0].ID, UserID: vendor1.ID, IsListed: true}
	drill := &models.Product{Name: "Power Drill", Description: ptr("18V cordless drill with battery pack"), SKU: "DRILL-18V-002", Price: money("89.99"), Quantity: 30, CategoryID: categories[1].ID, UserID: vendor1.ID, IsListed: true}
	desk := &models.Product{Name: "Office Desk", Description: ptr("Ergonomic office desk with adjustable height"), SKU: "DESK-ERG-001", Price: money("199.99"), Quantity: 15, CategoryID: categories[2].ID, UserID: vendor2.ID, IsListed: true}
	boxes := &models.Product{Name: "Shipping Boxes (Pack of 10)", Description: ptr("Medium size cardboard boxes for shipping"), SKU: "BOX-MED-010", Price: money("12.99"), Quantity: 100, CategoryID: categories[3].ID, UserID: vendor2.ID, IsListed: true}
	for _, p := range []*models.Product{hammer, drill, desk, boxes} {
		if err := st.CreateProduct(ctx, p); err != nil {
			return false, fmt.Errorf("create product %s: %w", p.SKU, err)
		}
	}

	sarah := &models.Customer{Name: "Sarah Davis", Email: "sarah@example.com", Phone: ptr("555-123-4567"), Address: ptr("123 Main St, Anytown, USA"), UserID: owner.ID, IsActive: true}
	mike := &models.Customer{Name: "Mike Wilson", Email: "mike@example.com", Phone: ptr("555-987-6543"), Address: ptr("456 Oak Ave, Somecity, USA"), UserID: owner.ID, IsActive: true}
	for _, c := range []*models.Customer{sarah, mike} {
		if err := st.CreateCustomer(ctx, c); err != nil {
			return false, fmt.Errorf("create customer %s: %w", c.Name, err)
		}
	}

	listings := []*models.MarketplaceListing{
		{ProductID: hammer.ID, VendorID: vendor1.ID, Price: money("22.99"), MinOrderQuantity: 5, IsActive: true},
		{ProductID: drill.ID, VendorID: vendor1.ID, Price: money("79.99"), MinOrderQuantity: 3, IsActive: true},
		{ProductID: desk.ID, VendorID: vendor2.ID, Price: money("179.99"), MinOrderQuantity: 2, IsActive: true},
		{ProductID: boxes.ID, VendorID: vendor2.ID, Price: money("10.99"), MinOrderQuantity: 10, IsActive: true},
	}
	for _, ml := range listings {
		if err := st.CreateListing(ctx, ml); err != nil {
			return false, fmt.Errorf("create listing for product %d: %w", ml.ProductID, err)
		}
	}

	orders := []struct {
		order *models.Order
		items []models.OrderItem
		inv   *models.Invoice
	}{
		{
			order: &models.Order{OrderNumber: "ORD-2023-001", CustomerID: sarah.ID, UserID: owner.ID, TotalAmount: money("245.96"), Status: models.OrderStatusCompleted},
			items: []models.OrderItem{
				{ProductID: hammer.ID, Quantity: 5, UnitPrice: money("22.99")},
				{ProductID: drill.ID, Quantity: 2, UnitPrice: money("79.99")},
			},
			inv: &models.Invoice{InvoiceNumber: "INV-2023-001", UserID: owner.ID, Amount: money("245.96"), Status: models.InvoiceStatusPaid},
		},
		{
			order: &models.Order{OrderNumber: "ORD-2023-002", CustomerID: mike.ID, UserID: owner.ID, TotalAmount: money("371.97"), Status: models.OrderStatusProcessing},
			items: []models.OrderItem{
				{ProductID: desk.ID, Quantity: 1, UnitPrice: money("179.99")},
				{ProductID: boxes.ID, Quantity: 10, UnitPrice: money("10.99")},
			},
			inv: &models.Invoice{InvoiceNumber: "INV-2023-002", UserID: owner.ID, Amount: money("371.97"), Status: models.InvoiceStatusUnpaid},
		},
	}
	due := now.Add(30 * 24 * time.Hour).UTC()
	for _, o := range orders {
		o.order.OrderDate = now.UTC()
		if err := st.CreateOrderWithItems(ctx, o.order, o.items); err != nil {
			return false, fmt.Errorf("create order %s: %w", o.order.OrderNumber, err)
		}
		o.inv.OrderID = o.order.ID
		o.inv.DueDate = due
		if err := st.CreateInvoice(ctx, o.inv); err != nil {
			return false, fmt.Errorf("create invoice %s: %w", o.inv.InvoiceNumber, err)
		}
	}

	l.Info("seed_success", "users", 3, "products", 4, "listings", len(listings), "orders", len(orders))
	return true, nil
}

func ptr[T any](v T) *T { return &v }

func money(s string) decimal.Decimal { return decimal.RequireFromString(s) }
