package service

import (
	"context"
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/shop_erp/internal/models"
	"github.com/Skotchmaster/shop_erp/internal/store"
	"github.com/Skotchmaster/shop_erp/internal/transport"
)

const (
	recentOrdersLimit    = 4
	recentCustomersLimit = 3
	inventoryCategories  = 4
	lowStockThreshold    = 10
	salesMonths          = 6
)

type DashboardRepo interface {
	store.Orders
	store.Products
	store.Customers
	store.Categories
}

type DashboardService struct {
	Repo DashboardRepo
	Now  func() time.Time
}

func (s *DashboardService) now() time.Time {
	if s.Now == nil {
		return time.Now().UTC()
	}
	return s.Now().UTC()
}

// Snapshot recomputes every metric from the caller's rows on each call.
func (s *DashboardService) Snapshot(ctx context.Context, userID uint) (*transport.DashboardSnapshot, error) {
	now := s.now()

	orders, err := s.Repo.ListOrders(ctx, userID)
	if err != nil {
		return nil, err
	}
	products, err := s.Repo.ListProducts(ctx, userID)
	if err != nil {
		return nil, err
	}
	customers, err := s.Repo.ListCustomers(ctx, userID)
	if err != nil {
		return nil, err
	}
	categories, err := s.Repo.ListCategories(ctx)
	if err != nil {
		return nil, err
	}

	snap := &transport.DashboardSnapshot{
		Revenue:         decimal.Zero,
		InventoryCount:  len(products),
		RecentOrders:    recentOrders(orders),
		RecentCustomers: customers[:min(recentCustomersLimit, len(customers))],
		InventoryStatus: inventoryStatus(categories, products),
		MonthlySales:    monthlySales(orders, now),
	}

	weekAgo := now.AddDate(0, 0, -7)
	for _, o := range orders {
		snap.Revenue = snap.Revenue.Add(o.TotalAmount)
		if !o.OrderDate.Before(weekAgo) {
			snap.OrdersThisWeek++
		}
	}
	for _, p := range products {
		if p.Quantity < lowStockThreshold {
			snap.LowStockCount++
		}
	}
	return snap, nil
}

func recentOrders(orders []models.Order) []models.Order {
	sorted := slices.Clone(orders)
	slices.SortStableFunc(sorted, func(a, b models.Order) int {
		return b.OrderDate.Compare(a.OrderDate)
	})
	return sorted[:min(recentOrdersLimit, len(sorted))]
}

// inventoryStatus reports stock for the first categories as a share of the
// caller's total stock, floored to a whole percent.
func inventoryStatus(categories []models.Category, products []models.Product) []transport.CategoryStock {
	total := 0
	byCategory := make(map[uint]int)
	for _, p := range products {
		total += p.Quantity
		byCategory[p.CategoryID] += p.Quantity
	}

	out := make([]transport.CategoryStock, 0, inventoryCategories)
	for _, c := range categories[:min(inventoryCategories, len(categories))] {
		stock := byCategory[c.ID]
		pct := 0
		if total > 0 {
			pct = max(0, min(100, stock*100/total))
		}
		out = append(out, transport.CategoryStock{CategoryID: c.ID, Name: c.Name, Stock: stock, Percentage: pct})
	}
	return out
}

// monthlySales sums non-cancelled order totals per calendar month for the six
// months ending with the month of now, oldest first.
func monthlySales(orders []models.Order, now time.Time) []transport.MonthlySales {
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -(salesMonths - 1), 0)

	out := make([]transport.MonthlySales, salesMonths)
	for i := range out {
		out[i] = transport.MonthlySales{Name: start.AddDate(0, i, 0).Month().String()[:3], Sales: decimal.Zero}
	}

	for _, o := range orders {
		if o.Status == models.OrderStatusCancelled {
			continue
		}
		d := o.OrderDate.UTC()
		idx := (d.Year()-start.Year())*12 + int(d.Month()) - int(start.Month())
		if idx < 0 || idx >= salesMonths {
			continue
		}
		out[idx].Sales = out[idx].Sales.Add(o.TotalAmount)
	}
	return out
}
