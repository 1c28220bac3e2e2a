package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestApplyDefaults(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	var u User
	u.ApplyDefaults()
	assert.Equal(t, RoleShopOwner, u.Role)

	o := Order{Status: OrderStatusCompleted}
	o.ApplyDefaults(now)
	assert.Equal(t, OrderStatusCompleted, o.Status)
	assert.Equal(t, now, o.OrderDate)

	var o2 Order
	o2.ApplyDefaults(now)
	assert.Equal(t, OrderStatusPending, o2.Status)

	var inv Invoice
	inv.ApplyDefaults(now)
	assert.Equal(t, InvoiceStatusUnpaid, inv.Status)
	assert.Equal(t, now, inv.CreatedAt)

	var l MarketplaceListing
	l.ApplyDefaults(now)
	assert.Equal(t, 1, l.MinOrderQuantity)
}

func TestProductPatch_OnlyTouchesSentFields(t *testing.T) {
	t.Parallel()

	desc := "old"
	p := Product{ID: 3, Name: "Hammer", Description: &desc, SKU: "HAM-1", Price: decimal.RequireFromString("9.99"), Quantity: 4, UserID: 2}

	qty := 7
	ProductPatch{Quantity: &qty}.Apply(&p)

	assert.Equal(t, 7, p.Quantity)
	assert.Equal(t, "Hammer", p.Name)
	assert.Equal(t, "old", *p.Description)
	assert.Equal(t, uint(3), p.ID)
	assert.Equal(t, uint(2), p.UserID)
	assert.True(t, decimal.RequireFromString("9.99").Equal(p.Price))
}

func TestOrderItem_Subtotal(t *testing.T) {
	t.Parallel()

	it := OrderItem{Quantity: 3, UnitPrice: decimal.RequireFromString("0.10")}
	assert.Equal(t, "0.3", it.Subtotal().String())
}

func TestStatusSets(t *testing.T) {
	t.Parallel()

	assert.True(t, ValidOrderStatus("cancelled"))
	assert.False(t, ValidOrderStatus("shipped"))
	assert.True(t, ValidInvoiceStatus("overdue"))
	assert.False(t, ValidInvoiceStatus(""))
	assert.True(t, ValidRole("vendor"))
	assert.False(t, ValidRole("admin"))
}
