package seed_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/shop_erp/internal/seed"
	"github.com/Skotchmaster/shop_erp/internal/service"
	"github.com/Skotchmaster/shop_erp/internal/store/memstore"
)

func TestEnsureCategories_Idempotent(t *testing.T) {
	t.Parallel()

	st := memstore.New()
	ctx := context.Background()

	require.NoError(t, seed.EnsureCategories(ctx, st))
	require.NoError(t, seed.EnsureCategories(ctx, st))

	cats, err := st.ListCategories(ctx)
	require.NoError(t, err)
	require.Len(t, cats, 4)
	assert.Equal(t, "Office Supplies", cats[0].Name)
	assert.Equal(t, "Packaging", cats[3].Name)
}

func TestDemo(t *testing.T) {
	t.Parallel()

	st := memstore.New()
	ctx := context.Background()
	now := time.Date(2026, time.June, 15, 12, 0, 0, 0, time.UTC)

	loaded, err := seed.Demo(ctx, st, now)
	require.NoError(t, err)
	assert.True(t, loaded)

	loaded, err = seed.Demo(ctx, st, now)
	require.NoError(t, err)
	assert.False(t, loaded)

	owner, err := st.GetUserByUsername(ctx, seed.DemoUsername)
	require.NoError(t, err)

	auth := &service.AuthService{Repo: st, JWTSecret: []byte("a"), RefreshSecret: []byte("r")}
	_, _, err = auth.Login(ctx, "vendor1", seed.DemoPassword)
	require.NoError(t, err)

	orders, err := st.ListOrders(ctx, owner.ID)
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, "ORD-2023-001", orders[0].OrderNumber)

	items, err := st.ListOrderItems(ctx, orders[1].ID)
	require.NoError(t, err)
	assert.Len(t, items, 2)

	invoices, err := st.ListInvoices(ctx, owner.ID)
	require.NoError(t, err)
	require.Len(t, invoices, 2)
	assert.Equal(t, orders[0].ID, invoices[0].OrderID)
	assert.Equal(t, now.Add(30*24*time.Hour), invoices[0].DueDate)

	listings, err := st.ListActiveListings(ctx)
	require.NoError(t, err)
	assert.Len(t, listings, 4)

	dash := &service.DashboardService{Repo: st, Now: func() time.Time { return now }}
	snap, err := dash.Snapshot(ctx, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, "617.93", snap.Revenue.String())
	assert.Equal(t, 2, snap.OrdersThisWeek)
	assert.Len(t, snap.RecentCustomers, 2)
	assert.Equal(t, 0, snap.InventoryCount)
}
