package memstore

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/shop_erp/internal/models"
	"github.com/Skotchmaster/shop_erp/internal/store"
	"github.com/Skotchmaster/shop_erp/internal/store/storetest"
)

func TestContract(t *testing.T) {
	storetest.Run(t, func(*testing.T) store.Store { return New() })
}

func TestCreateOrderWithItems_RejectsBeforeInsert(t *testing.T) {
	t.Parallel()

	s := New()
	ctx := context.Background()

	o := &models.Order{OrderNumber: "ORD-1", CustomerID: 1, UserID: 1}
	err := s.CreateOrderWithItems(ctx, o, []models.OrderItem{{ProductID: 1, Quantity: -1}})
	assert.ErrorIs(t, err, store.ErrConstraint)
	assert.Zero(t, o.ID)

	next := &models.Order{OrderNumber: "ORD-2", CustomerID: 1, UserID: 1}
	require.NoError(t, s.CreateOrder(ctx, next))
	assert.Equal(t, uint(1), next.ID)
}

func TestConcurrentCreatesGetDistinctIDs(t *testing.T) {
	t.Parallel()

	s := New()
	ctx := context.Background()

	const n = 50
	var wg sync.WaitGroup
	ids := make([]uint, n)
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p := &models.Product{Name: "p", SKU: fmt.Sprintf("SKU-%d", i), Price: decimal.NewFromInt(1), UserID: 1}
			if err := s.CreateProduct(ctx, p); err == nil {
				ids[i] = p.ID
			}
		}()
	}
	wg.Wait()

	seen := make(map[uint]bool, n)
	for _, id := range ids {
		require.NotZero(t, id)
		assert.False(t, seen[id], "duplicate id %d", id)
		seen[id] = true
	}

	all, err := s.ListProducts(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, all, n)
}

func TestReturnedRowsAreCopies(t *testing.T) {
	t.Parallel()

	s := New()
	ctx := context.Background()

	p := &models.Product{Name: "Desk", SKU: "DESK-1", Price: decimal.NewFromInt(199), UserID: 1}
	require.NoError(t, s.CreateProduct(ctx, p))

	got, err := s.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	got.Name = "mutated"

	again, err := s.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Desk", again.Name)
}
