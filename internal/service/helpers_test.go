package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/shop_erp/internal/models"
	"github.com/Skotchmaster/shop_erp/internal/store/memstore"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func ptr[T any](v T) *T { return &v }

func newStoreWithCategories(t *testing.T) *memstore.Store {
	t.Helper()
	st := memstore.New()
	for _, name := range []string{"Office Supplies", "Electronics", "Furniture", "Packaging"} {
		require.NoError(t, st.CreateCategory(context.Background(), &models.Category{Name: name}))
	}
	return st
}

// sequence hands out numbers from a fixed list, then repeats the last one.
func sequence(nums ...string) NumberFunc {
	i := 0
	return func(string) string {
		n := nums[min(i, len(nums)-1)]
		i++
		return n
	}
}

// sales is one user's customer and two products, for order and invoice tests.
type sales struct {
	customer uint
	products [2]uint
}

func seedSales(t *testing.T, st *memstore.Store, userID uint) sales {
	t.Helper()
	ctx := context.Background()

	c := &models.Customer{Name: fmt.Sprintf("Customer %d", userID), Email: fmt.Sprintf("c%d@example.com", userID), UserID: userID, IsActive: true}
	require.NoError(t, st.CreateCustomer(ctx, c))

	out := sales{customer: c.ID}
	for i := range out.products {
		p := &models.Product{
			Name:       fmt.Sprintf("Product %d-%d", userID, i),
			SKU:        fmt.Sprintf("SKU-%d-%d", userID, i),
			Price:      dec("10"),
			CategoryID: 1,
			UserID:     userID,
		}
		require.NoError(t, st.CreateProduct(ctx, p))
		out.products[i] = p.ID
	}
	return out
}
