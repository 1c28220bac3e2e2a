package transport

import (
	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/shop_erp/internal/models"
)

type DashboardSnapshot struct {
	Revenue         decimal.Decimal   `json:"revenue"`
	OrdersThisWeek  int               `json:"ordersThisWeek"`
	InventoryCount  int               `json:"inventoryCount"`
	LowStockCount   int               `json:"lowStockCount"`
	RecentOrders    []models.Order    `json:"recentOrders"`
	RecentCustomers []models.Customer `json:"recentCustomers"`
	InventoryStatus []CategoryStock   `json:"inventoryStatus"`
	MonthlySales    []MonthlySales    `json:"monthlySales"`
}

type CategoryStock struct {
	CategoryID uint   `json:"categoryId"`
	Name       string `json:"name"`
	Stock      int    `json:"stock"`
	Percentage int    `json:"percentage"`
}

type MonthlySales struct {
	Name  string          `json:"name"`
	Sales decimal.Decimal `json:"sales"`
}

type ListingSearchResult struct {
	Data []models.MarketplaceListing `json:"data"`
	Meta PageMeta                    `json:"meta"`
}

type PageMeta struct {
	Page       int   `json:"page"`
	Size       int   `json:"size"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"total_pages"`
	HasPrev    bool  `json:"has_prev"`
	HasNext    bool  `json:"has_next"`
}
