// Package store defines the persistence contract shared by the in-memory and
// SQL backends.
package store

import (
	"context"
	"errors"

	"github.com/Skotchmaster/shop_erp/internal/models"
)

var (
	ErrNotFound   = errors.New("record not found")
	ErrConflict   = errors.New("unique constraint violated")
	ErrConstraint = errors.New("constraint violated")
)

type Users interface {
	GetUser(ctx context.Context, id uint) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	CreateUser(ctx context.Context, u *models.User) error
}

type Products interface {
	GetProduct(ctx context.Context, id uint) (*models.Product, error)
	ListProducts(ctx context.Context, userID uint) ([]models.Product, error)
	CreateProduct(ctx context.Context, p *models.Product) error
	UpdateProduct(ctx context.Context, id uint, patch models.ProductPatch) (*models.Product, error)
	// DeleteProduct removes the product and its marketplace listings together.
	DeleteProduct(ctx context.Context, id uint) error
}

type Categories interface {
	GetCategory(ctx context.Context, id uint) (*models.Category, error)
	ListCategories(ctx context.Context) ([]models.Category, error)
	CreateCategory(ctx context.Context, c *models.Category) error
}

type Customers interface {
	GetCustomer(ctx context.Context, id uint) (*models.Customer, error)
	ListCustomers(ctx context.Context, userID uint) ([]models.Customer, error)
	CreateCustomer(ctx context.Context, c *models.Customer) error
	UpdateCustomer(ctx context.Context, id uint, patch models.CustomerPatch) (*models.Customer, error)
	DeleteCustomer(ctx context.Context, id uint) error
}

type Orders interface {
	GetOrder(ctx context.Context, id uint) (*models.Order, error)
	ListOrders(ctx context.Context, userID uint) ([]models.Order, error)
	CreateOrder(ctx context.Context, o *models.Order) error
	// CreateOrderWithItems inserts the order and all items or nothing.
	// Item OrderID and ID fields are filled in place.
	CreateOrderWithItems(ctx context.Context, o *models.Order, items []models.OrderItem) error
	UpdateOrder(ctx context.Context, id uint, patch models.OrderPatch) (*models.Order, error)
	ListOrderItems(ctx context.Context, orderID uint) ([]models.OrderItem, error)
	AddOrderItem(ctx context.Context, it *models.OrderItem) error
}

type Invoices interface {
	GetInvoice(ctx context.Context, id uint) (*models.Invoice, error)
	GetInvoiceByOrderID(ctx context.Context, orderID uint) (*models.Invoice, error)
	ListInvoices(ctx context.Context, userID uint) ([]models.Invoice, error)
	CreateInvoice(ctx context.Context, inv *models.Invoice) error
	UpdateInvoice(ctx context.Context, id uint, patch models.InvoicePatch) (*models.Invoice, error)
}

type Listings interface {
	GetListing(ctx context.Context, id uint) (*models.MarketplaceListing, error)
	ListActiveListings(ctx context.Context) ([]models.MarketplaceListing, error)
	ListVendorListings(ctx context.Context, vendorID uint) ([]models.MarketplaceListing, error)
	CreateListing(ctx context.Context, l *models.MarketplaceListing) error
	UpdateListing(ctx context.Context, id uint, patch models.ListingPatch) (*models.MarketplaceListing, error)
	DeleteListing(ctx context.Context, id uint) error
}

type RefreshTokens interface {
	CreateRefreshToken(ctx context.Context, t *models.RefreshToken) error
	GetRefreshToken(ctx context.Context, jti string) (*models.RefreshToken, error)
	RevokeRefreshToken(ctx context.Context, jti string) error
	// RotateRefreshToken revokes the live token oldJTI and stores next.
	// It returns ErrNotFound when oldJTI is unknown, revoked or expired.
	RotateRefreshToken(ctx context.Context, oldJTI string, next *models.RefreshToken) error
}

type Store interface {
	Users
	Products
	Categories
	Customers
	Orders
	Invoices
	Listings
	RefreshTokens

	Ping(ctx context.Context) error
}
