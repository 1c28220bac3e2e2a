package httpserver

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	middleware "github.com/Skotchmaster/shop_erp/pkg/middleware/auth"
	"github.com/Skotchmaster/shop_erp/pkg/middleware/csrf"
)

type Deps struct {
	AuthHandler        *AuthHTTP
	CatalogHandler     *CatalogHTTP
	CustomerHandler    *CustomerHTTP
	OrderHandler       *OrderHTTP
	InvoiceHandler     *InvoiceHTTP
	MarketplaceHandler *MarketplaceHTTP
	DashboardHandler   *DashboardHTTP
	JWTSecret          []byte
	Refresher          middleware.Refresher
	// Ready reports whether the backing store is reachable; nil means always ready.
	Ready func(ctx context.Context) error
	// CSRF turns on double-submit token checks for cookie sessions.
	CSRF bool
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error {
		if d.Ready != nil {
			if err := d.Ready(c.Request().Context()); err != nil {
				return c.NoContent(http.StatusServiceUnavailable)
			}
		}
		return c.NoContent(http.StatusOK)
	})

	authMW := middleware.NewAutoRefreshMiddleware(d.JWTSecret, d.Refresher)

	api := e.Group("/api")
	if d.CSRF {
		api.Use(csrf.Middleware(csrf.Config{
			Secure:    true,
			SkipPaths: []string{"/api/register", "/api/login"},
		}))
	}
	api.POST("/register", d.AuthHandler.Register)
	api.POST("/login", d.AuthHandler.Login)
	api.POST("/logout", d.AuthHandler.LogOut)
	api.POST("/refresh", d.AuthHandler.Refresh)
	api.GET("/categories", d.CatalogHandler.GetCategories)
	api.GET("/marketplace", d.MarketplaceHandler.GetListings)
	api.GET("/marketplace/search", d.MarketplaceHandler.SearchListings)

	private := api.Group("", authMW.RequireAuth)
	private.GET("/user", d.AuthHandler.CurrentUser)

	private.GET("/products", d.CatalogHandler.GetProducts)
	private.POST("/products", d.CatalogHandler.CreateProduct)
	private.GET("/products/:id", d.CatalogHandler.GetProduct)
	private.PUT("/products/:id", d.CatalogHandler.UpdateProduct)
	private.DELETE("/products/:id", d.CatalogHandler.DeleteProduct)

	private.GET("/customers", d.CustomerHandler.GetCustomers)
	private.POST("/customers", d.CustomerHandler.CreateCustomer)
	private.PUT("/customers/:id", d.CustomerHandler.UpdateCustomer)
	private.DELETE("/customers/:id", d.CustomerHandler.DeleteCustomer)

	private.GET("/orders", d.OrderHandler.GetOrders)
	private.POST("/orders", d.OrderHandler.CreateOrder)
	private.PUT("/orders/:id/status", d.OrderHandler.UpdateStatus)
	private.GET("/orders/:id/items", d.OrderHandler.GetItems)

	private.GET("/invoices", d.InvoiceHandler.GetInvoices)
	private.POST("/invoices", d.InvoiceHandler.CreateInvoice)
	private.PUT("/invoices/:id/status", d.InvoiceHandler.UpdateStatus)

	private.GET("/marketplace/vendor", d.MarketplaceHandler.GetVendorListings)
	private.POST("/marketplace", d.MarketplaceHandler.CreateListing)
	private.PUT("/marketplace/:id", d.MarketplaceHandler.UpdateListing)
	private.DELETE("/marketplace/:id", d.MarketplaceHandler.DeleteListing)

	private.GET("/dashboard", d.DashboardHandler.GetDashboard)
}
