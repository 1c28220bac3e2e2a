package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/shop_erp/internal/service"
	"github.com/Skotchmaster/shop_erp/internal/transport"
	"github.com/Skotchmaster/shop_erp/pkg/logging"
)

type CatalogHTTP struct {
	Svc *service.CatalogService
}

func (h *CatalogHTTP) GetCategories(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.get_categories")

	categories, err := h.Svc.ListCategories(ctx)
	if err != nil {
		return failure{op: "get_categories", internal: "Failed to retrieve categories"}.respond(l, err)
	}
	return c.JSON(http.StatusOK, categories)
}

func (h *CatalogHTTP) GetProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.get_products")

	userID, err := GetID(c)
	if err != nil {
		return err
	}

	products, err := h.Svc.ListProducts(ctx, userID)
	if err != nil {
		return failure{op: "get_products", internal: "Failed to retrieve products"}.respond(l, err)
	}
	return c.JSON(http.StatusOK, products)
}

func (h *CatalogHTTP) GetProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.get_product")
	f := failure{
		op:        "get_product",
		invalid:   "Invalid product id",
		notFound:  "Product not found",
		forbidden: "You can only view your own products",
		internal:  "Failed to retrieve product",
	}

	userID, err := GetID(c)
	if err != nil {
		return err
	}
	id, err := parseID(c)
	if err != nil {
		return f.respond(l, err)
	}

	prod, err := h.Svc.GetOwnProduct(ctx, userID, id)
	if err != nil {
		return f.respond(l, err)
	}
	return c.JSON(http.StatusOK, prod)
}

func (h *CatalogHTTP) CreateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.create_product")
	f := failure{
		op:       "create_product",
		invalid:  "Invalid product data",
		conflict: "A product with this SKU already exists",
		internal: "Failed to create product",
	}

	userID, err := GetID(c)
	if err != nil {
		return err
	}

	var req transport.CreateProductRequest
	if err := bindValid(c, &req); err != nil {
		return f.respond(l, err)
	}

	prod, err := h.Svc.CreateProduct(ctx, userID, req)
	if err != nil {
		return f.respond(l, err)
	}

	l.Info("create_product_success", "product_id", prod.ID)
	return c.JSON(http.StatusCreated, prod)
}

func (h *CatalogHTTP) UpdateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.update_product")
	f := failure{
		op:        "update_product",
		invalid:   "Invalid product data",
		notFound:  "Product not found",
		forbidden: "You can only update your own products",
		conflict:  "A product with this SKU already exists",
		internal:  "Failed to update product",
	}

	userID, err := GetID(c)
	if err != nil {
		return err
	}
	id, err := parseID(c)
	if err != nil {
		return f.respond(l, err)
	}

	var req transport.PatchProductRequest
	if err := bindValid(c, &req); err != nil {
		return f.respond(l, err)
	}

	prod, err := h.Svc.UpdateProduct(ctx, userID, id, req)
	if err != nil {
		return f.respond(l, err)
	}

	l.Info("update_product_success", "product_id", prod.ID)
	return c.JSON(http.StatusOK, prod)
}

func (h *CatalogHTTP) DeleteProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.delete_product")
	f := failure{
		op:        "delete_product",
		invalid:   "Invalid product id",
		notFound:  "Product not found",
		forbidden: "You can only delete your own products",
		internal:  "Failed to delete product",
	}

	userID, err := GetID(c)
	if err != nil {
		return err
	}
	id, err := parseID(c)
	if err != nil {
		return f.respond(l, err)
	}

	if err := h.Svc.DeleteProduct(ctx, userID, id); err != nil {
		return f.respond(l, err)
	}

	l.Info("delete_product_success", "product_id", id)
	return c.NoContent(http.StatusNoContent)
}
