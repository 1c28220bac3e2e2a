package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/shop_erp/internal/service"
	"github.com/Skotchmaster/shop_erp/internal/transport"
	"github.com/Skotchmaster/shop_erp/internal/util"
	"github.com/Skotchmaster/shop_erp/pkg/logging"
)

type MarketplaceHTTP struct {
	Svc *service.MarketplaceService
}

func (h *MarketplaceHTTP) GetListings(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "marketplace.get_listings")

	listings, err := h.Svc.ListActive(ctx)
	if err != nil {
		return failure{op: "get_listings", internal: "Failed to retrieve marketplace listings"}.respond(l, err)
	}
	return c.JSON(http.StatusOK, listings)
}

func (h *MarketplaceHTTP) GetVendorListings(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "marketplace.get_vendor_listings")

	userID, err := GetID(c)
	if err != nil {
		return err
	}

	listings, err := h.Svc.ListVendor(ctx, userID)
	if err != nil {
		return failure{op: "get_vendor_listings", internal: "Failed to retrieve vendor listings"}.respond(l, err)
	}
	return c.JSON(http.StatusOK, listings)
}

func (h *MarketplaceHTTP) SearchListings(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "marketplace.search_listings")

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)

	res, err := h.Svc.Search(ctx, c.QueryParam("q"), page, size)
	if err != nil {
		return failure{op: "search_listings", invalid: "Invalid search query", internal: "Failed to search marketplace listings"}.respond(l, err)
	}

	l.Info("search_listings_success", "total", res.Meta.Total)
	return c.JSON(http.StatusOK, res)
}

func (h *MarketplaceHTTP) CreateListing(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "marketplace.create_listing")
	f := failure{op: "create_listing", invalid: "Invalid listing data", internal: "Failed to create marketplace listing"}

	userID, err := GetID(c)
	if err != nil {
		return err
	}

	var req transport.CreateListingRequest
	if err := bindValid(c, &req); err != nil {
		return f.respond(l, err)
	}

	listing, err := h.Svc.CreateListing(ctx, userID, req)
	if err != nil {
		return f.respond(l, err)
	}

	l.Info("create_listing_success", "listing_id", listing.ID)
	return c.JSON(http.StatusCreated, listing)
}

func (h *MarketplaceHTTP) UpdateListing(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "marketplace.update_listing")
	f := failure{
		op:        "update_listing",
		invalid:   "Invalid listing data",
		notFound:  "Listing not found",
		forbidden: "You can only update your own listings",
		internal:  "Failed to update marketplace listing",
	}

	userID, err := GetID(c)
	if err != nil {
		return err
	}
	id, err := parseID(c)
	if err != nil {
		return f.respond(l, err)
	}

	var req transport.PatchListingRequest
	if err := bindValid(c, &req); err != nil {
		return f.respond(l, err)
	}

	listing, err := h.Svc.UpdateListing(ctx, userID, id, req)
	if err != nil {
		return f.respond(l, err)
	}

	l.Info("update_listing_success", "listing_id", listing.ID)
	return c.JSON(http.StatusOK, listing)
}

func (h *MarketplaceHTTP) DeleteListing(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "marketplace.delete_listing")
	f := failure{
		op:        "delete_listing",
		invalid:   "Invalid listing id",
		notFound:  "Listing not found",
		forbidden: "You can only delete your own listings",
		internal:  "Failed to delete marketplace listing",
	}

	userID, err := GetID(c)
	if err != nil {
		return err
	}
	id, err := parseID(c)
	if err != nil {
		return f.respond(l, err)
	}

	if err := h.Svc.DeleteListing(ctx, userID, id); err != nil {
		return f.respond(l, err)
	}

	l.Info("delete_listing_success", "listing_id", id)
	return c.NoContent(http.StatusNoContent)
}
