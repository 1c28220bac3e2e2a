package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/shop_erp/internal/service"
	"github.com/Skotchmaster/shop_erp/internal/transport"
	"github.com/Skotchmaster/shop_erp/pkg/logging"
)

type InvoiceHTTP struct {
	Svc *service.InvoiceService
}

func (h *InvoiceHTTP) GetInvoices(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "invoice.get_invoices")

	userID, err := GetID(c)
	if err != nil {
		return err
	}

	invoices, err := h.Svc.ListInvoices(ctx, userID)
	if err != nil {
		return failure{op: "get_invoices", internal: "Failed to retrieve invoices"}.respond(l, err)
	}
	return c.JSON(http.StatusOK, invoices)
}

func (h *InvoiceHTTP) CreateInvoice(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "invoice.create_invoice")
	f := failure{
		op:       "create_invoice",
		invalid:  "Invalid invoice data",
		conflict: "Could not allocate an invoice number",
		internal: "Failed to create invoice",
	}

	userID, err := GetID(c)
	if err != nil {
		return err
	}

	var req transport.CreateInvoiceRequest
	if err := bindValid(c, &req); err != nil {
		return f.respond(l, err)
	}

	inv, err := h.Svc.CreateInvoice(ctx, userID, req)
	if err != nil {
		return f.respond(l, err)
	}

	l.Info("create_invoice_success", "invoice_id", inv.ID)
	return c.JSON(http.StatusCreated, inv)
}

func (h *InvoiceHTTP) UpdateStatus(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "invoice.update_status")
	f := failure{
		op:        "update_invoice_status",
		invalid:   "Invalid status",
		notFound:  "Invoice not found",
		forbidden: "You can only update your own invoices",
		internal:  "Failed to update invoice status",
	}

	userID, err := GetID(c)
	if err != nil {
		return err
	}
	id, err := parseID(c)
	if err != nil {
		return f.respond(l, err)
	}

	var req transport.StatusRequest
	if err := bindValid(c, &req); err != nil {
		return f.respond(l, err)
	}

	inv, err := h.Svc.UpdateStatus(ctx, userID, id, req.Status)
	if err != nil {
		return f.respond(l, err)
	}

	l.Info("update_invoice_status_success", "invoice_id", inv.ID, "status", inv.Status)
	return c.JSON(http.StatusOK, inv)
}
