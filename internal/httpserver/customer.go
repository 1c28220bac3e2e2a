package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/shop_erp/internal/service"
	"github.com/Skotchmaster/shop_erp/internal/transport"
	"github.com/Skotchmaster/shop_erp/pkg/logging"
)

type CustomerHTTP struct {
	Svc *service.CustomerService
}

func (h *CustomerHTTP) GetCustomers(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "customer.get_customers")

	userID, err := GetID(c)
	if err != nil {
		return err
	}

	customers, err := h.Svc.ListCustomers(ctx, userID)
	if err != nil {
		return failure{op: "get_customers", internal: "Failed to retrieve customers"}.respond(l, err)
	}
	return c.JSON(http.StatusOK, customers)
}

func (h *CustomerHTTP) CreateCustomer(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "customer.create_customer")
	f := failure{op: "create_customer", invalid: "Invalid customer data", internal: "Failed to create customer"}

	userID, err := GetID(c)
	if err != nil {
		return err
	}

	var req transport.CreateCustomerRequest
	if err := bindValid(c, &req); err != nil {
		return f.respond(l, err)
	}

	cust, err := h.Svc.CreateCustomer(ctx, userID, req)
	if err != nil {
		return f.respond(l, err)
	}

	l.Info("create_customer_success", "customer_id", cust.ID)
	return c.JSON(http.StatusCreated, cust)
}

func (h *CustomerHTTP) UpdateCustomer(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "customer.update_customer")
	f := failure{
		op:        "update_customer",
		invalid:   "Invalid customer data",
		notFound:  "Customer not found",
		forbidden: "You can only update your own customers",
		internal:  "Failed to update customer",
	}

	userID, err := GetID(c)
	if err != nil {
		return err
	}
	id, err := parseID(c)
	if err != nil {
		return f.respond(l, err)
	}

	var req transport.PatchCustomerRequest
	if err := bindValid(c, &req); err != nil {
		return f.respond(l, err)
	}

	cust, err := h.Svc.UpdateCustomer(ctx, userID, id, req)
	if err != nil {
		return f.respond(l, err)
	}

	l.Info("update_customer_success", "customer_id", cust.ID)
	return c.JSON(http.StatusOK, cust)
}

func (h *CustomerHTTP) DeleteCustomer(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "customer.delete_customer")
	f := failure{
		op:        "delete_customer",
		invalid:   "Invalid customer id",
		notFound:  "Customer not found",
		forbidden: "You can only delete your own customers",
		internal:  "Failed to delete customer",
	}

	userID, err := GetID(c)
	if err != nil {
		return err
	}
	id, err := parseID(c)
	if err != nil {
		return f.respond(l, err)
	}

	if err := h.Svc.DeleteCustomer(ctx, userID, id); err != nil {
		return f.respond(l, err)
	}

	l.Info("delete_customer_success", "customer_id", id)
	return c.NoContent(http.StatusNoContent)
}
