package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/shop_erp/internal/service"
	"github.com/Skotchmaster/shop_erp/internal/transport"
	"github.com/Skotchmaster/shop_erp/pkg/logging"
)

type OrderHTTP struct {
	Svc *service.OrderService
}

func (h *OrderHTTP) GetOrders(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.get_orders")

	userID, err := GetID(c)
	if err != nil {
		return err
	}

	orders, err := h.Svc.ListOrders(ctx, userID)
	if err != nil {
		return failure{op: "get_orders", internal: "Failed to retrieve orders"}.respond(l, err)
	}
	return c.JSON(http.StatusOK, orders)
}

func (h *OrderHTTP) CreateOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.create_order")
	f := failure{
		op:       "create_order",
		invalid:  "Invalid order data",
		conflict: "Could not allocate an order number",
		internal: "Failed to create order",
	}

	userID, err := GetID(c)
	if err != nil {
		return err
	}

	var req transport.CreateOrderRequest
	if err := bindValid(c, &req); err != nil {
		return f.respond(l, err)
	}

	order, items, err := h.Svc.CreateOrder(ctx, userID, req)
	if err != nil {
		return f.respond(l, err)
	}

	l.Info("create_order_success", "order_id", order.ID, "items", len(items))
	return c.JSON(http.StatusCreated, transport.OrderResponse{Order: *order, Items: items})
}

func (h *OrderHTTP) UpdateStatus(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.update_status")
	f := failure{
		op:        "update_order_status",
		invalid:   "Invalid status",
		notFound:  "Order not found",
		forbidden: "You can only update your own orders",
		internal:  "Failed to update order status",
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

	order, err := h.Svc.UpdateStatus(ctx, userID, id, req.Status)
	if err != nil {
		return f.respond(l, err)
	}

	l.Info("update_order_status_success", "order_id", order.ID, "status", order.Status)
	return c.JSON(http.StatusOK, order)
}

func (h *OrderHTTP) GetItems(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.get_items")
	f := failure{
		op:        "get_order_items",
		invalid:   "Invalid order id",
		notFound:  "Order not found",
		forbidden: "You can only view your own orders",
		internal:  "Failed to retrieve order items",
	}

	userID, err := GetID(c)
	if err != nil {
		return err
	}
	id, err := parseID(c)
	if err != nil {
		return f.respond(l, err)
	}

	items, err := h.Svc.ListItems(ctx, userID, id)
	if err != nil {
		return f.respond(l, err)
	}
	return c.JSON(http.StatusOK, items)
}
