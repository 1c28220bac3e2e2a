package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/shop_erp/internal/models"
	"github.com/Skotchmaster/shop_erp/internal/mykafka"
	"github.com/Skotchmaster/shop_erp/internal/store"
	"github.com/Skotchmaster/shop_erp/internal/transport"
	"github.com/Skotchmaster/shop_erp/pkg/logging"
)

// OrderRepo is what orders need: their own rows plus the customers and
// products they reference.
type OrderRepo interface {
	store.Orders
	store.Customers
	store.Products
}

type OrderService struct {
	Repo      OrderRepo
	Events    mykafka.Publisher
	NewNumber NumberFunc
}

func (s *OrderService) number() string {
	if s.NewNumber == nil {
		return RandomNumber("ORD")
	}
	return s.NewNumber("ORD")
}

func (s *OrderService) ListOrders(ctx context.Context, userID uint) ([]models.Order, error) {
	return s.Repo.ListOrders(ctx, userID)
}

// CreateOrder validates the order and every item, then stores them in one
// step. A generated number that collides is replaced and retried.
func (s *OrderService) CreateOrder(ctx context.Context, userID uint, req transport.CreateOrderRequest) (*models.Order, []models.OrderItem, error) {
	l := logging.FromContext(ctx).With("svc", "order.create_order")

	var fe fieldErrors
	if req.CustomerID == 0 {
		fe.add("customerId", "is required")
	}
	if req.Status != "" && !models.ValidOrderStatus(req.Status) {
		fe.add("status", "must be one of pending processing completed cancelled")
	}
	checkMoney(&fe, "totalAmount", req.TotalAmount)

	items := make([]models.OrderItem, 0, len(req.Items))
	sum := decimal.Zero
	for i, it := range req.Items {
		field := fmt.Sprintf("items[%d]", i)
		if it.ProductID == 0 {
			fe.add(field+".productId", "is required")
		}
		if it.Quantity <= 0 {
			fe.add(field+".quantity", "must be greater than 0")
		}
		requireMoney(&fe, field+".unitPrice", it.UnitPrice)
		if it.UnitPrice == nil {
			continue
		}
		item := models.OrderItem{ProductID: it.ProductID, Quantity: it.Quantity, UnitPrice: *it.UnitPrice}
		sum = sum.Add(item.Subtotal())
		items = append(items, item)
	}
	if req.TotalAmount == nil && len(req.Items) == 0 {
		fe.add("totalAmount", "is required")
	}
	if err := fe.Err(); err != nil {
		return nil, nil, err
	}
	if err := s.checkReferences(ctx, userID, req); err != nil {
		return nil, nil, err
	}

	order := models.Order{
		CustomerID:  req.CustomerID,
		UserID:      userID,
		TotalAmount: sum,
		Status:      req.Status,
	}
	if req.TotalAmount != nil {
		order.TotalAmount = *req.TotalAmount
	}
	if req.OrderDate != nil {
		order.OrderDate = req.OrderDate.UTC()
	}

	var err error
	for attempt := 1; attempt <= numberAttempts; attempt++ {
		o := order
		o.OrderNumber = s.number()
		err = s.Repo.CreateOrderWithItems(ctx, &o, items)
		if err == nil {
			order = o
			break
		}
		if !errors.Is(err, store.ErrConflict) {
			return nil, nil, fromStore(err)
		}
		l.Warn("order_number_collision", "order_number", o.OrderNumber, "attempt", attempt)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("%w: could not allocate an order number", ErrConflict)
	}

	mykafka.Emit(ctx, s.Events, mykafka.TopicOrders, mykafka.NewEvent("order_created", userID, order.ID, map[string]any{
		"orderNumber": order.OrderNumber,
		"totalAmount": order.TotalAmount.StringFixed(2),
		"items":       len(items),
	}))
	return &order, items, nil
}

// checkReferences requires the customer and every item product to exist and
// belong to userID.
func (s *OrderService) checkReferences(ctx context.Context, userID uint, req transport.CreateOrderRequest) error {
	var fe fieldErrors
	err := checkRef(&fe, "customerId", "customer", userID, func() (uint, error) {
		c, err := s.Repo.GetCustomer(ctx, req.CustomerID)
		if err != nil {
			return 0, err
		}
		return c.UserID, nil
	})
	if err != nil {
		return err
	}

	owners := make(map[uint]uint)
	for i, it := range req.Items {
		err := checkRef(&fe, fmt.Sprintf("items[%d].productId", i), "product", userID, func() (uint, error) {
			if owner, ok := owners[it.ProductID]; ok {
				return owner, nil
			}
			p, err := s.Repo.GetProduct(ctx, it.ProductID)
			if err != nil {
				return 0, err
			}
			owners[it.ProductID] = p.UserID
			return p.UserID, nil
		})
		if err != nil {
			return err
		}
	}
	return fe.Err()
}

func (s *OrderService) ownOrder(ctx context.Context, userID, id uint) (*models.Order, error) {
	order, err := s.Repo.GetOrder(ctx, id)
	if err != nil {
		return nil, fromStore(err)
	}
	if order.UserID != userID {
		return nil, ErrForbidden
	}
	return order, nil
}

// UpdateStatus moves an order to status. Setting the current status again
// succeeds without writing.
func (s *OrderService) UpdateStatus(ctx context.Context, userID, id uint, status string) (*models.Order, error) {
	if !models.ValidOrderStatus(status) {
		return nil, invalid("status", "must be one of pending processing completed cancelled")
	}

	order, err := s.ownOrder(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if order.Status == status {
		return order, nil
	}

	prev := order.Status
	order, err = s.Repo.UpdateOrder(ctx, id, models.OrderPatch{Status: &status})
	if err != nil {
		return nil, fromStore(err)
	}

	mykafka.Emit(ctx, s.Events, mykafka.TopicOrders, mykafka.NewEvent("order_status_changed", userID, order.ID, map[string]any{
		"from": prev,
		"to":   status,
	}))
	return order, nil
}

func (s *OrderService) ListItems(ctx context.Context, userID, orderID uint) ([]models.OrderItem, error) {
	if _, err := s.ownOrder(ctx, userID, orderID); err != nil {
		return nil, err
	}
	return s.Repo.ListOrderItems(ctx, orderID)
}
