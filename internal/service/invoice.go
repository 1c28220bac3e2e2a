package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Skotchmaster/shop_erp/internal/models"
	"github.com/Skotchmaster/shop_erp/internal/mykafka"
	"github.com/Skotchmaster/shop_erp/internal/store"
	"github.com/Skotchmaster/shop_erp/internal/transport"
	"github.com/Skotchmaster/shop_erp/pkg/logging"
)

type InvoiceRepo interface {
	store.Invoices
	store.Orders
}

type InvoiceService struct {
	Repo      InvoiceRepo
	Events    mykafka.Publisher
	NewNumber NumberFunc
}

func (s *InvoiceService) number() string {
	if s.NewNumber == nil {
		return RandomNumber("INV")
	}
	return s.NewNumber("INV")
}

func (s *InvoiceService) ListInvoices(ctx context.Context, userID uint) ([]models.Invoice, error) {
	return s.Repo.ListInvoices(ctx, userID)
}

func (s *InvoiceService) CreateInvoice(ctx context.Context, userID uint, req transport.CreateInvoiceRequest) (*models.Invoice, error) {
	l := logging.FromContext(ctx).With("svc", "invoice.create_invoice")

	var fe fieldErrors
	if req.OrderID == 0 {
		fe.add("orderId", "is required")
	}
	requireMoney(&fe, "amount", req.Amount)
	if req.Status != "" && !models.ValidInvoiceStatus(req.Status) {
		fe.add("status", "must be one of unpaid paid overdue")
	}
	if req.DueDate == nil {
		fe.add("dueDate", "is required")
	}
	if err := fe.Err(); err != nil {
		return nil, err
	}
	err := checkRef(&fe, "orderId", "order", userID, func() (uint, error) {
		o, err := s.Repo.GetOrder(ctx, req.OrderID)
		if err != nil {
			return 0, err
		}
		return o.UserID, nil
	})
	if err != nil {
		return nil, err
	}
	if err := fe.Err(); err != nil {
		return nil, err
	}

	inv := models.Invoice{
		OrderID: req.OrderID,
		UserID:  userID,
		Amount:  *req.Amount,
		Status:  req.Status,
		DueDate: req.DueDate.UTC(),
	}

	for attempt := 1; attempt <= numberAttempts; attempt++ {
		candidate := inv
		candidate.InvoiceNumber = s.number()
		err = s.Repo.CreateInvoice(ctx, &candidate)
		if err == nil {
			inv = candidate
			break
		}
		if !errors.Is(err, store.ErrConflict) {
			return nil, fromStore(err)
		}
		l.Warn("invoice_number_collision", "invoice_number", candidate.InvoiceNumber, "attempt", attempt)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: could not allocate an invoice number", ErrConflict)
	}

	mykafka.Emit(ctx, s.Events, mykafka.TopicInvoices, mykafka.NewEvent("invoice_created", userID, inv.ID, map[string]any{
		"invoiceNumber": inv.InvoiceNumber,
		"orderId":       inv.OrderID,
		"amount":        inv.Amount.StringFixed(2),
	}))
	return &inv, nil
}

// UpdateStatus moves an invoice to status. Setting the current status again
// succeeds without writing.
func (s *InvoiceService) UpdateStatus(ctx context.Context, userID, id uint, status string) (*models.Invoice, error) {
	if !models.ValidInvoiceStatus(status) {
		return nil, invalid("status", "must be one of unpaid paid overdue")
	}

	inv, err := s.Repo.GetInvoice(ctx, id)
	if err != nil {
		return nil, fromStore(err)
	}
	if inv.UserID != userID {
		return nil, ErrForbidden
	}
	if inv.Status == status {
		return inv, nil
	}

	prev := inv.Status
	inv, err = s.Repo.UpdateInvoice(ctx, id, models.InvoicePatch{Status: &status})
	if err != nil {
		return nil, fromStore(err)
	}

	mykafka.Emit(ctx, s.Events, mykafka.TopicInvoices, mykafka.NewEvent("invoice_status_changed", userID, inv.ID, map[string]any{
		"from": prev,
		"to":   status,
	}))
	return inv, nil
}
