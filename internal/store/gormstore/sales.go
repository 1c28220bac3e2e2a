package gormstore

import (
	"context"

	"gorm.io/gorm"

	"github.com/Skotchmaster/shop_erp/internal/models"
)

func (r *GormRepo) GetCustomer(ctx context.Context, id uint) (*models.Customer, error) {
	return first[models.Customer](ctx, r.DB, "id = ?", id)
}

func (r *GormRepo) ListCustomers(ctx context.Context, userID uint) ([]models.Customer, error) {
	return list[models.Customer](ctx, r.DB, "user_id = ?", userID)
}

func (r *GormRepo) CreateCustomer(ctx context.Context, c *models.Customer) error {
	c.ApplyDefaults(r.now())
	return translate(r.DB.WithContext(ctx).Create(c).Error)
}

func (r *GormRepo) UpdateCustomer(ctx context.Context, id uint, patch models.CustomerPatch) (*models.Customer, error) {
	return update(ctx, r.DB, id, func(row *models.Customer) { patch.Apply(row) })
}

func (r *GormRepo) DeleteCustomer(ctx context.Context, id uint) error {
	return remove[models.Customer](ctx, r.DB, id)
}

func (r *GormRepo) GetOrder(ctx context.Context, id uint) (*models.Order, error) {
	return first[models.Order](ctx, r.DB, "id = ?", id)
}

func (r *GormRepo) ListOrders(ctx context.Context, userID uint) ([]models.Order, error) {
	return list[models.Order](ctx, r.DB, "user_id = ?", userID)
}

func (r *GormRepo) CreateOrder(ctx context.Context, o *models.Order) error {
	o.ApplyDefaults(r.now())
	return translate(r.DB.WithContext(ctx).Create(o).Error)
}

func (r *GormRepo) CreateOrderWithItems(ctx context.Context, o *models.Order, items []models.OrderItem) error {
	o.ApplyDefaults(r.now())
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(o).Error; err != nil {
			return err
		}
		for i := range items {
			items[i].OrderID = o.ID
			if err := tx.Create(&items[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		o.ID = 0
		for i := range items {
			items[i].ID = 0
		}
		return translate(err)
	}
	return nil
}

func (r *GormRepo) UpdateOrder(ctx context.Context, id uint, patch models.OrderPatch) (*models.Order, error) {
	return update(ctx, r.DB, id, func(row *models.Order) { patch.Apply(row) })
}

func (r *GormRepo) ListOrderItems(ctx context.Context, orderID uint) ([]models.OrderItem, error) {
	return list[models.OrderItem](ctx, r.DB, "order_id = ?", orderID)
}

func (r *GormRepo) AddOrderItem(ctx context.Context, it *models.OrderItem) error {
	return translate(r.DB.WithContext(ctx).Create(it).Error)
}

func (r *GormRepo) GetInvoice(ctx context.Context, id uint) (*models.Invoice, error) {
	return first[models.Invoice](ctx, r.DB, "id = ?", id)
}

func (r *GormRepo) GetInvoiceByOrderID(ctx context.Context, orderID uint) (*models.Invoice, error) {
	return first[models.Invoice](ctx, r.DB, "order_id = ?", orderID)
}

func (r *GormRepo) ListInvoices(ctx context.Context, userID uint) ([]models.Invoice, error) {
	return list[models.Invoice](ctx, r.DB, "user_id = ?", userID)
}

func (r *GormRepo) CreateInvoice(ctx context.Context, inv *models.Invoice) error {
	inv.ApplyDefaults(r.now())
	return translate(r.DB.WithContext(ctx).Create(inv).Error)
}

func (r *GormRepo) UpdateInvoice(ctx context.Context, id uint, patch models.InvoicePatch) (*models.Invoice, error) {
	return update(ctx, r.DB, id, func(row *models.Invoice) { patch.Apply(row) })
}
