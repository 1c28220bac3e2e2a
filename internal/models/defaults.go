package models

import "time"

// ApplyDefaults fills kind defaults on zero-valued fields before insert.
// Customer.IsActive and MarketplaceListing.IsActive default to true at the
// request layer, where an omitted field is distinguishable from false.

func (u *User) ApplyDefaults() {
	if u.Role == "" {
		u.Role = RoleShopOwner
	}
}

func (p *Product) ApplyDefaults(now time.Time) {
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
}

func (c *Customer) ApplyDefaults(now time.Time) {
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
}

func (o *Order) ApplyDefaults(now time.Time) {
	if o.Status == "" {
		o.Status = OrderStatusPending
	}
	if o.OrderDate.IsZero() {
		o.OrderDate = now
	}
}

func (i *Invoice) ApplyDefaults(now time.Time) {
	if i.Status == "" {
		i.Status = InvoiceStatusUnpaid
	}
	if i.CreatedAt.IsZero() {
		i.CreatedAt = now
	}
}

func (l *MarketplaceListing) ApplyDefaults(now time.Time) {
	if l.MinOrderQuantity == 0 {
		l.MinOrderQuantity = 1
	}
	if l.CreatedAt.IsZero() {
		l.CreatedAt = now
	}
}
