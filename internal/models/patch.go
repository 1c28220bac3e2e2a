package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Patches carry only the fields a caller sent. Identity and ownership
// fields are never patchable.

type ProductPatch struct {
	Name        *string
	Description *string
	SKU         *string
	Price       *decimal.Decimal
	Quantity    *int
	CategoryID  *uint
	IsListed    *bool
}

func (p ProductPatch) Apply(dst *Product) {
	if p.Name != nil {
		dst.Name = *p.Name
	}
	if p.Description != nil {
		dst.Description = p.Description
	}
	if p.SKU != nil {
		dst.SKU = *p.SKU
	}
	if p.Price != nil {
		dst.Price = *p.Price
	}
	if p.Quantity != nil {
		dst.Quantity = *p.Quantity
	}
	if p.CategoryID != nil {
		dst.CategoryID = *p.CategoryID
	}
	if p.IsListed != nil {
		dst.IsListed = *p.IsListed
	}
}

type CustomerPatch struct {
	Name     *string
	Email    *string
	Phone    *string
	Address  *string
	IsActive *bool
}

func (p CustomerPatch) Apply(dst *Customer) {
	if p.Name != nil {
		dst.Name = *p.Name
	}
	if p.Email != nil {
		dst.Email = *p.Email
	}
	if p.Phone != nil {
		dst.Phone = p.Phone
	}
	if p.Address != nil {
		dst.Address = p.Address
	}
	if p.IsActive != nil {
		dst.IsActive = *p.IsActive
	}
}

type OrderPatch struct {
	CustomerID  *uint
	TotalAmount *decimal.Decimal
	Status      *string
}

func (p OrderPatch) Apply(dst *Order) {
	if p.CustomerID != nil {
		dst.CustomerID = *p.CustomerID
	}
	if p.TotalAmount != nil {
		dst.TotalAmount = *p.TotalAmount
	}
	if p.Status != nil {
		dst.Status = *p.Status
	}
}

type InvoicePatch struct {
	Amount  *decimal.Decimal
	Status  *string
	DueDate *time.Time
}

func (p InvoicePatch) Apply(dst *Invoice) {
	if p.Amount != nil {
		dst.Amount = *p.Amount
	}
	if p.Status != nil {
		dst.Status = *p.Status
	}
	if p.DueDate != nil {
		dst.DueDate = *p.DueDate
	}
}

type ListingPatch struct {
	Price            *decimal.Decimal
	MinOrderQuantity *int
	IsActive         *bool
}

func (p ListingPatch) Apply(dst *MarketplaceListing) {
	if p.Price != nil {
		dst.Price = *p.Price
	}
	if p.MinOrderQuantity != nil {
		dst.MinOrderQuantity = *p.MinOrderQuantity
	}
	if p.IsActive != nil {
		dst.IsActive = *p.IsActive
	}
}
