package transport

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/shop_erp/internal/models"
)

type RegisterRequest struct {
	Username    string  `json:"username" validate:"required,min=3,max=64"`
	Password    string  `json:"password" validate:"required,min=6,max=72"`
	FullName    string  `json:"fullName" validate:"required"`
	Email       string  `json:"email" validate:"required,email"`
	Role        string  `json:"role" validate:"omitempty,oneof=shop_owner vendor"`
	CompanyName *string `json:"companyName"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type CreateProductRequest struct {
	Name        string           `json:"name" validate:"required"`
	Description *string          `json:"description"`
	SKU         string           `json:"sku" validate:"required,max=64"`
	Price       *decimal.Decimal `json:"price"`
	Quantity    *int             `json:"quantity" validate:"omitempty,gte=0"`
	CategoryID  uint             `json:"categoryId" validate:"required"`
	IsListed    *bool            `json:"isListed"`
}

type PatchProductRequest struct {
	Name        *string          `json:"name" validate:"omitempty,min=1"`
	Description *string          `json:"description"`
	SKU         *string          `json:"sku" validate:"omitempty,min=1,max=64"`
	Price       *decimal.Decimal `json:"price"`
	Quantity    *int             `json:"quantity" validate:"omitempty,gte=0"`
	CategoryID  *uint            `json:"categoryId" validate:"omitempty,gt=0"`
	IsListed    *bool            `json:"isListed"`
}

type CreateCustomerRequest struct {
	Name     string  `json:"name" validate:"required"`
	Email    string  `json:"email" validate:"omitempty,email"`
	Phone    *string `json:"phone"`
	Address  *string `json:"address"`
	IsActive *bool   `json:"isActive"`
}

type PatchCustomerRequest struct {
	Name     *string `json:"name" validate:"omitempty,min=1"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Phone    *string `json:"phone"`
	Address  *string `json:"address"`
	IsActive *bool   `json:"isActive"`
}

type OrderItemRequest struct {
	ProductID uint             `json:"productId" validate:"required"`
	Quantity  int              `json:"quantity" validate:"required,gt=0"`
	UnitPrice *decimal.Decimal `json:"unitPrice"`
}

type CreateOrderRequest struct {
	CustomerID  uint               `json:"customerId" validate:"required"`
	TotalAmount *decimal.Decimal   `json:"totalAmount"`
	Status      string             `json:"status" validate:"omitempty,oneof=pending processing completed cancelled"`
	OrderDate   *time.Time         `json:"orderDate"`
	Items       []OrderItemRequest `json:"items" validate:"dive"`
}

type StatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type CreateInvoiceRequest struct {
	OrderID uint             `json:"orderId" validate:"required"`
	Amount  *decimal.Decimal `json:"amount"`
	Status  string           `json:"status" validate:"omitempty,oneof=unpaid paid overdue"`
	DueDate *time.Time       `json:"dueDate" validate:"required"`
}

type CreateListingRequest struct {
	ProductID        uint             `json:"productId" validate:"required"`
	Price            *decimal.Decimal `json:"price"`
	MinOrderQuantity *int             `json:"minOrderQuantity" validate:"omitempty,gte=1"`
	IsActive         *bool            `json:"isActive"`
}

type PatchListingRequest struct {
	Price            *decimal.Decimal `json:"price"`
	MinOrderQuantity *int             `json:"minOrderQuantity" validate:"omitempty,gte=1"`
	IsActive         *bool            `json:"isActive"`
}

// OrderResponse is an order with the items created alongside it.
type OrderResponse struct {
	models.Order
	Items []models.OrderItem `json:"items"`
}
