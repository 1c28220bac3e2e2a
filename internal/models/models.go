package models

import (
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

const (
	RoleShopOwner = "shop_owner"
	RoleVendor    = "vendor"
)

const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusCompleted  = "completed"
	OrderStatusCancelled  = "cancelled"
)

const (
	InvoiceStatusUnpaid  = "unpaid"
	InvoiceStatusPaid    = "paid"
	InvoiceStatusOverdue = "overdue"
)

var (
	Roles           = []string{RoleShopOwner, RoleVendor}
	OrderStatuses   = []string{OrderStatusPending, OrderStatusProcessing, OrderStatusCompleted, OrderStatusCancelled}
	InvoiceStatuses = []string{InvoiceStatusUnpaid, InvoiceStatusPaid, InvoiceStatusOverdue}
)

func ValidRole(r string) bool          { return slices.Contains(Roles, r) }
func ValidOrderStatus(s string) bool   { return slices.Contains(OrderStatuses, s) }
func ValidInvoiceStatus(s string) bool { return slices.Contains(InvoiceStatuses, s) }

type User struct {
	ID           uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	Username     string  `gorm:"size:64;uniqueIndex;not null" json:"username"`
	PasswordHash string  `gorm:"not null" json:"-"`
	FullName     string  `gorm:"not null" json:"fullName"`
	Email        string  `gorm:"not null" json:"email"`
	Role         string  `gorm:"size:32;not null" json:"role"`
	CompanyName  *string `json:"companyName"`
}

type Product struct {
	ID          uint            `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string          `gorm:"not null" json:"name"`
	Description *string         `json:"description"`
	SKU         string          `gorm:"size:64;uniqueIndex;not null" json:"sku"`
	Price       decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"price"`
	Quantity    int             `gorm:"not null;check:quantity >= 0" json:"quantity"`
	CategoryID  uint            `gorm:"index;not null" json:"categoryId"`
	UserID      uint            `gorm:"index;not null" json:"userId"`
	IsListed    bool            `gorm:"not null" json:"isListed"`
	CreatedAt   time.Time       `gorm:"not null" json:"createdAt"`
}

type Category struct {
	ID          uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string  `gorm:"not null" json:"name"`
	Description *string `json:"description"`
}

type Customer struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	Email     string    `gorm:"not null" json:"email"`
	Phone     *string   `json:"phone"`
	Address   *string   `json:"address"`
	UserID    uint      `gorm:"index;not null" json:"userId"`
	IsActive  bool      `gorm:"not null" json:"isActive"`
	CreatedAt time.Time `gorm:"not null" json:"createdAt"`
}

type Order struct {
	ID          uint            `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderNumber string          `gorm:"size:32;uniqueIndex;not null" json:"orderNumber"`
	CustomerID  uint            `gorm:"index;not null" json:"customerId"`
	UserID      uint            `gorm:"index;not null" json:"userId"`
	TotalAmount decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"totalAmount"`
	Status      string          `gorm:"size:16;not null" json:"status"`
	OrderDate   time.Time       `gorm:"not null" json:"orderDate"`
}

type OrderItem struct {
	ID        uint            `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID   uint            `gorm:"index;not null" json:"orderId"`
	ProductID uint            `gorm:"not null" json:"productId"`
	Quantity  int             `gorm:"not null;check:quantity > 0" json:"quantity"`
	UnitPrice decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"unitPrice"`
}

// Subtotal is quantity times unit price.
func (i OrderItem) Subtotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

type Invoice struct {
	ID            uint            `gorm:"primaryKey;autoIncrement" json:"id"`
	InvoiceNumber string          `gorm:"size:32;uniqueIndex;not null" json:"invoiceNumber"`
	OrderID       uint            `gorm:"index;not null" json:"orderId"`
	UserID        uint            `gorm:"index;not null" json:"userId"`
	Amount        decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"amount"`
	Status        string          `gorm:"size:16;not null" json:"status"`
	DueDate       time.Time       `gorm:"not null" json:"dueDate"`
	CreatedAt     time.Time       `gorm:"not null" json:"createdAt"`
}

type MarketplaceListing struct {
	ID               uint            `gorm:"primaryKey;autoIncrement" json:"id"`
	ProductID        uint            `gorm:"index;not null" json:"productId"`
	VendorID         uint            `gorm:"index;not null" json:"vendorId"`
	Price            decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"price"`
	MinOrderQuantity int             `gorm:"not null;check:min_order_quantity >= 1" json:"minOrderQuantity"`
	IsActive         bool            `gorm:"index;not null" json:"isActive"`
	CreatedAt        time.Time       `gorm:"not null" json:"createdAt"`
}

type RefreshToken struct {
	ID        uint   `gorm:"primaryKey;autoIncrement"`
	Token     string `gorm:"size:64;uniqueIndex;not null"`
	UserID    uint   `gorm:"index;not null"`
	JTI       string `gorm:"size:64;uniqueIndex;not null"`
	ExpiresAt int64  `gorm:"not null"`
	Revoked   bool   `gorm:"not null"`
}

// All lists every persisted kind, in migration order.
func All() []any {
	return []any{
		&User{}, &Category{}, &Product{}, &Customer{}, &Order{}, &OrderItem{},
		&Invoice{}, &MarketplaceListing{}, &RefreshToken{},
	}
}
