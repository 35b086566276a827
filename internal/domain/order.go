package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type OrderStatus string

const (
	StatusPending    OrderStatus = "PENDING"
	StatusProcessing OrderStatus = "PROCESSING"
	StatusShipped    OrderStatus = "SHIPPED"
	StatusDelivered  OrderStatus = "DELIVERED"
	StatusCancelled  OrderStatus = "CANCELLED"
)

var orderTransitions = map[OrderStatus][]OrderStatus{
	StatusPending:    {StatusProcessing, StatusCancelled},
	StatusProcessing: {StatusShipped, StatusCancelled},
	StatusShipped:    {StatusDelivered},
}

func (s OrderStatus) Valid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// CanTransitionTo reports whether an order may move from s to next.
// DELIVERED and CANCELLED are terminal.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// rank is the position of s in the linear fulfilment order, -1 for CANCELLED.
func (s OrderStatus) rank() int {
	switch s {
	case StatusPending:
		return 0
	case StatusProcessing:
		return 1
	case StatusShipped:
		return 2
	case StatusDelivered:
		return 3
	}
	return -1
}

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "PENDING"
	PaymentPaid     PaymentStatus = "PAID"
	PaymentFailed   PaymentStatus = "FAILED"
	PaymentRefunded PaymentStatus = "REFUNDED"
)

func (p PaymentStatus) Valid() bool {
	switch p {
	case PaymentPending, PaymentPaid, PaymentFailed, PaymentRefunded:
		return true
	}
	return false
}

type ShippingAddress struct {
	RecipientName string `json:"recipientName" binding:"required"`
	Phone         string `json:"phone" binding:"required"`
	Street        string `json:"street" binding:"required"`
	City          string `json:"city" binding:"required"`
	Province      string `json:"province"`
	PostalCode    string `json:"postalCode" binding:"required"`
}

type Order struct {
	ID              string                               `json:"id" gorm:"primaryKey;size:36"`
	OrderNumber     string                               `json:"orderNumber" gorm:"uniqueIndex;size:40;not null"`
	UserID          string                               `json:"userId" gorm:"size:36;not null;index"`
	Status          OrderStatus                          `json:"status" gorm:"type:varchar(20);not null;index"`
	PaymentStatus   PaymentStatus                        `json:"paymentStatus" gorm:"type:varchar(20);not null"`
	PaymentMethod   string                               `json:"paymentMethod" gorm:"size:50"`
	Subtotal        decimal.Decimal                      `json:"subtotal" gorm:"type:decimal(16,2);not null"`
	Discount        decimal.Decimal                      `json:"discount" gorm:"type:decimal(16,2);not null"`
	ShippingCost    decimal.Decimal                      `json:"shippingCost" gorm:"type:decimal(16,2);not null"`
	Total           decimal.Decimal                      `json:"total" gorm:"type:decimal(16,2);not null"`
	CouponCode      *string                              `json:"couponCode,omitempty" gorm:"size:50"`
	ShippingAddress datatypes.JSONType[ShippingAddress] `json:"shippingAddress"`
	Notes           string                               `json:"notes,omitempty" gorm:"type:text"`
	Items           []OrderItem                          `json:"items,omitempty" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	User            *User                                `json:"user,omitempty" gorm:"foreignKey:UserID"`
	CreatedAt       time.Time                            `json:"createdAt"`
	UpdatedAt       time.Time                            `json:"updatedAt"`
}

type OrderItem struct {
	ID          string          `json:"id" gorm:"primaryKey;size:36"`
	OrderID     string          `json:"orderId" gorm:"size:36;not null;index"`
	ProductID   string          `json:"productId" gorm:"size:36;not null;index"`
	ProductName string          `json:"productName" gorm:"size:255;not null"`
	Price       decimal.Decimal `json:"price" gorm:"type:decimal(16,2);not null"`
	Quantity    int             `json:"quantity" gorm:"not null"`
	Subtotal    decimal.Decimal `json:"subtotal" gorm:"type:decimal(16,2);not null"`
}

type OrderFilter struct {
	UserID string
	Status OrderStatus
}

var (
	FreeShippingThreshold = decimal.NewFromInt(1_000_000)
	FlatShippingCost      = decimal.NewFromInt(20_000)
)

func ShippingCostFor(subtotal decimal.Decimal) decimal.Decimal {
	if subtotal.GreaterThanOrEqual(FreeShippingThreshold) {
		return decimal.Zero
	}
	return FlatShippingCost
}

// NewOrderNumber returns a human readable unique number, e.g.
// ORD-20261016-3F2A9C1B.
func NewOrderNumber(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return fmt.Sprintf("ORD-%s-%s", now.Format("20060102"), suffix)
}
