package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	EventOrderCreated         = "order.created"
	EventOrderStatusChanged   = "order.status_changed"
	EventProductRestocked     = "product.restocked"
	EventNewsletterSubscribed = "newsletter.subscribed"
)

type OrderCreatedEvent struct {
	OrderID     string          `json:"orderId"`
	OrderNumber string          `json:"orderNumber"`
	UserID      string          `json:"userId"`
	Total       decimal.Decimal `json:"total"`
	CreatedAt   time.Time       `json:"createdAt"`
}

type OrderStatusChangedEvent struct {
	OrderID     string      `json:"orderId"`
	OrderNumber string      `json:"orderNumber"`
	UserID      string      `json:"userId"`
	From        OrderStatus `json:"from"`
	To          OrderStatus `json:"to"`
	ChangedAt   time.Time   `json:"changedAt"`
}

type ProductRestockedEvent struct {
	ProductID   string   `json:"productId"`
	ProductName string   `json:"productName"`
	Slug        string   `json:"slug"`
	Stock       int      `json:"stock"`
	Recipients  []string `json:"recipients"`
}

type NewsletterSubscribedEvent struct {
	Email       string `json:"email"`
	Reactivated bool   `json:"reactivated"`
}
