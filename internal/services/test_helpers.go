package services

import (
	"time"

	"chipset-komputer/internal/domain"

	"github.com/shopspring/decimal"
)

const (
	TestUserID    = "user-1"
	TestOtherID   = "user-2"
	TestAdminID   = "admin-1"
	TestProductID = "prod-1"
	TestOrderID   = "order-1"
)

func CreateTestUser(id string, role domain.Role) *domain.User {
	return &domain.User{
		ID:    id,
		Email: id + "@example.com",
		Name:  "Test " + id,
		Role:  role,
	}
}

func CreateTestProduct(id string, price int64, stock int) *domain.Product {
	return &domain.Product{
		ID:         id,
		Name:       "Product " + id,
		Slug:       "product-" + id,
		Price:      decimal.NewFromInt(price),
		Stock:      stock,
		IsActive:   true,
		CategoryID: "cat-1",
	}
}

func CreateTestOrder(id, userID string, status domain.OrderStatus) *domain.Order {
	return &domain.Order{
		ID:            id,
		OrderNumber:   "ORD-20261016-ABCDEF12",
		UserID:        userID,
		Status:        status,
		PaymentStatus: domain.PaymentPending,
		CreatedAt:     time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC),
		UpdatedAt:     time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC),
	}
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
