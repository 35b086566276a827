package repository

import (
	"context"

	"chipset-komputer/internal/domain"
)

type OrderRepository interface {
	Save(ctx context.Context, order *domain.Order) error
	FindByID(ctx context.Context, id string) (*domain.Order, error)
	List(ctx context.Context, filter domain.OrderFilter, page domain.Page) ([]domain.Order, int64, error)
	Update(ctx context.Context, order *domain.Order) error
}
