package gormrepo

import (
	"context"

	"chipset-komputer/internal/domain"
	"chipset-komputer/internal/repository"

	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type orderRepo struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) repository.OrderRepository {
	return &orderRepo{db: db}
}

// Save inserts the order together with its items.
func (r *orderRepo) Save(ctx context.Context, order *domain.Order) error {
	ensureID(&order.ID)
	for i := range order.Items {
		ensureID(&order.Items[i].ID)
		order.Items[i].OrderID = order.ID
	}

	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		return wrap(err, "save order")
	}

	log.WithFields(log.Fields{"orderId": order.ID, "orderNumber": order.OrderNumber}).Debug("order saved")
	return nil
}

func (r *orderRepo) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	var o domain.Order
	if err := r.db.WithContext(ctx).Preload("Items").First(&o, "id = ?", id).Error; err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, wrap(err, "find order by id")
	}
	return &o, nil
}

func (r *orderRepo) List(ctx context.Context, filter domain.OrderFilter, page domain.Page) ([]domain.Order, int64, error) {
	q := r.db.WithContext(ctx).Model(&domain.Order{})
	if filter.UserID != "" {
		q = q.Where("user_id = ?", filter.UserID)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, wrap(err, "count orders")
	}

	var out []domain.Order
	err := paginate(q, page.Offset(), page.Limit).
		Preload("Items").
		Preload("User").
		Order("created_at DESC").
		Find(&out).Error
	if err != nil {
		return nil, 0, wrap(err, "list orders")
	}
	return out, total, nil
}

func (r *orderRepo) Update(ctx context.Context, order *domain.Order) error {
	err := r.db.WithContext(ctx).Omit(clause.Associations).Save(order).Error
	return wrap(err, "update order")
}
