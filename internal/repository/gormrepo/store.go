// Package gormrepo implements the repository interfaces on GORM. It is
// dialect neutral and runs on the MySQL and PostgreSQL drivers.
package gormrepo

import (
	"context"

	"chipset-komputer/internal/repository"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) repository.Store {
	return &store{db: db}
}

func (s *store) Users() repository.UserRepository         { return &userRepo{db: s.db} }
func (s *store) Categories() repository.CategoryRepository { return &categoryRepo{db: s.db} }
func (s *store) Products() repository.ProductRepository   { return &productRepo{db: s.db} }
func (s *store) Carts() repository.CartRepository         { return &cartRepo{db: s.db} }
func (s *store) Orders() repository.OrderRepository       { return NewOrderRepository(s.db) }
func (s *store) Coupons() repository.CouponRepository     { return &couponRepo{db: s.db} }
func (s *store) Reviews() repository.ReviewRepository     { return &reviewRepo{db: s.db} }
func (s *store) Newsletter() repository.NewsletterRepository {
	return &newsletterRepo{db: s.db}
}
func (s *store) StockNotifications() repository.StockNotificationRepository {
	return &stockNotificationRepo{db: s.db}
}

func (s *store) WithinTx(ctx context.Context, fn func(tx repository.Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&store{db: tx})
	})
}

func ensureID(id *string) {
	if *id == "" {
		*id = uuid.NewString()
	}
}

// wrap converts driver errors into repository errors. Unique violations
// become repository.ErrDuplicate, requires TranslateError on the gorm config.
func wrap(err error, op string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return repository.ErrDuplicate
	}
	return errors.Wrap(err, op)
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

func paginate(q *gorm.DB, offset, limit int) *gorm.DB {
	return q.Offset(offset).Limit(limit)
}
