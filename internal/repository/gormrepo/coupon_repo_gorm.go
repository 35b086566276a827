package gormrepo

import (
	"context"

	"chipset-komputer/internal/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type couponRepo struct {
	db *gorm.DB
}

func (r *couponRepo) Create(ctx context.Context, c *domain.Coupon) error {
	ensureID(&c.ID)
	return wrap(r.db.WithContext(ctx).Create(c).Error, "create coupon")
}

func (r *couponRepo) Update(ctx context.Context, c *domain.Coupon) error {
	return wrap(r.db.WithContext(ctx).Save(c).Error, "update coupon")
}

func (r *couponRepo) Delete(ctx context.Context, id string) error {
	return wrap(r.db.WithContext(ctx).Delete(&domain.Coupon{}, "id = ?", id).Error, "delete coupon")
}

func (r *couponRepo) FindByID(ctx context.Context, id string) (*domain.Coupon, error) {
	return r.first(r.db.WithContext(ctx), "id = ?", id)
}

func (r *couponRepo) FindByCode(ctx context.Context, code string) (*domain.Coupon, error) {
	return r.first(r.db.WithContext(ctx), "code = ?", code)
}

func (r *couponRepo) FindByCodeForUpdate(ctx context.Context, code string) (*domain.Coupon, error) {
	return r.first(r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), "code = ?", code)
}

func (r *couponRepo) first(q *gorm.DB, cond string, arg interface{}) (*domain.Coupon, error) {
	var c domain.Coupon
	if err := q.First(&c, cond, arg).Error; err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, wrap(err, "find coupon")
	}
	return &c, nil
}

func (r *couponRepo) List(ctx context.Context, page domain.Page) ([]domain.Coupon, int64, error) {
	q := r.db.WithContext(ctx).Model(&domain.Coupon{})

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, wrap(err, "count coupons")
	}

	var out []domain.Coupon
	if err := paginate(q, page.Offset(), page.Limit).Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, 0, wrap(err, "list coupons")
	}
	return out, total, nil
}

func (r *couponRepo) IncrementUsage(ctx context.Context, id string) error {
	err := r.db.WithContext(ctx).
		Model(&domain.Coupon{}).
		Where("id = ?", id).
		UpdateColumn("used_count", gorm.Expr("used_count + ?", 1)).Error
	return wrap(err, "increment coupon usage")
}
