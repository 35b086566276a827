package gormrepo

import (
	"context"

	"chipset-komputer/internal/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type reviewRepo struct {
	db *gorm.DB
}

func (r *reviewRepo) Create(ctx context.Context, rv *domain.Review) error {
	ensureID(&rv.ID)
	return wrap(r.db.WithContext(ctx).Omit(clause.Associations).Create(rv).Error, "create review")
}

func (r *reviewRepo) Update(ctx context.Context, rv *domain.Review) error {
	return wrap(r.db.WithContext(ctx).Omit(clause.Associations).Save(rv).Error, "update review")
}

func (r *reviewRepo) Delete(ctx context.Context, id string) error {
	return wrap(r.db.WithContext(ctx).Delete(&domain.Review{}, "id = ?", id).Error, "delete review")
}

func (r *reviewRepo) FindByID(ctx context.Context, id string) (*domain.Review, error) {
	var rv domain.Review
	if err := r.db.WithContext(ctx).First(&rv, "id = ?", id).Error; err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, wrap(err, "find review")
	}
	return &rv, nil
}

func (r *reviewRepo) FindByUserAndProduct(ctx context.Context, userID, productID string) (*domain.Review, error) {
	var rv domain.Review
	err := r.db.WithContext(ctx).First(&rv, "user_id = ? AND product_id = ?", userID, productID).Error
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, wrap(err, "find review by product")
	}
	return &rv, nil
}

func (r *reviewRepo) List(ctx context.Context, filter domain.ReviewFilter, page domain.Page) ([]domain.Review, int64, error) {
	q := r.db.WithContext(ctx).Model(&domain.Review{})
	if filter.ProductID != "" {
		q = q.Where("product_id = ?", filter.ProductID)
	}
	if filter.Approved != nil {
		q = q.Where("is_approved = ?", *filter.Approved)
	}

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, wrap(err, "count reviews")
	}

	var out []domain.Review
	err := paginate(q, page.Offset(), page.Limit).
		Preload("User").
		Preload("Product").
		Order("created_at DESC").
		Find(&out).Error
	if err != nil {
		return nil, 0, wrap(err, "list reviews")
	}
	return out, total, nil
}

func (r *reviewRepo) AverageRating(ctx context.Context, productID string) (float64, error) {
	var avg float64
	err := r.db.WithContext(ctx).
		Model(&domain.Review{}).
		Select("COALESCE(AVG(rating), 0)").
		Where("product_id = ? AND is_approved = ?", productID, true).
		Row().
		Scan(&avg)
	if err != nil {
		return 0, wrap(err, "average review rating")
	}
	return avg, nil
}
