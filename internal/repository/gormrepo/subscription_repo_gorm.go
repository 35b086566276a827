package gormrepo

import (
	"context"

	"chipset-komputer/internal/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type newsletterRepo struct {
	db *gorm.DB
}

func (r *newsletterRepo) Create(ctx context.Context, s *domain.NewsletterSubscription) error {
	ensureID(&s.ID)
	return wrap(r.db.WithContext(ctx).Create(s).Error, "create subscription")
}

func (r *newsletterRepo) Update(ctx context.Context, s *domain.NewsletterSubscription) error {
	return wrap(r.db.WithContext(ctx).Save(s).Error, "update subscription")
}

func (r *newsletterRepo) FindByEmail(ctx context.Context, email string) (*domain.NewsletterSubscription, error) {
	var s domain.NewsletterSubscription
	if err := r.db.WithContext(ctx).First(&s, "email = ?", email).Error; err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, wrap(err, "find subscription")
	}
	return &s, nil
}

type stockNotificationRepo struct {
	db *gorm.DB
}

func (r *stockNotificationRepo) Create(ctx context.Context, n *domain.StockNotification) error {
	ensureID(&n.ID)
	return wrap(r.db.WithContext(ctx).Omit(clause.Associations).Create(n).Error, "create stock notification")
}

func (r *stockNotificationRepo) FindByID(ctx context.Context, id string) (*domain.StockNotification, error) {
	var n domain.StockNotification
	if err := r.db.WithContext(ctx).First(&n, "id = ?", id).Error; err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, wrap(err, "find stock notification")
	}
	return &n, nil
}

func (r *stockNotificationRepo) FindByUserAndProduct(ctx context.Context, userID, productID string) (*domain.StockNotification, error) {
	var n domain.StockNotification
	err := r.db.WithContext(ctx).First(&n, "user_id = ? AND product_id = ?", userID, productID).Error
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, wrap(err, "find stock notification by product")
	}
	return &n, nil
}

func (r *stockNotificationRepo) ListByUser(ctx context.Context, userID string) ([]domain.StockNotification, error) {
	var out []domain.StockNotification
	err := r.db.WithContext(ctx).Preload("Product").Where("user_id = ?", userID).Order("created_at DESC").Find(&out).Error
	if err != nil {
		return nil, wrap(err, "list stock notifications")
	}
	return out, nil
}

func (r *stockNotificationRepo) ListByProduct(ctx context.Context, productID string) ([]domain.StockNotification, error) {
	var out []domain.StockNotification
	if err := r.db.WithContext(ctx).Where("product_id = ?", productID).Find(&out).Error; err != nil {
		return nil, wrap(err, "list stock notifications by product")
	}
	return out, nil
}

func (r *stockNotificationRepo) Delete(ctx context.Context, id string) error {
	err := r.db.WithContext(ctx).Delete(&domain.StockNotification{}, "id = ?", id).Error
	return wrap(err, "delete stock notification")
}

func (r *stockNotificationRepo) DeleteByProduct(ctx context.Context, productID string) error {
	err := r.db.WithContext(ctx).Delete(&domain.StockNotification{}, "product_id = ?", productID).Error
	return wrap(err, "delete stock notifications by product")
}
