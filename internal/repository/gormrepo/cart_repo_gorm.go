package gormrepo

import (
	"context"

	"chipset-komputer/internal/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type cartRepo struct {
	db *gorm.DB
}

func (r *cartRepo) Create(ctx context.Context, item *domain.CartItem) error {
	ensureID(&item.ID)
	return wrap(r.db.WithContext(ctx).Omit(clause.Associations).Create(item).Error, "create cart item")
}

func (r *cartRepo) FindByID(ctx context.Context, id string) (*domain.CartItem, error) {
	var it domain.CartItem
	if err := r.db.WithContext(ctx).First(&it, "id = ?", id).Error; err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, wrap(err, "find cart item")
	}
	return &it, nil
}

func (r *cartRepo) FindByUserAndProduct(ctx context.Context, userID, productID string) (*domain.CartItem, error) {
	var it domain.CartItem
	err := r.db.WithContext(ctx).First(&it, "user_id = ? AND product_id = ?", userID, productID).Error
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, wrap(err, "find cart item by product")
	}
	return &it, nil
}

func (r *cartRepo) ListByUser(ctx context.Context, userID string) ([]domain.CartItem, error) {
	var out []domain.CartItem
	err := r.db.WithContext(ctx).
		Preload("Product").
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&out).Error
	if err != nil {
		return nil, wrap(err, "list cart items")
	}
	return out, nil
}

func (r *cartRepo) UpdateQuantity(ctx context.Context, id string, quantity int) error {
	err := r.db.WithContext(ctx).Model(&domain.CartItem{}).Where("id = ?", id).Update("quantity", quantity).Error
	return wrap(err, "update cart quantity")
}

func (r *cartRepo) Delete(ctx context.Context, id string) error {
	return wrap(r.db.WithContext(ctx).Delete(&domain.CartItem{}, "id = ?", id).Error, "delete cart item")
}

func (r *cartRepo) DeleteByUser(ctx context.Context, userID string) error {
	return wrap(r.db.WithContext(ctx).Delete(&domain.CartItem{}, "user_id = ?", userID).Error, "clear cart")
}
