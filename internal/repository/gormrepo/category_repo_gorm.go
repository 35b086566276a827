package gormrepo

import (
	"context"

	"chipset-komputer/internal/domain"

	"gorm.io/gorm"
)

type categoryRepo struct {
	db *gorm.DB
}

func (r *categoryRepo) Create(ctx context.Context, c *domain.Category) error {
	ensureID(&c.ID)
	return wrap(r.db.WithContext(ctx).Create(c).Error, "create category")
}

func (r *categoryRepo) Update(ctx context.Context, c *domain.Category) error {
	return wrap(r.db.WithContext(ctx).Save(c).Error, "update category")
}

func (r *categoryRepo) Delete(ctx context.Context, id string) error {
	return wrap(r.db.WithContext(ctx).Delete(&domain.Category{}, "id = ?", id).Error, "delete category")
}

func (r *categoryRepo) FindByID(ctx context.Context, id string) (*domain.Category, error) {
	var c domain.Category
	if err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, wrap(err, "find category by id")
	}
	return &c, nil
}

func (r *categoryRepo) FindBySlug(ctx context.Context, slug string) (*domain.Category, error) {
	var c domain.Category
	if err := r.db.WithContext(ctx).First(&c, "slug = ?", slug).Error; err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, wrap(err, "find category by slug")
	}
	return &c, nil
}

func (r *categoryRepo) List(ctx context.Context) ([]domain.Category, error) {
	var out []domain.Category
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&out).Error; err != nil {
		return nil, wrap(err, "list categories")
	}
	return out, nil
}

func (r *categoryRepo) CountChildren(ctx context.Context, id string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.Category{}).Where("parent_id = ?", id).Count(&n).Error
	return n, wrap(err, "count child categories")
}
