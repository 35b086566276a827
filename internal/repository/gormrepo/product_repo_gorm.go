package gormrepo

import (
	"context"
	"strings"

	"chipset-komputer/internal/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type productRepo struct {
	db *gorm.DB
}

func (r *productRepo) Create(ctx context.Context, p *domain.Product) error {
	ensureID(&p.ID)
	return wrap(r.db.WithContext(ctx).Omit(clause.Associations).Create(p).Error, "create product")
}

func (r *productRepo) Update(ctx context.Context, p *domain.Product) error {
	return wrap(r.db.WithContext(ctx).Omit(clause.Associations).Save(p).Error, "update product")
}

func (r *productRepo) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	return r.first(r.db.WithContext(ctx).Preload("Category"), "id = ?", id)
}

func (r *productRepo) FindByIDForUpdate(ctx context.Context, id string) (*domain.Product, error) {
	q := r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"})
	return r.first(q, "id = ?", id)
}

func (r *productRepo) FindBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	return r.first(r.db.WithContext(ctx).Preload("Category"), "slug = ?", slug)
}

func (r *productRepo) first(q *gorm.DB, cond string, arg interface{}) (*domain.Product, error) {
	var p domain.Product
	if err := q.First(&p, cond, arg).Error; err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, wrap(err, "find product")
	}
	return &p, nil
}

func (r *productRepo) List(ctx context.Context, filter domain.ProductFilter, page domain.Page) ([]domain.Product, int64, error) {
	q := r.db.WithContext(ctx).Model(&domain.Product{})
	if !filter.IncludeInactive {
		q = q.Where("is_active = ?", true)
	}
	if filter.CategoryID != "" {
		q = q.Where("category_id = ?", filter.CategoryID)
	}
	if filter.Search != "" {
		like := "%" + strings.ToLower(filter.Search) + "%"
		q = q.Where("(LOWER(name) LIKE ? OR LOWER(brand) LIKE ?)", like, like)
	}
	if filter.MinPrice != nil {
		q = q.Where("price >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		q = q.Where("price <= ?", *filter.MaxPrice)
	}
	if filter.FeaturedOnly {
		q = q.Where("is_featured = ?", true)
	}

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, wrap(err, "count products")
	}

	var out []domain.Product
	err := paginate(q, page.Offset(), page.Limit).
		Preload("Category").
		Order(productOrder(filter.Sort)).
		Find(&out).Error
	if err != nil {
		return nil, 0, wrap(err, "list products")
	}
	return out, total, nil
}

func productOrder(sort string) string {
	switch sort {
	case domain.SortPriceAsc:
		return "price ASC"
	case domain.SortPriceDesc:
		return "price DESC"
	case domain.SortName:
		return "name ASC"
	}
	return "created_at DESC"
}

func (r *productRepo) ListRelated(ctx context.Context, p *domain.Product, limit int) ([]domain.Product, error) {
	var out []domain.Product
	err := r.db.WithContext(ctx).
		Where("category_id = ? AND id <> ? AND is_active = ?", p.CategoryID, p.ID, true).
		Order("created_at DESC").
		Limit(limit).
		Find(&out).Error
	if err != nil {
		return nil, wrap(err, "list related products")
	}
	return out, nil
}

func (r *productRepo) CountByCategory(ctx context.Context, categoryID string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.Product{}).Where("category_id = ?", categoryID).Count(&n).Error
	return n, wrap(err, "count products by category")
}

func (r *productRepo) UpdateStock(ctx context.Context, id string, stock int) error {
	err := r.db.WithContext(ctx).Model(&domain.Product{}).Where("id = ?", id).Update("stock", stock).Error
	return wrap(err, "update product stock")
}
