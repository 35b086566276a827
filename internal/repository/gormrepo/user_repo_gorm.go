package gormrepo

import (
	"context"
	"strings"

	"chipset-komputer/internal/domain"

	"gorm.io/gorm"
)

type userRepo struct {
	db *gorm.DB
}

func (r *userRepo) Create(ctx context.Context, user *domain.User) error {
	ensureID(&user.ID)
	return wrap(r.db.WithContext(ctx).Create(user).Error, "create user")
}

func (r *userRepo) FindByID(ctx context.Context, id string) (*domain.User, error) {
	var u domain.User
	if err := r.db.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, wrap(err, "find user by id")
	}
	return &u, nil
}

func (r *userRepo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	var u domain.User
	if err := r.db.WithContext(ctx).First(&u, "email = ?", email).Error; err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, wrap(err, "find user by email")
	}
	return &u, nil
}

func (r *userRepo) List(ctx context.Context, filter domain.UserFilter, page domain.Page) ([]domain.User, int64, error) {
	q := r.db.WithContext(ctx).Model(&domain.User{})
	if filter.Role != "" {
		q = q.Where("role = ?", filter.Role)
	}
	if filter.Search != "" {
		like := "%" + strings.ToLower(filter.Search) + "%"
		q = q.Where("(LOWER(email) LIKE ? OR LOWER(name) LIKE ?)", like, like)
	}

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, wrap(err, "count users")
	}

	var out []domain.User
	if err := paginate(q, page.Offset(), page.Limit).Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, 0, wrap(err, "list users")
	}
	return out, total, nil
}

func (r *userRepo) Update(ctx context.Context, user *domain.User) error {
	return wrap(r.db.WithContext(ctx).Save(user).Error, "update user")
}
