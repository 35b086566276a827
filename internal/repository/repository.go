// Package repository declares the persistence gateway. Finders return
// (nil, nil) when the row does not exist; callers decide what missing means.
package repository

import (
	"context"
	"errors"

	"chipset-komputer/internal/domain"
)

// ErrDuplicate is returned by writes that violate a unique key.
var ErrDuplicate = errors.New("duplicate key")

// Store groups the repositories over one database handle. WithinTx runs fn
// against a Store bound to a single transaction; returning an error rolls it
// back.
type Store interface {
	Users() UserRepository
	Categories() CategoryRepository
	Products() ProductRepository
	Carts() CartRepository
	Orders() OrderRepository
	Coupons() CouponRepository
	Reviews() ReviewRepository
	Newsletter() NewsletterRepository
	StockNotifications() StockNotificationRepository
	WithinTx(ctx context.Context, fn func(tx Store) error) error
}

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context, filter domain.UserFilter, page domain.Page) ([]domain.User, int64, error)
	Update(ctx context.Context, user *domain.User) error
}

type CategoryRepository interface {
	Create(ctx context.Context, category *domain.Category) error
	Update(ctx context.Context, category *domain.Category) error
	Delete(ctx context.Context, id string) error
	FindByID(ctx context.Context, id string) (*domain.Category, error)
	FindBySlug(ctx context.Context, slug string) (*domain.Category, error)
	List(ctx context.Context) ([]domain.Category, error)
	CountChildren(ctx context.Context, id string) (int64, error)
}

type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	Update(ctx context.Context, product *domain.Product) error
	FindByID(ctx context.Context, id string) (*domain.Product, error)
	// FindByIDForUpdate locks the product row until the surrounding
	// transaction ends.
	FindByIDForUpdate(ctx context.Context, id string) (*domain.Product, error)
	FindBySlug(ctx context.Context, slug string) (*domain.Product, error)
	List(ctx context.Context, filter domain.ProductFilter, page domain.Page) ([]domain.Product, int64, error)
	ListRelated(ctx context.Context, product *domain.Product, limit int) ([]domain.Product, error)
	CountByCategory(ctx context.Context, categoryID string) (int64, error)
	UpdateStock(ctx context.Context, id string, stock int) error
}

type CartRepository interface {
	Create(ctx context.Context, item *domain.CartItem) error
	FindByID(ctx context.Context, id string) (*domain.CartItem, error)
	FindByUserAndProduct(ctx context.Context, userID, productID string) (*domain.CartItem, error)
	ListByUser(ctx context.Context, userID string) ([]domain.CartItem, error)
	UpdateQuantity(ctx context.Context, id string, quantity int) error
	Delete(ctx context.Context, id string) error
	DeleteByUser(ctx context.Context, userID string) error
}

type CouponRepository interface {
	Create(ctx context.Context, coupon *domain.Coupon) error
	Update(ctx context.Context, coupon *domain.Coupon) error
	Delete(ctx context.Context, id string) error
	FindByID(ctx context.Context, id string) (*domain.Coupon, error)
	FindByCode(ctx context.Context, code string) (*domain.Coupon, error)
	FindByCodeForUpdate(ctx context.Context, code string) (*domain.Coupon, error)
	List(ctx context.Context, page domain.Page) ([]domain.Coupon, int64, error)
	IncrementUsage(ctx context.Context, id string) error
}

type ReviewRepository interface {
	Create(ctx context.Context, review *domain.Review) error
	Update(ctx context.Context, review *domain.Review) error
	Delete(ctx context.Context, id string) error
	FindByID(ctx context.Context, id string) (*domain.Review, error)
	FindByUserAndProduct(ctx context.Context, userID, productID string) (*domain.Review, error)
	List(ctx context.Context, filter domain.ReviewFilter, page domain.Page) ([]domain.Review, int64, error)
	// AverageRating is the mean rating over the product's approved reviews,
	// 0 when there are none.
	AverageRating(ctx context.Context, productID string) (float64, error)
}

type NewsletterRepository interface {
	Create(ctx context.Context, sub *domain.NewsletterSubscription) error
	Update(ctx context.Context, sub *domain.NewsletterSubscription) error
	FindByEmail(ctx context.Context, email string) (*domain.NewsletterSubscription, error)
}

type StockNotificationRepository interface {
	Create(ctx context.Context, n *domain.StockNotification) error
	FindByID(ctx context.Context, id string) (*domain.StockNotification, error)
	FindByUserAndProduct(ctx context.Context, userID, productID string) (*domain.StockNotification, error)
	ListByUser(ctx context.Context, userID string) ([]domain.StockNotification, error)
	ListByProduct(ctx context.Context, productID string) ([]domain.StockNotification, error)
	Delete(ctx context.Context, id string) error
	DeleteByProduct(ctx context.Context, productID string) error
}

func IsDuplicate(err error) bool {
	return errors.Is(err, ErrDuplicate)
}
