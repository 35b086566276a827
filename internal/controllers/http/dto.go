package http

import (
	"strconv"
	"time"

	"chipset-komputer/internal/domain"
	"chipset-komputer/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Name     string `json:"name" binding:"required"`
	Phone    string `json:"phone"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type UpdateRoleRequest struct {
	Role domain.Role `json:"role" binding:"required"`
}

type AddToCartRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,min=1"`
}

type UpdateCartRequest struct {
	Quantity int `json:"quantity" binding:"required,min=1"`
}

type CheckoutRequest struct {
	ShippingAddress domain.ShippingAddress `json:"shippingAddress" binding:"required"`
	PaymentMethod   string                 `json:"paymentMethod" binding:"required"`
	CouponCode      string                 `json:"couponCode"`
	Notes           string                 `json:"notes"`
}

type UpdateOrderStatusRequest struct {
	Status domain.OrderStatus `json:"status" binding:"required"`
}

type UpdatePaymentStatusRequest struct {
	PaymentStatus domain.PaymentStatus `json:"paymentStatus" binding:"required"`
}

type VerifyCouponRequest struct {
	Code     string          `json:"code" binding:"required"`
	Subtotal decimal.Decimal `json:"subtotal"`
}

type CouponRequest struct {
	Code        string           `json:"code" binding:"required"`
	Description string           `json:"description"`
	Type        string           `json:"type" binding:"required"`
	Value       decimal.Decimal  `json:"value"`
	MinPurchase *decimal.Decimal `json:"minPurchase"`
	MaxDiscount *decimal.Decimal `json:"maxDiscount"`
	StartDate   time.Time        `json:"startDate" binding:"required"`
	EndDate     time.Time        `json:"endDate" binding:"required"`
	UsageLimit  *int             `json:"usageLimit"`
	IsActive    *bool            `json:"isActive"`
}

func (r CouponRequest) input() services.CouponInput {
	return services.CouponInput{
		Code:        r.Code,
		Description: r.Description,
		Type:        domain.CouponType(r.Type),
		Value:       r.Value,
		MinPurchase: r.MinPurchase,
		MaxDiscount: r.MaxDiscount,
		StartDate:   r.StartDate,
		EndDate:     r.EndDate,
		UsageLimit:  r.UsageLimit,
		IsActive:    r.IsActive,
	}
}

type CategoryRequest struct {
	Name        string  `json:"name" binding:"required"`
	Slug        string  `json:"slug"`
	Description string  `json:"description"`
	ImageURL    string  `json:"imageUrl"`
	ParentID    *string `json:"parentId"`
}

func (r CategoryRequest) input() services.CategoryInput {
	return services.CategoryInput{
		Name:        r.Name,
		Slug:        r.Slug,
		Description: r.Description,
		ImageURL:    r.ImageURL,
		ParentID:    r.ParentID,
	}
}

type ProductRequest struct {
	Name         string           `json:"name" binding:"required"`
	Slug         string           `json:"slug"`
	Description  string           `json:"description"`
	SKU          string           `json:"sku"`
	Brand        string           `json:"brand"`
	Price        decimal.Decimal  `json:"price"`
	ComparePrice *decimal.Decimal `json:"comparePrice"`
	Stock        int              `json:"stock" binding:"min=0"`
	Images       []string         `json:"images"`
	IsActive     *bool            `json:"isActive"`
	IsFeatured   bool             `json:"isFeatured"`
	CategoryID   string           `json:"categoryId" binding:"required"`
}

func (r ProductRequest) input() services.ProductInput {
	return services.ProductInput{
		Name:         r.Name,
		Slug:         r.Slug,
		Description:  r.Description,
		SKU:          r.SKU,
		Brand:        r.Brand,
		Price:        r.Price,
		ComparePrice: r.ComparePrice,
		Stock:        r.Stock,
		Images:       r.Images,
		IsActive:     r.IsActive,
		IsFeatured:   r.IsFeatured,
		CategoryID:   r.CategoryID,
	}
}

type ReviewRequest struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Title   string `json:"title"`
	Comment string `json:"comment"`
}

type ReviewApprovalRequest struct {
	IsApproved *bool `json:"isApproved" binding:"required"`
}

type EmailRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type StockNotificationRequest struct {
	ProductID string `json:"productId" binding:"required"`
}

// pageFromQuery reads page and limit; malformed values fall back to the
// defaults.
func pageFromQuery(c *gin.Context) domain.Page {
	page, _ := strconv.Atoi(c.Query("page"))
	limit, _ := strconv.Atoi(c.Query("limit"))
	return domain.NewPage(page, limit)
}

func decimalQuery(c *gin.Context, key string) (*decimal.Decimal, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, domain.NewValidationError(key + " must be a number")
	}
	return &d, nil
}
