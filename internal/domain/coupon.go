package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type CouponType string

const (
	CouponPercentage CouponType = "PERCENTAGE"
	CouponFixed      CouponType = "FIXED"
)

func (t CouponType) Valid() bool {
	return t == CouponPercentage || t == CouponFixed
}

type Coupon struct {
	ID          string           `json:"id" gorm:"primaryKey;size:36"`
	Code        string           `json:"code" gorm:"uniqueIndex;size:50;not null"`
	Description string           `json:"description,omitempty" gorm:"size:255"`
	Type        CouponType       `json:"type" gorm:"type:varchar(20);not null"`
	Value       decimal.Decimal  `json:"value" gorm:"type:decimal(16,2);not null"`
	MinPurchase *decimal.Decimal `json:"minPurchase,omitempty" gorm:"type:decimal(16,2)"`
	MaxDiscount *decimal.Decimal `json:"maxDiscount,omitempty" gorm:"type:decimal(16,2)"`
	StartDate   time.Time        `json:"startDate" gorm:"not null"`
	EndDate     time.Time        `json:"endDate" gorm:"not null"`
	UsageLimit  *int             `json:"usageLimit,omitempty"`
	UsedCount   int              `json:"usedCount" gorm:"not null"`
	IsActive    bool             `json:"isActive" gorm:"not null"`
	CreatedAt   time.Time        `json:"createdAt"`
	UpdatedAt   time.Time        `json:"updatedAt"`
}

// NormalizeCouponCode is applied on every write and lookup, codes are
// case-insensitive and stored uppercase.
func NormalizeCouponCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

var hundred = decimal.NewFromInt(100)

// Validate checks a coupon definition before it is stored.
func (c *Coupon) Validate() error {
	if c.Code == "" {
		return NewValidationError("coupon code is required")
	}
	if !c.Type.Valid() {
		return NewValidationError("coupon type must be PERCENTAGE or FIXED")
	}
	if !c.Value.IsPositive() {
		return NewValidationError("coupon value must be greater than zero")
	}
	if c.Type == CouponPercentage && c.Value.GreaterThan(hundred) {
		return NewValidationError("percentage coupon value cannot exceed 100")
	}
	if !c.EndDate.After(c.StartDate) {
		return NewValidationError("coupon end date must be after start date")
	}
	if c.UsageLimit != nil && *c.UsageLimit < 1 {
		return NewValidationError("coupon usage limit must be at least 1")
	}
	return nil
}

type CouponDiscount struct {
	Code     string          `json:"code"`
	Type     CouponType      `json:"type"`
	Value    decimal.Decimal `json:"value"`
	Discount decimal.Decimal `json:"discount"`
}

// EvaluateCoupon checks c against a cart subtotal at instant now and computes
// the discount. The first failing check wins: missing, inactive, not started,
// expired, quota used up. The discount never exceeds the subtotal.
// UsedCount is not touched.
func EvaluateCoupon(c *Coupon, subtotal decimal.Decimal, now time.Time) (*CouponDiscount, error) {
	if c == nil {
		return nil, ErrCouponNotFound
	}
	if !c.IsActive {
		return nil, ErrCouponInactive
	}
	if now.Before(c.StartDate) {
		return nil, ErrCouponNotStarted
	}
	if now.After(c.EndDate) {
		return nil, ErrCouponExpired
	}
	if c.UsageLimit != nil && c.UsedCount >= *c.UsageLimit {
		return nil, ErrCouponQuotaExceeded
	}
	if subtotal.IsNegative() {
		return nil, NewValidationError("subtotal cannot be negative")
	}
	if c.MinPurchase != nil && subtotal.LessThan(*c.MinPurchase) {
		return nil, ErrCouponMinPurchase
	}

	var discount decimal.Decimal
	switch c.Type {
	case CouponPercentage:
		discount = subtotal.Mul(c.Value).Div(hundred)
		if c.MaxDiscount != nil && discount.GreaterThan(*c.MaxDiscount) {
			discount = *c.MaxDiscount
		}
	case CouponFixed:
		discount = c.Value
	default:
		return nil, NewValidationError("unknown coupon type")
	}

	discount = decimal.Min(discount, subtotal).Round(2)

	return &CouponDiscount{
		Code:     c.Code,
		Type:     c.Type,
		Value:    c.Value,
		Discount: discount,
	}, nil
}
