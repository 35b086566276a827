package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var couponNow = time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)

func newCoupon(typ CouponType, value int64) *Coupon {
	return &Coupon{
		Code:      "PROMO",
		Type:      typ,
		Value:     decimal.NewFromInt(value),
		StartDate: couponNow.AddDate(0, 0, -7),
		EndDate:   couponNow.AddDate(0, 0, 7),
		IsActive:  true,
	}
}

func intPtr(n int) *int { return &n }

func decPtr(n int64) *decimal.Decimal {
	d := decimal.NewFromInt(n)
	return &d
}

func TestEvaluateCoupon_Discount(t *testing.T) {
	tests := []struct {
		name     string
		coupon   *Coupon
		subtotal int64
		expected string
	}{
		{name: "percentage", coupon: newCoupon(CouponPercentage, 10), subtotal: 100000, expected: "10000"},
		{name: "fixed clamped to subtotal", coupon: newCoupon(CouponFixed, 50000), subtotal: 30000, expected: "30000"},
		{name: "fixed below subtotal", coupon: newCoupon(CouponFixed, 50000), subtotal: 80000, expected: "50000"},
		{name: "hundred percent equals subtotal", coupon: newCoupon(CouponPercentage, 100), subtotal: 12345, expected: "12345"},
		{name: "zero subtotal", coupon: newCoupon(CouponFixed, 5000), subtotal: 0, expected: "0"},
		{
			name: "percentage capped by max discount",
			coupon: func() *Coupon {
				c := newCoupon(CouponPercentage, 50)
				c.MaxDiscount = decPtr(20000)
				return c
			}(),
			subtotal: 100000,
			expected: "20000",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := EvaluateCoupon(tt.coupon, decimal.NewFromInt(tt.subtotal), couponNow)

			require.NoError(t, err)
			assert.Equal(t, tt.expected, res.Discount.String())
			assert.True(t, res.Discount.LessThanOrEqual(decimal.NewFromInt(tt.subtotal)))
			assert.Equal(t, tt.coupon.Code, res.Code)
		})
	}
}

func TestEvaluateCoupon_Rejections(t *testing.T) {
	tests := []struct {
		name          string
		coupon        func() *Coupon
		now           time.Time
		expectedError error
	}{
		{name: "missing", coupon: func() *Coupon { return nil }, now: couponNow, expectedError: ErrCouponNotFound},
		{
			name: "inactive",
			coupon: func() *Coupon {
				c := newCoupon(CouponFixed, 1000)
				c.IsActive = false
				return c
			},
			now:           couponNow,
			expectedError: ErrCouponInactive,
		},
		{name: "before start", coupon: func() *Coupon { return newCoupon(CouponFixed, 1000) }, now: couponNow.AddDate(0, 0, -8), expectedError: ErrCouponNotStarted},
		{name: "after end", coupon: func() *Coupon { return newCoupon(CouponFixed, 1000) }, now: couponNow.AddDate(0, 0, 8), expectedError: ErrCouponExpired},
		{
			name: "quota used up",
			coupon: func() *Coupon {
				c := newCoupon(CouponFixed, 1000)
				c.UsageLimit = intPtr(3)
				c.UsedCount = 3
				return c
			},
			now:           couponNow,
			expectedError: ErrCouponQuotaExceeded,
		},
		{
			name: "inactive wins over expired",
			coupon: func() *Coupon {
				c := newCoupon(CouponFixed, 1000)
				c.IsActive = false
				return c
			},
			now:           couponNow.AddDate(1, 0, 0),
			expectedError: ErrCouponInactive,
		},
		{
			name: "below minimum purchase",
			coupon: func() *Coupon {
				c := newCoupon(CouponFixed, 1000)
				c.MinPurchase = decPtr(500000)
				return c
			},
			now:           couponNow,
			expectedError: ErrCouponMinPurchase,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := EvaluateCoupon(tt.coupon(), decimal.NewFromInt(100000), tt.now)

			assert.ErrorIs(t, err, tt.expectedError)
			assert.Nil(t, res)
		})
	}
}

func TestEvaluateCoupon_QuotaBoundary(t *testing.T) {
	c := newCoupon(CouponFixed, 1000)
	c.UsageLimit = intPtr(2)
	c.UsedCount = 1

	_, err := EvaluateCoupon(c, decimal.NewFromInt(5000), couponNow)
	require.NoError(t, err)
	assert.Equal(t, 1, c.UsedCount)

	c.UsedCount = 2
	_, err = EvaluateCoupon(c, decimal.NewFromInt(5000), couponNow)
	assert.ErrorIs(t, err, ErrCouponQuotaExceeded)
}

func TestCoupon_Validate(t *testing.T) {
	valid := newCoupon(CouponPercentage, 20)
	require.NoError(t, valid.Validate())

	tooMuch := newCoupon(CouponPercentage, 101)
	assert.Error(t, tooMuch.Validate())

	badType := newCoupon("BOGO", 5)
	assert.Error(t, badType.Validate())

	backwards := newCoupon(CouponFixed, 5)
	backwards.EndDate = backwards.StartDate
	assert.Error(t, backwards.Validate())

	assert.Equal(t, "SAVE10", NormalizeCouponCode("  save10 "))
}
