package services

import (
	"context"
	"time"

	"chipset-komputer/internal/domain"
	"chipset-komputer/internal/repository"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

type CouponInput struct {
	Code        string
	Description string
	Type        domain.CouponType
	Value       decimal.Decimal
	MinPurchase *decimal.Decimal
	MaxDiscount *decimal.Decimal
	StartDate   time.Time
	EndDate     time.Time
	UsageLimit  *int
	IsActive    *bool
}

type CouponService struct {
	store repository.Store
	now   func() time.Time
}

func NewCouponService(store repository.Store) *CouponService {
	return &CouponService{store: store, now: time.Now}
}

// Verify previews the discount a code gives on subtotal. It never consumes
// the coupon.
func (s *CouponService) Verify(ctx context.Context, code string, subtotal decimal.Decimal) (*domain.CouponDiscount, error) {
	code = domain.NormalizeCouponCode(code)
	if code == "" {
		return nil, domain.NewValidationError("coupon code is required")
	}
	c, err := s.store.Coupons().FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	return domain.EvaluateCoupon(c, subtotal, s.now())
}

func (s *CouponService) List(ctx context.Context, page domain.Page) ([]domain.Coupon, domain.Pagination, error) {
	coupons, total, err := s.store.Coupons().List(ctx, page)
	if err != nil {
		return nil, domain.Pagination{}, err
	}
	if coupons == nil {
		coupons = []domain.Coupon{}
	}
	return coupons, page.Result(total), nil
}

func (s *CouponService) Get(ctx context.Context, id string) (*domain.Coupon, error) {
	c, err := s.store.Coupons().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrCouponNotFound
	}
	return c, nil
}

func (s *CouponService) Create(ctx context.Context, in CouponInput) (*domain.Coupon, error) {
	c := &domain.Coupon{IsActive: true}
	if err := s.apply(ctx, c, in); err != nil {
		return nil, err
	}
	if err := s.store.Coupons().Create(ctx, c); err != nil {
		if repository.IsDuplicate(err) {
			return nil, domain.ErrCouponCodeTaken
		}
		return nil, err
	}
	log.WithFields(log.Fields{"coupon_id": c.ID, "code": c.Code}).Info("coupon created")
	return c, nil
}

// Update replaces the definition. UsedCount is preserved.
func (s *CouponService) Update(ctx context.Context, id string, in CouponInput) (*domain.Coupon, error) {
	c, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.apply(ctx, c, in); err != nil {
		return nil, err
	}
	if err := s.store.Coupons().Update(ctx, c); err != nil {
		if repository.IsDuplicate(err) {
			return nil, domain.ErrCouponCodeTaken
		}
		return nil, err
	}
	return c, nil
}

func (s *CouponService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.store.Coupons().Delete(ctx, id)
}

func (s *CouponService) apply(ctx context.Context, c *domain.Coupon, in CouponInput) error {
	c.Code = domain.NormalizeCouponCode(in.Code)
	c.Description = in.Description
	c.Type = domain.CouponType(domain.NormalizeCouponCode(string(in.Type)))
	c.Value = in.Value
	c.MinPurchase = in.MinPurchase
	c.MaxDiscount = in.MaxDiscount
	c.StartDate = in.StartDate
	c.EndDate = in.EndDate
	c.UsageLimit = in.UsageLimit
	if in.IsActive != nil {
		c.IsActive = *in.IsActive
	}
	if err := c.Validate(); err != nil {
		return err
	}

	other, err := s.store.Coupons().FindByCode(ctx, c.Code)
	if err != nil {
		return err
	}
	if other != nil && other.ID != c.ID {
		return domain.ErrCouponCodeTaken
	}
	return nil
}
