package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"chipset-komputer/internal/domain"
	"chipset-komputer/internal/infra/cache"
	rabbit "chipset-komputer/internal/infra/rabbitmq"
	"chipset-komputer/internal/policy"
	"chipset-komputer/internal/repository"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	"gorm.io/datatypes"
)

type CheckoutInput struct {
	ShippingAddress domain.ShippingAddress
	PaymentMethod   string
	CouponCode      string
	Notes           string
}

type OrderService struct {
	store     repository.Store
	policy    *policy.Enforcer
	publisher rabbit.PublisherInterface
	cache     *cache.Cache
	now       func() time.Time
}

func NewOrderService(store repository.Store, p *policy.Enforcer, pub rabbit.PublisherInterface, c *cache.Cache) *OrderService {
	return &OrderService{store: store, policy: p, publisher: pub, cache: c, now: time.Now}
}

// Checkout turns the caller's cart into an order. Stock, coupon usage, the
// order and the emptied cart are written in one transaction; products are
// locked in id order.
func (u *OrderService) Checkout(ctx context.Context, user *domain.User, in CheckoutInput) (*domain.Order, error) {
	if user == nil {
		return nil, domain.ErrUnauthenticated
	}
	if in.PaymentMethod == "" {
		return nil, domain.NewValidationError("payment method is required")
	}

	var (
		order     *domain.Order
		staleKeys []string
	)
	err := u.store.WithinTx(ctx, func(tx repository.Store) error {
		items, err := tx.Carts().ListByUser(ctx, user.ID)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			return domain.ErrCartEmpty
		}
		sort.Slice(items, func(i, j int) bool { return items[i].ProductID < items[j].ProductID })

		now := u.now()
		order = &domain.Order{
			OrderNumber:     domain.NewOrderNumber(now),
			UserID:          user.ID,
			Status:          domain.StatusPending,
			PaymentStatus:   domain.PaymentPending,
			PaymentMethod:   in.PaymentMethod,
			ShippingAddress: datatypes.NewJSONType(in.ShippingAddress),
			Notes:           in.Notes,
		}

		subtotal := decimal.Zero
		for _, it := range items {
			p, err := tx.Products().FindByIDForUpdate(ctx, it.ProductID)
			if err != nil {
				return err
			}
			if p == nil || !p.IsActive {
				return domain.ErrProductNotFound
			}
			if it.Quantity > p.Stock {
				return domain.NewValidationError(fmt.Sprintf("insufficient stock for %s", p.Name))
			}

			line := p.Price.Mul(decimal.NewFromInt(int64(it.Quantity)))
			order.Items = append(order.Items, domain.OrderItem{
				ProductID:   p.ID,
				ProductName: p.Name,
				Price:       p.Price,
				Quantity:    it.Quantity,
				Subtotal:    line,
			})
			subtotal = subtotal.Add(line)
			staleKeys = append(staleKeys, cache.ProductKey(p.Slug))

			if err := tx.Products().UpdateStock(ctx, p.ID, p.Stock-it.Quantity); err != nil {
				return err
			}
		}

		discount := decimal.Zero
		if code := domain.NormalizeCouponCode(in.CouponCode); code != "" {
			c, err := tx.Coupons().FindByCodeForUpdate(ctx, code)
			if err != nil {
				return err
			}
			applied, err := domain.EvaluateCoupon(c, subtotal, now)
			if err != nil {
				return err
			}
			if err := tx.Coupons().IncrementUsage(ctx, c.ID); err != nil {
				return err
			}
			discount = applied.Discount
			order.CouponCode = &c.Code
		}

		order.Subtotal = subtotal
		order.Discount = discount
		order.ShippingCost = domain.ShippingCostFor(subtotal)
		order.Total = subtotal.Sub(discount).Add(order.ShippingCost)

		if err := tx.Orders().Save(ctx, order); err != nil {
			return err
		}
		return tx.Carts().DeleteByUser(ctx, user.ID)
	})
	if err != nil {
		return nil, err
	}
	// Cached product pages carry the stock level.
	u.cache.Invalidate(ctx, staleKeys...)

	log.WithFields(log.Fields{
		"order_id":     order.ID,
		"order_number": order.OrderNumber,
		"user_id":      user.ID,
		"total":        order.Total.String(),
	}).Info("order placed")

	publishEvent(ctx, u.publisher, domain.EventOrderCreated, domain.OrderCreatedEvent{
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		UserID:      order.UserID,
		Total:       order.Total,
		CreatedAt:   order.CreatedAt,
	})
	return order, nil
}

func (u *OrderService) ListMine(ctx context.Context, user *domain.User, page domain.Page) ([]domain.Order, domain.Pagination, error) {
	if user == nil {
		return nil, domain.Pagination{}, domain.ErrUnauthenticated
	}
	return u.List(ctx, domain.OrderFilter{UserID: user.ID}, page)
}

func (u *OrderService) List(ctx context.Context, filter domain.OrderFilter, page domain.Page) ([]domain.Order, domain.Pagination, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, domain.Pagination{}, domain.ErrInvalidStatus
	}
	orders, total, err := u.store.Orders().List(ctx, filter, page)
	if err != nil {
		return nil, domain.Pagination{}, err
	}
	if orders == nil {
		orders = []domain.Order{}
	}
	return orders, page.Result(total), nil
}

func (u *OrderService) find(ctx context.Context, st repository.Store, id string) (*domain.Order, error) {
	o, err := st.Orders().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, domain.ErrOrderNotFound
	}
	return o, nil
}

// Get returns an order to its owner or an admin. Anybody else gets
// ErrForbidden.
func (u *OrderService) Get(ctx context.Context, user *domain.User, id string) (*domain.Order, error) {
	o, err := u.find(ctx, u.store, id)
	if err != nil {
		return nil, err
	}
	if err := u.policy.Authorize(user, policy.Owned(policy.KindOrder, o.UserID), policy.ActionRead); err != nil {
		return nil, err
	}
	return o, nil
}

func (u *OrderService) Track(ctx context.Context, user *domain.User, id string) (domain.Timeline, error) {
	o, err := u.Get(ctx, user, id)
	if err != nil {
		return domain.Timeline{}, err
	}
	return domain.BuildTimeline(o), nil
}

// Cancel is the customer facing cancellation. It is subject to the same
// transition rules as an admin status change.
func (u *OrderService) Cancel(ctx context.Context, user *domain.User, id string) (*domain.Order, error) {
	return u.transition(ctx, id, domain.StatusCancelled, func(o *domain.Order) error {
		return u.policy.Authorize(user, policy.Owned(policy.KindOrder, o.UserID), policy.ActionCancel)
	})
}

// UpdateStatus is the admin status change.
func (u *OrderService) UpdateStatus(ctx context.Context, id string, next domain.OrderStatus) (*domain.Order, error) {
	if !next.Valid() {
		return nil, domain.ErrInvalidStatus
	}
	return u.transition(ctx, id, next, nil)
}

func (u *OrderService) transition(ctx context.Context, id string, next domain.OrderStatus, authorize func(*domain.Order) error) (*domain.Order, error) {
	var (
		order *domain.Order
		from  domain.OrderStatus
	)
	err := u.store.WithinTx(ctx, func(tx repository.Store) error {
		o, err := u.find(ctx, tx, id)
		if err != nil {
			return err
		}
		if authorize != nil {
			if err := authorize(o); err != nil {
				return err
			}
		}
		if !o.Status.CanTransitionTo(next) {
			return domain.ErrInvalidStatusTransition
		}
		from = o.Status
		o.Status = next
		if err := tx.Orders().Update(ctx, o); err != nil {
			return err
		}
		order = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{"order_id": id, "from": from, "to": next}).Info("order status changed")
	publishEvent(ctx, u.publisher, domain.EventOrderStatusChanged, domain.OrderStatusChangedEvent{
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		UserID:      order.UserID,
		From:        from,
		To:          next,
		ChangedAt:   order.UpdatedAt,
	})
	return order, nil
}

func (u *OrderService) UpdatePaymentStatus(ctx context.Context, id string, status domain.PaymentStatus) (*domain.Order, error) {
	if !status.Valid() {
		return nil, domain.ErrInvalidPaymentStatus
	}
	o, err := u.find(ctx, u.store, id)
	if err != nil {
		return nil, err
	}
	if o.PaymentStatus == status {
		return o, nil
	}
	o.PaymentStatus = status
	if err := u.store.Orders().Update(ctx, o); err != nil {
		return nil, err
	}
	log.WithFields(log.Fields{"order_id": id, "payment_status": status}).Info("payment status changed")
	return o, nil
}
