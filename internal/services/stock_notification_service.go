package services

import (
	"context"

	"chipset-komputer/internal/domain"
	rabbit "chipset-komputer/internal/infra/rabbitmq"
	"chipset-komputer/internal/policy"
	"chipset-komputer/internal/repository"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

type StockNotificationService struct {
	store     repository.Store
	policy    *policy.Enforcer
	publisher rabbit.PublisherInterface
}

func NewStockNotificationService(store repository.Store, p *policy.Enforcer, pub rabbit.PublisherInterface) *StockNotificationService {
	return &StockNotificationService{store: store, policy: p, publisher: pub}
}

// Request registers the caller for a back-in-stock notice. Only out of
// stock products accept requests.
func (s *StockNotificationService) Request(ctx context.Context, user *domain.User, productID string) (*domain.StockNotification, error) {
	if user == nil {
		return nil, domain.ErrUnauthenticated
	}
	p, err := s.store.Products().FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrProductNotFound
	}
	if p.InStock() {
		return nil, domain.ErrProductInStock
	}

	existing, err := s.store.StockNotifications().FindByUserAndProduct(ctx, user.ID, productID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrNotificationExists
	}

	n := &domain.StockNotification{UserID: user.ID, ProductID: productID, Email: user.Email}
	if err := s.store.StockNotifications().Create(ctx, n); err != nil {
		if repository.IsDuplicate(err) {
			return nil, domain.ErrNotificationExists
		}
		return nil, err
	}
	n.Product = p
	return n, nil
}

func (s *StockNotificationService) ListMine(ctx context.Context, user *domain.User) ([]domain.StockNotification, error) {
	if user == nil {
		return nil, domain.ErrUnauthenticated
	}
	out, err := s.store.StockNotifications().ListByUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []domain.StockNotification{}
	}
	return out, nil
}

// Delete removes a request. Requests of other users look missing.
func (s *StockNotificationService) Delete(ctx context.Context, user *domain.User, id string) error {
	n, err := s.store.StockNotifications().FindByID(ctx, id)
	if err != nil {
		return err
	}
	if n == nil {
		return domain.ErrNotificationNotFound
	}
	ok, err := s.policy.Can(user, policy.Owned(policy.KindStockNotification, n.UserID), policy.ActionWrite)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrNotificationNotFound
	}
	return s.store.StockNotifications().Delete(ctx, id)
}

// NotifyRestock publishes one product.restocked event carrying every pending
// recipient and then drops the requests. Requests are kept when the event
// could not be published.
func (s *StockNotificationService) NotifyRestock(ctx context.Context, p *domain.Product) error {
	pending, err := s.store.StockNotifications().ListByProduct(ctx, p.ID)
	if err != nil {
		return err
	}
	if len(pending) == 0 {
		return nil
	}

	recipients := make([]string, 0, len(pending))
	for _, n := range pending {
		recipients = append(recipients, n.Email)
	}
	evt := domain.ProductRestockedEvent{
		ProductID:   p.ID,
		ProductName: p.Name,
		Slug:        p.Slug,
		Stock:       p.Stock,
		Recipients:  recipients,
	}
	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, domain.EventProductRestocked, evt); err != nil {
			return errors.Wrap(err, "publish restock")
		}
	}

	if err := s.store.StockNotifications().DeleteByProduct(ctx, p.ID); err != nil {
		return err
	}
	log.WithFields(log.Fields{"product_id": p.ID, "recipients": len(recipients)}).Info("restock notifications sent")
	return nil
}
