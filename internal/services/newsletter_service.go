package services

import (
	"context"
	"time"

	"chipset-komputer/internal/domain"
	rabbit "chipset-komputer/internal/infra/rabbitmq"
	"chipset-komputer/internal/repository"

	"github.com/go-playground/validator/v10"
	log "github.com/sirupsen/logrus"
)

type NewsletterService struct {
	store     repository.Store
	publisher rabbit.PublisherInterface
	validate  *validator.Validate
	now       func() time.Time
}

func NewNewsletterService(store repository.Store, pub rabbit.PublisherInterface) *NewsletterService {
	return &NewsletterService{store: store, publisher: pub, validate: validator.New(), now: time.Now}
}

// Subscribe adds email to the list. It reports created=false when an
// earlier, unsubscribed entry was reactivated.
func (s *NewsletterService) Subscribe(ctx context.Context, email string) (created bool, err error) {
	email = normalizeEmail(email)
	if err := s.validate.Var(email, "required,email"); err != nil {
		return false, domain.NewValidationError("a valid email is required")
	}

	sub, err := s.store.Newsletter().FindByEmail(ctx, email)
	if err != nil {
		return false, err
	}
	now := s.now()

	switch {
	case sub != nil && sub.IsActive:
		return false, domain.ErrAlreadySubscribed
	case sub != nil:
		sub.IsActive = true
		sub.SubscribedAt = now
		sub.UnsubscribedAt = nil
		if err := s.store.Newsletter().Update(ctx, sub); err != nil {
			return false, err
		}
	default:
		sub = &domain.NewsletterSubscription{Email: email, IsActive: true, SubscribedAt: now}
		if err := s.store.Newsletter().Create(ctx, sub); err != nil {
			if repository.IsDuplicate(err) {
				return false, domain.ErrAlreadySubscribed
			}
			return false, err
		}
		created = true
	}

	log.WithFields(log.Fields{"email": email, "reactivated": !created}).Info("newsletter subscription")
	publishEvent(ctx, s.publisher, domain.EventNewsletterSubscribed, domain.NewsletterSubscribedEvent{
		Email:       email,
		Reactivated: !created,
	})
	return created, nil
}

// Unsubscribe deactivates the entry. Unsubscribing twice is not an error.
func (s *NewsletterService) Unsubscribe(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	if err := s.validate.Var(email, "required,email"); err != nil {
		return domain.NewValidationError("a valid email is required")
	}

	sub, err := s.store.Newsletter().FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	if sub == nil {
		return domain.ErrSubscriptionNotFound
	}
	if !sub.IsActive {
		return nil
	}

	now := s.now()
	sub.IsActive = false
	sub.UnsubscribedAt = &now
	return s.store.Newsletter().Update(ctx, sub)
}
