package services

import (
	"context"

	"chipset-komputer/internal/domain"
	"chipset-komputer/internal/infra/cache"
	"chipset-komputer/internal/repository"

	log "github.com/sirupsen/logrus"
)

type ReviewInput struct {
	Rating  int
	Title   string
	Comment string
}

type ReviewService struct {
	store repository.Store
	cache *cache.Cache
}

func NewReviewService(store repository.Store, c *cache.Cache) *ReviewService {
	return &ReviewService{store: store, cache: c}
}

// Create stores a review awaiting moderation. A user reviews a product once.
func (s *ReviewService) Create(ctx context.Context, user *domain.User, productSlug string, in ReviewInput) (*domain.Review, error) {
	if user == nil {
		return nil, domain.ErrUnauthenticated
	}
	if in.Rating < 1 || in.Rating > 5 {
		return nil, domain.ErrInvalidRating
	}

	p, err := s.store.Products().FindBySlug(ctx, productSlug)
	if err != nil {
		return nil, err
	}
	if p == nil || !p.IsActive {
		return nil, domain.ErrProductNotFound
	}

	existing, err := s.store.Reviews().FindByUserAndProduct(ctx, user.ID, p.ID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrReviewExists
	}

	rv := &domain.Review{
		UserID:    user.ID,
		ProductID: p.ID,
		Rating:    in.Rating,
		Title:     in.Title,
		Comment:   in.Comment,
	}
	if err := s.store.Reviews().Create(ctx, rv); err != nil {
		if repository.IsDuplicate(err) {
			return nil, domain.ErrReviewExists
		}
		return nil, err
	}
	return rv, nil
}

func (s *ReviewService) List(ctx context.Context, filter domain.ReviewFilter, page domain.Page) ([]domain.Review, domain.Pagination, error) {
	reviews, total, err := s.store.Reviews().List(ctx, filter, page)
	if err != nil {
		return nil, domain.Pagination{}, err
	}
	if reviews == nil {
		reviews = []domain.Review{}
	}
	return reviews, page.Result(total), nil
}

func (s *ReviewService) SetApproval(ctx context.Context, id string, approved bool) (*domain.Review, error) {
	rv, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	rv.IsApproved = approved
	if err := s.store.Reviews().Update(ctx, rv); err != nil {
		return nil, err
	}
	s.invalidateProduct(ctx, rv.ProductID)
	log.WithFields(log.Fields{"review_id": id, "approved": approved}).Info("review moderated")
	return rv, nil
}

func (s *ReviewService) Delete(ctx context.Context, id string) error {
	rv, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	if err := s.store.Reviews().Delete(ctx, id); err != nil {
		return err
	}
	s.invalidateProduct(ctx, rv.ProductID)
	return nil
}

func (s *ReviewService) find(ctx context.Context, id string) (*domain.Review, error) {
	rv, err := s.store.Reviews().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if rv == nil {
		return nil, domain.ErrReviewNotFound
	}
	return rv, nil
}

func (s *ReviewService) invalidateProduct(ctx context.Context, productID string) {
	p, err := s.store.Products().FindByID(ctx, productID)
	if err != nil || p == nil {
		return
	}
	s.cache.Invalidate(ctx, cache.ProductKey(p.Slug))
}
