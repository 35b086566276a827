package services

import (
	"context"

	"chipset-komputer/internal/domain"
	"chipset-komputer/internal/infra/cache"
	"chipset-komputer/internal/repository"

	log "github.com/sirupsen/logrus"
)

type CategoryInput struct {
	Name        string
	Slug        string
	Description string
	ImageURL    string
	ParentID    *string
}

type CategoryService struct {
	store repository.Store
	cache *cache.Cache
}

func NewCategoryService(store repository.Store, c *cache.Cache) *CategoryService {
	return &CategoryService{store: store, cache: c}
}

// Tree returns root categories with their descendants nested.
func (s *CategoryService) Tree(ctx context.Context) ([]*domain.Category, error) {
	return cache.Remember(ctx, s.cache, cache.CategoryTreeKey, func(ctx context.Context) ([]*domain.Category, error) {
		flat, err := s.store.Categories().List(ctx)
		if err != nil {
			return nil, err
		}
		tree := domain.BuildCategoryTree(flat)
		if tree == nil {
			tree = []*domain.Category{}
		}
		return tree, nil
	})
}

func (s *CategoryService) List(ctx context.Context) ([]domain.Category, error) {
	return s.store.Categories().List(ctx)
}

func (s *CategoryService) Create(ctx context.Context, in CategoryInput) (*domain.Category, error) {
	c := &domain.Category{}
	if err := s.apply(ctx, c, in); err != nil {
		return nil, err
	}
	if err := s.store.Categories().Create(ctx, c); err != nil {
		if repository.IsDuplicate(err) {
			return nil, domain.ErrSlugTaken
		}
		return nil, err
	}

	s.cache.Invalidate(ctx, cache.CategoryTreeKey)
	log.WithFields(log.Fields{"category_id": c.ID, "slug": c.Slug}).Info("category created")
	return c, nil
}

func (s *CategoryService) Update(ctx context.Context, id string, in CategoryInput) (*domain.Category, error) {
	c, err := s.store.Categories().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrCategoryNotFound
	}
	if err := s.apply(ctx, c, in); err != nil {
		return nil, err
	}
	if err := s.store.Categories().Update(ctx, c); err != nil {
		if repository.IsDuplicate(err) {
			return nil, domain.ErrSlugTaken
		}
		return nil, err
	}

	s.cache.Invalidate(ctx, cache.CategoryTreeKey)
	return c, nil
}

// apply validates in against the stored categories and copies it onto c.
// c.ID is empty for a category that does not exist yet.
func (s *CategoryService) apply(ctx context.Context, c *domain.Category, in CategoryInput) error {
	if in.Name == "" {
		return domain.NewValidationError("category name is required")
	}
	slug := domain.Slugify(in.Slug)
	if slug == "" {
		slug = domain.Slugify(in.Name)
	}
	if slug == "" {
		return domain.NewValidationError("category slug is required")
	}

	other, err := s.store.Categories().FindBySlug(ctx, slug)
	if err != nil {
		return err
	}
	if other != nil && other.ID != c.ID {
		return domain.ErrSlugTaken
	}

	var parentID *string
	if in.ParentID != nil && *in.ParentID != "" {
		pid := *in.ParentID
		if c.ID != "" && pid == c.ID {
			return domain.ErrCategoryCycle
		}
		parent, err := s.store.Categories().FindByID(ctx, pid)
		if err != nil {
			return err
		}
		if parent == nil {
			return domain.ErrParentCategoryNotFound
		}
		if c.ID != "" {
			all, err := s.store.Categories().List(ctx)
			if err != nil {
				return err
			}
			if domain.WouldCreateCycle(all, c.ID, pid) {
				return domain.ErrCategoryCycle
			}
		}
		parentID = &pid
	}

	c.Name = in.Name
	c.Slug = slug
	c.Description = in.Description
	c.ImageURL = in.ImageURL
	c.ParentID = parentID
	return nil
}

// Delete refuses while subcategories or products still reference the
// category.
func (s *CategoryService) Delete(ctx context.Context, id string) error {
	c, err := s.store.Categories().FindByID(ctx, id)
	if err != nil {
		return err
	}
	if c == nil {
		return domain.ErrCategoryNotFound
	}

	children, err := s.store.Categories().CountChildren(ctx, id)
	if err != nil {
		return err
	}
	products, err := s.store.Products().CountByCategory(ctx, id)
	if err != nil {
		return err
	}
	if children > 0 || products > 0 {
		return domain.ErrCategoryInUse
	}

	if err := s.store.Categories().Delete(ctx, id); err != nil {
		return err
	}
	s.cache.Invalidate(ctx, cache.CategoryTreeKey)
	log.WithField("category_id", id).Info("category deleted")
	return nil
}
