package services

import (
	"context"

	"chipset-komputer/internal/domain"
	"chipset-komputer/internal/infra/cache"
	"chipset-komputer/internal/repository"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const RelatedProductsLimit = 4

// ProductQuery is the public listing filter. Category is a slug.
type ProductQuery struct {
	Category string
	Search   string
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
	Featured bool
	Sort     string
}

type ProductInput struct {
	Name         string
	Slug         string
	Description  string
	SKU          string
	Brand        string
	Price        decimal.Decimal
	ComparePrice *decimal.Decimal
	Stock        int
	Images       []string
	IsActive     *bool
	IsFeatured   bool
	CategoryID   string
}

type ProductService struct {
	store    repository.Store
	cache    *cache.Cache
	notifier *StockNotificationService
}

func NewProductService(store repository.Store, c *cache.Cache, notifier *StockNotificationService) *ProductService {
	return &ProductService{store: store, cache: c, notifier: notifier}
}

// List returns active products only. An unknown category slug yields an
// empty page.
func (s *ProductService) List(ctx context.Context, q ProductQuery, page domain.Page) ([]domain.Product, domain.Pagination, error) {
	filter := domain.ProductFilter{
		Search:       q.Search,
		MinPrice:     q.MinPrice,
		MaxPrice:     q.MaxPrice,
		FeaturedOnly: q.Featured,
		Sort:         q.Sort,
	}
	if q.Category != "" {
		c, err := s.store.Categories().FindBySlug(ctx, q.Category)
		if err != nil {
			return nil, domain.Pagination{}, err
		}
		if c == nil {
			return []domain.Product{}, page.Result(0), nil
		}
		filter.CategoryID = c.ID
	}
	return s.list(ctx, filter, page)
}

// AdminList includes inactive products.
func (s *ProductService) AdminList(ctx context.Context, q ProductQuery, page domain.Page) ([]domain.Product, domain.Pagination, error) {
	return s.list(ctx, domain.ProductFilter{Search: q.Search, Sort: q.Sort, IncludeInactive: true}, page)
}

func (s *ProductService) list(ctx context.Context, filter domain.ProductFilter, page domain.Page) ([]domain.Product, domain.Pagination, error) {
	products, total, err := s.store.Products().List(ctx, filter, page)
	if err != nil {
		return nil, domain.Pagination{}, err
	}
	if products == nil {
		products = []domain.Product{}
	}
	return products, page.Result(total), nil
}

func (s *ProductService) activeBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	p, err := s.store.Products().FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if p == nil || !p.IsActive {
		return nil, domain.ErrProductNotFound
	}
	return p, nil
}

// Detail loads the product page. Approved reviews, the rating average and
// related products are fetched concurrently. Only the newest page of reviews
// is embedded; ReviewCount and AverageRating cover all of them.
func (s *ProductService) Detail(ctx context.Context, slug string) (*domain.ProductDetail, error) {
	return cache.Remember(ctx, s.cache, cache.ProductKey(slug), func(ctx context.Context) (*domain.ProductDetail, error) {
		p, err := s.activeBySlug(ctx, slug)
		if err != nil {
			return nil, err
		}

		detail := &domain.ProductDetail{Product: p}
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			approved := true
			reviews, total, err := s.store.Reviews().List(gctx,
				domain.ReviewFilter{ProductID: p.ID, Approved: &approved},
				domain.NewPage(1, domain.MaxLimit))
			if err != nil {
				return err
			}
			if reviews == nil {
				reviews = []domain.Review{}
			}
			detail.Reviews = reviews
			detail.ReviewCount = int(total)
			return nil
		})
		g.Go(func() error {
			avg, err := s.store.Reviews().AverageRating(gctx, p.ID)
			if err != nil {
				return err
			}
			detail.AverageRating = avg
			return nil
		})
		g.Go(func() error {
			related, err := s.store.Products().ListRelated(gctx, p, RelatedProductsLimit)
			if err != nil {
				return err
			}
			if related == nil {
				related = []domain.Product{}
			}
			detail.Related = related
			return nil
		})
		if err := g.Wait(); err != nil {
			return nil, err
		}
		return detail, nil
	})
}

func (s *ProductService) Related(ctx context.Context, slug string) ([]domain.Product, error) {
	p, err := s.activeBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	related, err := s.store.Products().ListRelated(ctx, p, RelatedProductsLimit)
	if err != nil {
		return nil, err
	}
	if related == nil {
		related = []domain.Product{}
	}
	return related, nil
}

func (s *ProductService) Get(ctx context.Context, id string) (*domain.Product, error) {
	p, err := s.store.Products().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrProductNotFound
	}
	return p, nil
}

func (s *ProductService) Create(ctx context.Context, in ProductInput) (*domain.Product, error) {
	p := &domain.Product{IsActive: true}
	if err := s.apply(ctx, p, in); err != nil {
		return nil, err
	}
	if err := s.store.Products().Create(ctx, p); err != nil {
		if repository.IsDuplicate(err) {
			return nil, domain.ErrSlugTaken
		}
		return nil, err
	}
	log.WithFields(log.Fields{"product_id": p.ID, "slug": p.Slug}).Info("product created")
	return p, nil
}

// Update replaces the product fields. A restock from zero publishes the
// pending stock notifications.
func (s *ProductService) Update(ctx context.Context, id string, in ProductInput) (*domain.Product, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	oldSlug, oldStock := p.Slug, p.Stock

	if err := s.apply(ctx, p, in); err != nil {
		return nil, err
	}
	p.Category = nil
	if err := s.store.Products().Update(ctx, p); err != nil {
		if repository.IsDuplicate(err) {
			return nil, domain.ErrSlugTaken
		}
		return nil, err
	}
	s.cache.Invalidate(ctx, cache.ProductKey(oldSlug), cache.ProductKey(p.Slug))

	if oldStock == 0 && p.Stock > 0 && s.notifier != nil {
		if err := s.notifier.NotifyRestock(ctx, p); err != nil {
			log.WithError(err).WithField("product_id", p.ID).Error("failed to process restock notifications")
		}
	}
	return p, nil
}

// Deactivate hides the product from the storefront. Order history keeps
// referencing it.
func (s *ProductService) Deactivate(ctx context.Context, id string) error {
	p, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	p.IsActive = false
	p.Category = nil
	if err := s.store.Products().Update(ctx, p); err != nil {
		return err
	}
	s.cache.Invalidate(ctx, cache.ProductKey(p.Slug))
	log.WithField("product_id", id).Info("product deactivated")
	return nil
}

func (s *ProductService) apply(ctx context.Context, p *domain.Product, in ProductInput) error {
	if in.Name == "" {
		return domain.NewValidationError("product name is required")
	}
	if in.Price.IsNegative() {
		return domain.NewValidationError("price cannot be negative")
	}
	if in.Stock < 0 {
		return domain.NewValidationError("stock cannot be negative")
	}
	if in.CategoryID == "" {
		return domain.NewValidationError("category is required")
	}
	slug := domain.Slugify(in.Slug)
	if slug == "" {
		slug = domain.Slugify(in.Name)
	}

	other, err := s.store.Products().FindBySlug(ctx, slug)
	if err != nil {
		return err
	}
	if other != nil && other.ID != p.ID {
		return domain.ErrSlugTaken
	}
	category, err := s.store.Categories().FindByID(ctx, in.CategoryID)
	if err != nil {
		return err
	}
	if category == nil {
		return domain.NewValidationError("category not found")
	}

	p.Name = in.Name
	p.Slug = slug
	p.Description = in.Description
	p.SKU = in.SKU
	p.Brand = in.Brand
	p.Price = in.Price
	p.ComparePrice = in.ComparePrice
	p.Stock = in.Stock
	p.Images = in.Images
	if p.Images == nil {
		p.Images = []string{}
	}
	if in.IsActive != nil {
		p.IsActive = *in.IsActive
	}
	p.IsFeatured = in.IsFeatured
	p.CategoryID = in.CategoryID
	return nil
}
