package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"chipset-komputer/internal/domain"
	"chipset-komputer/internal/infra/cache"
	"chipset-komputer/internal/mocks"
	"chipset-komputer/internal/policy"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

type memoryCacheStore struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemoryCache() *cache.Cache {
	return cache.New(&memoryCacheStore{data: make(map[string][]byte)}, time.Minute)
}

func (m *memoryCacheStore) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.data[key]
	if !ok {
		return nil, cache.ErrMiss
	}
	return b, nil
}

func (m *memoryCacheStore) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *memoryCacheStore) Delete(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.data, k)
	}
	return nil
}

func TestCategoryService_Tree(t *testing.T) {
	store := mocks.NewStore()
	store.CategoryRepo.On("List", mock.Anything).Return([]domain.Category{
		{ID: "c1", Name: "Components"},
		{ID: "c2", Name: "CPU", ParentID: strPtr("c1")},
		{ID: "c3", Name: "Accessories"},
	}, nil)
	svc := NewCategoryService(store, nil)

	tree, err := svc.Tree(context.Background())

	require.NoError(t, err)
	require.Len(t, tree, 2)
	assert.Equal(t, "Accessories", tree[0].Name)
	assert.Equal(t, "Components", tree[1].Name)
	require.Len(t, tree[1].Children, 1)
	assert.Equal(t, "CPU", tree[1].Children[0].Name)
}

func TestCategoryService_Update(t *testing.T) {
	tests := []struct {
		name          string
		input         CategoryInput
		setupMocks    func(*mocks.Store)
		expectedError error
	}{
		{
			name:  "parent is itself",
			input: CategoryInput{Name: "CPU", ParentID: strPtr("c2")},
			setupMocks: func(s *mocks.Store) {
				s.CategoryRepo.On("FindByID", mock.Anything, "c2").Return(&domain.Category{ID: "c2", Name: "CPU", Slug: "cpu"}, nil)
				s.CategoryRepo.On("FindBySlug", mock.Anything, "cpu").Return(&domain.Category{ID: "c2"}, nil)
			},
			expectedError: domain.ErrCategoryCycle,
		},
		{
			name:  "parent is a descendant",
			input: CategoryInput{Name: "Components", ParentID: strPtr("c2")},
			setupMocks: func(s *mocks.Store) {
				s.CategoryRepo.On("FindByID", mock.Anything, "c1").Return(&domain.Category{ID: "c1", Name: "Components", Slug: "components"}, nil)
				s.CategoryRepo.On("FindBySlug", mock.Anything, "components").Return(&domain.Category{ID: "c1"}, nil)
				s.CategoryRepo.On("FindByID", mock.Anything, "c2").Return(&domain.Category{ID: "c2", ParentID: strPtr("c1")}, nil)
				s.CategoryRepo.On("List", mock.Anything).Return([]domain.Category{
					{ID: "c1"},
					{ID: "c2", ParentID: strPtr("c1")},
				}, nil)
			},
			expectedError: domain.ErrCategoryCycle,
		},
		{
			name:  "missing parent",
			input: CategoryInput{Name: "CPU", ParentID: strPtr("ghost")},
			setupMocks: func(s *mocks.Store) {
				s.CategoryRepo.On("FindByID", mock.Anything, "c2").Return(&domain.Category{ID: "c2", Name: "CPU", Slug: "cpu"}, nil)
				s.CategoryRepo.On("FindBySlug", mock.Anything, "cpu").Return(&domain.Category{ID: "c2"}, nil)
				s.CategoryRepo.On("FindByID", mock.Anything, "ghost").Return(nil, nil)
			},
			expectedError: domain.ErrParentCategoryNotFound,
		},
		{
			name:  "slug used by another category",
			input: CategoryInput{Name: "CPU", Slug: "gpu"},
			setupMocks: func(s *mocks.Store) {
				s.CategoryRepo.On("FindByID", mock.Anything, "c2").Return(&domain.Category{ID: "c2", Name: "CPU", Slug: "cpu"}, nil)
				s.CategoryRepo.On("FindBySlug", mock.Anything, "gpu").Return(&domain.Category{ID: "c9"}, nil)
			},
			expectedError: domain.ErrSlugTaken,
		},
		{
			name:  "rename",
			input: CategoryInput{Name: "Processors"},
			setupMocks: func(s *mocks.Store) {
				s.CategoryRepo.On("FindByID", mock.Anything, "c2").Return(&domain.Category{ID: "c2", Name: "CPU", Slug: "cpu"}, nil)
				s.CategoryRepo.On("FindBySlug", mock.Anything, "processors").Return(nil, nil)
				s.CategoryRepo.On("Update", mock.Anything, mock.AnythingOfType("*domain.Category")).Return(nil)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := mocks.NewStore()
			tt.setupMocks(store)
			svc := NewCategoryService(store, nil)

			id := "c2"
			if tt.name == "parent is a descendant" {
				id = "c1"
			}
			c, err := svc.Update(context.Background(), id, tt.input)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				store.CategoryRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "processors", c.Slug)
		})
	}
}

func TestCategoryService_DeleteInUse(t *testing.T) {
	store := mocks.NewStore()
	store.CategoryRepo.On("FindByID", mock.Anything, "c1").Return(&domain.Category{ID: "c1"}, nil)
	store.CategoryRepo.On("CountChildren", mock.Anything, "c1").Return(int64(0), nil)
	store.ProductRepo.On("CountByCategory", mock.Anything, "c1").Return(int64(3), nil)
	svc := NewCategoryService(store, nil)

	err := svc.Delete(context.Background(), "c1")

	assert.ErrorIs(t, err, domain.ErrCategoryInUse)
	store.CategoryRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestProductService_List(t *testing.T) {
	t.Run("unknown category yields empty page", func(t *testing.T) {
		store := mocks.NewStore()
		store.CategoryRepo.On("FindBySlug", mock.Anything, "nothing").Return(nil, nil)
		svc := NewProductService(store, nil, nil)

		products, page, err := svc.List(context.Background(), ProductQuery{Category: "nothing"}, domain.NewPage(1, 10))

		require.NoError(t, err)
		assert.Empty(t, products)
		assert.Equal(t, int64(0), page.Total)
		store.ProductRepo.AssertNotCalled(t, "List", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("filters by category id and excludes inactive", func(t *testing.T) {
		store := mocks.NewStore()
		store.CategoryRepo.On("FindBySlug", mock.Anything, "cpu").Return(&domain.Category{ID: "c2"}, nil)
		store.ProductRepo.On("List", mock.Anything, mock.MatchedBy(func(f domain.ProductFilter) bool {
			return f.CategoryID == "c2" && !f.IncludeInactive && f.Sort == domain.SortPriceAsc
		}), domain.NewPage(2, 5)).Return([]domain.Product{*CreateTestProduct("p1", 100, 1)}, int64(6), nil)
		svc := NewProductService(store, nil, nil)

		products, page, err := svc.List(context.Background(), ProductQuery{Category: "cpu", Sort: domain.SortPriceAsc}, domain.NewPage(2, 5))

		require.NoError(t, err)
		assert.Len(t, products, 1)
		assert.Equal(t, 2, page.TotalPages)
	})
}

func TestProductService_Detail(t *testing.T) {
	store := mocks.NewStore()
	p := CreateTestProduct(TestProductID, 1000, 3)
	store.ProductRepo.On("FindBySlug", mock.Anything, p.Slug).Return(p, nil)
	store.ReviewRepo.On("List", mock.Anything, mock.MatchedBy(func(f domain.ReviewFilter) bool {
		return f.ProductID == TestProductID && f.Approved != nil && *f.Approved
	}), mock.Anything).Return([]domain.Review{{Rating: 5}, {Rating: 4}}, int64(2), nil)
	store.ReviewRepo.On("AverageRating", mock.Anything, TestProductID).Return(4.5, nil)
	store.ProductRepo.On("ListRelated", mock.Anything, p, RelatedProductsLimit).Return([]domain.Product{*CreateTestProduct("p2", 900, 1)}, nil)
	svc := NewProductService(store, nil, nil)

	detail, err := svc.Detail(context.Background(), p.Slug)

	require.NoError(t, err)
	assert.Equal(t, 2, detail.ReviewCount)
	assert.InDelta(t, 4.5, detail.AverageRating, 0.001)
	assert.Len(t, detail.Reviews, 2)
	assert.Len(t, detail.Related, 1)
}

func TestProductService_DetailCountsReviewsBeyondEmbeddedPage(t *testing.T) {
	store := mocks.NewStore()
	p := CreateTestProduct(TestProductID, 1000, 3)
	page := make([]domain.Review, domain.MaxLimit)
	for i := range page {
		page[i] = domain.Review{Rating: 5}
	}
	store.ProductRepo.On("FindBySlug", mock.Anything, p.Slug).Return(p, nil)
	store.ReviewRepo.On("List", mock.Anything, mock.Anything, domain.NewPage(1, domain.MaxLimit)).Return(page, int64(150), nil)
	store.ReviewRepo.On("AverageRating", mock.Anything, TestProductID).Return(3.8, nil)
	store.ProductRepo.On("ListRelated", mock.Anything, p, RelatedProductsLimit).Return([]domain.Product{}, nil)
	svc := NewProductService(store, nil, nil)

	detail, err := svc.Detail(context.Background(), p.Slug)

	require.NoError(t, err)
	assert.Len(t, detail.Reviews, domain.MaxLimit)
	assert.Equal(t, 150, detail.ReviewCount)
	assert.InDelta(t, 3.8, detail.AverageRating, 0.001)
}

func TestProductService_DetailAverageError(t *testing.T) {
	store := mocks.NewStore()
	p := CreateTestProduct(TestProductID, 1000, 3)
	store.ProductRepo.On("FindBySlug", mock.Anything, p.Slug).Return(p, nil)
	store.ReviewRepo.On("List", mock.Anything, mock.Anything, mock.Anything).Return([]domain.Review{}, int64(0), nil)
	store.ReviewRepo.On("AverageRating", mock.Anything, TestProductID).Return(0.0, errors.New("db down"))
	store.ProductRepo.On("ListRelated", mock.Anything, p, RelatedProductsLimit).Return([]domain.Product{}, nil)
	svc := NewProductService(store, nil, nil)

	_, err := svc.Detail(context.Background(), p.Slug)

	assert.EqualError(t, err, "db down")
}

func TestProductService_DetailInactive(t *testing.T) {
	store := mocks.NewStore()
	p := CreateTestProduct(TestProductID, 1000, 3)
	p.IsActive = false
	store.ProductRepo.On("FindBySlug", mock.Anything, p.Slug).Return(p, nil)
	svc := NewProductService(store, nil, nil)

	_, err := svc.Detail(context.Background(), p.Slug)

	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func productInput(stock int) ProductInput {
	return ProductInput{
		Name:       "Ryzen 7 7800X3D",
		Price:      decimal.NewFromInt(6_500_000),
		Stock:      stock,
		CategoryID: "cat-1",
	}
}

func TestProductService_UpdateRestock(t *testing.T) {
	tests := []struct {
		name        string
		oldStock    int
		newStock    int
		publishErr  error
		wantPublish bool
		wantDelete  bool
	}{
		{name: "restock from zero notifies", oldStock: 0, newStock: 5, wantPublish: true, wantDelete: true},
		{name: "publish failure keeps requests", oldStock: 0, newStock: 5, publishErr: errors.New("broker down"), wantPublish: true},
		{name: "stock change above zero is silent", oldStock: 2, newStock: 5},
		{name: "still out of stock", oldStock: 0, newStock: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := mocks.NewStore()
			pub := new(mocks.MockPublisher)
			p := CreateTestProduct(TestProductID, 1000, tt.oldStock)
			p.Slug = "ryzen-7-7800x3d"

			store.ProductRepo.On("FindByID", mock.Anything, TestProductID).Return(p, nil)
			store.ProductRepo.On("FindBySlug", mock.Anything, "ryzen-7-7800x3d").Return(p, nil)
			store.CategoryRepo.On("FindByID", mock.Anything, "cat-1").Return(&domain.Category{ID: "cat-1"}, nil)
			store.ProductRepo.On("Update", mock.Anything, p).Return(nil)
			store.NotificationRepo.On("ListByProduct", mock.Anything, TestProductID).Return([]domain.StockNotification{
				{ID: "n1", Email: "a@example.com"},
				{ID: "n2", Email: "b@example.com"},
			}, nil).Maybe()
			pub.On("Publish", mock.Anything, domain.EventProductRestocked, mock.MatchedBy(func(e domain.ProductRestockedEvent) bool {
				return len(e.Recipients) == 2 && e.Stock == tt.newStock
			})).Return(tt.publishErr).Maybe()
			store.NotificationRepo.On("DeleteByProduct", mock.Anything, TestProductID).Return(nil).Maybe()

			notifier := NewStockNotificationService(store, policy.MustNewEnforcer(), pub)
			svc := NewProductService(store, nil, notifier)

			updated, err := svc.Update(context.Background(), TestProductID, productInput(tt.newStock))

			require.NoError(t, err)
			assert.Equal(t, tt.newStock, updated.Stock)
			if tt.wantPublish {
				pub.AssertNumberOfCalls(t, "Publish", 1)
			} else {
				pub.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything)
			}
			if tt.wantDelete {
				store.NotificationRepo.AssertCalled(t, "DeleteByProduct", mock.Anything, TestProductID)
			} else {
				store.NotificationRepo.AssertNotCalled(t, "DeleteByProduct", mock.Anything, mock.Anything)
			}
		})
	}
}

func TestProductService_CreateSlugTaken(t *testing.T) {
	store := mocks.NewStore()
	store.ProductRepo.On("FindBySlug", mock.Anything, "ryzen-7-7800x3d").Return(CreateTestProduct("other", 1, 1), nil)
	svc := NewProductService(store, nil, nil)

	_, err := svc.Create(context.Background(), productInput(1))

	assert.ErrorIs(t, err, domain.ErrSlugTaken)
	store.ProductRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestProductService_Deactivate(t *testing.T) {
	store := mocks.NewStore()
	p := CreateTestProduct(TestProductID, 1000, 3)
	store.ProductRepo.On("FindByID", mock.Anything, TestProductID).Return(p, nil)
	store.ProductRepo.On("Update", mock.Anything, mock.MatchedBy(func(p *domain.Product) bool { return !p.IsActive })).Return(nil)
	svc := NewProductService(store, nil, nil)

	require.NoError(t, svc.Deactivate(context.Background(), TestProductID))
	store.ProductRepo.AssertExpectations(t)
}
