package services

import (
	"context"
	"testing"

	"chipset-komputer/internal/domain"
	"chipset-komputer/internal/mocks"
	"chipset-komputer/internal/policy"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCartService_Add(t *testing.T) {
	user := CreateTestUser(TestUserID, domain.RoleCustomer)

	tests := []struct {
		name          string
		qty           int
		setupMocks    func(*mocks.Store)
		expectedError error
		expectedQty   int
	}{
		{
			name: "new line",
			qty:  2,
			setupMocks: func(s *mocks.Store) {
				s.ProductRepo.On("FindByIDForUpdate", mock.Anything, TestProductID).Return(CreateTestProduct(TestProductID, 1000, 5), nil)
				s.CartRepo.On("FindByUserAndProduct", mock.Anything, TestUserID, TestProductID).Return(nil, nil)
				s.CartRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.CartItem")).Return(nil)
			},
			expectedQty: 2,
		},
		{
			name: "merges with existing line",
			qty:  2,
			setupMocks: func(s *mocks.Store) {
				s.ProductRepo.On("FindByIDForUpdate", mock.Anything, TestProductID).Return(CreateTestProduct(TestProductID, 1000, 5), nil)
				s.CartRepo.On("FindByUserAndProduct", mock.Anything, TestUserID, TestProductID).
					Return(&domain.CartItem{ID: "line-1", UserID: TestUserID, ProductID: TestProductID, Quantity: 3}, nil)
				s.CartRepo.On("UpdateQuantity", mock.Anything, "line-1", 5).Return(nil)
			},
			expectedQty: 5,
		},
		{
			name: "quantity above stock",
			qty:  6,
			setupMocks: func(s *mocks.Store) {
				s.ProductRepo.On("FindByIDForUpdate", mock.Anything, TestProductID).Return(CreateTestProduct(TestProductID, 1000, 5), nil)
				s.CartRepo.On("FindByUserAndProduct", mock.Anything, TestUserID, TestProductID).Return(nil, nil)
			},
			expectedError: domain.ErrInsufficientStock,
		},
		{
			name: "merged quantity above stock",
			qty:  3,
			setupMocks: func(s *mocks.Store) {
				s.ProductRepo.On("FindByIDForUpdate", mock.Anything, TestProductID).Return(CreateTestProduct(TestProductID, 1000, 5), nil)
				s.CartRepo.On("FindByUserAndProduct", mock.Anything, TestUserID, TestProductID).
					Return(&domain.CartItem{ID: "line-1", UserID: TestUserID, ProductID: TestProductID, Quantity: 3}, nil)
			},
			expectedError: domain.ErrInsufficientStock,
		},
		{
			name: "inactive product",
			qty:  1,
			setupMocks: func(s *mocks.Store) {
				p := CreateTestProduct(TestProductID, 1000, 5)
				p.IsActive = false
				s.ProductRepo.On("FindByIDForUpdate", mock.Anything, TestProductID).Return(p, nil)
			},
			expectedError: domain.ErrProductNotFound,
		},
		{
			name:          "zero quantity",
			qty:           0,
			setupMocks:    func(s *mocks.Store) {},
			expectedError: domain.ErrInvalidQuantity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := mocks.NewStore()
			tt.setupMocks(store)
			svc := NewCartService(store, policy.MustNewEnforcer())

			item, err := svc.Add(context.Background(), user, TestProductID, tt.qty)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, item)
				store.CartRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
				store.CartRepo.AssertNotCalled(t, "UpdateQuantity", mock.Anything, mock.Anything, mock.Anything)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.expectedQty, item.Quantity)
				assert.NotNil(t, item.Product)
			}
			store.ProductRepo.AssertExpectations(t)
			store.CartRepo.AssertExpectations(t)
		})
	}
}

func TestCartService_UpdateQuantityOwnership(t *testing.T) {
	store := mocks.NewStore()
	store.CartRepo.On("FindByID", mock.Anything, "line-1").
		Return(&domain.CartItem{ID: "line-1", UserID: TestOtherID, ProductID: TestProductID, Quantity: 1}, nil)
	svc := NewCartService(store, policy.MustNewEnforcer())

	_, err := svc.UpdateQuantity(context.Background(), CreateTestUser(TestUserID, domain.RoleCustomer), "line-1", 2)

	assert.ErrorIs(t, err, domain.ErrCartItemNotFound)
	store.CartRepo.AssertNotCalled(t, "UpdateQuantity", mock.Anything, mock.Anything, mock.Anything)
}

func TestCartService_UpdateQuantityAboveStock(t *testing.T) {
	store := mocks.NewStore()
	store.CartRepo.On("FindByID", mock.Anything, "line-1").
		Return(&domain.CartItem{ID: "line-1", UserID: TestUserID, ProductID: TestProductID, Quantity: 1}, nil)
	store.ProductRepo.On("FindByIDForUpdate", mock.Anything, TestProductID).Return(CreateTestProduct(TestProductID, 1000, 2), nil)
	svc := NewCartService(store, policy.MustNewEnforcer())

	_, err := svc.UpdateQuantity(context.Background(), CreateTestUser(TestUserID, domain.RoleCustomer), "line-1", 3)

	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
}

func TestCartService_Remove(t *testing.T) {
	store := mocks.NewStore()
	store.CartRepo.On("FindByID", mock.Anything, "line-1").
		Return(&domain.CartItem{ID: "line-1", UserID: TestUserID, ProductID: TestProductID, Quantity: 1}, nil)
	store.CartRepo.On("FindByID", mock.Anything, "missing").Return(nil, nil)
	store.CartRepo.On("Delete", mock.Anything, "line-1").Return(nil)
	svc := NewCartService(store, policy.MustNewEnforcer())
	ctx := context.Background()

	assert.NoError(t, svc.Remove(ctx, CreateTestUser(TestUserID, domain.RoleCustomer), "line-1"))
	assert.ErrorIs(t, svc.Remove(ctx, CreateTestUser(TestOtherID, domain.RoleCustomer), "line-1"), domain.ErrCartItemNotFound)
	assert.ErrorIs(t, svc.Remove(ctx, CreateTestUser(TestUserID, domain.RoleCustomer), "missing"), domain.ErrCartItemNotFound)
	store.CartRepo.AssertNumberOfCalls(t, "Delete", 1)
}

func TestCartService_List(t *testing.T) {
	store := mocks.NewStore()
	store.CartRepo.On("ListByUser", mock.Anything, TestUserID).Return([]domain.CartItem{
		{ID: "a", Quantity: 2, Product: CreateTestProduct("p1", 1500, 10)},
		{ID: "b", Quantity: 1, Product: CreateTestProduct("p2", 500, 10)},
	}, nil)
	svc := NewCartService(store, policy.MustNewEnforcer())

	cart, err := svc.List(context.Background(), CreateTestUser(TestUserID, domain.RoleCustomer))

	require.NoError(t, err)
	assert.Equal(t, 3, cart.ItemCount)
	assert.Equal(t, "3500", cart.Subtotal.String())
}
