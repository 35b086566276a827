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

func TestStockNotificationService_Request(t *testing.T) {
	user := CreateTestUser(TestUserID, domain.RoleCustomer)

	tests := []struct {
		name          string
		setupMocks    func(*mocks.Store)
		expectedError error
	}{
		{
			name: "out of stock product",
			setupMocks: func(s *mocks.Store) {
				s.ProductRepo.On("FindByID", mock.Anything, TestProductID).Return(CreateTestProduct(TestProductID, 1000, 0), nil)
				s.NotificationRepo.On("FindByUserAndProduct", mock.Anything, TestUserID, TestProductID).Return(nil, nil)
				s.NotificationRepo.On("Create", mock.Anything, mock.MatchedBy(func(n *domain.StockNotification) bool {
					return n.Email == user.Email && n.UserID == TestUserID
				})).Return(nil)
			},
		},
		{
			name: "product in stock",
			setupMocks: func(s *mocks.Store) {
				s.ProductRepo.On("FindByID", mock.Anything, TestProductID).Return(CreateTestProduct(TestProductID, 1000, 2), nil)
			},
			expectedError: domain.ErrProductInStock,
		},
		{
			name: "duplicate request",
			setupMocks: func(s *mocks.Store) {
				s.ProductRepo.On("FindByID", mock.Anything, TestProductID).Return(CreateTestProduct(TestProductID, 1000, 0), nil)
				s.NotificationRepo.On("FindByUserAndProduct", mock.Anything, TestUserID, TestProductID).Return(&domain.StockNotification{ID: "n1"}, nil)
			},
			expectedError: domain.ErrNotificationExists,
		},
		{
			name: "unknown product",
			setupMocks: func(s *mocks.Store) {
				s.ProductRepo.On("FindByID", mock.Anything, TestProductID).Return(nil, nil)
			},
			expectedError: domain.ErrProductNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := mocks.NewStore()
			tt.setupMocks(store)
			svc := NewStockNotificationService(store, policy.MustNewEnforcer(), nil)

			n, err := svc.Request(context.Background(), user, TestProductID)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				store.NotificationRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, TestProductID, n.ProductID)
		})
	}
}

func TestStockNotificationService_DeleteOwnership(t *testing.T) {
	store := mocks.NewStore()
	store.NotificationRepo.On("FindByID", mock.Anything, "n1").Return(&domain.StockNotification{ID: "n1", UserID: TestUserID}, nil)
	store.NotificationRepo.On("Delete", mock.Anything, "n1").Return(nil)
	svc := NewStockNotificationService(store, policy.MustNewEnforcer(), nil)
	ctx := context.Background()

	err := svc.Delete(ctx, CreateTestUser(TestOtherID, domain.RoleCustomer), "n1")
	assert.ErrorIs(t, err, domain.ErrNotificationNotFound)
	store.NotificationRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)

	require.NoError(t, svc.Delete(ctx, CreateTestUser(TestUserID, domain.RoleCustomer), "n1"))
	store.NotificationRepo.AssertCalled(t, "Delete", mock.Anything, "n1")
}
