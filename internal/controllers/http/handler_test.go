package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"chipset-komputer/internal/auth"
	"chipset-komputer/internal/domain"
	"chipset-komputer/internal/mocks"
	"chipset-komputer/internal/policy"
	"chipset-komputer/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var (
	customer = &domain.User{ID: "user-1", Email: "user-1@example.com", Role: domain.RoleCustomer}
	stranger = &domain.User{ID: "user-2", Email: "user-2@example.com", Role: domain.RoleCustomer}
	admin    = &domain.User{ID: "admin-1", Email: "admin@example.com", Role: domain.RoleAdmin}
)

type testServer struct {
	router   *gin.Engine
	store    *mocks.Store
	pub      *mocks.MockPublisher
	sessions *auth.SessionManager
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := mocks.NewStore()
	pub := new(mocks.MockPublisher)
	sessions := auth.NewSessionManager("handler-test-secret", time.Hour)
	enforcer := policy.MustNewEnforcer()
	notifier := services.NewStockNotificationService(store, enforcer, pub)

	for _, u := range []*domain.User{customer, stranger, admin} {
		store.UserRepo.On("FindByID", mock.Anything, u.ID).Return(u, nil).Maybe()
	}

	h := NewHandler(Services{
		Auth:               services.NewAuthService(store, sessions),
		Users:              services.NewUserService(store),
		Categories:         services.NewCategoryService(store, nil),
		Products:           services.NewProductService(store, nil, notifier),
		Cart:               services.NewCartService(store, enforcer),
		Coupons:            services.NewCouponService(store),
		Orders:             services.NewOrderService(store, enforcer, pub, nil),
		Reviews:            services.NewReviewService(store, nil),
		Newsletter:         services.NewNewsletterService(store, pub),
		StockNotifications: notifier,
		Uploads:            services.NewUploadService(t.TempDir(), "/uploads", 1<<20),
	}, enforcer, Options{SessionCookie: "session"})

	r := gin.New()
	h.RegisterRoutes(r)
	return &testServer{router: r, store: store, pub: pub, sessions: sessions}
}

func (s *testServer) do(t *testing.T, method, path string, as *domain.User, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if as != nil {
		token, _, err := s.sessions.Issue(as)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestTrackOrder(t *testing.T) {
	order := &domain.Order{
		ID:          "order-1",
		OrderNumber: "ORD-20261001-AAAAAAAA",
		UserID:      customer.ID,
		Status:      domain.StatusDelivered,
		CreatedAt:   time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC),
		UpdatedAt:   time.Date(2026, 10, 3, 0, 0, 0, 0, time.UTC),
	}

	tests := []struct {
		name           string
		as             *domain.User
		orderID        string
		expectedStatus int
	}{
		{name: "owner", as: customer, orderID: "order-1", expectedStatus: http.StatusOK},
		{name: "admin", as: admin, orderID: "order-1", expectedStatus: http.StatusOK},
		{name: "other customer", as: stranger, orderID: "order-1", expectedStatus: http.StatusForbidden},
		{name: "missing order", as: customer, orderID: "missing", expectedStatus: http.StatusNotFound},
		{name: "anonymous", as: nil, orderID: "order-1", expectedStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t)
			s.store.OrderRepo.On("FindByID", mock.Anything, "order-1").Return(order, nil).Maybe()
			s.store.OrderRepo.On("FindByID", mock.Anything, "missing").Return(nil, nil).Maybe()

			w := s.do(t, http.MethodGet, "/api/orders/"+tt.orderID+"/track", tt.as, nil)

			assert.Equal(t, tt.expectedStatus, w.Code)
			body := decodeBody(t, w)
			if tt.expectedStatus != http.StatusOK {
				assert.NotEmpty(t, body["error"])
				return
			}
			tracking := body["tracking"].(map[string]interface{})
			assert.Equal(t, order.OrderNumber, tracking["orderNumber"])
			assert.Equal(t, "2026-10-06T00:00:00Z", tracking["estimatedDelivery"])
			stages := tracking["timeline"].([]interface{})
			require.Len(t, stages, 4)
			assert.Nil(t, stages[1].(map[string]interface{})["date"])
			assert.Equal(t, "2026-10-03T00:00:00Z", stages[3].(map[string]interface{})["date"])
		})
	}
}

func TestAdminRoutesRequireAdmin(t *testing.T) {
	s := newTestServer(t)
	s.store.UserRepo.On("List", mock.Anything, mock.Anything, domain.NewPage(1, 10)).Return([]domain.User{*customer}, int64(1), nil)

	w := s.do(t, http.MethodGet, "/api/admin/users", customer, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(t, http.MethodGet, "/api/admin/users", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(t, http.MethodGet, "/api/admin/users", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Len(t, body["users"], 1)
	pagination := body["pagination"].(map[string]interface{})
	assert.Equal(t, float64(1), pagination["total"])
	assert.Equal(t, float64(1), pagination["totalPages"])
}

func TestAddToCart(t *testing.T) {
	product := &domain.Product{ID: "prod-1", Name: "RTX 4070", Price: decimal.NewFromInt(9_000_000), Stock: 2, IsActive: true}

	t.Run("insufficient stock", func(t *testing.T) {
		s := newTestServer(t)
		s.store.ProductRepo.On("FindByIDForUpdate", mock.Anything, "prod-1").Return(product, nil)
		s.store.CartRepo.On("FindByUserAndProduct", mock.Anything, customer.ID, "prod-1").Return(nil, nil)

		w := s.do(t, http.MethodPost, "/api/cart", customer, gin.H{"productId": "prod-1", "quantity": 3})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, domain.ErrInsufficientStock.Message, decodeBody(t, w)["error"])
		s.store.CartRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("adds line", func(t *testing.T) {
		s := newTestServer(t)
		s.store.ProductRepo.On("FindByIDForUpdate", mock.Anything, "prod-1").Return(product, nil)
		s.store.CartRepo.On("FindByUserAndProduct", mock.Anything, customer.ID, "prod-1").Return(nil, nil)
		s.store.CartRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.CartItem")).Return(nil)

		w := s.do(t, http.MethodPost, "/api/cart", customer, gin.H{"productId": "prod-1", "quantity": 2})

		require.Equal(t, http.StatusOK, w.Code)
		item := decodeBody(t, w)["cartItem"].(map[string]interface{})
		assert.Equal(t, float64(2), item["quantity"])
	})

	t.Run("requires login", func(t *testing.T) {
		s := newTestServer(t)
		w := s.do(t, http.MethodPost, "/api/cart", nil, gin.H{"productId": "prod-1", "quantity": 1})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestUpdateCartItemOfAnotherUser(t *testing.T) {
	s := newTestServer(t)
	s.store.CartRepo.On("FindByID", mock.Anything, "line-1").
		Return(&domain.CartItem{ID: "line-1", UserID: stranger.ID, ProductID: "prod-1", Quantity: 1}, nil)

	w := s.do(t, http.MethodPatch, "/api/cart/line-1", customer, gin.H{"quantity": 2})

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestVerifyCoupon(t *testing.T) {
	s := newTestServer(t)
	s.store.CouponRepo.On("FindByCode", mock.Anything, "FLAT50K").Return(&domain.Coupon{
		ID:        "c1",
		Code:      "FLAT50K",
		Type:      domain.CouponFixed,
		Value:     decimal.NewFromInt(50000),
		StartDate: time.Now().Add(-time.Hour),
		EndDate:   time.Now().Add(time.Hour),
		IsActive:  true,
	}, nil)
	s.store.CouponRepo.On("FindByCode", mock.Anything, "GONE").Return(nil, nil)

	w := s.do(t, http.MethodPost, "/api/coupons/verify", nil, gin.H{"code": "flat50k", "subtotal": 30000})
	require.Equal(t, http.StatusOK, w.Code)
	coupon := decodeBody(t, w)["coupon"].(map[string]interface{})
	assert.Equal(t, "FLAT50K", coupon["code"])
	assert.Equal(t, "30000", coupon["discount"])

	w = s.do(t, http.MethodPost, "/api/coupons/verify", nil, gin.H{"code": "gone", "subtotal": 30000})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestNewsletterSubscribe(t *testing.T) {
	t.Run("new subscription", func(t *testing.T) {
		s := newTestServer(t)
		s.store.NewsletterRepo.On("FindByEmail", mock.Anything, "rina@example.com").Return(nil, nil)
		s.store.NewsletterRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
		s.pub.On("Publish", mock.Anything, domain.EventNewsletterSubscribed, mock.Anything).Return(nil)

		w := s.do(t, http.MethodPost, "/api/newsletter/subscribe", nil, gin.H{"email": "rina@example.com"})
		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("reactivation", func(t *testing.T) {
		s := newTestServer(t)
		s.store.NewsletterRepo.On("FindByEmail", mock.Anything, "rina@example.com").
			Return(&domain.NewsletterSubscription{ID: "s1", Email: "rina@example.com"}, nil)
		s.store.NewsletterRepo.On("Update", mock.Anything, mock.Anything).Return(nil)
		s.pub.On("Publish", mock.Anything, domain.EventNewsletterSubscribed, mock.Anything).Return(nil)

		w := s.do(t, http.MethodPost, "/api/newsletter/subscribe", nil, gin.H{"email": "rina@example.com"})
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "subscription reactivated", decodeBody(t, w)["message"])
	})

	t.Run("already subscribed", func(t *testing.T) {
		s := newTestServer(t)
		s.store.NewsletterRepo.On("FindByEmail", mock.Anything, "rina@example.com").
			Return(&domain.NewsletterSubscription{ID: "s1", Email: "rina@example.com", IsActive: true}, nil)

		w := s.do(t, http.MethodPost, "/api/newsletter/subscribe", nil, gin.H{"email": "rina@example.com"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("invalid email", func(t *testing.T) {
		s := newTestServer(t)
		w := s.do(t, http.MethodPost, "/api/newsletter/subscribe", nil, gin.H{"email": "nope"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestStockNotificationRequest(t *testing.T) {
	s := newTestServer(t)
	s.store.ProductRepo.On("FindByID", mock.Anything, "in-stock").
		Return(&domain.Product{ID: "in-stock", Stock: 3, IsActive: true}, nil)
	s.store.ProductRepo.On("FindByID", mock.Anything, "ghost").Return(nil, nil)
	s.store.ProductRepo.On("FindByID", mock.Anything, "sold-out").
		Return(&domain.Product{ID: "sold-out", Stock: 0, IsActive: true}, nil)
	s.store.NotificationRepo.On("FindByUserAndProduct", mock.Anything, customer.ID, "sold-out").Return(nil, nil)
	s.store.NotificationRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

	w := s.do(t, http.MethodPost, "/api/stock-notifications", customer, gin.H{"productId": "in-stock"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodPost, "/api/stock-notifications", customer, gin.H{"productId": "ghost"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(t, http.MethodPost, "/api/stock-notifications", customer, gin.H{"productId": "sold-out"})
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestUploadWithoutFile(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/api/upload", admin, nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, domain.ErrNoFile.Message, decodeBody(t, w)["error"])
}

func TestLoginSetsCookie(t *testing.T) {
	s := newTestServer(t)
	s.store.UserRepo.On("FindByEmail", mock.Anything, "ghost@example.com").Return(nil, nil)

	w := s.do(t, http.MethodPost, "/api/auth/login", nil, gin.H{"email": "ghost@example.com", "password": "whatever1"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Empty(t, w.Result().Cookies())

	w = s.do(t, http.MethodPost, "/api/auth/logout", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "session", cookies[0].Name)
	assert.True(t, cookies[0].MaxAge < 0)
}

func TestMe(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/api/auth/me", customer, nil)

	require.Equal(t, http.StatusOK, w.Code)
	user := decodeBody(t, w)["user"].(map[string]interface{})
	assert.Equal(t, customer.ID, user["id"])
	assert.NotContains(t, user, "passwordHash")
}
