package http

import (
	"strings"

	"chipset-komputer/internal/policy"
	"chipset-komputer/internal/services"

	"github.com/gin-gonic/gin"
)

type Services struct {
	Auth               *services.AuthService
	Users              *services.UserService
	Categories         *services.CategoryService
	Products           *services.ProductService
	Cart               *services.CartService
	Coupons            *services.CouponService
	Orders             *services.OrderService
	Reviews            *services.ReviewService
	Newsletter         *services.NewsletterService
	StockNotifications *services.StockNotificationService
	Uploads            *services.UploadService
}

type Options struct {
	SessionCookie string
	SecureCookie  bool
	// UploadDir is served under UploadBaseURL when the latter is a path.
	UploadDir     string
	UploadBaseURL string
}

type Handler struct {
	svc    Services
	policy *policy.Enforcer
	opts   Options
}

func NewHandler(svc Services, p *policy.Enforcer, opts Options) *Handler {
	return &Handler{svc: svc, policy: p, opts: opts}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	if strings.HasPrefix(h.opts.UploadBaseURL, "/") && h.opts.UploadDir != "" {
		r.Static(h.opts.UploadBaseURL, h.opts.UploadDir)
	}

	api := r.Group("/api")
	api.Use(Authenticate(h.svc.Auth, h.opts.SessionCookie))

	api.POST("/auth/register", h.Register)
	api.POST("/auth/login", h.Login)
	api.POST("/auth/logout", h.Logout)

	api.GET("/categories", h.ListCategoryTree)
	api.GET("/products", h.ListProducts)
	api.GET("/products/:slug", h.GetProduct)
	api.GET("/products/:slug/related", h.ListRelatedProducts)
	api.POST("/coupons/verify", h.VerifyCoupon)
	api.POST("/newsletter/subscribe", h.Subscribe)
	api.POST("/newsletter/unsubscribe", h.Unsubscribe)

	authed := api.Group("")
	authed.Use(RequireAuth())
	authed.GET("/auth/me", h.Me)

	authed.GET("/cart", h.GetCart)
	authed.POST("/cart", h.AddToCart)
	authed.PATCH("/cart/:id", h.UpdateCartItem)
	authed.DELETE("/cart/:id", h.RemoveCartItem)

	authed.POST("/orders", h.Checkout)
	authed.GET("/orders", h.ListMyOrders)
	authed.GET("/orders/:id", h.GetOrder)
	authed.GET("/orders/:id/track", h.TrackOrder)
	authed.POST("/orders/:id/cancel", h.CancelOrder)

	authed.POST("/products/:slug/reviews", h.CreateReview)

	authed.GET("/stock-notifications", h.ListStockNotifications)
	authed.POST("/stock-notifications", h.RequestStockNotification)
	authed.DELETE("/stock-notifications/:id", h.DeleteStockNotification)

	admin := authed.Group("")
	admin.Use(RequireAdmin(h.policy))
	admin.POST("/upload", h.Upload)

	admin.GET("/admin/users", h.AdminListUsers)
	admin.PATCH("/admin/users/:id/role", h.AdminUpdateUserRole)

	admin.GET("/admin/categories", h.AdminListCategories)
	admin.POST("/admin/categories", h.AdminCreateCategory)
	admin.PUT("/admin/categories/:id", h.AdminUpdateCategory)
	admin.DELETE("/admin/categories/:id", h.AdminDeleteCategory)

	admin.GET("/admin/products", h.AdminListProducts)
	admin.GET("/admin/products/:id", h.AdminGetProduct)
	admin.POST("/admin/products", h.AdminCreateProduct)
	admin.PUT("/admin/products/:id", h.AdminUpdateProduct)
	admin.DELETE("/admin/products/:id", h.AdminDeactivateProduct)

	admin.GET("/admin/coupons", h.AdminListCoupons)
	admin.GET("/admin/coupons/:id", h.AdminGetCoupon)
	admin.POST("/admin/coupons", h.AdminCreateCoupon)
	admin.PUT("/admin/coupons/:id", h.AdminUpdateCoupon)
	admin.DELETE("/admin/coupons/:id", h.AdminDeleteCoupon)

	admin.GET("/admin/reviews", h.AdminListReviews)
	admin.PUT("/admin/reviews/:id", h.AdminModerateReview)
	admin.DELETE("/admin/reviews/:id", h.AdminDeleteReview)

	admin.GET("/admin/orders", h.AdminListOrders)
	admin.GET("/admin/orders/:id", h.AdminGetOrder)
	admin.PATCH("/admin/orders/:id/status", h.AdminUpdateOrderStatus)
	admin.PATCH("/admin/orders/:id/payment-status", h.AdminUpdatePaymentStatus)
}
