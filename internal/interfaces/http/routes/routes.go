package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/haritfarms/storefront-backend/internal/config"
	"github.com/haritfarms/storefront-backend/internal/domain/analytics"
	"github.com/haritfarms/storefront-backend/internal/domain/booking"
	"github.com/haritfarms/storefront-backend/internal/domain/cart"
	"github.com/haritfarms/storefront-backend/internal/domain/checkout"
	"github.com/haritfarms/storefront-backend/internal/domain/coupon"
	"github.com/haritfarms/storefront-backend/internal/domain/order"
	"github.com/haritfarms/storefront-backend/internal/domain/payment"
	"github.com/haritfarms/storefront-backend/internal/domain/product"
	"github.com/haritfarms/storefront-backend/internal/domain/user"
	"github.com/haritfarms/storefront-backend/internal/domain/wishlist"
	"github.com/haritfarms/storefront-backend/internal/interfaces/http/handlers"
	"github.com/haritfarms/storefront-backend/internal/interfaces/http/middleware"
	"github.com/haritfarms/storefront-backend/internal/pkg/email"
	"github.com/haritfarms/storefront-backend/internal/pkg/pdf"
)

// SetupRoutes wires all services and registers every API route under the
// given router group. Services are built once here because several of them
// depend on each other (orders need checkout, checkout needs cart and coupon).
func SetupRoutes(rg *gin.RouterGroup, db *gorm.DB, redisClient *redis.Client, cfg *config.Config, log *logrus.Logger) {
	// Shared infrastructure services
	emailService := email.NewService(cfg, log)
	pdfService := pdf.NewService(cfg)

	// Domain services
	userService := user.NewService(db, cfg, emailService)
	addressService := user.NewAddressService(db, cfg)
	adminUserService := user.NewAdminService(db, cfg)
	productService := product.NewService(db, cfg)
	categoryService := product.NewCategoryService(db, cfg)
	reviewService := product.NewReviewService(db, cfg, log, emailService)
	cartService := cart.NewService(db, cfg)
	wishlistService := wishlist.NewService(db)
	couponService := coupon.NewService(db, redisClient, cfg)
	checkoutService := checkout.NewService(db, cfg, cartService, couponService)
	orderService := order.NewService(db, cfg, log, emailService, cartService, checkoutService, couponService)
	paymentService := payment.NewService(cfg, log, orderService)
	bookingService := booking.NewService(db, cfg, log, emailService)
	analyticsService := analytics.NewService(db, cfg)

	// Handlers
	authHandler := handlers.NewAuthHandler(userService, cfg)
	addressHandler := handlers.NewAddressHandler(addressService)
	productHandler := handlers.NewProductHandler(productService)
	categoryHandler := handlers.NewCategoryHandler(categoryService)
	reviewHandler := handlers.NewReviewHandler(reviewService)
	cartHandler := handlers.NewCartHandler(cartService)
	wishlistHandler := handlers.NewWishlistHandler(wishlistService)
	couponHandler := handlers.NewCouponHandler(couponService, cartService)
	checkoutHandler := handlers.NewCheckoutHandler(checkoutService)
	orderHandler := handlers.NewOrderHandler(orderService)
	invoiceHandler := handlers.NewInvoiceHandler(orderService, pdfService)
	paymentHandler := handlers.NewPaymentHandler(paymentService)
	bookingHandler := handlers.NewBookingHandler(bookingService)
	adminHandler := handlers.NewAdminHandler(analyticsService, adminUserService, orderService)

	setupAuthRoutes(rg, cfg, authHandler)
	setupCatalogRoutes(rg, cfg, productHandler, categoryHandler, reviewHandler)
	setupCartRoutes(rg, cfg, cartHandler, wishlistHandler, couponHandler, checkoutHandler)
	setupOrderRoutes(rg, cfg, orderHandler, invoiceHandler, paymentHandler)
	setupAccountRoutes(rg, cfg, addressHandler, reviewHandler, bookingHandler)
	setupAdminRoutes(rg, db, cfg, adminHandler, productHandler, categoryHandler,
		couponHandler, bookingHandler, reviewHandler)
}

func setupAuthRoutes(rg *gin.RouterGroup, cfg *config.Config, h *handlers.AuthHandler) {
	auth := rg.Group("/auth")
	{
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)
		auth.POST("/refresh", h.RefreshToken)
		auth.POST("/forgot-password", h.ForgotPassword)
		auth.POST("/reset-password", h.ResetPassword)

		protected := auth.Group("")
		protected.Use(middleware.AuthMiddleware(cfg))
		{
			protected.POST("/logout", h.Logout)
			protected.GET("/profile", h.GetProfile)
			protected.PUT("/profile", h.UpdateProfile)
		}
	}
}

func setupCatalogRoutes(rg *gin.RouterGroup, cfg *config.Config, products *handlers.ProductHandler,
	categories *handlers.CategoryHandler, reviews *handlers.ReviewHandler) {
	catalog := rg.Group("/products")
	{
		catalog.GET("", products.GetProducts)
		catalog.GET("/featured", products.GetFeatured)
		catalog.GET("/slug/:slug", products.GetProductBySlug)
		catalog.GET("/:id", products.GetProduct)
		catalog.GET("/:id/reviews", reviews.GetProductReviews)

		authed := catalog.Group("")
		authed.Use(middleware.AuthMiddleware(cfg))
		{
			authed.POST("/:id/reviews", reviews.CreateReview)
		}
	}

	cats := rg.Group("/categories")
	{
		cats.GET("", categories.GetCategories)
		cats.GET("/:slug", categories.GetCategoryBySlug)
	}
}

func setupCartRoutes(rg *gin.RouterGroup, cfg *config.Config, carts *handlers.CartHandler,
	wishlists *handlers.WishlistHandler, coupons *handlers.CouponHandler, checkouts *handlers.CheckoutHandler) {
	cartGroup := rg.Group("/cart")
	cartGroup.Use(middleware.AuthMiddleware(cfg))
	{
		cartGroup.GET("", carts.GetCart)
		cartGroup.POST("/items", carts.AddItem)
		cartGroup.PUT("/items/:productId", carts.UpdateItem)
		cartGroup.DELETE("/items/:productId", carts.RemoveItem)
		cartGroup.DELETE("", carts.ClearCart)
	}

	wishlistGroup := rg.Group("/wishlist")
	wishlistGroup.Use(middleware.AuthMiddleware(cfg))
	{
		wishlistGroup.GET("", wishlists.GetWishlist)
		wishlistGroup.POST("/toggle", wishlists.Toggle)
		wishlistGroup.DELETE("/:productId", wishlists.Remove)
	}

	couponGroup := rg.Group("/coupons")
	couponGroup.Use(middleware.AuthMiddleware(cfg))
	{
		couponGroup.POST("/apply", coupons.Apply)
		couponGroup.DELETE("/applied", coupons.Remove)
	}

	checkoutGroup := rg.Group("/checkout")
	checkoutGroup.Use(middleware.AuthMiddleware(cfg))
	{
		checkoutGroup.GET("/summary", checkouts.GetSummary)
	}
}

func setupOrderRoutes(rg *gin.RouterGroup, cfg *config.Config, orders *handlers.OrderHandler,
	invoices *handlers.InvoiceHandler, payments *handlers.PaymentHandler) {
	orderGroup := rg.Group("/orders")
	orderGroup.Use(middleware.AuthMiddleware(cfg))
	{
		orderGroup.POST("", orders.PlaceOrder)
		orderGroup.GET("", orders.ListOrders)
		orderGroup.GET("/:id", orders.GetOrder)
		orderGroup.PUT("/:id/cancel", orders.CancelOrder)
		orderGroup.GET("/:id/invoice", invoices.Download)
	}

	paymentGroup := rg.Group("/payments")
	{
		// Gateway callbacks authenticate with an HMAC signature, not a JWT.
		paymentGroup.POST("/webhook", payments.Webhook)

		authed := paymentGroup.Group("")
		authed.Use(middleware.AuthMiddleware(cfg))
		{
			authed.POST("/orders/:id/initiate", payments.Initiate)
			authed.POST("/verify", payments.Verify)
		}
	}
}

func setupAccountRoutes(rg *gin.RouterGroup, cfg *config.Config, addresses *handlers.AddressHandler,
	reviews *handlers.ReviewHandler, bookings *handlers.BookingHandler) {
	addressGroup := rg.Group("/addresses")
	addressGroup.Use(middleware.AuthMiddleware(cfg))
	{
		addressGroup.GET("", addresses.ListAddresses)
		addressGroup.POST("", addresses.CreateAddress)
		addressGroup.PUT("/:id", addresses.UpdateAddress)
		addressGroup.DELETE("/:id", addresses.DeleteAddress)
	}

	reviewGroup := rg.Group("/reviews")
	reviewGroup.Use(middleware.AuthMiddleware(cfg))
	{
		reviewGroup.GET("", reviews.GetMyReviews)
		reviewGroup.PUT("/:id", reviews.UpdateReview)
		reviewGroup.DELETE("/:id", reviews.DeleteReview)
	}

	bookingGroup := rg.Group("/bookings")
	{
		// Guests can request a visit without an account.
		bookingGroup.POST("", middleware.OptionalAuthMiddleware(cfg), bookings.Create)

		authed := bookingGroup.Group("")
		authed.Use(middleware.AuthMiddleware(cfg))
		{
			authed.GET("", bookings.ListMine)
		}
	}
}

func setupAdminRoutes(rg *gin.RouterGroup, db *gorm.DB, cfg *config.Config, admin *handlers.AdminHandler,
	products *handlers.ProductHandler, categories *handlers.CategoryHandler, coupons *handlers.CouponHandler,
	bookings *handlers.BookingHandler, reviews *handlers.ReviewHandler) {
	adminGroup := rg.Group("/admin")
	adminGroup.Use(middleware.AuthMiddleware(cfg))
	adminGroup.Use(middleware.AdminMiddleware(db))
	{
		adminGroup.GET("/dashboard", admin.GetDashboard)

		adminGroup.GET("/products", products.ListProducts)
		adminGroup.POST("/products", products.CreateProduct)
		adminGroup.PUT("/products/:id", products.UpdateProduct)
		adminGroup.DELETE("/products/:id", products.DeleteProduct)

		adminGroup.GET("/categories", categories.ListCategories)
		adminGroup.POST("/categories", categories.CreateCategory)
		adminGroup.PUT("/categories/:id", categories.UpdateCategory)
		adminGroup.DELETE("/categories/:id", categories.DeleteCategory)

		adminGroup.GET("/coupons", coupons.ListCoupons)
		adminGroup.POST("/coupons", coupons.CreateCoupon)
		adminGroup.PUT("/coupons/:id", coupons.UpdateCoupon)
		adminGroup.DELETE("/coupons/:id", coupons.DeleteCoupon)

		adminGroup.GET("/orders", admin.ListOrders)
		adminGroup.GET("/orders/:id", admin.GetOrder)
		adminGroup.PUT("/orders/:id/status", admin.UpdateOrderStatus)
		adminGroup.PUT("/orders/:id/force-status", admin.ForceOrderStatus)

		adminGroup.GET("/bookings", bookings.ListBookings)
		adminGroup.PUT("/bookings/:id/approve", bookings.Approve)
		adminGroup.PUT("/bookings/:id/reject", bookings.Reject)

		adminGroup.GET("/reviews", reviews.ListReviews)
		adminGroup.PUT("/reviews/:id/approve", reviews.ApproveReview)
		adminGroup.DELETE("/reviews/:id", reviews.RejectReview)

		adminGroup.GET("/users", admin.ListUsers)
		adminGroup.PUT("/users/:id/block", admin.BlockUser)
		adminGroup.PUT("/users/:id/unblock", admin.UnblockUser)
	}
}
