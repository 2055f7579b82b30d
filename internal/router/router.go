package router

import (
	"fmt"
	"strings"

	"github.com/tokoline/tokoline/internal/cache"
	"github.com/tokoline/tokoline/internal/config"
	"github.com/tokoline/tokoline/internal/constants"
	adminhandlers "github.com/tokoline/tokoline/internal/http/handlers/admin"
	publichandlers "github.com/tokoline/tokoline/internal/http/handlers/public"
	"github.com/tokoline/tokoline/internal/logger"
	"github.com/tokoline/tokoline/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	publicHandler := publichandlers.New(c)
	adminHandler := adminhandlers.New(c)

	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "tl"
	}
	loginRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:login", redisPrefix),
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxAttempts,
	}

	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	// 静态文件服务（上传的图片）
	r.Static("/uploads", cfg.Upload.Dir)

	api := r.Group("/api")
	{
		// 前台公开接口
		public := api.Group("/public")
		{
			public.GET("/products", publicHandler.GetProducts)
			public.GET("/top-products", publicHandler.GetTopProducts)
			public.GET("/products/:id", publicHandler.GetProduct)
			public.GET("/products/:id/vouchers", publicHandler.GetProductVouchers)
			public.GET("/categories", publicHandler.GetCategories)
			public.GET("/widgets", publicHandler.GetWidgets)
			public.GET("/vouchers", publicHandler.GetActiveVouchers)
			public.POST("/vouchers/validate", publicHandler.ValidateVoucher)
			public.GET("/flash-sales", publicHandler.GetRunningFlashSales)
			public.GET("/free-shipping", publicHandler.GetFreeShippingPromotions)
			public.POST("/free-shipping/check", publicHandler.CheckFreeShipping)
			public.POST("/orders", publicHandler.CreateOrder)
			public.GET("/orders", publicHandler.GetOrdersByEmail)
			public.GET("/orders/:order_no", publicHandler.GetOrderByNo)
			public.POST("/reviews", publicHandler.SubmitReview)
			public.GET("/customer-status", publicHandler.GetCustomerStatus)
		}

		// 认证接口
		auth := api.Group("/auth")
		{
			auth.POST("/register", adminHandler.Register)
			auth.POST("/login",
				RateLimitMiddleware(cache.Client(), loginRule, KeyByIPAndJSONField("identifier")),
				adminHandler.Login)
			auth.POST("/verify-superadmin",
				RateLimitMiddleware(cache.Client(), loginRule, KeyByIPAndJSONField("identifier")),
				adminHandler.VerifySuperAdmin)
			auth.POST("/resend-superadmin-code",
				RateLimitMiddleware(cache.Client(), loginRule, KeyByIPAndJSONField("identifier")),
				adminHandler.ResendSuperAdminCode)

			// 以下需要已登录身份
			auth.POST("/logout", TokenAuthMiddleware(c.AuthService), adminHandler.Logout)
			auth.GET("/me", TokenAuthMiddleware(c.AuthService), adminHandler.Me)
			auth.GET("/status", TokenAuthMiddleware(c.AuthService), adminHandler.AuthStatus)
		}

		// 后台接口，逐请求查库校验令牌
		admin := api.Group("/admin")
		admin.Use(TokenAuthMiddleware(c.AuthService))
		{
			products := admin.Group("/products", RequirePermission(constants.PermProductsManage))
			{
				products.GET("", adminHandler.GetProducts)
				products.GET("/:id", adminHandler.GetProduct)
				products.POST("", adminHandler.CreateProduct)
				products.PUT("/:id", adminHandler.UpdateProduct)
				products.DELETE("/:id", adminHandler.DeleteProduct)
			}

			categories := admin.Group("/categories", RequirePermission(constants.PermCategoriesManage))
			{
				categories.GET("", adminHandler.GetCategories)
				categories.POST("", adminHandler.CreateCategory)
				categories.PUT("/:id", adminHandler.UpdateCategory)
				categories.DELETE("/:id", adminHandler.DeleteCategory)
			}

			orders := admin.Group("/orders", RequirePermission(constants.PermOrdersManage))
			{
				orders.GET("", adminHandler.GetOrders)
				orders.GET("/:id", adminHandler.GetOrder)
				orders.PUT("/:id/status", adminHandler.UpdateOrderStatus)
				orders.DELETE("/:id", adminHandler.DeleteOrder)
			}

			vouchers := admin.Group("/vouchers", RequirePermission(constants.PermVouchersManage))
			{
				vouchers.GET("", adminHandler.GetVouchers)
				vouchers.POST("", adminHandler.CreateVoucher)
				vouchers.PUT("/:id", adminHandler.UpdateVoucher)
				vouchers.DELETE("/:id", adminHandler.DeleteVoucher)
			}

			productVouchers := admin.Group("/product-vouchers", RequirePermission(constants.PermVouchersManage))
			{
				productVouchers.GET("", adminHandler.GetProductVouchers)
				productVouchers.POST("", adminHandler.CreateProductVoucher)
				productVouchers.PUT("/:id", adminHandler.UpdateProductVoucher)
				productVouchers.DELETE("/:id", adminHandler.DeleteProductVoucher)
			}

			productDiscounts := admin.Group("/product-discounts", RequirePermission(constants.PermProductsManage))
			{
				productDiscounts.GET("", adminHandler.GetProductDiscounts)
				productDiscounts.GET("/:id", adminHandler.GetProductDiscount)
				productDiscounts.POST("", adminHandler.CreateProductDiscount)
				productDiscounts.PUT("/:id", adminHandler.UpdateProductDiscount)
				productDiscounts.DELETE("/:id", adminHandler.DeleteProductDiscount)
			}

			flashSales := admin.Group("/flash-sales", RequirePermission(constants.PermPromosManage))
			{
				flashSales.GET("", adminHandler.GetFlashSales)
				flashSales.POST("", adminHandler.CreateFlashSale)
				flashSales.PUT("/:id", adminHandler.UpdateFlashSale)
				flashSales.DELETE("/:id", adminHandler.DeleteFlashSale)
			}

			freeShipping := admin.Group("/free-shipping", RequirePermission(constants.PermPromosManage))
			{
				freeShipping.GET("", adminHandler.GetFreeShippingPromotions)
				freeShipping.POST("", adminHandler.CreateFreeShippingPromotion)
				freeShipping.PUT("/:id", adminHandler.UpdateFreeShippingPromotion)
				freeShipping.DELETE("/:id", adminHandler.DeleteFreeShippingPromotion)
			}

			reviews := admin.Group("/reviews", RequirePermission(constants.PermReviewsManage))
			{
				reviews.GET("", adminHandler.GetReviews)
				reviews.DELETE("/:id", adminHandler.DeleteReview)
			}

			widgets := admin.Group("/widgets", RequirePermission(constants.PermWidgetsManage))
			{
				widgets.GET("", adminHandler.GetWidgets)
				widgets.POST("", adminHandler.CreateWidget)
				widgets.PUT("/:id", adminHandler.UpdateWidget)
				widgets.DELETE("/:id", adminHandler.DeleteWidget)
			}

			customers := admin.Group("/customers", RequirePermission(constants.PermCustomersManage))
			{
				customers.GET("", adminHandler.GetCustomers)
				customers.GET("/:id", adminHandler.GetCustomer)
				customers.GET("/:id/orders", adminHandler.GetCustomerOrders)
				customers.POST("", adminHandler.CreateCustomer)
				customers.PUT("/:id", adminHandler.UpdateCustomer)
				customers.PUT("/:id/status", adminHandler.UpdateCustomerStatus)
				customers.DELETE("/:id", adminHandler.DeleteCustomer)
			}

			users := admin.Group("/users", RequirePermission(constants.PermUsersManage))
			{
				users.GET("", adminHandler.GetUsers)
				users.GET("/:id", adminHandler.GetUser)
				users.POST("", adminHandler.CreateUser)
				users.PUT("/:id", adminHandler.UpdateUser)
				users.DELETE("/:id", adminHandler.DeleteUser)
			}

			roles := admin.Group("/roles", RequirePermission(constants.PermUsersManage))
			{
				roles.GET("", adminHandler.GetRoles)
				roles.POST("", adminHandler.CreateRole)
				roles.PUT("/:id", adminHandler.UpdateRole)
				roles.DELETE("/:id", adminHandler.DeleteRole)
			}

			analytics := admin.Group("/analytics", RequirePermission(constants.PermAnalyticsView))
			{
				analytics.GET("/summary", adminHandler.GetAnalyticsSummary)
				analytics.GET("/best-sellers", adminHandler.GetBestSellers)
				analytics.GET("/product-sales", adminHandler.GetProductSales)
				analytics.GET("/category-sales", adminHandler.GetCategorySales)
				analytics.GET("/sales-trend", adminHandler.GetSalesTrend)
				analytics.GET("/monthly-profit-loss", adminHandler.GetMonthlyProfitLoss)
				analytics.GET("/monthly-bestsellers", adminHandler.GetMonthlyBestSellers)
			}

			admin.POST("/upload", adminHandler.UploadFile)
		}
	}

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return r
}
