package router

import (
	"fmt"
	"strings"

	"github.com/ordertrack/internal/cache"
	"github.com/ordertrack/internal/config"
	publichandlers "github.com/ordertrack/internal/http/handlers/public"
	staffhandlers "github.com/ordertrack/internal/http/handlers/staff"
	"github.com/ordertrack/internal/logger"
	"github.com/ordertrack/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	// 初始化 Handler（按顾客/员工分组）
	publicHandler := publichandlers.New(c)
	staffHandler := staffhandlers.New(c)
	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "ot"
	}
	redisClient := cache.Client()
	loginRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:login", redisPrefix),
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxAttempts,
		Message:       "too many login attempts",
	}

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	// API 路由组
	apiV1 := r.Group("/api/v1")
	{
		// 公开接口
		public := apiV1.Group("/public")
		{
			public.GET("/products", publicHandler.ListProducts)
			public.GET("/products/:id", publicHandler.GetProduct)
		}

		// 用户认证接口
		auth := apiV1.Group("/auth")
		{
			auth.POST("/register", publicHandler.Register)
			auth.POST("/login", RateLimitMiddleware(redisClient, loginRule, KeyByIPAndJSONField("email")), publicHandler.Login)
		}

		// 用户接口（需鉴权）
		user := apiV1.Group("")
		user.Use(JWTAuthMiddleware(cfg.JWT.SecretKey, c.UserRepo))
		{
			user.GET("/me", publicHandler.Me)
			user.POST("/orders", publicHandler.CreateOrder)
			user.GET("/orders", publicHandler.ListMyOrders)
			user.GET("/orders/:orderNumber", publicHandler.GetOrder)
			user.GET("/orders/:orderNumber/history", publicHandler.GetOrderHistory)
			user.GET("/orders/:orderNumber/events", publicHandler.SubscribeOrderEvents)
		}

		// 员工接口（需鉴权 + RBAC）
		staff := apiV1.Group("/staff")
		staff.Use(JWTAuthMiddleware(cfg.JWT.SecretKey, c.UserRepo), RBACMiddleware(c.AuthzService))
		{
			staff.GET("/events", staffHandler.SubscribePoolEvents)

			staff.GET("/orders", staffHandler.ListOrders)
			staff.GET("/orders/pending", staffHandler.ListPendingOrders)
			staff.GET("/orders/available", staffHandler.ListAvailableOrders)
			staff.GET("/orders/out-for-delivery", staffHandler.ListMyDeliveries)
			staff.GET("/orders/:orderNumber/history", staffHandler.GetOrderHistory)
			staff.POST("/orders/:orderNumber/confirm", staffHandler.ConfirmOrder)
			staff.POST("/orders/:orderNumber/accept", staffHandler.AcceptOrder)
			staff.POST("/orders/:orderNumber/deliver", staffHandler.MarkDelivered)

			staff.GET("/products", staffHandler.ListProducts)
			staff.POST("/products", staffHandler.CreateProduct)
			staff.PUT("/products/:id", staffHandler.UpdateProduct)
			staff.PATCH("/products/:id/availability", staffHandler.SetProductAvailability)
		}

		// 管理员接口（需鉴权 + RBAC）
		admin := apiV1.Group("/admin")
		admin.Use(JWTAuthMiddleware(cfg.JWT.SecretKey, c.UserRepo), RBACMiddleware(c.AuthzService))
		{
			admin.GET("/users", staffHandler.ListUsers)
			admin.PATCH("/users/:id/role", staffHandler.UpdateUserRole)
		}
	}

	return r
}
