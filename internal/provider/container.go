package provider

import (
	"context"

	"github.com/ordertrack/internal/authz"
	"github.com/ordertrack/internal/broadcast"
	"github.com/ordertrack/internal/cache"
	"github.com/ordertrack/internal/config"
	"github.com/ordertrack/internal/events"
	"github.com/ordertrack/internal/logger"
	"github.com/ordertrack/internal/models"
	"github.com/ordertrack/internal/notify"
	"github.com/ordertrack/internal/queue"
	"github.com/ordertrack/internal/repository"
	"github.com/ordertrack/internal/service"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client
	Hub         *broadcast.Hub
	Producer    *events.Producer
	SMSSender   notify.SMSSender

	// Repositories
	UserRepo    repository.UserRepository
	ProductRepo repository.ProductRepository
	OrderRepo   repository.OrderRepository
	HistoryRepo repository.OrderStatusHistoryRepository

	// Services
	AuthzService   *authz.Service
	AuthService    *service.AuthService
	ProductService *service.ProductService
	OrderService   *service.OrderService
	UserService    *service.UserService
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	// 初始化缓存
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	// 初始化队列客户端
	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	// 初始化广播中心，Redis 可用时桥接为跨实例扇出
	hub := broadcast.NewHub(cfg.Broadcast.SubscriberBuffer)
	if cache.Enabled() {
		hub.EnableRedisBridge(context.Background(), cache.Client(), cache.Prefix())
	}

	// 初始化订单事件流（可选）
	producer, err := events.NewProducer(&cfg.Kafka)
	if err != nil {
		logger.Errorw("provider_init_event_producer_failed", "error", err)
		producer = nil
	}

	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
		Hub:         hub,
		Producer:    producer,
		SMSSender:   notify.NewSMSSender(&cfg.SMS),
	}

	// 1. 初始化 Repositories
	c.initRepositories()

	// 2. 初始化 Services
	c.initServices()

	return c
}

func (c *Container) initRepositories() {
	db := models.DB
	c.UserRepo = repository.NewUserRepository(db)
	c.ProductRepo = repository.NewProductRepository(db)
	c.OrderRepo = repository.NewOrderRepository(db)
	c.HistoryRepo = repository.NewOrderStatusHistoryRepository(db)
}

func (c *Container) initServices() {
	authzService, err := authz.NewService(models.DB)
	if err != nil {
		logger.Errorw("provider_init_authz_failed", "error", err)
		panic(err)
	}
	c.AuthzService = authzService
	if err := c.AuthzService.BootstrapBuiltinRoles(); err != nil {
		logger.Errorw("provider_bootstrap_builtin_roles_failed", "error", err)
		panic(err)
	}

	c.AuthService = service.NewAuthService(c.Config, c.UserRepo)
	c.ProductService = service.NewProductService(c.ProductRepo)
	c.UserService = service.NewUserService(c.UserRepo)
	c.OrderService = service.NewOrderService(
		c.OrderRepo,
		c.HistoryRepo,
		c.ProductRepo,
		c.UserRepo,
		c.QueueClient,
		c.Hub,
		c.Producer,
	)
}
