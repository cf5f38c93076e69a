package provider

import (
	"fmt"

	"github.com/calzado-next/internal/authz"
	"github.com/calzado-next/internal/cache"
	"github.com/calzado-next/internal/config"
	"github.com/calzado-next/internal/logger"
	"github.com/calzado-next/internal/queue"
	"github.com/calzado-next/internal/repository"
	"github.com/calzado-next/internal/service"

	"gorm.io/gorm"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	DB          *gorm.DB
	Cache       *cache.Store
	QueueClient *queue.Client
	TxRunner    *service.TxRunner

	// Repositories
	UserRepo      repository.UserRepository
	CategoryRepo  repository.CategoryRepository
	ProductRepo   repository.ProductRepository
	SizeStockRepo repository.SizeStockRepository
	CartRepo      repository.CartRepository
	OrderRepo     repository.OrderRepository

	// Services
	AuthzService     *authz.Service
	UserAuthService  *service.UserAuthService
	UserAdminService *service.UserAdminService
	CategoryService  *service.CategoryService
	ProductService   *service.ProductService
	StockService     *service.StockService
	CartService      *service.CartService
	OrderService     *service.OrderService
}

// NewContainer 初始化容器；db 由调用方打开并负责关闭
func NewContainer(cfg *config.Config, db *gorm.DB) (*Container, error) {
	if cfg == nil || db == nil {
		return nil, fmt.Errorf("provider requires config and db")
	}

	store := cache.NewStore(&cfg.Redis)
	queueClient, err := queue.NewClient(&cfg.Queue)
	if err != nil {
		logger.Errorw("provider_init_queue_client_failed", "error", err)
		queueClient = nil
	}

	c := &Container{
		Config:      cfg,
		DB:          db,
		Cache:       store,
		QueueClient: queueClient,
		TxRunner:    service.NewTxRunner(db, cfg.Database.QueryTimeout()),
	}

	// 1. 初始化 Repositories
	c.initRepositories()

	// 2. 初始化 Services
	if err := c.initServices(); err != nil {
		return nil, err
	}
	return c, nil
}

// Close 释放缓存与队列连接
func (c *Container) Close() {
	if err := c.QueueClient.Close(); err != nil {
		logger.Warnw("provider_close_queue_failed", "error", err)
	}
	if err := c.Cache.Close(); err != nil {
		logger.Warnw("provider_close_cache_failed", "error", err)
	}
}

func (c *Container) initRepositories() {
	db := c.DB
	c.UserRepo = repository.NewUserRepository(db)
	c.CategoryRepo = repository.NewCategoryRepository(db)
	c.ProductRepo = repository.NewProductRepository(db)
	c.SizeStockRepo = repository.NewSizeStockRepository(db)
	c.CartRepo = repository.NewCartRepository(db)
	c.OrderRepo = repository.NewOrderRepository(db)
}

func (c *Container) initServices() error {
	authzService, err := authz.NewService(c.DB)
	if err != nil {
		logger.Errorw("provider_init_authz_failed", "error", err)
		return err
	}
	if err := authzService.BootstrapBuiltinRoles(); err != nil {
		logger.Errorw("provider_bootstrap_builtin_roles_failed", "error", err)
		return err
	}
	c.AuthzService = authzService

	c.UserAuthService = service.NewUserAuthService(c.Config, c.UserRepo, c.Cache)
	c.UserAdminService = service.NewUserAdminService(c.TxRunner, c.UserRepo, c.CartRepo, c.Cache)
	c.CategoryService = service.NewCategoryService(c.CategoryRepo)
	c.ProductService = service.NewProductService(c.TxRunner, c.ProductRepo, c.CategoryRepo, c.SizeStockRepo, c.CartRepo)
	c.StockService = service.NewStockService(c.TxRunner, c.SizeStockRepo, c.ProductRepo)
	c.CartService = service.NewCartService(c.TxRunner, c.CartRepo, c.ProductRepo, c.SizeStockRepo)
	c.OrderService = service.NewOrderService(service.OrderServiceOptions{
		TxRunner:    c.TxRunner,
		OrderRepo:   c.OrderRepo,
		CartRepo:    c.CartRepo,
		ProductRepo: c.ProductRepo,
		StockRepo:   c.SizeStockRepo,
		Cart:        c.CartService,
		Stock:       c.StockService,
		Queue:       c.QueueClient,
	})
	return nil
}
