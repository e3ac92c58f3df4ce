package provider

import (
	"errors"

	"github.com/bookcart/internal/authz"
	"github.com/bookcart/internal/cache"
	"github.com/bookcart/internal/config"
	"github.com/bookcart/internal/logger"
	"github.com/bookcart/internal/models"
	"github.com/bookcart/internal/queue"
	"github.com/bookcart/internal/repository"
	"github.com/bookcart/internal/service"

	"gorm.io/gorm"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	DB          *gorm.DB
	QueueClient *queue.Client

	// Repositories
	UserRepo  repository.UserRepository
	BookRepo  repository.BookRepository
	CartRepo  repository.CartRepository
	OrderRepo repository.OrderRepository

	// Services
	AuthzService    *authz.Service
	Sessions        *service.SessionManager
	UserAuthService *service.UserAuthService
	EmailService    *service.EmailService
	CaptchaService  *service.CaptchaService
	CatalogService  *service.CatalogService
	CartService     *service.CartService
	CheckoutService *service.CheckoutService
	ReportService   *service.ReportService
}

// NewContainer 基于全局数据库连接初始化容器
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

	c, err := NewContainerWithDB(cfg, models.DB, queueClient)
	if err != nil {
		logger.Errorw("provider_init_container_failed", "error", err)
		panic(err)
	}
	return c
}

// NewContainerWithDB 使用指定数据库连接初始化容器，不触碰 Redis 与队列的全局状态
func NewContainerWithDB(cfg *config.Config, db *gorm.DB, queueClient *queue.Client) (*Container, error) {
	c := &Container{
		Config:      cfg,
		DB:          db,
		QueueClient: queueClient,
	}

	// 1. 初始化 Repositories
	c.initRepositories()

	// 2. 初始化 Services
	if err := c.initServices(); err != nil {
		return nil, err
	}
	return c, nil
}

// Close 释放队列客户端与 Redis 连接
func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	var errs []error
	if c.QueueClient != nil {
		errs = append(errs, c.QueueClient.Close())
	}
	errs = append(errs, cache.Close())
	return errors.Join(errs...)
}

func (c *Container) initRepositories() {
	c.UserRepo = repository.NewUserRepository(c.DB)
	c.BookRepo = repository.NewBookRepository(c.DB)
	c.CartRepo = repository.NewCartRepository(c.DB)
	c.OrderRepo = repository.NewOrderRepository(c.DB)
}

func (c *Container) initServices() error {
	authzService, err := authz.NewService(c.DB)
	if err != nil {
		return err
	}
	c.AuthzService = authzService
	if err := c.AuthzService.BootstrapBuiltinRoles(); err != nil {
		logger.Errorw("provider_bootstrap_builtin_roles_failed", "error", err)
		return err
	}

	c.EmailService = service.NewEmailService(&c.Config.Email)
	c.CaptchaService = service.NewCaptchaService(c.Config.Captcha)
	c.Sessions = service.NewSessionManager(c.Config.Session, c.UserRepo)
	c.UserAuthService = service.NewUserAuthService(c.Config, c.UserRepo, c.CartRepo, c.Sessions)
	c.CatalogService = service.NewCatalogService(c.BookRepo, c.CartRepo, c.Config.Catalog.DeletePolicy)
	c.CartService = service.NewCartService(c.CartRepo, c.BookRepo)
	c.CheckoutService = service.NewCheckoutService(c.CartRepo, c.OrderRepo, c.QueueClient, c.Config.Checkout.PaymentModes)
	c.ReportService = service.NewReportService(c.BookRepo)
	return nil
}
