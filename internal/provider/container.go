package provider

import (
	"github.com/tokoline/tokoline/internal/cache"
	"github.com/tokoline/tokoline/internal/config"
	"github.com/tokoline/tokoline/internal/logger"
	"github.com/tokoline/tokoline/internal/models"
	"github.com/tokoline/tokoline/internal/queue"
	"github.com/tokoline/tokoline/internal/repository"
	"github.com/tokoline/tokoline/internal/service"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client

	// Repositories
	UserRepo            repository.UserRepository
	RoleRepo            repository.RoleRepository
	TokenRepo           repository.ApiTokenRepository
	LoginVerifyCodeRepo repository.LoginVerifyCodeRepository
	ProductRepo         repository.ProductRepository
	CategoryRepo        repository.CategoryRepository
	OrderRepo           repository.OrderRepository
	VoucherRepo         repository.VoucherRepository
	ProductVoucherRepo  repository.ProductVoucherRepository
	FlashSaleRepo       repository.FlashSaleRepository
	FreeShippingRepo    repository.FreeShippingRepository
	ReviewRepo          repository.ReviewRepository
	WidgetRepo          repository.WidgetRepository
	CustomerRepo        repository.CustomerRepository
	AnalyticsRepo       repository.AnalyticsRepository

	// Services
	AuthService            *service.AuthService
	EmailService           *service.EmailService
	UploadService          *service.UploadService
	ProductService         *service.ProductService
	ProductDiscountService *service.ProductDiscountService
	CategoryService        *service.CategoryService
	OrderService           *service.OrderService
	VoucherService         *service.VoucherService
	FlashSaleService       *service.FlashSaleService
	FreeShippingService    *service.FreeShippingService
	ReviewService          *service.ReviewService
	WidgetService          *service.WidgetService
	CustomerService        *service.CustomerService
	UserAdminService       *service.UserAdminService
	AnalyticsService       *service.AnalyticsService
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
	}
	c.initRepositories()
	c.initServices()
	return c
}

func (c *Container) initRepositories() {
	db := models.DB
	c.UserRepo = repository.NewUserRepository(db)
	c.RoleRepo = repository.NewRoleRepository(db)
	c.TokenRepo = repository.NewApiTokenRepository(db)
	c.LoginVerifyCodeRepo = repository.NewLoginVerifyCodeRepository(db)
	c.ProductRepo = repository.NewProductRepository(db)
	c.CategoryRepo = repository.NewCategoryRepository(db)
	c.OrderRepo = repository.NewOrderRepository(db)
	c.VoucherRepo = repository.NewVoucherRepository(db)
	c.ProductVoucherRepo = repository.NewProductVoucherRepository(db)
	c.FlashSaleRepo = repository.NewFlashSaleRepository(db)
	c.FreeShippingRepo = repository.NewFreeShippingRepository(db)
	c.ReviewRepo = repository.NewReviewRepository(db)
	c.WidgetRepo = repository.NewWidgetRepository(db)
	c.CustomerRepo = repository.NewCustomerRepository(db)
	c.AnalyticsRepo = repository.NewAnalyticsRepository(db)
}

func (c *Container) initServices() {
	c.EmailService = service.NewEmailService(&c.Config.Email)
	c.AuthService = service.NewAuthService(c.Config, c.UserRepo, c.TokenRepo, c.LoginVerifyCodeRepo, c.EmailService, c.QueueClient)
	c.UploadService = service.NewUploadService(&c.Config.Upload)
	c.ProductService = service.NewProductService(c.ProductRepo, c.CategoryRepo, c.ReviewRepo)
	c.ProductDiscountService = service.NewProductDiscountService(c.ProductRepo, c.FlashSaleRepo, c.ProductVoucherRepo)
	c.CategoryService = service.NewCategoryService(c.CategoryRepo)
	c.VoucherService = service.NewVoucherService(c.VoucherRepo, c.ProductVoucherRepo, c.ProductRepo)
	c.OrderService = service.NewOrderService(c.OrderRepo, c.ProductRepo, c.FlashSaleRepo, c.VoucherService, c.CustomerRepo, c.EmailService, c.QueueClient)
	c.FlashSaleService = service.NewFlashSaleService(c.FlashSaleRepo, c.ProductRepo)
	c.FreeShippingService = service.NewFreeShippingService(c.FreeShippingRepo)
	c.ReviewService = service.NewReviewService(c.ReviewRepo, c.OrderRepo, c.ProductRepo)
	c.WidgetService = service.NewWidgetService(c.WidgetRepo)
	c.CustomerService = service.NewCustomerService(c.CustomerRepo, c.OrderRepo)
	c.UserAdminService = service.NewUserAdminService(c.UserRepo, c.RoleRepo, c.TokenRepo)
	c.AnalyticsService = service.NewAnalyticsService(c.AnalyticsRepo, &c.Config.Analytics)
}
