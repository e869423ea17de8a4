package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"vendorvault/internal/controller"
	"vendorvault/internal/middleware"
	"vendorvault/internal/model"
	"vendorvault/internal/repository"
	"vendorvault/internal/router"
	"vendorvault/internal/service"
	"vendorvault/internal/task"
	"vendorvault/pkg/config"
	"vendorvault/pkg/database"
	"vendorvault/pkg/logger"
)

// Repositories 仓储集合
type Repositories struct {
	User       repository.UserRepository
	Store      repository.StoreRepository
	Category   repository.CategoryRepository
	Brand      repository.BrandRepository
	Spec       repository.SpecRepository
	Unit       repository.GoodsUnitRepository
	Goods      repository.GoodsRepository
	Order      repository.OrderRepository
	Evaluation repository.EvaluationRepository
	Address    repository.UserAddressRepository
	Collection repository.CollectionRepository
	Statistics repository.StatisticsRepository
}

// Services 服务集合
type Services struct {
	Auth       *service.AuthService
	Member     *service.MemberService
	Catalog    *service.CatalogService
	Goods      *service.GoodsService
	Order      *service.OrderService
	Evaluation *service.EvaluationService
	Store      *service.StoreService
	Statistics *service.StatisticsService
	Payment    *service.PaymentService
	Mail       *service.MailService
	Storage    *service.StorageService
}

func newRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		User:       repository.NewUserRepository(db),
		Store:      repository.NewStoreRepository(db),
		Category:   repository.NewCategoryRepository(db),
		Brand:      repository.NewBrandRepository(db),
		Spec:       repository.NewSpecRepository(db),
		Unit:       repository.NewGoodsUnitRepository(db),
		Goods:      repository.NewGoodsRepository(db),
		Order:      repository.NewOrderRepository(db),
		Evaluation: repository.NewEvaluationRepository(db),
		Address:    repository.NewUserAddressRepository(db),
		Collection: repository.NewCollectionRepository(db),
		Statistics: repository.NewStatisticsRepository(db),
	}
}

func newServices(ctx context.Context, cfg *config.Config, db *gorm.DB, rdb *redis.Client, jwt *middleware.JWTManager, repos *Repositories) (*Services, error) {
	storageSvc, err := service.NewStorageService(ctx, cfg.Storage)
	if err != nil {
		return nil, err
	}

	orderSvc := service.NewOrderService(db, repos.Order, repos.Goods)
	return &Services{
		Auth:       service.NewAuthService(repos.User, jwt, rdb),
		Member:     service.NewMemberService(repos.User, repos.Address, repos.Collection, repos.Goods, repos.Store),
		Catalog:    service.NewCatalogService(repos.Category, repos.Brand, repos.Spec, repos.Unit, repos.Goods),
		Goods:      service.NewGoodsService(db, repos.Goods, repos.Spec, repos.Store),
		Order:      orderSvc,
		Evaluation: service.NewEvaluationService(db, repos.Evaluation, repos.Goods, repos.Order),
		Store:      service.NewStoreService(db, repos.Store, repos.User, repos.Goods, repos.Order, repos.Collection, repos.Evaluation, repos.Statistics),
		Statistics: service.NewStatisticsService(repos.Statistics),
		Payment:    service.NewPaymentService(cfg.Stripe, orderSvc),
		Mail:       service.NewMailService(cfg.SMTP, repos.User, rdb),
		Storage:    storageSvc,
	}, nil
}

func main() {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}
	if err := logger.Init(cfg.Log.Level); err != nil {
		fmt.Fprintf(os.Stderr, "初始化日志失败: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	db, err := database.InitDB(cfg.Database.DSN(),
		&model.User{}, &model.UserAddress{}, &model.Collection{},
		&model.Store{},
		&model.Category{}, &model.Brand{}, &model.CategoryBrand{},
		&model.Specification{}, &model.SpecValue{}, &model.CategorySpec{},
		&model.GoodsUnit{},
		&model.Goods{}, &model.GoodsSku{}, &model.GoodsGallery{},
		&model.Order{}, &model.SubOrder{}, &model.OrderItem{}, &model.PaymentLog{},
		&model.Evaluation{},
	)
	if err != nil {
		logger.Errorf("连接数据库失败: %v", err)
		os.Exit(1)
	}

	rdb, err := database.InitRedis(cfg.Redis.Address, cfg.Redis.Password, cfg.Redis.Db)
	if err != nil {
		logger.Errorf("连接 Redis 失败: %v", err)
		os.Exit(1)
	}

	jwt := middleware.NewJWTManager(
		cfg.JWT.Secret,
		cfg.JWT.Issuer,
		time.Duration(cfg.JWT.AccessTokenTTL)*time.Minute,
		time.Duration(cfg.JWT.RefreshTokenTTL)*time.Minute,
	)

	repos := newRepositories(db)
	services, err := newServices(context.Background(), cfg, db, rdb, jwt, repos)
	if err != nil {
		logger.Errorf("初始化服务失败: %v", err)
		os.Exit(1)
	}

	controllers := router.Controllers{
		Auth:       controller.NewAuthController(services.Auth, services.Mail),
		Member:     controller.NewMemberController(services.Member),
		Catalog:    controller.NewCatalogController(services.Catalog),
		Goods:      controller.NewGoodsController(services.Goods, services.Evaluation),
		Order:      controller.NewOrderController(services.Order, services.Payment),
		Evaluation: controller.NewEvaluationController(services.Evaluation),
		Store:      controller.NewStoreController(services.Store, services.Statistics),
		Upload:     controller.NewUploadController(services.Storage),
	}

	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	engine := gin.Default()
	router.Setup(engine, jwt, controllers)

	dueTask := task.NewPaymentDueTask(repos.Store)
	if err := dueTask.Start(); err != nil {
		logger.Errorf("启动定时任务失败: %v", err)
		os.Exit(1)
	}

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: engine,
	}

	go func() {
		logger.Infof("服务启动，监听 %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Errorf("服务异常退出: %v", err)
			os.Exit(1)
		}
	}()

	// 优雅退出
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Infof("收到退出信号，开始关闭")

	dueTask.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Errorf("关闭 HTTP 服务失败: %v", err)
	}
	if err := rdb.Close(); err != nil {
		logger.Warnf("关闭 Redis 连接失败: %v", err)
	}
	logger.Infof("服务已退出")
}
