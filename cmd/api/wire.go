//go:build wireinject
// +build wireinject

// Wire依赖注入配置
//
// 运行 `wire gen ./cmd/api` 生成wire_gen.go，
// main.go中的手动组装可替换为InitializeApp()
package main

import (
	"github.com/gin-gonic/gin"
	"github.com/google/wire"
	goredis "github.com/redis/go-redis/v9"

	appdispute "github.com/liuwen/marketplace/internal/application/dispute"
	appinventory "github.com/liuwen/marketplace/internal/application/inventory"
	"github.com/liuwen/marketplace/internal/application/notification"
	apporder "github.com/liuwen/marketplace/internal/application/order"
	apppayment "github.com/liuwen/marketplace/internal/application/payment"
	"github.com/liuwen/marketplace/internal/infrastructure/config"
	"github.com/liuwen/marketplace/internal/infrastructure/persistence/mysql"
	"github.com/liuwen/marketplace/internal/infrastructure/persistence/redis"
	"github.com/liuwen/marketplace/internal/infrastructure/provider"
	"github.com/liuwen/marketplace/internal/interface/http/handler"
	"github.com/liuwen/marketplace/internal/interface/http/middleware"
	"github.com/liuwen/marketplace/pkg/jwt"
	"github.com/liuwen/marketplace/pkg/mq"
)

// infrastructureSet 基础设施层依赖
var infrastructureSet = wire.NewSet(
	config.Load,
	mysql.NewDB,
	redis.NewClient,
	provideProviderClient,
	providePublisher,
	provideNotifier,
)

// repositorySet 仓储层依赖
var repositorySet = wire.NewSet(
	mysql.NewOrderRepository,
	mysql.NewVariantRepository,
	mysql.NewInventoryRepository,
	mysql.NewInventoryLogRepository,
	mysql.NewPaymentRepository,
	mysql.NewDisputeRepository,
	mysql.NewTxManager,
	wire.Bind(new(apporder.TxManager), new(*mysql.TxManager)),
	wire.Bind(new(apppayment.TxManager), new(*mysql.TxManager)),
	wire.Bind(new(appdispute.TxManager), new(*mysql.TxManager)),
)

// applicationSet 应用层依赖
var applicationSet = wire.NewSet(
	apporder.NewCreateOrderUseCase,
	apporder.NewCancelOrderUseCase,
	apporder.NewFulfillOrderUseCase,
	apporder.NewUpdateStatusUseCase,
	apporder.NewGetOrdersUseCase,
	apppayment.NewInitiatePaymentUseCase,
	apppayment.NewHandleEventUseCase,
	apppayment.NewRefundUseCase,
	apppayment.NewGetPaymentsUseCase,
	appdispute.NewOpenDisputeUseCase,
	appdispute.NewResolveDisputeUseCase,
	appdispute.NewManageDisputeUseCase,
	appinventory.NewManageStockUseCase,
	wire.Bind(new(apppayment.ProviderClient), new(*provider.Client)),
	wire.Bind(new(apppayment.OrderFulfiller), new(*apporder.FulfillOrderUseCase)),
	wire.Bind(new(appdispute.Refunder), new(*apppayment.RefundUseCase)),
)

// middlewareSet 中间件依赖
var middlewareSet = wire.NewSet(
	provideJWTManager,
	provideSessionStore,
	middleware.NewAuthMiddleware,
)

// handlerSet HTTP处理器依赖
var handlerSet = wire.NewSet(
	handler.NewOrderHandler,
	handler.NewPaymentHandler,
	handler.NewDisputeHandler,
	handler.NewInventoryHandler,
)

// provideJWTManager 从配置创建JWT管理器
func provideJWTManager(cfg *config.Config) *jwt.Manager {
	return jwt.NewManager(
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpire,
		cfg.JWT.RefreshTokenExpire,
	)
}

// provideSessionStore 从Redis客户端创建Session存储
func provideSessionStore(client *goredis.Client) *redis.SessionStore {
	return redis.NewSessionStore(client)
}

// provideProviderClient 从配置创建支付网关客户端
func provideProviderClient(cfg *config.Config) *provider.Client {
	return provider.NewClient(cfg.Provider)
}

// providePublisher 创建MQ发布器，MQ不可用时降级为nil
func providePublisher(cfg *config.Config) notification.Publisher {
	p, err := mq.NewPublisher(cfg.MQ.URL, cfg.MQ.Exchange, "topic")
	if err != nil {
		return nil
	}
	return p
}

// provideNotifier 创建事件通知器
func provideNotifier(cfg *config.Config, publisher notification.Publisher) *notification.Notifier {
	return notification.NewNotifier(publisher, cfg.MQ.Exchange)
}

// provideGinEngine 创建Gin引擎并注册全部路由
func provideGinEngine(
	cfg *config.Config,
	orderHandler *handler.OrderHandler,
	paymentHandler *handler.PaymentHandler,
	disputeHandler *handler.DisputeHandler,
	inventoryHandler *handler.InventoryHandler,
	authMiddleware *middleware.AuthMiddleware,
) *gin.Engine {
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()
	r.Use(middleware.Metrics())

	registerRoutes(r, orderHandler, paymentHandler, disputeHandler, inventoryHandler, authMiddleware)
	return r
}

// InitializeApp 初始化整个应用
func InitializeApp() (*gin.Engine, error) {
	wire.Build(
		infrastructureSet,
		repositorySet,
		applicationSet,
		middlewareSet,
		handlerSet,
		provideGinEngine,
	)
	return nil, nil
}
