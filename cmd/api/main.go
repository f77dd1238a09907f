package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

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
	"github.com/liuwen/marketplace/pkg/metrics"
	"github.com/liuwen/marketplace/pkg/mq"
	"github.com/liuwen/marketplace/pkg/response"
)

func main() {
	// 1. 加载配置
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	fmt.Printf("✓ 配置加载成功\n")
	fmt.Printf("  - 服务端口: %d\n", cfg.Server.Port)
	fmt.Printf("  - 运行模式: %s\n", cfg.Server.Mode)
	fmt.Printf("  - 数据库: %s:%d/%s\n", cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)
	fmt.Printf("  - Redis: %s\n", cfg.Redis.Addr())

	// 2. 初始化监控指标
	metrics.InitMetrics()

	// 3. 初始化数据库连接
	db, err := mysql.NewDB(cfg)
	if err != nil {
		log.Fatalf("初始化数据库失败: %v", err)
	}

	// 4. 初始化Redis连接
	redisClient, err := redis.NewClient(cfg)
	if err != nil {
		log.Fatalf("初始化Redis失败: %v", err)
	}

	// 5. 初始化消息队列
	// MQ不可用不阻塞启动：Notifier对nil publisher静默降级，事件只丢日志
	var publisher notification.Publisher
	mqPublisher, err := mq.NewPublisher(cfg.MQ.URL, cfg.MQ.Exchange, "topic")
	if err != nil {
		log.Printf("初始化MQ失败，事件通知降级为日志: %v", err)
	} else {
		publisher = mqPublisher
		defer mqPublisher.Close()
	}

	// 6. 依赖注入（手动组装）
	// Repository ← UseCase ← Handler

	// 基础设施层
	txManager := mysql.NewTxManager(db)
	orderRepo := mysql.NewOrderRepository(db)
	variantRepo := mysql.NewVariantRepository(db)
	inventoryRepo := mysql.NewInventoryRepository(db)
	inventoryLogRepo := mysql.NewInventoryLogRepository(db)
	paymentRepo := mysql.NewPaymentRepository(db)
	disputeRepo := mysql.NewDisputeRepository(db)
	sessionStore := redis.NewSessionStore(redisClient)
	jwtManager := jwt.NewManager(
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpire,
		cfg.JWT.RefreshTokenExpire,
	)
	providerClient := provider.NewClient(cfg.Provider)
	notifier := notification.NewNotifier(publisher, cfg.MQ.Exchange)

	// 应用层
	createOrderUseCase := apporder.NewCreateOrderUseCase(orderRepo, variantRepo, inventoryRepo, txManager, notifier)
	cancelOrderUseCase := apporder.NewCancelOrderUseCase(orderRepo, inventoryRepo, txManager, notifier)
	fulfillOrderUseCase := apporder.NewFulfillOrderUseCase(orderRepo, inventoryRepo, txManager, notifier)
	updateStatusUseCase := apporder.NewUpdateStatusUseCase(orderRepo, txManager, notifier)
	getOrdersUseCase := apporder.NewGetOrdersUseCase(orderRepo)

	initiatePaymentUseCase := apppayment.NewInitiatePaymentUseCase(paymentRepo, orderRepo, providerClient, txManager)
	handleEventUseCase := apppayment.NewHandleEventUseCase(paymentRepo, fulfillOrderUseCase, txManager, notifier)
	refundUseCase := apppayment.NewRefundUseCase(paymentRepo, orderRepo, txManager, notifier)
	getPaymentsUseCase := apppayment.NewGetPaymentsUseCase(paymentRepo)

	openDisputeUseCase := appdispute.NewOpenDisputeUseCase(disputeRepo, orderRepo, txManager, notifier)
	resolveDisputeUseCase := appdispute.NewResolveDisputeUseCase(disputeRepo, paymentRepo, refundUseCase, txManager, notifier)
	manageDisputeUseCase := appdispute.NewManageDisputeUseCase(disputeRepo, txManager)

	manageStockUseCase := appinventory.NewManageStockUseCase(inventoryRepo, inventoryLogRepo)

	// 接口层
	orderHandler := handler.NewOrderHandler(createOrderUseCase, cancelOrderUseCase, updateStatusUseCase, getOrdersUseCase)
	paymentHandler := handler.NewPaymentHandler(initiatePaymentUseCase, handleEventUseCase, refundUseCase, getPaymentsUseCase)
	disputeHandler := handler.NewDisputeHandler(openDisputeUseCase, resolveDisputeUseCase, manageDisputeUseCase)
	inventoryHandler := handler.NewInventoryHandler(manageStockUseCase)
	authMiddleware := middleware.NewAuthMiddleware(jwtManager, sessionStore)

	// 7. 初始化Gin引擎
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()
	r.Use(middleware.Metrics())

	// 8. 注册路由
	registerRoutes(r, orderHandler, paymentHandler, disputeHandler, inventoryHandler, authMiddleware)

	// 9. 启动服务（优雅关闭）
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		fmt.Printf("\n🚀 服务启动成功！\n")
		fmt.Printf("   访问地址: http://localhost%s\n", addr)
		fmt.Printf("   健康检查: http://localhost%s/ping\n", addr)
		fmt.Printf("   API文档: http://localhost%s/swagger/index.html\n", addr)
		fmt.Printf("   监控指标: http://localhost%s/metrics\n", addr)
		fmt.Printf("\n按Ctrl+C停止服务\n\n")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("启动服务失败: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("正在关闭服务...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("关闭服务失败: %v", err)
	}
	log.Println("服务已退出")
}

// registerRoutes 注册路由
func registerRoutes(
	r *gin.Engine,
	orderHandler *handler.OrderHandler,
	paymentHandler *handler.PaymentHandler,
	disputeHandler *handler.DisputeHandler,
	inventoryHandler *handler.InventoryHandler,
	authMiddleware *middleware.AuthMiddleware,
) {
	// 健康检查
	r.GET("/ping", func(c *gin.Context) {
		response.Success(c, gin.H{
			"message": "pong",
			"status":  "healthy",
		})
	})

	// Prometheus指标
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Swagger文档
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// API路由组
	v1 := r.Group("/api/v1")
	{
		// 网关回调（网关侧无法携带用户Token，靠Reference幂等保护）
		v1.POST("/payments/webhook", paymentHandler.Webhook)

		// 买家接口（需要登录）
		authorized := v1.Group("")
		authorized.Use(authMiddleware.RequireAuth())
		{
			orders := authorized.Group("/orders")
			{
				orders.POST("", orderHandler.CreateOrder)
				orders.GET("", orderHandler.ListOrders)
				orders.GET("/:id", orderHandler.GetOrder)
				orders.POST("/:id/cancel", orderHandler.CancelOrder)
			}

			authorized.POST("/payments", paymentHandler.InitiatePayment)
			authorized.POST("/disputes", disputeHandler.OpenDispute)
		}

		// 管理端接口（需要admin角色）
		admin := v1.Group("/admin")
		admin.Use(authMiddleware.RequireAuth(), authMiddleware.RequireRole("admin"))
		{
			admin.GET("/orders/:id", orderHandler.AdminGetOrder)
			admin.PUT("/orders/:id/status", orderHandler.UpdateOrderStatus)
			admin.GET("/orders/:id/payments", paymentHandler.ListOrderPayments)

			admin.POST("/payments/refund", paymentHandler.Refund)

			admin.GET("/disputes", disputeHandler.ListDisputes)
			admin.GET("/disputes/:id", disputeHandler.GetDispute)
			admin.POST("/disputes/:id/assign", disputeHandler.AssignDispute)
			admin.POST("/disputes/:id/resolve", disputeHandler.ResolveDispute)
			admin.POST("/disputes/:id/close", disputeHandler.CloseDispute)

			admin.GET("/inventory/:variant_id", inventoryHandler.GetStock)
			admin.POST("/inventory/:variant_id/restock", inventoryHandler.Restock)
			admin.GET("/inventory/:variant_id/logs", inventoryHandler.ListStockLogs)
		}
	}
}
