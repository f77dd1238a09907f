package order

import (
	"context"
	"fmt"
	"time"

	"github.com/liuwen/marketplace/internal/application/notification"
	"github.com/liuwen/marketplace/internal/domain/catalog"
	"github.com/liuwen/marketplace/internal/domain/inventory"
	"github.com/liuwen/marketplace/internal/domain/order"
	"github.com/liuwen/marketplace/pkg/metrics"
	"github.com/liuwen/marketplace/pkg/saga"
)

// CreateOrderUseCase 创建订单用例
// 涉及：多商品库存预占、失败回滚、价格快照
type CreateOrderUseCase struct {
	orderRepo     order.Repository
	variantRepo   catalog.Repository
	inventoryRepo inventory.Repository
	txManager     TxManager
	notifier      *notification.Notifier
}

// NewCreateOrderUseCase 创建下单用例
func NewCreateOrderUseCase(
	orderRepo order.Repository,
	variantRepo catalog.Repository,
	inventoryRepo inventory.Repository,
	txManager TxManager,
	notifier *notification.Notifier,
) *CreateOrderUseCase {
	return &CreateOrderUseCase{
		orderRepo:     orderRepo,
		variantRepo:   variantRepo,
		inventoryRepo: inventoryRepo,
		txManager:     txManager,
		notifier:      notifier,
	}
}

// CreateOrderRequest 下单请求DTO
type CreateOrderRequest struct {
	BuyerID           uint              // 买家用户ID（从JWT中提取）
	DeliveryAddressID uint              // 收货地址ID
	Items             []CreateOrderItem // 订单明细
}

// CreateOrderItem 订单明细项
type CreateOrderItem struct {
	VariantID uint // 商品变体ID
	Quantity  int  // 购买数量
}

// CreateOrderResponse 下单响应DTO
type CreateOrderResponse struct {
	OrderID   uint   `json:"order_id"`
	OrderNo   string `json:"order_no"`
	Total     int64  `json:"total"`
	TotalYuan string `json:"total_yuan"`
	Status    string `json:"status"`
	CreatedAt string `json:"created_at"`
}

// Execute 执行下单用例
//
// 核心约束：任一商品库存不足时，已预占的库存必须全部释放，
// 订单不落库——即下单对库存的影响要么全部生效，要么完全不生效。
//
// 实现方式：Saga补偿事务
//  1. 逐商品预占库存（每个预占步骤的补偿为等量释放）
//  2. 最后一步在数据库事务中落库订单
//  3. 任一步失败，逆序释放此前预占的全部库存
func (uc *CreateOrderUseCase) Execute(ctx context.Context, req CreateOrderRequest) (*CreateOrderResponse, error) {
	start := time.Now()

	if len(req.Items) == 0 {
		return nil, order.ErrInvalidOrderItems
	}

	// 校验数量并加载商品（取锁定时的价格快照，防止改价攻击）
	variants := make(map[uint]*catalog.Variant, len(req.Items))
	seen := make(map[uint]bool, len(req.Items))
	for _, item := range req.Items {
		if item.Quantity <= 0 {
			return nil, order.ErrInvalidQuantity
		}
		if seen[item.VariantID] {
			return nil, order.ErrInvalidOrderItems
		}
		seen[item.VariantID] = true

		v, err := uc.variantRepo.FindByID(ctx, item.VariantID)
		if err != nil {
			return nil, err
		}
		variants[item.VariantID] = v
	}

	// 构建订单实体（单价与卖家取自数据库快照）
	orderItems := make([]order.OrderItem, len(req.Items))
	for i, item := range req.Items {
		v := variants[item.VariantID]
		orderItems[i] = order.OrderItem{
			VariantID: item.VariantID,
			SellerID:  v.SellerID,
			Quantity:  item.Quantity,
			UnitPrice: v.Price,
			Status:    order.ItemStatusPending,
		}
	}

	var total int64
	for _, item := range orderItems {
		total += item.UnitPrice * int64(item.Quantity)
	}

	orderNo := order.GenerateOrderNo()
	newOrder := order.NewOrder(orderNo, req.BuyerID, orderItems, total, req.DeliveryAddressID)

	// Saga：逐商品预占库存，最后落库订单
	sg := saga.NewSaga(30 * time.Second)
	sg.OnCompensation(func(failed []string) {
		metrics.IncCounter(metrics.SagaCompensationsTotal)
	})

	for _, item := range req.Items {
		variantID, quantity := item.VariantID, item.Quantity
		sg.AddStep(
			fmt.Sprintf("预占库存:variant=%d", variantID),
			func(ctx context.Context) error {
				return uc.inventoryRepo.Reserve(ctx, variantID, quantity, 0)
			},
			func(ctx context.Context) error {
				return uc.inventoryRepo.Release(ctx, variantID, quantity, 0, "下单失败回滚")
			},
		)
	}

	sg.AddStep("落库订单",
		func(ctx context.Context) error {
			return uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
				return uc.orderRepo.Create(txCtx, newOrder)
			})
		},
		nil,
	)

	if err := sg.Execute(ctx); err != nil {
		metrics.IncCounter(metrics.OrdersFailedTotal)
		metrics.IncCounterVec(metrics.SagaExecutionsTotal, map[string]string{"result": "failure"})
		return nil, err
	}

	metrics.IncCounter(metrics.OrdersPlacedTotal)
	metrics.IncCounterVec(metrics.SagaExecutionsTotal, map[string]string{"result": "success"})
	metrics.ObserveHistogram(metrics.OrderCreationDuration, time.Since(start).Seconds())

	uc.notifier.OrderPlaced(newOrder.ID, newOrder.OrderNo, newOrder.BuyerID, newOrder.TotalAmount)

	return &CreateOrderResponse{
		OrderID:   newOrder.ID,
		OrderNo:   newOrder.OrderNo,
		Total:     newOrder.TotalAmount,
		TotalYuan: formatPrice(newOrder.TotalAmount),
		Status:    newOrder.Status.String(),
		CreatedAt: newOrder.CreatedAt.Format("2006-01-02 15:04:05"),
	}, nil
}

// formatPrice 格式化价格（分→元）
func formatPrice(priceFen int64) string {
	yuan := float64(priceFen) / 100.0
	return fmt.Sprintf("%.2f", yuan)
}
