package order

import (
	"context"
	"log"

	"github.com/liuwen/marketplace/internal/application/notification"
	"github.com/liuwen/marketplace/internal/domain/inventory"
	"github.com/liuwen/marketplace/internal/domain/order"
	apperrors "github.com/liuwen/marketplace/pkg/errors"
	"github.com/liuwen/marketplace/pkg/metrics"
)

// CancelOrderUseCase 取消订单用例
// 取消只允许待支付/已下单/已支付三个状态；发货后只能走退货/纠纷流程
type CancelOrderUseCase struct {
	orderRepo     order.Repository
	inventoryRepo inventory.Repository
	txManager     TxManager
	notifier      *notification.Notifier
}

// NewCancelOrderUseCase 创建取消订单用例
func NewCancelOrderUseCase(
	orderRepo order.Repository,
	inventoryRepo inventory.Repository,
	txManager TxManager,
	notifier *notification.Notifier,
) *CancelOrderUseCase {
	return &CancelOrderUseCase{
		orderRepo:     orderRepo,
		inventoryRepo: inventoryRepo,
		txManager:     txManager,
		notifier:      notifier,
	}
}

// CancelOrderRequest 取消订单请求
type CancelOrderRequest struct {
	OrderID uint
	BuyerID uint // 从JWT中提取，校验归属
}

// Execute 执行取消
//
// 流程：
//  1. 校验订单归属与可取消状态
//  2. 事务内：订单转CANCELLED + 明细转cancelled
//  3. 逐明细释放预占库存（夹取到零，重复释放安全）
//
// 库存释放放在事务提交后执行：即使个别释放失败（记录日志，
// 留待对账补偿），订单取消本身也已生效。
func (uc *CancelOrderUseCase) Execute(ctx context.Context, req CancelOrderRequest) error {
	o, err := uc.orderRepo.FindByID(ctx, req.OrderID)
	if err != nil {
		return err
	}

	if !o.IsOwnedBy(req.BuyerID) {
		return apperrors.ErrForbidden
	}

	if err := o.Cancel(); err != nil {
		return err
	}

	err = uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		if err := uc.orderRepo.Update(txCtx, o); err != nil {
			return err
		}
		for _, item := range o.Items {
			if err := uc.orderRepo.UpdateItemStatus(txCtx, item.ID, order.ItemStatusCancelled); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	for _, item := range o.Items {
		if err := uc.inventoryRepo.Release(ctx, item.VariantID, item.Quantity, o.ID, "订单取消"); err != nil {
			log.Printf("取消订单释放库存失败: order_id=%d, variant_id=%d, err=%v", o.ID, item.VariantID, err)
		}
	}

	metrics.IncCounter(metrics.OrdersCancelledTotal)
	uc.notifier.OrderCancelled(o.ID, o.OrderNo, o.BuyerID)

	return nil
}
