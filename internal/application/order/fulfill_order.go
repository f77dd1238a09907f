package order

import (
	"context"
	"log"

	"github.com/liuwen/marketplace/internal/application/notification"
	"github.com/liuwen/marketplace/internal/domain/inventory"
	"github.com/liuwen/marketplace/internal/domain/order"
)

// FulfillOrderUseCase 支付成功后的订单推进用例
// 由支付对账引擎在回调确认后调用，不直接暴露HTTP接口
type FulfillOrderUseCase struct {
	orderRepo     order.Repository
	inventoryRepo inventory.Repository
	txManager     TxManager
	notifier      *notification.Notifier
}

// NewFulfillOrderUseCase 创建订单推进用例
func NewFulfillOrderUseCase(
	orderRepo order.Repository,
	inventoryRepo inventory.Repository,
	txManager TxManager,
	notifier *notification.Notifier,
) *FulfillOrderUseCase {
	return &FulfillOrderUseCase{
		orderRepo:     orderRepo,
		inventoryRepo: inventoryRepo,
		txManager:     txManager,
		notifier:      notifier,
	}
}

// AdvanceOnPaymentSuccess 支付成功推进订单
//
// 流程：
//  1. 订单转PAID（状态机校验，已是PAID及之后状态的订单直接跳过）
//  2. 逐明细将预占库存转为售出（Commit）
//
// 库存转换失败只记录日志，订单状态推进不回滚：支付已真实发生，
// 库存计数偏差由对账任务修正。
func (uc *FulfillOrderUseCase) AdvanceOnPaymentSuccess(ctx context.Context, orderID uint) error {
	o, err := uc.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return err
	}

	if !o.CanTransitionTo(order.StatusPaid) {
		// 重复回调或订单已推进，幂等跳过
		log.Printf("订单无需推进: order_id=%d, status=%s", o.ID, o.Status)
		return nil
	}

	err = uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		if err := o.MarkPaid(); err != nil {
			return err
		}
		return uc.orderRepo.Update(txCtx, o)
	})
	if err != nil {
		return err
	}

	for _, item := range o.Items {
		if err := uc.inventoryRepo.Commit(ctx, item.VariantID, item.Quantity, o.ID); err != nil {
			log.Printf("预占转售出失败: order_id=%d, variant_id=%d, err=%v", o.ID, item.VariantID, err)
		}
	}

	uc.notifier.OrderStatusChanged(o.ID, o.OrderNo, o.BuyerID, o.Status.String())
	return nil
}
