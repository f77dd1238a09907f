package order

import (
	"context"

	"github.com/liuwen/marketplace/internal/application/notification"
	"github.com/liuwen/marketplace/internal/domain/order"
	apperrors "github.com/liuwen/marketplace/pkg/errors"
)

// UpdateStatusUseCase 订单状态推进用例（卖家/管理端）
// 覆盖确认、打包、发货、派送、送达等履约节点，
// 目标状态必须是当前状态在状态机中的合法后继
type UpdateStatusUseCase struct {
	orderRepo order.Repository
	txManager TxManager
	notifier  *notification.Notifier
}

// NewUpdateStatusUseCase 创建状态推进用例
func NewUpdateStatusUseCase(
	orderRepo order.Repository,
	txManager TxManager,
	notifier *notification.Notifier,
) *UpdateStatusUseCase {
	return &UpdateStatusUseCase{
		orderRepo: orderRepo,
		txManager: txManager,
		notifier:  notifier,
	}
}

// UpdateStatusRequest 状态推进请求
type UpdateStatusRequest struct {
	OrderID uint
	Target  string // API状态标识（如 shipped）
}

// Execute 执行状态推进
func (uc *UpdateStatusUseCase) Execute(ctx context.Context, req UpdateStatusRequest) error {
	target, ok := order.ParseStatus(req.Target)
	if !ok {
		return apperrors.ErrInvalidParams
	}

	// 取消/支付/退款带库存和资金副作用，只能走专用用例，
	// 直接置状态会让预占永远无法释放或提交
	switch target {
	case order.StatusCancelled, order.StatusPaid, order.StatusRefunded:
		return order.ErrStatusNotDirectlySettable
	}

	o, err := uc.orderRepo.FindByID(ctx, req.OrderID)
	if err != nil {
		return err
	}

	if err := o.TransitionTo(target); err != nil {
		return err
	}

	err = uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		return uc.orderRepo.Update(txCtx, o)
	})
	if err != nil {
		return err
	}

	uc.notifier.OrderStatusChanged(o.ID, o.OrderNo, o.BuyerID, o.Status.String())
	return nil
}
