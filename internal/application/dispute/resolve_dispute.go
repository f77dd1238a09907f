package dispute

import (
	"context"
	"errors"

	"github.com/liuwen/marketplace/internal/application/notification"
	appPayment "github.com/liuwen/marketplace/internal/application/payment"
	"github.com/liuwen/marketplace/internal/domain/dispute"
	"github.com/liuwen/marketplace/internal/domain/payment"
	"github.com/liuwen/marketplace/pkg/metrics"
)

// Refunder 退款入口（由支付模块提供）
type Refunder interface {
	Execute(ctx context.Context, req appPayment.RefundRequest) (*appPayment.RefundResponse, error)
}

// ResolveDisputeUseCase 纠纷裁决用例
//
// 裁决与退款解耦：裁决结果先持久化（裁决本身总是生效），
// 需要退款时再找订单最近一条已完成支付执行退款。
// 订单无可退款支付时置RefundPending标记，留待人工补退。
type ResolveDisputeUseCase struct {
	disputeRepo dispute.Repository
	paymentRepo payment.Repository
	refunder    Refunder
	txManager   TxManager
	notifier    *notification.Notifier
}

// NewResolveDisputeUseCase 创建纠纷裁决用例
func NewResolveDisputeUseCase(
	disputeRepo dispute.Repository,
	paymentRepo payment.Repository,
	refunder Refunder,
	txManager TxManager,
	notifier *notification.Notifier,
) *ResolveDisputeUseCase {
	return &ResolveDisputeUseCase{
		disputeRepo: disputeRepo,
		paymentRepo: paymentRepo,
		refunder:    refunder,
		txManager:   txManager,
		notifier:    notifier,
	}
}

// ResolveDisputeRequest 裁决请求
type ResolveDisputeRequest struct {
	DisputeID    uint
	AdminID      uint
	Resolution   string // buyer_favored / seller_favored / partial_refund / mutual_agreement
	RefundAmount int64  // 退款金额（分），0表示不退款
	Notes        string
}

// Execute 执行裁决
//
// 返回的error为退款环节错误时（ErrNoRefundablePayment等），
// 裁决本身已持久化，调用方据此提示管理员退款待补。
func (uc *ResolveDisputeUseCase) Execute(ctx context.Context, req ResolveDisputeRequest) error {
	d, err := uc.disputeRepo.FindByID(ctx, req.DisputeID)
	if err != nil {
		return err
	}

	if err := d.Resolve(dispute.Resolution(req.Resolution), req.RefundAmount, req.Notes); err != nil {
		return err
	}
	if d.AssignedAdminID == 0 {
		d.AssignedAdminID = req.AdminID
	}

	// 裁决结果先落库
	err = uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		return uc.disputeRepo.Update(txCtx, d)
	})
	if err != nil {
		return err
	}

	metrics.IncCounterVec(metrics.DisputesResolvedTotal, map[string]string{
		"resolution": string(d.Resolution),
	})
	uc.notifier.DisputeResolved(d.ID, d.OrderID, string(d.Resolution))

	if req.RefundAmount <= 0 {
		return nil
	}

	// 执行退款：取订单最近一条已完成支付
	source, err := uc.paymentRepo.LatestCompletedByOrderID(ctx, d.OrderID)
	if err != nil {
		if errors.Is(err, payment.ErrPaymentNotFound) {
			return uc.markRefundPending(ctx, d, err)
		}
		return err
	}

	_, err = uc.refunder.Execute(ctx, appPayment.RefundRequest{
		PaymentID: source.ID,
		Amount:    req.RefundAmount,
		Source:    "dispute",
	})
	if err != nil {
		if errors.Is(err, payment.ErrInvalidRefundAmount) || errors.Is(err, payment.ErrPaymentNotRefundable) {
			return uc.markRefundPending(ctx, d, err)
		}
		return err
	}

	return nil
}

// markRefundPending 退款无法执行，置标记留待人工补退。
// 返回错误同时携带ErrNoRefundablePayment和具体原因，管理员能看到退款卡在哪
func (uc *ResolveDisputeUseCase) markRefundPending(ctx context.Context, d *dispute.Dispute, cause error) error {
	d.RefundPending = true
	err := uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		return uc.disputeRepo.Update(txCtx, d)
	})
	if err != nil {
		return err
	}
	return errors.Join(dispute.ErrNoRefundablePayment, cause)
}
