package payment

import (
	"context"
	"log"

	"github.com/liuwen/marketplace/internal/application/notification"
	"github.com/liuwen/marketplace/internal/domain/order"
	"github.com/liuwen/marketplace/internal/domain/payment"
	"github.com/liuwen/marketplace/pkg/metrics"
)

// RefundUseCase 退款用例
//
// 退款不改写原支付流水，而是新建一条REFUNDED流水（独立Reference），
// 原流水保留完整审计轨迹。退款金额不得超过原流水金额。
type RefundUseCase struct {
	paymentRepo payment.Repository
	orderRepo   order.Repository
	txManager   TxManager
	notifier    *notification.Notifier
}

// NewRefundUseCase 创建退款用例
func NewRefundUseCase(
	paymentRepo payment.Repository,
	orderRepo order.Repository,
	txManager TxManager,
	notifier *notification.Notifier,
) *RefundUseCase {
	return &RefundUseCase{
		paymentRepo: paymentRepo,
		orderRepo:   orderRepo,
		txManager:   txManager,
		notifier:    notifier,
	}
}

// RefundRequest 退款请求
type RefundRequest struct {
	PaymentID uint
	Amount    int64  // 退款金额（分），必须>0且<=原流水金额
	Source    string // 退款来源（dispute/manual），用于打点
}

// RefundResponse 退款响应
type RefundResponse struct {
	RefundPaymentID uint   `json:"refund_payment_id"`
	Reference       string `json:"reference"`
	Amount          int64  `json:"amount"`
}

// Execute 执行退款
//
// 全额退款时尝试把订单推进到REFUNDED；订单当前状态不允许
// （如仍在SHIPPED）则只记录日志，退款流水本身已生效。
func (uc *RefundUseCase) Execute(ctx context.Context, req RefundRequest) (*RefundResponse, error) {
	source, err := uc.paymentRepo.FindByID(ctx, req.PaymentID)
	if err != nil {
		return nil, err
	}

	if !source.CanRefund() {
		return nil, payment.ErrPaymentNotRefundable
	}
	if req.Amount <= 0 || req.Amount > source.Amount {
		return nil, payment.ErrInvalidRefundAmount
	}

	refund := payment.NewRefund(source, req.Amount, payment.GenerateReference())

	err = uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		return uc.paymentRepo.Create(txCtx, refund)
	})
	if err != nil {
		return nil, err
	}

	if req.Source == "" {
		req.Source = "manual"
	}
	metrics.IncCounterVec(metrics.RefundsTotal, map[string]string{"source": req.Source})
	uc.notifier.RefundRecorded(refund.ID, refund.OrderID, refund.Reference, refund.Amount)

	// 全额退款尝试推进订单终态
	if req.Amount == source.Amount {
		o, err := uc.orderRepo.FindByID(ctx, source.OrderID)
		if err != nil {
			log.Printf("退款后查询订单失败: order_id=%d, err=%v", source.OrderID, err)
		} else if err := o.TransitionTo(order.StatusRefunded); err != nil {
			log.Printf("退款后订单无法转REFUNDED: order_id=%d, status=%s", o.ID, o.Status)
		} else if err := uc.orderRepo.Update(ctx, o); err != nil {
			log.Printf("退款后更新订单失败: order_id=%d, err=%v", o.ID, err)
		}
	}

	return &RefundResponse{
		RefundPaymentID: refund.ID,
		Reference:       refund.Reference,
		Amount:          refund.Amount,
	}, nil
}
