package payment

import (
	"context"
	"log"

	"github.com/liuwen/marketplace/internal/application/notification"
	"github.com/liuwen/marketplace/internal/domain/payment"
	"github.com/liuwen/marketplace/pkg/metrics"
)

// 网关回调结果
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// ExternalEvent 网关回调事件（Webhook解析后）
type ExternalEvent struct {
	Provider      string
	Reference     string // 幂等键
	Outcome       string // success / failure
	TransactionID string
	Reason        string // 失败原因
	Raw           string // 原始报文
}

// OrderFulfiller 支付确认后的订单推进入口
type OrderFulfiller interface {
	AdvanceOnPaymentSuccess(ctx context.Context, orderID uint) error
}

// HandleEventUseCase 支付对账引擎：处理网关回调
//
// 幂等契约：同一Reference的回调重复送达（网关至少一次投递），
// 只有第一次生效，后续全部no-op。并发回调靠事务内行锁串行化。
type HandleEventUseCase struct {
	paymentRepo payment.Repository
	fulfiller   OrderFulfiller
	txManager   TxManager
	notifier    *notification.Notifier
}

// NewHandleEventUseCase 创建回调处理用例
func NewHandleEventUseCase(
	paymentRepo payment.Repository,
	fulfiller OrderFulfiller,
	txManager TxManager,
	notifier *notification.Notifier,
) *HandleEventUseCase {
	return &HandleEventUseCase{
		paymentRepo: paymentRepo,
		fulfiller:   fulfiller,
		txManager:   txManager,
		notifier:    notifier,
	}
}

// Execute 处理一次网关回调
//
// 流程（事务内）：
//  1. LockByReference锁定流水（并发回调在此串行化）
//  2. 流水已达终态 → 重复回调，no-op
//  3. 按Outcome标记COMPLETED/FAILED，留存原始报文
//
// 事务提交后：支付成功 → 推进订单（转PAID+预占转售出）。
// 订单推进失败只记录日志，不把错误传回网关（避免网关无限重试
// 一笔已正确入账的支付）。
func (uc *HandleEventUseCase) Execute(ctx context.Context, event ExternalEvent) error {
	if event.Outcome != OutcomeSuccess && event.Outcome != OutcomeFailure {
		return payment.ErrUnknownOutcome
	}

	var (
		p         *payment.Payment
		duplicate bool
	)

	err := uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		locked, err := uc.paymentRepo.LockByReference(txCtx, event.Reference)
		if err != nil {
			return err
		}

		if locked.IsTerminal() {
			duplicate = true
			p = locked
			return nil
		}

		if event.Outcome == OutcomeSuccess {
			if err := locked.MarkCompleted(event.TransactionID); err != nil {
				return err
			}
		} else {
			if err := locked.MarkFailed(event.Reason); err != nil {
				return err
			}
		}
		locked.RawCallback = event.Raw

		if err := uc.paymentRepo.Update(txCtx, locked); err != nil {
			return err
		}

		p = locked
		return nil
	})
	if err != nil {
		return err
	}

	if duplicate {
		metrics.IncCounterVec(metrics.PaymentEventsTotal, map[string]string{
			"provider": event.Provider, "result": "duplicate",
		})
		return nil
	}

	if p.Status == payment.StatusCompleted {
		metrics.IncCounterVec(metrics.PaymentEventsTotal, map[string]string{
			"provider": event.Provider, "result": "completed",
		})
		uc.notifier.PaymentSucceeded(p.ID, p.OrderID, p.Provider, p.Reference, p.Amount)

		if err := uc.fulfiller.AdvanceOnPaymentSuccess(ctx, p.OrderID); err != nil {
			log.Printf("支付成功后推进订单失败: order_id=%d, reference=%s, err=%v", p.OrderID, p.Reference, err)
		}
	} else {
		metrics.IncCounterVec(metrics.PaymentEventsTotal, map[string]string{
			"provider": event.Provider, "result": "failed",
		})
		uc.notifier.PaymentFailed(p.ID, p.OrderID, p.Provider, p.Reference)
	}

	return nil
}
