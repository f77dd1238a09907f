package payment

import (
	"context"

	"github.com/liuwen/marketplace/internal/domain/order"
	"github.com/liuwen/marketplace/internal/domain/payment"
	apperrors "github.com/liuwen/marketplace/pkg/errors"
)

// TxManager 事务边界抽象
type TxManager interface {
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// ProviderClient 支付网关客户端
// 生产实现包一层熔断器，网关长时间不可用时快速失败
type ProviderClient interface {
	// CreateCharge 在网关侧发起扣款，结果通过异步回调送达
	CreateCharge(ctx context.Context, provider, reference string, amount int64) error
}

// InitiatePaymentUseCase 发起支付用例
type InitiatePaymentUseCase struct {
	paymentRepo payment.Repository
	orderRepo   order.Repository
	provider    ProviderClient
	txManager   TxManager
}

// NewInitiatePaymentUseCase 创建发起支付用例
func NewInitiatePaymentUseCase(
	paymentRepo payment.Repository,
	orderRepo order.Repository,
	provider ProviderClient,
	txManager TxManager,
) *InitiatePaymentUseCase {
	return &InitiatePaymentUseCase{
		paymentRepo: paymentRepo,
		orderRepo:   orderRepo,
		provider:    provider,
		txManager:   txManager,
	}
}

// InitiatePaymentRequest 发起支付请求
type InitiatePaymentRequest struct {
	OrderID  uint
	BuyerID  uint   // 从JWT中提取，校验归属
	Provider string // COD / MOBILE_MONEY / CARD
}

// InitiatePaymentResponse 发起支付响应
type InitiatePaymentResponse struct {
	PaymentID uint   `json:"payment_id"`
	Reference string `json:"reference"`
	Amount    int64  `json:"amount"`
	Status    string `json:"status"`
}

// Execute 发起支付
//
// 流程：
//  1. 校验订单归属与状态（只有待支付/已下单的订单可发起）
//  2. 创建PENDING流水，Reference为幂等键
//  3. 线下方式（COD）直接推进到INITIATED，无需网关
//  4. 在线方式调用网关CreateCharge，结果等待异步回调
//
// 网关调用失败时流水标记FAILED，买家可重新发起（产生新流水）
func (uc *InitiatePaymentUseCase) Execute(ctx context.Context, req InitiatePaymentRequest) (*InitiatePaymentResponse, error) {
	switch req.Provider {
	case payment.ProviderCOD, payment.ProviderMobileMoney, payment.ProviderCard:
	default:
		return nil, apperrors.ErrInvalidParams
	}

	o, err := uc.orderRepo.FindByID(ctx, req.OrderID)
	if err != nil {
		return nil, err
	}
	if !o.IsOwnedBy(req.BuyerID) {
		return nil, apperrors.ErrForbidden
	}
	if o.Status != order.StatusPendingPayment && o.Status != order.StatusPlaced {
		return nil, order.ErrInvalidStatusTransition
	}

	reference := payment.GenerateReference()
	p := payment.NewPayment(o.ID, req.Provider, o.TotalAmount, reference)

	err = uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		return uc.paymentRepo.Create(txCtx, p)
	})
	if err != nil {
		return nil, err
	}

	if payment.IsOfflineProvider(req.Provider) {
		// 货到付款无需网关，直接进入等待履约的INITIATED状态
		if err := p.MarkInitiated(); err != nil {
			return nil, err
		}
		if err := uc.paymentRepo.Update(ctx, p); err != nil {
			return nil, err
		}
	} else {
		if err := uc.provider.CreateCharge(ctx, req.Provider, reference, o.TotalAmount); err != nil {
			_ = p.MarkFailed("网关调用失败")
			if uerr := uc.paymentRepo.Update(ctx, p); uerr != nil {
				return nil, uerr
			}
			return nil, apperrors.New(apperrors.ErrCodeProviderError, "支付网关暂不可用，请稍后重试")
		}
		if err := p.MarkInitiated(); err != nil {
			return nil, err
		}
		if err := uc.paymentRepo.Update(ctx, p); err != nil {
			return nil, err
		}
	}

	return &InitiatePaymentResponse{
		PaymentID: p.ID,
		Reference: p.Reference,
		Amount:    p.Amount,
		Status:    p.Status.String(),
	}, nil
}
