package payment

import (
	"context"

	"github.com/liuwen/marketplace/internal/domain/payment"
)

// GetPaymentsUseCase 支付流水查询用例
type GetPaymentsUseCase struct {
	paymentRepo payment.Repository
}

// NewGetPaymentsUseCase 创建支付查询用例
func NewGetPaymentsUseCase(paymentRepo payment.Repository) *GetPaymentsUseCase {
	return &GetPaymentsUseCase{paymentRepo: paymentRepo}
}

// PaymentDTO 支付流水DTO
type PaymentDTO struct {
	ID            uint   `json:"id"`
	OrderID       uint   `json:"order_id"`
	Provider      string `json:"provider"`
	Amount        int64  `json:"amount"`
	Status        string `json:"status"`
	Reference     string `json:"reference"`
	TransactionID string `json:"transaction_id,omitempty"`
	FailureReason string `json:"failure_reason,omitempty"`
	CreatedAt     string `json:"created_at"`
}

// GetByReference 按幂等键查询流水
func (uc *GetPaymentsUseCase) GetByReference(ctx context.Context, reference string) (*PaymentDTO, error) {
	p, err := uc.paymentRepo.FindByReference(ctx, reference)
	if err != nil {
		return nil, err
	}
	dto := toPaymentDTO(p)
	return &dto, nil
}

// ListByOrder 查询订单全部流水（含退款流水）
func (uc *GetPaymentsUseCase) ListByOrder(ctx context.Context, orderID uint) ([]PaymentDTO, error) {
	payments, err := uc.paymentRepo.ListByOrderID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	list := make([]PaymentDTO, len(payments))
	for i, p := range payments {
		list[i] = toPaymentDTO(p)
	}
	return list, nil
}

func toPaymentDTO(p *payment.Payment) PaymentDTO {
	return PaymentDTO{
		ID:            p.ID,
		OrderID:       p.OrderID,
		Provider:      p.Provider,
		Amount:        p.Amount,
		Status:        p.Status.String(),
		Reference:     p.Reference,
		TransactionID: p.TransactionID,
		FailureReason: p.FailureReason,
		CreatedAt:     p.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}
