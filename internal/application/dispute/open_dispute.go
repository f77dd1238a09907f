package dispute

import (
	"context"
	"errors"

	"github.com/liuwen/marketplace/internal/application/notification"
	"github.com/liuwen/marketplace/internal/domain/dispute"
	"github.com/liuwen/marketplace/internal/domain/order"
	apperrors "github.com/liuwen/marketplace/pkg/errors"
	"github.com/liuwen/marketplace/pkg/metrics"
)

// TxManager 事务边界抽象
type TxManager interface {
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// OpenDisputeUseCase 买家发起纠纷用例
// 同一订单同一时刻最多一条活跃纠纷；发起纠纷不改变订单状态
type OpenDisputeUseCase struct {
	disputeRepo dispute.Repository
	orderRepo   order.Repository
	txManager   TxManager
	notifier    *notification.Notifier
}

// NewOpenDisputeUseCase 创建纠纷发起用例
func NewOpenDisputeUseCase(
	disputeRepo dispute.Repository,
	orderRepo order.Repository,
	txManager TxManager,
	notifier *notification.Notifier,
) *OpenDisputeUseCase {
	return &OpenDisputeUseCase{
		disputeRepo: disputeRepo,
		orderRepo:   orderRepo,
		txManager:   txManager,
		notifier:    notifier,
	}
}

// OpenDisputeRequest 发起纠纷请求
type OpenDisputeRequest struct {
	OrderID     uint
	BuyerID     uint // 从JWT中提取，校验归属
	Reason      string
	Description string
}

// OpenDisputeResponse 发起纠纷响应
type OpenDisputeResponse struct {
	DisputeID uint   `json:"dispute_id"`
	OrderID   uint   `json:"order_id"`
	Status    string `json:"status"`
}

// Execute 发起纠纷
func (uc *OpenDisputeUseCase) Execute(ctx context.Context, req OpenDisputeRequest) (*OpenDisputeResponse, error) {
	if req.Reason == "" {
		return nil, apperrors.ErrInvalidParams
	}

	o, err := uc.orderRepo.FindByID(ctx, req.OrderID)
	if err != nil {
		return nil, err
	}
	if !o.IsOwnedBy(req.BuyerID) {
		return nil, apperrors.ErrForbidden
	}

	d := dispute.NewDispute(req.OrderID, req.Reason, req.Description)

	// 活跃纠纷唯一性检查与创建放在同一事务，防止并发重复发起
	err = uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		_, err := uc.disputeRepo.FindActiveByOrderID(txCtx, req.OrderID)
		if err == nil {
			return dispute.ErrDuplicateDispute
		}
		if !errors.Is(err, dispute.ErrDisputeNotFound) {
			return err
		}
		return uc.disputeRepo.Create(txCtx, d)
	})
	if err != nil {
		return nil, err
	}

	metrics.IncCounter(metrics.DisputesOpenedTotal)
	uc.notifier.DisputeOpened(d.ID, d.OrderID)

	return &OpenDisputeResponse{
		DisputeID: d.ID,
		OrderID:   d.OrderID,
		Status:    d.Status.String(),
	}, nil
}
