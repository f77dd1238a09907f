package dispute

import (
	"context"

	"github.com/liuwen/marketplace/internal/domain/dispute"
	apperrors "github.com/liuwen/marketplace/pkg/errors"
)

// ManageDisputeUseCase 纠纷管理用例（管理端：受理、关闭、查询）
type ManageDisputeUseCase struct {
	disputeRepo dispute.Repository
	txManager   TxManager
}

// NewManageDisputeUseCase 创建纠纷管理用例
func NewManageDisputeUseCase(disputeRepo dispute.Repository, txManager TxManager) *ManageDisputeUseCase {
	return &ManageDisputeUseCase{
		disputeRepo: disputeRepo,
		txManager:   txManager,
	}
}

// DisputeDTO 纠纷DTO
type DisputeDTO struct {
	ID              uint   `json:"id"`
	OrderID         uint   `json:"order_id"`
	Reason          string `json:"reason"`
	Description     string `json:"description,omitempty"`
	Status          string `json:"status"`
	AssignedAdminID uint   `json:"assigned_admin_id,omitempty"`
	Resolution      string `json:"resolution,omitempty"`
	RefundAmount    int64  `json:"refund_amount,omitempty"`
	ResolutionNotes string `json:"resolution_notes,omitempty"`
	RefundPending   bool   `json:"refund_pending"`
	CreatedAt       string `json:"created_at"`
	ResolvedAt      string `json:"resolved_at,omitempty"`
}

// Assign 受理纠纷（OPEN → IN_PROGRESS）
func (uc *ManageDisputeUseCase) Assign(ctx context.Context, disputeID, adminID uint) error {
	d, err := uc.disputeRepo.FindByID(ctx, disputeID)
	if err != nil {
		return err
	}
	if err := d.Assign(adminID); err != nil {
		return err
	}
	return uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		return uc.disputeRepo.Update(txCtx, d)
	})
}

// Close 关闭纠纷（RESOLVED → CLOSED）
func (uc *ManageDisputeUseCase) Close(ctx context.Context, disputeID uint) error {
	d, err := uc.disputeRepo.FindByID(ctx, disputeID)
	if err != nil {
		return err
	}
	if err := d.Close(); err != nil {
		return err
	}
	return uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		return uc.disputeRepo.Update(txCtx, d)
	})
}

// Get 查询纠纷详情
func (uc *ManageDisputeUseCase) Get(ctx context.Context, disputeID uint) (*DisputeDTO, error) {
	d, err := uc.disputeRepo.FindByID(ctx, disputeID)
	if err != nil {
		return nil, err
	}
	dto := ToDisputeDTO(d)
	return &dto, nil
}

// ListByStatusRequest 按状态分页查询请求
type ListByStatusRequest struct {
	Status   string
	Page     int
	PageSize int
}

// ListByStatusResponse 按状态分页查询响应
type ListByStatusResponse struct {
	List     []DisputeDTO `json:"list"`
	Total    int64        `json:"total"`
	Page     int          `json:"page"`
	PageSize int          `json:"page_size"`
}

// ListByStatus 管理端工作台：按状态分页查询
func (uc *ManageDisputeUseCase) ListByStatus(ctx context.Context, req ListByStatusRequest) (*ListByStatusResponse, error) {
	var status dispute.Status
	switch req.Status {
	case "open":
		status = dispute.StatusOpen
	case "in_progress":
		status = dispute.StatusInProgress
	case "resolved":
		status = dispute.StatusResolved
	case "closed":
		status = dispute.StatusClosed
	default:
		return nil, apperrors.ErrInvalidParams
	}

	if req.Page < 1 {
		req.Page = 1
	}
	if req.PageSize < 1 {
		req.PageSize = 20
	}
	if req.PageSize > 100 {
		req.PageSize = 100
	}

	disputes, total, err := uc.disputeRepo.ListByStatus(ctx, status, (req.Page-1)*req.PageSize, req.PageSize)
	if err != nil {
		return nil, err
	}

	list := make([]DisputeDTO, len(disputes))
	for i, d := range disputes {
		list[i] = ToDisputeDTO(d)
	}

	return &ListByStatusResponse{
		List:     list,
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
	}, nil
}

// ToDisputeDTO 实体转DTO
func ToDisputeDTO(d *dispute.Dispute) DisputeDTO {
	dto := DisputeDTO{
		ID:              d.ID,
		OrderID:         d.OrderID,
		Reason:          d.Reason,
		Description:     d.Description,
		Status:          d.Status.String(),
		AssignedAdminID: d.AssignedAdminID,
		Resolution:      string(d.Resolution),
		RefundAmount:    d.RefundAmount,
		ResolutionNotes: d.ResolutionNotes,
		RefundPending:   d.RefundPending,
		CreatedAt:       d.CreatedAt.Format("2006-01-02 15:04:05"),
	}
	if d.ResolvedAt != nil {
		dto.ResolvedAt = d.ResolvedAt.Format("2006-01-02 15:04:05")
	}
	return dto
}
