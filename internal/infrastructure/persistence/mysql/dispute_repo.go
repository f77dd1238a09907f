package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/liuwen/marketplace/internal/domain/dispute"
	apperrors "github.com/liuwen/marketplace/pkg/errors"
)

// disputeRepository 纠纷仓储实现（MySQL）
type disputeRepository struct {
	db *gorm.DB
}

// NewDisputeRepository 创建纠纷仓储
func NewDisputeRepository(db *gorm.DB) dispute.Repository {
	return &disputeRepository{db: db}
}

// Create 创建纠纷
func (r *disputeRepository) Create(ctx context.Context, d *dispute.Dispute) error {
	db := dbFromContext(ctx, r.db)
	if err := db.Create(d).Error; err != nil {
		return apperrors.Wrap(err, "创建纠纷失败")
	}
	return nil
}

// FindByID 按ID查询
func (r *disputeRepository) FindByID(ctx context.Context, id uint) (*dispute.Dispute, error) {
	var d dispute.Dispute
	db := dbFromContext(ctx, r.db)
	if err := db.First(&d, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, dispute.ErrDisputeNotFound
		}
		return nil, apperrors.Wrap(err, "查询纠纷失败")
	}
	return &d, nil
}

// FindActiveByOrderID 查询订单的活跃纠纷（OPEN/IN_PROGRESS）
func (r *disputeRepository) FindActiveByOrderID(ctx context.Context, orderID uint) (*dispute.Dispute, error) {
	var d dispute.Dispute
	db := dbFromContext(ctx, r.db)
	err := db.Where("order_id = ? AND status IN ?", orderID,
		[]dispute.Status{dispute.StatusOpen, dispute.StatusInProgress}).
		First(&d).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, dispute.ErrDisputeNotFound
		}
		return nil, apperrors.Wrap(err, "查询纠纷失败")
	}
	return &d, nil
}

// Update 保存纠纷变更
func (r *disputeRepository) Update(ctx context.Context, d *dispute.Dispute) error {
	db := dbFromContext(ctx, r.db)
	if err := db.Save(d).Error; err != nil {
		return apperrors.Wrap(err, "更新纠纷失败")
	}
	return nil
}

// ListByStatus 按状态分页查询
func (r *disputeRepository) ListByStatus(ctx context.Context, status dispute.Status, offset, limit int) ([]*dispute.Dispute, int64, error) {
	db := dbFromContext(ctx, r.db)

	var total int64
	if err := db.Model(&dispute.Dispute{}).Where("status = ?", status).Count(&total).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "统计纠纷失败")
	}

	var disputes []*dispute.Dispute
	err := db.Where("status = ?", status).
		Order("created_at ASC, id ASC").
		Offset(offset).
		Limit(limit).
		Find(&disputes).Error
	if err != nil {
		return nil, 0, apperrors.Wrap(err, "查询纠纷列表失败")
	}

	return disputes, total, nil
}
