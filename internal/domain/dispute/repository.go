package dispute

import "context"

// Repository 纠纷仓储接口
type Repository interface {
	// Create 创建纠纷
	Create(ctx context.Context, d *Dispute) error
	// FindByID 按ID查询
	FindByID(ctx context.Context, id uint) (*Dispute, error)
	// FindActiveByOrderID 查询订单的活跃纠纷（OPEN/IN_PROGRESS），不存在返回ErrDisputeNotFound
	FindActiveByOrderID(ctx context.Context, orderID uint) (*Dispute, error)
	// Update 保存纠纷变更
	Update(ctx context.Context, d *Dispute) error
	// ListByStatus 按状态分页查询（管理端工作台）
	ListByStatus(ctx context.Context, status Status, offset, limit int) ([]*Dispute, int64, error)
}
