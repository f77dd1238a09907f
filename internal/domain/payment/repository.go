package payment

import (
	"context"
)

// Repository 支付仓储接口
type Repository interface {
	Create(ctx context.Context, payment *Payment) error

	FindByID(ctx context.Context, id uint) (*Payment, error)

	// FindByReference 按幂等键查找
	FindByReference(ctx context.Context, reference string) (*Payment, error)

	// LockByReference 按幂等键查找并加行锁
	// 必须在事务中调用；回调去重依赖这把锁串行化同一Reference的并发事件
	LockByReference(ctx context.Context, reference string) (*Payment, error)

	// ListByOrderID 查询订单的全部支付流水（按创建时间倒序）
	ListByOrderID(ctx context.Context, orderID uint) ([]*Payment, error)

	// LatestCompletedByOrderID 订单最近一条已完成支付（无则ErrPaymentNotFound）
	LatestCompletedByOrderID(ctx context.Context, orderID uint) (*Payment, error)

	Update(ctx context.Context, payment *Payment) error
}
