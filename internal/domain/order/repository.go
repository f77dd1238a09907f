package order

import (
	"context"
)

// Repository 订单仓储接口（依赖倒置，infrastructure层实现）
type Repository interface {
	// Create 创建订单（订单和明细必须在同一事务中持久化）
	Create(ctx context.Context, order *Order) error

	// FindByID 根据ID查找订单（包含明细）
	FindByID(ctx context.Context, id uint) (*Order, error)

	// FindByOrderNo 根据订单号查找订单
	FindByOrderNo(ctx context.Context, orderNo string) (*Order, error)

	// Update 更新订单（主要用于状态更新，不更新明细）
	Update(ctx context.Context, order *Order) error

	// UpdateItemStatus 更新单条明细状态
	UpdateItemStatus(ctx context.Context, itemID uint, status ItemStatus) error

	// ListByBuyerID 分页查询买家的订单列表
	ListByBuyerID(ctx context.Context, buyerID uint, page, pageSize int) ([]*Order, int64, error)
}
