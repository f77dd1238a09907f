package inventory

import "context"

// Repository 库存仓储接口（领域层定义，infrastructure层实现）
//
// 并发契约：Reserve/Release/Commit/Restock对同一variant必须是单次原子的
// 读-改-写（行锁或每variant互斥锁），不同variant之间互不阻塞
type Repository interface {
	// GetByVariantID 查询库存记录
	GetByVariantID(ctx context.Context, variantID uint) (*Record, error)

	// Create 创建库存记录（上架新规格时）
	Create(ctx context.Context, rec *Record) error

	// Reserve 预占库存
	// 可预占量不足返回ErrInsufficientStock且不产生任何变更
	Reserve(ctx context.Context, variantID uint, qty int, orderID uint) error

	// Release 释放预占（夹取到零，重复释放安全）
	Release(ctx context.Context, variantID uint, qty int, orderID uint, reason string) error

	// Commit 预占转售出（支付成功）
	Commit(ctx context.Context, variantID uint, qty int, orderID uint) error

	// Restock 补充可售库存
	Restock(ctx context.Context, variantID uint, qty int) error
}

// LogRepository 库存日志仓储接口
type LogRepository interface {
	ListByVariantID(ctx context.Context, variantID uint, page, pageSize int) ([]*Log, int64, error)
	ListByOrderID(ctx context.Context, orderID uint) ([]*Log, error)
}
