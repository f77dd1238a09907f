// Package memory 提供各仓储接口的内存实现
//
// 用途：应用层单元测试与本地快速联调，无需MySQL/Redis。
// 并发契约与MySQL实现一致：库存变更对同一variant串行执行。
package memory

import "context"

// TxManager 内存事务管理器（直接透传）
// 内存实现没有真正的事务语义，fn中的操作立即生效
type TxManager struct{}

// NewTxManager 创建内存事务管理器
func NewTxManager() *TxManager {
	return &TxManager{}
}

// Transaction 直接执行fn
func (m *TxManager) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
