package mysql

import (
	"context"

	"gorm.io/gorm"
)

// txKey context中事务DB的key（非导出类型防止外部覆盖）
type txKey struct{}

// TxManager 事务管理器
// 封装GORM的Transaction，通过context传递事务DB；
// fn返回error时自动ROLLBACK，返回nil时自动COMMIT
type TxManager struct {
	db *gorm.DB
}

// NewTxManager 创建事务管理器
func NewTxManager(db *gorm.DB) *TxManager {
	return &TxManager{db: db}
}

// Transaction 执行事务
// fn内通过同一context调用的Repository操作共享同一事务
func (m *TxManager) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txCtx := context.WithValue(ctx, txKey{}, tx)
		return fn(txCtx)
	})
}

// dbFromContext 提取事务DB，没有事务时退回默认DB
func dbFromContext(ctx context.Context, fallback *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx
	}
	return fallback.WithContext(ctx)
}
