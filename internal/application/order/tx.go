package order

import "context"

// TxManager 事务边界抽象
// 生产环境为mysql.TxManager，测试中可用内存实现直接透传
type TxManager interface {
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error
}
