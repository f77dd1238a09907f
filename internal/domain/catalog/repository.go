package catalog

import "context"

// Repository 商品变体只读仓储（下单时取价格与卖家快照）
type Repository interface {
	FindByID(ctx context.Context, id uint) (*Variant, error)
}
