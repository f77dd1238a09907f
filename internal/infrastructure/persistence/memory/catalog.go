package memory

import (
	"context"
	"sync"

	"github.com/liuwen/marketplace/internal/domain/catalog"
)

// VariantRepository 商品规格仓储内存实现，测试时用Seed预置数据
type VariantRepository struct {
	mu       sync.Mutex
	variants map[uint]*catalog.Variant
}

// NewVariantRepository 创建内存商品规格仓储
func NewVariantRepository() *VariantRepository {
	return &VariantRepository{
		variants: make(map[uint]*catalog.Variant),
	}
}

// Seed 预置规格数据
func (r *VariantRepository) Seed(variants ...*catalog.Variant) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, v := range variants {
		cp := *v
		r.variants[v.ID] = &cp
	}
}

// FindByID 按ID查询
func (r *VariantRepository) FindByID(ctx context.Context, id uint) (*catalog.Variant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	v, ok := r.variants[id]
	if !ok {
		return nil, catalog.ErrVariantNotFound
	}
	cp := *v
	return &cp, nil
}
