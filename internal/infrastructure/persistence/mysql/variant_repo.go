package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/liuwen/marketplace/internal/domain/catalog"
	apperrors "github.com/liuwen/marketplace/pkg/errors"
)

// variantRepository 商品变体仓储实现（MySQL，只读）
type variantRepository struct {
	db *gorm.DB
}

// NewVariantRepository 创建商品变体仓储
func NewVariantRepository(db *gorm.DB) catalog.Repository {
	return &variantRepository{db: db}
}

// FindByID 按ID查询变体
func (r *variantRepository) FindByID(ctx context.Context, id uint) (*catalog.Variant, error) {
	var v catalog.Variant
	db := dbFromContext(ctx, r.db)
	if err := db.First(&v, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, catalog.ErrVariantNotFound
		}
		return nil, apperrors.Wrap(err, "查询商品变体失败")
	}
	return &v, nil
}
