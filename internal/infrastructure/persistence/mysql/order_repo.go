package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/liuwen/marketplace/internal/domain/order"
	apperrors "github.com/liuwen/marketplace/pkg/errors"
)

// orderRepository 订单仓储实现（MySQL）
// Order与OrderItem是聚合关系，创建时一起保存；
// 查询使用Preload预加载明细，避免N+1
type orderRepository struct {
	db *gorm.DB
}

// NewOrderRepository 创建订单仓储
func NewOrderRepository(db *gorm.DB) order.Repository {
	return &orderRepository{db: db}
}

// Create 创建订单（GORM通过foreignKey自动保存Items）
func (r *orderRepository) Create(ctx context.Context, o *order.Order) error {
	db := dbFromContext(ctx, r.db)
	if err := db.Create(o).Error; err != nil {
		if isDuplicateError(err) {
			return apperrors.New(apperrors.ErrCodeDuplicateEntry, "订单号已存在")
		}
		return apperrors.Wrap(err, "创建订单失败")
	}
	return nil
}

// FindByID 根据ID查找订单（预加载明细）
func (r *orderRepository) FindByID(ctx context.Context, id uint) (*order.Order, error) {
	var o order.Order
	db := dbFromContext(ctx, r.db)
	err := db.Preload("Items").First(&o, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, order.ErrOrderNotFound
		}
		return nil, apperrors.Wrap(err, "查询订单失败")
	}
	return &o, nil
}

// FindByOrderNo 根据订单号查找订单
func (r *orderRepository) FindByOrderNo(ctx context.Context, orderNo string) (*order.Order, error) {
	var o order.Order
	db := dbFromContext(ctx, r.db)
	err := db.Preload("Items").Where("order_no = ?", orderNo).First(&o).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, order.ErrOrderNotFound
		}
		return nil, apperrors.Wrap(err, "查询订单失败")
	}
	return &o, nil
}

// Update 更新订单主记录（状态、金额），不级联明细
func (r *orderRepository) Update(ctx context.Context, o *order.Order) error {
	db := dbFromContext(ctx, r.db)
	err := db.Model(&order.Order{}).
		Where("id = ?", o.ID).
		Updates(map[string]interface{}{
			"status":       o.Status,
			"total_amount": o.TotalAmount,
			"updated_at":   o.UpdatedAt,
		}).Error
	if err != nil {
		return apperrors.Wrap(err, "更新订单失败")
	}
	return nil
}

// UpdateItemStatus 更新单条明细状态
func (r *orderRepository) UpdateItemStatus(ctx context.Context, itemID uint, status order.ItemStatus) error {
	db := dbFromContext(ctx, r.db)
	result := db.Model(&order.OrderItem{}).
		Where("id = ?", itemID).
		Update("status", status)
	if result.Error != nil {
		return apperrors.Wrap(result.Error, "更新订单明细失败")
	}
	if result.RowsAffected == 0 {
		return order.ErrItemNotFound
	}
	return nil
}

// ListByBuyerID 分页查询买家订单（按创建时间倒序）
func (r *orderRepository) ListByBuyerID(ctx context.Context, buyerID uint, page, pageSize int) ([]*order.Order, int64, error) {
	db := dbFromContext(ctx, r.db)

	var total int64
	if err := db.Model(&order.Order{}).Where("buyer_id = ?", buyerID).Count(&total).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "统计订单失败")
	}

	var orders []*order.Order
	err := db.Preload("Items").
		Where("buyer_id = ?", buyerID).
		Order("created_at DESC, id DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&orders).Error
	if err != nil {
		return nil, 0, apperrors.Wrap(err, "查询订单列表失败")
	}

	return orders, total, nil
}
