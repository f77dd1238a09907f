package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/liuwen/marketplace/internal/domain/inventory"
	apperrors "github.com/liuwen/marketplace/pkg/errors"
)

// inventoryRepository 库存仓储实现（MySQL）
//
// 并发控制：每个变更操作在事务内先SELECT FOR UPDATE锁定库存行，
// 再执行领域方法并落库，同一variant的并发变更在行锁上串行化。
// 每次变更同事务写入一条inventory_logs流水。
type inventoryRepository struct {
	db *gorm.DB
}

// NewInventoryRepository 创建库存仓储
func NewInventoryRepository(db *gorm.DB) inventory.Repository {
	return &inventoryRepository{db: db}
}

// GetByVariantID 查询库存记录
func (r *inventoryRepository) GetByVariantID(ctx context.Context, variantID uint) (*inventory.Record, error) {
	var rec inventory.Record
	db := dbFromContext(ctx, r.db)
	if err := db.First(&rec, "variant_id = ?", variantID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, inventory.ErrRecordNotFound
		}
		return nil, apperrors.Wrap(err, "查询库存失败")
	}
	return &rec, nil
}

// Create 创建库存记录
func (r *inventoryRepository) Create(ctx context.Context, rec *inventory.Record) error {
	if err := rec.Validate(); err != nil {
		return err
	}
	db := dbFromContext(ctx, r.db)
	if err := db.Create(rec).Error; err != nil {
		if isDuplicateError(err) {
			return apperrors.New(apperrors.ErrCodeDuplicateEntry, "库存记录已存在")
		}
		return apperrors.Wrap(err, "创建库存记录失败")
	}
	return nil
}

// Reserve 预占库存
func (r *inventoryRepository) Reserve(ctx context.Context, variantID uint, qty int, orderID uint) error {
	return r.mutate(ctx, variantID, func(rec *inventory.Record) (inventory.ChangeType, int, uint, string, error) {
		if err := rec.Reserve(qty); err != nil {
			return "", 0, 0, "", err
		}
		return inventory.ChangeTypeReserve, qty, orderID, "", nil
	})
}

// Release 释放预占（夹取到零，重复释放安全）
func (r *inventoryRepository) Release(ctx context.Context, variantID uint, qty int, orderID uint, reason string) error {
	return r.mutate(ctx, variantID, func(rec *inventory.Record) (inventory.ChangeType, int, uint, string, error) {
		released := rec.Release(qty)
		return inventory.ChangeTypeRelease, released, orderID, reason, nil
	})
}

// Commit 预占转售出（支付成功）
func (r *inventoryRepository) Commit(ctx context.Context, variantID uint, qty int, orderID uint) error {
	return r.mutate(ctx, variantID, func(rec *inventory.Record) (inventory.ChangeType, int, uint, string, error) {
		rec.Commit(qty)
		return inventory.ChangeTypeCommit, qty, orderID, "", nil
	})
}

// Restock 补货
func (r *inventoryRepository) Restock(ctx context.Context, variantID uint, qty int) error {
	return r.mutate(ctx, variantID, func(rec *inventory.Record) (inventory.ChangeType, int, uint, string, error) {
		if err := rec.Restock(qty); err != nil {
			return "", 0, 0, "", err
		}
		return inventory.ChangeTypeRestock, qty, 0, "", nil
	})
}

// mutate 锁定库存行 → 执行领域变更 → 落库+写流水，全程同一事务
func (r *inventoryRepository) mutate(
	ctx context.Context,
	variantID uint,
	fn func(rec *inventory.Record) (inventory.ChangeType, int, uint, string, error),
) error {
	db := dbFromContext(ctx, r.db)
	return db.Transaction(func(tx *gorm.DB) error {
		var rec inventory.Record
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&rec, "variant_id = ?", variantID).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return inventory.ErrRecordNotFound
			}
			return apperrors.Wrap(err, "锁定库存失败")
		}

		before := rec

		changeType, qty, orderID, remark, err := fn(&rec)
		if err != nil {
			return err
		}

		if err := rec.Validate(); err != nil {
			return err
		}

		if err := tx.Save(&rec).Error; err != nil {
			return apperrors.Wrap(err, "更新库存失败")
		}

		logEntry := inventory.NewLog(changeType, &before, &rec, qty, orderID, remark)
		if err := tx.Create(logEntry).Error; err != nil {
			return apperrors.Wrap(err, "写入库存流水失败")
		}

		return nil
	})
}

// inventoryLogRepository 库存流水仓储实现（MySQL）
type inventoryLogRepository struct {
	db *gorm.DB
}

// NewInventoryLogRepository 创建库存流水仓储
func NewInventoryLogRepository(db *gorm.DB) inventory.LogRepository {
	return &inventoryLogRepository{db: db}
}

// ListByVariantID 分页查询变体的库存流水（按时间倒序）
func (r *inventoryLogRepository) ListByVariantID(ctx context.Context, variantID uint, page, pageSize int) ([]*inventory.Log, int64, error) {
	db := dbFromContext(ctx, r.db)

	var total int64
	if err := db.Model(&inventory.Log{}).Where("variant_id = ?", variantID).Count(&total).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "统计库存流水失败")
	}

	var logs []*inventory.Log
	err := db.Where("variant_id = ?", variantID).
		Order("created_at DESC, id DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&logs).Error
	if err != nil {
		return nil, 0, apperrors.Wrap(err, "查询库存流水失败")
	}

	return logs, total, nil
}

// ListByOrderID 查询订单关联的库存流水（对账用）
func (r *inventoryLogRepository) ListByOrderID(ctx context.Context, orderID uint) ([]*inventory.Log, error) {
	db := dbFromContext(ctx, r.db)

	var logs []*inventory.Log
	err := db.Where("order_id = ?", orderID).
		Order("created_at ASC, id ASC").
		Find(&logs).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "查询库存流水失败")
	}

	return logs, nil
}
