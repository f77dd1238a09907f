package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/liuwen/marketplace/internal/domain/payment"
	apperrors "github.com/liuwen/marketplace/pkg/errors"
)

// paymentRepository 支付仓储实现（MySQL）
// Reference上有唯一索引，LockByReference依赖该索引行锁串行化并发回调
type paymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository 创建支付仓储
func NewPaymentRepository(db *gorm.DB) payment.Repository {
	return &paymentRepository{db: db}
}

// Create 创建支付流水
func (r *paymentRepository) Create(ctx context.Context, p *payment.Payment) error {
	db := dbFromContext(ctx, r.db)
	if err := db.Create(p).Error; err != nil {
		if isDuplicateError(err) {
			return apperrors.New(apperrors.ErrCodeDuplicateEntry, "支付流水号已存在")
		}
		return apperrors.Wrap(err, "创建支付流水失败")
	}
	return nil
}

// FindByID 按ID查找
func (r *paymentRepository) FindByID(ctx context.Context, id uint) (*payment.Payment, error) {
	var p payment.Payment
	db := dbFromContext(ctx, r.db)
	if err := db.First(&p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, payment.ErrPaymentNotFound
		}
		return nil, apperrors.Wrap(err, "查询支付流水失败")
	}
	return &p, nil
}

// FindByReference 按幂等键查找
func (r *paymentRepository) FindByReference(ctx context.Context, reference string) (*payment.Payment, error) {
	var p payment.Payment
	db := dbFromContext(ctx, r.db)
	if err := db.Where("reference = ?", reference).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, payment.ErrPaymentNotFound
		}
		return nil, apperrors.Wrap(err, "查询支付流水失败")
	}
	return &p, nil
}

// LockByReference 按幂等键查找并加行锁（SELECT FOR UPDATE）
// 必须在事务中调用，锁在事务COMMIT/ROLLBACK时释放
func (r *paymentRepository) LockByReference(ctx context.Context, reference string) (*payment.Payment, error) {
	var p payment.Payment
	db := dbFromContext(ctx, r.db)
	err := db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("reference = ?", reference).
		First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, payment.ErrPaymentNotFound
		}
		return nil, apperrors.Wrap(err, "锁定支付流水失败")
	}
	return &p, nil
}

// ListByOrderID 查询订单的全部支付流水（按创建时间倒序）
func (r *paymentRepository) ListByOrderID(ctx context.Context, orderID uint) ([]*payment.Payment, error) {
	var payments []*payment.Payment
	db := dbFromContext(ctx, r.db)
	err := db.Where("order_id = ?", orderID).
		Order("created_at DESC, id DESC").
		Find(&payments).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "查询支付流水失败")
	}
	return payments, nil
}

// LatestCompletedByOrderID 订单最近一条已完成支付
func (r *paymentRepository) LatestCompletedByOrderID(ctx context.Context, orderID uint) (*payment.Payment, error) {
	var p payment.Payment
	db := dbFromContext(ctx, r.db)
	err := db.Where("order_id = ? AND status = ?", orderID, payment.StatusCompleted).
		Order("created_at DESC, id DESC").
		First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, payment.ErrPaymentNotFound
		}
		return nil, apperrors.Wrap(err, "查询支付流水失败")
	}
	return &p, nil
}

// Update 保存支付流水变更
func (r *paymentRepository) Update(ctx context.Context, p *payment.Payment) error {
	db := dbFromContext(ctx, r.db)
	if err := db.Save(p).Error; err != nil {
		return apperrors.Wrap(err, "更新支付流水失败")
	}
	return nil
}
