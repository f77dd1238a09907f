package memory

import (
	"context"
	"sync"

	"github.com/liuwen/marketplace/internal/domain/payment"
	apperrors "github.com/liuwen/marketplace/pkg/errors"
)

// PaymentRepository 支付仓储内存实现
//
// 互斥锁只保护单次仓储调用，不跨越调用方的读-改-写序列：
// 并发的重复回调在这里不会像MySQL实现那样被行锁串行化。
// 测试按顺序投递回调，幂等语义依赖终态检查而非锁
type PaymentRepository struct {
	mu       sync.Mutex
	payments map[uint]*payment.Payment
	nextID   uint
}

// NewPaymentRepository 创建内存支付仓储
func NewPaymentRepository() *PaymentRepository {
	return &PaymentRepository{
		payments: make(map[uint]*payment.Payment),
		nextID:   1,
	}
}

// Create 创建支付流水
func (r *PaymentRepository) Create(ctx context.Context, p *payment.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.payments {
		if existing.Reference == p.Reference {
			return apperrors.New(apperrors.ErrCodeDuplicateEntry, "支付流水号已存在")
		}
	}

	p.ID = r.nextID
	r.nextID++
	cp := *p
	r.payments[p.ID] = &cp
	return nil
}

// FindByID 按ID查找
func (r *PaymentRepository) FindByID(ctx context.Context, id uint) (*payment.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.payments[id]
	if !ok {
		return nil, payment.ErrPaymentNotFound
	}
	cp := *p
	return &cp, nil
}

// FindByReference 按幂等键查找
func (r *PaymentRepository) FindByReference(ctx context.Context, reference string) (*payment.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.findByReferenceLocked(reference)
}

// LockByReference 按幂等键查找。
// 内存实现与FindByReference一致：返回副本且互斥锁随调用释放，
// 不持有到事务结束，没有MySQL实现的SELECT FOR UPDATE串行化效果
func (r *PaymentRepository) LockByReference(ctx context.Context, reference string) (*payment.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.findByReferenceLocked(reference)
}

func (r *PaymentRepository) findByReferenceLocked(reference string) (*payment.Payment, error) {
	for _, p := range r.payments {
		if p.Reference == reference {
			cp := *p
			return &cp, nil
		}
	}
	return nil, payment.ErrPaymentNotFound
}

// ListByOrderID 查询订单全部流水（ID倒序）
func (r *PaymentRepository) ListByOrderID(ctx context.Context, orderID uint) ([]*payment.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var matched []*payment.Payment
	for id := r.nextID; id >= 1; id-- {
		if p, ok := r.payments[id]; ok && p.OrderID == orderID {
			cp := *p
			matched = append(matched, &cp)
		}
	}
	return matched, nil
}

// LatestCompletedByOrderID 订单最近一条已完成支付
func (r *PaymentRepository) LatestCompletedByOrderID(ctx context.Context, orderID uint) (*payment.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id := r.nextID; id >= 1; id-- {
		if p, ok := r.payments[id]; ok && p.OrderID == orderID && p.Status == payment.StatusCompleted {
			cp := *p
			return &cp, nil
		}
	}
	return nil, payment.ErrPaymentNotFound
}

// Update 保存支付流水变更
func (r *PaymentRepository) Update(ctx context.Context, p *payment.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.payments[p.ID]; !ok {
		return payment.ErrPaymentNotFound
	}
	cp := *p
	r.payments[p.ID] = &cp
	return nil
}
