package memory

import (
	"context"
	"sync"

	"github.com/liuwen/marketplace/internal/domain/dispute"
)

// DisputeRepository 纠纷仓储内存实现
type DisputeRepository struct {
	mu       sync.Mutex
	disputes map[uint]*dispute.Dispute
	nextID   uint
}

// NewDisputeRepository 创建内存纠纷仓储
func NewDisputeRepository() *DisputeRepository {
	return &DisputeRepository{
		disputes: make(map[uint]*dispute.Dispute),
		nextID:   1,
	}
}

// Create 创建纠纷
func (r *DisputeRepository) Create(ctx context.Context, d *dispute.Dispute) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	d.ID = r.nextID
	r.nextID++
	cp := *d
	r.disputes[d.ID] = &cp
	return nil
}

// FindByID 按ID查询
func (r *DisputeRepository) FindByID(ctx context.Context, id uint) (*dispute.Dispute, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	d, ok := r.disputes[id]
	if !ok {
		return nil, dispute.ErrDisputeNotFound
	}
	cp := *d
	return &cp, nil
}

// FindActiveByOrderID 查询订单的活跃纠纷
func (r *DisputeRepository) FindActiveByOrderID(ctx context.Context, orderID uint) (*dispute.Dispute, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, d := range r.disputes {
		if d.OrderID == orderID && d.IsActive() {
			cp := *d
			return &cp, nil
		}
	}
	return nil, dispute.ErrDisputeNotFound
}

// Update 保存纠纷变更
func (r *DisputeRepository) Update(ctx context.Context, d *dispute.Dispute) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.disputes[d.ID]; !ok {
		return dispute.ErrDisputeNotFound
	}
	cp := *d
	r.disputes[d.ID] = &cp
	return nil
}

// ListByStatus 按状态分页查询（ID正序）
func (r *DisputeRepository) ListByStatus(ctx context.Context, status dispute.Status, offset, limit int) ([]*dispute.Dispute, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var matched []*dispute.Dispute
	for id := uint(1); id < r.nextID; id++ {
		if d, ok := r.disputes[id]; ok && d.Status == status {
			cp := *d
			matched = append(matched, &cp)
		}
	}

	total := int64(len(matched))
	if offset >= len(matched) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], total, nil
}
