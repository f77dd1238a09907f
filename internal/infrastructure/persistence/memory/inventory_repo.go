package memory

import (
	"context"
	"sync"
	"time"

	"github.com/liuwen/marketplace/internal/domain/inventory"
)

// InventoryRepository 库存仓储内存实现
// 每个variant一把互斥锁，模拟MySQL实现的行锁串行化
type InventoryRepository struct {
	mu      sync.Mutex // 保护records/locks两个map本身
	records map[uint]*inventory.Record
	locks   map[uint]*sync.Mutex
	logs    []*inventory.Log
	logMu   sync.Mutex
}

// NewInventoryRepository 创建内存库存仓储
func NewInventoryRepository() *InventoryRepository {
	return &InventoryRepository{
		records: make(map[uint]*inventory.Record),
		locks:   make(map[uint]*sync.Mutex),
	}
}

// variantLock 取variant级互斥锁（懒初始化）
func (r *InventoryRepository) variantLock(variantID uint) *sync.Mutex {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.locks[variantID]; !ok {
		r.locks[variantID] = &sync.Mutex{}
	}
	return r.locks[variantID]
}

// GetByVariantID 查询库存记录（返回副本）
func (r *InventoryRepository) GetByVariantID(ctx context.Context, variantID uint) (*inventory.Record, error) {
	lock := r.variantLock(variantID)
	lock.Lock()
	defer lock.Unlock()

	rec, ok := r.records[variantID]
	if !ok {
		return nil, inventory.ErrRecordNotFound
	}
	cp := *rec
	return &cp, nil
}

// Create 创建库存记录
func (r *InventoryRepository) Create(ctx context.Context, rec *inventory.Record) error {
	if err := rec.Validate(); err != nil {
		return err
	}
	lock := r.variantLock(rec.VariantID)
	lock.Lock()
	defer lock.Unlock()

	cp := *rec
	cp.CreatedAt = time.Now()
	cp.UpdatedAt = cp.CreatedAt
	r.records[rec.VariantID] = &cp
	return nil
}

// Reserve 预占库存
func (r *InventoryRepository) Reserve(ctx context.Context, variantID uint, qty int, orderID uint) error {
	return r.mutate(variantID, func(rec *inventory.Record) (inventory.ChangeType, int, uint, string, error) {
		if err := rec.Reserve(qty); err != nil {
			return "", 0, 0, "", err
		}
		return inventory.ChangeTypeReserve, qty, orderID, "", nil
	})
}

// Release 释放预占
func (r *InventoryRepository) Release(ctx context.Context, variantID uint, qty int, orderID uint, reason string) error {
	return r.mutate(variantID, func(rec *inventory.Record) (inventory.ChangeType, int, uint, string, error) {
		released := rec.Release(qty)
		return inventory.ChangeTypeRelease, released, orderID, reason, nil
	})
}

// Commit 预占转售出
func (r *InventoryRepository) Commit(ctx context.Context, variantID uint, qty int, orderID uint) error {
	return r.mutate(variantID, func(rec *inventory.Record) (inventory.ChangeType, int, uint, string, error) {
		rec.Commit(qty)
		return inventory.ChangeTypeCommit, qty, orderID, "", nil
	})
}

// Restock 补货
func (r *InventoryRepository) Restock(ctx context.Context, variantID uint, qty int) error {
	return r.mutate(variantID, func(rec *inventory.Record) (inventory.ChangeType, int, uint, string, error) {
		if err := rec.Restock(qty); err != nil {
			return "", 0, 0, "", err
		}
		return inventory.ChangeTypeRestock, qty, 0, "", nil
	})
}

func (r *InventoryRepository) mutate(
	variantID uint,
	fn func(rec *inventory.Record) (inventory.ChangeType, int, uint, string, error),
) error {
	lock := r.variantLock(variantID)
	lock.Lock()
	defer lock.Unlock()

	rec, ok := r.records[variantID]
	if !ok {
		return inventory.ErrRecordNotFound
	}

	before := *rec

	changeType, qty, orderID, remark, err := fn(rec)
	if err != nil {
		return err
	}
	if err := rec.Validate(); err != nil {
		// 回滚内存变更
		*rec = before
		return err
	}
	rec.UpdatedAt = time.Now()

	entry := inventory.NewLog(changeType, &before, rec, qty, orderID, remark)
	entry.CreatedAt = rec.UpdatedAt

	r.logMu.Lock()
	entry.ID = uint(len(r.logs) + 1)
	r.logs = append(r.logs, entry)
	r.logMu.Unlock()

	return nil
}

// Logs 返回全部流水（测试断言用）
func (r *InventoryRepository) Logs() []*inventory.Log {
	r.logMu.Lock()
	defer r.logMu.Unlock()
	out := make([]*inventory.Log, len(r.logs))
	copy(out, r.logs)
	return out
}

// LogRepository 库存流水仓储内存实现（与InventoryRepository共享流水）
type LogRepository struct {
	inv *InventoryRepository
}

// NewLogRepository 创建内存流水仓储
func NewLogRepository(inv *InventoryRepository) *LogRepository {
	return &LogRepository{inv: inv}
}

// ListByVariantID 分页查询变体流水（倒序）
func (r *LogRepository) ListByVariantID(ctx context.Context, variantID uint, page, pageSize int) ([]*inventory.Log, int64, error) {
	all := r.inv.Logs()
	var matched []*inventory.Log
	for i := len(all) - 1; i >= 0; i-- {
		if all[i].VariantID == variantID {
			matched = append(matched, all[i])
		}
	}

	total := int64(len(matched))
	start := (page - 1) * pageSize
	if start >= len(matched) {
		return nil, total, nil
	}
	end := start + pageSize
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

// ListByOrderID 查询订单流水（正序）
func (r *LogRepository) ListByOrderID(ctx context.Context, orderID uint) ([]*inventory.Log, error) {
	all := r.inv.Logs()
	var matched []*inventory.Log
	for _, l := range all {
		if l.OrderID == orderID {
			matched = append(matched, l)
		}
	}
	return matched, nil
}
