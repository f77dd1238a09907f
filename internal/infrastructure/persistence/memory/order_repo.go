package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/liuwen/marketplace/internal/domain/order"
)

// OrderRepository 订单仓储内存实现
type OrderRepository struct {
	mu         sync.RWMutex
	orders     map[uint]*order.Order
	nextID     uint
	nextItemID uint
}

// NewOrderRepository 创建内存订单仓储
func NewOrderRepository() *OrderRepository {
	return &OrderRepository{
		orders:     make(map[uint]*order.Order),
		nextID:     1,
		nextItemID: 1,
	}
}

// Create 创建订单（分配自增ID并回填）
func (r *OrderRepository) Create(ctx context.Context, o *order.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	o.ID = r.nextID
	r.nextID++
	for i := range o.Items {
		o.Items[i].ID = r.nextItemID
		o.Items[i].OrderID = o.ID
		r.nextItemID++
	}

	cp := cloneOrder(o)
	r.orders[o.ID] = cp
	return nil
}

// FindByID 按ID查找
func (r *OrderRepository) FindByID(ctx context.Context, id uint) (*order.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	o, ok := r.orders[id]
	if !ok {
		return nil, order.ErrOrderNotFound
	}
	return cloneOrder(o), nil
}

// FindByOrderNo 按订单号查找
func (r *OrderRepository) FindByOrderNo(ctx context.Context, orderNo string) (*order.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, o := range r.orders {
		if o.OrderNo == orderNo {
			return cloneOrder(o), nil
		}
	}
	return nil, order.ErrOrderNotFound
}

// Update 更新订单主记录
func (r *OrderRepository) Update(ctx context.Context, o *order.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.orders[o.ID]
	if !ok {
		return order.ErrOrderNotFound
	}
	stored.Status = o.Status
	stored.TotalAmount = o.TotalAmount
	stored.UpdatedAt = o.UpdatedAt
	return nil
}

// UpdateItemStatus 更新明细状态
func (r *OrderRepository) UpdateItemStatus(ctx context.Context, itemID uint, status order.ItemStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, o := range r.orders {
		for i := range o.Items {
			if o.Items[i].ID == itemID {
				o.Items[i].Status = status
				return nil
			}
		}
	}
	return order.ErrItemNotFound
}

// ListByBuyerID 分页查询买家订单（创建时间倒序）
func (r *OrderRepository) ListByBuyerID(ctx context.Context, buyerID uint, page, pageSize int) ([]*order.Order, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []*order.Order
	for _, o := range r.orders {
		if o.BuyerID == buyerID {
			matched = append(matched, cloneOrder(o))
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].ID > matched[j].ID
	})

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

func cloneOrder(o *order.Order) *order.Order {
	cp := *o
	cp.Items = make([]order.OrderItem, len(o.Items))
	copy(cp.Items, o.Items)
	return &cp
}
