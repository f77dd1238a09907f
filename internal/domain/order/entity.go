package order

import (
	"time"
)

// Status 订单状态
// 使用int类型存储（节省空间，便于索引），String()输出API使用的状态标识
type Status int

const (
	StatusDraft          Status = 1  // 草稿
	StatusPendingPayment Status = 2  // 待支付
	StatusPlaced         Status = 3  // 已下单
	StatusPaid           Status = 4  // 已支付
	StatusConfirmed      Status = 5  // 卖家已确认
	StatusPacked         Status = 6  // 已打包
	StatusShipped        Status = 7  // 已发货
	StatusOutForDelivery Status = 8  // 派送中
	StatusDelivered      Status = 9  // 已送达
	StatusCancelled      Status = 10 // 已取消（终态）
	StatusReturnRequested Status = 11 // 申请退货
	StatusReturned       Status = 12 // 已退货
	StatusRefunded       Status = 13 // 已退款（终态）
	StatusDisputed       Status = 14 // 纠纷中
)

// String 实现Stringer接口（API及日志输出）
func (s Status) String() string {
	switch s {
	case StatusDraft:
		return "draft"
	case StatusPendingPayment:
		return "pending_payment"
	case StatusPlaced:
		return "placed"
	case StatusPaid:
		return "paid"
	case StatusConfirmed:
		return "confirmed"
	case StatusPacked:
		return "packed"
	case StatusShipped:
		return "shipped"
	case StatusOutForDelivery:
		return "out_for_delivery"
	case StatusDelivered:
		return "delivered"
	case StatusCancelled:
		return "cancelled"
	case StatusReturnRequested:
		return "return_requested"
	case StatusReturned:
		return "returned"
	case StatusRefunded:
		return "refunded"
	case StatusDisputed:
		return "disputed"
	default:
		return "unknown"
	}
}

// ParseStatus 解析API状态标识
func ParseStatus(s string) (Status, bool) {
	for st := StatusDraft; st <= StatusDisputed; st++ {
		if st.String() == s {
			return st, true
		}
	}
	return 0, false
}

// transitions 订单状态机邻接表
// 状态流转只允许表中列出的后继，其余一律拒绝（ErrInvalidStatusTransition）
// 注意：PAID可直达CANCELLED（买家在卖家确认前仍可取消）和REFUNDED（直接退款）
var transitions = map[Status][]Status{
	StatusDraft:           {StatusPendingPayment},
	StatusPendingPayment:  {StatusPlaced, StatusPaid, StatusCancelled},
	StatusPlaced:          {StatusPaid, StatusCancelled},
	StatusPaid:            {StatusConfirmed, StatusCancelled, StatusRefunded},
	StatusConfirmed:       {StatusPacked, StatusCancelled},
	StatusPacked:          {StatusShipped, StatusCancelled},
	StatusShipped:         {StatusOutForDelivery, StatusDelivered},
	StatusOutForDelivery:  {StatusDelivered},
	StatusDelivered:       {StatusReturnRequested, StatusDisputed},
	StatusCancelled:       {},
	StatusReturnRequested: {StatusReturned, StatusDisputed},
	StatusReturned:        {StatusRefunded},
	StatusRefunded:        {},
	StatusDisputed:        {StatusRefunded},
}

// ItemStatus 订单明细状态
type ItemStatus int

const (
	ItemStatusPending   ItemStatus = 1
	ItemStatusConfirmed ItemStatus = 2
	ItemStatusPacked    ItemStatus = 3
	ItemStatusShipped   ItemStatus = 4
	ItemStatusDelivered ItemStatus = 5
	ItemStatusCancelled ItemStatus = 6
	ItemStatusReturned  ItemStatus = 7
)

// String 实现Stringer接口
func (s ItemStatus) String() string {
	switch s {
	case ItemStatusPending:
		return "pending"
	case ItemStatusConfirmed:
		return "confirmed"
	case ItemStatusPacked:
		return "packed"
	case ItemStatusShipped:
		return "shipped"
	case ItemStatusDelivered:
		return "delivered"
	case ItemStatusCancelled:
		return "cancelled"
	case ItemStatusReturned:
		return "returned"
	default:
		return "unknown"
	}
}

// Order 订单实体（聚合根）
// OrderNo是业务主键（全局唯一），TotalAmount冗余存储下单时刻的价格快照合计
type Order struct {
	ID                uint        `gorm:"primaryKey"`
	OrderNo           string      `gorm:"uniqueIndex;size:32;not null"`
	BuyerID           uint        `gorm:"index;not null"`
	TotalAmount       int64       `gorm:"not null"` // 订单总金额（分）
	Status            Status      `gorm:"index;type:tinyint;not null;default:2"`
	DeliveryAddressID uint        `gorm:""`
	Items             []OrderItem `gorm:"foreignKey:OrderID"`
	CreatedAt         time.Time   `gorm:"index"`
	UpdatedAt         time.Time
}

// TableName 指定表名
func (Order) TableName() string {
	return "orders"
}

// OrderItem 订单明细项
// 不是独立聚合根，必须通过Order访问；UnitPrice记录下单时刻的价格快照，
// 数量在创建后不可变更
type OrderItem struct {
	ID        uint       `gorm:"primaryKey"`
	OrderID   uint       `gorm:"index;not null"`
	VariantID uint       `gorm:"index;not null"`
	SellerID  uint       `gorm:"index;not null"`
	Quantity  int        `gorm:"not null"`
	UnitPrice int64      `gorm:"not null"` // 下单时单价（分）
	Status    ItemStatus `gorm:"type:tinyint;not null;default:1"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName 指定表名
func (OrderItem) TableName() string {
	return "order_items"
}

// NewOrder 创建新订单（工厂方法）
// 初始状态为PendingPayment，订单号由外部生成
func NewOrder(orderNo string, buyerID uint, items []OrderItem, total int64, deliveryAddressID uint) *Order {
	now := time.Now()
	for i := range items {
		items[i].Status = ItemStatusPending
	}
	return &Order{
		OrderNo:           orderNo,
		BuyerID:           buyerID,
		TotalAmount:       total,
		Status:            StatusPendingPayment,
		DeliveryAddressID: deliveryAddressID,
		Items:             items,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
}

// CanTransitionTo 检查是否可以转换到目标状态
func (o *Order) CanTransitionTo(target Status) bool {
	allowed, exists := transitions[o.Status]
	if !exists {
		return false
	}
	for _, s := range allowed {
		if s == target {
			return true
		}
	}
	return false
}

// TransitionTo 状态转换
// 非法跳转返回ErrInvalidStatusTransition且订单保持不变
func (o *Order) TransitionTo(target Status) error {
	if !o.CanTransitionTo(target) {
		return ErrInvalidStatusTransition
	}
	o.Status = target
	o.UpdatedAt = time.Now()
	return nil
}

// CanCancel 买家取消只允许这三个状态
func (o *Order) CanCancel() bool {
	switch o.Status {
	case StatusPendingPayment, StatusPlaced, StatusPaid:
		return true
	}
	return false
}

// MarkPaid 支付成功（领域行为，由支付对账引擎驱动）
func (o *Order) MarkPaid() error {
	return o.TransitionTo(StatusPaid)
}

// Cancel 取消订单（领域行为）
func (o *Order) Cancel() error {
	if !o.CanCancel() {
		return ErrInvalidStatusTransition
	}
	return o.TransitionTo(StatusCancelled)
}

// CalculateTotal 按明细实时计算订单总金额
// 用于校验TotalAmount冗余字段
func (o *Order) CalculateTotal() int64 {
	var total int64
	for _, item := range o.Items {
		total += item.UnitPrice * int64(item.Quantity)
	}
	return total
}

// IsOwnedBy 检查订单是否属于指定买家
func (o *Order) IsOwnedBy(buyerID uint) bool {
	return o.BuyerID == buyerID
}
