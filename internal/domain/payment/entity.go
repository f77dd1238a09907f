package payment

import "time"

// Status 支付状态
// PENDING → INITIATED → {COMPLETED, FAILED, CANCELLED}，COMPLETED → REFUNDED
// 退款不是原单状态变更，而是新建一条REFUNDED支付流水（保留审计轨迹）
type Status int

const (
	StatusPending   Status = 1 // 待发起
	StatusInitiated Status = 2 // 已发起（等待网关回调）
	StatusCompleted Status = 3 // 已完成
	StatusFailed    Status = 4 // 已失败
	StatusCancelled Status = 5 // 已取消
	StatusRefunded  Status = 6 // 退款流水
)

// String 实现Stringer接口
func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusInitiated:
		return "initiated"
	case StatusCompleted:
		return "completed"
	case StatusFailed:
		return "failed"
	case StatusCancelled:
		return "cancelled"
	case StatusRefunded:
		return "refunded"
	default:
		return "unknown"
	}
}

// 支付方式
const (
	ProviderCOD         = "COD"          // 货到付款（线下，同步推进到INITIATED）
	ProviderMobileMoney = "MOBILE_MONEY" // 移动支付（在线，等待网关回调）
	ProviderCard        = "CARD"         // 银行卡（在线）
)

// IsOfflineProvider 线下支付方式无需网关回调
func IsOfflineProvider(provider string) bool {
	return provider == ProviderCOD
}

// Payment 支付流水（聚合根）
//
// Reference是幂等键：创建时生成、全局唯一，网关回调只携带Reference，
// handleExternalEvent按它去重。一个订单可以有多条流水（原始尝试+重试+退款）
type Payment struct {
	ID            uint   `gorm:"primaryKey"`
	OrderID       uint   `gorm:"index;not null"`
	Provider      string `gorm:"size:20;not null"`
	Amount        int64  `gorm:"not null"` // 金额（分）
	Status        Status `gorm:"type:tinyint;not null;default:1;index"`
	Reference     string `gorm:"uniqueIndex;size:64;not null"` // 幂等键
	TransactionID string `gorm:"size:64"`                      // 网关交易号（完成时写入）
	FailureReason string `gorm:"size:255"`
	RawCallback   string `gorm:"type:text"` // 网关回调原始报文（排查用）
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// TableName 指定表名
func (Payment) TableName() string {
	return "payments"
}

// NewPayment 创建支付流水（工厂方法）
func NewPayment(orderID uint, provider string, amount int64, reference string) *Payment {
	now := time.Now()
	return &Payment{
		OrderID:   orderID,
		Provider:  provider,
		Amount:    amount,
		Status:    StatusPending,
		Reference: reference,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// NewRefund 基于已完成流水创建退款流水
// 不修改原流水，新流水使用独立的Reference
func NewRefund(source *Payment, amount int64, reference string) *Payment {
	now := time.Now()
	return &Payment{
		OrderID:   source.OrderID,
		Provider:  source.Provider,
		Amount:    amount,
		Status:    StatusRefunded,
		Reference: reference,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// IsTerminal 是否已达终态（COMPLETED/FAILED后的外部事件为no-op）
func (p *Payment) IsTerminal() bool {
	return p.Status == StatusCompleted || p.Status == StatusFailed
}

// CanRefund 只有已完成的支付才能退款
func (p *Payment) CanRefund() bool {
	return p.Status == StatusCompleted
}

// MarkInitiated 发起支付
func (p *Payment) MarkInitiated() error {
	if p.Status != StatusPending {
		return ErrInvalidPaymentStatus
	}
	p.Status = StatusInitiated
	p.UpdatedAt = time.Now()
	return nil
}

// MarkCompleted 标记完成（首次观察到success事件）
func (p *Payment) MarkCompleted(transactionID string) error {
	if p.Status != StatusPending && p.Status != StatusInitiated {
		return ErrInvalidPaymentStatus
	}
	p.Status = StatusCompleted
	p.TransactionID = transactionID
	p.UpdatedAt = time.Now()
	return nil
}

// MarkFailed 标记失败并记录原因
func (p *Payment) MarkFailed(reason string) error {
	if p.Status != StatusPending && p.Status != StatusInitiated {
		return ErrInvalidPaymentStatus
	}
	p.Status = StatusFailed
	p.FailureReason = reason
	p.UpdatedAt = time.Now()
	return nil
}

// MarkCancelled 买家主动放弃支付
func (p *Payment) MarkCancelled() error {
	if p.Status != StatusPending && p.Status != StatusInitiated {
		return ErrInvalidPaymentStatus
	}
	p.Status = StatusCancelled
	p.UpdatedAt = time.Now()
	return nil
}
