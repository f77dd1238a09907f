package dispute

import "time"

// Status 纠纷状态
// OPEN → IN_PROGRESS → RESOLVED → CLOSED
type Status int

const (
	StatusOpen       Status = 1 // 买家发起
	StatusInProgress Status = 2 // 管理员受理
	StatusResolved   Status = 3 // 已裁决
	StatusClosed     Status = 4 // 已关闭（终态）
)

// String 实现Stringer接口
func (s Status) String() string {
	switch s {
	case StatusOpen:
		return "open"
	case StatusInProgress:
		return "in_progress"
	case StatusResolved:
		return "resolved"
	case StatusClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Resolution 裁决结果
type Resolution string

const (
	ResolutionBuyerFavored    Resolution = "buyer_favored"
	ResolutionSellerFavored   Resolution = "seller_favored"
	ResolutionPartialRefund   Resolution = "partial_refund"
	ResolutionMutualAgreement Resolution = "mutual_agreement"
)

// Valid 校验裁决结果取值
func (r Resolution) Valid() bool {
	switch r {
	case ResolutionBuyerFavored, ResolutionSellerFavored,
		ResolutionPartialRefund, ResolutionMutualAgreement:
		return true
	}
	return false
}

// Dispute 纠纷单（聚合根）
// 每个订单同一时刻最多一条活跃纠纷（OPEN/IN_PROGRESS）
// RefundPending：裁决要求退款但订单无已完成支付时置位，留待人工补退
type Dispute struct {
	ID              uint       `gorm:"primaryKey"`
	OrderID         uint       `gorm:"index;not null"`
	Reason          string     `gorm:"size:255;not null"`
	Description     string     `gorm:"type:text"`
	Status          Status     `gorm:"type:tinyint;not null;default:1;index"`
	AssignedAdminID uint       `gorm:""`
	Resolution      Resolution `gorm:"size:32"`
	RefundAmount    int64      `gorm:""` // 裁决退款金额（分），0表示不退款
	ResolutionNotes string     `gorm:"type:text"`
	RefundPending   bool       `gorm:"not null;default:false"`
	ResolvedAt      *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// TableName 指定表名
func (Dispute) TableName() string {
	return "disputes"
}

// NewDispute 买家发起纠纷（工厂方法）
func NewDispute(orderID uint, reason, description string) *Dispute {
	now := time.Now()
	return &Dispute{
		OrderID:     orderID,
		Reason:      reason,
		Description: description,
		Status:      StatusOpen,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// IsActive OPEN/IN_PROGRESS视为活跃（同订单禁止重复发起）
func (d *Dispute) IsActive() bool {
	return d.Status == StatusOpen || d.Status == StatusInProgress
}

// Assign 受理：仅允许OPEN → IN_PROGRESS
func (d *Dispute) Assign(adminID uint) error {
	if d.Status != StatusOpen {
		return ErrInvalidStatusTransition
	}
	d.AssignedAdminID = adminID
	d.Status = StatusInProgress
	d.UpdatedAt = time.Now()
	return nil
}

// Resolve 裁决：允许从OPEN或IN_PROGRESS进入RESOLVED
func (d *Dispute) Resolve(resolution Resolution, refundAmount int64, notes string) error {
	if d.Status != StatusOpen && d.Status != StatusInProgress {
		return ErrInvalidStatusTransition
	}
	if !resolution.Valid() {
		return ErrInvalidResolution
	}
	now := time.Now()
	d.Resolution = resolution
	d.RefundAmount = refundAmount
	d.ResolutionNotes = notes
	d.Status = StatusResolved
	d.ResolvedAt = &now
	d.UpdatedAt = now
	return nil
}

// Close 关闭：仅允许RESOLVED → CLOSED
func (d *Dispute) Close() error {
	if d.Status != StatusResolved {
		return ErrInvalidStatusTransition
	}
	d.Status = StatusClosed
	d.UpdatedAt = time.Now()
	return nil
}
