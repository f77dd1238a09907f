package inventory

import "time"

// ChangeType 库存变更类型
type ChangeType string

const (
	ChangeTypeReserve ChangeType = "RESERVE" // 预占（下单）
	ChangeTypeRelease ChangeType = "RELEASE" // 释放（取消、下单失败回滚）
	ChangeTypeCommit  ChangeType = "COMMIT"  // 预占转售出（支付成功）
	ChangeTypeRestock ChangeType = "RESTOCK" // 补货
)

// Log 库存变更日志
// 只增不改（Append-Only），记录变更前后的两个计数器，关联订单ID便于对账
type Log struct {
	ID uint `gorm:"primaryKey" json:"id"`

	VariantID uint `gorm:"index:idx_variant_id;not null" json:"variant_id"`

	ChangeType ChangeType `gorm:"type:varchar(20);not null" json:"change_type"`

	// 变更数量（正数=增加，负数=减少，相对QuantityAvailable视角）
	Quantity int `gorm:"not null" json:"quantity"`

	BeforeAvailable int `gorm:"not null" json:"before_available"`
	AfterAvailable  int `gorm:"not null" json:"after_available"`
	BeforeReserved  int `gorm:"not null" json:"before_reserved"`
	AfterReserved   int `gorm:"not null" json:"after_reserved"`

	// 关联订单ID（补货时为0）
	OrderID uint `gorm:"index:idx_order_id" json:"order_id,omitempty"`

	Remark string `gorm:"type:varchar(255)" json:"remark,omitempty"`

	CreatedAt time.Time `gorm:"index:idx_created_at" json:"created_at"`
}

// TableName 指定表名
func (Log) TableName() string {
	return "inventory_logs"
}

// NewLog 根据变更前后的记录快照生成日志
func NewLog(changeType ChangeType, before, after *Record, qty int, orderID uint, remark string) *Log {
	return &Log{
		VariantID:       after.VariantID,
		ChangeType:      changeType,
		Quantity:        qty,
		BeforeAvailable: before.QuantityAvailable,
		AfterAvailable:  after.QuantityAvailable,
		BeforeReserved:  before.ReservedQuantity,
		AfterReserved:   after.ReservedQuantity,
		OrderID:         orderID,
		Remark:          remark,
	}
}
