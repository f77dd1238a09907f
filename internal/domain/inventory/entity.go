package inventory

import "time"

// Record 库存台账（领域模型）
//
// 每个商品规格(variant)一行，三个计数器：
//   - QuantityAvailable：总可售库存（只在Commit时减少，Reserve不动它）
//   - ReservedQuantity：被未完成订单占用的数量
//   - SoldQuantity：累计售出数量
//
// 不变式：0 <= ReservedQuantity <= QuantityAvailable
// 所有变更必须通过Reserve/Release/Commit/Restock，且对同一variant串行执行
type Record struct {
	// 商品规格ID（主键）
	VariantID uint `gorm:"primaryKey;column:variant_id" json:"variant_id"`

	// 可售库存
	QuantityAvailable int `gorm:"not null;default:0" json:"quantity_available"`

	// 预占库存（待支付订单持有）
	ReservedQuantity int `gorm:"not null;default:0" json:"reserved_quantity"`

	// 累计售出
	SoldQuantity int `gorm:"not null;default:0" json:"sold_quantity"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName 指定表名
func (Record) TableName() string {
	return "inventory"
}

// Available 当前可预占数量
func (r *Record) Available() int {
	return r.QuantityAvailable - r.ReservedQuantity
}

// Validate 验证计数器不变式
func (r *Record) Validate() error {
	if r.VariantID == 0 {
		return ErrInvalidVariantID
	}
	if r.QuantityAvailable < 0 {
		return ErrNegativeStock
	}
	if r.ReservedQuantity < 0 {
		return ErrNegativeReserved
	}
	if r.ReservedQuantity > r.QuantityAvailable {
		return ErrReservedExceedsStock
	}
	return nil
}

// Reserve 预占库存
// 可预占量不足时返回ErrInsufficientStock且不做任何修改
func (r *Record) Reserve(qty int) error {
	if qty <= 0 {
		return ErrInvalidQuantity
	}
	if r.Available() < qty {
		return ErrInsufficientStock
	}
	r.ReservedQuantity += qty
	return nil
}

// Release 释放预占
// 按min(qty, ReservedQuantity)释放（不会把预占减成负数），返回实际释放量
// 重复释放在夹取范围内是安全的；调用方不应释放超过自己预占的数量
func (r *Record) Release(qty int) int {
	if qty <= 0 {
		return 0
	}
	released := qty
	if released > r.ReservedQuantity {
		released = r.ReservedQuantity
	}
	r.ReservedQuantity -= released
	return released
}

// Commit 预占转为售出
// ReservedQuantity和QuantityAvailable各按当前值夹取递减，SoldQuantity累加qty
func (r *Record) Commit(qty int) {
	if qty <= 0 {
		return
	}
	reserved := qty
	if reserved > r.ReservedQuantity {
		reserved = r.ReservedQuantity
	}
	r.ReservedQuantity -= reserved

	available := qty
	if available > r.QuantityAvailable {
		available = r.QuantityAvailable
	}
	r.QuantityAvailable -= available

	r.SoldQuantity += qty
}

// Restock 补充可售库存
func (r *Record) Restock(qty int) error {
	if qty <= 0 {
		return ErrInvalidQuantity
	}
	r.QuantityAvailable += qty
	return nil
}
