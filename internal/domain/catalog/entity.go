package catalog

import "time"

// Variant 商品变体（SKU级）
// 订单创建时从此处快照单价与卖家ID，后续价格变动不影响已生成订单
type Variant struct {
	ID        uint   `gorm:"primaryKey"`
	SKU       string `gorm:"size:64;uniqueIndex;not null"`
	SellerID  uint   `gorm:"index;not null"`
	Title     string `gorm:"size:255;not null"`
	Price     int64  `gorm:"not null"` // 单价（分）
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName 指定表名
func (Variant) TableName() string {
	return "product_variants"
}
