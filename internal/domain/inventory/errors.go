package inventory

import (
	apperrors "github.com/liuwen/marketplace/pkg/errors"
)

// 库存领域错误定义
var (
	// ErrInsufficientStock 可预占库存不足
	ErrInsufficientStock = apperrors.New(apperrors.ErrCodeInsufficientStock, "库存不足")

	// ErrRecordNotFound 库存记录不存在
	ErrRecordNotFound = apperrors.New(apperrors.ErrCodeStockNotFound, "库存记录不存在")

	// 参数错误
	ErrInvalidVariantID = apperrors.New(apperrors.ErrCodeInvalidParams, "无效的商品规格ID")
	ErrInvalidQuantity  = apperrors.New(apperrors.ErrCodeInvalidParams, "数量必须大于0")

	// 不变式被破坏（只会出现在存储层数据损坏时）
	ErrNegativeStock        = apperrors.New(apperrors.ErrCodeBusinessError, "可售库存不能为负数")
	ErrNegativeReserved     = apperrors.New(apperrors.ErrCodeBusinessError, "预占库存不能为负数")
	ErrReservedExceedsStock = apperrors.New(apperrors.ErrCodeBusinessError, "预占库存不能超过可售库存")
)
