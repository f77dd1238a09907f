package order

import (
	apperrors "github.com/liuwen/marketplace/pkg/errors"
)

// 订单领域错误定义
var (
	// ErrOrderNotFound 订单不存在
	ErrOrderNotFound = apperrors.New(apperrors.ErrCodeOrderNotFound, "订单不存在")

	// ErrInvalidStatusTransition 非法的状态转换
	ErrInvalidStatusTransition = apperrors.New(apperrors.ErrCodeInvalidTransition, "订单状态不允许此操作")

	// ErrItemNotFound 订单明细不存在
	ErrItemNotFound = apperrors.New(apperrors.ErrCodeNotFound, "订单明细不存在")

	// ErrStatusNotDirectlySettable 取消、支付、退款伴随库存与资金变动，
	// 必须走对应的取消/支付回调/退款用例，不允许直接改状态
	ErrStatusNotDirectlySettable = apperrors.New(apperrors.ErrCodeInvalidTransition, "该状态须通过取消、支付或退款流程变更")

	// ErrInvalidOrderItems 订单明细不合法
	ErrInvalidOrderItems = apperrors.New(apperrors.ErrCodeInvalidParams, "订单明细不能为空")

	// ErrInvalidQuantity 购买数量不合法
	ErrInvalidQuantity = apperrors.New(apperrors.ErrCodeInvalidParams, "购买数量必须大于0")
)
