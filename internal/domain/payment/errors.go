package payment

import (
	apperrors "github.com/liuwen/marketplace/pkg/errors"
)

// 支付领域错误定义
var (
	// ErrPaymentNotFound 支付流水不存在（含未知Reference）
	ErrPaymentNotFound = apperrors.New(apperrors.ErrCodePaymentNotFound, "支付流水不存在")

	// ErrPaymentNotRefundable 仅已完成的支付可退款
	ErrPaymentNotRefundable = apperrors.New(apperrors.ErrCodePaymentNotRefundable, "支付流水不可退款")

	// ErrInvalidRefundAmount 退款金额必须大于0且不超过原支付金额
	ErrInvalidRefundAmount = apperrors.New(apperrors.ErrCodeInvalidRefundAmount, "退款金额非法")

	// ErrInvalidPaymentStatus 当前状态不允许此操作
	ErrInvalidPaymentStatus = apperrors.New(apperrors.ErrCodeInvalidTransition, "支付状态不允许此操作")

	// ErrUnknownOutcome 无法识别的回调结果
	ErrUnknownOutcome = apperrors.New(apperrors.ErrCodeInvalidParams, "无法识别的支付结果")
)
