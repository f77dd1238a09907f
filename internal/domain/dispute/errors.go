package dispute

import apperrors "github.com/liuwen/marketplace/pkg/errors"

// 纠纷领域错误定义
var (
	ErrDisputeNotFound         = apperrors.New(apperrors.ErrCodeDisputeNotFound, "纠纷不存在")
	ErrDuplicateDispute        = apperrors.New(apperrors.ErrCodeDuplicateDispute, "该订单已存在处理中的纠纷")
	ErrInvalidStatusTransition = apperrors.New(apperrors.ErrCodeInvalidTransition, "纠纷状态不允许该操作")
	ErrInvalidResolution       = apperrors.New(apperrors.ErrCodeInvalidParams, "无效的裁决结果")
	ErrNoRefundablePayment     = apperrors.New(apperrors.ErrCodeNoRefundablePayment, "订单无可退款的支付记录")
)
