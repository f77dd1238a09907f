package dto

// InitiatePaymentRequest HTTP发起支付请求
type InitiatePaymentRequest struct {
	OrderID  uint   `json:"order_id" binding:"required" example:"1"`
	Provider string `json:"provider" binding:"required,oneof=COD MOBILE_MONEY CARD" example:"MOBILE_MONEY"`
}

// WebhookRequest HTTP网关回调报文
//
// 不同网关字段命名差异在这里抹平，reference是我们下发的幂等键
type WebhookRequest struct {
	Provider      string `json:"provider" binding:"required" example:"MOBILE_MONEY"`
	Reference     string `json:"reference" binding:"required" example:"PAY1724900000-a1b2c3d4"`
	Status        string `json:"status" binding:"required,oneof=success failure" example:"success"`
	TransactionID string `json:"transaction_id" example:"MM-2026-0001"`
	Reason        string `json:"reason" example:"insufficient balance"`
}

// RefundRequest HTTP人工退款请求（管理端）
type RefundRequest struct {
	PaymentID uint  `json:"payment_id" binding:"required" example:"1"`
	Amount    int64 `json:"amount" binding:"required,min=1" example:"5900"` // 退款金额(分)
}
