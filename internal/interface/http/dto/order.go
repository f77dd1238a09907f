package dto

// CreateOrderItem HTTP下单明细项
type CreateOrderItem struct {
	VariantID uint `json:"variant_id" binding:"required" example:"1"`
	Quantity  int  `json:"quantity" binding:"required,min=1,max=999" example:"2"`
}

// CreateOrderRequest HTTP下单请求
type CreateOrderRequest struct {
	DeliveryAddressID uint              `json:"delivery_address_id" binding:"required" example:"1"`
	Items             []CreateOrderItem `json:"items" binding:"required,min=1,dive"`
}

// CreateOrderResponse HTTP下单响应
type CreateOrderResponse struct {
	OrderID   uint   `json:"order_id" example:"1"`
	OrderNo   string `json:"order_no" example:"ORD20260828123456"`
	Total     int64  `json:"total" example:"11800"`     // 总金额(分)
	TotalYuan string `json:"total_yuan" example:"118.00"` // 总金额(元),方便前端显示
	Status    string `json:"status" example:"pending_payment"`
	CreatedAt string `json:"created_at" example:"2026-08-28 10:30:00"`
}

// UpdateOrderStatusRequest HTTP订单状态推进请求（管理端）
type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required" example:"shipped"`
}

// ListOrdersRequest HTTP买家订单列表请求
type ListOrdersRequest struct {
	Page     int `form:"page" binding:"omitempty,min=1" example:"1"`
	PageSize int `form:"page_size" binding:"omitempty,min=1,max=100" example:"20"`
}
