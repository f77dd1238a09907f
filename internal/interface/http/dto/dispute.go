package dto

// OpenDisputeRequest HTTP发起纠纷请求
type OpenDisputeRequest struct {
	OrderID     uint   `json:"order_id" binding:"required" example:"1"`
	Reason      string `json:"reason" binding:"required,max=200" example:"商品与描述不符"`
	Description string `json:"description" binding:"max=5000" example:"收到的商品颜色和下单时选择的不一致"`
}

// AssignDisputeRequest HTTP纠纷指派请求（管理端）
type AssignDisputeRequest struct {
	AdminID uint `json:"admin_id" binding:"required" example:"2"`
}

// ResolveDisputeRequest HTTP纠纷裁决请求（管理端）
type ResolveDisputeRequest struct {
	Resolution   string `json:"resolution" binding:"required,oneof=buyer_favored seller_favored partial_refund mutual_agreement" example:"buyer_favored"`
	RefundAmount int64  `json:"refund_amount" binding:"min=0" example:"5900"` // 退款金额(分),0表示不退款
	Notes        string `json:"notes" binding:"max=5000" example:"买家提供的照片证实了问题"`
}

// ListDisputesRequest HTTP纠纷列表请求（管理端工作台）
type ListDisputesRequest struct {
	Status   string `form:"status" binding:"required,oneof=open in_progress resolved closed" example:"open"`
	Page     int    `form:"page" binding:"omitempty,min=1" example:"1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100" example:"20"`
}
