package dto

// RestockRequest HTTP补货请求（管理端）
type RestockRequest struct {
	Quantity int `json:"quantity" binding:"required,min=1" example:"100"`
}

// ListStockLogsRequest HTTP库存流水列表请求
type ListStockLogsRequest struct {
	Page     int `form:"page" binding:"omitempty,min=1" example:"1"`
	PageSize int `form:"page_size" binding:"omitempty,min=1,max=100" example:"20"`
}
