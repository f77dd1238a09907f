package order

import (
	"context"

	"github.com/liuwen/marketplace/internal/domain/order"
	apperrors "github.com/liuwen/marketplace/pkg/errors"
)

// GetOrdersUseCase 订单查询用例（详情+买家列表）
type GetOrdersUseCase struct {
	orderRepo order.Repository
}

// NewGetOrdersUseCase 创建订单查询用例
func NewGetOrdersUseCase(orderRepo order.Repository) *GetOrdersUseCase {
	return &GetOrdersUseCase{orderRepo: orderRepo}
}

// OrderItemDTO 订单明细DTO
type OrderItemDTO struct {
	ID        uint   `json:"id"`
	VariantID uint   `json:"variant_id"`
	SellerID  uint   `json:"seller_id"`
	Quantity  int    `json:"quantity"`
	UnitPrice int64  `json:"unit_price"`
	Status    string `json:"status"`
}

// OrderDTO 订单详情DTO
type OrderDTO struct {
	ID                uint           `json:"id"`
	OrderNo           string         `json:"order_no"`
	BuyerID           uint           `json:"buyer_id"`
	TotalAmount       int64          `json:"total_amount"`
	TotalYuan         string         `json:"total_yuan"`
	Status            string         `json:"status"`
	DeliveryAddressID uint           `json:"delivery_address_id"`
	Items             []OrderItemDTO `json:"items"`
	CreatedAt         string         `json:"created_at"`
}

// ListOrdersRequest 买家订单列表请求
type ListOrdersRequest struct {
	BuyerID  uint
	Page     int
	PageSize int
}

// ListOrdersResponse 买家订单列表响应
type ListOrdersResponse struct {
	List     []OrderDTO `json:"list"`
	Total    int64      `json:"total"`
	Page     int        `json:"page"`
	PageSize int        `json:"page_size"`
}

// Get 查询订单详情（校验归属，管理员传adminView跳过归属校验）
func (uc *GetOrdersUseCase) Get(ctx context.Context, orderID, buyerID uint, adminView bool) (*OrderDTO, error) {
	o, err := uc.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if !adminView && !o.IsOwnedBy(buyerID) {
		return nil, apperrors.ErrForbidden
	}

	dto := toOrderDTO(o)
	return &dto, nil
}

// List 分页查询买家订单列表
func (uc *GetOrdersUseCase) List(ctx context.Context, req ListOrdersRequest) (*ListOrdersResponse, error) {
	if req.Page < 1 {
		req.Page = 1
	}
	if req.PageSize < 1 {
		req.PageSize = 20
	}
	if req.PageSize > 100 {
		req.PageSize = 100
	}

	orders, total, err := uc.orderRepo.ListByBuyerID(ctx, req.BuyerID, req.Page, req.PageSize)
	if err != nil {
		return nil, err
	}

	list := make([]OrderDTO, len(orders))
	for i, o := range orders {
		list[i] = toOrderDTO(o)
	}

	return &ListOrdersResponse{
		List:     list,
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
	}, nil
}

func toOrderDTO(o *order.Order) OrderDTO {
	items := make([]OrderItemDTO, len(o.Items))
	for i, item := range o.Items {
		items[i] = OrderItemDTO{
			ID:        item.ID,
			VariantID: item.VariantID,
			SellerID:  item.SellerID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Status:    item.Status.String(),
		}
	}
	return OrderDTO{
		ID:                o.ID,
		OrderNo:           o.OrderNo,
		BuyerID:           o.BuyerID,
		TotalAmount:       o.TotalAmount,
		TotalYuan:         formatPrice(o.TotalAmount),
		Status:            o.Status.String(),
		DeliveryAddressID: o.DeliveryAddressID,
		Items:             items,
		CreatedAt:         o.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}
