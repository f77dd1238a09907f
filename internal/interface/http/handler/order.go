package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	apporder "github.com/liuwen/marketplace/internal/application/order"
	"github.com/liuwen/marketplace/internal/interface/http/dto"
	"github.com/liuwen/marketplace/internal/interface/http/middleware"
	"github.com/liuwen/marketplace/pkg/response"
)

// OrderHandler 订单HTTP处理器
type OrderHandler struct {
	createOrderUseCase  *apporder.CreateOrderUseCase
	cancelOrderUseCase  *apporder.CancelOrderUseCase
	updateStatusUseCase *apporder.UpdateStatusUseCase
	getOrdersUseCase    *apporder.GetOrdersUseCase
}

// NewOrderHandler 创建订单处理器
func NewOrderHandler(
	createOrderUseCase *apporder.CreateOrderUseCase,
	cancelOrderUseCase *apporder.CancelOrderUseCase,
	updateStatusUseCase *apporder.UpdateStatusUseCase,
	getOrdersUseCase *apporder.GetOrdersUseCase,
) *OrderHandler {
	return &OrderHandler{
		createOrderUseCase:  createOrderUseCase,
		cancelOrderUseCase:  cancelOrderUseCase,
		updateStatusUseCase: updateStatusUseCase,
		getOrdersUseCase:    getOrdersUseCase,
	}
}

// CreateOrder 创建订单
// @Summary      创建订单
// @Description  买家下单（需要登录），任一商品库存不足则整单失败并回滚已预占库存
// @Tags         订单模块
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.CreateOrderRequest true "订单信息"
// @Success      200 {object} response.Response{data=dto.CreateOrderResponse} "下单成功"
// @Failure      400 {object} response.Response "参数错误"
// @Failure      401 {object} response.Response "未登录"
// @Failure      404 {object} response.Response "商品不存在"
// @Router       /orders [post]
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var req dto.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+err.Error())
		return
	}

	buyerID := middleware.MustGetUserID(c)

	items := make([]apporder.CreateOrderItem, len(req.Items))
	for i, item := range req.Items {
		items[i] = apporder.CreateOrderItem{
			VariantID: item.VariantID,
			Quantity:  item.Quantity,
		}
	}

	result, err := h.createOrderUseCase.Execute(c.Request.Context(), apporder.CreateOrderRequest{
		BuyerID:           buyerID,
		DeliveryAddressID: req.DeliveryAddressID,
		Items:             items,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, &dto.CreateOrderResponse{
		OrderID:   result.OrderID,
		OrderNo:   result.OrderNo,
		Total:     result.Total,
		TotalYuan: result.TotalYuan,
		Status:    result.Status,
		CreatedAt: result.CreatedAt,
	})
}

// GetOrder 查询订单详情
// @Summary      查询订单详情
// @Description  买家查询自己的订单（含明细），非本人订单返回403
// @Tags         订单模块
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "订单ID"
// @Success      200 {object} response.Response{data=apporder.OrderDTO} "查询成功"
// @Failure      404 {object} response.Response "订单不存在"
// @Router       /orders/{id} [get]
func (h *OrderHandler) GetOrder(c *gin.Context) {
	orderID, err := parseUintParam(c, "id")
	if err != nil {
		response.ErrorWithCode(c, 40900, "订单ID格式错误")
		return
	}

	result, err := h.getOrdersUseCase.Get(c.Request.Context(), orderID, middleware.MustGetUserID(c), false)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// ListOrders 查询订单列表
// @Summary      查询订单列表
// @Description  买家分页查询自己的订单，按创建时间倒序
// @Tags         订单模块
// @Produce      json
// @Security     BearerAuth
// @Param        page query int false "页码，默认1"
// @Param        page_size query int false "每页数量，默认20，最大100"
// @Success      200 {object} response.Response{data=apporder.ListOrdersResponse} "查询成功"
// @Router       /orders [get]
func (h *OrderHandler) ListOrders(c *gin.Context) {
	var req dto.ListOrdersRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+err.Error())
		return
	}

	result, err := h.getOrdersUseCase.List(c.Request.Context(), apporder.ListOrdersRequest{
		BuyerID:  middleware.MustGetUserID(c),
		Page:     req.Page,
		PageSize: req.PageSize,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// CancelOrder 取消订单
// @Summary      取消订单
// @Description  买家取消自己的订单，已预占库存同步释放，发货后不可取消
// @Tags         订单模块
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "订单ID"
// @Success      200 {object} response.Response "取消成功"
// @Failure      403 {object} response.Response "非本人订单"
// @Failure      40002 {object} response.Response "当前状态不可取消"
// @Router       /orders/{id}/cancel [post]
func (h *OrderHandler) CancelOrder(c *gin.Context) {
	orderID, err := parseUintParam(c, "id")
	if err != nil {
		response.ErrorWithCode(c, 40900, "订单ID格式错误")
		return
	}

	if err := h.cancelOrderUseCase.Execute(c.Request.Context(), apporder.CancelOrderRequest{
		OrderID: orderID,
		BuyerID: middleware.MustGetUserID(c),
	}); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// UpdateOrderStatus 推进订单状态
// @Summary      推进订单状态
// @Description  管理端推进订单状态（如确认、发货、送达），非法跃迁返回40002
// @Tags         订单模块
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "订单ID"
// @Param        request body dto.UpdateOrderStatusRequest true "目标状态"
// @Success      200 {object} response.Response "推进成功"
// @Failure      40002 {object} response.Response "非法状态跃迁"
// @Router       /admin/orders/{id}/status [put]
func (h *OrderHandler) UpdateOrderStatus(c *gin.Context) {
	orderID, err := parseUintParam(c, "id")
	if err != nil {
		response.ErrorWithCode(c, 40900, "订单ID格式错误")
		return
	}

	var req dto.UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+err.Error())
		return
	}

	if err := h.updateStatusUseCase.Execute(c.Request.Context(), apporder.UpdateStatusRequest{
		OrderID: orderID,
		Target:  req.Status,
	}); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// AdminGetOrder 管理端查询订单详情
// @Summary      管理端查询订单详情
// @Tags         订单模块
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "订单ID"
// @Success      200 {object} response.Response{data=apporder.OrderDTO} "查询成功"
// @Router       /admin/orders/{id} [get]
func (h *OrderHandler) AdminGetOrder(c *gin.Context) {
	orderID, err := parseUintParam(c, "id")
	if err != nil {
		response.ErrorWithCode(c, 40900, "订单ID格式错误")
		return
	}

	result, err := h.getOrdersUseCase.Get(c.Request.Context(), orderID, 0, true)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// parseUintParam 解析路径中的数字参数
func parseUintParam(c *gin.Context, name string) (uint, error) {
	v, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		return 0, err
	}
	return uint(v), nil
}
