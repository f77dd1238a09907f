package handler

import (
	"bytes"
	"io"

	"github.com/gin-gonic/gin"

	apppayment "github.com/liuwen/marketplace/internal/application/payment"
	"github.com/liuwen/marketplace/internal/interface/http/dto"
	"github.com/liuwen/marketplace/internal/interface/http/middleware"
	"github.com/liuwen/marketplace/pkg/response"
)

// PaymentHandler 支付HTTP处理器
type PaymentHandler struct {
	initiateUseCase    *apppayment.InitiatePaymentUseCase
	handleEventUseCase *apppayment.HandleEventUseCase
	refundUseCase      *apppayment.RefundUseCase
	getPaymentsUseCase *apppayment.GetPaymentsUseCase
}

// NewPaymentHandler 创建支付处理器
func NewPaymentHandler(
	initiateUseCase *apppayment.InitiatePaymentUseCase,
	handleEventUseCase *apppayment.HandleEventUseCase,
	refundUseCase *apppayment.RefundUseCase,
	getPaymentsUseCase *apppayment.GetPaymentsUseCase,
) *PaymentHandler {
	return &PaymentHandler{
		initiateUseCase:    initiateUseCase,
		handleEventUseCase: handleEventUseCase,
		refundUseCase:      refundUseCase,
		getPaymentsUseCase: getPaymentsUseCase,
	}
}

// InitiatePayment 发起支付
// @Summary      发起支付
// @Description  买家为自己的待支付订单发起支付，在线方式调用网关，COD直接登记
// @Tags         支付模块
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.InitiatePaymentRequest true "支付信息"
// @Success      200 {object} response.Response{data=apppayment.InitiatePaymentResponse} "发起成功"
// @Failure      40002 {object} response.Response "订单状态不允许支付"
// @Failure      50004 {object} response.Response "支付网关暂不可用"
// @Router       /payments [post]
func (h *PaymentHandler) InitiatePayment(c *gin.Context) {
	var req dto.InitiatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+err.Error())
		return
	}

	result, err := h.initiateUseCase.Execute(c.Request.Context(), apppayment.InitiatePaymentRequest{
		OrderID:  req.OrderID,
		BuyerID:  middleware.MustGetUserID(c),
		Provider: req.Provider,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// Webhook 网关回调
// @Summary      支付网关回调
// @Description  网关异步通知支付结果，同一reference重复送达幂等处理，无需认证
// @Tags         支付模块
// @Accept       json
// @Produce      json
// @Param        request body dto.WebhookRequest true "回调报文"
// @Success      200 {object} response.Response "已受理"
// @Failure      404 {object} response.Response "流水不存在"
// @Router       /payments/webhook [post]
func (h *PaymentHandler) Webhook(c *gin.Context) {
	// 原始报文留档，绑定前先读出来
	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		response.ErrorWithCode(c, 40900, "读取报文失败")
		return
	}
	c.Request.Body = io.NopCloser(bytes.NewReader(raw))

	var req dto.WebhookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+err.Error())
		return
	}

	if err := h.handleEventUseCase.Execute(c.Request.Context(), apppayment.ExternalEvent{
		Provider:      req.Provider,
		Reference:     req.Reference,
		Outcome:       req.Status,
		TransactionID: req.TransactionID,
		Reason:        req.Reason,
		Raw:           string(raw),
	}); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// Refund 人工退款
// @Summary      人工退款
// @Description  管理端对已完成的支付流水执行退款，生成REFUNDED流水
// @Tags         支付模块
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.RefundRequest true "退款信息"
// @Success      200 {object} response.Response{data=apppayment.RefundResponse} "退款成功"
// @Failure      40003 {object} response.Response "退款金额非法"
// @Failure      40004 {object} response.Response "流水不可退款"
// @Router       /admin/payments/refund [post]
func (h *PaymentHandler) Refund(c *gin.Context) {
	var req dto.RefundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+err.Error())
		return
	}

	result, err := h.refundUseCase.Execute(c.Request.Context(), apppayment.RefundRequest{
		PaymentID: req.PaymentID,
		Amount:    req.Amount,
		Source:    "manual",
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// ListOrderPayments 查询订单支付流水
// @Summary      查询订单支付流水
// @Description  管理端查询某订单的全部支付/退款流水，按时间倒序
// @Tags         支付模块
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "订单ID"
// @Success      200 {object} response.Response{data=[]apppayment.PaymentDTO} "查询成功"
// @Router       /admin/orders/{id}/payments [get]
func (h *PaymentHandler) ListOrderPayments(c *gin.Context) {
	orderID, err := parseUintParam(c, "id")
	if err != nil {
		response.ErrorWithCode(c, 40900, "订单ID格式错误")
		return
	}

	result, err := h.getPaymentsUseCase.ListByOrder(c.Request.Context(), orderID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}
