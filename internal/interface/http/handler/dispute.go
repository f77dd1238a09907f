package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	appdispute "github.com/liuwen/marketplace/internal/application/dispute"
	"github.com/liuwen/marketplace/internal/domain/dispute"
	"github.com/liuwen/marketplace/internal/interface/http/dto"
	"github.com/liuwen/marketplace/internal/interface/http/middleware"
	"github.com/liuwen/marketplace/pkg/response"
)

// DisputeHandler 纠纷HTTP处理器
type DisputeHandler struct {
	openUseCase    *appdispute.OpenDisputeUseCase
	resolveUseCase *appdispute.ResolveDisputeUseCase
	manageUseCase  *appdispute.ManageDisputeUseCase
}

// NewDisputeHandler 创建纠纷处理器
func NewDisputeHandler(
	openUseCase *appdispute.OpenDisputeUseCase,
	resolveUseCase *appdispute.ResolveDisputeUseCase,
	manageUseCase *appdispute.ManageDisputeUseCase,
) *DisputeHandler {
	return &DisputeHandler{
		openUseCase:    openUseCase,
		resolveUseCase: resolveUseCase,
		manageUseCase:  manageUseCase,
	}
}

// OpenDispute 发起纠纷
// @Summary      发起纠纷
// @Description  买家就自己的订单发起纠纷，同一订单同时只能有一个活跃纠纷
// @Tags         纠纷模块
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.OpenDisputeRequest true "纠纷信息"
// @Success      200 {object} response.Response{data=appdispute.OpenDisputeResponse} "发起成功"
// @Failure      40005 {object} response.Response "已存在活跃纠纷"
// @Router       /disputes [post]
func (h *DisputeHandler) OpenDispute(c *gin.Context) {
	var req dto.OpenDisputeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+err.Error())
		return
	}

	result, err := h.openUseCase.Execute(c.Request.Context(), appdispute.OpenDisputeRequest{
		OrderID:     req.OrderID,
		BuyerID:     middleware.MustGetUserID(c),
		Reason:      req.Reason,
		Description: req.Description,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// GetDispute 查询纠纷详情
// @Summary      查询纠纷详情
// @Tags         纠纷模块
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "纠纷ID"
// @Success      200 {object} response.Response{data=appdispute.DisputeDTO} "查询成功"
// @Failure      404 {object} response.Response "纠纷不存在"
// @Router       /admin/disputes/{id} [get]
func (h *DisputeHandler) GetDispute(c *gin.Context) {
	disputeID, err := parseUintParam(c, "id")
	if err != nil {
		response.ErrorWithCode(c, 40900, "纠纷ID格式错误")
		return
	}

	result, err := h.manageUseCase.Get(c.Request.Context(), disputeID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// ListDisputes 纠纷工作台列表
// @Summary      纠纷工作台列表
// @Description  管理端按状态分页查询纠纷，按创建时间正序（先到先处理）
// @Tags         纠纷模块
// @Produce      json
// @Security     BearerAuth
// @Param        status query string true "状态" Enums(open, in_progress, resolved, closed)
// @Param        page query int false "页码，默认1"
// @Param        page_size query int false "每页数量，默认20"
// @Success      200 {object} response.Response{data=appdispute.ListByStatusResponse} "查询成功"
// @Router       /admin/disputes [get]
func (h *DisputeHandler) ListDisputes(c *gin.Context) {
	var req dto.ListDisputesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+err.Error())
		return
	}

	result, err := h.manageUseCase.ListByStatus(c.Request.Context(), appdispute.ListByStatusRequest{
		Status:   req.Status,
		Page:     req.Page,
		PageSize: req.PageSize,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// AssignDispute 指派纠纷
// @Summary      指派纠纷
// @Description  把OPEN状态的纠纷指派给管理员，状态推进到IN_PROGRESS
// @Tags         纠纷模块
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "纠纷ID"
// @Param        request body dto.AssignDisputeRequest true "指派信息"
// @Success      200 {object} response.Response "指派成功"
// @Failure      40002 {object} response.Response "当前状态不可指派"
// @Router       /admin/disputes/{id}/assign [post]
func (h *DisputeHandler) AssignDispute(c *gin.Context) {
	disputeID, err := parseUintParam(c, "id")
	if err != nil {
		response.ErrorWithCode(c, 40900, "纠纷ID格式错误")
		return
	}

	var req dto.AssignDisputeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+err.Error())
		return
	}

	if err := h.manageUseCase.Assign(c.Request.Context(), disputeID, req.AdminID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// ResolveDispute 裁决纠纷
// @Summary      裁决纠纷
// @Description  管理员裁决纠纷并可附带退款；退款执行失败时裁决仍生效，纠纷标记退款待补
// @Tags         纠纷模块
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "纠纷ID"
// @Param        request body dto.ResolveDisputeRequest true "裁决信息"
// @Success      200 {object} response.Response{data=appdispute.DisputeDTO} "裁决成功"
// @Failure      40002 {object} response.Response "当前状态不可裁决"
// @Failure      40006 {object} response.Response "裁决已生效但退款待补"
// @Router       /admin/disputes/{id}/resolve [post]
func (h *DisputeHandler) ResolveDispute(c *gin.Context) {
	disputeID, err := parseUintParam(c, "id")
	if err != nil {
		response.ErrorWithCode(c, 40900, "纠纷ID格式错误")
		return
	}

	var req dto.ResolveDisputeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+err.Error())
		return
	}

	err = h.resolveUseCase.Execute(c.Request.Context(), appdispute.ResolveDisputeRequest{
		DisputeID:    disputeID,
		AdminID:      middleware.MustGetUserID(c),
		Resolution:   req.Resolution,
		RefundAmount: req.RefundAmount,
		Notes:        req.Notes,
	})
	// 退款待补不是裁决失败，裁决已持久化，把带refund_pending标记的纠纷返回给前端
	if err != nil && !errors.Is(err, dispute.ErrNoRefundablePayment) {
		response.Error(c, err)
		return
	}

	result, getErr := h.manageUseCase.Get(c.Request.Context(), disputeID)
	if getErr != nil {
		response.Error(c, getErr)
		return
	}
	response.Success(c, result)
}

// CloseDispute 关闭纠纷
// @Summary      关闭纠纷
// @Description  把RESOLVED状态的纠纷归档为CLOSED
// @Tags         纠纷模块
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "纠纷ID"
// @Success      200 {object} response.Response "关闭成功"
// @Failure      40002 {object} response.Response "仅已裁决的纠纷可关闭"
// @Router       /admin/disputes/{id}/close [post]
func (h *DisputeHandler) CloseDispute(c *gin.Context) {
	disputeID, err := parseUintParam(c, "id")
	if err != nil {
		response.ErrorWithCode(c, 40900, "纠纷ID格式错误")
		return
	}

	if err := h.manageUseCase.Close(c.Request.Context(), disputeID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}
