package handler

import (
	"github.com/gin-gonic/gin"

	appinventory "github.com/liuwen/marketplace/internal/application/inventory"
	"github.com/liuwen/marketplace/internal/interface/http/dto"
	"github.com/liuwen/marketplace/pkg/response"
)

// InventoryHandler 库存HTTP处理器
type InventoryHandler struct {
	manageStockUseCase *appinventory.ManageStockUseCase
}

// NewInventoryHandler 创建库存处理器
func NewInventoryHandler(manageStockUseCase *appinventory.ManageStockUseCase) *InventoryHandler {
	return &InventoryHandler{
		manageStockUseCase: manageStockUseCase,
	}
}

// GetStock 查询库存
// @Summary      查询库存
// @Description  查询商品规格的库存快照（可用量、预占量、已售量）
// @Tags         库存模块
// @Produce      json
// @Security     BearerAuth
// @Param        variant_id path int true "商品规格ID"
// @Success      200 {object} response.Response{data=appinventory.StockDTO} "查询成功"
// @Failure      404 {object} response.Response "库存记录不存在"
// @Router       /admin/inventory/{variant_id} [get]
func (h *InventoryHandler) GetStock(c *gin.Context) {
	variantID, err := parseUintParam(c, "variant_id")
	if err != nil {
		response.ErrorWithCode(c, 40900, "规格ID格式错误")
		return
	}

	result, err := h.manageStockUseCase.GetStock(c.Request.Context(), variantID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// Restock 补货
// @Summary      补货
// @Description  管理端为商品规格增加可用库存，写入RESTOCK流水
// @Tags         库存模块
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        variant_id path int true "商品规格ID"
// @Param        request body dto.RestockRequest true "补货数量"
// @Success      200 {object} response.Response "补货成功"
// @Router       /admin/inventory/{variant_id}/restock [post]
func (h *InventoryHandler) Restock(c *gin.Context) {
	variantID, err := parseUintParam(c, "variant_id")
	if err != nil {
		response.ErrorWithCode(c, 40900, "规格ID格式错误")
		return
	}

	var req dto.RestockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+err.Error())
		return
	}

	if err := h.manageStockUseCase.Restock(c.Request.Context(), variantID, req.Quantity); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// ListStockLogs 查询库存流水
// @Summary      查询库存流水
// @Description  查询商品规格的库存变更流水，按时间倒序
// @Tags         库存模块
// @Produce      json
// @Security     BearerAuth
// @Param        variant_id path int true "商品规格ID"
// @Param        page query int false "页码，默认1"
// @Param        page_size query int false "每页数量，默认20"
// @Success      200 {object} response.Response{data=appinventory.ListLogsResponse} "查询成功"
// @Router       /admin/inventory/{variant_id}/logs [get]
func (h *InventoryHandler) ListStockLogs(c *gin.Context) {
	variantID, err := parseUintParam(c, "variant_id")
	if err != nil {
		response.ErrorWithCode(c, 40900, "规格ID格式错误")
		return
	}

	var req dto.ListStockLogsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+err.Error())
		return
	}

	result, err := h.manageStockUseCase.ListLogs(c.Request.Context(), variantID, req.Page, req.PageSize)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}
