package inventory

import (
	"context"

	"github.com/liuwen/marketplace/internal/domain/inventory"
	apperrors "github.com/liuwen/marketplace/pkg/errors"
)

// ManageStockUseCase 库存管理用例（卖家/管理端：补货、查询、流水）
type ManageStockUseCase struct {
	inventoryRepo inventory.Repository
	logRepo       inventory.LogRepository
}

// NewManageStockUseCase 创建库存管理用例
func NewManageStockUseCase(inventoryRepo inventory.Repository, logRepo inventory.LogRepository) *ManageStockUseCase {
	return &ManageStockUseCase{
		inventoryRepo: inventoryRepo,
		logRepo:       logRepo,
	}
}

// StockDTO 库存DTO
type StockDTO struct {
	VariantID         uint `json:"variant_id"`
	QuantityAvailable int  `json:"quantity_available"`
	ReservedQuantity  int  `json:"reserved_quantity"`
	SoldQuantity      int  `json:"sold_quantity"`
	Sellable          int  `json:"sellable"` // 可预占量 = available - reserved
}

// GetStock 查询库存
func (uc *ManageStockUseCase) GetStock(ctx context.Context, variantID uint) (*StockDTO, error) {
	rec, err := uc.inventoryRepo.GetByVariantID(ctx, variantID)
	if err != nil {
		return nil, err
	}
	return &StockDTO{
		VariantID:         rec.VariantID,
		QuantityAvailable: rec.QuantityAvailable,
		ReservedQuantity:  rec.ReservedQuantity,
		SoldQuantity:      rec.SoldQuantity,
		Sellable:          rec.Available(),
	}, nil
}

// Restock 补货
func (uc *ManageStockUseCase) Restock(ctx context.Context, variantID uint, qty int) error {
	if qty <= 0 {
		return inventory.ErrInvalidQuantity
	}
	return uc.inventoryRepo.Restock(ctx, variantID, qty)
}

// StockLogDTO 库存流水DTO
type StockLogDTO struct {
	ID              uint   `json:"id"`
	VariantID       uint   `json:"variant_id"`
	ChangeType      string `json:"change_type"`
	Quantity        int    `json:"quantity"`
	BeforeAvailable int    `json:"before_available"`
	AfterAvailable  int    `json:"after_available"`
	BeforeReserved  int    `json:"before_reserved"`
	AfterReserved   int    `json:"after_reserved"`
	OrderID         uint   `json:"order_id,omitempty"`
	Remark          string `json:"remark,omitempty"`
	CreatedAt       string `json:"created_at"`
}

// ListLogsResponse 库存流水分页响应
type ListLogsResponse struct {
	List     []StockLogDTO `json:"list"`
	Total    int64         `json:"total"`
	Page     int           `json:"page"`
	PageSize int           `json:"page_size"`
}

// ListLogs 分页查询变体的库存流水
func (uc *ManageStockUseCase) ListLogs(ctx context.Context, variantID uint, page, pageSize int) (*ListLogsResponse, error) {
	if variantID == 0 {
		return nil, apperrors.ErrInvalidParams
	}
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}

	logs, total, err := uc.logRepo.ListByVariantID(ctx, variantID, page, pageSize)
	if err != nil {
		return nil, err
	}

	list := make([]StockLogDTO, len(logs))
	for i, l := range logs {
		list[i] = StockLogDTO{
			ID:              l.ID,
			VariantID:       l.VariantID,
			ChangeType:      string(l.ChangeType),
			Quantity:        l.Quantity,
			BeforeAvailable: l.BeforeAvailable,
			AfterAvailable:  l.AfterAvailable,
			BeforeReserved:  l.BeforeReserved,
			AfterReserved:   l.AfterReserved,
			OrderID:         l.OrderID,
			Remark:          l.Remark,
			CreatedAt:       l.CreatedAt.Format("2006-01-02 15:04:05"),
		}
	}

	return &ListLogsResponse{
		List:     list,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}, nil
}
