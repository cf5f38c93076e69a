package admin

import (
	handlershared "github.com/calzado-next/internal/http/handlers/shared"
	"github.com/calzado-next/internal/http/response"
	"github.com/calzado-next/internal/queue"
	"github.com/calzado-next/internal/service"

	"github.com/gin-gonic/gin"
)

// SetStockRequest 设置尺码库存
type SetStockRequest struct {
	Size     string `json:"size"`
	Quantity *int   `json:"cantidad" binding:"required"`
}

// ListProductStock 商品各尺码库存
func (h *Handler) ListProductStock(c *gin.Context) {
	id, ok := handlershared.ParseParamID(c, "id", "error.product_not_found")
	if !ok {
		return
	}
	rows, err := h.StockService.ListByProduct(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, rows)
}

// SetProductStock 覆盖某尺码库存
func (h *Handler) SetProductStock(c *gin.Context) {
	id, ok := handlershared.ParseParamID(c, "id", "error.product_not_found")
	if !ok {
		return
	}
	var req SetStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.stock_quantity_invalid", err)
		return
	}
	ctx := c.Request.Context()
	if err := h.StockService.SetStock(ctx, id, req.Size, *req.Quantity); err != nil {
		respondServiceError(c, err)
		return
	}
	if err := h.QueueClient.EnqueueStockLowCheck(queue.StockLowCheckPayload{ProductID: id, Size: service.NormalizeSize(req.Size)}); err != nil {
		handlershared.RequestLog(c).Warnw("stock_low_check_enqueue_failed", "product_id", id, "error", err)
	}
	quantity, err := h.StockService.GetStock(ctx, id, req.Size)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, gin.H{"product_id": id, "size": req.Size, "cantidad": quantity})
}

// ListLowStock 低库存列表；threshold 缺省取配置值
func (h *Handler) ListLowStock(c *gin.Context) {
	page, pageSize := handlershared.PageFromQuery(c)
	threshold := handlershared.QueryInt(c, "threshold", h.Config.Order.LowStockThreshold)
	rows, total, err := h.StockService.ListLowStock(c.Request.Context(), threshold, page, pageSize)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.SuccessWithPage(c, rows, response.BuildPagination(page, pageSize, total))
}
