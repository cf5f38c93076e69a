package admin

import (
	"strings"

	handlershared "github.com/calzado-next/internal/http/handlers/shared"
	"github.com/calzado-next/internal/http/response"
	"github.com/calzado-next/internal/service"

	"github.com/gin-gonic/gin"
)

// UpdateOrderStatusRequest 修改订单状态
type UpdateOrderStatusRequest struct {
	Status string `json:"estado" binding:"required"`
}

// ListOrders 订单列表（全部用户）
func (h *Handler) ListOrders(c *gin.Context) {
	page, pageSize := handlershared.PageFromQuery(c)
	orders, total, err := h.OrderService.ListOrders(c.Request.Context(), service.OrderListInput{
		Page:        page,
		PageSize:    pageSize,
		UserID:      handlershared.QueryUint(c, "user_id"),
		Status:      c.Query("estado"),
		OrderNo:     strings.TrimSpace(c.Query("order_no")),
		CreatedFrom: parseQueryTime(c, "created_from", false),
		CreatedTo:   parseQueryTime(c, "created_to", true),
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.SuccessWithPage(c, orders, response.BuildPagination(page, pageSize, total))
}

// GetOrder 订单详情
func (h *Handler) GetOrder(c *gin.Context) {
	id, ok := handlershared.ParseParamID(c, "id", "error.order_not_found")
	if !ok {
		return
	}
	order, err := h.OrderService.GetOrder(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, order)
}

// UpdateOrderStatus 修改订单状态
func (h *Handler) UpdateOrderStatus(c *gin.Context) {
	id, ok := handlershared.ParseParamID(c, "id", "error.order_not_found")
	if !ok {
		return
	}
	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.order_status_invalid", err)
		return
	}
	order, err := h.OrderService.UpdateStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, order)
}
