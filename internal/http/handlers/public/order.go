package public

import (
	handlershared "github.com/calzado-next/internal/http/handlers/shared"
	"github.com/calzado-next/internal/http/response"
	"github.com/calzado-next/internal/service"

	"github.com/gin-gonic/gin"
)

// CreateOrderRequest 下单请求
type CreateOrderRequest struct {
	ShippingAddress string  `json:"direccion_envio" binding:"required"`
	ContactPhone    *string `json:"telefono_contacto"`
	Notes           *string `json:"notas"`
}

// UpdateOrderStatusRequest 修改订单状态请求
type UpdateOrderStatusRequest struct {
	Status string `json:"estado" binding:"required"`
}

// CreateOrder 购物车结算下单
func (h *Handler) CreateOrder(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.shipping_address_required", err)
		return
	}
	order, err := h.OrderService.PlaceOrder(c.Request.Context(), service.PlaceOrderInput{
		UserID:          uid,
		ShippingAddress: req.ShippingAddress,
		ContactPhone:    req.ContactPhone,
		Notes:           req.Notes,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Created(c, gin.H{
		"order_id": order.ID,
		"order_no": order.OrderNo,
		"total":    order.Total,
		"estado":   order.Status,
	})
}

// ListOrders 我的订单
func (h *Handler) ListOrders(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	page, pageSize := handlershared.PageFromQuery(c)
	orders, total, err := h.OrderService.ListOrders(c.Request.Context(), service.OrderListInput{
		Page:     page,
		PageSize: pageSize,
		UserID:   uid,
		Status:   c.Query("estado"),
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.SuccessWithPage(c, orders, response.BuildPagination(page, pageSize, total))
}

// GetOrder 我的订单详情
func (h *Handler) GetOrder(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	id, ok := handlershared.ParseParamID(c, "id", "error.order_not_found")
	if !ok {
		return
	}
	order, err := h.OrderService.GetUserOrder(c.Request.Context(), uid, id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, order)
}

// CancelOrder 取消待处理订单
func (h *Handler) CancelOrder(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	id, ok := handlershared.ParseParamID(c, "id", "error.order_not_found")
	if !ok {
		return
	}
	order, err := h.OrderService.CancelOrder(c.Request.Context(), uid, id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, order)
}

// UpdateOrderStatus 修改订单状态（仅管理员，RBAC 中间件已拦截其他角色）
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
