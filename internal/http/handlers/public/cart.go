package public

import (
	handlershared "github.com/calzado-next/internal/http/handlers/shared"
	"github.com/calzado-next/internal/http/response"

	"github.com/gin-gonic/gin"
)

// AddCartItemRequest 加入购物车请求；cantidad 省略时为 1
type AddCartItemRequest struct {
	ProductID uint   `json:"product_id" binding:"required"`
	Size      string `json:"size"`
	Quantity  int    `json:"cantidad"`
}

// UpdateCartItemRequest 修改数量请求；cantidad <= 0 表示删除
type UpdateCartItemRequest struct {
	Quantity *int `json:"cantidad" binding:"required"`
}

// GetCart 获取购物车
func (h *Handler) GetCart(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	view, err := h.CartService.GetCart(c.Request.Context(), uid)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, view)
}

// AddCartItem 加入购物车
func (h *Handler) AddCartItem(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var req AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	item, err := h.CartService.AddItem(c.Request.Context(), uid, req.ProductID, req.Size, req.Quantity)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, gin.H{"id": item.ID, "cantidad": item.Quantity})
}

// UpdateCartItem 修改购物车项数量
func (h *Handler) UpdateCartItem(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	itemID, ok := handlershared.ParseParamID(c, "item_id", "error.cart_item_not_found")
	if !ok {
		return
	}
	var req UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	if err := h.CartService.UpdateQuantity(c.Request.Context(), uid, itemID, *req.Quantity); err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, gin.H{"updated": true, "removed": *req.Quantity <= 0})
}

// RemoveCartItem 删除购物车项
func (h *Handler) RemoveCartItem(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	itemID, ok := handlershared.ParseParamID(c, "item_id", "error.cart_item_not_found")
	if !ok {
		return
	}
	if err := h.CartService.RemoveItem(c.Request.Context(), uid, itemID); err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, gin.H{"deleted": true})
}

// ClearCart 清空购物车
func (h *Handler) ClearCart(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	if err := h.CartService.Clear(c.Request.Context(), uid); err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, gin.H{"cleared": true})
}
