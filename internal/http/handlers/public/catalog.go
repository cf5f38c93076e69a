package public

import (
	"strings"

	handlershared "github.com/calzado-next/internal/http/handlers/shared"
	"github.com/calzado-next/internal/http/response"
	"github.com/calzado-next/internal/service"

	"github.com/gin-gonic/gin"
)

// ListProducts 商品列表（仅上架商品）
func (h *Handler) ListProducts(c *gin.Context) {
	page, pageSize := handlershared.PageFromQuery(c)
	products, total, err := h.ProductService.List(c.Request.Context(), service.ProductListInput{
		Page:       page,
		PageSize:   pageSize,
		CategoryID: handlershared.QueryUint(c, "category_id"),
		Search:     strings.TrimSpace(c.Query("q")),
		Featured:   handlershared.QueryBool(c, "destacado"),
		OnlyActive: true,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	items := make([]service.ProductView, 0, len(products))
	for i := range products {
		items = append(items, service.BuildProductView(&products[i]))
	}
	response.SuccessWithPage(c, items, response.BuildPagination(page, pageSize, total))
}

// GetProduct 商品详情
func (h *Handler) GetProduct(c *gin.Context) {
	id, ok := handlershared.ParseParamID(c, "id", "error.product_not_found")
	if !ok {
		return
	}
	product, err := h.ProductService.Get(c.Request.Context(), id, true)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, service.BuildProductView(product))
}

// ListCategories 分类列表（仅启用分类）
func (h *Handler) ListCategories(c *gin.Context) {
	categories, err := h.CategoryService.List(c.Request.Context(), true)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, categories)
}
