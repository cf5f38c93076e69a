package admin

import (
	"strings"

	handlershared "github.com/calzado-next/internal/http/handlers/shared"
	"github.com/calzado-next/internal/http/response"
	"github.com/calzado-next/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// SizeStockRequest 尺码库存
type SizeStockRequest struct {
	Size     string `json:"size"`
	Quantity int    `json:"cantidad"`
}

// ProductRequest 创建/更新商品请求
type ProductRequest struct {
	CategoryID       uint               `json:"category_id" binding:"required"`
	Name             string             `json:"nombre" binding:"required"`
	Description      string             `json:"descripcion"`
	Brand            string             `json:"marca"`
	Price            decimal.Decimal    `json:"precio"`
	PromoPrice       *decimal.Decimal   `json:"precio_promocion"`
	Active           *bool              `json:"activo"`
	Featured         bool               `json:"destacado"`
	Image            string             `json:"imagen"`
	AdditionalImages []string           `json:"imagenes_adicionales"`
	Features         []string           `json:"caracteristicas"`
	SortOrder        int                `json:"orden"`
	Sizes            []SizeStockRequest `json:"tallas"`
}

func (req ProductRequest) toInput() service.ProductInput {
	sizes := make([]service.SizeStockInput, 0, len(req.Sizes))
	for _, size := range req.Sizes {
		sizes = append(sizes, service.SizeStockInput{Size: size.Size, Quantity: size.Quantity})
	}
	return service.ProductInput{
		CategoryID:       req.CategoryID,
		Name:             req.Name,
		Description:      req.Description,
		Brand:            req.Brand,
		Price:            req.Price,
		PromoPrice:       req.PromoPrice,
		Active:           req.Active,
		Featured:         req.Featured,
		Image:            req.Image,
		AdditionalImages: req.AdditionalImages,
		Features:         req.Features,
		SortOrder:        req.SortOrder,
		Sizes:            sizes,
	}
}

// ListProducts 商品列表（含下架商品）
func (h *Handler) ListProducts(c *gin.Context) {
	page, pageSize := handlershared.PageFromQuery(c)
	products, total, err := h.ProductService.List(c.Request.Context(), service.ProductListInput{
		Page:       page,
		PageSize:   pageSize,
		CategoryID: handlershared.QueryUint(c, "category_id"),
		Search:     strings.TrimSpace(c.Query("q")),
		Featured:   handlershared.QueryBool(c, "destacado"),
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
	product, err := h.ProductService.Get(c.Request.Context(), id, false)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, service.BuildProductView(product))
}

// CreateProduct 创建商品
func (h *Handler) CreateProduct(c *gin.Context) {
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.product_invalid", err)
		return
	}
	product, err := h.ProductService.Create(c.Request.Context(), req.toInput())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Created(c, service.BuildProductView(product))
}

// UpdateProduct 更新商品
func (h *Handler) UpdateProduct(c *gin.Context) {
	id, ok := handlershared.ParseParamID(c, "id", "error.product_not_found")
	if !ok {
		return
	}
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.product_invalid", err)
		return
	}
	product, err := h.ProductService.Update(c.Request.Context(), id, req.toInput())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, service.BuildProductView(product))
}

// DeactivateProduct 下架商品（软删除）
func (h *Handler) DeactivateProduct(c *gin.Context) {
	id, ok := handlershared.ParseParamID(c, "id", "error.product_not_found")
	if !ok {
		return
	}
	if err := h.ProductService.Deactivate(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, gin.H{"activo": false})
}

// PurgeProduct 物理删除商品（连带尺码库存与购物车项）
func (h *Handler) PurgeProduct(c *gin.Context) {
	id, ok := handlershared.ParseParamID(c, "id", "error.product_not_found")
	if !ok {
		return
	}
	if err := h.ProductService.Purge(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, gin.H{"deleted": true})
}
