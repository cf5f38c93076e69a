package admin

import (
	handlershared "github.com/calzado-next/internal/http/handlers/shared"
	"github.com/calzado-next/internal/http/response"
	"github.com/calzado-next/internal/service"

	"github.com/gin-gonic/gin"
)

// CategoryRequest 创建/更新分类请求
type CategoryRequest struct {
	Name      string `json:"nombre" binding:"required"`
	Slug      string `json:"slug" binding:"required"`
	Active    *bool  `json:"activo"`
	SortOrder int    `json:"orden"`
}

func (req CategoryRequest) toInput() service.CategoryInput {
	return service.CategoryInput{
		Name:      req.Name,
		Slug:      req.Slug,
		Active:    req.Active,
		SortOrder: req.SortOrder,
	}
}

// ListCategories 分类列表（含停用）
func (h *Handler) ListCategories(c *gin.Context) {
	categories, err := h.CategoryService.List(c.Request.Context(), false)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, categories)
}

// GetCategory 分类详情
func (h *Handler) GetCategory(c *gin.Context) {
	id, ok := handlershared.ParseParamID(c, "id", "error.category_not_found")
	if !ok {
		return
	}
	category, err := h.CategoryService.Get(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, category)
}

// CreateCategory 创建分类
func (h *Handler) CreateCategory(c *gin.Context) {
	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.category_invalid", err)
		return
	}
	category, err := h.CategoryService.Create(c.Request.Context(), req.toInput())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Created(c, category)
}

// UpdateCategory 更新分类
func (h *Handler) UpdateCategory(c *gin.Context) {
	id, ok := handlershared.ParseParamID(c, "id", "error.category_not_found")
	if !ok {
		return
	}
	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.category_invalid", err)
		return
	}
	category, err := h.CategoryService.Update(c.Request.Context(), id, req.toInput())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, category)
}

// DeactivateCategory 停用分类
func (h *Handler) DeactivateCategory(c *gin.Context) {
	id, ok := handlershared.ParseParamID(c, "id", "error.category_not_found")
	if !ok {
		return
	}
	if err := h.CategoryService.Deactivate(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, gin.H{"activo": false})
}
