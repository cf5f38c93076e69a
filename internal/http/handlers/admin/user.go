package admin

import (
	"strings"

	handlershared "github.com/calzado-next/internal/http/handlers/shared"
	"github.com/calzado-next/internal/http/response"
	"github.com/calzado-next/internal/service"

	"github.com/gin-gonic/gin"
)

// UpdateUserRequest 更新用户
type UpdateUserRequest struct {
	IsAdmin *bool   `json:"is_admin"`
	Status  *string `json:"status"`
}

// ListUsers 用户列表
func (h *Handler) ListUsers(c *gin.Context) {
	page, pageSize := handlershared.PageFromQuery(c)
	users, total, err := h.UserAdminService.List(c.Request.Context(), service.UserListInput{
		Page:     page,
		PageSize: pageSize,
		Keyword:  strings.TrimSpace(c.Query("keyword")),
		Status:   strings.TrimSpace(c.Query("status")),
		IsAdmin:  handlershared.QueryBool(c, "is_admin"),
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.SuccessWithPage(c, users, response.BuildPagination(page, pageSize, total))
}

// GetUser 用户详情
func (h *Handler) GetUser(c *gin.Context) {
	id, ok := handlershared.ParseParamID(c, "id", "error.user_not_found")
	if !ok {
		return
	}
	user, err := h.UserAdminService.Get(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, user)
}

// UpdateUser 修改用户状态或管理员标记
func (h *Handler) UpdateUser(c *gin.Context) {
	operatorID, ok := getOperatorID(c)
	if !ok {
		return
	}
	id, ok := handlershared.ParseParamID(c, "id", "error.user_not_found")
	if !ok {
		return
	}
	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	user, err := h.UserAdminService.Update(c.Request.Context(), operatorID, id, service.UserUpdateInput{
		IsAdmin: req.IsAdmin,
		Status:  req.Status,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, user)
}

// DeleteUser 删除用户
func (h *Handler) DeleteUser(c *gin.Context) {
	operatorID, ok := getOperatorID(c)
	if !ok {
		return
	}
	id, ok := handlershared.ParseParamID(c, "id", "error.user_not_found")
	if !ok {
		return
	}
	if err := h.UserAdminService.Delete(c.Request.Context(), operatorID, id); err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, gin.H{"deleted": true})
}
