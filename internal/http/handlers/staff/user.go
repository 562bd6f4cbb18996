package staff

import (
	"strconv"

	handlershared "github.com/ordertrack/internal/http/handlers/shared"
	"github.com/ordertrack/internal/http/response"
	"github.com/ordertrack/internal/repository"
	"github.com/ordertrack/internal/service"

	"github.com/gin-gonic/gin"
)

// ListUsers 用户列表（管理员）
func (h *Handler) ListUsers(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = handlershared.NormalizePagination(page, pageSize)

	users, total, err := h.UserService.List(repository.UserListFilter{
		Page:     page,
		PageSize: pageSize,
		Keyword:  c.Query("keyword"),
		Role:     c.Query("role"),
		Status:   c.Query("status"),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "user fetch failed", err)
		return
	}

	response.SuccessWithPage(c, users, response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: (total + int64(pageSize) - 1) / int64(pageSize),
	})
}

// UpdateUserRole 调整用户角色（管理员）
// 角色变更同时刷新授权绑定并使存量令牌失效。
func (h *Handler) UpdateUserRole(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		respondError(c, response.CodeBadRequest, "invalid user id", nil)
		return
	}

	var req struct {
		Role string `json:"role" binding:"required"`
	}
	if berr := c.ShouldBindJSON(&req); berr != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", berr)
		return
	}

	user, uerr := h.UserService.UpdateRole(uint(id), req.Role)
	if uerr != nil {
		respondWithMappedError(c, uerr, userRoleErrorRules, response.CodeInternal, "role update failed")
		return
	}

	if aerr := h.AuthzService.SetUserRole(user.ID, user.Role); aerr != nil {
		respondError(c, response.CodeInternal, "role update failed", aerr)
		return
	}

	requestLog(c).Infow("user_role_updated",
		"user_id", user.ID,
		"role", user.Role,
	)
	response.Success(c, user)
}

var userRoleErrorRules = []mappedHandlerError{
	{target: service.ErrUserNotFound, code: response.CodeNotFound, msg: "user not found"},
	{target: service.ErrInvalidRole, code: response.CodeBadRequest, msg: "unknown role"},
}
