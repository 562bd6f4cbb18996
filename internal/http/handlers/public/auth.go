package public

import (
	"time"

	"github.com/ordertrack/internal/http/response"
	"github.com/ordertrack/internal/models"
	"github.com/ordertrack/internal/service"

	"github.com/gin-gonic/gin"
)

// RegisterRequest 注册请求
type RegisterRequest struct {
	Email       string `json:"email" binding:"required"`
	Password    string `json:"password" binding:"required"`
	DisplayName string `json:"display_name"`
	Phone       string `json:"phone"`
}

// LoginRequest 登录请求
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AuthUserResponse 登录态用户信息
type AuthUserResponse struct {
	ID          uint   `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	Phone       string `json:"phone"`
	Role        string `json:"role"`
}

func buildAuthUserResponse(user *models.User) AuthUserResponse {
	return AuthUserResponse{
		ID:          user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		Phone:       user.Phone,
		Role:        user.Role,
	}
}

func buildAuthResponse(user *models.User, token string, expiresAt time.Time) gin.H {
	return gin.H{
		"token":      token,
		"expires_at": expiresAt,
		"user":       buildAuthUserResponse(user),
	}
}

// Register 用户注册
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}

	user, token, expiresAt, err := h.AuthService.Register(service.RegisterInput{
		Email:       req.Email,
		Password:    req.Password,
		DisplayName: req.DisplayName,
		Phone:       req.Phone,
	})
	if err != nil {
		respondAuthError(c, err)
		return
	}

	requestLog(c).Infow("user_registered", "user_id", user.ID)
	response.Success(c, buildAuthResponse(user, token, expiresAt))
}

// Login 用户登录
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}

	user, token, expiresAt, err := h.AuthService.Login(req.Email, req.Password)
	if err != nil {
		respondAuthError(c, err)
		return
	}

	response.Success(c, buildAuthResponse(user, token, expiresAt))
}

// Me 当前登录用户
func (h *Handler) Me(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	user, err := h.UserService.Get(uid)
	if err != nil {
		respondError(c, response.CodeNotFound, "user not found", nil)
		return
	}
	response.Success(c, buildAuthUserResponse(user))
}
