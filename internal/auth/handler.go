package auth

import (
	"github.com/gin-gonic/gin"

	"terminal-terrace/academic/internal/dto"
	"terminal-terrace/academic/internal/middleware"
)

type AuthHandler struct {
	authService *AuthService
}

func NewAuthHandler(authService *AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register 用户注册
// @Summary 用户注册
// @Tags 认证
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "注册请求"
// @Success 200 {object} response.Response{data=dto.AuthResult}
// @Router /register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.ValidationErrorResponse(c, err)
		return
	}

	result, err := h.authService.Register(c.Request.Context(), req)
	if err != nil {
		dto.ErrorResponse(c, err)
		return
	}
	dto.SuccessResponse(c, result)
}

// Login 用户登录
// @Summary 用户登录
// @Tags 认证
// @Accept json
// @Produce json
// @Param request body LoginRequest true "登录请求"
// @Success 200 {object} response.Response{data=dto.AuthResult}
// @Router /login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.ValidationErrorResponse(c, err)
		return
	}

	result, err := h.authService.Login(c.Request.Context(), req)
	if err != nil {
		dto.ErrorResponse(c, err)
		return
	}
	dto.SuccessResponse(c, result)
}

// Logout 撤销当前令牌
// @Summary 退出登录
// @Tags 认证
// @Produce json
// @Security BearerAuth
// @Router /logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.authService.Logout(c.Request.Context(), middleware.TokenID(c)); err != nil {
		dto.ErrorResponse(c, err)
		return
	}
	dto.SuccessResponse(c, gin.H{
		"message": "退出成功",
	})
}
