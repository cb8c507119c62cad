package auth

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes public 不需要认证，authed 已挂载认证中间件
func RegisterRoutes(public, authed *gin.RouterGroup, authService *AuthService) {
	handler := NewAuthHandler(authService)

	public.POST("/register", handler.Register)
	public.POST("/login", handler.Login)

	authed.POST("/logout", handler.Logout)
}
