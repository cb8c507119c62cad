package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"

	"terminal-terrace/academic/internal/dto"
	"terminal-terrace/academic/internal/model"
	"terminal-terrace/academic/internal/permission"
	"terminal-terrace/academic/internal/token"
	"terminal-terrace/academic/pkg/authsdk"
	"terminal-terrace/academic/pkg/response"
)

const (
	ContextUserID   = "user_id"
	ContextEmail    = "email"
	ContextUserRole = "user_role"
	ContextTokenID  = "token_id"
)

// JWTAuth JWT 认证中间件（必需认证），令牌被撤销时同样拒绝
func JWTAuth(issuer *token.Issuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := authsdk.ExtractBearer(c.GetHeader("Authorization"))
		if err != nil {
			abort(c, authMessage(err))
			return
		}

		claims, err := issuer.Verify(c.Request.Context(), tokenString)
		if err != nil {
			abort(c, authMessage(err))
			return
		}

		// 将用户信息存入上下文
		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextEmail, claims.Email)
		c.Set(ContextUserRole, claims.Role)
		c.Set(ContextTokenID, claims.ID)
		c.Next()
	}
}

func abort(c *gin.Context, msg string) {
	dto.ErrorResponse(c, response.NewBusinessError(
		response.WithErrorCode(response.Unauthorized),
		response.WithErrorMessage(msg),
	))
	c.Abort()
}

func authMessage(err error) string {
	switch {
	case errors.Is(err, authsdk.ErrNoToken):
		return "未提供认证令牌"
	case errors.Is(err, authsdk.ErrExpiredToken):
		return "认证令牌已过期"
	case errors.Is(err, token.ErrRevoked):
		return "认证令牌已失效"
	case errors.Is(err, authsdk.ErrInvalidToken):
		return "无效的认证令牌"
	default:
		return "认证失败"
	}
}

// Principal 从上下文取出当前调用者
func Principal(c *gin.Context) permission.Principal {
	return permission.Principal{
		UserID: c.GetUint(ContextUserID),
		Role:   model.Role(c.GetString(ContextUserRole)),
	}
}

// TokenID 当前请求使用的令牌 jti
func TokenID(c *gin.Context) string {
	return c.GetString(ContextTokenID)
}
