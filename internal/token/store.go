// Package token 访问令牌的签发、校验与撤销
// 令牌是带 jti 的 JWT，jti 存在于令牌存储中时令牌才有效，删除即撤销。
package token

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// Record 已签发令牌的存储记录
type Record struct {
	TokenID   string
	UserID    uint
	Name      string
	ExpiresAt time.Time
}

// Store 令牌存储
type Store interface {
	Create(ctx context.Context, rec Record) error
	// Exists 令牌存在且未过期
	Exists(ctx context.Context, tokenID string) (bool, error)
	Delete(ctx context.Context, tokenID string) error
	DeleteAllByUserID(ctx context.Context, userID uint) error
	// WithTx 绑定到事务；不支持事务的存储返回自身
	WithTx(tx *gorm.DB) Store
}
