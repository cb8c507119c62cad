package token

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"terminal-terrace/academic/internal/model"
	"terminal-terrace/academic/pkg/authsdk"
)

// DefaultName 令牌默认名称
const DefaultName = "auth_token"

// ErrRevoked 签名有效但已被撤销
var ErrRevoked = errors.New("token revoked")

// Issuer 签发与校验访问令牌
type Issuer struct {
	secret string
	ttl    time.Duration
	store  Store
	now    func() time.Time
}

func NewIssuer(secret string, ttl time.Duration, store Store) *Issuer {
	return &Issuer{secret: secret, ttl: ttl, store: store, now: time.Now}
}

// WithTx 令牌记录写入同一个事务
func (i *Issuer) WithTx(tx *gorm.DB) *Issuer {
	clone := *i
	clone.store = i.store.WithTx(tx)
	return &clone
}

// Issue 为用户签发新令牌并登记到存储
func (i *Issuer) Issue(ctx context.Context, user *model.User) (string, error) {
	now := i.now()
	tokenID := uuid.NewString()

	signed, err := authsdk.GenerateToken(i.secret, tokenID, user.ID, user.Email, user.Role.String(), i.ttl, now)
	if err != nil {
		return "", fmt.Errorf("签发令牌失败: %w", err)
	}

	if err := i.store.Create(ctx, Record{
		TokenID:   tokenID,
		UserID:    user.ID,
		Name:      DefaultName,
		ExpiresAt: now.Add(i.ttl),
	}); err != nil {
		return "", err
	}
	return signed, nil
}

// Verify 校验签名与有效期，并确认令牌未被撤销
func (i *Issuer) Verify(ctx context.Context, tokenString string) (*authsdk.Claims, error) {
	claims, err := authsdk.ParseToken(tokenString, i.secret)
	if err != nil {
		return nil, err
	}
	ok, err := i.store.Exists(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrRevoked
	}
	return claims, nil
}

// Revoke 撤销单个令牌
func (i *Issuer) Revoke(ctx context.Context, tokenID string) error {
	return i.store.Delete(ctx, tokenID)
}

// RevokeAll 撤销用户的所有令牌
func (i *Issuer) RevokeAll(ctx context.Context, userID uint) error {
	return i.store.DeleteAllByUserID(ctx, userID)
}
