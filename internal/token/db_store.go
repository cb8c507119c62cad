package token

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"terminal-terrace/academic/internal/query"
	"terminal-terrace/academic/internal/repository"
)

// DBStore 基于 auth_tokens 表的令牌存储
type DBStore struct {
	repo *repository.AuthTokenRepository
}

func NewDBStore(db *gorm.DB) *DBStore {
	return &DBStore{repo: repository.NewAuthTokenRepository(db)}
}

func (s *DBStore) WithTx(tx *gorm.DB) Store {
	return &DBStore{repo: s.repo.WithTx(tx)}
}

func (s *DBStore) Create(ctx context.Context, rec Record) error {
	name := rec.Name
	if name == "" {
		name = DefaultName
	}
	_, err := s.repo.Save(ctx, repository.Attributes{
		"user_id":    rec.UserID,
		"token_id":   rec.TokenID,
		"name":       name,
		"expires_at": rec.ExpiresAt,
	}, nil)
	if err != nil {
		return fmt.Errorf("存储令牌失败: %w", err)
	}
	return nil
}

// Exists 令牌存在且未过期时记录最近使用时间
func (s *DBStore) Exists(ctx context.Context, tokenID string) (bool, error) {
	rec, err := s.repo.GetOne(ctx, query.Filters{"token_id": tokenID})
	if err != nil {
		return false, fmt.Errorf("获取令牌信息失败: %w", err)
	}
	if rec == nil {
		return false, nil
	}
	now := time.Now()
	if !rec.ExpiresAt.After(now) {
		return false, nil
	}
	if _, err := s.repo.Update(ctx, query.Filters{"id": rec.ID}, repository.Attributes{"last_used_at": now}); err != nil {
		return false, fmt.Errorf("更新令牌使用时间失败: %w", err)
	}
	return true, nil
}

func (s *DBStore) Delete(ctx context.Context, tokenID string) error {
	if _, err := s.repo.DeleteWhere(ctx, query.Filters{"token_id": tokenID}); err != nil {
		return fmt.Errorf("撤销令牌失败: %w", err)
	}
	return nil
}

func (s *DBStore) DeleteAllByUserID(ctx context.Context, userID uint) error {
	if _, err := s.repo.DeleteWhere(ctx, query.Filters{"user_id": userID}); err != nil {
		return fmt.Errorf("撤销用户令牌失败: %w", err)
	}
	return nil
}
