package token

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"gorm.io/gorm"

	"terminal-terrace/academic/pkg/database"
)

const (
	// TokenPrefix 令牌 key 前缀
	TokenPrefix = "auth_token:"
	// UserTokensPrefix 用户的令牌集合 key 前缀（用于撤销用户的所有 session）
	UserTokensPrefix = "user_auth_tokens:"
)

// RedisStore 基于 Redis 的令牌存储，key 随令牌一起过期
type RedisStore struct {
	redis *database.RedisClient
}

func NewRedisStore(redisClient *database.RedisClient) *RedisStore {
	return &RedisStore{redis: redisClient}
}

// WithTx Redis 不参与数据库事务
func (s *RedisStore) WithTx(*gorm.DB) Store {
	return s
}

func (s *RedisStore) Create(ctx context.Context, rec Record) error {
	ttl := time.Until(rec.ExpiresAt)
	if ttl <= 0 {
		return fmt.Errorf("令牌已过期")
	}
	name := rec.Name
	if name == "" {
		name = DefaultName
	}

	key := TokenPrefix + rec.TokenID
	if err := s.redis.HSet(ctx, key, map[string]interface{}{
		"user_id": rec.UserID,
		"name":    name,
	}).Err(); err != nil {
		return fmt.Errorf("存储令牌失败: %w", err)
	}
	if err := s.redis.Expire(ctx, key, ttl).Err(); err != nil {
		return fmt.Errorf("设置令牌过期时间失败: %w", err)
	}

	// 集合的过期时间取最晚签发令牌的有效期
	setKey := userTokensKey(rec.UserID)
	if err := s.redis.SAdd(ctx, setKey, rec.TokenID).Err(); err != nil {
		return fmt.Errorf("添加到用户令牌集合失败: %w", err)
	}
	if err := s.redis.Expire(ctx, setKey, ttl).Err(); err != nil {
		return fmt.Errorf("设置用户令牌集合过期时间失败: %w", err)
	}
	return nil
}

func (s *RedisStore) Exists(ctx context.Context, tokenID string) (bool, error) {
	n, err := s.redis.Exists(ctx, TokenPrefix+tokenID).Result()
	if err != nil {
		return false, fmt.Errorf("获取令牌信息失败: %w", err)
	}
	return n > 0, nil
}

func (s *RedisStore) Delete(ctx context.Context, tokenID string) error {
	key := TokenPrefix + tokenID

	// 先获取用户 ID，以便从用户的令牌集合中删除
	userIDStr, err := s.redis.HGet(ctx, key, "user_id").Result()
	if err == nil {
		if userID, convErr := strconv.ParseUint(userIDStr, 10, 64); convErr == nil {
			s.redis.SRem(ctx, userTokensKey(uint(userID)), tokenID)
		}
	}

	if err := s.redis.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("撤销令牌失败: %w", err)
	}
	return nil
}

func (s *RedisStore) DeleteAllByUserID(ctx context.Context, userID uint) error {
	setKey := userTokensKey(userID)

	tokens, err := s.redis.SMembers(ctx, setKey).Result()
	if err != nil {
		return fmt.Errorf("获取用户令牌列表失败: %w", err)
	}

	keys := make([]string, 0, len(tokens)+1)
	for _, tokenID := range tokens {
		keys = append(keys, TokenPrefix+tokenID)
	}
	keys = append(keys, setKey)

	if err := s.redis.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("撤销用户令牌失败: %w", err)
	}
	return nil
}

func userTokensKey(userID uint) string {
	return UserTokensPrefix + strconv.FormatUint(uint64(userID), 10)
}
