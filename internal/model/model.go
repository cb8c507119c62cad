package model

import (
	"time"

	"gorm.io/gorm"
)

// Keyed 有主键的实体
type Keyed interface {
	PrimaryKey() uint
}

// AuthToken 已签发的访问令牌，删除即撤销
type AuthToken struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	UserID     uint       `gorm:"not null;index" json:"user_id"`
	TokenID    string     `gorm:"type:varchar(64);not null;uniqueIndex" json:"token_id"`
	Name       string     `gorm:"type:varchar(100);not null;default:'auth_token'" json:"name"`
	ExpiresAt  time.Time  `gorm:"not null" json:"expires_at"`
	LastUsedAt *time.Time `json:"last_used_at"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

func (AuthToken) TableName() string {
	return "auth_tokens"
}

func (t AuthToken) PrimaryKey() uint {
	return t.ID
}

func InitTable(db *gorm.DB) error {
	// 自动迁移数据库表结构，按外键依赖顺序
	return db.AutoMigrate(
		&User{},
		&AuthToken{},
		&Student{},
		&Teacher{},
		&Module{},
		&Unit{},
		&Evaluation{},
	)
}
