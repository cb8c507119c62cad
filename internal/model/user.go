package model

import "time"

// User 用户表
type User struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	Name            string     `gorm:"type:varchar(255);not null" json:"name"`
	Email           string     `gorm:"type:varchar(255);not null;uniqueIndex" json:"email"`
	PasswordHash    string     `gorm:"type:varchar(255);not null" json:"-"`
	Role            Role       `gorm:"type:varchar(20);not null;default:'STUDENT';index" json:"role"`
	EmailVerifiedAt *time.Time `json:"email_verified_at"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`

	// 一对零或一，由应用层保证
	Student *Student `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"student,omitempty"`
	Teacher *Teacher `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"teacher,omitempty"`
}

func (User) TableName() string {
	return "users"
}

func (u User) PrimaryKey() uint {
	return u.ID
}
