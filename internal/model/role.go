package model

import "fmt"

// Role 用户全局角色，封闭集合
type Role string

const (
	RoleUser    Role = "USER"
	RoleAdmin   Role = "ADMIN"
	RoleGuest   Role = "GUEST"
	RoleTeacher Role = "TEACHER"
	RoleStudent Role = "STUDENT"
)

var roles = [...]Role{RoleUser, RoleAdmin, RoleGuest, RoleTeacher, RoleStudent}

// 新增角色时必须同步修改 roleCount 与 roles，否则编译失败
const roleCount = 5

var _ = [1]struct{}{}[len(roles)-roleCount]

// Roles 返回全部角色
func Roles() []Role {
	out := make([]Role, len(roles))
	copy(out, roles[:])
	return out
}

// ParseRole 解析角色字符串
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return "", fmt.Errorf("未知角色: %q", s)
	}
	return r, nil
}

func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAdmin, RoleGuest, RoleTeacher, RoleStudent:
		return true
	default:
		return false
	}
}

// ProfileKind 角色对应的档案类型
type ProfileKind int

const (
	ProfileNone ProfileKind = iota
	ProfileStudent
	ProfileTeacher
)

// Profile 返回角色对应的档案类型，未知角色返回错误
func (r Role) Profile() (ProfileKind, error) {
	switch r {
	case RoleStudent:
		return ProfileStudent, nil
	case RoleTeacher:
		return ProfileTeacher, nil
	case RoleUser, RoleAdmin, RoleGuest:
		return ProfileNone, nil
	default:
		return ProfileNone, fmt.Errorf("未知角色: %q", string(r))
	}
}

func (r Role) String() string {
	return string(r)
}
