package service

import (
	"context"

	"terminal-terrace/academic/internal/model"
	"terminal-terrace/academic/internal/query"
	"terminal-terrace/academic/internal/repository"
)

// AccountChanges 收集用户账号字段的变更；邮箱变化时重置验证时间，新密码加密保存
func AccountChanges(user *model.User, name, email *string, newPassword string) (repository.Attributes, error) {
	attrs := repository.Attributes{}
	if name != nil {
		attrs["name"] = *name
	}
	if email != nil && *email != user.Email {
		attrs["email"] = *email
		attrs["email_verified_at"] = nil
	}
	if newPassword != "" {
		hashed, err := HashPassword(newPassword)
		if err != nil {
			return nil, err
		}
		attrs["password_hash"] = hashed
	}
	return attrs, nil
}

// SaveAccount 邮箱被其他用户占用时返回冲突，否则保存变更
func SaveAccount(ctx context.Context, users *repository.UserRepository, user *model.User, attrs repository.Attributes) error {
	if email, ok := attrs["email"].(string); ok {
		taken, err := repository.EmailTaken(ctx, users, email, user.ID)
		if err != nil {
			return err
		}
		if taken {
			return Conflict("Email already registered")
		}
	}
	_, err := users.Save(ctx, attrs, user)
	return err
}

// RequireCurrentPassword 修改邮箱或密码时必须提供正确的当前密码
func RequireCurrentPassword(user *model.User, email *string, newPassword, currentPassword string) error {
	emailChanged := email != nil && *email != user.Email
	if !emailChanged && newPassword == "" {
		return nil
	}
	if currentPassword == "" || !CheckPassword(user.PasswordHash, currentPassword) {
		return Unauthorized("Current password is incorrect")
	}
	return nil
}

// EnsureNoAssignedUnits 用户的教师档案仍被单元引用时不能删除
func EnsureNoAssignedUnits(ctx context.Context, teachers *repository.TeacherRepository, filters query.Filters) error {
	teacher, err := teachers.GetOne(ctx, filters, query.WithCount("units"))
	if err != nil {
		return err
	}
	if teacher != nil && teacher.UnitsCount != nil && *teacher.UnitsCount > 0 {
		return Conflict("Cannot delete teacher with assigned units")
	}
	return nil
}
