// Package permission 调用者身份与能力检查
// 管理员由全局角色决定；教师能力由是否拥有教师档案决定，与角色字段无关。
package permission

import (
	"context"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"terminal-terrace/academic/internal/model"
	"terminal-terrace/academic/internal/query"
	"terminal-terrace/academic/internal/repository"
	"terminal-terrace/academic/pkg/response"
)

// Principal 当前调用者（来自 JWT）
type Principal struct {
	UserID uint
	Role   model.Role
}

// IsAdmin 检查调用者是否是全局管理员
func (p Principal) IsAdmin() bool {
	return p.Role == model.RoleAdmin
}

// Owns 调用者是否是该用户本人
func (p Principal) Owns(userID uint) bool {
	return p.UserID != 0 && p.UserID == userID
}

// CanManage 本人或管理员
func (p Principal) CanManage(userID uint) bool {
	return p.Owns(userID) || p.IsAdmin()
}

// Service 权限检查服务
type Service struct {
	teachers *repository.TeacherRepository
	students *repository.StudentRepository
	log      *zap.Logger
}

// NewService 创建权限服务实例
func NewService(db *gorm.DB, log *zap.Logger) *Service {
	return &Service{
		teachers: repository.NewTeacherRepository(db),
		students: repository.NewStudentRepository(db),
		log:      log,
	}
}

// TeacherOf 调用者的教师档案，没有时返回 nil
func (s *Service) TeacherOf(ctx context.Context, p Principal) (*model.Teacher, error) {
	if p.UserID == 0 {
		return nil, nil
	}
	return s.teachers.GetOne(ctx, query.Filters{"user_id": p.UserID})
}

// StudentOf 调用者的学生档案，没有时返回 nil
func (s *Service) StudentOf(ctx context.Context, p Principal) (*model.Student, error) {
	if p.UserID == 0 {
		return nil, nil
	}
	return s.students.GetOne(ctx, query.Filters{"user_id": p.UserID})
}

// RequireTeacher 要求调用者拥有教师档案
func (s *Service) RequireTeacher(ctx context.Context, p Principal) (*model.Teacher, error) {
	teacher, err := s.TeacherOf(ctx, p)
	if err != nil {
		s.log.Error("查询教师档案失败", zap.Uint("user_id", p.UserID), zap.Error(err))
		return nil, response.NewBusinessError(
			response.WithErrorCode(response.Fail),
			response.WithErrorMessage("获取权限信息失败"),
			response.WithError(err),
		)
	}
	if teacher == nil {
		return nil, Forbidden("Only teachers can perform this action")
	}
	return teacher, nil
}

// RequireAdmin 要求调用者是全局管理员
func RequireAdmin(p Principal) error {
	if !p.IsAdmin() {
		return Forbidden("Only administrators can perform this action")
	}
	return nil
}

// Forbidden 无权限错误
func Forbidden(msg string) error {
	return response.NewBusinessError(
		response.WithErrorCode(response.Forbidden),
		response.WithErrorMessage(msg),
	)
}
