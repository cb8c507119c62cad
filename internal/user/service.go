package user

import (
	"context"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"terminal-terrace/academic/internal/database"
	"terminal-terrace/academic/internal/model"
	"terminal-terrace/academic/internal/permission"
	"terminal-terrace/academic/internal/query"
	"terminal-terrace/academic/internal/repository"
	"terminal-terrace/academic/internal/service"
	"terminal-terrace/academic/internal/token"
)

// UserService 管理员的用户管理
type UserService struct {
	db     *gorm.DB
	users  *repository.UserRepository
	issuer *token.Issuer
	log    *zap.Logger
}

func NewUserService(db *gorm.DB, issuer *token.Issuer, log *zap.Logger) *UserService {
	return &UserService{
		db:     db,
		users:  repository.NewUserRepository(db),
		issuer: issuer,
		log:    log,
	}
}

// List 最新注册的用户在前，search 在姓名与邮箱上模糊匹配
func (s *UserService) List(ctx context.Context, p permission.Principal, filters query.Filters, search string, page query.Pagination) (*query.Page[model.User], error) {
	if err := permission.RequireAdmin(p); err != nil {
		return nil, err
	}
	if page.PerPage == 0 {
		page.PerPage = DefaultPerPage
	}

	result, err := s.users.List(ctx, query.Spec{
		Filters:    filters,
		Search:     search,
		With:       []string{"student", "teacher"},
		Orders:     []query.Order{{Column: "id", Direction: query.Desc}},
		Pagination: page,
	})
	if err != nil {
		return nil, service.Wrap(s.log, "获取用户列表失败", err)
	}
	return result, nil
}

func (s *UserService) Update(ctx context.Context, p permission.Principal, id uint, req UpdateUserRequest) (*model.User, error) {
	if err := permission.RequireAdmin(p); err != nil {
		return nil, err
	}
	if err := service.Validate(req); err != nil {
		return nil, err
	}

	user, err := s.users.GetOne(ctx, query.Filters{"id": id})
	if err != nil {
		return nil, service.Wrap(s.log, "获取用户失败", err, zap.Uint("user_id", id))
	}
	if user == nil {
		return nil, service.NotFound("User not found")
	}

	attrs, err := service.AccountChanges(user, req.Name, req.Email, "")
	if err != nil {
		return nil, service.Wrap(s.log, "更新用户失败", err, zap.Uint("user_id", id))
	}
	if req.Role != nil {
		role, err := model.ParseRole(*req.Role)
		if err != nil {
			return nil, service.Invalid("Invalid role")
		}
		attrs["role"] = role
	}

	err = database.Transaction(ctx, s.db, func(tx *gorm.DB) error {
		return service.SaveAccount(ctx, s.users.WithTx(tx), user, attrs)
	})
	if err != nil {
		return nil, service.Wrap(s.log, "更新用户失败", err, zap.Uint("user_id", id))
	}

	updated, err := s.users.GetOne(ctx, query.Filters{"id": id}, query.With("student", "teacher"))
	if err != nil {
		return nil, service.Wrap(s.log, "获取用户失败", err, zap.Uint("user_id", id))
	}
	return updated, nil
}

// Delete 管理员不能删除自己；令牌、档案与用户在同一事务内删除
func (s *UserService) Delete(ctx context.Context, p permission.Principal, id uint) error {
	if err := permission.RequireAdmin(p); err != nil {
		return err
	}
	if p.Owns(id) {
		return permission.Forbidden("You cannot delete your own account")
	}

	count, err := s.users.GetCount(ctx, query.Filters{"id": id})
	if err != nil {
		return service.Wrap(s.log, "获取用户失败", err, zap.Uint("user_id", id))
	}
	if count == 0 {
		return service.NotFound("User not found")
	}

	err = database.Transaction(ctx, s.db, func(tx *gorm.DB) error {
		teachers := repository.NewTeacherRepository(tx)
		if err := service.EnsureNoAssignedUnits(ctx, teachers, query.Filters{"user_id": id}); err != nil {
			return err
		}
		if err := s.issuer.WithTx(tx).RevokeAll(ctx, id); err != nil {
			return err
		}
		return repository.DeleteUserCascade(ctx, tx, id)
	})
	if err != nil {
		return service.Wrap(s.log, "删除用户失败", err, zap.Uint("user_id", id))
	}
	s.log.Info("管理员删除用户", zap.Uint("admin_id", p.UserID), zap.Uint("user_id", id))
	return nil
}
