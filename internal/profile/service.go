package profile

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

type ProfileService struct {
	db     *gorm.DB
	users  *repository.UserRepository
	issuer *token.Issuer
	log    *zap.Logger
}

func NewProfileService(db *gorm.DB, issuer *token.Issuer, log *zap.Logger) *ProfileService {
	return &ProfileService{
		db:     db,
		users:  repository.NewUserRepository(db),
		issuer: issuer,
		log:    log,
	}
}

// relations 按角色决定加载的档案关联
func relations(role model.Role) []string {
	kind, err := role.Profile()
	if err != nil {
		return nil
	}
	switch kind {
	case model.ProfileStudent:
		return []string{"student", "student.evaluations"}
	case model.ProfileTeacher:
		return []string{"teacher", "teacher.units", "teacher.evaluations"}
	case model.ProfileNone:
	}
	return nil
}

// GetProfile 当前用户及其角色对应的档案
func (s *ProfileService) GetProfile(ctx context.Context, p permission.Principal) (*model.User, error) {
	user, err := s.users.GetOne(ctx, query.Filters{"id": p.UserID})
	if err != nil {
		return nil, service.Wrap(s.log, "获取用户信息失败", err, zap.Uint("user_id", p.UserID))
	}
	if user == nil {
		return nil, service.NotFound("User not found")
	}

	rels := relations(user.Role)
	if len(rels) == 0 {
		return user, nil
	}
	user, err = s.users.GetOne(ctx, query.Filters{"id": user.ID}, query.With(rels...))
	if err != nil {
		return nil, service.Wrap(s.log, "获取用户信息失败", err, zap.Uint("user_id", p.UserID))
	}
	return user, nil
}

// UpdateProfile 更新用户信息与档案；修改邮箱或密码需要当前密码
func (s *ProfileService) UpdateProfile(ctx context.Context, p permission.Principal, req UpdateProfileRequest) (*model.User, error) {
	if err := service.Validate(req); err != nil {
		return nil, err
	}

	user, err := s.users.GetOne(ctx, query.Filters{"id": p.UserID})
	if err != nil {
		return nil, service.Wrap(s.log, "获取用户信息失败", err, zap.Uint("user_id", p.UserID))
	}
	if user == nil {
		return nil, service.NotFound("User not found")
	}

	if err := service.RequireCurrentPassword(user, req.Email, req.Password, req.CurrentPassword); err != nil {
		return nil, err
	}

	attrs, err := service.AccountChanges(user, req.Name, req.Email, req.Password)
	if err != nil {
		return nil, service.Wrap(s.log, "密码加密失败", err)
	}

	err = database.Transaction(ctx, s.db, func(tx *gorm.DB) error {
		if len(attrs) > 0 {
			if err := service.SaveAccount(ctx, s.users.WithTx(tx), user, attrs); err != nil {
				return err
			}
		}

		if req.FirstName == nil && req.LastName == nil {
			return nil
		}
		kind, err := user.Role.Profile()
		if err != nil {
			return err
		}
		switch kind {
		case model.ProfileStudent:
			_, err = repository.SaveProfile(ctx, repository.NewStudentRepository(tx), user, req.FirstName, req.LastName)
		case model.ProfileTeacher:
			_, err = repository.SaveProfile(ctx, repository.NewTeacherRepository(tx), user, req.FirstName, req.LastName)
		case model.ProfileNone:
		}
		return err
	})
	if err != nil {
		return nil, service.Wrap(s.log, "更新个人资料失败", err, zap.Uint("user_id", p.UserID))
	}

	return s.GetProfile(ctx, p)
}

// DeleteProfile 校验密码后删除账号、档案与全部令牌
func (s *ProfileService) DeleteProfile(ctx context.Context, p permission.Principal, password string) error {
	user, err := s.users.GetOne(ctx, query.Filters{"id": p.UserID})
	if err != nil {
		return service.Wrap(s.log, "获取用户信息失败", err, zap.Uint("user_id", p.UserID))
	}
	if user == nil {
		return service.NotFound("User not found")
	}
	if !service.CheckPassword(user.PasswordHash, password) {
		return service.Unauthorized("Password is incorrect")
	}

	err = database.Transaction(ctx, s.db, func(tx *gorm.DB) error {
		teachers := repository.NewTeacherRepository(tx)
		if err := service.EnsureNoAssignedUnits(ctx, teachers, query.Filters{"user_id": user.ID}); err != nil {
			return err
		}
		if err := s.issuer.WithTx(tx).RevokeAll(ctx, user.ID); err != nil {
			return err
		}
		return repository.DeleteUserCascade(ctx, tx, user.ID)
	})
	return service.Wrap(s.log, "删除账号失败", err, zap.Uint("user_id", user.ID))
}
