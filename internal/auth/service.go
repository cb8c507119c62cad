package auth

import (
	"context"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"terminal-terrace/academic/internal/database"
	"terminal-terrace/academic/internal/dto"
	"terminal-terrace/academic/internal/model"
	"terminal-terrace/academic/internal/query"
	"terminal-terrace/academic/internal/repository"
	"terminal-terrace/academic/internal/service"
	"terminal-terrace/academic/internal/token"
)

type AuthService struct {
	db     *gorm.DB
	users  *repository.UserRepository
	issuer *token.Issuer
	log    *zap.Logger
}

func NewAuthService(db *gorm.DB, issuer *token.Issuer, log *zap.Logger) *AuthService {
	return &AuthService{
		db:     db,
		users:  repository.NewUserRepository(db),
		issuer: issuer,
		log:    log,
	}
}

// Register 注册用户，角色与嵌套档案数据同时给出时创建学生或教师档案，并签发令牌
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*dto.AuthResult, error) {
	if err := service.Validate(req); err != nil {
		return nil, err
	}

	role := model.RoleStudent
	if req.Role != "" {
		parsed, err := model.ParseRole(req.Role)
		if err != nil || !registrable(parsed) {
			return nil, service.Invalid("Invalid role")
		}
		role = parsed
	}

	kind, err := role.Profile()
	if err != nil {
		return nil, service.Invalid("Invalid role")
	}

	hashed, err := service.HashPassword(req.Password)
	if err != nil {
		return nil, service.Wrap(s.log, "密码加密失败", err)
	}

	var (
		user        *model.User
		signedToken string
	)
	err = database.Transaction(ctx, s.db, func(tx *gorm.DB) error {
		users := s.users.WithTx(tx)

		taken, err := repository.EmailTaken(ctx, users, req.Email, 0)
		if err != nil {
			return err
		}
		if taken {
			return service.Conflict("Email already registered")
		}

		user, err = users.Save(ctx, repository.Attributes{
			"name":          req.Name,
			"email":         req.Email,
			"password_hash": hashed,
			"role":          role,
		}, nil)
		if err != nil {
			return err
		}

		switch kind {
		case model.ProfileStudent:
			if req.StudentData != nil {
				user.Student, err = repository.SaveProfile(ctx, repository.NewStudentRepository(tx), user, req.StudentData.FirstName, req.StudentData.LastName)
			}
		case model.ProfileTeacher:
			if req.TeacherData != nil {
				user.Teacher, err = repository.SaveProfile(ctx, repository.NewTeacherRepository(tx), user, req.TeacherData.FirstName, req.TeacherData.LastName)
			}
		case model.ProfileNone:
		}
		if err != nil {
			return err
		}

		signedToken, err = s.issuer.WithTx(tx).Issue(ctx, user)
		return err
	})
	if err != nil {
		return nil, service.Wrap(s.log, "注册失败", err, zap.String("email", req.Email))
	}

	resource := dto.NewUserResource(*user)
	return &dto.AuthResult{
		Status:  true,
		Message: "User Registered Successfully",
		Token:   signedToken,
		NewUser: true,
		User:    &resource,
	}, nil
}

// Login 邮箱密码登录，每次登录签发新令牌
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*dto.AuthResult, error) {
	if err := service.Validate(req); err != nil {
		return nil, err
	}

	user, err := s.users.GetOne(ctx, query.Filters{"email": req.Email})
	if err != nil {
		return nil, service.Wrap(s.log, "查询用户失败", err)
	}
	if user == nil {
		return nil, service.NotFound("User not found")
	}
	if !service.CheckPassword(user.PasswordHash, req.Password) {
		return nil, service.Unauthorized("Invalid credentials")
	}

	signedToken, err := s.issuer.Issue(ctx, user)
	if err != nil {
		return nil, service.Wrap(s.log, "签发令牌失败", err, zap.Uint("user_id", user.ID))
	}

	return &dto.AuthResult{
		Status:  true,
		Message: "User Logged In Successfully",
		Token:   signedToken,
	}, nil
}

// Logout 只撤销当前令牌
func (s *AuthService) Logout(ctx context.Context, tokenID string) error {
	if tokenID == "" {
		return service.Unauthorized("Unauthenticated")
	}
	if err := s.issuer.Revoke(ctx, tokenID); err != nil {
		return service.Wrap(s.log, "退出登录失败", err, zap.String("token_id", tokenID))
	}
	return nil
}

// registrable 公开注册不允许自选 ADMIN
func registrable(role model.Role) bool {
	switch role {
	case model.RoleStudent, model.RoleTeacher, model.RoleUser, model.RoleGuest:
		return true
	case model.RoleAdmin:
		return false
	}
	return false
}
