package teacher

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
)

type TeacherService struct {
	db          *gorm.DB
	teachers    *repository.TeacherRepository
	users       *repository.UserRepository
	evaluations *repository.EvaluationRepository
	log         *zap.Logger
}

func NewTeacherService(db *gorm.DB, log *zap.Logger) *TeacherService {
	return &TeacherService{
		db:          db,
		teachers:    repository.NewTeacherRepository(db),
		users:       repository.NewUserRepository(db),
		evaluations: repository.NewEvaluationRepository(db),
		log:         log,
	}
}

// GetAll 教师分页列表，附带用户信息
func (s *TeacherService) GetAll(ctx context.Context, filters query.Filters, page query.Pagination) (*query.Page[model.Teacher], error) {
	if page.PerPage == 0 {
		page.PerPage = DefaultPerPage
	}
	result, err := s.teachers.List(ctx, query.Spec{
		Filters:    filters,
		With:       []string{"user"},
		Pagination: page,
	})
	if err != nil {
		return nil, service.Wrap(s.log, "获取教师列表失败", err)
	}
	return result, nil
}

// Get id 为 nil 时返回调用者本人的教师档案
func (s *TeacherService) Get(ctx context.Context, p permission.Principal, id *uint) (*model.Teacher, error) {
	if id == nil {
		teacher, err := s.teachers.GetOne(ctx, query.Filters{"user_id": p.UserID}, query.With("user"))
		if err != nil {
			return nil, service.Wrap(s.log, "获取教师档案失败", err, zap.Uint("user_id", p.UserID))
		}
		if teacher == nil {
			return nil, service.NotFound("Current user has no teacher profile")
		}
		return teacher, nil
	}

	teacher, err := s.teachers.GetOne(ctx, query.Filters{"id": *id}, query.With("user"))
	if err != nil {
		return nil, service.Wrap(s.log, "获取教师档案失败", err, zap.Uint("teacher_id", *id))
	}
	if teacher == nil {
		return nil, service.NotFound("Teacher not found")
	}
	return teacher, nil
}

// Upsert 指定 id 时更新该档案（本人或管理员）；否则更新或创建调用者本人的档案
// 新建教师档案时，非管理员用户的角色改为 TEACHER
func (s *TeacherService) Upsert(ctx context.Context, p permission.Principal, req UpsertTeacherRequest, id *uint) (*model.Teacher, error) {
	if err := service.Validate(req); err != nil {
		return nil, err
	}

	var (
		teacher *model.Teacher
		err     error
	)
	if id != nil {
		teacher, err = s.teachers.GetOne(ctx, query.Filters{"id": *id})
		if err != nil {
			return nil, service.Wrap(s.log, "获取教师档案失败", err, zap.Uint("teacher_id", *id))
		}
		if teacher == nil {
			return nil, service.NotFound("Teacher not found")
		}
		if !p.CanManage(teacher.UserID) {
			return nil, permission.Forbidden("You are not allowed to modify this teacher")
		}
	} else {
		teacher, err = s.teachers.GetOne(ctx, query.Filters{"user_id": p.UserID})
		if err != nil {
			return nil, service.Wrap(s.log, "获取教师档案失败", err, zap.Uint("user_id", p.UserID))
		}
	}

	caller, err := s.users.GetOne(ctx, query.Filters{"id": p.UserID})
	if err != nil {
		return nil, service.Wrap(s.log, "获取用户信息失败", err, zap.Uint("user_id", p.UserID))
	}
	if caller == nil {
		return nil, service.NotFound("User not found")
	}

	own := teacher == nil || teacher.UserID == caller.ID
	if own {
		if err := service.RequireCurrentPassword(caller, req.Email, req.NewPassword, req.CurrentPassword); err != nil {
			return nil, err
		}
	}
	userAttrs, err := service.AccountChanges(caller, req.Name, req.Email, req.NewPassword)
	if err != nil {
		return nil, service.Wrap(s.log, "密码加密失败", err)
	}
	if teacher == nil && caller.Role != model.RoleAdmin && caller.Role != model.RoleTeacher {
		userAttrs["role"] = model.RoleTeacher
	}

	err = database.Transaction(ctx, s.db, func(tx *gorm.DB) error {
		teachers := s.teachers.WithTx(tx)

		var err error
		if teacher == nil {
			teacher, err = repository.SaveProfile(ctx, teachers, caller, req.FirstName, req.LastName)
		} else {
			teacher, err = teachers.Save(ctx, repository.NameAttributes(req.FirstName, req.LastName), teacher)
		}
		if err != nil {
			return err
		}

		if !own || len(userAttrs) == 0 {
			return nil
		}
		return service.SaveAccount(ctx, s.users.WithTx(tx), caller, userAttrs)
	})
	if err != nil {
		return nil, service.Wrap(s.log, "保存教师档案失败", err, zap.Uint("user_id", p.UserID))
	}

	return s.Get(ctx, p, &teacher.ID)
}

// Delete 本人或管理员可删除
func (s *TeacherService) Delete(ctx context.Context, p permission.Principal, id uint) error {
	teacher, err := s.teachers.GetOne(ctx, query.Filters{"id": id})
	if err != nil {
		return service.Wrap(s.log, "获取教师档案失败", err, zap.Uint("teacher_id", id))
	}
	if teacher == nil {
		return service.NotFound("Teacher not found")
	}
	if !p.CanManage(teacher.UserID) {
		return permission.Forbidden("You are not allowed to delete this teacher")
	}

	err = database.Transaction(ctx, s.db, func(tx *gorm.DB) error {
		teachers := s.teachers.WithTx(tx)
		if err := service.EnsureNoAssignedUnits(ctx, teachers, query.Filters{"id": teacher.ID}); err != nil {
			return err
		}
		_, err := teachers.Delete(ctx, teacher)
		return err
	})
	return service.Wrap(s.log, "删除教师档案失败", err, zap.Uint("teacher_id", id))
}

// Evaluations 教师给出的评价，附带学生、模块与单元
func (s *TeacherService) Evaluations(ctx context.Context, id uint, page query.Pagination) (*query.Page[model.Evaluation], error) {
	count, err := s.teachers.GetCount(ctx, query.Filters{"id": id})
	if err != nil {
		return nil, service.Wrap(s.log, "获取教师档案失败", err, zap.Uint("teacher_id", id))
	}
	if count == 0 {
		return nil, service.NotFound("Teacher not found")
	}

	if page.PerPage == 0 {
		page.PerPage = DefaultPerPage
	}
	result, err := s.evaluations.List(ctx, query.Spec{
		Filters:    query.Filters{"teacher_id": id},
		With:       []string{"student", "module", "unit"},
		Orders:     []query.Order{{Column: "id", Direction: query.Asc}},
		Pagination: page,
	})
	if err != nil {
		return nil, service.Wrap(s.log, "获取教师评价失败", err, zap.Uint("teacher_id", id))
	}
	return result, nil
}
