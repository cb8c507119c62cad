package student

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

type StudentService struct {
	db          *gorm.DB
	students    *repository.StudentRepository
	users       *repository.UserRepository
	evaluations *repository.EvaluationRepository
	log         *zap.Logger
}

func NewStudentService(db *gorm.DB, log *zap.Logger) *StudentService {
	return &StudentService{
		db:          db,
		students:    repository.NewStudentRepository(db),
		users:       repository.NewUserRepository(db),
		evaluations: repository.NewEvaluationRepository(db),
		log:         log,
	}
}

// GetAll 学生分页列表，附带用户信息
func (s *StudentService) GetAll(ctx context.Context, filters query.Filters, page query.Pagination) (*query.Page[model.Student], error) {
	if page.PerPage == 0 {
		page.PerPage = DefaultPerPage
	}
	result, err := s.students.List(ctx, query.Spec{
		Filters:    filters,
		With:       []string{"user"},
		Pagination: page,
	})
	if err != nil {
		return nil, service.Wrap(s.log, "获取学生列表失败", err)
	}
	return result, nil
}

// Get id 为 nil 时返回调用者本人的学生档案
func (s *StudentService) Get(ctx context.Context, p permission.Principal, id *uint) (*model.Student, error) {
	if id == nil {
		student, err := s.students.GetOne(ctx, query.Filters{"user_id": p.UserID}, query.With("user"))
		if err != nil {
			return nil, service.Wrap(s.log, "获取学生档案失败", err, zap.Uint("user_id", p.UserID))
		}
		if student == nil {
			return nil, service.NotFound("Current user has no student profile")
		}
		return student, nil
	}

	student, err := s.students.GetOne(ctx, query.Filters{"id": *id}, query.With("user"))
	if err != nil {
		return nil, service.Wrap(s.log, "获取学生档案失败", err, zap.Uint("student_id", *id))
	}
	if student == nil {
		return nil, service.NotFound("Student not found")
	}
	return student, nil
}

// Upsert 指定 id 时更新该档案（本人或管理员）；否则更新或创建调用者本人的档案
func (s *StudentService) Upsert(ctx context.Context, p permission.Principal, req UpsertStudentRequest, id *uint) (*model.Student, error) {
	if err := service.Validate(req); err != nil {
		return nil, err
	}

	var (
		student *model.Student
		err     error
	)
	if id != nil {
		student, err = s.students.GetOne(ctx, query.Filters{"id": *id})
		if err != nil {
			return nil, service.Wrap(s.log, "获取学生档案失败", err, zap.Uint("student_id", *id))
		}
		if student == nil {
			return nil, service.NotFound("Student not found")
		}
		if !p.CanManage(student.UserID) {
			return nil, permission.Forbidden("You are not allowed to modify this student")
		}
	} else {
		student, err = s.students.GetOne(ctx, query.Filters{"user_id": p.UserID})
		if err != nil {
			return nil, service.Wrap(s.log, "获取学生档案失败", err, zap.Uint("user_id", p.UserID))
		}
	}

	caller, err := s.users.GetOne(ctx, query.Filters{"id": p.UserID})
	if err != nil {
		return nil, service.Wrap(s.log, "获取用户信息失败", err, zap.Uint("user_id", p.UserID))
	}
	if caller == nil {
		return nil, service.NotFound("User not found")
	}

	own := student == nil || student.UserID == caller.ID
	if own {
		if err := service.RequireCurrentPassword(caller, req.Email, req.NewPassword, req.CurrentPassword); err != nil {
			return nil, err
		}
	}
	userAttrs, err := service.AccountChanges(caller, req.Name, req.Email, req.NewPassword)
	if err != nil {
		return nil, service.Wrap(s.log, "密码加密失败", err)
	}

	err = database.Transaction(ctx, s.db, func(tx *gorm.DB) error {
		students := s.students.WithTx(tx)

		var err error
		if student == nil {
			student, err = repository.SaveProfile(ctx, students, caller, req.FirstName, req.LastName)
		} else {
			student, err = students.Save(ctx, repository.NameAttributes(req.FirstName, req.LastName), student)
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
		return nil, service.Wrap(s.log, "保存学生档案失败", err, zap.Uint("user_id", p.UserID))
	}

	return s.Get(ctx, p, &student.ID)
}

// Delete 本人或管理员可删除
func (s *StudentService) Delete(ctx context.Context, p permission.Principal, id uint) error {
	student, err := s.students.GetOne(ctx, query.Filters{"id": id})
	if err != nil {
		return service.Wrap(s.log, "获取学生档案失败", err, zap.Uint("student_id", id))
	}
	if student == nil {
		return service.NotFound("Student not found")
	}
	if !p.CanManage(student.UserID) {
		return permission.Forbidden("You are not allowed to delete this student")
	}

	if _, err := s.students.Delete(ctx, student); err != nil {
		return service.Wrap(s.log, "删除学生档案失败", err, zap.Uint("student_id", id))
	}
	return nil
}

// Evaluations 学生收到的评价，附带教师、模块与单元
func (s *StudentService) Evaluations(ctx context.Context, id uint, page query.Pagination) (*query.Page[model.Evaluation], error) {
	count, err := s.students.GetCount(ctx, query.Filters{"id": id})
	if err != nil {
		return nil, service.Wrap(s.log, "获取学生档案失败", err, zap.Uint("student_id", id))
	}
	if count == 0 {
		return nil, service.NotFound("Student not found")
	}

	if page.PerPage == 0 {
		page.PerPage = DefaultPerPage
	}
	result, err := s.evaluations.List(ctx, query.Spec{
		Filters:    query.Filters{"student_id": id},
		With:       []string{"teacher", "module", "unit"},
		Orders:     []query.Order{{Column: "id", Direction: query.Asc}},
		Pagination: page,
	})
	if err != nil {
		return nil, service.Wrap(s.log, "获取学生评价失败", err, zap.Uint("student_id", id))
	}
	return result, nil
}
