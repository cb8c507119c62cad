package unit

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

type UnitService struct {
	db          *gorm.DB
	units       *repository.UnitRepository
	modules     *repository.ModuleRepository
	teachers    *repository.TeacherRepository
	evaluations *repository.EvaluationRepository
	permissions *permission.Service
	log         *zap.Logger
}

func NewUnitService(db *gorm.DB, permissions *permission.Service, log *zap.Logger) *UnitService {
	return &UnitService{
		db:          db,
		units:       repository.NewUnitRepository(db),
		modules:     repository.NewModuleRepository(db),
		teachers:    repository.NewTeacherRepository(db),
		evaluations: repository.NewEvaluationRepository(db),
		permissions: permissions,
		log:         log,
	}
}

// GetAll 单元分页列表，附带模块与教师
func (s *UnitService) GetAll(ctx context.Context, filters query.Filters, page query.Pagination) (*query.Page[model.Unit], error) {
	if page.PerPage == 0 {
		page.PerPage = DefaultPerPage
	}
	result, err := s.units.List(ctx, query.Spec{
		Filters:    filters,
		With:       []string{"module", "teacher"},
		Pagination: page,
	})
	if err != nil {
		return nil, service.Wrap(s.log, "获取单元列表失败", err)
	}
	return result, nil
}

func (s *UnitService) Get(ctx context.Context, id uint) (*model.Unit, error) {
	u, err := s.units.GetOne(ctx, query.Filters{"id": id}, query.With("module", "teacher"))
	if err != nil {
		return nil, service.Wrap(s.log, "获取单元失败", err, zap.Uint("unit_id", id))
	}
	if u == nil {
		return nil, service.NotFound("Unit not found")
	}
	return u, nil
}

// Create 需要教师身份；指定其他教师需要管理员
func (s *UnitService) Create(ctx context.Context, p permission.Principal, req CreateUnitRequest) (*model.Unit, error) {
	caller, err := s.permissions.RequireTeacher(ctx, p)
	if err != nil {
		return nil, err
	}
	if err := service.Validate(req); err != nil {
		return nil, err
	}

	teacherID := caller.ID
	if req.TeacherID != nil && *req.TeacherID != caller.ID {
		if !p.IsAdmin() {
			return nil, permission.Forbidden("Only administrators can assign units to other teachers")
		}
		teacherID = *req.TeacherID
	}

	var created *model.Unit
	err = database.Transaction(ctx, s.db, func(tx *gorm.DB) error {
		if err := exists(ctx, s.modules.WithTx(tx), req.ModuleID, "Module does not exist"); err != nil {
			return err
		}
		if err := exists(ctx, s.teachers.WithTx(tx), teacherID, "Teacher does not exist"); err != nil {
			return err
		}

		var err error
		created, err = s.units.WithTx(tx).Save(ctx, repository.Attributes{
			"title":      req.Title,
			"module_id":  req.ModuleID,
			"teacher_id": teacherID,
		}, nil)
		return err
	})
	if err != nil {
		return nil, service.Wrap(s.log, "创建单元失败", err, zap.Uint("module_id", req.ModuleID))
	}
	return s.Get(ctx, created.ID)
}

// Update 只有被指派的教师可以修改，且只能修改标题
func (s *UnitService) Update(ctx context.Context, p permission.Principal, id uint, req UpdateUnitRequest) (*model.Unit, error) {
	u, err := s.units.GetOne(ctx, query.Filters{"id": id})
	if err != nil {
		return nil, service.Wrap(s.log, "获取单元失败", err, zap.Uint("unit_id", id))
	}
	if u == nil {
		return nil, service.NotFound("Unit not found")
	}
	if err := s.requireAssigned(ctx, p, u); err != nil {
		return nil, err
	}
	if err := service.Validate(req); err != nil {
		return nil, err
	}
	if req.Title != nil && *req.Title == "" {
		return nil, service.Invalid("title cannot be empty")
	}

	if req.Title != nil {
		if _, err := s.units.Save(ctx, repository.Attributes{"title": *req.Title}, u); err != nil {
			return nil, service.Wrap(s.log, "更新单元失败", err, zap.Uint("unit_id", id))
		}
	}
	return s.Get(ctx, id)
}

// Delete 仍有评价引用时拒绝删除；只有被指派的教师可以删除
func (s *UnitService) Delete(ctx context.Context, p permission.Principal, id uint) error {
	u, err := s.units.GetOne(ctx, query.Filters{"id": id}, query.WithCount("evaluations"))
	if err != nil {
		return service.Wrap(s.log, "获取单元失败", err, zap.Uint("unit_id", id))
	}
	if u == nil {
		return service.NotFound("Unit not found")
	}
	if u.EvaluationsCount != nil && *u.EvaluationsCount > 0 {
		return service.Conflict("Cannot delete unit with associated evaluations")
	}
	if err := s.requireAssigned(ctx, p, u); err != nil {
		return err
	}

	if _, err := s.units.Delete(ctx, u); err != nil {
		return service.Wrap(s.log, "删除单元失败", err, zap.Uint("unit_id", id))
	}
	return nil
}

// Evaluations 单元的评价，可按学生或教师过滤
func (s *UnitService) Evaluations(ctx context.Context, id uint, filters EvaluationFilters, page query.Pagination) (*query.Page[model.Evaluation], error) {
	count, err := s.units.GetCount(ctx, query.Filters{"id": id})
	if err != nil {
		return nil, service.Wrap(s.log, "获取单元失败", err, zap.Uint("unit_id", id))
	}
	if count == 0 {
		return nil, service.NotFound("Unit not found")
	}

	q, err := s.evaluations.Builder(ctx, query.Spec{
		Filters: query.Filters{"unit_id": id},
		With:    []string{"student", "teacher"},
		Orders:  []query.Order{{Column: "id", Direction: query.Asc}},
	})
	if err != nil {
		return nil, service.Wrap(s.log, "获取单元评价失败", err, zap.Uint("unit_id", id))
	}
	if filters.StudentID != nil {
		q = q.Where("evaluations.student_id = ?", *filters.StudentID)
	}
	if filters.TeacherID != nil {
		q = q.Where("evaluations.teacher_id = ?", *filters.TeacherID)
	}

	if page.PerPage == 0 {
		page.PerPage = DefaultPerPage
	}
	result, err := query.Paginate[model.Evaluation](q, page)
	if err != nil {
		return nil, service.Wrap(s.log, "获取单元评价失败", err, zap.Uint("unit_id", id))
	}
	return result, nil
}

func (s *UnitService) requireAssigned(ctx context.Context, p permission.Principal, u *model.Unit) error {
	teacher, err := s.permissions.TeacherOf(ctx, p)
	if err != nil {
		return service.Wrap(s.log, "获取权限信息失败", err, zap.Uint("user_id", p.UserID))
	}
	if teacher == nil || teacher.ID != u.TeacherID {
		return permission.Forbidden("Only the assigned teacher can modify this unit")
	}
	return nil
}

func exists[T any](ctx context.Context, repo *repository.Repository[T], id uint, msg string) error {
	count, err := repo.GetCount(ctx, query.Filters{"id": id})
	if err != nil {
		return err
	}
	if count == 0 {
		return service.Invalid(msg)
	}
	return nil
}
