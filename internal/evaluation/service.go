package evaluation

import (
	"context"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"terminal-terrace/academic/internal/database"
	"terminal-terrace/academic/internal/model"
	"terminal-terrace/academic/internal/permission"
	"terminal-terrace/academic/internal/query"
	"terminal-terrace/academic/internal/repository"
	"terminal-terrace/academic/internal/service"
)

var relations = []string{"student", "teacher", "module", "unit"}

type EvaluationService struct {
	db          *gorm.DB
	evaluations *repository.EvaluationRepository
	students    *repository.StudentRepository
	teachers    *repository.TeacherRepository
	modules     *repository.ModuleRepository
	units       *repository.UnitRepository
	permissions *permission.Service
	log         *zap.Logger
}

func NewEvaluationService(db *gorm.DB, permissions *permission.Service, log *zap.Logger) *EvaluationService {
	return &EvaluationService{
		db:          db,
		evaluations: repository.NewEvaluationRepository(db),
		students:    repository.NewStudentRepository(db),
		teachers:    repository.NewTeacherRepository(db),
		modules:     repository.NewModuleRepository(db),
		units:       repository.NewUnitRepository(db),
		permissions: permissions,
		log:         log,
	}
}

func (s *EvaluationService) GetAll(ctx context.Context, filters query.Filters, page query.Pagination) (*query.Page[model.Evaluation], error) {
	if page.PerPage == 0 {
		page.PerPage = DefaultPerPage
	}
	result, err := s.evaluations.List(ctx, query.Spec{
		Filters:    filters,
		With:       relations,
		Pagination: page,
	})
	if err != nil {
		return nil, service.Wrap(s.log, "获取评价列表失败", err)
	}
	return result, nil
}

func (s *EvaluationService) Get(ctx context.Context, id uint) (*model.Evaluation, error) {
	e, err := s.evaluations.GetOne(ctx, query.Filters{"id": id}, query.With(relations...))
	if err != nil {
		return nil, service.Wrap(s.log, "获取评价失败", err, zap.Uint("evaluation_id", id))
	}
	if e == nil {
		return nil, service.NotFound("Evaluation not found")
	}
	return e, nil
}

// Upsert id 为 nil 时创建，否则更新；只有教师可以写入评价
func (s *EvaluationService) Upsert(ctx context.Context, p permission.Principal, req UpsertEvaluationRequest, id *uint) (*model.Evaluation, error) {
	var existing *model.Evaluation
	if id != nil {
		var err error
		existing, err = s.evaluations.GetOne(ctx, query.Filters{"id": *id})
		if err != nil {
			return nil, service.Wrap(s.log, "获取评价失败", err, zap.Uint("evaluation_id", *id))
		}
		if existing == nil {
			return nil, service.NotFound("Evaluation not found")
		}
	}

	caller, err := s.permissions.RequireTeacher(ctx, p)
	if err != nil {
		return nil, err
	}

	values, err := merge(req, existing, caller.ID)
	if err != nil {
		return nil, err
	}

	var saved *model.Evaluation
	err = database.Transaction(ctx, s.db, func(tx *gorm.DB) error {
		if err := s.checkReferences(ctx, tx, values); err != nil {
			return err
		}

		attrs := repository.Attributes{
			"student_id":      values.StudentID,
			"teacher_id":      values.TeacherID,
			"module_id":       values.ModuleID,
			"unit_id":         values.UnitID,
			"score":           values.Score,
			"comments":        values.Comments,
			"evaluation_date": values.EvaluationDate,
		}
		var target any
		if existing != nil {
			target = existing
		}
		var err error
		saved, err = s.evaluations.WithTx(tx).Save(ctx, attrs, target)
		return err
	})
	if err != nil {
		return nil, service.Wrap(s.log, "保存评价失败", err, zap.Uint("unit_id", values.UnitID))
	}
	return s.Get(ctx, saved.ID)
}

// Delete 只有教师可以删除评价
func (s *EvaluationService) Delete(ctx context.Context, p permission.Principal, id uint) error {
	if _, err := s.permissions.RequireTeacher(ctx, p); err != nil {
		return err
	}

	e, err := s.evaluations.GetOne(ctx, query.Filters{"id": id})
	if err != nil {
		return service.Wrap(s.log, "获取评价失败", err, zap.Uint("evaluation_id", id))
	}
	if e == nil {
		return service.NotFound("Evaluation not found")
	}

	if _, err := s.evaluations.Delete(ctx, e); err != nil {
		return service.Wrap(s.log, "删除评价失败", err, zap.Uint("evaluation_id", id))
	}
	return nil
}

// evaluationValues 合并请求与原记录后的最终字段
type evaluationValues struct {
	StudentID      uint
	TeacherID      uint
	ModuleID       uint
	UnitID         uint
	Score          float64
	Comments       *string
	EvaluationDate datatypes.Date
}

func merge(req UpsertEvaluationRequest, existing *model.Evaluation, callerTeacherID uint) (evaluationValues, error) {
	var v evaluationValues
	if existing != nil {
		v = evaluationValues{
			StudentID:      existing.StudentID,
			TeacherID:      existing.TeacherID,
			ModuleID:       existing.ModuleID,
			UnitID:         existing.UnitID,
			Score:          existing.Score,
			Comments:       existing.Comments,
			EvaluationDate: existing.EvaluationDate,
		}
	} else {
		if req.TeacherID == nil {
			req.TeacherID = &callerTeacherID
		}
		if req.StudentID == nil || req.ModuleID == nil || req.UnitID == nil ||
			req.Score == nil || req.EvaluationDate == nil {
			return v, service.Invalid("student_id, module_id, unit_id, score and evaluation_date are required")
		}
	}

	if err := service.Validate(req); err != nil {
		return v, err
	}

	if req.StudentID != nil {
		v.StudentID = *req.StudentID
	}
	if req.TeacherID != nil {
		v.TeacherID = *req.TeacherID
	}
	if req.ModuleID != nil {
		v.ModuleID = *req.ModuleID
	}
	if req.UnitID != nil {
		v.UnitID = *req.UnitID
	}
	if req.Score != nil {
		v.Score = *req.Score
	}
	if req.Comments != nil {
		v.Comments = req.Comments
	}
	if req.EvaluationDate != nil {
		date, err := time.Parse(DateLayout, *req.EvaluationDate)
		if err != nil {
			return v, service.Invalid("evaluation_date must be a YYYY-MM-DD date")
		}
		v.EvaluationDate = datatypes.Date(date)
	}

	if v.Score < 0 || v.Score > 10 {
		return v, service.Invalid("score must be between 0 and 10")
	}
	return v, nil
}

// checkReferences 引用的记录必须存在，且单元属于该模块
func (s *EvaluationService) checkReferences(ctx context.Context, tx *gorm.DB, v evaluationValues) error {
	for _, check := range []struct {
		count func() (int64, error)
		msg   string
	}{
		{func() (int64, error) { return s.students.WithTx(tx).GetCount(ctx, query.Filters{"id": v.StudentID}) }, "Student does not exist"},
		{func() (int64, error) { return s.teachers.WithTx(tx).GetCount(ctx, query.Filters{"id": v.TeacherID}) }, "Teacher does not exist"},
		{func() (int64, error) { return s.modules.WithTx(tx).GetCount(ctx, query.Filters{"id": v.ModuleID}) }, "Module does not exist"},
	} {
		count, err := check.count()
		if err != nil {
			return err
		}
		if count == 0 {
			return service.Invalid(check.msg)
		}
	}

	unit, err := s.units.WithTx(tx).GetOne(ctx, query.Filters{"id": v.UnitID})
	if err != nil {
		return err
	}
	if unit == nil {
		return service.Invalid("Unit does not exist")
	}
	if unit.ModuleID != v.ModuleID {
		return service.Invalid("Unit does not belong to the module")
	}
	return nil
}
