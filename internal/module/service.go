package module

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

type ModuleService struct {
	db          *gorm.DB
	moduleRepo  *repository.ModuleRepository
	permissions *permission.Service
	log         *zap.Logger
}

func NewModuleService(db *gorm.DB, permissions *permission.Service, log *zap.Logger) *ModuleService {
	return &ModuleService{
		db:          db,
		moduleRepo:  repository.NewModuleRepository(db),
		permissions: permissions,
		log:         log,
	}
}

// GetAll 模块分页列表，附带单元
func (s *ModuleService) GetAll(ctx context.Context, filters query.Filters, page query.Pagination) (*query.Page[model.Module], error) {
	if page.PerPage == 0 {
		page.PerPage = DefaultPerPage
	}
	result, err := s.moduleRepo.List(ctx, query.Spec{
		Filters:    filters,
		With:       []string{"units"},
		Pagination: page,
	})
	if err != nil {
		return nil, service.Wrap(s.log, "获取模块列表失败", err)
	}
	return result, nil
}

func (s *ModuleService) Get(ctx context.Context, id uint) (*model.Module, error) {
	m, err := s.moduleRepo.GetOne(ctx, query.Filters{"id": id}, query.With("units"))
	if err != nil {
		return nil, service.Wrap(s.log, "获取模块失败", err, zap.Uint("module_id", id))
	}
	if m == nil {
		return nil, service.NotFound("Module not found")
	}
	return m, nil
}

// Create 创建模块，需要教师身份
func (s *ModuleService) Create(ctx context.Context, p permission.Principal, req ModuleRequest) (*model.Module, error) {
	if _, err := s.permissions.RequireTeacher(ctx, p); err != nil {
		return nil, err
	}
	if err := service.Validate(req); err != nil {
		return nil, err
	}

	var created *model.Module
	err := database.Transaction(ctx, s.db, func(tx *gorm.DB) error {
		modules := s.moduleRepo.WithTx(tx)
		if err := ensureUniqueName(ctx, modules, req.Name, 0); err != nil {
			return err
		}
		var err error
		created, err = modules.Save(ctx, repository.Attributes{"name": req.Name}, nil)
		return err
	})
	if err != nil {
		return nil, service.Wrap(s.log, "创建模块失败", err)
	}
	return s.Get(ctx, created.ID)
}

// Update 修改模块名称，需要教师身份
func (s *ModuleService) Update(ctx context.Context, p permission.Principal, id uint, req ModuleRequest) (*model.Module, error) {
	if _, err := s.permissions.RequireTeacher(ctx, p); err != nil {
		return nil, err
	}
	if err := service.Validate(req); err != nil {
		return nil, err
	}

	err := database.Transaction(ctx, s.db, func(tx *gorm.DB) error {
		modules := s.moduleRepo.WithTx(tx)
		current, err := modules.GetOne(ctx, query.Filters{"id": id})
		if err != nil {
			return err
		}
		if current == nil {
			return service.NotFound("Module not found")
		}
		if err := ensureUniqueName(ctx, modules, req.Name, id); err != nil {
			return err
		}
		_, err = modules.Save(ctx, repository.Attributes{"name": req.Name}, current)
		return err
	})
	if err != nil {
		return nil, service.Wrap(s.log, "更新模块失败", err, zap.Uint("module_id", id))
	}
	return s.Get(ctx, id)
}

// Delete 仍有单元或评价引用时拒绝删除
func (s *ModuleService) Delete(ctx context.Context, p permission.Principal, id uint) error {
	if _, err := s.permissions.RequireTeacher(ctx, p); err != nil {
		return err
	}

	err := database.Transaction(ctx, s.db, func(tx *gorm.DB) error {
		modules := s.moduleRepo.WithTx(tx)
		m, err := modules.GetOne(ctx, query.Filters{"id": id}, query.WithCount("units", "evaluations"))
		if err != nil {
			return err
		}
		if m == nil {
			return service.NotFound("Module not found")
		}
		if m.UnitsCount != nil && *m.UnitsCount > 0 {
			return service.Conflict("Cannot delete module with associated units")
		}
		if m.EvaluationsCount != nil && *m.EvaluationsCount > 0 {
			return service.Conflict("Cannot delete module with associated evaluations")
		}
		_, err = modules.Delete(ctx, m)
		return err
	})
	return service.Wrap(s.log, "删除模块失败", err, zap.Uint("module_id", id))
}

// Units 模块下的单元及其教师
func (s *ModuleService) Units(ctx context.Context, id uint) ([]model.Unit, error) {
	m, err := s.moduleRepo.GetOne(ctx, query.Filters{"id": id}, query.With("units.teacher"))
	if err != nil {
		return nil, service.Wrap(s.log, "获取模块单元失败", err, zap.Uint("module_id", id))
	}
	if m == nil {
		return nil, service.NotFound("Module not found")
	}
	if m.Units == nil {
		return []model.Unit{}, nil
	}
	return m.Units, nil
}

func ensureUniqueName(ctx context.Context, modules *repository.ModuleRepository, name string, exceptID uint) error {
	existing, err := modules.GetOne(ctx, query.Filters{"name": name})
	if err != nil {
		return err
	}
	if existing != nil && existing.ID != exceptID {
		return service.Conflict("Module name already exists")
	}
	return nil
}
