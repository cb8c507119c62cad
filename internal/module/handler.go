package module

import (
	"github.com/gin-gonic/gin"

	"terminal-terrace/academic/internal/dto"
	"terminal-terrace/academic/internal/middleware"
	"terminal-terrace/academic/internal/query"
)

type ModuleHandler struct {
	moduleService *ModuleService
}

func NewModuleHandler(moduleService *ModuleService) *ModuleHandler {
	return &ModuleHandler{moduleService: moduleService}
}

// GetModules 获取模块列表
// @Summary 模块分页列表
// @Description 每个模块附带其单元
// @Tags 模块管理
// @Produce json
// @Security BearerAuth
// @Param page query int false "页码"
// @Param per_page query int false "每页条数"
// @Param name query string false "模块名称"
// @Router /modules [get]
func (h *ModuleHandler) GetModules(c *gin.Context) {
	page, ok := dto.BindPage(c)
	if !ok {
		return
	}
	filters := query.Filters{}
	if name := c.Query("name"); name != "" {
		filters["name"] = name
	}

	result, err := h.moduleService.GetAll(c.Request.Context(), filters, page.Pagination(DefaultPerPage))
	if err != nil {
		dto.ErrorResponse(c, err)
		return
	}
	dto.SuccessResponse(c, dto.PageOf(result, dto.NewModuleResource))
}

// GetModule 获取单个模块
// @Summary 获取单个模块
// @Tags 模块管理
// @Produce json
// @Security BearerAuth
// @Param id path int true "模块ID"
// @Router /modules/{id} [get]
func (h *ModuleHandler) GetModule(c *gin.Context) {
	id, ok := dto.ParseID(c, "id", "无效的模块ID")
	if !ok {
		return
	}

	m, err := h.moduleService.Get(c.Request.Context(), id)
	if err != nil {
		dto.ErrorResponse(c, err)
		return
	}
	dto.SuccessResponse(c, dto.NewModuleResource(*m))
}

// CreateModule 创建模块
// @Summary 创建新模块
// @Description 仅教师可创建，名称唯一
// @Tags 模块管理
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ModuleRequest true "创建模块请求"
// @Router /modules [post]
func (h *ModuleHandler) CreateModule(c *gin.Context) {
	var req ModuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.ValidationErrorResponse(c, err)
		return
	}

	m, err := h.moduleService.Create(c.Request.Context(), middleware.Principal(c), req)
	if err != nil {
		dto.ErrorResponse(c, err)
		return
	}
	dto.SuccessResponse(c, dto.NewModuleResource(*m))
}

// UpdateModule 更新模块
// @Summary 更新模块名称
// @Tags 模块管理
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "模块ID"
// @Param request body ModuleRequest true "更新模块请求"
// @Router /modules/{id} [patch]
func (h *ModuleHandler) UpdateModule(c *gin.Context) {
	id, ok := dto.ParseID(c, "id", "无效的模块ID")
	if !ok {
		return
	}
	var req ModuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.ValidationErrorResponse(c, err)
		return
	}

	m, err := h.moduleService.Update(c.Request.Context(), middleware.Principal(c), id, req)
	if err != nil {
		dto.ErrorResponse(c, err)
		return
	}
	dto.SuccessResponse(c, dto.NewModuleResource(*m))
}

// DeleteModule 删除模块
// @Summary 删除模块
// @Description 模块下仍有单元或评价时返回冲突
// @Tags 模块管理
// @Produce json
// @Security BearerAuth
// @Param id path int true "模块ID"
// @Router /modules/{id} [delete]
func (h *ModuleHandler) DeleteModule(c *gin.Context) {
	id, ok := dto.ParseID(c, "id", "无效的模块ID")
	if !ok {
		return
	}

	if err := h.moduleService.Delete(c.Request.Context(), middleware.Principal(c), id); err != nil {
		dto.ErrorResponse(c, err)
		return
	}
	dto.SuccessResponse(c, gin.H{
		"message": "删除成功",
	})
}

// GetModuleUnits 模块下的单元
// @Summary 模块单元列表
// @Tags 模块管理
// @Produce json
// @Security BearerAuth
// @Param id path int true "模块ID"
// @Router /modules/{id}/units [get]
func (h *ModuleHandler) GetModuleUnits(c *gin.Context) {
	id, ok := dto.ParseID(c, "id", "无效的模块ID")
	if !ok {
		return
	}

	units, err := h.moduleService.Units(c.Request.Context(), id)
	if err != nil {
		dto.ErrorResponse(c, err)
		return
	}
	resources := make([]dto.ModuleUnitResource, 0, len(units))
	for _, u := range units {
		resources = append(resources, dto.NewModuleUnitResource(u))
	}
	dto.SuccessResponse(c, resources)
}
