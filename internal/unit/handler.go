package unit

import (
	"github.com/gin-gonic/gin"

	"terminal-terrace/academic/internal/dto"
	"terminal-terrace/academic/internal/middleware"
	"terminal-terrace/academic/internal/query"
)

type UnitHandler struct {
	unitService *UnitService
}

func NewUnitHandler(unitService *UnitService) *UnitHandler {
	return &UnitHandler{unitService: unitService}
}

// GetUnits 单元分页列表
// @Summary 单元分页列表
// @Tags 单元管理
// @Produce json
// @Security BearerAuth
// @Param page query int false "页码"
// @Param per_page query int false "每页条数"
// @Param module_id query int false "模块ID"
// @Param teacher_id query int false "教师ID"
// @Router /units [get]
func (h *UnitHandler) GetUnits(c *gin.Context) {
	page, ok := dto.BindPage(c)
	if !ok {
		return
	}
	filters := query.Filters{}
	for _, key := range []string{"module_id", "teacher_id"} {
		if id, ok := dto.QueryUint(c, key); ok {
			filters[key] = id
		}
	}

	result, err := h.unitService.GetAll(c.Request.Context(), filters, page.Pagination(DefaultPerPage))
	if err != nil {
		dto.ErrorResponse(c, err)
		return
	}
	dto.SuccessResponse(c, dto.PageOf(result, dto.NewUnitResource))
}

// GetUnit 获取单个单元
// @Summary 获取单个单元
// @Tags 单元管理
// @Produce json
// @Security BearerAuth
// @Param id path int true "单元ID"
// @Router /units/{id} [get]
func (h *UnitHandler) GetUnit(c *gin.Context) {
	id, ok := dto.ParseID(c, "id", "无效的单元ID")
	if !ok {
		return
	}

	u, err := h.unitService.Get(c.Request.Context(), id)
	if err != nil {
		dto.ErrorResponse(c, err)
		return
	}
	dto.SuccessResponse(c, dto.NewUnitResource(*u))
}

// CreateUnit 创建单元
// @Summary 创建新单元
// @Description 仅教师可创建；指定其他教师需要管理员权限
// @Tags 单元管理
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateUnitRequest true "创建单元请求"
// @Router /units [post]
func (h *UnitHandler) CreateUnit(c *gin.Context) {
	var req CreateUnitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.ValidationErrorResponse(c, err)
		return
	}

	u, err := h.unitService.Create(c.Request.Context(), middleware.Principal(c), req)
	if err != nil {
		dto.ErrorResponse(c, err)
		return
	}
	dto.SuccessResponse(c, dto.NewUnitResource(*u))
}

// UpdateUnit 更新单元标题
// @Summary 更新单元
// @Description 仅被指派的教师可修改
// @Tags 单元管理
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "单元ID"
// @Param request body UpdateUnitRequest true "更新单元请求"
// @Router /units/{id} [patch]
func (h *UnitHandler) UpdateUnit(c *gin.Context) {
	id, ok := dto.ParseID(c, "id", "无效的单元ID")
	if !ok {
		return
	}
	var req UpdateUnitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.ValidationErrorResponse(c, err)
		return
	}

	u, err := h.unitService.Update(c.Request.Context(), middleware.Principal(c), id, req)
	if err != nil {
		dto.ErrorResponse(c, err)
		return
	}
	dto.SuccessResponse(c, dto.NewUnitResource(*u))
}

// DeleteUnit 删除单元
// @Summary 删除单元
// @Description 单元仍有评价时返回冲突
// @Tags 单元管理
// @Produce json
// @Security BearerAuth
// @Param id path int true "单元ID"
// @Router /units/{id} [delete]
func (h *UnitHandler) DeleteUnit(c *gin.Context) {
	id, ok := dto.ParseID(c, "id", "无效的单元ID")
	if !ok {
		return
	}

	if err := h.unitService.Delete(c.Request.Context(), middleware.Principal(c), id); err != nil {
		dto.ErrorResponse(c, err)
		return
	}
	dto.SuccessResponse(c, gin.H{
		"message": "删除成功",
	})
}

// GetUnitEvaluations 单元的评价列表
// @Summary 单元评价列表
// @Tags 单元管理
// @Produce json
// @Security BearerAuth
// @Param id path int true "单元ID"
// @Param student_id query int false "学生ID"
// @Param teacher_id query int false "教师ID"
// @Router /units/{id}/evaluations [get]
func (h *UnitHandler) GetUnitEvaluations(c *gin.Context) {
	id, ok := dto.ParseID(c, "id", "无效的单元ID")
	if !ok {
		return
	}
	page, ok := dto.BindPage(c)
	if !ok {
		return
	}

	var filters EvaluationFilters
	if studentID, ok := dto.QueryUint(c, "student_id"); ok {
		filters.StudentID = &studentID
	}
	if teacherID, ok := dto.QueryUint(c, "teacher_id"); ok {
		filters.TeacherID = &teacherID
	}

	result, err := h.unitService.Evaluations(c.Request.Context(), id, filters, page.Pagination(DefaultPerPage))
	if err != nil {
		dto.ErrorResponse(c, err)
		return
	}
	dto.SuccessResponse(c, dto.PageOf(result, dto.NewEvaluationResource))
}
