package teacher

import (
	"github.com/gin-gonic/gin"

	"terminal-terrace/academic/internal/dto"
	"terminal-terrace/academic/internal/middleware"
	"terminal-terrace/academic/internal/query"
)

type TeacherHandler struct {
	teacherService *TeacherService
}

func NewTeacherHandler(teacherService *TeacherService) *TeacherHandler {
	return &TeacherHandler{teacherService: teacherService}
}

// GetTeachers 教师列表
// @Summary 教师分页列表
// @Tags 教师
// @Produce json
// @Security BearerAuth
// @Param page query int false "页码"
// @Param per_page query int false "每页条数"
// @Param user_id query int false "用户ID"
// @Router /teachers [get]
func (h *TeacherHandler) GetTeachers(c *gin.Context) {
	page, ok := dto.BindPage(c)
	if !ok {
		return
	}
	filters := query.Filters{}
	if userID, ok := dto.QueryUint(c, "user_id"); ok {
		filters["user_id"] = userID
	}

	result, err := h.teacherService.GetAll(c.Request.Context(), filters, page.Pagination(DefaultPerPage))
	if err != nil {
		dto.ErrorResponse(c, err)
		return
	}
	dto.SuccessResponse(c, dto.PageOf(result, dto.NewTeacherResource))
}

// GetMyTeacher 当前用户的教师档案
// @Summary 当前用户的教师档案
// @Tags 教师
// @Produce json
// @Security BearerAuth
// @Router /teachers/me [get]
func (h *TeacherHandler) GetMyTeacher(c *gin.Context) {
	teacher, err := h.teacherService.Get(c.Request.Context(), middleware.Principal(c), nil)
	if err != nil {
		dto.ErrorResponse(c, err)
		return
	}
	dto.SuccessResponse(c, dto.NewTeacherResource(*teacher))
}

// GetTeacher 获取单个教师档案
// @Summary 获取单个教师档案
// @Tags 教师
// @Produce json
// @Security BearerAuth
// @Param id path int true "教师ID"
// @Router /teachers/{id} [get]
func (h *TeacherHandler) GetTeacher(c *gin.Context) {
	id, ok := dto.ParseID(c, "id", "无效的教师ID")
	if !ok {
		return
	}

	teacher, err := h.teacherService.Get(c.Request.Context(), middleware.Principal(c), &id)
	if err != nil {
		dto.ErrorResponse(c, err)
		return
	}
	dto.SuccessResponse(c, dto.NewTeacherResource(*teacher))
}

// CreateTeacher 创建或更新当前用户的教师档案
// @Summary 创建或更新当前用户的教师档案
// @Description 修改邮箱或密码需提供 current_password
// @Tags 教师
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body UpsertTeacherRequest true "档案请求"
// @Router /teachers [post]
func (h *TeacherHandler) CreateTeacher(c *gin.Context) {
	h.upsert(c, nil)
}

// UpdateTeacher 更新教师档案
// @Summary 更新教师档案
// @Description 仅本人或管理员可修改
// @Tags 教师
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "教师ID"
// @Param request body UpsertTeacherRequest true "档案请求"
// @Router /teachers/{id} [patch]
func (h *TeacherHandler) UpdateTeacher(c *gin.Context) {
	id, ok := dto.ParseID(c, "id", "无效的教师ID")
	if !ok {
		return
	}
	h.upsert(c, &id)
}

func (h *TeacherHandler) upsert(c *gin.Context, id *uint) {
	var req UpsertTeacherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.ValidationErrorResponse(c, err)
		return
	}

	teacher, err := h.teacherService.Upsert(c.Request.Context(), middleware.Principal(c), req, id)
	if err != nil {
		dto.ErrorResponse(c, err)
		return
	}
	dto.SuccessResponse(c, dto.NewTeacherResource(*teacher))
}

// DeleteTeacher 删除教师档案
// @Summary 删除教师档案
// @Description 仍负责单元时返回 409
// @Tags 教师
// @Produce json
// @Security BearerAuth
// @Param id path int true "教师ID"
// @Router /teachers/{id} [delete]
func (h *TeacherHandler) DeleteTeacher(c *gin.Context) {
	id, ok := dto.ParseID(c, "id", "无效的教师ID")
	if !ok {
		return
	}

	if err := h.teacherService.Delete(c.Request.Context(), middleware.Principal(c), id); err != nil {
		dto.ErrorResponse(c, err)
		return
	}
	dto.SuccessResponse(c, gin.H{
		"message": "删除成功",
	})
}

// GetTeacherEvaluations 教师给出的评价
// @Summary 教师相关的评价
// @Tags 教师
// @Produce json
// @Security BearerAuth
// @Param id path int true "教师ID"
// @Param page query int false "页码"
// @Param per_page query int false "每页条数"
// @Router /teachers/{id}/evaluations [get]
func (h *TeacherHandler) GetTeacherEvaluations(c *gin.Context) {
	id, ok := dto.ParseID(c, "id", "无效的教师ID")
	if !ok {
		return
	}
	page, ok := dto.BindPage(c)
	if !ok {
		return
	}

	result, err := h.teacherService.Evaluations(c.Request.Context(), id, page.Pagination(DefaultPerPage))
	if err != nil {
		dto.ErrorResponse(c, err)
		return
	}
	dto.SuccessResponse(c, dto.PageOf(result, dto.NewEvaluationResource))
}
