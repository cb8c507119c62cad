package student

import (
	"github.com/gin-gonic/gin"

	"terminal-terrace/academic/internal/dto"
	"terminal-terrace/academic/internal/middleware"
	"terminal-terrace/academic/internal/query"
)

type StudentHandler struct {
	studentService *StudentService
}

func NewStudentHandler(studentService *StudentService) *StudentHandler {
	return &StudentHandler{studentService: studentService}
}

// GetStudents 学生列表
// @Summary 学生分页列表
// @Tags 学生
// @Produce json
// @Security BearerAuth
// @Param page query int false "页码"
// @Param per_page query int false "每页条数"
// @Param user_id query int false "用户ID"
// @Router /students [get]
func (h *StudentHandler) GetStudents(c *gin.Context) {
	page, ok := dto.BindPage(c)
	if !ok {
		return
	}
	filters := query.Filters{}
	if userID, ok := dto.QueryUint(c, "user_id"); ok {
		filters["user_id"] = userID
	}

	result, err := h.studentService.GetAll(c.Request.Context(), filters, page.Pagination(DefaultPerPage))
	if err != nil {
		dto.ErrorResponse(c, err)
		return
	}
	dto.SuccessResponse(c, dto.PageOf(result, dto.NewStudentResource))
}

// GetMyStudent 当前用户的学生档案
// @Summary 当前用户的学生档案
// @Tags 学生
// @Produce json
// @Security BearerAuth
// @Router /students/me [get]
func (h *StudentHandler) GetMyStudent(c *gin.Context) {
	student, err := h.studentService.Get(c.Request.Context(), middleware.Principal(c), nil)
	if err != nil {
		dto.ErrorResponse(c, err)
		return
	}
	dto.SuccessResponse(c, dto.NewStudentResource(*student))
}

// GetStudent 获取单个学生档案
// @Summary 获取单个学生档案
// @Tags 学生
// @Produce json
// @Security BearerAuth
// @Param id path int true "学生ID"
// @Router /students/{id} [get]
func (h *StudentHandler) GetStudent(c *gin.Context) {
	id, ok := dto.ParseID(c, "id", "无效的学生ID")
	if !ok {
		return
	}

	student, err := h.studentService.Get(c.Request.Context(), middleware.Principal(c), &id)
	if err != nil {
		dto.ErrorResponse(c, err)
		return
	}
	dto.SuccessResponse(c, dto.NewStudentResource(*student))
}

// CreateStudent 创建或更新当前用户的学生档案
// @Summary 创建或更新当前用户的学生档案
// @Description 修改邮箱或密码需提供 current_password
// @Tags 学生
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body UpsertStudentRequest true "档案请求"
// @Router /students [post]
func (h *StudentHandler) CreateStudent(c *gin.Context) {
	h.upsert(c, nil)
}

// UpdateStudent 更新学生档案
// @Summary 更新学生档案
// @Description 仅本人或管理员可修改
// @Tags 学生
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "学生ID"
// @Param request body UpsertStudentRequest true "档案请求"
// @Router /students/{id} [patch]
func (h *StudentHandler) UpdateStudent(c *gin.Context) {
	id, ok := dto.ParseID(c, "id", "无效的学生ID")
	if !ok {
		return
	}
	h.upsert(c, &id)
}

func (h *StudentHandler) upsert(c *gin.Context, id *uint) {
	var req UpsertStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.ValidationErrorResponse(c, err)
		return
	}

	student, err := h.studentService.Upsert(c.Request.Context(), middleware.Principal(c), req, id)
	if err != nil {
		dto.ErrorResponse(c, err)
		return
	}
	dto.SuccessResponse(c, dto.NewStudentResource(*student))
}

// DeleteStudent 删除学生档案
// @Summary 删除学生档案
// @Tags 学生
// @Produce json
// @Security BearerAuth
// @Param id path int true "学生ID"
// @Router /students/{id} [delete]
func (h *StudentHandler) DeleteStudent(c *gin.Context) {
	id, ok := dto.ParseID(c, "id", "无效的学生ID")
	if !ok {
		return
	}

	if err := h.studentService.Delete(c.Request.Context(), middleware.Principal(c), id); err != nil {
		dto.ErrorResponse(c, err)
		return
	}
	dto.SuccessResponse(c, gin.H{
		"message": "删除成功",
	})
}

// GetStudentEvaluations 学生收到的评价
// @Summary 学生相关的评价
// @Tags 学生
// @Produce json
// @Security BearerAuth
// @Param id path int true "学生ID"
// @Param page query int false "页码"
// @Param per_page query int false "每页条数"
// @Router /students/{id}/evaluations [get]
func (h *StudentHandler) GetStudentEvaluations(c *gin.Context) {
	id, ok := dto.ParseID(c, "id", "无效的学生ID")
	if !ok {
		return
	}
	page, ok := dto.BindPage(c)
	if !ok {
		return
	}

	result, err := h.studentService.Evaluations(c.Request.Context(), id, page.Pagination(DefaultPerPage))
	if err != nil {
		dto.ErrorResponse(c, err)
		return
	}
	dto.SuccessResponse(c, dto.PageOf(result, dto.NewEvaluationResource))
}
