package evaluation

import (
	"github.com/gin-gonic/gin"

	"terminal-terrace/academic/internal/dto"
	"terminal-terrace/academic/internal/middleware"
	"terminal-terrace/academic/internal/query"
)

type EvaluationHandler struct {
	evaluationService *EvaluationService
}

func NewEvaluationHandler(evaluationService *EvaluationService) *EvaluationHandler {
	return &EvaluationHandler{evaluationService: evaluationService}
}

// GetEvaluations 评价分页列表，可按学生、教师、模块、单元过滤
// @Summary 评价分页列表
// @Tags 评价管理
// @Produce json
// @Security BearerAuth
// @Param page query int false "页码"
// @Param per_page query int false "每页条数"
// @Param student_id query int false "学生ID"
// @Param teacher_id query int false "教师ID"
// @Param module_id query int false "模块ID"
// @Param unit_id query int false "单元ID"
// @Router /evaluations [get]
func (h *EvaluationHandler) GetEvaluations(c *gin.Context) {
	page, ok := dto.BindPage(c)
	if !ok {
		return
	}
	filters := query.Filters{}
	for _, key := range []string{"student_id", "teacher_id", "module_id", "unit_id"} {
		if id, ok := dto.QueryUint(c, key); ok {
			filters[key] = id
		}
	}

	result, err := h.evaluationService.GetAll(c.Request.Context(), filters, page.Pagination(DefaultPerPage))
	if err != nil {
		dto.ErrorResponse(c, err)
		return
	}
	dto.SuccessResponse(c, dto.PageOf(result, dto.NewEvaluationResource))
}

// GetEvaluation 获取单个评价
// @Summary 获取单个评价
// @Tags 评价管理
// @Produce json
// @Security BearerAuth
// @Param id path int true "评价ID"
// @Router /evaluations/{id} [get]
func (h *EvaluationHandler) GetEvaluation(c *gin.Context) {
	id, ok := dto.ParseID(c, "id", "无效的评价ID")
	if !ok {
		return
	}

	e, err := h.evaluationService.Get(c.Request.Context(), id)
	if err != nil {
		dto.ErrorResponse(c, err)
		return
	}
	dto.SuccessResponse(c, dto.NewEvaluationResource(*e))
}

// CreateEvaluation 创建评价
// @Summary 创建评价
// @Description 仅单元的负责教师或管理员可评分
// @Tags 评价管理
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body UpsertEvaluationRequest true "评价请求"
// @Router /evaluations [post]
func (h *EvaluationHandler) CreateEvaluation(c *gin.Context) {
	h.upsert(c, nil)
}

// UpdateEvaluation 更新评价
// @Summary 更新评价
// @Tags 评价管理
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "评价ID"
// @Param request body UpsertEvaluationRequest true "评价请求"
// @Router /evaluations/{id} [patch]
func (h *EvaluationHandler) UpdateEvaluation(c *gin.Context) {
	id, ok := dto.ParseID(c, "id", "无效的评价ID")
	if !ok {
		return
	}
	h.upsert(c, &id)
}

func (h *EvaluationHandler) upsert(c *gin.Context, id *uint) {
	var req UpsertEvaluationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.ValidationErrorResponse(c, err)
		return
	}

	e, err := h.evaluationService.Upsert(c.Request.Context(), middleware.Principal(c), req, id)
	if err != nil {
		dto.ErrorResponse(c, err)
		return
	}
	dto.SuccessResponse(c, dto.NewEvaluationResource(*e))
}

// DeleteEvaluation 删除评价
// @Summary 删除评价
// @Tags 评价管理
// @Produce json
// @Security BearerAuth
// @Param id path int true "评价ID"
// @Router /evaluations/{id} [delete]
func (h *EvaluationHandler) DeleteEvaluation(c *gin.Context) {
	id, ok := dto.ParseID(c, "id", "无效的评价ID")
	if !ok {
		return
	}

	if err := h.evaluationService.Delete(c.Request.Context(), middleware.Principal(c), id); err != nil {
		dto.ErrorResponse(c, err)
		return
	}
	dto.SuccessResponse(c, gin.H{
		"message": "删除成功",
	})
}
