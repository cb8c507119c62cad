package user

import (
	"github.com/gin-gonic/gin"

	"terminal-terrace/academic/internal/dto"
	"terminal-terrace/academic/internal/middleware"
	"terminal-terrace/academic/internal/query"
)

type UserHandler struct {
	userService *UserService
}

func NewUserHandler(userService *UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// GetUsers 用户列表
// @Summary 用户分页列表
// @Description 仅管理员；search 匹配姓名与邮箱
// @Tags 用户管理
// @Produce json
// @Security BearerAuth
// @Param page query int false "页码"
// @Param per_page query int false "每页条数"
// @Param search query string false "搜索关键字"
// @Param role query string false "角色"
// @Router /admin/users [get]
func (h *UserHandler) GetUsers(c *gin.Context) {
	page, ok := dto.BindPage(c)
	if !ok {
		return
	}
	filters := query.Filters{}
	if role := c.Query("role"); role != "" {
		filters["role"] = role
	}

	result, err := h.userService.List(c.Request.Context(), middleware.Principal(c), filters, c.Query("search"), page.Pagination(DefaultPerPage))
	if err != nil {
		dto.ErrorResponse(c, err)
		return
	}
	dto.SuccessResponse(c, dto.PageOf(result, dto.NewUserResource))
}

// UpdateUser 修改用户
// @Summary 修改用户姓名、邮箱或角色
// @Tags 用户管理
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "用户ID"
// @Param request body UpdateUserRequest true "修改用户请求"
// @Router /admin/users/{id} [patch]
func (h *UserHandler) UpdateUser(c *gin.Context) {
	id, ok := dto.ParseID(c, "id", "无效的用户ID")
	if !ok {
		return
	}
	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.ValidationErrorResponse(c, err)
		return
	}

	u, err := h.userService.Update(c.Request.Context(), middleware.Principal(c), id, req)
	if err != nil {
		dto.ErrorResponse(c, err)
		return
	}
	dto.SuccessResponse(c, dto.NewUserResource(*u))
}

// DeleteUser 删除用户
// @Summary 删除用户及其档案和令牌
// @Tags 用户管理
// @Produce json
// @Security BearerAuth
// @Param id path int true "用户ID"
// @Router /admin/users/{id} [delete]
func (h *UserHandler) DeleteUser(c *gin.Context) {
	id, ok := dto.ParseID(c, "id", "无效的用户ID")
	if !ok {
		return
	}

	if err := h.userService.Delete(c.Request.Context(), middleware.Principal(c), id); err != nil {
		dto.ErrorResponse(c, err)
		return
	}
	dto.SuccessResponse(c, gin.H{
		"message": "删除成功",
	})
}
