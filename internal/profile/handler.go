package profile

import (
	"github.com/gin-gonic/gin"

	"terminal-terrace/academic/internal/dto"
	"terminal-terrace/academic/internal/middleware"
)

type ProfileHandler struct {
	profileService *ProfileService
}

func NewProfileHandler(profileService *ProfileService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

// GetProfile 获取当前用户的个人资料
// @Summary 获取个人资料
// @Description 按角色附带学生或教师档案及其评价
// @Tags 个人资料
// @Produce json
// @Security BearerAuth
// @Router /profile [get]
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	user, err := h.profileService.GetProfile(c.Request.Context(), middleware.Principal(c))
	if err != nil {
		dto.ErrorResponse(c, err)
		return
	}
	dto.SuccessResponse(c, dto.NewUserResource(*user))
}

// UpdateProfile 更新当前用户的个人资料
// @Summary 更新个人资料
// @Description 修改邮箱或密码需提供当前密码
// @Tags 个人资料
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body UpdateProfileRequest true "更新请求"
// @Router /profile [patch]
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.ValidationErrorResponse(c, err)
		return
	}

	user, err := h.profileService.UpdateProfile(c.Request.Context(), middleware.Principal(c), req)
	if err != nil {
		dto.ErrorResponse(c, err)
		return
	}
	dto.SuccessResponse(c, dto.NewUserResource(*user))
}

// DeleteProfile 删除当前用户账号
// @Summary 删除账号
// @Tags 个人资料
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body DeleteProfileRequest true "当前密码"
// @Router /profile [delete]
func (h *ProfileHandler) DeleteProfile(c *gin.Context) {
	var req DeleteProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.ValidationErrorResponse(c, err)
		return
	}

	if err := h.profileService.DeleteProfile(c.Request.Context(), middleware.Principal(c), req.Password); err != nil {
		dto.ErrorResponse(c, err)
		return
	}
	dto.SuccessResponse(c, gin.H{
		"message": "账号已删除",
	})
}
