package profile

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes r 需已挂载认证中间件
func RegisterRoutes(r *gin.RouterGroup, profileService *ProfileService) {
	handler := NewProfileHandler(profileService)

	profile := r.Group("/profile")
	{
		profile.GET("", handler.GetProfile)
		profile.PATCH("", handler.UpdateProfile)
		profile.DELETE("", handler.DeleteProfile)
	}
}
