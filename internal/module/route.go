package module

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes r 需已挂载认证中间件
func RegisterRoutes(r *gin.RouterGroup, moduleService *ModuleService) {
	moduleHandler := NewModuleHandler(moduleService)

	modules := r.Group("/modules")
	{
		// 查询类接口
		modules.GET("", moduleHandler.GetModules)
		modules.GET("/:id", moduleHandler.GetModule)
		modules.GET("/:id/units", moduleHandler.GetModuleUnits)

		// 编辑类接口（服务层要求教师身份）
		modules.POST("", moduleHandler.CreateModule)
		modules.PATCH("/:id", moduleHandler.UpdateModule)
		modules.DELETE("/:id", moduleHandler.DeleteModule)
	}
}
