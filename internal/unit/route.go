package unit

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes r 需已挂载认证中间件
func RegisterRoutes(r *gin.RouterGroup, unitService *UnitService) {
	unitHandler := NewUnitHandler(unitService)

	units := r.Group("/units")
	{
		units.GET("", unitHandler.GetUnits)
		units.GET("/:id", unitHandler.GetUnit)
		units.GET("/:id/evaluations", unitHandler.GetUnitEvaluations)

		units.POST("", unitHandler.CreateUnit)
		units.PATCH("/:id", unitHandler.UpdateUnit)
		units.DELETE("/:id", unitHandler.DeleteUnit)
	}
}
