package evaluation

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes r 需已挂载认证中间件
func RegisterRoutes(r *gin.RouterGroup, evaluationService *EvaluationService) {
	evaluationHandler := NewEvaluationHandler(evaluationService)

	evaluations := r.Group("/evaluations")
	{
		evaluations.GET("", evaluationHandler.GetEvaluations)
		evaluations.GET("/:id", evaluationHandler.GetEvaluation)
		evaluations.POST("", evaluationHandler.CreateEvaluation)
		evaluations.PATCH("/:id", evaluationHandler.UpdateEvaluation)
		evaluations.DELETE("/:id", evaluationHandler.DeleteEvaluation)
	}
}
