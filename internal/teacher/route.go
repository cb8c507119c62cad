package teacher

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes r 需已挂载认证中间件
func RegisterRoutes(r *gin.RouterGroup, teacherService *TeacherService) {
	handler := NewTeacherHandler(teacherService)

	teachers := r.Group("/teachers")
	{
		teachers.GET("", handler.GetTeachers)
		teachers.POST("", handler.CreateTeacher)
		teachers.GET("/me", handler.GetMyTeacher)
		teachers.GET("/:id", handler.GetTeacher)
		teachers.PATCH("/:id", handler.UpdateTeacher)
		teachers.DELETE("/:id", handler.DeleteTeacher)
		teachers.GET("/:id/evaluations", handler.GetTeacherEvaluations)
	}
}
