package student

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes r 需已挂载认证中间件
func RegisterRoutes(r *gin.RouterGroup, studentService *StudentService) {
	handler := NewStudentHandler(studentService)

	students := r.Group("/students")
	{
		students.GET("", handler.GetStudents)
		students.POST("", handler.CreateStudent)
		students.GET("/me", handler.GetMyStudent)
		students.GET("/:id", handler.GetStudent)
		students.PATCH("/:id", handler.UpdateStudent)
		students.DELETE("/:id", handler.DeleteStudent)
		students.GET("/:id/evaluations", handler.GetStudentEvaluations)
	}
}
