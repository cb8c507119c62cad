package user

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes r 需已挂载认证中间件，管理员校验在服务层
func RegisterRoutes(r *gin.RouterGroup, userService *UserService) {
	userHandler := NewUserHandler(userService)

	users := r.Group("/admin/users")
	{
		users.GET("", userHandler.GetUsers)
		users.PATCH("/:id", userHandler.UpdateUser)
		users.DELETE("/:id", userHandler.DeleteUser)
	}
}
