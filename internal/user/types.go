package user

// UpdateUserRequest 管理员修改用户
type UpdateUserRequest struct {
	Name  *string `json:"name" binding:"omitempty,min=1,max=255"`
	Email *string `json:"email" binding:"omitempty,email,max=255"`
	Role  *string `json:"role"`
}

// DefaultPerPage 用户列表默认每页条数
const DefaultPerPage = 15
