package teacher

// UpsertTeacherRequest 创建或更新教师档案；操作本人档案时可同时修改用户信息
type UpsertTeacherRequest struct {
	Name                    *string `json:"name" binding:"omitempty,max=255"`
	Email                   *string `json:"email" binding:"omitempty,email,max=255"`
	CurrentPassword         string  `json:"current_password"`
	NewPassword             string  `json:"new_password" binding:"omitempty,min=8"`
	NewPasswordConfirmation string  `json:"new_password_confirmation" binding:"omitempty,eqfield=NewPassword"`
	FirstName               *string `json:"first_name" binding:"omitempty,max=255"`
	LastName                *string `json:"last_name" binding:"omitempty,max=255"`
}

// DefaultPerPage 教师列表默认每页条数
const DefaultPerPage = 10
