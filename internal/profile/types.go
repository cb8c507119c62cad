package profile

// UpdateProfileRequest 更新个人资料，所有字段可选
type UpdateProfileRequest struct {
	Name                 *string `json:"name" binding:"omitempty,max=255"`
	Email                *string `json:"email" binding:"omitempty,email,max=255"`
	CurrentPassword      string  `json:"current_password"`
	Password             string  `json:"password" binding:"omitempty,min=8"`
	PasswordConfirmation string  `json:"password_confirmation" binding:"omitempty,eqfield=Password"`
	FirstName            *string `json:"first_name" binding:"omitempty,max=255"`
	LastName             *string `json:"last_name" binding:"omitempty,max=255"`
}

// DeleteProfileRequest 删除账号需要再次输入密码
type DeleteProfileRequest struct {
	Password string `json:"password" binding:"required"`
}
