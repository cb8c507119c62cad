package auth

// ProfileData 注册时一并创建的档案信息
type ProfileData struct {
	FirstName *string `json:"first_name" binding:"omitempty,max=255"`
	LastName  *string `json:"last_name" binding:"omitempty,max=255"`
}

// RegisterRequest 注册请求
type RegisterRequest struct {
	Name                 string       `json:"name" binding:"required,max=255"`
	Email                string       `json:"email" binding:"required,email,max=255"`
	Password             string       `json:"password" binding:"required,min=8"`
	PasswordConfirmation string       `json:"password_confirmation" binding:"omitempty,eqfield=Password"`
	Role                 string       `json:"role"`
	StudentData          *ProfileData `json:"student_data"`
	TeacherData          *ProfileData `json:"teacher_data"`
}

// LoginRequest 登录请求
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}
