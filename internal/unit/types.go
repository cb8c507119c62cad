package unit

// CreateUnitRequest 创建单元；teacher_id 缺省为调用者本人
type CreateUnitRequest struct {
	Title     string `json:"title" binding:"required,max=255"`
	ModuleID  uint   `json:"module_id" binding:"required"`
	TeacherID *uint  `json:"teacher_id"`
}

// UpdateUnitRequest 教师只能修改标题
type UpdateUnitRequest struct {
	Title *string `json:"title" binding:"omitempty,max=255"`
}

// EvaluationFilters 单元评价列表的可选过滤
type EvaluationFilters struct {
	StudentID *uint
	TeacherID *uint
}

// DefaultPerPage 单元列表默认每页条数
const DefaultPerPage = 10
