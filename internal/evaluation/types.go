package evaluation

// DateLayout 评价日期格式
const DateLayout = "2006-01-02"

// UpsertEvaluationRequest 创建时 teacher_id 以外的字段必填，更新时缺省沿用原值
type UpsertEvaluationRequest struct {
	StudentID      *uint    `json:"student_id"`
	TeacherID      *uint    `json:"teacher_id"`
	ModuleID       *uint    `json:"module_id"`
	UnitID         *uint    `json:"unit_id"`
	Score          *float64 `json:"score" binding:"omitempty,gte=0,lte=10"`
	Comments       *string  `json:"comments" binding:"omitempty,max=1000"`
	EvaluationDate *string  `json:"evaluation_date" binding:"omitempty,datetime=2006-01-02"`
}

// DefaultPerPage 评价列表默认每页条数
const DefaultPerPage = 10
