package model

import "time"

// Student 学生档案
type Student struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	FirstName string    `gorm:"type:varchar(255);not null;default:''" json:"first_name"`
	LastName  string    `gorm:"type:varchar(255);not null;default:''" json:"last_name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	User        *User        `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Evaluations []Evaluation `gorm:"foreignKey:StudentID;constraint:OnDelete:CASCADE" json:"evaluations,omitempty"`

	EvaluationsCount *int64 `gorm:"->;-:migration" json:"evaluations_count,omitempty"`
}

func (Student) TableName() string {
	return "students"
}

func (s Student) PrimaryKey() uint {
	return s.ID
}

// FullName 姓名
func (s Student) FullName() string {
	return joinName(s.FirstName, s.LastName)
}

// Teacher 教师档案
type Teacher struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	FirstName string    `gorm:"type:varchar(255);not null;default:''" json:"first_name"`
	LastName  string    `gorm:"type:varchar(255);not null;default:''" json:"last_name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	User        *User        `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Units       []Unit       `gorm:"foreignKey:TeacherID;constraint:OnDelete:RESTRICT" json:"units,omitempty"`
	Evaluations []Evaluation `gorm:"foreignKey:TeacherID;constraint:OnDelete:CASCADE" json:"evaluations,omitempty"`

	UnitsCount       *int64 `gorm:"->;-:migration" json:"units_count,omitempty"`
	EvaluationsCount *int64 `gorm:"->;-:migration" json:"evaluations_count,omitempty"`
}

func (Teacher) TableName() string {
	return "teachers"
}

func (t Teacher) PrimaryKey() uint {
	return t.ID
}

// FullName 姓名
func (t Teacher) FullName() string {
	return joinName(t.FirstName, t.LastName)
}

func joinName(first, last string) string {
	switch {
	case last == "":
		return first
	case first == "":
		return last
	default:
		return first + " " + last
	}
}
