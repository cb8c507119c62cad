package model

import (
	"time"

	"gorm.io/datatypes"
)

// Module 课程模块
type Module struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(255);not null;uniqueIndex" json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Units       []Unit       `gorm:"foreignKey:ModuleID;constraint:OnDelete:RESTRICT" json:"units,omitempty"`
	Evaluations []Evaluation `gorm:"foreignKey:ModuleID;constraint:OnDelete:CASCADE" json:"evaluations,omitempty"`

	UnitsCount       *int64 `gorm:"->;-:migration" json:"units_count,omitempty"`
	EvaluationsCount *int64 `gorm:"->;-:migration" json:"evaluations_count,omitempty"`
}

func (Module) TableName() string {
	return "modules"
}

func (m Module) PrimaryKey() uint {
	return m.ID
}

// Unit 教学单元，必须指派教师
type Unit struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Title     string    `gorm:"type:varchar(255);not null" json:"title"`
	ModuleID  uint      `gorm:"not null;index" json:"module_id"`
	TeacherID uint      `gorm:"not null;index" json:"teacher_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Module      *Module      `gorm:"foreignKey:ModuleID" json:"module,omitempty"`
	Teacher     *Teacher     `gorm:"foreignKey:TeacherID" json:"teacher,omitempty"`
	Evaluations []Evaluation `gorm:"foreignKey:UnitID;constraint:OnDelete:CASCADE" json:"evaluations,omitempty"`

	EvaluationsCount *int64 `gorm:"->;-:migration" json:"evaluations_count,omitempty"`
}

func (Unit) TableName() string {
	return "units"
}

func (u Unit) PrimaryKey() uint {
	return u.ID
}

// 分数范围
const (
	MinScore = 0.0
	MaxScore = 10.0
)

// Evaluation 教师对学生在某单元的评分
type Evaluation struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	StudentID      uint           `gorm:"not null;index" json:"student_id"`
	TeacherID      uint           `gorm:"not null;index" json:"teacher_id"`
	ModuleID       uint           `gorm:"not null;index" json:"module_id"`
	UnitID         uint           `gorm:"not null;index" json:"unit_id"`
	Score          float64        `gorm:"type:decimal(3,1);not null" json:"score"`
	Comments       *string        `gorm:"type:text" json:"comments"`
	EvaluationDate datatypes.Date `gorm:"not null" json:"evaluation_date"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`

	Student *Student `gorm:"foreignKey:StudentID" json:"student,omitempty"`
	Teacher *Teacher `gorm:"foreignKey:TeacherID" json:"teacher,omitempty"`
	Module  *Module  `gorm:"foreignKey:ModuleID" json:"module,omitempty"`
	Unit    *Unit    `gorm:"foreignKey:UnitID" json:"unit,omitempty"`
}

func (Evaluation) TableName() string {
	return "evaluations"
}

func (e Evaluation) PrimaryKey() uint {
	return e.ID
}
