package dto

import (
	"time"

	"terminal-terrace/academic/internal/model"
	"terminal-terrace/academic/internal/query"
)

const (
	DateTimeLayout = "2006-01-02 15:04:05"
	DateLayout     = "2006-01-02"
)

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateTimeLayout)
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := formatTime(*t)
	return &s
}

// EvaluationResource 评价
type EvaluationResource struct {
	ID             uint    `json:"id"`
	StudentID      uint    `json:"student_id"`
	TeacherID      uint    `json:"teacher_id"`
	ModuleID       uint    `json:"module_id"`
	UnitID         uint    `json:"unit_id"`
	Score          float64 `json:"score"`
	Comments       *string `json:"comments"`
	EvaluationDate string  `json:"evaluation_date"`
	CreatedAt      string  `json:"created_at"`
	UpdatedAt      string  `json:"updated_at"`

	Student *StudentResource `json:"student,omitempty"`
	Teacher *TeacherResource `json:"teacher,omitempty"`
	Module  *ModuleResource  `json:"module,omitempty"`
	Unit    *UnitResource    `json:"unit,omitempty"`
}

func NewEvaluationResource(e model.Evaluation) EvaluationResource {
	r := EvaluationResource{
		ID:             e.ID,
		StudentID:      e.StudentID,
		TeacherID:      e.TeacherID,
		ModuleID:       e.ModuleID,
		UnitID:         e.UnitID,
		Score:          e.Score,
		Comments:       e.Comments,
		EvaluationDate: time.Time(e.EvaluationDate).Format(DateLayout),
		CreatedAt:      formatTime(e.CreatedAt),
		UpdatedAt:      formatTime(e.UpdatedAt),
	}
	if e.Student != nil {
		s := NewStudentResource(*e.Student)
		r.Student = &s
	}
	if e.Teacher != nil {
		t := NewTeacherResource(*e.Teacher)
		r.Teacher = &t
	}
	if e.Module != nil {
		m := NewModuleResource(*e.Module)
		r.Module = &m
	}
	if e.Unit != nil {
		u := NewUnitResource(*e.Unit)
		r.Unit = &u
	}
	return r
}

// ModuleResource 模块
type ModuleResource struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`

	Units []UnitResource `json:"units,omitempty"`
}

func NewModuleResource(m model.Module) ModuleResource {
	r := ModuleResource{
		ID:        m.ID,
		Name:      m.Name,
		CreatedAt: formatTime(m.CreatedAt),
		UpdatedAt: formatTime(m.UpdatedAt),
	}
	if m.Units != nil {
		r.Units = mapSlice(m.Units, NewUnitResource)
	}
	return r
}

// UnitResource 单元
type UnitResource struct {
	ID        uint   `json:"id"`
	Title     string `json:"title"`
	ModuleID  uint   `json:"module_id"`
	TeacherID uint   `json:"teacher_id"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`

	Module  *ModuleResource  `json:"module,omitempty"`
	Teacher *TeacherResource `json:"teacher,omitempty"`
}

func NewUnitResource(u model.Unit) UnitResource {
	r := UnitResource{
		ID:        u.ID,
		Title:     u.Title,
		ModuleID:  u.ModuleID,
		TeacherID: u.TeacherID,
		CreatedAt: formatTime(u.CreatedAt),
		UpdatedAt: formatTime(u.UpdatedAt),
	}
	if u.Module != nil {
		m := NewModuleResource(*u.Module)
		r.Module = &m
	}
	if u.Teacher != nil {
		t := NewTeacherResource(*u.Teacher)
		r.Teacher = &t
	}
	return r
}

// ModuleUnitResource 模块下的单元列表项
type ModuleUnitResource struct {
	ID      uint            `json:"id"`
	Title   string          `json:"title"`
	Teacher *TeacherSummary `json:"teacher"`
}

// TeacherSummary 教师简要信息
type TeacherSummary struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

func NewModuleUnitResource(u model.Unit) ModuleUnitResource {
	r := ModuleUnitResource{ID: u.ID, Title: u.Title}
	if u.Teacher != nil {
		r.Teacher = &TeacherSummary{ID: u.Teacher.ID, Name: u.Teacher.FullName()}
	}
	return r
}

// StudentResource 学生档案
type StudentResource struct {
	ID        uint   `json:"id"`
	UserID    uint   `json:"user_id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`

	User *UserResource `json:"user,omitempty"`
}

func NewStudentResource(s model.Student) StudentResource {
	r := StudentResource{
		ID:        s.ID,
		UserID:    s.UserID,
		FirstName: s.FirstName,
		LastName:  s.LastName,
		CreatedAt: formatTime(s.CreatedAt),
		UpdatedAt: formatTime(s.UpdatedAt),
	}
	if s.User != nil {
		u := NewUserResource(*s.User)
		r.User = &u
	}
	return r
}

// TeacherResource 教师档案
type TeacherResource struct {
	ID        uint   `json:"id"`
	UserID    uint   `json:"user_id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`

	User *UserResource `json:"user,omitempty"`
}

func NewTeacherResource(t model.Teacher) TeacherResource {
	r := TeacherResource{
		ID:        t.ID,
		UserID:    t.UserID,
		FirstName: t.FirstName,
		LastName:  t.LastName,
		CreatedAt: formatTime(t.CreatedAt),
		UpdatedAt: formatTime(t.UpdatedAt),
	}
	if t.User != nil {
		u := NewUserResource(*t.User)
		r.User = &u
	}
	return r
}

// ProfileResource 用户资源中内嵌的档案
type ProfileResource struct {
	ID        uint   `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`

	Units       []UnitResource       `json:"units,omitempty"`
	Evaluations []EvaluationResource `json:"evaluations,omitempty"`
}

// UserResource 用户
type UserResource struct {
	ID              uint    `json:"id"`
	Name            string  `json:"name"`
	Email           string  `json:"email"`
	Role            string  `json:"role"`
	EmailVerifiedAt *string `json:"email_verified_at"`
	CreatedAt       string  `json:"created_at"`
	UpdatedAt       string  `json:"updated_at"`

	Student *ProfileResource `json:"student,omitempty"`
	Teacher *ProfileResource `json:"teacher,omitempty"`
}

// NewUserResource 学生/教师档案只在角色匹配且已加载时输出
func NewUserResource(u model.User) UserResource {
	r := UserResource{
		ID:              u.ID,
		Name:            u.Name,
		Email:           u.Email,
		Role:            u.Role.String(),
		EmailVerifiedAt: formatTimePtr(u.EmailVerifiedAt),
		CreatedAt:       formatTime(u.CreatedAt),
		UpdatedAt:       formatTime(u.UpdatedAt),
	}

	kind, err := u.Role.Profile()
	if err != nil {
		return r
	}
	switch kind {
	case model.ProfileStudent:
		if u.Student != nil {
			r.Student = &ProfileResource{
				ID:          u.Student.ID,
				FirstName:   u.Student.FirstName,
				LastName:    u.Student.LastName,
				Evaluations: mapSlice(u.Student.Evaluations, NewEvaluationResource),
			}
		}
	case model.ProfileTeacher:
		if u.Teacher != nil {
			r.Teacher = &ProfileResource{
				ID:          u.Teacher.ID,
				FirstName:   u.Teacher.FirstName,
				LastName:    u.Teacher.LastName,
				Units:       mapSlice(u.Teacher.Units, NewUnitResource),
				Evaluations: mapSlice(u.Teacher.Evaluations, NewEvaluationResource),
			}
		}
	case model.ProfileNone:
	}
	return r
}

// AuthResult 注册/登录结果
type AuthResult struct {
	Status  bool          `json:"status"`
	Message string        `json:"message"`
	Token   string        `json:"token,omitempty"`
	NewUser bool          `json:"new_user,omitempty"`
	User    *UserResource `json:"user,omitempty"`
}

// PageOf 转换分页中的实体为资源
func PageOf[T, R any](page *query.Page[T], fn func(T) R) *query.Page[R] {
	return query.MapPage(page, fn)
}

func mapSlice[T, R any](items []T, fn func(T) R) []R {
	if items == nil {
		return nil
	}
	out := make([]R, 0, len(items))
	for _, item := range items {
		out = append(out, fn(item))
	}
	return out
}
