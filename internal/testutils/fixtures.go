package testutils

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"terminal-terrace/academic/internal/model"
)

// TestPassword is the plain-text password of every fixture user
const TestPassword = "password123"

var testPasswordHash = func() string {
	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}
	return string(hash)
}()

// CreateTestUser creates a test user with unique name/email
func CreateTestUser(db *gorm.DB, opts ...UserOption) *model.User {
	uniqueID := uuid.New().String()

	testUser := &model.User{
		Name:         fmt.Sprintf("test_user_%s", uniqueID[:8]),
		Email:        fmt.Sprintf("test_%s@example.com", uniqueID),
		PasswordHash: testPasswordHash,
		Role:         model.RoleStudent,
	}

	for _, opt := range opts {
		opt(testUser)
	}

	if err := db.Omit("Student", "Teacher").Create(testUser).Error; err != nil {
		panic(fmt.Sprintf("Failed to create test user: %v", err))
	}

	return testUser
}

// UserOption configures test user
type UserOption func(*model.User)

// WithName sets the name
func WithName(name string) UserOption {
	return func(u *model.User) {
		u.Name = name
	}
}

// WithEmail sets the email
func WithEmail(email string) UserOption {
	return func(u *model.User) {
		u.Email = email
	}
}

// WithRole sets the role
func WithRole(role model.Role) UserOption {
	return func(u *model.User) {
		u.Role = role
	}
}

// CreateTestStudent creates a student user together with its profile
func CreateTestStudent(db *gorm.DB, opts ...UserOption) *model.Student {
	u := CreateTestUser(db, append([]UserOption{WithRole(model.RoleStudent)}, opts...)...)

	student := &model.Student{UserID: u.ID, FirstName: u.Name, LastName: "Student"}
	if err := db.Omit("User").Create(student).Error; err != nil {
		panic(fmt.Sprintf("Failed to create test student: %v", err))
	}
	student.User = u

	return student
}

// CreateTestTeacher creates a teacher user together with its profile
func CreateTestTeacher(db *gorm.DB, opts ...UserOption) *model.Teacher {
	u := CreateTestUser(db, append([]UserOption{WithRole(model.RoleTeacher)}, opts...)...)

	teacher := &model.Teacher{UserID: u.ID, FirstName: u.Name, LastName: "Teacher"}
	if err := db.Omit("User").Create(teacher).Error; err != nil {
		panic(fmt.Sprintf("Failed to create test teacher: %v", err))
	}
	teacher.User = u

	return teacher
}

// CreateTestModule creates a test module
func CreateTestModule(db *gorm.DB) *model.Module {
	testModule := &model.Module{Name: fmt.Sprintf("test_module_%s", uuid.New().String())}

	if err := db.Create(testModule).Error; err != nil {
		panic(fmt.Sprintf("Failed to create test module: %v", err))
	}

	return testModule
}

// CreateTestUnit creates a unit of moduleID taught by teacherID
func CreateTestUnit(db *gorm.DB, moduleID, teacherID uint) *model.Unit {
	testUnit := &model.Unit{
		Title:     fmt.Sprintf("Test Unit %s", uuid.New().String()[:8]),
		ModuleID:  moduleID,
		TeacherID: teacherID,
	}

	if err := db.Omit("Module", "Teacher").Create(testUnit).Error; err != nil {
		panic(fmt.Sprintf("Failed to create test unit: %v", err))
	}

	return testUnit
}

// CreateTestEvaluation creates an evaluation of the unit for the student
func CreateTestEvaluation(db *gorm.DB, unit *model.Unit, studentID uint, score float64) *model.Evaluation {
	testEvaluation := &model.Evaluation{
		StudentID:      studentID,
		TeacherID:      unit.TeacherID,
		ModuleID:       unit.ModuleID,
		UnitID:         unit.ID,
		Score:          score,
		EvaluationDate: datatypes.Date(time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)),
	}

	if err := db.Omit("Student", "Teacher", "Module", "Unit").Create(testEvaluation).Error; err != nil {
		panic(fmt.Sprintf("Failed to create test evaluation: %v", err))
	}

	return testEvaluation
}
