package dto

import (
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"terminal-terrace/academic/internal/model"
	res "terminal-terrace/academic/pkg/response"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestEvaluationResource(t *testing.T) {
	created := time.Date(2025, 1, 10, 9, 30, 0, 0, time.UTC)
	comments := "good work"
	e := model.Evaluation{
		ID:             4,
		StudentID:      1,
		TeacherID:      2,
		ModuleID:       3,
		UnitID:         5,
		Score:          8.5,
		Comments:       &comments,
		EvaluationDate: datatypes.Date(time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)),
		CreatedAt:      created,
		UpdatedAt:      created,
	}

	raw, err := json.Marshal(NewEvaluationResource(e))
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"id": 4, "student_id": 1, "teacher_id": 2, "module_id": 3, "unit_id": 5,
		"score": 8.5, "comments": "good work", "evaluation_date": "2025-01-10",
		"created_at": "2025-01-10 09:30:00", "updated_at": "2025-01-10 09:30:00"
	}`, string(raw))
}

func TestUserResource_ProfileOnlyWhenRoleMatches(t *testing.T) {
	student := &model.Student{ID: 9, FirstName: "Ana", LastName: "Diaz"}

	u := model.User{ID: 1, Name: "Ana", Email: "ana@example.com", Role: model.RoleStudent, Student: student}
	r := NewUserResource(u)
	require.NotNil(t, r.Student)
	assert.Equal(t, uint(9), r.Student.ID)
	assert.Nil(t, r.Teacher)

	u.Role = model.RoleAdmin
	r = NewUserResource(u)
	assert.Nil(t, r.Student)

	u.Role = model.RoleTeacher
	r = NewUserResource(u)
	assert.Nil(t, r.Student, "teacher role never renders a student profile")
	assert.Nil(t, r.Teacher, "teacher profile not loaded")

	raw, err := json.Marshal(r)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"email_verified_at":null`)
}

func TestModuleUnitResource(t *testing.T) {
	r := NewModuleUnitResource(model.Unit{
		ID:      2,
		Title:   "Sets",
		Teacher: &model.Teacher{ID: 7, FirstName: "Alan", LastName: "Turing"},
	})
	assert.Equal(t, "Alan Turing", r.Teacher.Name)
}

func TestErrorResponse(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	ErrorResponse(c, res.NewBusinessError(
		res.WithErrorCode(res.Conflict),
		res.WithErrorMessage("Email already exists"),
	))
	assert.Equal(t, 200, w.Code)
	assert.JSONEq(t, `{"error":{"errorCode":409,"message":"Email already exists"}}`, w.Body.String())

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	ErrorResponse(c, errors.New("db down"))
	assert.JSONEq(t, `{"error":{"errorCode":500,"message":"服务器内部错误"}}`, w.Body.String())
}

func TestValidationErrorResponse(t *testing.T) {
	type input struct {
		ModuleID uint   `json:"module_id" validate:"required"`
		Email    string `json:"email" validate:"email"`
	}

	err := validator.New().Struct(input{Email: "a@b.c"})
	require.Error(t, err)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	ValidationErrorResponse(c, err)

	var body res.ErrorEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, res.ParseError, body.Error.ErrorCode)
	assert.Contains(t, body.Error.Message, "module_id")
}

func TestToSnakeCase(t *testing.T) {
	cases := map[string]string{
		"ModuleID":        "module_id",
		"EvaluationDate":  "evaluation_date",
		"Score":           "score",
		"CurrentPassword": "current_password",
	}
	for in, want := range cases {
		assert.Equal(t, want, toSnakeCase(in), in)
	}
}
