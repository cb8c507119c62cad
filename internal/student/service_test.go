package student

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"terminal-terrace/academic/internal/model"
	"terminal-terrace/academic/internal/permission"
	"terminal-terrace/academic/internal/query"
	"terminal-terrace/academic/internal/service"
	"terminal-terrace/academic/internal/testutils"
	"terminal-terrace/academic/pkg/response"
)

func principal(u *model.User) permission.Principal {
	return permission.Principal{UserID: u.ID, Role: u.Role}
}

func strPtr(s string) *string { return &s }

func TestGetAllAndGet(t *testing.T) {
	db := testutils.SetupTestDB(t)
	svc := NewStudentService(db, zap.NewNop())
	ctx := context.Background()

	var last *model.Student
	for i := 0; i < 12; i++ {
		last = testutils.CreateTestStudent(db)
	}

	page, err := svc.GetAll(ctx, nil, query.Pagination{})
	require.NoError(t, err)
	assert.Len(t, page.Items, DefaultPerPage)
	assert.Equal(t, int64(12), page.Meta.Total)
	require.NotNil(t, page.Items[0].User)

	page, err = svc.GetAll(ctx, query.Filters{"user_id": last.UserID}, query.Pagination{})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, last.ID, page.Items[0].ID)

	mine, err := svc.Get(ctx, principal(last.User), nil)
	require.NoError(t, err)
	assert.Equal(t, last.ID, mine.ID)
	assert.Equal(t, last.User.Email, mine.User.Email)

	teacher := testutils.CreateTestTeacher(db)
	_, err = svc.Get(ctx, principal(teacher.User), nil)
	assert.True(t, response.HasCode(err, response.NotFound))

	missing := uint(9999)
	_, err = svc.Get(ctx, principal(last.User), &missing)
	assert.True(t, response.HasCode(err, response.NotFound))
}

func TestUpsert_Own(t *testing.T) {
	db := testutils.SetupTestDB(t)
	svc := NewStudentService(db, zap.NewNop())
	ctx := context.Background()

	user := testutils.CreateTestUser(db, testutils.WithName("Marie"), testutils.WithRole(model.RoleGuest))
	p := principal(user)

	created, err := svc.Upsert(ctx, p, UpsertStudentRequest{}, nil)
	require.NoError(t, err)
	assert.Equal(t, "Marie", created.FirstName)
	assert.Equal(t, "", created.LastName)
	require.NotNil(t, created.User)
	// 学生档案不改变角色
	assert.Equal(t, model.RoleGuest, created.User.Role)

	updated, err := svc.Upsert(ctx, p, UpsertStudentRequest{
		LastName:        strPtr("Curie"),
		Email:           strPtr("marie@example.com"),
		CurrentPassword: testutils.TestPassword,
		NewPassword:     "radium-1898",
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "Marie Curie", updated.FullName())
	assert.Equal(t, "marie@example.com", updated.User.Email)

	var stored model.User
	require.NoError(t, db.First(&stored, user.ID).Error)
	assert.True(t, service.CheckPassword(stored.PasswordHash, "radium-1898"))

	other := testutils.CreateTestUser(db)
	_, err = svc.Upsert(ctx, p, UpsertStudentRequest{
		Email:           strPtr(other.Email),
		CurrentPassword: "radium-1898",
		FirstName:       strPtr("Changed"),
	}, nil)
	assert.True(t, response.HasCode(err, response.Conflict))

	reloaded, err := svc.Get(ctx, p, nil)
	require.NoError(t, err)
	assert.Equal(t, "Marie", reloaded.FirstName, "conflict rolls back the profile change")
}

// 修改密码或邮箱必须提供正确的当前密码，失败时账号不变
func TestUpsert_RequiresCurrentPassword(t *testing.T) {
	db := testutils.SetupTestDB(t)
	svc := NewStudentService(db, zap.NewNop())
	ctx := context.Background()

	student := testutils.CreateTestStudent(db)
	p := principal(student.User)

	tests := []struct {
		name string
		req  UpsertStudentRequest
	}{
		{"password without current", UpsertStudentRequest{NewPassword: "hijacked123"}},
		{"password with wrong current", UpsertStudentRequest{NewPassword: "hijacked123", CurrentPassword: "wrong-password"}},
		{"email without current", UpsertStudentRequest{Email: strPtr("stolen@example.com")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Upsert(ctx, p, tt.req, nil)
			assert.True(t, response.HasCode(err, response.Unauthorized), "got %v", err)
		})
	}

	var stored model.User
	require.NoError(t, db.First(&stored, student.UserID).Error)
	assert.Equal(t, student.User.PasswordHash, stored.PasswordHash)
	assert.Equal(t, student.User.Email, stored.Email)

	// 邮箱未变化时不需要当前密码
	_, err := svc.Upsert(ctx, p, UpsertStudentRequest{Email: strPtr(student.User.Email), FirstName: strPtr("Same")}, nil)
	require.NoError(t, err)
}

func TestUpsert_ByID(t *testing.T) {
	db := testutils.SetupTestDB(t)
	svc := NewStudentService(db, zap.NewNop())
	ctx := context.Background()

	student := testutils.CreateTestStudent(db)
	stranger := testutils.CreateTestStudent(db)
	admin := testutils.CreateTestUser(db, testutils.WithRole(model.RoleAdmin))

	_, err := svc.Upsert(ctx, principal(stranger.User), UpsertStudentRequest{FirstName: strPtr("Hacked")}, &student.ID)
	assert.True(t, response.HasCode(err, response.Forbidden))

	missing := uint(9999)
	_, err = svc.Upsert(ctx, principal(admin), UpsertStudentRequest{}, &missing)
	assert.True(t, response.HasCode(err, response.NotFound))

	// 管理员修改他人档案时不会改动任何用户的账号信息
	updated, err := svc.Upsert(ctx, principal(admin), UpsertStudentRequest{
		FirstName: strPtr("Edited"),
		Name:      strPtr("Admin Renamed"),
	}, &student.ID)
	require.NoError(t, err)
	assert.Equal(t, "Edited", updated.FirstName)
	assert.Equal(t, student.User.Name, updated.User.Name)

	var adminRow model.User
	require.NoError(t, db.First(&adminRow, admin.ID).Error)
	assert.Equal(t, admin.Name, adminRow.Name)
}

func TestDelete(t *testing.T) {
	db := testutils.SetupTestDB(t)
	svc := NewStudentService(db, zap.NewNop())
	ctx := context.Background()

	student := testutils.CreateTestStudent(db)
	stranger := testutils.CreateTestStudent(db)

	err := svc.Delete(ctx, principal(stranger.User), student.ID)
	assert.True(t, response.HasCode(err, response.Forbidden))

	require.NoError(t, svc.Delete(ctx, principal(student.User), student.ID))
	err = svc.Delete(ctx, principal(student.User), student.ID)
	assert.True(t, response.HasCode(err, response.NotFound))
}

func TestEvaluations(t *testing.T) {
	db := testutils.SetupTestDB(t)
	svc := NewStudentService(db, zap.NewNop())
	ctx := context.Background()

	teacher := testutils.CreateTestTeacher(db)
	student := testutils.CreateTestStudent(db)
	other := testutils.CreateTestStudent(db)
	module := testutils.CreateTestModule(db)
	unit := testutils.CreateTestUnit(db, module.ID, teacher.ID)
	testutils.CreateTestEvaluation(db, unit, student.ID, 6)
	testutils.CreateTestEvaluation(db, unit, student.ID, 9)
	testutils.CreateTestEvaluation(db, unit, other.ID, 4)

	page, err := svc.Evaluations(ctx, student.ID, query.Pagination{})
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.Equal(t, int64(2), page.Meta.Total)
	for _, e := range page.Items {
		assert.Equal(t, student.ID, e.StudentID)
		assert.NotNil(t, e.Teacher)
		assert.NotNil(t, e.Module)
		assert.NotNil(t, e.Unit)
		assert.Nil(t, e.Student)
	}

	_, err = svc.Evaluations(ctx, 9999, query.Pagination{})
	assert.True(t, response.HasCode(err, response.NotFound))
}
