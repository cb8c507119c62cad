package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"terminal-terrace/academic/internal/model"
	"terminal-terrace/academic/internal/testutils"
	"terminal-terrace/academic/internal/token"
	"terminal-terrace/academic/pkg/response"
)

func setup(t *testing.T) (*AuthService, *gorm.DB, *token.Issuer) {
	t.Helper()
	db := testutils.SetupTestDB(t)
	issuer := token.NewIssuer("test-secret", time.Hour, token.NewDBStore(db))
	return NewAuthService(db, issuer, zap.NewNop()), db, issuer
}

func strPtr(s string) *string { return &s }

func TestRegister(t *testing.T) {
	svc, db, issuer := setup(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		req   RegisterRequest
		check func(t *testing.T, user *model.User)
	}{
		{
			name: "default role is student with nested data",
			req: RegisterRequest{
				Name: "Ana", Email: "ana@example.com", Password: "secret-pass",
				StudentData: &ProfileData{},
			},
			check: func(t *testing.T, user *model.User) {
				assert.Equal(t, model.RoleStudent, user.Role)
				var student model.Student
				require.NoError(t, db.Where("user_id = ?", user.ID).First(&student).Error)
				assert.Equal(t, "Ana", student.FirstName)
				assert.Equal(t, "", student.LastName)
			},
		},
		{
			name: "student without nested data has no profile",
			req:  RegisterRequest{Name: "Bea", Email: "bea@example.com", Password: "secret-pass", Role: "STUDENT"},
			check: func(t *testing.T, user *model.User) {
				assert.Equal(t, model.RoleStudent, user.Role)
				var count int64
				db.Model(&model.Student{}).Where("user_id = ?", user.ID).Count(&count)
				assert.Zero(t, count)
			},
		},
		{
			name: "teacher data ignored for student role",
			req: RegisterRequest{
				Name: "Cy", Email: "cy@example.com", Password: "secret-pass", Role: "STUDENT",
				TeacherData: &ProfileData{FirstName: strPtr("Cy")},
			},
			check: func(t *testing.T, user *model.User) {
				var count int64
				db.Model(&model.Teacher{}).Where("user_id = ?", user.ID).Count(&count)
				assert.Zero(t, count)
				db.Model(&model.Student{}).Where("user_id = ?", user.ID).Count(&count)
				assert.Zero(t, count)
			},
		},
		{
			name: "teacher with nested data",
			req: RegisterRequest{
				Name: "Alan", Email: "alan@example.com", Password: "secret-pass", Role: "TEACHER",
				TeacherData: &ProfileData{FirstName: strPtr("Alan"), LastName: strPtr("Turing")},
			},
			check: func(t *testing.T, user *model.User) {
				assert.Equal(t, model.RoleTeacher, user.Role)
				var teacher model.Teacher
				require.NoError(t, db.Where("user_id = ?", user.ID).First(&teacher).Error)
				assert.Equal(t, "Alan Turing", teacher.FullName())
			},
		},
		{
			name: "guest has no profile",
			req:  RegisterRequest{Name: "Guest", Email: "guest@example.com", Password: "secret-pass", Role: "GUEST"},
			check: func(t *testing.T, user *model.User) {
				var count int64
				db.Model(&model.Student{}).Where("user_id = ?", user.ID).Count(&count)
				assert.Zero(t, count)
				db.Model(&model.Teacher{}).Where("user_id = ?", user.ID).Count(&count)
				assert.Zero(t, count)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := svc.Register(ctx, tt.req)
			require.NoError(t, err)
			assert.True(t, result.Status)
			assert.True(t, result.NewUser)
			assert.Equal(t, "User Registered Successfully", result.Message)
			require.NotNil(t, result.User)

			claims, err := issuer.Verify(ctx, result.Token)
			require.NoError(t, err)
			assert.Equal(t, result.User.ID, claims.UserID)

			var user model.User
			require.NoError(t, db.First(&user, result.User.ID).Error)
			assert.NotEqual(t, tt.req.Password, user.PasswordHash)
			tt.check(t, &user)
		})
	}
}

func TestRegister_Invalid(t *testing.T) {
	svc, db, _ := setup(t)
	ctx := context.Background()

	cases := map[string]RegisterRequest{
		"missing name":   {Email: "a@example.com", Password: "secret-pass"},
		"bad email":      {Name: "A", Email: "not-an-email", Password: "secret-pass"},
		"short password": {Name: "A", Email: "a@example.com", Password: "short"},
		"unknown role":   {Name: "A", Email: "a@example.com", Password: "secret-pass", Role: "ROOT"},
		"admin role":     {Name: "A", Email: "a@example.com", Password: "secret-pass", Role: "ADMIN"},
		"mismatch":       {Name: "A", Email: "a@example.com", Password: "secret-pass", PasswordConfirmation: "other-pass"},
	}
	for name, req := range cases {
		_, err := svc.Register(ctx, req)
		assert.True(t, response.HasCode(err, response.InvalidParameter), name)
	}

	var count int64
	db.Model(&model.User{}).Count(&count)
	assert.Zero(t, count)
}

// 重复邮箱：第二次注册冲突，且不会留下任何记录
func TestRegister_DuplicateEmail(t *testing.T) {
	svc, db, _ := setup(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterRequest{Name: "First", Email: "dup@example.com", Password: "secret-pass", StudentData: &ProfileData{}})
	require.NoError(t, err)

	_, err = svc.Register(ctx, RegisterRequest{Name: "Second", Email: "dup@example.com", Password: "secret-pass", StudentData: &ProfileData{}})
	assert.True(t, response.HasCode(err, response.Conflict))

	var users, students int64
	db.Model(&model.User{}).Count(&users)
	db.Model(&model.Student{}).Count(&students)
	assert.Equal(t, int64(1), users)
	assert.Equal(t, int64(1), students)
}

func TestLoginLogout(t *testing.T) {
	svc, db, issuer := setup(t)
	ctx := context.Background()
	user := testutils.CreateTestUser(db)

	_, err := svc.Login(ctx, LoginRequest{Email: "nobody@example.com", Password: testutils.TestPassword})
	assert.True(t, response.HasCode(err, response.NotFound))

	_, err = svc.Login(ctx, LoginRequest{Email: user.Email, Password: "wrong-password"})
	assert.True(t, response.HasCode(err, response.Unauthorized))

	first, err := svc.Login(ctx, LoginRequest{Email: user.Email, Password: testutils.TestPassword})
	require.NoError(t, err)
	assert.Equal(t, "User Logged In Successfully", first.Message)
	assert.Nil(t, first.User)

	second, err := svc.Login(ctx, LoginRequest{Email: user.Email, Password: testutils.TestPassword})
	require.NoError(t, err)
	assert.NotEqual(t, first.Token, second.Token)

	claims, err := issuer.Verify(ctx, first.Token)
	require.NoError(t, err)
	require.NoError(t, svc.Logout(ctx, claims.ID))

	_, err = issuer.Verify(ctx, first.Token)
	assert.ErrorIs(t, err, token.ErrRevoked)

	// 其他令牌不受影响
	_, err = issuer.Verify(ctx, second.Token)
	assert.NoError(t, err)

	assert.True(t, response.HasCode(svc.Logout(ctx, ""), response.Unauthorized))
}
