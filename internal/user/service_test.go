package user

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"terminal-terrace/academic/internal/model"
	"terminal-terrace/academic/internal/permission"
	"terminal-terrace/academic/internal/query"
	"terminal-terrace/academic/internal/testutils"
	"terminal-terrace/academic/internal/token"
	"terminal-terrace/academic/pkg/response"
)

func setup(t *testing.T) (*UserService, *gorm.DB, *token.Issuer) {
	t.Helper()
	db := testutils.SetupTestDB(t)
	issuer := token.NewIssuer("test-secret", time.Hour, token.NewDBStore(db))
	return NewUserService(db, issuer, zap.NewNop()), db, issuer
}

func principal(u *model.User) permission.Principal {
	return permission.Principal{UserID: u.ID, Role: u.Role}
}

func strPtr(s string) *string { return &s }

func TestList(t *testing.T) {
	svc, db, _ := setup(t)
	ctx := context.Background()
	admin := testutils.CreateTestUser(db, testutils.WithRole(model.RoleAdmin))
	testutils.CreateTestUser(db, testutils.WithName("Grace Hopper"))
	last := testutils.CreateTestStudent(db)

	page, err := svc.List(ctx, principal(admin), nil, "", query.Pagination{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.Meta.Total)
	assert.Equal(t, DefaultPerPage, page.Meta.PerPage)
	require.Len(t, page.Items, 3)
	assert.Equal(t, last.UserID, page.Items[0].ID, "latest first")
	assert.NotNil(t, page.Items[0].Student)

	page, err = svc.List(ctx, principal(admin), nil, "hopper", query.Pagination{})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Grace Hopper", page.Items[0].Name)

	page, err = svc.List(ctx, principal(admin), query.Filters{"role": model.RoleAdmin}, "", query.Pagination{})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, admin.ID, page.Items[0].ID)

	_, err = svc.List(ctx, principal(last.User), nil, "", query.Pagination{})
	assert.True(t, response.HasCode(err, response.Forbidden))
}

func TestUpdate(t *testing.T) {
	svc, db, _ := setup(t)
	ctx := context.Background()
	admin := testutils.CreateTestUser(db, testutils.WithRole(model.RoleAdmin))
	target := testutils.CreateTestUser(db)
	other := testutils.CreateTestUser(db)

	updated, err := svc.Update(ctx, principal(admin), target.ID, UpdateUserRequest{
		Name: strPtr("Promoted"),
		Role: strPtr(string(model.RoleTeacher)),
	})
	require.NoError(t, err)
	assert.Equal(t, "Promoted", updated.Name)
	assert.Equal(t, model.RoleTeacher, updated.Role)

	tests := []struct {
		name string
		p    permission.Principal
		id   uint
		req  UpdateUserRequest
		code response.ResponseCode
	}{
		{"not admin", principal(other), target.ID, UpdateUserRequest{Name: strPtr("x")}, response.Forbidden},
		{"missing user", principal(admin), 9999, UpdateUserRequest{Name: strPtr("x")}, response.NotFound},
		{"email taken", principal(admin), target.ID, UpdateUserRequest{Email: strPtr(other.Email)}, response.Conflict},
		{"invalid role", principal(admin), target.ID, UpdateUserRequest{Role: strPtr("ROOT")}, response.InvalidParameter},
		{"invalid email", principal(admin), target.ID, UpdateUserRequest{Email: strPtr("not-an-email")}, response.InvalidParameter},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Update(ctx, tt.p, tt.id, tt.req)
			assert.True(t, response.HasCode(err, tt.code), "got %v", err)
		})
	}

	var stored model.User
	require.NoError(t, db.First(&stored, target.ID).Error)
	assert.Equal(t, target.Email, stored.Email)
	assert.Equal(t, model.RoleTeacher, stored.Role)
}

func TestDelete(t *testing.T) {
	svc, db, issuer := setup(t)
	ctx := context.Background()
	admin := testutils.CreateTestUser(db, testutils.WithRole(model.RoleAdmin))
	teacher := testutils.CreateTestTeacher(db)

	signed, err := issuer.Issue(ctx, teacher.User)
	require.NoError(t, err)

	err = svc.Delete(ctx, principal(admin), admin.ID)
	assert.True(t, response.HasCode(err, response.Forbidden))

	err = svc.Delete(ctx, principal(teacher.User), admin.ID)
	assert.True(t, response.HasCode(err, response.Forbidden))

	require.NoError(t, svc.Delete(ctx, principal(admin), teacher.UserID))

	var users, teachers int64
	db.Model(&model.User{}).Count(&users)
	db.Model(&model.Teacher{}).Count(&teachers)
	assert.Equal(t, int64(1), users)
	assert.Zero(t, teachers)

	_, err = issuer.Verify(ctx, signed)
	assert.ErrorIs(t, err, token.ErrRevoked)

	err = svc.Delete(ctx, principal(admin), teacher.UserID)
	assert.True(t, response.HasCode(err, response.NotFound))
}

func TestDelete_TeacherWithUnits(t *testing.T) {
	svc, db, _ := setup(t)
	ctx := context.Background()
	admin := testutils.CreateTestUser(db, testutils.WithRole(model.RoleAdmin))
	teacher := testutils.CreateTestTeacher(db)
	m := testutils.CreateTestModule(db)
	testutils.CreateTestUnit(db, m.ID, teacher.ID)

	err := svc.Delete(ctx, principal(admin), teacher.UserID)
	assert.True(t, response.HasCode(err, response.Conflict), "got %v", err)

	var teachers int64
	db.Model(&model.Teacher{}).Count(&teachers)
	assert.Equal(t, int64(1), teachers)
}
