package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"terminal-terrace/academic/internal/model"
	"terminal-terrace/academic/internal/testutils"
	"terminal-terrace/academic/internal/token"
)

func newRouter(t *testing.T) (*gin.Engine, *token.Issuer) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	issuer := token.NewIssuer("secret", time.Hour, token.NewDBStore(testutils.SetupTestDB(t)))
	r := gin.New()
	r.GET("/me", JWTAuth(issuer), func(c *gin.Context) {
		p := Principal(c)
		c.JSON(200, gin.H{"user_id": p.UserID, "role": p.Role, "token_id": TokenID(c)})
	})
	return r, issuer
}

func get(r http.Handler, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestJWTAuth(t *testing.T) {
	r, issuer := newRouter(t)
	ctx := context.Background()

	signed, err := issuer.Issue(ctx, &model.User{ID: 5, Email: "t@example.com", Role: model.RoleTeacher})
	require.NoError(t, err)

	w := get(r, "Bearer "+signed)
	assert.Contains(t, w.Body.String(), `"user_id":5`)
	assert.Contains(t, w.Body.String(), `"role":"TEACHER"`)

	claims, err := issuer.Verify(ctx, signed)
	require.NoError(t, err)
	require.NoError(t, issuer.Revoke(ctx, claims.ID))

	w = get(r, "Bearer "+signed)
	assert.JSONEq(t, `{"error":{"errorCode":401,"message":"认证令牌已失效"}}`, w.Body.String())
}

func TestJWTAuth_Rejects(t *testing.T) {
	r, _ := newRouter(t)

	for header, msg := range map[string]string{
		"":               "未提供认证令牌",
		"Basic abc":      "无效的认证令牌",
		"Bearer garbage": "无效的认证令牌",
	} {
		w := get(r, header)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), msg, header)
		assert.Contains(t, w.Body.String(), `"errorCode":401`, header)
	}
}

func TestRequestLoggerAndRecovery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, logs := observer.New(zap.InfoLevel)
	log := zap.New(core)

	r := gin.New()
	r.Use(RequestLogger(log), Recovery(log))
	r.GET("/ok", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	r.GET("/boom", func(c *gin.Context) { panic("boom") })

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ok", nil))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Contains(t, w.Body.String(), `"errorCode":500`)
	assert.Equal(t, 1, logs.FilterMessage("panic recovered").Len())
	assert.Equal(t, 2, logs.FilterMessage("request").Len())
}
