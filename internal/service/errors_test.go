package service

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"terminal-terrace/academic/internal/query"
	"terminal-terrace/academic/pkg/response"
)

func TestWrap(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	log := zap.New(core)

	assert.NoError(t, Wrap(log, "noop", nil))

	notFound := NotFound("Module not found")
	assert.Same(t, notFound, Wrap(log, "ignored", notFound))

	err := Wrap(log, "查询失败", query.NewValidationError("nope", "unknown column on modules"))
	assert.True(t, response.HasCode(err, response.InvalidParameter))

	err = Wrap(log, "查询失败", errors.New("connection reset"), zap.Uint("id", 3))
	assert.True(t, response.HasCode(err, response.Fail))
	assert.Equal(t, "查询失败", response.As(err).Msg)

	// 只有存储错误会记录日志
	assert.Equal(t, 1, logs.Len())
	assert.Equal(t, uint64(3), logs.All()[0].ContextMap()["id"])
}

func TestConstructors(t *testing.T) {
	assert.True(t, response.HasCode(Invalid("x"), response.InvalidParameter))
	assert.True(t, response.HasCode(Conflict("x"), response.Conflict))
	assert.True(t, response.HasCode(Unauthorized("x"), response.Unauthorized))
}

func TestValidate(t *testing.T) {
	type input struct {
		Name  string `binding:"required,max=5"`
		Email string `binding:"omitempty,email"`
	}

	assert.NoError(t, Validate(input{Name: "abc"}))

	err := Validate(input{Name: "abcdef"})
	assert.True(t, response.HasCode(err, response.InvalidParameter))
	assert.Contains(t, response.As(err).Msg, "name")

	err = Validate(input{Name: "a", Email: "nope"})
	assert.Contains(t, response.As(err).Msg, "email")
}
