package response

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewBusinessError_Defaults(t *testing.T) {
	err := NewBusinessError()
	assert.Equal(t, Fail, err.Code)
	assert.Equal(t, "business error", err.Msg)
	assert.Nil(t, err.Err)
}

func TestBusinessError_Chain(t *testing.T) {
	cause := errors.New("connection reset")
	err := NewBusinessError(
		WithErrorCode(NotFound),
		WithErrorMessage("模块不存在"),
		WithError(cause),
	)

	wrapped := fmt.Errorf("service: %w", err)

	assert.True(t, HasCode(wrapped, NotFound))
	assert.False(t, HasCode(wrapped, Conflict))
	assert.ErrorIs(t, wrapped, cause)
	assert.Equal(t, "模块不存在: connection reset", err.Error())
	assert.Same(t, err, As(wrapped))
}

func TestAs_WrapsPlainErrors(t *testing.T) {
	assert.Nil(t, As(nil))

	be := As(errors.New("boom"))
	assert.Equal(t, Fail, be.Code)
	assert.Equal(t, "服务器内部错误", be.Msg)
}

func TestErrorResponse_Envelope(t *testing.T) {
	body := ErrorResponse(Conflict, "邮箱已被注册")
	assert.Equal(t, Conflict, body.Error.ErrorCode)
	assert.Equal(t, "邮箱已被注册", body.Error.Message)
	assert.Equal(t, map[string]int{"a": 1}, SuccessResponse(map[string]int{"a": 1}).Data)
}
