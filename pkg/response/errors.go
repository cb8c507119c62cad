package response

import "errors"

// 业务错误码
const (
	// 参数解析错误（请求体格式 / 绑定校验）
	ParseError ResponseCode = 1
	// 参数错误
	InvalidParameter ResponseCode = 400
	// 未认证 / 密码错误
	Unauthorized ResponseCode = 401
	// 无权限
	Forbidden ResponseCode = 403
	// 资源不存在
	NotFound ResponseCode = 404
	// 冲突（唯一约束、存在依赖数据）
	Conflict ResponseCode = 409
	// 失败
	Fail ResponseCode = 500
)

type BusinessError struct {
	Code ResponseCode
	Msg  string
	Err  error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

type ErrorOption func(*BusinessError)

func WithErrorCode(code ResponseCode) ErrorOption {
	return func(be *BusinessError) {
		be.Code = code
	}
}

func WithErrorMessage(msg string) ErrorOption {
	return func(be *BusinessError) {
		be.Msg = msg
	}
}

func WithError(err error) ErrorOption {
	return func(be *BusinessError) {
		be.Err = err
	}
}

func NewBusinessError(opts ...ErrorOption) *BusinessError {
	err := &BusinessError{
		Code: Fail,
		Msg:  "business error",
		Err:  nil,
	}
	for _, opt := range opts {
		opt(err)
	}
	return err
}

// As 从错误链中取出 BusinessError，非业务错误统一包装为 Fail
func As(err error) *BusinessError {
	if err == nil {
		return nil
	}
	var be *BusinessError
	if errors.As(err, &be) {
		return be
	}
	return NewBusinessError(
		WithErrorCode(Fail),
		WithErrorMessage("服务器内部错误"),
		WithError(err),
	)
}

// HasCode 判断错误是否为指定错误码的业务错误
func HasCode(err error, code ResponseCode) bool {
	var be *BusinessError
	return errors.As(err, &be) && be.Code == code
}
