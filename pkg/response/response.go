package response

type ResponseCode int

// 统一业务代码
const (
	Success ResponseCode = 100
)

// Response 成功响应 {data: ...}
type Response struct {
	Data any `json:"data"`
}

// ErrorBody 错误信息
type ErrorBody struct {
	ErrorCode ResponseCode `json:"errorCode"`
	Message   string       `json:"message"`
}

// ErrorEnvelope 错误响应 {error: {errorCode, message}}
type ErrorEnvelope struct {
	Error ErrorBody `json:"error"`
}

func SuccessResponse(data any) Response {
	return Response{Data: data}
}

func ErrorResponse(code ResponseCode, msg string) ErrorEnvelope {
	return ErrorEnvelope{
		Error: ErrorBody{
			ErrorCode: code,
			Message:   msg,
		},
	}
}
