package service

import (
	"github.com/go-playground/validator/v10"

	"terminal-terrace/academic/internal/dto"
)

// 与 gin 绑定共用 binding 标签，服务被直接调用时规则一致
var validate = func() *validator.Validate {
	v := validator.New()
	v.SetTagName("binding")
	return v
}()

// Validate 按 binding 标签校验请求，失败返回参数错误
func Validate(req any) error {
	if err := validate.Struct(req); err != nil {
		return Invalid(dto.ValidationMessage(err))
	}
	return nil
}
