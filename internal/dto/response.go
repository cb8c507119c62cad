package dto

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	res "terminal-terrace/academic/pkg/response"
)

func SuccessResponse(c *gin.Context, data any) {
	c.JSON(200, res.SuccessResponse(data))
}

// ErrorResponse 业务错误原样返回，其他错误统一为服务器内部错误
func ErrorResponse(c *gin.Context, err error) {
	be := res.As(err)
	c.JSON(200, res.ErrorResponse(be.Code, be.Msg))
}

// ValidationErrorResponse 处理验证错误，返回友好的JSON字段名
func ValidationErrorResponse(c *gin.Context, err error) {
	ErrorResponse(c, res.NewBusinessError(
		res.WithErrorCode(res.ParseError),
		res.WithErrorMessage(ValidationMessage(err)),
	))
}

// ValidationMessage 取第一个校验错误生成提示；非校验错误返回原始错误消息
func ValidationMessage(err error) string {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) || len(validationErrs) == 0 {
		return "参数错误: " + err.Error()
	}
	firstErr := validationErrs[0]

	// 获取字段的JSON标签名
	jsonField := getJSONFieldName(firstErr)

	switch firstErr.Tag() {
	case "required":
		return fmt.Sprintf("字段 '%s' 是必填项", jsonField)
	case "max":
		return fmt.Sprintf("字段 '%s' 不能超过 %s", jsonField, firstErr.Param())
	case "min":
		return fmt.Sprintf("字段 '%s' 不能少于 %s", jsonField, firstErr.Param())
	case "gte", "lte":
		return fmt.Sprintf("字段 '%s' 超出允许范围", jsonField)
	case "email":
		return fmt.Sprintf("字段 '%s' 必须是有效的邮箱地址", jsonField)
	case "eqfield":
		return fmt.Sprintf("字段 '%s' 与 '%s' 不一致", jsonField, toSnakeCase(firstErr.Param()))
	case "oneof":
		return fmt.Sprintf("字段 '%s' 必须是以下值之一: %s", jsonField, firstErr.Param())
	case "datetime":
		return fmt.Sprintf("字段 '%s' 必须符合日期格式 %s", jsonField, firstErr.Param())
	default:
		return fmt.Sprintf("字段 '%s' 验证失败: %s", jsonField, firstErr.Tag())
	}
}

// getJSONFieldName 获取字段的JSON标签名称
func getJSONFieldName(fe validator.FieldError) string {
	field := fe.StructNamespace()
	if strings.Contains(field, ".") {
		parts := strings.Split(field, ".")
		return toSnakeCase(parts[len(parts)-1])
	}
	return toSnakeCase(fe.Field())
}

// toSnakeCase 将PascalCase转换为snake_case，连续大写视为一个词（UserID -> user_id）
func toSnakeCase(s string) string {
	var result strings.Builder
	runes := []rune(s)
	for i, r := range runes {
		upper := r >= 'A' && r <= 'Z'
		if i > 0 && upper {
			prevLower := runes[i-1] >= 'a' && runes[i-1] <= 'z'
			nextLower := i+1 < len(runes) && runes[i+1] >= 'a' && runes[i+1] <= 'z'
			if prevLower || (nextLower && runes[i-1] >= 'A' && runes[i-1] <= 'Z') {
				result.WriteRune('_')
			}
		}
		result.WriteRune(r)
	}
	return strings.ToLower(result.String())
}
