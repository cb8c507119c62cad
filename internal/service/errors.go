// Package service 领域服务共用的错误构造
package service

import (
	"errors"

	"go.uber.org/zap"

	"terminal-terrace/academic/internal/query"
	"terminal-terrace/academic/pkg/response"
)

func NotFound(msg string) error {
	return response.NewBusinessError(
		response.WithErrorCode(response.NotFound),
		response.WithErrorMessage(msg),
	)
}

func Invalid(msg string) error {
	return response.NewBusinessError(
		response.WithErrorCode(response.InvalidParameter),
		response.WithErrorMessage(msg),
	)
}

func Conflict(msg string) error {
	return response.NewBusinessError(
		response.WithErrorCode(response.Conflict),
		response.WithErrorMessage(msg),
	)
}

func Unauthorized(msg string) error {
	return response.NewBusinessError(
		response.WithErrorCode(response.Unauthorized),
		response.WithErrorMessage(msg),
	)
}

// Wrap 业务错误原样返回，查询校验错误转为参数错误，其余记录日志后返回通用失败
func Wrap(log *zap.Logger, msg string, err error, fields ...zap.Field) error {
	if err == nil {
		return nil
	}

	var be *response.BusinessError
	if errors.As(err, &be) {
		return be
	}

	var ve *query.ValidationError
	if errors.As(err, &ve) {
		return response.NewBusinessError(
			response.WithErrorCode(response.InvalidParameter),
			response.WithErrorMessage(ve.Error()),
			response.WithError(err),
		)
	}

	log.Error(msg, append(fields, zap.Error(err))...)
	return response.NewBusinessError(
		response.WithErrorCode(response.Fail),
		response.WithErrorMessage(msg),
		response.WithError(err),
	)
}
