package dto

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"terminal-terrace/academic/internal/query"
	res "terminal-terrace/academic/pkg/response"
)

// ParseID 解析路径参数中的主键，失败时直接写出错误响应
func ParseID(c *gin.Context, name, msg string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		ErrorResponse(c, res.NewBusinessError(
			res.WithErrorCode(res.ParseError),
			res.WithErrorMessage(msg),
		))
		return 0, false
	}
	return uint(id), true
}

// PageQuery 列表接口的分页参数
type PageQuery struct {
	Page    int  `form:"page" binding:"omitempty,min=1"`
	PerPage int  `form:"per_page" binding:"omitempty,min=1,max=100"`
	Simple  bool `form:"simple"`
}

// Pagination 未指定每页条数时使用 perPage
func (p PageQuery) Pagination(perPage int) query.Pagination {
	if p.PerPage > 0 {
		perPage = p.PerPage
	}
	return query.Pagination{Page: p.Page, PerPage: perPage, Simple: p.Simple}
}

// BindPage 绑定分页参数，失败时直接写出错误响应
func BindPage(c *gin.Context) (PageQuery, bool) {
	var p PageQuery
	if err := c.ShouldBindQuery(&p); err != nil {
		ValidationErrorResponse(c, err)
		return p, false
	}
	return p, true
}

// QueryUint 可选的数字查询参数，非法值视为未提供
func QueryUint(c *gin.Context, key string) (uint, bool) {
	raw := c.Query(key)
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || v == 0 {
		return 0, false
	}
	return uint(v), true
}
