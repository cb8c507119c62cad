package query

import (
	"errors"
	"fmt"
)

// DefaultPerPage 未指定每页条数时的默认值
const DefaultPerPage = 15

// Filters 列 -> 值；值为切片时按 IN 匹配，为 nil 时匹配 IS NULL，其余按相等匹配
type Filters map[string]any

// Direction 排序方向
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// Order 排序项
type Order struct {
	Column    string
	Direction Direction
}

// JoinType 连接类型
type JoinType string

const (
	LeftJoin  JoinType = "left"
	RightJoin JoinType = "right"
	InnerJoin JoinType = "inner"
)

// Join 连接条件 {table} ON {first} {operator} {second}
type Join struct {
	Type     JoinType
	Table    string
	First    string
	Operator string
	Second   string
}

// RelationOrder 先连接关联表，再按关联表的列排序
type RelationOrder struct {
	Join   Join
	Orders []Order
}

// Pagination 分页参数
type Pagination struct {
	Page    int
	PerPage int
	// Limit 分页前限制参与分页的总行数，Simple 模式下忽略
	Limit  int
	Simple bool
}

func (p Pagination) normalized() Pagination {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PerPage < 1 {
		p.PerPage = DefaultPerPage
	}
	if p.Limit < 0 {
		p.Limit = 0
	}
	return p
}

// Spec 查询描述
type Spec struct {
	Filters         Filters
	With            []string
	WithCount       []string
	Join            *Join
	Orders          []Order
	OrderByRelation []RelationOrder
	Pagination      Pagination

	// Search 在可搜索列上做不区分大小写的模糊匹配
	Search string
}

// Option 修改查询描述
type Option func(*Spec)

// With 预加载关联，支持 "units.teacher" 形式的嵌套关联
func With(relations ...string) Option {
	return func(s *Spec) {
		s.With = append(s.With, relations...)
	}
}

// WithCount 统计关联数量，结果写入 <relation>_count
func WithCount(relations ...string) Option {
	return func(s *Spec) {
		s.WithCount = append(s.WithCount, relations...)
	}
}

// OrderBy 追加排序
func OrderBy(column string, direction Direction) Option {
	return func(s *Spec) {
		s.Orders = append(s.Orders, Order{Column: column, Direction: direction})
	}
}

// NewSpec 由过滤条件与选项构建查询描述
func NewSpec(filters Filters, opts ...Option) Spec {
	spec := Spec{Filters: filters}
	for _, opt := range opts {
		opt(&spec)
	}
	return spec
}

// ValidationError 查询描述中存在未知的列、关联或非法参数
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("query: %q: %s", e.Field, e.Reason)
}

func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// IsValidationError 判断是否为查询描述校验错误
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
