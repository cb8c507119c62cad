package query

import (
	"encoding/json"
	"fmt"
)

// Meta 分页信息；Simple 模式不统计总数
type Meta struct {
	From        *int
	To          *int
	PerPage     int
	CurrentPage int
	LastPage    int
	Total       int64
	HasMore     bool
	Simple      bool
}

type lengthAwareMeta struct {
	From        *int  `json:"from"`
	To          *int  `json:"to"`
	PerPage     int   `json:"per_page"`
	CurrentPage int   `json:"current_page"`
	LastPage    int   `json:"last_page"`
	Total       int64 `json:"total"`
}

type simpleMeta struct {
	From        *int `json:"from"`
	To          *int `json:"to"`
	PerPage     int  `json:"per_page"`
	CurrentPage int  `json:"current_page"`
	NextPage    *int `json:"next_page"`
	PrevPage    *int `json:"prev_page"`
}

func (m Meta) MarshalJSON() ([]byte, error) {
	if m.Simple {
		out := simpleMeta{
			From:        m.From,
			To:          m.To,
			PerPage:     m.PerPage,
			CurrentPage: m.CurrentPage,
		}
		if m.HasMore {
			next := m.CurrentPage + 1
			out.NextPage = &next
		}
		if m.CurrentPage > 1 {
			prev := m.CurrentPage - 1
			out.PrevPage = &prev
		}
		return json.Marshal(out)
	}
	return json.Marshal(lengthAwareMeta{
		From:        m.From,
		To:          m.To,
		PerPage:     m.PerPage,
		CurrentPage: m.CurrentPage,
		LastPage:    m.LastPage,
		Total:       m.Total,
	})
}

// Page 一页结果
type Page[T any] struct {
	Items []T `json:"data"`
	Meta  Meta `json:"pagination"`
}

// Paginate 执行查询并分页
// LengthAware：先统计总数（受 Limit 约束），再取当前页；Simple：多取一行判断是否还有下一页。
func Paginate[T any](q *Query, p Pagination) (*Page[T], error) {
	p = p.normalized()
	offset := (p.Page - 1) * p.PerPage
	items := make([]T, 0, p.PerPage)

	if p.Simple {
		if err := q.rows.Offset(offset).Limit(p.PerPage + 1).Find(&items).Error; err != nil {
			return nil, fmt.Errorf("分页查询失败: %w", err)
		}
		hasMore := len(items) > p.PerPage
		if hasMore {
			items = items[:p.PerPage]
		}
		return &Page[T]{
			Items: items,
			Meta:  newMeta(p, offset, len(items), 0, hasMore, true),
		}, nil
	}

	var total int64
	if err := q.count.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("统计总数失败: %w", err)
	}
	take := p.PerPage
	if q.limit > 0 {
		if total > int64(q.limit) {
			total = int64(q.limit)
		}
		if remaining := q.limit - offset; remaining < take {
			take = remaining
		}
	}

	if take > 0 && int64(offset) < total {
		if err := q.rows.Offset(offset).Limit(take).Find(&items).Error; err != nil {
			return nil, fmt.Errorf("分页查询失败: %w", err)
		}
	}

	meta := newMeta(p, offset, len(items), total, false, false)
	meta.HasMore = meta.CurrentPage < meta.LastPage
	return &Page[T]{Items: items, Meta: meta}, nil
}

func newMeta(p Pagination, offset, count int, total int64, hasMore, simple bool) Meta {
	meta := Meta{
		PerPage:     p.PerPage,
		CurrentPage: p.Page,
		Total:       total,
		HasMore:     hasMore,
		Simple:      simple,
	}
	if count > 0 {
		from := offset + 1
		to := offset + count
		meta.From = &from
		meta.To = &to
	}
	if !simple {
		last := int((total + int64(p.PerPage) - 1) / int64(p.PerPage))
		if last < 1 {
			last = 1
		}
		meta.LastPage = last
	}
	return meta
}

// MapPage 转换分页中的每一项，分页信息保持不变
func MapPage[T, R any](page *Page[T], fn func(T) R) *Page[R] {
	out := &Page[R]{Items: make([]R, 0, len(page.Items)), Meta: page.Meta}
	for _, item := range page.Items {
		out.Items = append(out.Items, fn(item))
	}
	return out
}
