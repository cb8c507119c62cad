// Package repository 实体仓库
// 每个实体一个 Repository[T]，由实体描述参数化，读写都经过 query 包的校验与组装。
// 仓库不做权限与引用完整性检查，只保证数据形状正确。
package repository

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"terminal-terrace/academic/internal/model"
	"terminal-terrace/academic/internal/query"
)

// Attributes 列名 -> 值
type Attributes map[string]any

// Repository 通用仓库
type Repository[T any] struct {
	db   *gorm.DB
	desc *query.Descriptor
}

func newRepository[T any](db *gorm.DB, desc *query.Descriptor) *Repository[T] {
	return &Repository[T]{db: db, desc: desc}
}

// WithTx 返回绑定到事务的同类仓库
func (r *Repository[T]) WithTx(tx *gorm.DB) *Repository[T] {
	return &Repository[T]{db: tx, desc: r.desc}
}

// Descriptor 实体描述
func (r *Repository[T]) Descriptor() *query.Descriptor {
	return r.desc
}

// session 每次返回独立的会话，互不共享 Statement
func (r *Repository[T]) session(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(new(T)).Session(&gorm.Session{})
}

func (r *Repository[T]) compose(ctx context.Context, spec query.Spec) (*query.Query, error) {
	return query.Compose(r.session(ctx), r.session(ctx), r.desc, spec)
}

// Save 创建或更新
// target 为 nil 时按 input 创建；否则 target 为主键或实体，先重新加载再合并 input 后保存。
// target 无法解析为本仓库的记录时返回 nil, nil。
func (r *Repository[T]) Save(ctx context.Context, input Attributes, target any) (*T, error) {
	if target == nil {
		entity := new(T)
		if err := r.assign(ctx, entity, input); err != nil {
			return nil, err
		}
		if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(entity).Error; err != nil {
			return nil, err
		}
		return entity, nil
	}

	id, ok := r.keyOf(target)
	if !ok {
		return nil, nil
	}
	entity, err := r.find(ctx, id)
	if err != nil || entity == nil {
		return nil, err
	}
	if err := r.assign(ctx, entity, input); err != nil {
		return nil, err
	}
	if len(input) == 0 {
		return entity, nil
	}
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Save(entity).Error; err != nil {
		return nil, err
	}
	return entity, nil
}

// Update 批量更新匹配过滤条件的记录，返回影响行数
func (r *Repository[T]) Update(ctx context.Context, filters query.Filters, values Attributes) (int64, error) {
	if len(filters) == 0 {
		return 0, query.NewValidationError("filters", "update requires at least one filter")
	}
	if err := r.checkFillable(values); err != nil {
		return 0, err
	}
	db, err := query.ApplyFilters(r.session(ctx), r.desc, filters)
	if err != nil {
		return 0, err
	}
	result := db.Updates(map[string]any(values))
	return result.RowsAffected, result.Error
}

// Insert 批量插入，不触发钩子，自动补全时间戳
func (r *Repository[T]) Insert(ctx context.Context, rows []Attributes) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	values, err := r.bulkValues(rows)
	if err != nil {
		return 0, err
	}
	result := r.table(ctx).Create(values)
	return result.RowsAffected, result.Error
}

// Upsert 批量插入或按唯一列更新
func (r *Repository[T]) Upsert(ctx context.Context, rows []Attributes, uniqueBy []string, update []string) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	if len(uniqueBy) == 0 {
		return 0, query.NewValidationError("uniqueBy", "upsert requires unique columns")
	}
	conflict := make([]clause.Column, 0, len(uniqueBy))
	for _, col := range uniqueBy {
		if !r.desc.HasColumn(col) {
			return 0, query.NewValidationError(col, "unknown column on "+r.desc.Table)
		}
		conflict = append(conflict, clause.Column{Name: col})
	}
	assign := make([]string, 0, len(update)+1)
	for _, col := range update {
		if !r.desc.IsFillable(col) {
			return 0, query.NewValidationError(col, "column is not fillable")
		}
		assign = append(assign, col)
	}
	if r.desc.HasColumn("updated_at") {
		assign = append(assign, "updated_at")
	}

	values, err := r.bulkValues(rows)
	if err != nil {
		return 0, err
	}
	result := r.table(ctx).Clauses(clause.OnConflict{
		Columns:   conflict,
		DoUpdates: clause.AssignmentColumns(assign),
	}).Create(values)
	return result.RowsAffected, result.Error
}

// GetAll 按过滤条件取全部记录
func (r *Repository[T]) GetAll(ctx context.Context, filters query.Filters, with ...string) ([]T, error) {
	return r.all(ctx, query.Spec{Filters: filters, With: with})
}

// GetAllFiltered 同 GetAll，额外支持 search 关键字做模糊匹配
func (r *Repository[T]) GetAllFiltered(ctx context.Context, filters query.Filters, with ...string) ([]T, error) {
	spec := scoped(filters)
	spec.With = with
	return r.all(ctx, spec)
}

func (r *Repository[T]) all(ctx context.Context, spec query.Spec) ([]T, error) {
	q, err := r.compose(ctx, spec)
	if err != nil {
		return nil, err
	}
	items := make([]T, 0)
	if err := q.DB().Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// List 组装并分页
func (r *Repository[T]) List(ctx context.Context, spec query.Spec) (*query.Page[T], error) {
	q, err := r.compose(ctx, spec)
	if err != nil {
		return nil, err
	}
	return query.Paginate[T](q, spec.Pagination)
}

// Builder 只组装不执行，调用方可继续追加条件后再分页
func (r *Repository[T]) Builder(ctx context.Context, spec query.Spec) (*query.Query, error) {
	return r.compose(ctx, spec)
}

// GetCount 统计匹配记录数
func (r *Repository[T]) GetCount(ctx context.Context, filters query.Filters) (int64, error) {
	db, err := query.ApplyFilters(r.session(ctx), r.desc, filters)
	if err != nil {
		return 0, err
	}
	var count int64
	if err := db.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// GetOne 返回第一条匹配记录，不存在时返回 nil, nil
func (r *Repository[T]) GetOne(ctx context.Context, filters query.Filters, opts ...query.Option) (*T, error) {
	return r.first(ctx, query.NewSpec(filters, opts...))
}

// GetOneFiltered 同 GetOne，额外支持 search
func (r *Repository[T]) GetOneFiltered(ctx context.Context, filters query.Filters, opts ...query.Option) (*T, error) {
	spec := scoped(filters)
	for _, opt := range opts {
		opt(&spec)
	}
	return r.first(ctx, spec)
}

// GetLast 最近创建的匹配记录（按 id 倒序）
func (r *Repository[T]) GetLast(ctx context.Context, filters query.Filters, with ...string) (*T, error) {
	return r.first(ctx, query.NewSpec(filters, query.With(with...), query.OrderBy("id", query.Desc)))
}

func (r *Repository[T]) first(ctx context.Context, spec query.Spec) (*T, error) {
	q, err := r.compose(ctx, spec)
	if err != nil {
		return nil, err
	}
	items := make([]T, 0, 1)
	if err := q.DB().Limit(1).Find(&items).Error; err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, nil
	}
	return &items[0], nil
}

// Delete 按实体或主键删除，返回影响行数
func (r *Repository[T]) Delete(ctx context.Context, target any) (int64, error) {
	id, ok := r.keyOf(target)
	if !ok {
		return 0, nil
	}
	result := r.db.WithContext(ctx).Delete(new(T), id)
	return result.RowsAffected, result.Error
}

// DeleteWhere 删除匹配过滤条件的记录
func (r *Repository[T]) DeleteWhere(ctx context.Context, filters query.Filters) (int64, error) {
	if len(filters) == 0 {
		return 0, query.NewValidationError("filters", "delete requires at least one filter")
	}
	db, err := query.ApplyFilters(r.session(ctx), r.desc, filters)
	if err != nil {
		return 0, err
	}
	result := db.Delete(new(T))
	return result.RowsAffected, result.Error
}

func (r *Repository[T]) find(ctx context.Context, id uint) (*T, error) {
	entity := new(T)
	err := r.db.WithContext(ctx).First(entity, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return entity, nil
}

// keyOf 把主键或实体解析为主键；其他实体类型视为无法解析
func (r *Repository[T]) keyOf(target any) (uint, bool) {
	switch v := target.(type) {
	case uint:
		return v, v > 0
	case int:
		return uint(v), v > 0
	case int64:
		return uint(v), v > 0
	case uint64:
		return uint(v), v > 0
	}

	if entity, ok := target.(*T); ok && entity != nil {
		if keyed, ok := any(*entity).(model.Keyed); ok {
			return keyed.PrimaryKey(), keyed.PrimaryKey() > 0
		}
	}
	if entity, ok := target.(T); ok {
		if keyed, ok := any(entity).(model.Keyed); ok {
			return keyed.PrimaryKey(), keyed.PrimaryKey() > 0
		}
	}
	return 0, false
}

// assign 通过 gorm schema 把 input 写入实体字段
func (r *Repository[T]) assign(ctx context.Context, entity *T, input Attributes) error {
	if err := r.checkFillable(input); err != nil {
		return err
	}
	stmt := &gorm.Statement{DB: r.db}
	if err := stmt.Parse(entity); err != nil {
		return fmt.Errorf("解析实体失败: %w", err)
	}
	rv := reflect.ValueOf(entity).Elem()
	for _, key := range sortedKeys(input) {
		field := stmt.Schema.LookUpField(key)
		if field == nil {
			return query.NewValidationError(key, "unknown column on "+r.desc.Table)
		}
		if err := field.Set(ctx, rv, input[key]); err != nil {
			return query.NewValidationError(key, err.Error())
		}
	}
	return nil
}

func (r *Repository[T]) checkFillable(input Attributes) error {
	for _, key := range sortedKeys(input) {
		if !r.desc.IsFillable(key) {
			return query.NewValidationError(key, "column is not fillable on "+r.desc.Table)
		}
	}
	return nil
}

// table 按表名而非模型构建语句，批量 map 写入时不回填主键
func (r *Repository[T]) table(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Table(r.desc.Table)
}

func (r *Repository[T]) bulkValues(rows []Attributes) ([]map[string]any, error) {
	now := time.Now()
	values := make([]map[string]any, 0, len(rows))
	for _, row := range rows {
		if err := r.checkFillable(row); err != nil {
			return nil, err
		}
		value := make(map[string]any, len(row)+2)
		for k, v := range row {
			value[k] = v
		}
		for _, col := range []string{"created_at", "updated_at"} {
			if _, ok := value[col]; !ok && r.desc.HasColumn(col) {
				value[col] = now
			}
		}
		values = append(values, value)
	}
	return values, nil
}

// scoped 拆出 search 关键字
func scoped(filters query.Filters) query.Spec {
	spec := query.Spec{Filters: make(query.Filters, len(filters))}
	for k, v := range filters {
		if k == "search" {
			if s, ok := v.(string); ok {
				spec.Search = s
			}
			continue
		}
		spec.Filters[k] = v
	}
	return spec
}

func sortedKeys(m Attributes) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
