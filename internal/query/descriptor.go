// Package query 通用查询引擎
// 根据查询描述（过滤、关联预加载、关联计数、连接、排序、分页）在 gorm 之上组装查询，
// 所有列名与关联名都通过实体描述校验，未知名称在执行前返回 ValidationError。
package query

import "strings"

// RelationKind 关联类型
type RelationKind int

const (
	BelongsTo RelationKind = iota
	HasOne
	HasMany
)

// Relation 实体关联
type Relation struct {
	// Field gorm 关联字段名（Preload 使用）
	Field string
	// Table 目标表
	Table string
	Kind  RelationKind
	// ForeignKey BelongsTo 时为本表列，HasOne/HasMany 时为目标表列
	ForeignKey string
	// OwnerKey 被引用的主键列，默认 id
	OwnerKey string
}

func (r Relation) ownerKey() string {
	if r.OwnerKey == "" {
		return "id"
	}
	return r.OwnerKey
}

// Descriptor 实体描述：表名、列集合、关联集合
type Descriptor struct {
	Table      string
	Columns    []string
	Fillable   []string
	Searchable []string
	Relations  map[string]Relation

	columns  map[string]struct{}
	fillable map[string]struct{}
	registry *Registry
}

func (d *Descriptor) index() {
	d.columns = toSet(d.Columns)
	d.fillable = toSet(d.Fillable)
}

// HasColumn 列是否属于该实体
func (d *Descriptor) HasColumn(column string) bool {
	if d.columns == nil {
		d.index()
	}
	_, ok := d.columns[column]
	return ok
}

// IsFillable 列是否允许批量赋值
func (d *Descriptor) IsFillable(column string) bool {
	if d.fillable == nil {
		d.index()
	}
	_, ok := d.fillable[column]
	return ok
}

// Relation 按名称查找关联
func (d *Descriptor) Relation(name string) (Relation, bool) {
	rel, ok := d.Relations[name]
	return rel, ok
}

// Registry 表名到实体描述的索引，用于解析嵌套关联与连接表的列
type Registry struct {
	tables map[string]*Descriptor
}

// NewRegistry 注册实体描述
func NewRegistry(descriptors ...*Descriptor) *Registry {
	r := &Registry{tables: make(map[string]*Descriptor, len(descriptors))}
	for _, d := range descriptors {
		d.index()
		d.registry = r
		r.tables[d.Table] = d
	}
	return r
}

// Lookup 按表名查找实体描述
func (r *Registry) Lookup(table string) (*Descriptor, bool) {
	if r == nil {
		return nil, false
	}
	d, ok := r.tables[table]
	return d, ok
}

// lookup 优先使用注册表，未注册时只认识自己
func (d *Descriptor) lookup(table string) (*Descriptor, bool) {
	if table == d.Table {
		return d, true
	}
	return d.registry.Lookup(table)
}

// qualify 校验列名并补全表前缀
func (d *Descriptor) qualify(column string) (string, error) {
	table, name, qualified := strings.Cut(column, ".")
	if !qualified {
		if !d.HasColumn(column) {
			return "", NewValidationError(column, "unknown column on "+d.Table)
		}
		return d.Table + "." + column, nil
	}

	target, ok := d.lookup(table)
	if !ok {
		return "", NewValidationError(column, "unknown table "+table)
	}
	if !target.HasColumn(name) {
		return "", NewValidationError(column, "unknown column on "+table)
	}
	return column, nil
}

func toSet(items []string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, item := range items {
		set[item] = struct{}{}
	}
	return set
}
