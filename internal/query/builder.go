package query

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"gorm.io/gorm"
)

var operators = map[string]struct{}{
	"=": {}, "!=": {}, "<>": {}, "<": {}, "<=": {}, ">": {}, ">=": {},
}

// Query 已组装但尚未执行的查询
// rows 用于取数据，count 只包含会影响行数的部分（连接与过滤），用于统计总数
type Query struct {
	rows  *gorm.DB
	count *gorm.DB
	limit int
}

// Where 同时追加到取数与计数查询
func (q *Query) Where(query any, args ...any) *Query {
	q.rows = q.rows.Where(query, args...)
	q.count = q.count.Where(query, args...)
	return q
}

// Scopes 同时应用到取数与计数查询
func (q *Query) Scopes(funcs ...func(*gorm.DB) *gorm.DB) *Query {
	q.rows = q.rows.Scopes(funcs...)
	q.count = q.count.Scopes(funcs...)
	return q
}

// DB 返回可继续链式调用的取数查询（已应用 Limit）
func (q *Query) DB() *gorm.DB {
	if q.limit > 0 {
		return q.rows.Limit(q.limit)
	}
	return q.rows
}

// Compose 按固定顺序组装查询：
// 关联计数 -> 预加载 -> 连接 -> 过滤 -> 排序 -> 关联排序 -> 行数限制。
// rows 与 count 必须是两个互不共享 Statement 的会话。
func Compose(rows, count *gorm.DB, d *Descriptor, spec Spec) (*Query, error) {
	selects, err := countSelects(d, spec.WithCount)
	if err != nil {
		return nil, err
	}
	preloads, err := preloadPaths(d, spec.With)
	if err != nil {
		return nil, err
	}

	rows = rows.Select(strings.Join(selects, ", "))
	for _, path := range preloads {
		rows = rows.Preload(path)
	}

	if spec.Join != nil {
		clause, err := joinClause(d, *spec.Join, LeftJoin, RightJoin)
		if err != nil {
			return nil, err
		}
		rows = rows.Joins(clause)
		count = count.Joins(clause)
	}

	conds, err := filterConditions(d, spec.Filters)
	if err != nil {
		return nil, err
	}
	if spec.Search != "" {
		search, err := searchCondition(d, spec.Search)
		if err != nil {
			return nil, err
		}
		conds = append(conds, search)
	}
	for _, c := range conds {
		rows = rows.Where(c.sql, c.args...)
		count = count.Where(c.sql, c.args...)
	}

	orders, err := orderClauses(d, spec.Orders)
	if err != nil {
		return nil, err
	}
	for _, o := range orders {
		rows = rows.Order(o)
	}

	for _, ro := range spec.OrderByRelation {
		join := ro.Join
		if join.Type == "" {
			join.Type = InnerJoin
		}
		clause, err := joinClause(d, join, InnerJoin, LeftJoin)
		if err != nil {
			return nil, err
		}
		rows = rows.Joins(clause)
		count = count.Joins(clause)

		orders, err := orderClauses(d, ro.Orders)
		if err != nil {
			return nil, err
		}
		for _, o := range orders {
			rows = rows.Order(o)
		}
	}

	q := &Query{rows: rows, count: count}
	if !spec.Pagination.Simple && spec.Pagination.Limit > 0 {
		q.limit = spec.Pagination.Limit
	}
	return q, nil
}

// countSelects 生成 base.* 以及每个关联的计数子查询
func countSelects(d *Descriptor, relations []string) ([]string, error) {
	selects := []string{d.Table + ".*"}
	seen := make(map[string]struct{}, len(relations))
	for _, name := range relations {
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}

		rel, ok := d.Relation(name)
		if !ok {
			return nil, NewValidationError(name, "unknown relation on "+d.Table)
		}

		var cond string
		switch rel.Kind {
		case BelongsTo:
			cond = fmt.Sprintf("%s.%s = %s.%s", rel.Table, rel.ownerKey(), d.Table, rel.ForeignKey)
		case HasOne, HasMany:
			cond = fmt.Sprintf("%s.%s = %s.%s", rel.Table, rel.ForeignKey, d.Table, rel.ownerKey())
		default:
			return nil, NewValidationError(name, "unsupported relation kind")
		}
		selects = append(selects, fmt.Sprintf("(SELECT COUNT(*) FROM %s WHERE %s) AS %s_count", rel.Table, cond, name))
	}
	return selects, nil
}

// preloadPaths 把 "units.teacher" 解析为 gorm 的 "Units.Teacher"
func preloadPaths(d *Descriptor, relations []string) ([]string, error) {
	paths := make([]string, 0, len(relations))
	for _, name := range relations {
		current := d
		var fields []string
		for _, segment := range strings.Split(name, ".") {
			if current == nil {
				return nil, NewValidationError(name, "cannot resolve nested relation")
			}
			rel, ok := current.Relation(segment)
			if !ok {
				return nil, NewValidationError(name, "unknown relation on "+current.Table)
			}
			fields = append(fields, rel.Field)
			current, _ = current.lookup(rel.Table)
		}
		paths = append(paths, strings.Join(fields, "."))
	}
	return paths, nil
}

func joinClause(d *Descriptor, j Join, allowed ...JoinType) (string, error) {
	var keyword string
	switch JoinType(strings.ToLower(string(j.Type))) {
	case LeftJoin:
		keyword = "LEFT JOIN"
	case RightJoin:
		keyword = "RIGHT JOIN"
	case InnerJoin:
		keyword = "INNER JOIN"
	default:
		return "", NewValidationError(string(j.Type), "unknown join type")
	}
	permitted := false
	for _, t := range allowed {
		if JoinType(strings.ToLower(string(j.Type))) == t {
			permitted = true
		}
	}
	if !permitted {
		return "", NewValidationError(string(j.Type), "join type not allowed here")
	}

	if _, ok := d.lookup(j.Table); !ok {
		return "", NewValidationError(j.Table, "unknown table")
	}
	if _, ok := operators[j.Operator]; !ok {
		return "", NewValidationError(j.Operator, "unknown operator")
	}
	first, err := d.qualify(j.First)
	if err != nil {
		return "", err
	}
	second, err := d.qualify(j.Second)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s %s ON %s %s %s", keyword, j.Table, first, j.Operator, second), nil
}

type condition struct {
	sql  string
	args []any
}

// filterConditions 按列名排序生成条件，保证 SQL 稳定
func filterConditions(d *Descriptor, filters Filters) ([]condition, error) {
	if len(filters) == 0 {
		return nil, nil
	}
	keys := make([]string, 0, len(filters))
	for k := range filters {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	conds := make([]condition, 0, len(keys))
	for _, key := range keys {
		column, err := d.qualify(key)
		if err != nil {
			return nil, err
		}

		value := filters[key]
		switch {
		case value == nil:
			conds = append(conds, condition{sql: column + " IS NULL"})
		case isList(value):
			conds = append(conds, condition{sql: column + " IN ?", args: []any{value}})
		default:
			conds = append(conds, condition{sql: column + " = ?", args: []any{value}})
		}
	}
	return conds, nil
}

func isList(value any) bool {
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Slice:
		// []byte 按单值处理
		return rv.Type().Elem().Kind() != reflect.Uint8
	case reflect.Array:
		return true
	default:
		return false
	}
}

func searchCondition(d *Descriptor, term string) (condition, error) {
	if len(d.Searchable) == 0 {
		return condition{}, NewValidationError("search", "entity "+d.Table+" is not searchable")
	}
	pattern := "%" + strings.ToLower(term) + "%"
	parts := make([]string, 0, len(d.Searchable))
	args := make([]any, 0, len(d.Searchable))
	for _, col := range d.Searchable {
		column, err := d.qualify(col)
		if err != nil {
			return condition{}, err
		}
		parts = append(parts, "LOWER("+column+") LIKE ?")
		args = append(args, pattern)
	}
	return condition{sql: "(" + strings.Join(parts, " OR ") + ")", args: args}, nil
}

func orderClauses(d *Descriptor, orders []Order) ([]string, error) {
	clauses := make([]string, 0, len(orders))
	for _, o := range orders {
		column, err := d.qualify(o.Column)
		if err != nil {
			return nil, err
		}
		var dir string
		switch Direction(strings.ToLower(string(o.Direction))) {
		case Asc, "":
			dir = "ASC"
		case Desc:
			dir = "DESC"
		default:
			return nil, NewValidationError(string(o.Direction), "unknown order direction")
		}
		clauses = append(clauses, column+" "+dir)
	}
	return clauses, nil
}

// ApplyFilters 只应用过滤条件，用于批量更新等不需要完整查询描述的场景
func ApplyFilters(db *gorm.DB, d *Descriptor, filters Filters) (*gorm.DB, error) {
	conds, err := filterConditions(d, filters)
	if err != nil {
		return nil, err
	}
	for _, c := range conds {
		db = db.Where(c.sql, c.args...)
	}
	return db, nil
}
