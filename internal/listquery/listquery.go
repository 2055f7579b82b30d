// Package listquery 提供后台列表接口统一的过滤、排序与分页规则。
package listquery

import (
	"strings"

	"gorm.io/gorm"
)

const (
	// DefaultPageSize 默认分页大小
	DefaultPageSize = 20
	// MaxPageSize 分页大小上限
	MaxPageSize = 100
)

// Params 列表查询的通用参数
type Params struct {
	Page      int
	PageSize  int
	Search    string
	Status    string
	Category  string
	SortBy    string
	SortOrder string
}

// Normalize 清洗参数：修正非法页码、截断超限分页、规范状态别名。
func (p *Params) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize <= 0 {
		p.PageSize = DefaultPageSize
	}
	if p.PageSize > MaxPageSize {
		p.PageSize = MaxPageSize
	}
	p.Search = strings.TrimSpace(p.Search)
	p.Status = NormalizeStatus(p.Status)
	p.Category = strings.TrimSpace(p.Category)
}

// statusSynonyms 历史前端传过的状态别名，统一收敛到规范值
var statusSynonyms = map[string]string{
	"delivered":   "completed",
	"complete":    "completed",
	"in_process":  "processing",
	"in-progress": "processing",
	"shipping":    "shipped",
	"canceled":    "cancelled",
}

// NormalizeStatus 将状态参数规范化，未知值原样返回（由调用方决定是否忽略）
func NormalizeStatus(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	if canonical, ok := statusSynonyms[s]; ok {
		return canonical
	}
	return s
}

// LikePattern 构造模糊匹配模式
func LikePattern(search string) string {
	return "%" + strings.TrimSpace(search) + "%"
}

// OrderClause 生成排序子句。sortBy 必须命中白名单列，否则回退默认排序；
// 排序方向只接受 asc/desc，其余按 desc 处理。
func OrderClause(sortBy, sortOrder string, columns map[string]string, fallback string) string {
	col, ok := columns[strings.ToLower(strings.TrimSpace(sortBy))]
	if !ok || col == "" {
		return fallback
	}
	dir := "DESC"
	if strings.EqualFold(strings.TrimSpace(sortOrder), "asc") {
		dir = "ASC"
	}
	return col + " " + dir
}

// ApplyPagination 应用分页参数，统一处理非法页码与偏移量。
func ApplyPagination(query *gorm.DB, page, pageSize int) *gorm.DB {
	if query == nil || pageSize <= 0 {
		return query
	}
	if page < 1 {
		page = 1
	}
	offset := (page - 1) * pageSize
	if offset < 0 {
		offset = 0
	}
	return query.Limit(pageSize).Offset(offset)
}
