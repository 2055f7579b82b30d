package repository

import (
	"strings"

	"gorm.io/gorm"
)

// dbDialectName 获取数据库方言名称，默认按 sqlite 处理。
func dbDialectName(db *gorm.DB) string {
	if db == nil || db.Dialector == nil {
		return "sqlite"
	}
	name := strings.ToLower(strings.TrimSpace(db.Dialector.Name()))
	if name == "" {
		return "sqlite"
	}
	return name
}

// dayExpr 构建按日分组表达式，结果统一为 YYYY-MM-DD 文本，兼容 sqlite 与 postgres。
func dayExpr(db *gorm.DB, column string) string {
	switch dbDialectName(db) {
	case "postgres", "postgresql":
		return "to_char(" + column + ", 'YYYY-MM-DD')"
	default:
		return "CAST(date(" + column + ") AS TEXT)"
	}
}

// monthExpr 构建按月分组表达式，结果统一为 01-12 两位文本。
func monthExpr(db *gorm.DB, column string) string {
	switch dbDialectName(db) {
	case "postgres", "postgresql":
		return "to_char(" + column + ", 'MM')"
	default:
		return "strftime('%m', " + column + ")"
	}
}

// yearExpr 构建按年过滤表达式，结果为四位年份文本。
func yearExpr(db *gorm.DB, column string) string {
	switch dbDialectName(db) {
	case "postgres", "postgresql":
		return "to_char(" + column + ", 'YYYY')"
	default:
		return "strftime('%Y', " + column + ")"
	}
}
