package repository

import (
	"fmt"
	"strings"

	"github.com/bookcart/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
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

func isPostgresDialect(dialect string) bool {
	switch strings.ToLower(strings.TrimSpace(dialect)) {
	case "postgres", "postgresql":
		return true
	default:
		return false
	}
}

// lockForUpdate 在支持行锁的方言上追加 FOR UPDATE；sqlite 事务本身串行写入。
func lockForUpdate(db *gorm.DB) *gorm.DB {
	if isPostgresDialect(dbDialectName(db)) {
		return db.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return db
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike 转义 LIKE 通配符，关键字按字面匹配。
func escapeLike(keyword string) string {
	return likeEscaper.Replace(keyword)
}

// containsFoldedCondition 在已折叠为小写的列上做子串匹配。
func containsFoldedCondition(column string) string {
	return fmt.Sprintf(`%s LIKE ? ESCAPE '\'`, column)
}

// containsPattern 生成与 containsFoldedCondition 配套的参数，关键字同样在 Go 侧折叠。
func containsPattern(keyword string) string {
	return "%" + escapeLike(models.FoldSearchKey(keyword)) + "%"
}
