package models

import "github.com/jinzhu/gorm"

// WithRowLock applies the given FOR UPDATE clause only on dialects that
// understand row-level locking. sqlite3 (used for local/dev/tests) has
// no such syntax and a single writer anyway, so the clause is a no-op
// there rather than a SQL error.
func WithRowLock(tx *gorm.DB, clause string) *gorm.DB {
	if tx.Dialect().GetName() == "sqlite3" {
		return tx
	}
	return tx.Set("gorm:query_option", clause)
}
