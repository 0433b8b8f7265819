package connection

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

// Scoped returns a gorm session bound to ctx that runs on tx when one is
// given, so repositories share the transaction opened by their service.
func Scoped(ctx context.Context, db *gorm.DB, tx *sql.Tx) *gorm.DB {
	scoped := db.WithContext(ctx)
	if tx != nil {
		scoped.Statement.ConnPool = tx
	}
	return scoped
}
