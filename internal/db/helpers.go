package db

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
)

// HasTable reports whether table exists in the current schema.
func HasTable(ctx context.Context, q sqlx.QueryerContext, table string) bool {
	var name sql.NullString
	err := sqlx.GetContext(ctx, q, &name, `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = DATABASE()
		  AND table_name = ?
		LIMIT 1
	`, table)
	if err != nil {
		return false
	}
	return name.Valid && name.String != ""
}

// NullInt converts an optional int into a driver value.
func NullInt(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}

// NullInt64 converts an optional int64 into a driver value.
func NullInt64(v *int64) any {
	if v == nil {
		return nil
	}
	return *v
}
