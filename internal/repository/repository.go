package repository

import (
	"context"
	"database/sql"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
)

// qb builds MySQL statements ("?" placeholders).
var qb = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)

// execBuilt runs a squirrel statement on db or tx.
func execBuilt(ctx context.Context, ex sqlx.ExecerContext, b squirrel.Sqlizer) (sql.Result, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, err
	}
	return ex.ExecContext(ctx, query, args...)
}

func selectBuilt(ctx context.Context, q sqlx.QueryerContext, dest interface{}, b squirrel.Sqlizer) error {
	query, args, err := b.ToSql()
	if err != nil {
		return err
	}
	return sqlx.SelectContext(ctx, q, dest, query, args...)
}

func getBuilt(ctx context.Context, q sqlx.QueryerContext, dest interface{}, b squirrel.Sqlizer) error {
	query, args, err := b.ToSql()
	if err != nil {
		return err
	}
	return sqlx.GetContext(ctx, q, dest, query, args...)
}
