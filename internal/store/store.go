package store

import (
	"context"

	"github.com/jmoiron/sqlx"
)

// Every read has a plain and a Tx flavour. Both go through these so queries are written
// once with ? placeholders and rebound for whichever driver is behind q.

func get(ctx context.Context, q sqlx.ExtContext, dest any, query string, args ...any) error {
	return sqlx.GetContext(ctx, q, dest, q.Rebind(query), args...)
}

func sel(ctx context.Context, q sqlx.ExtContext, dest any, query string, args ...any) error {
	return sqlx.SelectContext(ctx, q, dest, q.Rebind(query), args...)
}
