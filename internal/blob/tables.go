package blob

import (
	"context"

	"leaguestore/internal/infra/persistence/postgres"
	"leaguestore/internal/infra/persistence/sqlite"
)

// NewSQLite opens an embedded SQLite file holding one row per object.
func NewSQLite(ctx context.Context, path string) (Store, error) {
	return sqlite.NewStore(ctx, path)
}

// NewPostgres opens a PostgreSQL database holding one row per object.
func NewPostgres(ctx context.Context, dsn string) (Store, error) {
	return postgres.NewStore(ctx, dsn)
}
