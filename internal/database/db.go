package database

import (
	"context"
	"database/sql"
)

// DB is the storage handle shared by the match repositories and the seeder.
// postgres.Connect backs it with a pgx pool; tests back it with pgxmock
// through postgres.FromPool. SQLDB exposes the same pool to the migration
// runner.
type DB interface {
	Ping(ctx context.Context) error
	Close() error

	Exec(ctx context.Context, query string, args ...any) (int64, error)
	Query(ctx context.Context, query string, args ...any) (Rows, error)
	QueryRow(ctx context.Context, query string, args ...any) Row

	Begin(ctx context.Context) (Tx, error)

	SQLDB() *sql.DB
}

// Tx scopes multi-statement writes such as seeding demo profiles.
type Tx interface {
	Exec(ctx context.Context, query string, args ...any) (int64, error)
	Query(ctx context.Context, query string, args ...any) (Rows, error)
	QueryRow(ctx context.Context, query string, args ...any) Row

	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// Rows and Row mirror the pgx result types so repositories never import pgx
// for reads.
type Rows interface {
	Close()
	Next() bool
	Scan(dest ...any) error
	Err() error
}

type Row interface {
	Scan(dest ...any) error
}
