package repomanager

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/devconnector/internal/dbx"
	"github.com/dmitrijs2005/devconnector/internal/server/migrations"
	"github.com/dmitrijs2005/devconnector/internal/server/repositories/posts"
	"github.com/dmitrijs2005/devconnector/internal/server/repositories/profiles"
	"github.com/dmitrijs2005/devconnector/internal/server/repositories/users"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// PostgresRepositoryManager vends PostgreSQL-backed repositories bound to
// either the connection pool or an open transaction.
type PostgresRepositoryManager struct {
	pool *sql.DB
	db   dbx.DBTX
}

// OpenPostgres opens a pgx connection pool for dsn.
func OpenPostgres(dsn string) (*PostgresRepositoryManager, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}
	return NewPostgresRepositoryManager(db), nil
}

// NewPostgresRepositoryManager wraps an existing pool.
func NewPostgresRepositoryManager(db *sql.DB) *PostgresRepositoryManager {
	return &PostgresRepositoryManager{pool: db, db: db}
}

func (m *PostgresRepositoryManager) Users() users.Repository {
	return users.NewPostgresRepository(m.db)
}

func (m *PostgresRepositoryManager) Profiles() profiles.Repository {
	return profiles.NewPostgresRepository(m.db)
}

func (m *PostgresRepositoryManager) Posts() posts.Repository {
	return posts.NewPostgresRepository(m.db)
}

// WithTx begins a transaction on the pool. Nested calls reuse the
// surrounding transaction.
func (m *PostgresRepositoryManager) WithTx(ctx context.Context, fn func(ctx context.Context, tx RepositoryManager) error) error {
	if _, inTx := m.db.(*sql.Tx); inTx {
		return fn(ctx, m)
	}
	return dbx.WithTx(ctx, m.pool, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return fn(ctx, &PostgresRepositoryManager{pool: m.pool, db: tx})
	})
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations sets up goose with the embedded migrations and runs them
// against the pool.
func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	if err := gooseUpContext(ctx, m.pool, "."); err != nil {
		return err
	}
	return nil
}

func (m *PostgresRepositoryManager) Close() error {
	if m.pool == nil {
		return errors.New("no connection pool")
	}
	return m.pool.Close()
}
