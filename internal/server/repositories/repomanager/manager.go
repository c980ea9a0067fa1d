// Package repomanager vends the repositories of one storage backend and runs
// units of work against them transactionally.
package repomanager

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/devconnector/internal/server/repositories/posts"
	"github.com/dmitrijs2005/devconnector/internal/server/repositories/profiles"
	"github.com/dmitrijs2005/devconnector/internal/server/repositories/users"
)

// MemoryDSN selects the in-process backend.
const MemoryDSN = "memory://"

type RepositoryManager interface {
	RunMigrations(ctx context.Context) error
	Users() users.Repository
	Profiles() profiles.Repository
	Posts() posts.Repository
	// WithTx runs fn with a manager whose repositories share one
	// transaction. The transaction commits if fn returns nil.
	WithTx(ctx context.Context, fn func(ctx context.Context, tx RepositoryManager) error) error
	Close() error
}

// New opens the backend selected by dsn.
func New(dsn string) (RepositoryManager, error) {
	if strings.HasPrefix(dsn, MemoryDSN) {
		return NewMemoryRepositoryManager(), nil
	}
	return OpenPostgres(dsn)
}
