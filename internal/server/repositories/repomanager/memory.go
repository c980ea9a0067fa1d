package repomanager

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/devconnector/internal/server/repositories/posts"
	"github.com/dmitrijs2005/devconnector/internal/server/repositories/profiles"
	"github.com/dmitrijs2005/devconnector/internal/server/repositories/users"
)

// MemoryRepositoryManager keeps all data in process memory. Transactions
// are serialized and roll back by restoring a snapshot taken at the start.
// Calls outside a transaction wait for a running one to finish, so a
// rollback never discards their writes.
type MemoryRepositoryManager struct {
	txMu     *sync.RWMutex
	inTx     bool
	users    *users.MemoryRepository
	profiles *profiles.MemoryRepository
	posts    *posts.MemoryRepository
}

func NewMemoryRepositoryManager() *MemoryRepositoryManager {
	u := users.NewMemoryRepository()
	return &MemoryRepositoryManager{
		txMu:     &sync.RWMutex{},
		users:    u,
		profiles: profiles.NewMemoryRepository(u),
		posts:    posts.NewMemoryRepository(),
	}
}

func (m *MemoryRepositoryManager) RunMigrations(ctx context.Context) error {
	return nil
}

func (m *MemoryRepositoryManager) Users() users.Repository {
	if m.inTx {
		return m.users
	}
	return lockedUsers{repo: m.users, mu: m.txMu}
}

func (m *MemoryRepositoryManager) Profiles() profiles.Repository {
	if m.inTx {
		return m.profiles
	}
	return lockedProfiles{repo: m.profiles, mu: m.txMu}
}

func (m *MemoryRepositoryManager) Posts() posts.Repository {
	if m.inTx {
		return m.posts
	}
	return lockedPosts{repo: m.posts, mu: m.txMu}
}

func (m *MemoryRepositoryManager) WithTx(ctx context.Context, fn func(ctx context.Context, tx RepositoryManager) error) (err error) {
	if m.inTx {
		return fn(ctx, m)
	}

	m.txMu.Lock()
	defer m.txMu.Unlock()

	u, pr, po := m.users.Snapshot(), m.profiles.Snapshot(), m.posts.Snapshot()
	rollback := func() {
		m.users.Restore(u)
		m.profiles.Restore(pr)
		m.posts.Restore(po)
	}

	defer func() {
		if p := recover(); p != nil {
			rollback()
			panic(p)
		}
		if err != nil {
			rollback()
		}
	}()

	tx := *m
	tx.inTx = true
	return fn(ctx, &tx)
}

func (m *MemoryRepositoryManager) Close() error {
	return nil
}
