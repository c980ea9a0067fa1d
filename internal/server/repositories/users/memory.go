package users

import (
	"context"
	"strings"
	"sync"

	"github.com/dmitrijs2005/devconnector/internal/common"
	"github.com/dmitrijs2005/devconnector/internal/server/models"
)

// MemoryRepository keeps users in process memory. It is safe for concurrent
// use and enforces the same email uniqueness as the Postgres schema.
type MemoryRepository struct {
	mu    sync.RWMutex
	users map[string]models.User
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{users: make(map[string]models.User)}
}

func (r *MemoryRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if strings.EqualFold(u.Email, user.Email) {
			return nil, common.ErrorAlreadyExists
		}
	}
	if _, ok := r.users[user.ID]; ok {
		return nil, common.ErrorAlreadyExists
	}

	r.users[user.ID] = *user
	return user, nil
}

func (r *MemoryRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			return &u, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *MemoryRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &u, nil
}

func (r *MemoryRepository) UpdateAvatar(ctx context.Context, id, avatar string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return common.ErrorNotFound
	}
	u.Avatar = avatar
	r.users[id] = u
	return nil
}

func (r *MemoryRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[id]; !ok {
		return common.ErrorNotFound
	}
	delete(r.users, id)
	return nil
}

// Snapshot returns a copy of the stored records.
func (r *MemoryRepository) Snapshot() map[string]models.User {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c := make(map[string]models.User, len(r.users))
	for k, v := range r.users {
		c[k] = v
	}
	return c
}

// Restore replaces the stored records with a snapshot.
func (r *MemoryRepository) Restore(s map[string]models.User) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users = s
}
