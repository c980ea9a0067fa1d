package repomanager

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/devconnector/internal/server/models"
	"github.com/dmitrijs2005/devconnector/internal/server/repositories/posts"
	"github.com/dmitrijs2005/devconnector/internal/server/repositories/profiles"
	"github.com/dmitrijs2005/devconnector/internal/server/repositories/users"
)

// The locked* wrappers serve calls made outside WithTx. Reads share the
// transaction lock, writes take it exclusively.

type lockedUsers struct {
	repo users.Repository
	mu   *sync.RWMutex
}

func (l lockedUsers) Create(ctx context.Context, user *models.User) (*models.User, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.repo.Create(ctx, user)
}

func (l lockedUsers) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.repo.GetByEmail(ctx, email)
}

func (l lockedUsers) GetByID(ctx context.Context, id string) (*models.User, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.repo.GetByID(ctx, id)
}

func (l lockedUsers) UpdateAvatar(ctx context.Context, id, avatar string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.repo.UpdateAvatar(ctx, id, avatar)
}

func (l lockedUsers) Delete(ctx context.Context, id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.repo.Delete(ctx, id)
}

type lockedProfiles struct {
	repo profiles.Repository
	mu   *sync.RWMutex
}

func (l lockedProfiles) Create(ctx context.Context, p *models.Profile) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.repo.Create(ctx, p)
}

func (l lockedProfiles) Update(ctx context.Context, p *models.Profile) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.repo.Update(ctx, p)
}

func (l lockedProfiles) GetByUserID(ctx context.Context, userID string) (*models.Profile, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.repo.GetByUserID(ctx, userID)
}

func (l lockedProfiles) GetByHandle(ctx context.Context, handle string) (*models.Profile, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.repo.GetByHandle(ctx, handle)
}

func (l lockedProfiles) List(ctx context.Context) ([]*models.Profile, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.repo.List(ctx)
}

func (l lockedProfiles) DeleteByUserID(ctx context.Context, userID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.repo.DeleteByUserID(ctx, userID)
}

type lockedPosts struct {
	repo posts.Repository
	mu   *sync.RWMutex
}

func (l lockedPosts) Create(ctx context.Context, p *models.Post) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.repo.Create(ctx, p)
}

func (l lockedPosts) Update(ctx context.Context, p *models.Post) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.repo.Update(ctx, p)
}

func (l lockedPosts) GetByID(ctx context.Context, id string) (*models.Post, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.repo.GetByID(ctx, id)
}

func (l lockedPosts) List(ctx context.Context) ([]*models.Post, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.repo.List(ctx)
}

func (l lockedPosts) Delete(ctx context.Context, id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.repo.Delete(ctx, id)
}

func (l lockedPosts) DeleteByUserID(ctx context.Context, userID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.repo.DeleteByUserID(ctx, userID)
}
