package posts

import (
	"context"
	"sort"
	"sync"

	"github.com/dmitrijs2005/devconnector/internal/common"
	"github.com/dmitrijs2005/devconnector/internal/server/models"
)

// MemoryRepository keeps posts in process memory.
type MemoryRepository struct {
	mu    sync.RWMutex
	posts map[string]*models.Post
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{posts: make(map[string]*models.Post)}
}

func (r *MemoryRepository) Create(ctx context.Context, p *models.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.posts[p.ID]; ok {
		return common.ErrorAlreadyExists
	}
	r.posts[p.ID] = normalize(p.Clone())
	return nil
}

func (r *MemoryRepository) Update(ctx context.Context, p *models.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur, ok := r.posts[p.ID]
	if !ok {
		return common.ErrorNotFound
	}

	c := cur.Clone()
	c.Text = p.Text
	c.Likes = append([]models.Like{}, p.Likes...)
	c.Comments = append([]models.Comment{}, p.Comments...)
	r.posts[p.ID] = c
	return nil
}

func (r *MemoryRepository) GetByID(ctx context.Context, id string) (*models.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.posts[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return p.Clone(), nil
}

func (r *MemoryRepository) List(ctx context.Context) ([]*models.Post, error) {
	r.mu.RLock()
	result := make([]*models.Post, 0, len(r.posts))
	for _, p := range r.posts {
		result = append(result, p.Clone())
	}
	r.mu.RUnlock()

	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		}
		return result[i].ID > result[j].ID
	})
	return result, nil
}

func (r *MemoryRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.posts[id]; !ok {
		return common.ErrorNotFound
	}
	delete(r.posts, id)
	return nil
}

func (r *MemoryRepository) DeleteByUserID(ctx context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, p := range r.posts {
		if p.User == userID {
			delete(r.posts, id)
		}
	}
	return nil
}

// Snapshot returns a deep copy of the stored records.
func (r *MemoryRepository) Snapshot() map[string]*models.Post {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c := make(map[string]*models.Post, len(r.posts))
	for k, v := range r.posts {
		c[k] = v.Clone()
	}
	return c
}

// Restore replaces the stored records with a snapshot.
func (r *MemoryRepository) Restore(s map[string]*models.Post) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.posts = s
}
