package profiles

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/dmitrijs2005/devconnector/internal/common"
	"github.com/dmitrijs2005/devconnector/internal/server/models"
)

// UserSource resolves profile owners for population.
type UserSource interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
}

// MemoryRepository keeps profiles in process memory, enforcing unique
// handles and one profile per owner like the Postgres indexes do.
type MemoryRepository struct {
	mu       sync.RWMutex
	profiles map[string]*models.Profile
	users    UserSource
}

func NewMemoryRepository(users UserSource) *MemoryRepository {
	return &MemoryRepository{profiles: make(map[string]*models.Profile), users: users}
}

func (r *MemoryRepository) Create(ctx context.Context, p *models.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.profiles[p.ID]; ok {
		return common.ErrorAlreadyExists
	}
	for _, e := range r.profiles {
		if e.User.ID == p.User.ID || e.Handle == p.Handle {
			return common.ErrorAlreadyExists
		}
	}

	r.profiles[p.ID] = p.Clone()
	return nil
}

func (r *MemoryRepository) Update(ctx context.Context, p *models.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur, ok := r.profiles[p.ID]
	if !ok {
		return common.ErrorNotFound
	}
	for id, e := range r.profiles {
		if id != p.ID && e.Handle == p.Handle {
			return common.ErrorAlreadyExists
		}
	}

	// owner and creation time are immutable
	c := p.Clone()
	c.User = cur.User
	c.CreatedAt = cur.CreatedAt
	r.profiles[p.ID] = c
	return nil
}

func (r *MemoryRepository) GetByUserID(ctx context.Context, userID string) (*models.Profile, error) {
	return r.find(ctx, func(p *models.Profile) bool { return p.User.ID == userID })
}

func (r *MemoryRepository) GetByHandle(ctx context.Context, handle string) (*models.Profile, error) {
	return r.find(ctx, func(p *models.Profile) bool { return p.Handle == handle })
}

func (r *MemoryRepository) find(ctx context.Context, match func(*models.Profile) bool) (*models.Profile, error) {
	r.mu.RLock()
	var found *models.Profile
	for _, p := range r.profiles {
		if match(p) {
			found = p.Clone()
			break
		}
	}
	r.mu.RUnlock()

	if found == nil {
		return nil, common.ErrorNotFound
	}
	return r.populate(ctx, found)
}

func (r *MemoryRepository) List(ctx context.Context) ([]*models.Profile, error) {
	r.mu.RLock()
	result := make([]*models.Profile, 0, len(r.profiles))
	for _, p := range r.profiles {
		result = append(result, p.Clone())
	}
	r.mu.RUnlock()

	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.Before(result[j].CreatedAt)
		}
		return result[i].ID < result[j].ID
	})

	// orphans are skipped, as the inner join would
	populated := result[:0]
	for _, p := range result {
		if _, err := r.populate(ctx, p); err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				continue
			}
			return nil, err
		}
		populated = append(populated, p)
	}
	return populated, nil
}

// populate fills in the owner's public fields, mirroring the SQL join.
func (r *MemoryRepository) populate(ctx context.Context, p *models.Profile) (*models.Profile, error) {
	u, err := r.users.GetByID(ctx, p.User.ID)
	if err != nil {
		return nil, err
	}
	p.User = models.UserRef{ID: u.ID, Name: u.Name, Avatar: u.Avatar}
	return p, nil
}

func (r *MemoryRepository) DeleteByUserID(ctx context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, p := range r.profiles {
		if p.User.ID == userID {
			delete(r.profiles, id)
		}
	}
	return nil
}

// Snapshot returns a deep copy of the stored records.
func (r *MemoryRepository) Snapshot() map[string]*models.Profile {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c := make(map[string]*models.Profile, len(r.profiles))
	for k, v := range r.profiles {
		c[k] = v.Clone()
	}
	return c
}

// Restore replaces the stored records with a snapshot.
func (r *MemoryRepository) Restore(s map[string]*models.Profile) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.profiles = s
}
