// Package profiles stores profile records together with their nested skills,
// social links, experience and education.
package profiles

import (
	"context"

	"github.com/dmitrijs2005/devconnector/internal/server/models"
)

// Repository persists profiles. Reads populate Profile.User from the owner's
// credential record. Create and Update return common.ErrorAlreadyExists when
// the handle or owner is already taken.
type Repository interface {
	Create(ctx context.Context, p *models.Profile) error
	Update(ctx context.Context, p *models.Profile) error
	GetByUserID(ctx context.Context, userID string) (*models.Profile, error)
	GetByHandle(ctx context.Context, handle string) (*models.Profile, error)
	List(ctx context.Context) ([]*models.Profile, error)
	// DeleteByUserID removes the owner's profile if there is one.
	DeleteByUserID(ctx context.Context, userID string) error
}
