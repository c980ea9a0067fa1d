// Package users stores credential records.
package users

import (
	"context"

	"github.com/dmitrijs2005/devconnector/internal/server/models"
)

// Repository persists credential records. Lookups by email are
// case-insensitive. Missing records yield common.ErrorNotFound, a duplicate
// email yields common.ErrorAlreadyExists.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	UpdateAvatar(ctx context.Context, id, avatar string) error
	Delete(ctx context.Context, id string) error
}
