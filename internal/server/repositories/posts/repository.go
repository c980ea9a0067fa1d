// Package posts stores posts with their likes and comments.
package posts

import (
	"context"

	"github.com/dmitrijs2005/devconnector/internal/server/models"
)

// Repository persists posts. Likes and comments are stored with the post
// and rewritten as a whole by Update.
type Repository interface {
	Create(ctx context.Context, p *models.Post) error
	Update(ctx context.Context, p *models.Post) error
	GetByID(ctx context.Context, id string) (*models.Post, error)
	// List returns all posts, newest first.
	List(ctx context.Context) ([]*models.Post, error)
	Delete(ctx context.Context, id string) error
	DeleteByUserID(ctx context.Context, userID string) error
}
