package services

import (
	"context"
	"errors"
	"slices"
	"strings"

	"github.com/dmitrijs2005/devconnector/internal/common"
	"github.com/dmitrijs2005/devconnector/internal/server/models"
	"github.com/dmitrijs2005/devconnector/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/devconnector/internal/validation"
)

// PostService manages posts, likes and comments. Like profiles, a post is
// rewritten as a whole on every change.
type PostService struct {
	repomanager repomanager.RepositoryManager
}

func NewPostService(m repomanager.RepositoryManager) *PostService {
	return &PostService{repomanager: m}
}

func postNotFound() error {
	return common.NewFieldError(common.ErrorNotFound, "nopostfound", "No post found with that ID")
}

func notAuthorized() error {
	return common.NewFieldError(common.ErrorForbidden, "notauthorized", "User not authorized")
}

// Create publishes a post. The author's name and avatar are copied in.
func (s *PostService) Create(ctx context.Context, author *models.Subject, in validation.PostInput) (*models.Post, error) {
	if err := validation.Post(in); err != nil {
		return nil, err
	}

	p := &models.Post{
		ID:        newID(),
		User:      author.ID,
		Text:      strings.TrimSpace(in.Text),
		Name:      author.Name,
		Avatar:    author.Avatar,
		Likes:     []models.Like{},
		Comments:  []models.Comment{},
		CreatedAt: now(),
	}

	if err := s.repomanager.Posts().Create(ctx, p); err != nil {
		return nil, internalError("create post", err)
	}
	return p, nil
}

// List returns all posts, newest first.
func (s *PostService) List(ctx context.Context) ([]*models.Post, error) {
	list, err := s.repomanager.Posts().List(ctx)
	if err != nil {
		return nil, internalError("list posts", err)
	}
	return list, nil
}

// Get returns one post.
func (s *PostService) Get(ctx context.Context, id string) (*models.Post, error) {
	p, err := s.repomanager.Posts().GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, postNotFound()
		}
		return nil, internalError("load post", err)
	}
	return p, nil
}

// Delete removes a post. Only its author may do so.
func (s *PostService) Delete(ctx context.Context, userID, id string) error {
	p, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if p.User != userID {
		return notAuthorized()
	}

	if err := s.repomanager.Posts().Delete(ctx, id); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return postNotFound()
		}
		return internalError("delete post", err)
	}
	return nil
}

// Like records userID's like at the front of the list.
func (s *PostService) Like(ctx context.Context, userID, id string) (*models.Post, error) {
	return s.modify(ctx, id, func(p *models.Post) error {
		if p.LikedBy(userID) {
			return common.NewFieldError(common.ErrorValidation, "alreadyliked", "User already liked this post")
		}
		p.Likes = slices.Insert(p.Likes, 0, models.Like{User: userID})
		return nil
	})
}

// Unlike removes userID's like.
func (s *PostService) Unlike(ctx context.Context, userID, id string) (*models.Post, error) {
	return s.modify(ctx, id, func(p *models.Post) error {
		if !p.LikedBy(userID) {
			return common.NewFieldError(common.ErrorValidation, "notliked", "You have not yet liked this post")
		}
		p.Likes = slices.DeleteFunc(p.Likes, func(l models.Like) bool { return l.User == userID })
		return nil
	})
}

// Comment adds a comment at the front of the post's comments.
func (s *PostService) Comment(ctx context.Context, author *models.Subject, id string, in validation.PostInput) (*models.Post, error) {
	if err := validation.Post(in); err != nil {
		return nil, err
	}

	c := models.Comment{
		ID:        newID(),
		User:      author.ID,
		Text:      strings.TrimSpace(in.Text),
		Name:      author.Name,
		Avatar:    author.Avatar,
		CreatedAt: now(),
	}

	return s.modify(ctx, id, func(p *models.Post) error {
		p.Comments = slices.Insert(p.Comments, 0, c)
		return nil
	})
}

// DeleteComment removes a comment. Only the comment's author may do so.
func (s *PostService) DeleteComment(ctx context.Context, userID, id, commentID string) (*models.Post, error) {
	return s.modify(ctx, id, func(p *models.Post) error {
		i := slices.IndexFunc(p.Comments, func(c models.Comment) bool { return c.ID == commentID })
		if i < 0 {
			return common.NewFieldError(common.ErrorNotFound, "commentnotexists", "Comment does not exist")
		}
		if p.Comments[i].User != userID {
			return notAuthorized()
		}
		p.Comments = slices.Delete(p.Comments, i, i+1)
		return nil
	})
}

func (s *PostService) modify(ctx context.Context, id string, fn func(p *models.Post) error) (*models.Post, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := fn(p); err != nil {
		return nil, err
	}

	if err := s.repomanager.Posts().Update(ctx, p); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, postNotFound()
		}
		return nil, internalError("save post", err)
	}
	return p, nil
}
