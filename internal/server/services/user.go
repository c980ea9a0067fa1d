// Package services contains server-side business logic. This file implements
// UserService, which handles registration, login, the bearer-token auth gate
// and avatar uploads.
package services

import (
	"context"
	"errors"
	"strings"

	"github.com/dmitrijs2005/devconnector/internal/common"
	"github.com/dmitrijs2005/devconnector/internal/server/auth"
	"github.com/dmitrijs2005/devconnector/internal/server/avatars"
	"github.com/dmitrijs2005/devconnector/internal/server/config"
	"github.com/dmitrijs2005/devconnector/internal/server/models"
	"github.com/dmitrijs2005/devconnector/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/devconnector/internal/validation"
)

// AvatarStore presigns uploads of custom avatar images.
type AvatarStore interface {
	PresignUpload(ctx context.Context, userID, contentType string) (*avatars.Upload, error)
}

var avatarContentTypes = map[string]struct{}{
	"image/png":  {},
	"image/jpeg": {},
	"image/gif":  {},
	"image/webp": {},
}

// LoginResult is returned on successful login. Token carries the
// "Bearer " prefix so clients can send it back verbatim.
type LoginResult struct {
	Success bool   `json:"success"`
	Token   string `json:"token"`
}

// UserService provides credential operations:
// - Register: create users
// - Login: verify credentials and mint tokens
// - Authenticate: resolve a bearer token to a live account
type UserService struct {
	repomanager repomanager.RepositoryManager
	hasher      *auth.PasswordHasher
	tokens      *auth.TokenManager
	avatars     AvatarStore
}

// NewUserService constructs a UserService using repositories and server config.
func NewUserService(m repomanager.RepositoryManager, cfg *config.Config) *UserService {
	return &UserService{
		repomanager: m,
		hasher:      auth.NewPasswordHasher(cfg.PasswordHashCost),
		tokens:      auth.NewTokenManager(cfg.SecretKey, cfg.AccessTokenValidityDuration),
	}
}

// SetAvatarStore enables custom avatar uploads.
func (s *UserService) SetAvatarStore(a AvatarStore) {
	s.avatars = a
}

// Register creates a credential record. The email is stored trimmed and
// lower-cased; a second registration with the same email is a Conflict.
func (s *UserService) Register(ctx context.Context, in validation.RegisterInput) (*models.User, error) {
	if err := validation.Register(in); err != nil {
		return nil, err
	}

	email := strings.ToLower(strings.TrimSpace(in.Email))
	repo := s.repomanager.Users()

	_, err := repo.GetByEmail(ctx, email)
	if err == nil {
		return nil, emailExists()
	}
	if !errors.Is(err, common.ErrorNotFound) {
		return nil, internalError("lookup user", err)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, internalError("hash password", err)
	}

	user := &models.User{
		ID:           newID(),
		Name:         strings.TrimSpace(in.Name),
		Email:        email,
		Avatar:       avatars.Gravatar(email),
		PasswordHash: hash,
		CreatedAt:    now(),
	}

	u, err := repo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, emailExists()
		}
		return nil, internalError("create user", err)
	}
	return u, nil
}

func emailExists() error {
	return common.NewFieldError(common.ErrorConflict, "email", "Email already exists")
}

// Login verifies the password and mints a bearer token.
func (s *UserService) Login(ctx context.Context, in validation.LoginInput) (*LoginResult, error) {
	if err := validation.Login(in); err != nil {
		return nil, err
	}

	user, err := s.repomanager.Users().GetByEmail(ctx, strings.TrimSpace(in.Email))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.NewFieldError(common.ErrorNotFound, "email", "User not found.")
		}
		return nil, internalError("lookup user", err)
	}

	if !s.hasher.Verify(in.Password, user.PasswordHash) {
		return nil, common.NewFieldError(common.ErrorValidation, "password", "Password incorrect.")
	}

	token, err := s.tokens.Issue(auth.Identity{ID: user.ID, Name: user.Name, Avatar: user.Avatar})
	if err != nil {
		return nil, internalError("issue token", err)
	}

	return &LoginResult{Success: true, Token: common.BearerPrefix + token}, nil
}

// Authenticate validates token and re-resolves its subject against the store,
// so tokens of deleted accounts stop working before they expire. Every
// rejection is common.ErrorUnauthorized; store failures are internal.
func (s *UserService) Authenticate(ctx context.Context, token string) (*models.Subject, error) {
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return nil, common.ErrorUnauthorized
	}

	user, err := s.repomanager.Users().GetByID(ctx, claims.ID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, internalError("resolve subject", err)
	}

	return &models.Subject{ID: user.ID, Name: user.Name, Email: user.Email, Avatar: user.Avatar}, nil
}

// PrepareAvatarUpload presigns an upload for a new avatar image and points
// the account's avatar at the uploaded object.
func (s *UserService) PrepareAvatarUpload(ctx context.Context, subject *models.Subject, contentType string) (*avatars.Upload, error) {
	if s.avatars == nil {
		return nil, common.NewFieldError(common.ErrorNotFound, "avatar", "Avatar uploads are not enabled")
	}
	if _, ok := avatarContentTypes[contentType]; !ok {
		return nil, common.NewFieldError(common.ErrorValidation, "contenttype", "Avatar must be a PNG, JPEG, GIF or WebP image")
	}

	up, err := s.avatars.PresignUpload(ctx, subject.ID, contentType)
	if err != nil {
		return nil, internalError("presign avatar upload", err)
	}

	if err := s.repomanager.Users().UpdateAvatar(ctx, subject.ID, up.PublicURL); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, internalError("update avatar", err)
	}

	return up, nil
}
