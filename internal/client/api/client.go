// Package api is a typed client for the DevConnector REST API.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/devconnector/internal/common"
	"github.com/dmitrijs2005/devconnector/internal/server/models"
	"github.com/dmitrijs2005/devconnector/internal/validation"
)

// Client is the API surface used by the terminal client.
type Client interface {
	Register(ctx context.Context, in validation.RegisterInput) (*models.User, error)
	Login(ctx context.Context, in validation.LoginInput) error
	Logout()
	LoggedIn() bool
	Current(ctx context.Context) (*models.Subject, error)
	OwnProfile(ctx context.Context) (*models.Profile, error)
	Profiles(ctx context.Context) ([]*models.Profile, error)
	ProfileByHandle(ctx context.Context, handle string) (*models.Profile, error)
	UpsertProfile(ctx context.Context, in validation.ProfileInput) (*models.Profile, error)
	AddExperience(ctx context.Context, in validation.ExperienceInput) (*models.Profile, error)
	AddEducation(ctx context.Context, in validation.EducationInput) (*models.Profile, error)
	RemoveExperience(ctx context.Context, id string) (*models.Profile, error)
	RemoveEducation(ctx context.Context, id string) (*models.Profile, error)
	Posts(ctx context.Context) ([]*models.Post, error)
	CreatePost(ctx context.Context, in validation.PostInput) (*models.Post, error)
	PrepareAvatarUpload(ctx context.Context, contentType string) (*AvatarUpload, error)
	DeleteAccount(ctx context.Context) error
}

// AvatarUpload is the presigned target returned by the avatar endpoint.
type AvatarUpload struct {
	URL       string    `json:"upload_url"`
	Avatar    string    `json:"avatar"`
	ExpiresAt time.Time `json:"expires_at"`
}

type HTTPClient struct {
	baseURL string
	http    *http.Client
	token   string
}

func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// do sends body as JSON and decodes a 2xx response into out.
func (c *HTTPClient) do(ctx context.Context, method, path string, body, out any) error {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		rd = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set(common.AuthorizationHeaderName, c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return ErrUnauthorized
	}
	if resp.StatusCode >= 400 {
		apiErr := &APIError{Status: resp.StatusCode}
		_ = json.NewDecoder(resp.Body).Decode(&apiErr.Fields)
		return apiErr
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// authed fails fast when no token is held.
func (c *HTTPClient) authed(ctx context.Context, method, path string, body, out any) error {
	if c.token == "" {
		return ErrNotLoggedIn
	}
	return c.do(ctx, method, path, body, out)
}

func (c *HTTPClient) Register(ctx context.Context, in validation.RegisterInput) (*models.User, error) {
	var u models.User
	if err := c.do(ctx, http.MethodPost, "/api/users/register", in, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Login stores the returned bearer token for subsequent calls.
func (c *HTTPClient) Login(ctx context.Context, in validation.LoginInput) error {
	var res struct {
		Success bool   `json:"success"`
		Token   string `json:"token"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/users/login", in, &res); err != nil {
		return err
	}
	c.token = res.Token
	return nil
}

func (c *HTTPClient) Logout() {
	c.token = ""
}

func (c *HTTPClient) LoggedIn() bool {
	return c.token != ""
}

func (c *HTTPClient) Current(ctx context.Context) (*models.Subject, error) {
	var s models.Subject
	if err := c.authed(ctx, http.MethodGet, "/api/users/current", nil, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *HTTPClient) profile(ctx context.Context, method, path string, body any, auth bool) (*models.Profile, error) {
	var p models.Profile
	call := c.do
	if auth {
		call = c.authed
	}
	if err := call(ctx, method, path, body, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *HTTPClient) OwnProfile(ctx context.Context) (*models.Profile, error) {
	return c.profile(ctx, http.MethodGet, "/api/profile", nil, true)
}

func (c *HTTPClient) Profiles(ctx context.Context) ([]*models.Profile, error) {
	var list []*models.Profile
	if err := c.do(ctx, http.MethodGet, "/api/profile/all", nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (c *HTTPClient) ProfileByHandle(ctx context.Context, handle string) (*models.Profile, error) {
	return c.profile(ctx, http.MethodGet, "/api/profile/handle/"+url.PathEscape(handle), nil, false)
}

func (c *HTTPClient) UpsertProfile(ctx context.Context, in validation.ProfileInput) (*models.Profile, error) {
	return c.profile(ctx, http.MethodPost, "/api/profile", in, true)
}

func (c *HTTPClient) AddExperience(ctx context.Context, in validation.ExperienceInput) (*models.Profile, error) {
	return c.profile(ctx, http.MethodPost, "/api/profile/experience", in, true)
}

func (c *HTTPClient) AddEducation(ctx context.Context, in validation.EducationInput) (*models.Profile, error) {
	return c.profile(ctx, http.MethodPost, "/api/profile/education", in, true)
}

func (c *HTTPClient) RemoveExperience(ctx context.Context, id string) (*models.Profile, error) {
	return c.profile(ctx, http.MethodDelete, "/api/profile/experience/"+url.PathEscape(id), nil, true)
}

func (c *HTTPClient) RemoveEducation(ctx context.Context, id string) (*models.Profile, error) {
	return c.profile(ctx, http.MethodDelete, "/api/profile/education/"+url.PathEscape(id), nil, true)
}

func (c *HTTPClient) Posts(ctx context.Context) ([]*models.Post, error) {
	var list []*models.Post
	if err := c.do(ctx, http.MethodGet, "/api/posts", nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (c *HTTPClient) CreatePost(ctx context.Context, in validation.PostInput) (*models.Post, error) {
	var p models.Post
	if err := c.authed(ctx, http.MethodPost, "/api/posts", in, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *HTTPClient) PrepareAvatarUpload(ctx context.Context, contentType string) (*AvatarUpload, error) {
	var up AvatarUpload
	body := map[string]string{"content_type": contentType}
	if err := c.authed(ctx, http.MethodPost, "/api/users/avatar", body, &up); err != nil {
		return nil, err
	}
	return &up, nil
}

// DeleteAccount removes the account and forgets the token.
func (c *HTTPClient) DeleteAccount(ctx context.Context) error {
	if err := c.authed(ctx, http.MethodDelete, "/api/profile", nil, nil); err != nil {
		return err
	}
	c.token = ""
	return nil
}
