package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/devconnector/internal/common"
	"github.com/dmitrijs2005/devconnector/internal/server/config"
	"github.com/dmitrijs2005/devconnector/internal/server/models"
	"github.com/dmitrijs2005/devconnector/internal/server/repositories/posts"
	"github.com/dmitrijs2005/devconnector/internal/server/repositories/profiles"
	"github.com/dmitrijs2005/devconnector/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/devconnector/internal/server/repositories/users"
	"github.com/dmitrijs2005/devconnector/internal/validation"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var errBoom = errors.New("boom")

func testConfig() *config.Config {
	return &config.Config{
		SecretKey:                   "k",
		AccessTokenValidityDuration: time.Hour,
		PasswordHashCost:            bcrypt.MinCost,
	}
}

// steppingClock makes now() advance one second per call.
func steppingClock(t *testing.T) {
	t.Helper()
	orig := now
	cur := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	now = func() time.Time {
		cur = cur.Add(time.Second)
		return cur
	}
	t.Cleanup(func() { now = orig })
}

type fixture struct {
	rm       *repomanager.MemoryRepositoryManager
	users    *UserService
	profiles *ProfileService
	posts    *PostService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	steppingClock(t)
	rm := repomanager.NewMemoryRepositoryManager()
	return &fixture{
		rm:       rm,
		users:    NewUserService(rm, testConfig()),
		profiles: NewProfileService(rm),
		posts:    NewPostService(rm),
	}
}

// register creates an account and returns its authenticated subject.
func (f *fixture) register(t *testing.T, name, email string) *models.Subject {
	t.Helper()
	ctx := context.Background()

	_, err := f.users.Register(ctx, validation.RegisterInput{Name: name, Email: email, Password: "secret123"})
	require.NoError(t, err)

	res, err := f.users.Login(ctx, validation.LoginInput{Email: email, Password: "secret123"})
	require.NoError(t, err)

	subj, err := f.users.Authenticate(ctx, res.Token[len(common.BearerPrefix):])
	require.NoError(t, err)
	return subj
}

func fieldsOf(t *testing.T, err error) map[string]string {
	t.Helper()
	var fe *common.FieldError
	require.ErrorAs(t, err, &fe)
	return fe.Fields
}

// brokenManager returns repositories that fail every call.
type brokenManager struct {
	repomanager.RepositoryManager
}

func (brokenManager) Users() users.Repository       { return brokenUsers{} }
func (brokenManager) Profiles() profiles.Repository { return brokenProfiles{} }
func (brokenManager) Posts() posts.Repository       { return brokenPosts{} }
func (m brokenManager) WithTx(ctx context.Context, fn func(context.Context, repomanager.RepositoryManager) error) error {
	return fn(ctx, m)
}

type brokenUsers struct{ users.Repository }

func (brokenUsers) Create(context.Context, *models.User) (*models.User, error) { return nil, errBoom }
func (brokenUsers) GetByEmail(context.Context, string) (*models.User, error)   { return nil, errBoom }
func (brokenUsers) GetByID(context.Context, string) (*models.User, error)      { return nil, errBoom }
func (brokenUsers) UpdateAvatar(context.Context, string, string) error         { return errBoom }
func (brokenUsers) Delete(context.Context, string) error                       { return errBoom }

type brokenProfiles struct{ profiles.Repository }

func (brokenProfiles) Create(context.Context, *models.Profile) error                { return errBoom }
func (brokenProfiles) Update(context.Context, *models.Profile) error                { return errBoom }
func (brokenProfiles) GetByUserID(context.Context, string) (*models.Profile, error) { return nil, errBoom }
func (brokenProfiles) GetByHandle(context.Context, string) (*models.Profile, error) { return nil, errBoom }
func (brokenProfiles) List(context.Context) ([]*models.Profile, error)              { return nil, errBoom }
func (brokenProfiles) DeleteByUserID(context.Context, string) error                 { return errBoom }

type brokenPosts struct{ posts.Repository }

func (brokenPosts) Create(context.Context, *models.Post) error            { return errBoom }
func (brokenPosts) Update(context.Context, *models.Post) error            { return errBoom }
func (brokenPosts) GetByID(context.Context, string) (*models.Post, error) { return nil, errBoom }
func (brokenPosts) List(context.Context) ([]*models.Post, error)          { return nil, errBoom }
func (brokenPosts) Delete(context.Context, string) error                  { return errBoom }
func (brokenPosts) DeleteByUserID(context.Context, string) error          { return errBoom }
