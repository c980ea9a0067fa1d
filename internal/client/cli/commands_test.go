package cli

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/devconnector/internal/client/api"
	"github.com/dmitrijs2005/devconnector/internal/optional"
	"github.com/dmitrijs2005/devconnector/internal/server/models"
	"github.com/dmitrijs2005/devconnector/internal/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClient records requests and returns canned responses.
type fakeClient struct {
	token string
	err   error

	registered validation.RegisterInput
	login      validation.LoginInput
	upsert     validation.ProfileInput
	experience validation.ExperienceInput
	education  validation.EducationInput
	post       validation.PostInput

	removed     string
	contentType string
	deleted     bool

	profile  *models.Profile
	profiles []*models.Profile
	posts    []*models.Post
}

var _ api.Client = (*fakeClient)(nil)

func (f *fakeClient) Register(_ context.Context, in validation.RegisterInput) (*models.User, error) {
	f.registered = in
	if f.err != nil {
		return nil, f.err
	}
	return &models.User{ID: "u1", Name: in.Name, Email: in.Email}, nil
}

func (f *fakeClient) Login(_ context.Context, in validation.LoginInput) error {
	f.login = in
	if f.err != nil {
		return f.err
	}
	f.token = "Bearer t"
	return nil
}

func (f *fakeClient) Logout()        { f.token = "" }
func (f *fakeClient) LoggedIn() bool { return f.token != "" }

func (f *fakeClient) Current(context.Context) (*models.Subject, error) {
	if f.token == "" {
		return nil, api.ErrNotLoggedIn
	}
	return &models.Subject{ID: "u1", Name: "Ann", Email: "a@x.com"}, nil
}

func (f *fakeClient) OwnProfile(context.Context) (*models.Profile, error) { return f.profile, f.err }
func (f *fakeClient) Profiles(context.Context) ([]*models.Profile, error) { return f.profiles, f.err }
func (f *fakeClient) ProfileByHandle(_ context.Context, h string) (*models.Profile, error) {
	if f.profile == nil || f.profile.Handle != h {
		return nil, &api.APIError{Status: 404, Fields: map[string]string{"noprofile": "There is no profile for this user"}}
	}
	return f.profile, nil
}

func (f *fakeClient) UpsertProfile(_ context.Context, in validation.ProfileInput) (*models.Profile, error) {
	f.upsert = in
	return f.profile, f.err
}

func (f *fakeClient) AddExperience(_ context.Context, in validation.ExperienceInput) (*models.Profile, error) {
	f.experience = in
	return &models.Profile{Experience: []models.Experience{{ID: "e1", Title: in.Title}}}, f.err
}

func (f *fakeClient) AddEducation(_ context.Context, in validation.EducationInput) (*models.Profile, error) {
	f.education = in
	return &models.Profile{Education: []models.Education{{ID: "d1", School: in.School}}}, f.err
}

func (f *fakeClient) RemoveExperience(_ context.Context, id string) (*models.Profile, error) {
	f.removed = id
	return f.profile, f.err
}

func (f *fakeClient) RemoveEducation(_ context.Context, id string) (*models.Profile, error) {
	f.removed = id
	return f.profile, f.err
}

func (f *fakeClient) Posts(context.Context) ([]*models.Post, error) { return f.posts, f.err }

func (f *fakeClient) CreatePost(_ context.Context, in validation.PostInput) (*models.Post, error) {
	f.post = in
	return &models.Post{ID: "p1", Text: in.Text}, f.err
}

func (f *fakeClient) PrepareAvatarUpload(_ context.Context, contentType string) (*api.AvatarUpload, error) {
	f.contentType = contentType
	if f.err != nil {
		return nil, f.err
	}
	return &api.AvatarUpload{URL: "https://bucket/avatars/u1?sig=x", Avatar: "https://cdn/avatars/u1"}, nil
}

func (f *fakeClient) DeleteAccount(context.Context) error {
	f.deleted = true
	f.token = ""
	return f.err
}

func readerFromLines(lines ...string) *bufio.Reader {
	return bufio.NewReader(strings.NewReader(strings.Join(lines, "\n") + "\n"))
}

func newTestApp(c *fakeClient, in *bufio.Reader) (*App, *bytes.Buffer) {
	var out bytes.Buffer
	return &App{api: c, reader: in, out: &out}, &out
}

// stubPasswords makes getPassword return the given values in order.
func stubPasswords(t *testing.T, pws ...string) *[][]byte {
	t.Helper()
	var handed [][]byte
	orig := getPassword
	getPassword = func(string, io.Writer) ([]byte, error) {
		if len(pws) == 0 {
			return nil, errors.New("no more passwords")
		}
		b := []byte(pws[0])
		pws = pws[1:]
		handed = append(handed, b)
		return b, nil
	}
	t.Cleanup(func() { getPassword = orig })
	return &handed
}

func TestApp_Register(t *testing.T) {
	handed := stubPasswords(t, "secret123", "secret123")
	c := &fakeClient{}
	a, out := newTestApp(c, readerFromLines("Ann", "a@x.com"))

	require.NoError(t, a.Register(context.Background()))

	assert.Equal(t, validation.RegisterInput{Name: "Ann", Email: "a@x.com", Password: "secret123", Password2: "secret123"}, c.registered)
	assert.Contains(t, out.String(), "Registered Ann <a@x.com>")

	// password buffers are wiped after use
	for _, b := range *handed {
		assert.Equal(t, make([]byte, len(b)), b)
	}
}

func TestApp_RegisterError(t *testing.T) {
	stubPasswords(t, "secret123", "secret123")
	c := &fakeClient{err: &api.APIError{Status: 400, Fields: map[string]string{"email": "Email already exists"}}}
	a, _ := newTestApp(c, readerFromLines("Ann", "a@x.com"))

	err := a.Register(context.Background())
	var apiErr *api.APIError
	require.ErrorAs(t, err, &apiErr)
}

func TestApp_LoginLogout(t *testing.T) {
	stubPasswords(t, "secret123")
	c := &fakeClient{}
	a, out := newTestApp(c, readerFromLines("a@x.com"))

	require.NoError(t, a.Login(context.Background()))
	assert.Equal(t, "a@x.com", c.login.Email)
	assert.Equal(t, "secret123", c.login.Password)
	assert.True(t, a.isLoggedIn())
	assert.Equal(t, "(Ann)", a.getStatus())
	assert.Contains(t, out.String(), "Logged in as Ann.")

	require.NoError(t, a.WhoAmI(context.Background()))
	assert.Contains(t, out.String(), "Ann <a@x.com> (id u1)")

	require.NoError(t, a.Logout(context.Background()))
	assert.False(t, a.isLoggedIn())
	assert.Equal(t, "", a.getStatus())
}

func TestApp_LoginPasswordError(t *testing.T) {
	stubPasswords(t)
	a, _ := newTestApp(&fakeClient{}, readerFromLines("a@x.com"))

	assert.Error(t, a.Login(context.Background()))
	assert.False(t, a.isLoggedIn())
}

func TestApp_EditProfile(t *testing.T) {
	c := &fakeClient{token: "Bearer t", profile: &models.Profile{Handle: "ann", User: models.UserRef{Name: "Ann"}, Status: "Developer"}}
	a, out := newTestApp(c, readerFromLines(
		"ann",       // handle
		"",          // status: keep
		"-",         // company: clear
		"",          // website
		"Riga",      // location
		"go, sql",   // skills
		"", "", "", "", "", "",
		"Hello", "", // bio
	))

	require.NoError(t, a.EditProfile(context.Background()))

	h, ok := c.upsert.Handle.Get()
	assert.True(t, ok)
	assert.Equal(t, "ann", h)
	assert.Equal(t, optional.Value[string]{}, c.upsert.Status, "empty answer keeps the field")
	assert.Equal(t, optional.Of(""), c.upsert.Company, "dash clears the field")
	assert.Equal(t, optional.Of("Riga"), c.upsert.Location)
	assert.Equal(t, optional.Of("go, sql"), c.upsert.Skills)
	assert.Equal(t, optional.Value[string]{}, c.upsert.Twitter)
	assert.Equal(t, optional.Of("Hello"), c.upsert.Bio)
	assert.Contains(t, out.String(), "Profile saved.")
}

func TestApp_EditProfileRequiresLogin(t *testing.T) {
	a, _ := newTestApp(&fakeClient{}, readerFromLines())
	assert.ErrorIs(t, a.EditProfile(context.Background()), api.ErrNotLoggedIn)
	assert.ErrorIs(t, a.Post(context.Background()), api.ErrNotLoggedIn)
	assert.ErrorIs(t, a.AddExperience(context.Background()), api.ErrNotLoggedIn)
	assert.ErrorIs(t, a.AddEducation(context.Background()), api.ErrNotLoggedIn)
	assert.ErrorIs(t, a.DeleteAccount(context.Background()), api.ErrNotLoggedIn)
}

func TestApp_AddExperience(t *testing.T) {
	c := &fakeClient{token: "Bearer t"}
	a, out := newTestApp(c, readerFromLines("Dev", "Acme", "Riga", "2020-01-01", "", "Built things", ""))

	require.NoError(t, a.AddExperience(context.Background()))

	assert.Equal(t, validation.ExperienceInput{
		Title: "Dev", Company: "Acme", Location: "Riga", From: "2020-01-01", Current: true, Description: "Built things",
	}, c.experience)
	assert.Contains(t, out.String(), "Experience added (id e1).")
}

func TestApp_AddEducation(t *testing.T) {
	c := &fakeClient{token: "Bearer t"}
	a, out := newTestApp(c, readerFromLines("MIT", "BSc", "CS", "2010-09-01", "2014-06-01", ""))

	require.NoError(t, a.AddEducation(context.Background()))

	assert.Equal(t, "MIT", c.education.School)
	assert.Equal(t, "2014-06-01", c.education.To)
	assert.False(t, c.education.Current)
	assert.Contains(t, out.String(), "Education added (id d1).")
}

func TestApp_RemoveSubRecords(t *testing.T) {
	c := &fakeClient{token: "Bearer t"}
	a, out := newTestApp(c, readerFromLines())

	require.NoError(t, a.RemoveExperience(context.Background(), "e1"))
	assert.Equal(t, "e1", c.removed)
	require.NoError(t, a.RemoveEducation(context.Background(), "d1"))
	assert.Equal(t, "d1", c.removed)
	assert.Contains(t, out.String(), "Education removed.")
}

func TestApp_ProfilesAndHandle(t *testing.T) {
	to := time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)
	p := &models.Profile{
		Handle: "ann", User: models.UserRef{Name: "Ann"}, Status: "Developer", Company: "Acme",
		Skills:     []string{"go", "sql"},
		Experience: []models.Experience{{ID: "e1", Title: "Dev", Company: "Acme", From: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), To: &to}},
	}
	c := &fakeClient{profile: p, profiles: []*models.Profile{p}}
	a, out := newTestApp(c, readerFromLines())

	require.NoError(t, a.Profiles(context.Background()))
	assert.Contains(t, out.String(), "@ann  Ann  Developer at Acme  [go, sql]")

	require.NoError(t, a.Handle(context.Background(), "ann"))
	assert.Contains(t, out.String(), "[e1] Dev at Acme, 2020-01-01 - 2021-01-01")

	assert.Error(t, a.Handle(context.Background(), "bob"))
}

func TestApp_ProfilesEmpty(t *testing.T) {
	a, out := newTestApp(&fakeClient{}, readerFromLines())
	require.NoError(t, a.Profiles(context.Background()))
	require.NoError(t, a.Posts(context.Background()))
	assert.Contains(t, out.String(), "No profiles yet.")
	assert.Contains(t, out.String(), "No posts yet.")
}

func TestApp_PostAndList(t *testing.T) {
	c := &fakeClient{token: "Bearer t", posts: []*models.Post{{ID: "p1", Name: "Ann", Text: "line one\nline two"}}}
	a, out := newTestApp(c, readerFromLines("hello from the cli", ""))

	require.NoError(t, a.Post(context.Background()))
	assert.Equal(t, "hello from the cli", c.post.Text)
	assert.Contains(t, out.String(), "Posted (id p1).")

	require.NoError(t, a.Posts(context.Background()))
	assert.Contains(t, out.String(), "  line one\n  line two\n")
}

func TestApp_DeleteAccount(t *testing.T) {
	t.Run("cancelled", func(t *testing.T) {
		c := &fakeClient{token: "Bearer t"}
		a, out := newTestApp(c, readerFromLines("n"))

		require.NoError(t, a.DeleteAccount(context.Background()))
		assert.False(t, c.deleted)
		assert.Contains(t, out.String(), "Cancelled.")
	})

	t.Run("confirmed", func(t *testing.T) {
		c := &fakeClient{token: "Bearer t"}
		a, out := newTestApp(c, readerFromLines("yes"))
		a.userName = "Ann"

		require.NoError(t, a.DeleteAccount(context.Background()))
		assert.True(t, c.deleted)
		assert.False(t, a.isLoggedIn())
		assert.Empty(t, a.userName)
		assert.Contains(t, out.String(), "Account deleted.")
	})
}

func TestApp_Avatar(t *testing.T) {
	png := []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A, 0, 0, 0, 0x0D, 'I', 'H', 'D', 'R'}
	path := filepath.Join(t.TempDir(), "me.png")
	require.NoError(t, os.WriteFile(path, png, 0o600))

	var gotURL, gotCT string
	var gotBody []byte
	orig := uploadFn
	uploadFn = func(_ context.Context, url, contentType string, body []byte) error {
		gotURL, gotCT, gotBody = url, contentType, body
		return nil
	}
	t.Cleanup(func() { uploadFn = orig })

	c := &fakeClient{token: "Bearer t"}
	a, out := newTestApp(c, readerFromLines())

	require.NoError(t, a.Avatar(context.Background(), path))
	assert.Equal(t, "image/png", c.contentType)
	assert.Equal(t, "https://bucket/avatars/u1?sig=x", gotURL)
	assert.Equal(t, "image/png", gotCT)
	assert.Equal(t, png, gotBody)
	assert.Contains(t, out.String(), "Avatar updated: https://cdn/avatars/u1")
}

func TestApp_AvatarErrors(t *testing.T) {
	orig := uploadFn
	uploadFn = func(context.Context, string, string, []byte) error { return errors.New("403 Forbidden") }
	t.Cleanup(func() { uploadFn = orig })

	path := filepath.Join(t.TempDir(), "me.gif")
	require.NoError(t, os.WriteFile(path, []byte("GIF89a...."), 0o600))

	a, _ := newTestApp(&fakeClient{}, readerFromLines())
	assert.ErrorIs(t, a.Avatar(context.Background(), path), api.ErrNotLoggedIn)

	a, _ = newTestApp(&fakeClient{token: "Bearer t"}, readerFromLines())
	assert.Error(t, a.Avatar(context.Background(), filepath.Join(t.TempDir(), "missing.png")))

	err := a.Avatar(context.Background(), path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "avatar upload")

	disabled := &api.APIError{Status: 404, Fields: map[string]string{"avatar": "Avatar uploads are not enabled"}}
	a, _ = newTestApp(&fakeClient{token: "Bearer t", err: disabled}, readerFromLines())
	assert.ErrorIs(t, a.Avatar(context.Background(), path), disabled)
}
