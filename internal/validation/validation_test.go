package validation

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/devconnector/internal/common"
	"github.com/dmitrijs2005/devconnector/internal/optional"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fields(t *testing.T, err error) map[string]string {
	t.Helper()
	require.Error(t, err)
	require.ErrorIs(t, err, common.ErrorValidation)

	var fe *common.FieldError
	require.True(t, errors.As(err, &fe))
	return fe.Fields
}

func TestRegister(t *testing.T) {
	tests := []struct {
		name string
		in   RegisterInput
		want map[string]string
	}{
		{
			name: "valid",
			in:   RegisterInput{Name: "Ann", Email: "a@x.com", Password: "secret123"},
		},
		{
			name: "valid with confirmation",
			in:   RegisterInput{Name: "Ann", Email: "a@x.com", Password: "secret123", Password2: "secret123"},
		},
		{
			name: "all missing",
			in:   RegisterInput{Name: "  "},
			want: map[string]string{
				"name":     "Name field is required",
				"email":    "Email field is required",
				"password": "Password field is required",
			},
		},
		{
			name: "bad shapes",
			in:   RegisterInput{Name: "A", Email: "not-an-email", Password: "123", Password2: "1234"},
			want: map[string]string{
				"name":      "Name must be between 2 and 30 characters",
				"email":     "Email is invalid",
				"password":  "Password must be between 6 and 30 characters",
				"password2": "Passwords must match",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Register(tt.in)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.Equal(t, tt.want, fields(t, err))
		})
	}
}

func TestLogin(t *testing.T) {
	assert.NoError(t, Login(LoginInput{Email: "a@x.com", Password: "x"}))

	assert.Equal(t, map[string]string{
		"email":    "Email field is required.",
		"password": "Password field is required.",
	}, fields(t, Login(LoginInput{})))

	assert.Equal(t, map[string]string{
		"email": "Email is invalid",
	}, fields(t, Login(LoginInput{Email: "nope", Password: "x"})))
}

func TestProfile_Create(t *testing.T) {
	assert.NoError(t, Profile(ProfileInput{
		Handle: optional.Of("ann"),
		Status: optional.Of("student"),
	}, true))

	assert.Equal(t, map[string]string{
		"handle": "Profile handle is required",
		"status": "Status field is required",
	}, fields(t, Profile(ProfileInput{}, true)))
}

func TestProfile_UpdateChecksOnlySuppliedFields(t *testing.T) {
	assert.NoError(t, Profile(ProfileInput{Location: optional.Of("X")}, false))
	assert.NoError(t, Profile(ProfileInput{}, false))

	// a supplied required field cannot be blanked
	assert.Equal(t, map[string]string{
		"status": "Status field is required",
	}, fields(t, Profile(ProfileInput{Status: optional.Of(" ")}, false)))

	// optional URLs may be cleared
	assert.NoError(t, Profile(ProfileInput{Website: optional.Of("")}, false))
}

func TestProfile_Formats(t *testing.T) {
	got := fields(t, Profile(ProfileInput{
		Handle:    optional.Of("a"),
		Website:   optional.Of("not a url"),
		Twitter:   optional.Of("https://twitter.com/ann"),
		Instagram: optional.Of("insta"),
	}, false))

	assert.Equal(t, map[string]string{
		"handle":    "Handle needs to be between 2 and 40 characters",
		"website":   "Not a valid URL",
		"instagram": "Not a valid URL",
	}, got)

	got = fields(t, Profile(ProfileInput{Handle: optional.Of("ann/../x")}, false))
	assert.Equal(t, "Handle must not contain spaces or slashes", got["handle"])

	got = fields(t, Profile(ProfileInput{Handle: optional.Of(strings.Repeat("h", 41))}, false))
	assert.Contains(t, got, "handle")
}

func TestExperience(t *testing.T) {
	assert.NoError(t, Experience(ExperienceInput{Title: "Dev", Company: "Acme", From: "2020-01-01"}))
	assert.NoError(t, Experience(ExperienceInput{Title: "Dev", Company: "Acme", From: "2020-01-01T00:00:00Z", To: "2021-01-01"}))

	assert.Equal(t, map[string]string{
		"title":   "Job title field is required",
		"company": "Company field is required",
		"from":    "From date field is required",
	}, fields(t, Experience(ExperienceInput{})))

	assert.Equal(t, map[string]string{
		"from": "From date is invalid",
		"to":   "To date is invalid",
	}, fields(t, Experience(ExperienceInput{Title: "Dev", Company: "Acme", From: "yesterday", To: "tomorrow"})))

	assert.Equal(t, map[string]string{
		"to": "To date must not be before from date",
	}, fields(t, Experience(ExperienceInput{Title: "Dev", Company: "Acme", From: "2020-01-01", To: "2019-01-01"})))
}

func TestEducation(t *testing.T) {
	assert.NoError(t, Education(EducationInput{School: "MIT", Degree: "BSc", FieldOfStudy: "CS", From: "2010-09-01"}))

	assert.Equal(t, map[string]string{
		"school":       "School field is required",
		"degree":       "Degree field is required",
		"fieldofstudy": "Field of study field is required",
		"from":         "From date field is required",
	}, fields(t, Education(EducationInput{})))
}

func TestPost(t *testing.T) {
	assert.NoError(t, Post(PostInput{Text: "hello world!"}))

	assert.Equal(t, map[string]string{
		"text": "Text field is required",
	}, fields(t, Post(PostInput{Text: "   "})))

	assert.Equal(t, map[string]string{
		"text": "Post must be between 10 and 280 characters",
	}, fields(t, Post(PostInput{Text: "short"})))

	assert.Contains(t, fields(t, Post(PostInput{Text: strings.Repeat("x", 281)})), "text")
	assert.NoError(t, Post(PostInput{Text: strings.Repeat("x", 280)}))
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2020-02-03")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2020, 2, 3, 0, 0, 0, 0, time.UTC), d)

	d, err = ParseDate("2020-02-03T10:00:00+02:00")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2020, 2, 3, 8, 0, 0, 0, time.UTC), d)

	_, err = ParseDate("03/02/2020")
	assert.ErrorIs(t, err, ErrInvalidDate)
}
