package services

import (
	"context"
	"strings"
	"testing"

	"github.com/dmitrijs2005/devconnector/internal/common"
	"github.com/dmitrijs2005/devconnector/internal/optional"
	"github.com/dmitrijs2005/devconnector/internal/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterLoginUpsertLookup(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.users.Register(ctx, validation.RegisterInput{Name: "Ann", Email: "a@x.com", Password: "secret123", Password2: "secret123"})
	require.NoError(t, err)

	res, err := f.users.Login(ctx, validation.LoginInput{Email: "a@x.com", Password: "secret123"})
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(res.Token, common.BearerPrefix))

	subj, err := f.users.Authenticate(ctx, strings.TrimPrefix(res.Token, common.BearerPrefix))
	require.NoError(t, err)

	_, err = f.profiles.Upsert(ctx, subj.ID, validation.ProfileInput{
		Handle: optional.Of("ann"),
		Status: optional.Of("student"),
	})
	require.NoError(t, err)

	p, err := f.profiles.GetByHandle(ctx, "ann")
	require.NoError(t, err)
	assert.Equal(t, "Ann", p.User.Name)
	assert.Equal(t, subj.ID, p.User.ID)
	assert.Equal(t, "student", p.Status)
}
