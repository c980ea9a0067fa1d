package users

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/devconnector/internal/common"
	"github.com/dmitrijs2005/devconnector/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRepository_Lifecycle(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepository()

	_, err := r.Create(ctx, &models.User{ID: "u1", Name: "Ann", Email: "a@x.com"})
	require.NoError(t, err)

	_, err = r.Create(ctx, &models.User{ID: "u2", Name: "Other", Email: "A@X.COM"})
	assert.ErrorIs(t, err, common.ErrorAlreadyExists)

	got, err := r.GetByEmail(ctx, "A@x.Com")
	require.NoError(t, err)
	assert.Equal(t, "u1", got.ID)

	require.NoError(t, r.UpdateAvatar(ctx, "u1", "pic"))
	got, err = r.GetByID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "pic", got.Avatar)

	// returned records are copies
	got.Name = "changed"
	again, _ := r.GetByID(ctx, "u1")
	assert.Equal(t, "Ann", again.Name)

	require.NoError(t, r.Delete(ctx, "u1"))
	_, err = r.GetByID(ctx, "u1")
	assert.ErrorIs(t, err, common.ErrorNotFound)
	assert.ErrorIs(t, r.Delete(ctx, "u1"), common.ErrorNotFound)
	assert.ErrorIs(t, r.UpdateAvatar(ctx, "u1", "x"), common.ErrorNotFound)
}

func TestMemoryRepository_SnapshotRestore(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepository()

	_, err := r.Create(ctx, &models.User{ID: "u1", Email: "a@x.com"})
	require.NoError(t, err)

	snap := r.Snapshot()
	require.NoError(t, r.Delete(ctx, "u1"))

	r.Restore(snap)
	_, err = r.GetByID(ctx, "u1")
	assert.NoError(t, err)
}
