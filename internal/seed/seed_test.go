package seed

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/collegeportal/internal/app/models"
	"github.com/yigit/collegeportal/internal/pkg/kvstore"
)

func TestBootstrap(t *testing.T) {
	ctx := context.Background()
	store := kvstore.NewStore(kvstore.NewMemoryBackend(), zerolog.Nop())

	seeded, err := Bootstrap(ctx, store, zerolog.Nop())
	require.NoError(t, err)
	assert.True(t, seeded)

	users := kvstore.Load(ctx, store, kvstore.KeyUsers, []models.User{})
	require.Len(t, users, 1)
	assert.Equal(t, PrimaryAdmin(), users[0])
	assert.True(t, users[0].IsAdmin)

	t.Run("never reseeds", func(t *testing.T) {
		require.NoError(t, store.Write(ctx, kvstore.KeyUsers, []models.User{}))

		seeded, err := Bootstrap(ctx, store, zerolog.Nop())
		require.NoError(t, err)
		assert.False(t, seeded)
		assert.Empty(t, kvstore.Load(ctx, store, kvstore.KeyUsers, []models.User{}))
	})
}

func TestBootstrapKeepsExistingUsers(t *testing.T) {
	ctx := context.Background()
	store := kvstore.NewStore(kvstore.NewMemoryBackend(), zerolog.Nop())
	existing := models.User{ID: "u1", Username: "asha", Friends: []string{}, FriendRequestsSent: []string{}, FriendRequestsReceived: []string{}}
	require.NoError(t, store.Write(ctx, kvstore.KeyUsers, []models.User{existing}))

	_, err := Bootstrap(ctx, store, zerolog.Nop())
	require.NoError(t, err)

	users := kvstore.Load(ctx, store, kvstore.KeyUsers, []models.User{})
	require.Len(t, users, 2)
	assert.Equal(t, "u1", users[0].ID)
	assert.Equal(t, models.PrimaryAdminID, users[1].ID)
}
