package repository

import (
	"context"
	"testing"

	"glimpse/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFriendRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewFriendRepository(db)
	ctx := context.Background()

	users := createTestUsers(t, db, 3)
	alice, bob, carol := users[0], users[1], users[2]

	t.Run("send and accept", func(t *testing.T) {
		f := &models.Friendship{SenderID: alice.ID, ReceiverID: bob.ID}
		require.NoError(t, repo.Create(ctx, f))
		assert.NotZero(t, f.ID)
		assert.False(t, f.IsAccepted)

		pending, err := repo.ListPending(ctx, bob.ID)
		assert.NoError(t, err)
		require.Len(t, pending, 1)
		assert.Equal(t, alice.ID, pending[0].SenderID)

		require.NoError(t, repo.Accept(ctx, f.ID))

		pending, err = repo.ListPending(ctx, bob.ID)
		assert.NoError(t, err)
		assert.Empty(t, pending)

		friends, err := repo.ListFriends(ctx, alice.ID)
		assert.NoError(t, err)
		assert.Len(t, friends, 1)
	})

	t.Run("get between finds either direction", func(t *testing.T) {
		f, err := repo.GetBetween(ctx, bob.ID, alice.ID)
		assert.NoError(t, err)
		require.NotNil(t, f)
		assert.Equal(t, alice.ID, f.SenderID)

		f, err = repo.GetBetween(ctx, alice.ID, carol.ID)
		assert.NoError(t, err)
		assert.Nil(t, f)
	})

	t.Run("delete removes the request", func(t *testing.T) {
		f := &models.Friendship{SenderID: carol.ID, ReceiverID: alice.ID}
		require.NoError(t, repo.Create(ctx, f))
		require.NoError(t, repo.Delete(ctx, f.ID))

		got, err := repo.GetBetween(ctx, carol.ID, alice.ID)
		assert.NoError(t, err)
		assert.Nil(t, got)
	})
}
