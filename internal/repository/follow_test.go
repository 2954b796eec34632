package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFollowRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewFollowRepository(db)
	ctx := context.Background()

	u1 := createUser(t, db, "testuser1")
	u2 := createUser(t, db, "testuser2")

	isFollowing := func(a, b uint) bool {
		ok, err := repo.IsFollowing(ctx, a, b)
		require.NoError(t, err)
		return ok
	}
	isFollowedBy := func(a, b uint) bool {
		ok, err := repo.IsFollowedBy(ctx, a, b)
		require.NoError(t, err)
		return ok
	}

	// Initially, user1 is not following or followed by user2
	assert.False(t, isFollowing(u1.ID, u2.ID))
	assert.False(t, isFollowedBy(u1.ID, u2.ID))

	require.NoError(t, repo.Follow(ctx, u1.ID, u2.ID))

	assert.True(t, isFollowing(u1.ID, u2.ID))
	assert.False(t, isFollowedBy(u1.ID, u2.ID))
	assert.True(t, isFollowedBy(u2.ID, u1.ID))
	assert.False(t, isFollowing(u2.ID, u1.ID))

	t.Run("Follow twice is a no-op", func(t *testing.T) {
		require.NoError(t, repo.Follow(ctx, u1.ID, u2.ID))
		n, err := repo.CountFollowing(ctx, u1.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)
	})

	t.Run("Lists", func(t *testing.T) {
		following, err := repo.Following(ctx, u1.ID)
		require.NoError(t, err)
		require.Len(t, following, 1)
		assert.Equal(t, "testuser2", following[0].Username)

		followers, err := repo.Followers(ctx, u2.ID)
		require.NoError(t, err)
		require.Len(t, followers, 1)
		assert.Equal(t, "testuser1", followers[0].Username)

		ids, err := repo.FollowingIDs(ctx, u1.ID)
		require.NoError(t, err)
		assert.Equal(t, []uint{u2.ID}, ids)

		n, err := repo.CountFollowers(ctx, u2.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)
	})

	t.Run("Unfollow", func(t *testing.T) {
		require.NoError(t, repo.Unfollow(ctx, u1.ID, u2.ID))
		assert.False(t, isFollowing(u1.ID, u2.ID))
		assert.False(t, isFollowedBy(u2.ID, u1.ID))
	})
}
