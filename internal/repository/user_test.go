package repository

import (
	"context"
	"testing"
	"time"

	"warbler/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository_Create(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	u := createUser(t, db, "testuser")
	assert.NotZero(t, u.ID)

	t.Run("New user has no messages and no followers", func(t *testing.T) {
		msgs, err := NewMessageRepository(db).ListByUser(ctx, u.ID, 0)
		require.NoError(t, err)
		assert.Empty(t, msgs)

		followers, err := NewFollowRepository(db).Followers(ctx, u.ID)
		require.NoError(t, err)
		assert.Empty(t, followers)
	})

	t.Run("Duplicate username", func(t *testing.T) {
		err := repo.Create(ctx, &models.User{Username: "testuser", Email: "other@test.com", Password: "x"})
		require.Error(t, err)
		assert.True(t, models.IsConflict(err))
		assert.Contains(t, err.Error(), "Username already taken")
	})

	t.Run("Duplicate email", func(t *testing.T) {
		err := repo.Create(ctx, &models.User{Username: "someoneelse", Email: "testuser@test.com", Password: "x"})
		require.Error(t, err)
		assert.True(t, models.IsConflict(err))
		assert.Contains(t, err.Error(), "Email already taken")
	})
}

func TestUserRepository_Lookup(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()
	u := createUser(t, db, "finder")

	t.Run("GetByID", func(t *testing.T) {
		got, err := repo.GetByID(ctx, u.ID)
		require.NoError(t, err)
		assert.Equal(t, "finder", got.Username)
	})

	t.Run("GetByID Not Found", func(t *testing.T) {
		got, err := repo.GetByID(ctx, 9999)
		assert.Nil(t, got)
		assert.True(t, models.IsNotFound(err))
	})

	t.Run("GetByUsername", func(t *testing.T) {
		got, err := repo.GetByUsername(ctx, "finder")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, u.ID, got.ID)
	})

	t.Run("GetByUsername Missing", func(t *testing.T) {
		got, err := repo.GetByUsername(ctx, "nobody")
		assert.NoError(t, err)
		assert.Nil(t, got)
	})
}

func TestUserRepository_List(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()
	createUser(t, db, "bob")
	createUser(t, db, "alice")
	createUser(t, db, "bobby")

	all, err := repo.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "alice", all[0].Username)

	filtered, err := repo.List(ctx, "bob")
	require.NoError(t, err)
	assert.Len(t, filtered, 2)
}

func TestUserRepository_ListEscapesWildcards(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()
	createUser(t, db, "bob_one")
	createUser(t, db, "bobtwo")
	createUser(t, db, "carol")

	got, err := repo.List(ctx, "_")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "bob_one", got[0].Username)

	got, err = repo.List(ctx, "%")
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = repo.List(ctx, `\`)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestUserRepository_Update(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()
	u := createUser(t, db, "editme")
	createUser(t, db, "taken")

	u.Username = "edited"
	u.Email = "edited@test.com"
	u.Bio = "hello"
	require.NoError(t, repo.Update(ctx, u))

	got, err := repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "edited", got.Username)
	assert.Equal(t, "edited@test.com", got.Email)
	assert.Equal(t, "hello", got.Bio)
	assert.Equal(t, "HASHED_PASSWORD", got.Password)

	t.Run("Conflict", func(t *testing.T) {
		got.Username = "taken"
		err := repo.Update(ctx, got)
		assert.True(t, models.IsConflict(err))
	})

	t.Run("Missing user", func(t *testing.T) {
		err := repo.Update(ctx, &models.User{ID: 4242, Username: "ghost", Email: "ghost@test.com"})
		assert.True(t, models.IsNotFound(err))
	})
}

func TestUserRepository_DeleteCascades(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	users := NewUserRepository(db)
	messages := NewMessageRepository(db)
	follows := NewFollowRepository(db)
	likes := NewLikeRepository(db)

	u1 := createUser(t, db, "leaver")
	u2 := createUser(t, db, "stayer")
	m1 := createMessage(t, db, u1.ID, "goodbye", time.Now())
	m2 := createMessage(t, db, u2.ID, "still here", time.Now())
	require.NoError(t, follows.Follow(ctx, u1.ID, u2.ID))
	require.NoError(t, follows.Follow(ctx, u2.ID, u1.ID))
	require.NoError(t, likes.Like(ctx, u2.ID, m1.ID))
	require.NoError(t, likes.Like(ctx, u1.ID, m2.ID))

	require.NoError(t, users.Delete(ctx, u1.ID))

	_, err := users.GetByID(ctx, u1.ID)
	assert.True(t, models.IsNotFound(err))

	_, err = messages.GetByID(ctx, m1.ID)
	assert.True(t, models.IsNotFound(err))

	count, err := messages.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	var edges, likeRows int64
	db.Model(&models.Follow{}).Count(&edges)
	db.Model(&models.Like{}).Count(&likeRows)
	assert.Zero(t, edges)
	assert.Zero(t, likeRows)

	t.Run("Delete missing user", func(t *testing.T) {
		err := users.Delete(ctx, u1.ID)
		assert.True(t, models.IsNotFound(err))
	})
}
