package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLikeRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewLikeRepository(db)
	ctx := context.Background()

	author := createUser(t, db, "author")
	fan := createUser(t, db, "fan")
	older := createMessage(t, db, author.ID, "older", time.Now().Add(-time.Hour))
	newer := createMessage(t, db, author.ID, "newer", time.Now())

	ok, err := repo.Exists(ctx, fan.ID, older.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, repo.Like(ctx, fan.ID, older.ID))
	require.NoError(t, repo.Like(ctx, fan.ID, newer.ID))
	require.NoError(t, repo.Like(ctx, fan.ID, newer.ID))

	ok, err = repo.Exists(ctx, fan.ID, older.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	n, err := repo.CountByUser(ctx, fan.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	liked, err := repo.LikedMessages(ctx, fan.ID)
	require.NoError(t, err)
	require.Len(t, liked, 2)
	assert.Equal(t, "newer", liked[0].Text)
	assert.Equal(t, "author", liked[0].User.Username)

	require.NoError(t, repo.Unlike(ctx, fan.ID, newer.ID))
	ids, err := repo.LikedMessageIDs(ctx, fan.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{older.ID}, ids)
}

func TestLikeRepository_LikerIDs(t *testing.T) {
	db := setupTestDB(t)
	repo := NewLikeRepository(db)
	ctx := context.Background()

	author := createUser(t, db, "author")
	fan := createUser(t, db, "fan")
	other := createUser(t, db, "other")
	first := createMessage(t, db, author.ID, "first", time.Now())
	second := createMessage(t, db, author.ID, "second", time.Now())
	elsewhere := createMessage(t, db, fan.ID, "elsewhere", time.Now())

	require.NoError(t, repo.Like(ctx, fan.ID, first.ID))
	require.NoError(t, repo.Like(ctx, fan.ID, second.ID))
	require.NoError(t, repo.Like(ctx, other.ID, second.ID))
	require.NoError(t, repo.Like(ctx, author.ID, elsewhere.ID))

	ids, err := repo.LikerIDs(ctx, second.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint{fan.ID, other.ID}, ids)

	ids, err = repo.AuthorLikerIDs(ctx, author.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint{fan.ID, other.ID}, ids, "each liker once")

	ids, err = repo.AuthorLikerIDs(ctx, other.ID)
	require.NoError(t, err)
	assert.Empty(t, ids)
}
