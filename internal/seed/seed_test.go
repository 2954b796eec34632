package seed

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"warbler/internal/models"
	"warbler/internal/repository"
	"warbler/internal/services"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, repository.AutoMigrate(db))
	return db
}

func TestSeeder_Run(t *testing.T) {
	db := setupTestDB(t)
	s := NewSeeder(db, slog.New(slog.NewTextHandler(io.Discard, nil)), 42)
	ctx := context.Background()

	res, err := s.Run(ctx, Options{Users: 4, MessagesPerUser: 3, FollowsPerUser: 2, LikesPerUser: 1})
	require.NoError(t, err)

	assert.Equal(t, Result{Users: 4, Messages: 12, Follows: 8, Likes: 4}, res)

	var n int64
	require.NoError(t, db.Model(&models.Message{}).Count(&n).Error)
	assert.Equal(t, int64(12), n)

	var selfFollows int64
	require.NoError(t, db.Model(&models.Follow{}).Where("follower_id = followed_id").Count(&selfFollows).Error)
	assert.Zero(t, selfFollows)

	var messages []models.Message
	require.NoError(t, db.Find(&messages).Error)
	for _, m := range messages {
		assert.LessOrEqual(t, len([]rune(m.Text)), models.MaxMessageLength)
	}

	require.NoError(t, s.ClearAll(ctx))
	require.NoError(t, db.Model(&models.User{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestSeeder_FollowsCappedByUserCount(t *testing.T) {
	db := setupTestDB(t)
	s := NewSeeder(db, slog.New(slog.NewTextHandler(io.Discard, nil)), 7)

	res, err := s.Run(context.Background(), Options{Users: 2, FollowsPerUser: 5})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Follows)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 5))
	assert.Equal(t, "ab", truncate("abc", 2))
	assert.Equal(t, "éé", truncate("ééé", 2))
}

func TestSeeder_SignupInputIsValid(t *testing.T) {
	s := NewSeeder(nil, slog.New(slog.NewTextHandler(io.Discard, nil)), 1)
	for i := 0; i < 10; i++ {
		in := s.signupInput()
		_, err := services.NewUser(in)
		require.NoError(t, err, "username %q", in.Username)
	}
}
