package services

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"warbler/internal/models"
	"warbler/internal/repository"

	"github.com/alicebob/miniredis/v2"
	"github.com/glebarez/sqlite"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

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

type testEnv struct {
	db       *gorm.DB
	mr       *miniredis.Miniredis
	rdb      *redis.Client
	stats    *StatsService
	accounts *AccountService
	messages *MessageService
	follows  *FollowService
	likes    *LikeService
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := setupTestDB(t)
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	userRepo := repository.NewUserRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	followRepo := repository.NewFollowRepository(db)
	likeRepo := repository.NewLikeRepository(db)

	stats := NewStatsService(rdb, testLogger, messageRepo, followRepo, likeRepo)
	return &testEnv{
		db:       db,
		mr:       mr,
		rdb:      rdb,
		stats:    stats,
		accounts: NewAccountService(userRepo, followRepo, likeRepo, stats, testLogger),
		messages: NewMessageService(messageRepo, followRepo, likeRepo, stats),
		follows:  NewFollowService(followRepo, userRepo, stats),
		likes:    NewLikeService(likeRepo, messageRepo, stats),
	}
}

func (e *testEnv) signup(t *testing.T, username string) *models.User {
	t.Helper()
	u, err := e.accounts.Signup(context.Background(), SignupInput{
		Username: username,
		Email:    username + "@test.com",
		Password: "password",
	})
	require.NoError(t, err)
	return u
}

func newTestMessage(userID uint, text string) *models.Message {
	return &models.Message{Text: text, UserID: userID, Timestamp: time.Now().UTC()}
}
