package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"warbler/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB opens a private in-memory database. A single connection keeps
// every query on the same memory store.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, AutoMigrate(db))
	return db
}

func createUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	u := &models.User{
		Username: username,
		Email:    fmt.Sprintf("%s@test.com", username),
		Password: "HASHED_PASSWORD",
	}
	require.NoError(t, NewUserRepository(db).Create(context.Background(), u))
	return u
}

func createMessage(t *testing.T, db *gorm.DB, userID uint, text string, at time.Time) *models.Message {
	t.Helper()
	m := &models.Message{Text: text, UserID: userID, Timestamp: at}
	require.NoError(t, NewMessageRepository(db).Create(context.Background(), m))
	return m
}
