package handlers

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"warbler/internal/config"
	"warbler/internal/models"
	"warbler/internal/repository"
	"warbler/internal/services"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testPassword = "password"

func setupTestHandler(t *testing.T) (*Handler, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, repository.AutoMigrate(db))

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := config.Config{
		SessionSecret: "test-secret-12345678901234567890123456789012",
		SessionMaxAge: 3600,
	}

	userRepo := repository.NewUserRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	followRepo := repository.NewFollowRepository(db)
	likeRepo := repository.NewLikeRepository(db)

	stats := services.NewStatsService(rdb, log, messageRepo, followRepo, likeRepo)
	audit := services.NewAuditService(db, log, services.NewGeoIPService("", log))
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go audit.Start(ctx)

	h := NewHandler(cfg, log,
		services.NewAccountService(userRepo, followRepo, likeRepo, stats, log),
		services.NewMessageService(messageRepo, followRepo, likeRepo, stats),
		services.NewFollowService(followRepo, userRepo, stats),
		services.NewLikeService(likeRepo, messageRepo, stats),
		stats,
		audit,
		services.NewQRService(),
	)
	return h, db
}

func setupTestRouter(h *Handler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := h.SetupRouter(nil, "../../web/templates/*.html", "../../web/static")
	r.GET("/test/session/:id", func(c *gin.Context) {
		id, _ := pathID(c, "id")
		session := sessions.Default(c)
		session.Set(CurrUserKey, id)
		_ = session.Save()
		c.Status(http.StatusOK)
	})
	return r
}

func createUser(t *testing.T, h *Handler, username string) *models.User {
	t.Helper()
	u, err := h.accounts.Signup(context.Background(), services.SignupInput{
		Username: username,
		Email:    username + "@test.com",
		Password: testPassword,
	})
	require.NoError(t, err)
	return u
}

func createMessage(t *testing.T, h *Handler, userID uint, text string) *models.Message {
	t.Helper()
	m, err := h.messages.Post(context.Background(), userID, text)
	require.NoError(t, err)
	return m
}

// sessionCookie logs userID in through the test-only session route.
func sessionCookie(t *testing.T, r *gin.Engine, userID uint) *http.Cookie {
	t.Helper()
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", fmt.Sprintf("/test/session/%d", userID), nil)
	r.ServeHTTP(w, req)
	return lastSessionCookie(t, w)
}

func lastSessionCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	var found *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == sessionName {
			found = c
		}
	}
	require.NotNil(t, found, "no session cookie set")
	return found
}

func doGet(r *gin.Engine, path string, cookie *http.Cookie) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", path, nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	r.ServeHTTP(w, req)
	return w
}

func doPost(r *gin.Engine, path string, form url.Values, cookie *http.Cookie) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	r.ServeHTTP(w, req)
	return w
}
