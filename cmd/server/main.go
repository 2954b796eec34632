package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"warbler/internal/config"
	"warbler/internal/handlers"
	"warbler/internal/middleware"
	"warbler/internal/repository"
	"warbler/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
	"gorm.io/gorm"
)

const shutdownTimeout = 5 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := Run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// app holds everything Run starts and later stops.
type app struct {
	router      *gin.Engine
	logger      *slog.Logger
	db          *gorm.DB
	rdb         *redis.Client
	audit       *services.AuditService
	geoIP       *services.GeoIPService
	rateLimiter *services.IPRateLimiter

	stopWorkers context.CancelFunc
	workersDone <-chan struct{}
}

// setupDatabase opens the database and brings its schema up to date.
func setupDatabase(cfg config.Config, logger *slog.Logger) (*gorm.DB, error) {
	db, err := repository.InitDB(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	if strings.HasPrefix(cfg.DatabaseURL, "postgres") {
		logger.Info("Running database migrations...")
		if err := repository.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
			return nil, fmt.Errorf("migration failed: %w", err)
		}
	} else if err := repository.AutoMigrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

func newApp(cfg config.Config, logger *slog.Logger, templatePath, staticPath string) (*app, error) {
	db, err := setupDatabase(cfg, logger)
	if err != nil {
		return nil, err
	}

	// Redis only backs the stats cache, so the app runs without it.
	rdb, err := repository.InitRedis(cfg.RedisURL, cfg.RedisPassword, 0)
	if err != nil {
		logger.Warn("Failed to connect to Redis, stats caching disabled", "error", err)
		rdb = nil
	}

	userRepo := repository.NewUserRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	followRepo := repository.NewFollowRepository(db)
	likeRepo := repository.NewLikeRepository(db)

	geoIPService := services.NewGeoIPService(cfg.GeoIPDBPath, logger)
	geoIPService.Init()

	statsService := services.NewStatsService(rdb, logger, messageRepo, followRepo, likeRepo)
	auditService := services.NewAuditService(db, logger, geoIPService)
	rateLimiter := services.NewIPRateLimiter(rate.Limit(cfg.LoginRateLimit), cfg.LoginRateBurst, logger)

	h := handlers.NewHandler(cfg, logger,
		services.NewAccountService(userRepo, followRepo, likeRepo, statsService, logger),
		services.NewMessageService(messageRepo, followRepo, likeRepo, statsService),
		services.NewFollowService(followRepo, userRepo, statsService),
		services.NewLikeService(likeRepo, messageRepo, statsService),
		statsService,
		auditService,
		services.NewQRService(),
	)

	return &app{
		router:      h.SetupRouter(rateLimiter, templatePath, staticPath),
		logger:      logger,
		db:          db,
		rdb:         rdb,
		audit:       auditService,
		geoIP:       geoIPService,
		rateLimiter: rateLimiter,
	}, nil
}

// startWorkers runs the background goroutines until ctx is cancelled or
// close is called.
func (a *app) startWorkers(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	a.stopWorkers = cancel
	a.workersDone = done

	go func() {
		a.audit.Start(ctx)
		close(done)
	}()
	go a.rateLimiter.StartCleanup(ctx, 10*time.Minute, 30*time.Minute)
}

// close stops the workers and releases connections. The audit worker writes
// through the database and the GeoIP reader, so both stay open if it has not
// drained within timeout.
func (a *app) close(timeout time.Duration) {
	if a.rdb != nil {
		_ = a.rdb.Close()
	}
	if a.stopWorkers != nil {
		a.stopWorkers()
		select {
		case <-a.workersDone:
		case <-time.After(timeout):
			a.logger.Warn("Audit worker did not drain before shutdown deadline, leaving database open")
			return
		}
	}
	a.geoIP.Close()
	if sqlDB, err := a.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

func Run(ctx context.Context) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := middleware.NewLogger(os.Stdout, cfg.IsProduction())
	slog.SetDefault(logger)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	a, err := newApp(cfg, logger, "web/templates/*.html", "./web/static")
	if err != nil {
		return err
	}
	a.startWorkers(context.Background())
	defer a.close(shutdownTimeout)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           a.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("Starting server", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		logger.Info("Shutting down server...")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	logger.Info("Server exiting")
	return nil
}
