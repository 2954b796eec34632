// Command seed fills the configured database with fake Warbler data.
package main

import (
	"context"
	"flag"
	"os"
	"strings"
	"time"

	"warbler/internal/config"
	"warbler/internal/middleware"
	"warbler/internal/repository"
	"warbler/internal/seed"
)

func main() {
	numUsers := flag.Int("users", 20, "Number of users to create")
	numMessages := flag.Int("messages", 5, "Messages per user")
	numFollows := flag.Int("follows", 5, "Users each user follows")
	numLikes := flag.Int("likes", 3, "Messages each user likes")
	randSeed := flag.Int64("seed", time.Now().UnixNano(), "Random seed")
	shouldClean := flag.Bool("clean", false, "Clean database before seeding")
	flag.Parse()

	logger := middleware.NewLogger(os.Stdout, false)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	db, err := repository.InitDB(cfg)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	if strings.HasPrefix(cfg.DatabaseURL, "postgres") {
		err = repository.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath)
	} else {
		err = repository.AutoMigrate(db)
	}
	if err != nil {
		logger.Error("Migration failed", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	s := seed.NewSeeder(db, logger, *randSeed)

	if *shouldClean {
		if err := s.ClearAll(ctx); err != nil {
			logger.Error("Cleanup failed", "error", err)
			os.Exit(1)
		}
	}

	logger.Info("Seeding database", "users", *numUsers, "messages_per_user", *numMessages, "seed", *randSeed)
	if _, err := s.Run(ctx, seed.Options{
		Users:           *numUsers,
		MessagesPerUser: *numMessages,
		FollowsPerUser:  *numFollows,
		LikesPerUser:    *numLikes,
	}); err != nil {
		logger.Error("Seeding failed", "error", err)
		os.Exit(1)
	}
	logger.Info("Seeded accounts share one password", "password", seed.DefaultPassword)
}
