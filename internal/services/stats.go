package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"warbler/internal/repository"

	"github.com/redis/go-redis/v9"
)

const statsTTL = 5 * time.Minute

// ProfileStats are the counters shown on a profile header.
type ProfileStats struct {
	Messages  int64 `json:"messages"`
	Following int64 `json:"following"`
	Followers int64 `json:"followers"`
	Likes     int64 `json:"likes"`
}

// StatsService computes profile counters and caches them in redis. A nil
// redis client disables caching.
type StatsService struct {
	rdb      *redis.Client
	logger   *slog.Logger
	messages repository.MessageRepository
	follows  repository.FollowRepository
	likes    repository.LikeRepository
}

func NewStatsService(
	rdb *redis.Client,
	logger *slog.Logger,
	messages repository.MessageRepository,
	follows repository.FollowRepository,
	likes repository.LikeRepository,
) *StatsService {
	return &StatsService{
		rdb:      rdb,
		logger:   logger,
		messages: messages,
		follows:  follows,
		likes:    likes,
	}
}

func statsKey(userID uint) string {
	return fmt.Sprintf("user:%d:stats", userID)
}

func (s *StatsService) Get(ctx context.Context, userID uint) (ProfileStats, error) {
	var stats ProfileStats
	key := statsKey(userID)

	if s.rdb != nil {
		val, err := s.rdb.Get(ctx, key).Bytes()
		if err == nil {
			if err := json.Unmarshal(val, &stats); err == nil {
				return stats, nil
			}
		} else if !errors.Is(err, redis.Nil) {
			s.logger.Warn("Stats cache read failed", "user_id", userID, "error", err)
		}
	}

	stats, err := s.load(ctx, userID)
	if err != nil {
		return ProfileStats{}, err
	}

	if s.rdb != nil {
		data, _ := json.Marshal(stats)
		if err := s.rdb.Set(ctx, key, data, statsTTL).Err(); err != nil {
			s.logger.Warn("Stats cache write failed", "user_id", userID, "error", err)
		}
	}
	return stats, nil
}

func (s *StatsService) load(ctx context.Context, userID uint) (ProfileStats, error) {
	var stats ProfileStats
	var err error
	if stats.Messages, err = s.messages.CountByUser(ctx, userID); err != nil {
		return stats, err
	}
	if stats.Following, err = s.follows.CountFollowing(ctx, userID); err != nil {
		return stats, err
	}
	if stats.Followers, err = s.follows.CountFollowers(ctx, userID); err != nil {
		return stats, err
	}
	if stats.Likes, err = s.likes.CountByUser(ctx, userID); err != nil {
		return stats, err
	}
	return stats, nil
}

// Invalidate drops the cached counters of every given user.
func (s *StatsService) Invalidate(ctx context.Context, userIDs ...uint) {
	if s == nil || s.rdb == nil || len(userIDs) == 0 {
		return
	}
	keys := make([]string, 0, len(userIDs))
	for _, id := range userIDs {
		keys = append(keys, statsKey(id))
	}
	if err := s.rdb.Del(ctx, keys...).Err(); err != nil {
		s.logger.Warn("Stats cache invalidation failed", "keys", keys, "error", err)
	}
}
