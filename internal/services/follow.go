package services

import (
	"context"

	"warbler/internal/models"
	"warbler/internal/repository"
)

type FollowService struct {
	follows repository.FollowRepository
	users   repository.UserRepository
	stats   *StatsService
}

func NewFollowService(follows repository.FollowRepository, users repository.UserRepository, stats *StatsService) *FollowService {
	return &FollowService{
		follows: follows,
		users:   users,
		stats:   stats,
	}
}

// Follow makes followerID follow targetID. Following yourself is rejected.
func (s *FollowService) Follow(ctx context.Context, followerID, targetID uint) error {
	if followerID == targetID {
		return models.NewValidationError("You cannot follow yourself.")
	}
	if _, err := s.users.GetByID(ctx, targetID); err != nil {
		return err
	}
	if err := s.follows.Follow(ctx, followerID, targetID); err != nil {
		return err
	}
	s.stats.Invalidate(ctx, followerID, targetID)
	return nil
}

func (s *FollowService) Unfollow(ctx context.Context, followerID, targetID uint) error {
	if err := s.follows.Unfollow(ctx, followerID, targetID); err != nil {
		return err
	}
	s.stats.Invalidate(ctx, followerID, targetID)
	return nil
}

func (s *FollowService) IsFollowing(ctx context.Context, userID, otherID uint) (bool, error) {
	return s.follows.IsFollowing(ctx, userID, otherID)
}

func (s *FollowService) IsFollowedBy(ctx context.Context, userID, otherID uint) (bool, error) {
	return s.follows.IsFollowedBy(ctx, userID, otherID)
}

func (s *FollowService) Following(ctx context.Context, userID uint) ([]models.User, error) {
	return s.follows.Following(ctx, userID)
}

func (s *FollowService) Followers(ctx context.Context, userID uint) ([]models.User, error) {
	return s.follows.Followers(ctx, userID)
}

// FollowingSet returns the ids userID follows, for marking follow buttons.
func (s *FollowService) FollowingSet(ctx context.Context, userID uint) (map[uint]bool, error) {
	ids, err := s.follows.FollowingIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	set := make(map[uint]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set, nil
}
