package services

import (
	"context"

	"warbler/internal/models"
	"warbler/internal/repository"
)

type LikeService struct {
	likes    repository.LikeRepository
	messages repository.MessageRepository
	stats    *StatsService
}

func NewLikeService(likes repository.LikeRepository, messages repository.MessageRepository, stats *StatsService) *LikeService {
	return &LikeService{
		likes:    likes,
		messages: messages,
		stats:    stats,
	}
}

// Toggle likes messageID for userID, or removes the like if it exists.
// It reports whether the message is liked afterwards.
func (s *LikeService) Toggle(ctx context.Context, userID, messageID uint) (bool, error) {
	msg, err := s.messages.GetByID(ctx, messageID)
	if err != nil {
		return false, err
	}
	if msg.UserID == userID {
		return false, models.NewForbiddenError("You cannot like your own warble.")
	}

	liked, err := s.likes.Exists(ctx, userID, messageID)
	if err != nil {
		return false, err
	}
	if liked {
		err = s.likes.Unlike(ctx, userID, messageID)
	} else {
		err = s.likes.Like(ctx, userID, messageID)
	}
	if err != nil {
		return false, err
	}
	s.stats.Invalidate(ctx, userID)
	return !liked, nil
}

// LikedSet returns the ids of messages userID liked.
func (s *LikeService) LikedSet(ctx context.Context, userID uint) (map[uint]bool, error) {
	ids, err := s.likes.LikedMessageIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	set := make(map[uint]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set, nil
}

func (s *LikeService) LikedMessages(ctx context.Context, userID uint) ([]models.Message, error) {
	return s.likes.LikedMessages(ctx, userID)
}
