package services

import (
	"context"
	"time"

	"warbler/internal/models"
	"warbler/internal/repository"
)

// TimelineSize is how many messages the home page shows.
const TimelineSize = 100

type MessageService struct {
	messages repository.MessageRepository
	follows  repository.FollowRepository
	likes    repository.LikeRepository
	stats    *StatsService
}

func NewMessageService(
	messages repository.MessageRepository,
	follows repository.FollowRepository,
	likes repository.LikeRepository,
	stats *StatsService,
) *MessageService {
	return &MessageService{
		messages: messages,
		follows:  follows,
		likes:    likes,
		stats:    stats,
	}
}

// Post stores a new message owned by userID.
func (s *MessageService) Post(ctx context.Context, userID uint, text string) (*models.Message, error) {
	text, err := ValidateMessageText(text)
	if err != nil {
		return nil, err
	}

	msg := &models.Message{
		Text:      text,
		UserID:    userID,
		Timestamp: time.Now().UTC(),
	}
	if err := s.messages.Create(ctx, msg); err != nil {
		return nil, err
	}
	s.stats.Invalidate(ctx, userID)
	return msg, nil
}

func (s *MessageService) Get(ctx context.Context, id uint) (*models.Message, error) {
	return s.messages.GetByID(ctx, id)
}

// Delete removes messageID if actorID owns it.
func (s *MessageService) Delete(ctx context.Context, actorID, messageID uint) error {
	msg, err := s.messages.GetByID(ctx, messageID)
	if err != nil {
		return err
	}
	if msg.UserID != actorID {
		return models.NewForbiddenError("Access unauthorized.")
	}
	// Deleting the message drops its likes, so the likers' counters change too.
	likers, err := s.likes.LikerIDs(ctx, messageID)
	if err != nil {
		return err
	}
	if err := s.messages.Delete(ctx, messageID); err != nil {
		return err
	}
	s.stats.Invalidate(ctx, append(likers, actorID)...)
	return nil
}

func (s *MessageService) ListByUser(ctx context.Context, userID uint, limit int) ([]models.Message, error) {
	return s.messages.ListByUser(ctx, userID, limit)
}

// HomeTimeline returns the newest messages of userID and everyone they follow.
func (s *MessageService) HomeTimeline(ctx context.Context, userID uint) ([]models.Message, error) {
	ids, err := s.follows.FollowingIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.messages.Timeline(ctx, append(ids, userID), TimelineSize)
}
