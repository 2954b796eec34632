// Package seed fills a development database with fake users, warbles and
// relationships.
package seed

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"warbler/internal/models"
	"warbler/internal/repository"
	"warbler/internal/services"

	"github.com/brianvoe/gofakeit/v6"
	"gorm.io/gorm"
)

// DefaultPassword is shared by every seeded account.
const DefaultPassword = "password123"

type Options struct {
	Users           int
	MessagesPerUser int
	FollowsPerUser  int
	LikesPerUser    int
	MaxDays         int
	Seed            int64
}

type Result struct {
	Users    int
	Messages int
	Follows  int
	Likes    int
}

type Seeder struct {
	db       *gorm.DB
	logger   *slog.Logger
	faker    *gofakeit.Faker
	accounts *services.AccountService
	messages repository.MessageRepository
	follows  repository.FollowRepository
	likes    repository.LikeRepository
}

func NewSeeder(db *gorm.DB, logger *slog.Logger, seed int64) *Seeder {
	userRepo := repository.NewUserRepository(db)
	followRepo := repository.NewFollowRepository(db)
	likeRepo := repository.NewLikeRepository(db)
	return &Seeder{
		db:       db,
		logger:   logger,
		faker:    gofakeit.New(seed),
		accounts: services.NewAccountService(userRepo, followRepo, likeRepo, nil, logger),
		messages: repository.NewMessageRepository(db),
		follows:  followRepo,
		likes:    likeRepo,
	}
}

// ClearAll removes every row the seeder can create.
func (s *Seeder) ClearAll(ctx context.Context) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, m := range []interface{}{&models.Like{}, &models.Follow{}, &models.Message{}, &models.User{}} {
			if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(m).Error; err != nil {
				return fmt.Errorf("failed to clear %T: %w", m, err)
			}
		}
		return nil
	})
}

// Run creates opts.Users accounts, then gives each one messages, follows
// and likes.
func (s *Seeder) Run(ctx context.Context, opts Options) (Result, error) {
	var res Result
	if opts.MaxDays <= 0 {
		opts.MaxDays = 30
	}

	users := make([]*models.User, 0, opts.Users)
	for len(users) < opts.Users {
		u, err := s.accounts.Signup(ctx, s.signupInput())
		if models.IsConflict(err) {
			continue
		}
		if err != nil {
			return res, fmt.Errorf("failed to create user: %w", err)
		}
		users = append(users, u)
	}
	res.Users = len(users)

	for _, u := range users {
		for i := 0; i < opts.MessagesPerUser; i++ {
			msg := &models.Message{
				Text:      s.warble(),
				UserID:    u.ID,
				Timestamp: s.pastTime(opts.MaxDays),
			}
			if err := s.messages.Create(ctx, msg); err != nil {
				return res, fmt.Errorf("failed to create message: %w", err)
			}
			res.Messages++
		}
	}

	for _, u := range users {
		for _, other := range s.pick(users, u, opts.FollowsPerUser) {
			if err := s.follows.Follow(ctx, u.ID, other.ID); err != nil {
				return res, fmt.Errorf("failed to create follow: %w", err)
			}
			res.Follows++
		}
	}

	if opts.LikesPerUser > 0 && opts.MessagesPerUser > 0 {
		for _, u := range users {
			for _, author := range s.pick(users, u, opts.LikesPerUser) {
				list, err := s.messages.ListByUser(ctx, author.ID, 1)
				if err != nil {
					return res, err
				}
				if len(list) == 0 {
					continue
				}
				if err := s.likes.Like(ctx, u.ID, list[0].ID); err != nil {
					return res, fmt.Errorf("failed to create like: %w", err)
				}
				res.Likes++
			}
		}
	}

	s.logger.Info("Seeding complete", "users", res.Users, "messages", res.Messages, "follows", res.Follows, "likes", res.Likes)
	return res, nil
}

func (s *Seeder) signupInput() services.SignupInput {
	username := strings.Map(func(r rune) rune {
		if r < 0x80 && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			return r
		}
		return -1
	}, s.faker.Username())
	username = fmt.Sprintf("%s%d", username, s.faker.Number(100, 999))
	if len(username) > 30 {
		username = username[:30]
	}
	return services.SignupInput{
		Username:       username,
		Email:          fmt.Sprintf("%s@%s", username, s.faker.DomainName()),
		Password:       DefaultPassword,
		ImageURL:       fmt.Sprintf("https://i.pravatar.cc/150?u=%s", username),
		HeaderImageURL: fmt.Sprintf("https://picsum.photos/seed/%s/1200/400", username),
		Bio:            s.faker.Sentence(10),
		Location:       truncate(s.faker.City(), 30),
	}
}

func (s *Seeder) warble() string {
	return truncate(s.faker.Sentence(s.faker.Number(4, 20)), models.MaxMessageLength)
}

func (s *Seeder) pastTime(maxDays int) time.Time {
	back := time.Duration(s.faker.Number(0, maxDays*24*60)) * time.Minute
	return time.Now().UTC().Add(-back)
}

// pick returns up to n users other than self, without repeats.
func (s *Seeder) pick(users []*models.User, self *models.User, n int) []*models.User {
	others := make([]*models.User, 0, len(users))
	for _, u := range users {
		if u.ID != self.ID {
			others = append(others, u)
		}
	}
	s.faker.ShuffleAnySlice(others)
	if n < len(others) {
		others = others[:n]
	}
	return others
}

func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return string([]rune(s)[:max])
}
