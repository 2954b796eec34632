package services

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"warbler/internal/models"
	"warbler/internal/repository"
	"warbler/pkg/utils"
)

type SignupInput struct {
	Username       string `binding:"required,max=30"`
	Email          string `binding:"required,email,max=120"`
	Password       string `binding:"required,min=6,max=72"`
	ImageURL       string
	HeaderImageURL string
	Bio            string
	Location       string `binding:"max=30"`
}

// ProfileInput carries the editable profile fields. Password is the current
// password, required to confirm the change.
type ProfileInput struct {
	Username       string `binding:"required,max=30"`
	Email          string `binding:"required,email,max=120"`
	ImageURL       string
	HeaderImageURL string
	Bio            string
	Location       string `binding:"max=30"`
	Password       string
}

// NewUser validates the input and builds an unsaved user with a hashed
// password. Persisting it is left to the caller.
func NewUser(in SignupInput) (*models.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)

	if err := Validate(in); err != nil {
		return nil, err
	}
	if err := ValidateUsername(in.Username); err != nil {
		return nil, err
	}
	if err := validatePasswordBytes(in.Password); err != nil {
		return nil, err
	}

	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	return &models.User{
		Username:       in.Username,
		Email:          in.Email,
		Password:       hash,
		ImageURL:       orDefault(in.ImageURL, models.DefaultImageURL),
		HeaderImageURL: orDefault(in.HeaderImageURL, models.DefaultHeaderImageURL),
		Bio:            in.Bio,
		Location:       in.Location,
	}, nil
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return strings.TrimSpace(v)
}

var (
	dummyHashOnce sync.Once
	dummyHash     string
)

// timingHash returns a valid bcrypt hash compared against when the username
// is unknown, so both failure paths do the same work.
func timingHash() string {
	dummyHashOnce.Do(func() {
		dummyHash, _ = utils.HashPassword("warbler-timing-equalizer")
	})
	return dummyHash
}

type AccountService struct {
	users   repository.UserRepository
	follows repository.FollowRepository
	likes   repository.LikeRepository
	stats   *StatsService
	logger  *slog.Logger
}

func NewAccountService(
	users repository.UserRepository,
	follows repository.FollowRepository,
	likes repository.LikeRepository,
	stats *StatsService,
	logger *slog.Logger,
) *AccountService {
	return &AccountService{
		users:   users,
		follows: follows,
		likes:   likes,
		stats:   stats,
		logger:  logger,
	}
}

// Signup creates and persists a new user. A taken username or email yields a
// CONFLICT AppError.
func (s *AccountService) Signup(ctx context.Context, in SignupInput) (*models.User, error) {
	user, err := NewUser(in)
	if err != nil {
		return nil, err
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	s.logger.Info("User signed up", "user_id", user.ID, "username", user.Username)
	return user, nil
}

// Authenticate returns the user when username and password match. Unknown
// usernames and wrong passwords both return (nil, nil).
func (s *AccountService) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		utils.CheckPasswordHash(password, timingHash())
		return nil, nil
	}
	if !utils.CheckPasswordHash(password, user.Password) {
		return nil, nil
	}
	return user, nil
}

func (s *AccountService) Get(ctx context.Context, id uint) (*models.User, error) {
	return s.users.GetByID(ctx, id)
}

func (s *AccountService) List(ctx context.Context, search string) ([]models.User, error) {
	return s.users.List(ctx, strings.TrimSpace(search))
}

// UpdateProfile changes the editable fields of userID after checking the
// current password.
func (s *AccountService) UpdateProfile(ctx context.Context, userID uint, in ProfileInput) (*models.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !utils.CheckPasswordHash(in.Password, user.Password) {
		return nil, models.NewUnauthorizedError("Wrong password, please try again.")
	}

	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	if err := Validate(in); err != nil {
		return nil, err
	}
	if err := ValidateUsername(in.Username); err != nil {
		return nil, err
	}

	user.Username = in.Username
	user.Email = in.Email
	user.ImageURL = orDefault(in.ImageURL, models.DefaultImageURL)
	user.HeaderImageURL = orDefault(in.HeaderImageURL, models.DefaultHeaderImageURL)
	user.Bio = in.Bio
	user.Location = in.Location

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// DeleteAccount removes the user with everything they own. Followers,
// followed users and everyone who liked one of the user's messages lose a
// row, so their cached counters are dropped too.
func (s *AccountService) DeleteAccount(ctx context.Context, userID uint) error {
	related, err := s.follows.FollowingIDs(ctx, userID)
	if err != nil {
		return err
	}
	followers, err := s.follows.Followers(ctx, userID)
	if err != nil {
		return err
	}
	for _, f := range followers {
		related = append(related, f.ID)
	}
	likers, err := s.likes.AuthorLikerIDs(ctx, userID)
	if err != nil {
		return err
	}
	related = append(related, likers...)

	if err := s.users.Delete(ctx, userID); err != nil {
		return err
	}
	s.stats.Invalidate(ctx, append(related, userID)...)
	s.logger.Info("User deleted", "user_id", userID)
	return nil
}
