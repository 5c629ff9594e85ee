package service

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"linkhub/internal/model"
	"linkhub/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

var reservedUsernames = map[string]struct{}{
	"admin": {}, "api": {}, "app": {}, "dashboard": {}, "settings": {}, "login": {},
	"register": {}, "logout": {}, "profile": {}, "links": {}, "analytics": {},
	"appearance": {}, "help": {}, "support": {}, "about": {}, "contact": {},
	"terms": {}, "privacy": {}, "blog": {}, "docs": {}, "linkhub": {}, "pro": {},
	"premium": {}, "upgrade": {}, "pricing": {}, "home": {}, "index": {},
}

// IsReservedUsername matches the reserved list case-insensitively.
func IsReservedUsername(username string) bool {
	_, ok := reservedUsernames[strings.ToLower(username)]
	return ok
}

var usernamePattern = regexp.MustCompile(`^[a-z0-9_-]+$`)

// UsernameAvailability is the result of an availability check.
type UsernameAvailability struct {
	Available bool
	Reason    string
}

// SubscriptionCanceller stops a provider subscription when an account goes away.
type SubscriptionCanceller interface {
	CancelForDeletion(ctx context.Context, u *model.User)
}

type UserService interface {
	Get(ctx context.Context, userID string) (*model.User, error)
	CheckUsername(ctx context.Context, username string) (UsernameAvailability, error)
	UpdateUsername(ctx context.Context, userID, username string) (string, error)
	DeleteUser(ctx context.Context, userID string) error
}

type userService struct {
	users     repository.UserRepository
	canceller SubscriptionCanceller
	logger    zerolog.Logger
}

func NewUserService(users repository.UserRepository, canceller SubscriptionCanceller, logger zerolog.Logger) UserService {
	return &userService{
		users:     users,
		canceller: canceller,
		logger:    logger.With().Str("service", "UserService").Logger(),
	}
}

func (s *userService) Get(ctx context.Context, userID string) (*model.User, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return nil, ErrUserNotFound
	}
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}

func (s *userService) CheckUsername(ctx context.Context, username string) (UsernameAvailability, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	if IsReservedUsername(username) {
		return UsernameAvailability{Available: false, Reason: "reserved"}, nil
	}
	taken, err := s.users.UsernameTaken(ctx, username, "")
	if err != nil {
		return UsernameAvailability{}, err
	}
	if taken {
		return UsernameAvailability{Available: false, Reason: "taken"}, nil
	}
	return UsernameAvailability{Available: true}, nil
}

func (s *userService) UpdateUsername(ctx context.Context, userID, username string) (string, error) {
	if len(username) < 3 || len(username) > 30 || !usernamePattern.MatchString(username) {
		return "", ErrInvalidUsername
	}
	if IsReservedUsername(username) {
		return "", ErrUsernameReserved
	}
	taken, err := s.users.UsernameTaken(ctx, username, userID)
	if err != nil {
		return "", err
	}
	if taken {
		return "", ErrUsernameTaken
	}
	if err := s.users.UpdateUsername(ctx, userID, username); err != nil {
		if errors.Is(err, repository.ErrDuplicateUsername) {
			return "", ErrUsernameTaken
		}
		return "", err
	}
	return username, nil
}

func (s *userService) DeleteUser(ctx context.Context, userID string) error {
	u, err := s.Get(ctx, userID)
	if err != nil {
		return err
	}
	if s.canceller != nil {
		s.canceller.CancelForDeletion(ctx, u)
	}
	if err := s.users.Delete(ctx, userID); err != nil {
		return err
	}
	s.logger.Info().Str("user_id", userID).Msg("User deleted")
	return nil
}
