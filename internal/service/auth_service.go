package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"linkhub/internal/model"
	"linkhub/internal/repository"
	"linkhub/internal/util"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

const bcryptCost = 12

// RegisterInput is validated by the handler before it reaches the service.
type RegisterInput struct {
	Name     string
	Email    string
	Username string
	Password string
}

// Session is a signed token for an authenticated user.
type Session struct {
	User      *model.User
	Token     string
	ExpiresAt time.Time
}

// OAuthIdentity is the profile returned by an external identity provider.
type OAuthIdentity struct {
	Email   string
	Name    string
	Picture string
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*model.User, error)
	Login(ctx context.Context, email, password string) (*Session, error)
	LoginWithOAuth(ctx context.Context, id OAuthIdentity) (*Session, error)
}

type authService struct {
	users     repository.UserRepository
	jwtSecret string
	jwtTTL    time.Duration
	now       func() time.Time
	logger    zerolog.Logger
}

func NewAuthService(users repository.UserRepository, jwtSecret string, jwtTTL time.Duration, logger zerolog.Logger) AuthService {
	return &authService{
		users:     users,
		jwtSecret: jwtSecret,
		jwtTTL:    jwtTTL,
		now:       time.Now,
		logger:    logger.With().Str("service", "AuthService").Logger(),
	}
}

func (s *authService) Register(ctx context.Context, in RegisterInput) (*model.User, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if IsReservedUsername(in.Username) {
		return nil, ErrUsernameReserved
	}

	exists, err := s.users.EmailExists(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailTaken
	}
	taken, err := s.users.UsernameTaken(ctx, in.Username, "")
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrUsernameTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	hashStr := string(hash)
	username := in.Username
	u := &model.User{
		Name:         strings.TrimSpace(in.Name),
		Email:        email,
		Username:     &username,
		PasswordHash: &hashStr,
	}
	if err := s.users.CreateWithProfile(ctx, u); err != nil {
		// Lost a race with a concurrent registration.
		switch {
		case errors.Is(err, repository.ErrDuplicateEmail):
			return nil, ErrEmailTaken
		case errors.Is(err, repository.ErrDuplicateUsername):
			return nil, ErrUsernameTaken
		}
		return nil, err
	}
	s.logger.Info().Str("user_id", u.ID).Msg("User registered")
	return u, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (*Session, error) {
	u, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, err
	}
	if u == nil || u.PasswordHash == nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*u.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return s.issue(u)
}

// LoginWithOAuth finds or creates the user for an external identity. New
// users get a username derived from their email address.
func (s *authService) LoginWithOAuth(ctx context.Context, id OAuthIdentity) (*Session, error) {
	email := strings.ToLower(strings.TrimSpace(id.Email))
	if email == "" {
		return nil, ErrInvalidCredentials
	}
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	if u == nil {
		username, err := s.uniqueUsername(ctx, email, "")
		if err != nil {
			return nil, err
		}
		name := strings.TrimSpace(id.Name)
		if name == "" {
			name = strings.SplitN(email, "@", 2)[0]
		}
		u = &model.User{Name: name, Email: email, Username: &username}
		if id.Picture != "" {
			pic := id.Picture
			u.Image = &pic
		}
		if err := s.users.CreateWithProfile(ctx, u); err != nil {
			return nil, err
		}
		s.logger.Info().Str("user_id", u.ID).Msg("User created from OAuth sign-in")
	} else if u.Username == nil || *u.Username == "" {
		username, err := s.uniqueUsername(ctx, email, u.ID)
		if err != nil {
			return nil, err
		}
		if err := s.users.UpdateUsername(ctx, u.ID, username); err != nil {
			return nil, err
		}
		u.Username = &username
	}
	return s.issue(u)
}

func (s *authService) issue(u *model.User) (*Session, error) {
	token, exp, err := util.IssueJWT(u.ID, u.Email, u.UsernameOrEmpty(), s.jwtSecret, s.jwtTTL, s.now())
	if err != nil {
		return nil, err
	}
	return &Session{User: u, Token: token, ExpiresAt: exp}, nil
}

const maxUsernameLen = 20

var nonUsernameChars = regexp.MustCompile(`[^a-zA-Z0-9_]`)

// BaseUsername strips an email local part down to [a-zA-Z0-9_].
func BaseUsername(email string) string {
	local := strings.SplitN(email, "@", 2)[0]
	base := strings.ToLower(nonUsernameChars.ReplaceAllString(local, ""))
	if len(base) < 3 {
		base += strings.Repeat("_", 3-len(base))
	}
	if len(base) > maxUsernameLen {
		base = base[:maxUsernameLen]
	}
	return base
}

func (s *authService) uniqueUsername(ctx context.Context, email, userID string) (string, error) {
	base := BaseUsername(email)
	candidate := base
	for i := 1; ; i++ {
		if !IsReservedUsername(candidate) {
			taken, err := s.users.UsernameTaken(ctx, candidate, userID)
			if err != nil {
				return "", err
			}
			if !taken {
				return candidate, nil
			}
		}
		suffix := strconv.Itoa(i)
		candidate = base[:min(len(base), maxUsernameLen-len(suffix))] + suffix
	}
}
