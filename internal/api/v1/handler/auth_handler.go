package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"linkhub/internal/api/v1/dto"
	"linkhub/internal/api/v1/operation"
	"linkhub/internal/config"
	"linkhub/internal/middleware"
	"linkhub/internal/service"

	"github.com/danielgtaylor/huma/v2"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const (
	oauthStateCookie = "oauth_state"
	googleUserInfo   = "https://www.googleapis.com/oauth2/v2/userinfo"
)

type googleUser struct {
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

// AuthHandler handles credential and Google sign-in.
type AuthHandler struct {
	authService  service.AuthService
	validate     *validator.Validate
	oauthConfig  *oauth2.Config
	appURL       string
	secureCookie bool
	logger       zerolog.Logger
}

func NewAuthHandler(authService service.AuthService, validate *validator.Validate, cfg *config.Config, logger zerolog.Logger) *AuthHandler {
	h := &AuthHandler{
		authService:  authService,
		validate:     validate,
		appURL:       cfg.AppURL,
		secureCookie: !cfg.IsDevelopment(),
		logger:       logger,
	}
	if cfg.GoogleEnabled() {
		h.oauthConfig = &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.GoogleRedirectURL,
			Scopes: []string{
				"https://www.googleapis.com/auth/userinfo.email",
				"https://www.googleapis.com/auth/userinfo.profile",
			},
			Endpoint: google.Endpoint,
		}
	}
	return h
}

func (h *AuthHandler) sessionCookie(token string, expires time.Time) http.Cookie {
	return http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	}
}

// Register creates a credentials account with its profile.
func (h *AuthHandler) Register(ctx context.Context, input *operation.RegisterInput) (*operation.RegisterOutput, error) {
	if err := validate(h.validate, &input.Body); err != nil {
		return nil, err
	}

	u, err := h.authService.Register(ctx, service.RegisterInput{
		Name:     input.Body.Name,
		Email:    input.Body.Email,
		Username: input.Body.Username,
		Password: input.Body.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmailTaken):
			return nil, badRequest("email", "Email already in use")
		case errors.Is(err, service.ErrUsernameTaken):
			return nil, badRequest("username", "Username already taken")
		case errors.Is(err, service.ErrUsernameReserved):
			return nil, badRequest("username", "This username is reserved")
		}
		h.logger.Error().Err(err).Msg("Failed to register user")
		return nil, huma.Error500InternalServerError("Failed to create account", err)
	}

	return &operation.RegisterOutput{
		Body: dto.RegisterResponseDTO{Message: "User created successfully", UserID: u.ID},
	}, nil
}

func (h *AuthHandler) Login(ctx context.Context, input *operation.LoginInput) (*operation.LoginOutput, error) {
	if err := validate(h.validate, &input.Body); err != nil {
		return nil, err
	}
	session, err := h.authService.Login(ctx, input.Body.Email, input.Body.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			return nil, dto.NewError(http.StatusUnauthorized, "Invalid credentials")
		}
		h.logger.Error().Err(err).Msg("Failed to log in")
		return nil, huma.Error500InternalServerError("Failed to log in", err)
	}

	return &operation.LoginOutput{
		SetCookie: h.sessionCookie(session.Token, session.ExpiresAt),
		Body: dto.LoginResponseDTO{
			Token:     session.Token,
			ExpiresAt: session.ExpiresAt.UTC().Format(time.RFC3339),
			User:      toAccount(session.User),
		},
	}, nil
}

func (h *AuthHandler) Logout(ctx context.Context, input *operation.LogoutInput) (*operation.LogoutOutput, error) {
	cookie := h.sessionCookie("", time.Unix(0, 0))
	cookie.MaxAge = -1
	return &operation.LogoutOutput{SetCookie: cookie, Body: dto.SuccessResponse{Success: true}}, nil
}

// GoogleLogin redirects to the Google consent screen.
func (h *AuthHandler) GoogleLogin(w http.ResponseWriter, r *http.Request) {
	if h.oauthConfig == nil {
		writeError(w, http.StatusServiceUnavailable, "Google sign-in is not configured")
		return
	}
	state := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     oauthStateCookie,
		Value:    state,
		Path:     "/",
		Expires:  time.Now().Add(10 * time.Minute),
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, h.oauthConfig.AuthCodeURL(state), http.StatusTemporaryRedirect)
}

// GoogleCallback finishes the OAuth flow, signs the user in and redirects
// to the dashboard.
func (h *AuthHandler) GoogleCallback(w http.ResponseWriter, r *http.Request) {
	if h.oauthConfig == nil {
		writeError(w, http.StatusServiceUnavailable, "Google sign-in is not configured")
		return
	}
	failed := h.appURL + "/login?error=oauth"

	state, err := r.Cookie(oauthStateCookie)
	if err != nil || state.Value == "" || r.FormValue("state") != state.Value {
		h.logger.Warn().Msg("OAuth callback with missing or mismatched state")
		http.Redirect(w, r, failed, http.StatusTemporaryRedirect)
		return
	}
	http.SetCookie(w, &http.Cookie{Name: oauthStateCookie, Path: "/", MaxAge: -1})

	identity, err := h.fetchGoogleUser(r.Context(), r.FormValue("code"))
	if err != nil {
		h.logger.Error().Err(err).Msg("Google sign-in failed")
		http.Redirect(w, r, failed, http.StatusTemporaryRedirect)
		return
	}

	session, err := h.authService.LoginWithOAuth(r.Context(), identity)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to sign in OAuth user")
		http.Redirect(w, r, failed, http.StatusTemporaryRedirect)
		return
	}

	cookie := h.sessionCookie(session.Token, session.ExpiresAt)
	http.SetCookie(w, &cookie)
	http.Redirect(w, r, h.appURL+"/dashboard", http.StatusTemporaryRedirect)
}

func (h *AuthHandler) fetchGoogleUser(ctx context.Context, code string) (service.OAuthIdentity, error) {
	token, err := h.oauthConfig.Exchange(ctx, code)
	if err != nil {
		return service.OAuthIdentity{}, fmt.Errorf("code exchange: %w", err)
	}
	resp, err := h.oauthConfig.Client(ctx, token).Get(googleUserInfo)
	if err != nil {
		return service.OAuthIdentity{}, fmt.Errorf("get user info: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return service.OAuthIdentity{}, fmt.Errorf("user info status %d", resp.StatusCode)
	}

	var gu googleUser
	if err := json.NewDecoder(resp.Body).Decode(&gu); err != nil {
		return service.OAuthIdentity{}, fmt.Errorf("decode user info: %w", err)
	}
	if !gu.VerifiedEmail {
		return service.OAuthIdentity{}, errors.New("google email not verified")
	}
	return service.OAuthIdentity{Email: gu.Email, Name: gu.Name, Picture: gu.Picture}, nil
}
