package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"linkhub/internal/api/v1/dto"
	"linkhub/internal/config"
	"linkhub/internal/service"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func setupAuth(t *testing.T) (*MockAuthService, *AuthHandler, humatest.TestAPI) {
	t.Helper()
	svc := new(MockAuthService)
	h := NewAuthHandler(svc, NewValidator(), &config.Config{Environment: "production", AppURL: "https://linkhub.test"}, zerolog.Nop())
	_, api := newTestAPI(t)

	huma.Register(api, huma.Operation{OperationID: "register", Method: http.MethodPost, Path: "/api/auth/register", DefaultStatus: http.StatusCreated}, h.Register)
	huma.Register(api, huma.Operation{OperationID: "login", Method: http.MethodPost, Path: "/api/auth/login"}, h.Login)
	huma.Register(api, huma.Operation{OperationID: "logout", Method: http.MethodPost, Path: "/api/auth/logout"}, h.Logout)

	return svc, h, api
}

func TestRegister_Success(t *testing.T) {
	svc, _, api := setupAuth(t)
	svc.On("Register", mock.Anything, service.RegisterInput{
		Name: "Asha", Email: "asha@example.com", Username: "asha_k", Password: "secret1",
	}).Return(testUser(), nil)

	resp := api.Post("/api/auth/register", map[string]any{
		"name": "Asha", "email": "asha@example.com", "username": "asha_k", "password": "secret1",
	})

	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	var body dto.RegisterResponseDTO
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.Equal(t, "User created successfully", body.Message)
	assert.Equal(t, testUserID, body.UserID)
	svc.AssertExpectations(t)
}

func TestRegister_Validation(t *testing.T) {
	tests := []struct {
		name    string
		body    map[string]any
		field   string
		message string
	}{
		{"missing name", map[string]any{"email": "a@b.co", "username": "asha", "password": "secret1"}, "name", "Name is required"},
		{"bad email", map[string]any{"name": "A", "email": "nope", "username": "asha", "password": "secret1"}, "email", "Invalid email address"},
		{"short username", map[string]any{"name": "A", "email": "a@b.co", "username": "ab", "password": "secret1"}, "username", "Username must be at least 3 characters"},
		{"bad characters", map[string]any{"name": "A", "email": "a@b.co", "username": "as ha!", "password": "secret1"}, "username", "Username can only contain letters, numbers, and underscores"},
		{"reserved", map[string]any{"name": "A", "email": "a@b.co", "username": "admin", "password": "secret1"}, "username", "This username is reserved"},
		{"short password", map[string]any{"name": "A", "email": "a@b.co", "username": "asha", "password": "123"}, "password", "Password must be at least 6 characters"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, api := setupAuth(t)
			resp := api.Post("/api/auth/register", tt.body)

			require.Equal(t, http.StatusBadRequest, resp.Code, resp.Body.String())
			e := decodeError(t, resp)
			assert.Equal(t, tt.field, e.Field)
			assert.Equal(t, tt.message, e.Message)
			svc.AssertNotCalled(t, "Register", mock.Anything, mock.Anything)
		})
	}
}

func TestRegister_Conflicts(t *testing.T) {
	tests := []struct {
		err   error
		field string
	}{
		{service.ErrEmailTaken, "email"},
		{service.ErrUsernameTaken, "username"},
	}
	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			svc, _, api := setupAuth(t)
			svc.On("Register", mock.Anything, mock.Anything).Return(nil, tt.err)

			resp := api.Post("/api/auth/register", map[string]any{
				"name": "Asha", "email": "asha@example.com", "username": "asha", "password": "secret1",
			})
			require.Equal(t, http.StatusBadRequest, resp.Code)
			assert.Equal(t, tt.field, decodeError(t, resp).Field)
		})
	}
}

func TestLogin_SetsSessionCookie(t *testing.T) {
	svc, _, api := setupAuth(t)
	exp := time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC)
	svc.On("Login", mock.Anything, "asha@example.com", "secret1").
		Return(&service.Session{User: testUser(), Token: "tok-123", ExpiresAt: exp}, nil)

	resp := api.Post("/api/auth/login", map[string]any{"email": "asha@example.com", "password": "secret1"})

	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	var body dto.LoginResponseDTO
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.Equal(t, "tok-123", body.Token)
	assert.Equal(t, "2026-11-01T00:00:00Z", body.ExpiresAt)
	assert.Equal(t, testUserID, body.User.ID)

	cookie := resp.Header().Get("Set-Cookie")
	assert.True(t, strings.HasPrefix(cookie, "auth_token=tok-123"), cookie)
	assert.Contains(t, cookie, "HttpOnly")
	assert.Contains(t, cookie, "Secure")
	assert.Contains(t, cookie, "SameSite=Lax")
}

func TestLogin_InvalidCredentials(t *testing.T) {
	svc, _, api := setupAuth(t)
	svc.On("Login", mock.Anything, "asha@example.com", "wrong").Return(nil, service.ErrInvalidCredentials)

	resp := api.Post("/api/auth/login", map[string]any{"email": "asha@example.com", "password": "wrong"})

	require.Equal(t, http.StatusUnauthorized, resp.Code)
	assert.Equal(t, "Invalid credentials", decodeError(t, resp).Message)
}

func TestLogout_ExpiresCookie(t *testing.T) {
	_, _, api := setupAuth(t)
	resp := api.Post("/api/auth/logout")

	require.Equal(t, http.StatusOK, resp.Code)
	cookie := resp.Header().Get("Set-Cookie")
	assert.True(t, strings.HasPrefix(cookie, "auth_token=;"), cookie)
	assert.Contains(t, cookie, "Max-Age=0")
}

func TestGoogleLogin_NotConfigured(t *testing.T) {
	_, h, _ := setupAuth(t)
	w := httptest.NewRecorder()
	h.GoogleLogin(w, httptest.NewRequest(http.MethodGet, "/api/auth/google", nil))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestGoogleLogin_RedirectsWithState(t *testing.T) {
	cfg := &config.Config{
		Environment:        "development",
		GoogleClientID:     "client",
		GoogleClientSecret: "secret",
		GoogleRedirectURL:  "http://localhost:8080/api/auth/google/callback",
	}
	h := NewAuthHandler(new(MockAuthService), NewValidator(), cfg, zerolog.Nop())

	w := httptest.NewRecorder()
	h.GoogleLogin(w, httptest.NewRequest(http.MethodGet, "/api/auth/google", nil))

	require.Equal(t, http.StatusTemporaryRedirect, w.Code)
	loc := w.Header().Get("Location")
	assert.True(t, strings.HasPrefix(loc, "https://accounts.google.com/"), loc)
	assert.Contains(t, loc, "client_id=client")

	var state *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == oauthStateCookie {
			state = c
		}
	}
	require.NotNil(t, state)
	assert.Contains(t, loc, "state="+state.Value)
}

func TestGoogleCallback_StateMismatch(t *testing.T) {
	cfg := &config.Config{AppURL: "https://linkhub.test", GoogleClientID: "client", GoogleClientSecret: "secret"}
	svc := new(MockAuthService)
	h := NewAuthHandler(svc, NewValidator(), cfg, zerolog.Nop())

	r := httptest.NewRequest(http.MethodGet, "/api/auth/google/callback?state=forged&code=abc", nil)
	r.AddCookie(&http.Cookie{Name: oauthStateCookie, Value: "expected"})
	w := httptest.NewRecorder()
	h.GoogleCallback(w, r)

	require.Equal(t, http.StatusTemporaryRedirect, w.Code)
	assert.Equal(t, "https://linkhub.test/login?error=oauth", w.Header().Get("Location"))
	svc.AssertNotCalled(t, "LoginWithOAuth", mock.Anything, mock.Anything)
}
