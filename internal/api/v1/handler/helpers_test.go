package handler

import (
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"linkhub/internal/api/v1/dto"
	"linkhub/internal/middleware"
	"linkhub/internal/model"
	"linkhub/internal/util"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

const (
	testSecret = "test-secret"
	testUserID = "7b0c6a52-3f0e-4b8e-9f4c-2d1e5a6b7c8d"
	testLinkID = "0c9f2f7e-8a41-4c1e-9d1b-5f3e2a7c6b10"
)

// newTestAPI mounts the session middleware and the error model the way the
// router does, so status codes and error bodies match production.
func newTestAPI(t *testing.T) (*chi.Mux, humatest.TestAPI) {
	t.Helper()
	UseErrorModel()
	r := chi.NewRouter()
	r.Use(middleware.SessionMiddleware(testSecret, zerolog.Nop()))
	cfg := huma.DefaultConfig("LinkHub Test", "1.0.0")
	cfg.CreateHooks = nil
	api := humachi.New(r, cfg)
	return r, humatest.Wrap(t, api)
}

func authHeader(t *testing.T) string {
	t.Helper()
	token, _, err := util.IssueJWT(testUserID, "asha@example.com", "asha", testSecret, time.Hour, time.Now())
	require.NoError(t, err)
	return "Authorization: Bearer " + token
}

func decodeError(t *testing.T, resp *httptest.ResponseRecorder) dto.ErrorResponse {
	t.Helper()
	var e dto.ErrorResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &e), resp.Body.String())
	return e
}

func strPtr(s string) *string { return &s }

func testUser() *model.User {
	username := "asha"
	return &model.User{
		ID:        testUserID,
		Name:      "Asha",
		Email:     "asha@example.com",
		Username:  &username,
		CreatedAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func proTestUser() *model.User {
	u := testUser()
	plan := "pro_INR"
	end := time.Now().Add(24 * time.Hour)
	u.PlanID = &plan
	u.SubscriptionEndDate = &end
	return u
}

func testProfile() *model.Profile {
	return &model.Profile{
		UserID:          testUserID,
		BackgroundColor: "#ffffff",
		ButtonStyle:     "rounded",
		ButtonColor:     "#000000",
		TextColor:       "#ffffff",
		FontFamily:      "Inter",
		Theme:           "light",
		ParticleEffect:  "none",
	}
}
