package handler

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"linkhub/internal/api/v1/dto"
	"linkhub/internal/model"
	"linkhub/internal/service"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func setupAnalytics(t *testing.T) (*MockAnalyticsService, humatest.TestAPI) {
	t.Helper()
	svc := new(MockAnalyticsService)
	h := NewAnalyticsHandler(svc, zerolog.Nop())
	_, api := newTestAPI(t)

	huma.Register(api, huma.Operation{OperationID: "getAnalytics", Method: http.MethodGet, Path: "/api/analytics"}, h.GetAnalytics)
	huma.Register(api, huma.Operation{OperationID: "trackClick", Method: http.MethodPost, Path: "/api/analytics/click"}, h.TrackClick)
	return svc, api
}

func TestGetAnalytics_DefaultWindow(t *testing.T) {
	svc, api := setupAnalytics(t)
	svc.On("Summary", mock.Anything, testUserID, 30).Return(&model.AnalyticsSummary{
		Days:           30,
		TotalPageViews: 12,
		TotalClicks:    4,
		TopLinks:       []model.Link{{ID: testLinkID, Title: "Site", Clicks: 4}},
		Devices:        []model.Breakdown{{Value: "mobile", Count: 9}},
		DailyPageViews: []model.DailyCount{{Day: time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC), Count: 12}},
	}, nil)

	resp := api.Get("/api/analytics", authHeader(t))

	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	var body dto.AnalyticsResponseDTO
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.Equal(t, 12, body.TotalPageViews)
	require.Len(t, body.DailyPageViews, 1)
	assert.Equal(t, "2026-03-09", body.DailyPageViews[0].Date)
	assert.NotNil(t, body.Browsers)
}

func TestGetAnalytics_DaysBounds(t *testing.T) {
	svc, api := setupAnalytics(t)
	svc.On("Summary", mock.Anything, testUserID, 7).Return(&model.AnalyticsSummary{Days: 7}, nil)

	resp := api.Get("/api/analytics?days=7", authHeader(t))
	require.Equal(t, http.StatusOK, resp.Code)

	resp = api.Get("/api/analytics?days=0", authHeader(t))
	require.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Equal(t, "days", decodeError(t, resp).Field)

	resp = api.Get("/api/analytics?days=1000", authHeader(t))
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	svc.AssertNumberOfCalls(t, "Summary", 1)
}

func TestTrackClick(t *testing.T) {
	svc, api := setupAnalytics(t)
	svc.On("TrackClick", mock.Anything, testUserID, testLinkID, mock.AnythingOfType("service.RequestInfo")).Return(nil)

	resp := api.Post("/api/analytics/click", map[string]any{"linkId": testLinkID, "userId": testUserID})

	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	assert.JSONEq(t, `{"success":true}`, resp.Body.String())
}

func TestTrackClick_MissingData(t *testing.T) {
	svc, api := setupAnalytics(t)

	resp := api.Post("/api/analytics/click", map[string]any{"linkId": testLinkID})

	require.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Equal(t, "Missing data", decodeError(t, resp).Message)
	svc.AssertNotCalled(t, "TrackClick", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestTrackClick_UnknownLink(t *testing.T) {
	svc, api := setupAnalytics(t)
	svc.On("TrackClick", mock.Anything, testUserID, testLinkID, mock.Anything).Return(service.ErrLinkNotFound)

	resp := api.Post("/api/analytics/click", map[string]any{"linkId": testLinkID, "userId": testUserID})

	assert.Equal(t, http.StatusNotFound, resp.Code)
}
