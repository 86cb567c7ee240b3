package handler_test

import (
	"context"
	"net/http"
	"testing"

	"reliabot/internal/analytics"
	"reliabot/internal/handler"
	"reliabot/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockMetrics struct {
	mock.Mock
}

func (m *MockMetrics) Report(ctx context.Context, userID string, days int) (*analytics.Report, error) {
	args := m.Called(ctx, userID, days)
	report := args.Get(0)
	if report == nil {
		return nil, args.Error(1)
	}
	return report.(*analytics.Report), args.Error(1)
}

func (m *MockMetrics) Streak(ctx context.Context, userID string) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}

func (m *MockMetrics) Summary(ctx context.Context, userID string) (*analytics.FullSummary, error) {
	args := m.Called(ctx, userID)
	summary := args.Get(0)
	if summary == nil {
		return nil, args.Error(1)
	}
	return summary.(*analytics.FullSummary), args.Error(1)
}

func (m *MockMetrics) XP(ctx context.Context, userID string) (*analytics.XPState, error) {
	args := m.Called(ctx, userID)
	state := args.Get(0)
	if state == nil {
		return nil, args.Error(1)
	}
	return state.(*analytics.XPState), args.Error(1)
}

func (m *MockMetrics) XPHeatmap(ctx context.Context, userID string, days int) (map[string]int, error) {
	args := m.Called(ctx, userID, days)
	heat := args.Get(0)
	if heat == nil {
		return nil, args.Error(1)
	}
	return heat.(map[string]int), args.Error(1)
}

func setupAnalyticsRouter(userID string) (*gin.Engine, *MockMetrics) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	mockMetrics := new(MockMetrics)
	h := handler.NewAnalyticsHandler(mockMetrics)

	r.Use(withUser(userID))
	r.GET("/analytics/:user_id", h.Analytics)
	r.GET("/streak/:user_id", h.Streak)
	r.GET("/summary/:user_id", h.Summary)
	r.GET("/xp/:user_id", h.XP)
	r.GET("/xp_heatmap/:user_id", h.XPHeatmap)
	return r, mockMetrics
}

func TestAnalytics_DefaultAndExplicitWindow(t *testing.T) {
	router, m := setupAnalyticsRouter("alice")
	report := &analytics.Report{
		DailyCounts:           analytics.DailyCounts{"2026-10-14": 2},
		CompletionTimeMinutes: map[string]float64{"2026-10-14": 12.5},
	}
	m.On("Report", mock.Anything, "alice", 7).Return(report, nil).Once()
	m.On("Report", mock.Anything, "alice", 0).Return(report, nil).Once()

	resp := doJSON(router, http.MethodGet, "/analytics/alice", nil)
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.JSONEq(t, `{"daily_counts":{"2026-10-14":2},"completion_time_minutes":{"2026-10-14":12.5}}`, resp.Body.String())

	resp = doJSON(router, http.MethodGet, "/analytics/alice?days=0", nil)
	assert.Equal(t, http.StatusOK, resp.Code)

	m.AssertExpectations(t)
}

func TestAnalytics_InvalidDays(t *testing.T) {
	router, m := setupAnalyticsRouter("alice")

	for _, q := range []string{"-1", "abc", "100000"} {
		resp := doJSON(router, http.MethodGet, "/analytics/alice?days="+q, nil)
		assert.Equal(t, http.StatusBadRequest, resp.Code, q)
	}
	m.AssertNotCalled(t, "Report", mock.Anything, mock.Anything, mock.Anything)
}

func TestStreakSummaryXP(t *testing.T) {
	router, m := setupAnalyticsRouter("alice")
	m.On("Streak", mock.Anything, "alice").Return(3, nil)
	m.On("Summary", mock.Anything, "alice").Return(&analytics.FullSummary{
		Streak:  3,
		Summary: analytics.Summary{CompletedThisWeek: 2, TotalCompleted: 9},
	}, nil)
	m.On("XP", mock.Anything, "alice").Return(&analytics.XPState{XP: 90, Level: 1, Progress: 90}, nil)

	resp := doJSON(router, http.MethodGet, "/streak/alice", nil)
	assert.JSONEq(t, `{"streak":3}`, resp.Body.String())

	resp = doJSON(router, http.MethodGet, "/summary/alice", nil)
	assert.JSONEq(t, `{"streak":3,"completed_this_week":2,"total_completed":9}`, resp.Body.String())

	resp = doJSON(router, http.MethodGet, "/xp/alice", nil)
	assert.JSONEq(t, `{"xp":90,"level":1,"progress":90}`, resp.Body.String())
}

func TestXPHeatmap_DefaultWindow(t *testing.T) {
	router, m := setupAnalyticsRouter("alice")
	m.On("XPHeatmap", mock.Anything, "alice", 180).Return(map[string]int{"2026-10-13": 20}, nil)

	resp := doJSON(router, http.MethodGet, "/xp_heatmap/alice", nil)

	assert.Equal(t, http.StatusOK, resp.Code)
	assert.JSONEq(t, `{"2026-10-13":20}`, resp.Body.String())
}

func TestAnalytics_ForbiddenAndStoreFailure(t *testing.T) {
	router, m := setupAnalyticsRouter("alice")
	m.On("Summary", mock.Anything, "alice").Return(nil, repository.ErrStoreUnavailable)

	resp := doJSON(router, http.MethodGet, "/xp/bob", nil)
	assert.Equal(t, http.StatusForbidden, resp.Code)

	resp = doJSON(router, http.MethodGet, "/summary/alice", nil)
	assert.Equal(t, http.StatusInternalServerError, resp.Code)
	assert.JSONEq(t, `{"error":"Internal server error"}`, resp.Body.String())
}
