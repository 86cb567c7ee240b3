package handler

import (
	"context"
	"net/http"
	"strconv"

	"reliabot/internal/analytics"

	"github.com/gin-gonic/gin"
)

const (
	defaultAnalyticsDays = 7
	defaultHeatmapDays   = 180
	maxWindowDays        = 3660
)

// Metrics is the read-only analytics consumed by AnalyticsHandler.
type Metrics interface {
	Report(ctx context.Context, userID string, days int) (*analytics.Report, error)
	Streak(ctx context.Context, userID string) (int, error)
	Summary(ctx context.Context, userID string) (*analytics.FullSummary, error)
	XP(ctx context.Context, userID string) (*analytics.XPState, error)
	XPHeatmap(ctx context.Context, userID string, days int) (map[string]int, error)
}

type AnalyticsHandler struct {
	metrics Metrics
}

func NewAnalyticsHandler(metrics Metrics) *AnalyticsHandler {
	return &AnalyticsHandler{metrics: metrics}
}

// StreakResponse is the body of the streak endpoint.
type StreakResponse struct {
	Streak int `json:"streak"`
}

// Analytics godoc
// @Summary  Daily completion counts and average completion time
// @Tags     Analytics
// @Security BearerAuth
// @Produce  json
// @Param    user_id path  string true  "User ID"
// @Param    days    query int    false "Trailing window in days, 0 for all history" default(7)
// @Success  200 {object} analytics.Report
// @Failure  400 {object} ErrorResponse
// @Failure  403 {object} ErrorResponse
// @Router   /analytics/{user_id} [get]
func (h *AnalyticsHandler) Analytics(c *gin.Context) {
	userID, ok := pathUser(c)
	if !ok {
		return
	}
	days, ok := windowDays(c, defaultAnalyticsDays)
	if !ok {
		return
	}

	report, err := h.metrics.Report(c.Request.Context(), userID, days)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

// Streak godoc
// @Summary  Consecutive days with at least one completion
// @Tags     Analytics
// @Security BearerAuth
// @Produce  json
// @Param    user_id path string true "User ID"
// @Success  200 {object} StreakResponse
// @Router   /streak/{user_id} [get]
func (h *AnalyticsHandler) Streak(c *gin.Context) {
	userID, ok := pathUser(c)
	if !ok {
		return
	}

	streak, err := h.metrics.Streak(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, StreakResponse{Streak: streak})
}

// Summary godoc
// @Summary  Streak, completions this week and all time
// @Tags     Analytics
// @Security BearerAuth
// @Produce  json
// @Param    user_id path string true "User ID"
// @Success  200 {object} analytics.FullSummary
// @Router   /summary/{user_id} [get]
func (h *AnalyticsHandler) Summary(c *gin.Context) {
	userID, ok := pathUser(c)
	if !ok {
		return
	}

	summary, err := h.metrics.Summary(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// XP godoc
// @Summary  Experience points and level
// @Tags     Analytics
// @Security BearerAuth
// @Produce  json
// @Param    user_id path string true "User ID"
// @Success  200 {object} analytics.XPState
// @Router   /xp/{user_id} [get]
func (h *AnalyticsHandler) XP(c *gin.Context) {
	userID, ok := pathUser(c)
	if !ok {
		return
	}

	state, err := h.metrics.XP(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, state)
}

// XPHeatmap godoc
// @Summary  XP earned per day
// @Tags     Analytics
// @Security BearerAuth
// @Produce  json
// @Param    user_id path  string true  "User ID"
// @Param    days    query int    false "Trailing window in days, 0 for all history" default(180)
// @Success  200 {object} map[string]int
// @Failure  400 {object} ErrorResponse
// @Router   /xp_heatmap/{user_id} [get]
func (h *AnalyticsHandler) XPHeatmap(c *gin.Context) {
	userID, ok := pathUser(c)
	if !ok {
		return
	}
	days, ok := windowDays(c, defaultHeatmapDays)
	if !ok {
		return
	}

	heat, err := h.metrics.XPHeatmap(c.Request.Context(), userID, days)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, heat)
}

func windowDays(c *gin.Context, def int) (int, bool) {
	raw := c.Query("days")
	if raw == "" {
		return def, true
	}
	days, err := strconv.Atoi(raw)
	if err != nil || days < 0 || days > maxWindowDays {
		c.JSON(http.StatusBadRequest, gin.H{"error": "days must be an integer between 0 and " + strconv.Itoa(maxWindowDays)})
		return 0, false
	}
	return days, true
}
