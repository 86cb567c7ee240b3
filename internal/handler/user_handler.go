package handler

import (
	"context"
	"net/http"

	"reliabot/internal/middleware"
	"reliabot/internal/model"

	"github.com/gin-gonic/gin"
)

// Reminders is the reminder settings store consumed by UserHandler.
type Reminders interface {
	Get(ctx context.Context, userID string) (*model.User, error)
	SetReminder(ctx context.Context, userID string, hour int) error
	ClearReminder(ctx context.Context, userID string) error
}

type UserHandler struct {
	reminders Reminders
}

func NewUserHandler(reminders Reminders) *UserHandler {
	return &UserHandler{reminders: reminders}
}

// MeResponse describes the session identity.
type MeResponse struct {
	Authenticated bool   `json:"authenticated"`
	UserID        string `json:"user_id,omitempty"`
	ReminderHour  *int   `json:"reminder_hour,omitempty"`
}

// ReminderRequest sets the daily check-in hour (UTC).
type ReminderRequest struct {
	Hour *int `json:"hour" binding:"required"`
}

// ReminderResponse echoes the stored reminder.
type ReminderResponse struct {
	UserID       string `json:"user_id"`
	ReminderHour int    `json:"reminder_hour"`
}

// Me godoc
// @Summary  Current session identity
// @Tags     Users
// @Produce  json
// @Success  200 {object} MeResponse
// @Failure  401 {object} MeResponse
// @Router   /me [get]
func (h *UserHandler) Me(c *gin.Context) {
	userID := c.GetString(middleware.UserIDKey)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, MeResponse{Authenticated: false})
		return
	}

	user, err := h.reminders.Get(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, MeResponse{
		Authenticated: true,
		UserID:        userID,
		ReminderHour:  user.ReminderHour,
	})
}

// SetReminder godoc
// @Summary  Set the daily check-in hour (UTC)
// @Tags     Users
// @Security BearerAuth
// @Accept   json
// @Produce  json
// @Param    request body ReminderRequest true "Hour 0-23"
// @Success  200 {object} ReminderResponse
// @Failure  400 {object} ErrorResponse
// @Router   /reminder [put]
func (h *UserHandler) SetReminder(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req ReminderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if err := h.reminders.SetReminder(c.Request.Context(), userID, *req.Hour); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, ReminderResponse{UserID: userID, ReminderHour: *req.Hour})
}

// ClearReminder godoc
// @Summary  Turn the daily check-in off
// @Tags     Users
// @Security BearerAuth
// @Success  204
// @Router   /reminder [delete]
func (h *UserHandler) ClearReminder(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	if err := h.reminders.ClearReminder(c.Request.Context(), userID); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
