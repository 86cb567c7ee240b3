package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type StatusHandler struct {
	started time.Time
	now     func() time.Time
}

func NewStatusHandler(started time.Time) *StatusHandler {
	return &StatusHandler{started: started, now: time.Now}
}

// StatusResponse is the liveness payload.
type StatusResponse struct {
	Status    string `json:"status"`
	Uptime    int64  `json:"uptime"`
	Timestamp string `json:"timestamp"`
}

// Status godoc
// @Summary  Liveness probe
// @Tags     System
// @Produce  json
// @Success  200 {object} StatusResponse
// @Router   /status [get]
func (h *StatusHandler) Status(c *gin.Context) {
	now := h.now()
	c.JSON(http.StatusOK, StatusResponse{
		Status:    "online",
		Uptime:    int64(now.Sub(h.started).Round(time.Second) / time.Second),
		Timestamp: now.UTC().Format(time.RFC3339),
	})
}

// WithClock replaces the handler clock; used by tests.
func (h *StatusHandler) WithClock(now func() time.Time) *StatusHandler {
	h.now = now
	return h
}
