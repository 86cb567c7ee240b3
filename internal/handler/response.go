package handler

import (
	"time"

	"reliabot/internal/model"
)

// TaskResponse is the canonical Task JSON shape.
type TaskResponse struct {
	ID          string  `json:"id"`
	UserID      string  `json:"user_id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	DueAt       *string `json:"due_at"`
	Recurrence  string  `json:"recurrence"`
	Labels      string  `json:"labels"`
	Priority    string  `json:"priority"`
	Completed   int     `json:"completed" enums:"0,1"`
	CreatedAt   string  `json:"created_at"`
	CompletedAt *string `json:"completed_at"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

func toTaskResponse(t *model.Task) TaskResponse {
	resp := TaskResponse{
		ID:          t.ID.String(),
		UserID:      t.UserID,
		Name:        t.Name,
		Description: t.Description,
		DueAt:       formatTime(t.DueAt),
		Recurrence:  t.Recurrence,
		Labels:      t.Labels,
		Priority:    t.Priority,
		CreatedAt:   t.CreatedAt.UTC().Format(time.RFC3339),
		CompletedAt: formatTime(t.CompletedAt),
	}
	if t.Completed {
		resp.Completed = 1
	}
	return resp
}

func toTaskResponses(tasks []model.Task) []TaskResponse {
	out := make([]TaskResponse, 0, len(tasks))
	for i := range tasks {
		out = append(out, toTaskResponse(&tasks[i]))
	}
	return out
}

func formatTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.UTC().Format(time.RFC3339)
	return &s
}
