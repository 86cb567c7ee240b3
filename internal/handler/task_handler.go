package handler

import (
	"context"
	"net/http"
	"time"

	"reliabot/internal/model"
	"reliabot/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// TaskService is the task lifecycle consumed by TaskHandler.
type TaskService interface {
	Create(ctx context.Context, userID string, in service.NewTask) (*model.Task, error)
	List(ctx context.Context, userID string) ([]model.Task, error)
	ListCompleted(ctx context.Context, userID string) ([]model.Task, error)
	MarkDone(ctx context.Context, userID string, ref service.TaskRef) (*model.Task, error)
	Delete(ctx context.Context, userID string, id uuid.UUID) error
	ClearCompleted(ctx context.Context, userID string) (int64, error)
}

type TaskHandler struct {
	tasks TaskService
}

func NewTaskHandler(tasks TaskService) *TaskHandler {
	return &TaskHandler{tasks: tasks}
}

// CreateTaskRequest представляет запрос на создание задачи
type CreateTaskRequest struct {
	Name        string     `json:"name" binding:"required"`
	Description string     `json:"description"`
	DueAt       *time.Time `json:"due_at"`
	Recurrence  string     `json:"recurrence"`
	Labels      string     `json:"labels"`
	Priority    string     `json:"priority"`
}

// DoneRequest ссылается на задачу по id или по имени
type DoneRequest struct {
	UserID string `json:"user_id"`
	ID     string `json:"id"`
	Task   string `json:"task"`
}

// ClearedResponse reports how many completed tasks were removed.
type ClearedResponse struct {
	Deleted int64 `json:"deleted"`
}

// List godoc
// @Summary  List the user's tasks, newest first
// @Tags     Tasks
// @Security BearerAuth
// @Produce  json
// @Param    user_id path string true "User ID"
// @Success  200 {array} TaskResponse
// @Failure  403 {object} ErrorResponse
// @Router   /tasks/{user_id} [get]
func (h *TaskHandler) List(c *gin.Context) {
	userID, ok := pathUser(c)
	if !ok {
		return
	}

	tasks, err := h.tasks.List(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toTaskResponses(tasks))
}

// Create godoc
// @Summary  Create a task for the session user
// @Tags     Tasks
// @Security BearerAuth
// @Accept   json
// @Produce  json
// @Param    request body CreateTaskRequest true "Task"
// @Success  201 {object} TaskResponse
// @Failure  400 {object} ErrorResponse
// @Router   /task [post]
func (h *TaskHandler) Create(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	// Парсим запрос
	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	task, err := h.tasks.Create(c.Request.Context(), userID, service.NewTask{
		Name:        req.Name,
		Description: req.Description,
		DueAt:       req.DueAt,
		Recurrence:  req.Recurrence,
		Labels:      req.Labels,
		Priority:    req.Priority,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toTaskResponse(task))
}

// Done godoc
// @Summary  Mark a task as done by id or by name
// @Tags     Tasks
// @Security BearerAuth
// @Accept   json
// @Produce  json
// @Param    request body DoneRequest true "Task reference"
// @Success  200 {object} TaskResponse
// @Failure  400 {object} ErrorResponse
// @Failure  403 {object} ErrorResponse
// @Failure  404 {object} ErrorResponse
// @Failure  409 {object} ErrorResponse
// @Router   /done [post]
func (h *TaskHandler) Done(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req DoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	// user_id в теле допустим только свой
	if req.UserID != "" && req.UserID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
		return
	}

	ref := service.TaskRef{Name: req.Task}
	if req.ID != "" {
		id, err := uuid.Parse(req.ID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task ID format"})
			return
		}
		ref.ID = &id
	}

	task, err := h.tasks.MarkDone(c.Request.Context(), userID, ref)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toTaskResponse(task))
}

// Delete godoc
// @Summary  Delete a task
// @Tags     Tasks
// @Security BearerAuth
// @Param    id path string true "Task ID"
// @Success  204
// @Failure  400 {object} ErrorResponse
// @Failure  404 {object} ErrorResponse
// @Router   /task/{id} [delete]
func (h *TaskHandler) Delete(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	// Парсим ID задачи из URL
	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task ID format"})
		return
	}

	if err := h.tasks.Delete(c.Request.Context(), userID, taskID); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ListCompleted godoc
// @Summary  List completed tasks, most recent completion first
// @Tags     Tasks
// @Security BearerAuth
// @Produce  json
// @Param    user_id path string true "User ID"
// @Success  200 {array} TaskResponse
// @Failure  403 {object} ErrorResponse
// @Router   /completed/{user_id} [get]
func (h *TaskHandler) ListCompleted(c *gin.Context) {
	userID, ok := pathUser(c)
	if !ok {
		return
	}

	tasks, err := h.tasks.ListCompleted(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toTaskResponses(tasks))
}

// ClearCompleted godoc
// @Summary  Delete every completed task of the session user
// @Tags     Tasks
// @Security BearerAuth
// @Produce  json
// @Success  200 {object} ClearedResponse
// @Router   /completed [delete]
func (h *TaskHandler) ClearCompleted(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	n, err := h.tasks.ClearCompleted(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, ClearedResponse{Deleted: n})
}
