package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"reliabot/internal/model"
	"reliabot/internal/repository"
)

// TaskStore is the persistence contract behind TaskService. Every method is
// scoped by user id; a task of another user behaves as if it did not exist.
type TaskStore interface {
	Create(ctx context.Context, task *model.Task) error
	ListByUser(ctx context.Context, userID string) ([]model.Task, error)
	ListCompleted(ctx context.Context, userID string) ([]model.Task, error)
	GetByID(ctx context.Context, userID string, id uuid.UUID) (*model.Task, error)
	FindByName(ctx context.Context, userID, name string) ([]model.Task, error)
	MarkCompleted(ctx context.Context, userID string, id uuid.UUID, at time.Time) error
	Delete(ctx context.Context, userID string, id uuid.UUID) error
	DeleteCompleted(ctx context.Context, userID string) (int64, error)
}

// TaskRecorder receives task lifecycle events (metrics).
type TaskRecorder interface {
	TaskCreated()
	TaskCompleted()
	TasksDeleted(n int64)
}

// NewTask carries the optional fields accepted on creation.
type NewTask struct {
	Name        string
	Description string
	DueAt       *time.Time
	Recurrence  string
	Labels      string
	Priority    string
}

// TaskRef points at a task either by id or by name.
type TaskRef struct {
	ID   *uuid.UUID
	Name string
}

type TaskService struct {
	store    TaskStore
	recorder TaskRecorder
	now      func() time.Time
}

func NewTaskService(store TaskStore, recorder TaskRecorder) *TaskService {
	return &TaskService{
		store:    store,
		recorder: recorder,
		now:      time.Now,
	}
}

// WithClock replaces the service clock; used by tests.
func (s *TaskService) WithClock(now func() time.Time) *TaskService {
	s.now = now
	return s
}

func (s *TaskService) Create(ctx context.Context, userID string, in NewTask) (*model.Task, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, invalid("user_id", "is required")
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, invalid("name", "must not be empty")
	}
	recurrence, err := normalizeRecurrence(in.Recurrence)
	if err != nil {
		return nil, err
	}
	priority, err := normalizePriority(in.Priority)
	if err != nil {
		return nil, err
	}

	task := &model.Task{
		UserID:      userID,
		Name:        name,
		Description: strings.TrimSpace(in.Description),
		DueAt:       toUTC(in.DueAt),
		Recurrence:  recurrence,
		Labels:      NormalizeLabels(in.Labels),
		Priority:    priority,
		CreatedAt:   s.now().UTC(),
	}
	if err := s.store.Create(ctx, task); err != nil {
		return nil, err
	}
	s.record(func(r TaskRecorder) { r.TaskCreated() })
	return task, nil
}

// List returns the user's tasks, newest first.
func (s *TaskService) List(ctx context.Context, userID string) ([]model.Task, error) {
	return s.store.ListByUser(ctx, userID)
}

// ListCompleted returns the user's completed tasks, most recent completion first.
func (s *TaskService) ListCompleted(ctx context.Context, userID string) ([]model.Task, error) {
	return s.store.ListCompleted(ctx, userID)
}

// MarkDone completes the referenced task. Completing an already completed
// task is rejected with repository.ErrTaskAlreadyCompleted and leaves
// completed_at untouched.
func (s *TaskService) MarkDone(ctx context.Context, userID string, ref TaskRef) (*model.Task, error) {
	id, err := s.resolve(ctx, userID, ref)
	if err != nil {
		return nil, err
	}
	if err := s.store.MarkCompleted(ctx, userID, id, s.now().UTC()); err != nil {
		return nil, err
	}
	s.record(func(r TaskRecorder) { r.TaskCompleted() })
	return s.store.GetByID(ctx, userID, id)
}

// resolve turns a reference into the id of the task to complete. By name, the
// oldest incomplete task with that name wins.
func (s *TaskService) resolve(ctx context.Context, userID string, ref TaskRef) (uuid.UUID, error) {
	if ref.ID != nil {
		task, err := s.store.GetByID(ctx, userID, *ref.ID)
		if err != nil {
			return uuid.Nil, err
		}
		if task.Completed {
			return uuid.Nil, repository.ErrTaskAlreadyCompleted
		}
		return task.ID, nil
	}

	name := strings.TrimSpace(ref.Name)
	if name == "" {
		return uuid.Nil, invalid("task", "id or name is required")
	}
	tasks, err := s.store.FindByName(ctx, userID, name)
	if err != nil {
		return uuid.Nil, err
	}
	if len(tasks) == 0 {
		return uuid.Nil, repository.ErrTaskNotFound
	}
	for _, t := range tasks {
		if !t.Completed {
			return t.ID, nil
		}
	}
	return uuid.Nil, repository.ErrTaskAlreadyCompleted
}

func (s *TaskService) Delete(ctx context.Context, userID string, id uuid.UUID) error {
	if err := s.store.Delete(ctx, userID, id); err != nil {
		return err
	}
	s.record(func(r TaskRecorder) { r.TasksDeleted(1) })
	return nil
}

// ClearCompleted deletes every completed task of the user.
func (s *TaskService) ClearCompleted(ctx context.Context, userID string) (int64, error) {
	n, err := s.store.DeleteCompleted(ctx, userID)
	if err != nil {
		return 0, err
	}
	s.record(func(r TaskRecorder) { r.TasksDeleted(n) })
	return n, nil
}

func (s *TaskService) record(fn func(TaskRecorder)) {
	if s.recorder != nil {
		fn(s.recorder)
	}
}

func normalizeRecurrence(raw string) (string, error) {
	switch r := strings.ToLower(strings.TrimSpace(raw)); r {
	case "":
		return model.RecurrenceNone, nil
	case model.RecurrenceNone, model.RecurrenceDaily, model.RecurrenceWeekly, model.RecurrenceMonthly:
		return r, nil
	}
	return "", invalid("recurrence", "must be one of none, daily, weekly, monthly")
}

func normalizePriority(raw string) (string, error) {
	switch p := strings.ToLower(strings.TrimSpace(raw)); p {
	case "", model.PriorityLow, model.PriorityMedium, model.PriorityHigh:
		return p, nil
	}
	return "", invalid("priority", "must be one of low, medium, high")
}

// NormalizeLabels trims each comma separated label, drops empty ones and
// removes case-insensitive duplicates while keeping the first spelling.
func NormalizeLabels(raw string) string {
	seen := make(map[string]bool)
	var out []string
	for _, part := range strings.Split(raw, ",") {
		label := strings.TrimSpace(part)
		key := strings.ToLower(label)
		if label == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, label)
	}
	return strings.Join(out, ",")
}

func toUTC(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	tt := t.UTC()
	return &tt
}
