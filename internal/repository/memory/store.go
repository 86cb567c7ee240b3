// Package memory keeps tasks and user settings in process memory. It backs
// STORAGE=memory and the service tests.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"reliabot/internal/model"
	"reliabot/internal/repository"
)

type Store struct {
	mu    sync.RWMutex
	seq   int64
	tasks map[uuid.UUID]entry
	users map[string]model.User
}

// entry remembers insertion order so equal created_at values still sort stably.
type entry struct {
	seq  int64
	task model.Task
}

func New() *Store {
	return &Store{
		tasks: make(map[uuid.UUID]entry),
		users: make(map[string]model.User),
	}
}

func (s *Store) Create(_ context.Context, task *model.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if task.ID == uuid.Nil {
		task.ID = uuid.New()
	}
	s.seq++
	s.tasks[task.ID] = entry{seq: s.seq, task: cloneTask(*task)}
	return nil
}

func (s *Store) ListByUser(_ context.Context, userID string) ([]model.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := s.filter(func(t model.Task) bool { return t.UserID == userID })
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if !a.task.CreatedAt.Equal(b.task.CreatedAt) {
			return a.task.CreatedAt.After(b.task.CreatedAt)
		}
		return a.seq > b.seq
	})
	return tasksOf(entries), nil
}

func (s *Store) ListCompleted(_ context.Context, userID string) ([]model.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := s.filter(func(t model.Task) bool { return t.UserID == userID && t.Completed })
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if !a.task.CompletedAt.Equal(*b.task.CompletedAt) {
			return a.task.CompletedAt.After(*b.task.CompletedAt)
		}
		return a.seq > b.seq
	})
	return tasksOf(entries), nil
}

func (s *Store) GetByID(_ context.Context, userID string, id uuid.UUID) (*model.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.tasks[id]
	if !ok || e.task.UserID != userID {
		return nil, repository.ErrTaskNotFound
	}
	t := cloneTask(e.task)
	return &t, nil
}

func (s *Store) FindByName(_ context.Context, userID, name string) ([]model.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := s.filter(func(t model.Task) bool { return t.UserID == userID && t.Name == name })
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if !a.task.CreatedAt.Equal(b.task.CreatedAt) {
			return a.task.CreatedAt.Before(b.task.CreatedAt)
		}
		return a.seq < b.seq
	})
	return tasksOf(entries), nil
}

func (s *Store) MarkCompleted(_ context.Context, userID string, id uuid.UUID, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.tasks[id]
	if !ok || e.task.UserID != userID {
		return repository.ErrTaskNotFound
	}
	if e.task.Completed {
		return repository.ErrTaskAlreadyCompleted
	}
	e.task.Completed = true
	e.task.CompletedAt = &at
	s.tasks[id] = e
	return nil
}

func (s *Store) Delete(_ context.Context, userID string, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.tasks[id]
	if !ok || e.task.UserID != userID {
		return repository.ErrTaskNotFound
	}
	delete(s.tasks, id)
	return nil
}

func (s *Store) DeleteCompleted(_ context.Context, userID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int64
	for id, e := range s.tasks {
		if e.task.UserID == userID && e.task.Completed {
			delete(s.tasks, id)
			n++
		}
	}
	return n, nil
}

func (s *Store) GetUser(_ context.Context, userID string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[userID]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	return &u, nil
}

func (s *Store) SetReminderHour(_ context.Context, userID string, hour *int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[userID]
	if !ok {
		u = model.User{UserID: userID, CreatedAt: time.Now().UTC()}
	}
	if hour != nil {
		h := *hour
		hour = &h
	}
	u.ReminderHour = hour
	s.users[userID] = u
	return nil
}

func (s *Store) ListWithReminder(_ context.Context) ([]model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []model.User
	for _, u := range s.users {
		if u.ReminderHour != nil {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out, nil
}

func (s *Store) SetLastCheckin(_ context.Context, userID, date string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[userID]
	if !ok {
		return repository.ErrUserNotFound
	}
	u.LastCheckin = &date
	s.users[userID] = u
	return nil
}

func (s *Store) filter(keep func(model.Task) bool) []entry {
	var out []entry
	for _, e := range s.tasks {
		if keep(e.task) {
			out = append(out, e)
		}
	}
	return out
}

func tasksOf(entries []entry) []model.Task {
	out := make([]model.Task, len(entries))
	for i, e := range entries {
		out[i] = cloneTask(e.task)
	}
	return out
}

// cloneTask copies the pointer fields so callers cannot mutate stored state.
func cloneTask(t model.Task) model.Task {
	if t.DueAt != nil {
		d := *t.DueAt
		t.DueAt = &d
	}
	if t.CompletedAt != nil {
		c := *t.CompletedAt
		t.CompletedAt = &c
	}
	return t
}
