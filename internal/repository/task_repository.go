package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"reliabot/internal/model"
)

type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// Create adds a new task to the database
func (r *TaskRepository) Create(ctx context.Context, task *model.Task) error {
	if err := r.db.WithContext(ctx).Create(task).Error; err != nil {
		return storeErr("create task", err)
	}
	return nil
}

// ListByUser returns every task of the user, newest first
func (r *TaskRepository) ListByUser(ctx context.Context, userID string) ([]model.Task, error) {
	var tasks []model.Task
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&tasks).Error
	if err != nil {
		return nil, storeErr("list tasks", err)
	}
	return tasks, nil
}

// ListCompleted returns the user's completed tasks, most recently completed first
func (r *TaskRepository) ListCompleted(ctx context.Context, userID string) ([]model.Task, error) {
	var tasks []model.Task
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND completed = ?", userID, true).
		Order("completed_at DESC").
		Find(&tasks).Error
	if err != nil {
		return nil, storeErr("list completed tasks", err)
	}
	return tasks, nil
}

// GetByID retrieves a task owned by the user
func (r *TaskRepository) GetByID(ctx context.Context, userID string, id uuid.UUID) (*model.Task, error) {
	var task model.Task
	err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&task).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, storeErr("get task", err)
	}
	return &task, nil
}

// FindByName returns the user's tasks with exactly this name, oldest first
func (r *TaskRepository) FindByName(ctx context.Context, userID, name string) ([]model.Task, error) {
	var tasks []model.Task
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND name = ?", userID, name).
		Order("created_at ASC").
		Find(&tasks).Error
	if err != nil {
		return nil, storeErr("find tasks by name", err)
	}
	return tasks, nil
}

// MarkCompleted flips an incomplete task to completed. The update is conditional,
// so of two racing callers only one succeeds.
func (r *TaskRepository) MarkCompleted(ctx context.Context, userID string, id uuid.UUID, at time.Time) error {
	result := r.db.WithContext(ctx).Model(&model.Task{}).
		Where("id = ? AND user_id = ? AND completed = ?", id, userID, false).
		Updates(map[string]interface{}{
			"completed":    true,
			"completed_at": at,
		})
	if result.Error != nil {
		return storeErr("complete task", result.Error)
	}
	if result.RowsAffected > 0 {
		return nil
	}

	var count int64
	err := r.db.WithContext(ctx).Model(&model.Task{}).
		Where("id = ? AND user_id = ?", id, userID).
		Count(&count).Error
	if err != nil {
		return storeErr("complete task", err)
	}
	if count == 0 {
		return ErrTaskNotFound
	}
	return ErrTaskAlreadyCompleted
}

// Delete removes a task owned by the user
func (r *TaskRepository) Delete(ctx context.Context, userID string, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&model.Task{})
	if result.Error != nil {
		return storeErr("delete task", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrTaskNotFound
	}
	return nil
}

// DeleteCompleted removes all completed tasks of the user and reports how many went
func (r *TaskRepository) DeleteCompleted(ctx context.Context, userID string) (int64, error) {
	result := r.db.WithContext(ctx).Where("user_id = ? AND completed = ?", userID, true).Delete(&model.Task{})
	if result.Error != nil {
		return 0, storeErr("delete completed tasks", result.Error)
	}
	return result.RowsAffected, nil
}
