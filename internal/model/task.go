package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Recurrence values accepted for a task.
const (
	RecurrenceNone    = "none"
	RecurrenceDaily   = "daily"
	RecurrenceWeekly  = "weekly"
	RecurrenceMonthly = "monthly"
)

// Priority values accepted for a task. An empty priority means "not set".
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

type Task struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID      string    `gorm:"not null;index"`
	Name        string    `gorm:"not null"`
	Description string
	DueAt       *time.Time
	Recurrence  string `gorm:"not null"`
	Labels      string
	Priority    string
	Completed   bool      `gorm:"not null;index"`
	CreatedAt   time.Time `gorm:"not null"`
	CompletedAt *time.Time
}

// BeforeCreate assigns the id so every backend (postgres, sqlite, memory) shares one id scheme.
func (t *Task) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
