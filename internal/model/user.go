package model

import (
	"time"
)

// User holds per-user settings. Identity itself lives with the session provider;
// rows are created lazily the first time a user configures a reminder.
type User struct {
	UserID       string `gorm:"primaryKey"`
	ReminderHour *int
	LastCheckin  *string
	CreatedAt    time.Time `gorm:"autoCreateTime"`
}
