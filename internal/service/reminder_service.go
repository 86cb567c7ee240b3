package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"reliabot/internal/model"
	"reliabot/internal/repository"
)

// UserStore persists reminder settings.
type UserStore interface {
	GetUser(ctx context.Context, userID string) (*model.User, error)
	SetReminderHour(ctx context.Context, userID string, hour *int) error
	ListWithReminder(ctx context.Context) ([]model.User, error)
	SetLastCheckin(ctx context.Context, userID, date string) error
}

// Notifier delivers a message to a user.
type Notifier interface {
	Notify(ctx context.Context, userID, text string) error
}

// CheckinRecorder receives check-in delivery results (metrics).
type CheckinRecorder interface {
	CheckinSent(ok bool)
}

// ReminderService manages the daily check-in hour of each user and sends the
// check-ins. Hours are UTC.
type ReminderService struct {
	users    UserStore
	notifier Notifier
	recorder CheckinRecorder
	message  string
	logger   *zap.Logger
}

func NewReminderService(users UserStore, notifier Notifier, recorder CheckinRecorder, message string, logger *zap.Logger) *ReminderService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReminderService{
		users:    users,
		notifier: notifier,
		recorder: recorder,
		message:  message,
		logger:   logger,
	}
}

// Get returns the user's settings; users that never set a reminder get an empty record.
func (s *ReminderService) Get(ctx context.Context, userID string) (*model.User, error) {
	user, err := s.users.GetUser(ctx, userID)
	if errors.Is(err, repository.ErrUserNotFound) {
		return &model.User{UserID: userID}, nil
	}
	return user, err
}

func (s *ReminderService) SetReminder(ctx context.Context, userID string, hour int) error {
	if hour < 0 || hour > 23 {
		return invalid("hour", "must be between 0 and 23")
	}
	return s.users.SetReminderHour(ctx, userID, &hour)
}

func (s *ReminderService) ClearReminder(ctx context.Context, userID string) error {
	return s.users.SetReminderHour(ctx, userID, nil)
}

// RunCheckins notifies every user whose reminder hour is the current UTC hour
// and who has not been notified today. It returns how many were sent.
func (s *ReminderService) RunCheckins(ctx context.Context, now time.Time) (int, error) {
	now = now.UTC()
	today := now.Format("2006-01-02")

	users, err := s.users.ListWithReminder(ctx)
	if err != nil {
		return 0, err
	}

	sent := 0
	for _, u := range users {
		if u.ReminderHour == nil || *u.ReminderHour != now.Hour() {
			continue
		}
		if u.LastCheckin != nil && *u.LastCheckin == today {
			continue
		}

		if err := s.notifier.Notify(ctx, u.UserID, s.message); err != nil {
			s.logger.Warn("check-in failed", zap.String("user_id", u.UserID), zap.Error(err))
			s.recordCheckin(false)
			continue
		}
		s.recordCheckin(true)
		if err := s.users.SetLastCheckin(ctx, u.UserID, today); err != nil {
			s.logger.Error("record check-in", zap.String("user_id", u.UserID), zap.Error(err))
			continue
		}
		sent++
	}
	return sent, nil
}

func (s *ReminderService) recordCheckin(ok bool) {
	if s.recorder != nil {
		s.recorder.CheckinSent(ok)
	}
}
