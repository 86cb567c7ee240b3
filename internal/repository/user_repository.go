package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"reliabot/internal/model"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetUser(ctx context.Context, userID string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, storeErr("get user", err)
	}
	return &user, nil
}

// SetReminderHour upserts the user row; a nil hour disables the reminder.
func (r *UserRepository) SetReminderHour(ctx context.Context, userID string, hour *int) error {
	user := model.User{UserID: userID, ReminderHour: hour}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"reminder_hour"}),
	}).Create(&user).Error
	if err != nil {
		return storeErr("set reminder", err)
	}
	return nil
}

// ListWithReminder returns users that have a reminder hour configured
func (r *UserRepository) ListWithReminder(ctx context.Context) ([]model.User, error) {
	var users []model.User
	if err := r.db.WithContext(ctx).Where("reminder_hour IS NOT NULL").Find(&users).Error; err != nil {
		return nil, storeErr("list reminder users", err)
	}
	return users, nil
}

// SetLastCheckin records the date (YYYY-MM-DD) of the last check-in sent to the user
func (r *UserRepository) SetLastCheckin(ctx context.Context, userID, date string) error {
	result := r.db.WithContext(ctx).Model(&model.User{}).
		Where("user_id = ?", userID).
		Update("last_checkin", date)
	if result.Error != nil {
		return storeErr("set last check-in", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}
