package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"reliabot/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	dialector := postgres.New(postgres.Config{
		DSN:                  "sqlmock_db_0",
		DriverName:           "postgres",
		Conn:                 db,
		PreferSimpleProtocol: true,
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{Logger: logger.Discard})
	require.NoError(t, err)

	return gormDB, mock
}

func TestUserRepository_GetUser_Found(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	userRepo := repository.NewUserRepository(gormDB)

	rows := sqlmock.NewRows([]string{"user_id", "reminder_hour", "last_checkin", "created_at"}).
		AddRow("alice", 9, "2026-10-13", time.Now())
	mock.ExpectQuery(`SELECT \* FROM "users" WHERE user_id = .*LIMIT`).WillReturnRows(rows)

	// Act
	user, err := userRepo.GetUser(context.Background(), "alice")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "alice", user.UserID)
	require.NotNil(t, user.ReminderHour)
	assert.Equal(t, 9, *user.ReminderHour)
	require.NotNil(t, user.LastCheckin)
	assert.Equal(t, "2026-10-13", *user.LastCheckin)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_GetUser_NotFound(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	userRepo := repository.NewUserRepository(gormDB)

	mock.ExpectQuery(`SELECT \* FROM "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}))

	user, err := userRepo.GetUser(context.Background(), "ghost")

	assert.Nil(t, user)
	assert.ErrorIs(t, err, repository.ErrUserNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_GetUser_Error(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	userRepo := repository.NewUserRepository(gormDB)

	mock.ExpectQuery(`SELECT \* FROM "users"`).WillReturnError(errors.New("connection refused"))

	_, err := userRepo.GetUser(context.Background(), "alice")

	assert.ErrorIs(t, err, repository.ErrStoreUnavailable)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestUserRepository_SetReminderHour_Upserts(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	userRepo := repository.NewUserRepository(gormDB)
	hour := 7

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "users" .*ON CONFLICT \("user_id"\) DO UPDATE SET "reminder_hour"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := userRepo.SetReminderHour(context.Background(), "alice", &hour)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_ListWithReminder(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	userRepo := repository.NewUserRepository(gormDB)

	rows := sqlmock.NewRows([]string{"user_id", "reminder_hour", "last_checkin", "created_at"}).
		AddRow("alice", 9, nil, time.Now()).
		AddRow("bob", 18, "2026-10-13", time.Now())
	mock.ExpectQuery(`SELECT \* FROM "users" WHERE reminder_hour IS NOT NULL`).WillReturnRows(rows)

	users, err := userRepo.ListWithReminder(context.Background())

	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Nil(t, users[0].LastCheckin)
	assert.Equal(t, 18, *users[1].ReminderHour)
}

func TestUserRepository_SetLastCheckin(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	userRepo := repository.NewUserRepository(gormDB)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "users" SET "last_checkin"`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "users" SET "last_checkin"`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	assert.NoError(t, userRepo.SetLastCheckin(context.Background(), "alice", "2026-10-14"))
	assert.ErrorIs(t, userRepo.SetLastCheckin(context.Background(), "ghost", "2026-10-14"), repository.ErrUserNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
