package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"agritrain_backend/internal/model"

	"github.com/DATA-DOG/go-sqlmock"
	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{
		DisableAutomaticPing: true,
		TranslateError:       true,
		Logger:               logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db, mock
}

var progressColumns = []string{"id", "user_id", "scenario_id", "completion_percentage", "is_completed", "last_accessed_at", "completed_at", "created_at", "updated_at"}

func TestProgressUpsert_InsertsMissingRow(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewProgressRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT \\* FROM `user_progress` WHERE .*FOR UPDATE").
		WillReturnRows(sqlmock.NewRows(progressColumns))
	mock.ExpectExec("INSERT INTO `user_progress`").
		WillReturnResult(sqlmock.NewResult(7, 1))
	mock.ExpectCommit()

	var sawExisting bool
	p, err := repo.Upsert(context.Background(), 3, 4, func(p *model.UserProgress, exists bool) {
		sawExisting = exists
		p.CompletionPercentage = 25
		p.LastAccessedAt = time.Now()
	})
	require.NoError(t, err)
	assert.False(t, sawExisting)
	assert.Equal(t, uint(7), p.ID)
	assert.Equal(t, uint(3), p.UserID)
	assert.Equal(t, uint(4), p.ScenarioID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProgressUpsert_UpdatesExistingRow(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewProgressRepository(db)
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT \\* FROM `user_progress` WHERE .*FOR UPDATE").
		WillReturnRows(sqlmock.NewRows(progressColumns).
			AddRow(5, 3, 4, 40.0, false, now, nil, now, now))
	mock.ExpectExec("UPDATE `user_progress` SET").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	var sawExisting bool
	p, err := repo.Upsert(context.Background(), 3, 4, func(p *model.UserProgress, exists bool) {
		sawExisting = exists
		p.CompletionPercentage = 80
	})
	require.NoError(t, err)
	assert.True(t, sawExisting)
	assert.Equal(t, uint(5), p.ID)
	assert.Equal(t, 80.0, p.CompletionPercentage)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProgressUpsert_RollsBackOnError(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewProgressRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT \\* FROM `user_progress`").
		WillReturnError(errors.New("lock wait timeout"))
	mock.ExpectRollback()

	_, err := repo.Upsert(context.Background(), 3, 4, func(*model.UserProgress, bool) {
		t.Fatal("apply must not run when the lookup fails")
	})
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProgressUpsert_RetriesLostInsertRace(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewProgressRepository(db)
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT \\* FROM `user_progress` WHERE .*FOR UPDATE").
		WillReturnRows(sqlmock.NewRows(progressColumns))
	mock.ExpectExec("INSERT INTO `user_progress`").
		WillReturnError(&mysqldriver.MySQLError{Number: 1062, Message: "Duplicate entry '3-4' for key 'idx_user_scenario'"})
	mock.ExpectRollback()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT \\* FROM `user_progress` WHERE .*FOR UPDATE").
		WillReturnRows(sqlmock.NewRows(progressColumns).
			AddRow(9, 3, 4, 100.0, true, now, now, now, now))
	mock.ExpectExec("UPDATE `user_progress` SET").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	var calls []bool
	p, err := repo.Upsert(context.Background(), 3, 4, func(p *model.UserProgress, exists bool) {
		calls = append(calls, exists)
		p.CompletionPercentage = 60
	})
	require.NoError(t, err)
	assert.Equal(t, []bool{false, true}, calls)
	assert.Equal(t, uint(9), p.ID)
	assert.Equal(t, 60.0, p.CompletionPercentage)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProgressUpsert_GivesUpAfterOneRetry(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewProgressRepository(db)

	for i := 0; i < 2; i++ {
		mock.ExpectBegin()
		mock.ExpectQuery("SELECT \\* FROM `user_progress`").
			WillReturnRows(sqlmock.NewRows(progressColumns))
		mock.ExpectExec("INSERT INTO `user_progress`").
			WillReturnError(&mysqldriver.MySQLError{Number: 1062, Message: "Duplicate entry"})
		mock.ExpectRollback()
	}

	_, err := repo.Upsert(context.Background(), 3, 4, func(*model.UserProgress, bool) {})
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_MissIsRecordNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery("SELECT \\* FROM `users` WHERE email = \\?").
		WillReturnRows(sqlmock.NewRows([]string{"id", "email"}))

	_, err := repo.FindByEmail(context.Background(), "ghost@x.com")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
