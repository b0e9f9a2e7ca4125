package repository

import (
	"agritrain_backend/internal/model"
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

type SessionRepository struct {
	DB *gorm.DB
}

func NewSessionRepository(db *gorm.DB) *SessionRepository {
	return &SessionRepository{DB: db}
}

func (r *SessionRepository) Create(ctx context.Context, session *model.UserSession) error {
	return r.DB.WithContext(ctx).Create(session).Error
}

// CloseFirstActive deactivates the user's first active session in storage
// order and reports whether one existed.
func (r *SessionRepository) CloseFirstActive(ctx context.Context, userID uint, at time.Time) (bool, error) {
	closed := false
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var session model.UserSession
		err := tx.Where("user_id = ? AND is_active = ?", userID, true).
			Order("id ASC").
			First(&session).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		err = tx.Model(&session).Updates(map[string]interface{}{
			"is_active":   false,
			"logout_time": at,
		}).Error
		if err != nil {
			return err
		}
		closed = true
		return nil
	})
	return closed, err
}

func (r *SessionRepository) ListByUser(ctx context.Context, userID uint, activeOnly bool) ([]model.UserSession, error) {
	var sessions []model.UserSession
	query := r.DB.WithContext(ctx).Where("user_id = ?", userID)
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	err := query.Order("id ASC").Find(&sessions).Error
	return sessions, err
}

func (r *SessionRepository) TouchByToken(ctx context.Context, token string, at time.Time) error {
	return r.DB.WithContext(ctx).
		Model(&model.UserSession{}).
		Where("session_token = ? AND is_active = ?", token, true).
		Update("last_activity", at).Error
}
