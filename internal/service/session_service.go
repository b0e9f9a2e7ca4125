package service

import (
	"agritrain_backend/internal/model"
	"agritrain_backend/internal/util"
	"context"
	"fmt"
)

// SessionService is the login/logout ledger. Several sessions may be active
// for one user at the same time.
type SessionService struct {
	Store SessionStore
	Now   Clock
}

func NewSessionService(store SessionStore) *SessionService {
	return &SessionService{Store: store, Now: utcNow}
}

func (s *SessionService) Open(ctx context.Context, userID uint, token, ip, userAgent string) (*model.UserSession, error) {
	now := s.Now()
	session := &model.UserSession{
		UserID:       userID,
		SessionToken: token,
		LoginTime:    now,
		LastActivity: now,
		IsActive:     true,
		IPAddress:    util.StringPtr(ip),
		UserAgent:    util.StringPtr(userAgent),
	}
	if err := s.Store.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("open session: %w", err)
	}
	return session, nil
}

// CloseActive marks the user's first active session as logged out.
func (s *SessionService) CloseActive(ctx context.Context, userID uint) (bool, error) {
	closed, err := s.Store.CloseFirstActive(ctx, userID, s.Now())
	if err != nil {
		return false, fmt.Errorf("close session: %w", err)
	}
	return closed, nil
}

func (s *SessionService) List(ctx context.Context, userID uint, activeOnly bool) ([]model.UserSession, error) {
	sessions, err := s.Store.ListByUser(ctx, userID, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	if sessions == nil {
		sessions = []model.UserSession{}
	}
	return sessions, nil
}

// Touch records activity on the session that owns token.
func (s *SessionService) Touch(ctx context.Context, token string) error {
	return s.Store.TouchByToken(ctx, token, s.Now())
}
