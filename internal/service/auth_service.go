package service

import (
	"agritrain_backend/internal/config"
	"agritrain_backend/internal/model"
	"agritrain_backend/internal/util"
	"agritrain_backend/pkg/logger"
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type RegisterInput struct {
	Email    string  `json:"email" binding:"required,email"`
	Username string  `json:"username" binding:"required,min=3,max=100"`
	Password string  `json:"password" binding:"required,min=6"`
	FullName *string `json:"full_name"`
}

type LoginResult struct {
	AccessToken string      `json:"access_token"`
	TokenType   string      `json:"token_type"`
	User        *model.User `json:"user"`
	SessionID   uint        `json:"session_id"`
}

type AuthService struct {
	Users    UserStore
	Sessions *SessionService
	Cfg      config.JWTConfig
}

func NewAuthService(users UserStore, sessions *SessionService, cfg config.JWTConfig) *AuthService {
	return &AuthService{
		Users:    users,
		Sessions: sessions,
		Cfg:      cfg,
	}
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*model.User, error) {
	email := strings.TrimSpace(in.Email)
	username := strings.TrimSpace(in.Username)

	_, err := s.Users.FindByEmail(ctx, email)
	if err == nil {
		return nil, util.ErrEmailRegistered
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("lookup email: %w", err)
	}

	_, err = s.Users.FindByUsername(ctx, username)
	if err == nil {
		return nil, util.ErrUsernameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("lookup username: %w", err)
	}

	hashed, err := util.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Email:          email,
		Username:       username,
		HashedPassword: hashed,
		FullName:       in.FullName,
		IsActive:       true,
	}
	if err := s.Users.Create(ctx, user); err != nil {
		// lost a race with a concurrent registration
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, util.ErrEmailRegistered
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	logger.Log.Info("user registered", zap.Uint("user_id", user.ID))
	return user, nil
}

// Login verifies the credentials, issues a bearer token and opens a session
// row keyed by that token.
func (s *AuthService) Login(ctx context.Context, email, password, ip, userAgent string) (*LoginResult, error) {
	user, err := s.Users.FindByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	if !util.CheckPassword(password, user.HashedPassword) || !user.IsActive {
		return nil, util.ErrInvalidCredentials
	}

	token, err := util.GenerateJWT(user.ID, s.Cfg.Secret, s.Cfg.ExpireTime)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	session, err := s.Sessions.Open(ctx, user.ID, token, ip, userAgent)
	if err != nil {
		return nil, err
	}

	logger.Log.Info("user logged in", zap.Uint("user_id", user.ID), zap.Uint("session_id", session.ID))
	return &LoginResult{
		AccessToken: token,
		TokenType:   "bearer",
		User:        user,
		SessionID:   session.ID,
	}, nil
}

// Authenticate validates the token and checks that its user still exists.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*util.Claims, error) {
	claims, err := util.ParseJWT(token, s.Cfg.Secret)
	if err != nil {
		return nil, err
	}
	if _, err := s.CurrentUser(ctx, claims.UserID); err != nil {
		return nil, err
	}
	return claims, nil
}

func (s *AuthService) CurrentUser(ctx context.Context, userID uint) (*model.User, error) {
	user, err := s.Users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrUserNotFound
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	return user, nil
}

func (s *AuthService) Logout(ctx context.Context, userID uint) (bool, error) {
	closed, err := s.Sessions.CloseActive(ctx, userID)
	if err != nil {
		return false, err
	}
	logger.Log.Info("user logged out", zap.Uint("user_id", userID), zap.Bool("session_closed", closed))
	return closed, nil
}
