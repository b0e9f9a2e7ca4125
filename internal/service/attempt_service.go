package service

import (
	"agritrain_backend/internal/model"
	"agritrain_backend/internal/util"
	"agritrain_backend/pkg/logger"
	"agritrain_backend/pkg/monitoring"
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type AttemptInput struct {
	QuizID      uint       `json:"quiz_id" binding:"required"`
	Answers     []int      `json:"answers" binding:"required"`
	StartedAt   *time.Time `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at"`
}

type AttemptService struct {
	Quizzes  QuizStore
	Attempts AttemptStore
	Now      Clock
}

func NewAttemptService(quizzes QuizStore, attempts AttemptStore) *AttemptService {
	return &AttemptService{Quizzes: quizzes, Attempts: attempts, Now: utcNow}
}

// Submit scores the answers against the quiz and stores a new attempt.
func (s *AttemptService) Submit(ctx context.Context, userID uint, in AttemptInput) (*model.QuizAttempt, error) {
	quiz, err := s.Quizzes.FindByID(ctx, in.QuizID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrQuizNotFound
		}
		return nil, fmt.Errorf("load quiz: %w", err)
	}

	score, passed := ScoreAttempt(quiz.Questions, in.Answers, quiz.PassingScore)

	now := s.Now()
	completedAt := now
	if in.CompletedAt != nil {
		completedAt = in.CompletedAt.UTC()
	}

	startedAt := now
	var timeTaken *float64
	if in.StartedAt != nil {
		startedAt = in.StartedAt.UTC()
		minutes := completedAt.Sub(startedAt).Minutes()
		if minutes < 0 {
			minutes = 0
		}
		timeTaken = &minutes
	}

	answers := in.Answers
	if answers == nil {
		answers = []int{}
	}

	attempt := &model.QuizAttempt{
		UserID:           userID,
		QuizID:           quiz.ID,
		Answers:          datatypes.JSONSlice[int](answers),
		Score:            score,
		IsPassed:         passed,
		TimeTakenMinutes: timeTaken,
		StartedAt:        startedAt,
		CompletedAt:      &completedAt,
	}
	if err := s.Attempts.Create(ctx, attempt); err != nil {
		return nil, fmt.Errorf("save attempt: %w", err)
	}

	monitoring.RecordAttempt(passed)
	logger.Log.Info("quiz attempt scored",
		zap.Uint("user_id", userID),
		zap.Uint("quiz_id", quiz.ID),
		zap.Float64("score", score),
		zap.Bool("passed", passed),
	)
	return attempt, nil
}

func (s *AttemptService) ListForUser(ctx context.Context, userID uint) ([]model.QuizAttempt, error) {
	attempts, err := s.Attempts.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list attempts: %w", err)
	}
	if attempts == nil {
		attempts = []model.QuizAttempt{}
	}
	return attempts, nil
}
