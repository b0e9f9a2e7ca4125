package service

import (
	"agritrain_backend/internal/model"
	"context"
	"time"
)

// The interfaces below are satisfied by the gorm repositories in
// internal/repository. Misses are reported as gorm.ErrRecordNotFound.

type UserStore interface {
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id uint) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByUsername(ctx context.Context, username string) (*model.User, error)
}

type SessionStore interface {
	Create(ctx context.Context, session *model.UserSession) error
	CloseFirstActive(ctx context.Context, userID uint, at time.Time) (bool, error)
	ListByUser(ctx context.Context, userID uint, activeOnly bool) ([]model.UserSession, error)
	TouchByToken(ctx context.Context, token string, at time.Time) error
}

type ScenarioStore interface {
	List(ctx context.Context) ([]model.Scenario, error)
	FindByID(ctx context.Context, id uint) (*model.Scenario, error)
	Create(ctx context.Context, scenario *model.Scenario) error
	Save(ctx context.Context, scenario *model.Scenario) error
}

type QuizStore interface {
	FindByID(ctx context.Context, id uint) (*model.Quiz, error)
	FindByScenarioID(ctx context.Context, scenarioID uint) (*model.Quiz, error)
	Create(ctx context.Context, quiz *model.Quiz) error
}

type AttemptStore interface {
	Create(ctx context.Context, attempt *model.QuizAttempt) error
	ListByUser(ctx context.Context, userID uint) ([]model.QuizAttempt, error)
}

type ProgressStore interface {
	Upsert(ctx context.Context, userID, scenarioID uint, apply func(p *model.UserProgress, exists bool)) (*model.UserProgress, error)
	ListByUser(ctx context.Context, userID uint) ([]model.UserProgress, error)
}

type CatalogCache interface {
	GetScenarios(ctx context.Context) ([]model.Scenario, bool)
	SetScenarios(ctx context.Context, scenarios []model.Scenario)
	InvalidateScenarios(ctx context.Context)
	GetQuizForScenario(ctx context.Context, scenarioID uint) (*model.Quiz, bool)
	SetQuizForScenario(ctx context.Context, quiz *model.Quiz)
	InvalidateQuiz(ctx context.Context, scenarioID uint)
}

// Clock is swapped in tests.
type Clock func() time.Time

func utcNow() time.Time {
	return time.Now().UTC()
}
