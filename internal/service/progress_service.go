package service

import (
	"agritrain_backend/internal/model"
	"agritrain_backend/internal/util"
	"agritrain_backend/pkg/monitoring"
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// ProgressInput uses pointers so that a zero percentage is distinguishable
// from a missing one.
type ProgressInput struct {
	ScenarioID           *uint    `json:"scenario_id"`
	CompletionPercentage *float64 `json:"completion_percentage"`
}

type ProgressService struct {
	Progress  ProgressStore
	Scenarios ScenarioStore
	Now       Clock
}

func NewProgressService(progress ProgressStore, scenarios ScenarioStore) *ProgressService {
	return &ProgressService{Progress: progress, Scenarios: scenarios, Now: utcNow}
}

// applyProgress sets the percentage and derived completion fields. The first
// completion timestamp is kept once set, even if the percentage later drops.
func applyProgress(p *model.UserProgress, pct float64, now time.Time) (firstCompletion bool) {
	completed := pct >= util.CompletionThreshold

	p.CompletionPercentage = pct
	p.IsCompleted = completed
	p.LastAccessedAt = now
	if completed && p.CompletedAt == nil {
		p.CompletedAt = &now
		return true
	}
	return false
}

// Upsert records the user's completion percentage for a scenario, creating
// the (user, scenario) row on first use and updating it afterwards.
// Percentages are stored as given, without clamping.
func (s *ProgressService) Upsert(ctx context.Context, userID, scenarioID uint, pct float64) (*model.UserProgress, error) {
	if _, err := s.Scenarios.FindByID(ctx, scenarioID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrScenarioNotFound
		}
		return nil, fmt.Errorf("lookup scenario: %w", err)
	}

	now := s.Now()
	firstCompletion := false
	progress, err := s.Progress.Upsert(ctx, userID, scenarioID, func(p *model.UserProgress, _ bool) {
		firstCompletion = applyProgress(p, pct, now)
	})
	if err != nil {
		return nil, fmt.Errorf("upsert progress: %w", err)
	}

	if firstCompletion {
		monitoring.RecordCompletion(scenarioID)
	}
	return progress, nil
}

func (s *ProgressService) ListForUser(ctx context.Context, userID uint) ([]model.UserProgress, error) {
	progress, err := s.Progress.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list progress: %w", err)
	}
	if progress == nil {
		progress = []model.UserProgress{}
	}
	return progress, nil
}
