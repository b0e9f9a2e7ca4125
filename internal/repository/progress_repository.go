package repository

import (
	"agritrain_backend/internal/model"
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProgressRepository struct {
	DB *gorm.DB
}

func NewProgressRepository(db *gorm.DB) *ProgressRepository {
	return &ProgressRepository{DB: db}
}

// Upsert loads the (user, scenario) row under a row lock, lets apply mutate
// it, then inserts or saves it, all in one transaction. exists tells apply
// whether the row was already stored. When a concurrent first write wins the
// insert, the transaction is retried once against the committed row.
func (r *ProgressRepository) Upsert(ctx context.Context, userID, scenarioID uint, apply func(p *model.UserProgress, exists bool)) (*model.UserProgress, error) {
	progress, err := r.upsertOnce(ctx, userID, scenarioID, apply)
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return r.upsertOnce(ctx, userID, scenarioID, apply)
	}
	return progress, err
}

func (r *ProgressRepository) upsertOnce(ctx context.Context, userID, scenarioID uint, apply func(p *model.UserProgress, exists bool)) (*model.UserProgress, error) {
	var progress model.UserProgress
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ? AND scenario_id = ?", userID, scenarioID).
			First(&progress).Error

		switch {
		case err == nil:
			apply(&progress, true)
			return tx.Save(&progress).Error
		case errors.Is(err, gorm.ErrRecordNotFound):
			progress = model.UserProgress{UserID: userID, ScenarioID: scenarioID}
			apply(&progress, false)
			return tx.Create(&progress).Error
		default:
			return err
		}
	})
	if err != nil {
		return nil, err
	}
	return &progress, nil
}

func (r *ProgressRepository) ListByUser(ctx context.Context, userID uint) ([]model.UserProgress, error) {
	var progress []model.UserProgress
	err := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id ASC").
		Find(&progress).Error
	return progress, err
}
