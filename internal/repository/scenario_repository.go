package repository

import (
	"agritrain_backend/internal/model"
	"context"

	"gorm.io/gorm"
)

type ScenarioRepository struct {
	DB *gorm.DB
}

func NewScenarioRepository(db *gorm.DB) *ScenarioRepository {
	return &ScenarioRepository{DB: db}
}

func (r *ScenarioRepository) List(ctx context.Context) ([]model.Scenario, error) {
	var scenarios []model.Scenario
	err := r.DB.WithContext(ctx).Order("id ASC").Find(&scenarios).Error
	return scenarios, err
}

func (r *ScenarioRepository) FindByID(ctx context.Context, id uint) (*model.Scenario, error) {
	var scenario model.Scenario
	err := r.DB.WithContext(ctx).First(&scenario, id).Error
	return &scenario, err
}

func (r *ScenarioRepository) Create(ctx context.Context, scenario *model.Scenario) error {
	return r.DB.WithContext(ctx).Create(scenario).Error
}

func (r *ScenarioRepository) Save(ctx context.Context, scenario *model.Scenario) error {
	return r.DB.WithContext(ctx).Save(scenario).Error
}
