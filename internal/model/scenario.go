package model

import (
	"gorm.io/datatypes"
)

type ScenarioType string

const (
	ScenarioPest       ScenarioType = "pest"
	ScenarioIrrigation ScenarioType = "irrigation"
	ScenarioCrops      ScenarioType = "crops"
	ScenarioClimate    ScenarioType = "climate"
)

type DifficultyLevel string

const (
	DifficultyBeginner     DifficultyLevel = "beginner"
	DifficultyIntermediate DifficultyLevel = "intermediate"
	DifficultyAdvanced     DifficultyLevel = "advanced"
)

// Scenario 培训场景，可附带一个测验
type Scenario struct {
	BaseModel
	Title              string                      `gorm:"size:255;not null" json:"title"`
	Description        string                      `gorm:"type:text;not null" json:"description"`
	ScenarioType       ScenarioType                `gorm:"size:32;not null;index" json:"scenario_type"`
	DurationMinutes    int                         `gorm:"not null" json:"duration_minutes"`
	DifficultyLevel    DifficultyLevel             `gorm:"size:32;default:'beginner'" json:"difficulty_level"`
	ImageURL           *string                     `gorm:"size:512" json:"image_url"`
	PanoramaURL        *string                     `gorm:"size:512" json:"panorama_url"`
	LearningObjectives datatypes.JSONSlice[string] `json:"learning_objectives"`
	Prerequisites      datatypes.JSONSlice[uint]   `json:"prerequisites"`
}

func (Scenario) TableName() string {
	return "scenarios"
}
