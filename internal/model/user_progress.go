package model

import (
	"time"
)

// UserProgress is unique per (user_id, scenario_id).
type UserProgress struct {
	BaseModel
	UserID               uint       `gorm:"not null;uniqueIndex:idx_user_scenario" json:"user_id"`
	ScenarioID           uint       `gorm:"not null;uniqueIndex:idx_user_scenario" json:"scenario_id"`
	CompletionPercentage float64    `gorm:"default:0" json:"completion_percentage"`
	IsCompleted          bool       `gorm:"default:false" json:"is_completed"`
	LastAccessedAt       time.Time  `json:"last_accessed_at"`
	CompletedAt          *time.Time `json:"completed_at"`

	User     *User     `gorm:"foreignKey:UserID" json:"-"`
	Scenario *Scenario `gorm:"foreignKey:ScenarioID" json:"-"`
}

func (UserProgress) TableName() string {
	return "user_progress"
}
