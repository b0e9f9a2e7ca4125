package model

import (
	"gorm.io/datatypes"
)

// Question is stored inline in the quiz's questions JSON column.
type Question struct {
	ID            int      `json:"id"`
	QuestionText  string   `json:"question_text"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correct_answer"`
	Explanation   *string  `json:"explanation,omitempty"`
}

type Quiz struct {
	BaseModel
	ScenarioID       uint                          `gorm:"not null;uniqueIndex" json:"scenario_id"`
	Title            string                        `gorm:"size:255;not null" json:"title"`
	Description      *string                       `gorm:"type:text" json:"description"`
	Questions        datatypes.JSONSlice[Question] `gorm:"not null" json:"questions"`
	PassingScore     float64                       `gorm:"default:70" json:"passing_score"`
	TimeLimitMinutes *int                          `json:"time_limit_minutes"`

	Scenario *Scenario `gorm:"foreignKey:ScenarioID" json:"-"`
}

func (Quiz) TableName() string {
	return "quizzes"
}
