package model

import (
	"time"

	"gorm.io/datatypes"
)

// QuizAttempt 一次已评分的测验提交，创建后不再修改
type QuizAttempt struct {
	RecordModel
	UserID           uint                     `gorm:"not null;index" json:"user_id"`
	QuizID           uint                     `gorm:"not null;index" json:"quiz_id"`
	Answers          datatypes.JSONSlice[int] `gorm:"not null" json:"answers"`
	Score            float64                  `gorm:"not null" json:"score"`
	IsPassed         bool                     `gorm:"default:false" json:"is_passed"`
	TimeTakenMinutes *float64                 `json:"time_taken_minutes"`
	StartedAt        time.Time                `json:"started_at"`
	CompletedAt      *time.Time               `json:"completed_at"`

	User *User `gorm:"foreignKey:UserID" json:"-"`
	Quiz *Quiz `gorm:"foreignKey:QuizID" json:"-"`
}

func (QuizAttempt) TableName() string {
	return "quiz_attempts"
}
