package model

import (
	"time"
)

type UserSession struct {
	RecordModel
	UserID       uint       `gorm:"not null;index" json:"user_id"`
	SessionToken string     `gorm:"size:512;uniqueIndex;not null" json:"session_token"`
	LoginTime    time.Time  `json:"login_time"`
	LastActivity time.Time  `json:"last_activity"`
	LogoutTime   *time.Time `json:"logout_time"`
	IsActive     bool       `gorm:"default:true;index" json:"is_active"`
	IPAddress    *string    `gorm:"size:64" json:"ip_address"`
	UserAgent    *string    `gorm:"size:512" json:"user_agent"`

	User *User `gorm:"foreignKey:UserID" json:"-"`
}

func (UserSession) TableName() string {
	return "user_sessions"
}
