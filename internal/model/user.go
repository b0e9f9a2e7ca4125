package model

// swagger:model User
type User struct {
	BaseModel
	Email          string  `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Username       string  `gorm:"size:100;uniqueIndex;not null" json:"username"`
	HashedPassword string  `gorm:"size:255;not null" json:"-"`
	FullName       *string `gorm:"size:255" json:"full_name"`
	IsActive       bool    `gorm:"default:true" json:"is_active"`
}

func (User) TableName() string {
	return "users"
}
