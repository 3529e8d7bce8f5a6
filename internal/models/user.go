package models

import (
	"time"
)

type User struct {
	ID uint64 `gorm:"primaryKey;autoIncrement" json:"id"`

	Username     string `gorm:"type:varchar(50);not null;uniqueIndex" json:"username"`
	Email        string `gorm:"type:varchar(255);not null;uniqueIndex" json:"email"`
	PasswordHash string `gorm:"type:varchar(255);not null" json:"-"`

	LastLogin *time.Time `gorm:"type:timestamptz" json:"last_login,omitempty"`
	CreatedAt time.Time  `gorm:"type:timestamptz;autoCreateTime" json:"created_at"`
}

func (User) TableName() string {
	return "users"
}
