package models

import (
	"time"
)

type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"not null" json:"-"`
	CreatedAt    time.Time `json:"created_at"`

	// Deleting a user removes their projects (and transitively their scenes).
	Projects []Project `gorm:"foreignKey:UserID" json:"-"`
}

// TableName overrides the table name
func (User) TableName() string {
	return "users"
}
