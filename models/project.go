package models

import (
	"time"
)

type Project struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	UserID uint `gorm:"not null;index" json:"user_id"`
	User   User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`

	Title string `gorm:"not null" json:"title"`
	// Input is the original free-text idea the script was generated from.
	Input string `gorm:"type:text;not null" json:"input"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Scenes []Scene `gorm:"foreignKey:ProjectID" json:"-"`
}

func (Project) TableName() string {
	return "projects"
}
