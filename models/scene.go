package models

import "time"

// Scene is one unit of a storyboard. SceneNumber defines the canonical
// display order for both the script and storyboard views.
type Scene struct {
	ID        uint    `gorm:"primaryKey" json:"id"`
	ProjectID uint    `gorm:"not null;index" json:"project_id"`
	Project   Project `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"-"`

	SceneNumber int     `gorm:"not null" json:"scene_number"`
	Title       string  `json:"title"`
	Location    string  `json:"location"`
	Description string  `gorm:"type:text" json:"description"`
	Action      string  `gorm:"type:text" json:"action"`
	Mood        string  `json:"mood"`
	ImagePrompt string  `gorm:"type:text" json:"image_prompt"`
	ImageURL    *string `gorm:"type:text" json:"image_url"`

	CreatedAt time.Time `json:"created_at"`
}

func (Scene) TableName() string {
	return "scenes"
}

// HasImage reports whether the scene has already been illustrated.
// Illustrated scenes are never regenerated.
func (s *Scene) HasImage() bool {
	return s.ImageURL != nil && *s.ImageURL != ""
}
