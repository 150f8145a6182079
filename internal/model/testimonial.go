package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Testimonial — отзыв, оставленный через ссылку сборщика.
// Создаётся неопубликованным, публикуется только владельцем пространства.
type Testimonial struct {
	ID      string `gorm:"primaryKey;type:uuid" json:"id"`
	SpaceID string `gorm:"type:uuid;not null;index:space_id_idx" json:"spaceId"`

	AuthorName  string  `gorm:"not null" json:"authorName"`
	Text        string  `gorm:"not null" json:"text"`
	SocialURL   string  `gorm:"not null" json:"socialUrl"`
	ImageURL    *string `json:"imageUrl"`
	Position    *string `json:"position"`
	CompanyName *string `json:"companyName"`

	IsPublished bool `gorm:"not null;default:false" json:"isPublished"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (Testimonial) TableName() string { return "testimonial" }

func (t *Testimonial) BeforeCreate(*gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}
