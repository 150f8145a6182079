package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Space — коллекция отзывов одного владельца.
type Space struct {
	ID     string `gorm:"primaryKey;type:uuid" json:"id"`
	UserID int64  `gorm:"not null;index:user_id_idx" json:"-"` // владелец, наружу не отдаём

	Name          string  `gorm:"not null" json:"name"`
	CustomMessage string  `gorm:"not null" json:"customMessage"`
	Logo          *string `json:"logo"`

	// Связи
	Testimonials []Testimonial `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"testimonials"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (Space) TableName() string { return "space" }

// BeforeCreate выдаёт идентификатор, если он не задан.
func (s *Space) BeforeCreate(*gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

// UnpublishedCount считает отзывы, ожидающие модерации.
func (s *Space) UnpublishedCount() int {
	n := 0
	for _, t := range s.Testimonials {
		if !t.IsPublished {
			n++
		}
	}
	return n
}

// CollectorConfig — публичная проекция пространства для формы сбора отзывов.
type CollectorConfig struct {
	Name          string  `json:"name"`
	Logo          *string `json:"logo"`
	CustomMessage string  `json:"customMessage"`
}

// Wall — опубликованные отзывы пространства, новые сверху.
type Wall struct {
	SpaceID      string        `json:"spaceId"`
	Name         string        `json:"name"`
	Logo         *string       `json:"logo"`
	Testimonials []Testimonial `json:"testimonials"`
}
