package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	QuizStatusDraft    = "draft"
	QuizStatusActive   = "active"
	QuizStatusInactive = "inactive"
)

type Quiz struct {
	ID             uint           `json:"id" gorm:"primaryKey"`
	Name           string         `json:"name" gorm:"not null"`
	Objective      string         `json:"objective"`
	Prompt         string         `json:"prompt" gorm:"not null"`
	TotalQuestions int            `json:"total_questions" gorm:"not null"`
	Status         string         `json:"status" gorm:"not null;default:'draft'"` // draft, active, inactive
	UserID         uint           `json:"user_id" gorm:"not null"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `json:"-" gorm:"index"`

	// Relationships
	User      User       `json:"user,omitempty"`
	Questions []Question `json:"questions,omitempty" gorm:"foreignKey:QuizID"`
	Results   []Result   `json:"results,omitempty" gorm:"foreignKey:QuizID"`
}
