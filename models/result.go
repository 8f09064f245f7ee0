package models

import (
	"time"

	"gorm.io/gorm"
)

// Result is one completed play-through. Replays insert new rows, history is
// never overwritten.
type Result struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	UserID    uint           `json:"user_id" gorm:"not null"`
	QuizID    uint           `json:"quiz_id" gorm:"not null"`
	Score     int            `json:"score" gorm:"not null"`
	Total     int            `json:"total" gorm:"not null"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relationships
	User        User         `json:"user,omitempty"`
	Quiz        Quiz         `json:"quiz,omitempty"`
	UserAnswers []UserAnswer `json:"user_answers,omitempty" gorm:"foreignKey:ResultID"`
}
