package models

import (
	"time"

	"gorm.io/gorm"
)

type UserAnswer struct {
	ID         uint           `json:"id" gorm:"primaryKey"`
	ResultID   uint           `json:"result_id" gorm:"not null"`
	QuestionID uint           `json:"question_id" gorm:"not null"`
	AnswerID   uint           `json:"answer_id" gorm:"not null"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `json:"-" gorm:"index"`

	// Relationships
	Result   Result   `json:"result,omitempty"`
	Question Question `json:"question,omitempty"`
	Answer   Answer   `json:"answer,omitempty"`
}
