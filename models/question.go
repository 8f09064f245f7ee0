package models

import (
	"time"

	"gorm.io/gorm"
)

type Question struct {
	ID     uint   `json:"id" gorm:"primaryKey"`
	QuizID uint   `json:"quiz_id" gorm:"not null"`
	Text   string `json:"text" gorm:"not null"`
	// Nil only while the quiz is still being generated
	CorrectAnswerID *uint          `json:"correct_answer_id"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `json:"-" gorm:"index"`

	// Relationships
	Quiz    Quiz     `json:"quiz,omitempty"`
	Answers []Answer `json:"answers,omitempty" gorm:"foreignKey:QuestionID"`
}
