package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"falaquiz/gemini"
	"falaquiz/models"

	"gorm.io/gorm"
)

// Generation stages reported by GenerationStageError.
const (
	StageCreateQuiz      = "create_quiz"
	StageGenerateContent = "generate_content"
	StageInsertQuestions = "insert_questions"
)

// GenerationStageError tags a failed generation with the stage that broke,
// so the caller can report it without digging through wrapped errors.
type GenerationStageError struct {
	Stage string
	Err   error
}

func (e *GenerationStageError) Error() string {
	return fmt.Sprintf("quiz generation failed at stage %s: %v", e.Stage, e.Err)
}

func (e *GenerationStageError) Unwrap() error {
	return e.Err
}

type QuizService struct {
	db     *gorm.DB
	gemini *gemini.Client
}

func NewQuizService(db *gorm.DB, geminiClient *gemini.Client) *QuizService {
	return &QuizService{db: db, gemini: geminiClient}
}

type GenerateQuizRequest struct {
	Name           string `json:"name" binding:"required"`
	Objective      string `json:"objective" binding:"required"`
	Prompt         string `json:"prompt" binding:"required"`
	TotalQuestions int    `json:"totalQuestions" binding:"required,min=1,max=20"`
}

// GenerateQuiz creates the quiz row as a draft, asks Gemini for the content,
// inserts questions and answers in one transaction and activates the quiz.
// On any failure the draft aggregate is deleted, so a failed generation never
// leaves a quiz visible as created.
func (s *QuizService) GenerateQuiz(ctx context.Context, userID uint, req *GenerateQuizRequest) (*models.Quiz, error) {
	quiz := models.Quiz{
		Name:           req.Name,
		Objective:      req.Objective,
		Prompt:         req.Prompt,
		TotalQuestions: req.TotalQuestions,
		Status:         models.QuizStatusDraft,
		UserID:         userID,
	}

	if err := s.db.Create(&quiz).Error; err != nil {
		return nil, &GenerationStageError{Stage: StageCreateQuiz, Err: err}
	}

	content, err := s.gemini.GenerateQuiz(ctx, req.Prompt, req.Objective, req.TotalQuestions)
	if err != nil {
		s.cleanupDraft(quiz.ID)
		return nil, &GenerationStageError{Stage: StageGenerateContent, Err: err}
	}

	if err := s.insertContent(quiz.ID, content); err != nil {
		s.cleanupDraft(quiz.ID)
		return nil, &GenerationStageError{Stage: StageInsertQuestions, Err: err}
	}

	return s.GetQuizWithContent(quiz.ID)
}

// insertContent writes the generated questions and answers and flips the quiz
// to active, all inside one transaction.
func (s *QuizService) insertContent(quizID uint, content *gemini.QuizContent) error {
	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	for _, q := range content.Questions {
		question := models.Question{
			QuizID: quizID,
			Text:   q.Text,
		}

		if err := tx.Create(&question).Error; err != nil {
			tx.Rollback()
			return err
		}

		// Insert the 4 options, capturing the id of the correct one
		var correctAnswerID uint
		for i, optText := range q.Options {
			answer := models.Answer{
				QuestionID: question.ID,
				Text:       optText,
				IsCorrect:  i == q.Correct,
			}

			if err := tx.Create(&answer).Error; err != nil {
				tx.Rollback()
				return err
			}

			if answer.IsCorrect {
				correctAnswerID = answer.ID
			}
		}

		if err := tx.Model(&question).Update("correct_answer_id", correctAnswerID).Error; err != nil {
			tx.Rollback()
			return err
		}
	}

	if err := tx.Model(&models.Quiz{}).Where("id = ?", quizID).
		Update("status", models.QuizStatusActive).Error; err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit().Error
}

// cleanupDraft removes a partially created quiz aggregate so generation is
// atomic from the caller's view.
func (s *QuizService) cleanupDraft(quizID uint) {
	var questionIDs []uint
	s.db.Model(&models.Question{}).Where("quiz_id = ?", quizID).Pluck("id", &questionIDs)

	if len(questionIDs) > 0 {
		if err := s.db.Where("question_id IN ?", questionIDs).Delete(&models.Answer{}).Error; err != nil {
			log.Printf("Failed to clean up answers for draft quiz %d: %v", quizID, err)
		}
		if err := s.db.Where("quiz_id = ?", quizID).Delete(&models.Question{}).Error; err != nil {
			log.Printf("Failed to clean up questions for draft quiz %d: %v", quizID, err)
		}
	}

	if err := s.db.Delete(&models.Quiz{}, quizID).Error; err != nil {
		log.Printf("Failed to clean up draft quiz %d: %v", quizID, err)
	}
}

// GetActiveQuizzes lists quizzes available for play. Drafts and deactivated
// quizzes are filtered out.
func (s *QuizService) GetActiveQuizzes() ([]models.Quiz, error) {
	var quizzes []models.Quiz
	err := s.db.Where("status = ?", models.QuizStatusActive).
		Order("created_at DESC").
		Find(&quizzes).Error
	return quizzes, err
}

// GetQuizByID fetches the quiz row alone, regardless of status. Historical
// results keep resolving their quiz name through this lookup after a soft
// delete.
func (s *QuizService) GetQuizByID(quizID uint) (*models.Quiz, error) {
	var quiz models.Quiz
	err := s.db.First(&quiz, quizID).Error
	return &quiz, err
}

// GetQuizWithContent fetches the quiz together with its questions and their
// answers, the aggregate the session engine consumes.
func (s *QuizService) GetQuizWithContent(quizID uint) (*models.Quiz, error) {
	var quiz models.Quiz
	err := s.db.
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("questions.id")
		}).
		Preload("Questions.Answers", func(db *gorm.DB) *gorm.DB {
			return db.Order("answers.id")
		}).
		First(&quiz, quizID).Error
	return &quiz, err
}

// DeactivateQuiz soft-deletes a quiz by flipping its status to inactive. Rows
// are kept so existing results stay resolvable, and the transition is never
// reversed.
func (s *QuizService) DeactivateQuiz(quizID uint, userID uint) error {
	var quiz models.Quiz
	if err := s.db.Where("id = ? AND user_id = ?", quizID, userID).First(&quiz).Error; err != nil {
		return errors.New("quiz not found")
	}

	if quiz.Status != models.QuizStatusActive {
		return errors.New("quiz is not active")
	}

	return s.db.Model(&quiz).Update("status", models.QuizStatusInactive).Error
}
