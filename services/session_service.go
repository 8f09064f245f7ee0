package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"falaquiz/models"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const sessionTTL = 2 * time.Hour

var ErrSessionNotFound = errors.New("session not found or expired")

type SessionService struct {
	db    *gorm.DB
	redis *redis.Client
}

func NewSessionService(db *gorm.DB, redisClient *redis.Client) *SessionService {
	return &SessionService{db: db, redis: redisClient}
}

type StartSessionRequest struct {
	QuizID uint `json:"quiz_id" binding:"required"`
}

type SelectAnswerRequest struct {
	AnswerID uint `json:"answer_id" binding:"required"`
}

// StartSession loads the quiz with its content and opens a new play-through.
// A quiz that does not resolve or has no questions produces a terminal
// not_found session rather than an error.
func (s *SessionService) StartSession(userID uint, quizID uint) (*SessionState, error) {
	token := s.generateToken()

	var quiz models.Quiz
	err := s.db.
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("questions.id")
		}).
		Preload("Questions.Answers", func(db *gorm.DB) *gorm.DB {
			return db.Order("answers.id")
		}).
		First(&quiz, quizID).Error

	var state *SessionState
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		state = newSessionState(token, userID, nil)
	} else {
		state = newSessionState(token, userID, &quiz)
	}

	if err := s.storeState(state); err != nil {
		return nil, err
	}

	return state, nil
}

func (s *SessionService) GetSession(token string) (*SessionState, error) {
	return s.getState(token)
}

// SelectAnswer sets or replaces the pending selection for the session's
// current question.
func (s *SessionService) SelectAnswer(token string, answerID uint) (*SessionState, error) {
	state, err := s.getState(token)
	if err != nil {
		return nil, err
	}

	if err := state.SelectAnswer(answerID); err != nil {
		return nil, err
	}

	if err := s.storeState(state); err != nil {
		return nil, err
	}

	return state, nil
}

// Advance commits the pending answer and moves the session forward. When the
// last question is committed the final score is persisted best-effort: a
// failed write is logged and reflected in ResultSaved, but the student still
// gets their score.
func (s *SessionService) Advance(token string) (*SessionState, error) {
	state, err := s.getState(token)
	if err != nil {
		return nil, err
	}

	finished, err := state.Advance()
	if err != nil {
		return nil, err
	}

	if finished {
		state.ResultSaved = s.persistResult(state)
	}

	if err := s.storeState(state); err != nil {
		return nil, err
	}

	return state, nil
}

// persistResult writes the Result row and one UserAnswer per committed tuple
// with a selection. Errors are swallowed here on purpose: the computed score
// is authoritative for the student regardless of the write outcome.
func (s *SessionService) persistResult(state *SessionState) bool {
	result := models.Result{
		UserID: state.UserID,
		QuizID: state.QuizID,
		Score:  state.Score,
		Total:  state.Total,
	}

	if err := s.db.Create(&result).Error; err != nil {
		log.Printf("Failed to save result for session %s (quiz %d, user %d): %v",
			state.Token, state.QuizID, state.UserID, err)
		return false
	}

	for _, committed := range state.Committed {
		if committed.SelectedAnswerID == nil {
			continue
		}

		userAnswer := models.UserAnswer{
			ResultID:   result.ID,
			QuestionID: committed.QuestionID,
			AnswerID:   *committed.SelectedAnswerID,
		}

		if err := s.db.Create(&userAnswer).Error; err != nil {
			log.Printf("Failed to save user answer for result %d, question %d: %v",
				result.ID, committed.QuestionID, err)
		}
	}

	return true
}

func (s *SessionService) generateToken() string {
	bytes := make([]byte, 16)
	rand.Read(bytes)
	return hex.EncodeToString(bytes)
}

func (s *SessionService) storeState(state *SessionState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal session state: %w", err)
	}

	if err := s.redis.Set(context.Background(), "session:"+state.Token, data, sessionTTL).Err(); err != nil {
		return fmt.Errorf("failed to store session in Redis: %w", err)
	}

	return nil
}

func (s *SessionService) getState(token string) (*SessionState, error) {
	data, err := s.redis.Get(context.Background(), "session:"+token).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to load session from Redis: %w", err)
	}

	var state SessionState
	if err := json.Unmarshal([]byte(data), &state); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session state: %w", err)
	}

	return &state, nil
}
