package services

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"falaquiz/gemini"
	"falaquiz/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.ReplaceAll(t.Name(), "/", "_")
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name)), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Quiz{},
		&models.Question{},
		&models.Answer{},
		&models.Result{},
		&models.UserAnswer{},
	))

	return db
}

func setupTestRedis(t *testing.T) *redis.Client {
	t.Helper()

	mr := miniredis.RunT(t)
	return redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

// newGeminiServer fakes the generateContent endpoint, answering every call
// with the given candidate text.
func newGeminiServer(t *testing.T, responseText string) *gemini.Client {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body := map[string]interface{}{
			"candidates": []map[string]interface{}{
				{"content": map[string]interface{}{
					"parts": []map[string]string{{"text": responseText}},
				}},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(body))
	}))
	t.Cleanup(server.Close)

	return gemini.NewClientWithBaseURL("test-key", "gemini-2.5-flash", server.URL)
}

func quizResponseJSON(count int) string {
	text := `{"questions":[`
	for i := 0; i < count; i++ {
		if i > 0 {
			text += ","
		}
		text += fmt.Sprintf(`{"question":"Pergunta %d?","options":["Opção A","Opção B","Opção C","Opção D"],"correct":%d}`, i+1, i%4)
	}
	return text + `]}`
}

func createTestUser(t *testing.T, db *gorm.DB, name, email, role string) *models.User {
	t.Helper()

	user := models.User{Name: name, Email: email, Password: "x", Role: role}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

// createTestQuiz seeds an active quiz with questionCount questions of 4
// answers each, the first answer being correct.
func createTestQuiz(t *testing.T, db *gorm.DB, userID uint, name string, questionCount int) *models.Quiz {
	t.Helper()

	quiz := models.Quiz{
		Name:           name,
		Objective:      "test objective",
		Prompt:         "test prompt",
		TotalQuestions: questionCount,
		Status:         models.QuizStatusActive,
		UserID:         userID,
	}
	require.NoError(t, db.Create(&quiz).Error)

	for i := 0; i < questionCount; i++ {
		question := models.Question{QuizID: quiz.ID, Text: fmt.Sprintf("Question %d?", i+1)}
		require.NoError(t, db.Create(&question).Error)

		var correctID uint
		for j := 0; j < 4; j++ {
			answer := models.Answer{
				QuestionID: question.ID,
				Text:       fmt.Sprintf("Option %d", j+1),
				IsCorrect:  j == 0,
			}
			require.NoError(t, db.Create(&answer).Error)
			if answer.IsCorrect {
				correctID = answer.ID
			}
		}

		require.NoError(t, db.Model(&question).Update("correct_answer_id", correctID).Error)
	}

	var loaded models.Quiz
	require.NoError(t, db.
		Preload("Questions", func(tx *gorm.DB) *gorm.DB { return tx.Order("questions.id") }).
		Preload("Questions.Answers", func(tx *gorm.DB) *gorm.DB { return tx.Order("answers.id") }).
		First(&loaded, quiz.ID).Error)
	return &loaded
}
