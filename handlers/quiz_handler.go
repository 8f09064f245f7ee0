package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"falaquiz/gemini"
	"falaquiz/models"
	"falaquiz/services"

	"github.com/gin-gonic/gin"
)

type QuizHandler struct {
	quizService *services.QuizService
}

func NewQuizHandler(quizService *services.QuizService) *QuizHandler {
	return &QuizHandler{
		quizService: quizService,
	}
}

// Quiz content views sent to players. IsCorrect is intentionally omitted so
// the answer key never leaves the backend before the session is finished.
type QuizAnswerView struct {
	ID   uint   `json:"id"`
	Text string `json:"text"`
}

type QuizQuestionView struct {
	ID      uint             `json:"id"`
	Text    string           `json:"text"`
	Answers []QuizAnswerView `json:"answers"`
}

func (h *QuizHandler) GenerateQuiz(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req services.GenerateQuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	quiz, err := h.quizService.GenerateQuiz(c.Request.Context(), userID.(uint), &req)
	if err != nil {
		c.JSON(generationStatus(err), gin.H{"success": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "quizId": quiz.ID})
}

// generationStatus maps the generation error taxonomy onto HTTP statuses.
func generationStatus(err error) int {
	var providerErr *gemini.ProviderError
	var malformedErr *gemini.MalformedResponseError
	var validationErr *gemini.ValidationError

	switch {
	case errors.As(err, &providerErr), errors.As(err, &malformedErr):
		return http.StatusBadGateway
	case errors.As(err, &validationErr):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func (h *QuizHandler) GetActiveQuizzes(c *gin.Context) {
	quizzes, err := h.quizService.GetActiveQuizzes()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, quizzes)
}

func (h *QuizHandler) GetQuizByID(c *gin.Context) {
	quizID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid quiz ID"})
		return
	}

	quiz, err := h.quizService.GetQuizWithContent(uint(quizID))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Quiz not found"})
		return
	}

	questions := make([]QuizQuestionView, len(quiz.Questions))
	for i, q := range quiz.Questions {
		answers := make([]QuizAnswerView, len(q.Answers))
		for j, a := range q.Answers {
			answers[j] = QuizAnswerView{ID: a.ID, Text: a.Text}
		}
		questions[i] = QuizQuestionView{ID: q.ID, Text: q.Text, Answers: answers}
	}

	c.JSON(http.StatusOK, gin.H{
		"id":              quiz.ID,
		"name":            quiz.Name,
		"objective":       quiz.Objective,
		"total_questions": quiz.TotalQuestions,
		"status":          quiz.Status,
		"created_at":      quiz.CreatedAt,
		"questions":       questions,
	})
}

func (h *QuizHandler) DeleteQuiz(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	quizID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid quiz ID"})
		return
	}

	err = h.quizService.DeactivateQuiz(uint(quizID), userID.(uint))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Quiz deactivated successfully", "status": models.QuizStatusInactive})
}
