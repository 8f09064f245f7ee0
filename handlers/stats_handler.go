package handlers

import (
	"log"
	"net/http"
	"strconv"

	"falaquiz/services"

	"github.com/gin-gonic/gin"
)

// Top/bottom slice size for the cohort ranking view.
const cohortRankingSize = 3

type StatsHandler struct {
	statsService    *services.StatsService
	quizService     *services.QuizService
	reminderService *services.ReminderService
}

func NewStatsHandler(statsService *services.StatsService, quizService *services.QuizService, reminderService *services.ReminderService) *StatsHandler {
	return &StatsHandler{
		statsService:    statsService,
		quizService:     quizService,
		reminderService: reminderService,
	}
}

func (h *StatsHandler) GetMyResults(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	results, stats, err := h.statsService.GetStudentResults(userID.(uint))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"results": results,
		"stats":   stats,
	})
}

func (h *StatsHandler) GetRankings(c *gin.Context) {
	quizRankings, err := h.statsService.GetQuizRankings()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	top, bottom, err := h.statsService.GetCohortRankings(cohortRankingSize)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"quiz_rankings":   quizRankings,
		"top_students":    top,
		"bottom_students": bottom,
	})
}

func (h *StatsHandler) GetPendingStudents(c *gin.Context) {
	quizID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid quiz ID"})
		return
	}

	pending, err := h.statsService.GetPendingStudents(uint(quizID))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, pending)
}

// SendReminders emails every student who has not completed the quiz. Each
// send is independent; one failed address does not stop the rest.
func (h *StatsHandler) SendReminders(c *gin.Context) {
	quizID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid quiz ID"})
		return
	}

	quiz, err := h.quizService.GetQuizByID(uint(quizID))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Quiz not found"})
		return
	}

	pending, err := h.statsService.GetPendingStudents(quiz.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	sent := 0
	failed := 0
	for i := range pending {
		if err := h.reminderService.SendReminder(&pending[i], quiz); err != nil {
			log.Printf("Failed to send reminder to %s for quiz %d: %v", pending[i].Email, quiz.ID, err)
			failed++
			continue
		}
		sent++
	}

	c.JSON(http.StatusOK, gin.H{"sent": sent, "failed": failed})
}
