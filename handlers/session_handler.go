package handlers

import (
	"errors"
	"net/http"

	"falaquiz/services"

	"github.com/gin-gonic/gin"
)

type SessionHandler struct {
	sessionService *services.SessionService
}

func NewSessionHandler(sessionService *services.SessionService) *SessionHandler {
	return &SessionHandler{
		sessionService: sessionService,
	}
}

func (h *SessionHandler) StartSession(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req services.StartSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	state, err := h.sessionService.StartSession(userID.(uint), req.QuizID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, sessionView(state))
}

func (h *SessionHandler) GetSession(c *gin.Context) {
	state, ok := h.loadOwnedSession(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, sessionView(state))
}

func (h *SessionHandler) SelectAnswer(c *gin.Context) {
	if _, ok := h.loadOwnedSession(c); !ok {
		return
	}

	var req services.SelectAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	state, err := h.sessionService.SelectAnswer(c.Param("token"), req.AnswerID)
	if err != nil {
		c.JSON(sessionErrorStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, sessionView(state))
}

func (h *SessionHandler) Advance(c *gin.Context) {
	if _, ok := h.loadOwnedSession(c); !ok {
		return
	}

	state, err := h.sessionService.Advance(c.Param("token"))
	if err != nil {
		c.JSON(sessionErrorStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, sessionView(state))
}

// loadOwnedSession fetches the session and checks it belongs to the caller.
func (h *SessionHandler) loadOwnedSession(c *gin.Context) (*services.SessionState, bool) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return nil, false
	}

	state, err := h.sessionService.GetSession(c.Param("token"))
	if err != nil {
		c.JSON(sessionErrorStatus(err), gin.H{"error": err.Error()})
		return nil, false
	}

	if state.UserID != userID.(uint) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Session belongs to another user"})
		return nil, false
	}

	return state, true
}

func sessionErrorStatus(err error) int {
	switch {
	case errors.Is(err, services.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrSessionNotInProgress),
		errors.Is(err, services.ErrNoPendingSelection),
		errors.Is(err, services.ErrAnswerNotInQuestion):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// sessionView renders the state for the client. While the session is in
// progress only the current question is exposed, without correctness flags.
// The finished view includes the full review, the way the results screen
// shows which options were right.
func sessionView(state *services.SessionState) gin.H {
	view := gin.H{
		"token":           state.Token,
		"status":          state.Status,
		"quiz_id":         state.QuizID,
		"quiz_name":       state.QuizName,
		"total_questions": len(state.Questions),
	}

	switch state.Status {
	case services.SessionStatusInProgress:
		question := state.CurrentQuestion()
		answers := make([]QuizAnswerView, len(question.Answers))
		for i, a := range question.Answers {
			answers[i] = QuizAnswerView{ID: a.ID, Text: a.Text}
		}

		view["current_index"] = state.CurrentIndex
		view["answered"] = len(state.Committed)
		view["pending_answer_id"] = state.Pending
		view["question"] = QuizQuestionView{ID: question.ID, Text: question.Text, Answers: answers}

	case services.SessionStatusFinished:
		review := make([]gin.H, len(state.Committed))
		for i, committed := range state.Committed {
			question := state.Questions[i]
			review[i] = gin.H{
				"question_id":        question.ID,
				"question_text":      question.Text,
				"selected_answer_id": committed.SelectedAnswerID,
				"is_correct":         committed.IsCorrect,
				"answers":            question.Answers,
			}
		}

		view["score"] = state.Score
		view["total"] = state.Total
		view["percentage"] = state.Percentage()
		view["result_saved"] = state.ResultSaved
		view["review"] = review
	}

	return view
}
