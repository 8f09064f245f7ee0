package services

import (
	"errors"
	"math"

	"falaquiz/models"
)

const (
	SessionStatusLoading    = "loading"
	SessionStatusInProgress = "in_progress"
	SessionStatusFinished   = "finished"
	SessionStatusNotFound   = "not_found"
)

var (
	ErrSessionNotInProgress = errors.New("session is not in progress")
	ErrNoPendingSelection   = errors.New("no answer selected for the current question")
	ErrAnswerNotInQuestion  = errors.New("answer does not belong to the current question")
)

type SessionAnswer struct {
	ID        uint   `json:"id"`
	Text      string `json:"text"`
	IsCorrect bool   `json:"is_correct"`
}

type SessionQuestion struct {
	ID      uint            `json:"id"`
	Text    string          `json:"text"`
	Answers []SessionAnswer `json:"answers"`
}

type CommittedAnswer struct {
	QuestionID       uint  `json:"question_id"`
	SelectedAnswerID *uint `json:"selected_answer_id"`
	IsCorrect        bool  `json:"is_correct"`
}

// SessionState is one student's traversal of a quiz. It carries a snapshot of
// the quiz content taken at start, so a quiz deactivated mid-play keeps
// working, and it is serialized as a JSON blob into Redis between requests.
// Transitions are pure; persistence happens in SessionService.
type SessionState struct {
	Token        string            `json:"token"`
	UserID       uint              `json:"user_id"`
	QuizID       uint              `json:"quiz_id"`
	QuizName     string            `json:"quiz_name"`
	Status       string            `json:"status"`
	CurrentIndex int               `json:"current_index"`
	Pending      *uint             `json:"pending_answer_id"`
	Committed    []CommittedAnswer `json:"committed"`
	Questions    []SessionQuestion `json:"questions"`
	Score        int               `json:"score"`
	Total        int               `json:"total"`
	ResultSaved  bool              `json:"result_saved"`
}

// newSessionState snapshots the quiz into a fresh in-progress state. A nil
// quiz or one without questions lands in the terminal not_found state.
func newSessionState(token string, userID uint, quiz *models.Quiz) *SessionState {
	state := &SessionState{
		Token:     token,
		UserID:    userID,
		Status:    SessionStatusNotFound,
		Committed: []CommittedAnswer{},
	}

	if quiz == nil || len(quiz.Questions) == 0 {
		return state
	}

	state.QuizID = quiz.ID
	state.QuizName = quiz.Name
	state.Status = SessionStatusInProgress
	state.Questions = make([]SessionQuestion, len(quiz.Questions))
	for i, q := range quiz.Questions {
		answers := make([]SessionAnswer, len(q.Answers))
		for j, a := range q.Answers {
			answers[j] = SessionAnswer{
				ID:        a.ID,
				Text:      a.Text,
				IsCorrect: a.IsCorrect,
			}
		}
		state.Questions[i] = SessionQuestion{
			ID:      q.ID,
			Text:    q.Text,
			Answers: answers,
		}
	}

	return state
}

// CurrentQuestion returns the question at the current index, or nil when the
// session is not in progress.
func (st *SessionState) CurrentQuestion() *SessionQuestion {
	if st.Status != SessionStatusInProgress || st.CurrentIndex >= len(st.Questions) {
		return nil
	}
	return &st.Questions[st.CurrentIndex]
}

// SelectAnswer records the pending selection for the current question.
// Re-selecting replaces the previous choice. Answer ids from other questions
// are rejected.
func (st *SessionState) SelectAnswer(answerID uint) error {
	if st.Status != SessionStatusInProgress {
		return ErrSessionNotInProgress
	}

	question := st.CurrentQuestion()
	found := false
	for _, a := range question.Answers {
		if a.ID == answerID {
			found = true
			break
		}
	}
	if !found {
		return ErrAnswerNotInQuestion
	}

	selected := answerID
	st.Pending = &selected
	return nil
}

// Advance commits the pending selection for the current question and moves
// on, or finishes the session after the last question. Advancing without a
// selection is a contract violation, not an automatic incorrect.
func (st *SessionState) Advance() (finished bool, err error) {
	if st.Status != SessionStatusInProgress {
		return false, ErrSessionNotInProgress
	}
	if st.Pending == nil {
		return false, ErrNoPendingSelection
	}

	question := st.CurrentQuestion()
	isCorrect := false
	for _, a := range question.Answers {
		if a.ID == *st.Pending {
			isCorrect = a.IsCorrect
			break
		}
	}

	st.Committed = append(st.Committed, CommittedAnswer{
		QuestionID:       question.ID,
		SelectedAnswerID: st.Pending,
		IsCorrect:        isCorrect,
	})
	st.Pending = nil

	if st.CurrentIndex < len(st.Questions)-1 {
		st.CurrentIndex++
		return false, nil
	}

	st.Status = SessionStatusFinished
	st.Total = len(st.Questions)
	st.Score = 0
	for _, c := range st.Committed {
		if c.IsCorrect {
			st.Score++
		}
	}
	return true, nil
}

// Percentage derives the displayed score. The stored score/total integers are
// the source of truth; this value is always recomputed, never persisted.
func (st *SessionState) Percentage() int {
	if st.Total == 0 {
		return 0
	}
	return int(math.Round(float64(st.Score) / float64(st.Total) * 100))
}
