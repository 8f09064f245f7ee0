package services

import (
	"testing"

	"falaquiz/models"

	"github.com/stretchr/testify/require"
)

func stateForQuiz(t *testing.T, questionCount int) *SessionState {
	t.Helper()

	db := setupTestDB(t)
	user := createTestUser(t, db, "Student", "student@test.com", models.RoleStudent)
	quiz := createTestQuiz(t, db, user.ID, "State quiz", questionCount)
	return newSessionState("tok", user.ID, quiz)
}

func TestNewSessionStateNotFound(t *testing.T) {
	state := newSessionState("tok", 1, nil)
	require.Equal(t, SessionStatusNotFound, state.Status)
	require.Nil(t, state.CurrentQuestion())

	empty := &models.Quiz{}
	state = newSessionState("tok", 1, empty)
	require.Equal(t, SessionStatusNotFound, state.Status)
}

func TestSelectAnswerReplacesPendingSelection(t *testing.T) {
	state := stateForQuiz(t, 3)
	question := state.CurrentQuestion()

	require.NoError(t, state.SelectAnswer(question.Answers[1].ID))
	require.Equal(t, question.Answers[1].ID, *state.Pending)

	// Re-selecting replaces, it never appends
	require.NoError(t, state.SelectAnswer(question.Answers[2].ID))
	require.Equal(t, question.Answers[2].ID, *state.Pending)
	require.Empty(t, state.Committed)
}

func TestSelectAnswerRejectsOtherQuestionsAnswer(t *testing.T) {
	state := stateForQuiz(t, 3)
	otherAnswer := state.Questions[1].Answers[0].ID

	err := state.SelectAnswer(otherAnswer)
	require.ErrorIs(t, err, ErrAnswerNotInQuestion)
	require.Nil(t, state.Pending)
}

func TestAdvanceRequiresPendingSelection(t *testing.T) {
	state := stateForQuiz(t, 3)

	_, err := state.Advance()
	require.ErrorIs(t, err, ErrNoPendingSelection)
	require.Equal(t, 0, state.CurrentIndex)
}

func TestAdvanceCommitsAndClearsPending(t *testing.T) {
	state := stateForQuiz(t, 3)
	correct := state.Questions[0].Answers[0].ID

	require.NoError(t, state.SelectAnswer(correct))
	finished, err := state.Advance()
	require.NoError(t, err)
	require.False(t, finished)

	require.Equal(t, 1, state.CurrentIndex)
	require.Nil(t, state.Pending)
	require.Len(t, state.Committed, 1)
	require.True(t, state.Committed[0].IsCorrect)
	require.Equal(t, correct, *state.Committed[0].SelectedAnswerID)
}

func TestFullPlayThroughFourOfFive(t *testing.T) {
	state := stateForQuiz(t, 5)

	// Answer questions 1-4 correctly, question 5 incorrectly
	for i := 0; i < 5; i++ {
		question := state.CurrentQuestion()
		answerID := question.Answers[0].ID // first answer is the correct one
		if i == 4 {
			answerID = question.Answers[1].ID
		}

		require.NoError(t, state.SelectAnswer(answerID))
		finished, err := state.Advance()
		require.NoError(t, err)
		require.Equal(t, i == 4, finished)
	}

	require.Equal(t, SessionStatusFinished, state.Status)
	require.Equal(t, 4, state.Score)
	require.Equal(t, 5, state.Total)
	require.Equal(t, 80, state.Percentage())
	require.Len(t, state.Committed, 5)
}

func TestFinishedStateIsTerminal(t *testing.T) {
	state := stateForQuiz(t, 1)
	require.NoError(t, state.SelectAnswer(state.Questions[0].Answers[0].ID))
	finished, err := state.Advance()
	require.NoError(t, err)
	require.True(t, finished)

	require.ErrorIs(t, state.SelectAnswer(state.Questions[0].Answers[0].ID), ErrSessionNotInProgress)
	_, err = state.Advance()
	require.ErrorIs(t, err, ErrSessionNotInProgress)
}

func TestPercentageRounding(t *testing.T) {
	state := &SessionState{Score: 1, Total: 3}
	require.Equal(t, 33, state.Percentage()) // 33.33 rounds down

	state = &SessionState{Score: 2, Total: 3}
	require.Equal(t, 67, state.Percentage()) // 66.67 rounds up

	state = &SessionState{}
	require.Equal(t, 0, state.Percentage()) // no division by zero
}
