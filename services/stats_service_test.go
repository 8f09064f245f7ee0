package services

import (
	"testing"

	"falaquiz/models"

	"github.com/stretchr/testify/require"
)

func TestComputeStudentStatsWeightedAverage(t *testing.T) {
	results := []models.Result{
		{Score: 2, Total: 2},
		{Score: 1, Total: 10},
	}

	stats := ComputeStudentStats(results)
	require.Equal(t, 2, stats.TotalQuizzes)
	require.Equal(t, 3, stats.TotalCorrect)
	require.Equal(t, 12, stats.TotalQuestions)
	// Weighted: (2+1)/(2+10)*100 = 25, not (100+10)/2 = 55
	require.InDelta(t, 25.0, stats.AverageScore, 0.001)
	require.InDelta(t, 100.0, stats.BestScore, 0.001)
}

func TestComputeStudentStatsOneAndNine(t *testing.T) {
	results := []models.Result{
		{Score: 1, Total: 1},
		{Score: 9, Total: 10},
	}

	stats := ComputeStudentStats(results)
	// 10/11 ≈ 90.9, not the per-quiz mean of 95
	require.InDelta(t, 90.909, stats.AverageScore, 0.001)
}

func TestComputeStudentStatsEmpty(t *testing.T) {
	stats := ComputeStudentStats(nil)
	require.Equal(t, 0, stats.TotalQuizzes)
	require.Zero(t, stats.AverageScore)
	require.Zero(t, stats.BestScore)
}

func TestRankQuizStudentsOrderAndIncomplete(t *testing.T) {
	students := []models.User{
		{Name: "Ana"},
		{Name: "Bruno"},
		{Name: "Carla"},
		{Name: "Davi"},
	}
	for i := range students {
		students[i].ID = uint(i + 1)
		students[i].Role = models.RoleStudent
	}

	results := []models.Result{
		{UserID: 1, Score: 3, Total: 5}, // 60%
		{UserID: 2, Score: 5, Total: 5}, // 100%
		{UserID: 3, Score: 3, Total: 5}, // 60%, ties with Ana, fetched later
	}

	ranked := RankQuizStudents(results, students)
	require.Len(t, ranked, 4)

	require.Equal(t, "Bruno", ranked[0].Name)
	require.True(t, ranked[0].Completed)
	// Stable tie-break keeps fetch order
	require.Equal(t, "Ana", ranked[1].Name)
	require.Equal(t, "Carla", ranked[2].Name)
	// No result, appended last and flagged
	require.Equal(t, "Davi", ranked[3].Name)
	require.False(t, ranked[3].Completed)
}

func TestRankQuizStudentsReplaysAppearIndividually(t *testing.T) {
	students := []models.User{{Name: "Ana", Role: models.RoleStudent}}
	students[0].ID = 1

	results := []models.Result{
		{UserID: 1, Score: 2, Total: 5},
		{UserID: 1, Score: 5, Total: 5},
	}

	ranked := RankQuizStudents(results, students)
	require.Len(t, ranked, 2)
	require.InDelta(t, 100.0, ranked[0].Percentage, 0.001)
	require.InDelta(t, 40.0, ranked[1].Percentage, 0.001)
}

func TestTopAndBottomStudents(t *testing.T) {
	cohort := []CohortStudent{
		{Name: "A", AverageScore: 90},
		{Name: "B", AverageScore: 50},
		{Name: "C", AverageScore: 70},
		{Name: "D", AverageScore: 30},
		{Name: "E", AverageScore: 80},
		{Name: "F", AverageScore: 60},
		{Name: "G", AverageScore: 40},
	}

	top, bottom := TopAndBottomStudents(cohort, 3)
	require.Equal(t, []string{"A", "E", "C"}, []string{top[0].Name, top[1].Name, top[2].Name})
	// Bottom reversed: worst first
	require.Equal(t, []string{"D", "G", "B"}, []string{bottom[0].Name, bottom[1].Name, bottom[2].Name})
}

func TestTopAndBottomStudentsOverlapAccepted(t *testing.T) {
	cohort := []CohortStudent{
		{Name: "A", AverageScore: 90},
		{Name: "B", AverageScore: 50},
	}

	top, bottom := TopAndBottomStudents(cohort, 3)
	require.Len(t, top, 2)
	require.Len(t, bottom, 2)
	require.Equal(t, "A", top[0].Name)
	require.Equal(t, "B", bottom[0].Name)
}

func TestGetStudentResultsResolvesInactiveQuizName(t *testing.T) {
	db := setupTestDB(t)
	service := NewStatsService(db)
	admin := createTestUser(t, db, "Admin", "admin@test.com", models.RoleAdmin)
	student := createTestUser(t, db, "Student", "student@test.com", models.RoleStudent)
	quiz := createTestQuiz(t, db, admin.ID, "Retired quiz", 2)

	require.NoError(t, db.Create(&models.Result{
		UserID: student.ID, QuizID: quiz.ID, Score: 2, Total: 2,
	}).Error)
	require.NoError(t, db.Model(&models.Quiz{}).Where("id = ?", quiz.ID).
		Update("status", models.QuizStatusInactive).Error)

	results, stats, err := service.GetStudentResults(student.ID)
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Equal(t, "Retired quiz", results[0].QuizName)
	require.InDelta(t, 100.0, results[0].Percentage, 0.001)
	require.Equal(t, 1, stats.TotalQuizzes)
}

func TestGetPendingStudents(t *testing.T) {
	db := setupTestDB(t)
	service := NewStatsService(db)
	admin := createTestUser(t, db, "Admin", "admin@test.com", models.RoleAdmin)
	done := createTestUser(t, db, "Done", "done@test.com", models.RoleStudent)
	pending := createTestUser(t, db, "Pending", "pending@test.com", models.RoleStudent)
	quiz := createTestQuiz(t, db, admin.ID, "Pending quiz", 1)

	require.NoError(t, db.Create(&models.Result{
		UserID: done.ID, QuizID: quiz.ID, Score: 1, Total: 1,
	}).Error)

	students, err := service.GetPendingStudents(quiz.ID)
	require.NoError(t, err)
	require.Len(t, students, 1)
	require.Equal(t, pending.ID, students[0].ID)

	// Admins are never in the pending list
	for _, s := range students {
		require.Equal(t, models.RoleStudent, s.Role)
	}
}

func TestGetPendingStudentsUnknownQuiz(t *testing.T) {
	db := setupTestDB(t)
	service := NewStatsService(db)

	_, err := service.GetPendingStudents(999)
	require.Error(t, err)
}

func TestGetQuizRankingsGroupsByQuiz(t *testing.T) {
	db := setupTestDB(t)
	service := NewStatsService(db)
	admin := createTestUser(t, db, "Admin", "admin@test.com", models.RoleAdmin)
	ana := createTestUser(t, db, "Ana", "ana@test.com", models.RoleStudent)
	bruno := createTestUser(t, db, "Bruno", "bruno@test.com", models.RoleStudent)
	quizA := createTestQuiz(t, db, admin.ID, "Quiz A", 2)
	_ = createTestQuiz(t, db, admin.ID, "Quiz B", 2)

	require.NoError(t, db.Create(&models.Result{UserID: ana.ID, QuizID: quizA.ID, Score: 1, Total: 2}).Error)
	require.NoError(t, db.Create(&models.Result{UserID: bruno.ID, QuizID: quizA.ID, Score: 2, Total: 2}).Error)

	rankings, err := service.GetQuizRankings()
	require.NoError(t, err)
	require.Len(t, rankings, 2)

	byName := map[string]QuizRanking{}
	for _, r := range rankings {
		byName[r.QuizName] = r
	}

	quizARanking := byName["Quiz A"]
	require.Len(t, quizARanking.Students, 2)
	require.Equal(t, "Bruno", quizARanking.Students[0].Name)
	require.Equal(t, "Ana", quizARanking.Students[1].Name)

	// Nobody played quiz B, everyone is appended as not completed
	quizBRanking := byName["Quiz B"]
	require.Len(t, quizBRanking.Students, 2)
	require.False(t, quizBRanking.Students[0].Completed)
	require.False(t, quizBRanking.Students[1].Completed)
}

func TestGetCohortRankingsUsesWeightedAverage(t *testing.T) {
	db := setupTestDB(t)
	service := NewStatsService(db)
	admin := createTestUser(t, db, "Admin", "admin@test.com", models.RoleAdmin)
	ana := createTestUser(t, db, "Ana", "ana@test.com", models.RoleStudent)
	bruno := createTestUser(t, db, "Bruno", "bruno@test.com", models.RoleStudent)
	_ = createTestUser(t, db, "Idle", "idle@test.com", models.RoleStudent)
	quiz := createTestQuiz(t, db, admin.ID, "Cohort quiz", 10)

	// Ana: 2/2 and 1/10 → weighted 25%. Bruno: 6/10 → 60%.
	require.NoError(t, db.Create(&models.Result{UserID: ana.ID, QuizID: quiz.ID, Score: 2, Total: 2}).Error)
	require.NoError(t, db.Create(&models.Result{UserID: ana.ID, QuizID: quiz.ID, Score: 1, Total: 10}).Error)
	require.NoError(t, db.Create(&models.Result{UserID: bruno.ID, QuizID: quiz.ID, Score: 6, Total: 10}).Error)

	top, bottom, err := service.GetCohortRankings(3)
	require.NoError(t, err)

	// Students without results are excluded entirely
	require.Len(t, top, 2)
	require.Equal(t, "Bruno", top[0].Name)
	require.InDelta(t, 60.0, top[0].AverageScore, 0.001)
	require.Equal(t, "Ana", top[1].Name)
	require.InDelta(t, 25.0, top[1].AverageScore, 0.001)

	require.Equal(t, "Ana", bottom[0].Name)
}
