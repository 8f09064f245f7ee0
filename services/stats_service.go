package services

import (
	"errors"
	"sort"
	"time"

	"falaquiz/models"

	"gorm.io/gorm"
)

type StatsService struct {
	db *gorm.DB
}

func NewStatsService(db *gorm.DB) *StatsService {
	return &StatsService{db: db}
}

// StudentStats aggregates one student's results. AverageScore is weighted by
// question count (total correct over total asked), not a mean of per-quiz
// percentages.
type StudentStats struct {
	TotalQuizzes   int     `json:"total_quizzes"`
	AverageScore   float64 `json:"average_score"`
	BestScore      float64 `json:"best_score"`
	TotalCorrect   int     `json:"total_correct"`
	TotalQuestions int     `json:"total_questions"`
}

type ResultView struct {
	ResultID   uint      `json:"result_id"`
	QuizID     uint      `json:"quiz_id"`
	QuizName   string    `json:"quiz_name"`
	Score      int       `json:"score"`
	Total      int       `json:"total"`
	Percentage float64   `json:"percentage"`
	CreatedAt  time.Time `json:"created_at"`
}

type RankedStudent struct {
	UserID     uint    `json:"user_id"`
	Name       string  `json:"name"`
	Score      int     `json:"score"`
	Total      int     `json:"total"`
	Percentage float64 `json:"percentage"`
	Completed  bool    `json:"completed"`
}

type QuizRanking struct {
	QuizID   uint            `json:"quiz_id"`
	QuizName string          `json:"quiz_name"`
	Students []RankedStudent `json:"students"`
}

type CohortStudent struct {
	UserID       uint    `json:"user_id"`
	Name         string  `json:"name"`
	Email        string  `json:"email"`
	TotalQuizzes int     `json:"total_quizzes"`
	AverageScore float64 `json:"average_score"`
}

// ComputeStudentStats folds a student's results into aggregate statistics.
// Empty input yields zeros, never a division by zero.
func ComputeStudentStats(results []models.Result) StudentStats {
	stats := StudentStats{TotalQuizzes: len(results)}
	if len(results) == 0 {
		return stats
	}

	for _, r := range results {
		stats.TotalCorrect += r.Score
		stats.TotalQuestions += r.Total

		if r.Total > 0 {
			percentage := float64(r.Score) / float64(r.Total) * 100
			if percentage > stats.BestScore {
				stats.BestScore = percentage
			}
		}
	}

	if stats.TotalQuestions > 0 {
		stats.AverageScore = float64(stats.TotalCorrect) / float64(stats.TotalQuestions) * 100
	}

	return stats
}

// RankQuizStudents orders completed results descending by percentage and
// appends students without a result flagged as not completed. The sort is
// stable, ties keep fetch order.
func RankQuizStudents(results []models.Result, students []models.User) []RankedStudent {
	names := make(map[uint]string, len(students))
	for _, u := range students {
		names[u.ID] = u.Name
	}

	ranked := make([]RankedStudent, 0, len(results))
	completed := make(map[uint]bool, len(results))
	for _, r := range results {
		name, ok := names[r.UserID]
		if !ok {
			continue // not a student (e.g. an admin's test run)
		}

		percentage := 0.0
		if r.Total > 0 {
			percentage = float64(r.Score) / float64(r.Total) * 100
		}

		ranked = append(ranked, RankedStudent{
			UserID:     r.UserID,
			Name:       name,
			Score:      r.Score,
			Total:      r.Total,
			Percentage: percentage,
			Completed:  true,
		})
		completed[r.UserID] = true
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Percentage > ranked[j].Percentage
	})

	for _, u := range students {
		if !completed[u.ID] {
			ranked = append(ranked, RankedStudent{
				UserID:    u.ID,
				Name:      u.Name,
				Completed: false,
			})
		}
	}

	return ranked
}

// TopAndBottomStudents slices the k best and k worst students by weighted
// average, bottom reversed so the worst comes first. With fewer than 2k
// students the slices may overlap.
func TopAndBottomStudents(stats []CohortStudent, k int) (top, bottom []CohortStudent) {
	sorted := make([]CohortStudent, len(stats))
	copy(sorted, stats)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].AverageScore > sorted[j].AverageScore
	})

	if k > len(sorted) {
		k = len(sorted)
	}

	top = sorted[:k]

	bottom = make([]CohortStudent, 0, k)
	for i := 0; i < k; i++ {
		bottom = append(bottom, sorted[len(sorted)-1-i])
	}

	return top, bottom
}

// GetStudentResults returns a student's result history newest first, with
// quiz names resolved by direct id lookup so deactivated quizzes still show,
// plus the aggregate stats block.
func (s *StatsService) GetStudentResults(userID uint) ([]ResultView, StudentStats, error) {
	var results []models.Result
	err := s.db.Where("user_id = ?", userID).
		Preload("Quiz").
		Order("created_at DESC").
		Find(&results).Error
	if err != nil {
		return nil, StudentStats{}, err
	}

	views := make([]ResultView, 0, len(results))
	for _, r := range results {
		percentage := 0.0
		if r.Total > 0 {
			percentage = float64(r.Score) / float64(r.Total) * 100
		}

		views = append(views, ResultView{
			ResultID:   r.ID,
			QuizID:     r.QuizID,
			QuizName:   r.Quiz.Name,
			Score:      r.Score,
			Total:      r.Total,
			Percentage: percentage,
			CreatedAt:  r.CreatedAt,
		})
	}

	return views, ComputeStudentStats(results), nil
}

// GetQuizRankings builds the per-quiz ranking for every quiz, including
// deactivated ones, so historical runs stay visible to the admin.
func (s *StatsService) GetQuizRankings() ([]QuizRanking, error) {
	var quizzes []models.Quiz
	if err := s.db.Order("created_at DESC").Find(&quizzes).Error; err != nil {
		return nil, err
	}

	students, err := s.getStudents()
	if err != nil {
		return nil, err
	}

	var results []models.Result
	if err := s.db.Order("id").Find(&results).Error; err != nil {
		return nil, err
	}

	resultsByQuiz := make(map[uint][]models.Result)
	for _, r := range results {
		resultsByQuiz[r.QuizID] = append(resultsByQuiz[r.QuizID], r)
	}

	rankings := make([]QuizRanking, 0, len(quizzes))
	for _, quiz := range quizzes {
		rankings = append(rankings, QuizRanking{
			QuizID:   quiz.ID,
			QuizName: quiz.Name,
			Students: RankQuizStudents(resultsByQuiz[quiz.ID], students),
		})
	}

	return rankings, nil
}

// GetCohortRankings computes weighted averages for every student with at
// least one result and returns the top and bottom k.
func (s *StatsService) GetCohortRankings(k int) (top, bottom []CohortStudent, err error) {
	students, err := s.getStudents()
	if err != nil {
		return nil, nil, err
	}

	var results []models.Result
	if err := s.db.Order("id").Find(&results).Error; err != nil {
		return nil, nil, err
	}

	resultsByUser := make(map[uint][]models.Result)
	for _, r := range results {
		resultsByUser[r.UserID] = append(resultsByUser[r.UserID], r)
	}

	cohort := make([]CohortStudent, 0, len(students))
	for _, u := range students {
		userResults := resultsByUser[u.ID]
		if len(userResults) == 0 {
			continue
		}

		stats := ComputeStudentStats(userResults)
		cohort = append(cohort, CohortStudent{
			UserID:       u.ID,
			Name:         u.Name,
			Email:        u.Email,
			TotalQuizzes: stats.TotalQuizzes,
			AverageScore: stats.AverageScore,
		})
	}

	top, bottom = TopAndBottomStudents(cohort, k)
	return top, bottom, nil
}

// GetPendingStudents lists students without a result for the quiz, the input
// for the reminder side-channel.
func (s *StatsService) GetPendingStudents(quizID uint) ([]models.User, error) {
	var quiz models.Quiz
	if err := s.db.First(&quiz, quizID).Error; err != nil {
		return nil, errors.New("quiz not found")
	}

	students, err := s.getStudents()
	if err != nil {
		return nil, err
	}

	var completedIDs []uint
	if err := s.db.Model(&models.Result{}).Where("quiz_id = ?", quizID).
		Distinct("user_id").Pluck("user_id", &completedIDs).Error; err != nil {
		return nil, err
	}

	completed := make(map[uint]bool, len(completedIDs))
	for _, id := range completedIDs {
		completed[id] = true
	}

	pending := make([]models.User, 0, len(students))
	for _, u := range students {
		if !completed[u.ID] {
			pending = append(pending, u)
		}
	}

	return pending, nil
}

func (s *StatsService) getStudents() ([]models.User, error) {
	var students []models.User
	err := s.db.Where("role = ?", models.RoleStudent).Order("id").Find(&students).Error
	return students, err
}
