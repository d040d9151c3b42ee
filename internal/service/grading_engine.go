package service

import (
	"fmt"
	"strings"

	"github.com/noah-isme/shiksha-api/internal/models"
	appErrors "github.com/noah-isme/shiksha-api/pkg/errors"
)

// GradingEngine scores quiz answers against the answer key. It holds no state.
type GradingEngine struct{}

func NewGradingEngine() *GradingEngine {
	return &GradingEngine{}
}

// TotalPoints sums question weights.
func (g *GradingEngine) TotalPoints(questions []models.Question) int {
	total := 0
	for _, q := range questions {
		total += q.Points
	}
	return total
}

// Grade returns (score, totalPoints). Every answer is scored on its own, so a repeated
// question_index can earn its points more than once. Any index outside the question list
// rejects the whole answer set.
func (g *GradingEngine) Grade(questions []models.Question, answers []models.QuizAnswer) (int, int, error) {
	total := g.TotalPoints(questions)
	score := 0
	for _, a := range answers {
		if a.QuestionIndex < 0 || a.QuestionIndex >= len(questions) {
			return 0, 0, appErrors.Clone(appErrors.ErrQuestionIndexOutOfRange,
				fmt.Sprintf("question_index %d is out of range [0, %d)", a.QuestionIndex, len(questions)))
		}
		q := questions[a.QuestionIndex]
		if answerMatches(a.Answer, q.CorrectAnswer) {
			score += q.Points
		}
	}
	return score, total, nil
}

func answerMatches(given, correct string) bool {
	return strings.EqualFold(strings.TrimSpace(given), strings.TrimSpace(correct))
}

// RedactForRole returns a copy of quiz safe for role. Only teachers receive the answer key;
// the stored value is never modified.
func RedactForRole(quiz models.Quiz, role models.UserRole) models.Quiz {
	if role == models.RoleTeacher {
		return quiz
	}
	out := quiz
	out.Questions = make(models.Questions, len(quiz.Questions))
	for i, q := range quiz.Questions {
		q.CorrectAnswer = ""
		if q.Options != nil {
			q.Options = append([]string(nil), q.Options...)
		}
		out.Questions[i] = q
	}
	return out
}

// RedactAllForRole applies RedactForRole to each quiz.
func RedactAllForRole(quizzes []models.Quiz, role models.UserRole) []models.Quiz {
	out := make([]models.Quiz, len(quizzes))
	for i, q := range quizzes {
		out[i] = RedactForRole(q, role)
	}
	return out
}
