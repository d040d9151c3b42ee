package service

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/shiksha-api/internal/models"
	appErrors "github.com/noah-isme/shiksha-api/pkg/errors"
)

func sampleQuestions() models.Questions {
	return models.Questions{
		{Text: "2 + 2 = ?", Type: models.QuestionTypeMCQ, Options: []string{"3", "4", "5"}, CorrectAnswer: "4", Points: 1},
		{Text: "The sky is blue", Type: models.QuestionTypeTrueFalse, CorrectAnswer: "true", Points: 1},
	}
}

func TestGradeScenario(t *testing.T) {
	g := NewGradingEngine()
	questions := sampleQuestions()

	score, total, err := g.Grade(questions, []models.QuizAnswer{{QuestionIndex: 0, Answer: "4"}, {QuestionIndex: 1, Answer: "true"}})
	require.NoError(t, err)
	assert.Equal(t, 2, score)
	assert.Equal(t, 2, total)

	score, total, err = g.Grade(questions, []models.QuizAnswer{{QuestionIndex: 0, Answer: "5"}, {QuestionIndex: 1, Answer: "TRUE"}})
	require.NoError(t, err)
	assert.Equal(t, 1, score)
	assert.Equal(t, 2, total)
}

func TestGradeIgnoresCaseAndSurroundingSpace(t *testing.T) {
	g := NewGradingEngine()
	questions := models.Questions{{Text: "Pick", Type: models.QuestionTypeMCQ, Options: []string{"a", "b"}, CorrectAnswer: "b", Points: 3}}

	score, _, err := g.Grade(questions, []models.QuizAnswer{{QuestionIndex: 0, Answer: " B "}})
	require.NoError(t, err)
	assert.Equal(t, 3, score)

	score, _, err = g.Grade(questions, []models.QuizAnswer{{QuestionIndex: 0, Answer: "b b"}})
	require.NoError(t, err)
	assert.Zero(t, score)
}

func TestGradeWeightsAndUnanswered(t *testing.T) {
	g := NewGradingEngine()
	questions := models.Questions{
		{Text: "q1", Type: models.QuestionTypeTrueFalse, CorrectAnswer: "false", Points: 2},
		{Text: "q2", Type: models.QuestionTypeTrueFalse, CorrectAnswer: "true", Points: 5},
		{Text: "q3", Type: models.QuestionTypeTrueFalse, CorrectAnswer: "true", Points: 3},
	}

	score, total, err := g.Grade(questions, []models.QuizAnswer{{QuestionIndex: 1, Answer: "true"}})
	require.NoError(t, err)
	assert.Equal(t, 5, score)
	assert.Equal(t, 10, total)

	score, total, err = g.Grade(questions, nil)
	require.NoError(t, err)
	assert.Zero(t, score)
	assert.Equal(t, 10, total)
}

func TestGradeScoresDuplicateIndicesEachTime(t *testing.T) {
	g := NewGradingEngine()
	answers := []models.QuizAnswer{{QuestionIndex: 0, Answer: "4"}, {QuestionIndex: 0, Answer: "4"}, {QuestionIndex: 0, Answer: "3"}}

	score, total, err := g.Grade(sampleQuestions(), answers)
	require.NoError(t, err)
	assert.Equal(t, 2, score)
	assert.Equal(t, 2, total)
}

func TestGradeRejectsOutOfRangeIndex(t *testing.T) {
	g := NewGradingEngine()
	for _, idx := range []int{-1, 2, 99} {
		_, _, err := g.Grade(sampleQuestions(), []models.QuizAnswer{{QuestionIndex: 0, Answer: "4"}, {QuestionIndex: idx, Answer: "x"}})
		require.Error(t, err)
		assert.ErrorIs(t, err, appErrors.ErrQuestionIndexOutOfRange)
	}
}

func TestGradeIsDeterministicAndMonotonic(t *testing.T) {
	g := NewGradingEngine()
	questions := models.Questions{
		{Text: "q1", Type: models.QuestionTypeTrueFalse, CorrectAnswer: "true", Points: 1},
		{Text: "q2", Type: models.QuestionTypeTrueFalse, CorrectAnswer: "false", Points: 2},
		{Text: "q3", Type: models.QuestionTypeMCQ, Options: []string{"x", "y"}, CorrectAnswer: "y", Points: 4},
	}
	correct := []models.QuizAnswer{{QuestionIndex: 0, Answer: "true"}, {QuestionIndex: 1, Answer: "false"}, {QuestionIndex: 2, Answer: "y"}}

	previous := -1
	for n := 0; n <= len(correct); n++ {
		first, _, err := g.Grade(questions, correct[:n])
		require.NoError(t, err)
		second, _, err := g.Grade(questions, correct[:n])
		require.NoError(t, err)
		assert.Equal(t, first, second)
		assert.GreaterOrEqual(t, first, previous)
		previous = first
	}
	assert.Equal(t, 7, previous)
}

func TestRedactForRole(t *testing.T) {
	quiz := models.Quiz{Assignment: classAssignment("quiz-1", "10A"), Questions: sampleQuestions(), TotalPoints: 2}

	for _, role := range []models.UserRole{models.RoleStudent, models.RolePrincipal} {
		redacted := RedactForRole(quiz, role)
		require.Len(t, redacted.Questions, 2)
		for _, q := range redacted.Questions {
			assert.Empty(t, q.CorrectAnswer)
		}
		assert.Equal(t, []string{"3", "4", "5"}, redacted.Questions[0].Options)

		raw, err := json.Marshal(redacted)
		require.NoError(t, err)
		assert.NotContains(t, string(raw), "correct_answer")
	}

	assert.Equal(t, "4", quiz.Questions[0].CorrectAnswer, "stored quiz must not change")

	teacherView := RedactForRole(quiz, models.RoleTeacher)
	assert.Equal(t, "4", teacherView.Questions[0].CorrectAnswer)
	raw, err := json.Marshal(teacherView)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "correct_answer")
}

func TestRedactForRoleCopiesOptions(t *testing.T) {
	quiz := models.Quiz{Questions: sampleQuestions()}
	redacted := RedactForRole(quiz, models.RoleStudent)
	redacted.Questions[0].Options[0] = "changed"
	assert.Equal(t, "3", quiz.Questions[0].Options[0])
}

func TestRedactAllForRole(t *testing.T) {
	quizzes := []models.Quiz{{Questions: sampleQuestions()}, {Questions: sampleQuestions()}}
	out := RedactAllForRole(quizzes, models.RoleStudent)
	require.Len(t, out, 2)
	for _, q := range out {
		for _, question := range q.Questions {
			assert.Empty(t, question.CorrectAnswer)
		}
	}
}
