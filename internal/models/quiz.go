package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// QuestionType enumerates supported quiz question kinds.
type QuestionType string

const (
	QuestionTypeMCQ       QuestionType = "mcq"
	QuestionTypeTrueFalse QuestionType = "true_false"
)

// Question is owned by its quiz. CorrectAnswer is empty once redacted.
type Question struct {
	Text          string       `json:"question" validate:"required"`
	Type          QuestionType `json:"type" validate:"required,oneof=mcq true_false"`
	Options       []string     `json:"options,omitempty" validate:"required_if=Type mcq,dive,required"`
	CorrectAnswer string       `json:"correct_answer,omitempty" validate:"required"`
	Points        int          `json:"points" validate:"gt=0"`
}

// Questions is stored as a JSONB column.
type Questions []Question

func (q Questions) Value() (driver.Value, error) {
	if q == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(q)
}

func (q *Questions) Scan(src interface{}) error {
	return scanJSON(src, q)
}

// Quiz is an auto-graded assignment.
type Quiz struct {
	Assignment
	Questions   Questions `db:"questions" json:"questions"`
	TotalPoints int       `db:"total_points" json:"total_points"`
}

// QuizAnswer is one submitted answer addressed by question position.
type QuizAnswer struct {
	QuestionIndex int    `json:"question_index"`
	Answer        string `json:"answer"`
}

// QuizAnswers is stored as a JSONB column.
type QuizAnswers []QuizAnswer

func (a QuizAnswers) Value() (driver.Value, error) {
	if a == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(a)
}

func (a *QuizAnswers) Scan(src interface{}) error {
	return scanJSON(src, a)
}

// QuizSubmission is a student's single graded attempt at a quiz.
type QuizSubmission struct {
	ID              string      `db:"id" json:"id"`
	QuizID          string      `db:"quiz_id" json:"quiz_id"`
	StudentID       string      `db:"student_id" json:"student_id"`
	StudentName     string      `db:"student_name" json:"student_name"`
	Answers         QuizAnswers `db:"answers" json:"answers"`
	Score           *int        `db:"score" json:"score,omitempty"`
	TotalPoints     *int        `db:"total_points" json:"total_points,omitempty"`
	AutoGraded      bool        `db:"auto_graded" json:"auto_graded"`
	IsLate          bool        `db:"is_late" json:"is_late"`
	TeacherFeedback *string     `db:"teacher_feedback" json:"teacher_feedback,omitempty"`
	SubmittedAt     time.Time   `db:"submitted_at" json:"submitted_at"`
}

func scanJSON(src interface{}, dst interface{}) error {
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		return json.Unmarshal(v, dst)
	case string:
		return json.Unmarshal([]byte(v), dst)
	default:
		return fmt.Errorf("unsupported json source %T", src)
	}
}
