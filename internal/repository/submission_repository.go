package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/shiksha-api/internal/models"
)

const (
	homeworkSubmissionColumns = `id, homework_id, student_id, student_name, submission_text, file_path, file_name, submitted_at, is_late, grade, feedback`
	quizSubmissionColumns     = `id, quiz_id, student_id, student_name, answers, score, total_points, auto_graded, is_late, teacher_feedback, submitted_at`
)

// insertReturning runs a named INSERT ... ON CONFLICT DO NOTHING RETURNING id and maps an
// empty result to ErrDuplicate.
func insertReturning(ctx context.Context, db *sqlx.DB, query string, arg interface{}) error {
	rows, err := db.NamedQueryContext(ctx, query, arg)
	if err != nil {
		return err
	}
	defer rows.Close()
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return err
		}
		return ErrDuplicate
	}
	return nil
}

// HomeworkSubmissionRepository persists homework submissions. The table holds a unique key
// on (homework_id, student_id).
type HomeworkSubmissionRepository struct {
	db *sqlx.DB
}

func NewHomeworkSubmissionRepository(db *sqlx.DB) *HomeworkSubmissionRepository {
	return &HomeworkSubmissionRepository{db: db}
}

// Exists reports whether the student already submitted the homework.
func (r *HomeworkSubmissionRepository) Exists(ctx context.Context, homeworkID, studentID string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM homework_submissions WHERE homework_id = $1 AND student_id = $2)`
	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, homeworkID, studentID); err != nil {
		return false, fmt.Errorf("check homework submission: %w", err)
	}
	return exists, nil
}

// InsertIfAbsent stores sub unless the pair already has a submission, in which case it
// returns ErrDuplicate and writes nothing.
func (r *HomeworkSubmissionRepository) InsertIfAbsent(ctx context.Context, sub *models.HomeworkSubmission) error {
	const query = `INSERT INTO homework_submissions (` + homeworkSubmissionColumns + `)
VALUES (:id, :homework_id, :student_id, :student_name, :submission_text, :file_path, :file_name, :submitted_at, :is_late, :grade, :feedback)
ON CONFLICT (homework_id, student_id) DO NOTHING RETURNING id`
	if err := insertReturning(ctx, r.db, query, sub); err != nil {
		if errors.Is(err, ErrDuplicate) {
			return err
		}
		return fmt.Errorf("insert homework submission: %w", err)
	}
	return nil
}

// UpdateGrade sets grade and feedback and returns the updated row or sql.ErrNoRows.
func (r *HomeworkSubmissionRepository) UpdateGrade(ctx context.Context, id, grade, feedback string) (*models.HomeworkSubmission, error) {
	const query = `UPDATE homework_submissions SET grade = $2, feedback = $3 WHERE id = $1 RETURNING ` + homeworkSubmissionColumns
	var sub models.HomeworkSubmission
	if err := r.db.GetContext(ctx, &sub, query, id, grade, feedback); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("grade homework submission: %w", err)
	}
	return &sub, nil
}

func (r *HomeworkSubmissionRepository) ListByHomework(ctx context.Context, homeworkID string) ([]models.HomeworkSubmission, error) {
	const query = `SELECT ` + homeworkSubmissionColumns + ` FROM homework_submissions WHERE homework_id = $1 ORDER BY submitted_at`
	items := make([]models.HomeworkSubmission, 0)
	if err := r.db.SelectContext(ctx, &items, query, homeworkID); err != nil {
		return nil, fmt.Errorf("list homework submissions: %w", err)
	}
	return items, nil
}

func (r *HomeworkSubmissionRepository) ListByStudent(ctx context.Context, studentID string) ([]models.HomeworkSubmission, error) {
	const query = `SELECT ` + homeworkSubmissionColumns + ` FROM homework_submissions WHERE student_id = $1 ORDER BY submitted_at DESC`
	items := make([]models.HomeworkSubmission, 0)
	if err := r.db.SelectContext(ctx, &items, query, studentID); err != nil {
		return nil, fmt.Errorf("list student homework submissions: %w", err)
	}
	return items, nil
}

// QuizSubmissionRepository persists graded quiz attempts, unique per (quiz_id, student_id).
type QuizSubmissionRepository struct {
	db *sqlx.DB
}

func NewQuizSubmissionRepository(db *sqlx.DB) *QuizSubmissionRepository {
	return &QuizSubmissionRepository{db: db}
}

func (r *QuizSubmissionRepository) Exists(ctx context.Context, quizID, studentID string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM quiz_submissions WHERE quiz_id = $1 AND student_id = $2)`
	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, quizID, studentID); err != nil {
		return false, fmt.Errorf("check quiz submission: %w", err)
	}
	return exists, nil
}

func (r *QuizSubmissionRepository) InsertIfAbsent(ctx context.Context, sub *models.QuizSubmission) error {
	const query = `INSERT INTO quiz_submissions (` + quizSubmissionColumns + `)
VALUES (:id, :quiz_id, :student_id, :student_name, :answers, :score, :total_points, :auto_graded, :is_late, :teacher_feedback, :submitted_at)
ON CONFLICT (quiz_id, student_id) DO NOTHING RETURNING id`
	if err := insertReturning(ctx, r.db, query, sub); err != nil {
		if errors.Is(err, ErrDuplicate) {
			return err
		}
		return fmt.Errorf("insert quiz submission: %w", err)
	}
	return nil
}

// UpdateFeedback sets teacher_feedback only; scores are left as graded.
func (r *QuizSubmissionRepository) UpdateFeedback(ctx context.Context, id, feedback string) (*models.QuizSubmission, error) {
	const query = `UPDATE quiz_submissions SET teacher_feedback = $2 WHERE id = $1 RETURNING ` + quizSubmissionColumns
	var sub models.QuizSubmission
	if err := r.db.GetContext(ctx, &sub, query, id, feedback); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("update quiz feedback: %w", err)
	}
	return &sub, nil
}

func (r *QuizSubmissionRepository) ListByQuiz(ctx context.Context, quizID string) ([]models.QuizSubmission, error) {
	const query = `SELECT ` + quizSubmissionColumns + ` FROM quiz_submissions WHERE quiz_id = $1 ORDER BY submitted_at`
	items := make([]models.QuizSubmission, 0)
	if err := r.db.SelectContext(ctx, &items, query, quizID); err != nil {
		return nil, fmt.Errorf("list quiz submissions: %w", err)
	}
	return items, nil
}

func (r *QuizSubmissionRepository) ListByStudent(ctx context.Context, studentID string) ([]models.QuizSubmission, error) {
	const query = `SELECT ` + quizSubmissionColumns + ` FROM quiz_submissions WHERE student_id = $1 ORDER BY submitted_at DESC`
	items := make([]models.QuizSubmission, 0)
	if err := r.db.SelectContext(ctx, &items, query, studentID); err != nil {
		return nil, fmt.Errorf("list student quiz submissions: %w", err)
	}
	return items, nil
}
