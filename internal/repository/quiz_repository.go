package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/shiksha-api/internal/models"
)

const quizColumns = `id, title, description, assignment_type, class_section, assigned_to, questions, total_points, due_date, created_by, created_at`

// QuizRepository persists quizzes with their questions as JSONB.
type QuizRepository struct {
	db *sqlx.DB
}

func NewQuizRepository(db *sqlx.DB) *QuizRepository {
	return &QuizRepository{db: db}
}

func (r *QuizRepository) Create(ctx context.Context, quiz *models.Quiz) error {
	if quiz.AssignedTo == nil {
		quiz.AssignedTo = pq.StringArray{}
	}
	const query = `INSERT INTO quizzes (` + quizColumns + `)
VALUES (:id, :title, :description, :assignment_type, :class_section, :assigned_to, :questions, :total_points, :due_date, :created_by, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, quiz); err != nil {
		return fmt.Errorf("create quiz: %w", err)
	}
	return nil
}

// FindByID returns a quiz by id or sql.ErrNoRows.
func (r *QuizRepository) FindByID(ctx context.Context, id string) (*models.Quiz, error) {
	const query = `SELECT ` + quizColumns + ` FROM quizzes WHERE id = $1`
	var quiz models.Quiz
	if err := r.db.GetContext(ctx, &quiz, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find quiz: %w", err)
	}
	return &quiz, nil
}

func (r *QuizRepository) List(ctx context.Context) ([]models.Quiz, error) {
	const query = `SELECT ` + quizColumns + ` FROM quizzes ORDER BY created_at DESC`
	items := make([]models.Quiz, 0)
	if err := r.db.SelectContext(ctx, &items, query); err != nil {
		return nil, fmt.Errorf("list quizzes: %w", err)
	}
	return items, nil
}

func (r *QuizRepository) ListForStudent(ctx context.Context, studentID, classSection string) ([]models.Quiz, error) {
	const query = `SELECT ` + quizColumns + ` FROM quizzes
WHERE (assignment_type = 'class' AND class_section = $1) OR $2 = ANY(assigned_to)
ORDER BY created_at DESC`
	items := make([]models.Quiz, 0)
	if err := r.db.SelectContext(ctx, &items, query, classSection, studentID); err != nil {
		return nil, fmt.Errorf("list quizzes for student: %w", err)
	}
	return items, nil
}
