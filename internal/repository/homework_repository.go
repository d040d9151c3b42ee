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

const homeworkColumns = `id, title, description, assignment_type, class_section, assigned_to, due_date, attachments, created_by, created_at`

// HomeworkRepository persists homework assignments.
type HomeworkRepository struct {
	db *sqlx.DB
}

func NewHomeworkRepository(db *sqlx.DB) *HomeworkRepository {
	return &HomeworkRepository{db: db}
}

// Create inserts a homework record.
func (r *HomeworkRepository) Create(ctx context.Context, hw *models.Homework) error {
	if hw.AssignedTo == nil {
		hw.AssignedTo = pq.StringArray{}
	}
	if hw.Attachments == nil {
		hw.Attachments = pq.StringArray{}
	}
	const query = `INSERT INTO homework (` + homeworkColumns + `)
VALUES (:id, :title, :description, :assignment_type, :class_section, :assigned_to, :due_date, :attachments, :created_by, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, hw); err != nil {
		return fmt.Errorf("create homework: %w", err)
	}
	return nil
}

// FindByID returns a homework by id or sql.ErrNoRows.
func (r *HomeworkRepository) FindByID(ctx context.Context, id string) (*models.Homework, error) {
	const query = `SELECT ` + homeworkColumns + ` FROM homework WHERE id = $1`
	var hw models.Homework
	if err := r.db.GetContext(ctx, &hw, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find homework: %w", err)
	}
	return &hw, nil
}

// List returns every homework, newest first.
func (r *HomeworkRepository) List(ctx context.Context) ([]models.Homework, error) {
	const query = `SELECT ` + homeworkColumns + ` FROM homework ORDER BY created_at DESC`
	items := make([]models.Homework, 0)
	if err := r.db.SelectContext(ctx, &items, query); err != nil {
		return nil, fmt.Errorf("list homework: %w", err)
	}
	return items, nil
}

// ListForStudent narrows the listing to rows that could be visible to the student.
func (r *HomeworkRepository) ListForStudent(ctx context.Context, studentID, classSection string) ([]models.Homework, error) {
	const query = `SELECT ` + homeworkColumns + ` FROM homework
WHERE (assignment_type = 'class' AND class_section = $1) OR $2 = ANY(assigned_to)
ORDER BY created_at DESC`
	items := make([]models.Homework, 0)
	if err := r.db.SelectContext(ctx, &items, query, classSection, studentID); err != nil {
		return nil, fmt.Errorf("list homework for student: %w", err)
	}
	return items, nil
}
