package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/shiksha-api/internal/models"
)

const attendanceColumns = `id, student_id, student_name, class_section, date, status, marked_at`

// AttendanceRepository stores self-marked attendance, one row per student per day.
type AttendanceRepository struct {
	db *sqlx.DB
}

func NewAttendanceRepository(db *sqlx.DB) *AttendanceRepository {
	return &AttendanceRepository{db: db}
}

// MarkIfAbsent inserts the record unless the student already marked that date, in which
// case ErrDuplicate is returned.
func (r *AttendanceRepository) MarkIfAbsent(ctx context.Context, record *models.AttendanceRecord) error {
	const query = `INSERT INTO attendance (` + attendanceColumns + `)
VALUES (:id, :student_id, :student_name, :class_section, :date, :status, :marked_at)
ON CONFLICT (student_id, date) DO NOTHING RETURNING id`
	if err := insertReturning(ctx, r.db, query, record); err != nil {
		if errors.Is(err, ErrDuplicate) {
			return err
		}
		return fmt.Errorf("mark attendance: %w", err)
	}
	return nil
}

// ExistsForDate reports whether the student has a record for date (YYYY-MM-DD).
func (r *AttendanceRepository) ExistsForDate(ctx context.Context, studentID, date string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM attendance WHERE student_id = $1 AND date = $2)`
	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, studentID, date); err != nil {
		return false, fmt.Errorf("check attendance: %w", err)
	}
	return exists, nil
}

func (r *AttendanceRepository) ListByStudent(ctx context.Context, studentID string) ([]models.AttendanceRecord, error) {
	const query = `SELECT ` + attendanceColumns + ` FROM attendance WHERE student_id = $1 ORDER BY date DESC`
	items := make([]models.AttendanceRecord, 0)
	if err := r.db.SelectContext(ctx, &items, query, studentID); err != nil {
		return nil, fmt.Errorf("list student attendance: %w", err)
	}
	return items, nil
}

func (r *AttendanceRepository) ListByClass(ctx context.Context, classSection string) ([]models.AttendanceRecord, error) {
	const query = `SELECT ` + attendanceColumns + ` FROM attendance WHERE class_section = $1 ORDER BY date DESC, student_name`
	items := make([]models.AttendanceRecord, 0)
	if err := r.db.SelectContext(ctx, &items, query, classSection); err != nil {
		return nil, fmt.Errorf("list class attendance: %w", err)
	}
	return items, nil
}
