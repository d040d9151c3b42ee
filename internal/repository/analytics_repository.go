package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/shiksha-api/internal/models"
)

// AnalyticsRepository exposes read-only counting queries for principal analytics and
// dashboards.
type AnalyticsRepository struct {
	db *sqlx.DB
}

// NewAnalyticsRepository instantiates the repository.
func NewAnalyticsRepository(db *sqlx.DB) *AnalyticsRepository {
	return &AnalyticsRepository{db: db}
}

// Overview returns school-wide counters with today's attendance taken from date.
func (r *AnalyticsRepository) Overview(ctx context.Context, date string) (*models.SchoolOverview, error) {
	const query = `SELECT
    (SELECT COUNT(*) FROM users WHERE role = 'student') AS total_students,
    (SELECT COUNT(*) FROM users WHERE role = 'teacher') AS total_teachers,
    (SELECT COUNT(*) FROM homework) AS total_homework,
    (SELECT COUNT(*) FROM quizzes) AS total_quizzes,
    (SELECT COUNT(*) FROM learning_materials) AS total_materials,
    (SELECT COUNT(*) FROM attendance WHERE date = $1) AS today_attendance,
    (SELECT COUNT(*) FROM homework_submissions) AS total_submissions,
    (SELECT COUNT(*) FROM quiz_submissions) AS total_quiz_submissions`
	var overview models.SchoolOverview
	if err := r.db.GetContext(ctx, &overview, query, date); err != nil {
		return nil, fmt.Errorf("query school overview: %w", err)
	}
	return &overview, nil
}

// ClassPerformance aggregates student activity per class section.
func (r *AnalyticsRepository) ClassPerformance(ctx context.Context) ([]models.ClassPerformance, error) {
	const query = `SELECT s.class_section,
    COUNT(*) AS total_students,
    COALESCE(SUM((SELECT COUNT(*) FROM attendance a WHERE a.student_id = s.id)), 0) AS attendance_count,
    COALESCE(SUM((SELECT COUNT(*) FROM homework_submissions hs WHERE hs.student_id = s.id)), 0) AS homework_submissions,
    COALESCE(SUM((SELECT COUNT(*) FROM quiz_submissions qs WHERE qs.student_id = s.id)), 0) AS quiz_submissions
FROM users s
WHERE s.role = 'student'
GROUP BY s.class_section
ORDER BY s.class_section`
	items := make([]models.ClassPerformance, 0)
	if err := r.db.SelectContext(ctx, &items, query); err != nil {
		return nil, fmt.Errorf("query class performance: %w", err)
	}
	return items, nil
}

// TeacherActivity counts publications per teacher, most active first.
func (r *AnalyticsRepository) TeacherActivity(ctx context.Context) ([]models.TeacherActivity, error) {
	const query = `SELECT t.full_name AS teacher_name, t.email, t.homework_created, t.quizzes_created, t.materials_uploaded,
    t.homework_created + t.quizzes_created + t.materials_uploaded AS total_activity
FROM (
    SELECT u.full_name, u.email,
        (SELECT COUNT(*) FROM homework h WHERE h.created_by = u.id) AS homework_created,
        (SELECT COUNT(*) FROM quizzes q WHERE q.created_by = u.id) AS quizzes_created,
        (SELECT COUNT(*) FROM learning_materials m WHERE m.uploaded_by = u.id) AS materials_uploaded
    FROM users u
    WHERE u.role = 'teacher'
) t
ORDER BY total_activity DESC, t.full_name`
	items := make([]models.TeacherActivity, 0)
	if err := r.db.SelectContext(ctx, &items, query); err != nil {
		return nil, fmt.Errorf("query teacher activity: %w", err)
	}
	return items, nil
}

// AttendanceCounts returns mark counts for dates in [from, to]. Days without marks are
// absent from the result.
func (r *AnalyticsRepository) AttendanceCounts(ctx context.Context, from, to string) ([]models.DailyAttendanceCount, error) {
	const query = `SELECT date, COUNT(*) AS count FROM attendance WHERE date BETWEEN $1 AND $2 GROUP BY date ORDER BY date`
	items := make([]models.DailyAttendanceCount, 0)
	if err := r.db.SelectContext(ctx, &items, query, from, to); err != nil {
		return nil, fmt.Errorf("query attendance counts: %w", err)
	}
	return items, nil
}

// RecentActivities lists the latest homework and quiz publications.
func (r *AnalyticsRepository) RecentActivities(ctx context.Context, limit int) ([]models.RecentActivity, error) {
	const query = `SELECT a.type, a.title, a.class_section, COALESCE(u.full_name, 'Unknown') AS created_by, a.created_at
FROM (
    SELECT 'homework' AS type, title, class_section, created_by, created_at FROM homework
    UNION ALL
    SELECT 'quiz' AS type, title, class_section, created_by, created_at FROM quizzes
) a
LEFT JOIN users u ON u.id = a.created_by
ORDER BY a.created_at DESC
LIMIT $1`
	items := make([]models.RecentActivity, 0)
	if err := r.db.SelectContext(ctx, &items, query, limit); err != nil {
		return nil, fmt.Errorf("query recent activities: %w", err)
	}
	return items, nil
}

// TeacherDashboard returns the teacher dashboard counters.
func (r *AnalyticsRepository) TeacherDashboard(ctx context.Context, date string) (*models.TeacherDashboard, error) {
	const query = `SELECT
    (SELECT COUNT(*) FROM users WHERE role = 'student') AS total_students,
    (SELECT COUNT(*) FROM homework) AS total_homework,
    (SELECT COUNT(*) FROM quizzes) AS total_quizzes,
    (SELECT COUNT(*) FROM attendance WHERE date = $1) AS today_attendance`
	var stats models.TeacherDashboard
	if err := r.db.GetContext(ctx, &stats, query, date); err != nil {
		return nil, fmt.Errorf("query teacher dashboard: %w", err)
	}
	return &stats, nil
}

// StudentDashboard returns personal counters. Pending homework counts homework visible to
// the student that has no submission from them.
func (r *AnalyticsRepository) StudentDashboard(ctx context.Context, studentID, classSection string) (*models.StudentDashboard, error) {
	const query = `SELECT
    (SELECT COUNT(*) FROM homework_submissions WHERE student_id = $1) AS total_submissions,
    (SELECT COUNT(*) FROM quiz_submissions WHERE student_id = $1) AS total_quiz_submissions,
    (SELECT COUNT(*) FROM attendance WHERE student_id = $1) AS attendance_days,
    (SELECT COUNT(*) FROM homework h
        WHERE ((h.assignment_type = 'class' AND h.class_section = $2) OR $1 = ANY(h.assigned_to))
        AND NOT EXISTS (SELECT 1 FROM homework_submissions hs WHERE hs.homework_id = h.id AND hs.student_id = $1)
    ) AS pending_homework`
	var stats models.StudentDashboard
	if err := r.db.GetContext(ctx, &stats, query, studentID, classSection); err != nil {
		return nil, fmt.Errorf("query student dashboard: %w", err)
	}
	return &stats, nil
}
