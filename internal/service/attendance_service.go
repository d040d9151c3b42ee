package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/shiksha-api/internal/models"
	"github.com/noah-isme/shiksha-api/internal/repository"
	appErrors "github.com/noah-isme/shiksha-api/pkg/errors"
)

const dateLayout = "2006-01-02"

type attendanceStore interface {
	MarkIfAbsent(ctx context.Context, record *models.AttendanceRecord) error
	ExistsForDate(ctx context.Context, studentID, date string) (bool, error)
	ListByStudent(ctx context.Context, studentID string) ([]models.AttendanceRecord, error)
	ListByClass(ctx context.Context, classSection string) ([]models.AttendanceRecord, error)
}

// AttendanceService lets students mark themselves present once per UTC day.
type AttendanceService struct {
	repo   attendanceStore
	logger *zap.Logger
	now    func() time.Time
}

func NewAttendanceService(repo attendanceStore, logger *zap.Logger) *AttendanceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AttendanceService{repo: repo, logger: logger, now: time.Now}
}

// Mark records today's attendance for the calling student.
func (s *AttendanceService) Mark(ctx context.Context, identity models.Identity) (*models.AttendanceRecord, error) {
	if !identity.IsStudent() {
		return nil, appErrors.ErrForbidden
	}
	now := s.now().UTC()
	record := &models.AttendanceRecord{
		ID:           uuid.NewString(),
		StudentID:    identity.ID,
		StudentName:  identity.FullName,
		ClassSection: identity.ClassSection,
		Date:         now.Format(dateLayout),
		Status:       models.AttendanceStatusPresent,
		MarkedAt:     now,
	}
	if err := s.repo.MarkIfAbsent(ctx, record); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, appErrors.ErrAlreadyMarked
		}
		return nil, appErrors.Internal(err, "failed to mark attendance")
	}
	s.logger.Info("attendance marked", zap.String("student_id", identity.ID), zap.String("date", record.Date))
	return record, nil
}

// MyRecords lists the calling student's attendance, newest first.
func (s *AttendanceService) MyRecords(ctx context.Context, identity models.Identity) ([]models.AttendanceRecord, error) {
	if !identity.IsStudent() {
		return nil, appErrors.ErrForbidden
	}
	items, err := s.repo.ListByStudent(ctx, identity.ID)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list attendance")
	}
	return items, nil
}

// ClassRecords lists attendance for a class section. Teachers only.
func (s *AttendanceService) ClassRecords(ctx context.Context, identity models.Identity, classSection string) ([]models.AttendanceRecord, error) {
	if !identity.IsTeacher() {
		return nil, appErrors.ErrForbidden
	}
	classSection = strings.TrimSpace(classSection)
	if classSection == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "class_section is required")
	}
	items, err := s.repo.ListByClass(ctx, classSection)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list attendance")
	}
	return items, nil
}

// TodayStatus reports whether the calling student has marked today.
func (s *AttendanceService) TodayStatus(ctx context.Context, identity models.Identity) (*models.AttendanceTodayStatus, error) {
	if !identity.IsStudent() {
		return nil, appErrors.ErrForbidden
	}
	today := s.now().UTC().Format(dateLayout)
	marked, err := s.repo.ExistsForDate(ctx, identity.ID, today)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to check attendance")
	}
	return &models.AttendanceTodayStatus{MarkedToday: marked, Date: today}, nil
}
