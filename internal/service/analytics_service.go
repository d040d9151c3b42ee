package service

import (
	"context"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/shiksha-api/internal/models"
	appErrors "github.com/noah-isme/shiksha-api/pkg/errors"
)

const (
	attendanceReportDays = 7
	recentActivityLimit  = 10
)

// AnalyticsRepository describes the persistence layer required by AnalyticsService.
type AnalyticsRepository interface {
	Overview(ctx context.Context, date string) (*models.SchoolOverview, error)
	ClassPerformance(ctx context.Context) ([]models.ClassPerformance, error)
	TeacherActivity(ctx context.Context) ([]models.TeacherActivity, error)
	AttendanceCounts(ctx context.Context, from, to string) ([]models.DailyAttendanceCount, error)
	RecentActivities(ctx context.Context, limit int) ([]models.RecentActivity, error)
}

type queryObserver interface {
	ObserveDBQuery(name string, duration time.Duration)
}

// AnalyticsService serves principal-only school statistics.
type AnalyticsService struct {
	repo    AnalyticsRepository
	metrics queryObserver
	logger  *zap.Logger
	now     func() time.Time
}

// NewAnalyticsService constructs an analytics service. metrics may be nil.
func NewAnalyticsService(repo AnalyticsRepository, metrics queryObserver, logger *zap.Logger) *AnalyticsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AnalyticsService{repo: repo, metrics: metrics, logger: logger, now: time.Now}
}

// Overview returns headline counters with derived attendance percentage and pending work.
func (s *AnalyticsService) Overview(ctx context.Context, identity models.Identity) (*models.SchoolOverview, error) {
	if !identity.IsPrincipal() {
		return nil, appErrors.ErrForbidden
	}
	start := time.Now()
	overview, err := s.repo.Overview(ctx, s.today())
	s.observe("overview", start)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to load analytics")
	}
	if overview.TotalStudents > 0 {
		pct := float64(overview.TodayAttendance) / float64(overview.TotalStudents) * 100
		overview.AttendancePercentage = math.Round(pct*10) / 10
	}
	pending := overview.TotalHomework*overview.TotalStudents - overview.TotalSubmissions
	if pending < 0 {
		pending = 0
	}
	overview.PendingHomework = pending
	return overview, nil
}

func (s *AnalyticsService) ClassPerformance(ctx context.Context, identity models.Identity) ([]models.ClassPerformance, error) {
	if !identity.IsPrincipal() {
		return nil, appErrors.ErrForbidden
	}
	start := time.Now()
	items, err := s.repo.ClassPerformance(ctx)
	s.observe("class_performance", start)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to load class performance")
	}
	return items, nil
}

func (s *AnalyticsService) TeacherActivity(ctx context.Context, identity models.Identity) ([]models.TeacherActivity, error) {
	if !identity.IsPrincipal() {
		return nil, appErrors.ErrForbidden
	}
	start := time.Now()
	items, err := s.repo.TeacherActivity(ctx)
	s.observe("teacher_activity", start)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to load teacher activity")
	}
	return items, nil
}

// AttendanceReport returns one entry per day for the last seven UTC days, oldest first,
// with zero for days nobody marked.
func (s *AnalyticsService) AttendanceReport(ctx context.Context, identity models.Identity) ([]models.DailyAttendanceCount, error) {
	if !identity.IsPrincipal() {
		return nil, appErrors.ErrForbidden
	}
	today := s.now().UTC()
	from := today.AddDate(0, 0, -(attendanceReportDays - 1))

	start := time.Now()
	counts, err := s.repo.AttendanceCounts(ctx, from.Format(dateLayout), today.Format(dateLayout))
	s.observe("attendance_report", start)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to load attendance report")
	}

	byDate := make(map[string]int, len(counts))
	for _, c := range counts {
		byDate[c.Date] = c.Count
	}
	report := make([]models.DailyAttendanceCount, 0, attendanceReportDays)
	for day := from; !day.After(today); day = day.AddDate(0, 0, 1) {
		date := day.Format(dateLayout)
		report = append(report, models.DailyAttendanceCount{Date: date, Count: byDate[date]})
	}
	return report, nil
}

func (s *AnalyticsService) RecentActivities(ctx context.Context, identity models.Identity) ([]models.RecentActivity, error) {
	if !identity.IsPrincipal() {
		return nil, appErrors.ErrForbidden
	}
	start := time.Now()
	items, err := s.repo.RecentActivities(ctx, recentActivityLimit)
	s.observe("recent_activities", start)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to load recent activities")
	}
	return items, nil
}

func (s *AnalyticsService) today() string {
	return s.now().UTC().Format(dateLayout)
}

func (s *AnalyticsService) observe(name string, start time.Time) {
	if s.metrics != nil {
		s.metrics.ObserveDBQuery(name, time.Since(start))
	}
}
