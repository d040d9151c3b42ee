package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/shiksha-api/internal/models"
	appErrors "github.com/noah-isme/shiksha-api/pkg/errors"
)

type dashboardRepository interface {
	TeacherDashboard(ctx context.Context, date string) (*models.TeacherDashboard, error)
	StudentDashboard(ctx context.Context, studentID, classSection string) (*models.StudentDashboard, error)
}

// DashboardService builds the role-specific /dashboard/stats payload.
type DashboardService struct {
	repo    dashboardRepository
	metrics queryObserver
	logger  *zap.Logger
	now     func() time.Time
}

func NewDashboardService(repo dashboardRepository, metrics queryObserver, logger *zap.Logger) *DashboardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{repo: repo, metrics: metrics, logger: logger, now: time.Now}
}

// Stats returns *models.StudentDashboard for students and *models.TeacherDashboard for
// teachers and principals.
func (s *DashboardService) Stats(ctx context.Context, identity models.Identity) (interface{}, error) {
	start := time.Now()
	defer func() {
		if s.metrics != nil {
			s.metrics.ObserveDBQuery("dashboard_"+string(identity.Role), time.Since(start))
		}
	}()

	switch identity.Role {
	case models.RoleStudent:
		stats, err := s.repo.StudentDashboard(ctx, identity.ID, identity.ClassSection)
		if err != nil {
			return nil, appErrors.Internal(err, "failed to load dashboard")
		}
		return stats, nil
	case models.RoleTeacher, models.RolePrincipal:
		stats, err := s.repo.TeacherDashboard(ctx, s.now().UTC().Format(dateLayout))
		if err != nil {
			return nil, appErrors.Internal(err, "failed to load dashboard")
		}
		return stats, nil
	default:
		return nil, appErrors.ErrForbidden
	}
}
