package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/shiksha-api/internal/models"
	appErrors "github.com/noah-isme/shiksha-api/pkg/errors"
)

func TestDashboardStatsByRole(t *testing.T) {
	repo := &analyticsStub{
		teacherStats: models.TeacherDashboard{TotalStudents: 30, TotalHomework: 4},
		studentStats: models.StudentDashboard{TotalSubmissions: 2, PendingHomework: 1},
	}
	spy := &queryObserverSpy{}
	svc := NewDashboardService(repo, spy, nil)

	stats, err := svc.Stats(context.Background(), teacher("t1"))
	require.NoError(t, err)
	teacherStats, ok := stats.(*models.TeacherDashboard)
	require.True(t, ok)
	assert.Equal(t, 30, teacherStats.TotalStudents)

	stats, err = svc.Stats(context.Background(), student("s1", "10A"))
	require.NoError(t, err)
	studentStats, ok := stats.(*models.StudentDashboard)
	require.True(t, ok)
	assert.Equal(t, 1, studentStats.PendingHomework)

	stats, err = svc.Stats(context.Background(), principal)
	require.NoError(t, err)
	_, ok = stats.(*models.TeacherDashboard)
	assert.True(t, ok)

	assert.Equal(t, []string{"dashboard_teacher", "dashboard_student", "dashboard_principal"}, spy.names)
}

func TestDashboardUnknownRole(t *testing.T) {
	svc := NewDashboardService(&analyticsStub{}, nil, nil)
	_, err := svc.Stats(context.Background(), models.Identity{ID: "x", Role: "janitor"})
	assert.True(t, errors.Is(err, appErrors.ErrForbidden))
}
