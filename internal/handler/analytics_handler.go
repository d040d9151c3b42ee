package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/shiksha-api/internal/models"
	"github.com/noah-isme/shiksha-api/pkg/response"
)

type analyticsService interface {
	Overview(ctx context.Context, identity models.Identity) (*models.SchoolOverview, error)
	ClassPerformance(ctx context.Context, identity models.Identity) ([]models.ClassPerformance, error)
	TeacherActivity(ctx context.Context, identity models.Identity) ([]models.TeacherActivity, error)
	AttendanceReport(ctx context.Context, identity models.Identity) ([]models.DailyAttendanceCount, error)
	RecentActivities(ctx context.Context, identity models.Identity) ([]models.RecentActivity, error)
}

// AnalyticsHandler serves principal analytics.
type AnalyticsHandler struct {
	service analyticsService
}

// NewAnalyticsHandler constructs an analytics handler.
func NewAnalyticsHandler(svc analyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{service: svc}
}

// Overview godoc
// @Summary School overview
// @Tags Principal
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /principal/analytics [get]
func (h *AnalyticsHandler) Overview(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}
	overview, err := h.service.Overview(c.Request.Context(), identity)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, overview)
}

// ClassPerformance godoc
// @Summary Per-class activity
// @Tags Principal
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /principal/class-performance [get]
func (h *AnalyticsHandler) ClassPerformance(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}
	items, err := h.service.ClassPerformance(c.Request.Context(), identity)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, items)
}

// TeacherActivity godoc
// @Summary Per-teacher publishing activity
// @Tags Principal
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /principal/teacher-activity [get]
func (h *AnalyticsHandler) TeacherActivity(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}
	items, err := h.service.TeacherActivity(c.Request.Context(), identity)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, items)
}

// AttendanceReport godoc
// @Summary Attendance for the last seven days
// @Tags Principal
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /principal/attendance-report [get]
func (h *AnalyticsHandler) AttendanceReport(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}
	items, err := h.service.AttendanceReport(c.Request.Context(), identity)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, items)
}

// RecentActivities godoc
// @Summary Latest homework and quiz publications
// @Tags Principal
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /principal/recent-activities [get]
func (h *AnalyticsHandler) RecentActivities(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}
	items, err := h.service.RecentActivities(c.Request.Context(), identity)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, items)
}
