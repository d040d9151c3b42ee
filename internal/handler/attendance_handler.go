package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/shiksha-api/internal/models"
	"github.com/noah-isme/shiksha-api/pkg/response"
)

type attendanceService interface {
	Mark(ctx context.Context, identity models.Identity) (*models.AttendanceRecord, error)
	MyRecords(ctx context.Context, identity models.Identity) ([]models.AttendanceRecord, error)
	ClassRecords(ctx context.Context, identity models.Identity, classSection string) ([]models.AttendanceRecord, error)
	TodayStatus(ctx context.Context, identity models.Identity) (*models.AttendanceTodayStatus, error)
}

// AttendanceHandler exposes self-service attendance endpoints.
type AttendanceHandler struct {
	service attendanceService
}

func NewAttendanceHandler(svc attendanceService) *AttendanceHandler {
	return &AttendanceHandler{service: svc}
}

// Mark godoc
// @Summary Mark today's attendance
// @Tags Attendance
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /attendance/mark [post]
func (h *AttendanceHandler) Mark(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}
	record, err := h.service.Mark(c.Request.Context(), identity)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, record)
}

// MyRecords godoc
// @Summary List my attendance
// @Tags Attendance
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /attendance/my-records [get]
func (h *AttendanceHandler) MyRecords(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}
	items, err := h.service.MyRecords(c.Request.Context(), identity)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, items)
}

// ClassRecords godoc
// @Summary List attendance for a class section
// @Tags Attendance
// @Produce json
// @Param class_section path string true "Class section"
// @Success 200 {object} response.Envelope
// @Router /attendance/class/{class_section} [get]
func (h *AttendanceHandler) ClassRecords(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}
	items, err := h.service.ClassRecords(c.Request.Context(), identity, c.Param("class_section"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, items)
}

// TodayStatus godoc
// @Summary Has the caller marked attendance today
// @Tags Attendance
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /attendance/today-status [get]
func (h *AttendanceHandler) TodayStatus(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}
	status, err := h.service.TodayStatus(c.Request.Context(), identity)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, status)
}
