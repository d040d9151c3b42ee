package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/shiksha-api/internal/models"
	"github.com/noah-isme/shiksha-api/pkg/response"
)

type dashboardService interface {
	Stats(ctx context.Context, identity models.Identity) (interface{}, error)
}

// DashboardHandler serves role-specific dashboard counters.
type DashboardHandler struct {
	service dashboardService
}

// NewDashboardHandler constructs a dashboard handler.
func NewDashboardHandler(svc dashboardService) *DashboardHandler {
	return &DashboardHandler{service: svc}
}

// Stats godoc
// @Summary Dashboard statistics
// @Description Teachers and principals get school totals; students get personal counters
// @Tags Dashboard
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /dashboard/stats [get]
func (h *DashboardHandler) Stats(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}
	stats, err := h.service.Stats(c.Request.Context(), identity)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, stats)
}
