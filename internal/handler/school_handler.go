package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/shiksha-api/internal/dto"
	"github.com/noah-isme/shiksha-api/internal/models"
	"github.com/noah-isme/shiksha-api/pkg/response"
)

type schoolService interface {
	Register(ctx context.Context, req dto.RegisterSchoolRequest) (*models.SchoolRegistration, error)
	CheckRegistration(ctx context.Context) (*dto.RegistrationStatus, error)
	Settings(ctx context.Context) (*dto.SchoolSettingsResponse, error)
	UpdateSettings(ctx context.Context, identity models.Identity, req dto.UpdateSchoolSettingsRequest) (*dto.SchoolSettingsResponse, error)
}

// SchoolHandler exposes school registration and settings.
type SchoolHandler struct {
	service schoolService
}

func NewSchoolHandler(svc schoolService) *SchoolHandler {
	return &SchoolHandler{service: svc}
}

// Register godoc
// @Summary Register the school
// @Tags School
// @Accept json
// @Produce json
// @Param payload body dto.RegisterSchoolRequest true "Registration"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /school/register [post]
func (h *SchoolHandler) Register(c *gin.Context) {
	var req dto.RegisterSchoolRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, invalidPayload(err, "invalid registration payload"))
		return
	}
	reg, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, reg)
}

// CheckRegistration godoc
// @Summary Check whether a school is registered
// @Tags School
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /school/check-registration [get]
func (h *SchoolHandler) CheckRegistration(c *gin.Context) {
	status, err := h.service.CheckRegistration(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, status)
}

// Settings godoc
// @Summary Effective school settings
// @Tags School
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /settings/school [get]
func (h *SchoolHandler) Settings(c *gin.Context) {
	settings, err := h.service.Settings(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, settings)
}

// UpdateSettings godoc
// @Summary Update the school name
// @Tags School
// @Accept json
// @Produce json
// @Param payload body dto.UpdateSchoolSettingsRequest false "Settings"
// @Param school_name query string false "School name"
// @Success 200 {object} response.Envelope
// @Router /settings/school [put]
func (h *SchoolHandler) UpdateSettings(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}
	var req dto.UpdateSchoolSettingsRequest
	if err := bindBodyOrQuery(c, &req); err != nil {
		response.Error(c, invalidPayload(err, "invalid settings payload"))
		return
	}
	settings, err := h.service.UpdateSettings(c.Request.Context(), identity, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, settings)
}
