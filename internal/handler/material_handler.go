package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/shiksha-api/internal/dto"
	"github.com/noah-isme/shiksha-api/internal/models"
	"github.com/noah-isme/shiksha-api/pkg/response"
)

type materialService interface {
	Create(ctx context.Context, identity models.Identity, req dto.CreateMaterialRequest) (*models.LearningMaterial, error)
	List(ctx context.Context, identity models.Identity) ([]models.LearningMaterial, error)
	Delete(ctx context.Context, identity models.Identity, id string) error
}

// MaterialHandler exposes learning material endpoints.
type MaterialHandler struct {
	service materialService
}

func NewMaterialHandler(svc materialService) *MaterialHandler {
	return &MaterialHandler{service: svc}
}

// Create godoc
// @Summary Share a learning material
// @Tags Materials
// @Accept json
// @Produce json
// @Param payload body dto.CreateMaterialRequest true "Material payload"
// @Success 200 {object} response.Envelope
// @Router /materials/create [post]
func (h *MaterialHandler) Create(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}
	var req dto.CreateMaterialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, invalidPayload(err, "invalid material payload"))
		return
	}
	material, err := h.service.Create(c.Request.Context(), identity, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, material)
}

// List godoc
// @Summary List learning materials
// @Tags Materials
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /materials/list [get]
func (h *MaterialHandler) List(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}
	items, err := h.service.List(c.Request.Context(), identity)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, items)
}

// Delete godoc
// @Summary Delete a learning material
// @Tags Materials
// @Produce json
// @Param id path string true "Material ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /materials/{id} [delete]
func (h *MaterialHandler) Delete(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), identity, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"message": "material deleted"})
}
