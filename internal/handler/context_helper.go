package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/shiksha-api/internal/dto"
	"github.com/noah-isme/shiksha-api/internal/middleware"
	"github.com/noah-isme/shiksha-api/internal/models"
	appErrors "github.com/noah-isme/shiksha-api/pkg/errors"
	"github.com/noah-isme/shiksha-api/pkg/response"
)

// currentIdentity resolves the caller or writes a 401 and reports false.
func currentIdentity(c *gin.Context) (models.Identity, bool) {
	claims, ok := middleware.CurrentClaims(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return models.Identity{}, false
	}
	return claims.Identity(), true
}

func invalidPayload(err error, message string) error {
	return appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, message)
}

// bindBodyOrQuery reads a JSON body when one is sent and falls back to query parameters.
func bindBodyOrQuery(c *gin.Context, dst interface{}) error {
	if c.Request.Body != nil && c.Request.ContentLength != 0 {
		return c.ShouldBindJSON(dst)
	}
	return c.ShouldBindQuery(dst)
}

func writeExport(c *gin.Context, file *dto.ExportFile) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.FileName))
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, file.ContentType, file.Data)
}
