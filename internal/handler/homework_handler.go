package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/shiksha-api/internal/dto"
	"github.com/noah-isme/shiksha-api/internal/models"
	"github.com/noah-isme/shiksha-api/pkg/response"
)

type homeworkService interface {
	Create(ctx context.Context, identity models.Identity, req dto.CreateHomeworkRequest) (*models.Homework, error)
	List(ctx context.Context, identity models.Identity) ([]models.Homework, error)
	Get(ctx context.Context, identity models.Identity, id string) (*models.Homework, error)
	Submissions(ctx context.Context, identity models.Identity, homeworkID string) ([]models.HomeworkSubmission, error)
	MySubmissions(ctx context.Context, identity models.Identity) ([]models.HomeworkSubmission, error)
	Students(ctx context.Context, identity models.Identity, filter dto.StudentFilter) ([]models.StudentSummary, error)
}

type homeworkGuard interface {
	SubmitHomework(ctx context.Context, identity models.Identity, req dto.SubmitHomeworkRequest) (*models.HomeworkSubmission, error)
	GradeHomework(ctx context.Context, identity models.Identity, submissionID string, req dto.GradeRequest) (*models.HomeworkSubmission, error)
}

type submissionExporter interface {
	HomeworkSubmissions(ctx context.Context, identity models.Identity, homeworkID string, format dto.ExportFormat) (*dto.ExportFile, error)
	QuizSubmissions(ctx context.Context, identity models.Identity, quizID string, format dto.ExportFormat) (*dto.ExportFile, error)
}

// HomeworkHandler exposes homework endpoints.
type HomeworkHandler struct {
	service  homeworkService
	guard    homeworkGuard
	exporter submissionExporter
}

// NewHomeworkHandler constructs a homework handler.
func NewHomeworkHandler(svc homeworkService, guard homeworkGuard, exporter submissionExporter) *HomeworkHandler {
	return &HomeworkHandler{service: svc, guard: guard, exporter: exporter}
}

// Create godoc
// @Summary Create homework
// @Tags Homework
// @Accept json
// @Produce json
// @Param payload body dto.CreateHomeworkRequest true "Homework payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /homework/create [post]
func (h *HomeworkHandler) Create(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}
	var req dto.CreateHomeworkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, invalidPayload(err, "invalid homework payload"))
		return
	}
	hw, err := h.service.Create(c.Request.Context(), identity, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, hw)
}

// List godoc
// @Summary List homework
// @Description Teachers and principals see everything; students see what is assigned to them
// @Tags Homework
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /homework/list [get]
func (h *HomeworkHandler) List(c *gin.Context) {
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

// Get godoc
// @Summary Get homework
// @Tags Homework
// @Produce json
// @Param id path string true "Homework ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /homework/{id} [get]
func (h *HomeworkHandler) Get(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}
	hw, err := h.service.Get(c.Request.Context(), identity, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, hw)
}

// Submit godoc
// @Summary Submit homework
// @Description One submission per student; late submissions are accepted and flagged
// @Tags Homework
// @Accept json
// @Produce json
// @Param payload body dto.SubmitHomeworkRequest true "Submission payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /homework/submit [post]
func (h *HomeworkHandler) Submit(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}
	var req dto.SubmitHomeworkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, invalidPayload(err, "invalid submission payload"))
		return
	}
	sub, err := h.guard.SubmitHomework(c.Request.Context(), identity, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, sub)
}

// Submissions godoc
// @Summary List homework submissions
// @Tags Homework
// @Produce json
// @Param id path string true "Homework ID"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /homework/{id}/submissions [get]
func (h *HomeworkHandler) Submissions(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}
	items, err := h.service.Submissions(c.Request.Context(), identity, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, items)
}

// Export godoc
// @Summary Export homework submissions
// @Tags Homework
// @Produce text/csv
// @Produce application/pdf
// @Param id path string true "Homework ID"
// @Param format query string false "csv or pdf"
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Router /homework/{id}/submissions/export [get]
func (h *HomeworkHandler) Export(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}
	file, err := h.exporter.HomeworkSubmissions(c.Request.Context(), identity, c.Param("id"), dto.ExportFormat(c.Query("format")))
	if err != nil {
		response.Error(c, err)
		return
	}
	writeExport(c, file)
}

// Grade godoc
// @Summary Grade a homework submission
// @Description Grade and feedback may be sent as JSON or as query parameters
// @Tags Homework
// @Accept json
// @Produce json
// @Param id path string true "Submission ID"
// @Param payload body dto.GradeRequest false "Grade payload"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /homework/submission/{id}/grade [put]
func (h *HomeworkHandler) Grade(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}
	var req dto.GradeRequest
	if err := bindBodyOrQuery(c, &req); err != nil {
		response.Error(c, invalidPayload(err, "invalid grade payload"))
		return
	}
	sub, err := h.guard.GradeHomework(c.Request.Context(), identity, c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, sub)
}

// MySubmissions godoc
// @Summary List my homework submissions
// @Tags Homework
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /homework/my-submissions [get]
func (h *HomeworkHandler) MySubmissions(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}
	items, err := h.service.MySubmissions(c.Request.Context(), identity)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, items)
}

// Students godoc
// @Summary List students for targeting
// @Tags Homework
// @Produce json
// @Param class_section query string false "Class section"
// @Success 200 {object} response.Envelope
// @Router /homework/students [get]
func (h *HomeworkHandler) Students(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}
	var filter dto.StudentFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.Error(c, invalidPayload(err, "invalid filter"))
		return
	}
	items, err := h.service.Students(c.Request.Context(), identity, filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, items)
}
