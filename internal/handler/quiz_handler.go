package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/shiksha-api/internal/dto"
	"github.com/noah-isme/shiksha-api/internal/models"
	"github.com/noah-isme/shiksha-api/pkg/response"
)

type quizService interface {
	Create(ctx context.Context, identity models.Identity, req dto.CreateQuizRequest) (*models.Quiz, error)
	List(ctx context.Context, identity models.Identity) ([]models.Quiz, error)
	Get(ctx context.Context, identity models.Identity, id string) (*models.Quiz, error)
	Submissions(ctx context.Context, identity models.Identity, quizID string) ([]models.QuizSubmission, error)
	MySubmissions(ctx context.Context, identity models.Identity) ([]models.QuizSubmission, error)
}

type quizGuard interface {
	SubmitQuiz(ctx context.Context, identity models.Identity, req dto.SubmitQuizRequest) (*models.QuizSubmission, error)
	AddQuizFeedback(ctx context.Context, identity models.Identity, submissionID string, req dto.FeedbackRequest) (*models.QuizSubmission, error)
}

// QuizHandler exposes quiz endpoints.
type QuizHandler struct {
	service  quizService
	guard    quizGuard
	exporter submissionExporter
}

// NewQuizHandler constructs a quiz handler.
func NewQuizHandler(svc quizService, guard quizGuard, exporter submissionExporter) *QuizHandler {
	return &QuizHandler{service: svc, guard: guard, exporter: exporter}
}

// Create godoc
// @Summary Create quiz
// @Description Total points are computed from the questions
// @Tags Quiz
// @Accept json
// @Produce json
// @Param payload body dto.CreateQuizRequest true "Quiz payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /quiz/create [post]
func (h *QuizHandler) Create(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}
	var req dto.CreateQuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, invalidPayload(err, "invalid quiz payload"))
		return
	}
	quiz, err := h.service.Create(c.Request.Context(), identity, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, quiz)
}

// List godoc
// @Summary List quizzes
// @Description Students receive visible quizzes without correct answers
// @Tags Quiz
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /quiz/list [get]
func (h *QuizHandler) List(c *gin.Context) {
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
// @Summary Get quiz
// @Tags Quiz
// @Produce json
// @Param id path string true "Quiz ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /quiz/{id} [get]
func (h *QuizHandler) Get(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}
	quiz, err := h.service.Get(c.Request.Context(), identity, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, quiz)
}

// Submit godoc
// @Summary Submit quiz answers
// @Description Answers are graded immediately; each student may submit once
// @Tags Quiz
// @Accept json
// @Produce json
// @Param payload body dto.SubmitQuizRequest true "Answers"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /quiz/submit [post]
func (h *QuizHandler) Submit(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}
	var req dto.SubmitQuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, invalidPayload(err, "invalid submission payload"))
		return
	}
	sub, err := h.guard.SubmitQuiz(c.Request.Context(), identity, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	result := dto.QuizResult{SubmissionID: sub.ID, IsLate: sub.IsLate}
	if sub.Score != nil {
		result.Score = *sub.Score
	}
	if sub.TotalPoints != nil {
		result.TotalPoints = *sub.TotalPoints
	}
	response.OK(c, result)
}

// Submissions godoc
// @Summary List quiz submissions
// @Tags Quiz
// @Produce json
// @Param id path string true "Quiz ID"
// @Success 200 {object} response.Envelope
// @Router /quiz/{id}/submissions [get]
func (h *QuizHandler) Submissions(c *gin.Context) {
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
// @Summary Export quiz submissions
// @Tags Quiz
// @Produce text/csv
// @Produce application/pdf
// @Param id path string true "Quiz ID"
// @Param format query string false "csv or pdf"
// @Success 200 {file} file
// @Router /quiz/{id}/submissions/export [get]
func (h *QuizHandler) Export(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}
	file, err := h.exporter.QuizSubmissions(c.Request.Context(), identity, c.Param("id"), dto.ExportFormat(c.Query("format")))
	if err != nil {
		response.Error(c, err)
		return
	}
	writeExport(c, file)
}

// Feedback godoc
// @Summary Add teacher feedback to a quiz submission
// @Tags Quiz
// @Accept json
// @Produce json
// @Param id path string true "Submission ID"
// @Param payload body dto.FeedbackRequest false "Feedback"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /quiz/submission/{id}/feedback [put]
func (h *QuizHandler) Feedback(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}
	var req dto.FeedbackRequest
	if err := bindBodyOrQuery(c, &req); err != nil {
		response.Error(c, invalidPayload(err, "invalid feedback payload"))
		return
	}
	sub, err := h.guard.AddQuizFeedback(c.Request.Context(), identity, c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, sub)
}

// MySubmissions godoc
// @Summary List my quiz submissions
// @Tags Quiz
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /quiz/my-submissions [get]
func (h *QuizHandler) MySubmissions(c *gin.Context) {
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
