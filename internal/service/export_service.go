package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/shiksha-api/internal/dto"
	"github.com/noah-isme/shiksha-api/internal/models"
	appErrors "github.com/noah-isme/shiksha-api/pkg/errors"
	"github.com/noah-isme/shiksha-api/pkg/export"
)

type sheetRenderer interface {
	ContentType() string
	Extension() string
	Render(sheet export.Sheet) ([]byte, error)
}

type homeworkSubmissionSource interface {
	ListByHomework(ctx context.Context, homeworkID string) ([]models.HomeworkSubmission, error)
}

type quizSubmissionSource interface {
	ListByQuiz(ctx context.Context, quizID string) ([]models.QuizSubmission, error)
}

// ExportService renders submission sheets for teachers as CSV or PDF.
type ExportService struct {
	homework    homeworkReader
	quizzes     quizReader
	homeworkSub homeworkSubmissionSource
	quizSub     quizSubmissionSource
	renderers   map[dto.ExportFormat]sheetRenderer
	logger      *zap.Logger
}

// NewExportService constructs an ExportService. Nil renderers fall back to the defaults.
func NewExportService(homework homeworkReader, quizzes quizReader, homeworkSub homeworkSubmissionSource, quizSub quizSubmissionSource, logger *zap.Logger, csv, pdf sheetRenderer) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ExportService{
		homework:    homework,
		quizzes:     quizzes,
		homeworkSub: homeworkSub,
		quizSub:     quizSub,
		renderers: map[dto.ExportFormat]sheetRenderer{
			dto.ExportFormatCSV: csv,
			dto.ExportFormatPDF: pdf,
		},
		logger: logger,
	}
}

// HomeworkSubmissions exports every submission of a homework.
func (s *ExportService) HomeworkSubmissions(ctx context.Context, identity models.Identity, homeworkID string, format dto.ExportFormat) (*dto.ExportFile, error) {
	if !identity.IsTeacher() {
		return nil, appErrors.ErrForbidden
	}
	renderer, err := s.renderer(format)
	if err != nil {
		return nil, err
	}
	hw, err := s.homework.FindByID(ctx, homeworkID)
	if err != nil {
		return nil, notFoundOr(err, "homework")
	}
	subs, err := s.homeworkSub.ListByHomework(ctx, homeworkID)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list submissions")
	}

	sheet := export.Sheet{
		Title:   hw.Title + " submissions",
		Headers: []string{"Student", "Student ID", "Submitted At", "Late", "Grade", "Feedback", "File", "Text"},
		Rows:    make([][]string, 0, len(subs)),
	}
	for _, sub := range subs {
		sheet.Rows = append(sheet.Rows, []string{
			sub.StudentName,
			sub.StudentID,
			sub.SubmittedAt.UTC().Format(time.RFC3339),
			yesNo(sub.IsLate),
			deref(sub.Grade),
			deref(sub.Feedback),
			deref(sub.FileName),
			deref(sub.SubmissionText),
		})
	}
	return s.render(renderer, sheet, "homework", hw.Title)
}

// QuizSubmissions exports every graded attempt of a quiz.
func (s *ExportService) QuizSubmissions(ctx context.Context, identity models.Identity, quizID string, format dto.ExportFormat) (*dto.ExportFile, error) {
	if !identity.IsTeacher() {
		return nil, appErrors.ErrForbidden
	}
	renderer, err := s.renderer(format)
	if err != nil {
		return nil, err
	}
	quiz, err := s.quizzes.FindByID(ctx, quizID)
	if err != nil {
		return nil, notFoundOr(err, "quiz")
	}
	subs, err := s.quizSub.ListByQuiz(ctx, quizID)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list submissions")
	}

	sheet := export.Sheet{
		Title:   quiz.Title + " submissions",
		Headers: []string{"Student", "Student ID", "Submitted At", "Late", "Score", "Total Points", "Feedback"},
		Rows:    make([][]string, 0, len(subs)),
	}
	for _, sub := range subs {
		sheet.Rows = append(sheet.Rows, []string{
			sub.StudentName,
			sub.StudentID,
			sub.SubmittedAt.UTC().Format(time.RFC3339),
			yesNo(sub.IsLate),
			intString(sub.Score),
			intString(sub.TotalPoints),
			deref(sub.TeacherFeedback),
		})
	}
	return s.render(renderer, sheet, "quiz", quiz.Title)
}

func (s *ExportService) renderer(format dto.ExportFormat) (sheetRenderer, error) {
	if format == "" {
		format = dto.ExportFormatCSV
	}
	renderer, ok := s.renderers[format]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}
	return renderer, nil
}

func (s *ExportService) render(renderer sheetRenderer, sheet export.Sheet, kind, title string) (*dto.ExportFile, error) {
	data, err := renderer.Render(sheet)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to render export")
	}
	s.logger.Info("submissions exported", zap.String("kind", kind), zap.Int("rows", len(sheet.Rows)), zap.String("format", renderer.Extension()))
	return &dto.ExportFile{
		FileName:    fmt.Sprintf("%s-%s-submissions.%s", kind, slug(title), renderer.Extension()),
		ContentType: renderer.ContentType(),
		Data:        data,
	}, nil
}

func notFoundOr(err error, noun string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return appErrors.Clone(appErrors.ErrNotFound, noun+" not found")
	}
	return appErrors.Internal(err, "failed to load "+noun)
}

func slug(title string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(title) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	out := strings.TrimRight(b.String(), "-")
	if out == "" {
		return "export"
	}
	return out
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}

func deref(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

func intString(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}
