package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/shiksha-api/internal/dto"
	"github.com/noah-isme/shiksha-api/internal/models"
	"github.com/noah-isme/shiksha-api/internal/repository"
	appErrors "github.com/noah-isme/shiksha-api/pkg/errors"
)

const (
	submissionKindHomework = "homework"
	submissionKindQuiz     = "quiz"
)

type homeworkReader interface {
	FindByID(ctx context.Context, id string) (*models.Homework, error)
}

type quizReader interface {
	FindByID(ctx context.Context, id string) (*models.Quiz, error)
}

type homeworkSubmissionWriter interface {
	Exists(ctx context.Context, homeworkID, studentID string) (bool, error)
	InsertIfAbsent(ctx context.Context, sub *models.HomeworkSubmission) error
	UpdateGrade(ctx context.Context, id, grade, feedback string) (*models.HomeworkSubmission, error)
}

type quizSubmissionWriter interface {
	Exists(ctx context.Context, quizID, studentID string) (bool, error)
	InsertIfAbsent(ctx context.Context, sub *models.QuizSubmission) error
	UpdateFeedback(ctx context.Context, id, feedback string) (*models.QuizSubmission, error)
}

type attachmentStore interface {
	Store(kind, ownerID string, upload dto.FileUpload) (string, error)
	Discard(relPath string)
	Link(ownerID, relPath string) *models.FileLink
}

type submissionRecorder interface {
	RecordSubmission(kind, outcome string, late bool)
	ObserveQuizScore(score, total int)
}

// SubmissionGuard accepts at most one submission per (assignment, student). The
// existence check gives the caller an early answer; the conditional insert underneath
// is what makes concurrent duplicates impossible.
type SubmissionGuard struct {
	homework    homeworkReader
	quizzes     quizReader
	homeworkSub homeworkSubmissionWriter
	quizSub     quizSubmissionWriter
	files       attachmentStore
	resolver    *AssignmentResolver
	grader      *GradingEngine
	metrics     submissionRecorder
	validator   *validator.Validate
	logger      *zap.Logger
	now         func() time.Time
}

// NewSubmissionGuard builds a SubmissionGuard. metrics may be nil.
func NewSubmissionGuard(
	homework homeworkReader,
	quizzes quizReader,
	homeworkSub homeworkSubmissionWriter,
	quizSub quizSubmissionWriter,
	files attachmentStore,
	resolver *AssignmentResolver,
	grader *GradingEngine,
	metrics submissionRecorder,
	validate *validator.Validate,
	logger *zap.Logger,
) *SubmissionGuard {
	if resolver == nil {
		resolver = NewAssignmentResolver()
	}
	if grader == nil {
		grader = NewGradingEngine()
	}
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SubmissionGuard{
		homework:    homework,
		quizzes:     quizzes,
		homeworkSub: homeworkSub,
		quizSub:     quizSub,
		files:       files,
		resolver:    resolver,
		grader:      grader,
		metrics:     metrics,
		validator:   validate,
		logger:      logger,
		now:         time.Now,
	}
}

// SubmitHomework records a student's homework answer verbatim, flagging it late when due.
func (g *SubmissionGuard) SubmitHomework(ctx context.Context, identity models.Identity, req dto.SubmitHomeworkRequest) (*models.HomeworkSubmission, error) {
	if err := g.validator.Struct(req); err != nil {
		g.record(submissionKindHomework, OutcomeInvalid, false)
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid submission payload")
	}

	hw, err := g.homework.FindByID(ctx, req.HomeworkID)
	if err != nil {
		return nil, g.lookupFailed(submissionKindHomework, err, "homework")
	}

	if err := g.resolver.Eligibility(identity, &hw.Assignment, false); err != nil {
		g.record(submissionKindHomework, outcomeFor(err), false)
		return nil, err
	}
	submitted, err := g.homeworkSub.Exists(ctx, hw.ID, identity.ID)
	if err != nil {
		g.record(submissionKindHomework, OutcomeError, false)
		return nil, appErrors.Internal(err, "failed to check existing submission")
	}
	if submitted {
		g.record(submissionKindHomework, OutcomeDuplicate, false)
		return nil, appErrors.Clone(appErrors.ErrDuplicateSubmission, "homework already submitted")
	}

	submittedAt := g.now().UTC()
	sub := &models.HomeworkSubmission{
		ID:             uuid.NewString(),
		HomeworkID:     hw.ID,
		StudentID:      identity.ID,
		StudentName:    identity.FullName,
		SubmissionText: req.SubmissionText,
		SubmittedAt:    submittedAt,
		IsLate:         g.isLate(hw.DueDate, submittedAt, hw.ID),
	}

	if req.FileData != nil && *req.FileData != "" && g.files != nil {
		upload := dto.FileUpload{FileData: *req.FileData}
		if req.FileName != nil {
			upload.FileName = *req.FileName
		}
		relPath, err := g.files.Store(BlobKindHomeworkSubmission, sub.ID, upload)
		if err != nil {
			g.record(submissionKindHomework, OutcomeInvalid, false)
			return nil, err
		}
		name := FileNameFromPath(relPath)
		sub.FilePath = &relPath
		sub.FileName = &name
	}

	if err := g.homeworkSub.InsertIfAbsent(ctx, sub); err != nil {
		if sub.FilePath != nil {
			g.files.Discard(*sub.FilePath)
		}
		if errors.Is(err, repository.ErrDuplicate) {
			g.record(submissionKindHomework, OutcomeDuplicate, false)
			return nil, appErrors.Clone(appErrors.ErrDuplicateSubmission, "homework already submitted")
		}
		g.record(submissionKindHomework, OutcomeError, false)
		return nil, appErrors.Internal(err, "failed to save submission")
	}

	if sub.FilePath != nil {
		sub.File = g.files.Link(sub.ID, *sub.FilePath)
	}
	g.record(submissionKindHomework, OutcomeAccepted, sub.IsLate)
	g.logger.Info("homework submitted",
		zap.String("homework_id", hw.ID),
		zap.String("student_id", identity.ID),
		zap.Bool("late", sub.IsLate),
	)
	return sub, nil
}

// SubmitQuiz auto-grades the answers against the quiz as it stands now and stores the result.
func (g *SubmissionGuard) SubmitQuiz(ctx context.Context, identity models.Identity, req dto.SubmitQuizRequest) (*models.QuizSubmission, error) {
	if err := g.validator.Struct(req); err != nil {
		g.record(submissionKindQuiz, OutcomeInvalid, false)
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid submission payload")
	}

	quiz, err := g.quizzes.FindByID(ctx, req.QuizID)
	if err != nil {
		return nil, g.lookupFailed(submissionKindQuiz, err, "quiz")
	}

	if err := g.resolver.Eligibility(identity, &quiz.Assignment, false); err != nil {
		g.record(submissionKindQuiz, outcomeFor(err), false)
		return nil, err
	}
	submitted, err := g.quizSub.Exists(ctx, quiz.ID, identity.ID)
	if err != nil {
		g.record(submissionKindQuiz, OutcomeError, false)
		return nil, appErrors.Internal(err, "failed to check existing submission")
	}
	if submitted {
		g.record(submissionKindQuiz, OutcomeDuplicate, false)
		return nil, appErrors.Clone(appErrors.ErrDuplicateSubmission, "quiz already submitted")
	}

	score, total, err := g.grader.Grade(quiz.Questions, req.Answers)
	if err != nil {
		g.record(submissionKindQuiz, OutcomeInvalid, false)
		return nil, err
	}

	submittedAt := g.now().UTC()
	sub := &models.QuizSubmission{
		ID:          uuid.NewString(),
		QuizID:      quiz.ID,
		StudentID:   identity.ID,
		StudentName: identity.FullName,
		Answers:     req.Answers,
		Score:       &score,
		TotalPoints: &total,
		AutoGraded:  true,
		IsLate:      g.isLate(quiz.DueDate, submittedAt, quiz.ID),
		SubmittedAt: submittedAt,
	}

	if err := g.quizSub.InsertIfAbsent(ctx, sub); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			g.record(submissionKindQuiz, OutcomeDuplicate, false)
			return nil, appErrors.Clone(appErrors.ErrDuplicateSubmission, "quiz already submitted")
		}
		g.record(submissionKindQuiz, OutcomeError, false)
		return nil, appErrors.Internal(err, "failed to save submission")
	}

	g.record(submissionKindQuiz, OutcomeAccepted, sub.IsLate)
	if g.metrics != nil {
		g.metrics.ObserveQuizScore(score, total)
	}
	g.logger.Info("quiz submitted",
		zap.String("quiz_id", quiz.ID),
		zap.String("student_id", identity.ID),
		zap.Int("score", score),
		zap.Int("total_points", total),
	)
	return sub, nil
}

// GradeHomework sets the grade and feedback of a homework submission. Nothing else changes.
func (g *SubmissionGuard) GradeHomework(ctx context.Context, identity models.Identity, submissionID string, req dto.GradeRequest) (*models.HomeworkSubmission, error) {
	if !identity.IsTeacher() {
		return nil, appErrors.ErrForbidden
	}
	if err := g.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid grade payload")
	}
	sub, err := g.homeworkSub.UpdateGrade(ctx, submissionID, strings.TrimSpace(req.Grade), req.Feedback)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "submission not found")
		}
		return nil, appErrors.Internal(err, "failed to grade submission")
	}
	if sub.FilePath != nil && g.files != nil {
		sub.File = g.files.Link(sub.ID, *sub.FilePath)
	}
	return sub, nil
}

// AddQuizFeedback sets teacher feedback on a quiz submission without re-grading it.
func (g *SubmissionGuard) AddQuizFeedback(ctx context.Context, identity models.Identity, submissionID string, req dto.FeedbackRequest) (*models.QuizSubmission, error) {
	if !identity.IsTeacher() {
		return nil, appErrors.ErrForbidden
	}
	if err := g.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid feedback payload")
	}
	sub, err := g.quizSub.UpdateFeedback(ctx, submissionID, req.Feedback)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "submission not found")
		}
		return nil, appErrors.Internal(err, "failed to save feedback")
	}
	return sub, nil
}

func (g *SubmissionGuard) isLate(dueDate *string, at time.Time, assignmentID string) bool {
	late, err := g.resolver.IsLate(dueDate, at)
	if err != nil {
		g.logger.Warn("unparseable due date, treating as on time", zap.String("assignment_id", assignmentID), zap.Error(err))
		return false
	}
	return late
}

func (g *SubmissionGuard) lookupFailed(kind string, err error, noun string) error {
	if errors.Is(err, sql.ErrNoRows) {
		g.record(kind, OutcomeNotFound, false)
		return appErrors.Clone(appErrors.ErrNotFound, noun+" not found")
	}
	g.record(kind, OutcomeError, false)
	return appErrors.Internal(err, "failed to load "+noun)
}

func (g *SubmissionGuard) record(kind, outcome string, late bool) {
	if g.metrics != nil {
		g.metrics.RecordSubmission(kind, outcome, late)
	}
}

func outcomeFor(err error) string {
	switch {
	case errors.Is(err, appErrors.ErrNotFound):
		return OutcomeNotFound
	default:
		return OutcomeForbidden
	}
}
