package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/shiksha-api/internal/dto"
	"github.com/noah-isme/shiksha-api/internal/models"
	appErrors "github.com/noah-isme/shiksha-api/pkg/errors"
)

type quizStore interface {
	Create(ctx context.Context, quiz *models.Quiz) error
	FindByID(ctx context.Context, id string) (*models.Quiz, error)
	List(ctx context.Context) ([]models.Quiz, error)
	ListForStudent(ctx context.Context, studentID, classSection string) ([]models.Quiz, error)
}

type quizSubmissionReader interface {
	Exists(ctx context.Context, quizID, studentID string) (bool, error)
	ListByQuiz(ctx context.Context, quizID string) ([]models.QuizSubmission, error)
	ListByStudent(ctx context.Context, studentID string) ([]models.QuizSubmission, error)
}

// QuizService handles quiz publication and redacted reads.
type QuizService struct {
	quizzes     quizStore
	submissions quizSubmissionReader
	resolver    *AssignmentResolver
	grader      *GradingEngine
	validator   *validator.Validate
	logger      *zap.Logger
	now         func() time.Time
}

// NewQuizService constructs a QuizService.
func NewQuizService(quizzes quizStore, submissions quizSubmissionReader, resolver *AssignmentResolver, grader *GradingEngine, validate *validator.Validate, logger *zap.Logger) *QuizService {
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
	return &QuizService{
		quizzes:     quizzes,
		submissions: submissions,
		resolver:    resolver,
		grader:      grader,
		validator:   validate,
		logger:      logger,
		now:         time.Now,
	}
}

// Create publishes a quiz. The total is derived from question points, never taken from
// the client. The creator gets the quiz back with its answer key.
func (s *QuizService) Create(ctx context.Context, identity models.Identity, req dto.CreateQuizRequest) (*models.Quiz, error) {
	if !identity.IsTeacher() {
		return nil, appErrors.ErrForbidden
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid quiz payload")
	}
	if err := checkAnswerKey(req.Questions); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error())
	}

	var dueDate *string
	if req.DueDate != nil && strings.TrimSpace(*req.DueDate) != "" {
		if _, err := ParseDueDate(*req.DueDate); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "due_date must be an ISO-8601 date or timestamp")
		}
		trimmed := strings.TrimSpace(*req.DueDate)
		dueDate = &trimmed
	}
	assignmentType, section, assignees, err := normaliseTarget(req.AssignmentType, req.ClassSection, req.AssignedTo)
	if err != nil {
		return nil, err
	}

	questions := make(models.Questions, len(req.Questions))
	copy(questions, req.Questions)
	quiz := &models.Quiz{
		Assignment: models.Assignment{
			ID:             uuid.NewString(),
			Title:          strings.TrimSpace(req.Title),
			Description:    req.Description,
			AssignmentType: assignmentType,
			ClassSection:   section,
			AssignedTo:     assignees,
			DueDate:        dueDate,
			CreatedBy:      identity.ID,
			CreatedAt:      s.now().UTC(),
		},
		Questions:   questions,
		TotalPoints: s.grader.TotalPoints(questions),
	}

	if err := s.quizzes.Create(ctx, quiz); err != nil {
		return nil, appErrors.Internal(err, "failed to create quiz")
	}
	s.logger.Info("quiz created",
		zap.String("quiz_id", quiz.ID),
		zap.Int("questions", len(quiz.Questions)),
		zap.Int("total_points", quiz.TotalPoints),
	)
	return quiz, nil
}

// List returns quizzes visible to identity, stripped of answer keys unless the caller
// is a teacher.
func (s *QuizService) List(ctx context.Context, identity models.Identity) ([]models.Quiz, error) {
	var (
		items []models.Quiz
		err   error
	)
	if identity.IsStudent() {
		items, err = s.quizzes.ListForStudent(ctx, identity.ID, identity.ClassSection)
	} else {
		items, err = s.quizzes.List(ctx)
	}
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list quizzes")
	}
	return RedactAllForRole(VisibleAssignments(s.resolver, identity, items), identity.Role), nil
}

// Get returns one quiz redacted for the caller.
func (s *QuizService) Get(ctx context.Context, identity models.Identity, id string) (*models.Quiz, error) {
	quiz, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.resolver.Visible(identity, quiz.Assignment) {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "quiz not found")
	}
	view := RedactForRole(*quiz, identity.Role)
	if identity.IsStudent() {
		submitted, err := s.submissions.Exists(ctx, quiz.ID, identity.ID)
		if err != nil {
			return nil, appErrors.Internal(err, "failed to check submission")
		}
		canSubmit, err := s.resolver.CanSubmit(identity, &quiz.Assignment, submitted)
		if err != nil {
			return nil, err
		}
		view.CanSubmit = &canSubmit
	}
	return &view, nil
}

// Submissions lists every attempt at a quiz. Teachers only.
func (s *QuizService) Submissions(ctx context.Context, identity models.Identity, quizID string) ([]models.QuizSubmission, error) {
	if !identity.IsTeacher() {
		return nil, appErrors.ErrForbidden
	}
	if _, err := s.load(ctx, quizID); err != nil {
		return nil, err
	}
	items, err := s.submissions.ListByQuiz(ctx, quizID)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list submissions")
	}
	return items, nil
}

// MySubmissions lists the calling student's quiz attempts.
func (s *QuizService) MySubmissions(ctx context.Context, identity models.Identity) ([]models.QuizSubmission, error) {
	if !identity.IsStudent() {
		return nil, appErrors.ErrForbidden
	}
	items, err := s.submissions.ListByStudent(ctx, identity.ID)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list submissions")
	}
	return items, nil
}

func (s *QuizService) load(ctx context.Context, id string) (*models.Quiz, error) {
	quiz, err := s.quizzes.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "quiz not found")
		}
		return nil, appErrors.Internal(err, "failed to load quiz")
	}
	return quiz, nil
}

// checkAnswerKey makes sure every correct answer is one a student could give.
func checkAnswerKey(questions []models.Question) error {
	for i, q := range questions {
		switch q.Type {
		case models.QuestionTypeTrueFalse:
			if !answerMatches(q.CorrectAnswer, "true") && !answerMatches(q.CorrectAnswer, "false") {
				return fmt.Errorf("question %d: true_false answer must be true or false", i)
			}
		case models.QuestionTypeMCQ:
			found := false
			for _, opt := range q.Options {
				if answerMatches(q.CorrectAnswer, opt) {
					found = true
					break
				}
			}
			if !found {
				return fmt.Errorf("question %d: correct answer is not one of the options", i)
			}
		}
	}
	return nil
}
