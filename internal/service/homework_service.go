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
	appErrors "github.com/noah-isme/shiksha-api/pkg/errors"
)

type homeworkStore interface {
	Create(ctx context.Context, hw *models.Homework) error
	FindByID(ctx context.Context, id string) (*models.Homework, error)
	List(ctx context.Context) ([]models.Homework, error)
	ListForStudent(ctx context.Context, studentID, classSection string) ([]models.Homework, error)
}

type homeworkSubmissionReader interface {
	Exists(ctx context.Context, homeworkID, studentID string) (bool, error)
	ListByHomework(ctx context.Context, homeworkID string) ([]models.HomeworkSubmission, error)
	ListByStudent(ctx context.Context, studentID string) ([]models.HomeworkSubmission, error)
}

type studentLister interface {
	ListStudents(ctx context.Context, classSection string) ([]models.StudentSummary, error)
}

// HomeworkService handles homework publication and role-aware reads.
type HomeworkService struct {
	homework    homeworkStore
	submissions homeworkSubmissionReader
	students    studentLister
	files       attachmentStore
	resolver    *AssignmentResolver
	validator   *validator.Validate
	logger      *zap.Logger
	now         func() time.Time
}

// NewHomeworkService constructs a HomeworkService.
func NewHomeworkService(homework homeworkStore, submissions homeworkSubmissionReader, students studentLister, files attachmentStore, resolver *AssignmentResolver, validate *validator.Validate, logger *zap.Logger) *HomeworkService {
	if resolver == nil {
		resolver = NewAssignmentResolver()
	}
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HomeworkService{
		homework:    homework,
		submissions: submissions,
		students:    students,
		files:       files,
		resolver:    resolver,
		validator:   validate,
		logger:      logger,
		now:         time.Now,
	}
}

// Create publishes homework. Only teachers may create.
func (s *HomeworkService) Create(ctx context.Context, identity models.Identity, req dto.CreateHomeworkRequest) (*models.Homework, error) {
	if !identity.IsTeacher() {
		return nil, appErrors.ErrForbidden
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid homework payload")
	}
	if _, err := ParseDueDate(req.DueDate); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "due_date must be an ISO-8601 date or timestamp")
	}
	assignmentType, section, assignees, err := normaliseTarget(req.AssignmentType, req.ClassSection, req.AssignedTo)
	if err != nil {
		return nil, err
	}

	dueDate := strings.TrimSpace(req.DueDate)
	hw := &models.Homework{
		Assignment: models.Assignment{
			ID:             uuid.NewString(),
			Title:          strings.TrimSpace(req.Title),
			Description:    req.Description,
			AssignmentType: assignmentType,
			ClassSection:   section,
			AssignedTo:     assignees,
			DueDate:        &dueDate,
			CreatedBy:      identity.ID,
			CreatedAt:      s.now().UTC(),
		},
		Attachments: []string{},
	}

	for _, upload := range req.Attachments {
		relPath, err := s.files.Store(BlobKindHomework, hw.ID, upload)
		if err != nil {
			s.discard(hw.Attachments)
			return nil, err
		}
		hw.Attachments = append(hw.Attachments, relPath)
	}

	if err := s.homework.Create(ctx, hw); err != nil {
		s.discard(hw.Attachments)
		return nil, appErrors.Internal(err, "failed to create homework")
	}

	s.logger.Info("homework created",
		zap.String("homework_id", hw.ID),
		zap.String("assignment_type", string(hw.AssignmentType)),
		zap.Int("attachments", len(hw.Attachments)),
	)
	s.decorate(hw)
	return hw, nil
}

// List returns all homework to staff and only visible homework to students.
func (s *HomeworkService) List(ctx context.Context, identity models.Identity) ([]models.Homework, error) {
	var (
		items []models.Homework
		err   error
	)
	if identity.IsStudent() {
		items, err = s.homework.ListForStudent(ctx, identity.ID, identity.ClassSection)
	} else {
		items, err = s.homework.List(ctx)
	}
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list homework")
	}
	items = VisibleAssignments(s.resolver, identity, items)
	for i := range items {
		s.decorate(&items[i])
	}
	return items, nil
}

// Get returns one homework. Students get NotFound for homework they cannot see, plus a
// can_submit flag otherwise.
func (s *HomeworkService) Get(ctx context.Context, identity models.Identity, id string) (*models.Homework, error) {
	hw, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.resolver.Visible(identity, hw.Assignment) {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "homework not found")
	}
	if identity.IsStudent() {
		submitted, err := s.submissions.Exists(ctx, hw.ID, identity.ID)
		if err != nil {
			return nil, appErrors.Internal(err, "failed to check submission")
		}
		canSubmit, err := s.resolver.CanSubmit(identity, &hw.Assignment, submitted)
		if err != nil {
			return nil, err
		}
		hw.CanSubmit = &canSubmit
	}
	s.decorate(hw)
	return hw, nil
}

// Submissions lists every submission for a homework. Teachers only.
func (s *HomeworkService) Submissions(ctx context.Context, identity models.Identity, homeworkID string) ([]models.HomeworkSubmission, error) {
	if !identity.IsTeacher() {
		return nil, appErrors.ErrForbidden
	}
	if _, err := s.load(ctx, homeworkID); err != nil {
		return nil, err
	}
	items, err := s.submissions.ListByHomework(ctx, homeworkID)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list submissions")
	}
	s.linkSubmissions(items)
	return items, nil
}

// MySubmissions lists the calling student's homework submissions.
func (s *HomeworkService) MySubmissions(ctx context.Context, identity models.Identity) ([]models.HomeworkSubmission, error) {
	if !identity.IsStudent() {
		return nil, appErrors.ErrForbidden
	}
	items, err := s.submissions.ListByStudent(ctx, identity.ID)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list submissions")
	}
	s.linkSubmissions(items)
	return items, nil
}

// Students lists students teachers can target, optionally filtered by class section.
func (s *HomeworkService) Students(ctx context.Context, identity models.Identity, filter dto.StudentFilter) ([]models.StudentSummary, error) {
	if !identity.IsTeacher() {
		return nil, appErrors.ErrForbidden
	}
	items, err := s.students.ListStudents(ctx, strings.TrimSpace(filter.ClassSection))
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list students")
	}
	return items, nil
}

func (s *HomeworkService) load(ctx context.Context, id string) (*models.Homework, error) {
	hw, err := s.homework.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "homework not found")
		}
		return nil, appErrors.Internal(err, "failed to load homework")
	}
	return hw, nil
}

func (s *HomeworkService) decorate(hw *models.Homework) {
	hw.Files = make([]models.FileLink, 0, len(hw.Attachments))
	for _, relPath := range hw.Attachments {
		if link := s.files.Link(hw.ID, relPath); link != nil {
			hw.Files = append(hw.Files, *link)
		}
	}
}

func (s *HomeworkService) linkSubmissions(items []models.HomeworkSubmission) {
	for i := range items {
		if items[i].FilePath != nil {
			items[i].File = s.files.Link(items[i].ID, *items[i].FilePath)
		}
	}
}

func (s *HomeworkService) discard(paths []string) {
	for _, p := range paths {
		s.files.Discard(p)
	}
}
