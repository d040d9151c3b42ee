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

type schoolStore interface {
	RegisterIfAbsent(ctx context.Context, reg *models.SchoolRegistration) error
	FirstRegistration(ctx context.Context) (*models.SchoolRegistration, error)
	LatestSettings(ctx context.Context) (*models.SchoolSettings, error)
	InsertSettings(ctx context.Context, settings *models.SchoolSettings) error
}

// SchoolService handles school registration and the displayed school name.
type SchoolService struct {
	repo        schoolStore
	validator   *validator.Validate
	logger      *zap.Logger
	defaultName string
	now         func() time.Time
}

func NewSchoolService(repo schoolStore, defaultName string, validate *validator.Validate, logger *zap.Logger) *SchoolService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if strings.TrimSpace(defaultName) == "" {
		defaultName = "My School"
	}
	return &SchoolService{repo: repo, validator: validate, logger: logger, defaultName: defaultName, now: time.Now}
}

// Register records a school, once per UDISE code.
func (s *SchoolService) Register(ctx context.Context, req dto.RegisterSchoolRequest) (*models.SchoolRegistration, error) {
	req.SchoolName = strings.TrimSpace(req.SchoolName)
	req.UdiseCode = strings.TrimSpace(req.UdiseCode)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid registration payload")
	}
	reg := &models.SchoolRegistration{
		ID:           uuid.NewString(),
		SchoolName:   req.SchoolName,
		UdiseCode:    req.UdiseCode,
		RegisteredAt: s.now().UTC(),
	}
	if err := s.repo.RegisterIfAbsent(ctx, reg); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, appErrors.Clone(appErrors.ErrAlreadyRegistered, "school with this UDISE code already registered")
		}
		return nil, appErrors.Internal(err, "failed to register school")
	}
	s.logger.Info("school registered", zap.String("udise_code", reg.UdiseCode))
	return reg, nil
}

// CheckRegistration reports whether any school is registered.
func (s *SchoolService) CheckRegistration(ctx context.Context) (*dto.RegistrationStatus, error) {
	reg, err := s.repo.FirstRegistration(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return &dto.RegistrationStatus{Registered: false}, nil
		}
		return nil, appErrors.Internal(err, "failed to check registration")
	}
	return &dto.RegistrationStatus{Registered: true, SchoolName: reg.SchoolName}, nil
}

// Settings resolves the school name: registration first, then the latest settings row,
// then the configured default.
func (s *SchoolService) Settings(ctx context.Context) (*dto.SchoolSettingsResponse, error) {
	reg, err := s.repo.FirstRegistration(ctx)
	switch {
	case err == nil:
		return &dto.SchoolSettingsResponse{SchoolName: reg.SchoolName}, nil
	case !errors.Is(err, sql.ErrNoRows):
		return nil, appErrors.Internal(err, "failed to load registration")
	}

	settings, err := s.repo.LatestSettings(ctx)
	switch {
	case err == nil:
		return &dto.SchoolSettingsResponse{SchoolName: settings.SchoolName}, nil
	case errors.Is(err, sql.ErrNoRows):
		return &dto.SchoolSettingsResponse{SchoolName: s.defaultName}, nil
	default:
		return nil, appErrors.Internal(err, "failed to load settings")
	}
}

// UpdateSettings appends a new school name. Teachers only.
func (s *SchoolService) UpdateSettings(ctx context.Context, identity models.Identity, req dto.UpdateSchoolSettingsRequest) (*dto.SchoolSettingsResponse, error) {
	if !identity.IsTeacher() {
		return nil, appErrors.ErrForbidden
	}
	req.SchoolName = strings.TrimSpace(req.SchoolName)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid settings payload")
	}
	settings := &models.SchoolSettings{
		ID:         uuid.NewString(),
		SchoolName: req.SchoolName,
		UpdatedBy:  identity.ID,
		UpdatedAt:  s.now().UTC(),
	}
	if err := s.repo.InsertSettings(ctx, settings); err != nil {
		return nil, appErrors.Internal(err, "failed to update settings")
	}
	return &dto.SchoolSettingsResponse{SchoolName: settings.SchoolName}, nil
}
