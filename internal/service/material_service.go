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

type materialStore interface {
	Create(ctx context.Context, material *models.LearningMaterial) error
	FindByID(ctx context.Context, id string) (*models.LearningMaterial, error)
	List(ctx context.Context) ([]models.LearningMaterial, error)
	ListByClass(ctx context.Context, classSection string) ([]models.LearningMaterial, error)
	Delete(ctx context.Context, id string) error
}

// MaterialService manages learning materials shared with class sections.
type MaterialService struct {
	repo      materialStore
	files     attachmentStore
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

func NewMaterialService(repo materialStore, files attachmentStore, validate *validator.Validate, logger *zap.Logger) *MaterialService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MaterialService{repo: repo, files: files, validator: validate, logger: logger, now: time.Now}
}

// Create stores a material with an optional uploaded file.
func (s *MaterialService) Create(ctx context.Context, identity models.Identity, req dto.CreateMaterialRequest) (*models.LearningMaterial, error) {
	if !identity.IsTeacher() {
		return nil, appErrors.ErrForbidden
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid material payload")
	}

	material := &models.LearningMaterial{
		ID:           uuid.NewString(),
		Title:        strings.TrimSpace(req.Title),
		Description:  req.Description,
		MaterialType: req.MaterialType,
		ClassSection: strings.TrimSpace(req.ClassSection),
		URL:          req.URL,
		UploadedBy:   identity.ID,
		CreatedAt:    s.now().UTC(),
	}

	if req.FileData != nil && *req.FileData != "" {
		upload := dto.FileUpload{FileData: *req.FileData}
		if req.FileName != nil {
			upload.FileName = *req.FileName
		}
		relPath, err := s.files.Store(BlobKindMaterial, material.ID, upload)
		if err != nil {
			return nil, err
		}
		name := FileNameFromPath(relPath)
		material.FilePath = &relPath
		material.FileName = &name
	}

	if err := s.repo.Create(ctx, material); err != nil {
		if material.FilePath != nil {
			s.files.Discard(*material.FilePath)
		}
		return nil, appErrors.Internal(err, "failed to create material")
	}
	s.link(material)
	return material, nil
}

// List returns every material to staff and the caller's section to students.
func (s *MaterialService) List(ctx context.Context, identity models.Identity) ([]models.LearningMaterial, error) {
	var (
		items []models.LearningMaterial
		err   error
	)
	if identity.IsStudent() {
		items, err = s.repo.ListByClass(ctx, identity.ClassSection)
	} else {
		items, err = s.repo.List(ctx)
	}
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list materials")
	}
	for i := range items {
		s.link(&items[i])
	}
	return items, nil
}

// Delete removes a material and its stored file. Teachers only.
func (s *MaterialService) Delete(ctx context.Context, identity models.Identity, id string) error {
	if !identity.IsTeacher() {
		return appErrors.ErrForbidden
	}
	material, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "material not found")
		}
		return appErrors.Internal(err, "failed to load material")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "material not found")
		}
		return appErrors.Internal(err, "failed to delete material")
	}
	if material.FilePath != nil {
		s.files.Discard(*material.FilePath)
	}
	s.logger.Info("material deleted", zap.String("material_id", id), zap.String("deleted_by", identity.ID))
	return nil
}

func (s *MaterialService) link(material *models.LearningMaterial) {
	if material.FilePath != nil {
		material.File = s.files.Link(material.ID, *material.FilePath)
	}
}
