package service

import (
	"encoding/base64"
	"errors"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/shiksha-api/internal/dto"
	"github.com/noah-isme/shiksha-api/internal/models"
	appErrors "github.com/noah-isme/shiksha-api/pkg/errors"
	"github.com/noah-isme/shiksha-api/pkg/storage"
)

// Blob namespaces.
const (
	BlobKindHomework           = "homework"
	BlobKindHomeworkSubmission = "homework-submissions"
	BlobKindMaterial           = "materials"
)

type blobStorage interface {
	SaveStream(relPath string, r io.Reader) (int64, error)
	Open(relPath string) (*os.File, error)
	Delete(relPath string) error
}

type urlSigner interface {
	Generate(ownerID, relPath string) (string, time.Time, error)
	Parse(token string) (string, string, error)
}

// FileService stores uploaded blobs and hands out signed download links for them.
type FileService struct {
	storage blobStorage
	signer  urlSigner
	baseURL string
	logger  *zap.Logger
}

// NewFileService wires blob storage with link signing. baseURL is the public prefix of
// the download route, e.g. "/api/files".
func NewFileService(store blobStorage, signer urlSigner, baseURL string, logger *zap.Logger) *FileService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FileService{storage: store, signer: signer, baseURL: strings.TrimRight(baseURL, "/"), logger: logger}
}

// Store decodes an inline upload and writes it under kind/ownerID, returning the blob path.
func (s *FileService) Store(kind, ownerID string, upload dto.FileUpload) (string, error) {
	relPath := path.Join(kind, ownerID, uuid.NewString(), sanitizeFileName(upload.FileName))
	decoder := base64.NewDecoder(base64.StdEncoding, strings.NewReader(upload.FileData))
	if _, err := s.storage.SaveStream(relPath, decoder); err != nil {
		var corrupt base64.CorruptInputError
		switch {
		case errors.Is(err, storage.ErrTooLarge):
			return "", appErrors.Clone(appErrors.ErrValidation, "file exceeds size limit")
		case errors.As(err, &corrupt):
			return "", appErrors.Clone(appErrors.ErrValidation, "file_data is not valid base64")
		default:
			return "", appErrors.Internal(err, "failed to store file")
		}
	}
	return relPath, nil
}

// Discard removes a blob, logging rather than failing.
func (s *FileService) Discard(relPath string) {
	if relPath == "" {
		return
	}
	if err := s.storage.Delete(relPath); err != nil {
		s.logger.Warn("discard blob", zap.String("path", relPath), zap.Error(err))
	}
}

// Link signs a download URL for relPath. It returns nil when signing fails.
func (s *FileService) Link(ownerID, relPath string) *models.FileLink {
	token, expiresAt, err := s.signer.Generate(ownerID, relPath)
	if err != nil {
		s.logger.Warn("sign file link", zap.String("path", relPath), zap.Error(err))
		return nil
	}
	return &models.FileLink{
		Name:      FileNameFromPath(relPath),
		URL:       s.baseURL + "/" + token,
		ExpiresAt: expiresAt,
	}
}

// Open resolves a signed token to an open file and its download name.
func (s *FileService) Open(token string) (*os.File, string, error) {
	_, relPath, err := s.signer.Parse(token)
	if err != nil {
		return nil, "", appErrors.ErrNotFound
	}
	file, err := s.storage.Open(relPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, "", appErrors.ErrNotFound
		}
		return nil, "", appErrors.Internal(err, "failed to open file")
	}
	return file, FileNameFromPath(relPath), nil
}

// FileNameFromPath recovers the original upload name from a blob path.
func FileNameFromPath(relPath string) string {
	return path.Base(relPath)
}

func sanitizeFileName(name string) string {
	name = filepath.Base(strings.ReplaceAll(strings.TrimSpace(name), "\\", "/"))
	name = strings.Map(func(r rune) rune {
		if r < 0x20 || r == '/' || r == 0x7f {
			return -1
		}
		return r
	}, name)
	if name == "" || name == "." || name == ".." {
		return "file"
	}
	return name
}
