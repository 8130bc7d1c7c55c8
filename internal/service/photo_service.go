package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"Mansoor88-6/time-tracking-backend/internal/client"
	"Mansoor88-6/time-tracking-backend/internal/models"

	"go.uber.org/zap"
)

type PhotoFiles interface {
	Save(r io.Reader, ext string) (string, error)
	Open(path string) (io.ReadCloser, error)
	Remove(path string) error
}

// TextExtractor reads clock and date hints from a photo.
type TextExtractor interface {
	Extract(ctx context.Context, filename string, photo io.Reader) (*models.OCRResult, error)
}

type PhotoService struct {
	files  PhotoFiles
	ocr    TextExtractor
	logger *zap.Logger
	now    func() time.Time
}

// NewPhotoService creates the upload service. ocr may be nil, in which case
// uploads are stored without hints.
func NewPhotoService(files PhotoFiles, ocr TextExtractor, logger *zap.Logger) *PhotoService {
	return &PhotoService{
		files:  files,
		ocr:    ocr,
		logger: logger,
		now:    time.Now,
	}
}

// Upload stores an image and returns the times suggested by the OCR service.
// The stored file is removed again when extraction fails.
func (s *PhotoService) Upload(ctx context.Context, filename, contentType string, photo io.Reader) (*models.PhotoUploadResponse, error) {
	if !strings.HasPrefix(contentType, "image/") {
		return nil, invalidf("file must be an image")
	}

	path, err := s.files.Save(photo, filepath.Ext(filename))
	if err != nil {
		return nil, err
	}

	if s.ocr == nil {
		resp := models.OCRResult{}.Suggestion(path, s.now())
		return &resp, nil
	}

	result, err := s.extract(ctx, path)
	if err != nil {
		if rmErr := s.files.Remove(path); rmErr != nil {
			s.logger.Warn("Failed to remove unreadable photo",
				zap.String("photo_path", path),
				zap.Error(rmErr))
		}
		var badRequest *client.BadRequestError
		if errors.As(err, &badRequest) {
			return nil, invalidf("photo could not be read")
		}
		return nil, fmt.Errorf("%w: %v", ErrExtractionFailed, err)
	}

	resp := result.Suggestion(path, s.now())
	return &resp, nil
}

func (s *PhotoService) extract(ctx context.Context, path string) (*models.OCRResult, error) {
	f, err := s.files.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return s.ocr.Extract(ctx, path, f)
}
