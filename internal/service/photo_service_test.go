package service

import (
	"context"
	"errors"
	"io"
	"os"
	"strings"
	"testing"
	"time"

	"Mansoor88-6/time-tracking-backend/internal/client"
	"Mansoor88-6/time-tracking-backend/internal/models"
	"Mansoor88-6/time-tracking-backend/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeExtractor struct {
	result *models.OCRResult
	err    error
	seen   string
}

func (f *fakeExtractor) Extract(_ context.Context, _ string, photo io.Reader) (*models.OCRResult, error) {
	data, _ := io.ReadAll(photo)
	f.seen = string(data)
	return f.result, f.err
}

func newPhotoService(t *testing.T, ocr TextExtractor) (*PhotoService, string) {
	t.Helper()
	dir := t.TempDir()
	store, err := storage.NewPhotoStore(dir)
	require.NoError(t, err)
	svc := NewPhotoService(store, ocr, zap.NewNop())
	svc.now = func() time.Time { return time.Date(2024, 5, 2, 11, 0, 0, 0, time.UTC) }
	return svc, dir
}

func countFiles(t *testing.T, dir string) int {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	return len(entries)
}

func TestPhotoService_Upload(t *testing.T) {
	start, end := "08:00", "16:30"
	ocr := &fakeExtractor{result: &models.OCRResult{
		ExtractedText:      "IN 08:00 OUT 16:30",
		SuggestedStartTime: &start,
		SuggestedEndTime:   &end,
	}}
	svc, dir := newPhotoService(t, ocr)

	resp, err := svc.Upload(context.Background(), "card.jpg", "image/jpeg", strings.NewReader("pixels"))
	require.NoError(t, err)
	assert.Equal(t, "pixels", ocr.seen)
	assert.Equal(t, "IN 08:00 OUT 16:30", resp.ExtractedText)
	require.NotNil(t, resp.SuggestedStartTime)
	assert.Equal(t, time.Date(2024, 5, 2, 8, 0, 0, 0, time.UTC), *resp.SuggestedStartTime)
	require.NotNil(t, resp.SuggestedEndTime)
	assert.Equal(t, time.Date(2024, 5, 2, 16, 30, 0, 0, time.UTC), *resp.SuggestedEndTime)
	assert.True(t, strings.HasSuffix(resp.PhotoPath, ".jpg"))
	assert.Equal(t, 1, countFiles(t, dir))
}

func TestPhotoService_Upload_RejectsNonImage(t *testing.T) {
	svc, dir := newPhotoService(t, &fakeExtractor{})

	_, err := svc.Upload(context.Background(), "notes.txt", "text/plain", strings.NewReader("hi"))
	assert.ErrorIs(t, err, ErrInvalidSubmission)
	assert.Equal(t, 0, countFiles(t, dir))
}

func TestPhotoService_Upload_RemovesFileWhenExtractionFails(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantErr error
	}{
		{"unreadable photo", &client.BadRequestError{Message: "no text", StatusCode: 400}, ErrInvalidSubmission},
		{"service down", errors.New("connection refused"), ErrExtractionFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, dir := newPhotoService(t, &fakeExtractor{err: tt.err})

			_, err := svc.Upload(context.Background(), "card.png", "image/png", strings.NewReader("pixels"))
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, 0, countFiles(t, dir))
		})
	}
}

func TestPhotoService_Upload_WithoutOCR(t *testing.T) {
	svc, dir := newPhotoService(t, nil)

	resp, err := svc.Upload(context.Background(), "card.png", "image/png", strings.NewReader("pixels"))
	require.NoError(t, err)
	assert.Empty(t, resp.ExtractedText)
	assert.Nil(t, resp.SuggestedStartTime)
	assert.Equal(t, 1, countFiles(t, dir))
}
