package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/devsamp/devsamp-bfa-go/internal/domain"
	"github.com/devsamp/devsamp-bfa-go/internal/port"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// sniffLen matches the mimetype default read limit.
const sniffLen = 3072

// UploadService stores one file per request in the asset store.
type UploadService struct {
	assets   port.AssetStore
	maxBytes int64
	logger   *zap.Logger
}

// NewUploadService accepts a nil store; uploads then report unavailable.
func NewUploadService(assets port.AssetStore, maxBytes int64, logger *zap.Logger) *UploadService {
	return &UploadService{assets: assets, maxBytes: maxBytes, logger: logger}
}

// MaxBytes is the largest accepted file.
func (s *UploadService) MaxBytes() int64 { return s.maxBytes }

// UploadResult is the body of a successful upload.
type UploadResult struct {
	URL         string `json:"url"`
	Key         string `json:"key"`
	ContentType string `json:"contentType"`
	Size        int64  `json:"size"`
}

// Upload sniffs the content type from the leading bytes and stores body
// under uploads/<uuid><ext>.
func (s *UploadService) Upload(ctx context.Context, filename string, body io.Reader, size int64) (*UploadResult, error) {
	ctx, span := tracer.Start(ctx, "UploadService.Upload")
	defer span.End()

	if s.assets == nil {
		return nil, &domain.ErrUnavailable{Service: "asset storage"}
	}
	if size <= 0 {
		return nil, &domain.ErrValidation{Field: "file", Message: "is empty"}
	}
	if s.maxBytes > 0 && size > s.maxBytes {
		return nil, &domain.ErrValidation{Field: "file", Message: fmt.Sprintf("exceeds %d bytes", s.maxBytes)}
	}

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(body, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	head = head[:n]

	mt := mimetype.Detect(head)
	key := "uploads/" + uuid.NewString() + extension(mt, filename)

	url, err := s.assets.Put(ctx, key, mt.String(), io.MultiReader(bytes.NewReader(head), body), size)
	if err != nil {
		return nil, fmt.Errorf("store upload: %w", err)
	}

	s.logger.Info("file uploaded",
		zap.String("key", key),
		zap.String("content_type", mt.String()),
		zap.Int64("size", size),
	)
	return &UploadResult{URL: url, Key: key, ContentType: mt.String(), Size: size}, nil
}

// extension prefers the sniffed type and falls back to the client name.
func extension(mt *mimetype.MIME, filename string) string {
	if ext := mt.Extension(); ext != "" {
		return ext
	}
	return strings.ToLower(filepath.Ext(filename))
}
