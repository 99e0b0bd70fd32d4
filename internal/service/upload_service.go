package service

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/ssg-mis/dispatch-api/internal/config"
)

// UploadService stores stage attachments in object storage and hands back a
// reference URL for inclusion in a submit payload. The workflow treats the
// upload as opaque.
type UploadService struct {
	client    *minio.Client
	bucket    string
	publicURL string
}

// NewUploadService creates an upload service; returns a disabled service
// when storage is not configured
func NewUploadService(cfg config.StorageConfig) *UploadService {
	if cfg.Endpoint == "" {
		return &UploadService{}
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		// Continue without object storage; the upload endpoint reports 503
		return &UploadService{}
	}

	return &UploadService{
		client:    client,
		bucket:    cfg.Bucket,
		publicURL: cfg.PublicURL,
	}
}

// Enabled reports whether object storage is configured
func (s *UploadService) Enabled() bool {
	return s.client != nil
}

// Upload stores the file and returns its reference URL
func (s *UploadService) Upload(ctx context.Context, filename string, size int64, reader io.Reader) (string, error) {
	if s.client == nil {
		return "", fmt.Errorf("object storage is not configured")
	}

	objectName := fmt.Sprintf("attachments/%s%s", uuid.New().String(), filepath.Ext(filename))

	_, err := s.client.PutObject(ctx, s.bucket, objectName, reader, size, minio.PutObjectOptions{})
	if err != nil {
		return "", fmt.Errorf("failed to store attachment: %w", err)
	}

	if s.publicURL != "" {
		return fmt.Sprintf("%s/%s/%s", s.publicURL, s.bucket, objectName), nil
	}
	return fmt.Sprintf("/%s/%s", s.bucket, objectName), nil
}
