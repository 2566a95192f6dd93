package minio_storage

import (
	"EliteRegistry/internal/models"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/minio/minio-go/v7"
)

// CertificateStorage publishes certificate handoff documents for the
// external renderer.
type CertificateStorage struct {
	storage      *MinioStorage
	bucket       string
	presignedTTL time.Duration
}

func NewCertificateStorage(ctx context.Context, storage *MinioStorage, bucketName string, presignedTTL time.Duration) (*CertificateStorage, error) {
	if err := storage.ensureBucket(ctx, bucketName); err != nil {
		return nil, err
	}
	return &CertificateStorage{storage: storage, bucket: bucketName, presignedTTL: presignedTTL}, nil
}

func certificateKey(userID, courseID string) string {
	return fmt.Sprintf("certificates/%s/%s.json", url.PathEscape(userID), url.PathEscape(courseID))
}

// PutCertificate overwrites any earlier document for the same pair.
func (s *CertificateStorage) PutCertificate(ctx context.Context, userID, courseID string, data models.CertificateHandoff) (objectKey string, err error) {
	body, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("marshal certificate: %w", err)
	}
	objectKey = certificateKey(userID, courseID)
	_, err = s.storage.client.PutObject(
		ctx,
		s.bucket,
		objectKey,
		bytes.NewReader(body),
		int64(len(body)),
		minio.PutObjectOptions{ContentType: "application/json"},
	)
	if err != nil {
		return "", err
	}
	return objectKey, nil
}

func (s *CertificateStorage) CertificateURL(ctx context.Context, objectKey string) (string, error) {
	presignedURL, err := s.storage.client.PresignedGetObject(
		ctx,
		s.bucket,
		objectKey,
		s.presignedTTL,
		make(url.Values),
	)
	if err != nil {
		return "", err
	}
	return presignedURL.String(), nil
}
