package certificate

import (
	"EliteRegistry/internal/app_errors"
	"EliteRegistry/internal/models"
	"context"
	"fmt"
	"time"
)

// Eligibility derives the certificate data for an enrollment. A course is
// certifiable once it is fully completed.
func Eligibility(e models.Enrollment) models.Certificate {
	cert := models.Certificate{
		Eligible:    e.Completed,
		StudentName: e.UserName,
		CourseTitle: e.CourseTitle,
	}
	if e.CompletedAt != nil {
		cert.CompletionDate = *e.CompletedAt
	} else {
		cert.CompletionDate = e.LastAccessed
		cert.Approximate = true
	}
	return cert
}

func Handoff(c models.Certificate) models.CertificateHandoff {
	return models.CertificateHandoff{
		StudentName:    c.StudentName,
		CourseTitle:    c.CourseTitle,
		CompletionDate: c.CompletionDate.UTC().Format(time.RFC3339),
	}
}

type enrollmentRepo interface {
	Enrollment(ctx context.Context, userID, courseID string) (*models.Enrollment, error)
}

type handoffStorage interface {
	PutCertificate(ctx context.Context, userID, courseID string, data models.CertificateHandoff) (objectKey string, err error)
	CertificateURL(ctx context.Context, objectKey string) (string, error)
}

type CertificateService struct {
	enrollmentRepo enrollmentRepo
	handoff        handoffStorage
}

// NewCertificateService builds the service. handoff may be nil, in which case
// Publish reports ErrHandoffUnavailable.
func NewCertificateService(e enrollmentRepo, h handoffStorage) *CertificateService {
	return &CertificateService{enrollmentRepo: e, handoff: h}
}

func (s *CertificateService) Certificate(ctx context.Context, userID, courseID string) (models.Certificate, error) {
	e, err := s.enrollmentRepo.Enrollment(ctx, userID, courseID)
	if err != nil {
		return models.Certificate{}, err
	}
	return Eligibility(*e), nil
}

// Publish hands the certificate data of a completed course to the renderer's
// storage and returns a URL the renderer can fetch it from.
func (s *CertificateService) Publish(ctx context.Context, userID, courseID string) (string, error) {
	cert, err := s.Certificate(ctx, userID, courseID)
	if err != nil {
		return "", err
	}
	if !cert.Eligible {
		return "", app_errors.ErrNotEligible
	}
	if s.handoff == nil {
		return "", app_errors.ErrHandoffUnavailable
	}

	key, err := s.handoff.PutCertificate(ctx, userID, courseID, Handoff(cert))
	if err != nil {
		return "", fmt.Errorf("put certificate: %w", err)
	}
	url, err := s.handoff.CertificateURL(ctx, key)
	if err != nil {
		return "", fmt.Errorf("presign certificate: %w", err)
	}
	return url, nil
}
