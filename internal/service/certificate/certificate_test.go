package certificate

import (
	"context"
	"errors"
	"testing"
	"time"

	"EliteRegistry/internal/app_errors"
	"EliteRegistry/internal/models"
)

type fakeEnrollments map[string]models.Enrollment

func (f fakeEnrollments) Enrollment(_ context.Context, userID, courseID string) (*models.Enrollment, error) {
	e, ok := f[userID+"/"+courseID]
	if !ok {
		return nil, app_errors.ErrEnrollmentNotFound
	}
	return &e, nil
}

type fakeHandoff struct {
	stored map[string]models.CertificateHandoff
}

func (f *fakeHandoff) PutCertificate(_ context.Context, userID, courseID string, data models.CertificateHandoff) (string, error) {
	key := "certificates/" + userID + "/" + courseID + ".json"
	f.stored[key] = data
	return key, nil
}

func (f *fakeHandoff) CertificateURL(_ context.Context, key string) (string, error) {
	return "https://files.local/" + key, nil
}

func TestEligibility(t *testing.T) {
	enrolled := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	accessed := time.Date(2026, 3, 9, 18, 30, 0, 0, time.UTC)
	completed := time.Date(2026, 3, 5, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		enrollment  models.Enrollment
		eligible    bool
		date        time.Time
		approximate bool
	}{
		{
			name:       "in progress",
			enrollment: models.Enrollment{EnrolledAt: enrolled, LastAccessed: accessed, Progress: 50},
			date:       accessed, approximate: true,
		},
		{
			name:       "completed with stamp",
			enrollment: models.Enrollment{EnrolledAt: enrolled, LastAccessed: accessed, Progress: 100, Completed: true, CompletedAt: &completed},
			eligible:   true, date: completed,
		},
		{
			name:       "completed without stamp falls back to last access",
			enrollment: models.Enrollment{EnrolledAt: enrolled, LastAccessed: accessed, Progress: 100, Completed: true},
			eligible:   true, date: accessed, approximate: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.enrollment.UserName = "Ada"
			tt.enrollment.CourseTitle = "Go in Practice"
			cert := Eligibility(tt.enrollment)
			if cert.Eligible != tt.eligible {
				t.Fatalf("expected eligible=%v, got %v", tt.eligible, cert.Eligible)
			}
			if !cert.CompletionDate.Equal(tt.date) {
				t.Fatalf("expected date %v, got %v", tt.date, cert.CompletionDate)
			}
			if cert.Approximate != tt.approximate {
				t.Fatalf("expected approximate=%v, got %v", tt.approximate, cert.Approximate)
			}
			if cert.StudentName != "Ada" || cert.CourseTitle != "Go in Practice" {
				t.Fatalf("unexpected names: %+v", cert)
			}
		})
	}
}

func TestHandoffFormatsISO8601(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)
	h := Handoff(models.Certificate{
		StudentName:    "Ada",
		CourseTitle:    "Go",
		CompletionDate: time.Date(2026, 3, 5, 14, 0, 0, 0, loc),
	})
	if h.CompletionDate != "2026-03-05T12:00:00Z" {
		t.Fatalf("unexpected date %q", h.CompletionDate)
	}
}

func TestPublish(t *testing.T) {
	done := time.Date(2026, 3, 5, 12, 0, 0, 0, time.UTC)
	repo := fakeEnrollments{
		"u1/c1": {UserID: "u1", CourseID: "c1", UserName: "Ada", CourseTitle: "Go", Completed: true, Progress: 100, CompletedAt: &done},
		"u1/c2": {UserID: "u1", CourseID: "c2", Progress: 50},
	}
	handoff := &fakeHandoff{stored: map[string]models.CertificateHandoff{}}
	svc := NewCertificateService(repo, handoff)
	ctx := context.Background()

	url, err := svc.Publish(ctx, "u1", "c1")
	if err != nil {
		t.Fatalf("publish: %v", err)
	}
	if url != "https://files.local/certificates/u1/c1.json" {
		t.Fatalf("unexpected url %q", url)
	}
	if got := handoff.stored["certificates/u1/c1.json"]; got.StudentName != "Ada" || got.CompletionDate != "2026-03-05T12:00:00Z" {
		t.Fatalf("unexpected handoff %+v", got)
	}

	if _, err := svc.Publish(ctx, "u1", "c2"); !errors.Is(err, app_errors.ErrNotEligible) {
		t.Fatalf("expected ErrNotEligible, got %v", err)
	}
	if _, err := svc.Publish(ctx, "u2", "c1"); !errors.Is(err, app_errors.ErrEnrollmentNotFound) {
		t.Fatalf("expected ErrEnrollmentNotFound, got %v", err)
	}

	noStorage := NewCertificateService(repo, nil)
	if _, err := noStorage.Publish(ctx, "u1", "c1"); !errors.Is(err, app_errors.ErrHandoffUnavailable) {
		t.Fatalf("expected ErrHandoffUnavailable, got %v", err)
	}
}
