package minio_storage

import (
	"context"
	"strings"
	"testing"
	"time"
)

func TestCertificateKey(t *testing.T) {
	tests := []struct {
		user, course, want string
	}{
		{"u1", "c1", "certificates/u1/c1.json"},
		{"a/b", "c 1", "certificates/a%2Fb/c%201.json"},
	}
	for _, tt := range tests {
		if got := certificateKey(tt.user, tt.course); got != tt.want {
			t.Fatalf("certificateKey(%q, %q) = %q, want %q", tt.user, tt.course, got, tt.want)
		}
	}
}

func TestCertificateURLIsPresigned(t *testing.T) {
	ms, err := NewMinioStorage("localhost:9000", "access", "secret", "us-east-1", false)
	if err != nil {
		t.Fatalf("client: %v", err)
	}
	s := &CertificateStorage{storage: ms, bucket: "certificates", presignedTTL: 15 * time.Minute}

	got, err := s.CertificateURL(context.Background(), certificateKey("u1", "c1"))
	if err != nil {
		t.Fatalf("url: %v", err)
	}
	if !strings.Contains(got, "/certificates/certificates/u1/c1.json") {
		t.Fatalf("url path = %s", got)
	}
	if !strings.Contains(got, "X-Amz-Signature=") || !strings.Contains(got, "X-Amz-Expires=900") {
		t.Fatalf("url not presigned: %s", got)
	}
}
