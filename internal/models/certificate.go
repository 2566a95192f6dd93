package models

import "time"

type Certificate struct {
	Eligible       bool      `json:"eligible"`
	StudentName    string    `json:"studentName"`
	CourseTitle    string    `json:"courseTitle"`
	CompletionDate time.Time `json:"completionDate"`
	// Approximate is set when the record carries no completion stamp and the
	// date falls back to the most recent progress update.
	Approximate bool `json:"approximate"`
}

// CertificateHandoff is the tuple passed to the external renderer.
type CertificateHandoff struct {
	StudentName    string `json:"studentName"`
	CourseTitle    string `json:"courseTitle"`
	CompletionDate string `json:"completionDateISO8601"`
}
