package models

import (
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

type Enrollment struct {
	ID               string          `json:"id"`
	UserID           string          `json:"userId"`
	UserName         string          `json:"userName"`
	CourseID         string          `json:"courseId"`
	CourseTitle      string          `json:"courseTitle"`
	CoursePrice      decimal.Decimal `json:"coursePrice"`
	EnrolledAt       time.Time       `json:"enrolledAt"`
	LastAccessed     time.Time       `json:"lastAccessed"`
	CompletedLessons []string        `json:"completedLessons"`
	Progress         int             `json:"progress"`
	Completed        bool            `json:"completed"`
	CompletedAt      *time.Time      `json:"completedAt,omitempty"`
}

// HasLesson reports whether lessonID is in the completed set.
func (e *Enrollment) HasLesson(lessonID string) bool {
	return slices.Contains(e.CompletedLessons, lessonID)
}

// MarkLesson adds or removes lessonID from the completed set. Both directions
// are no-ops when the set already matches.
func (e *Enrollment) MarkLesson(lessonID string, completed bool) {
	idx := slices.Index(e.CompletedLessons, lessonID)
	switch {
	case completed && idx == -1:
		e.CompletedLessons = append(e.CompletedLessons, lessonID)
	case !completed && idx != -1:
		e.CompletedLessons = slices.Delete(e.CompletedLessons, idx, idx+1)
	}
}

// Clone returns a deep copy so stores never share the lessons slice with callers.
func (e Enrollment) Clone() Enrollment {
	e.CompletedLessons = slices.Clone(e.CompletedLessons)
	if e.CompletedLessons == nil {
		e.CompletedLessons = []string{}
	}
	if e.CompletedAt != nil {
		t := *e.CompletedAt
		e.CompletedAt = &t
	}
	return e
}

type EnrollmentWithCourse struct {
	Enrollment
	Course *Course `json:"course"`
}

type ModuleProgress struct {
	ModuleID  string `json:"moduleId"`
	Title     string `json:"title"`
	Matched   int    `json:"completedLessons"`
	Total     int    `json:"totalLessons"`
	Percent   int    `json:"progress"`
	Completed bool   `json:"completed"`
}

type EnrollmentDetail struct {
	Enrollment Enrollment       `json:"enrollment"`
	Modules    []ModuleProgress `json:"modules"`
}
