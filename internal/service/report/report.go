// Package report builds read-only admin reports over enrollment data.
package report

import (
	"EliteRegistry/internal/models"
	"context"
	"slices"
	"sort"

	"github.com/shopspring/decimal"
)

const (
	RecentEnrollments = 5
	PopularCourses    = 3
	ActivityDays      = 7
	dateLayout        = "2006-01-02"
)

type enrollmentRepo interface {
	AllEnrollments(ctx context.Context) ([]models.Enrollment, error)
}

type courseRepo interface {
	Courses(ctx context.Context) ([]models.Course, error)
}

type userRepo interface {
	Users(ctx context.Context) ([]models.User, error)
}

type ReportService struct {
	enrollments enrollmentRepo
	courses     courseRepo
	users       userRepo
}

func NewReportService(e enrollmentRepo, c courseRepo, u userRepo) *ReportService {
	return &ReportService{enrollments: e, courses: c, users: u}
}

// Stats counts users by role and sums revenue from the price snapshot taken
// at enrollment. A user holding both roles is counted under each.
func (s *ReportService) Stats(ctx context.Context) (*models.Stats, error) {
	users, err := s.users.Users(ctx)
	if err != nil {
		return nil, err
	}
	courses, err := s.courses.Courses(ctx)
	if err != nil {
		return nil, err
	}
	enrollments, err := s.enrollments.AllEnrollments(ctx)
	if err != nil {
		return nil, err
	}

	stats := &models.Stats{
		TotalUsers:       len(users),
		TotalCourses:     len(courses),
		TotalEnrollments: len(enrollments),
		TotalRevenue:     revenue(enrollments),
	}
	for _, u := range users {
		if slices.Contains(u.Roles, models.StudentRole) {
			stats.Students++
		}
		if slices.Contains(u.Roles, models.AdminRole) {
			stats.Admins++
		}
	}
	stats.RecentEnrollments = recent(enrollments, RecentEnrollments)
	stats.PopularCourses = popular(courses, enrollments, PopularCourses)
	return stats, nil
}

// Activity counts enrollments per UTC calendar day and returns the most recent
// days that saw any, newest first.
func (s *ReportService) Activity(ctx context.Context) ([]models.ActivityDay, error) {
	enrollments, err := s.enrollments.AllEnrollments(ctx)
	if err != nil {
		return nil, err
	}

	byDate := make(map[string]int)
	for _, e := range enrollments {
		byDate[e.EnrolledAt.UTC().Format(dateLayout)]++
	}
	days := make([]models.ActivityDay, 0, len(byDate))
	for date, count := range byDate {
		days = append(days, models.ActivityDay{Date: date, Count: count})
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Date > days[j].Date })
	if len(days) > ActivityDays {
		days = days[:ActivityDays]
	}
	return days, nil
}

func revenue(enrollments []models.Enrollment) decimal.Decimal {
	if len(enrollments) == 0 {
		return decimal.Zero
	}
	prices := make([]decimal.Decimal, len(enrollments))
	for i, e := range enrollments {
		prices[i] = e.CoursePrice
	}
	return decimal.Sum(prices[0], prices[1:]...)
}

func recent(enrollments []models.Enrollment, n int) []models.Enrollment {
	out := make([]models.Enrollment, len(enrollments))
	for i, e := range enrollments {
		out[i] = e.Clone()
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].EnrolledAt.Equal(out[j].EnrolledAt) {
			return out[i].EnrolledAt.After(out[j].EnrolledAt)
		}
		return out[i].ID < out[j].ID
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

// popular ranks courses by student count, ties by id. Revenue is what the
// course's enrollments actually paid.
func popular(courses []models.Course, enrollments []models.Enrollment, n int) []models.PopularCourse {
	paid := make(map[string][]models.Enrollment)
	for _, e := range enrollments {
		paid[e.CourseID] = append(paid[e.CourseID], e)
	}

	out := make([]models.PopularCourse, 0, len(courses))
	for _, c := range courses {
		out = append(out, models.PopularCourse{
			ID:       c.ID,
			Title:    c.Title,
			Students: c.StudentCount,
			Revenue:  revenue(paid[c.ID]),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Students != out[j].Students {
			return out[i].Students > out[j].Students
		}
		return out[i].ID < out[j].ID
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}
