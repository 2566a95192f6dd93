// Package memory is an in-process storage driver. Data lives for the life of
// the process.
package memory

import (
	"EliteRegistry/internal/app_errors"
	"EliteRegistry/internal/models"
	"EliteRegistry/internal/storage"
	"context"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type Storage struct {
	mu           sync.RWMutex
	courses      map[string]models.Course
	enrollments  map[string]models.Enrollment
	awards       map[string]models.Award
	users        map[string]models.User
	refreshToken map[string]models.RefreshToken
}

func New() *Storage {
	return &Storage{
		courses:      make(map[string]models.Course),
		enrollments:  make(map[string]models.Enrollment),
		awards:       make(map[string]models.Award),
		users:        make(map[string]models.User),
		refreshToken: make(map[string]models.RefreshToken),
	}
}

func pairKey(a, b string) string {
	return a + "\x00" + b
}

func (s *Storage) CourseByID(_ context.Context, id string) (*models.Course, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.courses[id]
	if !ok {
		return nil, app_errors.ErrCourseNotFound
	}
	out := c.Clone()
	return &out, nil
}

func (s *Storage) Courses(_ context.Context) ([]models.Course, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Course, 0, len(s.courses))
	for _, c := range s.courses {
		out = append(out, c.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// UpsertCourse keeps the stored student count when the course already exists.
func (s *Storage) UpsertCourse(_ context.Context, course models.Course) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.courses[course.ID]; ok {
		course.StudentCount = existing.StudentCount
	}
	s.courses[course.ID] = course.Clone()
	return nil
}

func (s *Storage) DeleteCourse(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.courses[id]; !ok {
		return app_errors.ErrCourseNotFound
	}
	delete(s.courses, id)
	return nil
}

func (s *Storage) IncrementStudentCount(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.courses[id]
	if !ok {
		return app_errors.ErrCourseNotFound
	}
	c.StudentCount++
	s.courses[id] = c
	return nil
}

func (s *Storage) Enrollment(_ context.Context, userID, courseID string) (*models.Enrollment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.enrollments[pairKey(userID, courseID)]
	if !ok {
		return nil, app_errors.ErrEnrollmentNotFound
	}
	out := e.Clone()
	return &out, nil
}

func (s *Storage) CreateEnrollment(_ context.Context, e models.Enrollment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := pairKey(e.UserID, e.CourseID)
	if _, ok := s.enrollments[key]; ok {
		return app_errors.ErrAlreadyEnrolled
	}
	s.enrollments[key] = e.Clone()
	return nil
}

func (s *Storage) SaveEnrollment(_ context.Context, e models.Enrollment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := pairKey(e.UserID, e.CourseID)
	if _, ok := s.enrollments[key]; !ok {
		return app_errors.ErrEnrollmentNotFound
	}
	s.enrollments[key] = e.Clone()
	return nil
}

func (s *Storage) EnrollmentsByUser(_ context.Context, userID string) ([]models.Enrollment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Enrollment
	for _, e := range s.enrollments {
		if e.UserID == userID {
			out = append(out, e.Clone())
		}
	}
	sortEnrollments(out)
	return out, nil
}

func (s *Storage) AllEnrollments(_ context.Context) ([]models.Enrollment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Enrollment, 0, len(s.enrollments))
	for _, e := range s.enrollments {
		out = append(out, e.Clone())
	}
	sortEnrollments(out)
	return out, nil
}

func sortEnrollments(list []models.Enrollment) {
	sort.Slice(list, func(i, j int) bool {
		if !list[i].EnrolledAt.Equal(list[j].EnrolledAt) {
			return list[i].EnrolledAt.Before(list[j].EnrolledAt)
		}
		return list[i].ID < list[j].ID
	})
}

func (s *Storage) AppendAward(_ context.Context, a models.Award) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := pairKey(a.UserID, a.AchievementID)
	if _, ok := s.awards[key]; ok {
		return app_errors.ErrAchievementAlreadyEarned
	}
	s.awards[key] = a
	return nil
}

func (s *Storage) AwardsByUser(_ context.Context, userID string) ([]models.Award, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Award
	for _, a := range s.awards {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	sortAwards(out)
	return out, nil
}

func (s *Storage) AllAwards(_ context.Context) ([]models.Award, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Award, 0, len(s.awards))
	for _, a := range s.awards {
		out = append(out, a)
	}
	sortAwards(out)
	return out, nil
}

func sortAwards(list []models.Award) {
	sort.Slice(list, func(i, j int) bool {
		if !list[i].EarnedAt.Equal(list[j].EarnedAt) {
			return list[i].EarnedAt.Before(list[j].EarnedAt)
		}
		return pairKey(list[i].UserID, list[i].AchievementID) < pairKey(list[j].UserID, list[j].AchievementID)
	})
}

func (s *Storage) CreateUser(_ context.Context, user models.User) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if strings.EqualFold(u.Username, user.Username) {
			return nil, app_errors.ErrUserExists
		}
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	user.Roles = slices.Clone(user.Roles)
	s.users[user.ID] = user
	return &user, nil
}

func (s *Storage) UserByID(_ context.Context, id string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, app_errors.ErrUserNotFound
	}
	u.Roles = slices.Clone(u.Roles)
	return &u, nil
}

func (s *Storage) Users(_ context.Context) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.User, 0, len(s.users))
	for _, u := range s.users {
		u.Roles = slices.Clone(u.Roles)
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Storage) UserByName(_ context.Context, name string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if strings.EqualFold(u.Username, name) {
			u.Roles = slices.Clone(u.Roles)
			return &u, nil
		}
	}
	return nil, app_errors.ErrUserNotFound
}

func (s *Storage) Create(_ context.Context, userID string, token *jwt.Token) (*models.RefreshToken, error) {
	expiresAt, err := token.Claims.GetExpirationTime()
	if err != nil {
		return nil, err
	}
	rt := models.RefreshToken{
		UserID:      userID,
		HashedToken: storage.HashToken(token.Raw),
		CreatedAt:   time.Now().UTC(),
	}
	if expiresAt != nil {
		rt.ExpiresAt = expiresAt.Time
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.refreshToken[pairKey(userID, rt.HashedToken)] = rt
	return &rt, nil
}

func (s *Storage) ByPrimaryKey(_ context.Context, userID string, token *jwt.Token) (*models.RefreshToken, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rt, ok := s.refreshToken[pairKey(userID, storage.HashToken(token.Raw))]
	if !ok {
		return nil, app_errors.ErrTokenNotFound
	}
	return &rt, nil
}

func (s *Storage) DeleteUserTokens(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, rt := range s.refreshToken {
		if rt.UserID == userID {
			delete(s.refreshToken, k)
		}
	}
	return nil
}
