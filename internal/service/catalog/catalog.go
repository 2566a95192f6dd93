package catalog

import (
	"EliteRegistry/internal/app_errors"
	"EliteRegistry/internal/events"
	"EliteRegistry/internal/models"
	"EliteRegistry/pkg/logger"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

const defaultSearchLimit = 20

var validate = validator.New()

type courseRepo interface {
	CourseByID(ctx context.Context, id string) (*models.Course, error)
	Courses(ctx context.Context) ([]models.Course, error)
	UpsertCourse(ctx context.Context, course models.Course) error
	DeleteCourse(ctx context.Context, id string) error
	IncrementStudentCount(ctx context.Context, id string) error
}

type searchRepo interface {
	Index(ctx context.Context, course models.Course) error
	Delete(ctx context.Context, id string) error
	Search(ctx context.Context, query string, size int) ([]string, error)
	Count(ctx context.Context, query string) (int, error)
}

type SearchResult struct {
	Courses []models.Course `json:"courses"`
	Total   int             `json:"total"`
}

type CatalogService struct {
	log        logger.Log
	courseRepo courseRepo
	searchRepo searchRepo
}

// NewCatalogService builds the catalog. s may be nil; search then falls back
// to matching titles and descriptions in the course store.
func NewCatalogService(log logger.Log, c courseRepo, s searchRepo) *CatalogService {
	return &CatalogService{log: log, courseRepo: c, searchRepo: s}
}

func (s *CatalogService) Course(ctx context.Context, id string) (*models.Course, error) {
	return s.courseRepo.CourseByID(ctx, id)
}

func (s *CatalogService) Courses(ctx context.Context) ([]models.Course, error) {
	return s.courseRepo.Courses(ctx)
}

func (s *CatalogService) Search(ctx context.Context, query string, limit int) (*SearchResult, error) {
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	query = strings.TrimSpace(query)
	if query == "" {
		courses, err := s.courseRepo.Courses(ctx)
		if err != nil {
			return nil, err
		}
		return page(courses, limit), nil
	}

	if s.searchRepo != nil {
		res, err := s.searchIndex(ctx, query, limit)
		if err == nil {
			return res, nil
		}
		s.log.ErrorErr("search: index unavailable, falling back to store scan", err, "query", query)
	}

	courses, err := s.courseRepo.Courses(ctx)
	if err != nil {
		return nil, err
	}
	needle := strings.ToLower(query)
	matched := make([]models.Course, 0)
	for _, c := range courses {
		if strings.Contains(strings.ToLower(c.Title), needle) ||
			strings.Contains(strings.ToLower(c.Description), needle) ||
			strings.Contains(strings.ToLower(c.Instructor), needle) {
			matched = append(matched, c)
		}
	}
	return page(matched, limit), nil
}

func (s *CatalogService) searchIndex(ctx context.Context, query string, limit int) (*SearchResult, error) {
	ids, err := s.searchRepo.Search(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	total, err := s.searchRepo.Count(ctx, query)
	if err != nil {
		return nil, err
	}

	courses := make([]models.Course, 0, len(ids))
	for _, id := range ids {
		course, err := s.courseRepo.CourseByID(ctx, id)
		if errors.Is(err, app_errors.ErrCourseNotFound) {
			s.log.Warn("search: indexed course missing from store", "course_id", id)
			continue
		}
		if err != nil {
			return nil, err
		}
		courses = append(courses, *course)
	}
	return &SearchResult{Courses: courses, Total: total}, nil
}

func page(courses []models.Course, limit int) *SearchResult {
	total := len(courses)
	if len(courses) > limit {
		courses = courses[:limit]
	}
	return &SearchResult{Courses: courses, Total: total}
}

// UpsertCourse stores a validated course. The student counter is owned by the
// enrollment flow: stores keep the existing count inside the write, and a new
// course starts at zero.
func (s *CatalogService) UpsertCourse(ctx context.Context, course models.Course) (*models.Course, error) {
	if err := Validate(course); err != nil {
		return nil, err
	}

	course.StudentCount = 0
	if err := s.courseRepo.UpsertCourse(ctx, course); err != nil {
		return nil, err
	}
	stored, err := s.courseRepo.CourseByID(ctx, course.ID)
	if err != nil {
		return nil, err
	}
	if s.searchRepo != nil {
		if err := s.searchRepo.Index(ctx, *stored); err != nil {
			s.log.ErrorErr("upsert course: failed to index", err, "course_id", course.ID)
		}
	}
	return stored, nil
}

func (s *CatalogService) DeleteCourse(ctx context.Context, id string) error {
	if err := s.courseRepo.DeleteCourse(ctx, id); err != nil {
		return err
	}
	if s.searchRepo != nil {
		if err := s.searchRepo.Delete(ctx, id); err != nil {
			s.log.ErrorErr("delete course: failed to remove from index", err, "course_id", id)
		}
	}
	return nil
}

// StudentCounter bumps the course's student count for each new enrollment.
func (s *CatalogService) StudentCounter(ctx context.Context, ev events.Event) error {
	if err := s.courseRepo.IncrementStudentCount(ctx, ev.Enrollment.CourseID); err != nil {
		return fmt.Errorf("increment student count: %w", err)
	}
	return nil
}

// Validate checks field constraints and the course topology.
func Validate(course models.Course) error {
	if err := validate.Struct(course); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			fields := make([]string, 0, len(ve))
			for _, fe := range ve {
				fields = append(fields, fmt.Sprintf("%s failed %s", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("%w: %s", app_errors.ErrInvalidCourse, strings.Join(fields, "; "))
		}
		return fmt.Errorf("%w: %w", app_errors.ErrInvalidCourse, err)
	}
	if course.Price.IsNegative() {
		return fmt.Errorf("%w: price must not be negative", app_errors.ErrInvalidCourse)
	}

	seen := make(map[string]struct{})
	for _, m := range course.Modules {
		for _, l := range m.Lessons {
			if _, dup := seen[l.ID]; dup {
				return fmt.Errorf("%w: duplicate lesson id %q", app_errors.ErrInvalidCourse, l.ID)
			}
			seen[l.ID] = struct{}{}

			if l.Type != models.LessonTypeQuiz {
				continue
			}
			if len(l.Questions) == 0 {
				return fmt.Errorf("%w: quiz lesson %q has no questions", app_errors.ErrInvalidCourse, l.ID)
			}
			for _, q := range l.Questions {
				if q.CorrectOptionIndex < 0 || q.CorrectOptionIndex >= len(q.Options) {
					return fmt.Errorf("%w: question %q correct option out of range", app_errors.ErrInvalidCourse, q.ID)
				}
			}
		}
	}
	return nil
}
