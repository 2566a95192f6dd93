package enrollment

import (
	"EliteRegistry/internal/app_errors"
	"EliteRegistry/internal/events"
	"EliteRegistry/internal/models"
	"EliteRegistry/internal/service/progress"
	"EliteRegistry/internal/service/quiz"
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
)

const defaultDisplayName = "Student"

type enrollmentRepo interface {
	Enrollment(ctx context.Context, userID, courseID string) (*models.Enrollment, error)
	CreateEnrollment(ctx context.Context, e models.Enrollment) error
	SaveEnrollment(ctx context.Context, e models.Enrollment) error
	EnrollmentsByUser(ctx context.Context, userID string) ([]models.Enrollment, error)
	AllEnrollments(ctx context.Context) ([]models.Enrollment, error)
}

type courseRepo interface {
	CourseByID(ctx context.Context, id string) (*models.Course, error)
}

type eventPublisher interface {
	Publish(ctx context.Context, ev events.Event)
}

type ToggleResult struct {
	Progress         int      `json:"progress"`
	CompletedLessons []string `json:"completedLessons"`
	Completed        bool     `json:"completed"`
}

type QuizResult struct {
	Score  int           `json:"score"`
	Passed bool          `json:"passed"`
	Toggle *ToggleResult `json:"progress,omitempty"`
}

// EnrollmentService owns the enrollment lifecycle: creation, lesson
// completion, progress recomputation and quiz-gated advancement.
//
// Mutations on one (user, course) pair are serialized in-process; the
// repository write is the unit of atomicity and the last write wins.
type EnrollmentService struct {
	enrollmentRepo enrollmentRepo
	courseRepo     courseRepo
	events         eventPublisher
	locks          *keyLock
	now            func() time.Time
	newID          func() string
}

type Option func(*EnrollmentService)

func WithClock(now func() time.Time) Option {
	return func(s *EnrollmentService) { s.now = now }
}

func WithIDGenerator(fn func() string) Option {
	return func(s *EnrollmentService) { s.newID = fn }
}

func NewEnrollmentService(e enrollmentRepo, c courseRepo, p eventPublisher, opts ...Option) *EnrollmentService {
	s := &EnrollmentService{
		enrollmentRepo: e,
		courseRepo:     c,
		events:         p,
		locks:          newKeyLock(),
		now:            func() time.Time { return time.Now().UTC() },
		newID:          uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *EnrollmentService) Enroll(ctx context.Context, userID, courseID, displayName string) (*models.Enrollment, error) {
	if strings.TrimSpace(userID) == "" || strings.TrimSpace(courseID) == "" {
		return nil, fmt.Errorf("%w: user id and course id are required", app_errors.ErrInvalidInput)
	}
	course, err := s.courseRepo.CourseByID(ctx, courseID)
	if err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(enrollmentKey(userID, courseID))
	defer unlock()

	_, err = s.enrollmentRepo.Enrollment(ctx, userID, courseID)
	switch {
	case err == nil:
		return nil, app_errors.ErrAlreadyEnrolled
	case !errors.Is(err, app_errors.ErrEnrollmentNotFound):
		return nil, fmt.Errorf("load enrollment: %w", err)
	}

	name := strings.TrimSpace(displayName)
	if name == "" {
		name = defaultDisplayName
	}
	now := s.now()
	e := models.Enrollment{
		ID:               s.newID(),
		UserID:           userID,
		UserName:         name,
		CourseID:         courseID,
		CourseTitle:      course.Title,
		CoursePrice:      course.Price,
		EnrolledAt:       now,
		LastAccessed:     now,
		CompletedLessons: []string{},
	}

	if err := s.enrollmentRepo.CreateEnrollment(ctx, e); err != nil {
		if errors.Is(err, app_errors.ErrAlreadyEnrolled) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", app_errors.ErrRepositoryWrite, err)
	}

	s.publish(ctx, events.Event{Kind: events.EnrollmentCreated, Enrollment: e.Clone()})
	return &e, nil
}

func (s *EnrollmentService) ToggleLesson(ctx context.Context, userID, courseID, lessonID string, isCompleted bool) (*ToggleResult, error) {
	if strings.TrimSpace(lessonID) == "" {
		return nil, fmt.Errorf("%w: lesson id is required", app_errors.ErrInvalidInput)
	}
	unlock := s.locks.Lock(enrollmentKey(userID, courseID))
	defer unlock()

	res, _, err := s.toggle(ctx, userID, courseID, lessonID, isCompleted)
	return res, err
}

// toggle must be called with the pair's lock held. It returns the record as
// saved.
func (s *EnrollmentService) toggle(ctx context.Context, userID, courseID, lessonID string, isCompleted bool) (*ToggleResult, models.Enrollment, error) {
	current, err := s.enrollmentRepo.Enrollment(ctx, userID, courseID)
	if err != nil {
		return nil, models.Enrollment{}, err
	}
	course, err := s.courseRepo.CourseByID(ctx, courseID)
	if err != nil {
		return nil, models.Enrollment{}, err
	}

	updated := current.Clone()
	updated.MarkLesson(lessonID, isCompleted)

	res, err := progress.Compute(*course, updated.CompletedLessons)
	if err != nil {
		return nil, models.Enrollment{}, err
	}

	updated.Progress = res.Percent
	updated.Completed = res.Completed
	updated.LastAccessed = s.accessTime(updated.EnrolledAt)
	becameComplete := updated.Completed && !current.Completed
	switch {
	case becameComplete:
		at := updated.LastAccessed
		updated.CompletedAt = &at
	case !updated.Completed:
		updated.CompletedAt = nil
	}

	if err := s.enrollmentRepo.SaveEnrollment(ctx, updated); err != nil {
		return nil, models.Enrollment{}, fmt.Errorf("%w: %w", app_errors.ErrRepositoryWrite, err)
	}

	if becameComplete {
		s.publish(ctx, events.Event{Kind: events.CourseCompleted, Enrollment: updated.Clone()})
	}

	return &ToggleResult{
		Progress:         updated.Progress,
		CompletedLessons: slices.Clone(updated.CompletedLessons),
		Completed:        updated.Completed,
	}, updated, nil
}

// SubmitQuiz grades a quiz lesson and marks it complete on a pass. A failing
// attempt never clears an earlier completion of the same lesson. The
// QuizGraded event carries the enrollment as it stands after grading.
func (s *EnrollmentService) SubmitQuiz(ctx context.Context, userID, courseID, lessonID string, answers map[string]int) (*QuizResult, error) {
	unlock := s.locks.Lock(enrollmentKey(userID, courseID))
	defer unlock()

	e, err := s.enrollmentRepo.Enrollment(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}
	course, err := s.courseRepo.CourseByID(ctx, courseID)
	if err != nil {
		return nil, err
	}
	lesson, ok := course.Lesson(lessonID)
	if !ok {
		return nil, app_errors.ErrLessonNotFound
	}
	if lesson.Type != models.LessonTypeQuiz {
		return nil, app_errors.ErrNotQuizLesson
	}

	score, err := quiz.Grade(lesson.Questions, answers)
	if err != nil {
		return nil, err
	}
	result := &QuizResult{Score: score, Passed: quiz.Passed(score)}
	graded := e.Clone()

	if result.Passed {
		toggled, saved, err := s.toggle(ctx, userID, courseID, lessonID, true)
		if err != nil {
			return nil, err
		}
		result.Toggle = toggled
		graded = saved.Clone()
	}

	s.publish(ctx, events.Event{Kind: events.QuizGraded, Enrollment: graded, LessonID: lessonID, Score: score})
	return result, nil
}

func (s *EnrollmentService) Enrollment(ctx context.Context, userID, courseID string) (*models.Enrollment, error) {
	return s.enrollmentRepo.Enrollment(ctx, userID, courseID)
}

// Enrollments lists a user's enrollments joined with the current course
// record. Course is nil for courses deleted since enrollment.
func (s *EnrollmentService) Enrollments(ctx context.Context, userID string) ([]models.EnrollmentWithCourse, error) {
	list, err := s.enrollmentRepo.EnrollmentsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := make([]models.EnrollmentWithCourse, 0, len(list))
	for _, e := range list {
		course, err := s.courseRepo.CourseByID(ctx, e.CourseID)
		if err != nil && !errors.Is(err, app_errors.ErrCourseNotFound) {
			return nil, err
		}
		out = append(out, models.EnrollmentWithCourse{Enrollment: e, Course: course})
	}
	return out, nil
}

func (s *EnrollmentService) Detail(ctx context.Context, userID, courseID string) (*models.EnrollmentDetail, error) {
	e, err := s.enrollmentRepo.Enrollment(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}
	course, err := s.courseRepo.CourseByID(ctx, courseID)
	if err != nil {
		return nil, err
	}
	return &models.EnrollmentDetail{
		Enrollment: *e,
		Modules:    progress.ModuleBreakdown(*course, e.CompletedLessons),
	}, nil
}

func (s *EnrollmentService) AllEnrollments(ctx context.Context) ([]models.Enrollment, error) {
	return s.enrollmentRepo.AllEnrollments(ctx)
}

func (s *EnrollmentService) accessTime(enrolledAt time.Time) time.Time {
	now := s.now()
	if now.Before(enrolledAt) {
		return enrolledAt
	}
	return now
}

func (s *EnrollmentService) publish(ctx context.Context, ev events.Event) {
	if s.events == nil {
		return
	}
	s.events.Publish(ctx, ev)
}
