package catalog

import (
	"context"
	"errors"
	"testing"

	"EliteRegistry/internal/app_errors"
	"EliteRegistry/internal/events"
	"EliteRegistry/internal/models"
	"EliteRegistry/internal/storage/memory"
	"EliteRegistry/pkg/logger"

	"github.com/shopspring/decimal"
)

func validCourse(id string) models.Course {
	return models.Course{
		ID:          id,
		Title:       "Go Concurrency",
		Description: "Channels and goroutines",
		Instructor:  "Rob",
		Price:       decimal.RequireFromString("49.99"),
		Modules: []models.Module{{
			ID:    "m1",
			Title: "Basics",
			Lessons: []models.Lesson{
				{ID: "l1", Title: "Intro", Type: models.LessonTypeVideo},
				{ID: "l2", Title: "Check", Type: models.LessonTypeQuiz, Questions: []models.Question{
					{ID: "q1", Prompt: "?", Options: []string{"a", "b"}, CorrectOptionIndex: 1},
				}},
			},
		}},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *models.Course)
		ok     bool
	}{
		{name: "valid", mutate: func(c *models.Course) {}, ok: true},
		{name: "missing title", mutate: func(c *models.Course) { c.Title = "" }},
		{name: "negative price", mutate: func(c *models.Course) { c.Price = decimal.NewFromInt(-1) }},
		{name: "unknown lesson type", mutate: func(c *models.Course) { c.Modules[0].Lessons[0].Type = "podcast" }},
		{name: "duplicate lesson id", mutate: func(c *models.Course) { c.Modules[0].Lessons[1].ID = "l1" }},
		{name: "quiz without questions", mutate: func(c *models.Course) { c.Modules[0].Lessons[1].Questions = nil }},
		{name: "single option", mutate: func(c *models.Course) {
			c.Modules[0].Lessons[1].Questions[0].Options = []string{"a"}
			c.Modules[0].Lessons[1].Questions[0].CorrectOptionIndex = 0
		}},
		{name: "correct index out of range", mutate: func(c *models.Course) {
			c.Modules[0].Lessons[1].Questions[0].CorrectOptionIndex = 2
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validCourse("c1")
			tt.mutate(&c)
			err := Validate(c)
			if tt.ok && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !tt.ok && !errors.Is(err, app_errors.ErrInvalidCourse) {
				t.Fatalf("err = %v, want ErrInvalidCourse", err)
			}
		})
	}
}

func TestUpsertPreservesStudentCount(t *testing.T) {
	store := memory.New()
	svc := NewCatalogService(logger.NewDiscard(), store, nil)
	ctx := context.Background()

	if _, err := svc.UpsertCourse(ctx, validCourse("c1")); err != nil {
		t.Fatalf("create: %v", err)
	}
	ev := events.Event{Kind: events.EnrollmentCreated, Enrollment: models.Enrollment{CourseID: "c1"}}
	if err := svc.StudentCounter(ctx, ev); err != nil {
		t.Fatalf("counter: %v", err)
	}

	updated := validCourse("c1")
	updated.Title = "Go Concurrency, 2nd ed."
	updated.StudentCount = 99
	got, err := svc.UpsertCourse(ctx, updated)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.StudentCount != 1 {
		t.Fatalf("studentCount = %d, want 1", got.StudentCount)
	}
	stored, _ := svc.Course(ctx, "c1")
	if stored.Title != updated.Title || stored.StudentCount != 1 {
		t.Fatalf("stored = %+v", stored)
	}
}

func TestStudentCounterMissingCourse(t *testing.T) {
	svc := NewCatalogService(logger.NewDiscard(), memory.New(), nil)
	err := svc.StudentCounter(context.Background(), events.Event{Enrollment: models.Enrollment{CourseID: "gone"}})
	if !errors.Is(err, app_errors.ErrCourseNotFound) {
		t.Fatalf("err = %v", err)
	}
}

type fakeSearch struct {
	ids     []string
	fail    error
	indexed []string
	deleted []string
}

func (f *fakeSearch) Index(_ context.Context, c models.Course) error {
	f.indexed = append(f.indexed, c.ID)
	return nil
}

func (f *fakeSearch) Delete(_ context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeSearch) Search(context.Context, string, int) ([]string, error) {
	return f.ids, f.fail
}

func (f *fakeSearch) Count(context.Context, string) (int, error) {
	return len(f.ids), f.fail
}

func TestSearch(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	rust := validCourse("c2")
	rust.Title = "Rust Ownership"
	rust.Description = "Borrowing"
	rust.Instructor = "Ferris"
	for _, c := range []models.Course{validCourse("c1"), rust} {
		if err := store.UpsertCourse(ctx, c); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	t.Run("substring fallback", func(t *testing.T) {
		svc := NewCatalogService(logger.NewDiscard(), store, nil)
		res, err := svc.Search(ctx, "GOROUTINES", 0)
		if err != nil {
			t.Fatalf("search: %v", err)
		}
		if res.Total != 1 || res.Courses[0].ID != "c1" {
			t.Fatalf("result = %+v", res)
		}
	})

	t.Run("empty query lists all", func(t *testing.T) {
		svc := NewCatalogService(logger.NewDiscard(), store, nil)
		res, err := svc.Search(ctx, " ", 1)
		if err != nil {
			t.Fatalf("search: %v", err)
		}
		if res.Total != 2 || len(res.Courses) != 1 {
			t.Fatalf("result = %+v", res)
		}
	})

	t.Run("index hits skip missing courses", func(t *testing.T) {
		svc := NewCatalogService(logger.NewDiscard(), store, &fakeSearch{ids: []string{"c2", "deleted", "c1"}})
		res, err := svc.Search(ctx, "anything", 10)
		if err != nil {
			t.Fatalf("search: %v", err)
		}
		if len(res.Courses) != 2 || res.Courses[0].ID != "c2" || res.Courses[1].ID != "c1" {
			t.Fatalf("result = %+v", res)
		}
	})

	t.Run("index failure falls back", func(t *testing.T) {
		svc := NewCatalogService(logger.NewDiscard(), store, &fakeSearch{fail: errors.New("cluster down")})
		res, err := svc.Search(ctx, "ferris", 10)
		if err != nil {
			t.Fatalf("search: %v", err)
		}
		if len(res.Courses) != 1 || res.Courses[0].ID != "c2" {
			t.Fatalf("result = %+v", res)
		}
	})
}

func TestUpsertAndDeleteMaintainIndex(t *testing.T) {
	ctx := context.Background()
	search := &fakeSearch{}
	svc := NewCatalogService(logger.NewDiscard(), memory.New(), search)

	if _, err := svc.UpsertCourse(ctx, validCourse("c1")); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if err := svc.DeleteCourse(ctx, "c1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := svc.DeleteCourse(ctx, "c1"); !errors.Is(err, app_errors.ErrCourseNotFound) {
		t.Fatalf("second delete: %v", err)
	}
	if len(search.indexed) != 1 || len(search.deleted) != 1 {
		t.Fatalf("indexed=%v deleted=%v", search.indexed, search.deleted)
	}
}
