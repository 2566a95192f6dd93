package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"EliteRegistry/internal/app_errors"
	"EliteRegistry/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

func TestCourseCopiesAreIsolated(t *testing.T) {
	s := New()
	ctx := context.Background()
	course := models.Course{ID: "c1", Modules: []models.Module{{ID: "m1", Lessons: []models.Lesson{{ID: "l1"}}}}}
	if err := s.UpsertCourse(ctx, course); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	course.Modules[0].Lessons[0].ID = "mutated"

	got, err := s.CourseByID(ctx, "c1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Modules[0].Lessons[0].ID != "l1" {
		t.Fatalf("stored course aliased caller memory")
	}
	got.Modules[0].Lessons[0].ID = "mutated"
	again, _ := s.CourseByID(ctx, "c1")
	if again.Modules[0].Lessons[0].ID != "l1" {
		t.Fatalf("returned course aliased store memory")
	}
}

func TestCourseLifecycle(t *testing.T) {
	s := New()
	ctx := context.Background()
	if err := s.IncrementStudentCount(ctx, "c1"); !errors.Is(err, app_errors.ErrCourseNotFound) {
		t.Fatalf("increment missing: %v", err)
	}
	if err := s.UpsertCourse(ctx, models.Course{ID: "c1"}); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	for i := 0; i < 3; i++ {
		if err := s.IncrementStudentCount(ctx, "c1"); err != nil {
			t.Fatalf("increment: %v", err)
		}
	}
	c, _ := s.CourseByID(ctx, "c1")
	if c.StudentCount != 3 {
		t.Fatalf("studentCount = %d", c.StudentCount)
	}
	if err := s.DeleteCourse(ctx, "c1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := s.CourseByID(ctx, "c1"); !errors.Is(err, app_errors.ErrCourseNotFound) {
		t.Fatalf("get deleted: %v", err)
	}
}

func TestUpsertKeepsStudentCount(t *testing.T) {
	s := New()
	ctx := context.Background()
	if err := s.UpsertCourse(ctx, models.Course{ID: "c1", Title: "Go", StudentCount: 5}); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if err := s.IncrementStudentCount(ctx, "c1"); err != nil {
		t.Fatalf("increment: %v", err)
	}
	// an edit built from a stale read must not roll the counter back
	if err := s.UpsertCourse(ctx, models.Course{ID: "c1", Title: "Go 2", StudentCount: 0}); err != nil {
		t.Fatalf("upsert edit: %v", err)
	}
	c, _ := s.CourseByID(ctx, "c1")
	if c.Title != "Go 2" || c.StudentCount != 6 {
		t.Fatalf("course = %q/%d, want Go 2/6", c.Title, c.StudentCount)
	}
}

func TestEnrollmentKeyedWrites(t *testing.T) {
	s := New()
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	e := models.Enrollment{ID: "e1", UserID: "u1", CourseID: "c1", EnrolledAt: base}

	if err := s.SaveEnrollment(ctx, e); !errors.Is(err, app_errors.ErrEnrollmentNotFound) {
		t.Fatalf("save before create: %v", err)
	}
	if err := s.CreateEnrollment(ctx, e); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := s.CreateEnrollment(ctx, e); !errors.Is(err, app_errors.ErrAlreadyEnrolled) {
		t.Fatalf("duplicate create: %v", err)
	}
	if err := s.CreateEnrollment(ctx, models.Enrollment{ID: "e2", UserID: "u1", CourseID: "c0", EnrolledAt: base.Add(time.Hour)}); err != nil {
		t.Fatalf("create second: %v", err)
	}
	if err := s.CreateEnrollment(ctx, models.Enrollment{ID: "e3", UserID: "u2", CourseID: "c1", EnrolledAt: base}); err != nil {
		t.Fatalf("create other user: %v", err)
	}

	e.CompletedLessons = []string{"l1"}
	e.Progress = 50
	if err := s.SaveEnrollment(ctx, e); err != nil {
		t.Fatalf("save: %v", err)
	}
	e.CompletedLessons[0] = "mutated"

	got, err := s.Enrollment(ctx, "u1", "c1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Progress != 50 || got.CompletedLessons[0] != "l1" {
		t.Fatalf("got %+v", got)
	}

	list, _ := s.EnrollmentsByUser(ctx, "u1")
	if len(list) != 2 || list[0].ID != "e1" || list[1].ID != "e2" {
		t.Fatalf("by user = %+v", list)
	}
	all, _ := s.AllEnrollments(ctx)
	if len(all) != 3 {
		t.Fatalf("all = %d", len(all))
	}
}

func TestAwardsAreUniquePerUser(t *testing.T) {
	s := New()
	ctx := context.Background()
	a := models.Award{UserID: "u1", AchievementID: "first-step", Points: 100}
	if err := s.AppendAward(ctx, a); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := s.AppendAward(ctx, a); !errors.Is(err, app_errors.ErrAchievementAlreadyEarned) {
		t.Fatalf("duplicate append: %v", err)
	}
	if err := s.AppendAward(ctx, models.Award{UserID: "u2", AchievementID: "first-step"}); err != nil {
		t.Fatalf("other user: %v", err)
	}
	mine, _ := s.AwardsByUser(ctx, "u1")
	all, _ := s.AllAwards(ctx)
	if len(mine) != 1 || len(all) != 2 {
		t.Fatalf("mine=%d all=%d", len(mine), len(all))
	}
}

func TestUsersAndTokens(t *testing.T) {
	s := New()
	ctx := context.Background()
	u, err := s.CreateUser(ctx, models.User{Username: "ada", Roles: []string{models.StudentRole}})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	if u.ID == "" {
		t.Fatal("user id not assigned")
	}
	if _, err := s.CreateUser(ctx, models.User{Username: "ADA"}); !errors.Is(err, app_errors.ErrUserExists) {
		t.Fatalf("duplicate user: %v", err)
	}
	byName, err := s.UserByName(ctx, "ada")
	if err != nil || byName.ID != u.ID {
		t.Fatalf("by name: %v %+v", err, byName)
	}

	token := &jwt.Token{Raw: "raw-token", Claims: jwt.MapClaims{"exp": float64(time.Now().Add(time.Hour).Unix())}}
	if _, err := s.Create(ctx, u.ID, token); err != nil {
		t.Fatalf("create token: %v", err)
	}
	rt, err := s.ByPrimaryKey(ctx, u.ID, token)
	if err != nil {
		t.Fatalf("lookup token: %v", err)
	}
	if rt.HashedToken == "raw-token" {
		t.Fatal("raw token stored")
	}
	if err := s.DeleteUserTokens(ctx, u.ID); err != nil {
		t.Fatalf("delete tokens: %v", err)
	}
	if _, err := s.ByPrimaryKey(ctx, u.ID, token); !errors.Is(err, app_errors.ErrTokenNotFound) {
		t.Fatalf("lookup after delete: %v", err)
	}
}
