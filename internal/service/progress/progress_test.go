package progress

import (
	"errors"
	"testing"

	"EliteRegistry/internal/app_errors"
	"EliteRegistry/internal/models"
)

func courseWithLessons(ids ...string) models.Course {
	lessons := make([]models.Lesson, 0, len(ids))
	for _, id := range ids {
		lessons = append(lessons, models.Lesson{ID: id, Type: models.LessonTypeVideo})
	}
	return models.Course{ID: "c1", Modules: []models.Module{{ID: "m1", Lessons: lessons}}}
}

func TestComputeSteps(t *testing.T) {
	course := courseWithLessons("L1", "L2", "L3", "L4")
	tests := []struct {
		name      string
		completed []string
		percent   int
		done      bool
	}{
		{name: "none", completed: nil, percent: 0},
		{name: "one", completed: []string{"L1"}, percent: 25},
		{name: "two", completed: []string{"L1", "L2"}, percent: 50},
		{name: "duplicates counted once", completed: []string{"L1", "L1", "L2"}, percent: 50},
		{name: "all", completed: []string{"L4", "L3", "L2", "L1"}, percent: 100, done: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Compute(course, tt.completed)
			if err != nil {
				t.Fatalf("compute: %v", err)
			}
			if res.Percent != tt.percent {
				t.Fatalf("expected %d, got %d", tt.percent, res.Percent)
			}
			if res.Completed != tt.done {
				t.Fatalf("expected completed %v, got %v", tt.done, res.Completed)
			}
		})
	}
}

func TestComputeIgnoresStaleLessonIDs(t *testing.T) {
	course := courseWithLessons("L1", "L2")
	res, err := Compute(course, []string{"L1", "deleted-lesson"})
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	if res.Matched != 1 || res.Percent != 50 {
		t.Fatalf("expected 1 matched at 50%%, got %d at %d%%", res.Matched, res.Percent)
	}

	res, err = Compute(course, []string{"gone-1", "gone-2"})
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	if res.Percent != 0 || res.Completed {
		t.Fatalf("stale ids must not complete the course, got %+v", res)
	}
}

func TestComputeRoundsHalfUp(t *testing.T) {
	tests := []struct {
		lessons   int
		completed int
		percent   int
	}{
		{lessons: 3, completed: 1, percent: 33},
		{lessons: 3, completed: 2, percent: 67},
		{lessons: 8, completed: 1, percent: 13},
		{lessons: 200, completed: 1, percent: 1},
		{lessons: 7, completed: 6, percent: 86},
	}
	for _, tt := range tests {
		ids := make([]string, tt.lessons)
		for i := range ids {
			ids[i] = string(rune('a'+i%26)) + string(rune('A'+i/26))
		}
		res, err := Compute(courseWithLessons(ids...), ids[:tt.completed])
		if err != nil {
			t.Fatalf("compute: %v", err)
		}
		if res.Percent != tt.percent {
			t.Fatalf("%d/%d: expected %d, got %d", tt.completed, tt.lessons, tt.percent, res.Percent)
		}
	}
}

func TestComputeEmptyCourse(t *testing.T) {
	tests := []struct {
		name   string
		course models.Course
	}{
		{name: "no modules", course: models.Course{ID: "c"}},
		{name: "empty modules", course: models.Course{ID: "c", Modules: []models.Module{{ID: "m1"}, {ID: "m2"}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compute(tt.course, []string{"x"})
			if !errors.Is(err, app_errors.ErrIndeterminateProgress) {
				t.Fatalf("expected ErrIndeterminateProgress, got %v", err)
			}
		})
	}
}

func TestCompletedIffHundredOverAllSubsets(t *testing.T) {
	universe := []string{"a", "b", "c", "d", "e"}
	course := models.Course{ID: "c", Modules: []models.Module{
		{ID: "m1", Lessons: []models.Lesson{{ID: "a"}, {ID: "b"}}},
		{ID: "m2", Lessons: []models.Lesson{{ID: "c"}, {ID: "d"}, {ID: "e"}}},
	}}

	for mask := 0; mask < 1<<len(universe); mask++ {
		var subset []string
		for i, id := range universe {
			if mask&(1<<i) != 0 {
				subset = append(subset, id)
			}
		}
		subset = append(subset, "stale")
		res, err := Compute(course, subset)
		if err != nil {
			t.Fatalf("compute: %v", err)
		}
		if res.Completed != (res.Percent == 100) {
			t.Fatalf("subset %v: completed=%v percent=%d", subset, res.Completed, res.Percent)
		}
		if res.Completed != (len(subset)-1 == len(universe)) {
			t.Fatalf("subset %v: unexpected completed=%v", subset, res.Completed)
		}
	}
}

func TestModuleBreakdown(t *testing.T) {
	course := models.Course{ID: "c", Modules: []models.Module{
		{ID: "m1", Lessons: []models.Lesson{{ID: "a"}, {ID: "b"}}},
		{ID: "m2", Lessons: []models.Lesson{{ID: "c"}}},
		{ID: "m3"},
	}}

	got := ModuleBreakdown(course, []string{"a", "c"})
	if len(got) != 3 {
		t.Fatalf("expected 3 modules, got %d", len(got))
	}
	if got[0].Percent != 50 || got[0].Completed {
		t.Fatalf("module m1: expected 50%% incomplete, got %+v", got[0])
	}
	if got[1].Percent != 100 || !got[1].Completed {
		t.Fatalf("module m2: expected complete, got %+v", got[1])
	}
	if got[2].Total != 0 || !got[2].Completed {
		t.Fatalf("empty module should be complete, got %+v", got[2])
	}
}
