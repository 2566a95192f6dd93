// Package progress computes course completion from a course's lesson topology
// and a set of completed lesson ids.
package progress

import (
	"EliteRegistry/internal/app_errors"
	"EliteRegistry/internal/models"
)

type Result struct {
	Percent   int
	Completed bool
	Matched   int
	Total     int
}

// Compute returns the completion percentage of course for the given completed
// lesson ids. Ids that are not lessons of the course are ignored, duplicates
// are counted once.
func Compute(course models.Course, completedLessonIDs []string) (Result, error) {
	valid := make(map[string]struct{})
	for _, id := range course.LessonIDs() {
		valid[id] = struct{}{}
	}
	total := len(valid)
	if total == 0 {
		return Result{}, app_errors.ErrIndeterminateProgress
	}

	matched := countMatched(valid, completedLessonIDs)
	percent := percentOf(matched, total)
	return Result{
		Percent:   percent,
		Completed: percent == 100,
		Matched:   matched,
		Total:     total,
	}, nil
}

// ModuleBreakdown reports per-module completion. A module without lessons is
// reported as complete.
func ModuleBreakdown(course models.Course, completedLessonIDs []string) []models.ModuleProgress {
	out := make([]models.ModuleProgress, 0, len(course.Modules))
	for _, m := range course.Modules {
		valid := make(map[string]struct{}, len(m.Lessons))
		for _, l := range m.Lessons {
			valid[l.ID] = struct{}{}
		}
		mp := models.ModuleProgress{
			ModuleID: m.ID,
			Title:    m.Title,
			Total:    len(valid),
			Matched:  countMatched(valid, completedLessonIDs),
			Percent:  100,
		}
		if mp.Total > 0 {
			mp.Percent = percentOf(mp.Matched, mp.Total)
		}
		mp.Completed = mp.Percent == 100
		out = append(out, mp)
	}
	return out
}

func countMatched(valid map[string]struct{}, ids []string) int {
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := valid[id]; ok {
			seen[id] = struct{}{}
		}
	}
	return len(seen)
}

// percentOf rounds 100*part/whole half-up without floating point.
func percentOf(part, whole int) int {
	return (200*part + whole) / (2 * whole)
}
