package quiz

import (
	"EliteRegistry/internal/app_errors"
	"EliteRegistry/internal/models"
)

// PassThreshold is the minimum score that unlocks completion of a quiz lesson.
const PassThreshold = 80

// Grade scores answers (question id -> chosen option index) against the
// answer key. Unanswered and out-of-range answers count as incorrect.
func Grade(questions []models.Question, answers map[string]int) (int, error) {
	if len(questions) == 0 {
		return 0, app_errors.ErrEmptyQuiz
	}

	correct := 0
	for _, q := range questions {
		answer, ok := answers[q.ID]
		if !ok || answer < 0 || answer >= len(q.Options) {
			continue
		}
		if answer == q.CorrectOptionIndex {
			correct++
		}
	}

	total := len(questions)
	return (200*correct + total) / (2 * total), nil
}

func Passed(score int) bool {
	return score >= PassThreshold
}
