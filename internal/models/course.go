package models

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

const (
	LessonTypeVideo   = "video"
	LessonTypeReading = "reading"
	LessonTypeQuiz    = "quiz"
)

type Course struct {
	ID           string          `json:"id" validate:"required"`
	Title        string          `json:"title" validate:"required"`
	Description  string          `json:"description"`
	Instructor   string          `json:"instructor"`
	Price        decimal.Decimal `json:"price"`
	StudentCount int             `json:"studentCount" validate:"gte=0"`
	Modules      []Module        `json:"modules" validate:"dive"`
}

type Module struct {
	ID      string   `json:"id" validate:"required"`
	Title   string   `json:"title"`
	Lessons []Lesson `json:"lessons" validate:"dive"`
}

// UnmarshalJSON also accepts a bare lesson count in place of the lesson list,
// the shape of older catalog records. Such a module has no addressable lessons
// and contributes nothing to progress.
func (m *Module) UnmarshalJSON(data []byte) error {
	type plain Module
	var raw struct {
		plain
		Lessons json.RawMessage `json:"lessons"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*m = Module(raw.plain)

	lessons := bytes.TrimSpace(raw.Lessons)
	switch {
	case len(lessons) == 0 || bytes.Equal(lessons, []byte("null")):
		m.Lessons = nil
	case lessons[0] == '[':
		return json.Unmarshal(lessons, &m.Lessons)
	default:
		var count json.Number
		if err := json.Unmarshal(lessons, &count); err != nil {
			return fmt.Errorf("module %q: lessons must be a list or a count: %w", m.ID, err)
		}
		if _, err := count.Int64(); err != nil {
			return fmt.Errorf("module %q: lesson count %q is not an integer", m.ID, count)
		}
		m.Lessons = nil
	}
	return nil
}

type Lesson struct {
	ID        string     `json:"id" validate:"required"`
	Title     string     `json:"title"`
	Type      string     `json:"type" validate:"required,oneof=video reading quiz"`
	Duration  string     `json:"duration,omitempty"`
	Questions []Question `json:"questions,omitempty" validate:"dive"`
}

type Question struct {
	ID                 string   `json:"id" validate:"required"`
	Prompt             string   `json:"prompt"`
	Options            []string `json:"options" validate:"min=2"`
	CorrectOptionIndex int      `json:"correctOptionIndex" validate:"gte=0"`
}

// LessonIDs flattens the course topology in module order.
func (c *Course) LessonIDs() []string {
	var ids []string
	for _, m := range c.Modules {
		for _, l := range m.Lessons {
			ids = append(ids, l.ID)
		}
	}
	return ids
}

func (c *Course) Lesson(id string) (Lesson, bool) {
	for _, m := range c.Modules {
		for _, l := range m.Lessons {
			if l.ID == id {
				return l, true
			}
		}
	}
	return Lesson{}, false
}

// Clone deep-copies the topology so stored courses are never aliased.
func (c Course) Clone() Course {
	modules := make([]Module, len(c.Modules))
	for i, m := range c.Modules {
		lessons := make([]Lesson, len(m.Lessons))
		for j, l := range m.Lessons {
			qs := make([]Question, len(l.Questions))
			for k, q := range l.Questions {
				q.Options = append([]string(nil), q.Options...)
				qs[k] = q
			}
			if l.Questions == nil {
				qs = nil
			}
			l.Questions = qs
			lessons[j] = l
		}
		m.Lessons = lessons
		modules[i] = m
	}
	c.Modules = modules
	return c
}
