// Package events dispatches domain events to in-process consumers after the
// originating write has been committed.
package events

import (
	"EliteRegistry/internal/models"
	"EliteRegistry/pkg/logger"
	"context"
	"sync"
)

type Kind string

const (
	EnrollmentCreated Kind = "enrollment.created"
	CourseCompleted   Kind = "course.completed"
	QuizGraded        Kind = "quiz.graded"
)

type Event struct {
	Kind       Kind
	Enrollment models.Enrollment
	LessonID   string
	Score      int
}

type Handler func(ctx context.Context, ev Event) error

// Bus delivers events synchronously in subscription order. Handler errors
// are logged and never reach the publisher.
type Bus struct {
	log      logger.Log
	mu       sync.RWMutex
	handlers map[Kind][]namedHandler
}

type namedHandler struct {
	name string
	fn   Handler
}

func NewBus(l logger.Log) *Bus {
	return &Bus{log: l, handlers: make(map[Kind][]namedHandler)}
}

func (b *Bus) Subscribe(kind Kind, name string, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[kind] = append(b.handlers[kind], namedHandler{name: name, fn: h})
}

func (b *Bus) Publish(ctx context.Context, ev Event) {
	b.mu.RLock()
	hs := append([]namedHandler(nil), b.handlers[ev.Kind]...)
	b.mu.RUnlock()

	for _, h := range hs {
		if err := h.fn(ctx, ev); err != nil {
			b.log.ErrorErr("event handler failed", err,
				"event", string(ev.Kind),
				"handler", h.name,
				"user_id", ev.Enrollment.UserID,
				"course_id", ev.Enrollment.CourseID,
			)
		}
	}
}
