package events

import (
	"context"
	"errors"
	"testing"

	"EliteRegistry/internal/models"
	"EliteRegistry/pkg/logger"
)

func TestPublishDeliversInOrderAndSwallowsErrors(t *testing.T) {
	bus := NewBus(logger.NewDiscard())
	var calls []string

	bus.Subscribe(EnrollmentCreated, "first", func(_ context.Context, ev Event) error {
		calls = append(calls, "first:"+ev.Enrollment.CourseID)
		return errors.New("counter unavailable")
	})
	bus.Subscribe(EnrollmentCreated, "second", func(_ context.Context, ev Event) error {
		calls = append(calls, "second:"+ev.Enrollment.CourseID)
		return nil
	})
	bus.Subscribe(CourseCompleted, "other", func(context.Context, Event) error {
		calls = append(calls, "other")
		return nil
	})

	bus.Publish(context.Background(), Event{Kind: EnrollmentCreated, Enrollment: models.Enrollment{CourseID: "c1"}})

	if len(calls) != 2 || calls[0] != "first:c1" || calls[1] != "second:c1" {
		t.Fatalf("unexpected calls %v", calls)
	}
}

func TestPublishWithoutSubscribers(t *testing.T) {
	bus := NewBus(logger.NewDiscard())
	bus.Publish(context.Background(), Event{Kind: QuizGraded})
}
