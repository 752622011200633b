// Package events defines catalog change-event payloads and their publisher.
package events

import (
	"context"
	"time"
)

// Event types emitted by the catalog service.
const (
	TypeExerciseCreated   = "exercise.created"
	TypeExerciseUpdated   = "exercise.updated"
	TypeExerciseDeleted   = "exercise.deleted"
	TypeExerciseFavorited = "exercise.favorite_toggled"
)

// ExerciseChanged is emitted whenever a catalog record is mutated.
type ExerciseChanged struct {
	ExerciseID  int64     `json:"exercise_id"`
	Name        string    `json:"name"`
	IsFavorited bool      `json:"is_favorited,omitempty"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// Publisher emits change events to downstream consumers.
type Publisher interface {
	Publish(ctx context.Context, eventType string, payload ExerciseChanged) error
}

// NoopPublisher discards events. Used when no broker is configured.
type NoopPublisher struct{}

// Publish implements Publisher.
func (NoopPublisher) Publish(ctx context.Context, eventType string, payload ExerciseChanged) error {
	return nil
}
