// Package domain defines the business logic for the exercise catalog service.
package domain

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/jtylerm/PTExerciseApp/internal/events"
	"github.com/jtylerm/PTExerciseApp/internal/observability"
)

var (
	// ErrExerciseNotFound is returned when a record cannot be located.
	ErrExerciseNotFound = errors.New("exercise not found")
	// ErrDuplicateName indicates another record already uses the requested name.
	ErrDuplicateName = errors.New("exercise name already exists")
)

// ExerciseRecord is the catalog entry stored in Postgres.
type ExerciseRecord struct {
	ID           int64      `json:"id"`
	Name         string     `json:"name"`
	Type         string     `json:"type"`
	Muscle       string     `json:"muscle"`
	Equipment    string     `json:"equipment"`
	Difficulty   string     `json:"difficulty"`
	Instructions string     `json:"instructions"`
	IsFavorited  bool       `json:"isFavorited"`
	LastUpdated  *time.Time `json:"lastUpdated"`
	CreatedAt    time.Time  `json:"createdAt"`
}

// Filter narrows a catalog listing. Zero values mean "no constraint".
type Filter struct {
	Search     string
	Type       string
	Muscle     string
	Equipment  string
	Difficulty string
	Favorited  bool
	Limit      int
	Offset     int
}

// ExerciseInput carries the mutable fields for create and update.
type ExerciseInput struct {
	Name         string
	Type         string
	Muscle       string
	Equipment    string
	Difficulty   string
	Instructions string
}

// Validate ensures every required field is present before any store mutation.
func (in ExerciseInput) Validate() error {
	required := []struct {
		field string
		value string
	}{
		{"name", in.Name},
		{"type", in.Type},
		{"muscle", in.Muscle},
		{"equipment", in.Equipment},
		{"difficulty", in.Difficulty},
		{"instructions", in.Instructions},
	}
	for _, item := range required {
		if strings.TrimSpace(item.value) == "" {
			return errors.New(item.field + " is required")
		}
	}
	return nil
}

// Repository exposes persistence behaviour for exercise records.
type Repository interface {
	List(ctx context.Context, filter Filter) ([]ExerciseRecord, error)
	Get(ctx context.Context, id int64) (*ExerciseRecord, error)
	FindByName(ctx context.Context, name string) (*ExerciseRecord, error)
	Create(ctx context.Context, record ExerciseRecord) (ExerciseRecord, error)
	Update(ctx context.Context, record ExerciseRecord) error
	Delete(ctx context.Context, id int64) error
	ToggleFavorite(ctx context.Context, id int64, at time.Time) (*ExerciseRecord, error)
}

// Service contains catalog business logic.
type Service struct {
	repo      Repository
	publisher events.Publisher
	logger    *log.Logger
}

// Option configures service behaviour.
type Option func(*Service)

// WithLogger sets a custom logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// NewService constructs a Service. A nil publisher disables change events.
func NewService(repo Repository, publisher events.Publisher, opts ...Option) *Service {
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	s := &Service{repo: repo, publisher: publisher, logger: log.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ListExercises returns catalog records matching the filter.
func (s *Service) ListExercises(ctx context.Context, filter Filter) ([]ExerciseRecord, error) {
	if filter.Limit <= 0 {
		filter.Limit = 50
	}
	return s.repo.List(ctx, filter)
}

// GetExercise retrieves a record by id.
func (s *Service) GetExercise(ctx context.Context, id int64) (*ExerciseRecord, error) {
	record, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, ErrExerciseNotFound
	}
	return record, nil
}

// CreateExercise validates input, rejects duplicate names, and persists a new
// record. The name check is a case-sensitive exact match; the surrogate id is
// assigned by the store.
func (s *Service) CreateExercise(ctx context.Context, input ExerciseInput) (ExerciseRecord, error) {
	if err := input.Validate(); err != nil {
		return ExerciseRecord{}, err
	}

	existing, err := s.repo.FindByName(ctx, input.Name)
	if err != nil {
		return ExerciseRecord{}, err
	}
	if existing != nil {
		return ExerciseRecord{}, ErrDuplicateName
	}

	record := ExerciseRecord{
		Name:         input.Name,
		Type:         input.Type,
		Muscle:       input.Muscle,
		Equipment:    input.Equipment,
		Difficulty:   input.Difficulty,
		Instructions: input.Instructions,
		CreatedAt:    time.Now().UTC(),
	}

	created, err := s.repo.Create(ctx, record)
	if err != nil {
		return ExerciseRecord{}, err
	}

	observability.RecordExerciseMutation(created.CreatedAt)
	s.publish(ctx, events.TypeExerciseCreated, events.ExerciseChanged{
		ExerciseID: created.ID,
		Name:       created.Name,
		OccurredAt: created.CreatedAt,
	})
	return created, nil
}

// UpdateExercise replaces the mutable fields of an existing record and stamps
// its modification time.
func (s *Service) UpdateExercise(ctx context.Context, id int64, input ExerciseInput) (ExerciseRecord, error) {
	if err := input.Validate(); err != nil {
		return ExerciseRecord{}, err
	}

	record, err := s.repo.Get(ctx, id)
	if err != nil {
		return ExerciseRecord{}, err
	}
	if record == nil {
		return ExerciseRecord{}, ErrExerciseNotFound
	}

	if input.Name != record.Name {
		existing, err := s.repo.FindByName(ctx, input.Name)
		if err != nil {
			return ExerciseRecord{}, err
		}
		if existing != nil && existing.ID != id {
			return ExerciseRecord{}, ErrDuplicateName
		}
	}

	now := time.Now().UTC()
	record.Name = input.Name
	record.Type = input.Type
	record.Muscle = input.Muscle
	record.Equipment = input.Equipment
	record.Difficulty = input.Difficulty
	record.Instructions = input.Instructions
	record.LastUpdated = &now

	if err := s.repo.Update(ctx, *record); err != nil {
		return ExerciseRecord{}, err
	}

	observability.RecordExerciseMutation(now)
	s.publish(ctx, events.TypeExerciseUpdated, events.ExerciseChanged{
		ExerciseID: record.ID,
		Name:       record.Name,
		OccurredAt: now,
	})
	return *record, nil
}

// DeleteExercise removes a record.
func (s *Service) DeleteExercise(ctx context.Context, id int64) error {
	record, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if record == nil {
		return ErrExerciseNotFound
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	now := time.Now().UTC()
	observability.RecordExerciseMutation(now)
	s.publish(ctx, events.TypeExerciseDeleted, events.ExerciseChanged{
		ExerciseID: record.ID,
		Name:       record.Name,
		OccurredAt: now,
	})
	return nil
}

// ToggleFavorite inverts the favorite flag on a record and stamps its
// modification time. Toggling twice restores the original value.
func (s *Service) ToggleFavorite(ctx context.Context, id int64) (ExerciseRecord, error) {
	now := time.Now().UTC()
	record, err := s.repo.ToggleFavorite(ctx, id, now)
	if err != nil {
		return ExerciseRecord{}, err
	}
	if record == nil {
		return ExerciseRecord{}, ErrExerciseNotFound
	}

	observability.RecordExerciseMutation(now)
	s.publish(ctx, events.TypeExerciseFavorited, events.ExerciseChanged{
		ExerciseID:  record.ID,
		Name:        record.Name,
		IsFavorited: record.IsFavorited,
		OccurredAt:  now,
	})
	return *record, nil
}

// publish emits a change event. Change events are advisory; failures are
// logged and never surfaced to the caller.
func (s *Service) publish(ctx context.Context, eventType string, payload events.ExerciseChanged) {
	if err := s.publisher.Publish(ctx, eventType, payload); err != nil {
		s.logger.Printf("publish %s failed: %v", eventType, err)
	}
}
