package domain_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jtylerm/PTExerciseApp/internal/domain"
	"github.com/jtylerm/PTExerciseApp/internal/events"
	"github.com/jtylerm/PTExerciseApp/internal/persistence"
)

type capturingPublisher struct {
	types    []string
	payloads []events.ExerciseChanged
}

func (p *capturingPublisher) Publish(ctx context.Context, eventType string, payload events.ExerciseChanged) error {
	p.types = append(p.types, eventType)
	p.payloads = append(p.payloads, payload)
	return nil
}

func validInput(name string) domain.ExerciseInput {
	return domain.ExerciseInput{
		Name:         name,
		Type:         "strength",
		Muscle:       "chest",
		Equipment:    "barbell",
		Difficulty:   "intermediate",
		Instructions: "Lower the bar to your chest and press it back up.",
	}
}

func newService(t *testing.T) (*domain.Service, *capturingPublisher) {
	t.Helper()
	publisher := &capturingPublisher{}
	return domain.NewService(persistence.NewInMemoryRepository(), publisher), publisher
}

func TestCreateExerciseAssignsIDAndCreatedAt(t *testing.T) {
	service, publisher := newService(t)

	record, err := service.CreateExercise(context.Background(), validInput("Bench Press"))
	require.NoError(t, err)
	require.NotZero(t, record.ID)
	require.False(t, record.CreatedAt.IsZero())
	require.Nil(t, record.LastUpdated, "lastUpdated stays null until first update")
	require.False(t, record.IsFavorited)
	require.Equal(t, []string{events.TypeExerciseCreated}, publisher.types)
}

func TestCreateExerciseRejectsMissingFields(t *testing.T) {
	service, publisher := newService(t)

	input := validInput("Bench Press")
	input.Instructions = "  "
	_, err := service.CreateExercise(context.Background(), input)
	require.EqualError(t, err, "instructions is required")
	require.Empty(t, publisher.types, "validation must reject before any mutation")
}

func TestCreateExerciseRejectsDuplicateName(t *testing.T) {
	service, _ := newService(t)

	_, err := service.CreateExercise(context.Background(), validInput("Bench Press"))
	require.NoError(t, err)

	_, err = service.CreateExercise(context.Background(), validInput("Bench Press"))
	require.ErrorIs(t, err, domain.ErrDuplicateName)
}

func TestCreateExerciseDuplicateCheckIsCaseSensitive(t *testing.T) {
	service, _ := newService(t)

	_, err := service.CreateExercise(context.Background(), validInput("Bench Press"))
	require.NoError(t, err)

	// The duplicate check is an exact string comparison.
	_, err = service.CreateExercise(context.Background(), validInput("bench press"))
	require.NoError(t, err)
}

func TestUpdateExerciseStampsLastUpdated(t *testing.T) {
	service, _ := newService(t)

	created, err := service.CreateExercise(context.Background(), validInput("Bench Press"))
	require.NoError(t, err)

	input := validInput("Bench Press")
	input.Difficulty = "advanced"
	updated, err := service.UpdateExercise(context.Background(), created.ID, input)
	require.NoError(t, err)
	require.Equal(t, "advanced", updated.Difficulty)
	require.NotNil(t, updated.LastUpdated)
	require.Equal(t, created.CreatedAt, updated.CreatedAt, "createdAt is immutable")
}

func TestUpdateExerciseRejectsRenameOntoExistingName(t *testing.T) {
	service, _ := newService(t)

	_, err := service.CreateExercise(context.Background(), validInput("Bench Press"))
	require.NoError(t, err)
	second, err := service.CreateExercise(context.Background(), validInput("Incline Press"))
	require.NoError(t, err)

	_, err = service.UpdateExercise(context.Background(), second.ID, validInput("Bench Press"))
	require.ErrorIs(t, err, domain.ErrDuplicateName)
}

func TestUpdateExerciseNotFound(t *testing.T) {
	service, _ := newService(t)

	_, err := service.UpdateExercise(context.Background(), 42, validInput("Bench Press"))
	require.ErrorIs(t, err, domain.ErrExerciseNotFound)
}

func TestToggleFavoriteTwiceRestoresOriginal(t *testing.T) {
	service, publisher := newService(t)

	created, err := service.CreateExercise(context.Background(), validInput("Bench Press"))
	require.NoError(t, err)
	require.False(t, created.IsFavorited)

	first, err := service.ToggleFavorite(context.Background(), created.ID)
	require.NoError(t, err)
	require.True(t, first.IsFavorited)
	require.NotNil(t, first.LastUpdated)

	second, err := service.ToggleFavorite(context.Background(), created.ID)
	require.NoError(t, err)
	require.False(t, second.IsFavorited)

	require.Equal(t, []string{
		events.TypeExerciseCreated,
		events.TypeExerciseFavorited,
		events.TypeExerciseFavorited,
	}, publisher.types)
	require.True(t, publisher.payloads[1].IsFavorited)
	require.False(t, publisher.payloads[2].IsFavorited)
}

func TestToggleFavoriteUnknownIDLeavesStoreUnchanged(t *testing.T) {
	service, _ := newService(t)

	created, err := service.CreateExercise(context.Background(), validInput("Bench Press"))
	require.NoError(t, err)

	_, err = service.ToggleFavorite(context.Background(), created.ID+100)
	require.ErrorIs(t, err, domain.ErrExerciseNotFound)

	stored, err := service.GetExercise(context.Background(), created.ID)
	require.NoError(t, err)
	require.False(t, stored.IsFavorited)
	require.Nil(t, stored.LastUpdated)
}

func TestDeleteExercise(t *testing.T) {
	service, publisher := newService(t)

	created, err := service.CreateExercise(context.Background(), validInput("Bench Press"))
	require.NoError(t, err)

	require.NoError(t, service.DeleteExercise(context.Background(), created.ID))
	require.ErrorIs(t, service.DeleteExercise(context.Background(), created.ID), domain.ErrExerciseNotFound)

	_, err = service.GetExercise(context.Background(), created.ID)
	require.ErrorIs(t, err, domain.ErrExerciseNotFound)
	require.Contains(t, publisher.types, events.TypeExerciseDeleted)
}

func TestListExercisesAppliesFilter(t *testing.T) {
	service, _ := newService(t)

	for _, name := range []string{"Bench Press", "Leg Press", "Barbell Curl"} {
		input := validInput(name)
		if name == "Barbell Curl" {
			input.Muscle = "biceps"
		}
		_, err := service.CreateExercise(context.Background(), input)
		require.NoError(t, err)
	}

	items, err := service.ListExercises(context.Background(), domain.Filter{Search: "press"})
	require.NoError(t, err)
	require.Len(t, items, 2)

	items, err = service.ListExercises(context.Background(), domain.Filter{Muscle: "biceps"})
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, "Barbell Curl", items[0].Name)
}
